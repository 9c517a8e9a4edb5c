package source

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charlievieth/fastwalk"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sewcio543/soupsavvy-sub002/internal/config"
	"github.com/sewcio543/soupsavvy-sub002/internal/dom"
	"github.com/sewcio543/soupsavvy-sub002/internal/logging"
)

var (
	ErrTooLarge        = errors.New("document exceeds maximum size")
	ErrUnsupportedType = errors.New("unsupported document type")
	ErrNoMatches       = errors.New("reference matched no documents")
	ErrFetch           = errors.New("fetch failed")
)

// Extensions picked up when a directory is walked.
var Extensions = []string{".html", ".htm", ".xhtml"}

const (
	kindFile = "file"
	kindURL  = "url"
	kindGzip = "gzip"
	kindRead = "reader"
)

// Options configures a Loader.
type Options struct {
	MaxBytes  int // <= 0 disables the limit
	Timeout   time.Duration
	Retries   int
	RPS       float64 // <= 0 means unlimited
	UserAgent string
	Breaker   BreakerSettings
}

// DefaultOptions mirrors config.Default().Source.
func DefaultOptions() Options {
	return OptionsFrom(config.Default().Source)
}

// OptionsFrom converts environment configuration into loader options.
func OptionsFrom(cfg config.SourceConfig) Options {
	return Options{
		MaxBytes:  cfg.MaxBytes,
		Timeout:   cfg.Timeout,
		Retries:   cfg.Retries,
		RPS:       cfg.RPS,
		UserAgent: cfg.UserAgent,
	}
}

// Document is a parsed document together with the reference it came from.
type Document struct {
	*dom.Document
	Ref string
}

// Loader turns references (paths, globs, directories, URLs) into documents.
// It is safe for concurrent use.
type Loader struct {
	opts     Options
	client   *resty.Client
	limiter  *rate.Limiter
	circuits *circuits
	logger   *logging.Logger
	metrics  *Metrics
}

// NewLoader builds a loader. A nil logger discards logs.
func NewLoader(opts Options, logger *logging.Logger) *Loader {
	l := &Loader{
		opts:   opts,
		logger: logging.OrNop(logger).Named("source"),
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = max(opts.Retries, 0)
	retryClient.RetryWaitMin = 200 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = leveled{l.logger.Sugar()}
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	l.client = resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.5")
	if opts.UserAgent != "" {
		l.client.SetHeader("User-Agent", opts.UserAgent)
	}

	limit := rate.Inf
	if opts.RPS > 0 {
		limit = rate.Limit(opts.RPS)
	}
	l.limiter = rate.NewLimiter(limit, 1)

	settings := opts.Breaker
	notify := settings.OnStateChange
	settings.OnStateChange = func(host string, from, to CircuitState) {
		l.logger.Warn("host circuit changed",
			zap.String("host", host),
			zap.Stringer("from", from),
			zap.Stringer("to", to),
		)
		if l.metrics != nil {
			l.metrics.CircuitTrips.WithLabelValues(to.String()).Inc()
		}
		if notify != nil {
			notify(host, from, to)
		}
	}
	l.circuits = newCircuits(settings)
	return l
}

// WithMetrics attaches prometheus metrics and returns l.
func (l *Loader) WithMetrics(m *Metrics) *Loader {
	l.metrics = m
	return l
}

// Circuit reports the circuit state kept for host.
func (l *Loader) Circuit(host string) CircuitState {
	return l.circuits.get(host).State()
}

// Resolve expands references into an ordered list of loadable references
// without duplicates. URLs and plain files pass through; directories are
// walked for HTML files and doublestar globs are expanded.
func (l *Loader) Resolve(ctx context.Context, refs ...string) ([]string, error) {
	var out []string
	seen := make(map[string]bool)
	add := func(ref string) {
		if !seen[ref] {
			seen[ref] = true
			out = append(out, ref)
		}
	}

	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if isURL(ref) {
			add(ref)
			continue
		}

		var matches []string
		var err error
		if isGlob(ref) {
			matches, err = l.glob(ref)
		} else {
			matches, err = l.expandPath(ctx, ref)
		}
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s", ErrNoMatches, ref)
		}
		for _, m := range matches {
			add(m)
		}
	}
	return out, nil
}

func (l *Loader) glob(pattern string) ([]string, error) {
	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", pattern, err)
	}
	slices.Sort(matches)
	return matches, nil
}

func (l *Loader) expandPath(ctx context.Context, path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	var (
		mu    sync.Mutex
		found []string
	)
	conf := fastwalk.Config{Follow: false}
	err = fastwalk.Walk(&conf, path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !hasHTMLExtension(p) {
			return nil
		}
		mu.Lock()
		found = append(found, p)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", path, err)
	}
	slices.Sort(found)
	l.logger.Debug("directory walked", zap.String("dir", path), zap.Int("documents", len(found)))
	return found, nil
}

// Load reads and parses a single reference: a URL, a file or a gzipped file.
func (l *Loader) Load(ctx context.Context, ref string) (*Document, error) {
	var (
		data []byte
		kind string
		err  error
	)
	switch {
	case isURL(ref):
		kind = kindURL
		data, err = l.fetch(ctx, ref)
	case strings.HasSuffix(ref, ".gz"):
		kind = kindGzip
		data, err = l.readFile(ref, true)
	default:
		kind = kindFile
		data, err = l.readFile(ref, false)
	}
	if err == nil {
		err = sniff(ref, data)
	}

	var doc *dom.Document
	if err == nil {
		doc, err = dom.LoadLimited(data, 0)
	}
	l.metrics.loaded(kind, len(data), err)
	if err != nil {
		l.logger.Debug("document rejected", zap.String("ref", ref), zap.Error(err))
		return nil, err
	}

	l.logger.Debug("document loaded",
		zap.String("ref", ref),
		zap.String("kind", kind),
		zap.Int("bytes", len(data)),
	)
	return &Document{Document: doc, Ref: ref}, nil
}

// LoadReader parses a document from r, applying the same limits as Load.
func (l *Loader) LoadReader(name string, r io.Reader) (*Document, error) {
	data, err := l.readLimited(name, r)
	if err == nil {
		err = sniff(name, data)
	}
	var doc *dom.Document
	if err == nil {
		doc, err = dom.LoadLimited(data, 0)
	}
	l.metrics.loaded(kindRead, len(data), err)
	if err != nil {
		return nil, err
	}
	return &Document{Document: doc, Ref: name}, nil
}

// LoadAll resolves refs and loads every document in order, stopping at the
// first failure.
func (l *Loader) LoadAll(ctx context.Context, refs ...string) ([]*Document, error) {
	resolved, err := l.Resolve(ctx, refs...)
	if err != nil {
		return nil, err
	}

	docs := make([]*Document, 0, len(resolved))
	for _, ref := range resolved {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		doc, err := l.Load(ctx, ref)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	l.logger.Info("documents loaded", zap.Int("count", len(docs)))
	return docs, nil
}

func (l *Loader) readFile(path string, gzipped bool) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	if gzipped {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnsupportedType, path, err)
		}
		defer gz.Close()
		r = gz
	}
	return l.readLimited(path, r)
}

func (l *Loader) readLimited(ref string, r io.Reader) ([]byte, error) {
	if l.opts.MaxBytes <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, int64(l.opts.MaxBytes)+1))
	if err != nil {
		return nil, err
	}
	if len(data) > l.opts.MaxBytes {
		return nil, fmt.Errorf("%w: %s is over %d bytes", ErrTooLarge, ref, l.opts.MaxBytes)
	}
	return data, nil
}

func (l *Loader) fetch(ctx context.Context, ref string) ([]byte, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	if err := l.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit error: %w", err)
	}

	circuit := l.circuits.get(u.Host)
	generation, err := circuit.admit()
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, u.Host, err)
	}

	start := time.Now()
	resp, err := l.client.R().
		SetContext(ctx).
		SetDoNotParseResponse(true).
		Get(ref)
	if l.metrics != nil {
		l.metrics.FetchDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		circuit.done(generation, false)
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, ref, err)
	}
	body := resp.RawBody()
	defer body.Close()

	status := resp.StatusCode()
	circuit.done(generation, status < 500)
	if status >= 400 {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetch, ref, status)
	}
	return l.readLimited(ref, body)
}

// sniff rejects binary content before it reaches the parser.
func sniff(ref string, data []byte) error {
	if len(data) == 0 {
		return nil
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("text/plain") || m.Is("text/html") || m.Is("text/xml") || m.Is("application/xhtml+xml") {
			return nil
		}
	}
	if strings.HasPrefix(mt.String(), "text/") {
		return nil
	}
	return fmt.Errorf("%w: %s is %s", ErrUnsupportedType, ref, mt.String())
}

func isURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func isGlob(ref string) bool {
	return strings.ContainsAny(ref, "*?[{")
}

func hasHTMLExtension(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(Extensions, ext)
}

// leveled adapts zap to retryablehttp's logger interface.
type leveled struct {
	s *zap.SugaredLogger
}

func (l leveled) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l leveled) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l leveled) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l leveled) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }

var _ retryablehttp.LeveledLogger = leveled{}

// LoadBytes parses in-memory markup under name.
func (l *Loader) LoadBytes(name string, data []byte) (*Document, error) {
	return l.LoadReader(name, bytes.NewReader(data))
}
