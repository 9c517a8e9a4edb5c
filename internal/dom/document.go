package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/saintfish/chardet"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxHTMLSize limits HTML input to 10MB to prevent memory exhaustion
const MaxHTMLSize = 10 * 1024 * 1024

var (
	ErrEmptyDocument = errors.New("html content required")
	ErrTooLarge      = errors.New("html exceeds maximum size")
)

// Document is a parsed HTML document.
type Document struct {
	doc *goquery.Document
}

// Parse reads HTML from r.
func Parse(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}
	return &Document{doc: doc}, nil
}

// ParseString parses an HTML string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// ValidateHTML checks HTML size and returns error if too large
func ValidateHTML(data []byte, maxSize int) error {
	if len(data) == 0 {
		return ErrEmptyDocument
	}
	if maxSize > 0 && len(data) > maxSize {
		return fmt.Errorf("%w of %d bytes", ErrTooLarge, maxSize)
	}
	return nil
}

// DetectCharset detects and returns charset from HTML bytes
func DetectCharset(data []byte) string {
	detector := chardet.NewTextDetector()
	result, err := detector.DetectBest(data)
	if err != nil || result == nil {
		return "utf-8"
	}
	return strings.ToLower(result.Charset)
}

// Load parses raw bytes with automatic charset detection.
func Load(data []byte) (*Document, error) {
	return LoadLimited(data, MaxHTMLSize)
}

// LoadLimited is Load with an explicit size limit; maxSize <= 0 disables it.
func LoadLimited(data []byte, maxSize int) (*Document, error) {
	if err := ValidateHTML(data, maxSize); err != nil {
		return nil, err
	}

	detected := DetectCharset(data)

	utf8Reader, err := charset.NewReader(bytes.NewReader(data), "text/html; charset="+detected)
	if err != nil {
		// Fallback to direct parsing
		return Parse(bytes.NewReader(data))
	}

	return Parse(utf8Reader)
}

// Root returns the document node as an Element.
func (d *Document) Root() Element {
	if d == nil || d.doc == nil || len(d.doc.Nodes) == 0 {
		return nil
	}
	return Wrap(d.doc.Nodes[0])
}

// OuterHTML renders e including its own tag.
func OuterHTML(e Element) (string, error) {
	n, ok := HTMLNode(e)
	if !ok {
		return "", fmt.Errorf("outer html: element %v is not backed by an html node", e)
	}
	if n.Type == html.DocumentNode {
		var buf bytes.Buffer
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
		return buf.String(), nil
	}
	return goquery.OuterHtml(goquery.NewDocumentFromNode(n).Selection)
}

// InnerHTML renders the children of e.
func InnerHTML(e Element) (string, error) {
	n, ok := HTMLNode(e)
	if !ok {
		return "", fmt.Errorf("inner html: element %v is not backed by an html node", e)
	}
	return goquery.NewDocumentFromNode(n).Html()
}
