package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sewcio543/soupsavvy-sub002/internal/config"
	"github.com/sewcio543/soupsavvy-sub002/internal/logging"
	"github.com/sewcio543/soupsavvy-sub002/internal/source"
)

// app holds what every command shares once flags and environment are merged.
type app struct {
	cfg      *config.Config
	logger   *logging.Logger
	loader   *source.Loader
	registry *prometheus.Registry
	runID    string

	logLevel   string
	dev        bool
	pretty     bool
	maxBytes   int
	timeout    time.Duration
	metricsOut string
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "soupsavvy",
		Short:         "Select and extract data from HTML documents",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.teardown()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides LOG_LEVEL")
	flags.BoolVar(&a.dev, "dev", false, "human readable debug logs; overrides LOG_DEV")
	flags.BoolVar(&a.pretty, "pretty", false, "indent JSON output; overrides OUTPUT_PRETTY")
	flags.IntVar(&a.maxBytes, "max-bytes", 0, "maximum document size in bytes; overrides SOURCE_MAX_BYTES")
	flags.DurationVar(&a.timeout, "timeout", 0, "HTTP fetch timeout; overrides SOURCE_TIMEOUT")
	flags.StringVar(&a.metricsOut, "metrics-out", "", "write prometheus metrics to this file when the command ends")

	root.AddCommand(newSelectCmd(a), newExtractCmd(a), newServeCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Logging.Level = a.logLevel
	}
	if flags.Changed("dev") {
		cfg.Logging.Development = a.dev
	}
	if flags.Changed("pretty") {
		cfg.Output.Pretty = a.pretty
	}
	if flags.Changed("max-bytes") {
		cfg.Source.MaxBytes = a.maxBytes
	}
	if flags.Changed("timeout") {
		cfg.Source.Timeout = a.timeout
	}
	a.cfg = cfg

	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	if cfg.Logging.Level != "" {
		logCfg.Level = cfg.Logging.Level
	}
	logger, err := logging.New(logCfg)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	a.runID = uuid.NewString()
	a.logger = logger.With(zap.String("run_id", a.runID), zap.String("command", cmd.Name()))
	a.registry = prometheus.NewRegistry()
	a.loader = source.NewLoader(source.OptionsFrom(cfg.Source), a.logger).
		WithMetrics(source.NewMetrics(a.registry))
	return nil
}

func (a *app) teardown() error {
	defer func() { _ = a.logger.Sync() }()
	if a.metricsOut == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(a.metricsOut, a.registry); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}

// documents loads refs, or stdin when no refs are given.
func (a *app) documents(ctx context.Context, in io.Reader, refs []string) ([]*source.Document, error) {
	if len(refs) == 0 {
		doc, err := a.loader.LoadReader("-", in)
		if err != nil {
			return nil, err
		}
		return []*source.Document{doc}, nil
	}
	return a.loader.LoadAll(ctx, refs...)
}

// emit writes v as one JSON document.
func (a *app) emit(w io.Writer, v any) error {
	var (
		data []byte
		err  error
	)
	if a.cfg.Output.Pretty {
		data, err = sonic.ConfigDefault.MarshalIndent(v, "", "  ")
	} else {
		data, err = sonic.Marshal(v)
	}
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = w.Write(data)
	return err
}
