package main

import (
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/sewcio543/soupsavvy-sub002/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr       string
		allowFetch bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve selection and extraction over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := server.ConfigFrom(a.cfg)
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("allow-fetch") {
				cfg.AllowFetch = allowFetch
			}

			a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			srv := server.New(cfg, a.loader, a.logger, a.registry)
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address; overrides SERVER_ADDR")
	cmd.Flags().BoolVar(&allowFetch, "allow-fetch", false, "let clients name http(s) urls to load; overrides SERVER_ALLOW_FETCH")
	return cmd
}
