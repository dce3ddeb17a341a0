package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/meikuraledutech/crewflow/server"
)

func newServeCommand(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the flow editor HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			logger, err := cfg.Log.NewLogger(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			store, release, err := openStore(ctx, cfg.Store)
			if err != nil {
				return err
			}
			defer release()
			logger.Info("Store ready", slog.String("driver", cfg.Store.Driver))

			srv := server.New(store, logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Listen(cfg.Server.Addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("Shutting down")
			return srv.Shutdown()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "override server.addr")
	return cmd
}
