package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/internal/server"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/spf13/cobra"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve configured entities over HTTP",
		Long: `Start an HTTP server exposing the configured entities.

Endpoints:
  GET  /healthz                 Liveness and active dialect
  GET  /api/entities            Entity declarations
  GET  /api/entities/{entity}   One keyset page (where, order, size, cursor)
  POST /api/query               Run {"hql": ..., "params": {...}}
  GET  /api/dialects            Dialect capability matrix
  GET  /api/events              Server-sent reload events

With --watch, editing leapquery.yaml reloads the entity declarations
without restarting.`,
		Example: `  leapquery serve --addr :9000 --watch
  curl 'localhost:9000/api/entities/Person?order=dob:desc,id&size=5'`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", config.DefaultServerAddr, "Listen address")
	cmd.Flags().Bool("watch", false, "Reload entities when the config file changes")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cmdCtx, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	f, cleanup, err := cmdCtx.OpenFactory(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	cfgFile := cmdCtx.Cfg.File
	srv := server.New(server.Config{
		Factory:    f,
		Addr:       cmdCtx.Cfg.Server.Addr,
		ConfigFile: cfgFile,
		Watch:      cmdCtx.Cfg.Server.Watch,
		Reload: func() ([]core.Entity, error) {
			cfg, err := config.Load(cfgFile, nil)
			if err != nil {
				return nil, err
			}
			return cfg.Descriptors()
		},
		Logger: cmdCtx.Logger,
	})

	if cmdCtx.Cfg.Server.Watch && cfgFile == "" {
		cmdCtx.Renderer.Status(cmdCtx.Renderer.Styles().Warning, "--watch ignored: no config file in use")
	}
	cmdCtx.Renderer.Status(cmdCtx.Renderer.Styles().Success, "Serving %d entities on %s", len(f.Models().Entities()), cmdCtx.Cfg.Server.Addr)

	if err := srv.Serve(ctx); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
