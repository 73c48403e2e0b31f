package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/leapstack-labs/leapquery/internal/cli/output"
	"github.com/leapstack-labs/leapquery/internal/config"
	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
	"github.com/leapstack-labs/leapquery/pkg/mapping"
	"github.com/leapstack-labs/leapquery/pkg/session"
	"github.com/leapstack-labs/leapquery/pkg/translate"
	"github.com/spf13/cobra"
)

// configKey is used to store config in context.
type configKey struct{}

// loggerKey is used to store logger in context.
type loggerKey struct{}

// WithConfig stores the loaded configuration and its logger in ctx.
func WithConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) context.Context {
	ctx = context.WithValue(ctx, configKey{}, cfg)
	return context.WithValue(ctx, loggerKey{}, logger)
}

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext reads the configuration stored by the root command.
func NewCommandContext(cmd *cobra.Command) (*CommandContext, error) {
	ctx := cmd.Context()
	cfg, ok := ctx.Value(configKey{}).(*config.Config)
	if !ok {
		return nil, fmt.Errorf("configuration not loaded")
	}
	logger, ok := ctx.Value(loggerKey{}).(*slog.Logger)
	if !ok {
		// Return discard logger as safe fallback
		logger = slog.New(slog.DiscardHandler)
	}
	mode, err := output.ParseMode(cfg.Output)
	if err != nil {
		return nil, err
	}
	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode),
	}, nil
}

// Metamodel builds the metamodel of the configured entities.
func (c *CommandContext) Metamodel() (*mapping.Metamodel, error) {
	ents, err := c.Cfg.Descriptors()
	if err != nil {
		return nil, err
	}
	mm := mapping.NewMetamodel()
	if err := mm.Replace(ents); err != nil {
		return nil, err
	}
	return mm, nil
}

// OpenFactory connects the configured target and builds a session
// factory over it. The returned cleanup closes the connection.
func (c *CommandContext) OpenFactory(ctx context.Context) (*session.Factory, func(), error) {
	mm, err := c.Metamodel()
	if err != nil {
		return nil, nil, err
	}
	adp, err := adapter.Open(ctx, c.Cfg.Target.AdapterConfig(), c.Logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() { _ = adp.Close() }

	if name := c.Cfg.Dialect.Name; name != "" && !strings.EqualFold(name, adp.Dialect().Name) {
		cleanup()
		return nil, nil, fmt.Errorf("dialect.name %q does not match target %q", name, adp.Dialect().Name)
	}

	f, err := session.NewFactory(session.Config{
		Adapter:       adp,
		Models:        mm,
		Logger:        c.Logger,
		Capabilities:  c.Cfg.Dialect.Capabilities,
		PlanCacheSize: c.Cfg.PlanCache.Size,
		PageSize:      c.Cfg.Page.Size,
		DefaultNulls:  c.Cfg.Order.Nulls,
		QueryTimeout:  c.Cfg.QueryTimeout,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	c.Logger.Debug("connected", slog.String("target", c.Cfg.Target.Type))
	return f, cleanup, nil
}

// Translator builds a translator for the configured dialect without
// connecting to a database.
func (c *CommandContext) Translator() (*translate.Translator, error) {
	mm, err := c.Metamodel()
	if err != nil {
		return nil, err
	}
	d, ok := dialect.Get(c.Cfg.DialectName())
	if !ok {
		return nil, fmt.Errorf("unknown dialect %q", c.Cfg.DialectName())
	}
	d, err = d.WithCapabilities(c.Cfg.Dialect.Capabilities)
	if err != nil {
		return nil, err
	}
	return translate.New(d, mm,
		translate.WithLogger(c.Logger),
		translate.WithDefaultNulls(c.Cfg.Order.Nulls)), nil
}
