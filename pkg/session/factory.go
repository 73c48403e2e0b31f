// Package session executes entity queries against a database adapter.
//
// A Factory binds an adapter, its dialect and the metamodel; it is shared
// and safe for concurrent use. Sessions opened from it are single-threaded
// units of work. Queries are created with Select and run with List,
// SingleResult or KeyedResultList:
//
//	people, err := session.Select[Person](s, "from Person p where p.lastName = :name").
//		SetParameter("name", "Doe").
//		KeyedResultList(ctx, paging.First(5).KeyedBy(paging.Asc("Person", "ssn")))
package session

import (
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
	"github.com/leapstack-labs/leapquery/pkg/mapping"
	"github.com/leapstack-labs/leapquery/pkg/parser"
	"github.com/leapstack-labs/leapquery/pkg/translate"
)

// DefaultPlanCacheSize is the number of parsed queries a factory keeps.
const DefaultPlanCacheSize = 256

// DefaultPageSize is the page size used when none is configured.
const DefaultPageSize = 20

// Config holds factory configuration.
type Config struct {
	// Adapter is the connected execution port (required)
	Adapter adapter.Adapter
	// Models resolves entities (required)
	Models *mapping.Metamodel
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger

	// Capabilities overrides entries of the dialect's capability record,
	// e.g. {"aggregate_filter": "false"} (dialect.capabilities.*).
	Capabilities map[string]string
	// PlanCacheSize bounds the parsed-query cache; negative disables it.
	PlanCacheSize int
	// PageSize is the default page size for callers that take one from
	// configuration (page.size).
	PageSize int
	// DefaultNulls applies to order terms without explicit null
	// precedence (order.nulls).
	DefaultNulls core.NullPrecedence
	// QueryTimeout bounds each statement; zero means no timeout.
	QueryTimeout time.Duration
}

// Factory creates sessions. It is immutable after construction.
type Factory struct {
	adapter    adapter.Adapter
	dialect    *dialect.Dialect
	models     *mapping.Metamodel
	translator *translate.Translator
	plans      *lru.Cache[string, *core.Query]
	logger     *slog.Logger
	pageSize   int
	timeout    time.Duration
}

// NewFactory validates cfg and builds a factory.
func NewFactory(cfg Config) (*Factory, error) {
	if cfg.Adapter == nil {
		return nil, core.NewInvalidArgument("session factory", "adapter is required")
	}
	if cfg.Models == nil {
		return nil, core.NewInvalidArgument("session factory", "metamodel is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	d := cfg.Adapter.Dialect()
	if d == nil {
		return nil, dialect.ErrDialectRequired
	}
	d, err := d.WithCapabilities(cfg.Capabilities)
	if err != nil {
		return nil, err
	}

	f := &Factory{
		adapter:  cfg.Adapter,
		dialect:  d,
		models:   cfg.Models,
		logger:   logger.With(slog.String("dialect", d.Name)),
		pageSize: cfg.PageSize,
		timeout:  cfg.QueryTimeout,
	}
	if f.pageSize <= 0 {
		f.pageSize = DefaultPageSize
	}
	f.translator = translate.New(d, cfg.Models,
		translate.WithLogger(f.logger),
		translate.WithDefaultNulls(cfg.DefaultNulls))

	size := cfg.PlanCacheSize
	if size == 0 {
		size = DefaultPlanCacheSize
	}
	if size > 0 {
		f.plans, err = lru.New[string, *core.Query](size)
		if err != nil {
			return nil, fmt.Errorf("creating plan cache: %w", err)
		}
	}

	f.logger.Debug("session factory ready",
		slog.Int("entities", len(cfg.Models.Entities())),
		slog.Int("plan_cache", size))
	return f, nil
}

// Dialect returns the effective dialect, with capability overrides applied.
func (f *Factory) Dialect() *dialect.Dialect { return f.dialect }

// Models returns the metamodel.
func (f *Factory) Models() *mapping.Metamodel { return f.models }

// PageSize returns the configured default page size.
func (f *Factory) PageSize() int { return f.pageSize }

// Parse parses hql, consulting the plan cache. The returned query is
// shared and must not be modified.
func (f *Factory) Parse(hql string) (*core.Query, error) {
	if f.plans != nil {
		if q, ok := f.plans.Get(hql); ok {
			return q, nil
		}
	}
	q, err := parser.Parse(hql)
	if err != nil {
		return nil, err
	}
	if f.plans != nil {
		f.plans.Add(hql, q)
	}
	return q, nil
}

// Translate parses and translates hql without executing it.
func (f *Factory) Translate(hql string) (*translate.Statement, error) {
	q, err := f.Parse(hql)
	if err != nil {
		return nil, err
	}
	return f.translator.Translate(q)
}
