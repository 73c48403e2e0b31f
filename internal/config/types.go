// Package config loads LeapQuery configuration.
//
// Values are layered, lowest precedence first: built-in defaults, the
// leapquery.yaml file, LEAPQUERY_* environment variables and command-line
// flags. Nested keys in environment variables use a double underscore:
// LEAPQUERY_TARGET__PASSWORD sets target.password.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leapquery/pkg/adapter"
	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/leapstack-labs/leapquery/pkg/dialect"
)

// Config holds all configuration options.
type Config struct {
	Target       TargetConfig    `koanf:"target"`
	Dialect      DialectConfig   `koanf:"dialect"`
	Page         PageConfig      `koanf:"page"`
	Order        OrderConfig     `koanf:"order"`
	PlanCache    PlanCacheConfig `koanf:"plan_cache"`
	QueryTimeout time.Duration   `koanf:"query_timeout"`
	Log          LogConfig       `koanf:"log"`
	Server       ServerConfig    `koanf:"server"`
	Entities     []EntityConfig  `koanf:"entities"`
	Output       string          `koanf:"output"`
	Verbose      bool            `koanf:"verbose"`

	// File is the configuration file that was read, if any.
	File string `koanf:"-"`
}

// TargetConfig holds database target configuration.
type TargetConfig struct {
	Type string `koanf:"type"` // sqlite, duckdb, postgres, mysql, sqlserver, oracle

	// File path for embedded databases, database name otherwise
	Database string `koanf:"database"`

	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`

	// Additional driver-specific options
	Options map[string]string `koanf:"options"`

	// Params holds adapter-specific configuration (e.g., DuckDB extensions, settings)
	Params map[string]any `koanf:"params"`
}

// AdapterConfig converts the target into the adapter connection settings.
func (t TargetConfig) AdapterConfig() adapter.Config {
	return core.AdapterConfig{
		Type:     t.Type,
		Path:     t.Database,
		Host:     t.Host,
		Port:     t.Port,
		Database: t.Database,
		Username: t.User,
		Password: t.Password,
		Options:  t.Options,
		Params:   t.Params,
	}
}

// Validate checks the target against the adapter registry.
func (t TargetConfig) Validate() error {
	if t.Type == "" {
		return fmt.Errorf("target type is required")
	}
	if !adapter.IsRegistered(strings.ToLower(t.Type)) {
		return &adapter.UnknownAdapterError{
			Type:      t.Type,
			Available: adapter.ListAdapters(),
		}
	}
	return nil
}

// DialectConfig selects and tunes the SQL dialect.
type DialectConfig struct {
	// Name selects the dialect for commands that translate without
	// connecting. Empty means the target's dialect.
	Name string `koanf:"name"`
	// Capabilities overrides capability flags, e.g. aggregate_filter: false.
	Capabilities map[string]string `koanf:"capabilities"`
}

// PageConfig holds paging defaults.
type PageConfig struct {
	Size int `koanf:"size"`
}

// OrderConfig holds ordering defaults.
type OrderConfig struct {
	// Nulls applies to order terms that do not name a null precedence.
	Nulls core.NullPrecedence `koanf:"nulls"`
}

// PlanCacheConfig sizes the parsed-query cache.
type PlanCacheConfig struct {
	Size int `koanf:"size"`
}

// LogConfig selects the log handler.
type LogConfig struct {
	Level  string `koanf:"level"`  // debug, info, warn, error
	Format string `koanf:"format"` // text, json
}

// ServerConfig holds HTTP API settings.
type ServerConfig struct {
	Addr  string `koanf:"addr"`
	Watch bool   `koanf:"watch"`
}

// EntityConfig declares an entity read as mapping.Record.
type EntityConfig struct {
	Name       string            `koanf:"name"`
	Table      string            `koanf:"table"`
	ID         string            `koanf:"id"`
	Attributes []AttributeConfig `koanf:"attributes"`
}

// AttributeConfig declares one attribute of a configured entity.
type AttributeConfig struct {
	Name     string `koanf:"name"`
	Column   string `koanf:"column"`
	Type     string `koanf:"type"`
	Nullable bool   `koanf:"nullable"`
}

// Entity converts the declaration into a validated descriptor. The
// identifier defaults to "id" and columns default to attribute names.
func (e EntityConfig) Entity() (core.Entity, error) {
	ent := core.Entity{Name: e.Name, Table: e.Table, ID: e.ID}
	if ent.Table == "" {
		ent.Table = strings.ToLower(e.Name)
	}
	if ent.ID == "" {
		ent.ID = "id"
	}
	for _, a := range e.Attributes {
		t, err := core.ParseAttrType(a.Type)
		if err != nil {
			return core.Entity{}, fmt.Errorf("entity %s attribute %s: %w", e.Name, a.Name, err)
		}
		col := a.Column
		if col == "" {
			col = a.Name
		}
		ent.Attributes = append(ent.Attributes, core.Attribute{
			Name:     a.Name,
			Column:   col,
			Type:     t,
			Nullable: a.Nullable,
		})
	}
	if err := ent.Validate(); err != nil {
		return core.Entity{}, err
	}
	return ent, nil
}

// DialectName returns the dialect commands translate for: dialect.name
// when set, the target type otherwise.
func (c *Config) DialectName() string {
	if c.Dialect.Name != "" {
		return strings.ToLower(c.Dialect.Name)
	}
	return strings.ToLower(c.Target.Type)
}

// Validate checks the loaded configuration.
func (c *Config) Validate() error {
	if err := c.Target.Validate(); err != nil {
		return fmt.Errorf("invalid target configuration: %w", err)
	}
	if _, ok := dialect.Get(c.DialectName()); !ok {
		return fmt.Errorf("unknown dialect %q (available: %s)", c.DialectName(), strings.Join(dialect.List(), ", "))
	}
	if c.Page.Size <= 0 {
		return fmt.Errorf("page.size must be positive, got %d", c.Page.Size)
	}
	if c.QueryTimeout < 0 {
		return fmt.Errorf("query_timeout must not be negative")
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}
	seen := map[string]bool{}
	for _, e := range c.Entities {
		if seen[strings.ToLower(e.Name)] {
			return fmt.Errorf("entity %s is declared twice", e.Name)
		}
		seen[strings.ToLower(e.Name)] = true
		if _, err := e.Entity(); err != nil {
			return err
		}
	}
	return nil
}

// Descriptors converts every declared entity.
func (c *Config) Descriptors() ([]core.Entity, error) {
	out := make([]core.Entity, 0, len(c.Entities))
	for _, e := range c.Entities {
		ent, err := e.Entity()
		if err != nil {
			return nil, err
		}
		out = append(out, ent)
	}
	return out, nil
}
