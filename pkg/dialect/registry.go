package dialect

import (
	"errors"
	"sort"
	"strings"
	"sync"
)

// Dialect registry
var (
	dialectsMu sync.RWMutex
	dialects   = make(map[string]*Dialect)
)

// ErrDialectRequired is returned when a dialect is required but not provided.
var ErrDialectRequired = errors.New("dialect is required")

// Get returns a dialect by name.
func Get(name string) (*Dialect, bool) {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	d, ok := dialects[strings.ToLower(name)]
	return d, ok
}

// Register registers a dialect in the global registry.
// Called by dialect implementations in their init() functions.
func Register(d *Dialect) {
	dialectsMu.Lock()
	defer dialectsMu.Unlock()
	dialects[strings.ToLower(d.Name)] = d
}

// List returns all registered dialect names (sorted).
func List() []string {
	dialectsMu.RLock()
	defer dialectsMu.RUnlock()
	names := make([]string, 0, len(dialects))
	for name := range dialects {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Info summarizes a registered dialect for listings.
type Info struct {
	Name                string `json:"name" yaml:"name"`
	StringAggregation   string `json:"string_aggregation" yaml:"string_aggregation"`
	InverseDistribution string `json:"inverse_distribution_functions" yaml:"inverse_distribution_functions"`
	HypotheticalSet     string `json:"hypothetical_set_functions" yaml:"hypothetical_set_functions"`
	AggregateFilter     bool   `json:"aggregate_filter" yaml:"aggregate_filter"`
	NullsOrdering       bool   `json:"nulls_ordering" yaml:"nulls_ordering"`
	DefaultNulls        string `json:"default_nulls" yaml:"default_nulls"`
	Placeholder         string `json:"placeholder" yaml:"placeholder"`
}

// Describe summarizes every registered dialect, sorted by name.
func Describe() []Info {
	names := List()
	out := make([]Info, 0, len(names))
	for _, name := range names {
		d, _ := Get(name)
		c := d.Capabilities()
		out = append(out, Info{
			Name:                d.Name,
			StringAggregation:   c.StringAggregation.String(),
			InverseDistribution: c.InverseDistribution.String(),
			HypotheticalSet:     c.HypotheticalSet.String(),
			AggregateFilter:     c.AggregateFilter,
			NullsOrdering:       c.NullsOrdering,
			DefaultNulls:        d.NullOrdering.String(),
			Placeholder:         d.FormatPlaceholder(1),
		})
	}
	return out
}
