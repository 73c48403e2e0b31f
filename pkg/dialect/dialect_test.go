package dialect

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/leapquery/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPlaceholder(t *testing.T) {
	tests := []struct {
		style core.PlaceholderStyle
		want  string
	}{
		{core.PlaceholderQuestion, "?"},
		{core.PlaceholderDollar, "$3"},
		{core.PlaceholderAtP, "@p3"},
		{core.PlaceholderColon, ":3"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			d := NewDialect("test").PlaceholderStyle(tt.style).Build()
			assert.Equal(t, tt.want, d.FormatPlaceholder(3))
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	d := NewDialect("test").
		Identifiers("[", "]", "]]", core.NormCaseInsensitive).
		WithReservedWords("order", "user").
		Build()

	assert.Equal(t, "[a]]b]", d.QuoteIdentifier("a]b"))
	assert.Equal(t, "[order]", d.QuoteIdentifierIfNeeded("ORDER"))
	assert.Equal(t, "the_int", d.QuoteIdentifierIfNeeded("the_int"))
	assert.Equal(t, "[two words]", d.QuoteIdentifierIfNeeded("two words"))
	assert.Equal(t, "[1abc]", d.QuoteIdentifierIfNeeded("1abc"))
}

func TestCapabilityQueries(t *testing.T) {
	d := NewDialect("test").
		Capabilities(core.Capabilities{
			StringAggregation:   core.Native,
			InverseDistribution: core.WindowOnly,
			AggregateFilter:     true,
		}).
		Build()

	assert.True(t, d.SupportsStringAggregation())
	assert.True(t, d.SupportsInverseDistributionFunctions())
	assert.False(t, d.SupportsHypotheticalSetFunctions())
	assert.True(t, d.SupportsAggregateFilter())
	assert.False(t, d.SupportsNullsOrdering())
	assert.False(t, d.Supports("time_travel"))
	assert.Equal(t, core.WindowOnly, d.Mode(core.AggPercentileDisc))
}

func TestWithCapabilities(t *testing.T) {
	d := NewDialect("test").
		Capabilities(core.Capabilities{StringAggregation: core.Native}).
		Build()

	overridden, err := d.WithCapabilities(map[string]string{
		core.FeatureStringAggregation: "false",
		core.FeatureNullsOrdering:     "true",
	})
	require.NoError(t, err)
	assert.False(t, overridden.SupportsStringAggregation())
	assert.True(t, overridden.SupportsNullsOrdering())

	// the registered dialect is untouched
	assert.True(t, d.SupportsStringAggregation())
	assert.False(t, d.SupportsNullsOrdering())

	same, err := d.WithCapabilities(nil)
	require.NoError(t, err)
	assert.Same(t, d, same)

	_, err = d.WithCapabilities(map[string]string{"qualify": "true"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrInvalidArgument))
}

func TestWithCapabilities_RejectsModesWithoutLowering(t *testing.T) {
	d := NewDialect("test").Build()

	for _, overrides := range []map[string]string{
		{core.FeatureStringAggregation: "window_only"},
		{core.FeatureStringAggregation: "emulated"},
		{core.FeatureHypotheticalSetFunctions: "window_only"},
	} {
		_, err := d.WithCapabilities(overrides)
		require.Error(t, err, "%v", overrides)
		assert.True(t, errors.Is(err, core.ErrInvalidArgument))
	}

	windowed, err := d.WithCapabilities(map[string]string{core.FeatureInverseDistributionFunctions: "window_only"})
	require.NoError(t, err)
	assert.Equal(t, core.WindowOnly, windowed.Capabilities().InverseDistribution)
}

func TestNullsFirstFor(t *testing.T) {
	high := NewDialect("high").DefaultNullOrdering(core.NullsHigh).Build()
	low := NewDialect("low").DefaultNullOrdering(core.NullsLow).Build()

	assert.False(t, high.NullsFirstFor(false))
	assert.True(t, high.NullsFirstFor(true))
	assert.True(t, low.NullsFirstFor(false))
	assert.False(t, low.NullsFirstFor(true))
}

func TestRegistry(t *testing.T) {
	d := NewDialect("Registry_Test").Build()
	Register(d)

	got, ok := Get("registry_test")
	require.True(t, ok)
	assert.Same(t, d, got)
	assert.Contains(t, List(), "registry_test")

	_, ok = Get("nope")
	assert.False(t, ok)
}

func TestDescribe(t *testing.T) {
	Register(NewDialect("describe_test").
		PlaceholderStyle(core.PlaceholderDollar).
		DefaultNullOrdering(core.NullsLow).
		Capabilities(core.Capabilities{
			StringAggregation: core.Native,
			HypotheticalSet:   core.Emulated,
			NullsOrdering:     true,
		}).
		Build())

	var got *Info
	for _, info := range Describe() {
		if info.Name == "describe_test" {
			got = &info
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, Info{
		Name:                "describe_test",
		StringAggregation:   "native",
		InverseDistribution: "unsupported",
		HypotheticalSet:     "emulated",
		NullsOrdering:       true,
		DefaultNulls:        "low",
		Placeholder:         "$1",
	}, *got)
}
