package option_test

import (
	"testing"

	"github.com/stratdsl/compiler/issue"
	"github.com/stratdsl/compiler/option"
	"github.com/stratdsl/compiler/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(f float64) *float64 { return &f }

func TestParseOption_IntegerClampAndTruncate(t *testing.T) {
	spec := registry.OptionSpec{ID: "period", Kind: registry.KindInteger, Min: ptr(1), Max: ptr(100)}
	v, err := option.ParseOption(option.NumberValue(250.7), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Equal(t, 100.0, v.Number)

	v, err = option.ParseOption(option.NumberValue(-5), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Equal(t, 1.0, v.Number)

	v, err = option.ParseOption(option.NumberValue(14.9), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Equal(t, 14.0, v.Number)
}

func TestParseOption_DecimalClampNoTruncate(t *testing.T) {
	spec := registry.OptionSpec{ID: "threshold", Kind: registry.KindDecimal, Min: ptr(0), Max: ptr(1)}
	v, err := option.ParseOption(option.NumberValue(0.755), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Equal(t, 0.755, v.Number)
}

func TestParseOption_BooleanRejectsWrongKind(t *testing.T) {
	spec := registry.OptionSpec{ID: "enabled", Kind: registry.KindBoolean}
	_, err := option.ParseOption(option.TextValue("true"), spec, registry.ComponentMetadata{})
	require.NotNil(t, err)
	assert.Equal(t, "enabled", err.OptionID)
}

func TestParseOption_Select(t *testing.T) {
	spec := registry.OptionSpec{ID: "mode", Kind: registry.KindSelect, SelectValues: []string{"fast", "slow"}}
	v, err := option.ParseOption(option.TextValue("fast"), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Equal(t, "fast", v.Text)

	_, err = option.ParseOption(option.TextValue("medium"), spec, registry.ComponentMetadata{})
	require.NotNil(t, err)
	assert.Equal(t, issue.CodeOptionValueOutOfRange, err.Code)
}

func TestParseOption_Time(t *testing.T) {
	spec := registry.OptionSpec{ID: "open", Kind: registry.KindTime}
	v, err := option.ParseOption(option.TextValue("09:30"), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Equal(t, option.TimeOfDay{Hour: 9, Minute: 30, Second: 0}, v.Time)

	v, err = option.ParseOption(option.TextValue("09:30:15"), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Equal(t, option.TimeOfDay{Hour: 9, Minute: 30, Second: 15}, v.Time)

	_, err = option.ParseOption(option.TextValue("not-a-time"), spec, registry.ComponentMetadata{})
	require.NotNil(t, err)
}

func TestParseOption_NumericList(t *testing.T) {
	spec := registry.OptionSpec{ID: "levels", Kind: registry.KindNumericList}
	v, err := option.ParseOption(option.SequenceValue([]option.Value{option.NumberValue(1), option.NumberValue(2)}), spec, registry.ComponentMetadata{})
	require.Nil(t, err)
	assert.Len(t, v.Sequence, 2)

	_, err = option.ParseOption(option.SequenceValue([]option.Value{option.TextValue("x")}), spec, registry.ComponentMetadata{})
	require.NotNil(t, err)
}

func TestParseOption_SqlStatementValidatesSlots(t *testing.T) {
	spec := registry.OptionSpec{ID: "query", Kind: registry.KindSqlStatement}
	comp := registry.ComponentMetadata{Outputs: []registry.IOSpec{{ID: "out"}}}

	v, err := option.ParseOption(option.TextValue("select SLOT from t"), spec, comp)
	require.Nil(t, err)
	assert.Equal(t, "select SLOT from t", v.Sql)

	_, err = option.ParseOption(option.TextValue("select SLOT1 from t"), spec, comp)
	require.NotNil(t, err)
	assert.Equal(t, issue.CodeInvalidOptionReference, err.Code)
}

func TestResolveOptions_Defaults(t *testing.T) {
	comp := registry.ComponentMetadata{
		Name: "sma",
		Options: []registry.OptionSpec{
			{ID: "period", Kind: registry.KindInteger, Required: true, Default: 14.0, Min: ptr(1), Max: ptr(10000)},
		},
	}
	resolved, errs := option.ResolveOptions(map[string]option.Value{}, comp)
	require.Empty(t, errs)
	assert.Equal(t, 14.0, resolved["period"].Number)
}

func TestResolveOptions_MissingRequiredNoDefault(t *testing.T) {
	comp := registry.ComponentMetadata{
		Name:    "sma",
		Options: []registry.OptionSpec{{ID: "period", Kind: registry.KindInteger, Required: true}},
	}
	_, errs := option.ResolveOptions(map[string]option.Value{}, comp)
	require.Len(t, errs, 1)
	assert.Equal(t, issue.CodeMissingRequiredOption, errs[0].Code)
}

func TestResolveOptions_UnknownOptionIsError(t *testing.T) {
	comp := registry.ComponentMetadata{Name: "sma"}
	_, errs := option.ResolveOptions(map[string]option.Value{"bogus": option.NumberValue(1)}, comp)
	require.Len(t, errs, 1)
	assert.Equal(t, issue.CodeInvalidOptionReference, errs[0].Code)
}

func TestResolveOptions_TimeframeAndSessionPassThrough(t *testing.T) {
	comp := registry.ComponentMetadata{Name: "sma"}
	_, errs := option.ResolveOptions(map[string]option.Value{
		"timeframe": option.TextValue("1D"),
		"session":   option.TextValue("Tokyo"),
	}, comp)
	assert.Empty(t, errs)
}

func TestValue_TruthinessAndEquality(t *testing.T) {
	assert.False(t, option.NumberValue(0).IsTruthy())
	assert.True(t, option.NumberValue(0.1).IsTruthy())
	assert.False(t, option.TextValue("").IsTruthy())
	assert.True(t, option.BoolValue(true).IsTruthy())

	assert.True(t, option.NumberValue(1).Equal(option.NumberValue(1)))
	assert.False(t, option.NumberValue(1).Equal(option.TextValue("1")))
}
