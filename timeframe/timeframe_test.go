package timeframe_test

import (
	"testing"

	"github.com/stratdsl/compiler/timeframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseShorthand(t *testing.T) {
	cases := []struct {
		in       string
		wantCls  timeframe.Class
		wantIval int
	}{
		{"1Min", timeframe.ClassMinute, 1},
		{"15Min", timeframe.ClassMinute, 15},
		{"1H", timeframe.ClassHour, 1},
		{"1D", timeframe.ClassDay, 1},
		{"1ME", timeframe.ClassMonth, 1},
	}
	for _, c := range cases {
		tf, err := timeframe.ParseShorthand(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.wantCls, tf.Class, c.in)
		assert.Equal(t, c.wantIval, tf.Interval, c.in)
	}
}

func TestParseShorthand_WeekWithWeekday(t *testing.T) {
	tf, err := timeframe.ParseShorthand("1W-FRI")
	require.NoError(t, err)
	assert.Equal(t, timeframe.ClassWeek, tf.Class)
	assert.Equal(t, "FRI", tf.Weekday)
}

func TestParseShorthand_WeekWithOrdinal(t *testing.T) {
	tf, err := timeframe.ParseShorthand("1W-MON-2nd")
	require.NoError(t, err)
	assert.Equal(t, "MON", tf.Weekday)
	assert.Equal(t, timeframe.WeekOfMonthSecond, tf.WeekOfMonth)
}

func TestParseShorthand_MonthEndAnchor(t *testing.T) {
	tf, err := timeframe.ParseShorthand("1ME")
	require.NoError(t, err)
	assert.Equal(t, timeframe.AnchorEnd, tf.Anchor)
}

func TestParseShorthand_Invalid(t *testing.T) {
	_, err := timeframe.ParseShorthand("not-a-timeframe")
	assert.Error(t, err)
}

func TestLess_ClassDominates(t *testing.T) {
	sixtyMin, _ := timeframe.ParseShorthand("60Min")
	oneHour, _ := timeframe.ParseShorthand("1H")
	assert.True(t, sixtyMin.Less(oneHour), "60 minutes must sort below 1 hour: class dominates duration")
}

func TestLess_IntervalWithinClass(t *testing.T) {
	a, _ := timeframe.ParseShorthand("5Min")
	b, _ := timeframe.ParseShorthand("15Min")
	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
}

func TestMax(t *testing.T) {
	a, _ := timeframe.ParseShorthand("1D")
	b, _ := timeframe.ParseShorthand("1H")
	assert.Equal(t, a, timeframe.Max(a, b))
	assert.Equal(t, a, timeframe.Max(b, a))
}

func TestParse_StructuredJSON(t *testing.T) {
	tf, err := timeframe.Parse(`{"type":"week","interval":1,"weekday":"FRI"}`)
	require.NoError(t, err)
	assert.Equal(t, timeframe.ClassWeek, tf.Class)
	assert.Equal(t, "FRI", tf.Weekday)
}

func TestString_RoundTripsShorthand(t *testing.T) {
	for _, s := range []string{"1Min", "15Min", "1H", "1D", "1ME"} {
		tf, err := timeframe.ParseShorthand(s)
		require.NoError(t, err)
		assert.Equal(t, s, tf.String())
	}
}

func TestParseSession(t *testing.T) {
	_, ok := timeframe.ParseSession("Tokyo")
	assert.True(t, ok)
	_, ok = timeframe.ParseSession("tokyo")
	assert.False(t, ok, "session names are matched case-sensitively")
	_, ok = timeframe.ParseSession("Mars")
	assert.False(t, ok)
}
