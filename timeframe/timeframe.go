package timeframe

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Class is the offset class used for the primary (class, interval) ordering.
// Declaration order below does not matter: comparisons use classRank.
type Class string

const (
	ClassMinute  Class = "minute"
	ClassHour    Class = "hour"
	ClassDay     Class = "day"
	ClassWeek    Class = "week"
	ClassMonth   Class = "month"
	ClassQuarter Class = "quarter"
	ClassYear    Class = "year"
	ClassBDay    Class = "bday"
	ClassSession Class = "session"
)

// classRank gives each Class its position in the total ordering. bday sorts
// alongside day (both sub-weekly); session, having no natural place in the
// minute..year ladder, sorts coarsest.
var classRank = map[Class]int{
	ClassMinute:  0,
	ClassHour:    1,
	ClassDay:     2,
	ClassBDay:    2,
	ClassWeek:    3,
	ClassMonth:   4,
	ClassQuarter: 5,
	ClassYear:    6,
	ClassSession: 7,
}

// Anchor distinguishes a period-start offset from a period-end offset
// (e.g. "1M" vs "1ME").
type Anchor string

const (
	AnchorStart Anchor = "Start"
	AnchorEnd   Anchor = "End"
)

// WeekOfMonth names the ordinal week-of-month qualifier on a weekly offset
// (e.g. the "2nd" in "1W-MON-2nd").
type WeekOfMonth string

const (
	WeekOfMonthFirst  WeekOfMonth = "First"
	WeekOfMonthSecond WeekOfMonth = "Second"
	WeekOfMonthThird  WeekOfMonth = "Third"
	WeekOfMonthFourth WeekOfMonth = "Fourth"
	WeekOfMonthLast   WeekOfMonth = "Last"
)

// SessionAnchor qualifies a session-relative offset.
type SessionAnchor string

const (
	SessionAnchorBeforeOpen  SessionAnchor = "BeforeOpen"
	SessionAnchorAfterOpen   SessionAnchor = "AfterOpen"
	SessionAnchorBeforeClose SessionAnchor = "BeforeClose"
	SessionAnchorAfterClose  SessionAnchor = "AfterClose"
)

// TimeOffset is a plain minute offset attached to a session-relative
// timeframe.
type TimeOffset struct {
	Minutes int
}

// TimeFrame is a periodic offset: a Class, an Interval within that class,
// and the optional qualifiers the structured wire form allows (spec §6).
type TimeFrame struct {
	Class         Class
	Interval      int
	Anchor        Anchor
	Month         string
	Weekday       string
	WeekOfMonth   WeekOfMonth
	Session       Session
	SessionAnchor SessionAnchor
	TimeOffset    *TimeOffset
}

// Less implements the total ordering of spec §4.9: class first, then
// interval. It is independent of real wall-clock duration — 60 minutes
// sorts below 1 hour because minute is a finer class than hour.
func (t TimeFrame) Less(other TimeFrame) bool {
	tr, or := classRank[t.Class], classRank[other.Class]
	if tr != or {
		return tr < or
	}
	return t.Interval < other.Interval
}

// Equal reports whether t and other denote the same (class, interval) pair.
// Qualifiers (weekday, anchor, ...) do not affect equality for ordering
// purposes, matching the reference's name-based equality which folds
// qualifiers into the serialized name but never participates in ordering
// comparisons beyond class/interval.
func (t TimeFrame) Equal(other TimeFrame) bool {
	return t.Class == other.Class && t.Interval == other.Interval
}

// Max returns the coarser of a and b under Less, preferring a on a tie.
func Max(a, b TimeFrame) TimeFrame {
	if a.Less(b) {
		return b
	}
	return a
}

var shorthandPattern = regexp.MustCompile(`^(\d+)(Min|ME|QE|YE|BD|H|D|W|M|Q|Y)(?:-([A-Za-z]+))?(?:-(\d+)(?:st|nd|rd|th)|-(Last))?$`)

// ParseShorthand parses a scalar shorthand string such as "1Min", "1H",
// "1D", "1W-FRI", "1W-MON-2nd", or "1ME" into its structured form.
func ParseShorthand(s string) (TimeFrame, error) {
	m := shorthandPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return TimeFrame{}, fmt.Errorf("timeframe: %q is not a recognized shorthand", s)
	}
	interval, err := strconv.Atoi(m[1])
	if err != nil {
		return TimeFrame{}, fmt.Errorf("timeframe: invalid interval in %q", s)
	}

	tf := TimeFrame{Interval: interval}
	switch m[2] {
	case "Min":
		tf.Class = ClassMinute
	case "H":
		tf.Class = ClassHour
	case "D":
		tf.Class = ClassDay
	case "W":
		tf.Class = ClassWeek
	case "M":
		tf.Class = ClassMonth
	case "ME":
		tf.Class, tf.Anchor = ClassMonth, AnchorEnd
	case "Q":
		tf.Class = ClassQuarter
	case "QE":
		tf.Class, tf.Anchor = ClassQuarter, AnchorEnd
	case "Y":
		tf.Class = ClassYear
	case "YE":
		tf.Class, tf.Anchor = ClassYear, AnchorEnd
	case "BD":
		tf.Class = ClassBDay
	default:
		return TimeFrame{}, fmt.Errorf("timeframe: unknown offset code %q", m[2])
	}

	if m[3] != "" {
		tf.Weekday = m[3]
	}
	if m[5] == "Last" {
		tf.WeekOfMonth = WeekOfMonthLast
	} else if m[4] != "" {
		n, _ := strconv.Atoi(m[4])
		tf.WeekOfMonth = ordinalWeekOfMonth(n)
	}
	return tf, nil
}

func ordinalWeekOfMonth(n int) WeekOfMonth {
	switch n {
	case 1:
		return WeekOfMonthFirst
	case 2:
		return WeekOfMonthSecond
	case 3:
		return WeekOfMonthThird
	case 4:
		return WeekOfMonthFourth
	default:
		return WeekOfMonthLast
	}
}

func weekOfMonthOrdinal(w WeekOfMonth) string {
	switch w {
	case WeekOfMonthFirst:
		return "1st"
	case WeekOfMonthSecond:
		return "2nd"
	case WeekOfMonthThird:
		return "3rd"
	case WeekOfMonthFourth:
		return "4th"
	case WeekOfMonthLast:
		return "Last"
	default:
		return ""
	}
}

// jsonForm is the structured wire shape of spec §6: {type, interval, anchor?,
// month?, weekday?, week_of_month?, session?, session_anchor?, time_offset?}.
type jsonForm struct {
	Type          string `json:"type"`
	Interval      int    `json:"interval"`
	Anchor        string `json:"anchor,omitempty"`
	Month         string `json:"month,omitempty"`
	Weekday       string `json:"weekday,omitempty"`
	WeekOfMonth   string `json:"week_of_month,omitempty"`
	Session       string `json:"session,omitempty"`
	SessionAnchor string `json:"session_anchor,omitempty"`
	TimeOffset    *struct {
		Minutes int `json:"minutes"`
	} `json:"time_offset,omitempty"`
}

// Parse accepts either a scalar shorthand or the structured JSON form of
// spec §6 and returns the parsed TimeFrame.
func Parse(raw string) (TimeFrame, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return TimeFrame{}, fmt.Errorf("timeframe: empty string")
	}
	if strings.HasPrefix(trimmed, "{") {
		var jf jsonForm
		if err := json.Unmarshal([]byte(trimmed), &jf); err != nil {
			return TimeFrame{}, fmt.Errorf("timeframe: invalid JSON: %w", err)
		}
		return fromJSONForm(jf)
	}
	return ParseShorthand(trimmed)
}

func fromJSONForm(jf jsonForm) (TimeFrame, error) {
	tf := TimeFrame{
		Class:         Class(jf.Type),
		Interval:      jf.Interval,
		Anchor:        Anchor(jf.Anchor),
		Month:         jf.Month,
		Weekday:       jf.Weekday,
		WeekOfMonth:   WeekOfMonth(jf.WeekOfMonth),
		Session:       Session(jf.Session),
		SessionAnchor: SessionAnchor(jf.SessionAnchor),
	}
	if jf.TimeOffset != nil {
		tf.TimeOffset = &TimeOffset{Minutes: jf.TimeOffset.Minutes}
	}
	return tf, nil
}

// String renders the shorthand form where one exists, falling back to the
// bare class name for forms (e.g. session) that have none.
func (t TimeFrame) String() string {
	switch t.Class {
	case ClassMinute:
		return fmt.Sprintf("%dMin", t.Interval)
	case ClassHour:
		return fmt.Sprintf("%dH", t.Interval)
	case ClassDay:
		return fmt.Sprintf("%dD", t.Interval)
	case ClassBDay:
		return fmt.Sprintf("%dBD", t.Interval)
	case ClassWeek:
		s := fmt.Sprintf("%dW", t.Interval)
		if t.Weekday != "" {
			s += "-" + t.Weekday
		}
		if t.WeekOfMonth != "" {
			s += "-" + weekOfMonthOrdinal(t.WeekOfMonth)
		}
		return s
	case ClassMonth:
		if t.Anchor == AnchorEnd {
			return fmt.Sprintf("%dME", t.Interval)
		}
		return fmt.Sprintf("%dM", t.Interval)
	case ClassQuarter:
		if t.Anchor == AnchorEnd {
			return fmt.Sprintf("%dQE", t.Interval)
		}
		return fmt.Sprintf("%dQ", t.Interval)
	case ClassYear:
		if t.Anchor == AnchorEnd {
			return fmt.Sprintf("%dYE", t.Interval)
		}
		return fmt.Sprintf("%dY", t.Interval)
	default:
		return string(t.Class)
	}
}
