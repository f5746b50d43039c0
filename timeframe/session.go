package timeframe

// Session names a trading-session window (spec glossary, §4.6).
type Session string

const (
	SessionSydney              Session = "Sydney"
	SessionTokyo               Session = "Tokyo"
	SessionLondon              Session = "London"
	SessionNewYork             Session = "NewYork"
	SessionAsianKillZone       Session = "AsianKillZone"
	SessionLondonOpenKillZone  Session = "LondonOpenKillZone"
	SessionNewYorkKillZone     Session = "NewYorkKillZone"
	SessionLondonCloseKillZone Session = "LondonCloseKillZone"
)

var validSessions = map[Session]bool{
	SessionSydney: true, SessionTokyo: true, SessionLondon: true, SessionNewYork: true,
	SessionAsianKillZone: true, SessionLondonOpenKillZone: true,
	SessionNewYorkKillZone: true, SessionLondonCloseKillZone: true,
}

// ParseSession validates s against the fixed enumeration of spec §4.6,
// matched case-sensitively exactly as named there.
func ParseSession(s string) (Session, bool) {
	sess := Session(s)
	return sess, validSessions[sess]
}
