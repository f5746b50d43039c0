// Package timeframe models a periodic offset (TimeFrame) and a trading
// Session, both as plain immutable values.
//
// TimeFrame's total ordering — offset class first (minute < hour < day <
// week < month < quarter < year), interval second — is grounded directly on
// the reference implementation's TimeFrame::operator< (original_source's
// time_frame.cpp): class comparison by enum position, falling back to the
// raw interval ("n()") only within a class. The ordering is deliberately
// independent of real-time duration: 60 minutes sorts below 1 hour because
// hour is the coarser class.
package timeframe
