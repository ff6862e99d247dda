package market

import (
	"time"

	"github.com/scmhub/calendar"

	"github.com/bobmcallan/quoteboard/internal/common"
	"github.com/bobmcallan/quoteboard/internal/models"
)

// Session answers whether the US equity market is open and whether a quote
// should be flagged stale.
type Session struct {
	cal        *calendar.Calendar
	loc        *time.Location
	staleAfter time.Duration
}

// NewSession loads the NYSE calendar. When it is unavailable a Mon-Fri
// 09:30-16:00 America/New_York schedule is used instead.
func NewSession(staleAfter time.Duration) *Session {
	s := &Session{staleAfter: staleAfter}
	if cal := calendar.GetCalendar("xnys"); cal != nil {
		s.cal = cal
		s.loc = cal.Loc
	}
	if s.loc == nil {
		if loc, err := time.LoadLocation("America/New_York"); err == nil {
			s.loc = loc
		} else {
			s.loc = time.UTC
		}
	}
	return s
}

// IsOpen reports whether the equity market is in its regular session at t.
func (s *Session) IsOpen(t time.Time) bool {
	t = t.In(s.loc)
	if s.cal != nil {
		return s.cal.IsOpen(t)
	}
	if wd := t.Weekday(); wd == time.Saturday || wd == time.Sunday {
		return false
	}
	minutes := t.Hour()*60 + t.Minute()
	return minutes >= 9*60+30 && minutes < 16*60
}

// IsStale reports whether a quote last updated at lastUpdated should be
// flagged stale at now. Equities are stale whenever the session is closed;
// crypto trades around the clock so only age applies.
func (s *Session) IsStale(symbol string, lastUpdated, now time.Time) bool {
	if !models.IsCryptoSymbol(symbol) && !s.IsOpen(now) {
		return true
	}
	return !common.IsFresh(lastUpdated, now, s.staleAfter)
}
