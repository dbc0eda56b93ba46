package services

import (
	"testing"
	"time"
)

type fixedClock struct{ t time.Time }

func (f fixedClock) Now() time.Time { return f.t }

func TestCalendarSeasonToken(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	// 2026-09-01 02:30 UTC is still 2026-08-31 in New York — the season
	// token must follow the configured calendar, not the instant's zone.
	cal := NewCalendarAt(fixedClock{time.Date(2026, 9, 1, 2, 30, 0, 0, time.UTC)}, ny)
	if got := cal.SeasonToken(); got != "2026-08" {
		t.Errorf("SeasonToken=%s, want 2026-08", got)
	}
	if got := cal.Today(); got != "2026-08-31" {
		t.Errorf("Today=%s, want 2026-08-31", got)
	}

	year, month := cal.CurrentMonth()
	if year != 2026 || month != 8 {
		t.Errorf("CurrentMonth=(%d,%d), want (2026,8)", year, month)
	}
}

func TestCalendarZeroPadding(t *testing.T) {
	cal := NewCalendarAt(fixedClock{time.Date(2026, 1, 5, 12, 0, 0, 0, time.UTC)}, time.UTC)
	if got := cal.SeasonToken(); got != "2026-01" {
		t.Errorf("SeasonToken=%s, want 2026-01", got)
	}
}

func TestNewCalendarRejectsBadZone(t *testing.T) {
	if _, err := NewCalendar("Not/AZone"); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}
