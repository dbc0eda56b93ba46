package services

import (
	"fmt"
	"time"
)

// Clock abstracts wall-clock reads so ledger/ranking/cron logic can be pinned
// to a fixed instant in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Calendar is the single season/day boundary policy for the service. All
// season tokens and "today" decisions go through one configured location
// instead of ad-hoc time.Now() reads.
type Calendar struct {
	clock Clock
	loc   *time.Location
}

// NewCalendar loads tz (IANA name, e.g. "America/New_York"); empty tz falls
// back to server-local time.
func NewCalendar(tz string) (*Calendar, error) {
	loc := time.Local
	if tz != "" {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", tz, err)
		}
		loc = l
	}
	return &Calendar{clock: systemClock{}, loc: loc}, nil
}

// NewCalendarAt builds a Calendar around an explicit clock (tests).
func NewCalendarAt(clock Clock, loc *time.Location) *Calendar {
	if loc == nil {
		loc = time.Local
	}
	return &Calendar{clock: clock, loc: loc}
}

func (c *Calendar) Now() time.Time {
	return c.clock.Now().In(c.loc)
}

// SeasonToken returns the one-calendar-month season identifier, "YYYY-MM".
func (c *Calendar) SeasonToken() string {
	now := c.Now()
	return fmt.Sprintf("%04d-%02d", now.Year(), int(now.Month()))
}

// CurrentMonth returns the (year, month) pair the ranking rebuild operates on.
func (c *Calendar) CurrentMonth() (int, int) {
	now := c.Now()
	return now.Year(), int(now.Month())
}

// Today returns the current calendar day as YYYY-MM-DD.
func (c *Calendar) Today() string {
	return FormatDate(c.Now())
}

// FormatDate renders a date as zero-padded YYYY-MM-DD using the value's own
// calendar fields — no instant/zone conversion.
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%04d-%02d-%02d", t.Year(), int(t.Month()), t.Day())
}
