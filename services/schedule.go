package services

import (
	"errors"
	"sort"
	"time"
)

var (
	// ErrInvalidPool: empty mission pool.
	ErrInvalidPool = errors.New("mission pool is empty")
	// ErrInsufficientPool: pool smaller than the per-day slot count — a day
	// cannot be filled without repeats.
	ErrInsufficientPool = errors.New("mission pool smaller than per-day mission count")
)

// DailySchedule is one generated day: exactly PerDay distinct mission IDs.
type DailySchedule struct {
	Date       string   `json:"date"` // YYYY-MM-DD
	MissionIDs []string `json:"mission_ids"`
}

// GenerateSchedule produces a fair rotating assignment of missions over the
// requested day range. Deterministic: same inputs, same output — selection is
// biased toward least-used pool members, with a day-rotated pool index
// breaking usage ties so the pick order shifts day over day instead of
// always taking the same prefix of pool.
//
// Pure: the usage counter lives and dies inside this call.
func GenerateSchedule(pool []string, startDate time.Time, days, perDay int) ([]DailySchedule, error) {
	if days < 1 {
		days = 7
	}
	if perDay < 1 {
		perDay = 3
	}
	if len(pool) == 0 {
		return nil, ErrInvalidPool
	}
	if len(pool) < perDay {
		return nil, ErrInsufficientPool
	}

	usage := make(map[string]int, len(pool))
	schedules := make([]DailySchedule, 0, days)

	for dayIndex := 0; dayIndex < days; dayIndex++ {
		date := startDate.AddDate(0, 0, dayIndex)

		// Rank pool members: least-used first, then rotated original index.
		ranked := make([]int, len(pool))
		for i := range ranked {
			ranked[i] = i
		}
		sort.SliceStable(ranked, func(a, b int) bool {
			ia, ib := ranked[a], ranked[b]
			ua, ub := usage[pool[ia]], usage[pool[ib]]
			if ua != ub {
				return ua < ub
			}
			ra := (ia + dayIndex) % len(pool)
			rb := (ib + dayIndex) % len(pool)
			return ra < rb
		})

		ids := make([]string, 0, perDay)
		for _, idx := range ranked[:perDay] {
			ids = append(ids, pool[idx])
		}
		for _, id := range ids {
			usage[id]++
		}

		schedules = append(schedules, DailySchedule{
			Date:       FormatDate(date),
			MissionIDs: ids,
		})
	}

	return schedules, nil
}
