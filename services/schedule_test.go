package services

import (
	"errors"
	"reflect"
	"testing"
	"time"
)

var scheduleStart = time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

func usageCounts(schedules []DailySchedule) map[string]int {
	usage := make(map[string]int)
	for _, day := range schedules {
		for _, id := range day.MissionIDs {
			usage[id]++
		}
	}
	return usage
}

func TestGenerateScheduleEmptyPool(t *testing.T) {
	if _, err := GenerateSchedule(nil, scheduleStart, 7, 3); !errors.Is(err, ErrInvalidPool) {
		t.Fatalf("expected ErrInvalidPool, got %v", err)
	}
}

func TestGenerateScheduleInsufficientPool(t *testing.T) {
	if _, err := GenerateSchedule([]string{"A", "B"}, scheduleStart, 7, 3); !errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("expected ErrInsufficientPool, got %v", err)
	}
}

func TestGenerateScheduleShape(t *testing.T) {
	pool := []string{"A", "B", "C", "D", "E"}
	schedules, err := GenerateSchedule(pool, scheduleStart, 7, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	if len(schedules) != 7 {
		t.Fatalf("got %d days, want 7", len(schedules))
	}

	for i, day := range schedules {
		wantDate := FormatDate(scheduleStart.AddDate(0, 0, i))
		if day.Date != wantDate {
			t.Errorf("day %d date=%s, want %s", i, day.Date, wantDate)
		}
		if len(day.MissionIDs) != 3 {
			t.Errorf("day %d has %d missions, want 3", i, len(day.MissionIDs))
		}
		seen := make(map[string]bool)
		for _, id := range day.MissionIDs {
			if seen[id] {
				t.Errorf("day %d repeats mission %s", i, id)
			}
			seen[id] = true
		}
	}
}

func TestGenerateScheduleExactFairness(t *testing.T) {
	// days*perDay = 12 is a multiple of pool size 4 → counts must be equal.
	schedules, err := GenerateSchedule([]string{"A", "B", "C", "D"}, scheduleStart, 4, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	for id, count := range usageCounts(schedules) {
		if count != 3 {
			t.Errorf("mission %s used %d times, want exactly 3", id, count)
		}
	}
}

func TestGenerateScheduleFairnessWithinOne(t *testing.T) {
	pool := []string{"A", "B", "C", "D", "E", "F", "G"}
	schedules, err := GenerateSchedule(pool, scheduleStart, 10, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}

	usage := usageCounts(schedules)
	min, max := int(^uint(0)>>1), 0
	for _, id := range pool {
		c := usage[id]
		if c < min {
			min = c
		}
		if c > max {
			max = c
		}
	}
	if max-min > 1 {
		t.Fatalf("usage spread %d (min=%d max=%d), want at most 1: %v", max-min, min, max, usage)
	}
}

func TestGenerateScheduleDeterministic(t *testing.T) {
	pool := []string{"A", "B", "C", "D", "E"}
	first, err := GenerateSchedule(pool, scheduleStart, 7, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	second, err := GenerateSchedule(pool, scheduleStart, 7, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different schedules:\n%v\n%v", first, second)
	}
}

func TestGenerateScheduleRotatesTies(t *testing.T) {
	// With pool size == perDay every member is picked every day, so rotation
	// shows up in the order instead: the leading pick must shift day over day.
	pool := []string{"A", "B", "C"}
	schedules, err := GenerateSchedule(pool, scheduleStart, 2, 3)
	if err != nil {
		t.Fatalf("GenerateSchedule: %v", err)
	}
	day0 := schedules[0].MissionIDs
	day1 := schedules[1].MissionIDs
	if reflect.DeepEqual(day0, day1) {
		t.Fatalf("day 0 and day 1 picked the identical prefix %v — rotation not applied", day0)
	}
}

func TestFormatDate(t *testing.T) {
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC), "2026-01-05"},
		{time.Date(2026, 12, 31, 23, 59, 59, 0, time.UTC), "2026-12-31"},
		{time.Date(999, 2, 3, 0, 0, 0, 0, time.UTC), "0999-02-03"},
	}
	for _, c := range cases {
		if got := FormatDate(c.in); got != c.want {
			t.Errorf("FormatDate(%v)=%s, want %s", c.in, got, c.want)
		}
	}
}
