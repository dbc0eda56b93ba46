package services

import (
	"reflect"
	"testing"
	"time"

	"agent-gamification-system/models"
)

func boolPtr(b bool) *bool { return &b }

func TestAssignmentPoints(t *testing.T) {
	cases := []struct {
		name string
		a    models.MissionAssignment
		want int64
	}{
		{"all nil", models.MissionAssignment{}, 0},
		{"one done", models.MissionAssignment{Completed1: boolPtr(true)}, 1},
		{"two done one false", models.MissionAssignment{
			Completed1: boolPtr(true),
			Completed2: boolPtr(false),
			Completed3: boolPtr(true),
		}, 2},
		{"all done", models.MissionAssignment{
			Completed1: boolPtr(true),
			Completed2: boolPtr(true),
			Completed3: boolPtr(true),
		}, 3},
		{"malformed mix", models.MissionAssignment{
			Completed1: nil,
			Completed2: boolPtr(false),
			Completed3: nil,
		}, 0},
	}
	for _, c := range cases {
		if got := assignmentPoints(&c.a); got != c.want {
			t.Errorf("%s: points=%d, want %d", c.name, got, c.want)
		}
	}
}

func TestComputeRankingsDenseAndComplete(t *testing.T) {
	agents := []string{"agent-a", "agent-b", "agent-c", "agent-d"}
	points := map[string]int64{
		"agent-b": 9,
		"agent-c": 4,
		// agent-a and agent-d have no completions at all
	}

	results := computeRankings(agents, points, 2026, 9)
	if len(results) != 4 {
		t.Fatalf("got %d rows, want every active agent ranked (4)", len(results))
	}

	for i, r := range results {
		if r.Rank != i+1 {
			t.Errorf("row %d rank=%d, want dense 1..N", i, r.Rank)
		}
		if r.Year != 2026 || r.Month != 9 {
			t.Errorf("row %d carries %d-%d, want 2026-9", i, r.Year, r.Month)
		}
	}

	if results[0].AgentID != "agent-b" || results[1].AgentID != "agent-c" {
		t.Errorf("top rows %s,%s — want agent-b then agent-c", results[0].AgentID, results[1].AgentID)
	}
	// Zero scorers tie at 0 and fall back to ID order.
	if results[2].AgentID != "agent-a" || results[3].AgentID != "agent-d" {
		t.Errorf("zero scorers ordered %s,%s — want agent-a then agent-d", results[2].AgentID, results[3].AgentID)
	}
	if results[2].TotalPoints != 0 || results[3].TotalPoints != 0 {
		t.Error("zero-point agents must appear with TotalPoints=0")
	}
}

func TestComputeRankingsDeterministicTies(t *testing.T) {
	points := map[string]int64{"x": 5, "y": 5, "z": 5}

	first := computeRankings([]string{"z", "x", "y"}, points, 2026, 9)
	second := computeRankings([]string{"y", "z", "x"}, points, 2026, 9)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("tied agents ranked differently across fetch orders:\n%v\n%v", first, second)
	}
	for i, want := range []string{"x", "y", "z"} {
		if first[i].AgentID != want {
			t.Errorf("tie position %d is %s, want %s (agent ID ascending)", i, first[i].AgentID, want)
		}
	}
}

func TestComputeRankingsIdempotent(t *testing.T) {
	agents := []string{"a1", "a2", "a3"}
	points := map[string]int64{"a1": 2, "a2": 7}

	first := computeRankings(agents, points, 2026, 9)
	second := computeRankings(agents, points, 2026, 9)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("identical inputs produced different rankings:\n%v\n%v", first, second)
	}
}

func TestMonthPointsExcludesUnreleasedRows(t *testing.T) {
	now := time.Now()
	assignments := []models.MissionAssignment{
		// Released: two completed slots, counts 2.
		{AgentID: "a1", ReleasedAt: &now, Completed1: boolPtr(true), Completed2: boolPtr(true)},
		// Completed but never released: must contribute 0.
		{AgentID: "a1", ReleasedAt: nil, Completed1: boolPtr(true), Completed2: boolPtr(true), Completed3: boolPtr(true)},
		// Another agent with only an unreleased completion: absent entirely.
		{AgentID: "a2", ReleasedAt: nil, Completed1: boolPtr(true)},
	}

	points := monthPoints(assignments)
	if points["a1"] != 2 {
		t.Errorf("a1 points=%d, want 2 from the released row only", points["a1"])
	}
	if got, ok := points["a2"]; ok {
		t.Errorf("a2 scored %d from an unreleased row, want no entry", got)
	}
}

func TestMonthPointsAggregatesAcrossDays(t *testing.T) {
	now := time.Now()
	assignments := []models.MissionAssignment{
		{AgentID: "a1", Date: "2026-09-01", ReleasedAt: &now, Completed1: boolPtr(true)},
		{AgentID: "a1", Date: "2026-09-02", ReleasedAt: &now, Completed2: boolPtr(true), Completed3: boolPtr(true)},
	}
	if got := monthPoints(assignments)["a1"]; got != 3 {
		t.Fatalf("a1 points=%d, want 3 summed across days", got)
	}
}
