package services

import (
	"fmt"
	"log"
	"sort"
	"time"

	"agent-gamification-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// RankingService recomputes the monthly leaderboard from released mission
// assignments. Full recompute + upsert every run — never incremental.
type RankingService struct {
	DB  *gorm.DB
	Cal *Calendar
}

func NewRankingService(db *gorm.DB, cal *Calendar) *RankingService {
	return &RankingService{DB: db, Cal: cal}
}

// RankingResult is one computed leaderboard row.
type RankingResult struct {
	AgentID     string `json:"agent_id"`
	Year        int    `json:"year"`
	Month       int    `json:"month"`
	TotalPoints int64  `json:"total_points"`
	Rank        int    `json:"rank"`
}

// assignmentPoints counts the completed slots of one assignment row, one
// point each. Nil flags count as not completed — malformed rows contribute
// 0 instead of failing the rebuild.
func assignmentPoints(a *models.MissionAssignment) int64 {
	var points int64
	for _, done := range []*bool{a.Completed1, a.Completed2, a.Completed3} {
		if done != nil && *done {
			points++
		}
	}
	return points
}

// monthPoints sums slot points per agent. Unreleased rows never score — a
// draft assignment stays invisible to the leaderboard even when its slots
// are marked complete.
func monthPoints(assignments []models.MissionAssignment) map[string]int64 {
	points := make(map[string]int64)
	for i := range assignments {
		a := &assignments[i]
		if a.ReleasedAt == nil {
			continue
		}
		points[a.AgentID] += assignmentPoints(a)
	}
	return points
}

// computeRankings turns per-agent point sums into dense 1..N ranks. Every
// agent in agentIDs gets a row, zero scorers included. Ties order by agent ID
// ascending so reruns are reproducible regardless of fetch order.
func computeRankings(agentIDs []string, points map[string]int64, year, month int) []RankingResult {
	results := make([]RankingResult, 0, len(agentIDs))
	for _, id := range agentIDs {
		results = append(results, RankingResult{
			AgentID:     id,
			Year:        year,
			Month:       month,
			TotalPoints: points[id],
		})
	}

	sort.Slice(results, func(a, b int) bool {
		if results[a].TotalPoints != results[b].TotalPoints {
			return results[a].TotalPoints > results[b].TotalPoints
		}
		return results[a].AgentID < results[b].AgentID
	})

	for i := range results {
		results[i].Rank = i + 1
	}
	return results
}

// Rebuild recomputes the current month's leaderboard and upserts every row.
// Individual upsert failures are logged and skipped; the computed list is
// returned regardless so the caller always sees the full leaderboard.
// Idempotent — rerunning against unchanged completion data reproduces the
// same totals and ranks.
func (s *RankingService) Rebuild() ([]RankingResult, error) {
	year, month := s.Cal.CurrentMonth()
	monthStart := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	from := FormatDate(monthStart)
	to := FormatDate(monthStart.AddDate(0, 1, 0))

	var assignments []models.MissionAssignment
	if err := s.DB.
		Where("date >= ? AND date < ?", from, to).
		Find(&assignments).Error; err != nil {
		return nil, fmt.Errorf("ranking rebuild: fetch assignments: %w", err)
	}

	// monthPoints drops unreleased rows before summing.
	points := monthPoints(assignments)

	var agents []models.Agent
	if err := s.DB.Where("active = ?", true).Order("id ASC").Find(&agents).Error; err != nil {
		return nil, fmt.Errorf("ranking rebuild: fetch agents: %w", err)
	}
	agentIDs := make([]string, 0, len(agents))
	for _, a := range agents {
		agentIDs = append(agentIDs, a.ID)
	}

	results := computeRankings(agentIDs, points, year, month)

	upserted := 0
	for _, r := range results {
		row := models.MonthlyRanking{
			AgentID:     r.AgentID,
			Year:        r.Year,
			Month:       r.Month,
			TotalPoints: r.TotalPoints,
			Rank:        r.Rank,
		}
		if err := s.DB.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "agent_id"}, {Name: "year"}, {Name: "month"}},
			DoUpdates: clause.AssignmentColumns([]string{"total_points", "rank", "updated_at"}),
		}).Create(&row).Error; err != nil {
			log.Printf("⚠️ [RANKING] upsert failed for agent %s (%d-%02d): %v", r.AgentID, r.Year, r.Month, err)
			continue
		}
		upserted++
	}

	log.Printf("🏆 Ranking rebuilt for %d-%02d: %d agents ranked, %d rows persisted", year, month, len(results), upserted)
	return results, nil
}

// Leaderboard returns the persisted snapshot for the current month, rank
// ascending, with agent display fields joined in.
func (s *RankingService) Leaderboard(limit int) ([]map[string]interface{}, error) {
	year, month := s.Cal.CurrentMonth()
	if limit < 1 || limit > 500 {
		limit = 100
	}

	type row struct {
		AgentID     string `json:"agent_id"`
		Username    string `json:"username"`
		TotalPoints int64  `json:"total_points"`
		Rank        int    `json:"rank"`
	}
	var rows []row
	if err := s.DB.Raw(`
		SELECT mr.agent_id, a.username, mr.total_points, mr.rank
		FROM monthly_rankings mr
		INNER JOIN agents a ON a.id = mr.agent_id
		WHERE mr.year = ? AND mr.month = ? AND a.deleted_at IS NULL
		ORDER BY mr.rank ASC
		LIMIT ?
	`, year, month, limit).Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]map[string]interface{}, 0, len(rows))
	for _, r := range rows {
		out = append(out, map[string]interface{}{
			"agent_id":     r.AgentID,
			"username":     r.Username,
			"total_points": r.TotalPoints,
			"rank":         r.Rank,
		})
	}
	return out, nil
}
