package models

import (
	"time"
)

// MonthlyRanking is a fully-recomputed leaderboard row. The rebuilder
// overwrites it by composite key — never incrementally maintained.
type MonthlyRanking struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AgentID     string `json:"agent_id" gorm:"not null;uniqueIndex:idx_agent_year_month"`
	Year        int    `json:"year" gorm:"not null;uniqueIndex:idx_agent_year_month"`
	Month       int    `json:"month" gorm:"not null;uniqueIndex:idx_agent_year_month"`
	TotalPoints int64  `json:"total_points" gorm:"default:0"`
	Rank        int    `json:"rank" gorm:"not null"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}
