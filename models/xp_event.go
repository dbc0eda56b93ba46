package models

import (
	"time"
)

// XPEvent is the append-only audit trail for every XP mutation.
// Rows are created once and never updated or deleted.
type XPEvent struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AgentID  string `json:"agent_id" gorm:"not null;index"`
	Amount   int64  `json:"amount" gorm:"not null"`
	Reason   string `json:"reason"`
	Source   string `json:"source" gorm:"index;default:'MISSION'"` // MISSION, ADMIN, EARN, ...
	SeasonID string `json:"season_id" gorm:"index"`

	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
}
