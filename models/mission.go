package models

import (
	"time"
)

// MissionTemplate is admin-managed reference data; schedules reference it,
// never own it.
type MissionTemplate struct {
	ID       string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Code     string `json:"code" gorm:"uniqueIndex;not null"` // slugified title
	Title    string `json:"title" gorm:"not null"`
	Points   int64  `json:"points" gorm:"default:1"`
	Category string `json:"category"`
	Active   bool   `json:"active" gorm:"default:true"`

	Timestamps
}

// MissionSet is a named, bounded pool of templates used as the rotation
// source for one schedule-generation run.
type MissionSet struct {
	ID          string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	Name        string `json:"name" gorm:"not null"`
	Description string `json:"description"`

	Items []MissionSetItem `json:"items,omitempty" gorm:"foreignKey:MissionSetID"`

	Timestamps
}

// MissionSetItem keeps the pool ordered; SortOrder is the rotation index.
type MissionSetItem struct {
	ID           string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	MissionSetID string `json:"mission_set_id" gorm:"not null;index"`
	MissionID    string `json:"mission_id" gorm:"not null"`
	SortOrder    int    `json:"sort_order" gorm:"column:sort_order;default:0"`

	Mission MissionTemplate `json:"mission,omitempty" gorm:"foreignKey:MissionID"`
}

// MissionAssignment is one agent's materialized daily schedule: three mission
// slots generated ahead of time, made countable only once ReleasedAt is set.
type MissionAssignment struct {
	ID      string `json:"id" gorm:"primaryKey;type:uuid;default:gen_random_uuid()"`
	AgentID string `json:"agent_id" gorm:"not null;uniqueIndex:idx_agent_date"`
	Date    string `json:"date" gorm:"not null;uniqueIndex:idx_agent_date;index"` // YYYY-MM-DD

	MissionID1 string `json:"mission_id_1" gorm:"column:mission_id_1"`
	MissionID2 string `json:"mission_id_2" gorm:"column:mission_id_2"`
	MissionID3 string `json:"mission_id_3" gorm:"column:mission_id_3"`

	Completed1 *bool `json:"completed_1,omitempty" gorm:"column:completed_1"`
	Completed2 *bool `json:"completed_2,omitempty" gorm:"column:completed_2"`
	Completed3 *bool `json:"completed_3,omitempty" gorm:"column:completed_3"`

	CompletedAt1 *time.Time `json:"completed_at_1,omitempty" gorm:"column:completed_at_1"`
	CompletedAt2 *time.Time `json:"completed_at_2,omitempty" gorm:"column:completed_at_2"`
	CompletedAt3 *time.Time `json:"completed_at_3,omitempty" gorm:"column:completed_at_3"`

	ReleasedAt *time.Time `json:"released_at,omitempty" gorm:"index"`

	Timestamps
}
