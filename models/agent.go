package models

import (
	"time"

	"gorm.io/gorm"
)

// Agent mirrors a brokerage agent profile from the CRM auth service
// (denormalized locally so gamification queries never leave this service).
type Agent struct {
	ID             string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	ExternalUserID string `gorm:"uniqueIndex;not null" json:"external_user_id"` // links to CRM profile service
	Username       string `json:"username"`
	Email          string `json:"email"`
	Active         bool   `json:"active" gorm:"default:true;index"`

	// XP balances — mutated only through the ledger service (and cash-out)
	SeasonXP     int64  `json:"season_xp" gorm:"default:0"`
	BankXP       int64  `json:"bank_xp" gorm:"default:0"`
	LifetimeXP   int64  `json:"lifetime_xp" gorm:"default:0"`
	PrestigeTier int    `json:"prestige_tier" gorm:"default:1"`
	SeasonID     string `json:"season_id"` // "YYYY-MM" token of the season the balances belong to

	LastSeasonReset *time.Time `json:"last_season_reset,omitempty"`

	Timestamps
}

// Timestamps adds GORM auto-times
type Timestamps struct {
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}
