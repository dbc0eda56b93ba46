package services

import (
	"errors"
	"fmt"
	"log"

	"agent-gamification-system/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNothingToCashOut: cash-out rejected because the season balance is zero.
var ErrNothingToCashOut = errors.New("no season XP to cash out")

// LedgerService owns every XP balance mutation. Balance updates are
// authoritative; the XPEvent append is advisory and its outcome is surfaced
// separately on the result instead of being swallowed.
type LedgerService struct {
	DB  *gorm.DB
	Cal *Calendar
}

func NewLedgerService(db *gorm.DB, cal *Calendar) *LedgerService {
	return &LedgerService{DB: db, Cal: cal}
}

// GrantResult reports a grant outcome to HTTP/cron callers without raising.
type GrantResult struct {
	Success       bool   `json:"success"`
	Error         string `json:"error,omitempty"`
	NotFound      bool   `json:"-"`
	NewSeasonXP   int64  `json:"new_season_xp"`
	NewLifetimeXP int64  `json:"new_lifetime_xp"`
	NewBankXP     int64  `json:"new_bank_xp"`
	PrestigeTier  int    `json:"prestige_tier"`
	TierChanged   bool   `json:"tier_changed"`
	EventLogged   bool   `json:"event_logged"`
}

// xpBalances is the XP-relevant slice of an agent row, kept separate so the
// grant arithmetic stays a pure function.
type xpBalances struct {
	SeasonXP     int64
	BankXP       int64
	LifetimeXP   int64
	PrestigeTier int
	SeasonID     string
}

// applyGrant computes the post-grant balances. If the stored season token
// differs from currentSeason the stale seasonXP is abandoned (effective
// starting value 0), never carried forward.
//
// NOTE: a grant credits season, bank AND lifetime simultaneously. Bank is not
// an opt-in pool here even though cash-out later transfers season into bank
// again — that double credit is the current product behavior and is pinned
// by tests; do not "fix" it without product sign-off.
func applyGrant(b xpBalances, currentSeason string, amount int64) (xpBalances, bool) {
	rolledOver := b.SeasonID != currentSeason
	effectiveSeasonXP := b.SeasonXP
	if rolledOver {
		effectiveSeasonXP = 0
	}

	next := xpBalances{
		SeasonXP:   effectiveSeasonXP + amount,
		BankXP:     b.BankXP + amount,
		LifetimeXP: b.LifetimeXP + amount,
		SeasonID:   currentSeason,
	}
	next.PrestigeTier = TierFor(next.LifetimeXP)
	return next, rolledOver
}

// applyCashOut moves the whole season balance into the bank.
func applyCashOut(b xpBalances) (xpBalances, int64, error) {
	if b.SeasonXP <= 0 {
		return b, 0, ErrNothingToCashOut
	}
	amount := b.SeasonXP
	next := b
	next.SeasonXP = 0
	next.BankXP = b.BankXP + amount
	return next, amount, nil
}

// Grant awards XP to an agent and appends an audit event. amount must be
// positive. Persistence failures come back as Success=false — callers decide
// how to translate them; nothing is retried here.
func (s *LedgerService) Grant(agentID string, amount int64, reason, source string) GrantResult {
	if amount <= 0 {
		return GrantResult{Error: "xp amount must be positive"}
	}
	if source == "" {
		source = "MISSION"
	}

	season := s.Cal.SeasonToken()
	var next xpBalances
	var oldTier int
	var rolledOver bool

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var agent models.Agent
		if err := tx.Where("id = ?", agentID).First(&agent).Error; err != nil {
			return err
		}
		oldTier = agent.PrestigeTier

		next, rolledOver = applyGrant(xpBalances{
			SeasonXP:     agent.SeasonXP,
			BankXP:       agent.BankXP,
			LifetimeXP:   agent.LifetimeXP,
			PrestigeTier: agent.PrestigeTier,
			SeasonID:     agent.SeasonID,
		}, season, amount)

		updates := map[string]interface{}{
			"season_xp":     next.SeasonXP,
			"bank_xp":       next.BankXP,
			"lifetime_xp":   next.LifetimeXP,
			"prestige_tier": next.PrestigeTier,
			"season_id":     next.SeasonID,
		}
		if rolledOver {
			updates["last_season_reset"] = s.Cal.Now()
		}
		return tx.Model(&models.Agent{}).Where("id = ?", agentID).Updates(updates).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return GrantResult{Error: "agent not found", NotFound: true}
		}
		return GrantResult{Error: fmt.Sprintf("xp grant failed: %v", err)}
	}

	// Advisory append — the balance update above is the source of truth.
	eventLogged := true
	event := models.XPEvent{
		ID:       uuid.NewString(),
		AgentID:  agentID,
		Amount:   amount,
		Reason:   reason,
		Source:   source,
		SeasonID: season,
	}
	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ [LEDGER] event append failed for agent %s: %v", agentID, err)
		eventLogged = false
	}

	log.Printf("🎮 XP granted: %s +%d → season=%d lifetime=%d tier=%d (reason: %s)",
		agentID, amount, next.SeasonXP, next.LifetimeXP, next.PrestigeTier, reason)

	return GrantResult{
		Success:       true,
		NewSeasonXP:   next.SeasonXP,
		NewLifetimeXP: next.LifetimeXP,
		NewBankXP:     next.BankXP,
		PrestigeTier:  next.PrestigeTier,
		TierChanged:   next.PrestigeTier != oldTier,
		EventLogged:   eventLogged,
	}
}

// CashOutResult reports a season→bank transfer.
type CashOutResult struct {
	Success     bool   `json:"success"`
	Error       string `json:"error,omitempty"`
	NotFound    bool   `json:"-"`
	CashedOut   int64  `json:"cashed_out"`
	NewBankXP   int64  `json:"new_bank_xp"`
	EventLogged bool   `json:"event_logged"`
}

// CashOut converts the agent's full season balance into banked XP and resets
// the season counter. Shares balance fields with Grant; the single-row update
// keeps the pair from corrupting each other, though truly concurrent calls
// can still lose an update (known limitation, accepted).
func (s *LedgerService) CashOut(agentID string) CashOutResult {
	season := s.Cal.SeasonToken()
	var amount int64
	var newBank int64

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var agent models.Agent
		if err := tx.Where("id = ?", agentID).First(&agent).Error; err != nil {
			return err
		}

		next, cashed, err := applyCashOut(xpBalances{
			SeasonXP: agent.SeasonXP,
			BankXP:   agent.BankXP,
		})
		if err != nil {
			return err
		}
		amount = cashed
		newBank = next.BankXP

		return tx.Model(&models.Agent{}).Where("id = ?", agentID).Updates(map[string]interface{}{
			"season_xp": next.SeasonXP,
			"bank_xp":   next.BankXP,
		}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CashOutResult{Error: "agent not found", NotFound: true}
		}
		if errors.Is(err, ErrNothingToCashOut) {
			return CashOutResult{Error: ErrNothingToCashOut.Error()}
		}
		return CashOutResult{Error: fmt.Sprintf("cash-out failed: %v", err)}
	}

	eventLogged := true
	event := models.XPEvent{
		ID:       uuid.NewString(),
		AgentID:  agentID,
		Amount:   amount,
		Reason:   "season cash-out",
		Source:   "EARN",
		SeasonID: season,
	}
	if err := s.DB.Create(&event).Error; err != nil {
		log.Printf("⚠️ [LEDGER] cash-out event append failed for agent %s: %v", agentID, err)
		eventLogged = false
	}

	log.Printf("💰 Season cash-out: %s moved %d XP to bank (bank=%d)", agentID, amount, newBank)

	return CashOutResult{
		Success:     true,
		CashedOut:   amount,
		NewBankXP:   newBank,
		EventLogged: eventLogged,
	}
}

// History returns the agent's ledger events, newest first, optionally
// filtered by source tag.
func (s *LedgerService) History(agentID, source string, limit int) ([]models.XPEvent, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	q := s.DB.Where("agent_id = ?", agentID)
	if source != "" {
		q = q.Where("source = ?", source)
	}
	var events []models.XPEvent
	err := q.Order("created_at DESC").Limit(limit).Find(&events).Error
	return events, err
}
