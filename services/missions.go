package services

import (
	"errors"
	"fmt"
	"log"
	"time"

	"agent-gamification-system/models"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MaxPoolSize bounds a mission set — the rotation source is meant to be a
// small curated pool, not the whole catalog.
const MaxPoolSize = 10

type MissionService struct {
	DB     *gorm.DB
	Cal    *Calendar
	Ledger *LedgerService
}

func NewMissionService(db *gorm.DB, cal *Calendar, ledger *LedgerService) *MissionService {
	return &MissionService{DB: db, Cal: cal, Ledger: ledger}
}

// newMissionTemplate builds the row app-side: ID from uuid, Code slugified
// from the title, points clamped to at least 1.
func newMissionTemplate(title, category string, points int64) models.MissionTemplate {
	if points < 1 {
		points = 1
	}
	return models.MissionTemplate{
		ID:       uuid.NewString(),
		Code:     slug.Make(title),
		Title:    title,
		Points:   points,
		Category: category,
		Active:   true,
	}
}

// CreateTemplate creates admin reference data. Code is slugified from the
// title and must be unique.
func (s *MissionService) CreateTemplate(title, category string, points int64) (*models.MissionTemplate, error) {
	if title == "" {
		return nil, errors.New("title is required")
	}

	tmpl := newMissionTemplate(title, category, points)
	if err := s.DB.Create(&tmpl).Error; err != nil {
		return nil, fmt.Errorf("create mission template: %w", err)
	}
	return &tmpl, nil
}

func (s *MissionService) ListTemplates(activeOnly bool) ([]models.MissionTemplate, error) {
	q := s.DB.Order("created_at DESC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	var templates []models.MissionTemplate
	err := q.Find(&templates).Error
	return templates, err
}

// SetTemplateActive flips the active flag; deactivated templates stop
// appearing in new pools but existing assignments keep referencing them.
func (s *MissionService) SetTemplateActive(id string, active bool) error {
	res := s.DB.Model(&models.MissionTemplate{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CreateSet stores a named pool. Order of missionIDs is the rotation order.
func (s *MissionService) CreateSet(name, description string, missionIDs []string) (*models.MissionSet, error) {
	if name == "" {
		return nil, errors.New("name is required")
	}
	if len(missionIDs) == 0 {
		return nil, errors.New("mission set needs at least one mission")
	}
	if len(missionIDs) > MaxPoolSize {
		return nil, fmt.Errorf("mission set is capped at %d missions", MaxPoolSize)
	}

	var count int64
	if err := s.DB.Model(&models.MissionTemplate{}).
		Where("id IN ? AND active = ?", missionIDs, true).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count != int64(len(missionIDs)) {
		return nil, errors.New("mission set references unknown or inactive missions")
	}

	set := models.MissionSet{ID: uuid.NewString(), Name: name, Description: description}
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&set).Error; err != nil {
			return err
		}
		for i, mid := range missionIDs {
			item := models.MissionSetItem{
				ID:           uuid.NewString(),
				MissionSetID: set.ID,
				MissionID:    mid,
				SortOrder:    i,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create mission set: %w", err)
	}
	return &set, nil
}

// SetPool returns the set's mission IDs in rotation order.
func (s *MissionService) SetPool(setID string) ([]string, error) {
	var items []models.MissionSetItem
	if err := s.DB.Where("mission_set_id = ?", setID).
		Order("sort_order ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	pool := make([]string, 0, len(items))
	for _, it := range items {
		pool = append(pool, it.MissionID)
	}
	return pool, nil
}

// AssignResult summarizes one materialization run.
type AssignResult struct {
	AgentsAssigned int `json:"agents_assigned"`
	RowsCreated    int `json:"rows_created"`
	RowsSkipped    int `json:"rows_skipped"` // (agent, date) already assigned
}

// AssignMissions materializes the generated schedule as one assignment row
// per (agent, day). Existing (agent, date) rows are left untouched — the
// generator itself never deduplicates overlapping runs, this upsert guard
// does.
func (s *MissionService) AssignMissions(agentIDs, pool []string, startDate time.Time, days int) (*AssignResult, error) {
	if len(agentIDs) == 0 {
		return nil, errors.New("no agents to assign")
	}

	schedules, err := GenerateSchedule(pool, startDate, days, 3)
	if err != nil {
		return nil, err
	}

	result := &AssignResult{AgentsAssigned: len(agentIDs)}
	for _, agentID := range agentIDs {
		for _, day := range schedules {
			row := models.MissionAssignment{
				ID:         uuid.NewString(),
				AgentID:    agentID,
				Date:       day.Date,
				MissionID1: day.MissionIDs[0],
			}
			if len(day.MissionIDs) > 1 {
				row.MissionID2 = day.MissionIDs[1]
			}
			if len(day.MissionIDs) > 2 {
				row.MissionID3 = day.MissionIDs[2]
			}

			res := s.DB.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "agent_id"}, {Name: "date"}},
				DoNothing: true,
			}).Create(&row)
			if res.Error != nil {
				return result, fmt.Errorf("assign missions: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				result.RowsSkipped++
			} else {
				result.RowsCreated++
			}
		}
	}

	log.Printf("📋 Missions assigned: %d agents × %d days (%d created, %d skipped)",
		len(agentIDs), len(schedules), result.RowsCreated, result.RowsSkipped)
	return result, nil
}

// TodayAssignment returns the agent's released schedule for today, with
// template details, or nil when nothing is live yet.
func (s *MissionService) TodayAssignment(agentID string) (*models.MissionAssignment, []models.MissionTemplate, error) {
	var a models.MissionAssignment
	err := s.DB.Where("agent_id = ? AND date = ? AND released_at IS NOT NULL", agentID, s.Cal.Today()).
		First(&a).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}

	ids := []string{a.MissionID1, a.MissionID2, a.MissionID3}
	var templates []models.MissionTemplate
	if err := s.DB.Where("id IN ?", ids).Find(&templates).Error; err != nil {
		return &a, nil, err
	}
	return &a, templates, nil
}

// CompleteResult reports a slot completion plus the resulting XP grant.
type CompleteResult struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Grant   GrantResult `json:"grant,omitempty"`
}

// CompleteMission marks one slot of the agent's assignment done and grants
// the template's point value through the ledger. Unreleased assignments and
// already-done slots are rejected.
func (s *MissionService) CompleteMission(agentID, date string, slot int) CompleteResult {
	if slot < 1 || slot > 3 {
		return CompleteResult{Error: "slot must be 1, 2 or 3"}
	}

	var a models.MissionAssignment
	if err := s.DB.Where("agent_id = ? AND date = ?", agentID, date).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompleteResult{Error: "no assignment for that date"}
		}
		return CompleteResult{Error: fmt.Sprintf("fetch assignment: %v", err)}
	}
	if a.ReleasedAt == nil {
		return CompleteResult{Error: "assignment is not released yet"}
	}

	var missionID string
	var doneFlag *bool
	var flagCol, atCol string
	switch slot {
	case 1:
		missionID, doneFlag, flagCol, atCol = a.MissionID1, a.Completed1, "completed_1", "completed_at_1"
	case 2:
		missionID, doneFlag, flagCol, atCol = a.MissionID2, a.Completed2, "completed_2", "completed_at_2"
	case 3:
		missionID, doneFlag, flagCol, atCol = a.MissionID3, a.Completed3, "completed_3", "completed_at_3"
	}
	if missionID == "" {
		return CompleteResult{Error: "slot is empty"}
	}
	if doneFlag != nil && *doneFlag {
		return CompleteResult{Error: "mission already completed"}
	}

	var tmpl models.MissionTemplate
	if err := s.DB.Where("id = ?", missionID).First(&tmpl).Error; err != nil {
		return CompleteResult{Error: fmt.Sprintf("mission template lookup: %v", err)}
	}

	now := time.Now()
	done := true
	if err := s.DB.Model(&models.MissionAssignment{}).Where("id = ?", a.ID).
		Updates(map[string]interface{}{flagCol: &done, atCol: &now}).Error; err != nil {
		return CompleteResult{Error: fmt.Sprintf("mark complete: %v", err)}
	}

	grant := s.Ledger.Grant(agentID, tmpl.Points, fmt.Sprintf("mission %s completed", tmpl.Code), "MISSION")
	return CompleteResult{Success: grant.Success, Error: grant.Error, Grant: grant}
}

// ReleaseDue flips ReleasedAt on every assignment whose day has arrived.
// Idempotent — released rows are excluded by the null check.
func (s *MissionService) ReleaseDue() (int64, error) {
	now := time.Now()
	res := s.DB.Model(&models.MissionAssignment{}).
		Where("date <= ? AND released_at IS NULL", s.Cal.Today()).
		Update("released_at", &now)
	if res.Error != nil {
		return 0, fmt.Errorf("release due assignments: %w", res.Error)
	}
	return res.RowsAffected, nil
}
