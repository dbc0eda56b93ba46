// workers/agent_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"agent-gamification-system/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MirroredAgentProfile matches the JSON response from the CRM profile service.
type MirroredAgentProfile struct {
	ID            string    `json:"id"`
	ExternalID    string    `json:"external_id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	AccountStatus string    `json:"account_status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// GetAgentChangesResponse is the top-level structure of the CRM service response.
type GetAgentChangesResponse struct {
	Agents []MirroredAgentProfile `json:"agents"`
}

// AgentSyncWorker mirrors CRM agent profiles into the local agents table so
// rankings and assignments never have to call out mid-request. The active
// flag it maintains is what decides who appears in the monthly leaderboard.
type AgentSyncWorker struct {
	db           *gorm.DB
	interval     time.Duration
	baseURL      string // e.g., "http://localhost:8500"
	endpointPath string // e.g., "/api/v1/public/agents"
	serviceToken string
	httpClient   *http.Client
}

func NewAgentSyncWorker(db *gorm.DB, crmServiceBaseURL, endpointPath, serviceToken string) *AgentSyncWorker {
	return &AgentSyncWorker{
		db:           db,
		interval:     1 * time.Minute,
		baseURL:      crmServiceBaseURL,
		endpointPath: endpointPath,
		serviceToken: serviceToken,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (w *AgentSyncWorker) Start(ctx context.Context) {
	log.Println("🔁 Starting Agent Sync Worker (CRM profiles → agents)…")
	go w.run(ctx)
}

func (w *AgentSyncWorker) run(ctx context.Context) {
	// Initial sync (backfill if needed) - sync from the beginning of time
	if err := w.syncBatch(ctx, time.Time{}); err != nil {
		log.Printf("⚠️ Initial agent sync failed: %v", err)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			lastSyncTime := w.getLastSyncTime()
			if err := w.syncBatch(ctx, lastSyncTime); err != nil {
				log.Printf("❌ Agent sync batch failed: %v", err)
			}
		case <-ctx.Done():
			log.Println("⏹️ Agent Sync Worker stopped")
			return
		}
	}
}

// getLastSyncTime finds the most recent UpdatedAt from the local agents table.
func (w *AgentSyncWorker) getLastSyncTime() time.Time {
	var lastTime time.Time
	err := w.db.Raw("SELECT MAX(updated_at) FROM agents WHERE deleted_at IS NULL").Scan(&lastTime).Error
	if err != nil || lastTime.IsZero() {
		return time.Unix(0, 0) // Fallback to epoch if no records or error
	}
	return lastTime
}

// syncBatch fetches agent changes from the CRM service and upserts the local
// mirrored rows. XP balance columns are never touched here — the ledger owns
// those.
func (w *AgentSyncWorker) syncBatch(ctx context.Context, since time.Time) error {
	sinceStr := since.UTC().Format(time.RFC3339)

	base, err := url.Parse(w.baseURL)
	if err != nil {
		return fmt.Errorf("invalid base CRM service URL '%s': %w", w.baseURL, err)
	}

	endpointURL := base.JoinPath(w.endpointPath)
	q := endpointURL.Query()
	q.Set("since", sinceStr)
	endpointURL.RawQuery = q.Encode()
	finalURL := endpointURL.String()

	req, err := http.NewRequestWithContext(ctx, "GET", finalURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request to %s: %w", finalURL, err)
	}
	req.Header.Set("X-Service-Token", w.serviceToken)

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request to CRM service failed: %w", err)
	}
	defer func() {
		// Always drain & close to prevent connection leaks
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("CRM service non-200 response: %d — %s", resp.StatusCode, string(body))
	}

	var response GetAgentChangesResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return fmt.Errorf("failed to decode CRM service response: %w", err)
	}

	if len(response.Agents) == 0 {
		return nil
	}

	log.Printf("[SYNC] 📥 Processing %d agent(s) from CRM service…", len(response.Agents))

	var upsertCount, errorCount int
	for _, remote := range response.Agents {
		localAgent := models.Agent{
			ExternalUserID: remote.ExternalID,
			Username:       remote.Username,
			Email:          remote.Email,
			Active:         remote.AccountStatus == "active",
		}

		if err := w.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "external_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"username", "email", "active", "updated_at",
			}),
		}).Create(&localAgent).Error; err != nil {
			errorCount++
			log.Printf("[SYNC] ⚠️ Failed to upsert agent (external_id=%q, username=%q): %v",
				remote.ExternalID, remote.Username, err)
		} else {
			upsertCount++
		}
	}

	log.Printf("[SYNC] ✅ Synced %d agents (%d upserted, %d errors)",
		len(response.Agents), upsertCount, errorCount)
	return nil
}
