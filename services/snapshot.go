package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"agent-gamification-system/utils"
)

// ExportSnapshot writes a rebuilt leaderboard to R2 as CSV and returns the
// public URL. Best-effort companion to Rebuild — the persisted ranking rows
// stay authoritative whether or not the export succeeds.
func (s *RankingService) ExportSnapshot(results []RankingResult) (string, error) {
	year, month := s.Cal.CurrentMonth()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	_ = w.Write([]string{"rank", "agent_id", "total_points"})
	for _, r := range results {
		_ = w.Write([]string{
			strconv.Itoa(r.Rank),
			r.AgentID,
			strconv.FormatInt(r.TotalPoints, 10),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("snapshot csv: %w", err)
	}

	key := fmt.Sprintf("leaderboards/%04d-%02d.csv", year, month)
	return utils.UploadBytesToR2(buf.Bytes(), key, "text/csv")
}
