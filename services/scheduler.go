// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartSchedulers wires the two cron paths: a minute-resolution sweep that
// releases due mission assignments, and a nightly full ranking rebuild.
// Admin routes can still trigger both on demand.
func StartSchedulers(missions *MissionService, rankings *RankingService) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every minute: release assignments whose day has arrived
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			released, err := missions.ReleaseDue()
			if err != nil {
				log.Printf("[Scheduler] release sweep failed: %v", err)
				return
			}
			if released > 0 {
				log.Printf("✅ Released %d mission assignments", released)
			}
		}),
	)

	// Nightly at 00:30: rebuild the current month's leaderboard
	_, _ = sched.NewJob(
		gocron.CronJob("30 0 * * *", false),
		gocron.NewTask(func() {
			if _, err := rankings.Rebuild(); err != nil {
				log.Printf("[Scheduler] nightly ranking rebuild failed: %v", err)
			}
		}),
	)
}
