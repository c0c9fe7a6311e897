package scheduler

import (
	"context"
	"log"
	"time"

	"aquactl/internal/db"

	"github.com/robfig/cron/v3"
)

// pruneSpec runs the retention job nightly at 03:00.
const pruneSpec = "0 3 * * *"

// Scheduler manages the periodic maintenance jobs. The ingestion path never
// deletes anything; this is the one place old telemetry rows are purged.
type Scheduler struct {
	cron          *cron.Cron
	db            *db.DB
	retentionDays int
}

// NewScheduler creates a scheduler over the given database.
func NewScheduler(dbConn *db.DB, retentionDays int) *Scheduler {
	return &Scheduler{
		cron:          cron.New(),
		db:            dbConn,
		retentionDays: retentionDays,
	}
}

// Start registers the maintenance jobs and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(pruneSpec, s.pruneOldReadings); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("SCHEDULER: started, telemetry retention %d days", s.retentionDays)
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Println("SCHEDULER: stopped")
}

func (s *Scheduler) pruneOldReadings() {
	cutoff := time.Now().AddDate(0, 0, -s.retentionDays)
	removed, err := s.db.PruneSensorDataBefore(context.Background(), cutoff)
	if err != nil {
		log.Printf("SCHEDULER: telemetry prune failed: %v", err)
		return
	}
	log.Printf("SCHEDULER: pruned %d telemetry rows older than %s", removed, cutoff.Format(time.RFC3339))
}
