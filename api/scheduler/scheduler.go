package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/nyayasankalan/case-api/api"
	"github.com/nyayasankalan/case-api/databases"
)

// Scheduler handles periodic background jobs
type Scheduler struct {
	cron     *cron.Cron
	DB       databases.CaseDatabase
	Metrics  *api.Metrics
	schedule string
}

// NewScheduler creates a new scheduler instance refreshing the case metrics on
// schedule, a cron expression or descriptor such as "@every 5m"
func NewScheduler(db databases.CaseDatabase, metrics *api.Metrics, schedule string) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		DB:       db,
		Metrics:  metrics,
		schedule: schedule,
	}
}

// Start registers the jobs, runs the metrics refresh once and starts the cron
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RefreshCaseMetrics); err != nil {
		zap.S().Errorw("failed to register case metrics job", "schedule", s.schedule, "error", err)
		return err
	}

	s.RefreshCaseMetrics()
	s.cron.Start()
	zap.S().Infow("scheduler started", "schedule", s.schedule)
	return nil
}

// Stop gracefully stops the scheduler
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	zap.S().Info("scheduler stopped")
}

// RefreshCaseMetrics recounts the cases per state into the gauge
func (s *Scheduler) RefreshCaseMetrics() {
	ctx, cancel := api.WithQueryTimeout(context.Background())
	defer cancel()

	counts, err := s.DB.CountByState(ctx)
	if err != nil {
		zap.S().Errorw("failed to count cases by state", "error", err)
		return
	}
	s.Metrics.SetCasesByState(counts)
	zap.S().Debugw("case metrics refreshed", "states", len(counts))
}
