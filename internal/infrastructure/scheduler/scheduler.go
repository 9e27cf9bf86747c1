package scheduler

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"github.com/sirupsen/logrus"

	"github.com/propgate/propgate/internal/core/ports"
)

// Scheduler runs the in-process daily dunning job. Deployments that drive
// the run through the HTTP trigger instead leave it disabled; running both
// is safe because issuance is cool-down guarded, but it wastes work.
type Scheduler struct {
	scheduler      gocron.Scheduler
	dunningService ports.DunningService
	logger         *logrus.Logger
}

// Config controls job registration.
type Config struct {
	DunningEnabled bool
	// DunningHour and DunningMinute give the daily run time in the
	// server's zone.
	DunningHour   int
	DunningMinute int
}

func New(dunningService ports.DunningService, cfg Config, logger *logrus.Logger) (*Scheduler, error) {
	gs, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}
	s := &Scheduler{scheduler: gs, dunningService: dunningService, logger: logger}

	if cfg.DunningEnabled {
		_, err := gs.NewJob(
			gocron.DailyJob(1, gocron.NewAtTimes(
				gocron.NewAtTime(uint(cfg.DunningHour), uint(cfg.DunningMinute), 0),
			)),
			gocron.NewTask(s.runDunning),
			gocron.WithName("automatic-dunning"),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to register dunning job: %w", err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.scheduler.Start()
}

func (s *Scheduler) Stop() error {
	return s.scheduler.Shutdown()
}

func (s *Scheduler) runDunning() {
	summary, err := s.dunningService.RunAutomatic(context.Background())
	if err != nil {
		s.logger.WithError(err).Error("scheduled dunning run failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"tenants_processed": summary.TenantsProcessed,
		"records_created":   summary.RecordsCreated,
	}).Info("scheduled dunning run finished")
}
