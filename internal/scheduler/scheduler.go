package scheduler

import (
	"log"

	"hotel-pipeline/internal/config"
	"hotel-pipeline/internal/pipeline"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the weekly pipeline on a cron schedule
type Scheduler struct {
	cron      *cron.Cron
	pipeline  *pipeline.Pipeline
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler
func NewScheduler(p *pipeline.Pipeline, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		pipeline: p,
		config:   cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Scheduler.WeeklyRunEnabled {
		log.Println("Scheduler: weekly run is disabled in configuration")
		return nil
	}

	spec := s.config.Scheduler.WeeklyRunSpec
	if spec == "" {
		spec = "0 3 * * 1" // Monday 03:00
	}

	_, err := s.cron.AddFunc(spec, func() {
		log.Println("Scheduler: starting weekly pipeline...")
		if err := s.pipeline.RunWeekly(); err != nil {
			log.Printf("Scheduler: weekly pipeline failed: %v", err)
		} else {
			log.Println("Scheduler: weekly pipeline completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: started with weekly run (cron: %s)", spec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: stopped")
	}
}

// RunNow immediately executes the weekly pipeline (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: manual trigger - starting weekly pipeline...")
	return s.pipeline.RunWeekly()
}
