package scheduler

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Scheduler fires the daily forecast job at a fixed local time.
type Scheduler struct {
	scheduler *gocron.Scheduler
	runAt     string
	job       func()
}

// New creates a Scheduler running the job once a day at runAt ("HH:MM") in tz.
func New(runAt string, tz *time.Location, job func()) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(tz),
		runAt:     runAt,
		job:       job,
	}
}

// Start schedules the daily job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.job == nil {
		log.Println("scheduler: no job configured; nothing to schedule")
		return nil
	}

	_, err := s.scheduler.Every(1).Day().At(s.runAt).Do(func() {
		log.Println("scheduler: running daily forecast job")
		s.job()
		log.Println("scheduler: completed daily forecast job")
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
