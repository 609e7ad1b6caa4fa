package scheduler

import (
	"github.com/robfig/cron/v3"
	"github.com/rustchain/bounty-hunter-bot/internal/config"
	"github.com/sirupsen/logrus"
)

// Scanner is the part of the monitoring service the scheduler drives
type Scanner interface {
	RunScan() error
	RunCriticalCheck() error
}

// Service handles scheduling of scan tasks
type Service struct {
	config  *config.Config
	scanner Scanner
	cron    *cron.Cron
}

// NewService creates a new scheduler service
func NewService(cfg *config.Config, scanner Scanner) *Service {
	return &Service{
		config:  cfg,
		scanner: scanner,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// ScheduleFor returns the cron expression of a report schedule
func ScheduleFor(schedule string) string {
	switch schedule {
	case "daily":
		// 9 AM every day
		return "0 0 9 * * *"
	default:
		// Monday 9 AM
		return "0 0 9 * * MON"
	}
}

// Start registers the jobs and starts the cron loop
func (s *Service) Start() error {
	_, err := s.cron.AddFunc(ScheduleFor(s.config.ReportSchedule), func() {
		logrus.Info("Starting scheduled bounty scan")
		if err := s.scanner.RunScan(); err != nil {
			logrus.Errorf("Scheduled scan failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	// Critical leads are worth catching between reports
	_, err = s.cron.AddFunc("0 0 */4 * * *", func() {
		logrus.Info("Starting critical lead check (4-hour frequency)")
		if err := s.scanner.RunCriticalCheck(); err != nil {
			logrus.Errorf("Critical lead check failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	logrus.Infof("Scheduler started with %s schedule (plus critical checks every 4 hours)", s.config.ReportSchedule)
	return nil
}

// Entries returns the number of registered jobs
func (s *Service) Entries() int {
	return len(s.cron.Entries())
}

// Stop stops the scheduler
func (s *Service) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
		logrus.Info("Scheduler stopped")
	}
}
