package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"casa/internal/log"
)

// SchedulerConfig holds configuration for the recurring scheduler.
type SchedulerConfig struct {
	// Interval is how often recurring tasks are checked (default: 1h)
	Interval time.Duration
}

// DefaultSchedulerConfig returns sensible defaults
func DefaultSchedulerConfig() SchedulerConfig {
	return SchedulerConfig{Interval: time.Hour}
}

// RecurringScheduler runs MaintenanceService.ProcessRecurring on a ticker.
type RecurringScheduler struct {
	maintenance *MaintenanceService
	config      SchedulerConfig
	logger      *log.Logger
	now         func() time.Time

	// Lifecycle management
	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	doneCh  chan struct{}
}

func NewRecurringScheduler(m *MaintenanceService, config SchedulerConfig, logger *log.Logger) *RecurringScheduler {
	if config.Interval <= 0 {
		config.Interval = DefaultSchedulerConfig().Interval
	}
	if logger == nil {
		logger = log.Discard()
	}
	s := &RecurringScheduler{
		maintenance: m,
		config:      config,
		logger:      logger.WithComponent(log.ComponentMaintenance),
		now:         time.Now,
	}
	if m != nil && m.env != nil {
		s.now = m.env.Now
	}
	return s
}

// Start begins the processing loop. Returns an error if already running.
func (s *RecurringScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("recurring scheduler is already running")
	}
	s.running = true
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})
	s.mu.Unlock()

	go s.runLoop(ctx)

	s.logger.InfoContext(ctx, "Recurring scheduler started", "interval", s.config.Interval)
	return nil
}

// Stop signals the loop and waits for the current run to finish.
func (s *RecurringScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	close(s.stopCh)

	select {
	case <-s.doneCh:
		s.logger.InfoContext(ctx, "Recurring scheduler stopped gracefully")
	case <-ctx.Done():
		s.logger.WarnContext(ctx, "Recurring scheduler stop timed out")
		return ctx.Err()
	}

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
	return nil
}

func (s *RecurringScheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *RecurringScheduler) runLoop(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	// Process immediately on startup
	s.runOnce(ctx)

	for {
		select {
		case <-s.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *RecurringScheduler) runOnce(ctx context.Context) {
	if _, err := s.maintenance.ProcessRecurring(ctx, s.now().UTC()); err != nil {
		s.logger.ErrorContext(ctx, "Recurring task processing failed",
			log.NewFields().WithOperation(log.OpRecur).WithError(err).ToSlice()...)
	}
}
