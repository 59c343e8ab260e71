package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"

	"pingwatch/internal/logging"
)

// stopGrace is how long Stop waits beyond one probe interval for an
// in-flight cycle before giving up on it.
const stopGrace = 30 * time.Second

// Scheduler runs Loop cycles on a fixed interval in the background
type Scheduler struct {
	scheduler gocron.Scheduler
	loop      *Loop
	interval  time.Duration
	logger    *zap.Logger

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
}

// NewScheduler creates a scheduler that runs loop every interval
func NewScheduler(loop *Loop, interval time.Duration, logger *zap.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	scheduler, err := gocron.NewScheduler(
		gocron.WithLogger(logging.NewGocronLogger(logger)),
		gocron.WithStopTimeout(interval+stopGrace),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	return &Scheduler{
		scheduler: scheduler,
		loop:      loop,
		interval:  interval,
		logger:    logger.Named("scheduler"),
	}, nil
}

// Start runs the first cycle immediately and then one per interval. A cycle
// never overlaps the previous one: a late cycle pushes the next one back.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(func() {
			// Stop was requested between cycles.
			if ctx.Err() != nil {
				return
			}
			out := s.loop.RunCycle(ctx)
			s.logger.Debug("cycle complete", zap.Stringer("kind", out.Kind))
		}),
		gocron.WithName("probe"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		cancel()
		return fmt.Errorf("failed to create probe job: %w", err)
	}

	s.scheduler.Start()
	s.running = true
	s.cancel = cancel

	return nil
}

// Stop prevents further cycles and waits for the one in flight to finish.
// A probe that hangs longer than the stop timeout is abandoned.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return fmt.Errorf("scheduler is not running")
	}

	s.cancel()
	s.running = false
	if err := s.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("failed to stop scheduler: %w", err)
	}
	return nil
}

// IsRunning returns whether the scheduler is running
func (s *Scheduler) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}
