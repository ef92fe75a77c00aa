package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scheduler errors
var (
	ErrInvalidConfig       = errors.New("scheduler: invalid configuration")
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
)

// CredentialRefresher renews marketplace tokens that are close to expiry.
// It returns the number of credentials refreshed.
type CredentialRefresher interface {
	RefreshExpiring(ctx context.Context, within time.Duration) (int, error)
}

// CredentialRefreshConfig holds the background refresh settings
type CredentialRefreshConfig struct {
	// Interval is how often the refresh pass runs
	Interval time.Duration
	// Window is how far ahead of expiry a token is considered stale
	Window time.Duration
	// PassTimeout bounds a single refresh pass
	PassTimeout time.Duration
}

// DefaultCredentialRefreshConfig returns the default configuration
func DefaultCredentialRefreshConfig() CredentialRefreshConfig {
	return CredentialRefreshConfig{
		Interval:    30 * time.Minute,
		Window:      2 * time.Hour,
		PassTimeout: 2 * time.Minute,
	}
}

// Validate validates the configuration
func (c *CredentialRefreshConfig) Validate() error {
	if c.Interval <= 0 {
		return ErrInvalidConfig
	}
	if c.Window <= 0 {
		return ErrInvalidConfig
	}
	if c.PassTimeout <= 0 {
		c.PassTimeout = 2 * time.Minute
	}
	return nil
}

// CredentialRefreshScheduler runs periodic refresh passes so the webhook
// path rarely has to refresh inline on a 401.
type CredentialRefreshScheduler struct {
	config    CredentialRefreshConfig
	refresher CredentialRefresher
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewCredentialRefreshScheduler creates a new scheduler
func NewCredentialRefreshScheduler(config CredentialRefreshConfig, refresher CredentialRefresher, logger *zap.Logger) (*CredentialRefreshScheduler, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &CredentialRefreshScheduler{
		config:    config,
		refresher: refresher,
		logger:    logger,
	}, nil
}

// Start starts the refresh loop. An immediate pass runs before the first
// tick so restarts do not leave stale tokens waiting a full interval.
func (s *CredentialRefreshScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)
	go s.run(ctx)

	s.logger.Info("Credential refresh scheduler started",
		zap.Duration("interval", s.config.Interval),
		zap.Duration("window", s.config.Window),
	)

	return nil
}

// Stop gracefully stops the scheduler
func (s *CredentialRefreshScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Credential refresh scheduler stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Credential refresh scheduler stop timed out")
		return ctx.Err()
	}
}

// run drives the ticker loop
func (s *CredentialRefreshScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	s.refreshPass(ctx)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.refreshPass(ctx)
		}
	}
}

// refreshPass runs one refresh pass. Failures are logged, never fatal;
// the next tick tries again.
func (s *CredentialRefreshScheduler) refreshPass(ctx context.Context) {
	passCtx, cancel := context.WithTimeout(ctx, s.config.PassTimeout)
	defer cancel()

	refreshed, err := s.refresher.RefreshExpiring(passCtx, s.config.Window)
	if err != nil {
		s.logger.Error("Credential refresh pass failed",
			zap.Int("refreshed", refreshed),
			zap.Error(err),
		)
		return
	}

	if refreshed > 0 {
		s.logger.Info("Credential refresh pass completed",
			zap.Int("refreshed", refreshed),
		)
	}
}
