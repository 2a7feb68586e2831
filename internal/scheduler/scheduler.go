package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hamed0406/sessionkeeper/internal/credential"
	"github.com/hamed0406/sessionkeeper/internal/domain"
	"github.com/hamed0406/sessionkeeper/internal/pinger"
	"github.com/hamed0406/sessionkeeper/internal/repo"
)

// CredentialReader yields the current token, re-reading it on every call.
type CredentialReader interface {
	Read() (string, error)
}

type Pinger interface {
	Ping(ctx context.Context, token string) (pinger.Outcome, error)
}

type Scheduler struct {
	Logger   *zap.Logger
	Reader   CredentialReader
	Pinger   Pinger
	Cycles   repo.CycleStore // optional
	Interval time.Duration
	// MissingFatal stops the loop when the settings file does not exist.
	MissingFatal bool

	now   func() time.Time
	newID func() string
}

func New(logger *zap.Logger, r CredentialReader, p Pinger, cycles repo.CycleStore, interval time.Duration) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = time.Hour
	}
	return &Scheduler{
		Logger:   logger,
		Reader:   r,
		Pinger:   p,
		Cycles:   cycles,
		Interval: interval,
		now:      time.Now,
		newID:    uuid.NewString,
	}
}

// Run does an immediate cycle, then one per Interval. It returns ctx.Err()
// when ctx is cancelled, or the credential error that made the agent stop.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			return err
		}

		s.Logger.Info("initiated sleep, next iteration in "+s.Interval.String(),
			zap.Duration("interval", s.Interval),
		)
		if err := s.sleep(ctx); err != nil {
			s.Logger.Info("scheduler_stopped")
			return err
		}
	}
}

func (s *Scheduler) sleep(ctx context.Context) error {
	t := time.NewTimer(s.Interval)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// RunOnce performs a single cycle. The error is non-nil only when the cycle
// hit a failure that must stop the agent.
func (s *Scheduler) RunOnce(ctx context.Context) (domain.Cycle, error) {
	c := domain.Cycle{ID: s.cycleID(), StartedAt: s.clock().UTC()}
	log := s.Logger.With(zap.String("cycle_id", c.ID))

	token, err := s.Reader.Read()
	switch {
	case err != nil && s.MissingFatal && errors.Is(err, credential.ErrMissing):
		log.Error("settings_missing_fatal", zap.Error(err))
		c.SkipReason = credential.Kind(err)
		s.record(ctx, log, &c)
		return c, err
	case err != nil:
		log.Warn("cycle skipped, the settings file could not be accessed due to an I/O or validation error",
			zap.String("kind", credential.Kind(err)),
		)
		c.SkipReason = credential.Kind(err)
	default:
		c.Attempted = true
		out, perr := s.Pinger.Ping(ctx, token)
		c.HTTPStatus = out.StatusCode
		c.LatencyMS = out.LatencyMS
		var terr *pinger.TransportError
		if errors.As(perr, &terr) {
			c.Reason = terr.Reason
		}
	}

	s.record(ctx, log, &c)
	return c, nil
}

func (s *Scheduler) record(ctx context.Context, log *zap.Logger, c *domain.Cycle) {
	c.FinishedAt = s.clock().UTC()
	if s.Cycles == nil {
		return
	}
	if err := s.Cycles.Append(ctx, c); err != nil {
		log.Warn("cycle_record_error", zap.Error(err))
	}
}

func (s *Scheduler) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Scheduler) cycleID() string {
	if s.newID != nil {
		return s.newID()
	}
	return uuid.NewString()
}
