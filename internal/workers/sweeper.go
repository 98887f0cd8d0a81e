// Package workers hosts the background jobs that keep the attendance
// ledger healthy outside the request path.
package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/service"
)

// Sweeper force-closes attendance records left open past the maximum shift
// duration. It runs daily at the configured local time; forgotten
// check-outs would otherwise leave the per-day invariant meaningless after
// a crash or a walked-out shift.
type Sweeper struct {
	ledger    service.AttendanceLedger
	scheduler *gocron.Scheduler

	// sweepAt is the "HH:MM" local time of the daily run.
	sweepAt string

	logger *logger.Logger
}

func NewSweeper(ledger service.AttendanceLedger, cfg config.Attendance, logger *logger.Logger) *Sweeper {
	return &Sweeper{
		ledger:    ledger,
		scheduler: gocron.NewScheduler(time.Local),
		sweepAt:   cfg.SweepAt,
		logger:    logger,
	}
}

// Start schedules the daily sweep and launches the scheduler in the
// background.
func (s *Sweeper) Start() error {
	if _, err := s.scheduler.Every(1).Day().At(s.sweepAt).Do(s.sweep); err != nil {
		return fmt.Errorf("scheduling attendance sweep: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info().Str("at", s.sweepAt).Msg("attendance sweeper scheduled")
	return nil
}

func (s *Sweeper) Stop() {
	s.scheduler.Stop()
	s.logger.Info().Msg("attendance sweeper stopped")
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	closed, err := s.ledger.CloseStaleRecords(ctx, time.Now())
	if err != nil {
		s.logger.Err(err).Msg("attendance sweep failed")
		return
	}

	s.logger.Info().Int64("closed", closed).Msg("attendance sweep completed")
}
