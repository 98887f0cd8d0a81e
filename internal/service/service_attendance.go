package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/config"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/store"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

// nightShiftCutoffHour: check-outs before this hour close the previous
// day's record, so a shift that crosses midnight ends on the day it began.
const nightShiftCutoffHour = 6

// attendanceLedger keeps idempotent per-user-per-day entry/exit records.
// Same-user calls are serialized twice over: a keyed in-process mutex keeps
// this instance's goroutines apart, and the repository's FOR UPDATE row
// lock covers concurrent instances sharing the database.
type attendanceLedger struct {
	attendanceRepository store.AttendanceRepository

	// defaultArea is stamped on entries that do not name a facility zone.
	defaultArea string

	// maxShiftDuration bounds how long a record may stay open before the
	// sweeper force-closes it.
	maxShiftDuration time.Duration

	logger *logger.Logger

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

func NewAttendanceLedger(attendanceRepository store.AttendanceRepository, cfg config.Attendance, logger *logger.Logger) AttendanceLedger {
	return &attendanceLedger{
		attendanceRepository: attendanceRepository,
		defaultArea:          cfg.DefaultArea,
		maxShiftDuration:     cfg.MaxShiftDuration,
		logger:               logger,
		userLocks:            map[int64]*sync.Mutex{},
	}
}

func (l *attendanceLedger) RecordEntry(ctx context.Context, userID int64, ts time.Time, area string) (models.AttendanceRecord, error) {
	log := logger.FromContext(ctx)

	if area == "" {
		area = l.defaultArea
	}
	day := entryDay(ts)

	unlock := l.lockUser(userID)
	defer unlock()

	record, created, err := l.attendanceRepository.OpenRecord(ctx, userID, ts, day, area)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Str("day", day).Msg("opening attendance record failed")
		return models.AttendanceRecord{}, fmt.Errorf("opening attendance record failed: %w", err)
	}

	if !created {
		log.Debug().Int64("user_id", userID).Str("day", day).Msg("attendance record already open, entry ignored")
		return record, nil
	}

	log.Info().Int64("user_id", userID).Str("day", day).Str("area", area).Msg("attendance entry recorded")
	return record, nil
}

func (l *attendanceLedger) RecordExit(ctx context.Context, userID int64, ts time.Time) (models.AttendanceRecord, error) {
	log := logger.FromContext(ctx)

	day := exitDay(ts)

	unlock := l.lockUser(userID)
	defer unlock()

	record, closed, err := l.attendanceRepository.CloseRecord(ctx, userID, ts, day)
	if err != nil {
		log.Err(err).Int64("user_id", userID).Str("day", day).Msg("closing attendance record failed")
		return models.AttendanceRecord{}, fmt.Errorf("closing attendance record failed: %w", err)
	}

	if !closed && day != entryDay(ts) {
		// night-shift target had nothing open, fall back to ts's own day
		day = entryDay(ts)
		record, closed, err = l.attendanceRepository.CloseRecord(ctx, userID, ts, day)
		if err != nil {
			log.Err(err).Int64("user_id", userID).Str("day", day).Msg("closing attendance record failed")
			return models.AttendanceRecord{}, fmt.Errorf("closing attendance record failed: %w", err)
		}
	}

	if !closed {
		log.Debug().Int64("user_id", userID).Str("day", day).Msg("no open attendance record to close")
		return models.AttendanceRecord{}, ErrNothingToClose
	}

	log.Info().Int64("user_id", userID).Str("day", day).Msg("attendance exit recorded")
	return record, nil
}

func (l *attendanceLedger) History(ctx context.Context, userID int64) ([]models.AttendanceRecord, error) {
	records, err := l.attendanceRepository.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing attendance records failed: %w", err)
	}

	return records, nil
}

func (l *attendanceLedger) CloseStaleRecords(ctx context.Context, now time.Time) (int64, error) {
	cutoff := now.Add(-l.maxShiftDuration)

	closed, err := l.attendanceRepository.CloseStale(ctx, cutoff, now)
	if err != nil {
		l.logger.Err(err).Msg("closing stale attendance records failed")
		return 0, fmt.Errorf("closing stale attendance records failed: %w", err)
	}

	if closed > 0 {
		l.logger.Info().Int64("closed", closed).Time("cutoff", cutoff).Msg("stale attendance records force-closed")
	}

	return closed, nil
}

// lockUser serializes attendance operations per user within this process.
func (l *attendanceLedger) lockUser(userID int64) func() {
	l.mu.Lock()
	lock, ok := l.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		l.userLocks[userID] = lock
	}
	l.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

// entryDay is the calendar day an entry at ts belongs to.
func entryDay(ts time.Time) string {
	return ts.Format(models.DayFormat)
}

// exitDay is the calendar day whose open record an exit at ts should close.
// Early-morning exits target the previous day, covering night shifts.
func exitDay(ts time.Time) string {
	if ts.Hour() < nightShiftCutoffHour {
		return ts.AddDate(0, 0, -1).Format(models.DayFormat)
	}
	return ts.Format(models.DayFormat)
}
