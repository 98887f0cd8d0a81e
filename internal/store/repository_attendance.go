package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/internal/logger"
	"github.com/gonzalopetosa/control-ingreso-reconocimiento-facial/models"
)

var attendanceColumns = []string{"id", "user_id", "day", "check_in_at", "check_out_at", "area", "auto_closed"}

// attendanceRepository persists the attendance ledger. OpenRecord and
// CloseRecord run their existence check and the following write inside one
// transaction with FOR UPDATE row locks, so two concurrent calls for the
// same user serialize at the database.
type attendanceRepository struct {
	logger  *logger.Logger
	db      *DB
	builder squirrel.StatementBuilderType
}

func NewAttendanceRepository(db *DB, logger *logger.Logger) AttendanceRepository {
	logger.Debug().Msg("AttendanceRepository created")
	return &attendanceRepository{
		db:      db,
		logger:  logger,
		builder: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *attendanceRepository) OpenRecord(ctx context.Context, userID int64, checkIn time.Time, day string, area string) (models.AttendanceRecord, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	existing, found, err := r.lockOpenRecord(ctx, tx, userID, day)
	if err != nil {
		return models.AttendanceRecord{}, false, err
	}
	if found {
		// already checked in today, nothing to insert
		if err := tx.Commit(); err != nil {
			return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return existing, false, nil
	}

	query, args, err := r.builder.
		Insert(models.AttendanceRecord{}.TableName()).
		Columns("user_id", "day", "check_in_at", "area").
		Values(userID, day, checkIn, area).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record := models.AttendanceRecord{
		UserID:    userID,
		Day:       day,
		CheckInAt: checkIn,
		Area:      area,
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&record.ID); err != nil {
		r.logger.Err(err).Str("func", "*attendanceRepository.OpenRecord").Int64("user_id", userID).Msg("error inserting attendance record")
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err := tx.Commit(); err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	return record, true, nil
}

func (r *attendanceRepository) CloseRecord(ctx context.Context, userID int64, checkOut time.Time, day string) (models.AttendanceRecord, bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	record, found, err := r.lockOpenRecord(ctx, tx, userID, day)
	if err != nil {
		return models.AttendanceRecord{}, false, err
	}
	if !found {
		if err := tx.Commit(); err != nil {
			return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
		}
		return models.AttendanceRecord{}, false, nil
	}

	query, args, err := r.builder.
		Update(models.AttendanceRecord{}.TableName()).
		Set("check_out_at", checkOut).
		Where(squirrel.Eq{"id": record.ID}).
		ToSql()
	if err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		r.logger.Err(err).Str("func", "*attendanceRepository.CloseRecord").Int64("user_id", userID).Msg("error closing attendance record")
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	if err := tx.Commit(); err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrCommitingTransaction, err)
	}

	record.CheckOutAt = &checkOut
	return record, true, nil
}

func (r *attendanceRepository) ListByUser(ctx context.Context, userID int64) ([]models.AttendanceRecord, error) {
	query, args, err := r.builder.
		Select(attendanceColumns...).
		From(models.AttendanceRecord{}.TableName()).
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("day DESC", "check_in_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var records []models.AttendanceRecord
	for rows.Next() {
		record, err := scanAttendanceRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return records, nil
}

func (r *attendanceRepository) CloseStale(ctx context.Context, cutoff time.Time, closeAt time.Time) (int64, error) {
	query, args, err := r.builder.
		Update(models.AttendanceRecord{}.TableName()).
		Set("check_out_at", closeAt).
		Set("auto_closed", true).
		Where("check_out_at IS NULL").
		Where(squirrel.Lt{"check_in_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Err(err).Str("func", "*attendanceRepository.CloseStale").Msg("error closing stale records")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	closed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return closed, nil
}

// lockOpenRecord selects the most recent open record for (userID, day) with
// FOR UPDATE so the row stays locked until the surrounding transaction ends.
func (r *attendanceRepository) lockOpenRecord(ctx context.Context, tx *sql.Tx, userID int64, day string) (models.AttendanceRecord, bool, error) {
	query, args, err := r.builder.
		Select(attendanceColumns...).
		From(models.AttendanceRecord{}.TableName()).
		Where(squirrel.Eq{"user_id": userID}).
		Where(squirrel.Eq{"day": day}).
		Where("check_out_at IS NULL").
		OrderBy("check_in_at DESC").
		Limit(1).
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return models.AttendanceRecord{}, false, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	record, err := scanAttendanceRecord(tx.QueryRowContext(ctx, query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AttendanceRecord{}, false, nil
		}
		return models.AttendanceRecord{}, false, err
	}

	return record, true, nil
}

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAttendanceRecord(row rowScanner) (models.AttendanceRecord, error) {
	var record models.AttendanceRecord
	var day time.Time
	var checkOut sql.NullTime

	err := row.Scan(&record.ID, &record.UserID, &day, &record.CheckInAt, &checkOut, &record.Area, &record.AutoClosed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.AttendanceRecord{}, err
		}
		return models.AttendanceRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, err)
	}

	record.Day = day.Format(models.DayFormat)
	if checkOut.Valid {
		record.CheckOutAt = &checkOut.Time
	}

	return record, nil
}
