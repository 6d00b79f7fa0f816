package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schooltrack/attendance-api/internal/models"
)

// AttendanceRepository persists the raw attendance list. The table mirrors
// the in-memory sequence the aggregation core works on: the position column
// is the index into that sequence, so reads reproduce insertion order and
// writes replace the whole collection at once.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListAll returns every raw record in insertion order.
func (r *AttendanceRepository) ListAll(ctx context.Context) ([]models.AttendanceRecord, error) {
	var records []models.AttendanceRecord
	query := "SELECT student_id, date, subject_id, status FROM attendance_records ORDER BY position"
	if err := r.db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return records, nil
}

// ReplaceAll swaps the stored sequence for the merged one in a single
// transaction, preserving the caller's ordering.
func (r *AttendanceRepository) ReplaceAll(ctx context.Context, records []models.AttendanceRecord) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace attendance: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM attendance_records"); err != nil {
		return fmt.Errorf("clear attendance records: %w", err)
	}

	query := "INSERT INTO attendance_records (position, student_id, date, subject_id, status) VALUES ($1, $2, $3, $4, $5)"
	for i, record := range records {
		if _, err := tx.ExecContext(ctx, query, i, record.StudentID, record.Date, record.SubjectID, record.Status); err != nil {
			return fmt.Errorf("insert attendance record %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace attendance: %w", err)
	}
	return nil
}
