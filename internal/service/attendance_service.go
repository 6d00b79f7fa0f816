package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

// UpsertMany merges an incoming batch into the existing raw sequence. Each
// incoming record replaces the record sharing its (student, date, subject)
// key in place, or is appended when the key is new. The batch is processed
// front to back, so a later batch entry with the same key wins. The input
// slices are never mutated; the merged sequence is returned fresh.
func UpsertMany(existing, incoming []models.AttendanceRecord) []models.AttendanceRecord {
	merged := make([]models.AttendanceRecord, len(existing), len(existing)+len(incoming))
	copy(merged, existing)

	positions := make(map[models.AttendanceKey]int, len(merged))
	for i, r := range merged {
		positions[r.Key()] = i
	}

	for _, r := range incoming {
		if i, ok := positions[r.Key()]; ok {
			merged[i] = r
			continue
		}
		positions[r.Key()] = len(merged)
		merged = append(merged, r)
	}
	return merged
}

// BulkAttendanceItem is one entry of a bulk mark request.
type BulkAttendanceItem struct {
	StudentID string `json:"student_id" validate:"required"`
	Status    string `json:"status" validate:"required,attendance_status"`
}

// BulkMarkRequest marks one class subject for one date.
type BulkMarkRequest struct {
	Date      string               `json:"date" validate:"required,iso_date"`
	SubjectID string               `json:"subject_id" validate:"required"`
	Items     []BulkAttendanceItem `json:"items" validate:"required,min=1,dive"`
}

// AttendanceListQuery filters the raw record listing.
type AttendanceListQuery struct {
	Date      string `json:"date" validate:"omitempty,iso_date"`
	SubjectID string `json:"subject_id"`
	StudentID string `json:"student_id"`
}

type attendanceWriter interface {
	ReplaceAll(ctx context.Context, records []models.AttendanceRecord) error
}

type versionBumper interface {
	BumpVersion(ctx context.Context) (int64, error)
}

// AttendanceService coordinates attendance reads and bulk writes.
type AttendanceService struct {
	store     snapshotProvider
	writer    attendanceWriter
	bumper    versionBumper
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(store snapshotProvider, writer attendanceWriter, bumper versionBumper, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerDateValidation(validate)
	return &AttendanceService{store: store, writer: writer, bumper: bumper, cache: cache, validator: validate, logger: logger}
}

// List returns raw records matching the query, in insertion order.
func (s *AttendanceService) List(ctx context.Context, q AttendanceListQuery) ([]models.AttendanceRecord, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance filter")
	}
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	records := make([]models.AttendanceRecord, 0, len(snapshot.Records))
	for _, r := range snapshot.Records {
		if q.Date != "" && r.Date != q.Date {
			continue
		}
		if q.SubjectID != "" && r.SubjectID != q.SubjectID {
			continue
		}
		if q.StudentID != "" && r.StudentID != q.StudentID {
			continue
		}
		records = append(records, r)
	}
	return records, nil
}

// BulkMark validates the batch, merges it into the stored sequence with
// upsert semantics, and persists the merged sequence. The write is all or
// nothing; there is no per-record failure mode.
func (s *AttendanceService) BulkMark(ctx context.Context, req BulkMarkRequest) (int, error) {
	if err := s.validator.Struct(req); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return 0, err
	}

	incoming := make([]models.AttendanceRecord, 0, len(req.Items))
	for _, item := range req.Items {
		incoming = append(incoming, models.AttendanceRecord{
			StudentID: item.StudentID,
			Date:      req.Date,
			SubjectID: req.SubjectID,
			Status:    models.AttendanceStatus(item.Status),
		})
	}

	merged := UpsertMany(snapshot.Records, incoming)
	if err := s.writer.ReplaceAll(ctx, merged); err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist attendance")
	}
	if _, err := s.bumper.BumpVersion(ctx); err != nil {
		return 0, err
	}
	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}

	s.logger.Info("attendance batch merged",
		zap.String("date", req.Date),
		zap.String("subject_id", req.SubjectID),
		zap.Int("items", len(incoming)),
	)
	return len(incoming), nil
}
