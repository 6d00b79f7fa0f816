package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
	"github.com/schooltrack/attendance-api/pkg/export"
)

const fallbackCell = "N/A"

var exportHeaders = []string{"Student Name", "Grade", "Section", "Date", "Subject", "Status", "Teacher"}

// ExportRequest describes one report download.
type ExportRequest struct {
	ReportQuery
	Format string `json:"format" validate:"omitempty,oneof=csv pdf"`
}

// ExportResult carries the rendered document, its media type and the
// suggested download filename.
type ExportResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportService renders attendance reports into downloadable documents.
type ExportService struct {
	store     snapshotProvider
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService constructs an ExportService instance.
func NewExportService(store snapshotProvider, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerDateValidation(validate)
	return &ExportService{
		store:     store,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		now:       time.Now,
	}
}

// Export renders the filtered report set for the window. Every attendance
// record a surviving report holds becomes one row, so a student with three
// recorded days contributes three rows. Student Name and Teacher are always
// quoted since display names can carry commas.
func (s *ExportService) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	reports := FilterReports(BuildReports(snapshot, req.DateStart, req.DateEnd, req.SubjectID), models.ReportFilter{
		Search:    req.Search,
		Threshold: req.Threshold,
		Grade:     req.Grade,
		Section:   req.Section,
	})

	dataset := BuildExportDataset(snapshot, reports)
	stamp := s.now().UTC().Format("2006-01-02")

	switch req.Format {
	case "pdf":
		content, err := s.pdf.Render(dataset, "Attendance Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("attendance_report_%s.pdf", stamp),
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	default:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("attendance_report_%s.csv", stamp),
			ContentType: "text/csv",
			Content:     content,
		}, nil
	}
}

// BuildExportDataset flattens reports into export rows. Subject names resolve
// through the subject list and the teacher through the class assignment for
// that subject; either missing falls back to N/A.
func BuildExportDataset(snapshot *models.Snapshot, reports []models.StudentReport) export.Dataset {
	rows := make([]map[string]string, 0)
	for _, report := range reports {
		for _, record := range report.Records {
			subject := snapshot.SubjectName(record.SubjectID)
			if subject == "" {
				subject = fallbackCell
			}
			teacherName := fallbackCell
			if t := snapshot.TeacherForClass(report.Grade, report.Section, record.SubjectID); t != nil {
				teacherName = t.Name
			}
			rows = append(rows, map[string]string{
				"Student Name": report.Name,
				"Grade":        report.Grade,
				"Section":      report.Section,
				"Date":         record.Date,
				"Subject":      subject,
				"Status":       string(record.Status),
				"Teacher":      teacherName,
			})
		}
	}
	return export.Dataset{
		Headers:       exportHeaders,
		Rows:          rows,
		QuotedColumns: []string{"Student Name", "Teacher"},
	}
}
