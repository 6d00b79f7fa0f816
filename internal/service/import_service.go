package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

type studentEnroller interface {
	Add(ctx context.Context, req AddStudentRequest) (*AddStudentResult, error)
}

// ImportService parses a roster CSV and enrolls each valid row.
type ImportService struct {
	students studentEnroller
	metrics  *MetricsService
	logger   *zap.Logger
}

// NewImportService constructs an ImportService instance.
func NewImportService(students studentEnroller, metrics *MetricsService, logger *zap.Logger) *ImportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ImportService{students: students, metrics: metrics, logger: logger}
}

// ImportStudents processes a CSV payload with name, grade and section columns
// in any order. Rows are handled top to bottom; a bad row is reported and
// skipped without stopping the rest. Row numbers in error messages count from
// the top of the file, header included.
func (s *ImportService) ImportStudents(ctx context.Context, payload string) (*models.ImportSummary, error) {
	lines := make([]string, 0)
	for _, line := range strings.Split(payload, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, strings.TrimRight(line, "\r"))
		}
	}
	if len(lines) < 2 {
		return nil, appErrors.Clone(appErrors.ErrMalformedInput, "CSV must contain a header row and at least one data row")
	}

	headers := strings.Split(lines[0], ",")
	nameIdx, gradeIdx, sectionIdx := -1, -1, -1
	for i, h := range headers {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name":
			nameIdx = i
		case "grade":
			gradeIdx = i
		case "section":
			sectionIdx = i
		}
	}
	if nameIdx < 0 || gradeIdx < 0 || sectionIdx < 0 {
		return nil, appErrors.Clone(appErrors.ErrMalformedInput, "CSV header must contain name, grade and section columns")
	}

	summary := &models.ImportSummary{
		Errors:      []models.ImportRowError{},
		Credentials: []models.IssuedCredentials{},
	}

	for i, line := range lines[1:] {
		row := i + 2
		fields := strings.Split(line, ",")

		name := cleanField(fields, nameIdx)
		grade := rawField(fields, gradeIdx)
		section := strings.ToUpper(cleanField(fields, sectionIdx))

		if name == "" || grade == "" || section == "" {
			summary.Skipped++
			summary.Errors = append(summary.Errors, models.ImportRowError{
				Row:     row,
				Message: fmt.Sprintf("Row %d: missing name, grade or section", row),
			})
			s.metrics.RecordImportRow("skipped")
			continue
		}

		result, err := s.students.Add(ctx, AddStudentRequest{Name: name, Grade: grade, Section: section})
		if err != nil {
			summary.Skipped++
			summary.Errors = append(summary.Errors, models.ImportRowError{
				Row:     row,
				Message: fmt.Sprintf("Row %d (%s): %s", row, name, appErrors.FromError(err).Message),
			})
			s.metrics.RecordImportRow("failed")
			continue
		}

		summary.Added++
		summary.Credentials = append(summary.Credentials, result.Credentials)
		s.metrics.RecordImportRow("added")
	}

	s.logger.Info("roster import finished",
		zap.Int("added", summary.Added),
		zap.Int("skipped", summary.Skipped))

	return summary, nil
}

// rawField pulls a column out of a naive comma split, trimming whitespace.
// Out-of-range columns read as empty.
func rawField(fields []string, idx int) string {
	if idx >= len(fields) {
		return ""
	}
	return strings.TrimSpace(fields[idx])
}

// cleanField additionally strips quote characters. Only the name and section
// columns get this treatment.
func cleanField(fields []string, idx int) string {
	return strings.ReplaceAll(rawField(fields, idx), `"`, "")
}
