package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooltrack/attendance-api/internal/models"
)

func exportSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Students: []models.Student{
			{ID: "s1", Name: "Doe, Jane", Grade: "10", Section: "A"},
			{ID: "s2", Name: "John Smith", Grade: "10", Section: "A"},
		},
		Teachers: []models.Teacher{{ID: "t1", Name: "Mr. Hill"}},
		Subjects: []models.Subject{{ID: "math", Name: "Mathematics"}},
		Assignments: []models.TeacherAssignment{
			{TeacherID: "t1", Grade: "10", Section: "A", SubjectID: "math"},
		},
		Records: []models.AttendanceRecord{
			record("s1", "2024-01-02", "math", models.AttendanceStatusPresent),
			record("s1", "2024-01-03", "math", models.AttendanceStatusLate),
			record("s2", "2024-01-02", "retired", models.AttendanceStatusAbsent),
		},
	}
}

func TestBuildExportDatasetOneRowPerRecord(t *testing.T) {
	snapshot := exportSnapshot()
	reports := BuildReports(snapshot, "2024-01-01", "2024-01-31", "")

	dataset := BuildExportDataset(snapshot, reports)
	require.Len(t, dataset.Rows, 3)
	assert.Equal(t, []string{"Student Name", "Grade", "Section", "Date", "Subject", "Status", "Teacher"}, dataset.Headers)

	first := dataset.Rows[0]
	assert.Equal(t, "Doe, Jane", first["Student Name"])
	assert.Equal(t, "Mathematics", first["Subject"])
	assert.Equal(t, "Mr. Hill", first["Teacher"])
}

func TestBuildExportDatasetFallbacks(t *testing.T) {
	snapshot := exportSnapshot()
	reports := BuildReports(snapshot, "2024-01-01", "2024-01-31", "")

	dataset := BuildExportDataset(snapshot, reports)
	var retired map[string]string
	for _, row := range dataset.Rows {
		if row["Status"] == "Absent" {
			retired = row
		}
	}
	require.NotNil(t, retired)
	assert.Equal(t, "N/A", retired["Subject"])
	assert.Equal(t, "N/A", retired["Teacher"])
}

func TestExportCSVQuotesNameColumns(t *testing.T) {
	svc := NewExportService(&fakeStore{snapshot: exportSnapshot()}, nil, nil)
	svc.now = func() time.Time { return time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC) }

	result, err := svc.Export(context.Background(), ExportRequest{
		ReportQuery: ReportQuery{DateStart: "2024-01-01", DateEnd: "2024-01-31", Threshold: 100},
		Format:      "csv",
	})
	require.NoError(t, err)

	assert.Equal(t, "attendance_report_2024-02-01.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)

	lines := strings.Split(string(result.Content), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Student Name,Grade,Section,Date,Subject,Status,Teacher", lines[0])
	assert.Equal(t, `"Doe, Jane",10,A,2024-01-02,Mathematics,Present,"Mr. Hill"`, lines[1])
}

func TestExportAppliesReportFilter(t *testing.T) {
	svc := NewExportService(&fakeStore{snapshot: exportSnapshot()}, nil, nil)

	result, err := svc.Export(context.Background(), ExportRequest{
		ReportQuery: ReportQuery{DateStart: "2024-01-01", DateEnd: "2024-01-31", Threshold: 100, Search: "jane"},
		Format:      "csv",
	})
	require.NoError(t, err)

	lines := strings.Split(string(result.Content), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines[1:] {
		assert.Contains(t, line, "Doe, Jane")
	}
}

func TestExportPDF(t *testing.T) {
	svc := NewExportService(&fakeStore{snapshot: exportSnapshot()}, nil, nil)

	result, err := svc.Export(context.Background(), ExportRequest{
		ReportQuery: ReportQuery{DateStart: "2024-01-01", DateEnd: "2024-01-31", Threshold: 100},
		Format:      "pdf",
	})
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, strings.HasPrefix(string(result.Content), "%PDF"))
}
