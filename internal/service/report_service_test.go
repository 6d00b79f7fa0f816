package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooltrack/attendance-api/internal/models"
)

type fakeStore struct {
	snapshot *models.Snapshot
	err      error
}

func (f *fakeStore) Snapshot(context.Context) (*models.Snapshot, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.snapshot, nil
}

func record(studentID, date, subjectID string, status models.AttendanceStatus) models.AttendanceRecord {
	return models.AttendanceRecord{StudentID: studentID, Date: date, SubjectID: subjectID, Status: status}
}

func TestComputePercentageEmptyWindow(t *testing.T) {
	b := ComputePercentage(nil, "2024-01-01", "2024-01-31", "")
	assert.Equal(t, 0, b.TotalDays)
	assert.Equal(t, 100.0, b.Percentage)
}

func TestComputePercentageCountsLateAsAttended(t *testing.T) {
	records := []models.AttendanceRecord{
		record("s1", "2024-01-01", "math", models.AttendanceStatusPresent),
		record("s1", "2024-01-02", "math", models.AttendanceStatusLate),
		record("s1", "2024-01-03", "math", models.AttendanceStatusAbsent),
	}
	b := ComputePercentage(records, "2024-01-01", "2024-01-31", "")
	assert.Equal(t, 2, b.PresentCount)
	assert.Equal(t, 3, b.TotalDays)
	assert.InDelta(t, 66.7, b.Percentage, 0.05)
}

func TestComputePercentageSubjectScoped(t *testing.T) {
	records := []models.AttendanceRecord{
		record("s1", "2024-01-01", "math", models.AttendanceStatusAbsent),
		record("s1", "2024-01-01", "science", models.AttendanceStatusPresent),
	}
	b := ComputePercentage(records, "2024-01-01", "2024-01-31", "science")
	assert.Equal(t, 1, b.TotalDays)
	assert.Equal(t, 100.0, b.Percentage)
}

func TestFilterWindowBoundsInclusive(t *testing.T) {
	records := []models.AttendanceRecord{
		record("s1", "2024-01-01", "math", models.AttendanceStatusPresent),
		record("s1", "2024-01-15", "math", models.AttendanceStatusPresent),
		record("s1", "2024-01-31", "math", models.AttendanceStatusPresent),
		record("s1", "2024-02-01", "math", models.AttendanceStatusPresent),
	}
	got := FilterWindow(records, "2024-01-01", "2024-01-31", "")
	require.Len(t, got, 3)
	assert.Equal(t, "2024-01-01", got[0].Date)
	assert.Equal(t, "2024-01-31", got[2].Date)
}

func TestFilterReportsThresholdInclusive(t *testing.T) {
	reports := []models.StudentReport{
		{Student: models.Student{ID: "a", Name: "Alice"}, Breakdown: models.Breakdown{Percentage: 75}},
		{Student: models.Student{ID: "b", Name: "Bob"}, Breakdown: models.Breakdown{Percentage: 75.1}},
		{Student: models.Student{ID: "c", Name: "Carol"}, Breakdown: models.Breakdown{Percentage: 40}},
	}
	got := FilterReports(reports, models.ReportFilter{Threshold: 75})
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "c", got[1].ID)
}

func TestFilterReportsSearchCaseInsensitive(t *testing.T) {
	reports := []models.StudentReport{
		{Student: models.Student{ID: "a", Name: "Jane Doe"}, Breakdown: models.Breakdown{Percentage: 90}},
		{Student: models.Student{ID: "b", Name: "John Smith"}, Breakdown: models.Breakdown{Percentage: 90}},
	}
	got := FilterReports(reports, models.ReportFilter{Search: "jane", Threshold: 100})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestFilterReportsClassExactMatch(t *testing.T) {
	reports := []models.StudentReport{
		{Student: models.Student{ID: "a", Grade: "10", Section: "A"}, Breakdown: models.Breakdown{Percentage: 50}},
		{Student: models.Student{ID: "b", Grade: "10", Section: "B"}, Breakdown: models.Breakdown{Percentage: 50}},
		{Student: models.Student{ID: "c", Grade: "9", Section: "A"}, Breakdown: models.Breakdown{Percentage: 50}},
	}
	got := FilterReports(reports, models.ReportFilter{Grade: "10", Section: "A", Threshold: 100})
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestBuildReportsSortedByName(t *testing.T) {
	snapshot := &models.Snapshot{
		Students: []models.Student{
			{ID: "s2", Name: "Zoe", Grade: "10", Section: "A"},
			{ID: "s1", Name: "Adam", Grade: "10", Section: "A"},
		},
		Records: []models.AttendanceRecord{
			record("s1", "2024-01-02", "math", models.AttendanceStatusPresent),
		},
	}
	reports := BuildReports(snapshot, "2024-01-01", "2024-01-31", "")
	require.Len(t, reports, 2)
	assert.Equal(t, "Adam", reports[0].Name)
	assert.Equal(t, "Zoe", reports[1].Name)
	assert.Equal(t, 100.0, reports[1].Percentage)
	require.Len(t, reports[0].Records, 1)
}

func TestReportsValidatesDates(t *testing.T) {
	svc := NewReportService(&fakeStore{snapshot: &models.Snapshot{}}, nil, nil, nil)
	_, err := svc.Reports(context.Background(), ReportQuery{DateStart: "2024-1-1", DateEnd: "2024-01-31", Threshold: 100})
	require.Error(t, err)
}

func TestStudentCardAssignedSubjectWithoutRecords(t *testing.T) {
	snapshot := &models.Snapshot{
		Students: []models.Student{{ID: "s1", Name: "Jane Doe", Grade: "10", Section: "A"}},
		Teachers: []models.Teacher{{ID: "t1", Name: "Mr. Hill"}},
		Subjects: []models.Subject{{ID: "math", Name: "Mathematics"}, {ID: "sci", Name: "Science"}},
		Assignments: []models.TeacherAssignment{
			{TeacherID: "t1", Grade: "10", Section: "A", SubjectID: "math"},
			{TeacherID: "t1", Grade: "10", Section: "A", SubjectID: "sci"},
		},
		Records: []models.AttendanceRecord{
			record("s1", "2024-01-02", "math", models.AttendanceStatusAbsent),
			record("s1", "2024-01-03", "math", models.AttendanceStatusPresent),
		},
	}
	svc := NewReportService(&fakeStore{snapshot: snapshot}, nil, nil, nil)

	card, err := svc.StudentCard(context.Background(), "s1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, card.Subjects, 2)
	assert.Equal(t, "Mathematics", card.Subjects[0].SubjectName)
	assert.Equal(t, 50.0, card.Subjects[0].Percentage)
	assert.Equal(t, "Science", card.Subjects[1].SubjectName)
	assert.Equal(t, 100.0, card.Subjects[1].Percentage)

	require.Len(t, card.DailyLog, 2)
	assert.Equal(t, "2024-01-03", card.DailyLog[0].Date)
}

func TestSubjectSummariesUnknownSubject(t *testing.T) {
	snapshot := &models.Snapshot{
		Students: []models.Student{{ID: "s1", Name: "Jane Doe", Grade: "10", Section: "A"}},
		Subjects: []models.Subject{{ID: "math", Name: "Mathematics"}},
		Records: []models.AttendanceRecord{
			record("s1", "2024-01-02", "math", models.AttendanceStatusPresent),
			record("s1", "2024-01-02", "retired", models.AttendanceStatusAbsent),
		},
	}
	svc := NewReportService(&fakeStore{snapshot: snapshot}, nil, nil, nil)

	summaries, err := svc.SubjectSummaries(context.Background(), "s1", "2024-01-01", "2024-01-31")
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Mathematics", summaries[0].SubjectName)
	assert.Equal(t, "Unknown", summaries[1].SubjectName)
	assert.Equal(t, 0.0, summaries[1].Percentage)
}

func TestClassTrendAscendingAndScoped(t *testing.T) {
	snapshot := &models.Snapshot{
		Students: []models.Student{
			{ID: "s1", Grade: "10", Section: "A"},
			{ID: "s2", Grade: "10", Section: "A"},
			{ID: "s3", Grade: "9", Section: "B"},
		},
		Records: []models.AttendanceRecord{
			record("s1", "2024-01-03", "math", models.AttendanceStatusPresent),
			record("s2", "2024-01-03", "math", models.AttendanceStatusLate),
			record("s1", "2024-01-02", "math", models.AttendanceStatusAbsent),
			record("s3", "2024-01-02", "math", models.AttendanceStatusPresent),
			record("s1", "2024-01-02", "sci", models.AttendanceStatusPresent),
		},
	}
	svc := NewReportService(&fakeStore{snapshot: snapshot}, nil, nil, nil)

	trend, err := svc.ClassTrend(context.Background(), TrendQuery{
		Grade: "10", Section: "A", SubjectID: "math",
		DateStart: "2024-01-01", DateEnd: "2024-01-31",
	})
	require.NoError(t, err)
	require.Len(t, trend, 2)
	assert.Equal(t, "2024-01-02", trend[0].Date)
	assert.Equal(t, 1, trend[0].Absent)
	assert.Equal(t, 1, trend[0].Total)
	assert.Equal(t, "2024-01-03", trend[1].Date)
	assert.Equal(t, 1, trend[1].Present)
	assert.Equal(t, 1, trend[1].Late)
	assert.Equal(t, 2, trend[1].Total)
}

func TestClassTrendCapsWindow(t *testing.T) {
	snapshot := &models.Snapshot{
		Students: []models.Student{{ID: "s1", Grade: "10", Section: "A"}},
	}
	for day := 1; day <= 20; day++ {
		snapshot.Records = append(snapshot.Records,
			record("s1", fmt.Sprintf("2024-01-%02d", day), "math", models.AttendanceStatusPresent))
	}
	svc := NewReportService(&fakeStore{snapshot: snapshot}, nil, nil, nil)

	trend, err := svc.ClassTrend(context.Background(), TrendQuery{
		Grade: "10", Section: "A", SubjectID: "math",
		DateStart: "2024-01-01", DateEnd: "2024-01-31",
	})
	require.NoError(t, err)
	require.Len(t, trend, 15)
	assert.Equal(t, "2024-01-06", trend[0].Date)
	assert.Equal(t, "2024-01-20", trend[14].Date)
}
