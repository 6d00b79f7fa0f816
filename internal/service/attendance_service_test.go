package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooltrack/attendance-api/internal/models"
)

type fakeAttendanceWriter struct {
	saved []models.AttendanceRecord
	err   error
}

func (f *fakeAttendanceWriter) ReplaceAll(_ context.Context, records []models.AttendanceRecord) error {
	if f.err != nil {
		return f.err
	}
	f.saved = records
	return nil
}

type fakeBumper struct {
	version int64
	calls   int
}

func (f *fakeBumper) BumpVersion(context.Context) (int64, error) {
	f.calls++
	f.version++
	return f.version, nil
}

func TestUpsertManyReplacesInPlace(t *testing.T) {
	existing := []models.AttendanceRecord{
		record("s1", "2024-01-01", "math", models.AttendanceStatusPresent),
		record("s2", "2024-01-01", "math", models.AttendanceStatusPresent),
	}
	incoming := []models.AttendanceRecord{
		record("s1", "2024-01-01", "math", models.AttendanceStatusAbsent),
	}

	merged := UpsertMany(existing, incoming)
	require.Len(t, merged, 2)
	assert.Equal(t, models.AttendanceStatusAbsent, merged[0].Status)
	assert.Equal(t, "s2", merged[1].StudentID)

	// input slices stay untouched
	assert.Equal(t, models.AttendanceStatusPresent, existing[0].Status)
}

func TestUpsertManyAppendsNewEntries(t *testing.T) {
	existing := []models.AttendanceRecord{
		record("s1", "2024-01-01", "math", models.AttendanceStatusPresent),
	}
	incoming := []models.AttendanceRecord{
		record("s1", "2024-01-02", "math", models.AttendanceStatusLate),
		record("s2", "2024-01-01", "math", models.AttendanceStatusPresent),
	}

	merged := UpsertMany(existing, incoming)
	require.Len(t, merged, 3)
	assert.Equal(t, "2024-01-02", merged[1].Date)
	assert.Equal(t, "s2", merged[2].StudentID)
}

func TestUpsertManyLaterEntriesWin(t *testing.T) {
	incoming := []models.AttendanceRecord{
		record("s1", "2024-01-01", "math", models.AttendanceStatusPresent),
		record("s1", "2024-01-01", "math", models.AttendanceStatusAbsent),
	}

	merged := UpsertMany(nil, incoming)
	require.Len(t, merged, 1)
	assert.Equal(t, models.AttendanceStatusAbsent, merged[0].Status)
}

func TestBulkMarkPersistsMergedSequence(t *testing.T) {
	store := &fakeStore{snapshot: &models.Snapshot{
		Records: []models.AttendanceRecord{
			record("s1", "2024-01-01", "math", models.AttendanceStatusPresent),
		},
	}}
	writer := &fakeAttendanceWriter{}
	bumper := &fakeBumper{}
	svc := NewAttendanceService(store, writer, bumper, nil, nil, nil)

	count, err := svc.BulkMark(context.Background(), BulkMarkRequest{
		Date:      "2024-01-01",
		SubjectID: "math",
		Items: []BulkAttendanceItem{
			{StudentID: "s1", Status: "Absent"},
			{StudentID: "s2", Status: "Late"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	require.Len(t, writer.saved, 2)
	assert.Equal(t, models.AttendanceStatusAbsent, writer.saved[0].Status)
	assert.Equal(t, "s2", writer.saved[1].StudentID)
	assert.Equal(t, 1, bumper.calls)
}

func TestBulkMarkRejectsBadStatus(t *testing.T) {
	svc := NewAttendanceService(&fakeStore{snapshot: &models.Snapshot{}}, &fakeAttendanceWriter{}, &fakeBumper{}, nil, nil, nil)

	_, err := svc.BulkMark(context.Background(), BulkMarkRequest{
		Date:      "2024-01-01",
		SubjectID: "math",
		Items:     []BulkAttendanceItem{{StudentID: "s1", Status: "Sick"}},
	})
	require.Error(t, err)
}

func TestBulkMarkRejectsUnpaddedDate(t *testing.T) {
	svc := NewAttendanceService(&fakeStore{snapshot: &models.Snapshot{}}, &fakeAttendanceWriter{}, &fakeBumper{}, nil, nil, nil)

	_, err := svc.BulkMark(context.Background(), BulkMarkRequest{
		Date:      "2024-1-1",
		SubjectID: "math",
		Items:     []BulkAttendanceItem{{StudentID: "s1", Status: "Present"}},
	})
	require.Error(t, err)
}

func TestListFiltersRecords(t *testing.T) {
	store := &fakeStore{snapshot: &models.Snapshot{
		Records: []models.AttendanceRecord{
			record("s1", "2024-01-01", "math", models.AttendanceStatusPresent),
			record("s2", "2024-01-01", "sci", models.AttendanceStatusAbsent),
			record("s1", "2024-01-02", "math", models.AttendanceStatusLate),
		},
	}}
	svc := NewAttendanceService(store, &fakeAttendanceWriter{}, &fakeBumper{}, nil, nil, nil)

	records, err := svc.List(context.Background(), AttendanceListQuery{StudentID: "s1", SubjectID: "math"})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "2024-01-01", records[0].Date)
	assert.Equal(t, "2024-01-02", records[1].Date)
}
