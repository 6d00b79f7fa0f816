package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

type fakeAssignmentWriter struct {
	existing *models.TeacherAssignment
	created  []models.TeacherAssignment
}

func (f *fakeAssignmentWriter) FindForClass(_ context.Context, grade, section, subjectID string) (*models.TeacherAssignment, error) {
	if f.existing != nil && f.existing.Grade == grade && f.existing.Section == section && f.existing.SubjectID == subjectID {
		return f.existing, nil
	}
	return nil, nil
}

func (f *fakeAssignmentWriter) Create(_ context.Context, assignment *models.TeacherAssignment) error {
	f.created = append(f.created, *assignment)
	return nil
}

func assignmentSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Teachers: []models.Teacher{
			{ID: "john-smith", Name: "John Smith"},
			{ID: "mary-jones", Name: "Mary Jones"},
		},
		Subjects: []models.Subject{{ID: "math", Name: "Mathematics"}},
	}
}

func TestAssignTeacher(t *testing.T) {
	writer := &fakeAssignmentWriter{}
	bumper := &fakeBumper{}
	svc := NewAssignmentService(&fakeStore{snapshot: assignmentSnapshot()}, writer, bumper, nil, nil)

	assignment, err := svc.Assign(context.Background(), AssignTeacherRequest{
		TeacherID: "john-smith", Grade: "10", Section: "a", SubjectID: "math",
	})
	require.NoError(t, err)
	assert.Equal(t, "A", assignment.Section)
	require.Len(t, writer.created, 1)
	assert.Equal(t, 1, bumper.calls)
}

func TestAssignTeacherConflictNamesHolder(t *testing.T) {
	writer := &fakeAssignmentWriter{
		existing: &models.TeacherAssignment{TeacherID: "mary-jones", Grade: "10", Section: "A", SubjectID: "math"},
	}
	svc := NewAssignmentService(&fakeStore{snapshot: assignmentSnapshot()}, writer, &fakeBumper{}, nil, nil)

	_, err := svc.Assign(context.Background(), AssignTeacherRequest{
		TeacherID: "john-smith", Grade: "10", Section: "A", SubjectID: "math",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflictingAssignment.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "Mary Jones")
	assert.Empty(t, writer.created)
}

func TestAssignTeacherConflictFromSnapshot(t *testing.T) {
	snapshot := assignmentSnapshot()
	snapshot.Assignments = []models.TeacherAssignment{
		{TeacherID: "mary-jones", Grade: "10", Section: "A", SubjectID: "math"},
	}
	writer := &fakeAssignmentWriter{}
	svc := NewAssignmentService(&fakeStore{snapshot: snapshot}, writer, &fakeBumper{}, nil, nil)

	_, err := svc.Assign(context.Background(), AssignTeacherRequest{
		TeacherID: "john-smith", Grade: "10", Section: "A", SubjectID: "math",
	})
	require.Error(t, err)
	assert.Contains(t, appErrors.FromError(err).Message, "Mary Jones")
	assert.Empty(t, writer.created)
}

func TestAssignTeacherUnknownTeacher(t *testing.T) {
	svc := NewAssignmentService(&fakeStore{snapshot: assignmentSnapshot()}, &fakeAssignmentWriter{}, &fakeBumper{}, nil, nil)

	_, err := svc.Assign(context.Background(), AssignTeacherRequest{
		TeacherID: "ghost", Grade: "10", Section: "A", SubjectID: "math",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
