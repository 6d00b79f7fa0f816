package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooltrack/attendance-api/internal/models"
)

type fakeStudentWriter struct {
	created []models.Student
	err     error
}

func (f *fakeStudentWriter) Create(_ context.Context, student *models.Student) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, *student)
	return nil
}

type fakeRegistrar struct {
	registered []models.UserProfile
	emails     []string
	removed    []string
	err        error
}

func (f *fakeRegistrar) RegisterIdentity(_ context.Context, email, _ string, profile models.UserProfile) error {
	if f.err != nil {
		return f.err
	}
	f.registered = append(f.registered, profile)
	f.emails = append(f.emails, email)
	return nil
}

func (f *fakeRegistrar) RemoveIdentity(_ context.Context, email string) error {
	f.removed = append(f.removed, email)
	return nil
}

func testPolicy() AccountPolicy {
	return AccountPolicy{
		StudentEmailDomain: "student.edu",
		TeacherEmailDomain: "school.edu",
		StudentPassword:    "password",
		TeacherPassword:    "password123",
	}
}

func TestAddStudentProvisionsAccount(t *testing.T) {
	writer := &fakeStudentWriter{}
	registrar := &fakeRegistrar{}
	bumper := &fakeBumper{}
	svc := NewStudentService(&fakeStore{snapshot: &models.Snapshot{}}, writer, bumper, registrar, nil, testPolicy(), nil, nil)

	result, err := svc.Add(context.Background(), AddStudentRequest{Name: "Jane Doe", Grade: "10", Section: "a"})
	require.NoError(t, err)

	assert.Equal(t, "A", result.Student.Section)
	assert.True(t, len(result.Student.ID) > len("stu_"))
	assert.Equal(t, "jane.doe@student.edu", result.Credentials.Email)
	assert.Equal(t, "password", result.Credentials.Password)

	require.Len(t, writer.created, 1)
	require.Len(t, registrar.registered, 1)
	assert.Equal(t, models.RoleStudent, registrar.registered[0].Role)
	assert.Equal(t, result.Student.ID, registrar.registered[0].EntityID)
	assert.Equal(t, 1, bumper.calls)
}

func TestAddStudentStopsOnDuplicateEmail(t *testing.T) {
	writer := &fakeStudentWriter{}
	registrar := &fakeRegistrar{err: errors.New("duplicate email")}
	svc := NewStudentService(&fakeStore{snapshot: &models.Snapshot{}}, writer, &fakeBumper{}, registrar, nil, testPolicy(), nil, nil)

	_, err := svc.Add(context.Background(), AddStudentRequest{Name: "Jane Doe", Grade: "10", Section: "A"})
	require.Error(t, err)
	assert.Empty(t, writer.created)
}

func TestAddStudentRemovesIdentityWhenInsertFails(t *testing.T) {
	writer := &fakeStudentWriter{err: errors.New("insert failed")}
	registrar := &fakeRegistrar{}
	svc := NewStudentService(&fakeStore{snapshot: &models.Snapshot{}}, writer, &fakeBumper{}, registrar, nil, testPolicy(), nil, nil)

	_, err := svc.Add(context.Background(), AddStudentRequest{Name: "Jane Doe", Grade: "10", Section: "A"})
	require.Error(t, err)

	require.Len(t, registrar.emails, 1)
	assert.Equal(t, []string{"jane.doe@student.edu"}, registrar.removed)
}

func TestAddStudentValidatesPayload(t *testing.T) {
	svc := NewStudentService(&fakeStore{snapshot: &models.Snapshot{}}, &fakeStudentWriter{}, &fakeBumper{}, &fakeRegistrar{}, nil, testPolicy(), nil, nil)

	_, err := svc.Add(context.Background(), AddStudentRequest{Name: "", Grade: "10", Section: "A"})
	require.Error(t, err)
}

func TestListStudentsByClass(t *testing.T) {
	store := &fakeStore{snapshot: &models.Snapshot{
		Students: []models.Student{
			{ID: "s1", Grade: "10", Section: "A"},
			{ID: "s2", Grade: "10", Section: "B"},
			{ID: "s3", Grade: "9", Section: "A"},
		},
	}}
	svc := NewStudentService(store, &fakeStudentWriter{}, &fakeBumper{}, &fakeRegistrar{}, nil, testPolicy(), nil, nil)

	students, err := svc.List(context.Background(), "10", "A")
	require.NoError(t, err)
	require.Len(t, students, 1)
	assert.Equal(t, "s1", students[0].ID)
}
