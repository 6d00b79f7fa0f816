package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

func dashboardSnapshot() *models.Snapshot {
	return &models.Snapshot{
		Students: []models.Student{{ID: "s1", Name: "Jane Doe", Grade: "10", Section: "A"}},
		Teachers: []models.Teacher{{ID: "t1", Name: "Mr. Hill"}},
		Subjects: []models.Subject{{ID: "math", Name: "Mathematics"}},
		Assignments: []models.TeacherAssignment{
			{TeacherID: "t1", Grade: "10", Section: "A", SubjectID: "math"},
		},
	}
}

func testDashboardService(snapshot *models.Snapshot) *DashboardService {
	store := &fakeStore{snapshot: snapshot}
	reports := NewReportService(store, nil, nil, nil)
	return NewDashboardService(store, reports, 30, nil)
}

func TestDashboardForAdmin(t *testing.T) {
	svc := testDashboardService(dashboardSnapshot())

	dash, err := svc.For(context.Background(), models.UserProfile{ID: "usr_1", Role: models.RoleAdmin})
	require.NoError(t, err)
	require.NotNil(t, dash.Admin)
	assert.Equal(t, 1, dash.Admin.StudentCount)
	assert.Equal(t, 1, dash.Admin.TeacherCount)
	assert.Nil(t, dash.Teacher)
	assert.Nil(t, dash.Student)
}

func TestDashboardForTeacher(t *testing.T) {
	svc := testDashboardService(dashboardSnapshot())

	dash, err := svc.For(context.Background(), models.UserProfile{ID: "usr_2", Role: models.RoleTeacher, EntityID: "t1"})
	require.NoError(t, err)
	require.NotNil(t, dash.Teacher)
	assert.Equal(t, "Mr. Hill", dash.Teacher.Teacher.Name)
	require.Len(t, dash.Teacher.Assignments, 1)
}

func TestDashboardForStudent(t *testing.T) {
	svc := testDashboardService(dashboardSnapshot())

	dash, err := svc.For(context.Background(), models.UserProfile{ID: "usr_3", Role: models.RoleStudent, EntityID: "s1"})
	require.NoError(t, err)
	require.NotNil(t, dash.Student)
	assert.Equal(t, "Jane Doe", dash.Student.Student.Name)
	assert.Equal(t, 100.0, dash.Student.Overall.Percentage)
}

func TestDashboardUnknownRoleRefused(t *testing.T) {
	svc := testDashboardService(dashboardSnapshot())

	_, err := svc.For(context.Background(), models.UserProfile{ID: "usr_4", Role: models.UserRole("superuser")})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
