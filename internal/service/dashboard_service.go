package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

// AdminDashboard summarizes the whole school for administrators.
type AdminDashboard struct {
	StudentCount    int                    `json:"student_count"`
	TeacherCount    int                    `json:"teacher_count"`
	SubjectCount    int                    `json:"subject_count"`
	AssignmentCount int                    `json:"assignment_count"`
	LowAttendance   []models.StudentReport `json:"low_attendance"`
}

// TeacherDashboard lists the classes a teacher covers.
type TeacherDashboard struct {
	Teacher     models.Teacher             `json:"teacher"`
	Assignments []models.TeacherAssignment `json:"assignments"`
}

// Dashboard is the role-shaped landing payload. Exactly one branch is set.
type Dashboard struct {
	Role    models.UserRole   `json:"role"`
	Admin   *AdminDashboard   `json:"admin,omitempty"`
	Teacher *TeacherDashboard `json:"teacher,omitempty"`
	Student *StudentCard      `json:"student,omitempty"`
}

// DashboardService assembles the landing view for each role.
type DashboardService struct {
	store      snapshotProvider
	reports    *ReportService
	windowDays int
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs a DashboardService instance. windowDays is
// how far back the default reporting window reaches.
func NewDashboardService(store snapshotProvider, reports *ReportService, windowDays int, logger *zap.Logger) *DashboardService {
	if windowDays <= 0 {
		windowDays = 30
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{store: store, reports: reports, windowDays: windowDays, logger: logger, now: time.Now}
}

func (s *DashboardService) window() (string, string) {
	end := s.now().UTC()
	start := end.AddDate(0, 0, -s.windowDays)
	return start.Format("2006-01-02"), end.Format("2006-01-02")
}

// For builds the dashboard for an authenticated profile. The role set is
// closed; a profile carrying any other role value is refused rather than
// given an empty page.
func (s *DashboardService) For(ctx context.Context, profile models.UserProfile) (*Dashboard, error) {
	switch profile.Role {
	case models.RoleAdmin:
		return s.adminDashboard(ctx)
	case models.RoleTeacher:
		return s.teacherDashboard(ctx, profile.EntityID)
	case models.RoleStudent:
		return s.studentDashboard(ctx, profile.EntityID)
	default:
		s.logger.Warn("dashboard requested for unknown role",
			zap.String("profile_id", profile.ID),
			zap.String("role", string(profile.Role)))
		return nil, appErrors.Clone(appErrors.ErrForbidden, "role has no dashboard")
	}
}

func (s *DashboardService) adminDashboard(ctx context.Context) (*Dashboard, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	start, end := s.window()
	low := FilterReports(BuildReports(snapshot, start, end, ""), models.ReportFilter{Threshold: 75})
	return &Dashboard{
		Role: models.RoleAdmin,
		Admin: &AdminDashboard{
			StudentCount:    len(snapshot.Students),
			TeacherCount:    len(snapshot.Teachers),
			SubjectCount:    len(snapshot.Subjects),
			AssignmentCount: len(snapshot.Assignments),
			LowAttendance:   low,
		},
	}, nil
}

func (s *DashboardService) teacherDashboard(ctx context.Context, teacherID string) (*Dashboard, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	teacher := snapshot.TeacherByID(teacherID)
	if teacher == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}
	assignments := make([]models.TeacherAssignment, 0)
	for _, a := range snapshot.Assignments {
		if a.TeacherID == teacherID {
			assignments = append(assignments, a)
		}
	}
	return &Dashboard{
		Role:    models.RoleTeacher,
		Teacher: &TeacherDashboard{Teacher: *teacher, Assignments: assignments},
	}, nil
}

func (s *DashboardService) studentDashboard(ctx context.Context, studentID string) (*Dashboard, error) {
	start, end := s.window()
	card, err := s.reports.StudentCard(ctx, studentID, start, end)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Role: models.RoleStudent, Student: card}, nil
}
