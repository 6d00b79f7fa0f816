package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/schooltrack/attendance-api/internal/models"
	appErrors "github.com/schooltrack/attendance-api/pkg/errors"
)

// trendWindow caps how many class days the trend endpoint returns.
const trendWindow = 15

type snapshotProvider interface {
	Snapshot(ctx context.Context) (*models.Snapshot, error)
}

// GroupByStudent derives the per-student index from the raw record sequence,
// preserving each student's relative record order. Pure and deterministic;
// recomputed from the canonical list on every read, never stored.
func GroupByStudent(records []models.AttendanceRecord) map[string][]models.AttendanceRecord {
	index := make(map[string][]models.AttendanceRecord)
	for _, record := range records {
		index[record.StudentID] = append(index[record.StudentID], record)
	}
	return index
}

// FilterWindow keeps the records inside the inclusive [dateStart, dateEnd]
// window, optionally narrowed to one subject. Lexicographic comparison is
// correct because all dates are zero-padded ISO YYYY-MM-DD strings.
func FilterWindow(records []models.AttendanceRecord, dateStart, dateEnd, subjectID string) []models.AttendanceRecord {
	filtered := make([]models.AttendanceRecord, 0, len(records))
	for _, r := range records {
		if r.Date < dateStart || r.Date > dateEnd {
			continue
		}
		if subjectID != "" && r.SubjectID != subjectID {
			continue
		}
		filtered = append(filtered, r)
	}
	return filtered
}

// ComputePercentage aggregates one student's records over a window. The
// denominator counts recorded entries only, Late counts as attended, and an
// empty window reports exactly 100%.
func ComputePercentage(records []models.AttendanceRecord, dateStart, dateEnd, subjectID string) models.Breakdown {
	return breakdownOf(FilterWindow(records, dateStart, dateEnd, subjectID))
}

func breakdownOf(records []models.AttendanceRecord) models.Breakdown {
	present := 0
	for _, r := range records {
		if r.Status.Attended() {
			present++
		}
	}
	total := len(records)
	percentage := 100.0
	if total > 0 {
		percentage = float64(present) / float64(total) * 100
	}
	return models.Breakdown{PresentCount: present, TotalDays: total, Percentage: percentage}
}

// FilterReports narrows an already name-sorted report list without
// reordering it. Search matches the student name case-insensitively, the
// threshold is inclusive, and empty grade/section pass everything through.
func FilterReports(reports []models.StudentReport, filter models.ReportFilter) []models.StudentReport {
	search := strings.ToLower(filter.Search)
	filtered := make([]models.StudentReport, 0, len(reports))
	for _, report := range reports {
		if search != "" && !strings.Contains(strings.ToLower(report.Name), search) {
			continue
		}
		if report.Percentage > filter.Threshold {
			continue
		}
		if filter.Grade != "" && report.Grade != filter.Grade {
			continue
		}
		if filter.Section != "" && report.Section != filter.Section {
			continue
		}
		filtered = append(filtered, report)
	}
	return filtered
}

func nameCollator() *collate.Collator {
	return collate.New(language.English)
}

// ReportQuery describes one reporting request.
type ReportQuery struct {
	DateStart string  `json:"date_start" validate:"required,iso_date"`
	DateEnd   string  `json:"date_end" validate:"required,iso_date"`
	SubjectID string  `json:"subject_id"`
	Search    string  `json:"search"`
	Threshold float64 `json:"threshold" validate:"min=0,max=100"`
	Grade     string  `json:"grade"`
	Section   string  `json:"section"`
}

// TrendQuery scopes the class trend aggregation.
type TrendQuery struct {
	Grade     string `json:"grade" validate:"required"`
	Section   string `json:"section" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	DateStart string `json:"date_start" validate:"required,iso_date"`
	DateEnd   string `json:"date_end" validate:"required,iso_date"`
}

// StudentCard is the per-student dashboard payload: overall percentage, one
// summary per subject assigned to the student's class, and the raw daily log
// for the window, newest first.
type StudentCard struct {
	Student  models.Student          `json:"student"`
	Overall  models.Breakdown        `json:"overall"`
	Subjects []models.SubjectSummary `json:"subjects"`
	DailyLog []models.AttendanceRecord `json:"daily_log"`
}

// ReportService computes attendance reports from store snapshots.
type ReportService struct {
	store     snapshotProvider
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(store snapshotProvider, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ReportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	registerDateValidation(validate)
	return &ReportService{store: store, cache: cache, validator: validate, logger: logger}
}

// Reports builds one report per student over the query window, sorted by
// student name, then applies the report filter. Results are cached per store
// version so repeated dashboard reads skip the recompute.
func (s *ReportService) Reports(ctx context.Context, q ReportQuery) ([]models.StudentReport, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report query")
	}

	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("reports:v%d:%s:%s:%s", snapshot.Version, q.DateStart, q.DateEnd, q.SubjectID)
	var reports []models.StudentReport
	if hit, _ := s.cache.Get(ctx, key, &reports); !hit {
		reports = BuildReports(snapshot, q.DateStart, q.DateEnd, q.SubjectID)
		_ = s.cache.Set(ctx, key, reports, 0)
	}

	return FilterReports(reports, models.ReportFilter{
		Search:    q.Search,
		Threshold: q.Threshold,
		Grade:     q.Grade,
		Section:   q.Section,
	}), nil
}

// BuildReports computes the unfiltered report list for a window: one entry
// per student with the in-range records retained, sorted by student name.
func BuildReports(snapshot *models.Snapshot, dateStart, dateEnd, subjectID string) []models.StudentReport {
	index := GroupByStudent(snapshot.Records)
	reports := make([]models.StudentReport, 0, len(snapshot.Students))
	for _, student := range snapshot.Students {
		inRange := FilterWindow(index[student.ID], dateStart, dateEnd, subjectID)
		reports = append(reports, models.StudentReport{
			Student:   student,
			Breakdown: breakdownOf(inRange),
			Records:   inRange,
		})
	}
	cl := nameCollator()
	sort.SliceStable(reports, func(i, j int) bool {
		return cl.CompareString(reports[i].Name, reports[j].Name) < 0
	})
	return reports
}

// SubjectSummaries partitions one student's in-window records by subject and
// applies the percentage formula per partition, sorted by subject name.
func (s *ReportService) SubjectSummaries(ctx context.Context, studentID, dateStart, dateEnd string) ([]models.SubjectSummary, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if snapshot.StudentByID(studentID) == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	inRange := FilterWindow(GroupByStudent(snapshot.Records)[studentID], dateStart, dateEnd, "")
	return summarizeBySubject(snapshot, inRange), nil
}

func summarizeBySubject(snapshot *models.Snapshot, records []models.AttendanceRecord) []models.SubjectSummary {
	partitions := make(map[string][]models.AttendanceRecord)
	for _, r := range records {
		partitions[r.SubjectID] = append(partitions[r.SubjectID], r)
	}

	summaries := make([]models.SubjectSummary, 0, len(partitions))
	for subjectID, part := range partitions {
		name := snapshot.SubjectName(subjectID)
		if name == "" {
			name = "Unknown"
		}
		summaries = append(summaries, models.SubjectSummary{
			SubjectID:   subjectID,
			SubjectName: name,
			Breakdown:   breakdownOf(part),
		})
	}
	cl := nameCollator()
	sort.SliceStable(summaries, func(i, j int) bool {
		return cl.CompareString(summaries[i].SubjectName, summaries[j].SubjectName) < 0
	})
	return summaries
}

// StudentCard assembles the student dashboard: overall breakdown, one
// summary per subject assigned to the student's class (100% when the subject
// has no records in the window), and the newest-first daily log.
func (s *ReportService) StudentCard(ctx context.Context, studentID, dateStart, dateEnd string) (*StudentCard, error) {
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	student := snapshot.StudentByID(studentID)
	if student == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}

	inRange := FilterWindow(GroupByStudent(snapshot.Records)[studentID], dateStart, dateEnd, "")

	seen := make(map[string]struct{})
	summaries := make([]models.SubjectSummary, 0)
	for _, a := range snapshot.Assignments {
		if a.Grade != student.Grade || a.Section != student.Section {
			continue
		}
		if _, ok := seen[a.SubjectID]; ok {
			continue
		}
		seen[a.SubjectID] = struct{}{}
		name := snapshot.SubjectName(a.SubjectID)
		if name == "" {
			continue
		}
		subjectRecords := make([]models.AttendanceRecord, 0)
		for _, r := range inRange {
			if r.SubjectID == a.SubjectID {
				subjectRecords = append(subjectRecords, r)
			}
		}
		summaries = append(summaries, models.SubjectSummary{
			SubjectID:   a.SubjectID,
			SubjectName: name,
			Breakdown:   breakdownOf(subjectRecords),
		})
	}
	cl := nameCollator()
	sort.SliceStable(summaries, func(i, j int) bool {
		return cl.CompareString(summaries[i].SubjectName, summaries[j].SubjectName) < 0
	})

	log := make([]models.AttendanceRecord, len(inRange))
	copy(log, inRange)
	sort.SliceStable(log, func(i, j int) bool { return log[i].Date > log[j].Date })

	return &StudentCard{
		Student:  *student,
		Overall:  breakdownOf(inRange),
		Subjects: summaries,
		DailyLog: log,
	}, nil
}

// ClassTrend aggregates one class's per-day status counts over the window,
// date-ascending, capped to the most recent trendWindow days.
func (s *ReportService) ClassTrend(ctx context.Context, q TrendQuery) ([]models.TrendPoint, error) {
	if err := s.validator.Struct(q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid trend query")
	}
	snapshot, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	inClass := make(map[string]struct{})
	for _, student := range snapshot.Students {
		if student.Grade == q.Grade && student.Section == q.Section {
			inClass[student.ID] = struct{}{}
		}
	}

	byDate := make(map[string]*models.TrendPoint)
	for _, r := range snapshot.Records {
		if _, ok := inClass[r.StudentID]; !ok {
			continue
		}
		if r.SubjectID != q.SubjectID || r.Date < q.DateStart || r.Date > q.DateEnd {
			continue
		}
		point, ok := byDate[r.Date]
		if !ok {
			point = &models.TrendPoint{Date: r.Date}
			byDate[r.Date] = point
		}
		switch r.Status {
		case models.AttendanceStatusPresent:
			point.Present++
		case models.AttendanceStatusAbsent:
			point.Absent++
		case models.AttendanceStatusLate:
			point.Late++
		}
		point.Total++
	}

	trend := make([]models.TrendPoint, 0, len(byDate))
	for _, point := range byDate {
		trend = append(trend, *point)
	}
	sort.Slice(trend, func(i, j int) bool { return trend[i].Date < trend[j].Date })
	if len(trend) > trendWindow {
		trend = trend[len(trend)-trendWindow:]
	}
	return trend, nil
}
