package models

// Breakdown holds the attendance numbers for one filter window.
// TotalDays counts recorded entries only; days without a record are not
// treated as absences. An empty window reports exactly 100%.
type Breakdown struct {
	PresentCount int     `json:"present_count"`
	TotalDays    int     `json:"total_days"`
	Percentage   float64 `json:"percentage"`
}

// StudentReport is one student's aggregated attendance over a window,
// retaining the in-range records for log export.
type StudentReport struct {
	Student
	Breakdown
	Records []AttendanceRecord `json:"records"`
}

// SubjectSummary is the per-subject slice of a student's report.
type SubjectSummary struct {
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Breakdown
}

// ReportFilter narrows an already-built report list. Empty grade/section
// mean "no filter"; Threshold keeps percentages less than or equal to it.
type ReportFilter struct {
	Search    string
	Threshold float64
	Grade     string
	Section   string
}

// TrendPoint aggregates one class day for charting.
type TrendPoint struct {
	Date    string `json:"date"`
	Present int    `json:"present"`
	Absent  int    `json:"absent"`
	Late    int    `json:"late"`
	Total   int    `json:"total"`
}

// ImportRowError describes one skipped row of a CSV import.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportSummary reports the outcome of a CSV student import.
type ImportSummary struct {
	Added       int                 `json:"added"`
	Skipped     int                 `json:"skipped"`
	Errors      []ImportRowError    `json:"errors,omitempty"`
	Credentials []IssuedCredentials `json:"credentials,omitempty"`
}
