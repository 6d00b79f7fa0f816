package models

// AttendanceStatus represents the status for attendance records.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "Present"
	AttendanceStatusAbsent  AttendanceStatus = "Absent"
	AttendanceStatusLate    AttendanceStatus = "Late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// Attended reports whether a record with this status counts toward the
// presence numerator. Late is treated as attended.
func (s AttendanceStatus) Attended() bool {
	return s == AttendanceStatusPresent || s == AttendanceStatusLate
}

// AttendanceRecord is one entry for one student, one ISO date (YYYY-MM-DD),
// one subject. The logical key is (student_id, date, subject_id); there is no
// surrogate identifier.
type AttendanceRecord struct {
	StudentID string           `db:"student_id" json:"student_id"`
	Date      string           `db:"date" json:"date"`
	SubjectID string           `db:"subject_id" json:"subject_id"`
	Status    AttendanceStatus `db:"status" json:"status"`
}

// Key returns the logical upsert key for the record.
func (r AttendanceRecord) Key() AttendanceKey {
	return AttendanceKey{StudentID: r.StudentID, Date: r.Date, SubjectID: r.SubjectID}
}

// AttendanceKey identifies a record for upsert purposes.
type AttendanceKey struct {
	StudentID string
	Date      string
	SubjectID string
}
