package models

// TeacherAssignment states that a teacher teaches a subject to one
// grade/section. At most one assignment may exist per
// (grade, section, subject_id) triple.
type TeacherAssignment struct {
	TeacherID string `db:"teacher_id" json:"teacher_id"`
	Grade     string `db:"grade" json:"grade"`
	Section   string `db:"section" json:"section"`
	SubjectID string `db:"subject_id" json:"subject_id"`
}

// ClassKey returns the uniqueness key for the assignment.
func (a TeacherAssignment) ClassKey() ClassSubjectKey {
	return ClassSubjectKey{Grade: a.Grade, Section: a.Section, SubjectID: a.SubjectID}
}

// ClassSubjectKey identifies one subject taught to one class/section.
type ClassSubjectKey struct {
	Grade     string
	Section   string
	SubjectID string
}
