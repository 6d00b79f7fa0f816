package models

// Snapshot is an immutable point-in-time view of every collection the
// aggregation core reads. All derived values (index, reports, exports) are
// pure functions over a snapshot; nothing downstream mutates it.
type Snapshot struct {
	Version     int64
	Students    []Student
	Teachers    []Teacher
	Subjects    []Subject
	Assignments []TeacherAssignment
	Records     []AttendanceRecord
}

// SubjectName resolves a subject id to its display name, empty when unknown.
func (s *Snapshot) SubjectName(subjectID string) string {
	for _, subject := range s.Subjects {
		if subject.ID == subjectID {
			return subject.Name
		}
	}
	return ""
}

// TeacherForClass resolves the teacher assigned to one grade/section/subject.
func (s *Snapshot) TeacherForClass(grade, section, subjectID string) *Teacher {
	for _, a := range s.Assignments {
		if a.Grade == grade && a.Section == section && a.SubjectID == subjectID {
			for i := range s.Teachers {
				if s.Teachers[i].ID == a.TeacherID {
					return &s.Teachers[i]
				}
			}
			return nil
		}
	}
	return nil
}

// StudentByID looks a student up by id.
func (s *Snapshot) StudentByID(id string) *Student {
	for i := range s.Students {
		if s.Students[i].ID == id {
			return &s.Students[i]
		}
	}
	return nil
}

// TeacherByID looks a teacher up by id.
func (s *Snapshot) TeacherByID(id string) *Teacher {
	for i := range s.Teachers {
		if s.Teachers[i].ID == id {
			return &s.Teachers[i]
		}
	}
	return nil
}
