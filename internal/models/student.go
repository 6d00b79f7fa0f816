package models

// Student represents a learner registered in the school. Grade and section
// are free-text class labels compared by exact string match; sections are
// stored canonically uppercase.
type Student struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Grade   string `db:"grade" json:"grade"`
	Section string `db:"section" json:"section"`
}

// Teacher represents a staff member who takes attendance.
type Teacher struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// Subject is a static reference entry; the core never mutates subjects.
type Subject struct {
	ID   string `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
