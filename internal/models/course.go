package models

// Course is an immutable catalog record seeded by the course-catalog system.
// The core never mutates catalog data.
type Course struct {
	ID         string `db:"id" json:"id"`
	Code       string `db:"code" json:"code"`
	Name       string `db:"name" json:"name"`
	Credits    int    `db:"credits" json:"credits"`
	Instructor string `db:"instructor" json:"instructor"`
	Schedule   string `db:"schedule" json:"schedule"`
	Capacity   int    `db:"capacity" json:"capacity"`
}
