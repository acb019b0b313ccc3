package models

import "time"

// Enrollment captures a student's relationship to one catalog course.
// One record exists per (student, course) pair; the row is hard-deleted on
// unenroll, which is only allowed while the enrollment is unpaid.
type Enrollment struct {
	ID         string     `db:"id" json:"id"`
	StudentID  string     `db:"student_id" json:"student_id"`
	CourseID   string     `db:"course_id" json:"course_id"`
	EnrolledAt time.Time  `db:"enrolled_at" json:"enrolled_at"`
	Paid       bool       `db:"paid" json:"paid"`
	PaidAt     *time.Time `db:"paid_at" json:"paid_at,omitempty"`
	Progress   int        `db:"progress" json:"progress"`
}

// EnrollmentDetail enriches Enrollment with catalog info.
type EnrollmentDetail struct {
	Enrollment
	CourseCode string `db:"course_code" json:"course_code"`
	CourseName string `db:"course_name" json:"course_name"`
	Credits    int    `db:"credits" json:"credits"`
	Instructor string `db:"instructor" json:"instructor"`
}

// EnrollmentView is an EnrollmentDetail with derived grade state attached.
type EnrollmentView struct {
	EnrollmentDetail
	Grade *GradeSummary `json:"grade,omitempty"`
}

// EnrollMultiResult reports the outcome of a batch enrollment.
type EnrollMultiResult struct {
	Enrolled []EnrollmentDetail `json:"enrolled"`
	Skipped  []string           `json:"skipped,omitempty"`
}

// EnrollmentFilter provides filters for listing enrollments.
type EnrollmentFilter struct {
	StudentID string
	Paid      *bool
	Page      int
	PageSize  int
}
