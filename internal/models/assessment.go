package models

import (
	"time"

	"github.com/lib/pq"
)

// AssessmentKind distinguishes the append-only assessment categories.
type AssessmentKind string

const (
	AssessmentKindAssignment AssessmentKind = "ASSIGNMENT"
	AssessmentKindTest       AssessmentKind = "TEST"
)

// ExamKind distinguishes the single-slot exam categories.
type ExamKind string

const (
	ExamKindMidterm ExamKind = "MIDTERM"
	ExamKindFinal   ExamKind = "FINAL"
)

// AssessmentEntry is one scored assignment or test attached to an enrollment.
type AssessmentEntry struct {
	ID           string         `db:"id" json:"id"`
	EnrollmentID string         `db:"enrollment_id" json:"enrollment_id"`
	Kind         AssessmentKind `db:"kind" json:"kind"`
	Name         string         `db:"name" json:"name"`
	Score        float64        `db:"score" json:"score"`
	Weight       float64        `db:"weight" json:"weight"`
	SubmittedAt  time.Time      `db:"submitted_at" json:"submitted_at"`
}

// ExamResult holds the single midterm or final attempt for an enrollment.
// An exam may be taken exactly once; the row is insert-only.
type ExamResult struct {
	ID           string        `db:"id" json:"id"`
	EnrollmentID string        `db:"enrollment_id" json:"enrollment_id"`
	Kind         ExamKind      `db:"kind" json:"kind"`
	Score        float64       `db:"score" json:"score"`
	Answers      pq.Int64Array `db:"answers" json:"answers"`
	SubmittedAt  time.Time     `db:"submitted_at" json:"submitted_at"`
}

// AssessmentBundle groups everything recorded against one enrollment.
type AssessmentBundle struct {
	Assignments []AssessmentEntry `json:"assignments"`
	Tests       []AssessmentEntry `json:"tests"`
	Midterm     *ExamResult       `json:"midterm,omitempty"`
	Final       *ExamResult       `json:"final,omitempty"`
}

// ExamEligibilityStatus is the computed availability of an exam.
type ExamEligibilityStatus string

const (
	ExamLocked    ExamEligibilityStatus = "locked"
	ExamAvailable ExamEligibilityStatus = "available"
	ExamCompleted ExamEligibilityStatus = "completed"
)

// ExamEligibility describes whether a student may sit an exam and why not.
type ExamEligibility struct {
	CourseID string                `json:"course_id"`
	Kind     ExamKind              `json:"kind"`
	Status   ExamEligibilityStatus `json:"status"`
	Reason   string                `json:"reason,omitempty"`
}
