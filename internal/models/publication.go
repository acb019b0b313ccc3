package models

import "time"

// PublicationKind identifies the reviewer-controlled visibility switches.
type PublicationKind string

const (
	PublicationKindMidterm PublicationKind = "midterm"
	PublicationKindFinal   PublicationKind = "final"
	PublicationKindResults PublicationKind = "results"
)

// Valid reports whether the kind is one of the known switches.
func (k PublicationKind) Valid() bool {
	switch k {
	case PublicationKindMidterm, PublicationKindFinal, PublicationKindResults:
		return true
	}
	return false
}

// ExamPublication is the per-course exam visibility state. It is keyed by
// course-catalog id and shared by every student enrolled in that course.
type ExamPublication struct {
	CourseID           string     `db:"course_id" json:"course_id"`
	MidtermPublished   bool       `db:"midterm_published" json:"midterm_published"`
	MidtermPublishedBy *string    `db:"midterm_published_by" json:"midterm_published_by,omitempty"`
	MidtermPublishedAt *time.Time `db:"midterm_published_at" json:"midterm_published_at,omitempty"`
	FinalPublished     bool       `db:"final_published" json:"final_published"`
	FinalPublishedBy   *string    `db:"final_published_by" json:"final_published_by,omitempty"`
	FinalPublishedAt   *time.Time `db:"final_published_at" json:"final_published_at,omitempty"`
}

// ResultPublication is the per-course grade visibility state.
type ResultPublication struct {
	CourseID    string     `db:"course_id" json:"course_id"`
	Published   bool       `db:"published" json:"published"`
	PublishedBy *string    `db:"published_by" json:"published_by,omitempty"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
}

// PublicationInfo combines both publication aggregates for one course with
// safe defaults for courses never touched by a reviewer.
type PublicationInfo struct {
	CourseID           string     `json:"course_id"`
	MidtermPublished   bool       `json:"midterm_published"`
	MidtermPublishedBy *string    `json:"midterm_published_by,omitempty"`
	MidtermPublishedAt *time.Time `json:"midterm_published_at,omitempty"`
	FinalPublished     bool       `json:"final_published"`
	FinalPublishedBy   *string    `json:"final_published_by,omitempty"`
	FinalPublishedAt   *time.Time `json:"final_published_at,omitempty"`
	ResultsPublished   bool       `json:"results_published"`
	ResultsPublishedBy *string    `json:"results_published_by,omitempty"`
	ResultsPublishedAt *time.Time `json:"results_published_at,omitempty"`
}

// BatchPublishResult summarises a fire-and-forget batch publish.
type BatchPublishResult struct {
	SuccessCount int                   `json:"success_count"`
	Failures     []BatchPublishFailure `json:"failures,omitempty"`
}

// BatchPublishFailure captures a per-course batch failure.
type BatchPublishFailure struct {
	CourseID string `json:"course_id"`
	Reason   string `json:"reason"`
}
