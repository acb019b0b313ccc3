package models

// LetterGrade is the letter representation of a weighted course score.
type LetterGrade string

// Letter grades in descending order of score band.
const (
	GradeA      LetterGrade = "A"
	GradeAMinus LetterGrade = "A-"
	GradeBPlus  LetterGrade = "B+"
	GradeB      LetterGrade = "B"
	GradeBMinus LetterGrade = "B-"
	GradeCPlus  LetterGrade = "C+"
	GradeC      LetterGrade = "C"
	GradeCMinus LetterGrade = "C-"
	GradeDPlus  LetterGrade = "D+"
	GradeD      LetterGrade = "D"
	GradeF      LetterGrade = "F"
)

// GradeSummary carries the derived grade state for one enrollment. A course
// is gradable only when all four assessment categories are present; a
// non-gradable course is "not yet gradable", never "failing".
type GradeSummary struct {
	CourseID string       `json:"course_id"`
	Gradable bool         `json:"gradable"`
	Overall  *float64     `json:"overall,omitempty"`
	Letter   *LetterGrade `json:"letter,omitempty"`
}

// CreditGrade pairs a letter grade with the course credit weight for GPA.
type CreditGrade struct {
	Credits int
	Letter  LetterGrade
}

// GPAResult reports the credit-weighted grade point average.
type GPAResult struct {
	GPA           float64 `json:"gpa"`
	GradedCourses int     `json:"graded_courses"`
	TotalCredits  int     `json:"total_credits"`
}
