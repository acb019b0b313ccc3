// Package grading is the single source of truth for grade arithmetic:
// category weighting, letter mapping, grade points, GPA and progress. Every
// caller (services, exporters, handlers) goes through these functions.
package grading

import (
	"math"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// Category weights for the overall score. Assignments and tests contribute
// their average, midterm and final contribute their single score.
const (
	weightAssignments = 0.3
	weightTests       = 0.3
	weightMidterm     = 0.2
	weightFinal       = 0.2
)

// Progress contributions per category. Presence-weighted: one assignment
// counts the same as ten.
const (
	progressAssignments = 30
	progressTests       = 30
	progressMidterm     = 20
	progressFinal       = 20
)

var gradePoints = map[models.LetterGrade]float64{
	models.GradeA:      4.0,
	models.GradeAMinus: 3.7,
	models.GradeBPlus:  3.5,
	models.GradeB:      3.0,
	models.GradeBMinus: 2.7,
	models.GradeCPlus:  2.5,
	models.GradeC:      2.0,
	models.GradeCMinus: 1.7,
	models.GradeDPlus:  1.5,
	models.GradeD:      1.0,
	models.GradeF:      0.0,
}

// Complete reports whether all four assessment categories are present.
// A course has a grade iff Complete returns true.
func Complete(b models.AssessmentBundle) bool {
	return len(b.Assignments) > 0 && len(b.Tests) > 0 && b.Midterm != nil && b.Final != nil
}

// Overall returns the weighted numeric score for a complete bundle. The
// second return is false while any category is missing.
func Overall(b models.AssessmentBundle) (float64, bool) {
	if !Complete(b) {
		return 0, false
	}
	score := weightAssignments*average(b.Assignments) +
		weightTests*average(b.Tests) +
		weightMidterm*b.Midterm.Score +
		weightFinal*b.Final.Score
	return Round2(score), true
}

// Letter maps a weighted score to a letter grade. The mapping bottoms out at
// D; F exists only in the grade-point table.
func Letter(score float64) models.LetterGrade {
	switch {
	case score >= 90:
		return models.GradeA
	case score >= 85:
		return models.GradeAMinus
	case score >= 80:
		return models.GradeBPlus
	case score >= 75:
		return models.GradeB
	case score >= 70:
		return models.GradeBMinus
	case score >= 65:
		return models.GradeCPlus
	case score >= 60:
		return models.GradeC
	default:
		return models.GradeD
	}
}

// Points returns the grade-point value for a letter grade.
func Points(letter models.LetterGrade) float64 {
	return gradePoints[letter]
}

// Summary derives the grade state for one enrollment's bundle.
func Summary(courseID string, b models.AssessmentBundle) models.GradeSummary {
	overall, ok := Overall(b)
	if !ok {
		return models.GradeSummary{CourseID: courseID}
	}
	letter := Letter(overall)
	return models.GradeSummary{CourseID: courseID, Gradable: true, Overall: &overall, Letter: &letter}
}

// Progress computes the presence-weighted completion percentage.
func Progress(b models.AssessmentBundle) int {
	progress := 0
	if len(b.Assignments) > 0 {
		progress += progressAssignments
	}
	if len(b.Tests) > 0 {
		progress += progressTests
	}
	if b.Midterm != nil {
		progress += progressMidterm
	}
	if b.Final != nil {
		progress += progressFinal
	}
	return progress
}

// GPA computes the credit-weighted grade point average. Courses without a
// grade are excluded from both numerator and denominator; zero graded
// courses yields a GPA of 0.
func GPA(courses []models.CreditGrade) models.GPAResult {
	result := models.GPAResult{}
	sum := 0.0
	for _, course := range courses {
		result.GradedCourses++
		result.TotalCredits += course.Credits
		sum += Points(course.Letter) * float64(course.Credits)
	}
	if result.TotalCredits == 0 {
		return result
	}
	result.GPA = Round2(sum / float64(result.TotalCredits))
	return result
}

// ExamScore converts a correct-answer count into a 0-100 score.
func ExamScore(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(100 * float64(correct) / float64(total))
}

// Round2 rounds to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func average(entries []models.AssessmentEntry) float64 {
	if len(entries) == 0 {
		return 0
	}
	sum := 0.0
	for _, entry := range entries {
		sum += entry.Score
	}
	return sum / float64(len(entries))
}
