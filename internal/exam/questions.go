// Package exam generates deterministic multiple-choice question sets.
// Generation is a pure function of the course name so repeated calls, and
// calls from different processes, yield identical questions and answer keys.
package exam

import (
	"fmt"
	"hash/fnv"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// DefaultQuestionCount is the standard exam length.
const DefaultQuestionCount = 10

var questionTemplates = []string{
	"Which statement about %s is correct?",
	"What is the primary focus of topic %d in %s?",
	"In %s, which concept does unit %d introduce?",
	"Which of the following best summarises chapter %d of %s?",
	"According to the %s syllabus, what does module %d cover?",
}

var optionStems = []string{
	"The definition introduced in the lectures",
	"The worked example from the tutorial",
	"The theorem covered in the reading list",
	"The case study from the assignment brief",
}

// Questions produces a fixed-length question set for a course. Each question
// has exactly one correct option index derived from the course name.
func Questions(courseName string, count int) []models.Question {
	if count <= 0 {
		count = DefaultQuestionCount
	}
	questions := make([]models.Question, count)
	for i := 0; i < count; i++ {
		seed := digest(courseName, i)
		questions[i] = models.Question{
			Number:  i + 1,
			Text:    questionText(courseName, i, seed),
			Options: options(courseName, i),
			Answer:  int(seed % uint64(len(optionStems))),
		}
	}
	return questions
}

// Key returns only the correct option indices for a course's question set.
func Key(courseName string, count int) []int {
	questions := Questions(courseName, count)
	key := make([]int, len(questions))
	for i, q := range questions {
		key[i] = q.Answer
	}
	return key
}

// Views strips answer keys for student-facing delivery.
func Views(questions []models.Question) []models.QuestionView {
	views := make([]models.QuestionView, len(questions))
	for i, q := range questions {
		views[i] = models.QuestionView{Number: q.Number, Text: q.Text, Options: q.Options}
	}
	return views
}

func questionText(courseName string, index int, seed uint64) string {
	template := questionTemplates[seed%uint64(len(questionTemplates))]
	switch template {
	case questionTemplates[0]:
		return fmt.Sprintf(template, courseName)
	case questionTemplates[2], questionTemplates[4]:
		return fmt.Sprintf(template, courseName, index+1)
	default:
		return fmt.Sprintf(template, index+1, courseName)
	}
}

func options(courseName string, index int) []string {
	opts := make([]string, len(optionStems))
	for i, stem := range optionStems {
		opts[i] = fmt.Sprintf("%s for %s (topic %d)", stem, courseName, index+1)
	}
	return opts
}

func digest(courseName string, index int) uint64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s:%d", courseName, index)
	return h.Sum64()
}
