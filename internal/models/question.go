package models

// Question is one generated multiple-choice exam question. Answer is the
// index of the correct option and is never exposed to students.
type Question struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
	Answer  int      `json:"-"`
}

// QuestionView is the student-facing projection of a Question.
type QuestionView struct {
	Number  int      `json:"number"`
	Text    string   `json:"text"`
	Options []string `json:"options"`
}
