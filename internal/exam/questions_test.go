package exam

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestionsDeterministic(t *testing.T) {
	first := Questions("Calculus I", 10)
	second := Questions("Calculus I", 10)
	require.Len(t, first, 10)
	assert.Equal(t, first, second)
}

func TestQuestionsVaryByCourse(t *testing.T) {
	calculus := Questions("Calculus I", 10)
	databases := Questions("Databases", 10)
	assert.NotEqual(t, calculus, databases)
}

func TestQuestionsHaveSingleValidAnswer(t *testing.T) {
	for _, q := range Questions("Operating Systems", 10) {
		assert.GreaterOrEqual(t, q.Answer, 0)
		assert.Less(t, q.Answer, len(q.Options))
		assert.NotEmpty(t, q.Text)
		require.Len(t, q.Options, len(optionStems))
	}
}

func TestKeyMatchesQuestions(t *testing.T) {
	questions := Questions("Linear Algebra", 10)
	key := Key("Linear Algebra", 10)
	require.Len(t, key, len(questions))
	for i, q := range questions {
		assert.Equal(t, q.Answer, key[i])
	}
}

func TestViewsStripAnswers(t *testing.T) {
	questions := Questions("Calculus I", 3)
	views := Views(questions)
	require.Len(t, views, 3)
	for i, view := range views {
		assert.Equal(t, questions[i].Text, view.Text)
		assert.Equal(t, questions[i].Options, view.Options)
	}
}

func TestQuestionsDefaultCount(t *testing.T) {
	assert.Len(t, Questions("Calculus I", 0), DefaultQuestionCount)
}
