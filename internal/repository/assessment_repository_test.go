package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

func TestAssessmentRepositoryInsertEntryAssignsDefaults(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO assessment_entries")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	entry := &models.AssessmentEntry{EnrollmentID: "en1", Kind: models.AssessmentKindAssignment, Name: "Problem set 1", Score: 88}
	require.NoError(t, repo.InsertEntry(context.Background(), entry))
	require.NotEmpty(t, entry.ID)
	require.False(t, entry.SubmittedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryInsertExam(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO exam_results")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	result := &models.ExamResult{EnrollmentID: "en1", Kind: models.ExamKindMidterm, Score: 70, Answers: pq.Int64Array{0, 1, 2}}
	require.NoError(t, repo.InsertExam(context.Background(), result))
	require.NotEmpty(t, result.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryFetchBundlesSplitsCategories(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	now := time.Now().UTC()

	entryRows := sqlmock.NewRows([]string{"id", "enrollment_id", "kind", "name", "score", "weight", "submitted_at"}).
		AddRow("a1", "en1", "ASSIGNMENT", "Problem set 1", 90.0, 0.0, now).
		AddRow("t1", "en1", "TEST", "Quiz 1", 80.0, 0.0, now).
		AddRow("a2", "en2", "ASSIGNMENT", "Essay", 85.0, 0.0, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM assessment_entries WHERE enrollment_id IN")).
		WithArgs("en1", "en2").
		WillReturnRows(entryRows)

	examRows := sqlmock.NewRows([]string{"id", "enrollment_id", "kind", "score", "answers", "submitted_at"}).
		AddRow("m1", "en1", "MIDTERM", 75.0, []byte("{0,1}"), now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM exam_results WHERE enrollment_id IN")).
		WithArgs("en1", "en2").
		WillReturnRows(examRows)

	bundles, err := repo.FetchBundles(context.Background(), []string{"en1", "en2"})
	require.NoError(t, err)

	require.Len(t, bundles["en1"].Assignments, 1)
	require.Len(t, bundles["en1"].Tests, 1)
	require.NotNil(t, bundles["en1"].Midterm)
	require.Equal(t, 75.0, bundles["en1"].Midterm.Score)
	require.Nil(t, bundles["en1"].Final)

	require.Len(t, bundles["en2"].Assignments, 1)
	require.Nil(t, bundles["en2"].Midterm)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAssessmentRepositoryFetchBundlesEmptyInput(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewAssessmentRepository(db)
	bundles, err := repo.FetchBundles(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, bundles)
	require.NoError(t, mock.ExpectationsWereMet())
}
