package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func enrollmentDetailRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "student_id", "course_id", "enrolled_at", "paid", "paid_at", "progress", "course_code", "course_name", "credits", "instructor"})
}

func TestEnrollmentRepositoryListByStudent(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	rows := enrollmentDetailRows().
		AddRow("en1", "stu1", "c1", time.Now(), false, nil, 30, "MATH101", "Calculus I", 3, "Dr. Ortega").
		AddRow("en2", "stu1", "c2", time.Now(), true, time.Now(), 100, "PHYS201", "Mechanics", 4, "Dr. Feld")
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrollments e")).
		WithArgs("stu1").
		WillReturnRows(rows)

	enrollments, err := repo.ListByStudent(context.Background(), "stu1")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	require.Equal(t, "MATH101", enrollments[0].CourseCode)
	require.True(t, enrollments[1].Paid)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO enrollments")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	enrollment := &models.Enrollment{StudentID: "stu1", CourseID: "c1"}
	require.NoError(t, repo.Create(context.Background(), enrollment))
	require.NotEmpty(t, enrollment.ID)
	require.False(t, enrollment.EnrolledAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments")).
		WithArgs("stu1", "c1").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT 1 FROM enrollments")).
		WithArgs("stu1", "c2").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := repo.Exists(context.Background(), "stu1", "c1")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = repo.Exists(context.Background(), "stu1", "c2")
	require.NoError(t, err)
	require.False(t, exists)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositorySetPaidKeepsFirstTimestamp(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	paidAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("SET paid = TRUE, paid_at = COALESCE(paid_at, $2)")).
		WithArgs("en1", paidAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetPaid(context.Background(), "en1", paidAt))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositorySetAllPaidCountsRows(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	paidAt := time.Now().UTC()
	mock.ExpectExec(regexp.QuoteMeta("WHERE student_id = $1 AND NOT paid")).
		WithArgs("stu1", paidAt).
		WillReturnResult(sqlmock.NewResult(0, 3))

	count, err := repo.SetAllPaid(context.Background(), "stu1", paidAt)
	require.NoError(t, err)
	require.Equal(t, 3, count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM enrollments WHERE id = $1")).
		WithArgs("en1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Delete(context.Background(), "en1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateProgress(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewEnrollmentRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("SET progress = $2")).
		WithArgs("en1", 60).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.UpdateProgress(context.Background(), "en1", 60))
	require.NoError(t, mock.ExpectationsWereMet())
}
