package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// EnrollmentRepository handles persistence of per-student enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

const enrollmentDetailColumns = `e.id, e.student_id, e.course_id, e.enrolled_at, e.paid, e.paid_at, e.progress,
        c.code AS course_code, c.name AS course_name, c.credits, c.instructor`

// ListByStudent returns a student's enrollments with catalog context,
// ordered by enrollment date.
func (r *EnrollmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1
        ORDER BY e.enrolled_at`, enrollmentDetailColumns)
	var enrollments []models.EnrollmentDetail
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

// FindByStudentAndCourse returns the enrollment for a (student, course) pair.
func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, enrolled_at, paid, paid_at, progress FROM enrollments WHERE student_id = $1 AND course_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindDetailByStudentAndCourse returns the enrollment with catalog context.
func (r *EnrollmentRepository) FindDetailByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.EnrollmentDetail, error) {
	query := fmt.Sprintf(`SELECT %s
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1 AND e.course_id = $2`, enrollmentDetailColumns)
	var detail models.EnrollmentDetail
	if err := r.db.GetContext(ctx, &detail, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &detail, nil
}

// Exists checks whether a student is already enrolled in a course.
func (r *EnrollmentRepository) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	const query = `SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, studentID, courseID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Create persists a new enrollment record.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	if enrollment.ID == "" {
		enrollment.ID = uuid.NewString()
	}
	if enrollment.EnrolledAt.IsZero() {
		enrollment.EnrolledAt = time.Now().UTC()
	}
	const query = `INSERT INTO enrollments (id, student_id, course_id, enrolled_at, paid, paid_at, progress)
        VALUES (:id, :student_id, :course_id, :enrolled_at, :paid, :paid_at, :progress)`
	if _, err := r.db.NamedExecContext(ctx, query, enrollment); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// Delete removes an enrollment entirely. Unenroll is a hard delete; the paid
// guard lives in the service.
func (r *EnrollmentRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM enrollments WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("delete enrollment: %w", err)
	}
	return nil
}

// SetPaid marks one enrollment as paid. Idempotent: the first payment
// timestamp is preserved on repeat calls.
func (r *EnrollmentRepository) SetPaid(ctx context.Context, id string, paidAt time.Time) error {
	const query = `UPDATE enrollments SET paid = TRUE, paid_at = COALESCE(paid_at, $2) WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, paidAt); err != nil {
		return fmt.Errorf("mark enrollment paid: %w", err)
	}
	return nil
}

// SetAllPaid marks every unpaid enrollment of a student as paid.
func (r *EnrollmentRepository) SetAllPaid(ctx context.Context, studentID string, paidAt time.Time) (int, error) {
	const query = `UPDATE enrollments SET paid = TRUE, paid_at = COALESCE(paid_at, $2) WHERE student_id = $1 AND NOT paid`
	result, err := r.db.ExecContext(ctx, query, studentID, paidAt)
	if err != nil {
		return 0, fmt.Errorf("mark all enrollments paid: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count paid enrollments: %w", err)
	}
	return int(affected), nil
}

// UpdateProgress stores the recomputed progress percentage.
func (r *EnrollmentRepository) UpdateProgress(ctx context.Context, id string, progress int) error {
	const query = `UPDATE enrollments SET progress = $2 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, progress); err != nil {
		return fmt.Errorf("update enrollment progress: %w", err)
	}
	return nil
}
