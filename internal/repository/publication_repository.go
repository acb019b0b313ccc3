package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// PublicationRepository persists the reviewer-controlled publication state.
// Rows are keyed by course-catalog id, created implicitly on first publish
// and never deleted; unpublish clears the flag and stamps.
type PublicationRepository struct {
	db *sqlx.DB
}

// NewPublicationRepository constructs the repository.
func NewPublicationRepository(db *sqlx.DB) *PublicationRepository {
	return &PublicationRepository{db: db}
}

// FindExamPublication returns the exam publication row for a course.
// Returns sql.ErrNoRows for courses never touched by a reviewer.
func (r *PublicationRepository) FindExamPublication(ctx context.Context, courseID string) (*models.ExamPublication, error) {
	const query = `SELECT course_id, midterm_published, midterm_published_by, midterm_published_at,
        final_published, final_published_by, final_published_at
        FROM exam_publications WHERE course_id = $1`
	var publication models.ExamPublication
	if err := r.db.GetContext(ctx, &publication, query, courseID); err != nil {
		return nil, err
	}
	return &publication, nil
}

// FindResultPublication returns the result publication row for a course.
func (r *PublicationRepository) FindResultPublication(ctx context.Context, courseID string) (*models.ResultPublication, error) {
	const query = `SELECT course_id, published, published_by, published_at FROM result_publications WHERE course_id = $1`
	var publication models.ResultPublication
	if err := r.db.GetContext(ctx, &publication, query, courseID); err != nil {
		return nil, err
	}
	return &publication, nil
}

// SetExamPublished upserts one exam visibility flag. Publishing stamps actor
// and timestamp; unpublishing clears both.
func (r *PublicationRepository) SetExamPublished(ctx context.Context, courseID string, kind models.ExamKind, published bool, actorID *string, at *time.Time) error {
	var query string
	switch kind {
	case models.ExamKindMidterm:
		query = `INSERT INTO exam_publications (course_id, midterm_published, midterm_published_by, midterm_published_at)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (course_id) DO UPDATE
            SET midterm_published = $2, midterm_published_by = $3, midterm_published_at = $4`
	case models.ExamKindFinal:
		query = `INSERT INTO exam_publications (course_id, final_published, final_published_by, final_published_at)
            VALUES ($1, $2, $3, $4)
            ON CONFLICT (course_id) DO UPDATE
            SET final_published = $2, final_published_by = $3, final_published_at = $4`
	default:
		return fmt.Errorf("unknown exam kind %q", kind)
	}
	if _, err := r.db.ExecContext(ctx, query, courseID, published, actorID, at); err != nil {
		return fmt.Errorf("set exam publication: %w", err)
	}
	return nil
}

// SetResultsPublished upserts the results visibility flag for a course.
func (r *PublicationRepository) SetResultsPublished(ctx context.Context, courseID string, published bool, actorID *string, at *time.Time) error {
	const query = `INSERT INTO result_publications (course_id, published, published_by, published_at)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (course_id) DO UPDATE
        SET published = $2, published_by = $3, published_at = $4`
	if _, err := r.db.ExecContext(ctx, query, courseID, published, actorID, at); err != nil {
		return fmt.Errorf("set result publication: %w", err)
	}
	return nil
}
