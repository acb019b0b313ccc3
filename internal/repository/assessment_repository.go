package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

// AssessmentRepository persists assignment/test entries and exam results.
// Entries are append-only; exam rows are insert-once per (enrollment, kind).
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// InsertEntry appends an assignment or test entry.
func (r *AssessmentRepository) InsertEntry(ctx context.Context, entry *models.AssessmentEntry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.SubmittedAt.IsZero() {
		entry.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assessment_entries (id, enrollment_id, kind, name, score, weight, submitted_at)
        VALUES (:id, :enrollment_id, :kind, :name, :score, :weight, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, entry); err != nil {
		return fmt.Errorf("insert assessment entry: %w", err)
	}
	return nil
}

// InsertExam records a midterm or final attempt.
func (r *AssessmentRepository) InsertExam(ctx context.Context, result *models.ExamResult) error {
	if result.ID == "" {
		result.ID = uuid.NewString()
	}
	if result.SubmittedAt.IsZero() {
		result.SubmittedAt = time.Now().UTC()
	}
	const query = `INSERT INTO exam_results (id, enrollment_id, kind, score, answers, submitted_at)
        VALUES (:id, :enrollment_id, :kind, :score, :answers, :submitted_at)`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("insert exam result: %w", err)
	}
	return nil
}

// FindExam returns the recorded attempt for an enrollment and exam kind.
// Returns sql.ErrNoRows when the exam has not been taken.
func (r *AssessmentRepository) FindExam(ctx context.Context, enrollmentID string, kind models.ExamKind) (*models.ExamResult, error) {
	const query = `SELECT id, enrollment_id, kind, score, answers, submitted_at FROM exam_results WHERE enrollment_id = $1 AND kind = $2`
	var result models.ExamResult
	if err := r.db.GetContext(ctx, &result, query, enrollmentID, kind); err != nil {
		return nil, err
	}
	return &result, nil
}

// ListEntries returns the ordered entries of one category for an enrollment.
func (r *AssessmentRepository) ListEntries(ctx context.Context, enrollmentID string, kind models.AssessmentKind) ([]models.AssessmentEntry, error) {
	const query = `SELECT id, enrollment_id, kind, name, score, weight, submitted_at FROM assessment_entries WHERE enrollment_id = $1 AND kind = $2 ORDER BY submitted_at`
	var entries []models.AssessmentEntry
	if err := r.db.SelectContext(ctx, &entries, query, enrollmentID, kind); err != nil {
		return nil, fmt.Errorf("list assessment entries: %w", err)
	}
	return entries, nil
}

// FetchBundle loads everything recorded against one enrollment.
func (r *AssessmentRepository) FetchBundle(ctx context.Context, enrollmentID string) (models.AssessmentBundle, error) {
	bundles, err := r.FetchBundles(ctx, []string{enrollmentID})
	if err != nil {
		return models.AssessmentBundle{}, err
	}
	return bundles[enrollmentID], nil
}

// FetchBundles loads assessment state for a set of enrollments in two
// queries. Enrollments without records map to an empty bundle.
func (r *AssessmentRepository) FetchBundles(ctx context.Context, enrollmentIDs []string) (map[string]models.AssessmentBundle, error) {
	bundles := make(map[string]models.AssessmentBundle, len(enrollmentIDs))
	if len(enrollmentIDs) == 0 {
		return bundles, nil
	}

	placeholders := make([]string, len(enrollmentIDs))
	args := make([]interface{}, len(enrollmentIDs))
	for i, id := range enrollmentIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	in := strings.Join(placeholders, ",")

	entryQuery := fmt.Sprintf(`SELECT id, enrollment_id, kind, name, score, weight, submitted_at FROM assessment_entries WHERE enrollment_id IN (%s) ORDER BY submitted_at`, in)
	var entries []models.AssessmentEntry
	if err := r.db.SelectContext(ctx, &entries, entryQuery, args...); err != nil {
		return nil, fmt.Errorf("fetch assessment entries: %w", err)
	}
	for _, entry := range entries {
		bundle := bundles[entry.EnrollmentID]
		switch entry.Kind {
		case models.AssessmentKindAssignment:
			bundle.Assignments = append(bundle.Assignments, entry)
		case models.AssessmentKindTest:
			bundle.Tests = append(bundle.Tests, entry)
		}
		bundles[entry.EnrollmentID] = bundle
	}

	examQuery := fmt.Sprintf(`SELECT id, enrollment_id, kind, score, answers, submitted_at FROM exam_results WHERE enrollment_id IN (%s)`, in)
	var exams []models.ExamResult
	if err := r.db.SelectContext(ctx, &exams, examQuery, args...); err != nil {
		return nil, fmt.Errorf("fetch exam results: %w", err)
	}
	for i := range exams {
		exam := exams[i]
		bundle := bundles[exam.EnrollmentID]
		switch exam.Kind {
		case models.ExamKindMidterm:
			bundle.Midterm = &exam
		case models.ExamKindFinal:
			bundle.Final = &exam
		}
		bundles[exam.EnrollmentID] = bundle
	}

	return bundles, nil
}
