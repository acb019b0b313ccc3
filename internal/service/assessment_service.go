package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/exam"
	"github.com/noah-isme/campus-portal-api/internal/grading"
	"github.com/noah-isme/campus-portal-api/internal/models"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
)

type assessmentRepo interface {
	InsertEntry(ctx context.Context, entry *models.AssessmentEntry) error
	InsertExam(ctx context.Context, result *models.ExamResult) error
	FetchBundle(ctx context.Context, enrollmentID string) (models.AssessmentBundle, error)
}

type enrollmentAccess interface {
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	UpdateProgress(ctx context.Context, id string, progress int) error
}

type courseReader interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
}

type publicationReader interface {
	InfoFor(ctx context.Context, courseID string) (*models.PublicationInfo, error)
}

// SubmitEntryRequest carries an assignment or test submission. Score is
// optional; when absent the injected grader assigns one.
type SubmitEntryRequest struct {
	CourseID string   `json:"course_id" validate:"required"`
	Name     string   `json:"name" validate:"required"`
	Score    *float64 `json:"score" validate:"omitempty,min=0,max=100"`
	Weight   float64  `json:"weight" validate:"omitempty,min=0,max=1"`
}

// SubmitExamRequest carries a midterm or final answer sheet.
type SubmitExamRequest struct {
	CourseID string `json:"course_id" validate:"required"`
	Answers  []int  `json:"answers" validate:"required,min=1"`
}

// AssessmentService generates exam content, scores submissions and writes
// results back onto the student's enrollments.
type AssessmentService struct {
	repo          assessmentRepo
	enrollments   enrollmentAccess
	courses       courseReader
	publications  publicationReader
	grader        Grader
	validator     *validator.Validate
	logger        *zap.Logger
	questionCount int
	threshold     float64
}

// NewAssessmentService constructs AssessmentService. questionCount and
// threshold fall back to the standard exam length and the 75-point final
// exam gate when zero.
func NewAssessmentService(repo assessmentRepo, enrollments enrollmentAccess, courses courseReader, publications publicationReader, grader Grader, questionCount int, threshold float64, validate *validator.Validate, logger *zap.Logger) *AssessmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if questionCount <= 0 {
		questionCount = exam.DefaultQuestionCount
	}
	if threshold <= 0 {
		threshold = 75
	}
	return &AssessmentService{
		repo:          repo,
		enrollments:   enrollments,
		courses:       courses,
		publications:  publications,
		grader:        grader,
		validator:     validate,
		logger:        logger,
		questionCount: questionCount,
		threshold:     threshold,
	}
}

// Questions returns the student-facing question set for a published exam.
func (s *AssessmentService) Questions(ctx context.Context, studentID, courseID string, kind models.ExamKind) ([]models.QuestionView, error) {
	if _, err := s.enrollment(ctx, studentID, courseID); err != nil {
		return nil, err
	}
	if err := s.requirePublished(ctx, courseID, kind); err != nil {
		return nil, err
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	return exam.Views(exam.Questions(course.Name, s.questionCount)), nil
}

// SubmitAssignment appends a scored assignment and refreshes progress.
func (s *AssessmentService) SubmitAssignment(ctx context.Context, studentID string, req SubmitEntryRequest) (*models.AssessmentEntry, error) {
	return s.submitEntry(ctx, studentID, req, models.AssessmentKindAssignment)
}

// SubmitTest appends a scored test and refreshes progress.
func (s *AssessmentService) SubmitTest(ctx context.Context, studentID string, req SubmitEntryRequest) (*models.AssessmentEntry, error) {
	return s.submitEntry(ctx, studentID, req, models.AssessmentKindTest)
}

func (s *AssessmentService) submitEntry(ctx context.Context, studentID string, req SubmitEntryRequest, kind models.AssessmentKind) (*models.AssessmentEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	enrollment, err := s.enrollment(ctx, studentID, req.CourseID)
	if err != nil {
		return nil, err
	}
	score := s.assignScore(req.Score, kind)
	entry := &models.AssessmentEntry{
		EnrollmentID: enrollment.ID,
		Kind:         kind,
		Name:         req.Name,
		Score:        score,
		Weight:       req.Weight,
	}
	if err := s.repo.InsertEntry(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record submission")
	}
	if err := s.recomputeProgress(ctx, enrollment.ID); err != nil {
		return nil, err
	}
	return entry, nil
}

// SubmitMidterm scores a midterm answer sheet against the generated
// question set. A midterm may be taken exactly once.
func (s *AssessmentService) SubmitMidterm(ctx context.Context, studentID string, req SubmitExamRequest) (*models.ExamResult, error) {
	return s.submitExam(ctx, studentID, req, models.ExamKindMidterm)
}

// SubmitFinal scores a final answer sheet once the eligibility machine says
// the exam is available.
func (s *AssessmentService) SubmitFinal(ctx context.Context, studentID string, req SubmitExamRequest) (*models.ExamResult, error) {
	return s.submitExam(ctx, studentID, req, models.ExamKindFinal)
}

func (s *AssessmentService) submitExam(ctx context.Context, studentID string, req SubmitExamRequest, kind models.ExamKind) (*models.ExamResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid exam payload")
	}
	enrollment, err := s.enrollment(ctx, studentID, req.CourseID)
	if err != nil {
		return nil, err
	}
	bundle, err := s.repo.FetchBundle(ctx, enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	info, err := s.publications.InfoFor(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	eligibility := s.eligibility(req.CourseID, kind, bundle, info)
	switch eligibility.Status {
	case models.ExamCompleted:
		return nil, appErrors.Clone(appErrors.ErrAlreadySubmitted, fmt.Sprintf("%s already submitted", kindLabel(kind)))
	case models.ExamLocked:
		return nil, appErrors.Clone(appErrors.ErrExamLocked, eligibility.Reason)
	}

	course, err := s.courses.FindByID(ctx, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	key := exam.Key(course.Name, s.questionCount)
	correct := 0
	for i, answer := range key {
		if i < len(req.Answers) && req.Answers[i] == answer {
			correct++
		}
	}
	answers := make(pq.Int64Array, len(req.Answers))
	for i, answer := range req.Answers {
		answers[i] = int64(answer)
	}
	result := &models.ExamResult{
		EnrollmentID: enrollment.ID,
		Kind:         kind,
		Score:        grading.ExamScore(correct, len(key)),
		Answers:      answers,
	}
	if err := s.repo.InsertExam(ctx, result); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record exam result")
	}
	if err := s.recomputeProgress(ctx, enrollment.ID); err != nil {
		return nil, err
	}
	s.logger.Info("exam scored",
		zap.String("course_id", req.CourseID),
		zap.String("kind", string(kind)),
		zap.Float64("score", result.Score),
	)
	return result, nil
}

// Eligibility reports the locked/available/completed state of an exam.
func (s *AssessmentService) Eligibility(ctx context.Context, studentID, courseID string, kind models.ExamKind) (*models.ExamEligibility, error) {
	enrollment, err := s.enrollment(ctx, studentID, courseID)
	if err != nil {
		return nil, err
	}
	bundle, err := s.repo.FetchBundle(ctx, enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	info, err := s.publications.InfoFor(ctx, courseID)
	if err != nil {
		return nil, err
	}
	eligibility := s.eligibility(courseID, kind, bundle, info)
	return &eligibility, nil
}

// eligibility is the exam state machine. The publication gate is checked
// first; the final exam additionally requires recorded assignments, tests
// and a midterm at or above the threshold.
func (s *AssessmentService) eligibility(courseID string, kind models.ExamKind, bundle models.AssessmentBundle, info *models.PublicationInfo) models.ExamEligibility {
	eligibility := models.ExamEligibility{CourseID: courseID, Kind: kind}

	if kind == models.ExamKindMidterm {
		if bundle.Midterm != nil {
			eligibility.Status = models.ExamCompleted
			return eligibility
		}
		if !info.MidtermPublished {
			eligibility.Status = models.ExamLocked
			eligibility.Reason = "midterm is not published"
			return eligibility
		}
		eligibility.Status = models.ExamAvailable
		return eligibility
	}

	if bundle.Final != nil {
		eligibility.Status = models.ExamCompleted
		return eligibility
	}
	eligibility.Status = models.ExamLocked
	switch {
	case !info.FinalPublished:
		eligibility.Reason = "final exam is not published"
	case len(bundle.Assignments) == 0:
		eligibility.Reason = "no assignments submitted"
	case len(bundle.Tests) == 0:
		eligibility.Reason = "no tests submitted"
	case bundle.Midterm == nil:
		eligibility.Reason = "midterm not taken"
	case bundle.Midterm.Score < s.threshold:
		eligibility.Reason = fmt.Sprintf("midterm score below %.0f", s.threshold)
	default:
		eligibility.Status = models.ExamAvailable
	}
	return eligibility
}

func (s *AssessmentService) enrollment(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	return enrollment, nil
}

func (s *AssessmentService) requirePublished(ctx context.Context, courseID string, kind models.ExamKind) error {
	info, err := s.publications.InfoFor(ctx, courseID)
	if err != nil {
		return err
	}
	published := info.MidtermPublished
	if kind == models.ExamKindFinal {
		published = info.FinalPublished
	}
	if !published {
		return appErrors.Clone(appErrors.ErrNotPublished, fmt.Sprintf("%s is not published", kindLabel(kind)))
	}
	return nil
}

func (s *AssessmentService) assignScore(explicit *float64, kind models.AssessmentKind) float64 {
	if explicit != nil {
		return *explicit
	}
	if kind == models.AssessmentKindTest {
		return s.grader.TestScore()
	}
	return s.grader.AssignmentScore()
}

func (s *AssessmentService) recomputeProgress(ctx context.Context, enrollmentID string) error {
	bundle, err := s.repo.FetchBundle(ctx, enrollmentID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reload assessments")
	}
	if err := s.enrollments.UpdateProgress(ctx, enrollmentID, grading.Progress(bundle)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update progress")
	}
	return nil
}

func kindLabel(kind models.ExamKind) string {
	if kind == models.ExamKindFinal {
		return "final exam"
	}
	return "midterm"
}
