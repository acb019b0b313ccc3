package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/grading"
	"github.com/noah-isme/campus-portal-api/internal/models"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
)

type enrollmentRepository interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error)
	FindDetailByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.EnrollmentDetail, error)
	Exists(ctx context.Context, studentID, courseID string) (bool, error)
	Create(ctx context.Context, enrollment *models.Enrollment) error
	Delete(ctx context.Context, id string) error
	SetPaid(ctx context.Context, id string, paidAt time.Time) error
	SetAllPaid(ctx context.Context, studentID string, paidAt time.Time) (int, error)
}

type courseCatalog interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []string) (map[string]models.Course, error)
}

type bundleReader interface {
	FetchBundle(ctx context.Context, enrollmentID string) (models.AssessmentBundle, error)
	FetchBundles(ctx context.Context, enrollmentIDs []string) (map[string]models.AssessmentBundle, error)
}

// EnrollRequest describes a single-course enrollment payload.
type EnrollRequest struct {
	CourseID string `json:"course_id" validate:"required"`
}

// EnrollManyRequest describes a batch enrollment payload.
type EnrollManyRequest struct {
	CourseIDs []string `json:"course_ids" validate:"required,min=1,dive,required"`
}

// EnrollmentService owns the per-student enrollment list: creation, removal,
// payment state and the grade/GPA read paths derived from assessments.
type EnrollmentService struct {
	repo        enrollmentRepository
	courses     courseCatalog
	assessments bundleReader
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(repo enrollmentRepository, courses courseCatalog, assessments bundleReader, validate *validator.Validate, logger *zap.Logger) *EnrollmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, courses: courses, assessments: assessments, validator: validate, logger: logger}
}

// Enroll registers the student in one catalog course. Enrolling twice in the
// same course fails and leaves the first enrollment untouched.
func (s *EnrollmentService) Enroll(ctx context.Context, studentID string, req EnrollRequest) (*models.EnrollmentDetail, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}
	if _, err := s.courses.FindByID(ctx, req.CourseID); err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load course")
	}
	exists, err := s.repo.Exists(ctx, studentID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrAlreadyEnrolled, "")
	}
	enrollment := &models.Enrollment{StudentID: studentID, CourseID: req.CourseID, EnrolledAt: time.Now().UTC()}
	if err := s.repo.Create(ctx, enrollment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
	}
	detail, err := s.repo.FindDetailByStudentAndCourse(ctx, studentID, req.CourseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment detail")
	}
	return detail, nil
}

// EnrollMany enrolls the non-duplicate subset of a batch and reports what
// was skipped. Duplicates and unknown course ids do not block the rest.
func (s *EnrollmentService) EnrollMany(ctx context.Context, studentID string, req EnrollManyRequest) (*models.EnrollMultiResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch enrollment payload")
	}
	catalog, err := s.courses.FindByIDs(ctx, req.CourseIDs)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses")
	}
	result := &models.EnrollMultiResult{}
	seen := make(map[string]bool, len(req.CourseIDs))
	for _, courseID := range req.CourseIDs {
		if seen[courseID] {
			continue
		}
		seen[courseID] = true
		if _, ok := catalog[courseID]; !ok {
			result.Skipped = append(result.Skipped, courseID)
			continue
		}
		exists, err := s.repo.Exists(ctx, studentID, courseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate enrollment")
		}
		if exists {
			result.Skipped = append(result.Skipped, courseID)
			continue
		}
		enrollment := &models.Enrollment{StudentID: studentID, CourseID: courseID, EnrolledAt: time.Now().UTC()}
		if err := s.repo.Create(ctx, enrollment); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create enrollment")
		}
		detail, err := s.repo.FindDetailByStudentAndCourse(ctx, studentID, courseID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment detail")
		}
		result.Enrolled = append(result.Enrolled, *detail)
	}
	return result, nil
}

// Unenroll removes an unpaid enrollment entirely. Once paid, the enrollment
// is locked and can never be removed.
func (s *EnrollmentService) Unenroll(ctx context.Context, studentID, courseID string) error {
	enrollment, err := s.repo.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if enrollment.Paid {
		return appErrors.Clone(appErrors.ErrPaymentLocked, "")
	}
	if err := s.repo.Delete(ctx, enrollment.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete enrollment")
	}
	return nil
}

// MarkPaid adds one course to the student's paid set. Idempotent.
func (s *EnrollmentService) MarkPaid(ctx context.Context, studentID, courseID string) (*models.EnrollmentDetail, error) {
	enrollment, err := s.repo.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	if err := s.repo.SetPaid(ctx, enrollment.ID, time.Now().UTC()); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark enrollment paid")
	}
	detail, err := s.repo.FindDetailByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment detail")
	}
	return detail, nil
}

// MarkAllPaid marks every enrollment of the student as paid and returns how
// many were newly paid.
func (s *EnrollmentService) MarkAllPaid(ctx context.Context, studentID string) (int, error) {
	count, err := s.repo.SetAllPaid(ctx, studentID, time.Now().UTC())
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark enrollments paid")
	}
	return count, nil
}

// IsEnrolled reports whether the student has an enrollment for the course.
func (s *EnrollmentService) IsEnrolled(ctx context.Context, studentID, courseID string) (bool, error) {
	exists, err := s.repo.Exists(ctx, studentID, courseID)
	if err != nil {
		return false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check enrollment")
	}
	return exists, nil
}

// List returns the student's enrollments with derived grade state attached.
func (s *EnrollmentService) List(ctx context.Context, studentID string) ([]models.EnrollmentView, error) {
	details, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	ids := make([]string, len(details))
	for i, detail := range details {
		ids[i] = detail.ID
	}
	bundles, err := s.assessments.FetchBundles(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	views := make([]models.EnrollmentView, len(details))
	for i, detail := range details {
		views[i] = models.EnrollmentView{EnrollmentDetail: detail}
		summary := grading.Summary(detail.CourseID, bundles[detail.ID])
		if summary.Gradable {
			views[i].Grade = &summary
		}
	}
	return views, nil
}

// Get returns one enrollment with derived grade state.
func (s *EnrollmentService) Get(ctx context.Context, studentID, courseID string) (*models.EnrollmentView, error) {
	detail, err := s.repo.FindDetailByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	bundle, err := s.assessments.FetchBundle(ctx, detail.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	view := &models.EnrollmentView{EnrollmentDetail: *detail}
	summary := grading.Summary(detail.CourseID, bundle)
	if summary.Gradable {
		view.Grade = &summary
	}
	return view, nil
}

// GradeFor returns the grade summary for one course. A summary with
// Gradable=false distinguishes "not yet gradable" from a low grade.
func (s *EnrollmentService) GradeFor(ctx context.Context, studentID, courseID string) (*models.GradeSummary, error) {
	enrollment, err := s.repo.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load enrollment")
	}
	bundle, err := s.assessments.FetchBundle(ctx, enrollment.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	summary := grading.Summary(courseID, bundle)
	return &summary, nil
}

// GPA computes the credit-weighted grade point average over graded courses.
func (s *EnrollmentService) GPA(ctx context.Context, studentID string) (*models.GPAResult, error) {
	details, err := s.repo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	ids := make([]string, len(details))
	for i, detail := range details {
		ids[i] = detail.ID
	}
	bundles, err := s.assessments.FetchBundles(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}
	var graded []models.CreditGrade
	for _, detail := range details {
		overall, ok := grading.Overall(bundles[detail.ID])
		if !ok {
			continue
		}
		graded = append(graded, models.CreditGrade{Credits: detail.Credits, Letter: grading.Letter(overall)})
	}
	result := grading.GPA(graded)
	return &result, nil
}
