package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/models"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
)

type fakeEnrollmentRepo struct {
	records map[string]*models.EnrollmentDetail
	courses map[string]models.Course
}

func newFakeEnrollmentRepo(courses map[string]models.Course) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{records: make(map[string]*models.EnrollmentDetail), courses: courses}
}

func enrollKey(studentID, courseID string) string {
	return studentID + "|" + courseID
}

func (f *fakeEnrollmentRepo) ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error) {
	var out []models.EnrollmentDetail
	for _, r := range f.records {
		if r.StudentID == studentID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeEnrollmentRepo) FindByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.Enrollment, error) {
	if r, ok := f.records[enrollKey(studentID, courseID)]; ok {
		enrollment := r.Enrollment
		return &enrollment, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) FindDetailByStudentAndCourse(ctx context.Context, studentID, courseID string) (*models.EnrollmentDetail, error) {
	if r, ok := f.records[enrollKey(studentID, courseID)]; ok {
		detail := *r
		return &detail, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) Exists(ctx context.Context, studentID, courseID string) (bool, error) {
	_, ok := f.records[enrollKey(studentID, courseID)]
	return ok, nil
}

func (f *fakeEnrollmentRepo) Create(ctx context.Context, enrollment *models.Enrollment) error {
	enrollment.ID = fmt.Sprintf("en%d", len(f.records)+1)
	detail := &models.EnrollmentDetail{Enrollment: *enrollment}
	if course, ok := f.courses[enrollment.CourseID]; ok {
		detail.CourseCode = course.Code
		detail.CourseName = course.Name
		detail.Credits = course.Credits
		detail.Instructor = course.Instructor
	}
	f.records[enrollKey(enrollment.StudentID, enrollment.CourseID)] = detail
	return nil
}

func (f *fakeEnrollmentRepo) Delete(ctx context.Context, id string) error {
	for key, r := range f.records {
		if r.ID == id {
			delete(f.records, key)
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) SetPaid(ctx context.Context, id string, paidAt time.Time) error {
	for _, r := range f.records {
		if r.ID == id {
			r.Paid = true
			if r.PaidAt == nil {
				r.PaidAt = &paidAt
			}
			return nil
		}
	}
	return sql.ErrNoRows
}

func (f *fakeEnrollmentRepo) SetAllPaid(ctx context.Context, studentID string, paidAt time.Time) (int, error) {
	count := 0
	for _, r := range f.records {
		if r.StudentID == studentID && !r.Paid {
			r.Paid = true
			r.PaidAt = &paidAt
			count++
		}
	}
	return count, nil
}

func (f *fakeEnrollmentRepo) UpdateProgress(ctx context.Context, id string, progress int) error {
	for _, r := range f.records {
		if r.ID == id {
			r.Progress = progress
			return nil
		}
	}
	return sql.ErrNoRows
}

type fakeCourseCatalog struct {
	courses map[string]models.Course
}

func (f *fakeCourseCatalog) FindByID(ctx context.Context, id string) (*models.Course, error) {
	if course, ok := f.courses[id]; ok {
		return &course, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCourseCatalog) FindByIDs(ctx context.Context, ids []string) (map[string]models.Course, error) {
	out := make(map[string]models.Course)
	for _, id := range ids {
		if course, ok := f.courses[id]; ok {
			out[id] = course
		}
	}
	return out, nil
}

func (f *fakeCourseCatalog) List(ctx context.Context, search string) ([]models.Course, error) {
	var out []models.Course
	for _, course := range f.courses {
		out = append(out, course)
	}
	return out, nil
}

type fakeBundleReader struct {
	bundles map[string]models.AssessmentBundle
}

func (f *fakeBundleReader) FetchBundle(ctx context.Context, enrollmentID string) (models.AssessmentBundle, error) {
	return f.bundles[enrollmentID], nil
}

func (f *fakeBundleReader) FetchBundles(ctx context.Context, enrollmentIDs []string) (map[string]models.AssessmentBundle, error) {
	out := make(map[string]models.AssessmentBundle)
	for _, id := range enrollmentIDs {
		if bundle, ok := f.bundles[id]; ok {
			out[id] = bundle
		}
	}
	return out, nil
}

func testCatalog() map[string]models.Course {
	return map[string]models.Course{
		"c1": {ID: "c1", Code: "MATH101", Name: "Calculus I", Credits: 3},
		"c2": {ID: "c2", Code: "PHYS201", Name: "Mechanics", Credits: 4},
		"c3": {ID: "c3", Code: "CHEM110", Name: "General Chemistry", Credits: 3},
	}
}

func completeBundle(assignments, tests, midterm, final float64) models.AssessmentBundle {
	return models.AssessmentBundle{
		Assignments: []models.AssessmentEntry{{Kind: models.AssessmentKindAssignment, Score: assignments}},
		Tests:       []models.AssessmentEntry{{Kind: models.AssessmentKindTest, Score: tests}},
		Midterm:     &models.ExamResult{Kind: models.ExamKindMidterm, Score: midterm},
		Final:       &models.ExamResult{Kind: models.ExamKindFinal, Score: final},
	}
}

func newEnrollmentService(repo *fakeEnrollmentRepo, bundles map[string]models.AssessmentBundle) *EnrollmentService {
	catalog := &fakeCourseCatalog{courses: repo.courses}
	return NewEnrollmentService(repo, catalog, &fakeBundleReader{bundles: bundles}, validator.New(), zap.NewNop())
}

func TestEnrollmentServiceEnroll(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	detail, err := svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)
	assert.Equal(t, "c1", detail.CourseID)
	assert.Equal(t, "MATH101", detail.CourseCode)
	assert.False(t, detail.Paid)
	assert.Len(t, repo.records, 1)
}

func TestEnrollmentServiceEnrollDuplicate(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)

	_, err = svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.records, 1)
}

func TestEnrollmentServiceEnrollUnknownCourse(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "nope"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestEnrollmentServiceEnrollManySkipsDuplicates(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)

	result, err := svc.EnrollMany(context.Background(), "stu1", EnrollManyRequest{CourseIDs: []string{"c1", "c2", "c2", "nope"}})
	require.NoError(t, err)
	require.Len(t, result.Enrolled, 1)
	assert.Equal(t, "c2", result.Enrolled[0].CourseID)
	assert.ElementsMatch(t, []string{"c1", "nope"}, result.Skipped)
	assert.Len(t, repo.records, 2)
}

func TestEnrollmentServiceUnenroll(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)

	require.NoError(t, svc.Unenroll(context.Background(), "stu1", "c1"))
	assert.Empty(t, repo.records)
}

func TestEnrollmentServiceUnenrollPaidLocked(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), "stu1", "c1")
	require.NoError(t, err)

	err = svc.Unenroll(context.Background(), "stu1", "c1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrPaymentLocked.Code, appErrors.FromError(err).Code)
	assert.Len(t, repo.records, 1)
}

func TestEnrollmentServiceMarkPaidIdempotent(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	_, err := svc.Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)

	first, err := svc.MarkPaid(context.Background(), "stu1", "c1")
	require.NoError(t, err)
	require.NotNil(t, first.PaidAt)

	second, err := svc.MarkPaid(context.Background(), "stu1", "c1")
	require.NoError(t, err)
	assert.True(t, second.Paid)
	assert.Equal(t, first.PaidAt, second.PaidAt)
}

func TestEnrollmentServiceMarkAllPaid(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	_, err := svc.EnrollMany(context.Background(), "stu1", EnrollManyRequest{CourseIDs: []string{"c1", "c2"}})
	require.NoError(t, err)
	_, err = svc.MarkPaid(context.Background(), "stu1", "c1")
	require.NoError(t, err)

	count, err := svc.MarkAllPaid(context.Background(), "stu1")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestEnrollmentServiceListAttachesGrade(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	_, err := newEnrollmentService(repo, nil).EnrollMany(context.Background(), "stu1", EnrollManyRequest{CourseIDs: []string{"c1", "c2"}})
	require.NoError(t, err)

	gradedID := repo.records[enrollKey("stu1", "c1")].ID
	bundles := map[string]models.AssessmentBundle{
		gradedID: completeBundle(90, 80, 70, 85),
		repo.records[enrollKey("stu1", "c2")].ID: {
			Assignments: []models.AssessmentEntry{{Score: 95}},
		},
	}
	svc := newEnrollmentService(repo, bundles)

	views, err := svc.List(context.Background(), "stu1")
	require.NoError(t, err)
	require.Len(t, views, 2)

	byCourse := make(map[string]models.EnrollmentView, len(views))
	for _, view := range views {
		byCourse[view.CourseID] = view
	}
	require.NotNil(t, byCourse["c1"].Grade)
	assert.Equal(t, 82.0, *byCourse["c1"].Grade.Overall)
	assert.Equal(t, models.GradeBPlus, *byCourse["c1"].Grade.Letter)
	assert.Nil(t, byCourse["c2"].Grade)
}

func TestEnrollmentServiceGradeForIncomplete(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	_, err := newEnrollmentService(repo, nil).Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)
	svc := newEnrollmentService(repo, map[string]models.AssessmentBundle{})

	summary, err := svc.GradeFor(context.Background(), "stu1", "c1")
	require.NoError(t, err)
	assert.False(t, summary.Gradable)
	assert.Nil(t, summary.Overall)
}

func TestEnrollmentServiceGPA(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	_, err := newEnrollmentService(repo, nil).EnrollMany(context.Background(), "stu1", EnrollManyRequest{CourseIDs: []string{"c1", "c2", "c3"}})
	require.NoError(t, err)

	bundles := map[string]models.AssessmentBundle{
		// c1: 3 credits, overall 92 = A (4.0)
		repo.records[enrollKey("stu1", "c1")].ID: completeBundle(92, 92, 92, 92),
		// c2: 4 credits, overall 78 = B (3.0)
		repo.records[enrollKey("stu1", "c2")].ID: completeBundle(78, 78, 78, 78),
		// c3 has no final yet and stays out of the GPA
		repo.records[enrollKey("stu1", "c3")].ID: {
			Assignments: []models.AssessmentEntry{{Score: 100}},
			Tests:       []models.AssessmentEntry{{Score: 100}},
			Midterm:     &models.ExamResult{Score: 100},
		},
	}
	svc := newEnrollmentService(repo, bundles)

	result, err := svc.GPA(context.Background(), "stu1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.GradedCourses)
	assert.Equal(t, 7, result.TotalCredits)
	// (4.0*3 + 3.0*4) / 7
	assert.Equal(t, 3.43, result.GPA)
}

func TestEnrollmentServiceGPANoGradedCourses(t *testing.T) {
	repo := newFakeEnrollmentRepo(testCatalog())
	svc := newEnrollmentService(repo, nil)

	result, err := svc.GPA(context.Background(), "stu1")
	require.NoError(t, err)
	assert.Equal(t, 0.0, result.GPA)
	assert.Equal(t, 0, result.GradedCourses)
}
