package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/grading"
	"github.com/noah-isme/campus-portal-api/internal/models"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
	"github.com/noah-isme/campus-portal-api/pkg/export"
)

type transcriptEnrollments interface {
	ListByStudent(ctx context.Context, studentID string) ([]models.EnrollmentDetail, error)
}

type transcriptAssessments interface {
	FetchBundles(ctx context.Context, enrollmentIDs []string) (map[string]models.AssessmentBundle, error)
}

// TranscriptService builds the downloadable transcript. Grades appear only
// for courses whose results a reviewer has published; everything else shows
// as pending, regardless of whether the grade exists underneath.
type TranscriptService struct {
	enrollments  transcriptEnrollments
	assessments  transcriptAssessments
	publications publicationReader
	logger       *zap.Logger
}

// NewTranscriptService constructs TranscriptService.
func NewTranscriptService(enrollments transcriptEnrollments, assessments transcriptAssessments, publications publicationReader, logger *zap.Logger) *TranscriptService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TranscriptService{enrollments: enrollments, assessments: assessments, publications: publications, logger: logger}
}

// Table assembles the transcript rows for a student.
func (s *TranscriptService) Table(ctx context.Context, studentID, studentName string) (export.Table, error) {
	details, err := s.enrollments.ListByStudent(ctx, studentID)
	if err != nil {
		return export.Table{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list enrollments")
	}
	ids := make([]string, len(details))
	for i, detail := range details {
		ids[i] = detail.ID
	}
	bundles, err := s.assessments.FetchBundles(ctx, ids)
	if err != nil {
		return export.Table{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load assessments")
	}

	table := export.Table{
		Title:   fmt.Sprintf("Academic Transcript - %s", studentName),
		Headers: []string{"Code", "Course", "Credits", "Progress", "Grade", "Score"},
	}
	for _, detail := range details {
		gradeCell, scoreCell := "pending", "pending"
		info, err := s.publications.InfoFor(ctx, detail.CourseID)
		if err != nil {
			return export.Table{}, err
		}
		if info.ResultsPublished {
			if overall, ok := grading.Overall(bundles[detail.ID]); ok {
				gradeCell = string(grading.Letter(overall))
				scoreCell = strconv.FormatFloat(overall, 'f', 2, 64)
			}
		}
		table.Rows = append(table.Rows, []string{
			detail.CourseCode,
			detail.CourseName,
			strconv.Itoa(detail.Credits),
			fmt.Sprintf("%d%%", detail.Progress),
			gradeCell,
			scoreCell,
		})
	}
	return table, nil
}
