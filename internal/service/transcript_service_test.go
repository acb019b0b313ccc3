package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

func TestTranscriptServiceMasksUnpublishedGrades(t *testing.T) {
	enrollments := newFakeEnrollmentRepo(testCatalog())
	_, err := newEnrollmentService(enrollments, nil).Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)
	id := enrollments.records[enrollKey("stu1", "c1")].ID

	bundles := &fakeBundleReader{bundles: map[string]models.AssessmentBundle{
		id: completeBundle(90, 80, 70, 85),
	}}
	publications := &fakePublications{}
	svc := NewTranscriptService(enrollments, bundles, publications, zap.NewNop())

	table, err := svc.Table(context.Background(), "stu1", "Dana Whitfield")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "pending", table.Rows[0][4])
	assert.Equal(t, "pending", table.Rows[0][5])

	publications.info.ResultsPublished = true

	table, err = svc.Table(context.Background(), "stu1", "Dana Whitfield")
	require.NoError(t, err)
	assert.Equal(t, "B+", table.Rows[0][4])
	assert.Equal(t, "82.00", table.Rows[0][5])
}

func TestTranscriptServiceIncompleteCourseStaysPending(t *testing.T) {
	enrollments := newFakeEnrollmentRepo(testCatalog())
	_, err := newEnrollmentService(enrollments, nil).Enroll(context.Background(), "stu1", EnrollRequest{CourseID: "c1"})
	require.NoError(t, err)

	publications := &fakePublications{info: models.PublicationInfo{ResultsPublished: true}}
	svc := NewTranscriptService(enrollments, &fakeBundleReader{}, publications, zap.NewNop())

	table, err := svc.Table(context.Background(), "stu1", "Dana Whitfield")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "MATH101", table.Rows[0][0])
	assert.Equal(t, "pending", table.Rows[0][4])
}
