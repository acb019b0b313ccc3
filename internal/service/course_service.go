package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/models"
)

type courseLister interface {
	FindByID(ctx context.Context, id string) (*models.Course, error)
	List(ctx context.Context, search string) ([]models.Course, error)
}

// CourseService exposes the read-only course catalog.
type CourseService struct {
	repo   courseLister
	logger *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(repo courseLister, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{repo: repo, logger: logger}
}

// List returns catalog courses, optionally filtered by a search term matched
// against code and name.
func (s *CourseService) List(ctx context.Context, search string) ([]models.Course, error) {
	return s.repo.List(ctx, search)
}

// Get returns a single catalog course.
func (s *CourseService) Get(ctx context.Context, id string) (*models.Course, error) {
	return s.repo.FindByID(ctx, id)
}
