package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/models"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
)

type publicationRepo interface {
	FindExamPublication(ctx context.Context, courseID string) (*models.ExamPublication, error)
	FindResultPublication(ctx context.Context, courseID string) (*models.ResultPublication, error)
	SetExamPublished(ctx context.Context, courseID string, kind models.ExamKind, published bool, actorID *string, at *time.Time) error
	SetResultsPublished(ctx context.Context, courseID string, published bool, actorID *string, at *time.Time) error
}

type publicationCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// PublishRequest identifies one visibility switch.
type PublishRequest struct {
	Kind     models.PublicationKind `json:"kind" validate:"required"`
	CourseID string                 `json:"course_id" validate:"required"`
}

// BatchPublishRequest applies one switch across many courses.
type BatchPublishRequest struct {
	Kind      models.PublicationKind `json:"kind" validate:"required"`
	CourseIDs []string               `json:"course_ids" validate:"required,min=1,dive,required"`
}

// PublicationService is the reviewer-controlled visibility switch, keyed by
// course-catalog id and shared by every student of that course. Publishing
// never checks eligibility: a reviewer may publish an exam with zero
// enrolled students.
type PublicationService struct {
	repo      publicationRepo
	cache     publicationCache
	metrics   *MetricsService
	cacheTTL  time.Duration
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPublicationService constructs PublicationService. cache and metrics may
// be nil.
func NewPublicationService(repo publicationRepo, cache publicationCache, metrics *MetricsService, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *PublicationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PublicationService{repo: repo, cache: cache, metrics: metrics, cacheTTL: cacheTTL, validator: validate, logger: logger}
}

// Publish sets a visibility flag, stamping the acting reviewer and time.
func (s *PublicationService) Publish(ctx context.Context, req PublishRequest, actorID string) (*models.PublicationInfo, error) {
	if err := s.validate(req.Kind, req.CourseID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	if err := s.set(ctx, req.Kind, req.CourseID, true, &actorID, &now); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.CourseID)
	s.logger.Info("publication set",
		zap.String("kind", string(req.Kind)),
		zap.String("course_id", req.CourseID),
		zap.String("actor_id", actorID),
	)
	return s.InfoFor(ctx, req.CourseID)
}

// Unpublish clears a visibility flag along with its actor and timestamp.
func (s *PublicationService) Unpublish(ctx context.Context, req PublishRequest) (*models.PublicationInfo, error) {
	if err := s.validate(req.Kind, req.CourseID); err != nil {
		return nil, err
	}
	if err := s.set(ctx, req.Kind, req.CourseID, false, nil, nil); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.CourseID)
	return s.InfoFor(ctx, req.CourseID)
}

// BatchPublish applies the single-course publish to each id. A failure on
// one course does not block the others.
func (s *PublicationService) BatchPublish(ctx context.Context, req BatchPublishRequest, actorID string) (*models.BatchPublishResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid batch publish payload")
	}
	if !req.Kind.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown publication kind %q", req.Kind))
	}
	result := &models.BatchPublishResult{}
	now := time.Now().UTC()
	for _, courseID := range req.CourseIDs {
		if err := s.set(ctx, req.Kind, courseID, true, &actorID, &now); err != nil {
			result.Failures = append(result.Failures, models.BatchPublishFailure{CourseID: courseID, Reason: err.Error()})
			continue
		}
		s.invalidate(ctx, courseID)
		result.SuccessCount++
	}
	return result, nil
}

// InfoFor returns the combined publication state with safe defaults for
// courses never touched by a reviewer.
func (s *PublicationService) InfoFor(ctx context.Context, courseID string) (*models.PublicationInfo, error) {
	cacheKey := publicationCacheKey(courseID)
	if s.cache != nil {
		var cached models.PublicationInfo
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			if s.metrics != nil {
				s.metrics.ObserveCacheLookup(true)
			}
			return &cached, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("publication cache read failed", zap.String("course_id", courseID), zap.Error(err))
		}
		if s.metrics != nil {
			s.metrics.ObserveCacheLookup(false)
		}
	}

	info := &models.PublicationInfo{CourseID: courseID}
	start := time.Now()
	examPub, err := s.repo.FindExamPublication(ctx, courseID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load exam publication")
	}
	if examPub != nil {
		info.MidtermPublished = examPub.MidtermPublished
		info.MidtermPublishedBy = examPub.MidtermPublishedBy
		info.MidtermPublishedAt = examPub.MidtermPublishedAt
		info.FinalPublished = examPub.FinalPublished
		info.FinalPublishedBy = examPub.FinalPublishedBy
		info.FinalPublishedAt = examPub.FinalPublishedAt
	}
	resultPub, err := s.repo.FindResultPublication(ctx, courseID)
	if err != nil && err != sql.ErrNoRows {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load result publication")
	}
	if resultPub != nil {
		info.ResultsPublished = resultPub.Published
		info.ResultsPublishedBy = resultPub.PublishedBy
		info.ResultsPublishedAt = resultPub.PublishedAt
	}
	if s.metrics != nil {
		s.metrics.ObserveDBQuery("publication_info", time.Since(start))
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, info, s.cacheTTL); err != nil {
			s.logger.Warn("publication cache write failed", zap.String("course_id", courseID), zap.Error(err))
		}
	}
	return info, nil
}

// IsMidtermPublished reports midterm visibility for a course.
func (s *PublicationService) IsMidtermPublished(ctx context.Context, courseID string) (bool, error) {
	info, err := s.InfoFor(ctx, courseID)
	if err != nil {
		return false, err
	}
	return info.MidtermPublished, nil
}

// IsFinalPublished reports final-exam visibility for a course.
func (s *PublicationService) IsFinalPublished(ctx context.Context, courseID string) (bool, error) {
	info, err := s.InfoFor(ctx, courseID)
	if err != nil {
		return false, err
	}
	return info.FinalPublished, nil
}

// AreResultsPublished reports grade visibility for a course.
func (s *PublicationService) AreResultsPublished(ctx context.Context, courseID string) (bool, error) {
	info, err := s.InfoFor(ctx, courseID)
	if err != nil {
		return false, err
	}
	return info.ResultsPublished, nil
}

func (s *PublicationService) set(ctx context.Context, kind models.PublicationKind, courseID string, published bool, actorID *string, at *time.Time) error {
	var err error
	switch kind {
	case models.PublicationKindMidterm:
		err = s.repo.SetExamPublished(ctx, courseID, models.ExamKindMidterm, published, actorID, at)
	case models.PublicationKindFinal:
		err = s.repo.SetExamPublished(ctx, courseID, models.ExamKindFinal, published, actorID, at)
	case models.PublicationKindResults:
		err = s.repo.SetResultsPublished(ctx, courseID, published, actorID, at)
	default:
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown publication kind %q", kind))
	}
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store publication")
	}
	return nil
}

func (s *PublicationService) validate(kind models.PublicationKind, courseID string) error {
	if courseID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id required")
	}
	if !kind.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown publication kind %q", kind))
	}
	return nil
}

func (s *PublicationService) invalidate(ctx context.Context, courseID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, publicationCacheKey(courseID)); err != nil {
		s.logger.Warn("publication cache invalidation failed", zap.String("course_id", courseID), zap.Error(err))
	}
}

func publicationCacheKey(courseID string) string {
	return "publications:" + courseID
}
