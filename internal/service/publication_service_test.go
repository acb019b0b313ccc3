package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-portal-api/internal/models"
	appErrors "github.com/noah-isme/campus-portal-api/pkg/errors"
)

type fakePublicationRepo struct {
	examPubs   map[string]*models.ExamPublication
	resultPubs map[string]*models.ResultPublication
	failFor    map[string]error
	findCalls  int
}

func newFakePublicationRepo() *fakePublicationRepo {
	return &fakePublicationRepo{
		examPubs:   make(map[string]*models.ExamPublication),
		resultPubs: make(map[string]*models.ResultPublication),
		failFor:    make(map[string]error),
	}
}

func (f *fakePublicationRepo) FindExamPublication(ctx context.Context, courseID string) (*models.ExamPublication, error) {
	f.findCalls++
	if p, ok := f.examPubs[courseID]; ok {
		pub := *p
		return &pub, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakePublicationRepo) FindResultPublication(ctx context.Context, courseID string) (*models.ResultPublication, error) {
	f.findCalls++
	if p, ok := f.resultPubs[courseID]; ok {
		pub := *p
		return &pub, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakePublicationRepo) SetExamPublished(ctx context.Context, courseID string, kind models.ExamKind, published bool, actorID *string, at *time.Time) error {
	if err := f.failFor[courseID]; err != nil {
		return err
	}
	p, ok := f.examPubs[courseID]
	if !ok {
		p = &models.ExamPublication{CourseID: courseID}
		f.examPubs[courseID] = p
	}
	if kind == models.ExamKindMidterm {
		p.MidtermPublished = published
		p.MidtermPublishedBy = actorID
		p.MidtermPublishedAt = at
	} else {
		p.FinalPublished = published
		p.FinalPublishedBy = actorID
		p.FinalPublishedAt = at
	}
	return nil
}

func (f *fakePublicationRepo) SetResultsPublished(ctx context.Context, courseID string, published bool, actorID *string, at *time.Time) error {
	if err := f.failFor[courseID]; err != nil {
		return err
	}
	f.resultPubs[courseID] = &models.ResultPublication{CourseID: courseID, Published: published, PublishedBy: actorID, PublishedAt: at}
	return nil
}

type fakeCache struct {
	store   map[string][]byte
	deletes []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{store: make(map[string][]byte)}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest interface{}) error {
	raw, ok := f.store[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.store[key] = raw
	return nil
}

func (f *fakeCache) Delete(ctx context.Context, key string) error {
	delete(f.store, key)
	f.deletes = append(f.deletes, key)
	return nil
}

func newPublicationService(repo *fakePublicationRepo, cache publicationCache) *PublicationService {
	return NewPublicationService(repo, cache, nil, time.Minute, validator.New(), zap.NewNop())
}

func TestPublicationServiceDefaults(t *testing.T) {
	svc := newPublicationService(newFakePublicationRepo(), nil)

	info, err := svc.InfoFor(context.Background(), "c9")
	require.NoError(t, err)
	assert.Equal(t, "c9", info.CourseID)
	assert.False(t, info.MidtermPublished)
	assert.False(t, info.FinalPublished)
	assert.False(t, info.ResultsPublished)
	assert.Nil(t, info.MidtermPublishedBy)
}

func TestPublicationServicePublishStamps(t *testing.T) {
	repo := newFakePublicationRepo()
	svc := newPublicationService(repo, nil)

	info, err := svc.Publish(context.Background(), PublishRequest{Kind: models.PublicationKindMidterm, CourseID: "c1"}, "rev1")
	require.NoError(t, err)
	assert.True(t, info.MidtermPublished)
	require.NotNil(t, info.MidtermPublishedBy)
	assert.Equal(t, "rev1", *info.MidtermPublishedBy)
	assert.NotNil(t, info.MidtermPublishedAt)
	assert.False(t, info.FinalPublished)
}

func TestPublicationServiceUnpublishClears(t *testing.T) {
	repo := newFakePublicationRepo()
	svc := newPublicationService(repo, nil)

	_, err := svc.Publish(context.Background(), PublishRequest{Kind: models.PublicationKindFinal, CourseID: "c1"}, "rev1")
	require.NoError(t, err)

	info, err := svc.Unpublish(context.Background(), PublishRequest{Kind: models.PublicationKindFinal, CourseID: "c1"})
	require.NoError(t, err)
	assert.False(t, info.FinalPublished)
	assert.Nil(t, info.FinalPublishedBy)
	assert.Nil(t, info.FinalPublishedAt)
}

func TestPublicationServiceResults(t *testing.T) {
	repo := newFakePublicationRepo()
	svc := newPublicationService(repo, nil)

	_, err := svc.Publish(context.Background(), PublishRequest{Kind: models.PublicationKindResults, CourseID: "c1"}, "rev1")
	require.NoError(t, err)

	published, err := svc.AreResultsPublished(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, published)

	published, err = svc.AreResultsPublished(context.Background(), "c2")
	require.NoError(t, err)
	assert.False(t, published)
}

func TestPublicationServiceRejectsUnknownKind(t *testing.T) {
	svc := newPublicationService(newFakePublicationRepo(), nil)

	_, err := svc.Publish(context.Background(), PublishRequest{Kind: "weekly", CourseID: "c1"}, "rev1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestPublicationServiceBatchPartialFailure(t *testing.T) {
	repo := newFakePublicationRepo()
	repo.failFor["bad"] = assert.AnError
	svc := newPublicationService(repo, nil)

	result, err := svc.BatchPublish(context.Background(), BatchPublishRequest{
		Kind:      models.PublicationKindMidterm,
		CourseIDs: []string{"c1", "bad", "c2"},
	}, "rev1")
	require.NoError(t, err)
	assert.Equal(t, 2, result.SuccessCount)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "bad", result.Failures[0].CourseID)

	info, err := svc.InfoFor(context.Background(), "c2")
	require.NoError(t, err)
	assert.True(t, info.MidtermPublished)
}

func TestPublicationServiceInfoCached(t *testing.T) {
	repo := newFakePublicationRepo()
	cache := newFakeCache()
	svc := newPublicationService(repo, cache)

	_, err := svc.InfoFor(context.Background(), "c1")
	require.NoError(t, err)
	calls := repo.findCalls

	_, err = svc.InfoFor(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, calls, repo.findCalls)
}

func TestPublicationServicePublishInvalidatesCache(t *testing.T) {
	repo := newFakePublicationRepo()
	cache := newFakeCache()
	svc := newPublicationService(repo, cache)

	info, err := svc.InfoFor(context.Background(), "c1")
	require.NoError(t, err)
	assert.False(t, info.MidtermPublished)

	_, err = svc.Publish(context.Background(), PublishRequest{Kind: models.PublicationKindMidterm, CourseID: "c1"}, "rev1")
	require.NoError(t, err)
	assert.Contains(t, cache.deletes, "publications:c1")

	info, err = svc.InfoFor(context.Background(), "c1")
	require.NoError(t, err)
	assert.True(t, info.MidtermPublished)
}
