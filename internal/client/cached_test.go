package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/jonathan/skill-diagnostic/internal/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
	getErr  error
	setErr  error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string][]byte)}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, out any) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return false, m.getErr
	}
	b, ok := m.entries[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(b, out)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	b, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.entries[key] = b
	return nil
}

type countingService struct {
	searches int
	details  int
	extracts int
	jobs     []types.Job
	err      error
}

func (s *countingService) SearchJobs(context.Context, []string) ([]types.Job, error) {
	s.searches++
	return s.jobs, s.err
}

func (s *countingService) JobDetails(context.Context, []types.JobID, []string) ([]types.JobDetailResult, error) {
	s.details++
	return []types.JobDetailResult{}, nil
}

func (s *countingService) ExtractSkills(context.Context, string, io.Reader) (*types.SkillExtraction, error) {
	s.extracts++
	return &types.SkillExtraction{}, nil
}

func TestCachedService_SecondSearchHitsCache(t *testing.T) {
	inner := &countingService{jobs: []types.Job{{ID: "1", Title: "Dev"}}}
	svc := NewCachedService(inner, newMemoryCache(), 0, zerolog.Nop())

	first, err := svc.SearchJobs(context.Background(), []string{"Go", "SQL"})
	require.NoError(t, err)

	second, err := svc.SearchJobs(context.Background(), []string{"sql", "go"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.searches)
	assert.Equal(t, first, second)
}

func TestCachedService_EmptyResultCached(t *testing.T) {
	inner := &countingService{jobs: []types.Job{}}
	svc := NewCachedService(inner, newMemoryCache(), time.Minute, zerolog.Nop())

	_, err := svc.SearchJobs(context.Background(), []string{"cobol"})
	require.NoError(t, err)
	jobs, err := svc.SearchJobs(context.Background(), []string{"cobol"})
	require.NoError(t, err)

	assert.Equal(t, 1, inner.searches)
	assert.NotNil(t, jobs)
	assert.Empty(t, jobs)
}

func TestCachedService_ErrorsAreNotCached(t *testing.T) {
	inner := &countingService{err: &RemoteError{Op: OpSearch, Message: "down"}}
	svc := NewCachedService(inner, newMemoryCache(), time.Minute, zerolog.Nop())

	_, err := svc.SearchJobs(context.Background(), []string{"go"})
	require.Error(t, err)
	_, err = svc.SearchJobs(context.Background(), []string{"go"})
	require.Error(t, err)

	assert.Equal(t, 2, inner.searches)
}

func TestCachedService_CacheFailuresFallThrough(t *testing.T) {
	cache := newMemoryCache()
	cache.getErr = errors.New("read refused")
	cache.setErr = errors.New("write refused")

	inner := &countingService{jobs: []types.Job{{ID: "1"}}}
	svc := NewCachedService(inner, cache, time.Minute, zerolog.Nop())

	jobs, err := svc.SearchJobs(context.Background(), []string{"go"})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)
}

func TestCachedService_DelegatesOtherCalls(t *testing.T) {
	inner := &countingService{}
	svc := NewCachedService(inner, newMemoryCache(), time.Minute, zerolog.Nop())

	_, err := svc.JobDetails(context.Background(), []types.JobID{"1"}, nil)
	require.NoError(t, err)
	_, err = svc.JobDetails(context.Background(), []types.JobID{"1"}, nil)
	require.NoError(t, err)
	_, err = svc.ExtractSkills(context.Background(), "cv.pdf", nil)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.details)
	assert.Equal(t, 1, inner.extracts)
}

func TestSearchCacheKey_OrderAndCaseInsensitive(t *testing.T) {
	a := SearchCacheKey([]string{"Go", " SQL"})
	b := SearchCacheKey([]string{"sql", "go"})
	c := SearchCacheKey([]string{"go"})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Contains(t, a, "skilldiag:jobs:")
}

func TestRedisCache_UnavailableBypasses(t *testing.T) {
	cache := &RedisCache{log: zerolog.Nop()}
	assert.False(t, cache.Available())

	var out []types.Job
	found, err := cache.GetJSON(context.Background(), "k", &out)
	assert.NoError(t, err)
	assert.False(t, found)

	assert.NoError(t, cache.SetJSON(context.Background(), "k", []int{1}, time.Minute))
	assert.NoError(t, cache.Close())
}
