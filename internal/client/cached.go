package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jonathan/skill-diagnostic/internal/types"
	"github.com/rs/zerolog"
)

// DefaultCacheTTL is how long cached search results stay valid.
const DefaultCacheTTL = 10 * time.Minute

// Cache stores JSON-encodable values by key.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
}

// CachedService memoises job searches for identical skill sets.
// Recommendation and extraction calls always go to the inner service.
type CachedService struct {
	inner Service
	cache Cache
	ttl   time.Duration
	log   zerolog.Logger
}

var _ Service = (*CachedService)(nil)

// NewCachedService wraps inner with cache. A non-positive ttl uses DefaultCacheTTL.
func NewCachedService(inner Service, cache Cache, ttl time.Duration, log zerolog.Logger) *CachedService {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedService{inner: inner, cache: cache, ttl: ttl, log: log}
}

// SearchJobs returns cached results when present, otherwise queries and stores.
// Cache failures never fail the search.
func (s *CachedService) SearchJobs(ctx context.Context, skills []string) ([]types.Job, error) {
	key := SearchCacheKey(skills)

	var cached []types.Job
	found, err := s.cache.GetJSON(ctx, key, &cached)
	if err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("search cache read failed")
	}
	if found {
		s.log.Debug().Str("key", key).Int("jobs", len(cached)).Msg("search cache hit")
		if cached == nil {
			cached = []types.Job{}
		}
		return cached, nil
	}

	jobs, err := s.inner.SearchJobs(ctx, skills)
	if err != nil {
		return nil, err
	}

	if err := s.cache.SetJSON(ctx, key, jobs, s.ttl); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("search cache write failed")
	}
	return jobs, nil
}

// JobDetails delegates to the inner service.
func (s *CachedService) JobDetails(ctx context.Context, jobIDs []types.JobID, skills []string) ([]types.JobDetailResult, error) {
	return s.inner.JobDetails(ctx, jobIDs, skills)
}

// ExtractSkills delegates to the inner service.
func (s *CachedService) ExtractSkills(ctx context.Context, filename string, resume io.Reader) (*types.SkillExtraction, error) {
	return s.inner.ExtractSkills(ctx, filename, resume)
}

// SearchCacheKey derives a key that is independent of skill order and case.
func SearchCacheKey(skills []string) string {
	norm := make([]string, 0, len(skills))
	for _, s := range skills {
		norm = append(norm, strings.ToLower(strings.TrimSpace(s)))
	}
	sort.Strings(norm)

	sum := sha256.Sum256([]byte(strings.Join(norm, "\x00")))
	return "skilldiag:jobs:" + hex.EncodeToString(sum[:16])
}
