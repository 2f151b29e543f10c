package ai

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/IBE160/SG-Gruppe-12-sub002/internal/domain"
)

const cacheKeyPrefix = "ai_insights:"

// CachedAnalyzer memoizes insights in Redis. Cache failures are logged and
// fall through to the wrapped analyzer.
type CachedAnalyzer struct {
	next      domain.Analyzer
	client    *redis.Client
	ttl       time.Duration
	namespace string
}

// NewCachedAnalyzer wraps next. namespace separates entries of different
// providers and models.
func NewCachedAnalyzer(next domain.Analyzer, client *redis.Client, ttl time.Duration, namespace string) *CachedAnalyzer {
	return &CachedAnalyzer{next: next, client: client, ttl: ttl, namespace: namespace}
}

func (c *CachedAnalyzer) Analyze(ctx context.Context, cv *domain.CvDocument, job *domain.JobPosting, result *domain.MatchResult) (*domain.Insights, error) {
	key, err := c.key(cv, job, result)
	if err != nil {
		return nil, err
	}

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		var insights domain.Insights
		if jsonErr := json.Unmarshal([]byte(cached), &insights); jsonErr == nil {
			log.Debug().Str("key", key).Msg("ai insights cache hit")
			return &insights, nil
		}
		log.Warn().Str("key", key).Msg("discarding corrupt ai insights cache entry")
	case !errors.Is(err, redis.Nil):
		log.Warn().Err(err).Msg("ai insights cache lookup failed")
	}

	insights, err := c.next.Analyze(ctx, cv, job, result)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(insights)
	if err != nil {
		return nil, fmt.Errorf("marshal insights: %w", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("ai insights cache store failed")
	}
	return insights, nil
}

// key hashes every input the prompt is built from.
func (c *CachedAnalyzer) key(cv *domain.CvDocument, job *domain.JobPosting, result *domain.MatchResult) (string, error) {
	payload, err := json.Marshal(struct {
		Namespace string                 `json:"ns"`
		CV        *domain.CvDocument     `json:"cv"`
		Title     string                 `json:"title"`
		Company   string                 `json:"company"`
		Desc      string                 `json:"description"`
		Req       domain.JobRequirements `json:"requirements"`
		Result    *domain.MatchResult    `json:"result"`
	}{c.namespace, cv, job.Title, job.Company, job.Description, job.Requirements, result})
	if err != nil {
		return "", fmt.Errorf("marshal cache key: %w", err)
	}
	sum := sha256.Sum256(payload)
	return cacheKeyPrefix + hex.EncodeToString(sum[:]), nil
}
