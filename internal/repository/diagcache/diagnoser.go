// Package diagcache caches diagnosis results in a key-value store.
package diagcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/db"
	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

var cacheKeyPrefix = domain.KeyPrefix + "diag_cache:"

// DefaultTTL applies when no positive TTL is configured.
const DefaultTTL = time.Hour

// store is the consumer interface for the diagnosis cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedDiagnoser decorates a domain.Diagnoser with a read-through cache.
type CachedDiagnoser struct {
	inner      domain.Diagnoser
	store      store
	ttl        time.Duration
	scope      string
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

var _ domain.Diagnoser = (*CachedDiagnoser)(nil)

// New creates a caching decorator.
// scope separates entries computed under different knowledge bases or matcher settings.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), may be nil.
func New(
	inner domain.Diagnoser,
	s store,
	ttl time.Duration,
	scope string,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedDiagnoser {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedDiagnoser{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		scope:      scope,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// Diagnose returns a cached result or calls the inner diagnoser.
// Cache failures are logged and fall through to recomputation.
func (c *CachedDiagnoser) Diagnose(ctx context.Context, symptoms []string) (diagnosis.Analysis, error) {
	key, err := c.cacheKey(symptoms)
	if err != nil {
		return c.inner.Diagnose(ctx, symptoms)
	}

	if a, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return a, nil
	}
	c.incCache("miss")

	a, err := c.inner.Diagnose(ctx, symptoms)
	if err != nil {
		return diagnosis.Analysis{}, fmt.Errorf("diagnose: %w", err)
	}

	c.putToCache(ctx, key, a)
	return a, nil
}

func (c *CachedDiagnoser) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey hashes the raw symptom list. nil and empty lists share a key.
func (c *CachedDiagnoser) cacheKey(symptoms []string) (string, error) {
	if symptoms == nil {
		symptoms = []string{}
	}
	data, err := json.Marshal(symptoms)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(c.scope))
	h.Write([]byte{0})
	h.Write(data)
	return cacheKeyPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

func (c *CachedDiagnoser) getFromCache(ctx context.Context, key string) (diagnosis.Analysis, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached diagnosis", zap.String("key", key), zap.Error(err))
		}
		return diagnosis.Analysis{}, false
	}
	if len(data) == 0 {
		return diagnosis.Analysis{}, false
	}

	var a diagnosis.Analysis
	if err := json.Unmarshal(data, &a); err != nil {
		c.logger.Warn("Failed to parse cached diagnosis", zap.String("key", key), zap.Error(err))
		return diagnosis.Analysis{}, false
	}
	if a.Matched == nil {
		a.Matched = []string{}
	}
	if a.Diagnoses == nil {
		a.Diagnoses = []diagnosis.Diagnosis{}
	}
	return a, true
}

func (c *CachedDiagnoser) putToCache(ctx context.Context, key string, a diagnosis.Analysis) {
	data, err := json.Marshal(a)
	if err != nil {
		c.logger.Warn("Failed to encode diagnosis for cache", zap.Error(err))
		return
	}
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache diagnosis", zap.String("key", key), zap.Error(err))
	}
}
