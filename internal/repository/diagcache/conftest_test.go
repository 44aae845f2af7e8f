package diagcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/db"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

type mockDiagnoser struct {
	result diagnosis.Analysis
	err    error
	calls  int
}

func (m *mockDiagnoser) Diagnose(_ context.Context, _ []string) (diagnosis.Analysis, error) {
	m.calls++
	return m.result, m.err
}

// mockKVStore implements the consumer interface for tests.
type mockKVStore struct {
	getFn func(ctx context.Context, key string) ([]byte, error)
	setFn func(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	return nil, db.ErrKeyNotFound
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value, ttl)
	}
	return nil
}

func newTestCachedDiagnoser(t *testing.T, inner *mockDiagnoser) (*CachedDiagnoser, *mockKVStore) {
	t.Helper()
	ms := &mockKVStore{}
	cd := New(inner, ms, time.Minute, "test", nil, zap.NewNop())
	return cd, ms
}
