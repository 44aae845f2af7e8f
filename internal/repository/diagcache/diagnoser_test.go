package diagcache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/db"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

func gripe() diagnosis.Analysis {
	return diagnosis.Analysis{
		Matched:   []string{"fiebre"},
		Diagnoses: []diagnosis.Diagnosis{diagnosis.New("Gripe", 0.25, "Reposo.")},
	}
}

func TestDiagnose_CacheMiss(t *testing.T) {
	inner := &mockDiagnoser{result: gripe()}
	cd, ms := newTestCachedDiagnoser(t, inner)

	var (
		setKey string
		setTTL time.Duration
		setVal []byte
	)
	ms.setFn = func(_ context.Context, key string, value []byte, ttl time.Duration) error {
		setKey, setVal, setTTL = key, value, ttl
		return nil
	}

	a, err := cd.Diagnose(context.Background(), []string{"fiebre"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(a.Diagnoses) != 1 || a.Diagnoses[0].Condition() != "Gripe" {
		t.Fatalf("unexpected result: %+v", a)
	}
	if inner.calls != 1 {
		t.Errorf("expected 1 inner call, got %d", inner.calls)
	}
	if !strings.HasPrefix(setKey, cacheKeyPrefix) {
		t.Errorf("cache key %q lacks prefix", setKey)
	}
	if setTTL != time.Minute {
		t.Errorf("ttl = %v, want 1m", setTTL)
	}
	var cached diagnosis.Analysis
	if err := json.Unmarshal(setVal, &cached); err != nil || len(cached.Diagnoses) != 1 || len(cached.Matched) != 1 {
		t.Errorf("cached value %s: %v", setVal, err)
	}
}

func TestDiagnose_CacheHit(t *testing.T) {
	inner := &mockDiagnoser{result: gripe()}
	cd, ms := newTestCachedDiagnoser(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`{"matched":["dolor de cabeza","fotofobia"],` +
			`"diagnoses":[{"condition":"Migraña","confidence":0.85,"recommendation":"x"}]}`), nil
	}

	a, err := cd.Diagnose(context.Background(), []string{"jaqueca"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds := a.Diagnoses
	if len(ds) != 1 || ds[0].Condition() != "Migraña" || ds[0].Confidence() != 0.85 {
		t.Fatalf("expected cached result, got %+v", ds)
	}
	if len(a.Matched) != 2 {
		t.Errorf("matched symptoms must survive the cache, got %v", a.Matched)
	}
	if inner.calls != 0 {
		t.Errorf("expected 0 inner calls on hit, got %d", inner.calls)
	}
}

func TestDiagnose_CachedEmptyStaysEmpty(t *testing.T) {
	inner := &mockDiagnoser{}
	cd, ms := newTestCachedDiagnoser(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte(`{"matched":[],"diagnoses":[]}`), nil
	}

	a, err := cd.Diagnose(context.Background(), []string{""})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.Diagnoses == nil || len(a.Diagnoses) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", a.Diagnoses)
	}
}

func TestDiagnose_StoreFailuresDegrade(t *testing.T) {
	inner := &mockDiagnoser{result: gripe()}
	cd, ms := newTestCachedDiagnoser(t, inner)

	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return nil, errors.New("connection refused")
	}
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		return errors.New("connection refused")
	}

	a, err := cd.Diagnose(context.Background(), []string{"fiebre"})
	if err != nil {
		t.Fatalf("store failures must not surface: %v", err)
	}
	if len(a.Diagnoses) != 1 || inner.calls != 1 {
		t.Errorf("expected recomputed result, got %+v (calls=%d)", a, inner.calls)
	}
}

func TestDiagnose_CorruptEntryRecomputes(t *testing.T) {
	inner := &mockDiagnoser{result: gripe()}
	cd, ms := newTestCachedDiagnoser(t, inner)
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) {
		return []byte("{oops"), nil
	}

	if _, err := cd.Diagnose(context.Background(), []string{"fiebre"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("expected recompute, got %d calls", inner.calls)
	}
}

func TestDiagnose_InnerError(t *testing.T) {
	inner := &mockDiagnoser{err: context.Canceled}
	cd, ms := newTestCachedDiagnoser(t, inner)
	var setCalled bool
	ms.setFn = func(_ context.Context, _ string, _ []byte, _ time.Duration) error {
		setCalled = true
		return nil
	}

	_, err := cd.Diagnose(context.Background(), []string{"fiebre"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected wrapped inner error, got %v", err)
	}
	if setCalled {
		t.Error("failed results must not be cached")
	}
}

func TestCacheKey(t *testing.T) {
	cd, _ := newTestCachedDiagnoser(t, &mockDiagnoser{})
	other := New(&mockDiagnoser{}, &mockKVStore{}, 0, "other", nil, nil)

	k1, _ := cd.cacheKey([]string{"a", "b"})
	k2, _ := cd.cacheKey([]string{"a", "b"})
	k3, _ := cd.cacheKey([]string{"b", "a"})
	k4, _ := cd.cacheKey([]string{"a b"})
	k5, _ := other.cacheKey([]string{"a", "b"})
	kNil, _ := cd.cacheKey(nil)
	kEmpty, _ := cd.cacheKey([]string{})

	if k1 != k2 {
		t.Error("same input must share a key")
	}
	if k1 == k3 || k1 == k4 {
		t.Error("order and element boundaries must change the key")
	}
	if k1 == k5 {
		t.Error("scope must change the key")
	}
	if kNil != kEmpty {
		t.Error("nil and empty lists must share a key")
	}
	if other.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want default", other.ttl)
	}
}

func TestDiagnose_CountsHitsAndMisses(t *testing.T) {
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	ms := &mockKVStore{}
	cd := New(&mockDiagnoser{result: gripe()}, ms, time.Minute, "", counter, zap.NewNop())

	_, _ = cd.Diagnose(context.Background(), []string{"tos"})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return []byte(`{}`), nil }
	_, _ = cd.Diagnose(context.Background(), []string{"tos"})
	ms.getFn = func(_ context.Context, _ string) ([]byte, error) { return nil, db.ErrKeyNotFound }
	_, _ = cd.Diagnose(context.Background(), []string{"tos"})

	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 2 {
		t.Errorf("misses = %v, want 2", got)
	}
}
