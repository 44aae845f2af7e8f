package history

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

func record(id string) diagnosis.Record {
	return diagnosis.Record{
		ID:            id,
		InputSymptoms: []string{"tos"},
		Result:        diagnosis.NewResponse(nil),
		CreatedAt:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestSave_ListNewestFirst(t *testing.T) {
	repo, _ := newTestRepo(t, 10)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, record(id)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	recs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := ids(recs)
	if fmt.Sprint(got) != "[c b a]" {
		t.Errorf("List = %v, want [c b a]", got)
	}

	recs, _ = repo.List(ctx, 2)
	if fmt.Sprint(ids(recs)) != "[c b]" {
		t.Errorf("List(2) = %v, want [c b]", ids(recs))
	}
}

func TestSave_EvictsOverflow(t *testing.T) {
	repo, ms := newTestRepo(t, 2)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		if err := repo.Save(ctx, record(id)); err != nil {
			t.Fatalf("Save(%s): %v", id, err)
		}
	}

	if len(ms.lists[indexKey]) != 2 {
		t.Errorf("index len = %d, want 2", len(ms.lists[indexKey]))
	}
	if _, ok := ms.kv[recordKey("a")]; ok {
		t.Error("evicted record must be deleted")
	}
	if _, err := repo.Get(ctx, "a"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSave_Errors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(ms *mockStore)
	}{
		{"set", func(ms *mockStore) { ms.setFn = func(string) error { return errors.New("down") } }},
		{"lpush", func(ms *mockStore) { ms.lpushFn = func(string) error { return errors.New("down") } }},
		{"lrange", func(ms *mockStore) { ms.lrangeFn = func(string) error { return errors.New("down") } }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo, ms := newTestRepo(t, 5)
			tc.setup(ms)
			if err := repo.Save(context.Background(), record("a")); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestList_SkipsMissingRecords(t *testing.T) {
	repo, ms := newTestRepo(t, 10)
	ctx := context.Background()
	_ = repo.Save(ctx, record("a"))
	_ = repo.Save(ctx, record("b"))
	delete(ms.kv, recordKey("a"))

	recs, err := repo.List(ctx, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fmt.Sprint(ids(recs)) != "[b]" {
		t.Errorf("List = %v, want [b]", ids(recs))
	}
}

func TestList_Empty(t *testing.T) {
	repo, _ := newTestRepo(t, 10)
	for _, limit := range []int{0, 5} {
		recs, err := repo.List(context.Background(), limit)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if recs == nil || len(recs) != 0 {
			t.Errorf("List(%d) = %v, want empty non-nil", limit, recs)
		}
	}
}

func TestList_CorruptRecord(t *testing.T) {
	repo, ms := newTestRepo(t, 10)
	_ = repo.Save(context.Background(), record("a"))
	ms.kv[recordKey("a")] = []byte("{")

	if _, err := repo.List(context.Background(), 10); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestGet_RoundTrip(t *testing.T) {
	repo, _ := newTestRepo(t, 10)
	ctx := context.Background()
	want := record("a")
	want.UserID = "u1"
	_ = repo.Save(ctx, want)

	got, err := repo.Get(ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "a" || got.UserID != "u1" || !got.CreatedAt.Equal(want.CreatedAt) {
		t.Errorf("Get = %+v", got)
	}
	if got.Result.Disclaimer != diagnosis.Disclaimer {
		t.Errorf("disclaimer = %q", got.Result.Disclaimer)
	}
}

func TestDelete(t *testing.T) {
	repo, ms := newTestRepo(t, 10)
	ctx := context.Background()
	_ = repo.Save(ctx, record("a"))

	ok, err := repo.Delete(ctx, "a")
	if err != nil || !ok {
		t.Fatalf("Delete(a) = %v, %v", ok, err)
	}
	if len(ms.lists[indexKey]) != 0 {
		t.Error("id must be removed from the index")
	}
	if _, ok := ms.kv[recordKey("a")]; ok {
		t.Error("record must be deleted")
	}

	ok, err = repo.Delete(ctx, "a")
	if err != nil || ok {
		t.Errorf("second Delete = %v, %v; want false, nil", ok, err)
	}
}

func TestDelete_Error(t *testing.T) {
	repo, ms := newTestRepo(t, 10)
	ms.lremFn = func(string) error { return errors.New("down") }
	if _, err := repo.Delete(context.Background(), "a"); err == nil {
		t.Fatal("expected error")
	}
}

func TestNopRepo(t *testing.T) {
	var r NopRepo
	ctx := context.Background()
	if err := r.Save(ctx, record("a")); err != nil {
		t.Errorf("Save: %v", err)
	}
	recs, err := r.List(ctx, 10)
	if err != nil || recs == nil || len(recs) != 0 {
		t.Errorf("List = %v, %v", recs, err)
	}
	if _, err := r.Get(ctx, "a"); !errors.Is(err, domain.ErrRecordNotFound) {
		t.Errorf("Get err = %v", err)
	}
	if ok, err := r.Delete(ctx, "a"); ok || err != nil {
		t.Errorf("Delete = %v, %v", ok, err)
	}
}

func ids(recs []diagnosis.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}
