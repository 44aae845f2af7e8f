package history

import (
	"context"
	"testing"

	"github.com/kailas-cloud/symdx/internal/db"
)

// mockStore is an in-memory store with optional error hooks.
type mockStore struct {
	kv    map[string][]byte
	lists map[string][]string

	setFn    func(key string) error
	lpushFn  func(key string) error
	lrangeFn func(key string) error
	delFn    func(keys []string) error
	lremFn   func(key string) error

	delCalls [][]string
}

func newMockStore() *mockStore {
	return &mockStore{kv: map[string][]byte{}, lists: map[string][]string{}}
}

func (m *mockStore) Get(_ context.Context, key string) ([]byte, error) {
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockStore) GetMulti(_ context.Context, keys []string) ([][]byte, error) {
	out := make([][]byte, len(keys))
	for i, k := range keys {
		out[i] = m.kv[k]
	}
	return out, nil
}

func (m *mockStore) Set(_ context.Context, key string, value []byte) error {
	if m.setFn != nil {
		if err := m.setFn(key); err != nil {
			return err
		}
	}
	m.kv[key] = append([]byte(nil), value...)
	return nil
}

func (m *mockStore) Del(_ context.Context, keys ...string) error {
	m.delCalls = append(m.delCalls, keys)
	if m.delFn != nil {
		if err := m.delFn(keys); err != nil {
			return err
		}
	}
	for _, k := range keys {
		delete(m.kv, k)
	}
	return nil
}

func (m *mockStore) LPush(_ context.Context, key string, values ...string) error {
	if m.lpushFn != nil {
		if err := m.lpushFn(key); err != nil {
			return err
		}
	}
	for _, v := range values {
		m.lists[key] = append([]string{v}, m.lists[key]...)
	}
	return nil
}

func (m *mockStore) LRange(_ context.Context, key string, start, stop int64) ([]string, error) {
	if m.lrangeFn != nil {
		if err := m.lrangeFn(key); err != nil {
			return nil, err
		}
	}
	l := m.lists[key]
	from, to, ok := bounds(len(l), start, stop)
	if !ok {
		return []string{}, nil
	}
	return append([]string(nil), l[from:to+1]...), nil
}

func (m *mockStore) LTrim(_ context.Context, key string, start, stop int64) error {
	l := m.lists[key]
	from, to, ok := bounds(len(l), start, stop)
	if !ok {
		m.lists[key] = nil
		return nil
	}
	m.lists[key] = append([]string(nil), l[from:to+1]...)
	return nil
}

func (m *mockStore) LRem(_ context.Context, key string, _ int64, value string) (int64, error) {
	if m.lremFn != nil {
		if err := m.lremFn(key); err != nil {
			return 0, err
		}
	}
	var n int64
	kept := m.lists[key][:0]
	for _, v := range m.lists[key] {
		if v == value {
			n++
			continue
		}
		kept = append(kept, v)
	}
	m.lists[key] = kept
	return n, nil
}

// bounds resolves Redis-style inclusive list indexes.
func bounds(n int, start, stop int64) (int, int, bool) {
	if start < 0 {
		start += int64(n)
	}
	if stop < 0 {
		stop += int64(n)
	}
	if start < 0 {
		start = 0
	}
	if stop >= int64(n) {
		stop = int64(n) - 1
	}
	if start > stop || n == 0 {
		return 0, 0, false
	}
	return int(start), int(stop), true
}

func newTestRepo(t *testing.T, maxRecords int) (*Repo, *mockStore) {
	t.Helper()
	ms := newMockStore()
	return New(ms, maxRecords), ms
}
