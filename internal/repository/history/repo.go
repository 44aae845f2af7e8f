// Package history stores diagnosis records in a Redis-compatible store: one JSON string
// per record plus a newest-first id list capped at maxRecords.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kailas-cloud/symdx/internal/db"
	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

var (
	recordKeyPrefix = domain.KeyPrefix + "history:rec:"
	indexKey        = domain.KeyPrefix + "history:ids"
)

// DefaultMaxRecords caps stored history when no limit is configured.
const DefaultMaxRecords = 200

// store is the consumer interface for history (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetMulti(ctx context.Context, keys []string) ([][]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Del(ctx context.Context, keys ...string) error
	LPush(ctx context.Context, key string, values ...string) error
	LRange(ctx context.Context, key string, start, stop int64) ([]string, error)
	LTrim(ctx context.Context, key string, start, stop int64) error
	LRem(ctx context.Context, key string, count int64, value string) (int64, error)
}

// Repo implements usecase/history.Repository.
type Repo struct {
	store      store
	maxRecords int
}

// New creates a history repository.
func New(s store, maxRecords int) *Repo {
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Repo{store: s, maxRecords: maxRecords}
}

// Save writes the record, pushes its id and evicts records beyond the cap.
func (r *Repo) Save(ctx context.Context, rec diagnosis.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := r.store.Set(ctx, recordKey(rec.ID), data); err != nil {
		return fmt.Errorf("store record: %w", err)
	}
	if err := r.store.LPush(ctx, indexKey, rec.ID); err != nil {
		return fmt.Errorf("index record: %w", err)
	}
	return r.evict(ctx)
}

func (r *Repo) evict(ctx context.Context) error {
	stale, err := r.store.LRange(ctx, indexKey, int64(r.maxRecords), -1)
	if err != nil {
		return fmt.Errorf("read overflow: %w", err)
	}
	if len(stale) == 0 {
		return nil
	}
	keys := make([]string, len(stale))
	for i, id := range stale {
		keys[i] = recordKey(id)
	}
	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("delete overflow: %w", err)
	}
	if err := r.store.LTrim(ctx, indexKey, 0, int64(r.maxRecords-1)); err != nil {
		return fmt.Errorf("trim index: %w", err)
	}
	return nil
}

// List returns up to limit records, newest first. Ids whose record is gone are skipped.
func (r *Repo) List(ctx context.Context, limit int) ([]diagnosis.Record, error) {
	if limit <= 0 {
		return []diagnosis.Record{}, nil
	}
	ids, err := r.store.LRange(ctx, indexKey, 0, int64(limit-1))
	if err != nil {
		return nil, fmt.Errorf("read index: %w", err)
	}
	if len(ids) == 0 {
		return []diagnosis.Record{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = recordKey(id)
	}
	blobs, err := r.store.GetMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}

	out := make([]diagnosis.Record, 0, len(blobs))
	for i, data := range blobs {
		if data == nil {
			continue
		}
		var rec diagnosis.Record
		if err := json.Unmarshal(data, &rec); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", ids[i], err)
		}
		out = append(out, rec)
	}
	return out, nil
}

// Get returns one record.
func (r *Repo) Get(ctx context.Context, id string) (diagnosis.Record, error) {
	data, err := r.store.Get(ctx, recordKey(id))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return diagnosis.Record{}, domain.ErrRecordNotFound
		}
		return diagnosis.Record{}, fmt.Errorf("read record: %w", err)
	}
	var rec diagnosis.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return diagnosis.Record{}, fmt.Errorf("decode record %s: %w", id, err)
	}
	return rec, nil
}

// Delete removes the record and its index entry.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	n, err := r.store.LRem(ctx, indexKey, 0, id)
	if err != nil {
		return false, fmt.Errorf("unindex record: %w", err)
	}
	if err := r.store.Del(ctx, recordKey(id)); err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	return n > 0, nil
}

func recordKey(id string) string {
	return recordKeyPrefix + id
}
