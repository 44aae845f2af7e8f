// Package filehistory keeps diagnosis history in a single JSON file. It is meant for
// local runs without a Redis-compatible server.
package filehistory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

// DefaultMaxRecords caps the file when no limit is configured.
const DefaultMaxRecords = 200

// Repo implements usecase/history.Repository on top of a JSON file.
// Records are kept newest first.
type Repo struct {
	mu         sync.Mutex
	path       string
	maxRecords int
}

// New creates a file-backed repository. The file is created on first write.
func New(path string, maxRecords int) (*Repo, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: history file path is required", domain.ErrInvalidInput)
	}
	if maxRecords <= 0 {
		maxRecords = DefaultMaxRecords
	}
	return &Repo{path: path, maxRecords: maxRecords}, nil
}

// Path returns the backing file.
func (r *Repo) Path() string { return r.path }

// Save prepends rec and drops the oldest records beyond the cap.
func (r *Repo) Save(ctx context.Context, rec diagnosis.Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load()
	if err != nil {
		return err
	}
	recs = append([]diagnosis.Record{rec}, recs...)
	if len(recs) > r.maxRecords {
		recs = recs[:r.maxRecords]
	}
	return r.write(recs)
}

// List returns up to limit records, newest first.
func (r *Repo) List(ctx context.Context, limit int) ([]diagnosis.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load()
	if err != nil {
		return nil, err
	}
	if limit < 0 {
		limit = 0
	}
	if len(recs) > limit {
		recs = recs[:limit]
	}
	return recs, nil
}

// Get returns one record.
func (r *Repo) Get(ctx context.Context, id string) (diagnosis.Record, error) {
	if err := ctx.Err(); err != nil {
		return diagnosis.Record{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load()
	if err != nil {
		return diagnosis.Record{}, err
	}
	for _, rec := range recs {
		if rec.ID == id {
			return rec, nil
		}
	}
	return diagnosis.Record{}, domain.ErrRecordNotFound
}

// Delete removes the record with the given id.
func (r *Repo) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	recs, err := r.load()
	if err != nil {
		return false, err
	}
	kept := recs[:0]
	for _, rec := range recs {
		if rec.ID != id {
			kept = append(kept, rec)
		}
	}
	if len(kept) == len(recs) {
		return false, nil
	}
	return true, r.write(kept)
}

// load reads the file. A missing or empty file is an empty history.
func (r *Repo) load() ([]diagnosis.Record, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []diagnosis.Record{}, nil
		}
		return nil, fmt.Errorf("read history file: %w", err)
	}
	if len(data) == 0 {
		return []diagnosis.Record{}, nil
	}
	var recs []diagnosis.Record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, fmt.Errorf("decode history file %s: %w", r.path, err)
	}
	if recs == nil {
		recs = []diagnosis.Record{}
	}
	return recs, nil
}

// write replaces the file via temp file + rename so readers never see a partial file.
func (r *Repo) write(recs []diagnosis.Record) error {
	data, err := json.MarshalIndent(recs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create history dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, r.path); err != nil {
		return fmt.Errorf("replace history file: %w", err)
	}
	return nil
}
