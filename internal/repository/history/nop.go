package history

import (
	"context"

	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

// NopRepo is used when history is disabled: writes are dropped, reads are empty.
type NopRepo struct{}

// Save discards rec.
func (NopRepo) Save(context.Context, diagnosis.Record) error { return nil }

// List returns no records.
func (NopRepo) List(context.Context, int) ([]diagnosis.Record, error) {
	return []diagnosis.Record{}, nil
}

// Get always reports a missing record.
func (NopRepo) Get(context.Context, string) (diagnosis.Record, error) {
	return diagnosis.Record{}, domain.ErrRecordNotFound
}

// Delete never finds anything to delete.
func (NopRepo) Delete(context.Context, string) (bool, error) { return false, nil }
