package history

import (
	"context"

	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

// Repository defines the storage contract for diagnosis history.
type Repository interface {
	Save(ctx context.Context, rec diagnosis.Record) error
	// List returns up to limit records, newest first.
	List(ctx context.Context, limit int) ([]diagnosis.Record, error)
	Get(ctx context.Context, id string) (diagnosis.Record, error)
	// Delete reports whether a record was removed.
	Delete(ctx context.Context, id string) (bool, error)
}
