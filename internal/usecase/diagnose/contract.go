package diagnose

import (
	"context"

	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

// HistoryRecorder persists a completed diagnosis.
type HistoryRecorder interface {
	Record(
		ctx context.Context, userID string, symptoms []string, resp diagnosis.Response,
	) (diagnosis.Record, error)
}
