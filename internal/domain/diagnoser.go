package domain

import (
	"context"

	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

// Diagnoser is the shared symptom → diagnoses contract between layers.
// The pipeline implements it; the result cache decorates it.
type Diagnoser interface {
	Diagnose(ctx context.Context, symptoms []string) (diagnosis.Analysis, error)
}
