// Package diagnose orchestrates symptom diagnosis: the pure pipeline plus the service
// that validates requests, records metrics and persists history.
package diagnose

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
	"github.com/kailas-cloud/symdx/internal/metrics"
)

// Request limits.
const (
	MaxSymptoms      = 50
	MaxSymptomLength = 1000
)

// Service handles diagnose requests.
type Service struct {
	diagnoser domain.Diagnoser
	history   HistoryRecorder
	logger    *zap.Logger
}

// New creates a diagnose service. history can be nil.
func New(d domain.Diagnoser, history HistoryRecorder, logger *zap.Logger) *Service {
	return &Service{diagnoser: d, history: history, logger: logger}
}

// Diagnose validates symptoms, runs the diagnoser and records the result in history.
// History failures are logged and never fail the request.
func (s *Service) Diagnose(
	ctx context.Context, userID string, symptoms []string,
) (diagnosis.Response, error) {
	if err := ValidateSymptoms(symptoms); err != nil {
		return diagnosis.Response{}, err
	}

	a, err := s.diagnoser.Diagnose(ctx, symptoms)
	if err != nil {
		return diagnosis.Response{}, fmt.Errorf("diagnose: %w", err)
	}
	observe(a)

	resp := diagnosis.NewResponse(a.Diagnoses)
	if s.history != nil {
		if _, err := s.history.Record(ctx, userID, symptoms, resp); err != nil {
			s.logger.Warn("Failed to record diagnosis history", zap.Error(err))
		}
	}
	return resp, nil
}

// ValidateSymptoms enforces request limits. A nil list is the empty list, and empty
// strings are allowed.
func ValidateSymptoms(symptoms []string) error {
	if len(symptoms) > MaxSymptoms {
		return fmt.Errorf("%w: at most %d symptoms allowed, got %d",
			domain.ErrInvalidInput, MaxSymptoms, len(symptoms))
	}
	for i, sym := range symptoms {
		if n := utf8.RuneCountInString(sym); n > MaxSymptomLength {
			return fmt.Errorf("%w: symptoms[%d] exceeds %d characters",
				domain.ErrInvalidInput, i, MaxSymptomLength)
		}
	}
	return nil
}

// Outcome classifies a diagnosis list for metrics.
func Outcome(diagnoses []diagnosis.Diagnosis) string {
	switch {
	case len(diagnoses) == 0:
		return metrics.OutcomeEmpty
	case len(diagnoses) == 1 && diagnoses[0].IsSentinel():
		return metrics.OutcomeSentinel
	default:
		return metrics.OutcomeRanked
	}
}

func observe(a diagnosis.Analysis) {
	metrics.MatchedSymptoms.Observe(float64(len(a.Matched)))
	metrics.DiagnosesTotal.WithLabelValues(Outcome(a.Diagnoses)).Inc()
	for _, d := range a.Diagnoses {
		if strings.HasPrefix(d.Recommendation(), diagnosis.UrgentPrefix) {
			metrics.RedFlagsTotal.Inc()
		}
	}
}
