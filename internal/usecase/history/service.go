// Package history records and serves past diagnoses.
package history

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
	"github.com/kailas-cloud/symdx/internal/metrics"
)

// Listing limits.
const (
	DefaultLimit = 50
	MaxLimit     = 200
)

// Service manages diagnosis history.
type Service struct {
	repo         Repository
	defaultLimit int
	maxLimit     int
	now          func() time.Time
	newID        func() string
}

// New creates a history service. Non-positive limits fall back to the defaults.
func New(repo Repository, defaultLimit, maxLimit int) *Service {
	if maxLimit <= 0 {
		maxLimit = MaxLimit
	}
	if defaultLimit <= 0 || defaultLimit > maxLimit {
		defaultLimit = min(DefaultLimit, maxLimit)
	}
	return &Service{
		repo:         repo,
		defaultLimit: defaultLimit,
		maxLimit:     maxLimit,
		now:          time.Now,
		newID:        uuid.NewString,
	}
}

// Record stores a diagnosis with a fresh id and timestamp.
func (s *Service) Record(
	ctx context.Context, userID string, symptoms []string, resp diagnosis.Response,
) (diagnosis.Record, error) {
	rec := diagnosis.Record{
		ID:            s.newID(),
		UserID:        strings.TrimSpace(userID),
		InputSymptoms: append([]string(nil), symptoms...),
		Result:        resp,
		CreatedAt:     s.now().UTC(),
	}
	if err := s.repo.Save(ctx, rec); err != nil {
		metrics.HistoryErrorsTotal.WithLabelValues("save").Inc()
		return diagnosis.Record{}, fmt.Errorf("save history record: %w", err)
	}
	return rec, nil
}

// List returns recent records, newest first. limit <= 0 uses the default; larger
// values are capped.
func (s *Service) List(ctx context.Context, limit int) ([]diagnosis.Record, error) {
	recs, err := s.repo.List(ctx, s.clampLimit(limit))
	if err != nil {
		metrics.HistoryErrorsTotal.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("list history: %w", err)
	}
	if recs == nil {
		recs = []diagnosis.Record{}
	}
	return recs, nil
}

// Get returns one record.
func (s *Service) Get(ctx context.Context, id string) (diagnosis.Record, error) {
	if err := validateID(id); err != nil {
		return diagnosis.Record{}, err
	}
	rec, err := s.repo.Get(ctx, id)
	if err != nil {
		return diagnosis.Record{}, fmt.Errorf("get history record: %w", err)
	}
	return rec, nil
}

// Delete removes a record and reports whether it existed.
func (s *Service) Delete(ctx context.Context, id string) (bool, error) {
	if err := validateID(id); err != nil {
		return false, err
	}
	ok, err := s.repo.Delete(ctx, id)
	if err != nil {
		metrics.HistoryErrorsTotal.WithLabelValues("delete").Inc()
		return false, fmt.Errorf("delete history record: %w", err)
	}
	return ok, nil
}

func (s *Service) clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return s.defaultLimit
	case limit > s.maxLimit:
		return s.maxLimit
	default:
		return limit
	}
}

func validateID(id string) error {
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: id is required", domain.ErrInvalidInput)
	}
	return nil
}
