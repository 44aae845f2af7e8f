package symdx

import "github.com/kailas-cloud/symdx/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrInvalidInput         = domain.ErrInvalidInput
	ErrInvalidKnowledgeBase = domain.ErrInvalidKnowledgeBase
	ErrInvalidMatcherConfig = domain.ErrInvalidMatcherConfig
	ErrRecordNotFound       = domain.ErrRecordNotFound
	ErrHistoryUnavailable   = domain.ErrHistoryUnavailable
)
