package domain

import (
	"errors"
	"fmt"
)

// KeyPrefix namespaces every key symdx writes to the shared store.
const KeyPrefix = "symdx:"

var (
	// ErrInvalidKnowledgeBase signals a malformed knowledge base (fatal at startup).
	ErrInvalidKnowledgeBase = errors.New("invalid knowledge base")
	// ErrInvalidMatcherConfig signals an invalid similarity threshold or n-gram setup.
	ErrInvalidMatcherConfig = errors.New("invalid matcher config")
	// ErrInvalidInput signals a request that cannot be processed as given.
	ErrInvalidInput = errors.New("invalid input")
	// ErrRecordNotFound signals a missing history record.
	ErrRecordNotFound = errors.New("record not found")
	// ErrHistoryUnavailable signals that no history backend could serve the call.
	ErrHistoryUnavailable = errors.New("history unavailable")
)

// KnowledgeError carries the offending knowledge base element.
type KnowledgeError struct {
	Element string
	Reason  string
}

func (e *KnowledgeError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidKnowledgeBase.Error(), e.Element, e.Reason)
}

func (e *KnowledgeError) Unwrap() error { return ErrInvalidKnowledgeBase }

// NewKnowledgeError creates a knowledge base validation error.
func NewKnowledgeError(element, reason string) error {
	return &KnowledgeError{Element: element, Reason: reason}
}
