package utils

import (
	"errors"
	"fmt"
)

// Request-scoped error kinds. Every operation returns one of these so the
// HTTP layer can map to a status without inspecting message text.
var (
	ErrValidation = errors.New("validation error")
	ErrNotFound   = errors.New("not found")
	ErrStore      = errors.New("store error")
	ErrUpstream   = errors.New("upstream error")
)

// ValidationError marks malformed input: self-merges, cyclic merges, bad
// period strings. Never retried.
func ValidationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFoundError marks an unknown document, line, identity, or merge.
func NotFoundError(kind string, id any) error {
	return fmt.Errorf("%w: %s %v", ErrNotFound, kind, id)
}

// StoreError wraps a persistence failure. Callers may retry idempotent reads
// once; writes are never retried automatically.
func StoreError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrStore, err)
}

// UpstreamError wraps an external extraction/OCR failure verbatim. The
// affected document keeps its prior state.
func UpstreamError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %v", ErrUpstream, err)
}
