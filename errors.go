package cryptofolio

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors, one per failure kind. Use errors.Is to classify an error
// returned by this module.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrDuplicate       = errors.New("already exists")
	ErrStorage         = errors.New("storage failure")
	ErrExternalService = errors.New("external service failure")
)

// ValidationError reports every invariant violation found while building or
// mutating an entity, never just the first one.
type ValidationError struct {
	Entity   string   // Entity is the kind of entity that failed validation (e.g. "portfolio").
	Messages []string // Messages are human-readable violations, in detection order.
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Entity, strings.Join(e.Messages, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NotFoundError reports a lookup by id, symbol, username or email that found nothing.
type NotFoundError struct {
	Kind string // Kind of the entity looked up.
	Key  string // Key is the value that did not resolve.
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

// DuplicateError reports a conflict with the current state of a repository,
// such as an email already registered or a symbol already in a watchlist.
type DuplicateError struct {
	Kind  string
	Field string
	Value string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Kind, e.Field, e.Value)
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicate }

// StorageError reports an I/O failure on a backing file.
type StorageError struct {
	File string // File is the path of the backing file.
	Op   string // Op is the operation that failed ("read", "write", "create", "decode").
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage failure: cannot %s %q: %v", e.Op, e.File, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }

// ExternalServiceError reports an unreachable or misbehaving remote service.
type ExternalServiceError struct {
	Service string
	Err     error
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Service, e.Err)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

func (e *ExternalServiceError) Is(target error) bool { return target == ErrExternalService }
