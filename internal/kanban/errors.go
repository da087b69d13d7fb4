package kanban

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

var (
	ErrUnauthenticated  = errors.New("not authenticated")
	ErrNotFound         = errors.New("not found")
	ErrValidation       = errors.New("validation failed")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// Error carries the operation and, for validation failures, the offending
// field. Missing and not-visible resources share ErrNotFound so private
// boards cannot be probed for existence.
type Error struct {
	Op     string
	Field  string
	Err    error
	Detail string
}

func (e *Error) Error() string {
	parts := []string{"kanban: " + e.Op}

	if e.Field != "" {
		parts = append(parts, "field="+e.Field)
	}

	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}

	if e.Detail != "" {
		parts = append(parts, e.Detail)
	}

	return strings.Join(parts, ": ")
}

func (e *Error) Unwrap() error {
	return e.Err
}

func invalid(op, field, detail string) error {
	return &Error{Op: op, Field: field, Err: ErrValidation, Detail: detail}
}

func refused(op string) error {
	return &Error{Op: op, Err: ErrNotFound}
}

// storeError classifies a gorm error. Unknown failures are reported as the
// store being unavailable; the cause stays reachable through errors.Unwrap.
func storeError(op string, err error) error {
	if err == nil {
		return nil
	}

	var kerr *Error
	if errors.As(err, &kerr) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return refused(op)
	}

	return &Error{Op: op, Err: fmt.Errorf("%w: %w", ErrStoreUnavailable, err)}
}
