package domain

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ConstraintKind classifies the database constraint behind a failed write.
type ConstraintKind string

const (
	ConstraintDuplicateKey ConstraintKind = "duplicate_key"
	ConstraintForeignKey   ConstraintKind = "foreign_key"
	ConstraintCheck        ConstraintKind = "check"
	ConstraintUnknown      ConstraintKind = "unknown"
)

// PersistenceError is raised when flushing staged changes fails. The staged
// changes of the failing call are not applied; earlier committed work stands.
type PersistenceError struct {
	Op   string
	Kind ConstraintKind
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence: %s failed (%s): %v", e.Op, e.Kind, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ScriptExecutionError is raised when a database-object script fails for a
// reason other than the object already existing.
type ScriptExecutionError struct {
	Script string
	Err    error
}

func (e *ScriptExecutionError) Error() string {
	return fmt.Sprintf("script %s failed: %v", e.Script, e.Err)
}

func (e *ScriptExecutionError) Unwrap() error { return e.Err }

// ClassifyPersistenceError wraps a write failure with its constraint kind.
// It relies on the ORM's translated errors where available and falls back to
// message sniffing for check constraints, which drivers do not translate.
func ClassifyPersistenceError(op string, err error) *PersistenceError {
	if err == nil {
		return nil
	}
	kind := ConstraintUnknown
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		kind = ConstraintDuplicateKey
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		kind = ConstraintForeignKey
	case errors.Is(err, gorm.ErrCheckConstraintViolated) || isCheckViolation(err):
		kind = ConstraintCheck
	}
	return &PersistenceError{Op: op, Kind: kind, Err: err}
}

func isCheckViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	// sqlite: "CHECK constraint failed", mysql 3819: "check constraint ... violated",
	// postgres 23514: "violates check constraint"
	return strings.Contains(msg, "check constraint") ||
		// entity-level validation before the row reaches the database
		errors.Is(err, ErrRatingOutOfRange) ||
		errors.Is(err, ErrTotalMismatch) ||
		errors.Is(err, ErrItemTotalMismatch) ||
		errors.Is(err, ErrZeroQuantity) ||
		errors.Is(err, ErrReservedOverStock) ||
		errors.Is(err, ErrSalePriceAboveList)
}

// IsBenignExists reports whether a script error just means the database object
// is already in place. Scripts are rerun against provisioned stores, so this
// case is skipped rather than reported.
func IsBenignExists(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "already an object named") ||
		strings.Contains(msg, "there is already")
}
