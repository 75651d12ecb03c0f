package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/adify/rewards/internal/config"
)

// Postgres SQLSTATE codes the repositories react to.
const (
	sqlStateUniqueViolation      = "23505"
	sqlStateSerializationFailure = "40001"
	sqlStateDeadlockDetected     = "40P01"
)

// BaseRepository carries the connection and query deadline shared by every repository.
type BaseRepository struct {
	db      *bun.DB
	timeout time.Duration
}

func NewBaseRepository(db *bun.DB) *BaseRepository {
	return &BaseRepository{db: db, timeout: config.DefaultQueryTimeout}
}

type RepositoryError struct {
	Operation string
	Entity    string
	Err       error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Operation, e.Entity, e.Err)
}

func (e *RepositoryError) Unwrap() error { return e.Err }

type NotFoundError struct {
	Entity string
	ID     any
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError is a unique constraint violation, e.g. a second pool for the
// same month and country.
type ConflictError struct {
	Entity     string
	Key        any
	Constraint string
}

func (e *ConflictError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s %v violates %s", e.Entity, e.Key, e.Constraint)
	}
	return fmt.Sprintf("%s %v already exists", e.Entity, e.Key)
}

func (br *BaseRepository) WithTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, br.timeout)
}

func (br *BaseRepository) WithCustomTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout)
}

func (br *BaseRepository) HandleError(operation, entity string, err error) error {
	return br.HandleErrorWithID(operation, entity, nil, err)
}

// HandleErrorWithID classifies a driver error: missing rows become NotFoundError,
// unique violations ConflictError, anything else RepositoryError.
func (br *BaseRepository) HandleErrorWithID(operation, entity string, id any, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return &NotFoundError{Entity: entity, ID: id}
	case sqlState(err) == sqlStateUniqueViolation:
		var pgErr pgdriver.Error
		errors.As(err, &pgErr)
		return &ConflictError{Entity: entity, Key: id, Constraint: pgErr.Field('n')}
	default:
		return &RepositoryError{Operation: operation, Entity: entity, Err: err}
	}
}

func sqlState(err error) string {
	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		return pgErr.Field('C')
	}
	return ""
}

// IsTransient reports errors that succeed when the transaction is simply retried.
func IsTransient(err error) bool {
	switch sqlState(err) {
	case sqlStateSerializationFailure, sqlStateDeadlockDetected:
		return true
	}
	return false
}

func IsNotFound(err error) bool {
	var e *NotFoundError
	return errors.As(err, &e)
}

func IsConflict(err error) bool {
	var e *ConflictError
	return errors.As(err, &e)
}

func IsRepositoryError(err error) bool {
	var e *RepositoryError
	return errors.As(err, &e)
}
