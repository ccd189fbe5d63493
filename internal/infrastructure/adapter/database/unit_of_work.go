package database

import (
	"context"
	"fmt"
	"strings"

	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/persistence"
	"github.com/amirhossein-jamali/stock-allocator/internal/infrastructure/adapter/repository"
	"gorm.io/gorm"
)

// UnitOfWork binds the unit of work contract to a GORM transaction. Each
// open scope owns exactly one transaction; the repository handle it exposes
// is constructed on that transaction and invalidated when the scope closes.
//
// One instance holds at most one open scope and must not be shared between
// goroutines; the factory hands out a fresh instance per use-case invocation.
type UnitOfWork struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider

	tx        *gorm.DB
	committed bool
	batches   *repository.BatchRepository
}

// NewUnitOfWork creates a new UnitOfWork over the given connection pool.
// No transaction is started until Begin.
func NewUnitOfWork(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *UnitOfWork {
	return &UnitOfWork{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// Begin starts a database transaction and builds the repository handle on it
func (u *UnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return errs.NewScopeMisuseError("begin", "a scope is already open on this instance")
	}

	u.logger.Debug("Beginning database transaction", nil)

	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		u.logger.Error("Failed to begin transaction", map[string]any{"error": tx.Error.Error()})
		return fmt.Errorf("%w: %s", errs.ErrDatabaseConnection, tx.Error.Error())
	}

	u.tx = tx
	u.committed = false
	u.batches = repository.NewBatchRepository(tx, u.timeProvider, u.logger)
	return nil
}

// Commit commits the current transaction. On failure the scope stays open in
// an uncommitted state so that Release still performs the rollback.
func (u *UnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return errs.NewScopeMisuseError("commit", "no open scope")
	}

	u.logger.Debug("Committing database transaction", nil)

	if err := u.tx.Commit().Error; err != nil {
		u.logger.Error("Failed to commit transaction", map[string]any{"error": err.Error()})
		return errs.NewCommitError(err)
	}

	u.committed = true
	return nil
}

// Release closes the scope, rolling back unless Commit succeeded. It is
// idempotent: releasing an already-closed scope is a no-op, so it is safe in
// a defer regardless of how the scope's body exited. The underlying
// connection returns to the pool; the pool itself stays open.
func (u *UnitOfWork) Release(ctx context.Context) error {
	if u.tx == nil {
		return nil
	}

	var rollbackErr error
	if !u.committed {
		u.logger.Debug("Rolling back database transaction", nil)
		rollbackErr = u.rollback()
	}

	u.batches.Invalidate()
	u.batches = nil
	u.tx = nil

	return rollbackErr
}

// rollback discards the uncommitted transaction, tolerating transactions the
// backend has already finished
func (u *UnitOfWork) rollback() error {
	err := u.tx.Rollback().Error
	if err == nil {
		return nil
	}

	// The backend may have already resolved the transaction, e.g. after a
	// connection loss during commit. Nothing is left to discard.
	if strings.Contains(err.Error(), "already been committed or rolled back") {
		u.logger.Warn("Transaction has already been committed or rolled back", map[string]any{
			"error": err.Error(),
		})
		return nil
	}

	u.logger.Error("Failed to rollback transaction", map[string]any{
		"error": err.Error(),
	})
	return errs.NewRollbackError(err)
}

// Batches returns the batch repository bound to the open scope
func (u *UnitOfWork) Batches() (persistence.BatchRepository, error) {
	if u.tx == nil {
		return nil, errs.NewScopeMisuseError("batches", "scope has not been acquired")
	}
	return u.batches, nil
}

// UnitOfWorkFactory produces a fresh UnitOfWork per call so concurrent
// use cases never share a transactional resource
type UnitOfWorkFactory struct {
	db           *gorm.DB
	logger       coreport.Logger
	timeProvider coreport.TimeProvider
}

// NewUnitOfWorkFactory creates a factory over the given connection pool
func NewUnitOfWorkFactory(db *gorm.DB, logger coreport.Logger, timeProvider coreport.TimeProvider) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{
		db:           db,
		logger:       logger,
		timeProvider: timeProvider,
	}
}

// New returns an independent UnitOfWork instance
func (f *UnitOfWorkFactory) New() persistence.UnitOfWork {
	return NewUnitOfWork(f.db, f.logger, f.timeProvider)
}
