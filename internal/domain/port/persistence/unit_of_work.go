package persistence

import (
	"context"
)

// UnitOfWork is the transactional boundary for a group of repository writes:
// everything performed through the scope's repositories takes effect on Commit
// or not at all. Rollback is the default outcome of every scope; durability
// requires the one explicit Commit call.
//
// An instance holds at most one open scope at a time and is not safe for
// concurrent acquisition; concurrent use cases each take their own instance
// from a UnitOfWorkFactory.
type UnitOfWork interface {
	// Begin opens a new scope, acquiring the underlying transactional
	// resource. It fails with a scope misuse error if a prior scope on this
	// instance is still open.
	Begin(ctx context.Context) error

	// Commit durably persists all operations performed through this scope's
	// repositories since Begin. It must only be called while a scope is open.
	// If the underlying resource rejects the transaction, a commit error is
	// returned and the scope is left for Release to roll back.
	Commit(ctx context.Context) error

	// Release closes the scope. If Commit has not succeeded, all uncommitted
	// operations are rolled back; after a successful Commit the rollback is a
	// no-op. Release is idempotent so it can sit in a defer on every exit
	// path.
	Release(ctx context.Context) error

	// Batches returns the batch repository bound to the currently open scope.
	// It fails with a scope misuse error before Begin or after Release.
	Batches() (BatchRepository, error)
}

// UnitOfWorkFactory produces independent UnitOfWork instances, one per
// logical use-case invocation
type UnitOfWorkFactory interface {
	New() UnitOfWork
}

// WithUnitOfWork opens a scope on the unit of work, runs fn inside it and
// guarantees Release on every exit path, including panics. fn must call
// Commit itself; a scope that exits without committing is rolled back.
//
// A failure from fn takes precedence over a failure from Release: the release
// error is surfaced only when the body succeeded, and concrete implementations
// log it as a secondary cause otherwise.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn func(ctx context.Context) error) (err error) {
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		releaseErr := uow.Release(ctx)
		if err == nil {
			err = releaseErr
		}
	}()

	return fn(ctx)
}
