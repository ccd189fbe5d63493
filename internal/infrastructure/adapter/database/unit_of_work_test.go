package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/entity"
	errs "github.com/amirhossein-jamali/stock-allocator/internal/domain/error"
	coreport "github.com/amirhossein-jamali/stock-allocator/internal/domain/port/core"
	"github.com/amirhossein-jamali/stock-allocator/internal/domain/port/persistence"
	applogger "github.com/amirhossein-jamali/stock-allocator/internal/infrastructure/adapter/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type stubTimeProvider struct {
	now time.Time
}

func (p *stubTimeProvider) Now() time.Time { return p.now }

func (p *stubTimeProvider) Since(t time.Time) coreport.Duration {
	return coreport.Duration(p.now.Sub(t))
}

func (p *stubTimeProvider) WithTimeout(ctx context.Context, timeout coreport.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, timeout.Std())
}

// newMockedUnitOfWork builds a UnitOfWork over a sqlmock-backed GORM
// connection so transaction behavior can be asserted without a database
func newMockedUnitOfWork(t *testing.T) (*UnitOfWork, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger:                 NewDatabaseLogger(applogger.NewNoopLogger(), "silent"),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	clock := &stubTimeProvider{now: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)}
	return NewUnitOfWork(gormDB, applogger.NewNoopLogger(), clock), mock
}

func newBatchEntity(t *testing.T) *entity.Batch {
	t.Helper()

	clock := &stubTimeProvider{now: time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)}
	batch, err := entity.NewBatch("batch1", "sku1", 100, nil, clock)
	require.NoError(t, err)
	return batch
}

func TestUnitOfWorkCommit(t *testing.T) {
	ctx := context.Background()

	t.Run("Commit then release performs no rollback", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Commit(ctx))
		require.NoError(t, uow.Release(ctx))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Commit without open scope fails with scope misuse", func(t *testing.T) {
		uow, _ := newMockedUnitOfWork(t)

		assert.True(t, errs.IsScopeMisuseError(uow.Commit(ctx)))
	})

	t.Run("Commit failure is translated and leaves the scope for rollback", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectCommit().WillReturnError(errors.New("server closed the connection unexpectedly"))
		mock.ExpectRollback()

		require.NoError(t, uow.Begin(ctx))

		err := uow.Commit(ctx)
		assert.True(t, errs.IsCommitError(err))

		require.NoError(t, uow.Release(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Late failure after commit does not undo it", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		bodyErr := errors.New("failure after commit")
		err := persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			if err := uow.Commit(ctx); err != nil {
				return err
			}
			return bodyErr
		})

		assert.Equal(t, bodyErr, err)
		// No rollback was expected; commit stands
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnitOfWorkRollback(t *testing.T) {
	ctx := context.Background()

	t.Run("Release without commit rolls back", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Release(ctx))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Release is idempotent", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Release(ctx))
		require.NoError(t, uow.Release(ctx))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Rollback failure is reported as a rollback error", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("connection reset by peer"))

		require.NoError(t, uow.Begin(ctx))

		err := uow.Release(ctx)
		assert.ErrorIs(t, err, errs.ErrRollbackFailed)
	})

	t.Run("Body failure takes precedence over rollback failure", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("connection reset by peer"))

		bodyErr := errors.New("boom")
		err := persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			return bodyErr
		})

		assert.Equal(t, bodyErr, err)
	})

	t.Run("Rollback surfaces when the body succeeded without committing", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectRollback().WillReturnError(errors.New("connection reset by peer"))

		err := persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			return nil
		})

		assert.ErrorIs(t, err, errs.ErrRollbackFailed)
	})
}

func TestUnitOfWorkScope(t *testing.T) {
	ctx := context.Background()

	t.Run("Batches before begin fails with scope misuse", func(t *testing.T) {
		uow, _ := newMockedUnitOfWork(t)

		repo, err := uow.Batches()

		assert.Nil(t, repo)
		assert.True(t, errs.IsScopeMisuseError(err))
	})

	t.Run("Double begin fails with scope misuse", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()

		require.NoError(t, uow.Begin(ctx))
		assert.True(t, errs.IsScopeMisuseError(uow.Begin(ctx)))
	})

	t.Run("Instance can open a fresh scope after release", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectRollback()
		mock.ExpectBegin()
		mock.ExpectCommit()

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Release(ctx))

		require.NoError(t, uow.Begin(ctx))
		require.NoError(t, uow.Commit(ctx))
		require.NoError(t, uow.Release(ctx))

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Repository handle is unusable after release", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		require.NoError(t, uow.Begin(ctx))
		repo, err := uow.Batches()
		require.NoError(t, err)
		require.NoError(t, uow.Release(ctx))

		_, err = repo.Get(ctx, "batch1")
		assert.True(t, errs.IsScopeMisuseError(err))

		_, err = uow.Batches()
		assert.True(t, errs.IsScopeMisuseError(err))
	})
}

func TestUnitOfWorkWrites(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes inside the scope ride the scope's transaction", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "batches"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectCommit()

		err := persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			batches, err := uow.Batches()
			if err != nil {
				return err
			}
			if err := batches.Add(ctx, newBatchEntity(t)); err != nil {
				return err
			}
			return uow.Commit(ctx)
		})

		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Uncommitted writes are rolled back on release", func(t *testing.T) {
		uow, mock := newMockedUnitOfWork(t)
		mock.ExpectBegin()
		mock.ExpectQuery(`INSERT INTO "batches"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectRollback()

		err := persistence.WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			batches, err := uow.Batches()
			if err != nil {
				return err
			}
			// Write and then fail before committing
			if err := batches.Add(ctx, newBatchEntity(t)); err != nil {
				return err
			}
			return errors.New("failed before commit")
		})

		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnitOfWorkFactory(t *testing.T) {
	t.Run("Each call yields an independent instance", func(t *testing.T) {
		uow, _ := newMockedUnitOfWork(t)
		factory := NewUnitOfWorkFactory(uow.db, applogger.NewNoopLogger(), uow.timeProvider)

		first := factory.New()
		second := factory.New()

		assert.NotSame(t, first, second)
	})
}
