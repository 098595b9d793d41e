package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/txctx"
)

// Store is the postgres Persistence Gateway. One Store serves the booking,
// queue and barber repositories so a single transaction can span all three.
type Store struct {
	db          *gorm.DB
	lockTimeout time.Duration
}

type Option func(*Store)

// WithLockTimeout bounds every lock wait inside a Store transaction.
func WithLockTimeout(d time.Duration) Option {
	return func(s *Store) { s.lockTimeout = d }
}

func NewStore(db *gorm.DB, opts ...Option) *Store {
	s := &Store{db: db}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type txKey struct{}

// conn returns the transaction bound to ctx, or a plain session.
func (s *Store) conn(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return s.db.WithContext(ctx)
}

// WithTx runs fn in a transaction. A nested call joins the outer transaction.
// After-commit hooks registered through txctx run only once the outermost
// transaction committed.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}

	scopeCtx, scope := txctx.Begin(ctx)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if s.lockTimeout > 0 {
			stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", s.lockTimeout.Milliseconds())
			if err := tx.Exec(stmt).Error; err != nil {
				return err
			}
		}
		return fn(context.WithValue(scopeCtx, txKey{}, tx))
	})
	if err != nil {
		return translate(err)
	}

	scope.Committed()
	return nil
}

// translate maps driver errors onto the business error kinds. Errors that
// already carry a kind pass through untouched.
func translate(err error) error {
	if err == nil {
		return nil
	}

	var be httperr.BusinessError
	if errors.As(err, &be) {
		return err
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "55P03", "40001", "40P01":
			return fmt.Errorf("%w: %s", httperr.ErrLockTimeout, pgErr.Code)
		case "23505":
			return fmt.Errorf("%w: %s", httperr.ErrConcurrentUpdate, pgErr.ConstraintName)
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return httperr.ErrLockTimeout
	}

	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
