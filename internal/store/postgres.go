package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

// Predefined errors for store operations
var (
	ErrCategoryNotFound   = errors.New("store: category not found")
	ErrCategoryNameExists = errors.New("store: category name already exists")
	ErrProductNotFound    = errors.New("store: product not found")
	ErrInvalidCategory    = errors.New("store: referenced category does not exist")
	ErrCategoryInUse      = errors.New("store: category has active products")
)

// CategoryInUseError is returned by DeleteCategory when active products still
// reference the category. It matches ErrCategoryInUse with errors.Is.
type CategoryInUseError struct {
	ActiveProducts int
}

func (e *CategoryInUseError) Error() string {
	return fmt.Sprintf("%s (%d active)", ErrCategoryInUse.Error(), e.ActiveProducts)
}

func (e *CategoryInUseError) Is(target error) bool {
	return target == ErrCategoryInUse
}

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"

	categoryNameConstraint = "categories_name_key"
)

// PostgresStore implements the CategoryStorer and ProductStorer interfaces using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger *zap.Logger
}

var (
	_ CategoryStorer = (*PostgresStore)(nil)
	_ ProductStorer  = (*PostgresStore)(nil)
)

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{db: db, logger: logger.Named("store")}
}

// Ping checks that the database is reachable.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Reset removes every product and category and restarts the id sequences.
func (s *PostgresStore) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, queryResetInventory); err != nil {
		return fmt.Errorf("store: Reset failed: %w", err)
	}
	return nil
}

func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	s.logger.Info("closing database connection pool")
	if err := s.db.Close(); err != nil {
		s.logger.Error("failed to close database connection pool", zap.Error(err))
		return err
	}
	return nil
}

// mapWriteError translates constraint violations into store errors.
func mapWriteError(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case pqUniqueViolation:
		if pqErr.Constraint == categoryNameConstraint {
			return ErrCategoryNameExists
		}
	case pqForeignKeyViolation:
		return ErrInvalidCategory
	}
	return err
}

const queryResetInventory = `TRUNCATE products, categories RESTART IDENTITY;`
