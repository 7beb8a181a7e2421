package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-service/internal/domain"

	"go.uber.org/zap"
)

const (
	queryListCategories = `
		SELECT c.id, c.name, c.description, c.color, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active = TRUE) AS active_products
		FROM categories c
		ORDER BY c.name ASC;
	`
	queryGetCategory = `
		SELECT c.id, c.name, c.description, c.color, c.created_at, c.updated_at,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = c.id AND p.is_active = TRUE) AS active_products
		FROM categories c
		WHERE c.id = $1;
	`
	queryCategoryExists    = `SELECT EXISTS(SELECT 1 FROM categories WHERE id = $1);`
	queryCategoryNameTaken = `SELECT EXISTS(SELECT 1 FROM categories WHERE name = $1 AND id <> $2);`
	queryCreateCategory    = `
		INSERT INTO categories (name, description, color)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, color, created_at, updated_at;
	`
	queryUpdateCategory = `
		UPDATE categories
		SET name = $1, description = $2, color = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING id, name, description, color, created_at, updated_at,
			(SELECT COUNT(*) FROM products p WHERE p.category_id = categories.id AND p.is_active = TRUE);
	`
	queryLockCategory          = `SELECT id FROM categories WHERE id = $1 FOR UPDATE;`
	queryCountActiveByCategory = `SELECT COUNT(*) FROM products WHERE category_id = $1 AND is_active = TRUE;`
	queryDeleteCategory        = `DELETE FROM categories WHERE id = $1;`
)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCategory(row rowScanner, withCount bool) (*domain.Category, error) {
	var c domain.Category
	dest := []any{&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt}
	if withCount {
		dest = append(dest, &c.ActiveProducts)
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCategories retrieves every category ordered by name.
func (s *PostgresStore) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, queryListCategories)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	for rows.Next() {
		c, err := scanCategory(rows, true)
		if err != nil {
			return nil, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		categories = append(categories, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}
	return categories, nil
}

func (s *PostgresStore) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx, queryGetCategory, id), true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: GetCategoryByID failed to scan row: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) CategoryExists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := s.db.QueryRowContext(ctx, queryCategoryExists, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("store: CategoryExists failed: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) CategoryNameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var taken bool
	if err := s.db.QueryRowContext(ctx, queryCategoryNameTaken, name, excludeID).Scan(&taken); err != nil {
		return false, fmt.Errorf("store: CategoryNameTaken failed: %w", err)
	}
	return taken, nil
}

// CreateCategory inserts a category. A new category has no products, so
// ActiveProducts is always zero on the result.
func (s *PostgresStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx, queryCreateCategory, category.Name, category.Description, category.Color)
	created, err := scanCategory(row, false)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("store: CreateCategory failed to scan row: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx, queryUpdateCategory,
		category.Name, category.Description, category.Color, category.ID)
	updated, err := scanCategory(row, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		if mapped := mapWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("store: UpdateCategory failed to scan row: %w", err)
	}
	return updated, nil
}

// DeleteCategory locks the category row, re-counts its active products and
// deletes it inside one transaction. Product inserts referencing the category
// block on the row lock through their foreign key check.
func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	var locked int64
	if err := tx.QueryRowContext(ctx, queryLockCategory, id).Scan(&locked); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrCategoryNotFound
		}
		return fmt.Errorf("store: DeleteCategory failed to lock category: %w", err)
	}

	var active int
	if err := tx.QueryRowContext(ctx, queryCountActiveByCategory, id).Scan(&active); err != nil {
		return fmt.Errorf("store: DeleteCategory failed to count products: %w", err)
	}
	if active > 0 {
		s.logger.Debug("category delete refused", zap.Int64("category_id", id), zap.Int("active_products", active))
		return &CategoryInUseError{ActiveProducts: active}
	}

	if _, err := tx.ExecContext(ctx, queryDeleteCategory, id); err != nil {
		return fmt.Errorf("store: DeleteCategory failed to execute delete: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: DeleteCategory failed to commit: %w", err)
	}
	return nil
}
