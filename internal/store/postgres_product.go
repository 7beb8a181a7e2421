package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"inventory-service/internal/domain"
)

const (
	queryListProducts = `
		SELECT p.id, p.name, p.description, p.quantity, p.unit, p.price, p.category_id,
			c.name, c.color, p.is_active, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE
		ORDER BY p.created_at DESC, p.id DESC;
	`
	queryListProductsByCategory = `
		SELECT p.id, p.name, p.description, p.quantity, p.unit, p.price, p.category_id,
			c.name, c.color, p.is_active, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE AND p.category_id = $1
		ORDER BY p.name ASC;
	`
	queryGetProduct = `
		SELECT p.id, p.name, p.description, p.quantity, p.unit, p.price, p.category_id,
			c.name, c.color, p.is_active, p.created_at, p.updated_at
		FROM products p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_active = TRUE AND p.id = $1;
	`
	queryCreateProduct = `
		WITH inserted AS (
			INSERT INTO products (name, description, quantity, unit, price, category_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, name, description, quantity, unit, price, category_id, is_active, created_at, updated_at
		)
		SELECT i.id, i.name, i.description, i.quantity, i.unit, i.price, i.category_id,
			c.name, c.color, i.is_active, i.created_at, i.updated_at
		FROM inserted i
		JOIN categories c ON c.id = i.category_id;
	`
	queryUpdateProduct = `
		WITH updated AS (
			UPDATE products
			SET name = $1, description = $2, quantity = $3, unit = $4, category_id = $5,
				price = CASE WHEN $6::BOOLEAN THEN $7::NUMERIC ELSE price END,
				updated_at = CURRENT_TIMESTAMP
			WHERE id = $8 AND is_active = TRUE
			RETURNING id, name, description, quantity, unit, price, category_id, is_active, created_at, updated_at
		)
		SELECT u.id, u.name, u.description, u.quantity, u.unit, u.price, u.category_id,
			c.name, c.color, u.is_active, u.created_at, u.updated_at
		FROM updated u
		JOIN categories c ON c.id = u.category_id;
	`
	queryDeleteProduct = `
		UPDATE products
		SET is_active = FALSE, updated_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND is_active = TRUE;
	`
)

func scanProduct(row rowScanner) (*domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.Quantity, &p.Unit, &p.Price, &p.CategoryID,
		&p.CategoryName, &p.CategoryColor, &p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PostgresStore) queryProducts(ctx context.Context, op, query string, args ...any) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("store: %s failed to query products: %w", op, err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("store: %s failed to scan product row: %w", op, err)
		}
		products = append(products, *p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: %s iteration error: %w", op, err)
	}
	return products, nil
}

// ListProducts returns every active product, newest first.
func (s *PostgresStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	return s.queryProducts(ctx, "ListProducts", queryListProducts)
}

// ListProductsByCategory returns the active products of one category ordered by name.
func (s *PostgresStore) ListProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return s.queryProducts(ctx, "ListProductsByCategory", queryListProductsByCategory, categoryID)
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	p, err := scanProduct(s.db.QueryRowContext(ctx, queryGetProduct, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, queryCreateProduct,
		product.Name, product.Description, product.Quantity, product.Unit, product.Price, product.CategoryID,
	)
	created, err := scanProduct(row)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return created, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, product *domain.Product, setPrice bool) (*domain.Product, error) {
	row := s.db.QueryRowContext(ctx, queryUpdateProduct,
		product.Name, product.Description, product.Quantity, product.Unit, product.CategoryID,
		setPrice, product.Price, product.ID,
	)
	updated, err := scanProduct(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		if mapped := mapWriteError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}
	return updated, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, queryDeleteProduct, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute update: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
