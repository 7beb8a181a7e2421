package store

import (
	"context"

	"inventory-service/internal/domain"
)

// CategoryStorer defines the database operations for categories.
// Every returned category carries its active-product count.
type CategoryStorer interface {
	ListCategories(ctx context.Context) ([]domain.Category, error) // ordered by name
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	CategoryExists(ctx context.Context, id int64) (bool, error)
	// CategoryNameTaken reports whether another category (id != excludeID) already uses name.
	CategoryNameTaken(ctx context.Context, name string, excludeID int64) (bool, error)
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	UpdateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	// DeleteCategory removes the category unless it still has active products,
	// in which case a *CategoryInUseError is returned.
	DeleteCategory(ctx context.Context, id int64) error
}

// ProductStorer defines the database operations for products.
// Reads only ever return active products, joined with their category.
type ProductStorer interface {
	ListProducts(ctx context.Context) ([]domain.Product, error) // newest first
	ListProductsByCategory(ctx context.Context, categoryID int64) ([]domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	// UpdateProduct overwrites every mutable field; the stored price is only
	// replaced when setPrice is true.
	UpdateProduct(ctx context.Context, product *domain.Product, setPrice bool) (*domain.Product, error)
	// DeleteProduct marks the product inactive. The row is kept.
	DeleteProduct(ctx context.Context, id int64) error
}
