package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultCategoryColor is substituted whenever a category has no stored color.
const DefaultCategoryColor = "#6B7280"

// TimestampLayout is the UTC millisecond ISO 8601 form of every timestamp in
// an API response.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

// Timestamp is a time that encodes with TimestampLayout.
type Timestamp struct {
	time.Time
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(TimestampLayout) + `"`), nil
}

// Category is a stored category row. ActiveProducts is derived from the
// products table and only counts rows with is_active = true.
type Category struct {
	ID             int64
	Name           string
	Description    *string
	Color          *string
	ActiveProducts int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ColorOrDefault returns the stored color, or DefaultCategoryColor when none is set.
func (c *Category) ColorOrDefault() string {
	return colorOrDefault(c.Color)
}

// Product is a stored product row joined with the name and color of its category.
type Product struct {
	ID            int64
	Name          string
	Description   *string
	Quantity      int
	Unit          string
	Price         decimal.NullDecimal // NUMERIC(12,2), NULL when no price was supplied
	CategoryID    int64
	CategoryName  string
	CategoryColor *string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CategoryInput is a validated, normalized category payload.
type CategoryInput struct {
	Name        string
	Description *string
	Color       *string
}

// ProductInput is a validated, normalized product payload.
// PriceSet is false when the payload carried no price at all; Price is only
// Valid for strictly positive values.
type ProductInput struct {
	Name        string
	Description *string
	Quantity    int
	Unit        string
	CategoryID  int64
	Price       decimal.NullDecimal
	PriceSet    bool
}

// CategoryView is the API shape of a category.
type CategoryView struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Description  *string   `json:"description"`
	Color        string    `json:"color"`
	ProductCount int       `json:"productCount"`
	CreatedAt    Timestamp `json:"createdAt"`
	UpdatedAt    Timestamp `json:"updatedAt"`
}

// CategoryDetailView is a category together with its active products.
type CategoryDetailView struct {
	CategoryView
	Products []CategoryProductView `json:"products"`
}

// CategoryProductView is the trimmed product shape nested in a category response.
type CategoryProductView struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Quantity int      `json:"quantity"`
	Unit     string   `json:"unit"`
	Price    *float64 `json:"price"`
}

// ProductView is the flattened API shape of a product: the category is
// reduced to its name and color.
type ProductView struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Description   *string   `json:"description"`
	Quantity      int       `json:"quantity"`
	Unit          string    `json:"unit"`
	Price         *float64  `json:"price"`
	CategoryID    int64     `json:"categoryId"`
	Category      string    `json:"category"`
	CategoryColor string    `json:"categoryColor"`
	CreatedAt     Timestamp `json:"createdAt"`
	UpdatedAt     Timestamp `json:"updatedAt"`
}

// NewCategoryView shapes a stored category.
func NewCategoryView(c *Category) CategoryView {
	return CategoryView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Color:        c.ColorOrDefault(),
		ProductCount: c.ActiveProducts,
		CreatedAt:    Timestamp{Time: c.CreatedAt},
		UpdatedAt:    Timestamp{Time: c.UpdatedAt},
	}
}

// NewCategoryDetailView shapes a stored category and its active products.
func NewCategoryDetailView(c *Category, products []Product) CategoryDetailView {
	v := CategoryDetailView{
		CategoryView: NewCategoryView(c),
		Products:     make([]CategoryProductView, 0, len(products)),
	}
	for _, p := range products {
		v.Products = append(v.Products, CategoryProductView{
			ID:       p.ID,
			Name:     p.Name,
			Quantity: p.Quantity,
			Unit:     p.Unit,
			Price:    PriceFloat(p.Price),
		})
	}
	return v
}

// NewProductView flattens a stored product.
func NewProductView(p *Product) ProductView {
	return ProductView{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Quantity:      p.Quantity,
		Unit:          p.Unit,
		Price:         PriceFloat(p.Price),
		CategoryID:    p.CategoryID,
		Category:      p.CategoryName,
		CategoryColor: colorOrDefault(p.CategoryColor),
		CreatedAt:     Timestamp{Time: p.CreatedAt},
		UpdatedAt:     Timestamp{Time: p.UpdatedAt},
	}
}

// PriceFloat converts a stored price to its JSON form. NULL and zero become nil.
func PriceFloat(price decimal.NullDecimal) *float64 {
	if !price.Valid || price.Decimal.IsZero() {
		return nil
	}
	f := price.Decimal.InexactFloat64()
	return &f
}

func colorOrDefault(color *string) string {
	if color == nil || *color == "" {
		return DefaultCategoryColor
	}
	return *color
}
