package service

import (
	"context"
	"fmt"

	"inventory-service/internal/domain"

	"github.com/shopspring/decimal"
)

type sampleProduct struct {
	name        string
	description string
	quantity    int
	price       string
}

type sampleCategory struct {
	name        string
	description string
	color       string
	products    []sampleProduct
}

var sampleInventory = []sampleCategory{
	{
		name:        "Vegetables",
		description: "Fresh vegetables and greens",
		color:       "#4CAF50",
		products: []sampleProduct{
			{name: "Tomatoes", description: "Fresh red tomatoes", quantity: 150, price: "2.50"},
			{name: "Carrots", description: "Organic carrots", quantity: 80, price: "1.80"},
			{name: "Onions", description: "Yellow onions", quantity: 120, price: "1.20"},
		},
	},
	{
		name:        "Fruits",
		description: "Fresh fruits and berries",
		color:       "#FF9800",
		products: []sampleProduct{
			{name: "Apples", description: "Red apples", quantity: 200, price: "3.00"},
			{name: "Bananas", description: "Fresh bananas", quantity: 100, price: "2.20"},
			{name: "Oranges", description: "Valencia oranges", quantity: 150, price: "2.80"},
		},
	},
}

// SeedResult counts the rows inserted by Seed.
type SeedResult struct {
	Categories int
	Products   int
}

// Seed inserts the sample inventory through the services. It expects an empty
// database; callers reset the store first.
func Seed(ctx context.Context, categories *CategoryService, products *ProductService) (SeedResult, error) {
	var result SeedResult
	for _, sc := range sampleInventory {
		description, color := sc.description, sc.color
		category, err := categories.CreateCategory(ctx, domain.CategoryInput{
			Name:        sc.name,
			Description: &description,
			Color:       &color,
		})
		if err != nil {
			return result, fmt.Errorf("seed category %q: %w", sc.name, err)
		}
		result.Categories++

		for _, sp := range sc.products {
			description := sp.description
			price, err := decimal.NewFromString(sp.price)
			if err != nil {
				return result, fmt.Errorf("seed product %q: %w", sp.name, err)
			}
			_, err = products.CreateProduct(ctx, domain.ProductInput{
				Name:        sp.name,
				Description: &description,
				Quantity:    sp.quantity,
				Unit:        "kg",
				CategoryID:  category.ID,
				Price:       decimal.NewNullDecimal(price),
				PriceSet:    true,
			})
			if err != nil {
				return result, fmt.Errorf("seed product %q: %w", sp.name, err)
			}
			result.Products++
		}
	}
	return result, nil
}
