package api

import (
	"context"
	"net/http"
	"testing"
	"time"

	"inventory-service/internal/domain"
	"inventory-service/internal/service"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductService is a mock implementation of ProductService
type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListProducts(ctx context.Context) ([]domain.ProductView, error) {
	args := m.Called(ctx)
	var products []domain.ProductView
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.ProductView)
	}
	return products, args.Error(1)
}

func (m *MockProductService) GetProduct(ctx context.Context, id int64) (domain.ProductView, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.ProductView), args.Error(1)
}

func (m *MockProductService) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.ProductView, error) {
	args := m.Called(ctx, input)
	return args.Get(0).(domain.ProductView), args.Error(1)
}

func (m *MockProductService) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (domain.ProductView, error) {
	args := m.Called(ctx, id, input)
	return args.Get(0).(domain.ProductView), args.Error(1)
}

func (m *MockProductService) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func sampleProductView(id int64, price *float64) domain.ProductView {
	now := time.Now().UTC()
	return domain.ProductView{
		ID: id, Name: "Tomatoes", Quantity: 150, Unit: "kg", Price: price,
		CategoryID: 1, Category: "Vegetables", CategoryColor: "#4CAF50",
		CreatedAt: domain.Timestamp{Time: now}, UpdatedAt: domain.Timestamp{Time: now},
	}
}

func TestHTTPHandler_ListProducts(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("ListProducts", mock.Anything).Return([]domain.ProductView{
		sampleProductView(2, PtrTo(2.5)),
		sampleProductView(1, nil),
	}, nil).Once()

	res := doJSON(t, http.MethodGet, server.URL+"/api/products", nil)

	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(2), body["count"])
	data := body["data"].([]any)
	first := data[0].(map[string]any)
	assert.Equal(t, 2.5, first["price"])
	assert.Equal(t, "Vegetables", first["category"])
	assert.Equal(t, "#4CAF50", first["categoryColor"])
	assert.Nil(t, data[1].(map[string]any)["price"])
}

func TestHTTPHandler_ListProducts_Empty(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("ListProducts", mock.Anything).Return([]domain.ProductView{}, nil).Once()

	res := doJSON(t, http.MethodGet, server.URL+"/api/products", nil)

	require.Equal(t, http.StatusOK, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, float64(0), body["count"])
}

func TestHTTPHandler_GetProduct_NotFound(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("GetProduct", mock.Anything, int64(3)).
		Return(domain.ProductView{}, &service.Error{Kind: service.KindNotFound, Message: service.MsgProductNotFound}).Once()

	res := doJSON(t, http.MethodGet, server.URL+"/api/products/3", nil)

	require.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, map[string]any{"error": "Product not found"}, decodeBody(t, res))
}

func TestHTTPHandler_CreateProduct_Success(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in domain.ProductInput) bool {
		return in.Name == "Kale" && in.Quantity == 10 && in.Unit == "bunch" && in.CategoryID == 1 &&
			in.PriceSet && in.Price.Valid && in.Price.Decimal.Equal(decimal.NewFromFloat(5.5))
	})).Return(sampleProductView(9, PtrTo(5.5)), nil).Once()

	res := doJSON(t, http.MethodPost, server.URL+"/api/products", map[string]any{
		"name": "Kale", "quantity": 10, "unit": "bunch", "price": 5.5, "categoryId": 1,
	})

	require.Equal(t, http.StatusCreated, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Product created successfully", body["message"])
	assert.Equal(t, 5.5, body["data"].(map[string]any)["price"])
	ps.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_ZeroPriceIsNull(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in domain.ProductInput) bool {
		return in.PriceSet && !in.Price.Valid
	})).Return(sampleProductView(9, nil), nil).Once()

	res := doJSON(t, http.MethodPost, server.URL+"/api/products", map[string]any{
		"name": "Kale", "quantity": 0, "unit": "kg", "price": 0, "categoryId": 1,
	})

	require.Equal(t, http.StatusCreated, res.StatusCode)
	data := decodeBody(t, res)["data"].(map[string]any)
	assert.Contains(t, data, "price")
	assert.Nil(t, data["price"])
}

func TestHTTPHandler_CreateProduct_Validation(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	res := doJSON(t, http.MethodPost, server.URL+"/api/products", map[string]any{
		"name": "Kale", "quantity": -1, "unit": "kg", "categoryId": 1,
	})

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, []any{map[string]any{"field": "quantity", "msg": "Quantity must be a non-negative integer"}}, body["details"])
	ps.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestHTTPHandler_CreateProduct_EmptyBody(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	res := doJSON(t, http.MethodPost, server.URL+"/api/products", nil)

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Len(t, body["details"], 4, "name, quantity, unit and categoryId are all reported")
}

func TestHTTPHandler_CreateProduct_NonIntegerQuantityCollectsAllViolations(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	res := doJSON(t, http.MethodPost, server.URL+"/api/products",
		`{"name":"","quantity":1.5,"unit":"","categoryId":0}`)

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Validation failed", body["error"])
	assert.Equal(t, []any{
		map[string]any{"field": "name", "msg": "Product name is required"},
		map[string]any{"field": "quantity", "msg": "Quantity must be a non-negative integer"},
		map[string]any{"field": "unit", "msg": "Unit is required"},
		map[string]any{"field": "categoryId", "msg": "Valid category ID is required"},
	}, body["details"])
	ps.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestHTTPHandler_CreateProduct_NumericStrings(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("CreateProduct", mock.Anything, mock.MatchedBy(func(in domain.ProductInput) bool {
		return in.Quantity == 4 && in.CategoryID == 2 && in.Price.Valid &&
			in.Price.Decimal.Equal(decimal.RequireFromString("3.99"))
	})).Return(sampleProductView(9, PtrTo(3.99)), nil).Once()

	res := doJSON(t, http.MethodPost, server.URL+"/api/products",
		`{"name":"Leeks","quantity":"4","unit":"kg","categoryId":"2","price":"3.99"}`)

	require.Equal(t, http.StatusCreated, res.StatusCode)
	ps.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_MalformedJSON(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	res := doJSON(t, http.MethodPost, server.URL+"/api/products", `{"name":"Leeks","quantity":`)

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	body := decodeBody(t, res)
	assert.Equal(t, "Invalid request payload", body["error"])
	assert.NotContains(t, body, "details")
}

func TestHTTPHandler_CreateProduct_UnknownCategory(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("CreateProduct", mock.Anything, mock.Anything).
		Return(domain.ProductView{}, &service.Error{Kind: service.KindInvalidReference, Message: service.MsgInvalidCategoryID}).Once()

	res := doJSON(t, http.MethodPost, server.URL+"/api/products", map[string]any{
		"name": "Kale", "quantity": 1, "unit": "kg", "categoryId": 999,
	})

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Equal(t, map[string]any{"error": "Invalid category ID"}, decodeBody(t, res))
}

func TestHTTPHandler_UpdateProduct_PriceOmitted(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("UpdateProduct", mock.Anything, int64(3), mock.MatchedBy(func(in domain.ProductInput) bool {
		return !in.PriceSet && in.Description != nil && *in.Description == "Yellow"
	})).Return(sampleProductView(3, PtrTo(1.2)), nil).Once()

	res := doJSON(t, http.MethodPut, server.URL+"/api/products/3", map[string]any{
		"name": "Onions", "description": " Yellow ", "quantity": 5, "unit": "kg", "categoryId": 1,
	})

	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "Product updated successfully", decodeBody(t, res)["message"])
	ps.AssertExpectations(t)
}

func TestHTTPHandler_UpdateProduct_InvalidID(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	res := doJSON(t, http.MethodPut, server.URL+"/api/products/x", map[string]any{"name": "Onions"})

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	details := decodeBody(t, res)["details"].([]any)
	assert.Equal(t, "Valid product ID is required", details[0].(map[string]any)["msg"])
}

func TestHTTPHandler_DeleteProduct(t *testing.T) {
	ps := new(MockProductService)
	server := setupTestServer(t, nil, ps)

	ps.On("DeleteProduct", mock.Anything, int64(3)).Return(nil).Once()
	ps.On("DeleteProduct", mock.Anything, int64(3)).
		Return(&service.Error{Kind: service.KindNotFound, Message: service.MsgProductNotFound}).Once()

	res := doJSON(t, http.MethodDelete, server.URL+"/api/products/3", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, map[string]any{"success": true, "message": "Product deleted successfully"}, decodeBody(t, res))

	res = doJSON(t, http.MethodDelete, server.URL+"/api/products/3", nil)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	ps.AssertExpectations(t)
}
