package service

import (
	"context"
	"errors"

	"inventory-service/internal/domain"
	"inventory-service/internal/store"

	"go.uber.org/zap"
)

// ProductService implements the product operations.
type ProductService struct {
	products   store.ProductStorer
	categories store.CategoryStorer
	recorder   Recorder
	logger     *zap.Logger
}

// NewProductService wires a ProductService. logger and recorder may be nil.
func NewProductService(products store.ProductStorer, categories store.CategoryStorer, logger *zap.Logger, recorder Recorder) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &ProductService{
		products:   products,
		categories: categories,
		recorder:   recorder,
		logger:     logger.Named("products"),
	}
}

// ListProducts returns all active products, newest first.
func (s *ProductService) ListProducts(ctx context.Context) ([]domain.ProductView, error) {
	products, err := s.products.ListProducts(ctx)
	if err != nil {
		return nil, internal(MsgFetchProductsFailed, err)
	}
	views := make([]domain.ProductView, 0, len(products))
	for i := range products {
		views = append(views, domain.NewProductView(&products[i]))
	}
	return views, nil
}

func (s *ProductService) GetProduct(ctx context.Context, id int64) (domain.ProductView, error) {
	product, err := s.products.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return domain.ProductView{}, notFound(MsgProductNotFound, err)
		}
		return domain.ProductView{}, internal(MsgFetchProductFailed, err)
	}
	return domain.NewProductView(product), nil
}

// CreateProduct stores a product under an existing category. The price is
// only stored when it is positive.
func (s *ProductService) CreateProduct(ctx context.Context, input domain.ProductInput) (domain.ProductView, error) {
	if err := s.requireCategory(ctx, input.CategoryID, MsgCreateProductFailed); err != nil {
		return domain.ProductView{}, err
	}

	created, err := s.products.CreateProduct(ctx, &domain.Product{
		Name:        input.Name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
	})
	if err != nil {
		if errors.Is(err, store.ErrInvalidCategory) {
			return domain.ProductView{}, invalidReference(err)
		}
		return domain.ProductView{}, internal(MsgCreateProductFailed, err)
	}

	s.recorder.RecordMutation(entityProduct, actionCreated)
	s.logger.Info("product created",
		zap.Int64("product_id", created.ID),
		zap.Int64("category_id", created.CategoryID),
	)
	return domain.NewProductView(created), nil
}

// UpdateProduct overwrites every mutable field of an active product. The price
// is only touched when the payload carried one.
func (s *ProductService) UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (domain.ProductView, error) {
	if _, err := s.products.GetProductByID(ctx, id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return domain.ProductView{}, notFound(MsgProductNotFound, err)
		}
		return domain.ProductView{}, internal(MsgUpdateProductFailed, err)
	}
	if err := s.requireCategory(ctx, input.CategoryID, MsgUpdateProductFailed); err != nil {
		return domain.ProductView{}, err
	}

	updated, err := s.products.UpdateProduct(ctx, &domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Quantity:    input.Quantity,
		Unit:        input.Unit,
		Price:       input.Price,
		CategoryID:  input.CategoryID,
	}, input.PriceSet)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			return domain.ProductView{}, notFound(MsgProductNotFound, err)
		case errors.Is(err, store.ErrInvalidCategory):
			return domain.ProductView{}, invalidReference(err)
		}
		return domain.ProductView{}, internal(MsgUpdateProductFailed, err)
	}

	s.recorder.RecordMutation(entityProduct, actionUpdated)
	s.logger.Info("product updated", zap.Int64("product_id", id))
	return domain.NewProductView(updated), nil
}

// DeleteProduct soft-deletes an active product.
func (s *ProductService) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.products.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			return notFound(MsgProductNotFound, err)
		}
		return internal(MsgDeleteProductFailed, err)
	}

	s.recorder.RecordMutation(entityProduct, actionDeleted)
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

func (s *ProductService) requireCategory(ctx context.Context, categoryID int64, failMsg string) error {
	exists, err := s.categories.CategoryExists(ctx, categoryID)
	if err != nil {
		return internal(failMsg, err)
	}
	if !exists {
		return invalidReference(store.ErrInvalidCategory)
	}
	return nil
}
