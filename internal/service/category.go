package service

import (
	"context"
	"errors"
	"fmt"

	"inventory-service/internal/domain"
	"inventory-service/internal/store"

	"go.uber.org/zap"
)

const (
	entityCategory = "category"
	entityProduct  = "product"

	actionCreated = "created"
	actionUpdated = "updated"
	actionDeleted = "deleted"
)

// Recorder is notified after every successful write.
type Recorder interface {
	RecordMutation(entity, action string)
}

type nopRecorder struct{}

func (nopRecorder) RecordMutation(string, string) {}

// CategoryService implements the category operations.
type CategoryService struct {
	categories store.CategoryStorer
	products   store.ProductStorer
	recorder   Recorder
	logger     *zap.Logger
}

// NewCategoryService wires a CategoryService. logger and recorder may be nil.
func NewCategoryService(categories store.CategoryStorer, products store.ProductStorer, logger *zap.Logger, recorder Recorder) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	return &CategoryService{
		categories: categories,
		products:   products,
		recorder:   recorder,
		logger:     logger.Named("categories"),
	}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]domain.CategoryView, error) {
	categories, err := s.categories.ListCategories(ctx)
	if err != nil {
		return nil, internal(MsgFetchCategoriesFailed, err)
	}
	views := make([]domain.CategoryView, 0, len(categories))
	for i := range categories {
		views = append(views, domain.NewCategoryView(&categories[i]))
	}
	return views, nil
}

// GetCategory returns the category with its active products ordered by name.
func (s *CategoryService) GetCategory(ctx context.Context, id int64) (domain.CategoryDetailView, error) {
	category, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return domain.CategoryDetailView{}, notFound(MsgCategoryNotFound, err)
		}
		return domain.CategoryDetailView{}, internal(MsgFetchCategoryFailed, err)
	}
	products, err := s.products.ListProductsByCategory(ctx, id)
	if err != nil {
		return domain.CategoryDetailView{}, internal(MsgFetchCategoryFailed, err)
	}
	return domain.NewCategoryDetailView(category, products), nil
}

// CreateCategory persists a new category. The color defaults to DefaultCategoryColor.
func (s *CategoryService) CreateCategory(ctx context.Context, input domain.CategoryInput) (domain.CategoryView, error) {
	taken, err := s.categories.CategoryNameTaken(ctx, input.Name, 0)
	if err != nil {
		return domain.CategoryView{}, internal(MsgCreateCategoryFailed, err)
	}
	if taken {
		return domain.CategoryView{}, conflict(MsgCategoryNameExists, "", store.ErrCategoryNameExists)
	}

	color := domain.DefaultCategoryColor
	if input.Color != nil {
		color = *input.Color
	}
	created, err := s.categories.CreateCategory(ctx, &domain.Category{
		Name:        input.Name,
		Description: input.Description,
		Color:       &color,
	})
	if err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			return domain.CategoryView{}, conflict(MsgCategoryNameExists, "", err)
		}
		return domain.CategoryView{}, internal(MsgCreateCategoryFailed, err)
	}

	s.recorder.RecordMutation(entityCategory, actionCreated)
	s.logger.Info("category created", zap.Int64("category_id", created.ID), zap.String("name", created.Name))
	return domain.NewCategoryView(created), nil
}

// UpdateCategory replaces name and description. An omitted color keeps the stored one.
func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, input domain.CategoryInput) (domain.CategoryView, error) {
	existing, err := s.categories.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return domain.CategoryView{}, notFound(MsgCategoryNotFound, err)
		}
		return domain.CategoryView{}, internal(MsgUpdateCategoryFailed, err)
	}

	taken, err := s.categories.CategoryNameTaken(ctx, input.Name, id)
	if err != nil {
		return domain.CategoryView{}, internal(MsgUpdateCategoryFailed, err)
	}
	if taken {
		return domain.CategoryView{}, conflict(MsgCategoryNameExists, "", store.ErrCategoryNameExists)
	}

	color := existing.Color
	if input.Color != nil {
		color = input.Color
	}
	updated, err := s.categories.UpdateCategory(ctx, &domain.Category{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Color:       color,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrCategoryNotFound):
			return domain.CategoryView{}, notFound(MsgCategoryNotFound, err)
		case errors.Is(err, store.ErrCategoryNameExists):
			return domain.CategoryView{}, conflict(MsgCategoryNameExists, "", err)
		}
		return domain.CategoryView{}, internal(MsgUpdateCategoryFailed, err)
	}

	s.recorder.RecordMutation(entityCategory, actionUpdated)
	s.logger.Info("category updated", zap.Int64("category_id", id))
	return domain.NewCategoryView(updated), nil
}

// DeleteCategory removes a category that has no active products.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.categories.DeleteCategory(ctx, id)
	if err != nil {
		var inUse *store.CategoryInUseError
		switch {
		case errors.Is(err, store.ErrCategoryNotFound):
			return notFound(MsgCategoryNotFound, err)
		case errors.As(err, &inUse):
			detail := fmt.Sprintf("This category has %d active product(s). Please move or delete the products first.", inUse.ActiveProducts)
			return conflict(MsgCategoryHasProducts, detail, err)
		}
		return internal(MsgDeleteCategoryFailed, err)
	}

	s.recorder.RecordMutation(entityCategory, actionDeleted)
	s.logger.Info("category deleted", zap.Int64("category_id", id))
	return nil
}
