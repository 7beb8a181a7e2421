package api

import (
	"net/http"

	"inventory-service/internal/service"
	"inventory-service/internal/validation"
)

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.ListCategories(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgFetchCategoriesFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, ListResponse{Success: true, Data: categories, Count: len(categories)})
}

func (h *HTTPHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, validation.MsgInvalidCategoryID)
	if !ok {
		return
	}

	category, err := h.categories.GetCategory(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgFetchCategoryFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Data: category})
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var payload validation.CategoryPayload
	if !h.decode(w, r, &payload) {
		return
	}
	input, err := h.validator.Category(payload)
	if err != nil {
		h.respondWithValidationError(w, r, err, service.MsgCreateCategoryFailed)
		return
	}

	category, err := h.categories.CreateCategory(r.Context(), input)
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgCreateCategoryFailed)
		return
	}
	respondWithJSON(w, http.StatusCreated, DataResponse{
		Success: true,
		Message: "Category created successfully",
		Data:    category,
	})
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, validation.MsgInvalidCategoryID)
	if !ok {
		return
	}
	var payload validation.CategoryPayload
	if !h.decode(w, r, &payload) {
		return
	}
	input, err := h.validator.Category(payload)
	if err != nil {
		h.respondWithValidationError(w, r, err, service.MsgUpdateCategoryFailed)
		return
	}

	category, err := h.categories.UpdateCategory(r.Context(), id, input)
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgUpdateCategoryFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{
		Success: true,
		Message: "Category updated successfully",
		Data:    category,
	})
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, validation.MsgInvalidCategoryID)
	if !ok {
		return
	}

	if err := h.categories.DeleteCategory(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err, service.MsgDeleteCategoryFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Message: "Category deleted successfully"})
}
