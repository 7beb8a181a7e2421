package api

import (
	"net/http"

	"inventory-service/internal/service"
	"inventory-service/internal/validation"
)

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.ListProducts(r.Context())
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgFetchProductsFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, ListResponse{Success: true, Data: products, Count: len(products)})
}

func (h *HTTPHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, validation.MsgInvalidProductID)
	if !ok {
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgFetchProductFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Data: product})
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var payload validation.ProductPayload
	if !h.decode(w, r, &payload) {
		return
	}
	input, err := h.validator.Product(payload)
	if err != nil {
		h.respondWithValidationError(w, r, err, service.MsgCreateProductFailed)
		return
	}

	product, err := h.products.CreateProduct(r.Context(), input)
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgCreateProductFailed)
		return
	}
	respondWithJSON(w, http.StatusCreated, DataResponse{
		Success: true,
		Message: "Product created successfully",
		Data:    product,
	})
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, validation.MsgInvalidProductID)
	if !ok {
		return
	}
	var payload validation.ProductPayload
	if !h.decode(w, r, &payload) {
		return
	}
	input, err := h.validator.Product(payload)
	if err != nil {
		h.respondWithValidationError(w, r, err, service.MsgUpdateProductFailed)
		return
	}

	product, err := h.products.UpdateProduct(r.Context(), id, input)
	if err != nil {
		h.respondWithServiceError(w, r, err, service.MsgUpdateProductFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{
		Success: true,
		Message: "Product updated successfully",
		Data:    product,
	})
}

// DeleteProduct soft-deletes; the row stays in storage with is_active = false.
func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, validation.MsgInvalidProductID)
	if !ok {
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		h.respondWithServiceError(w, r, err, service.MsgDeleteProductFailed)
		return
	}
	respondWithJSON(w, http.StatusOK, DataResponse{Success: true, Message: "Product deleted successfully"})
}
