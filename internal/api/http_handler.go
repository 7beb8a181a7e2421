package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"inventory-service/internal/domain"
	"inventory-service/internal/logging"
	"inventory-service/internal/service"
	"inventory-service/internal/validation"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryService is the category behaviour the HTTP surface depends on.
type CategoryService interface {
	ListCategories(ctx context.Context) ([]domain.CategoryView, error)
	GetCategory(ctx context.Context, id int64) (domain.CategoryDetailView, error)
	CreateCategory(ctx context.Context, input domain.CategoryInput) (domain.CategoryView, error)
	UpdateCategory(ctx context.Context, id int64, input domain.CategoryInput) (domain.CategoryView, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ProductService is the product behaviour the HTTP surface depends on.
type ProductService interface {
	ListProducts(ctx context.Context) ([]domain.ProductView, error)
	GetProduct(ctx context.Context, id int64) (domain.ProductView, error)
	CreateProduct(ctx context.Context, input domain.ProductInput) (domain.ProductView, error)
	UpdateProduct(ctx context.Context, id int64, input domain.ProductInput) (domain.ProductView, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// Pinger reports database reachability for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

const (
	msgInvalidPayload = "Invalid request payload"
	msgRouteNotFound  = "Route not found"
	msgInternalError  = "Internal server error"
	msgSomethingWrong = "Something went wrong"
	msgHealthy        = "Inventory API is running"

	healthCheckTimeout = 2 * time.Second
)

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	categories   CategoryService
	products     ProductService
	db           Pinger
	validator    *validation.Validator
	logger       *zap.Logger
	exposeErrors bool
	now          func() time.Time
}

// NewHTTPHandler creates a new HTTPHandler. When exposeErrors is set, internal
// failures include the underlying error text in the response message.
func NewHTTPHandler(cs CategoryService, ps ProductService, db Pinger, logger *zap.Logger, exposeErrors bool) *HTTPHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPHandler{
		categories:   cs,
		products:     ps,
		db:           db,
		validator:    validation.New(),
		logger:       logger.Named("http"),
		exposeErrors: exposeErrors,
		now:          time.Now,
	}
}

// --- Envelopes ---

// ErrorResponse defines the structure for JSON error responses.
type ErrorResponse struct {
	Error   string                `json:"error"`
	Message string                `json:"message,omitempty"`
	Details validation.Violations `json:"details,omitempty"`
}

// ListResponse wraps a collection.
type ListResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
	Count   int  `json:"count"`
}

// DataResponse wraps a single record and, for writes, a confirmation message.
type DataResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Message   string `json:"message"`
	Database  string `json:"database"`
}

// --- Helpers ---

func respondWithJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		// Headers are already written; nothing useful can be sent.
		zap.L().Error("failed to encode JSON response", zap.Error(err))
	}
}

func respondWithError(w http.ResponseWriter, code int, resp ErrorResponse) {
	respondWithJSON(w, code, resp)
}

func statusForKind(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict, service.KindInvalidReference:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondWithServiceError maps a service error to its status and envelope.
// Foreign errors are reported as internal failures under fallbackMsg.
func (h *HTTPHandler) respondWithServiceError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	var svcErr *service.Error
	if !errors.As(err, &svcErr) {
		svcErr = &service.Error{Kind: service.KindInternal, Message: fallbackMsg, Err: err}
	}

	resp := ErrorResponse{Error: svcErr.Message, Message: svcErr.Detail, Details: svcErr.Violations}
	code := statusForKind(svcErr.Kind)
	if code == http.StatusInternalServerError {
		logging.FromContext(r.Context(), h.logger).Error("request failed",
			zap.String("operation", svcErr.Message),
			zap.Error(svcErr.Err),
		)
		resp.Message = ""
		if h.exposeErrors && svcErr.Err != nil {
			resp.Message = svcErr.Err.Error()
		}
	}
	respondWithError(w, code, resp)
}

// decode reads a JSON body into dst. An empty body leaves dst zero-valued so
// that field validation reports what is missing.
func (h *HTTPHandler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		respondWithError(w, http.StatusBadRequest, ErrorResponse{Error: msgInvalidPayload, Message: err.Error()})
		return false
	}
	return true
}

// pathID parses the {id} URL parameter, writing a 400 on failure.
func (h *HTTPHandler) pathID(w http.ResponseWriter, r *http.Request, msg string) (int64, bool) {
	id, err := validation.ParseID(chi.URLParam(r, "id"), msg)
	if err != nil {
		h.respondWithValidationError(w, r, err, "")
		return 0, false
	}
	return id, true
}

func (h *HTTPHandler) respondWithValidationError(w http.ResponseWriter, r *http.Request, err error, fallbackMsg string) {
	var violations validation.Violations
	if errors.As(err, &violations) {
		h.respondWithServiceError(w, r, service.ValidationError(violations), fallbackMsg)
		return
	}
	h.respondWithServiceError(w, r, err, fallbackMsg)
}

// --- Ops Handlers ---

// Health always answers 200; the database field reports reachability.
func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	database := "connected"
	if h.db == nil {
		database = "unknown"
	} else {
		ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			database = "disconnected"
			logging.FromContext(r.Context(), h.logger).Warn("health check database ping failed", zap.Error(err))
		}
	}

	respondWithJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format(domain.TimestampLayout),
		Message:   msgHealthy,
		Database:  database,
	})
}

// RouteNotFound answers unmatched paths and unsupported methods alike.
func (h *HTTPHandler) RouteNotFound(w http.ResponseWriter, r *http.Request) {
	respondWithError(w, http.StatusNotFound, ErrorResponse{Error: msgRouteNotFound})
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/health", h.Health)

		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.CreateProduct)
			r.Get("/{id}", h.GetProduct)
			r.Put("/{id}", h.UpdateProduct)
			r.Delete("/{id}", h.DeleteProduct)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.ListCategories)
			r.Post("/", h.CreateCategory)
			r.Get("/{id}", h.GetCategory)
			r.Put("/{id}", h.UpdateCategory)
			r.Delete("/{id}", h.DeleteCategory)
		})
	})

	r.NotFound(h.RouteNotFound)
	r.MethodNotAllowed(h.RouteNotFound)
}
