package api

import (
	"net/http"
	"time"

	"inventory-service/internal/logging"
	"inventory-service/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// RouterConfig carries the cross-cutting settings of the HTTP surface.
type RouterConfig struct {
	AllowedOrigins []string
	RequestTimeout time.Duration
	Logger         *zap.Logger
	Metrics        *metrics.Metrics // optional; /metrics is only mounted when set
}

// NewRouter builds the chi router with the base middleware stack and every route.
func NewRouter(h *HTTPHandler, cfg RouterConfig) *chi.Mux {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(logging.Middleware(logger))
	r.Use(recoverer(logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:       origins,
		AllowedMethods:       []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:       []string{"Content-Type"},
		AllowCredentials:     true,
		OptionsSuccessStatus: http.StatusOK,
	}).Handler)
	r.Use(optionsOK)
	if cfg.RequestTimeout > 0 {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
	}

	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}
	h.RegisterRoutes(r)
	return r
}

// optionsOK answers bare OPTIONS requests that are not CORS preflights.
func optionsOK(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// recoverer turns a handler panic into the generic 500 envelope.
func recoverer(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.FromContext(r.Context(), logger).Error("panic recovered",
					zap.Any("panic", rec),
					zap.Stack("stack"),
				)
				respondWithError(w, http.StatusInternalServerError, ErrorResponse{
					Error:   msgInternalError,
					Message: msgSomethingWrong,
				})
			}()
			next.ServeHTTP(w, r)
		})
	}
}
