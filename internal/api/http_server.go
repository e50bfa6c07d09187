package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/logging"
	"shareit/internal/ratelimit"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Services bundles the domain services the HTTP layer dispatches to.
type Services struct {
	Users    domain.UserService
	Items    domain.ItemService
	Bookings domain.BookingService
	Requests domain.RequestService
}

// Pinger reports storage health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HTTPServer exposes the ShareIt REST API.
type HTTPServer struct {
	cfg      config.APIConfig
	pages    config.PaginationConfig
	services Services
	db       Pinger
	limiter  ratelimit.Limiter
	validate *validator.Validate
	logger   *zerolog.Logger
	server   *http.Server
}

// NewHTTPServer wires routes and middlewares. A nil limiter disables rate limiting.
func NewHTTPServer(
	cfg *config.Config,
	services Services,
	db Pinger,
	limiter ratelimit.Limiter,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		cfg:      cfg.API,
		pages:    cfg.Pagination,
		services: services,
		db:       db,
		limiter:  limiter,
		validate: newValidator(),
		logger:   logger,
	}

	mux := http.NewServeMux()
	srv.routes(mux)

	handler := chain(mux,
		srv.requestIDMiddleware,
		srv.loggingMiddleware,
		srv.recoverMiddleware,
		srv.authMiddleware,
		srv.rateLimitMiddleware,
	)

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
	}

	return srv
}

func (s *HTTPServer) routes(mux *http.ServeMux) {
	s.handle(mux, "GET /healthz", s.handleHealth)

	s.handle(mux, "GET /users", s.handleListUsers)
	s.handle(mux, "GET /users/{id}", s.handleGetUser)
	s.handle(mux, "POST /users", s.handleCreateUser)
	s.handle(mux, "PATCH /users/{id}", s.handleUpdateUser)
	s.handle(mux, "DELETE /users/{id}", s.handleDeleteUser)

	s.handle(mux, "GET /items", s.handleListItems)
	s.handle(mux, "GET /items/search", s.handleSearchItems)
	s.handle(mux, "GET /items/{id}", s.handleGetItem)
	s.handle(mux, "POST /items", s.handleCreateItem)
	s.handle(mux, "PATCH /items/{id}", s.handleUpdateItem)
	s.handle(mux, "DELETE /items/{id}", s.handleDeleteItem)
	s.handle(mux, "POST /items/{id}/comment", s.handleAddComment)

	s.handle(mux, "GET /bookings", s.handleListBookerBookings)
	s.handle(mux, "GET /bookings/owner", s.handleListOwnerBookings)
	s.handle(mux, "GET /bookings/owner/export", s.handleExportOwnerBookings)
	s.handle(mux, "GET /bookings/{id}", s.handleGetBooking)
	s.handle(mux, "POST /bookings", s.handleCreateBooking)
	s.handle(mux, "PATCH /bookings/{id}", s.handleSetBookingStatus)

	s.handle(mux, "GET /requests", s.handleListOwnRequests)
	s.handle(mux, "GET /requests/all", s.handleListAllRequests)
	s.handle(mux, "GET /requests/{id}", s.handleGetRequest)
	s.handle(mux, "POST /requests", s.handleCreateRequest)
}

// handle registers h and records its metrics under the route pattern.
func (s *HTTPServer) handle(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, metricsMiddleware(pattern, h))
}

// Handler returns the fully wrapped handler, used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.db != nil {
		if err := s.db.Ping(r.Context()); err != nil {
			logging.Ctx(r.Context(), s.logger).Error().Err(err).Msg("health check failed")
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, map[string]string{"errorMessage": message})
}

// fail maps a service error onto its HTTP status; 5xx causes are logged.
func (s *HTTPServer) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(domain.KindOf(err))
	if status >= http.StatusInternalServerError {
		logging.Ctx(r.Context(), s.logger).Error().
			Err(err).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Msg("request failed")
	}
	writeError(w, status, domain.MessageOf(err))
}

func statusFor(kind domain.Kind) int {
	switch kind {
	case domain.KindValidation:
		return http.StatusBadRequest
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
