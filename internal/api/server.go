package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/export"

	"github.com/rs/zerolog"
)

// Server exposes the booking platform over HTTP. The caller identity comes
// from the X-Sharer-User-Id header; validation of request shape happens in
// the gateway, the server re-checks only what it needs for correctness.
type Server struct {
	cfg      config.ServerConfig
	bookings domain.BookingService
	items    domain.ItemService
	users    domain.UserService
	requests domain.RequestService
	exporter *export.Exporter
	auth     *HTTPAuth
	logger   zerolog.Logger
	server   *http.Server
}

func NewServer(
	cfg config.ServerConfig,
	apiCfg config.APIConfig,
	bookings domain.BookingService,
	items domain.ItemService,
	users domain.UserService,
	requests domain.RequestService,
	exporter *export.Exporter,
	cache domain.ViewCache,
	logger *zerolog.Logger,
) *Server {
	srv := &Server{
		cfg:      cfg,
		bookings: bookings,
		items:    items,
		users:    users,
		requests: requests,
		exporter: exporter,
		auth:     NewHTTPAuth(apiCfg, cache, logger),
		logger:   logger.With().Str("component", "api").Logger(),
	}

	mux := http.NewServeMux()

	mux.HandleFunc("POST /users", srv.handleCreateUser)
	mux.HandleFunc("GET /users", srv.handleGetAllUsers)
	mux.HandleFunc("GET /users/{id}", srv.handleGetUser)
	mux.HandleFunc("PATCH /users/{id}", srv.handleUpdateUser)
	mux.HandleFunc("DELETE /users/{id}", srv.handleDeleteUser)

	mux.HandleFunc("POST /items", srv.handleCreateItem)
	mux.HandleFunc("PATCH /items/{id}", srv.handleUpdateItem)
	mux.HandleFunc("GET /items/search", srv.handleSearchItems)
	mux.HandleFunc("GET /items/{id}", srv.handleGetItem)
	mux.HandleFunc("GET /items", srv.handleGetUserItems)
	mux.HandleFunc("POST /items/{id}/comment", srv.handleCreateComment)

	mux.HandleFunc("POST /bookings", srv.handleCreateBooking)
	mux.HandleFunc("PATCH /bookings/{id}", srv.handleSetBookingStatus)
	mux.HandleFunc("GET /bookings/owner", srv.handleGetOwnerBookings)
	mux.HandleFunc("GET /bookings/export", srv.handleExportBookings)
	mux.HandleFunc("GET /bookings/{id}", srv.handleGetBooking)
	mux.HandleFunc("GET /bookings", srv.handleGetBookerBookings)

	mux.HandleFunc("POST /requests", srv.handleCreateRequest)
	mux.HandleFunc("GET /requests/all", srv.handleGetOtherRequests)
	mux.HandleFunc("GET /requests/{id}", srv.handleGetRequest)
	mux.HandleFunc("GET /requests", srv.handleGetUserRequests)

	mux.HandleFunc("GET /health", srv.handleHealth)

	handler := requestIDMiddleware(srv.loggingMiddleware(srv.auth.Wrap(mux)))

	srv.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
	}

	return srv
}

// Handler returns the root handler, used directly by httptest.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start() error {
	if s.server == nil {
		return fmt.Errorf("http server is not initialized")
	}
	s.logger.Info().Str("addr", s.server.Addr).Msg("HTTP API listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
