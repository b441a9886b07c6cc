package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"shareit/internal/config"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Gateway is the validating front tier: it rejects malformed requests
// before they reach the core service and proxies everything else upstream.
type Gateway struct {
	cfg    config.GatewayConfig
	proxy  *httputil.ReverseProxy
	logger zerolog.Logger
	server *http.Server
}

func New(cfg config.GatewayConfig, logger *zerolog.Logger) (*Gateway, error) {
	upstream, err := url.Parse(cfg.UpstreamURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse upstream url: %w", err)
	}

	g := &Gateway{
		cfg:    cfg,
		proxy:  httputil.NewSingleHostReverseProxy(upstream),
		logger: logger.With().Str("component", "gateway").Logger(),
	}

	g.proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		g.logger.Error().Err(err).Str("path", r.URL.Path).Msg("Upstream unavailable")
		writeError(w, http.StatusBadGateway, "upstream unavailable")
	}

	g.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           g.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Timeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.Timeout) * time.Second,
	}

	return g, nil
}

// Handler returns the validating handler, used directly by httptest.
func (g *Gateway) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.NewString()
			r.Header.Set("X-Request-Id", requestID)
		}

		start := time.Now()
		if err := g.validate(r); err != nil {
			g.logger.Info().
				Str("request_id", requestID).
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Str("reason", err.Error()).
				Msg("Request rejected")
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		g.proxy.ServeHTTP(w, r)

		g.logger.Info().
			Str("request_id", requestID).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("Request proxied")
	})
}

func (g *Gateway) Start() error {
	g.logger.Info().Str("addr", g.server.Addr).Msg("Gateway listening")
	if err := g.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (g *Gateway) Shutdown(ctx context.Context) error {
	return g.server.Shutdown(ctx)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
