package api

import (
	"crypto/subtle"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"shareit/internal/config"
	"shareit/internal/domain"
	"shareit/internal/models"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

var errPermissionDenied = fmt.Errorf("permission denied")

// HTTPAuth provides API-key auth and per-key rate limiting for HTTP endpoints.
// When no keys are configured the middleware only rate-limits. Requests that
// carry a user identity are counted in the shared cache, so several instances
// behind one balancer see a single budget; the in-process limiter covers
// anonymous clients and cache outages.
type HTTPAuth struct {
	cfg      config.APIConfig
	clients  map[string]config.APIClientKey
	cache    domain.ViewCache
	logger   *zerolog.Logger
	limiters sync.Map // map[string]*rate.Limiter
}

func NewHTTPAuth(cfg config.APIConfig, cache domain.ViewCache, logger *zerolog.Logger) *HTTPAuth {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	m := make(map[string]config.APIClientKey, len(cfg.Auth.APIKeys))
	for _, k := range cfg.Auth.APIKeys {
		m[k.Key] = k
	}
	return &HTTPAuth{cfg: cfg, clients: m, cache: cache, logger: logger}
}

func (a *HTTPAuth) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.cfg.Auth.Enabled {
			if err := a.checkAuth(r); err != nil {
				statusCode := http.StatusUnauthorized
				if err == errPermissionDenied {
					statusCode = http.StatusForbidden
				}
				writeError(w, statusCode, err.Error())
				return
			}
		}

		if err := a.checkRateLimit(r); err != nil {
			writeError(w, http.StatusTooManyRequests, err.Error())
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (a *HTTPAuth) checkAuth(r *http.Request) error {
	apiKeyHeader := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if apiKeyHeader == "" {
		apiKeyHeader = "x-api-key"
	}
	extraHeader := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderExtra))
	if extraHeader == "" {
		extraHeader = "x-api-extra"
	}

	apiKey := strings.TrimSpace(r.Header.Get(apiKeyHeader))
	extra := strings.TrimSpace(r.Header.Get(extraHeader))
	if apiKey == "" || extra == "" {
		return fmt.Errorf("missing api key headers")
	}

	client, ok := a.clients[apiKey]
	if !ok {
		return fmt.Errorf("invalid api key")
	}
	if subtle.ConstantTimeCompare([]byte(client.Extra), []byte(extra)) != 1 {
		return fmt.Errorf("invalid extra header")
	}

	return a.checkPermissions(client, r)
}

// checkPermissions matches read/write permissions against the HTTP method.
// An empty permissions list allows everything.
func (a *HTTPAuth) checkPermissions(client config.APIClientKey, r *http.Request) error {
	required := "write"
	switch r.Method {
	case http.MethodGet, http.MethodHead:
		required = "read"
	}
	if len(client.Permissions) == 0 {
		return nil
	}
	for _, p := range client.Permissions {
		if strings.TrimSpace(p) == required {
			return nil
		}
	}
	return errPermissionDenied
}

func (a *HTTPAuth) checkRateLimit(r *http.Request) error {
	if a.cfg.RateLimit.RPS <= 0 {
		return nil
	}

	if a.cache != nil {
		if userID, err := strconv.ParseInt(strings.TrimSpace(r.Header.Get(sharerHeader)), 10, 64); err == nil && userID > 0 {
			allowed, err := a.cache.CheckRateLimit(r.Context(), userID, models.RateLimitRequests, models.RateLimitWindow*time.Second)
			if err == nil {
				if !allowed {
					return fmt.Errorf("rate limit exceeded")
				}
				return nil
			}
			a.logger.Warn().Err(err).Msg("Rate limit cache unavailable, using local limiter")
		}
	}

	key := a.clientKey(r)
	lim := a.getLimiter(key)
	if !lim.Allow() {
		return fmt.Errorf("rate limit exceeded")
	}
	return nil
}

// clientKey prefers the per-user identity header, then the api key, then
// the remote host.
func (a *HTTPAuth) clientKey(r *http.Request) string {
	if userID := strings.TrimSpace(r.Header.Get(sharerHeader)); userID != "" {
		return "user:" + userID
	}

	apiKeyHeader := strings.TrimSpace(strings.ToLower(a.cfg.Auth.HeaderAPIKey))
	if apiKeyHeader == "" {
		apiKeyHeader = "x-api-key"
	}
	if apiKey := strings.TrimSpace(r.Header.Get(apiKeyHeader)); apiKey != "" {
		return apiKey
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return "unknown"
}

func (a *HTTPAuth) getLimiter(key string) *rate.Limiter {
	if v, ok := a.limiters.Load(key); ok {
		return v.(*rate.Limiter)
	}

	burst := a.cfg.RateLimit.Burst
	if burst <= 0 {
		burst = 5
	}

	lim := rate.NewLimiter(rate.Limit(a.cfg.RateLimit.RPS), burst)
	actual, loaded := a.limiters.LoadOrStore(key, lim)
	if loaded {
		return actual.(*rate.Limiter)
	}
	return lim
}
