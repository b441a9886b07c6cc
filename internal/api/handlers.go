package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"shareit/internal/database"
	"shareit/internal/models"
)

const sharerHeader = "X-Sharer-User-Id"

// sharerID extracts the caller identity header. Missing or malformed
// values are a bad request regardless of endpoint.
func sharerID(r *http.Request) (int64, error) {
	raw := strings.TrimSpace(r.Header.Get(sharerHeader))
	if raw == "" {
		return 0, fmt.Errorf("%w: missing %s header", database.ErrInvalidArgument, sharerHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed %s header %q", database.ErrInvalidArgument, sharerHeader, raw)
	}
	return id, nil
}

func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: malformed path segment %q", database.ErrInvalidArgument, raw)
	}
	return id, nil
}

// pagination parses from/size query parameters with their defaults.
func pagination(r *http.Request) (int, int, error) {
	from := 0
	size := models.DefaultPageSize

	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			return 0, 0, fmt.Errorf("%w: from must be a non-negative integer", database.ErrInvalidArgument)
		}
		from = parsed
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			return 0, 0, fmt.Errorf("%w: size must be a positive integer", database.ErrInvalidArgument)
		}
		size = parsed
	}

	return from, size, nil
}
