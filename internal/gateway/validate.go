package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"shareit/internal/models"
)

const sharerHeader = "X-Sharer-User-Id"

// validate checks the request shape before it is proxied. The core service
// re-checks business rules; the gateway only guards the wire format.
func (g *Gateway) validate(r *http.Request) error {
	if err := g.validateIdentity(r); err != nil {
		return err
	}
	if err := g.validatePagination(r); err != nil {
		return err
	}
	if err := g.validateState(r); err != nil {
		return err
	}
	return g.validateBody(r)
}

// validateIdentity requires a positive user id header on everything except
// the user CRUD surface and health probes.
func (g *Gateway) validateIdentity(r *http.Request) error {
	path := r.URL.Path
	if path == "/health" || path == "/users" || strings.HasPrefix(path, "/users/") {
		return nil
	}

	raw := strings.TrimSpace(r.Header.Get(sharerHeader))
	if raw == "" {
		return fmt.Errorf("missing %s header", sharerHeader)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return fmt.Errorf("%s must be a positive integer", sharerHeader)
	}
	return nil
}

func (g *Gateway) validatePagination(r *http.Request) error {
	if raw := strings.TrimSpace(r.URL.Query().Get("from")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			return errors.New("from must be a non-negative integer")
		}
	}
	if raw := strings.TrimSpace(r.URL.Query().Get("size")); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			return errors.New("size must be a positive integer")
		}
	}
	return nil
}

func (g *Gateway) validateState(r *http.Request) error {
	if r.Method != http.MethodGet {
		return nil
	}
	if !strings.HasPrefix(r.URL.Path, "/bookings") {
		return nil
	}
	if _, err := models.ParseSearchingState(r.URL.Query().Get("state")); err != nil {
		return err
	}
	return nil
}

func (g *Gateway) validateBody(r *http.Request) error {
	if r.Method != http.MethodPost && r.Method != http.MethodPatch {
		return nil
	}

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && path == "/bookings":
		return g.checkBody(r, g.validateCreateBooking)
	case r.Method == http.MethodPost && path == "/items":
		return g.checkBody(r, g.validateCreateItem)
	case r.Method == http.MethodPost && strings.HasPrefix(path, "/items/") && strings.HasSuffix(path, "/comment"):
		return g.checkBody(r, g.validateComment)
	case r.Method == http.MethodPost && path == "/requests":
		return g.checkBody(r, g.validateRequest)
	case r.Method == http.MethodPost && path == "/users":
		return g.checkBody(r, g.validateCreateUser)
	}
	return nil
}

// checkBody buffers the body so it can be validated and still proxied.
func (g *Gateway) checkBody(r *http.Request, check func([]byte) error) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return errors.New("failed to read request body")
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))

	if len(bytes.TrimSpace(raw)) == 0 {
		return errors.New("request body is required")
	}
	return check(raw)
}

func (g *Gateway) validateCreateBooking(raw []byte) error {
	var body struct {
		ItemID int64      `json:"item_id"`
		Start  *time.Time `json:"start"`
		End    *time.Time `json:"end"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return errors.New("invalid JSON body")
	}
	if body.ItemID <= 0 {
		return errors.New("item_id is required")
	}
	if body.Start == nil || body.End == nil {
		return errors.New("start and end are required")
	}
	now := time.Now()
	if body.Start.Before(now) {
		return errors.New("start must be in the future")
	}
	if body.End.Before(now) {
		return errors.New("end must be in the future")
	}
	if !body.Start.Before(*body.End) {
		return errors.New("start must be before end")
	}
	return nil
}

func (g *Gateway) validateCreateItem(raw []byte) error {
	var body struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		Available   *bool   `json:"available"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return errors.New("invalid JSON body")
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return errors.New("name must not be blank")
	}
	if body.Description == nil || strings.TrimSpace(*body.Description) == "" {
		return errors.New("description must not be blank")
	}
	if body.Available == nil {
		return errors.New("available is required")
	}
	return nil
}

func (g *Gateway) validateComment(raw []byte) error {
	var body struct {
		Text *string `json:"text"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return errors.New("invalid JSON body")
	}
	if body.Text == nil || strings.TrimSpace(*body.Text) == "" {
		return errors.New("text must not be blank")
	}
	return nil
}

func (g *Gateway) validateRequest(raw []byte) error {
	var body struct {
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return errors.New("invalid JSON body")
	}
	if body.Description == nil || strings.TrimSpace(*body.Description) == "" {
		return errors.New("description must not be blank")
	}
	return nil
}

func (g *Gateway) validateCreateUser(raw []byte) error {
	var body struct {
		Name  *string `json:"name"`
		Email *string `json:"email"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return errors.New("invalid JSON body")
	}
	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		return errors.New("name must not be blank")
	}
	if body.Email == nil || !strings.Contains(*body.Email, "@") {
		return errors.New("email must be a valid address")
	}
	return nil
}
