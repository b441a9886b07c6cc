package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
)

type createItemRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *int64 `json:"request_id"`
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body createItemRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if body.Available == nil {
		writeError(w, http.StatusBadRequest, "available is required")
		return
	}

	item := &models.Item{
		Name:        body.Name,
		Description: body.Description,
		Available:   *body.Available,
		RequestID:   body.RequestID,
	}

	created, err := s.items.CreateItem(r.Context(), ownerID, item)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var patch models.ItemPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	updated, err := s.items.UpdateItem(r.Context(), ownerID, itemID, &patch)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	view, err := s.items.GetItem(r.Context(), userID, itemID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

func (s *Server) handleGetUserItems(w http.ResponseWriter, r *http.Request) {
	ownerID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	from, size, err := pagination(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	views, err := s.items.GetUserItems(r.Context(), ownerID, from, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if views == nil {
		views = []models.ItemWithBookings{}
	}

	writeJSON(w, http.StatusOK, views)
}

func (s *Server) handleSearchItems(w http.ResponseWriter, r *http.Request) {
	if _, err := sharerID(r); err != nil {
		s.respondError(w, r, err)
		return
	}

	from, size, err := pagination(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	items, err := s.items.SearchItems(r.Context(), r.URL.Query().Get("text"), from, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	authorID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	itemID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	comment, err := s.items.CreateComment(r.Context(), authorID, itemID, body.Text)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, comment)
}
