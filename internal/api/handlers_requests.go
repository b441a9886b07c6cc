package api

import (
	"encoding/json"
	"net/http"

	"shareit/internal/models"
)

func (s *Server) handleCreateRequest(w http.ResponseWriter, r *http.Request) {
	requesterID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var body struct {
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	request, err := s.requests.CreateRequest(r.Context(), requesterID, body.Description)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, request)
}

func (s *Server) handleGetUserRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requests, err := s.requests.GetUserRequests(r.Context(), userID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if requests == nil {
		requests = []models.ItemRequestWithItems{}
	}

	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetOtherRequests(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	from, size, err := pagination(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requests, err := s.requests.GetOtherRequests(r.Context(), userID, from, size)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	if requests == nil {
		requests = []models.ItemRequestWithItems{}
	}

	writeJSON(w, http.StatusOK, requests)
}

func (s *Server) handleGetRequest(w http.ResponseWriter, r *http.Request) {
	userID, err := sharerID(r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	requestID, err := pathID(r, "id")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	request, err := s.requests.GetRequest(r.Context(), userID, requestID)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, request)
}
