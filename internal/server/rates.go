package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/parkqr/parking/internal/storage"
)

func (s *Server) handleListRates(w http.ResponseWriter, r *http.Request) {
	listing, err := s.storage.ListRates(r.Context())
	if err != nil {
		s.respondStorageError(w, "fetching parking rates", err)
		return
	}
	if listing.Degraded {
		w.Header().Set(degradedHeader, "true")
	}
	respondJSON(w, http.StatusOK, listing.Rates)
}

func (s *Server) handleUpdateRate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing rate ID")
		return
	}

	var rateRequest struct {
		Price *storage.Money `json:"price"`
	}
	if err := decodeJSON(w, r, &rateRequest); err != nil || rateRequest.Price == nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: price is required")
		return
	}

	rate, err := s.storage.UpdateRate(r.Context(), id, *rateRequest.Price)
	if err != nil {
		s.respondStorageError(w, "updating parking rate", err)
		return
	}
	respondJSON(w, http.StatusOK, rate)
}
