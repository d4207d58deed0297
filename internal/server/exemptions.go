package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/parkqr/parking/internal/storage"
)

type exemptionRequest struct {
	LicensePlate *string `json:"licensePlate"`
	StaffName    *string `json:"staffName"`
	StartDate    *string `json:"startDate"`
	EndDate      *string `json:"endDate"`
	IsActive     *bool   `json:"isActive"`
}

func (req exemptionRequest) dates() (start, end *time.Time, err error) {
	if req.StartDate != nil {
		t, err := parseDate(*req.StartDate, false)
		if err != nil {
			return nil, nil, err
		}
		start = &t
	}
	if req.EndDate != nil {
		t, err := parseDate(*req.EndDate, true)
		if err != nil {
			return nil, nil, err
		}
		end = &t
	}
	return start, end, nil
}

func (s *Server) handleListExemptions(w http.ResponseWriter, r *http.Request) {
	exemptions, err := s.storage.ListExemptions(r.Context())
	if err != nil {
		s.respondStorageError(w, "fetching exemptions", err)
		return
	}
	respondJSON(w, http.StatusOK, exemptions)
}

func (s *Server) handleCreateExemption(w http.ResponseWriter, r *http.Request) {
	var req exemptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.LicensePlate == nil || req.StaffName == nil || req.StartDate == nil || req.EndDate == nil {
		respondError(w, http.StatusBadRequest, "Missing licensePlate, staffName, startDate or endDate")
		return
	}
	start, end, err := req.dates()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	exemption, err := s.storage.CreateExemption(r.Context(), storage.ExemptionInput{
		LicensePlate: *req.LicensePlate,
		StaffName:    *req.StaffName,
		StartDate:    *start,
		EndDate:      *end,
		IsActive:     req.IsActive,
	})
	if err != nil {
		s.respondStorageError(w, "creating exemption", err)
		return
	}
	respondJSON(w, http.StatusOK, exemption)
}

func (s *Server) handleUpdateExemption(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing exemption ID")
		return
	}

	var req exemptionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	start, end, err := req.dates()
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	exemption, err := s.storage.UpdateExemption(r.Context(), id, storage.ExemptionPatch{
		LicensePlate: req.LicensePlate,
		StaffName:    req.StaffName,
		StartDate:    start,
		EndDate:      end,
		IsActive:     req.IsActive,
	})
	if err != nil {
		s.respondStorageError(w, "updating exemption", err)
		return
	}
	respondJSON(w, http.StatusOK, exemption)
}

func (s *Server) handleDeleteExemption(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if id == "" {
		respondError(w, http.StatusBadRequest, "Missing exemption ID")
		return
	}

	if err := s.storage.DeleteExemption(r.Context(), id); err != nil {
		s.respondStorageError(w, "deleting exemption", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Exemption deleted successfully"})
}
