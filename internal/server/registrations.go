package server

import (
	"net/http"
	"strings"

	"github.com/parkqr/parking/internal/storage"
)

func (s *Server) handleCreateRegistration(w http.ResponseWriter, r *http.Request) {
	var registrationRequest struct {
		LicensePlate string `json:"licensePlate"`
		DurationType string `json:"durationType"`
		Email        string `json:"email"`
	}
	if err := decodeJSON(w, r, &registrationRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reg, err := s.storage.CreateRegistration(r.Context(), storage.NewRegistration{
		LicensePlate:   registrationRequest.LicensePlate,
		DurationType:   registrationRequest.DurationType,
		Email:          registrationRequest.Email,
		IdempotencyKey: strings.TrimSpace(r.Header.Get("Idempotency-Key")),
	})
	if err != nil {
		s.respondStorageError(w, "creating registration", err)
		return
	}
	respondJSON(w, http.StatusOK, reg)
}

func (s *Server) handleCreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	var intentRequest struct {
		Amount         *storage.Money `json:"amount"`
		RegistrationID string         `json:"registrationId"`
	}
	if err := decodeJSON(w, r, &intentRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if intentRequest.Amount == nil || intentRequest.RegistrationID == "" {
		respondError(w, http.StatusBadRequest, "Missing amount or registrationId")
		return
	}

	secret, err := s.storage.CreatePaymentIntent(r.Context(), intentRequest.RegistrationID, *intentRequest.Amount)
	if err != nil {
		s.respondStorageError(w, "creating payment intent", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"clientSecret": secret})
}

func (s *Server) handleConfirmPayment(w http.ResponseWriter, r *http.Request) {
	var confirmRequest struct {
		RegistrationID  string `json:"registrationId"`
		PaymentIntentID string `json:"paymentIntentId"`
	}
	if err := decodeJSON(w, r, &confirmRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	reg, err := s.storage.ConfirmPayment(r.Context(), confirmRequest.RegistrationID, confirmRequest.PaymentIntentID)
	if err != nil {
		s.respondStorageError(w, "confirming payment", err)
		return
	}
	respondJSON(w, http.StatusOK, reg)
}

func (s *Server) handleSearchRegistration(w http.ResponseWriter, r *http.Request) {
	var searchRequest struct {
		LicensePlate string `json:"licensePlate"`
	}
	if err := decodeJSON(w, r, &searchRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	status, err := s.storage.CheckStatus(r.Context(), searchRequest.LicensePlate)
	if err != nil {
		s.respondStorageError(w, "searching registration", err)
		return
	}
	respondJSON(w, http.StatusOK, status)
}

func (s *Server) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	dateRange, err := parseDateRange(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	regs, err := s.storage.ListRegistrations(r.Context(), dateRange)
	if err != nil {
		s.respondStorageError(w, "fetching registrations", err)
		return
	}
	respondJSON(w, http.StatusOK, regs)
}
