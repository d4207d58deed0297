package server

import (
	"context"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

type ctxKey int

const adminUserKey ctxKey = iota

func adminFromContext(ctx context.Context) string {
	username, _ := ctx.Value(adminUserKey).(string)
	return username
}

func (s *Server) bearerAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		claims, err := s.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			w.Header().Set("WWW-Authenticate", `Bearer realm="admin", error="invalid_token"`)
			respondError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), adminUserKey, claims.Username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var loginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := decodeJSON(w, r, &loginRequest); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if loginRequest.Username == "" || loginRequest.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing username or password")
		return
	}

	valid, err := s.userRepo.ValidateUser(r.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		s.logger.Error("credential check failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error validating credentials")
		return
	}
	if !valid {
		s.logger.Warn("failed admin login", zap.String("username", loginRequest.Username))
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, expiresAt, err := s.tokens.Issue(loginRequest.Username)
	if err != nil {
		s.logger.Error("token issue failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error issuing token")
		return
	}

	respondJSON(w, http.StatusOK, struct {
		Token     string    `json:"token"`
		ExpiresAt time.Time `json:"expiresAt"`
	}{token, expiresAt})
}
