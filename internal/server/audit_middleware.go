package server

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type AuditLogEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	Handler    string    `json:"handler"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	StatusCode int       `json:"status_code"`
	Admin      string    `json:"admin,omitempty"`
	ResourceID string    `json:"resource_id,omitempty"`
	Request    string    `json:"request,omitempty"`
	Response   string    `json:"response,omitempty"`
}

// auditLogMiddleware records admin mutations. Reads and exports are not audited.
func (s *Server) auditLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		entry := AuditLogEntry{
			Timestamp:  time.Now().UTC(),
			Method:     r.Method,
			Path:       r.URL.Path,
			Handler:    routeName(r),
			Admin:      adminFromContext(r.Context()),
			ResourceID: mux.Vars(r)["id"],
		}

		if r.Body != nil && !strings.Contains(r.Header.Get("Content-Type"), "multipart/form-data") {
			// One byte past the limit lets decodeJSON still reject oversized bodies.
			requestBody, _ := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
			r.Body = io.NopCloser(bytes.NewReader(requestBody))
			entry.Request = string(requestBody[:min(len(requestBody), maxCapturedBody)])
		}

		rec := newResponseRecorder(w)
		next.ServeHTTP(rec, r)

		entry.StatusCode = rec.status
		entry.Response = rec.body.String()

		s.AuditManager.LogEntry(r.Context(), entry)
	})
}

func routeName(r *http.Request) string {
	route := mux.CurrentRoute(r)
	if route == nil {
		return "unknown"
	}
	tpl, err := route.GetPathTemplate()
	if err != nil {
		return "unknown"
	}
	return r.Method + " " + tpl
}
