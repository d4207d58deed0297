package server

import (
	"encoding/base64"
	"net/http"
	"net/url"
	"strings"

	qrcode "github.com/skip2/go-qrcode"
	"go.uber.org/zap"
)

const (
	qrSize            = 300
	defaultLocation   = "default"
	developmentOrigin = "http://localhost:5000"
)

func (s *Server) baseURL(r *http.Request) string {
	if s.opts.PublicBaseURL != "" {
		return strings.TrimRight(s.opts.PublicBaseURL, "/")
	}
	if !s.opts.Production {
		return developmentOrigin
	}
	return "https://" + r.Host
}

func (s *Server) handleGenerateQR(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")
	if location == "" {
		location = defaultLocation
	}

	paymentURL := s.baseURL(r) + "/payment?location=" + url.QueryEscape(location)

	png, err := qrcode.Encode(paymentURL, qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr encode failed", zap.String("location", location), zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Error generating QR code")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{
		"qrCode":     "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
		"paymentUrl": paymentURL,
		"location":   location,
	})
}
