//go:generate mockgen -source ./server.go -destination=./mocks/server.go -package=mock_server
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/parkqr/parking/internal/auth"
	"github.com/parkqr/parking/internal/storage"
)

const degradedHeader = "X-Parking-Degraded"

type Storage interface {
	ListRates(ctx context.Context) (storage.RateListing, error)
	UpdateRate(ctx context.Context, id string, price storage.Money) (*storage.ParkingRate, error)
	CreateRegistration(ctx context.Context, in storage.NewRegistration) (*storage.ParkingRegistration, error)
	CreatePaymentIntent(ctx context.Context, registrationID string, amount storage.Money) (string, error)
	ConfirmPayment(ctx context.Context, registrationID, paymentIntentID string) (*storage.ParkingRegistration, error)
	ListRegistrations(ctx context.Context, r storage.DateRange) ([]storage.ParkingRegistration, error)
	CheckStatus(ctx context.Context, licensePlate string) (*storage.ParkingStatus, error)
	ListExemptions(ctx context.Context) ([]storage.StaffExemption, error)
	CreateExemption(ctx context.Context, in storage.ExemptionInput) (*storage.StaffExemption, error)
	UpdateExemption(ctx context.Context, id string, patch storage.ExemptionPatch) (*storage.StaffExemption, error)
	DeleteExemption(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

type UserRepo interface {
	ValidateUser(ctx context.Context, username, password string) (bool, error)
}

type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
	Parse(token string) (*auth.Claims, error)
}

// AuditSink receives serialized audit batches.
type AuditSink interface {
	Enqueue(ctx context.Context, topic, key string, payload []byte) error
}

type Options struct {
	// PublicBaseURL overrides the host used in QR payment links.
	PublicBaseURL string
	Production    bool
	AuditTopic    string
	AuditSink     AuditSink
	Logger        *zap.Logger
}

type Server struct {
	storage      Storage
	userRepo     UserRepo
	tokens       TokenIssuer
	opts         Options
	logger       *zap.Logger
	server       *http.Server
	AuditManager *AuditManager
}

func New(storage Storage, userRepo UserRepo, tokens TokenIssuer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	logger := opts.Logger.With(zap.String("component", "http"))
	return &Server{
		storage:      storage,
		userRepo:     userRepo,
		tokens:       tokens,
		opts:         opts,
		logger:       logger,
		AuditManager: NewAuditManager(2, 5, 500*time.Millisecond, opts.AuditSink, opts.AuditTopic, opts.Logger),
	}
}

// Run serves HTTP until ctx is cancelled.
func (s *Server) Run(ctx context.Context, port string) error {
	s.server = &http.Server{
		Addr:         ":" + port,
		Handler:      s.setupRoutes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	s.AuditManager.Start(ctx)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("server shutdown failed", zap.Error(err))
		}
	}()

	s.logger.Info("http server starting", zap.String("port", port))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	s.logger.Info("http server stopped")

	s.AuditManager.Shutdown(ctx)
	return nil
}

func (s *Server) setupRoutes() http.Handler {
	router := mux.NewRouter()

	router.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/parking-rates", s.handleListRates).Methods(http.MethodGet)
	api.HandleFunc("/parking-registration", s.handleCreateRegistration).Methods(http.MethodPost)
	api.HandleFunc("/create-payment-intent", s.handleCreatePaymentIntent).Methods(http.MethodPost)
	api.HandleFunc("/confirm-payment", s.handleConfirmPayment).Methods(http.MethodPost)
	api.HandleFunc("/search-registration", s.handleSearchRegistration).Methods(http.MethodPost)
	api.HandleFunc("/admin/login", s.handleLogin).Methods(http.MethodPost)

	admin := api.NewRoute().Subrouter()
	admin.Use(s.bearerAuthMiddleware, s.auditLogMiddleware)
	admin.HandleFunc("/parking-rates/{id}", s.handleUpdateRate).Methods(http.MethodPatch)
	admin.HandleFunc("/parking-registrations", s.handleListRegistrations).Methods(http.MethodGet)
	admin.HandleFunc("/staff-exemptions", s.handleListExemptions).Methods(http.MethodGet)
	admin.HandleFunc("/staff-exemptions", s.handleCreateExemption).Methods(http.MethodPost)
	admin.HandleFunc("/staff-exemptions/{id}", s.handleUpdateExemption).Methods(http.MethodPatch)
	admin.HandleFunc("/staff-exemptions/{id}", s.handleDeleteExemption).Methods(http.MethodDelete)
	admin.HandleFunc("/generate-qr", s.handleGenerateQR).Methods(http.MethodGet)
	admin.HandleFunc("/export-registrations", s.handleExportRegistrations).Methods(http.MethodGet)

	return router
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	}
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

const maxRequestBody = 1 << 20

func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	return json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody)).Decode(v)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, storage.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrAlreadyPaid), errors.Is(err, storage.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, storage.ErrPaymentNotConfirmed):
		return http.StatusPaymentRequired
	case errors.Is(err, storage.ErrPaymentProcessor):
		return http.StatusBadGateway
	case errors.Is(err, storage.ErrBackingStoreTimeout):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondStorageError maps a storage error to its status. Client errors echo
// the error text, everything else answers with the operation only.
func (s *Server) respondStorageError(w http.ResponseWriter, op string, err error) {
	status := statusForError(err)
	if status < http.StatusInternalServerError {
		respondError(w, status, err.Error())
		return
	}
	s.logger.Error("request failed", zap.String("operation", op), zap.Int("status", status), zap.Error(err))
	respondError(w, status, "Error "+op)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.storage.Ping(r.Context()); err != nil {
		s.logger.Warn("health check failed", zap.Error(err))
		respondError(w, http.StatusServiceUnavailable, "row store unavailable")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
