package api

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	apperrors "kuntur-store/internal/errors"
	"kuntur-store/internal/logging"
	"kuntur-store/rate"
	"kuntur-store/store"
)

// Server is the API server
type Server struct {
	handler *Handler
	mux     *http.ServeMux
	version string
	uploads UploadConfig
}

// NewServer creates a new API server
func NewServer(version string, st store.Store, rates rate.Provider, uploads UploadConfig) *Server {
	s := &Server{
		handler: NewHandler(st, rates),
		mux:     http.NewServeMux(),
		version: version,
		uploads: uploads,
	}
	s.registerRoutes()
	return s
}

// registerRoutes registers all API routes
func (s *Server) registerRoutes() {
	// Core endpoints
	s.mux.HandleFunc("POST /orders", s.handleCreateOrder)
	s.mux.HandleFunc("GET /orders/{id}", s.handleGetOrder)
	s.mux.HandleFunc("PATCH /orders/{id}", s.handleUpdatePayment)
	s.mux.HandleFunc("DELETE /orders/{id}", s.handleCancelOrder)
	s.mux.HandleFunc("POST /orders/{id}/comprobante", s.handleUploadComprobante)

	// Supporting endpoints
	s.mux.HandleFunc("GET /rate/usdt-bob", s.handleRate)
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /version", s.handleVersion)

	if s.uploads.Directory != "" {
		s.mux.Handle("GET /comprobantes/",
			http.StripPrefix("/comprobantes/", http.FileServer(http.Dir(s.uploads.Directory))))
	}
}

// handleCreateOrder handles POST /orders
func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid JSON body", nil, http.StatusBadRequest)
		return
	}

	normalizeCreateOrder(&req)
	if details := validateCreateOrder(&req); len(details) > 0 {
		s.writeError(w, "validation failed", details, http.StatusBadRequest)
		return
	}

	resp, err := s.handler.CreateOrder(r.Context(), &req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, resp, http.StatusCreated)
}

// handleGetOrder handles GET /orders/{id}
func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		s.writeError(w, err.Error(), nil, http.StatusBadRequest)
		return
	}

	detail, err := s.handler.GetOrder(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, detail, http.StatusOK)
}

// handleUpdatePayment handles PATCH /orders/{id}
func (s *Server) handleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		s.writeError(w, err.Error(), nil, http.StatusBadRequest)
		return
	}

	var req UpdatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, "invalid JSON body", nil, http.StatusBadRequest)
		return
	}
	if details := validateUpdatePayment(&req); len(details) > 0 {
		s.writeError(w, "validation failed", details, http.StatusBadRequest)
		return
	}

	updated, err := s.handler.UpdatePayment(r.Context(), id, &req)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, updated, http.StatusOK)
}

// handleCancelOrder handles DELETE /orders/{id}
func (s *Server) handleCancelOrder(w http.ResponseWriter, r *http.Request) {
	id, err := parseOrderID(r)
	if err != nil {
		s.writeError(w, err.Error(), nil, http.StatusBadRequest)
		return
	}

	cancelled, err := s.handler.CancelOrder(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, cancelled, http.StatusOK)
}

// handleRate handles GET /rate/usdt-bob
func (s *Server) handleRate(w http.ResponseWriter, r *http.Request) {
	current, err := s.handler.CurrentRate(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeJSON(w, current, http.StatusOK)
}

// handleHealth handles GET /health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]interface{}{
		"status":  "healthy",
		"version": s.version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	}, http.StatusOK)
}

// handleVersion handles GET /version
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, map[string]string{
		"version":     s.version,
		"engine":      "kuntur-store",
		"api_version": "v1",
	}, http.StatusOK)
}

func (s *Server) writeJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, message string, details []string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(Response{Success: false, Error: message, Details: details})
}

// writeDomainError maps typed domain errors to HTTP statuses. Storage
// and internal failures are logged but never leak their cause to the
// client.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	var appErr *apperrors.Error
	status := http.StatusInternalServerError
	message := "internal error"

	if e, ok := err.(*apperrors.Error); ok {
		appErr = e
		switch e.Type {
		case apperrors.TypeValidation, apperrors.TypeIncompatible, apperrors.TypeCode:
			status = http.StatusBadRequest
			message = e.Message
		case apperrors.TypeNotFound:
			status = http.StatusNotFound
			message = e.Message
		case apperrors.TypeConflict:
			status = http.StatusConflict
			message = e.Message
		case apperrors.TypeRate:
			status = http.StatusServiceUnavailable
			message = e.Message
		}
	}

	if status == http.StatusInternalServerError {
		logging.Error("request failed", zap.Error(err))
	} else if appErr != nil && appErr.Cause != nil {
		logging.Warn("request rejected", zap.String("type", string(appErr.Type)), zap.Error(appErr.Cause))
	}

	s.writeError(w, message, nil, status)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Start starts the HTTP server
func (s *Server) Start(addr string) error {
	logging.Info("starting API server", zap.String("addr", addr))
	return http.ListenAndServe(addr, s)
}
