// Package server exposes the valuation engine over HTTP as a small JSON API.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/leotrv/dcf-calculator/internal/valuation"
	"github.com/leotrv/dcf-calculator/pkg/constants"
	"github.com/leotrv/dcf-calculator/pkg/output"
)

// serviceName is reported by the metadata endpoints.
const serviceName = "DCF Analysis Agent"

// Transport-level error codes. Business rule codes come from the valuation
// package; these two label requests rejected before validation runs.
const (
	codeInvalidJSON     = "INVALID_JSON"
	codeRequestTooLarge = "REQUEST_TOO_LARGE"
)

// codeFallback labels business errors that carry no machine-readable code.
const codeFallback = "BUSINESS_ERROR"

type handler struct {
	logger      *zap.Logger
	engine      *valuation.Engine
	maxBodySize int64
	version     string
}

type errorResponse struct {
	Error     string `json:"error"`
	ErrorCode string `json:"error_code"`
}

type contextKey string

const requestIDKey contextKey = "requestID"

// NewHandler constructs the HTTP handler that serves the valuation API.
func NewHandler(logger *zap.Logger, maxBodySize int64, version string) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{
		logger:      logger,
		engine:      valuation.NewEngine(logger),
		maxBodySize: maxBodySize,
		version:     trimmedVersion,
	}

	r := chi.NewRouter()
	r.Use(h.requestID)
	r.Use(h.logRequests)

	// Valuation API endpoint
	r.Post("/dcf/calculate", h.handleCalculate)

	// Service metadata and liveness endpoints
	r.Get("/", h.handleIndex)
	r.Get("/health", h.handleHealth)
	r.Get("/api/version", h.handleVersion)

	return r
}

// requestID tags every request with an identifier, honoring one supplied by
// the caller so IDs can flow through proxies.
func (h *handler) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		h.logger.Info("request handled",
			zap.String("op", "server.logRequests"),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("requestId", requestIDFromContext(r.Context())),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func requestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}

func (h *handler) handleCalculate(w http.ResponseWriter, r *http.Request) {
	op := "server.handleCalculate"
	start := time.Now()

	if h.maxBodySize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	}

	var input valuation.RequestInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondError(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), codeRequestTooLarge, op)
			return
		}
		h.respondError(w, r, http.StatusBadRequest,
			fmt.Sprintf("invalid JSON payload: %v", err), codeInvalidJSON, op)
		return
	}

	req, err := valuation.NewRequest(input)
	if err != nil {
		h.respondBusinessError(w, r, err, op)
		return
	}

	result, err := h.engine.Calculate(req)
	if err != nil {
		h.respondBusinessError(w, r, err, op)
		return
	}

	resp := output.BuildResponse(result)

	h.logger.Info("valuation computed",
		zap.String("op", op),
		zap.String("requestId", requestIDFromContext(r.Context())),
		zap.Int("years", len(resp.DiscountedFCFs)),
		zap.Duration("duration", time.Since(start)),
	)

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"service": serviceName,
		"version": h.version,
		"endpoints": []string{
			"POST /dcf/calculate",
			"GET /health",
			"GET /api/version",
		},
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

func (h *handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// respondBusinessError maps a validation or calculation failure to a 400 with
// the machine-readable code preserved in the body.
func (h *handler) respondBusinessError(w http.ResponseWriter, r *http.Request, err error, op string) {
	code, ok := valuation.CodeOf(err)
	errorCode := codeFallback
	if ok {
		errorCode = string(code)
	}
	h.respondError(w, r, http.StatusBadRequest, err.Error(), errorCode, op)
}

func (h *handler) respondError(w http.ResponseWriter, r *http.Request, status int, msg, errorCode, op string) {
	h.logger.Error("valuation request failed",
		zap.String("op", op),
		zap.String("requestId", requestIDFromContext(r.Context())),
		zap.Int("status", status),
		zap.String("errorCode", errorCode),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, errorResponse{Error: msg, ErrorCode: errorCode})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && h.logger != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}

// Run starts the HTTP server on the configured address and blocks until an
// interrupt or termination signal arrives, then drains connections.
func Run(cfg *Config, logger *zap.Logger, version string) error {
	if cfg == nil {
		return errors.New("server config is nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	srv := &http.Server{
		Addr:         cfg.Address,
		Handler:      NewHandler(logger, cfg.BodySizeBytes(), version),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("server shutdown failed",
				zap.String("op", "server.Run"),
				zap.Error(err),
			)
		}
		close(idleConnsClosed)
	}()

	logger.Info("starting valuation API",
		zap.String("op", "server.Run"),
		zap.String("address", cfg.Address),
		zap.String("version", version),
	)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server listen failed: %w", err)
	}

	<-idleConnsClosed
	logger.Info("server stopped", zap.String("op", "server.Run"))
	return nil
}
