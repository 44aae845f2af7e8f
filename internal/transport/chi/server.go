package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/knowledge"
	diagnoseuc "github.com/kailas-cloud/symdx/internal/usecase/diagnose"
	healthuc "github.com/kailas-cloud/symdx/internal/usecase/health"
	historyuc "github.com/kailas-cloud/symdx/internal/usecase/history"
)

// maxBodyBytes bounds request bodies: 50 symptoms of 1000 runes fit comfortably.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Catalog lists the known conditions.
type Catalog interface {
	Conditions() []knowledge.Condition
}

// Server serves the symdx HTTP API.
type Server struct {
	diagnose      *diagnoseuc.Service
	history       *historyuc.Service
	health        *healthuc.Service
	catalog       Catalog
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	diagnose *diagnoseuc.Service,
	history *historyuc.Service,
	health *healthuc.Service,
	catalog Catalog,
	logger *zap.Logger,
) *Server {
	s := &Server{
		diagnose: diagnose,
		history:  history,
		health:   health,
		catalog:  catalog,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidInput, http.StatusBadRequest, ErrorResponseCodeValidationFailed),
		sentinelHandler(domain.ErrRecordNotFound, http.StatusNotFound, ErrorResponseCodeRecordNotFound),
	}
	return s
}

// Register mounts the API routes on r.
func (s *Server) Register(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", promhttp.Handler())
	r.Post("/diagnose", s.Diagnose)
	r.Get("/history", s.ListHistory)
	r.Get("/history/{id}", s.GetHistory)
	r.Delete("/history/{id}", s.DeleteHistory)
	r.Get("/conditions", s.ListConditions)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, ErrorResponseCodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, ErrorResponseCodeBadRequest, "method not allowed")
	})
}

// Diagnose handles POST /diagnose.
func (s *Server) Diagnose(w http.ResponseWriter, r *http.Request) {
	var req DiagnoseRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Symptoms == nil {
		writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed, "symptoms is required")
		return
	}

	resp, err := s.diagnose.Diagnose(r.Context(), derefString(req.UserID), req.Symptoms)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// ListHistory handles GET /history?limit=N.
func (s *Server) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, ErrorResponseCodeValidationFailed,
				"limit must be a positive integer")
			return
		}
		limit = n
	}

	recs, err := s.history.List(r.Context(), limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]HistoryItem, len(recs))
	for i, rec := range recs {
		items[i] = recordToDTO(rec)
	}
	writeJSON(w, http.StatusOK, HistoryListResponse{Items: items})
}

// GetHistory handles GET /history/{id}.
func (s *Server) GetHistory(w http.ResponseWriter, r *http.Request) {
	rec, err := s.history.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recordToDTO(rec))
}

// DeleteHistory handles DELETE /history/{id}.
func (s *Server) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	ok, err := s.history.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{OK: ok})
}

// ListConditions handles GET /conditions.
func (s *Server) ListConditions(w http.ResponseWriter, _ *http.Request) {
	conds := s.catalog.Conditions()
	items := make([]ConditionItem, len(conds))
	for i, c := range conds {
		items[i] = conditionToDTO(c)
	}
	writeJSON(w, http.StatusOK, ConditionListResponse{Items: items})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorResponseCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns the client-facing message without exposing internals.
// Validation errors keep their detail since it only echoes request data.
func safeDomainMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return err.Error()
	case errors.Is(err, domain.ErrRecordNotFound):
		return domain.ErrRecordNotFound.Error()
	default:
		return "internal error"
	}
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorResponseCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorResponseCodeInternalError, "internal error")
}
