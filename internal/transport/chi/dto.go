package chi

import (
	"time"

	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
	"github.com/kailas-cloud/symdx/internal/domain/knowledge"
)

// ErrorResponseCode is a machine-readable error code.
type ErrorResponseCode string

// Error codes.
const (
	ErrorResponseCodeBadRequest       ErrorResponseCode = "bad_request"
	ErrorResponseCodeUnauthorized     ErrorResponseCode = "unauthorized"
	ErrorResponseCodeValidationFailed ErrorResponseCode = "validation_failed"
	ErrorResponseCodeRecordNotFound   ErrorResponseCode = "record_not_found"
	ErrorResponseCodeInternalError    ErrorResponseCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorResponseCode `json:"code"`
	Message string            `json:"message"`
}

// DiagnoseRequest is the POST /diagnose body.
type DiagnoseRequest struct {
	Symptoms []string `json:"symptoms"`
	UserID   *string  `json:"user_id,omitempty"`
}

// HistoryListResponse is the GET /history result.
type HistoryListResponse struct {
	Items []HistoryItem `json:"items"`
}

// HistoryItem is one stored diagnosis.
type HistoryItem struct {
	ID            string             `json:"id"`
	UserID        *string            `json:"user_id,omitempty"`
	InputSymptoms []string           `json:"input_symptoms"`
	Result        diagnosis.Response `json:"result"`
	CreatedAt     time.Time          `json:"created_at"`
}

// DeleteResponse is the DELETE /history/{id} result.
type DeleteResponse struct {
	OK bool `json:"ok"`
}

// HealthResponse is the GET /health result.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ConditionListResponse is the GET /conditions result.
type ConditionListResponse struct {
	Items []ConditionItem `json:"items"`
}

// ConditionItem describes one condition of the catalog.
type ConditionItem struct {
	Name           string        `json:"name"`
	Recommendation string        `json:"recommendation"`
	Symptoms       []SymptomItem `json:"symptoms"`
}

// SymptomItem is one weighted symptom of a condition.
type SymptomItem struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

func recordToDTO(r diagnosis.Record) HistoryItem {
	item := HistoryItem{
		ID:            r.ID,
		InputSymptoms: r.InputSymptoms,
		Result:        r.Result,
		CreatedAt:     r.CreatedAt,
	}
	if item.InputSymptoms == nil {
		item.InputSymptoms = []string{}
	}
	if r.UserID != "" {
		u := r.UserID
		item.UserID = &u
	}
	return item
}

func conditionToDTO(c knowledge.Condition) ConditionItem {
	syms := c.Symptoms()
	items := make([]SymptomItem, len(syms))
	for i, s := range syms {
		items[i] = SymptomItem{Name: s.Symptom, Weight: s.Weight}
	}
	return ConditionItem{
		Name:           c.Name(),
		Recommendation: c.Recommendation(),
		Symptoms:       items,
	}
}

func derefString(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
