// Package diagnosis defines the user-facing diagnosis value and the response envelope.
package diagnosis

import (
	"encoding/json"
	"time"
)

// Disclaimer accompanies every response.
const Disclaimer = "Esto no sustituye una consulta médica; es orientación preliminar."

// Sentinel values returned when symptoms were recognized but no condition scored.
const (
	SentinelCondition      = "Sin diagnóstico claro"
	SentinelRecommendation = "No se identificó una condición clara. " +
		"Consulte a un profesional de salud para una evaluación presencial."
)

// UrgentPrefix is prepended to recommendations that involve a red-flag symptom.
const UrgentPrefix = "URGENTE: busque atención médica inmediata. "

// Diagnosis is one ranked candidate condition.
type Diagnosis struct {
	condition      string
	confidence     float64
	recommendation string
}

// New creates a diagnosis.
func New(condition string, confidence float64, recommendation string) Diagnosis {
	return Diagnosis{condition: condition, confidence: confidence, recommendation: recommendation}
}

// NewSentinel returns the "no clear diagnosis" result.
func NewSentinel() Diagnosis {
	return New(SentinelCondition, 0, SentinelRecommendation)
}

// Condition returns the condition name.
func (d *Diagnosis) Condition() string { return d.condition }

// Confidence returns the rounded confidence in [0,1].
func (d *Diagnosis) Confidence() float64 { return d.confidence }

// Recommendation returns the full recommendation text including explanation.
func (d *Diagnosis) Recommendation() string { return d.recommendation }

// IsSentinel reports whether d is the "no clear diagnosis" placeholder.
func (d *Diagnosis) IsSentinel() bool {
	return d.condition == SentinelCondition && d.confidence == 0
}

type diagnosisJSON struct {
	Condition      string  `json:"condition"`
	Confidence     float64 `json:"confidence"`
	Recommendation string  `json:"recommendation"`
}

// MarshalJSON encodes the diagnosis as {condition, confidence, recommendation}.
func (d Diagnosis) MarshalJSON() ([]byte, error) {
	return json.Marshal(diagnosisJSON{
		Condition:      d.condition,
		Confidence:     d.confidence,
		Recommendation: d.recommendation,
	})
}

// UnmarshalJSON decodes the form produced by MarshalJSON.
func (d *Diagnosis) UnmarshalJSON(data []byte) error {
	var v diagnosisJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*d = New(v.Condition, v.Confidence, v.Recommendation)
	return nil
}

// Analysis is a diagnoser's output: the canonical symptoms it recognized and the
// diagnoses ranked from them.
type Analysis struct {
	Matched   []string    `json:"matched"`
	Diagnoses []Diagnosis `json:"diagnoses"`
}

// Response is the envelope returned to callers.
type Response struct {
	Disclaimer string      `json:"disclaimer"`
	Diagnoses  []Diagnosis `json:"diagnoses"`
}

// NewResponse wraps diagnoses with the disclaimer. A nil slice becomes empty.
func NewResponse(diagnoses []Diagnosis) Response {
	if diagnoses == nil {
		diagnoses = []Diagnosis{}
	}
	return Response{Disclaimer: Disclaimer, Diagnoses: diagnoses}
}

// Record is one persisted diagnosis request.
type Record struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id,omitempty"`
	InputSymptoms []string  `json:"input_symptoms"`
	Result        Response  `json:"result"`
	CreatedAt     time.Time `json:"created_at"`
}
