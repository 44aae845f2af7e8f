package symdx

import (
	"strings"
	"time"

	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
	"github.com/kailas-cloud/symdx/internal/domain/knowledge"
)

// Disclaimer accompanies every Result.
const Disclaimer = diagnosis.Disclaimer

// Diagnosis is one ranked condition.
type Diagnosis struct {
	Condition      string
	Confidence     float64
	Recommendation string
	// Urgent is set when a matched red-flag symptom escalated the recommendation.
	Urgent bool
	// Inconclusive marks the single placeholder returned when symptoms were recognized
	// but no condition scored.
	Inconclusive bool
}

// Result is the outcome of one Diagnose call.
type Result struct {
	Disclaimer string
	Diagnoses  []Diagnosis
}

// Inconclusive reports whether symptoms were recognized without pointing to a condition.
func (r Result) Inconclusive() bool {
	return len(r.Diagnoses) == 1 && r.Diagnoses[0].Inconclusive
}

// Record is a stored diagnosis.
type Record struct {
	ID            string
	UserID        string
	InputSymptoms []string
	Result        Result
	CreatedAt     time.Time
}

// Condition describes one condition of the knowledge base.
type Condition struct {
	Name           string
	Recommendation string
	Symptoms       []Symptom
}

// Symptom is a weighted canonical symptom.
type Symptom struct {
	Name   string
	Weight float64
}

func resultFromDomain(resp diagnosis.Response) Result {
	out := Result{Disclaimer: resp.Disclaimer, Diagnoses: make([]Diagnosis, len(resp.Diagnoses))}
	for i := range resp.Diagnoses {
		d := &resp.Diagnoses[i]
		out.Diagnoses[i] = Diagnosis{
			Condition:      d.Condition(),
			Confidence:     d.Confidence(),
			Recommendation: d.Recommendation(),
			Urgent:         strings.HasPrefix(d.Recommendation(), diagnosis.UrgentPrefix),
			Inconclusive:   d.IsSentinel(),
		}
	}
	return out
}

func recordFromDomain(r diagnosis.Record) Record {
	return Record{
		ID:            r.ID,
		UserID:        r.UserID,
		InputSymptoms: r.InputSymptoms,
		Result:        resultFromDomain(r.Result),
		CreatedAt:     r.CreatedAt,
	}
}

func conditionFromDomain(c knowledge.Condition) Condition {
	syms := c.Symptoms()
	out := Condition{
		Name:           c.Name(),
		Recommendation: c.Recommendation(),
		Symptoms:       make([]Symptom, len(syms)),
	}
	for i, s := range syms {
		out.Symptoms[i] = Symptom{Name: s.Symptom, Weight: s.Weight}
	}
	return out
}
