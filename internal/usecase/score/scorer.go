// Package score ranks conditions by the normalized weight of their matched symptoms.
package score

import (
	"math"
	"sort"
	"strings"

	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
)

// DefaultTopN is the number of diagnoses returned, and also the most a Scorer lists.
const DefaultTopN = 3

// Scored is a condition with a non-zero probability.
type Scored struct {
	Condition      string
	Recommendation string
	Probability    float64
	// Matched lists contributing symptoms in the condition's declared order.
	Matched []string
	RedFlag bool
}

// Scorer is immutable and safe for concurrent use.
type Scorer struct {
	kb   Knowledge
	topN int
}

// New creates a Scorer. topN outside [1, DefaultTopN] falls back to DefaultTopN.
func New(kb Knowledge, topN int) *Scorer {
	if topN < 1 || topN > DefaultTopN {
		topN = DefaultTopN
	}
	return &Scorer{kb: kb, topN: topN}
}

// Score computes the probability of every condition given the matched symptoms and
// returns the non-zero ones, highest first. Ties keep knowledge base order.
func (s *Scorer) Score(matched []string) []Scored {
	set := make(map[string]struct{}, len(matched))
	for _, m := range matched {
		set[m] = struct{}{}
	}

	var out []Scored
	for _, c := range s.kb.Conditions() {
		var sum float64
		var hits []string
		redFlag := false
		for _, sw := range c.Symptoms() {
			if _, ok := set[sw.Symptom]; !ok || sw.Weight <= 0 {
				continue
			}
			sum += sw.Weight
			hits = append(hits, sw.Symptom)
			if s.kb.IsRedFlag(sw.Symptom) {
				redFlag = true
			}
		}
		p := clamp(sum / c.TotalWeight())
		if p <= 0 {
			continue
		}
		out = append(out, Scored{
			Condition:      c.Name(),
			Recommendation: c.Recommendation(),
			Probability:    p,
			Matched:        hits,
			RedFlag:        redFlag,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Probability > out[j].Probability
	})
	return out
}

// Diagnose turns matched symptoms into at most TopN diagnoses. With no matched symptoms it
// returns an empty slice; when symptoms matched but no condition scored it returns the
// single sentinel diagnosis.
func (s *Scorer) Diagnose(matched []string) []diagnosis.Diagnosis {
	if len(matched) == 0 {
		return []diagnosis.Diagnosis{}
	}
	scored := s.Score(matched)
	if len(scored) == 0 {
		return []diagnosis.Diagnosis{diagnosis.NewSentinel()}
	}
	if len(scored) > s.topN {
		scored = scored[:s.topN]
	}

	out := make([]diagnosis.Diagnosis, 0, len(scored))
	for _, sc := range scored {
		out = append(out, diagnosis.New(sc.Condition, Round(sc.Probability), Explain(sc)))
	}
	return out
}

// Explain renders the recommendation with the matched symptoms and, for red flags,
// the urgent prefix.
func Explain(sc Scored) string {
	text := strings.TrimSpace(sc.Recommendation + " (Síntomas coincidentes: " + strings.Join(sc.Matched, ", ") + ")")
	if sc.RedFlag {
		text = diagnosis.UrgentPrefix + text
	}
	return text
}

// Round rounds p to two decimals.
func Round(p float64) float64 {
	return math.Round(p*100) / 100
}

func clamp(p float64) float64 {
	switch {
	case math.IsNaN(p) || p < 0:
		return 0
	case p > 1:
		return 1
	default:
		return p
	}
}
