// Package knowledge holds the static symptom knowledge base: conditions with weighted
// symptom profiles, the colloquial synonym map, stopwords, red flags and negation markers.
//
// A Base is built once at startup with New and never mutated afterwards, so it is safe to
// share by pointer across concurrent diagnoses without locking.
package knowledge

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/symdx/internal/domain"
)

// SymptomWeight is one (symptom, weight) entry of a condition profile.
type SymptomWeight struct {
	Symptom string
	Weight  float64
}

// ConditionSpec is the raw definition of a condition before validation.
type ConditionSpec struct {
	Name           string
	Recommendation string
	Symptoms       []SymptomWeight
}

// Spec is the raw, unvalidated knowledge base definition.
type Spec struct {
	Conditions        []ConditionSpec
	Synonyms          map[string]string
	Stopwords         []string
	RedFlags          []string
	NegationMarkers   []string
	AffirmativeIdioms []string
}

// Condition is a validated, immutable condition profile.
type Condition struct {
	name           string
	recommendation string
	symptoms       []SymptomWeight
	weights        map[string]float64
	total          float64
}

// Name returns the condition name as authored (accents preserved).
func (c *Condition) Name() string { return c.name }

// Recommendation returns the base recommendation text.
func (c *Condition) Recommendation() string { return c.recommendation }

// Symptoms returns the symptom profile in declaration order.
func (c *Condition) Symptoms() []SymptomWeight {
	out := make([]SymptomWeight, len(c.symptoms))
	copy(out, c.symptoms)
	return out
}

// Weight returns the weight of a canonical symptom within this condition.
func (c *Condition) Weight(symptom string) (float64, bool) {
	w, ok := c.weights[symptom]
	return w, ok
}

// TotalWeight returns the normalization denominator (sum of all weights).
func (c *Condition) TotalWeight() float64 { return c.total }

// Base is the immutable knowledge base.
type Base struct {
	conditions []Condition
	vocabulary []string
	synonyms   map[string]string
	stopwords  map[string]struct{}
	redFlags   map[string]struct{}
	negations  []string
	idioms     []string

	fingerprint string
}

// New validates spec and builds an immutable Base.
// Symptom names, synonym keys/values, stopwords, red flags, markers and idioms are folded
// (lowercase, no accents); condition names keep their original spelling.
func New(spec Spec) (*Base, error) {
	if len(spec.Conditions) == 0 {
		return nil, domain.NewKnowledgeError("conditions", "at least one condition is required")
	}

	b := &Base{
		conditions: make([]Condition, 0, len(spec.Conditions)),
		synonyms:   make(map[string]string, len(spec.Synonyms)),
		stopwords:  make(map[string]struct{}, len(spec.Stopwords)),
		redFlags:   make(map[string]struct{}, len(spec.RedFlags)),
	}

	seenCond := make(map[string]struct{}, len(spec.Conditions))
	seenVocab := make(map[string]struct{})
	for i, cs := range spec.Conditions {
		c, err := buildCondition(i, cs)
		if err != nil {
			return nil, err
		}
		if _, dup := seenCond[c.name]; dup {
			return nil, domain.NewKnowledgeError("condition "+c.name, "duplicate condition name")
		}
		seenCond[c.name] = struct{}{}
		for _, sw := range c.symptoms {
			if _, ok := seenVocab[sw.Symptom]; !ok {
				seenVocab[sw.Symptom] = struct{}{}
				b.vocabulary = append(b.vocabulary, sw.Symptom)
			}
		}
		b.conditions = append(b.conditions, c)
	}
	if len(b.vocabulary) == 0 {
		return nil, domain.NewKnowledgeError("vocabulary", "no symptoms defined")
	}

	for k, v := range spec.Synonyms {
		fk, fv := Fold(k), Fold(v)
		if fk == "" || fv == "" {
			return nil, domain.NewKnowledgeError(fmt.Sprintf("synonym %q", k), "key and value must be non-empty")
		}
		b.synonyms[fk] = fv
	}

	for _, s := range spec.Stopwords {
		fs := Fold(s)
		if fs == "" {
			continue
		}
		if _, clash := seenVocab[fs]; clash {
			return nil, domain.NewKnowledgeError(fmt.Sprintf("stopword %q", s), "collides with a canonical symptom")
		}
		b.stopwords[fs] = struct{}{}
	}

	for _, rf := range spec.RedFlags {
		if f := Fold(rf); f != "" {
			b.redFlags[f] = struct{}{}
		}
	}
	b.negations = foldList(spec.NegationMarkers)
	b.idioms = foldList(spec.AffirmativeIdioms)

	data, err := json.Marshal(spec)
	if err != nil {
		return nil, domain.NewKnowledgeError("spec", err.Error())
	}
	sum := sha256.Sum256(data)
	b.fingerprint = hex.EncodeToString(sum[:])

	return b, nil
}

// Fingerprint is a content hash of the definition the Base was built from. Bases built
// from equal definitions share it.
func (b *Base) Fingerprint() string { return b.fingerprint }

func buildCondition(idx int, cs ConditionSpec) (Condition, error) {
	name := strings.TrimSpace(cs.Name)
	if name == "" {
		return Condition{}, domain.NewKnowledgeError(fmt.Sprintf("conditions[%d]", idx), "name is required")
	}
	if len(cs.Symptoms) == 0 {
		return Condition{}, domain.NewKnowledgeError("condition "+name, "no symptoms defined")
	}

	c := Condition{
		name:           name,
		recommendation: strings.TrimSpace(cs.Recommendation),
		symptoms:       make([]SymptomWeight, 0, len(cs.Symptoms)),
		weights:        make(map[string]float64, len(cs.Symptoms)),
	}
	for _, sw := range cs.Symptoms {
		sym := Fold(sw.Symptom)
		if sym == "" {
			return Condition{}, domain.NewKnowledgeError("condition "+name, "empty symptom name")
		}
		if math.IsNaN(sw.Weight) || math.IsInf(sw.Weight, 0) || sw.Weight < 0 {
			return Condition{}, domain.NewKnowledgeError(
				fmt.Sprintf("condition %s symptom %q", name, sym), "weight must be a finite non-negative number")
		}
		if _, dup := c.weights[sym]; dup {
			return Condition{}, domain.NewKnowledgeError(
				fmt.Sprintf("condition %s symptom %q", name, sym), "duplicate symptom")
		}
		c.weights[sym] = sw.Weight
		c.symptoms = append(c.symptoms, SymptomWeight{Symptom: sym, Weight: sw.Weight})
		c.total += sw.Weight
	}
	if c.total <= 0 {
		return Condition{}, domain.NewKnowledgeError("condition "+name, "weight sum must be positive")
	}
	return c, nil
}

func foldList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if f := Fold(s); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// Conditions returns the conditions in declaration order.
func (b *Base) Conditions() []Condition {
	out := make([]Condition, len(b.conditions))
	copy(out, b.conditions)
	return out
}

// Vocabulary returns every canonical symptom once, in first-seen declaration order.
func (b *Base) Vocabulary() []string {
	out := make([]string, len(b.vocabulary))
	copy(out, b.vocabulary)
	return out
}

// Synonyms returns a copy of the folded synonym map.
func (b *Base) Synonyms() map[string]string {
	out := make(map[string]string, len(b.synonyms))
	for k, v := range b.synonyms {
		out[k] = v
	}
	return out
}

// IsStopword reports whether a folded token is a stopword.
func (b *Base) IsStopword(token string) bool {
	_, ok := b.stopwords[token]
	return ok
}

// IsRedFlag reports whether a canonical symptom requires urgent attention.
func (b *Base) IsRedFlag(symptom string) bool {
	_, ok := b.redFlags[symptom]
	return ok
}

// NegationMarkers returns the folded negation markers.
func (b *Base) NegationMarkers() []string {
	out := make([]string, len(b.negations))
	copy(out, b.negations)
	return out
}

// AffirmativeIdioms returns folded phrases that start with a negation marker but
// describe a symptom ("no huelo"), so they must not be discarded as negated.
func (b *Base) AffirmativeIdioms() []string {
	out := make([]string, len(b.idioms))
	copy(out, b.idioms)
	return out
}
