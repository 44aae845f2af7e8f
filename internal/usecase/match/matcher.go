// Package match identifies known symptoms in normalized phrases by character n-gram
// TF-IDF cosine similarity against the symptom vocabulary.
package match

import (
	"fmt"
	"sort"

	"github.com/kailas-cloud/symdx/internal/domain"
)

// Defaults.
const (
	DefaultThreshold    = 0.15
	DefaultTopPerPhrase = 2
	DefaultMinGram      = 2
	DefaultMaxGram      = 4
)

// Config tunes the matcher.
type Config struct {
	Threshold    float64 // minimum cosine similarity, in (0, 1]
	TopPerPhrase int     // candidates kept per phrase before thresholding
	MinGram      int
	MaxGram      int
}

// DefaultConfig returns the standard matcher settings.
func DefaultConfig() Config {
	return Config{
		Threshold:    DefaultThreshold,
		TopPerPhrase: DefaultTopPerPhrase,
		MinGram:      DefaultMinGram,
		MaxGram:      DefaultMaxGram,
	}
}

// Validate checks the configuration.
func (c Config) Validate() error {
	if !(c.Threshold > 0 && c.Threshold <= 1) {
		return fmt.Errorf("%w: threshold must be in (0, 1], got %v", domain.ErrInvalidMatcherConfig, c.Threshold)
	}
	if c.TopPerPhrase < 1 {
		return fmt.Errorf("%w: top_per_phrase must be >= 1, got %d", domain.ErrInvalidMatcherConfig, c.TopPerPhrase)
	}
	if c.MinGram < 1 || c.MaxGram < c.MinGram {
		return fmt.Errorf("%w: invalid n-gram range [%d, %d]", domain.ErrInvalidMatcherConfig, c.MinGram, c.MaxGram)
	}
	return nil
}

// Candidate is one vocabulary term proposed for a phrase.
type Candidate struct {
	Phrase  string
	Symptom string
	Score   float64
}

// Matcher is stateless between calls and safe for concurrent use.
type Matcher struct {
	cfg Config
}

// New creates a Matcher.
func New(cfg Config) (*Matcher, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{cfg: cfg}, nil
}

// Match returns the canonical symptoms that best match phrases, each at most once,
// in first-seen order.
func (m *Matcher) Match(phrases, vocabulary []string) []string {
	return Symptoms(m.Candidates(phrases, vocabulary))
}

// Symptoms returns the distinct symptoms of cands in first-seen order.
func Symptoms(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	seen := make(map[string]struct{}, len(cands))
	for _, c := range cands {
		if _, ok := seen[c.Symptom]; ok {
			continue
		}
		seen[c.Symptom] = struct{}{}
		out = append(out, c.Symptom)
	}
	return out
}

// Candidates returns, per distinct phrase in first-seen order, the top vocabulary terms
// whose similarity reaches the threshold. Ties keep vocabulary order.
func (m *Matcher) Candidates(phrases, vocabulary []string) []Candidate {
	if len(phrases) == 0 || len(vocabulary) == 0 {
		return nil
	}
	phrases = distinct(phrases)

	docs := make([]string, 0, len(vocabulary)+len(phrases))
	docs = append(docs, vocabulary...)
	docs = append(docs, phrases...)
	model := fitTransform(docs, m.cfg.MinGram, m.cfg.MaxGram)

	var out []Candidate
	order := make([]int, len(vocabulary))
	sims := make([]float64, len(vocabulary))
	for p, phrase := range phrases {
		pi := len(vocabulary) + p
		for v := range vocabulary {
			order[v] = v
			sims[v] = model.cosine(pi, v)
		}
		sort.SliceStable(order, func(a, b int) bool {
			return sims[order[a]] > sims[order[b]]
		})

		for _, v := range order[:min(m.cfg.TopPerPhrase, len(order))] {
			if sims[v] < m.cfg.Threshold {
				break
			}
			out = append(out, Candidate{Phrase: phrase, Symptom: vocabulary[v], Score: sims[v]})
		}
	}
	return out
}

func distinct(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
