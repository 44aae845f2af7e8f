package knowledge

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/symdx/internal/domain"
)

type fileSymptom struct {
	Name   string  `yaml:"name"`
	Weight float64 `yaml:"weight"`
}

type fileCondition struct {
	Name           string        `yaml:"name"`
	Recommendation string        `yaml:"recommendation"`
	Symptoms       []fileSymptom `yaml:"symptoms"`
}

type fileBase struct {
	Conditions        []fileCondition   `yaml:"conditions"`
	Synonyms          map[string]string `yaml:"synonyms"`
	Stopwords         []string          `yaml:"stopwords"`
	RedFlags          []string          `yaml:"red_flags"`
	NegationMarkers   []string          `yaml:"negation_markers"`
	AffirmativeIdioms []string          `yaml:"affirmative_idioms"`
}

// LoadFile reads a YAML knowledge base from path.
func LoadFile(path string) (*Base, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("read knowledge base %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a Base from YAML. Sections other than conditions are optional and
// fall back to the built-in tables when absent.
func Parse(data []byte) (*Base, error) {
	var fb fileBase
	if err := yaml.Unmarshal(data, &fb); err != nil {
		return nil, fmt.Errorf("%w: parse yaml: %w", domain.ErrInvalidKnowledgeBase, err)
	}
	return New(fb.toSpec())
}

func (fb *fileBase) toSpec() Spec {
	def := DefaultSpec()
	spec := Spec{
		Conditions:        make([]ConditionSpec, 0, len(fb.Conditions)),
		Synonyms:          fb.Synonyms,
		Stopwords:         fb.Stopwords,
		RedFlags:          fb.RedFlags,
		NegationMarkers:   fb.NegationMarkers,
		AffirmativeIdioms: fb.AffirmativeIdioms,
	}
	for _, fc := range fb.Conditions {
		cs := ConditionSpec{
			Name:           fc.Name,
			Recommendation: fc.Recommendation,
			Symptoms:       make([]SymptomWeight, 0, len(fc.Symptoms)),
		}
		for _, s := range fc.Symptoms {
			cs.Symptoms = append(cs.Symptoms, SymptomWeight{Symptom: s.Name, Weight: s.Weight})
		}
		spec.Conditions = append(spec.Conditions, cs)
	}

	if spec.Synonyms == nil {
		spec.Synonyms = def.Synonyms
	}
	if spec.Stopwords == nil {
		spec.Stopwords = def.Stopwords
	}
	if spec.RedFlags == nil {
		spec.RedFlags = def.RedFlags
	}
	if spec.NegationMarkers == nil {
		spec.NegationMarkers = def.NegationMarkers
	}
	if spec.AffirmativeIdioms == nil {
		spec.AffirmativeIdioms = def.AffirmativeIdioms
	}
	return spec
}
