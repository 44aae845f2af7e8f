package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kailas-cloud/symdx/internal/domain"
)

const sampleYAML = `
conditions:
  - name: Resfriado
    recommendation: "Descanso e hidratación."
    symptoms:
      - name: Tos
        weight: 0.6
      - name: Congestión nasal
        weight: 0.4
synonyms:
  mocos: congestion nasal
stopwords: [bastante]
red_flags: [congestion nasal]
`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sampleYAML))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	c, ok := conditionByName(b, "Resfriado")
	if !ok {
		t.Fatal("condition Resfriado not found")
	}
	if c.Recommendation() != "Descanso e hidratación." {
		t.Errorf("Recommendation = %q", c.Recommendation())
	}
	if w, ok := c.Weight("congestion nasal"); !ok || w != 0.4 {
		t.Errorf("Weight(congestion nasal) = %v, %v", w, ok)
	}

	vocab := b.Vocabulary()
	if len(vocab) != 2 || vocab[0] != "tos" || vocab[1] != "congestion nasal" {
		t.Errorf("Vocabulary = %v", vocab)
	}
	if got := b.Synonyms()["mocos"]; got != "congestion nasal" {
		t.Errorf("synonym mocos = %q", got)
	}
	if !b.IsStopword("bastante") {
		t.Error("bastante should be a stopword")
	}
	if !b.IsRedFlag("congestion nasal") {
		t.Error("congestion nasal should be a red flag")
	}
}

func TestParse_OptionalSectionsFallBackToDefaults(t *testing.T) {
	b, err := Parse([]byte(`
conditions:
  - name: Resfriado
    symptoms:
      - {name: tos, weight: 1}
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.Synonyms()["calentura"]; got != "fiebre" {
		t.Errorf("synonym calentura = %q, want fiebre from defaults", got)
	}
	if !b.IsStopword("tengo") {
		t.Error("stopwords should fall back to defaults")
	}
	if len(b.NegationMarkers()) == 0 {
		t.Error("negation markers should fall back to defaults")
	}
	if len(b.AffirmativeIdioms()) == 0 {
		t.Error("affirmative idioms should fall back to defaults")
	}
}

func TestParse_EmptyListDisablesDefaults(t *testing.T) {
	b, err := Parse([]byte(`
conditions:
  - name: Resfriado
    symptoms:
      - {name: tos, weight: 1}
negation_markers: []
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := b.NegationMarkers(); len(got) != 0 {
		t.Errorf("NegationMarkers = %v, want none", got)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed", "conditions: [\n"},
		{"no conditions", "synonyms: {a: b}\n"},
		{"negative weight", "conditions:\n  - name: X\n    symptoms:\n      - {name: tos, weight: -1}\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.data))
			if !errors.Is(err, domain.ErrInvalidKnowledgeBase) {
				t.Errorf("expected ErrInvalidKnowledgeBase, got %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kb.yaml")
	if err := os.WriteFile(path, []byte(sampleYAML), 0o600); err != nil {
		t.Fatal(err)
	}
	b, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := conditionByName(b, "Resfriado"); !ok {
		t.Error("condition Resfriado not found")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
