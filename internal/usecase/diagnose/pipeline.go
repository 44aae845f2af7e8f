package diagnose

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/domain"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
	"github.com/kailas-cloud/symdx/internal/domain/knowledge"
	"github.com/kailas-cloud/symdx/internal/logger"
	"github.com/kailas-cloud/symdx/internal/usecase/match"
	"github.com/kailas-cloud/symdx/internal/usecase/normalize"
	"github.com/kailas-cloud/symdx/internal/usecase/score"
)

var _ domain.Diagnoser = (*Pipeline)(nil)

// Pipeline chains normalizer, matcher and scorer. It holds no mutable state and is safe
// for concurrent use.
type Pipeline struct {
	vocab   []string
	norm    *normalize.Normalizer
	matcher *match.Matcher
	scorer  *score.Scorer
}

// Trace records every intermediate stage of one run.
type Trace struct {
	Phrases    []string
	Candidates []match.Candidate
	Matched    []string
	Diagnoses  []diagnosis.Diagnosis
}

// NewPipeline builds a pipeline over kb. It fails on an invalid matcher config.
func NewPipeline(kb *knowledge.Base, cfg match.Config, topN int) (*Pipeline, error) {
	if kb == nil {
		return nil, fmt.Errorf("%w: nil knowledge base", domain.ErrInvalidKnowledgeBase)
	}
	m, err := match.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("create matcher: %w", err)
	}
	return &Pipeline{
		vocab:   kb.Vocabulary(),
		norm:    normalize.New(kb),
		matcher: m,
		scorer:  score.New(kb, topN),
	}, nil
}

// Run maps raw symptom descriptions to ranked diagnoses. It never fails: input with no
// recognizable symptom yields an empty slice.
func (p *Pipeline) Run(symptoms []string) []diagnosis.Diagnosis {
	return p.Trace(symptoms).Diagnoses
}

// Trace runs the pipeline and keeps every intermediate result.
func (p *Pipeline) Trace(symptoms []string) Trace {
	t := Trace{Phrases: p.norm.Normalize(symptoms)}
	if len(t.Phrases) == 0 {
		t.Diagnoses = []diagnosis.Diagnosis{}
		return t
	}
	t.Candidates = p.matcher.Candidates(t.Phrases, p.vocab)
	t.Matched = match.Symptoms(t.Candidates)
	t.Diagnoses = p.scorer.Diagnose(t.Matched)
	return t
}

// Diagnose implements domain.Diagnoser. It logs the trace at debug level.
func (p *Pipeline) Diagnose(ctx context.Context, symptoms []string) (diagnosis.Analysis, error) {
	if err := ctx.Err(); err != nil {
		return diagnosis.Analysis{}, fmt.Errorf("diagnose: %w", err)
	}

	t := p.Trace(symptoms)

	logger.FromContext(ctx).Debug("Diagnosis pipeline completed",
		zap.Strings("phrases", t.Phrases),
		zap.Strings("matched", t.Matched),
		zap.Int("diagnoses", len(t.Diagnoses)),
	)
	matched := t.Matched
	if matched == nil {
		matched = []string{}
	}
	return diagnosis.Analysis{Matched: matched, Diagnoses: t.Diagnoses}, nil
}
