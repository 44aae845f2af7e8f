package score

import "github.com/kailas-cloud/symdx/internal/domain/knowledge"

// Knowledge is the subset of the knowledge base the scorer reads.
type Knowledge interface {
	Conditions() []knowledge.Condition
	IsRedFlag(symptom string) bool
}
