package health

import "context"

// DBPinger checks history/cache store availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// KnowledgeSource exposes the loaded symptom vocabulary.
type KnowledgeSource interface {
	Vocabulary() []string
}
