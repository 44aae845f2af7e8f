package normalize

// Knowledge is the subset of the knowledge base the normalizer reads.
type Knowledge interface {
	Vocabulary() []string
	Synonyms() map[string]string
	IsStopword(token string) bool
	NegationMarkers() []string
	AffirmativeIdioms() []string
}
