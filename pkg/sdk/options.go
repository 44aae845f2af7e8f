package symdx

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	knowledgePath string
	knowledgeYAML []byte

	threshold    float64
	topPerPhrase int
	topN         int

	driver     string // "valkey" or "redis"; empty = no history
	addrs      []string
	password   string
	maxRecords int

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithKnowledgeFile loads the knowledge base from a YAML file instead of the built-in one.
func WithKnowledgeFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.knowledgePath = path
	})
}

// WithKnowledgeYAML uses an in-memory YAML knowledge base.
func WithKnowledgeYAML(data []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.knowledgeYAML = data
	})
}

// WithThreshold sets the minimum n-gram similarity for a symptom match.
// Must be in (0, 1]. Default: 0.15.
func WithThreshold(t float64) Option {
	return optionFunc(func(c *clientConfig) {
		c.threshold = t
	})
}

// WithTopPerPhrase sets how many canonical symptoms one phrase may match. Default: 2.
func WithTopPerPhrase(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topPerPhrase = k
	})
}

// WithTopN sets how many conditions a Result lists at most, from 1 to 3. Other values
// use the default of 3.
func WithTopN(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topN = n
	})
}

// WithValkey stores diagnosis history in a Valkey instance.
func WithValkey(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "valkey"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithRedis stores diagnosis history in a Redis instance.
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = "redis"
		c.addrs = []string{addr}
		c.password = password
	})
}

// WithMaxRecords caps stored history. Default: 200.
func WithMaxRecords(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxRecords = n
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
