package symdx

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/symdx/internal/db"
	dbRedis "github.com/kailas-cloud/symdx/internal/db/redis"
	"github.com/kailas-cloud/symdx/internal/domain/diagnosis"
	"github.com/kailas-cloud/symdx/internal/domain/knowledge"
	historyrepo "github.com/kailas-cloud/symdx/internal/repository/history"
	diagnoseuc "github.com/kailas-cloud/symdx/internal/usecase/diagnose"
	historyuc "github.com/kailas-cloud/symdx/internal/usecase/history"
	"github.com/kailas-cloud/symdx/internal/usecase/match"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped for mocks in tests.
type diagnoseUseCase interface {
	Diagnose(ctx context.Context, userID string, symptoms []string) (diagnosis.Response, error)
}

type historyUseCase interface {
	List(ctx context.Context, limit int) ([]diagnosis.Record, error)
	Get(ctx context.Context, id string) (diagnosis.Record, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// Client is the symdx SDK entry point. It is safe for concurrent use.
type Client struct {
	kb         *knowledge.Base
	store      db.Store
	diagSvc    diagnoseUseCase
	historySvc historyUseCase
	obs        *observer
}

// New creates a Client. With WithValkey or WithRedis it also connects to the store;
// ctx bounds the initial readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, o := range opts {
		o.apply(cfg)
	}

	kb, err := loadKnowledge(cfg)
	if err != nil {
		return nil, err
	}

	matchCfg := match.DefaultConfig()
	if cfg.threshold != 0 {
		matchCfg.Threshold = cfg.threshold
	}
	if cfg.topPerPhrase != 0 {
		matchCfg.TopPerPhrase = cfg.topPerPhrase
	}
	pipeline, err := diagnoseuc.NewPipeline(kb, matchCfg, cfg.topN)
	if err != nil {
		return nil, fmt.Errorf("symdx: %w", err)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	var store db.Store
	if cfg.driver != "" {
		store, err = createStore(ctx, cfg)
		if err != nil {
			return nil, err
		}
	}

	return wireClient(kb, pipeline, store, cfg, obs), nil
}

func loadKnowledge(cfg *clientConfig) (*knowledge.Base, error) {
	var (
		kb  *knowledge.Base
		err error
	)
	switch {
	case cfg.knowledgeYAML != nil:
		kb, err = knowledge.Parse(cfg.knowledgeYAML)
	case cfg.knowledgePath != "":
		kb, err = knowledge.LoadFile(cfg.knowledgePath)
	default:
		kb, err = knowledge.Default()
	}
	if err != nil {
		return nil, fmt.Errorf("symdx: load knowledge base: %w", err)
	}
	return kb, nil
}

func createStore(ctx context.Context, cfg *clientConfig) (db.Store, error) {
	switch cfg.driver {
	case "valkey", "redis":
	default:
		return nil, fmt.Errorf("symdx: unknown driver %q", cfg.driver)
	}
	if len(cfg.addrs) == 0 || cfg.addrs[0] == "" {
		return nil, errors.New("symdx: database address required")
	}

	s, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.addrs,
		Password: cfg.password,
	})
	if err != nil {
		return nil, fmt.Errorf("symdx: create %s store: %w", cfg.driver, err)
	}
	if err := s.WaitForReady(ctx, defaultReadinessTimeout); err != nil {
		s.Close()
		return nil, fmt.Errorf("symdx: database not ready: %w", err)
	}
	return s, nil
}

func wireClient(
	kb *knowledge.Base, pipeline *diagnoseuc.Pipeline, store db.Store, cfg *clientConfig, obs *observer,
) *Client {
	c := &Client{kb: kb, store: store, obs: obs}

	// Pass a nil interface, not a typed nil *historyuc.Service, when history is off.
	var recorder diagnoseuc.HistoryRecorder
	if store != nil {
		hist := historyuc.New(historyrepo.New(store, cfg.maxRecords), 0, 0)
		recorder = hist
		c.historySvc = hist
	}
	c.diagSvc = diagnoseuc.New(pipeline, recorder, zap.NewNop())
	return c
}

// Close releases the store connection, if any.
func (c *Client) Close() {
	if c.store != nil {
		c.store.Close()
	}
}

// Diagnose ranks likely conditions for colloquial symptom descriptions. An empty
// Diagnoses list means no symptom was recognized.
func (c *Client) Diagnose(ctx context.Context, symptoms []string) (Result, error) {
	return c.DiagnoseFor(ctx, "", symptoms)
}

// DiagnoseFor is Diagnose with the result attributed to userID in history.
func (c *Client) DiagnoseFor(ctx context.Context, userID string, symptoms []string) (res Result, err error) {
	start := time.Now()
	defer func() { c.obs.observe("diagnose", start, err) }()

	resp, err := c.diagSvc.Diagnose(ctx, userID, symptoms)
	if err != nil {
		return Result{}, fmt.Errorf("diagnose: %w", err)
	}
	c.obs.outcome(diagnoseuc.Outcome(resp.Diagnoses))
	return resultFromDomain(resp), nil
}

// History returns up to limit stored diagnoses, newest first.
func (c *Client) History(ctx context.Context, limit int) (recs []Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("history_list", start, err) }()

	if c.historySvc == nil {
		return nil, ErrHistoryUnavailable
	}
	items, err := c.historySvc.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	recs = make([]Record, len(items))
	for i, r := range items {
		recs[i] = recordFromDomain(r)
	}
	return recs, nil
}

// Record returns one stored diagnosis.
func (c *Client) Record(ctx context.Context, id string) (rec Record, err error) {
	start := time.Now()
	defer func() { c.obs.observe("history_get", start, err) }()

	if c.historySvc == nil {
		return Record{}, ErrHistoryUnavailable
	}
	r, err := c.historySvc.Get(ctx, id)
	if err != nil {
		return Record{}, fmt.Errorf("get history record: %w", err)
	}
	return recordFromDomain(r), nil
}

// DeleteRecord removes a stored diagnosis and reports whether it existed.
func (c *Client) DeleteRecord(ctx context.Context, id string) (ok bool, err error) {
	start := time.Now()
	defer func() { c.obs.observe("history_delete", start, err) }()

	if c.historySvc == nil {
		return false, ErrHistoryUnavailable
	}
	ok, err = c.historySvc.Delete(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete history record: %w", err)
	}
	return ok, nil
}

// Conditions lists the knowledge base in declaration order.
func (c *Client) Conditions() []Condition {
	conds := c.kb.Conditions()
	out := make([]Condition, len(conds))
	for i, cond := range conds {
		out[i] = conditionFromDomain(cond)
	}
	return out
}

// Vocabulary lists the canonical symptoms the matcher recognizes.
func (c *Client) Vocabulary() []string {
	return c.kb.Vocabulary()
}

// Ping checks store connectivity. Without a store it always succeeds.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.store == nil {
		return nil
	}
	if err = c.store.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}
