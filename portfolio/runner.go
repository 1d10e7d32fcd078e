// Package portfolio simulates collections of contracts. Contracts are
// independent once their children are resolved, so a run fans out across a
// bounded worker pool; per-contract failures are collected rather than
// aborting the batch.
package portfolio

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/meenmo/actuslib/actus"
	"github.com/meenmo/actuslib/contracts"
	"github.com/meenmo/actuslib/observers"
)

// Runner drives portfolio simulations.
type Runner struct {
	market  observers.Market
	workers int
	log     zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the simulation fan-out; values below one mean
// sequential.
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		r.workers = n
	}
}

// WithLogger replaces the component logger.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Runner) { r.log = log }
}

// NewRunner builds a runner over the given market observer.
func NewRunner(market observers.Market, opts ...Option) *Runner {
	r := &Runner{
		market:  market,
		workers: 4,
		log:     NewLogger("portfolio"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// ContractResult pairs one portfolio entry with its outcome. Result holds
// the materialized events up to the failure point when Err is set.
type ContractResult struct {
	ContractID string
	Result     *actus.SimulationResult
	Err        error
}

// RunResult is the outcome of one portfolio run.
type RunResult struct {
	RunID     string
	Started   time.Time
	Elapsed   time.Duration
	Contracts []ContractResult
}

// Failed returns the entries that did not simulate cleanly.
func (r *RunResult) Failed() []ContractResult {
	var out []ContractResult
	for _, c := range r.Contracts {
		if c.Err != nil {
			out = append(out, c)
		}
	}
	return out
}

// Run simulates every top-level contract in the portfolio. A contract is
// top-level when no other contract lists it in its structure; covered
// legs and underliers are simulated through their parents. Results come
// back in portfolio order regardless of worker scheduling.
func (r *Runner) Run(ctx context.Context, attrs []*actus.Attributes) (*RunResult, error) {
	started := time.Now()
	run := &RunResult{
		RunID:   uuid.NewString(),
		Started: started,
	}
	log := r.log.With().Str("run_id", run.RunID).Logger()

	pool := make(map[string]*actus.Attributes, len(attrs))
	childIDs := map[string]bool{}
	for _, a := range attrs {
		pool[a.ContractID] = a
		for _, id := range a.ContractStructure {
			childIDs[id] = true
		}
	}
	var top []*actus.Attributes
	for _, a := range attrs {
		if !childIDs[a.ContractID] {
			top = append(top, a)
		}
	}
	log.Info().Int("contracts", len(attrs)).Int("top_level", len(top)).Msg("portfolio run started")

	results := make([]ContractResult, len(top))
	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, a := range top {
		i, a := i, a
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := contracts.Simulate(a, pool, r.market)
			mu.Lock()
			results[i] = ContractResult{ContractID: a.ContractID, Result: result, Err: err}
			mu.Unlock()
			if err != nil {
				log.Error().Str("contract_id", a.ContractID).Err(err).Msg("simulation failed")
			} else {
				log.Debug().Str("contract_id", a.ContractID).Int("events", len(result.Events)).Msg("simulated")
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return run, err
	}
	run.Contracts = results
	run.Elapsed = time.Since(started)
	log.Info().Dur("elapsed", run.Elapsed).Int("failed", len(run.Failed())).Msg("portfolio run finished")
	return run, nil
}

// CashFlows flattens a run into the combined event stream, ordered by
// time then contract id, for reporting.
func (r *RunResult) CashFlows() []actus.Event {
	var out []actus.Event
	for _, c := range r.Contracts {
		if c.Result == nil {
			continue
		}
		out = append(out, c.Result.Events...)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Time.Equal(out[j].Time) {
			return out[i].Time.Before(out[j].Time)
		}
		return actus.Priority(out[i].Kind) < actus.Priority(out[j].Kind)
	})
	return out
}
