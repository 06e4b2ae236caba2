package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/loykin/apicheck/internal/common"
	"github.com/loykin/apicheck/internal/task"
	"github.com/loykin/apicheck/pkg/status"
	"golang.org/x/sync/errgroup"
)

// ErrIncomplete is returned when the run was cancelled before every target
// settled. No partial result set is returned alongside it.
var ErrIncomplete = errors.New("run incomplete")

// Engine fans a plan out over one shared HTTP client.
type Engine struct {
	Client *resty.Client
	Policy task.ErrorPolicy
	// Concurrency caps in-flight requests; 0 or less dispatches every target at once.
	Concurrency int
}

// Execute requests every target and returns the raw results in target order,
// whatever order the requests complete in. It waits for every dispatched
// request before returning.
func (e *Engine) Execute(ctx context.Context, targets []task.Target) ([]task.Result, error) {
	if e.Client == nil {
		return nil, errors.New("orchestrator: nil HTTP client")
	}
	results := make([]task.Result, len(targets))

	var g errgroup.Group
	if e.Concurrency > 0 {
		g.SetLimit(e.Concurrency)
	}
	for i, t := range targets {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			// each goroutine owns results[i]; Wait is the only synchronization
			results[i] = task.Execute(ctx, e.Client, t)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIncomplete, err)
	}
	return results, nil
}

// Run executes targets, classifies each result and aggregates them.
func (e *Engine) Run(ctx context.Context, targets []task.Target) (*status.ResultSet, error) {
	runID := uuid.NewString()
	logger := common.GetLogger().WithComponent("orchestrator").WithRun(runID)
	logger.Info("starting run", "targets", len(targets), "concurrency", e.Concurrency)

	start := time.Now()
	results, err := e.Execute(ctx, targets)
	elapsed := time.Since(start)
	if err != nil {
		logger.Warn("run cancelled before all requests settled", "error", err, "elapsed", elapsed)
		return nil, err
	}

	for i := range results {
		results[i].Apply(e.Policy)
	}
	rs := status.Aggregate(runID, results, elapsed)

	logger.Info("run completed",
		"total", rs.Total(),
		"passed", rs.PassedCount(),
		"failed", rs.FailedCount(),
		"elapsed", elapsed)
	return rs, nil
}
