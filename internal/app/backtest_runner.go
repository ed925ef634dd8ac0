package app

import (
	"context"
	"fmt"
	"time"

	"lsbacktest/internal/db/models/postgres/public/model"
	"lsbacktest/internal/db/models/postgres/public/table"
	"lsbacktest/internal/domain"
	"lsbacktest/internal/logger"
	"lsbacktest/internal/repository"
	l3_service "lsbacktest/internal/service/l3"
	"lsbacktest/internal/util"

	"github.com/go-jet/jet/v2/postgres"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type BacktestRunner struct {
	AlphaScoreRepository    repository.AlphaScoreRepository
	BacktestService         l3_service.BacktestService
	FundService             l3_service.FundService
	BacktestRunRepository   repository.BacktestRunRepository
	BacktestEventRepository repository.BacktestEventRepository
	Parallelism             int
}

type RunBacktestsInput struct {
	// Strategies defaults to every strategy with stored alpha scores.
	Strategies []string
	Start      time.Time
	End        time.Time
	// Aggregate rebuilds the combined fund once every strategy finished.
	Aggregate bool
	FundName  string
}

type StrategyRunResult struct {
	Strategy string                 `json:"strategy"`
	RunID    uuid.UUID              `json:"runID"`
	Status   string                 `json:"status"`
	Error    *string                `json:"error,omitempty"`
	Result   *domain.BacktestResult `json:"result,omitempty"`
}

type RunBacktestsResult struct {
	Runs      []StrategyRunResult         `json:"runs"`
	Aggregate *l3_service.AggregateResult `json:"aggregate,omitempty"`
}

// Run backtests every strategy, at most Parallelism at a time. A failing
// strategy is recorded against its run and does not stop the others.
func (h BacktestRunner) Run(ctx context.Context, in RunBacktestsInput) (*RunBacktestsResult, error) {
	if in.End.Before(in.Start) {
		return nil, domain.ErrInvalidDateRange
	}
	lg := logger.FromContext(ctx)

	strategies := in.Strategies
	if len(strategies) == 0 {
		all, err := h.AlphaScoreRepository.ListStrategies(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to list strategies: %w", err)
		}
		fundName := in.FundName
		if fundName == "" {
			fundName = l3_service.AggregatedFundName
		}
		for _, s := range all {
			if s != fundName {
				strategies = append(strategies, s)
			}
		}
	}

	out := &RunBacktestsResult{
		Runs: make([]StrategyRunResult, len(strategies)),
	}

	g := new(errgroup.Group)
	if h.Parallelism > 0 {
		g.SetLimit(h.Parallelism)
	}
	for i, strategy := range strategies {
		i, strategy := i, strategy
		g.Go(func() error {
			out.Runs[i] = h.runStrategy(ctx, strategy, in.Start, in.End)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return out, err
	}

	failed := 0
	for _, r := range out.Runs {
		if r.Status != string(domain.BacktestPhase_Done) {
			failed++
		}
	}
	lg.Infof("finished %d backtests, %d did not complete", len(out.Runs), failed)

	if in.Aggregate {
		aggregate, err := h.FundService.Aggregate(ctx, in.FundName)
		if err != nil {
			return out, fmt.Errorf("failed to aggregate fund: %w", err)
		}
		out.Aggregate = aggregate
	}

	return out, nil
}

func (h BacktestRunner) runStrategy(ctx context.Context, strategy string, start, end time.Time) StrategyRunResult {
	runID := uuid.New()
	ctx = logger.WithFields(ctx, "strategy", strategy)
	lg := logger.FromContext(ctx)

	out := StrategyRunResult{
		Strategy: strategy,
		RunID:    runID,
		Status:   string(domain.BacktestPhase_Running),
	}

	run, err := h.BacktestRunRepository.Add(nil, model.BacktestRun{
		BacktestRunID: runID,
		StrategyName:  strategy,
		StartDate:     start,
		EndDate:       end,
		Status:        string(domain.BacktestPhase_Running),
	})
	if err != nil {
		lg.Errorf("failed to add backtest run: %v", err)
		out.Status = repository.BacktestRunStatus_Failed
		out.Error = util.StringPointer(err.Error())
		return out
	}

	profile, endProfile := domain.NewProfile()
	result, runErr := h.BacktestService.Run(
		context.WithValue(ctx, domain.ContextProfileKey, profile),
		l3_service.RunBacktestInput{
			RunID:    runID,
			Strategy: strategy,
			Start:    start,
			End:      end,
		},
	)
	endProfile()
	out.Result = result

	switch {
	case runErr == nil:
		out.Status = string(domain.BacktestPhase_Done)
	case result != nil && result.Phase == domain.BacktestPhase_Aborted:
		out.Status = string(domain.BacktestPhase_Aborted)
	default:
		out.Status = repository.BacktestRunStatus_Failed
	}
	if runErr != nil {
		lg.Errorf("backtest %s: %v", out.Status, runErr)
		out.Error = util.StringPointer(runErr.Error())
	}

	run.Status = out.Status
	run.ErrorMessage = out.Error
	if result != nil {
		run.NumRebalances = int32(len(result.Rebalances))
		if len(result.Events) > 0 {
			if err := h.BacktestEventRepository.AddMany(nil, runID, result.Events); err != nil {
				lg.Errorf("failed to store quality events: %v", err)
			}
		}
	}

	_, err = h.BacktestRunRepository.Update(nil, run, postgres.ColumnList{
		table.BacktestRun.Status,
		table.BacktestRun.ErrorMessage,
		table.BacktestRun.NumRebalances,
	})
	if err != nil {
		lg.Errorf("failed to update backtest run: %v", err)
	}

	return out
}
