package l2_service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"lsbacktest/internal/calculator"
	"lsbacktest/internal/domain"
	"lsbacktest/internal/logger"
	"lsbacktest/internal/repository"
	l1_service "lsbacktest/internal/service/l1"
	"lsbacktest/internal/util"
)

type BuildSignalInput struct {
	Generator SignalGenerator
	Universe  []string
	Start     time.Time
	End       time.Time
	TopN      int
}

type BuildSignalResult struct {
	Strategy  string
	NumDates  int
	NumScores int
	// SkippedDates had too few valid scores to form both sides.
	SkippedDates []time.Time
}

// SignalService turns a generator's scores into stored alpha weights.
type SignalService interface {
	BuildAndStore(ctx context.Context, in BuildSignalInput) (*BuildSignalResult, error)
}

type signalServiceHandler struct {
	PriceService         l1_service.PriceService
	AlphaScoreRepository repository.AlphaScoreRepository
}

func NewSignalService(priceService l1_service.PriceService, alphaScoreRepository repository.AlphaScoreRepository) SignalService {
	return signalServiceHandler{
		PriceService:         priceService,
		AlphaScoreRepository: alphaScoreRepository,
	}
}

// BuildAndStore scores the universe, builds long/short weights for every
// Friday in [Start, End] and replaces the strategy's alpha rows in that
// range.
func (h signalServiceHandler) BuildAndStore(ctx context.Context, in BuildSignalInput) (*BuildSignalResult, error) {
	if in.End.Before(in.Start) {
		return nil, domain.ErrInvalidDateRange
	}
	if in.Generator == nil {
		return nil, domain.ErrUnknownSignal
	}
	name := in.Generator.Name()
	ctx = logger.WithFields(ctx, "strategy", name)
	lg := logger.FromContext(ctx)
	profile := domain.ProfileFromContext(ctx)

	seriesStart := in.Start.AddDate(0, 0, -in.Generator.LookbackDays())
	series, err := h.PriceService.LoadPriceSeries(ctx, in.Generator.Symbols(in.Universe), seriesStart, in.End)
	if err != nil {
		return nil, fmt.Errorf("failed to load prices for %s: %w", name, err)
	}

	_, endSpan := profile.StartSpan("compute signal")
	scores, err := in.Generator.Scores(ctx, series, in.Universe)
	endSpan()
	if err != nil {
		return nil, fmt.Errorf("failed to compute %s scores: %w", name, err)
	}

	fridays := util.Fridays(in.Start, in.End)
	out := &BuildSignalResult{
		Strategy:     name,
		SkippedDates: []time.Time{},
	}
	rows := []domain.AlphaScore{}
	for _, d := range fridays {
		scoresOnDay, ok := scores[d]
		if !ok {
			out.SkippedDates = append(out.SkippedDates, d)
			continue
		}
		weights := calculator.BuildTargetWeights(calculator.BuildTargetWeightsInput{
			Date:           d,
			Strategy:       name,
			ScoresBySymbol: scoresOnDay,
			TopN:           in.TopN,
		})
		if len(weights) == 0 {
			out.SkippedDates = append(out.SkippedDates, d)
			continue
		}
		rows = append(rows, weights...)
		out.NumDates++
	}
	out.NumScores = len(rows)

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Date.Before(rows[j].Date)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	err = h.AlphaScoreRepository.ReplaceRange(nil, name, in.Start, in.End, rows)
	if err != nil {
		return nil, fmt.Errorf("failed to store %s alpha scores: %w", name, err)
	}

	lg.Infof("stored %d alpha rows over %d dates, skipped %d", out.NumScores, out.NumDates, len(out.SkippedDates))

	return out, nil
}
