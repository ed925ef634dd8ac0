package l3_service

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

	"github.com/google/uuid"
)

type RunBacktestInput struct {
	RunID    uuid.UUID
	Strategy string
	Start    time.Time
	End      time.Time
}

// RebalanceInput is everything one rebalance date needs, loaded up front
// so that step does no I/O.
type RebalanceInput struct {
	Strategy      string
	Date          time.Time
	IsInitial     bool
	AumRow        *domain.AumLeverageRecord
	TargetWeights []domain.AlphaScore
	// Prices holds quotes on Date for the previous open tickers and the
	// target tickers.
	Prices domain.PriceBatch
}

type StepResult struct {
	Closed  []domain.Trade
	Opened  []domain.Trade
	Events  []domain.QualityEvent
	Summary domain.RebalanceSummary
}

// BacktestService runs one strategy through its rebalance dates, closing
// the previous period's trades and opening the next period's on each.
type BacktestService interface {
	Run(ctx context.Context, in RunBacktestInput) (*domain.BacktestResult, error)
	TerminalClose(ctx context.Context, state domain.RebalanceState, asOf time.Time, prices domain.PriceBatch) (*StepResult, domain.RebalanceState, error)
}

type backtestServiceHandler struct {
	AlphaScoreRepository   repository.AlphaScoreRepository
	AumLeverageRepository  repository.AumLeverageRepository
	TradeBookingRepository repository.TradeBookingRepository
	PriceService           l1_service.PriceService
	NotionalService        l1_service.NotionalService
	TradeLifecycleService  l1_service.TradeLifecycleService
	ShareAllocator         calculator.ShareAllocator
}

func NewBacktestService(
	alphaScoreRepository repository.AlphaScoreRepository,
	aumLeverageRepository repository.AumLeverageRepository,
	tradeBookingRepository repository.TradeBookingRepository,
	priceService l1_service.PriceService,
	notionalService l1_service.NotionalService,
	tradeLifecycleService l1_service.TradeLifecycleService,
	shareAllocator calculator.ShareAllocator,
) BacktestService {
	return backtestServiceHandler{
		AlphaScoreRepository:   alphaScoreRepository,
		AumLeverageRepository:  aumLeverageRepository,
		TradeBookingRepository: tradeBookingRepository,
		PriceService:           priceService,
		NotionalService:        notionalService,
		TradeLifecycleService:  tradeLifecycleService,
		ShareAllocator:         shareAllocator,
	}
}

// Run folds step over the strategy's alpha dates and finishes with a
// terminal close. Each date's closed and opened trades are written in one
// transaction, and nothing is written once ctx is done. The returned
// result is non-nil whenever the run got far enough to have a phase,
// including on error.
func (h backtestServiceHandler) Run(ctx context.Context, in RunBacktestInput) (*domain.BacktestResult, error) {
	if in.End.Before(in.Start) {
		return nil, domain.ErrInvalidDateRange
	}
	ctx = logger.WithFields(ctx, "strategy", in.Strategy, "runID", in.RunID.String())
	lg := logger.FromContext(ctx)
	profile := domain.ProfileFromContext(ctx)

	result := &domain.BacktestResult{
		RunID:      in.RunID,
		Strategy:   in.Strategy,
		Phase:      domain.BacktestPhase_NotStarted,
		Start:      in.Start,
		End:        in.End,
		Rebalances: []domain.RebalanceSummary{},
		Events:     []domain.QualityEvent{},
		Profile:    profile,
	}

	_, endSpan := profile.StartSpan("load backtest inputs")
	scores, err := h.AlphaScoreRepository.List(nil, in.Strategy, in.Start, in.End)
	if err != nil {
		endSpan()
		return nil, fmt.Errorf("failed to load alpha scores: %w", err)
	}
	if len(scores) == 0 {
		endSpan()
		result.Phase = domain.BacktestPhase_Aborted
		result.Events = append(result.Events, newEvent(
			domain.QualityEventKind_DataUnavailable, in.Strategy, in.Start, nil,
			fmt.Sprintf("no alpha scores between %s and %s", in.Start.Format(util.DateLayout), in.End.Format(util.DateLayout)),
		))
		lg.Warnf("aborting backtest: no alpha scores")
		return result, fmt.Errorf("failed to run %s: %w", in.Strategy, domain.ErrNoAlphaScores)
	}

	aumRows, err := h.AumLeverageRepository.List(nil, in.Strategy, in.Start, in.End)
	if err != nil {
		endSpan()
		return nil, fmt.Errorf("failed to load aum schedule: %w", err)
	}
	aumByDate := map[time.Time]domain.AumLeverageRecord{}
	for _, r := range aumRows {
		aumByDate[util.TruncateDate(r.Date)] = r
	}

	scoresByDate := map[time.Time][]domain.AlphaScore{}
	for _, s := range scores {
		d := util.TruncateDate(s.Date)
		scoresByDate[d] = append(scoresByDate[d], s)
	}
	dates := make([]time.Time, 0, len(scoresByDate))
	for d := range scoresByDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool {
		return dates[i].Before(dates[j])
	})

	openTrades, err := h.TradeBookingRepository.GetOpenTrades(nil, in.Strategy, dates[0])
	if err != nil {
		endSpan()
		return nil, fmt.Errorf("failed to load open trades: %w", err)
	}
	endSpan()

	state := domain.RebalanceState{
		Phase:              domain.BacktestPhase_Running,
		PreviousOpenTrades: openTrades,
	}
	result.Phase = state.Phase
	lg.Infof("running backtest over %d rebalance dates", len(dates))

	for i, d := range dates {
		if err := ctx.Err(); err != nil {
			result.Phase = domain.BacktestPhase_Aborted
			return result, err
		}
		_, endSpan := profile.StartSpan("rebalance " + d.Format(util.DateLayout))

		prices, err := h.PriceService.GetBatch(ctx, rebalanceTickers(state.PreviousOpenTrades, scoresByDate[d]), d)
		if err != nil {
			endSpan()
			result.Phase = domain.BacktestPhase_Aborted
			return result, fmt.Errorf("failed to load prices on %s: %w", d.Format(util.DateLayout), err)
		}

		var aumRow *domain.AumLeverageRecord
		if r, ok := aumByDate[d]; ok {
			aumRow = &r
		}

		stepResult, newState, err := h.step(ctx, state, RebalanceInput{
			Strategy:      in.Strategy,
			Date:          d,
			IsInitial:     i == 0,
			AumRow:        aumRow,
			TargetWeights: scoresByDate[d],
			Prices:        prices,
		})
		if err == nil {
			err = ctx.Err()
		}
		if err != nil {
			endSpan()
			result.Phase = domain.BacktestPhase_Aborted
			return result, fmt.Errorf("failed to rebalance on %s: %w", d.Format(util.DateLayout), err)
		}

		booked := append(append([]domain.Trade{}, stepResult.Closed...), stepResult.Opened...)
		if len(booked) > 0 {
			err = h.TradeBookingRepository.Replace(nil, booked)
		}
		endSpan()
		if err != nil {
			result.Phase = domain.BacktestPhase_Aborted
			return result, fmt.Errorf("failed to book trades on %s: %w", d.Format(util.DateLayout), err)
		}

		logEvents(ctx, stepResult.Events)
		result.Events = append(result.Events, stepResult.Events...)
		result.Rebalances = append(result.Rebalances, stepResult.Summary)
		state = newState
	}

	state.Phase = domain.BacktestPhase_Closing
	result.Phase = state.Phase
	lastDate := dates[len(dates)-1]

	asOf := lastDate
	tradingDays, err := h.PriceService.TradingDays(ctx, lastDate.AddDate(0, 0, 1), in.End)
	if err != nil {
		result.Phase = domain.BacktestPhase_Aborted
		return result, err
	}
	if len(tradingDays) > 0 {
		asOf = tradingDays[len(tradingDays)-1]
	} else if len(state.PreviousOpenTrades) > 0 {
		event := newEvent(
			domain.QualityEventKind_TerminalCloseSameDay, in.Strategy, lastDate, nil,
			"no trading day after the last rebalance, closing at its own prices",
		)
		logEvents(ctx, []domain.QualityEvent{event})
		result.Events = append(result.Events, event)
	}

	prices, err := h.PriceService.GetBatch(ctx, rebalanceTickers(state.PreviousOpenTrades, nil), asOf)
	if err != nil {
		result.Phase = domain.BacktestPhase_Aborted
		return result, fmt.Errorf("failed to load terminal prices on %s: %w", asOf.Format(util.DateLayout), err)
	}

	closeResult, state, err := h.TerminalClose(ctx, state, asOf, prices)
	if err != nil {
		result.Phase = domain.BacktestPhase_Aborted
		return result, err
	}
	result.Events = append(result.Events, closeResult.Events...)
	result.Rebalances = append(result.Rebalances, closeResult.Summary)
	result.Phase = state.Phase

	lg.Infof("backtest done: %d rebalances, %d quality events", len(dates), len(result.Events))

	return result, nil
}

// TerminalClose closes the last open batch at asOf and books it. No new
// trades are opened. Run passes the latest trading day after the last
// rebalance date up to the end of the range, so close dates stay strictly
// after open dates; only when no such day exists does it close on the last
// rebalance date at that date's own prices.
func (h backtestServiceHandler) TerminalClose(ctx context.Context, state domain.RebalanceState, asOf time.Time, prices domain.PriceBatch) (*StepResult, domain.RebalanceState, error) {
	if err := ctx.Err(); err != nil {
		return nil, state, err
	}

	closeResult := h.TradeLifecycleService.Close(state.PreviousOpenTrades, prices, asOf)
	out := &StepResult{
		Closed: closeResult.Closed,
		Opened: []domain.Trade{},
		Events: missingPriceEvents(state.PreviousOpenTrades, closeResult.MissingPrices, asOf),
	}
	closingValue := h.TradeLifecycleService.ClosingValue(closeResult.Closed)
	out.Summary = domain.RebalanceSummary{
		Date:         asOf,
		ClosingValue: closingValue,
		Notional:     closingValue + state.IdleCash,
		NumClosed:    len(closeResult.Closed),
		IdleCash:     state.IdleCash,
	}

	if len(closeResult.Closed) > 0 {
		err := h.TradeBookingRepository.Replace(nil, closeResult.Closed)
		if err != nil {
			return nil, state, fmt.Errorf("failed to book terminal close on %s: %w", asOf.Format(util.DateLayout), err)
		}
	}
	logEvents(ctx, out.Events)

	state.Phase = domain.BacktestPhase_Done
	state.PreviousOpenTrades = []domain.Trade{}
	state.CurrentNotional = out.Summary.Notional
	state.CurrentDate = &asOf
	return out, state, nil
}

// step closes the previous batch, sizes the new notional and allocates it
// across the date's directions. It only returns an error when ctx is done,
// in which case nothing from this date may be written.
func (h backtestServiceHandler) step(ctx context.Context, state domain.RebalanceState, in RebalanceInput) (*StepResult, domain.RebalanceState, error) {
	closeResult := h.TradeLifecycleService.Close(state.PreviousOpenTrades, in.Prices, in.Date)
	out := &StepResult{
		Closed: closeResult.Closed,
		Opened: []domain.Trade{},
		Events: missingPriceEvents(state.PreviousOpenTrades, closeResult.MissingPrices, in.Date),
	}

	closingValue := h.TradeLifecycleService.ClosingValue(closeResult.Closed)
	currentValue := closingValue + state.IdleCash

	notional := h.NotionalService.NewNotional(in.AumRow, currentValue, in.IsInitial)
	if notional.Guarded {
		out.Events = append(out.Events, newEvent(
			domain.QualityEventKind_ArithmeticGuard, in.Strategy, in.Date, nil,
			fmt.Sprintf("target leverage %.4f equals leverage change, carrying %.2f", in.AumRow.TargetLeverage, currentValue),
		))
	}

	out.Summary = domain.RebalanceSummary{
		Date:               in.Date,
		ClosingValue:       closingValue,
		Notional:           notional.Notional,
		NumClosed:          len(closeResult.Closed),
		Allocations:        map[domain.TradeDirection]domain.Allocation{},
		CapitalByDirection: map[domain.TradeDirection]float64{},
	}

	newState := state
	newState.Phase = domain.BacktestPhase_Running
	newState.CurrentNotional = notional.Notional
	newState.CurrentDate = &in.Date
	newState.IdleCash = 0

	groups := calculator.GroupByDirection(in.TargetWeights)
	targetTickers := []string{}
	for _, s := range in.TargetWeights {
		targetTickers = append(targetTickers, s.Ticker)
	}

	if len(groups) == 0 || !in.Prices.Tradable(targetTickers) {
		out.Events = append(out.Events,
			newEvent(domain.QualityEventKind_DataUnavailable, in.Strategy, in.Date, nil, "no tradable prices for target tickers, skipping opening"),
			newEvent(domain.QualityEventKind_IdleCash, in.Strategy, in.Date, nil, fmt.Sprintf("%.2f held as idle cash", notional.Notional)),
		)
		newState.IdleCash = notional.Notional
		newState.PreviousOpenTrades = []domain.Trade{}
		out.Summary.IdleCash = notional.Notional
		return out, newState, nil
	}

	capital := notional.Notional / float64(len(groups))
	for _, direction := range []domain.TradeDirection{domain.TradeDirection_Long, domain.TradeDirection_Short} {
		group, ok := groups[direction]
		if !ok {
			continue
		}

		basket := make([]calculator.BasketItem, 0, len(group))
		for _, s := range group {
			basket = append(basket, calculator.BasketItem{
				Ticker:       s.Ticker,
				Price:        in.Prices[s.Ticker],
				TargetWeight: s.Weight,
			})
		}

		alloc, err := h.ShareAllocator.Allocate(ctx, basket, capital)
		if err != nil {
			return nil, state, err
		}
		out.Summary.Allocations[direction] = *alloc
		out.Summary.CapitalByDirection[direction] = capital

		if alloc.Status == domain.AllocationStatus_Degraded {
			out.Events = append(out.Events, newEvent(
				domain.QualityEventKind_OptimizationDegraded, in.Strategy, in.Date, nil,
				fmt.Sprintf("%s basket fell back to %s: %s", direction, alloc.Solver, alloc.Reason),
			))
		}
		for _, ticker := range alloc.ZeroPriceTickers {
			out.Events = append(out.Events, newEvent(
				domain.QualityEventKind_ZeroPriceAsset, in.Strategy, in.Date, util.StringPointer(ticker),
				fmt.Sprintf("%s has no positive price, weight redistributed", ticker),
			))
		}

		opened := 0
		for _, row := range alloc.Rows {
			if row.Shares <= 0 {
				continue
			}
			opened++
			shares := row.Shares
			if direction == domain.TradeDirection_Short {
				shares = -shares
			}
			out.Opened = append(out.Opened, domain.Trade{
				Strategy:       in.Strategy,
				Ticker:         row.Ticker,
				Shares:         shares,
				Direction:      direction,
				TradeOpenDate:  in.Date,
				TradeOpenPrice: row.Price,
			})
		}

		// a direction that could not buy anything keeps its capital
		if opened == 0 {
			newState.IdleCash += capital
			out.Summary.IdleCash += capital
			out.Events = append(out.Events, newEvent(
				domain.QualityEventKind_IdleCash, in.Strategy, in.Date, nil,
				fmt.Sprintf("%s basket opened nothing, %.2f held as idle cash", direction, capital),
			))
		}
	}

	out.Summary.NumOpened = len(out.Opened)
	newState.PreviousOpenTrades = out.Opened
	return out, newState, nil
}

func rebalanceTickers(open []domain.Trade, targets []domain.AlphaScore) []string {
	seen := map[string]bool{}
	out := []string{}
	for _, t := range open {
		if !seen[t.Ticker] {
			seen[t.Ticker] = true
			out = append(out, t.Ticker)
		}
	}
	for _, s := range targets {
		if !seen[s.Ticker] {
			seen[s.Ticker] = true
			out = append(out, s.Ticker)
		}
	}
	return out
}

func missingPriceEvents(open []domain.Trade, missing []string, date time.Time) []domain.QualityEvent {
	out := []domain.QualityEvent{}
	if len(missing) == 0 || len(open) == 0 {
		return out
	}
	strategy := open[0].Strategy
	for _, ticker := range missing {
		out = append(out, newEvent(
			domain.QualityEventKind_MissingClosePrice, strategy, date, util.StringPointer(ticker),
			fmt.Sprintf("no closing price for %s, closed without a price", ticker),
		))
	}
	return out
}

func newEvent(kind domain.QualityEventKind, strategy string, date time.Time, ticker *string, detail string) domain.QualityEvent {
	return domain.QualityEvent{
		Kind:     kind,
		Strategy: strategy,
		Date:     date,
		Ticker:   ticker,
		Detail:   detail,
	}
}

func logEvents(ctx context.Context, events []domain.QualityEvent) {
	lg := logger.FromContext(ctx)
	for _, e := range events {
		lg.Warnw(e.Detail, "kind", e.Kind, "date", e.Date.Format(util.DateLayout))
	}
}
