package l2_service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"lsbacktest/internal/domain"
	"lsbacktest/internal/logger"
	l1_service "lsbacktest/internal/service/l1"
	"lsbacktest/internal/util"

	"github.com/maja42/goval"
	"github.com/montanaflynn/stats"
)

const (
	ExpressionSignalName = "Expression"
	defaultLookbackDays  = 365
	numExpressionWorkers = 10
)

// ExpressionSignal evaluates a user supplied expression for every symbol
// on every Friday, e.g.
//
//	pricePercentChange(nDaysAgo(90), currentDate) / stdev(nDaysAgo(90), currentDate)
type ExpressionSignal struct {
	Strategy   string
	Expression string
	Lookback   int
}

func NewExpressionSignal(strategy, expression string, lookbackDays int) SignalGenerator {
	if lookbackDays <= 0 {
		lookbackDays = defaultLookbackDays
	}
	return ExpressionSignal{
		Strategy:   strategy,
		Expression: expression,
		Lookback:   lookbackDays,
	}
}

func (s ExpressionSignal) Name() string {
	if s.Strategy == "" {
		return ExpressionSignalName
	}
	return s.Strategy
}

func (s ExpressionSignal) LookbackDays() int {
	return s.Lookback
}

func (s ExpressionSignal) Symbols(universe []string) []string {
	return universe
}

type expressionInput struct {
	Symbol string
	Date   time.Time
}

type expressionResult struct {
	expressionInput
	Value float64
	Err   error
}

func (s ExpressionSignal) Scores(ctx context.Context, series *l1_service.PriceSeries, universe []string) (ScoresByDate, error) {
	inputs := []expressionInput{}
	for _, d := range series.Days {
		if d.Weekday() != time.Friday {
			continue
		}
		for _, symbol := range universe {
			inputs = append(inputs, expressionInput{Symbol: symbol, Date: d})
		}
	}

	profile := domain.ProfileFromContext(ctx)
	_, endSpan := profile.StartSpan("evaluate expressions")
	defer endSpan()

	inputCh := make(chan expressionInput, len(inputs))
	resultCh := make(chan expressionResult, len(inputs))
	for _, in := range inputs {
		inputCh <- in
	}
	close(inputCh)

	var wg sync.WaitGroup
	for i := 0; i < numExpressionWorkers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range inputCh {
				if ctx.Err() != nil {
					return
				}
				value, err := EvaluateExpression(series, s.Expression, in.Symbol, in.Date)
				resultCh <- expressionResult{expressionInput: in, Value: value, Err: err}
			}
		}()
	}
	go func() {
		wg.Wait()
		close(resultCh)
	}()

	out := ScoresByDate{}
	numErrors := 0
	for res := range resultCh {
		if res.Err != nil {
			numErrors++
			setScore(out, res.Date, res.Symbol, math.NaN())
			continue
		}
		setScore(out, res.Date, res.Symbol, res.Value)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if numErrors > 0 {
		logger.FromContext(ctx).Warnf("%d of %d expression evaluations failed for %s", numErrors, len(inputs), s.Name())
	}

	return out, nil
}

// EvaluateExpression evaluates expression for symbol as of date against
// the loaded price series.
func EvaluateExpression(series *l1_service.PriceSeries, expression, symbol string, date time.Time) (float64, error) {
	eval := goval.NewEvaluator()
	variables := map[string]interface{}{
		"currentDate": date.Format(util.DateLayout),
	}
	result, err := eval.Evaluate(expression, variables, expressionFunctions(series, symbol, date))
	if err != nil {
		return 0, fmt.Errorf("failed to evaluate expression for %s on %s: %w", symbol, date.Format(util.DateLayout), err)
	}

	var r float64
	switch v := result.(type) {
	case float64:
		r = v
	case int:
		r = float64(v)
	default:
		return 0, fmt.Errorf("expression returned %T, not a number", result)
	}
	if !util.IsFinite(r) {
		return 0, fmt.Errorf("expression returned %v", r)
	}
	return r, nil
}

func expressionFunctions(series *l1_service.PriceSeries, symbol string, currentDate time.Time) map[string]goval.ExpressionFunction {
	return map[string]goval.ExpressionFunction{
		"nDaysAgo": func(args ...interface{}) (interface{}, error) {
			n, err := intArg("nDaysAgo", args, 0)
			if err != nil {
				return nil, err
			}
			return currentDate.AddDate(0, 0, -n).Format(util.DateLayout), nil
		},
		"nMonthsAgo": func(args ...interface{}) (interface{}, error) {
			n, err := intArg("nMonthsAgo", args, 0)
			if err != nil {
				return nil, err
			}
			return currentDate.AddDate(0, -n, 0).Format(util.DateLayout), nil
		},

		// price(date)
		"price": func(args ...interface{}) (interface{}, error) {
			date, err := dateArg("price", args, 0)
			if err != nil {
				return nil, err
			}
			return priceOnOrBefore(series, symbol, date)
		},

		// pricePercentChange(start, end)
		"pricePercentChange": func(args ...interface{}) (interface{}, error) {
			start, err := dateArg("pricePercentChange", args, 0)
			if err != nil {
				return nil, err
			}
			end, err := dateArg("pricePercentChange", args, 1)
			if err != nil {
				return nil, err
			}
			startPrice, err := priceOnOrBefore(series, symbol, start)
			if err != nil {
				return nil, err
			}
			endPrice, err := priceOnOrBefore(series, symbol, end)
			if err != nil {
				return nil, err
			}
			return (endPrice - startPrice) / startPrice * 100, nil
		},

		// stdev(start, end) of daily returns, annualized
		"stdev": func(args ...interface{}) (interface{}, error) {
			start, err := dateArg("stdev", args, 0)
			if err != nil {
				return nil, err
			}
			end, err := dateArg("stdev", args, 1)
			if err != nil {
				return nil, err
			}
			returns := []float64{}
			prev := math.NaN()
			for _, d := range util.BusinessDays(start, end) {
				p, err := series.Get(symbol, d)
				if err != nil {
					continue
				}
				if !math.IsNaN(prev) && prev != 0 {
					returns = append(returns, p/prev-1)
				}
				prev = p
			}
			stdev, err := stats.StandardDeviationSample(returns)
			if err != nil {
				return nil, fmt.Errorf("failed to calculate stdev for %s: %w", symbol, err)
			}
			return stdev * math.Sqrt(252), nil
		},
	}
}

// priceOnOrBefore walks back up to a week so weekend dates resolve to the
// preceding close.
func priceOnOrBefore(series *l1_service.PriceSeries, symbol string, date time.Time) (float64, error) {
	d := util.TruncateDate(date)
	var lastErr error
	for i := 0; i < 7; i++ {
		p, err := series.Get(symbol, d)
		if err == nil {
			return p, nil
		}
		lastErr = err
		d = d.AddDate(0, 0, -1)
	}
	return 0, lastErr
}

func intArg(name string, args []interface{}, i int) (int, error) {
	if len(args) <= i {
		return 0, fmt.Errorf("%s needs %d args, got %d", name, i+1, len(args))
	}
	n, ok := args[i].(int)
	if !ok {
		return 0, fmt.Errorf("%s arg %d must be an int", name, i)
	}
	return n, nil
}

func dateArg(name string, args []interface{}, i int) (time.Time, error) {
	if len(args) <= i {
		return time.Time{}, fmt.Errorf("%s needs %d args, got %d", name, i+1, len(args))
	}
	s, ok := args[i].(string)
	if !ok {
		return time.Time{}, fmt.Errorf("%s arg %d must be a date string", name, i)
	}
	return util.ParseDate(s)
}
