package calculator

import (
	"context"
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
)

const bbTolerance = 1e-9

type solveStatus string

const (
	solveOptimal   solveStatus = "optimal"
	solveNodeLimit solveStatus = "node limit reached"
	solveTimeLimit solveStatus = "time limit reached"
)

// integerProgram is
//
//	minimize   Σ |p_i x_i - d_i|
//	subject to Σ p_i x_i <= 1, x_i integer, x_i >= 0
//
// with prices and dollar targets expressed as fractions of capital.
type integerProgram struct {
	prices  []float64
	targets []float64
}

func (p integerProgram) deviation(x []float64) float64 {
	total := 0.0
	for i := range x {
		total += math.Abs(p.prices[i]*x[i] - p.targets[i])
	}
	return total
}

func (p integerProgram) spend(x []float64) float64 {
	return floats.Dot(p.prices, x)
}

// nearest returns the whole share count whose value is closest to the
// dollar target of asset i. Ties round down.
func (p integerProgram) nearest(i int) float64 {
	down := math.Floor(p.targets[i]/p.prices[i] + floorEpsilon)
	if p.targets[i]-p.prices[i]*down > p.prices[i]/2 {
		return down + 1
	}
	return down
}

// sellDown is one asset's option to hold fewer shares than its nearest
// rounding. The first share sold costs first in deviation; every further
// share costs price.
type sellDown struct {
	asset int
	price float64
	first float64
	max   int
}

func (s sellDown) ratio() float64 {
	return s.first / s.price
}

func (s sellDown) cost(z int) float64 {
	if z == 0 {
		return 0
	}
	return s.first + float64(z-1)*s.price
}

// solve starts from every asset at its nearest whole share count. When
// that is affordable it is optimal. Otherwise some shares have to be sold
// back: buying above the nearest count never lowers deviation and only
// spends budget, and each asset's deviation is convex in the number of
// shares sold, so the problem reduces to covering the overspend at least
// cost. That cover is found by depth-first branch and bound, with each node
// bounded by the fractional cover of the remaining need.
//
// The search is seeded with a feasible incumbent. On hitting maxNodes or
// ctx expiry the best solution found so far is returned with a non-optimal
// status.
func (p integerProgram) solve(ctx context.Context, maxNodes int, incumbent []float64) ([]float64, solveStatus, error) {
	n := len(p.prices)
	for i := range p.prices {
		if !isFinite(p.prices[i]) || !isFinite(p.targets[i]) || p.prices[i] <= 0 {
			return incumbent, "", errors.New("prices must be positive and targets finite")
		}
	}

	rounded := make([]float64, n)
	base := 0.0
	for i := range rounded {
		rounded[i] = p.nearest(i)
		base += math.Abs(p.prices[i]*rounded[i] - p.targets[i])
	}

	s := &coverSearch{
		ctx:      ctx,
		maxNodes: maxNodes,
		best:     append([]float64{}, incumbent...),
		bestCost: p.deviation(incumbent),
	}

	overspend := p.spend(rounded) - 1
	if overspend <= 0 {
		if base < s.bestCost {
			return rounded, solveOptimal, nil
		}
		return s.best, solveOptimal, nil
	}

	for i, x := range rounded {
		if x < 1 {
			continue
		}
		first := p.prices[i]
		if x > math.Floor(p.targets[i]/p.prices[i]+floorEpsilon) {
			// rounded up; selling one share lands on the floor
			first = math.Max(2*(p.targets[i]-p.prices[i]*(x-1))-p.prices[i], 0)
		}
		s.options = append(s.options, sellDown{asset: i, price: p.prices[i], first: first, max: int(x)})
	}
	sort.SliceStable(s.options, func(a, b int) bool {
		ra, rb := s.options[a].ratio(), s.options[b].ratio()
		if ra != rb {
			return ra < rb
		}
		return s.options[a].price > s.options[b].price
	})

	s.capacity = make([]float64, len(s.options)+1)
	for k := len(s.options) - 1; k >= 0; k-- {
		s.capacity[k] = s.capacity[k+1] + s.options[k].price*float64(s.options[k].max)
	}

	s.rounded = rounded
	s.base = base
	s.sold = make([]int, len(s.options))
	s.search(0, overspend, 0)

	if s.stopped != "" {
		return s.best, s.stopped, nil
	}
	return s.best, solveOptimal, nil
}

type coverSearch struct {
	ctx      context.Context
	maxNodes int
	explored int
	stopped  solveStatus

	options  []sellDown
	capacity []float64
	rounded  []float64
	base     float64
	sold     []int

	best     []float64
	bestCost float64
}

// bound is the cheapest fractional cover of need using options from k on.
// Beyond the first share of each, every share sold costs its full value.
func (s *coverSearch) bound(k int, need float64) float64 {
	cost := 0.0
	for ; k < len(s.options) && need > 0; k++ {
		o := s.options[k]
		if o.ratio() >= 1 {
			break
		}
		take := math.Min(o.price, need)
		cost += take * o.ratio()
		need -= take
	}
	return cost + math.Max(need, 0)
}

func (s *coverSearch) search(k int, need, cost float64) {
	if s.stopped != "" {
		return
	}
	s.explored++
	if s.explored > s.maxNodes {
		s.stopped = solveNodeLimit
		return
	}
	if s.explored%256 == 0 && s.ctx.Err() != nil {
		s.stopped = solveTimeLimit
		return
	}

	if need <= 0 {
		if s.base+cost < s.bestCost {
			s.record(k, s.base+cost)
		}
		return
	}
	if k == len(s.options) || s.capacity[k] < need {
		return
	}
	if s.base+cost+s.bound(k, need) >= s.bestCost-bbTolerance {
		return
	}

	o := s.options[k]
	most := int(math.Min(float64(o.max), math.Ceil(need/o.price)))
	try := func(z int) {
		s.sold[k] = z
		s.search(k+1, need-float64(z)*o.price, cost+o.cost(z))
		s.sold[k] = 0
	}

	if o.ratio() < 1 {
		try(1)
		try(0)
		for z := 2; z <= most; z++ {
			try(z)
		}
		return
	}
	for z := most; z >= 0; z-- {
		try(z)
	}
}

// record stores the solution made of the sells chosen for options before k.
func (s *coverSearch) record(k int, cost float64) {
	x := append([]float64{}, s.rounded...)
	for j := 0; j < k; j++ {
		x[s.options[j].asset] -= float64(s.sold[j])
	}
	s.best, s.bestCost = x, cost
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
