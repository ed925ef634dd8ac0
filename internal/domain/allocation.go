package domain

type AllocationStatus string

const (
	AllocationStatus_Optimal  AllocationStatus = "Optimal"
	AllocationStatus_Degraded AllocationStatus = "Degraded"
)

type AllocationRow struct {
	Ticker       string  `json:"ticker"`
	Shares       float64 `json:"shares"`
	Price        float64 `json:"price"`
	Value        float64 `json:"value"`
	TargetWeight float64 `json:"targetWeight"`
	ActualWeight float64 `json:"actualWeight"`
}

// Allocation is the outcome of sizing one basket. A Degraded allocation
// carries the heuristic rows together with the reason the optimal solve
// was abandoned.
type Allocation struct {
	Status           AllocationStatus `json:"status"`
	Reason           string           `json:"reason,omitempty"`
	Solver           string           `json:"solver"`
	Rows             []AllocationRow  `json:"rows"`
	ZeroPriceTickers []string         `json:"zeroPriceTickers,omitempty"`
}

func (a Allocation) Invested() float64 {
	total := 0.0
	for _, r := range a.Rows {
		total += r.Value
	}
	return total
}
