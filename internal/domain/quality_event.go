package domain

import "time"

type QualityEventKind string

const (
	QualityEventKind_DataUnavailable      QualityEventKind = "DataUnavailable"
	QualityEventKind_OptimizationDegraded QualityEventKind = "OptimizationDegraded"
	QualityEventKind_ZeroPriceAsset       QualityEventKind = "ZeroPriceAsset"
	QualityEventKind_ArithmeticGuard      QualityEventKind = "ArithmeticGuard"
	QualityEventKind_MissingClosePrice    QualityEventKind = "MissingClosePrice"
	QualityEventKind_IdleCash             QualityEventKind = "IdleCash"
	QualityEventKind_TerminalCloseSameDay QualityEventKind = "TerminalCloseSameDay"
)

// QualityEvent records a recoverable condition hit while running a
// backtest. None of them stop the run.
type QualityEvent struct {
	Kind     QualityEventKind `json:"kind"`
	Strategy string           `json:"strategy"`
	Date     time.Time        `json:"date"`
	Ticker   *string          `json:"ticker,omitempty"`
	Detail   string           `json:"detail"`
}
