package domain

import "errors"

var (
	ErrNoAlphaScores    = errors.New("no alpha scores for strategy in date range")
	ErrInvalidDateRange = errors.New("invalid date range")
	ErrUnknownSignal    = errors.New("unknown signal")
)
