package utils

import (
	"github.com/shopspring/decimal"
)

// Quote is a price preview for a rental window
type Quote struct {
	Days      int             `json:"days"`
	DailyRate decimal.Decimal `json:"daily_rate"`
	Total     decimal.Decimal `json:"total"`
}

// ComputeTotal returns dailyRate * DaysBetweenInclusiveStart(start, end).
// The rate is not validated here; a non-positive rate is the vehicle's configuration problem.
func ComputeTotal(dailyRate decimal.Decimal, start, end Date) decimal.Decimal {
	return dailyRate.Mul(decimal.NewFromInt(int64(DaysBetweenInclusiveStart(start, end))))
}

// QuoteRange computes the preview shown while a rental is being drafted
func QuoteRange(dailyRate decimal.Decimal, start, end Date) Quote {
	days := DaysBetweenInclusiveStart(start, end)
	return Quote{
		Days:      days,
		DailyRate: dailyRate,
		Total:     dailyRate.Mul(decimal.NewFromInt(int64(days))),
	}
}
