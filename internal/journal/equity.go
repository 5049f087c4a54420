package journal

import "tradeflow/internal/models"

// EquityPoint is one step of the cumulative balance series.
type EquityPoint struct {
	Date    string  `json:"date"`
	Balance float64 `json:"balance"`
}

// EquityCurve builds the running account balance over the given trades,
// seeded at startingBalance, one point per trade.
//
// Trades must already be in date order; the store returns them ascending by
// date with insertion order (row id) as the tiebreak, which keeps the curve
// deterministic for same-day trades.
func EquityCurve(trades []models.Trade, startingBalance float64) []EquityPoint {
	points := make([]EquityPoint, 0, len(trades))
	balance := startingBalance
	for _, t := range trades {
		balance += t.Result
		points = append(points, EquityPoint{Date: t.Date, Balance: balance})
	}
	return points
}
