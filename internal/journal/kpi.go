// Package journal aggregates closed trades into performance figures:
// KPI statistics, the equity curve, and CSV export of the trade history.
package journal

import "tradeflow/internal/models"

// Stats are the aggregate performance indicators over a set of closed
// trades. All fields are zero for an empty set.
type Stats struct {
	TotalTrades   int     `json:"total_trades"`
	WinningTrades int     `json:"winning_trades"`
	LosingTrades  int     `json:"losing_trades"`
	WinRate       float64 `json:"win_rate"`
	ProfitFactor  float64 `json:"profit_factor"`
	BiggestWin    float64 `json:"biggest_win"`
	BiggestLoss   float64 `json:"biggest_loss"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	TotalPNL      float64 `json:"total_pnl"`
}

// ComputeStats aggregates the KPI block over all trades. Break-even trades
// (result == 0) count toward the total but toward neither wins nor losses.
//
// When there are wins but no losses the profit factor falls back to the raw
// win total rather than infinity. Existing journals depend on that value, so
// it is kept even though it is not a true profit factor in that edge case.
func ComputeStats(trades []models.Trade) Stats {
	var s Stats
	s.TotalTrades = len(trades)
	if s.TotalTrades == 0 {
		return s
	}

	var totalWins, totalLosses float64
	for i, t := range trades {
		s.TotalPNL += t.Result
		switch {
		case t.Result > 0:
			s.WinningTrades++
			totalWins += t.Result
		case t.Result < 0:
			s.LosingTrades++
			totalLosses += -t.Result
		}
		if i == 0 || t.Result > s.BiggestWin {
			s.BiggestWin = t.Result
		}
		if i == 0 || t.Result < s.BiggestLoss {
			s.BiggestLoss = t.Result
		}
	}

	s.WinRate = float64(s.WinningTrades) / float64(s.TotalTrades) * 100

	switch {
	case totalLosses > 0:
		s.ProfitFactor = totalWins / totalLosses
	case totalWins > 0:
		s.ProfitFactor = totalWins
	}

	if s.WinningTrades > 0 {
		s.AvgWin = totalWins / float64(s.WinningTrades)
	}
	if s.LosingTrades > 0 {
		s.AvgLoss = -totalLosses / float64(s.LosingTrades)
	}

	return s
}
