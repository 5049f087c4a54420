package journal

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"tradeflow/internal/models"
)

func tradesFromResults(results ...float64) []models.Trade {
	trades := make([]models.Trade, len(results))
	for i, r := range results {
		trades[i] = models.Trade{Result: r}
	}
	return trades
}

func TestComputeStats(t *testing.T) {
	t.Run("EmptyJournal", func(t *testing.T) {
		stats := ComputeStats(nil)
		assert.Equal(t, Stats{}, stats)
	})

	t.Run("WinRate", func(t *testing.T) {
		stats := ComputeStats(tradesFromResults(10, -5, 20, -5))
		assert.InDelta(t, 50.0, stats.WinRate, 1e-9)
		assert.Equal(t, 4, stats.TotalTrades)
		assert.Equal(t, 2, stats.WinningTrades)
		assert.Equal(t, 2, stats.LosingTrades)
	})

	t.Run("BreakEvenTradesCountNeitherWay", func(t *testing.T) {
		stats := ComputeStats(tradesFromResults(10, 0, -5, 0))
		assert.Equal(t, 4, stats.TotalTrades)
		assert.Equal(t, 1, stats.WinningTrades)
		assert.Equal(t, 1, stats.LosingTrades)
		assert.InDelta(t, 25.0, stats.WinRate, 1e-9)
	})

	t.Run("ProfitFactor", func(t *testing.T) {
		stats := ComputeStats(tradesFromResults(100, -40, 60, -40))
		assert.InDelta(t, 2.0, stats.ProfitFactor, 1e-9)
	})

	t.Run("ProfitFactorFallsBackToRawWinsWithoutLosses", func(t *testing.T) {
		// No losses: the fallback is the raw win total, not +Inf.
		stats := ComputeStats(tradesFromResults(100, 50))
		assert.InDelta(t, 150.0, stats.ProfitFactor, 1e-9)
	})

	t.Run("ProfitFactorZeroWithoutWins", func(t *testing.T) {
		stats := ComputeStats(tradesFromResults(-10, -20))
		assert.Zero(t, stats.ProfitFactor)
	})

	t.Run("BiggestWinAndLoss", func(t *testing.T) {
		stats := ComputeStats(tradesFromResults(10, -5, 20, -30))
		assert.InDelta(t, 20.0, stats.BiggestWin, 1e-9)
		assert.InDelta(t, -30.0, stats.BiggestLoss, 1e-9)
	})

	t.Run("BiggestWinIsNegativeWhenAllTradesLose", func(t *testing.T) {
		// Biggest win/loss are max/min over all trades, not just winners.
		stats := ComputeStats(tradesFromResults(-5, -30))
		assert.InDelta(t, -5.0, stats.BiggestWin, 1e-9)
		assert.InDelta(t, -30.0, stats.BiggestLoss, 1e-9)
	})

	t.Run("Averages", func(t *testing.T) {
		stats := ComputeStats(tradesFromResults(10, 30, -5, -15))
		assert.InDelta(t, 20.0, stats.AvgWin, 1e-9)
		assert.InDelta(t, -10.0, stats.AvgLoss, 1e-9)
		assert.InDelta(t, 20.0, stats.TotalPNL, 1e-9)
	})
}
