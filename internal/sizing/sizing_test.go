package sizing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	testCases := []struct {
		name     string
		input    Input
		expected Result
	}{
		{
			name: "Gold long with 2:1 reward",
			input: Input{
				EntryPrice: 2000.0,
				StopLoss:   1950.0,
				TakeProfit: 2100.0,
				PointValue: 100.0,
				RiskAmount: 24.66,
			},
			expected: Result{
				RiskDistance:    50.0,
				RewardDistance:  100.0,
				PositionLots:    0.004932,
				MaxLoss:         24.66,
				PotentialGain:   49.32,
				RiskRewardRatio: 2.0,
			},
		},
		{
			name: "Short trade uses absolute distances",
			input: Input{
				EntryPrice: 15000.0,
				StopLoss:   15100.0,
				TakeProfit: 14800.0,
				PointValue: 5.0,
				RiskAmount: 100.0,
			},
			expected: Result{
				RiskDistance:    100.0,
				RewardDistance:  200.0,
				PositionLots:    0.2,
				MaxLoss:         100.0,
				PotentialGain:   200.0,
				RiskRewardRatio: 2.0,
			},
		},
		{
			name: "Stop loss on entry guards the division",
			input: Input{
				EntryPrice: 2000.0,
				StopLoss:   2000.0,
				TakeProfit: 2100.0,
				PointValue: 100.0,
				RiskAmount: 50.0,
			},
			expected: Result{
				RiskDistance:    0,
				RewardDistance:  100.0,
				PositionLots:    0,
				MaxLoss:         0,
				PotentialGain:   0,
				RiskRewardRatio: 0,
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := Compute(tc.input)

			assert.InDelta(t, tc.expected.RiskDistance, result.RiskDistance, 1e-9)
			assert.InDelta(t, tc.expected.RewardDistance, result.RewardDistance, 1e-9)
			assert.InDelta(t, tc.expected.PositionLots, result.PositionLots, 1e-6)
			assert.InDelta(t, tc.expected.MaxLoss, result.MaxLoss, 1e-9)
			assert.InDelta(t, tc.expected.PotentialGain, result.PotentialGain, 1e-6)
			assert.InDelta(t, tc.expected.RiskRewardRatio, result.RiskRewardRatio, 1e-9)
		})
	}
}

// TestCompute_MaxLossReconstructsRiskAmount checks the defining property of
// the formula: for any positive risk distance the worst-case loss equals
// the risk budget that was put in.
func TestCompute_MaxLossReconstructsRiskAmount(t *testing.T) {
	inputs := []Input{
		{EntryPrice: 2000, StopLoss: 1950, TakeProfit: 2100, PointValue: 100, RiskAmount: 24.66},
		{EntryPrice: 1.1, StopLoss: 1.095, TakeProfit: 1.11, PointValue: 10, RiskAmount: 250},
		{EntryPrice: 67000, StopLoss: 65500, TakeProfit: 71000, PointValue: 1, RiskAmount: 42.5},
	}

	for _, in := range inputs {
		result := Compute(in)
		assert.InDelta(t, in.RiskAmount, result.MaxLoss, 1e-9)
	}
}

func TestComputeFlags(t *testing.T) {
	testCases := []struct {
		name        string
		riskPercent float64
		realCapital float64
		maxLoss     float64
		expected    Flags
	}{
		{"Within limits", 2.0, 1000, 24.66, Flags{}},
		{"Risk above five percent", 6.0, 1000, 60, Flags{RiskExceedsLimit: true}},
		{"Loss eats into broker credit", 2.0, 100, 150, Flags{CreditImpacted: true}},
		{"Both flags", 10.0, 50, 120, Flags{RiskExceedsLimit: true, CreditImpacted: true}},
		{"Exactly five percent is fine", 5.0, 1000, 50, Flags{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, ComputeFlags(tc.riskPercent, tc.realCapital, tc.maxLoss))
		})
	}
}
