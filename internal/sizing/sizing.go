// Package sizing implements the position-size calculator: given a risk
// budget and trade levels it derives the lot size, worst-case loss,
// potential gain and risk:reward ratio.
package sizing

import "math"

// Input are the trade parameters for one calculation. Validation of
// non-positive values is the caller's job; the engine only guards its own
// divisions.
type Input struct {
	EntryPrice float64 `json:"entry_price"`
	StopLoss   float64 `json:"stop_loss"`
	TakeProfit float64 `json:"take_profit"`
	PointValue float64 `json:"point_value"`
	RiskAmount float64 `json:"risk_amount"`
}

// Result is the computed position sizing.
type Result struct {
	RiskDistance    float64 `json:"risk_distance"`
	RewardDistance  float64 `json:"reward_distance"`
	PositionLots    float64 `json:"position_size_lots"`
	MaxLoss         float64 `json:"max_loss"`
	PotentialGain   float64 `json:"potential_gain"`
	RiskRewardRatio float64 `json:"risk_reward_ratio"`
}

// Flags annotate a calculation with risk warnings. They are informational
// only and never block the calculation.
type Flags struct {
	RiskExceedsLimit bool `json:"risk_exceeds_limit"`
	CreditImpacted   bool `json:"credit_impacted"`
}

// Compute derives the position size from the risk budget:
//
//	lots = riskAmount / (riskDistance * pointValue)
//
// When the stop loss sits exactly on the entry the risk distance is zero
// and both the lot size and the ratio collapse to zero instead of dividing.
func Compute(in Input) Result {
	riskDistance := math.Abs(in.EntryPrice - in.StopLoss)
	rewardDistance := math.Abs(in.TakeProfit - in.EntryPrice)

	var lots, ratio float64
	if riskDistance > 0 {
		lots = in.RiskAmount / (riskDistance * in.PointValue)
		ratio = rewardDistance / riskDistance
	}

	return Result{
		RiskDistance:    riskDistance,
		RewardDistance:  rewardDistance,
		PositionLots:    lots,
		MaxLoss:         riskDistance * in.PointValue * lots,
		PotentialGain:   rewardDistance * in.PointValue * lots,
		RiskRewardRatio: ratio,
	}
}

// ComputeFlags evaluates the risk warnings for a computed max loss.
// A per-trade risk above 5% of capital is flagged, as is a worst-case loss
// that would eat into the broker credit beyond the real capital.
func ComputeFlags(riskPercent, realCapital, maxLoss float64) Flags {
	return Flags{
		RiskExceedsLimit: riskPercent > 5,
		CreditImpacted:   maxLoss > realCapital,
	}
}
