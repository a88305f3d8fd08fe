package service

import "math"

// DefaultMaxStakeFraction is the locally enforced risk ceiling: a manual
// trade may stake at most 2% of the current account balance.
const DefaultMaxStakeFraction = 0.02

// RiskPolicy computes and checks the per-trade stake ceiling.
type RiskPolicy struct {
	MaxStakeFraction float64
}

func NewRiskPolicy() *RiskPolicy {
	return &RiskPolicy{MaxStakeFraction: DefaultMaxStakeFraction}
}

// Cap returns the maximum allowed stake for the given balance.
func (p *RiskPolicy) Cap(balance float64) float64 {
	return balance * p.MaxStakeFraction
}

// ValidStake reports whether a stake is a positive finite number. This is a
// pure local precondition; it performs no balance comparison.
func (p *RiskPolicy) ValidStake(stake float64) bool {
	return stake > 0 && !math.IsInf(stake, 0) && !math.IsNaN(stake)
}

// WithinCap reports whether the stake respects the risk ceiling. The check
// is exclusive on the boundary: a stake exactly at the cap is rejected.
func (p *RiskPolicy) WithinCap(stake, balance float64) bool {
	return stake < p.Cap(balance)
}
