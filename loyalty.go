package aisdk

import "math"

// ──────────────────────────────────────────────
// Loyalty Scorer — pure tiered multiplier math
// ──────────────────────────────────────────────

// Loyalty scoring weights.
const (
	loyaltyDayWeight       = 10
	loyaltyStreakWeight    = 25
	loyaltyActiveWeight    = 15
	loyaltyPointWeight     = 2
	loyaltyPurityWeight    = 500
	loyaltyChallengeWeight = 100
)

// LoyaltyInput carries the signals the scorer combines.
type LoyaltyInput struct {
	DaysInFaction              int
	LoginStreak                int
	ConsecutiveDaysActive      int
	FactionPoints              int
	OtherFactionPoints         int
	CompletedFactionChallenges int
}

// ComputeLoyalty blends tenure, streaks, faction purity, and challenge
// completions into a tiered score. Deterministic and side-effect free.
func ComputeLoyalty(in LoyaltyInput) LoyaltyScore {
	purity := 1.0
	if in.FactionPoints+in.OtherFactionPoints > 0 {
		purity = float64(in.FactionPoints) / float64(in.FactionPoints+in.OtherFactionPoints)
	}

	score := in.DaysInFaction*loyaltyDayWeight +
		in.LoginStreak*loyaltyStreakWeight +
		in.ConsecutiveDaysActive*loyaltyActiveWeight +
		in.FactionPoints*loyaltyPointWeight +
		int(math.Round(purity*loyaltyPurityWeight)) +
		in.CompletedFactionChallenges*loyaltyChallengeWeight

	tier, multiplier := loyaltyTierFor(score)
	return LoyaltyScore{Score: score, Tier: tier, Multiplier: multiplier}
}

// loyaltyTierFor maps a score to its tier, highest threshold first.
func loyaltyTierFor(score int) (LoyaltyTier, float64) {
	switch {
	case score >= 5000:
		return TierDiamond, 2.0
	case score >= 2500:
		return TierPlatinum, 1.75
	case score >= 1000:
		return TierGold, 1.5
	case score >= 300:
		return TierSilver, 1.25
	default:
		return TierBronze, 1.0
	}
}
