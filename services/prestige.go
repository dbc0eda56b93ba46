package services

// Prestige tiers are derived from lifetime XP via fixed thresholds.
// Lifetime XP never resets, so an agent's tier can only go up.

// TierThresholds: tier → inclusive lifetime-XP floor
var TierThresholds = map[int]int64{
	1: 0,       // Associate (start)
	2: 10_000,  // Producer
	3: 25_000,  // Closer
	4: 50_000,  // Partner
	5: 100_000, // Chairman
}

// TierFor maps lifetime XP to a tier in [1,5]. Total and monotonic —
// negative input clamps to tier 1 rather than erroring.
func TierFor(lifetimeXP int64) int {
	for tier := 5; tier >= 1; tier-- {
		if lifetimeXP >= TierThresholds[tier] {
			return tier
		}
	}
	return 1
}

// TierMetadata carries the display info for one prestige tier.
type TierMetadata struct {
	Tier    int    `json:"tier"`
	Name    string `json:"name"`
	MinXP   int64  `json:"min_xp"`
	MaxXP   int64  `json:"max_xp"` // -1 on the open-ended top tier
}

var tierMetadata = []TierMetadata{
	{Tier: 1, Name: "Associate", MinXP: 0, MaxXP: 9_999},
	{Tier: 2, Name: "Producer", MinXP: 10_000, MaxXP: 24_999},
	{Tier: 3, Name: "Closer", MinXP: 25_000, MaxXP: 49_999},
	{Tier: 4, Name: "Partner", MinXP: 50_000, MaxXP: 99_999},
	{Tier: 5, Name: "Chairman", MinXP: 100_000, MaxXP: -1},
}

// TierInfo returns display metadata for a tier. Unknown tiers fall back to
// tier 1 metadata instead of erroring.
func TierInfo(tier int) TierMetadata {
	if tier < 1 || tier > len(tierMetadata) {
		return tierMetadata[0]
	}
	return tierMetadata[tier-1]
}
