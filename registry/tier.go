// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "github.com/truthbtold/hub/models"

// Membership tiers, in signup order. The titles come from the
// community's own naming for each band.
var (
	TierFounding = models.Tier{Name: "Founding", Title: "First Flame"}
	TierCircle   = models.Tier{Name: "Circle", Title: "Inner Flame"}
	TierKeeper   = models.Tier{Name: "Keeper", Title: "Keeper Flame"}
	TierMember   = models.Tier{Name: "Member", Title: "Community"}
)

// TierThresholds holds the inclusive upper signup ordinal for each
// named tier. Ordinals above Keeper fall into the open Member tier.
type TierThresholds struct {
	Founding int
	Circle   int
	Keeper   int
}

// DefaultTierThresholds gives the first 13 signups Founding status,
// 14-33 Circle, 34-83 Keeper, and everyone after that Member.
var DefaultTierThresholds = TierThresholds{
	Founding: 13,
	Circle:   33,
	Keeper:   83,
}

// TierFor derives the tier for a signup ordinal. Pure function: the
// same ordinal always maps to the same tier for a given threshold set.
func (t TierThresholds) TierFor(ordinal int) models.Tier {
	switch {
	case ordinal <= t.Founding:
		return TierFounding
	case ordinal <= t.Circle:
		return TierCircle
	case ordinal <= t.Keeper:
		return TierKeeper
	default:
		return TierMember
	}
}
