// Copyright (c) 2025 Truth B Told Hub.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package registry

import "testing"

func TestTierFor(t *testing.T) {
	tests := []struct {
		name    string
		ordinal int
		want    string
	}{
		{"first member", 1, "Founding"},
		{"last founding", 13, "Founding"},
		{"first circle", 14, "Circle"},
		{"last circle", 33, "Circle"},
		{"first keeper", 34, "Keeper"},
		{"last keeper", 83, "Keeper"},
		{"first member tier", 84, "Member"},
		{"late signup", 5000, "Member"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tier := DefaultTierThresholds.TierFor(tt.ordinal)
			if tier.Name != tt.want {
				t.Errorf("TierFor(%d) = %q, want %q", tt.ordinal, tier.Name, tt.want)
			}
		})
	}
}

func TestTierFor_Deterministic(t *testing.T) {
	for ordinal := 1; ordinal <= 100; ordinal++ {
		first := DefaultTierThresholds.TierFor(ordinal)
		second := DefaultTierThresholds.TierFor(ordinal)
		if first != second {
			t.Fatalf("TierFor(%d) not deterministic: %v vs %v", ordinal, first, second)
		}
	}
}

func TestTierFor_CustomThresholds(t *testing.T) {
	thresholds := TierThresholds{Founding: 2, Circle: 4, Keeper: 6}

	if got := thresholds.TierFor(2); got != TierFounding {
		t.Errorf("TierFor(2) = %v, want founding", got)
	}
	if got := thresholds.TierFor(3); got != TierCircle {
		t.Errorf("TierFor(3) = %v, want circle", got)
	}
	if got := thresholds.TierFor(7); got != TierMember {
		t.Errorf("TierFor(7) = %v, want member", got)
	}
}

func TestTierTitles(t *testing.T) {
	if TierFounding.Title != "First Flame" {
		t.Errorf("founding title = %q", TierFounding.Title)
	}
	if TierMember.Title != "Community" {
		t.Errorf("member title = %q", TierMember.Title)
	}
}
