// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package plans

import (
	"testing"

	"github.com/canonical/scheduling-service/internal/types"
)

type tierRow struct {
	simple, individual, business bool
}

func TestCapabilitiesOfMatrix(t *testing.T) {
	matrix := map[Capability]tierRow{
		ViewBookings:        {true, true, true},
		CreateBookings:      {true, true, true},
		ManageBookings:      {true, true, true},
		ViewOwnCalendar:     {true, true, true},
		ManageServices:      {true, true, true},
		ManageProfessionals: {true, true, true},
		ViewClients:         {true, true, true},
		ManageClients:       {false, true, true},
		ManageFinances:      {false, true, true},
		ManagePromotions:    {false, true, true},
		ManagePayments:      {false, true, true},
		ViewAnalytics:       {false, true, true},
		Teams:               {false, false, true},
		AdvancedAnalytics:   {false, false, true},
		WhiteLabel:          {false, false, true},
	}

	for capability, want := range matrix {
		for tier, expected := range map[types.Tier]bool{
			types.TierSimple:     want.simple,
			types.TierIndividual: want.individual,
			types.TierBusiness:   want.business,
		} {
			t.Run(string(tier)+"/"+string(capability), func(t *testing.T) {
				_, got := CapabilitiesOf(tier)[capability]
				if got != expected {
					t.Errorf("expected %v, got %v", expected, got)
				}
				if HasCapability(tier, capability) != expected {
					t.Errorf("HasCapability disagrees with CapabilitiesOf")
				}
			})
		}
	}

	for _, tier := range Tiers() {
		if len(CapabilitiesOf(tier)) != countTrue(matrix, tier) {
			t.Errorf("tier %s has capabilities outside of the matrix", tier)
		}
	}
}

func countTrue(matrix map[Capability]tierRow, tier types.Tier) int {
	n := 0
	for _, r := range matrix {
		switch tier {
		case types.TierSimple:
			if r.simple {
				n++
			}
		case types.TierIndividual:
			if r.individual {
				n++
			}
		case types.TierBusiness:
			if r.business {
				n++
			}
		}
	}
	return n
}

func TestCapabilitiesOfUnknownTier(t *testing.T) {
	if len(CapabilitiesOf("gold")) != 0 {
		t.Error("unknown tiers must not unlock anything")
	}
}

func TestCapabilitiesOfReturnsCopy(t *testing.T) {
	caps := CapabilitiesOf(types.TierSimple)
	caps[WhiteLabel] = struct{}{}

	if HasCapability(types.TierSimple, WhiteLabel) {
		t.Error("mutating the returned set must not alter the catalogue")
	}
}

func TestRequiredTierFor(t *testing.T) {
	tests := []struct {
		capability Capability
		tier       types.Tier
		found      bool
	}{
		{ManageServices, types.TierSimple, true},
		{ManageProfessionals, types.TierSimple, true},
		{ManageFinances, types.TierIndividual, true},
		{ViewAnalytics, types.TierIndividual, true},
		{WhiteLabel, types.TierBusiness, true},
		{Capability("teleport"), "", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.capability), func(t *testing.T) {
			tier, found := RequiredTierFor(tt.capability)
			if tier != tt.tier || found != tt.found {
				t.Errorf("expected (%s, %v), got (%s, %v)", tt.tier, tt.found, tier, found)
			}
		})
	}
}

func TestClientVisibilityOf(t *testing.T) {
	if v := ClientVisibilityOf(types.TierSimple); v != ClientVisibilityLimited {
		t.Errorf("expected limited visibility for simple, got %s", v)
	}
	if v := ClientVisibilityOf(types.TierIndividual); v != ClientVisibilityFull {
		t.Errorf("expected full visibility for individual, got %s", v)
	}
	if v := ClientVisibilityOf("unknown"); v != ClientVisibilityNone {
		t.Errorf("expected no visibility for unknown tier, got %s", v)
	}
}
