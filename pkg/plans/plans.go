// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

// Package plans maps subscription tiers to the capabilities they unlock.
//
// Tiers are capability sets, not a ladder: the sets are defined per tier and
// gating must always go through HasCapability. The tier ordering is only used
// to tell a user which tier to upgrade to.
package plans

import (
	"slices"

	"github.com/canonical/scheduling-service/internal/types"
)

type Capability string

const (
	ViewBookings        Capability = "view_bookings"
	CreateBookings      Capability = "create_bookings"
	ManageBookings      Capability = "manage_bookings"
	ViewOwnCalendar     Capability = "view_own_calendar"
	ManageServices      Capability = "manage_services"
	ManageProfessionals Capability = "manage_professionals"
	ViewClients         Capability = "view_clients"
	ManageClients       Capability = "manage_clients"
	ManageFinances      Capability = "manage_finances"
	ManagePromotions    Capability = "manage_promotions"
	ManagePayments      Capability = "manage_payments"
	ViewAnalytics       Capability = "view_analytics"
	Teams               Capability = "teams"
	AdvancedAnalytics   Capability = "advanced_analytics"
	WhiteLabel          Capability = "white_label"
)

// ClientVisibility describes how much of the client base a tier can see.
type ClientVisibility string

const (
	ClientVisibilityNone    ClientVisibility = "none"
	ClientVisibilityLimited ClientVisibility = "limited"
	ClientVisibilityFull    ClientVisibility = "full"
)

var baseCapabilities = []Capability{
	ViewBookings,
	CreateBookings,
	ManageBookings,
	ViewOwnCalendar,
	ManageServices,
	ManageProfessionals,
	ViewClients,
}

var individualCapabilities = []Capability{
	ManageClients,
	ManageFinances,
	ManagePromotions,
	ManagePayments,
	ViewAnalytics,
}

var businessCapabilities = []Capability{
	Teams,
	AdvancedAnalytics,
	WhiteLabel,
}

// tierCapabilities is the catalogue, keep each tier spelled out in full
var tierCapabilities = map[types.Tier][]Capability{
	types.TierSimple:     baseCapabilities,
	types.TierIndividual: concat(baseCapabilities, individualCapabilities),
	types.TierBusiness:   concat(baseCapabilities, individualCapabilities, businessCapabilities),
}

var tierOrder = []types.Tier{types.TierSimple, types.TierIndividual, types.TierBusiness}

var tierDisplayNames = map[types.Tier]string{
	types.TierSimple:     "Simple",
	types.TierIndividual: "Individual",
	types.TierBusiness:   "Business",
}

// CapabilitiesOf returns a fresh copy of the capability set of the tier,
// unknown tiers have no capabilities.
func CapabilitiesOf(tier types.Tier) map[Capability]struct{} {
	caps := make(map[Capability]struct{}, len(tierCapabilities[tier]))
	for _, c := range tierCapabilities[tier] {
		caps[c] = struct{}{}
	}
	return caps
}

func HasCapability(tier types.Tier, capability Capability) bool {
	return slices.Contains(tierCapabilities[tier], capability)
}

// RequiredTierFor returns the lowest tier unlocking the capability, for
// upgrade messaging only.
func RequiredTierFor(capability Capability) (types.Tier, bool) {
	for _, tier := range tierOrder {
		if HasCapability(tier, capability) {
			return tier, true
		}
	}
	return "", false
}

func ClientVisibilityOf(tier types.Tier) ClientVisibility {
	switch {
	case HasCapability(tier, ManageClients):
		return ClientVisibilityFull
	case HasCapability(tier, ViewClients):
		return ClientVisibilityLimited
	default:
		return ClientVisibilityNone
	}
}

func Tiers() []types.Tier {
	return slices.Clone(tierOrder)
}

func TierDisplayName(tier types.Tier) string {
	if name, ok := tierDisplayNames[tier]; ok {
		return name
	}
	return string(tier)
}

func concat(sets ...[]Capability) []Capability {
	var out []Capability
	for _, s := range sets {
		out = append(out, s...)
	}
	return out
}
