// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package guard

import (
	"github.com/canonical/scheduling-service/internal/types"
)

func AdminOnly() Requirement {
	return Requirement{
		Name:         "admin_only",
		AllowedRoles: []types.Role{types.RolePlatformAdmin},
	}
}

func BusinessTier() Requirement {
	return Requirement{
		Name:         "business_tier",
		AllowedRoles: []types.Role{types.RoleOwner, types.RoleAdmin, types.RoleManager},
		AllowedTiers: []types.Tier{types.TierIndividual, types.TierBusiness},
	}
}

func EntityTier() Requirement {
	return Requirement{
		Name:         "entity_tier",
		AllowedTiers: []types.Tier{types.TierBusiness},
	}
}

func IndividualPlusTier() Requirement {
	return Requirement{
		Name:         "individual_plus_tier",
		AllowedTiers: []types.Tier{types.TierIndividual, types.TierBusiness},
	}
}

// ProfessionalRole admits staff roles, requireBusiness narrows it to the business tier.
func ProfessionalRole(requireBusiness bool) Requirement {
	r := Requirement{
		Name: "professional_role",
		AllowedRoles: []types.Role{
			types.RoleProfessional,
			types.RoleAttendant,
			types.RoleOwner,
			types.RoleAdmin,
			types.RoleManager,
		},
	}

	if requireBusiness {
		r.Name = "professional_role_business"
		r.AllowedTiers = []types.Tier{types.TierBusiness}
	}

	return r
}

func OwnerOnly() Requirement {
	return Requirement{
		Name:             "owner_only",
		RequireOwnerRole: true,
	}
}

func Authenticated() Requirement {
	return Requirement{Name: "authenticated"}
}
