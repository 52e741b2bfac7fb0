// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tier is the commercial subscription level of an entity.
type Tier string

const (
	TierSimple     Tier = "simple"
	TierIndividual Tier = "individual"
	TierBusiness   Tier = "business"
)

func (t Tier) Valid() bool {
	switch t {
	case TierSimple, TierIndividual, TierBusiness:
		return true
	}
	return false
}

// Role is the function of a principal within an entity.
type Role string

const (
	RoleOwner         Role = "owner"
	RoleAdmin         Role = "admin"
	RoleManager       Role = "manager"
	RoleProfessional  Role = "professional"
	RoleAttendant     Role = "attendant"
	RolePlatformAdmin Role = "platform_admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleManager, RoleProfessional, RoleAttendant, RolePlatformAdmin:
		return true
	}
	return false
}

// Principal is the caller of an operation. EntityID is empty for principals
// without a tenant, e.g. platform admins.
type Principal struct {
	ID            string `json:"id"`
	Role          Role   `json:"role"`
	Tier          Tier   `json:"tier"`
	EntityID      string `json:"entityId,omitempty"`
	Authenticated bool   `json:"authenticated"`
}

func (p *Principal) HasEntity() bool {
	return p != nil && p.EntityID != ""
}

type Entity struct {
	ID                 string    `json:"id" db:"id"`
	Name               string    `json:"name" db:"name"`
	Tier               Tier      `json:"tier" db:"tier"`
	OnboardingComplete bool      `json:"onboardingComplete" db:"onboarding_complete"`
	CreatedAt          time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time `json:"updatedAt" db:"updated_at"`
}

type Membership struct {
	ID         string    `json:"id" db:"id"`
	EntityID   string    `json:"entityId,omitempty" db:"entity_id"`
	IdentityID string    `json:"identityId" db:"identity_id"`
	Role       Role      `json:"role" db:"role"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
}

// Service is the resolved shape of a bookable service of an entity.
type Service struct {
	ID        string          `json:"id" db:"id"`
	EntityID  string          `json:"entityId" db:"entity_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Active    bool            `json:"active" db:"active"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

type Recurrence string

const (
	RecurrenceOneTime Recurrence = "one_time"
	RecurrenceMonthly Recurrence = "monthly"
)

func (r Recurrence) Valid() bool {
	return r == RecurrenceOneTime || r == RecurrenceMonthly
}

type PackageStatus string

const (
	PackageStatusDraft    PackageStatus = "draft"
	PackageStatusActive   PackageStatus = "active"
	PackageStatusInactive PackageStatus = "inactive"
)

func (s PackageStatus) Valid() bool {
	switch s {
	case PackageStatusDraft, PackageStatusActive, PackageStatusInactive:
		return true
	}
	return false
}

type PackageService struct {
	ServiceID string          `json:"serviceId" db:"service_id"`
	Name      string          `json:"name" db:"name"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"unit_price"`
}

type Pricing struct {
	OriginalPrice   decimal.Decimal `json:"originalPrice" db:"original_price"`
	PackagePrice    decimal.Decimal `json:"packagePrice" db:"package_price"`
	DiscountPercent decimal.Decimal `json:"discountPercent" db:"discount_percent"`
	Currency        string          `json:"currency" db:"currency"`
}

type Package struct {
	ID               string           `json:"id" db:"id"`
	EntityID         string           `json:"entityId" db:"entity_id"`
	Name             string           `json:"name" db:"name"`
	Description      string           `json:"description,omitempty" db:"description"`
	Services         []PackageService `json:"services"`
	Pricing          Pricing          `json:"pricing"`
	Recurrence       Recurrence       `json:"recurrence" db:"recurrence"`
	ValidityDays     int              `json:"validityDays" db:"validity_days"`
	SessionsIncluded int              `json:"sessionsIncluded" db:"sessions_included"`
	Status           PackageStatus    `json:"status" db:"status"`
	CreatedAt        time.Time        `json:"createdAt" db:"created_at"`
	UpdatedAt        time.Time        `json:"updatedAt" db:"updated_at"`
	DeletedAt        *time.Time       `json:"deletedAt,omitempty" db:"deleted_at"`
}

// PackageFilter is a conjunction of the provided fields, nil fields do not constrain.
type PackageFilter struct {
	Status     *PackageStatus
	Recurrence *Recurrence
}

// PackagePatch holds the mutable fields of a package, nil fields are left untouched.
type PackagePatch struct {
	Name             *string
	Description      *string
	Services         []PackageService
	PackagePrice     *decimal.Decimal
	Currency         *string
	Recurrence       *Recurrence
	ValidityDays     *int
	SessionsIncluded *int
}

type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusPaused    SubscriptionStatus = "paused"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

type Subscription struct {
	ID        string             `json:"id" db:"id"`
	PackageID string             `json:"packageId" db:"package_id"`
	ClientID  string             `json:"clientId" db:"client_id"`
	EntityID  string             `json:"entityId" db:"entity_id"`
	Status    SubscriptionStatus `json:"status" db:"status"`
	// EffectiveStatus is derived at read time, see subscriptions.EffectiveStatus.
	EffectiveStatus    SubscriptionStatus `json:"effectiveStatus,omitempty" db:"-"`
	StartDate          time.Time          `json:"startDate" db:"start_date"`
	ExpiryDate         time.Time          `json:"expiryDate" db:"expiry_date"`
	SessionsTotal      int                `json:"sessionsTotal" db:"sessions_total"`
	SessionsUsed       int                `json:"sessionsUsed" db:"sessions_used"`
	AutoRenew          bool               `json:"autoRenew" db:"auto_renew"`
	CancelledAt        *time.Time         `json:"cancelledAt,omitempty" db:"cancelled_at"`
	CancellationReason string             `json:"cancellationReason,omitempty" db:"cancellation_reason"`
	RenewedFrom        string             `json:"renewedFrom,omitempty" db:"renewed_from"`
	CreatedAt          time.Time          `json:"createdAt" db:"created_at"`
	UpdatedAt          time.Time          `json:"updatedAt" db:"updated_at"`
}

// SessionsRemaining never goes negative even on inconsistent rows.
func (s *Subscription) SessionsRemaining() int {
	if s.SessionsUsed >= s.SessionsTotal {
		return 0
	}
	return s.SessionsTotal - s.SessionsUsed
}

type SessionUsage struct {
	ID             string    `json:"id" db:"id"`
	SubscriptionID string    `json:"subscriptionId" db:"subscription_id"`
	BookingRef     string    `json:"bookingRef" db:"booking_ref"`
	UsedAt         time.Time `json:"usedAt" db:"used_at"`
}

type SubscriptionStats struct {
	TotalActive     int     `json:"totalActive"`
	TotalSessions   int     `json:"totalSessions"`
	UsedSessions    int     `json:"usedSessions"`
	UsagePercentage float64 `json:"usagePercentage"`
}

// Member is a membership as shown to entity owners, Email comes from the
// identity directory and may be empty.
type Member struct {
	IdentityID string `json:"identityId"`
	Email      string `json:"email,omitempty"`
	Role       Role   `json:"role"`
}
