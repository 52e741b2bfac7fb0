// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/canonical/scheduling-service/internal/types"
)

var _ StorageInterface = (*MemoryStore)(nil)

type usageKey struct {
	subscriptionID string
	bookingRef     string
}

// MemoryStore keeps everything in process memory behind a single mutex. It
// is used when no DSN is configured and by tests.
type MemoryStore struct {
	mu sync.Mutex

	entities      map[string]*types.Entity
	memberships   map[string]*types.Membership
	services      map[string]*types.Service
	packages      map[string]*types.Package
	subscriptions map[string]*types.Subscription
	usages        map[usageKey]*types.SessionUsage

	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entities:      make(map[string]*types.Entity),
		memberships:   make(map[string]*types.Membership),
		services:      make(map[string]*types.Service),
		packages:      make(map[string]*types.Package),
		subscriptions: make(map[string]*types.Subscription),
		usages:        make(map[usageKey]*types.SessionUsage),
		now:           func() time.Time { return time.Now().UTC() },
	}
}

func copyEntity(e *types.Entity) *types.Entity {
	c := *e
	return &c
}

func copyPackage(p *types.Package) *types.Package {
	c := *p
	c.Services = append([]types.PackageService{}, p.Services...)
	if p.DeletedAt != nil {
		t := *p.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func copySubscription(s *types.Subscription) *types.Subscription {
	c := *s
	if s.CancelledAt != nil {
		t := *s.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

func byCreation[T any](items []T, created func(T) time.Time, id func(T) string) {
	slices.SortFunc(items, func(a, b T) int {
		if c := created(a).Compare(created(b)); c != 0 {
			return c
		}
		return cmp.Compare(id(a), id(b))
	})
}

func (m *MemoryStore) CreateEntity(_ context.Context, e *types.Entity) (*types.Entity, error) {
	id, err := newID("entity")
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	created := &types.Entity{
		ID:                 id,
		Name:               e.Name,
		Tier:               e.Tier,
		OnboardingComplete: e.OnboardingComplete,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	m.entities[id] = created

	return copyEntity(created), nil
}

func (m *MemoryStore) GetEntity(_ context.Context, id string) (*types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copyEntity(e), nil
}

func (m *MemoryStore) ListEntities(_ context.Context) ([]*types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entities := make([]*types.Entity, 0, len(m.entities))
	for _, e := range m.entities {
		entities = append(entities, copyEntity(e))
	}
	byCreation(entities, func(e *types.Entity) time.Time { return e.CreatedAt }, func(e *types.Entity) string { return e.ID })

	return entities, nil
}

func (m *MemoryStore) updateEntity(id string, apply func(*types.Entity)) (*types.Entity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entities[id]
	if !ok {
		return nil, ErrNotFound
	}

	apply(e)
	e.UpdatedAt = m.now()

	return copyEntity(e), nil
}

func (m *MemoryStore) UpdateEntityTier(_ context.Context, id string, tier types.Tier) (*types.Entity, error) {
	return m.updateEntity(id, func(e *types.Entity) { e.Tier = tier })
}

func (m *MemoryStore) CompleteOnboarding(_ context.Context, id string) (*types.Entity, error) {
	return m.updateEntity(id, func(e *types.Entity) { e.OnboardingComplete = true })
}

func (m *MemoryStore) AddMember(_ context.Context, entityID, identityID string, role types.Role) (string, error) {
	id, err := newID("membership")
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if entityID != "" {
		if _, ok := m.entities[entityID]; !ok {
			return "", ErrForeignKeyViolation
		}
	}

	for _, existing := range m.memberships {
		if existing.EntityID == entityID && existing.IdentityID == identityID {
			return "", ErrDuplicateKey
		}
	}

	m.memberships[id] = &types.Membership{
		ID:         id,
		EntityID:   entityID,
		IdentityID: identityID,
		Role:       role,
		CreatedAt:  m.now(),
	}

	return id, nil
}

func (m *MemoryStore) listMemberships(match func(*types.Membership) bool) []*types.Membership {
	m.mu.Lock()
	defer m.mu.Unlock()

	members := make([]*types.Membership, 0)
	for _, ms := range m.memberships {
		if match(ms) {
			c := *ms
			members = append(members, &c)
		}
	}
	byCreation(members, func(m *types.Membership) time.Time { return m.CreatedAt }, func(m *types.Membership) string { return m.ID })

	return members
}

func (m *MemoryStore) ListMembershipsByIdentity(_ context.Context, identityID string) ([]*types.Membership, error) {
	return m.listMemberships(func(ms *types.Membership) bool { return ms.IdentityID == identityID }), nil
}

func (m *MemoryStore) ListMembersByEntity(_ context.Context, entityID string) ([]*types.Membership, error) {
	return m.listMemberships(func(ms *types.Membership) bool { return ms.EntityID == entityID }), nil
}

func (m *MemoryStore) RemoveMember(_ context.Context, entityID, identityID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entityID == "" {
		return ErrNotFound
	}

	for id, ms := range m.memberships {
		if ms.EntityID == entityID && ms.IdentityID == identityID {
			delete(m.memberships, id)
			return nil
		}
	}

	return ErrNotFound
}

func (m *MemoryStore) CreateService(_ context.Context, svc *types.Service) (*types.Service, error) {
	id, err := newID("service")
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entities[svc.EntityID]; !ok {
		return nil, ErrForeignKeyViolation
	}

	created := *svc
	created.ID = id
	created.CreatedAt = m.now()
	m.services[id] = &created

	c := created
	return &c, nil
}

// UpdateService edits a stored service in place.
func (m *MemoryStore) UpdateService(id string, apply func(*types.Service)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	svc, ok := m.services[id]
	if !ok {
		return ErrNotFound
	}
	apply(svc)

	return nil
}

func (m *MemoryStore) listServices(match func(*types.Service) bool) []*types.Service {
	m.mu.Lock()
	defer m.mu.Unlock()

	services := make([]*types.Service, 0)
	for _, svc := range m.services {
		if match(svc) {
			c := *svc
			services = append(services, &c)
		}
	}
	slices.SortFunc(services, func(a, b *types.Service) int {
		return cmp.Or(cmp.Compare(a.Name, b.Name), cmp.Compare(a.ID, b.ID))
	})

	return services
}

func (m *MemoryStore) ListServices(_ context.Context, entityID string) ([]*types.Service, error) {
	return m.listServices(func(svc *types.Service) bool { return svc.EntityID == entityID }), nil
}

func (m *MemoryStore) GetServicesByIDs(_ context.Context, entityID string, ids []string) ([]*types.Service, error) {
	return m.listServices(func(svc *types.Service) bool {
		return svc.EntityID == entityID && svc.Active && slices.Contains(ids, svc.ID)
	}), nil
}

func (m *MemoryStore) CreatePackage(_ context.Context, p *types.Package) (*types.Package, error) {
	id, err := newID("package")
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entities[p.EntityID]; !ok {
		return nil, ErrForeignKeyViolation
	}

	now := m.now()
	created := copyPackage(p)
	created.ID = id
	created.CreatedAt = now
	created.UpdatedAt = now
	created.DeletedAt = nil
	m.packages[id] = created

	return copyPackage(created), nil
}

func (m *MemoryStore) GetPackage(_ context.Context, id string) (*types.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.packages[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copyPackage(p), nil
}

func (m *MemoryStore) UpdatePackage(_ context.Context, p *types.Package) (*types.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stored, ok := m.packages[p.ID]
	if !ok || stored.EntityID != p.EntityID || stored.DeletedAt != nil {
		return nil, ErrNotFound
	}

	stored.Name = p.Name
	stored.Description = p.Description
	stored.Services = append([]types.PackageService{}, p.Services...)
	stored.Pricing = p.Pricing
	stored.Recurrence = p.Recurrence
	stored.ValidityDays = p.ValidityDays
	stored.SessionsIncluded = p.SessionsIncluded
	stored.UpdatedAt = m.now()

	return copyPackage(stored), nil
}

func (m *MemoryStore) UpdatePackageStatus(_ context.Context, id string, from, to types.PackageStatus) (*types.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.packages[id]
	if !ok || p.DeletedAt != nil || p.Status != from {
		return nil, ErrPreconditionFailed
	}

	p.Status = to
	p.UpdatedAt = m.now()

	return copyPackage(p), nil
}

func (m *MemoryStore) SoftDeletePackage(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.packages[id]
	if !ok || p.DeletedAt != nil {
		return ErrNotFound
	}

	now := m.now()
	p.DeletedAt = &now
	p.UpdatedAt = now

	return nil
}

func (m *MemoryStore) ListPackages(_ context.Context, entityID string, filter types.PackageFilter) ([]*types.Package, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	packages := make([]*types.Package, 0)
	for _, p := range m.packages {
		if p.EntityID != entityID || p.DeletedAt != nil {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		if filter.Recurrence != nil && p.Recurrence != *filter.Recurrence {
			continue
		}
		packages = append(packages, copyPackage(p))
	}
	byCreation(packages, func(p *types.Package) time.Time { return p.CreatedAt }, func(p *types.Package) string { return p.ID })

	return packages, nil
}

func (m *MemoryStore) CreateSubscription(_ context.Context, sub *types.Subscription) (*types.Subscription, error) {
	id, err := newID("subscription")
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.packages[sub.PackageID]; !ok {
		return nil, ErrForeignKeyViolation
	}

	if sub.RenewedFrom != "" && m.renewalOf(sub.RenewedFrom) != nil {
		return nil, fmt.Errorf("insert subscription: subscription %s already renewed: %w", sub.RenewedFrom, ErrDuplicateKey)
	}

	now := m.now()
	created := copySubscription(sub)
	created.ID = id
	created.CancelledAt = nil
	created.CancellationReason = ""
	created.CreatedAt = now
	created.UpdatedAt = now
	m.subscriptions[id] = created

	return copySubscription(created), nil
}

func (m *MemoryStore) renewalOf(previousID string) *types.Subscription {
	for _, s := range m.subscriptions {
		if s.RenewedFrom == previousID {
			return s
		}
	}
	return nil
}

func (m *MemoryStore) GetRenewal(_ context.Context, previousID string) (*types.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub := m.renewalOf(previousID)
	if sub == nil {
		return nil, ErrNotFound
	}

	return copySubscription(sub), nil
}

func (m *MemoryStore) GetSubscription(_ context.Context, id string) (*types.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subscriptions[id]
	if !ok {
		return nil, ErrNotFound
	}

	return copySubscription(sub), nil
}

func (m *MemoryStore) listSubscriptions(match func(*types.Subscription) bool, byExpiry bool) []*types.Subscription {
	m.mu.Lock()
	defer m.mu.Unlock()

	subs := make([]*types.Subscription, 0)
	for _, sub := range m.subscriptions {
		if match(sub) {
			subs = append(subs, copySubscription(sub))
		}
	}

	key := func(s *types.Subscription) time.Time { return s.CreatedAt }
	if byExpiry {
		key = func(s *types.Subscription) time.Time { return s.ExpiryDate }
	}
	byCreation(subs, key, func(s *types.Subscription) string { return s.ID })

	return subs
}

func (m *MemoryStore) ListSubscriptions(_ context.Context, entityID string) ([]*types.Subscription, error) {
	return m.listSubscriptions(func(s *types.Subscription) bool { return s.EntityID == entityID }, false), nil
}

func (m *MemoryStore) ListSubscriptionsByClient(_ context.Context, entityID, clientID string) ([]*types.Subscription, error) {
	return m.listSubscriptions(func(s *types.Subscription) bool {
		return s.EntityID == entityID && s.ClientID == clientID
	}, true), nil
}

func (m *MemoryStore) ListSubscriptionsExpiringBetween(_ context.Context, entityID string, from, to time.Time) ([]*types.Subscription, error) {
	return m.listSubscriptions(func(s *types.Subscription) bool {
		return s.EntityID == entityID &&
			s.Status == types.SubscriptionStatusActive &&
			!s.ExpiryDate.Before(from) &&
			!s.ExpiryDate.After(to)
	}, true), nil
}

func (m *MemoryStore) ListSubscriptionsDue(_ context.Context, now time.Time, limit int) ([]*types.Subscription, error) {
	subs := m.listSubscriptions(func(s *types.Subscription) bool {
		return (s.Status == types.SubscriptionStatusActive || s.Status == types.SubscriptionStatusPaused) &&
			!s.ExpiryDate.After(now)
	}, true)

	if limit > 0 && len(subs) > limit {
		subs = subs[:limit]
	}

	return subs, nil
}

func (m *MemoryStore) ConsumeSession(_ context.Context, entityID, id, bookingRef string, now time.Time) (*types.Subscription, error) {
	usageID, err := newID("session usage")
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subscriptions[id]
	if !ok {
		return nil, ErrNotFound
	}

	key := usageKey{subscriptionID: id, bookingRef: bookingRef}
	if _, replay := m.usages[key]; replay {
		return copySubscription(sub), nil
	}

	if sub.EntityID != entityID ||
		sub.Status != types.SubscriptionStatusActive ||
		!now.Before(sub.ExpiryDate) ||
		sub.SessionsUsed >= sub.SessionsTotal {
		return nil, ErrPreconditionFailed
	}

	sub.SessionsUsed++
	sub.UpdatedAt = now
	m.usages[key] = &types.SessionUsage{
		ID:             usageID,
		SubscriptionID: id,
		BookingRef:     bookingRef,
		UsedAt:         now,
	}

	return copySubscription(sub), nil
}

func (m *MemoryStore) TransitionSubscription(_ context.Context, t SubscriptionTransition) (*types.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sub, ok := m.subscriptions[t.ID]
	if !ok || (t.EntityID != "" && sub.EntityID != t.EntityID) || !slices.Contains(t.From, sub.Status) {
		return nil, ErrPreconditionFailed
	}

	sub.Status = t.To
	sub.UpdatedAt = t.At
	if t.To == types.SubscriptionStatusCancelled {
		at := t.At
		sub.CancelledAt = &at
		sub.CancellationReason = t.Reason
	}

	return copySubscription(sub), nil
}
