// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/canonical/scheduling-service/internal/db"
	"github.com/canonical/scheduling-service/internal/logging"
	"github.com/canonical/scheduling-service/internal/monitoring"
	"github.com/canonical/scheduling-service/internal/tracing"
	"github.com/canonical/scheduling-service/internal/types"
)

var _ StorageInterface = (*Storage)(nil)

var (
	entityColumns       = []string{"id", "name", "tier", "onboarding_complete", "created_at", "updated_at"}
	membershipColumns   = []string{"id", "entity_id", "identity_id", "role", "created_at"}
	serviceColumns      = []string{"id", "entity_id", "name", "price", "active", "created_at"}
	packageColumns      = []string{"id", "entity_id", "name", "description", "original_price", "package_price", "discount_percent", "currency", "recurrence", "validity_days", "sessions_included", "status", "created_at", "updated_at", "deleted_at"}
	subscriptionColumns = []string{"id", "package_id", "client_id", "entity_id", "status", "start_date", "expiry_date", "sessions_total", "sessions_used", "auto_renew", "cancelled_at", "cancellation_reason", "renewed_from", "created_at", "updated_at"}
)

type Storage struct {
	db db.DBClientInterface

	logger  logging.LoggerInterface
	tracer  tracing.TracingInterface
	monitor monitoring.MonitorInterface
}

func NewStorage(c db.DBClientInterface, tracer tracing.TracingInterface, monitor monitoring.MonitorInterface, logger logging.LoggerInterface) *Storage {
	s := new(Storage)

	s.db = c

	s.logger = logger
	s.tracer = tracer
	s.monitor = monitor

	return s
}

func newID(kind string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate %s ID: %w", kind, err)
	}
	return id.String(), nil
}

func returning(columns []string) string {
	return "RETURNING " + strings.Join(columns, ", ")
}

func scanEntity(row sq.RowScanner) (*types.Entity, error) {
	var e types.Entity
	if err := row.Scan(&e.ID, &e.Name, &e.Tier, &e.OnboardingComplete, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func scanMembership(row sq.RowScanner) (*types.Membership, error) {
	var (
		m        types.Membership
		entityID sql.NullString
	)
	if err := row.Scan(&m.ID, &entityID, &m.IdentityID, &m.Role, &m.CreatedAt); err != nil {
		return nil, err
	}
	m.EntityID = entityID.String
	return &m, nil
}

func scanService(row sq.RowScanner) (*types.Service, error) {
	var svc types.Service
	if err := row.Scan(&svc.ID, &svc.EntityID, &svc.Name, &svc.Price, &svc.Active, &svc.CreatedAt); err != nil {
		return nil, err
	}
	return &svc, nil
}

func scanPackage(row sq.RowScanner) (*types.Package, error) {
	var p types.Package
	err := row.Scan(
		&p.ID, &p.EntityID, &p.Name, &p.Description,
		&p.Pricing.OriginalPrice, &p.Pricing.PackagePrice, &p.Pricing.DiscountPercent, &p.Pricing.Currency,
		&p.Recurrence, &p.ValidityDays, &p.SessionsIncluded, &p.Status,
		&p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func scanSubscription(row sq.RowScanner) (*types.Subscription, error) {
	var (
		sub         types.Subscription
		renewedFrom sql.NullString
	)
	err := row.Scan(
		&sub.ID, &sub.PackageID, &sub.ClientID, &sub.EntityID, &sub.Status,
		&sub.StartDate, &sub.ExpiryDate, &sub.SessionsTotal, &sub.SessionsUsed, &sub.AutoRenew,
		&sub.CancelledAt, &sub.CancellationReason, &renewedFrom, &sub.CreatedAt, &sub.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.RenewedFrom = renewedFrom.String
	return &sub, nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func (s *Storage) CreateEntity(ctx context.Context, e *types.Entity) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateEntity")
	defer span.End()

	id, err := newID("entity")
	if err != nil {
		return nil, err
	}

	row := s.db.Statement(ctx).
		Insert("entities").
		Columns("id", "name", "tier", "onboarding_complete").
		Values(id, e.Name, e.Tier, e.OnboardingComplete).
		Suffix(returning(entityColumns)).
		QueryRowContext(ctx)

	created, err := scanEntity(row)
	if err != nil {
		return nil, classify(err, "insert entity")
	}

	return created, nil
}

func (s *Storage) GetEntity(ctx context.Context, id string) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetEntity")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(entityColumns...).
		From("entities").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	e, err := scanEntity(row)
	if err != nil {
		return nil, classify(err, "get entity")
	}

	return e, nil
}

func (s *Storage) ListEntities(ctx context.Context) ([]*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListEntities")
	defer span.End()

	rows, err := s.db.Statement(ctx).
		Select(entityColumns...).
		From("entities").
		OrderBy("created_at").
		QueryContext(ctx)
	if err != nil {
		return nil, classify(err, "list entities")
	}
	defer rows.Close()

	entities := make([]*types.Entity, 0)
	for rows.Next() {
		e, err := scanEntity(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entity: %w", err)
		}
		entities = append(entities, e)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate entity rows")
	}

	return entities, nil
}

func (s *Storage) updateEntity(ctx context.Context, id string, values map[string]interface{}) (*types.Entity, error) {
	values["updated_at"] = sq.Expr("now()")

	row := s.db.Statement(ctx).
		Update("entities").
		SetMap(values).
		Where(sq.Eq{"id": id}).
		Suffix(returning(entityColumns)).
		QueryRowContext(ctx)

	e, err := scanEntity(row)
	if err != nil {
		return nil, classify(err, "update entity")
	}

	return e, nil
}

func (s *Storage) UpdateEntityTier(ctx context.Context, id string, tier types.Tier) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdateEntityTier")
	defer span.End()

	return s.updateEntity(ctx, id, map[string]interface{}{"tier": tier})
}

func (s *Storage) CompleteOnboarding(ctx context.Context, id string) (*types.Entity, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CompleteOnboarding")
	defer span.End()

	return s.updateEntity(ctx, id, map[string]interface{}{"onboarding_complete": true})
}

func (s *Storage) AddMember(ctx context.Context, entityID, identityID string, role types.Role) (string, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.AddMember")
	defer span.End()

	id, err := newID("membership")
	if err != nil {
		return "", err
	}

	_, err = s.db.Statement(ctx).
		Insert("memberships").
		Columns("id", "entity_id", "identity_id", "role").
		Values(id, nullable(entityID), identityID, role).
		ExecContext(ctx)
	if err != nil {
		return "", classify(err, "add member")
	}

	return id, nil
}

// RemoveMember deletes an entity membership, platform memberships are out of reach.
func (s *Storage) RemoveMember(ctx context.Context, entityID, identityID string) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.RemoveMember")
	defer span.End()

	if entityID == "" {
		return ErrNotFound
	}

	res, err := s.db.Statement(ctx).
		Delete("memberships").
		Where(sq.Eq{"entity_id": entityID, "identity_id": identityID}).
		ExecContext(ctx)
	if err != nil {
		return classify(err, "remove member")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) listMemberships(ctx context.Context, where sq.Eq) ([]*types.Membership, error) {
	rows, err := s.db.Statement(ctx).
		Select(membershipColumns...).
		From("memberships").
		Where(where).
		OrderBy("created_at").
		QueryContext(ctx)
	if err != nil {
		return nil, classify(err, "list memberships")
	}
	defer rows.Close()

	members := make([]*types.Membership, 0)
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan membership: %w", err)
		}
		members = append(members, m)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate membership rows")
	}

	return members, nil
}

func (s *Storage) ListMembershipsByIdentity(ctx context.Context, identityID string) ([]*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListMembershipsByIdentity")
	defer span.End()

	return s.listMemberships(ctx, sq.Eq{"identity_id": identityID})
}

func (s *Storage) ListMembersByEntity(ctx context.Context, entityID string) ([]*types.Membership, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListMembersByEntity")
	defer span.End()

	return s.listMemberships(ctx, sq.Eq{"entity_id": entityID})
}

func (s *Storage) CreateService(ctx context.Context, svc *types.Service) (*types.Service, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateService")
	defer span.End()

	id, err := newID("service")
	if err != nil {
		return nil, err
	}

	row := s.db.Statement(ctx).
		Insert("services").
		Columns("id", "entity_id", "name", "price", "active").
		Values(id, svc.EntityID, svc.Name, svc.Price, svc.Active).
		Suffix(returning(serviceColumns)).
		QueryRowContext(ctx)

	created, err := scanService(row)
	if err != nil {
		return nil, classify(err, "insert service")
	}

	return created, nil
}

func (s *Storage) listServices(ctx context.Context, where sq.Sqlizer) ([]*types.Service, error) {
	rows, err := s.db.Statement(ctx).
		Select(serviceColumns...).
		From("services").
		Where(where).
		OrderBy("name").
		QueryContext(ctx)
	if err != nil {
		return nil, classify(err, "list services")
	}
	defer rows.Close()

	services := make([]*types.Service, 0)
	for rows.Next() {
		svc, err := scanService(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate service rows")
	}

	return services, nil
}

func (s *Storage) ListServices(ctx context.Context, entityID string) ([]*types.Service, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListServices")
	defer span.End()

	return s.listServices(ctx, sq.Eq{"entity_id": entityID})
}

// GetServicesByIDs returns the active services of the entity among ids,
// unknown or inactive ids are silently left out.
func (s *Storage) GetServicesByIDs(ctx context.Context, entityID string, ids []string) ([]*types.Service, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetServicesByIDs")
	defer span.End()

	if len(ids) == 0 {
		return []*types.Service{}, nil
	}

	return s.listServices(ctx, sq.Eq{"entity_id": entityID, "id": ids, "active": true})
}

func (s *Storage) insertPackageServices(ctx context.Context, packageID string, services []types.PackageService) error {
	if len(services) == 0 {
		return nil
	}

	q := s.db.Statement(ctx).
		Insert("package_services").
		Columns("package_id", "service_id", "name", "quantity", "unit_price", "position")

	for i, ps := range services {
		q = q.Values(packageID, ps.ServiceID, ps.Name, ps.Quantity, ps.UnitPrice, i)
	}

	if _, err := q.ExecContext(ctx); err != nil {
		return classify(err, "insert package services")
	}

	return nil
}

func (s *Storage) loadPackageServices(ctx context.Context, packages ...*types.Package) error {
	if len(packages) == 0 {
		return nil
	}

	byID := make(map[string]*types.Package, len(packages))
	ids := make([]string, 0, len(packages))
	for _, p := range packages {
		p.Services = make([]types.PackageService, 0)
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}

	rows, err := s.db.Statement(ctx).
		Select("package_id", "service_id", "name", "quantity", "unit_price").
		From("package_services").
		Where(sq.Eq{"package_id": ids}).
		OrderBy("package_id", "position").
		QueryContext(ctx)
	if err != nil {
		return classify(err, "list package services")
	}
	defer rows.Close()

	for rows.Next() {
		var (
			packageID string
			ps        types.PackageService
		)
		if err := rows.Scan(&packageID, &ps.ServiceID, &ps.Name, &ps.Quantity, &ps.UnitPrice); err != nil {
			return fmt.Errorf("failed to scan package service: %w", err)
		}
		if p, ok := byID[packageID]; ok {
			p.Services = append(p.Services, ps)
		}
	}

	return classify(rows.Err(), "iterate package service rows")
}

func (s *Storage) CreatePackage(ctx context.Context, p *types.Package) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreatePackage")
	defer span.End()

	id, err := newID("package")
	if err != nil {
		return nil, err
	}

	var created *types.Package
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		row := s.db.Statement(ctx).
			Insert("packages").
			Columns("id", "entity_id", "name", "description", "original_price", "package_price", "discount_percent", "currency", "recurrence", "validity_days", "sessions_included", "status").
			Values(id, p.EntityID, p.Name, p.Description, p.Pricing.OriginalPrice, p.Pricing.PackagePrice, p.Pricing.DiscountPercent, p.Pricing.Currency, p.Recurrence, p.ValidityDays, p.SessionsIncluded, p.Status).
			Suffix(returning(packageColumns)).
			QueryRowContext(ctx)

		var err error
		if created, err = scanPackage(row); err != nil {
			return classify(err, "insert package")
		}

		if err := s.insertPackageServices(ctx, id, p.Services); err != nil {
			return err
		}

		created.Services = append([]types.PackageService{}, p.Services...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

// GetPackage also returns soft deleted packages, callers check DeletedAt.
func (s *Storage) GetPackage(ctx context.Context, id string) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetPackage")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(packageColumns...).
		From("packages").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	p, err := scanPackage(row)
	if err != nil {
		return nil, classify(err, "get package")
	}

	if err := s.loadPackageServices(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

// UpdatePackage replaces the mutable fields and the service lines of a live package.
func (s *Storage) UpdatePackage(ctx context.Context, p *types.Package) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdatePackage")
	defer span.End()

	var updated *types.Package
	err := s.db.WithTx(ctx, func(ctx context.Context) error {
		row := s.db.Statement(ctx).
			Update("packages").
			SetMap(map[string]interface{}{
				"name":              p.Name,
				"description":       p.Description,
				"original_price":    p.Pricing.OriginalPrice,
				"package_price":     p.Pricing.PackagePrice,
				"discount_percent":  p.Pricing.DiscountPercent,
				"currency":          p.Pricing.Currency,
				"recurrence":        p.Recurrence,
				"validity_days":     p.ValidityDays,
				"sessions_included": p.SessionsIncluded,
				"updated_at":        sq.Expr("now()"),
			}).
			Where(sq.Eq{"id": p.ID, "entity_id": p.EntityID, "deleted_at": nil}).
			Suffix(returning(packageColumns)).
			QueryRowContext(ctx)

		var err error
		if updated, err = scanPackage(row); err != nil {
			return classify(err, "update package")
		}

		if _, err := s.db.Statement(ctx).
			Delete("package_services").
			Where(sq.Eq{"package_id": p.ID}).
			ExecContext(ctx); err != nil {
			return classify(err, "delete package services")
		}

		if err := s.insertPackageServices(ctx, p.ID, p.Services); err != nil {
			return err
		}

		updated.Services = append([]types.PackageService{}, p.Services...)

		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// UpdatePackageStatus moves a live package from one status to another, it
// fails with ErrPreconditionFailed when the stored status is not from.
func (s *Storage) UpdatePackageStatus(ctx context.Context, id string, from, to types.PackageStatus) (*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.UpdatePackageStatus")
	defer span.End()

	row := s.db.Statement(ctx).
		Update("packages").
		Set("status", to).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "status": from, "deleted_at": nil}).
		Suffix(returning(packageColumns)).
		QueryRowContext(ctx)

	p, err := scanPackage(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrPreconditionFailed
		}
		return nil, classify(err, "update package status")
	}

	if err := s.loadPackageServices(ctx, p); err != nil {
		return nil, err
	}

	return p, nil
}

func (s *Storage) SoftDeletePackage(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.SoftDeletePackage")
	defer span.End()

	res, err := s.db.Statement(ctx).
		Update("packages").
		Set("deleted_at", sq.Expr("now()")).
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"id": id, "deleted_at": nil}).
		ExecContext(ctx)
	if err != nil {
		return classify(err, "delete package")
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

func (s *Storage) ListPackages(ctx context.Context, entityID string, filter types.PackageFilter) ([]*types.Package, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListPackages")
	defer span.End()

	where := sq.Eq{"entity_id": entityID, "deleted_at": nil}
	if filter.Status != nil {
		where["status"] = *filter.Status
	}
	if filter.Recurrence != nil {
		where["recurrence"] = *filter.Recurrence
	}

	rows, err := s.db.Statement(ctx).
		Select(packageColumns...).
		From("packages").
		Where(where).
		OrderBy("created_at").
		QueryContext(ctx)
	if err != nil {
		return nil, classify(err, "list packages")
	}
	defer rows.Close()

	packages := make([]*types.Package, 0)
	for rows.Next() {
		p, err := scanPackage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan package: %w", err)
		}
		packages = append(packages, p)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate package rows")
	}

	if err := s.loadPackageServices(ctx, packages...); err != nil {
		return nil, err
	}

	return packages, nil
}

// CreateSubscription inserts sub. A subscription is renewed at most once, a
// second renewal of the same predecessor yields ErrDuplicateKey.
func (s *Storage) CreateSubscription(ctx context.Context, sub *types.Subscription) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.CreateSubscription")
	defer span.End()

	id, err := newID("subscription")
	if err != nil {
		return nil, err
	}

	// DO NOTHING keeps a surrounding transaction usable on conflict
	row := s.db.Statement(ctx).
		Insert("subscriptions").
		Columns("id", "package_id", "client_id", "entity_id", "status", "start_date", "expiry_date", "sessions_total", "sessions_used", "auto_renew", "renewed_from").
		Values(id, sub.PackageID, sub.ClientID, sub.EntityID, sub.Status, sub.StartDate, sub.ExpiryDate, sub.SessionsTotal, sub.SessionsUsed, sub.AutoRenew, nullable(sub.RenewedFrom)).
		Suffix("ON CONFLICT (renewed_from) DO NOTHING " + returning(subscriptionColumns)).
		QueryRowContext(ctx)

	created, err := scanSubscription(row)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("insert subscription: subscription %s already renewed: %w", sub.RenewedFrom, ErrDuplicateKey)
		}
		return nil, classify(err, "insert subscription")
	}

	return created, nil
}

// GetRenewal returns the subscription that renewed previousID.
func (s *Storage) GetRenewal(ctx context.Context, previousID string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetRenewal")
	defer span.End()

	row := s.selectSubscriptions(ctx).
		Where(sq.Eq{"renewed_from": previousID}).
		QueryRowContext(ctx)

	sub, err := scanSubscription(row)
	if err != nil {
		return nil, classify(err, "get renewal")
	}

	return sub, nil
}

func (s *Storage) GetSubscription(ctx context.Context, id string) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.GetSubscription")
	defer span.End()

	row := s.db.Statement(ctx).
		Select(subscriptionColumns...).
		From("subscriptions").
		Where(sq.Eq{"id": id}).
		QueryRowContext(ctx)

	sub, err := scanSubscription(row)
	if err != nil {
		return nil, classify(err, "get subscription")
	}

	return sub, nil
}

func (s *Storage) listSubscriptions(ctx context.Context, q sq.SelectBuilder) ([]*types.Subscription, error) {
	rows, err := q.QueryContext(ctx)
	if err != nil {
		return nil, classify(err, "list subscriptions")
	}
	defer rows.Close()

	subs := make([]*types.Subscription, 0)
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}

	if err := rows.Err(); err != nil {
		return nil, classify(err, "iterate subscription rows")
	}

	return subs, nil
}

func (s *Storage) selectSubscriptions(ctx context.Context) sq.SelectBuilder {
	return s.db.Statement(ctx).Select(subscriptionColumns...).From("subscriptions")
}

func (s *Storage) ListSubscriptions(ctx context.Context, entityID string) ([]*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListSubscriptions")
	defer span.End()

	return s.listSubscriptions(ctx, s.selectSubscriptions(ctx).
		Where(sq.Eq{"entity_id": entityID}).
		OrderBy("created_at"))
}

func (s *Storage) ListSubscriptionsByClient(ctx context.Context, entityID, clientID string) ([]*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListSubscriptionsByClient")
	defer span.End()

	return s.listSubscriptions(ctx, s.selectSubscriptions(ctx).
		Where(sq.Eq{"entity_id": entityID, "client_id": clientID}).
		OrderBy("expiry_date"))
}

// ListSubscriptionsExpiringBetween returns subscriptions stored as active
// whose expiry falls in [from, to].
func (s *Storage) ListSubscriptionsExpiringBetween(ctx context.Context, entityID string, from, to time.Time) ([]*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListSubscriptionsExpiringBetween")
	defer span.End()

	return s.listSubscriptions(ctx, s.selectSubscriptions(ctx).
		Where(sq.Eq{"entity_id": entityID, "status": types.SubscriptionStatusActive}).
		Where(sq.GtOrEq{"expiry_date": from}).
		Where(sq.LtOrEq{"expiry_date": to}).
		OrderBy("expiry_date"))
}

// ListSubscriptionsDue returns subscriptions of any entity that are past
// expiry but still stored as active or paused, oldest first.
func (s *Storage) ListSubscriptionsDue(ctx context.Context, now time.Time, limit int) ([]*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ListSubscriptionsDue")
	defer span.End()

	q := s.selectSubscriptions(ctx).
		Where(sq.Eq{"status": []types.SubscriptionStatus{types.SubscriptionStatusActive, types.SubscriptionStatusPaused}}).
		Where(sq.LtOrEq{"expiry_date": now}).
		OrderBy("expiry_date")

	if limit > 0 {
		q = q.Limit(uint64(limit))
	}

	return s.listSubscriptions(ctx, q)
}

// ConsumeSession increments the session counter and records the usage of
// bookingRef in one transaction. The subscription row is locked first, so
// concurrent callers are serialized and a bookingRef already recorded returns
// the subscription unchanged. The increment is conditional on the row being
// active, unexpired and not exhausted, no matching row yields
// ErrPreconditionFailed and nothing is written.
func (s *Storage) ConsumeSession(ctx context.Context, entityID, id, bookingRef string, now time.Time) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.ConsumeSession")
	defer span.End()

	usageID, err := newID("session usage")
	if err != nil {
		return nil, err
	}

	var sub *types.Subscription
	err = s.db.WithTx(ctx, func(ctx context.Context) error {
		row := s.selectSubscriptions(ctx).
			Where(sq.Eq{"id": id}).
			Suffix("FOR UPDATE").
			QueryRowContext(ctx)

		locked, err := scanSubscription(row)
		if err != nil {
			return classify(err, "lock subscription")
		}

		var one int
		err = s.db.Statement(ctx).
			Select("1").
			From("session_usages").
			Where(sq.Eq{"subscription_id": id, "booking_ref": bookingRef}).
			QueryRowContext(ctx).
			Scan(&one)
		switch {
		case err == nil:
			sub = locked
			return nil
		case !isNoRows(err):
			return classify(err, "look up session usage")
		}

		row = s.db.Statement(ctx).
			Update("subscriptions").
			Set("sessions_used", sq.Expr("sessions_used + 1")).
			Set("updated_at", now).
			Where(sq.Eq{"id": id, "entity_id": entityID, "status": types.SubscriptionStatusActive}).
			Where(sq.Gt{"expiry_date": now}).
			Where("sessions_used < sessions_total").
			Suffix(returning(subscriptionColumns)).
			QueryRowContext(ctx)

		if sub, err = scanSubscription(row); err != nil {
			if isNoRows(err) {
				return ErrPreconditionFailed
			}
			return classify(err, "increment sessions used")
		}

		_, err = s.db.Statement(ctx).
			Insert("session_usages").
			Columns("id", "subscription_id", "booking_ref", "used_at").
			Values(usageID, id, bookingRef, now).
			ExecContext(ctx)
		if err != nil {
			return classify(err, "record session usage")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (s *Storage) TransitionSubscription(ctx context.Context, t SubscriptionTransition) (*types.Subscription, error) {
	ctx, span := s.tracer.Start(ctx, "storage.Storage.TransitionSubscription")
	defer span.End()

	values := map[string]interface{}{
		"status":     t.To,
		"updated_at": t.At,
	}
	if t.To == types.SubscriptionStatusCancelled {
		values["cancelled_at"] = t.At
		values["cancellation_reason"] = t.Reason
	}

	where := sq.Eq{"id": t.ID, "status": t.From}
	if t.EntityID != "" {
		where["entity_id"] = t.EntityID
	}

	row := s.db.Statement(ctx).
		Update("subscriptions").
		SetMap(values).
		Where(where).
		Suffix(returning(subscriptionColumns)).
		QueryRowContext(ctx)

	sub, err := scanSubscription(row)
	if err != nil {
		if isNoRows(err) {
			return nil, ErrPreconditionFailed
		}
		return nil, classify(err, "transition subscription")
	}

	return sub, nil
}
