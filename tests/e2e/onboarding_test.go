// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package e2e

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/canonical/scheduling-service/internal/types"
	"github.com/canonical/scheduling-service/pkg/client"
	"github.com/canonical/scheduling-service/pkg/onboarding"
)

func newClient(t *testing.T, ctx context.Context) *client.Client {
	t.Helper()

	token, err := getJWTToken(ctx, clientID, clientSecret)
	if err != nil {
		t.Fatalf("failed to get token: %v", err)
	}

	c, err := client.NewClient(baseURL(), client.WithToken(token))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	return c
}

func register(ctx context.Context, identityID, email string) error {
	body := fmt.Sprintf(`{"id":%q,"email":%q}`, identityID, email)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL()+"/api/v0/webhooks/registration", strings.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("registration hook answered %d", resp.StatusCode)
	}

	return nil
}

func TestOnboardingLifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	c := newClient(t, ctx)

	t.Run("Registration", func(t *testing.T) {
		if err := register(ctx, clientID, "e2e@example.com"); err != nil {
			t.Fatalf("failed to register: %v", err)
		}
		// hooks are retried by the identity provider
		if err := register(ctx, clientID, "e2e@example.com"); err != nil {
			t.Fatalf("repeated registration failed: %v", err)
		}
	})

	t.Run("Gated Before Onboarding", func(t *testing.T) {
		_, err := c.ListPackages(ctx, types.PackageFilter{})
		if !errors.Is(err, types.ErrForbidden) {
			t.Fatalf("expected forbidden, got %v", err)
		}

		var apiErr *client.APIError
		if !errors.As(err, &apiErr) || apiErr.RedirectTo != onboarding.Path {
			t.Errorf("expected redirect to %s, got %v", onboarding.Path, err)
		}
	})

	t.Run("Current Entity", func(t *testing.T) {
		entity, err := c.CurrentEntity(ctx)
		if err != nil {
			t.Fatalf("failed to get entity: %v", err)
		}
		if entity.Tier != types.TierSimple {
			t.Errorf("expected simple tier, got %s", entity.Tier)
		}
		if entity.OnboardingComplete {
			t.Error("expected onboarding to be pending")
		}
	})

	t.Run("Complete Onboarding", func(t *testing.T) {
		entity, err := c.CompleteOnboarding(ctx)
		if err != nil {
			t.Fatalf("failed to complete onboarding: %v", err)
		}
		if !entity.OnboardingComplete {
			t.Error("expected onboarding to be complete")
		}
	})

	t.Run("Tenant Routes Open", func(t *testing.T) {
		pkgs, err := c.ListPackages(ctx, types.PackageFilter{})
		if err != nil {
			t.Fatalf("failed to list packages: %v", err)
		}
		if len(pkgs) != 0 {
			t.Errorf("expected no packages, got %d", len(pkgs))
		}

		if _, err := c.ListSubscriptions(ctx); err != nil {
			t.Fatalf("failed to list subscriptions: %v", err)
		}
	})

	t.Run("Members", func(t *testing.T) {
		members, err := c.ListMembers(ctx)
		if err != nil {
			t.Fatalf("failed to list members: %v", err)
		}
		if len(members) != 1 || members[0].Role != types.RoleOwner {
			t.Errorf("expected the owner as only member, got %v", members)
		}
	})
}

func TestUnauthenticated(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	c, err := client.NewClient(baseURL(), client.WithToken("not-a-jwt"))
	if err != nil {
		t.Fatalf("failed to create client: %v", err)
	}

	if _, err := c.CurrentEntity(ctx); !errors.Is(err, types.ErrUnauthenticated) {
		t.Fatalf("expected unauthenticated, got %v", err)
	}
}
