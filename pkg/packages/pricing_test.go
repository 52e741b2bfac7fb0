// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package packages

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/canonical/scheduling-service/internal/types"
)

func TestComputePricing(t *testing.T) {
	services := []types.PackageService{
		{ServiceID: "cut", Quantity: 2, UnitPrice: decimal.NewFromInt(30)},
		{ServiceID: "wash", Quantity: 1, UnitPrice: decimal.NewFromInt(40)},
	}

	tests := []struct {
		name             string
		services         []types.PackageService
		price            string
		currency         string
		expectedErr      error
		expectedDiscount string
		expectedCurrency string
	}{
		{name: "discounted", services: services, price: "80", expectedDiscount: "20", expectedCurrency: "USD"},
		{name: "no discount", services: services, price: "100", currency: "eur", expectedDiscount: "0", expectedCurrency: "EUR"},
		{name: "rounded to cents", services: services, price: "66.666", expectedDiscount: "33.33", expectedCurrency: "USD"},
		{name: "above original", services: services, price: "120", expectedErr: types.ErrPriceExceedsOriginal},
		{name: "zero price", services: services, price: "0", expectedErr: types.ErrInvalidPrice},
		{name: "negative price", services: services, price: "-1", expectedErr: types.ErrInvalidPrice},
		{name: "no services", services: nil, price: "10", expectedErr: types.ErrEmptyServiceSet},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			pricing, err := ComputePricing(test.services, decimal.RequireFromString(test.price), test.currency)

			if test.expectedErr != nil {
				if !errors.Is(err, test.expectedErr) {
					t.Fatalf("expected error %v, got %v", test.expectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}

			if !pricing.OriginalPrice.Equal(decimal.NewFromInt(100)) {
				t.Fatalf("expected original price 100, got %s", pricing.OriginalPrice)
			}

			if !pricing.DiscountPercent.Equal(decimal.RequireFromString(test.expectedDiscount)) {
				t.Fatalf("expected discount %s, got %s", test.expectedDiscount, pricing.DiscountPercent)
			}

			if pricing.Currency != test.expectedCurrency {
				t.Fatalf("expected currency %s, got %s", test.expectedCurrency, pricing.Currency)
			}
		})
	}
}

func TestResolveLinesDropsStaleServices(t *testing.T) {
	live := []*types.Service{
		{ID: "b", Name: "Beard", Price: decimal.NewFromInt(15)},
		{ID: "a", Name: "Cut", Price: decimal.NewFromInt(30)},
	}

	resolved, stale := resolveLines([]types.PackageService{
		{ServiceID: "a", Quantity: 2},
		{ServiceID: "gone", Quantity: 1},
		{ServiceID: "b", Quantity: 1},
	}, live)

	if stale != 1 {
		t.Fatalf("expected 1 stale line, got %d", stale)
	}

	if len(resolved) != 2 || resolved[0].ServiceID != "a" || resolved[1].ServiceID != "b" {
		t.Fatalf("expected lines a, b in order, got %+v", resolved)
	}

	if resolved[0].Name != "Cut" || !resolved[0].UnitPrice.Equal(decimal.NewFromInt(30)) {
		t.Fatalf("expected resolved service shape, got %+v", resolved[0])
	}
}
