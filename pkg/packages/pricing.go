// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package packages

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/canonical/scheduling-service/internal/types"
)

const DefaultCurrency = "USD"

var hundred = decimal.NewFromInt(100)

// ComputePricing derives the original price and the discount of a package
// from the resolved unit prices of its services.
func ComputePricing(services []types.PackageService, packagePrice decimal.Decimal, currency string) (types.Pricing, error) {
	if len(services) == 0 {
		return types.Pricing{}, types.ErrEmptyServiceSet
	}

	if !packagePrice.IsPositive() {
		return types.Pricing{}, types.ErrInvalidPrice
	}

	original := decimal.Zero
	for _, s := range services {
		original = original.Add(s.UnitPrice.Mul(decimal.NewFromInt(int64(s.Quantity))))
	}

	if packagePrice.GreaterThan(original) {
		return types.Pricing{}, types.ErrPriceExceedsOriginal
	}

	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = DefaultCurrency
	}

	return types.Pricing{
		OriginalPrice:   original,
		PackagePrice:    packagePrice,
		DiscountPercent: original.Sub(packagePrice).Div(original).Mul(hundred).Round(2),
		Currency:        currency,
	}, nil
}

// resolveLines joins the requested lines with the live service catalogue,
// lines pointing at missing or inactive services are dropped. Order is kept.
func resolveLines(lines []types.PackageService, live []*types.Service) (resolved []types.PackageService, stale int) {
	byID := make(map[string]*types.Service, len(live))
	for _, s := range live {
		byID[s.ID] = s
	}

	resolved = make([]types.PackageService, 0, len(lines))
	for _, l := range lines {
		s, ok := byID[l.ServiceID]
		if !ok {
			stale++
			continue
		}

		resolved = append(resolved, types.PackageService{
			ServiceID: s.ID,
			Name:      s.Name,
			Quantity:  l.Quantity,
			UnitPrice: s.Price,
		})
	}

	return resolved, stale
}
