// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package authorization

import (
	_ "embed"
	"encoding/json"
	"fmt"

	fga "github.com/openfga/go-sdk"
	"github.com/openfga/language/pkg/go/transformer"
)

//go:embed model.fga
var modelV0 string

var models = map[string]string{
	"v0": modelV0,
}

type AuthorizationModelProvider struct {
	version string
}

// GetModel parses the DSL of the provider version into the API model shape.
func (p *AuthorizationModelProvider) GetModel() (*fga.AuthorizationModel, error) {
	dsl, ok := models[p.version]
	if !ok {
		return nil, fmt.Errorf("unknown authorization model version %s", p.version)
	}

	raw, err := transformer.TransformDSLToJSON(dsl)
	if err != nil {
		return nil, fmt.Errorf("failed to parse authorization model: %w", err)
	}

	model := new(fga.AuthorizationModel)
	if err := json.Unmarshal([]byte(raw), model); err != nil {
		return nil, fmt.Errorf("failed to decode authorization model: %w", err)
	}

	return model, nil
}

func (p *AuthorizationModelProvider) GetDSL() string {
	return models[p.version]
}

func NewAuthorizationModelProvider(version string) *AuthorizationModelProvider {
	return &AuthorizationModelProvider{version: version}
}
