// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/canonical/scheduling-service/pkg/client"
)

// getClient builds a REST client from the persistent flags.
func getClient() (*client.Client, error) {
	endpoint := httpEndpoint
	if !strings.HasPrefix(endpoint, "http") {
		endpoint = "http://" + endpoint
	}
	endpoint = strings.TrimSuffix(endpoint, "/")

	opts := []client.Option{client.WithEntity(entityID)}
	if accessToken != "" {
		opts = append(opts, client.WithToken(accessToken))
	}
	if userID != "" {
		opts = append(opts, client.WithIdentity(userID))
	}

	c, err := client.NewClient(endpoint, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create http client: %w", err)
	}

	return c, nil
}

// render prints v as JSON when requested, otherwise calls table with a tab writer.
func render(out io.Writer, v interface{}, table func(w io.Writer)) error {
	if outputFormat == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	table(w)
	return w.Flush()
}
