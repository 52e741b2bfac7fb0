// Copyright 2026 Canonical Ltd.
// SPDX-License-Identifier: AGPL-3.0

package openfga

import (
	"github.com/openfga/go-sdk/client"
)

type Tuple struct {
	User     string
	Relation string
	Object   string
}

func (t Tuple) ToOpenFGATupleKey() client.ClientTupleKey {
	return client.ClientTupleKey{
		User:     t.User,
		Relation: t.Relation,
		Object:   t.Object,
	}
}

func (t Tuple) ToOpenFGATupleKeyWithoutCondition() client.ClientTupleKeyWithoutCondition {
	return client.ClientTupleKeyWithoutCondition{
		User:     t.User,
		Relation: t.Relation,
		Object:   t.Object,
	}
}

func NewTuple(user, relation, object string) *Tuple {
	return &Tuple{
		User:     user,
		Relation: relation,
		Object:   object,
	}
}

func contextualKeys(tuples []Tuple) []client.ClientContextualTupleKey {
	if len(tuples) == 0 {
		return nil
	}

	keys := make([]client.ClientContextualTupleKey, 0, len(tuples))
	for _, t := range tuples {
		keys = append(keys, t.ToOpenFGATupleKey())
	}
	return keys
}
