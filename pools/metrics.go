// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package pools

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Join outcomes
const (
	outcomeJoined          = "joined"
	outcomeNotFound        = "not_found"
	outcomeAlreadyMember   = "already_member"
	outcomeUnauthenticated = "unauthenticated"
	outcomeInvalid         = "invalid"
	outcomeFailed          = "failed"
)

var (
	createdTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickly_pool_pools_created_total",
			Help: "Pools created, by whether the creator was authenticated",
		},
		[]string{"ownership"},
	)
	codeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickly_pool_code_collisions_total",
			Help: "Join codes rejected by the unique index and regenerated",
		},
	)
	joinsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickly_pool_joins_total",
			Help: "Join attempts by outcome",
		},
		[]string{"outcome"},
	)
	ownerClaims = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickly_pool_owner_claims_total",
			Help: "Unclaimed pools claimed by their first joiner",
		},
	)
)
