// Package grants holds pending authorization grants in memory until they are
// redeemed or expire, whichever happens first.
package grants

import "time"

// Grant is a pending authorization awaiting exchange for an access token.
// A Grant exists in a Store only while it is outstanding and unexpired.
type Grant struct {
	Scope     string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store indexes grants by an opaque key derived from the authorization code
// and its binding parameters.
type Store interface {
	// Put inserts a grant, replacing any grant already at key, and schedules
	// its removal after ttl.
	Put(key, scope string, ttl time.Duration)

	// TakeIfPresent atomically removes and returns the grant at key. It
	// reports false when the key was never used, was already taken, or has
	// expired.
	TakeIfPresent(key string) (*Grant, bool)
}

// Stats is a point-in-time view of a store's activity.
type Stats struct {
	Pending     int
	Redeemed    uint64
	Expired     uint64
	Overwritten uint64
}
