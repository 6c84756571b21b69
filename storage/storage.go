// Package storage keeps the session hints the page flows share: the
// authenticated-session marker, pending verification addresses, the
// recovery hand-off, and phone numbers. Values live in two scopes with
// different lifetimes; drivers supply the persistence and the State
// facade guarantees the flows never see a storage failure.
package storage

import (
	"context"
	"errors"
)

// Scope selects the lifetime of a stored value.
type Scope int

const (
	// Durable survives process restarts (profile-lifetime hints such as
	// the session marker and the remembered email).
	Durable Scope = iota
	// Volatile lives for the current run only (hand-off values between
	// consecutive pages).
	Volatile
)

func (s Scope) String() string {
	if s == Durable {
		return "durable"
	}
	return "volatile"
}

// Storage keys. Names are part of the persisted format; changing one
// invalidates existing profiles.
const (
	// Durable scope.
	KeyUserEmail       = "user_email"
	KeyUserFirstName   = "user_first_name"
	KeyPendingEmail    = "pending_verification_email"
	KeyIsAuthenticated = "isAuthenticated"
	KeyAuthMethod      = "auth_method"
	KeyRecoveryEmail   = "recovery_email"
	KeyRecoveryToken   = "recovery_token"
	KeyUserPhone       = "user_phone"

	// Volatile scope.
	KeyVolatileEmail     = "verification_email"
	KeyVolatileUserEmail = "user_email"
	KeyVolatilePhone     = "user_phone"
)

// ErrNotFound is returned by Driver.Get for absent keys.
var ErrNotFound = errors.New("storage: key not found")

// Driver is a flat string key/value store bound to a single scope.
// Implementations must treat Remove of an absent key as a no-op.
type Driver interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
