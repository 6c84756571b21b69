package storage

import (
	"context"
	"errors"
	"log"
	"sync"
)

// State is the facade the page flows use. It binds one driver per scope
// and absorbs every driver failure: a failing Get or Set is logged and
// served from a per-scope in-memory shadow instead, so a broken disk or
// an unreachable redis degrades persistence, never the flow itself.
//
// Every write is mirrored into the shadow. The shadow therefore always
// holds the freshest value written during this run, which is what a Get
// falls back to when the driver errors.
type State struct {
	durable  *slot
	volatile *slot
}

type slot struct {
	scope  Scope
	driver Driver
	shadow *Memory

	warnOnce sync.Once
}

// NewState binds drivers to scopes. A nil driver means plain in-memory
// for that scope.
func NewState(durable, volatile Driver) *State {
	if durable == nil {
		durable = NewMemory()
	}
	if volatile == nil {
		volatile = NewMemory()
	}
	return &State{
		durable:  &slot{scope: Durable, driver: durable, shadow: NewMemory()},
		volatile: &slot{scope: Volatile, driver: volatile, shadow: NewMemory()},
	}
}

func (s *State) slot(scope Scope) *slot {
	if scope == Durable {
		return s.durable
	}
	return s.volatile
}

func (sl *slot) warn(op string, err error) {
	sl.warnOnce.Do(func() {
		log.Printf("authclient: %s storage %s failed, continuing on memory: %v", sl.scope, op, err)
	})
}

// Get reads a key. The second return is false when the key is absent in
// both the driver and the shadow.
func (s *State) Get(ctx context.Context, scope Scope, key string) (string, bool) {
	sl := s.slot(scope)

	v, err := sl.driver.Get(ctx, key)
	if err == nil {
		return v, true
	}
	if !errors.Is(err, ErrNotFound) {
		sl.warn("read", err)
	}
	// Absent in the driver can still mean a value whose driver write
	// failed earlier; the shadow has it in that case.
	v, shadowErr := sl.shadow.Get(ctx, key)
	if shadowErr != nil {
		return "", false
	}
	return v, true
}

// Set writes a key. Failures are absorbed; the shadow keeps the value.
func (s *State) Set(ctx context.Context, scope Scope, key, value string) {
	sl := s.slot(scope)

	_ = sl.shadow.Set(ctx, key, value)
	if err := sl.driver.Set(ctx, key, value); err != nil {
		sl.warn("write", err)
	}
}

// Remove deletes a key in both the driver and the shadow. Removing an
// absent key is a no-op.
func (s *State) Remove(ctx context.Context, scope Scope, key string) {
	sl := s.slot(scope)

	_ = sl.shadow.Remove(ctx, key)
	if err := sl.driver.Remove(ctx, key); err != nil {
		sl.warn("remove", err)
	}
}

// VerificationEmail resolves the address a verification page should
// act on. Durable wins over volatile: first the pending-verification
// key, then the remembered account email, then the volatile hand-off.
func (s *State) VerificationEmail(ctx context.Context) (string, bool) {
	if v, ok := s.Get(ctx, Durable, KeyPendingEmail); ok && v != "" {
		return v, true
	}
	if v, ok := s.Get(ctx, Durable, KeyUserEmail); ok && v != "" {
		return v, true
	}
	if v, ok := s.Get(ctx, Volatile, KeyVolatileEmail); ok && v != "" {
		return v, true
	}
	return "", false
}

// SetPendingVerification records the address an OTP was just sent to,
// in both scopes so the next page finds it either way.
func (s *State) SetPendingVerification(ctx context.Context, email string) {
	s.Set(ctx, Durable, KeyPendingEmail, email)
	s.Set(ctx, Volatile, KeyVolatileEmail, email)
	s.Set(ctx, Volatile, KeyVolatileUserEmail, email)
}

// ClearPendingVerification drops the hand-off keys in both scopes.
func (s *State) ClearPendingVerification(ctx context.Context) {
	s.Remove(ctx, Durable, KeyPendingEmail)
	s.Remove(ctx, Volatile, KeyVolatileEmail)
	s.Remove(ctx, Volatile, KeyVolatileUserEmail)
}

// EstablishSession marks the user authenticated. Only flow code that
// has seen an explicit server confirmation may call this.
func (s *State) EstablishSession(ctx context.Context, email, method, firstName string) {
	s.Set(ctx, Durable, KeyIsAuthenticated, "true")
	s.Set(ctx, Durable, KeyUserEmail, email)
	if method != "" {
		s.Set(ctx, Durable, KeyAuthMethod, method)
	}
	if firstName != "" {
		s.Set(ctx, Durable, KeyUserFirstName, firstName)
	}
}

// IsAuthenticated reports whether a session marker is present.
func (s *State) IsAuthenticated(ctx context.Context) bool {
	v, ok := s.Get(ctx, Durable, KeyIsAuthenticated)
	return ok && v == "true"
}

// ClearAuthState removes every session-related durable key. Safe to
// call repeatedly and on an already-clean store.
func (s *State) ClearAuthState(ctx context.Context) {
	for _, key := range []string{
		KeyAuthMethod,
		KeyIsAuthenticated,
		KeyUserEmail,
		KeyPendingEmail,
		KeyUserFirstName,
	} {
		s.Remove(ctx, Durable, key)
	}
	s.ClearPendingVerification(ctx)
}

// UserEmail returns the remembered account email.
func (s *State) UserEmail(ctx context.Context) (string, bool) {
	v, ok := s.Get(ctx, Durable, KeyUserEmail)
	return v, ok && v != ""
}

// FirstName returns the remembered display name.
func (s *State) FirstName(ctx context.Context) (string, bool) {
	v, ok := s.Get(ctx, Durable, KeyUserFirstName)
	return v, ok && v != ""
}

// SetFirstName records the display name for the landing greeting.
func (s *State) SetFirstName(ctx context.Context, name string) {
	s.Set(ctx, Durable, KeyUserFirstName, name)
}

// AuthMethod returns the remembered authentication method.
func (s *State) AuthMethod(ctx context.Context) (string, bool) {
	v, ok := s.Get(ctx, Durable, KeyAuthMethod)
	return v, ok && v != ""
}

// SetRecovery records the recovery hand-off after a successful request.
func (s *State) SetRecovery(ctx context.Context, email, token string) {
	s.Set(ctx, Durable, KeyRecoveryEmail, email)
	s.Set(ctx, Durable, KeyRecoveryToken, token)
}

// RecoveryEmail returns the address a reset is in progress for.
func (s *State) RecoveryEmail(ctx context.Context) (string, bool) {
	v, ok := s.Get(ctx, Durable, KeyRecoveryEmail)
	return v, ok && v != ""
}

// DropRecoveryToken discards the token while keeping the email, so an
// abandoned reset page can be resumed by requesting a fresh code.
func (s *State) DropRecoveryToken(ctx context.Context) {
	s.Remove(ctx, Durable, KeyRecoveryToken)
}

// ClearRecovery drops the whole recovery hand-off.
func (s *State) ClearRecovery(ctx context.Context) {
	s.Remove(ctx, Durable, KeyRecoveryEmail)
	s.Remove(ctx, Durable, KeyRecoveryToken)
}

// SetPhone records the user's phone number in both scopes.
func (s *State) SetPhone(ctx context.Context, phone string) {
	s.Set(ctx, Durable, KeyUserPhone, phone)
	s.Set(ctx, Volatile, KeyVolatilePhone, phone)
}

// Phone resolves the stored phone number, durable scope first.
func (s *State) Phone(ctx context.Context) (string, bool) {
	if v, ok := s.Get(ctx, Durable, KeyUserPhone); ok && v != "" {
		return v, true
	}
	if v, ok := s.Get(ctx, Volatile, KeyVolatilePhone); ok && v != "" {
		return v, true
	}
	return "", false
}
