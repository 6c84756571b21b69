package authclient

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
)

func TestOpenLandingUnauthenticatedRedirectsImmediately(t *testing.T) {
	gw := newFakeGateway()
	flow, _, nav, _ := newTestFlow(t, gw)

	if err := flow.OpenLanding(context.Background()); !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("err = %v", err)
	}
	page, delay, _ := nav.last()
	if page != present.PageLogin || delay != 0 {
		t.Errorf("redirect = %q after %v", page, delay)
	}
	if gw.total() != 0 {
		t.Error("unauthenticated landing made network calls")
	}
}

func TestOpenLandingGreetsByPrecedence(t *testing.T) {
	gw := newFakeGateway()
	flow, pres, _, state := newTestFlow(t, gw)
	ctx := context.Background()

	// Name known: greet by name.
	state.EstablishSession(ctx, "ana@b.com", "email", "Ana")
	if err := flow.OpenLanding(ctx); err != nil {
		t.Fatalf("OpenLanding: %v", err)
	}
	if msg, _ := pres.lastMessage(); !strings.Contains(msg.Text, "Ana") {
		t.Errorf("greeting = %q", msg.Text)
	}
}

func TestOpenLandingFallsBackToEmail(t *testing.T) {
	gw := newFakeGateway()
	flow, pres, _, state := newTestFlow(t, gw)
	ctx := context.Background()

	state.EstablishSession(ctx, "ana@b.com", "email", "")
	if err := flow.OpenLanding(ctx); err != nil {
		t.Fatalf("OpenLanding: %v", err)
	}
	// First message is the greeting.
	pres.mu.Lock()
	greeting := pres.messages[0].Text
	pres.mu.Unlock()
	if !strings.Contains(greeting, "ana@b.com") {
		t.Errorf("greeting = %q", greeting)
	}
}

func TestOpenLandingRefreshesName(t *testing.T) {
	gw := newFakeGateway()
	gw.userInfoResp = &gateway.UserInfoResponse{FirstName: "Ana"}
	flow, _, _, state := newTestFlow(t, gw)
	ctx := context.Background()

	state.EstablishSession(ctx, "ana@b.com", "email", "")
	if err := flow.OpenLanding(ctx); err != nil {
		t.Fatalf("OpenLanding: %v", err)
	}
	if name, _ := state.FirstName(ctx); name != "Ana" {
		t.Errorf("refreshed name = %q", name)
	}
}

func TestOpenLandingSurvivesProfileFailure(t *testing.T) {
	gw := newFakeGateway()
	gw.userInfoErr = gateway.ErrConnection
	gw.userInfoScopedErr = gateway.ErrConnection
	flow, pres, _, state := newTestFlow(t, gw)
	ctx := context.Background()

	state.EstablishSession(ctx, "ana@b.com", "email", "Ana")
	if err := flow.OpenLanding(ctx); err != nil {
		t.Fatalf("profile failure must not fail the landing: %v", err)
	}
	// The failure is logged, never rendered.
	pres.mu.Lock()
	defer pres.mu.Unlock()
	for _, m := range pres.messages {
		if m.Kind == present.Error {
			t.Errorf("error surfaced to the user: %q", m.Text)
		}
	}
}

func TestLogoutClearsLocalStateEvenWhenServerFails(t *testing.T) {
	gw := newFakeGateway()
	gw.logoutErr = gateway.ErrConnection
	flow, pres, nav, state := newTestFlow(t, gw)
	ctx := context.Background()

	state.EstablishSession(ctx, "ana@b.com", "email", "Ana")
	if err := flow.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	if state.IsAuthenticated(ctx) {
		t.Error("still authenticated after Logout")
	}
	if gw.count("logout") != 1 {
		t.Errorf("logout calls = %d", gw.count("logout"))
	}
	page, delay, _ := nav.last()
	if page != present.PageLogin || delay != 0 {
		t.Errorf("nav = %q after %v", page, delay)
	}
	// The server failure stays off the screen.
	pres.mu.Lock()
	defer pres.mu.Unlock()
	for _, m := range pres.messages {
		if m.Kind == present.Error {
			t.Errorf("logout failure surfaced: %q", m.Text)
		}
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	gw := newFakeGateway()
	flow, _, _, state := newTestFlow(t, gw)
	ctx := context.Background()

	if err := flow.Logout(ctx); err != nil {
		t.Fatalf("logout on clean state: %v", err)
	}
	if err := flow.Logout(ctx); err != nil {
		t.Fatalf("second logout: %v", err)
	}
	if state.IsAuthenticated(ctx) {
		t.Error("authenticated after logout")
	}
}
