package authclient

import (
	"context"

	"github.com/metodos-app/authclient/present"
)

// OpenLanding gates the signed-in page. Without a session marker it
// redirects to login immediately and makes no network calls; with one
// it greets by first name, falling back to the email, and refreshes the
// profile best-effort.
func (f *Flow) OpenLanding(ctx context.Context) error {
	if !f.state.IsAuthenticated(ctx) {
		f.nav.Navigate(present.PageLogin, 0)
		return ErrNotAuthenticated
	}

	f.pres.ShowMessage(present.Success, f.welcomeMessage(ctx))

	if email, ok := f.state.UserEmail(ctx); ok {
		method, _ := f.state.AuthMethod(ctx)
		if name := f.fetchFirstName(ctx, method, email); name != "" {
			f.state.SetFirstName(ctx, name)
		}
	}
	return nil
}

func (f *Flow) welcomeMessage(ctx context.Context) string {
	if name, ok := f.state.FirstName(ctx); ok {
		return "Bienvenido, " + name + "."
	}
	if email, ok := f.state.UserEmail(ctx); ok {
		return "Bienvenido, " + email + "."
	}
	return msgWelcomeGeneric
}

// Logout clears the local session first, so the user is signed out even
// when the server call fails, then tells the server best-effort and
// returns to login.
func (f *Flow) Logout(ctx context.Context) error {
	if !f.logoutGate.enter() {
		return ErrBusy
	}
	defer f.logoutGate.leave()

	f.stopExpiryCountdown()
	f.state.ClearAuthState(ctx)

	if err := f.gw.Logout(ctx); err != nil {
		logBestEffort("server logout", err)
	}

	f.pres.ShowMessage(present.Success, msgLoggedOut)
	f.nav.Navigate(present.PageLogin, 0)
	return nil
}
