package authclient

import (
	"context"
	"errors"
	"log"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/storage"
)

// Flow is the orchestrator behind every page of the authentication
// front end. Build one through [Builder]; methods are safe for
// concurrent use.
type Flow struct {
	cfg   Config
	gw    Gateway
	state *storage.State
	pres  present.Presenter
	nav   present.Navigator

	// Advisory client-side cooldowns for the resend buttons. The
	// backend enforces its own limits; these only keep the UI honest.
	emailResend *rate.Limiter
	smsResend   *rate.Limiter

	// One gate per form. A gate held means that form's submission is
	// in flight and duplicates are rejected with ErrBusy.
	registerGate gate
	loginGate    gate
	smsLoginGate gate
	sendGate     gate
	verifyGate   gate
	resendGate   gate
	recoveryGate gate
	resetGate    gate
	logoutGate   gate

	countdownMu sync.Mutex
	countdown   *present.Countdown
}

type gate struct {
	busy atomic.Bool
}

func (g *gate) enter() bool { return g.busy.CompareAndSwap(false, true) }
func (g *gate) leave()      { g.busy.Store(false) }

// connectionFailure reduces an error to the user-facing connection
// message when it is transport-level. Returns true when handled.
func (f *Flow) connectionFailure(err error) bool {
	if errors.Is(err, gateway.ErrConnection) {
		f.pres.ShowMessage(present.Error, msgConnectionError)
		return true
	}
	return false
}

func (f *Flow) invalidField(field string, err error) {
	f.pres.SetFieldState(present.FieldState{Field: field, Valid: false, Message: err.Error()})
}

func (f *Flow) validField(field string) {
	f.pres.SetFieldState(present.FieldState{Field: field, Valid: true})
}

// startExpiryCountdown arms the code-expiry countdown for a
// verification page, replacing any countdown still running from a
// previous page. The presenter is warned once when the remaining time
// crosses the warning threshold and told when the code expires.
func (f *Flow) startExpiryCountdown() {
	f.stopExpiryCountdown()

	warned := false
	var warnMu sync.Mutex

	f.countdownMu.Lock()
	defer f.countdownMu.Unlock()
	f.countdown = present.StartCountdown(f.cfg.Timers.CodeExpiry,
		func(remaining time.Duration) {
			if remaining > f.cfg.Timers.ExpiryWarning || remaining == 0 {
				return
			}
			warnMu.Lock()
			defer warnMu.Unlock()
			if warned {
				return
			}
			warned = true
			f.pres.ShowMessage(present.Warning, msgCodeExpiringSoon)
		},
		func() {
			f.pres.ShowMessage(present.Error, msgCodeExpired)
		},
	)
}

// stopExpiryCountdown tears the countdown down. Called on page leave
// and after a successful verification so no callback fires into a page
// that is gone.
func (f *Flow) stopExpiryCountdown() {
	f.countdownMu.Lock()
	defer f.countdownMu.Unlock()
	if f.countdown != nil {
		f.countdown.Stop()
		f.countdown = nil
	}
}

// logBestEffort records a failure of a side operation that must not
// surface to the user.
func logBestEffort(what string, err error) {
	log.Printf("authclient: %s failed: %v", what, err)
}

// fetchFirstName is the best-effort profile enrichment after a
// successful login or on the landing page. Failures are logged, never
// shown.
func (f *Flow) fetchFirstName(ctx context.Context, method, email string) string {
	info, err := f.gw.UserInfo(ctx, method, email)
	if err != nil {
		logBestEffort("user-info lookup", err)
		return ""
	}
	return info.FirstName
}

// resolvePhone finds the number the SMS endpoints need: the stored one
// first, then the sms-scoped profile lookup, then the generic profile
// endpoint for accounts the scoped route does not know.
func (f *Flow) resolvePhone(ctx context.Context, email string) (string, error) {
	if phone, ok := f.state.Phone(ctx); ok {
		return phone, nil
	}

	info, err := f.gw.UserInfo(ctx, string(MethodSMS), email)
	if err != nil {
		if apiErr, ok := gateway.AsAPIError(err); !ok || apiErr.Status != 404 {
			return "", err
		}
		info, err = f.gw.UserInfo(ctx, "", email)
		if err != nil {
			return "", err
		}
	}
	if info.PhoneNumber == "" {
		return "", ErrPhoneUnavailable
	}
	f.state.SetPhone(ctx, info.PhoneNumber)
	return info.PhoneNumber, nil
}
