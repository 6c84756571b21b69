package authclient

import (
	"context"
	"net/http"
	"strings"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/validate"
)

// Login submits the password form. A direct confirmation establishes
// the session and moves to the landing page; a requires-OTP answer
// records the pending verification and moves to the page of the
// account's second factor.
func (f *Flow) Login(ctx context.Context, email, password string) error {
	if !f.loginGate.enter() {
		return ErrBusy
	}
	defer f.loginGate.leave()

	email = strings.TrimSpace(email)
	if !f.validateLogin(email, password) {
		return ErrInvalidInput
	}

	resp, err := f.gw.Login(ctx, email, password)
	if err != nil {
		// The password buffer is cleared on every rejection.
		f.pres.SetFieldState(present.FieldState{Field: "password", Valid: false})
		if f.connectionFailure(err) {
			return err
		}
		return f.classifyLoginError(err)
	}
	if !resp.Success {
		f.pres.SetFieldState(present.FieldState{Field: "password", Valid: false})
		msg := resp.Error
		if msg == "" {
			msg = msgInvalidCredentials
		}
		f.pres.ShowMessage(present.Error, msg)
		return ErrInvalidCredentials
	}

	method := AuthMethod(resp.AuthMethod)

	// Best-effort greeting data; a failure here never blocks the login.
	firstName := f.fetchFirstName(ctx, resp.AuthMethod, email)

	if resp.RequiresOTP {
		f.state.SetPendingVerification(ctx, email)
		if firstName != "" {
			f.state.SetFirstName(ctx, firstName)
		}

		switch method {
		case MethodSMS:
			if _, err := f.resolvePhone(ctx, email); err != nil {
				// The verification page retries the lookup; keep going.
				logBestEffort("phone lookup during login", err)
			}
			f.nav.Navigate(present.PageSMSVerification, f.cfg.Delays.AfterLogin)
		case MethodTOTP:
			f.nav.Navigate(present.PageTOTPVerification, f.cfg.Delays.AfterLogin)
		default:
			f.nav.Navigate(present.PageEmailVerification, f.cfg.Delays.AfterLogin)
		}
		f.pres.ShowMessage(present.Success, msgLoginSuccess)
		return nil
	}

	f.state.EstablishSession(ctx, email, resp.AuthMethod, firstName)
	f.pres.ShowMessage(present.Success, msgLoginSuccess)
	f.nav.Navigate(present.PageLanding, f.cfg.Delays.AfterLogin)
	return nil
}

func (f *Flow) validateLogin(email, password string) bool {
	ok := true
	if err := validate.Email(email); err != nil {
		f.invalidField("email", err)
		ok = false
	} else {
		f.validField("email")
	}
	if err := validate.LoginPassword(password); err != nil {
		f.invalidField("password", err)
		ok = false
	} else {
		f.validField("password")
	}
	if !ok {
		f.pres.ShowMessage(present.Error, msgCheckFields)
	}
	return ok
}

// classifyLoginError maps the backend's login rejections onto messages
// and sentinels. The 401 branch matches on the Spanish message text;
// when the backend grows structured error codes this is the only place
// to change.
func (f *Flow) classifyLoginError(err error) error {
	apiErr, ok := gateway.AsAPIError(err)
	if !ok {
		f.pres.ShowMessage(present.Error, msgConnectionError)
		return err
	}

	switch apiErr.Status {
	case http.StatusUnauthorized:
		lower := strings.ToLower(apiErr.Message)
		switch {
		case strings.Contains(lower, "no registrado"):
			f.pres.ShowMessage(present.Error, msgEmailNotRegistered)
			return ErrEmailNotRegistered
		case strings.Contains(lower, "contraseña"):
			f.pres.ShowMessage(present.Error, msgWrongPassword)
			return ErrWrongPassword
		default:
			f.pres.ShowMessage(present.Error, msgInvalidCredentials)
			return ErrInvalidCredentials
		}
	case http.StatusNotFound:
		f.pres.ShowMessage(present.Error, msgUserNotFound)
		return ErrUserNotFound
	case http.StatusBadRequest:
		f.pres.ShowMessage(present.Error, msgCheckFields)
		return ErrInvalidInput
	default:
		f.pres.ShowMessage(present.Error, apiErr.Message)
		return err
	}
}
