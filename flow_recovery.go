package authclient

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/validate"
)

// RequestRecovery starts a password reset: the server emails a code and
// the flow hands off to the reset page with the address and an opaque
// token recorded for it.
func (f *Flow) RequestRecovery(ctx context.Context, email string) error {
	if !f.recoveryGate.enter() {
		return ErrBusy
	}
	defer f.recoveryGate.leave()

	if err := validate.Email(email); err != nil {
		f.invalidField("email", err)
		f.pres.ShowMessage(present.Error, msgCheckFields)
		return ErrInvalidInput
	}
	f.validField("email")

	resp, err := f.gw.RequestRecovery(ctx, email)
	if err != nil {
		if f.connectionFailure(err) {
			return err
		}
		apiErr, ok := gateway.AsAPIError(err)
		if !ok {
			f.pres.ShowMessage(present.Error, msgConnectionError)
			return err
		}
		switch apiErr.Status {
		case http.StatusNotFound:
			f.pres.ShowMessage(present.Error, msgRecoveryEmailNotFound)
			return ErrUserNotFound
		case http.StatusTooManyRequests:
			f.pres.ShowMessage(present.Error, msgRecoveryRateLimited)
			return ErrRecoveryRateLimited
		default:
			f.pres.ShowMessage(present.Error, apiErr.Message)
			return err
		}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = msgRecoveryEmailNotFound
		}
		f.pres.ShowMessage(present.Error, msg)
		return ErrUserNotFound
	}

	// Older backend versions omit the token; the reset endpoint only
	// needs the emailed code, so a placeholder keeps the hand-off shape.
	token := resp.RecoveryToken
	if token == "" {
		token = uuid.NewString()
	}
	f.state.SetRecovery(ctx, email, token)

	f.pres.ShowMessage(present.Success, msgRecoverySent)
	f.nav.Navigate(present.PageRecoveryReset, f.cfg.Delays.AfterRecoveryRequest)
	return nil
}

// RecoveryPrefill returns the address the request page should pre-fill
// when a recovery is already underway.
func (f *Flow) RecoveryPrefill(ctx context.Context) (string, bool) {
	return f.state.RecoveryEmail(ctx)
}

// LeaveRecoveryRequest is the page-teardown hook: the token is dropped
// so a stale one cannot leak into a later attempt, while the email
// stays for pre-filling.
func (f *Flow) LeaveRecoveryRequest(ctx context.Context) {
	f.state.DropRecoveryToken(ctx)
}

// ResetPassword completes the recovery with the emailed code. On
// success the recovery hand-off is cleared and the flow returns to
// login; on a rejected code the hand-off stays so the user can retry.
func (f *Flow) ResetPassword(ctx context.Context, otp, newPassword, confirm string) error {
	if !f.resetGate.enter() {
		return ErrBusy
	}
	defer f.resetGate.leave()

	email, ok := f.state.RecoveryEmail(ctx)
	if !ok {
		f.pres.ShowMessage(present.Error, msgNoRecoverySession)
		f.nav.Navigate(present.PageRecoveryRequest, f.cfg.Delays.FatalBounce)
		return ErrNoRecoverySession
	}

	valid := true
	if err := validate.OTPCode(otp); err != nil {
		f.invalidField("otp", err)
		valid = false
	} else {
		f.validField("otp")
	}
	if err := validate.RecoveryPassword(newPassword); err != nil {
		f.invalidField("new_password", err)
		valid = false
	} else {
		f.validField("new_password")
	}
	if newPassword != confirm {
		f.invalidField("confirm_password", ErrPasswordMismatch)
		f.pres.ShowMessage(present.Error, msgPasswordsDontMatch)
		return ErrPasswordMismatch
	}
	if !valid {
		f.pres.ShowMessage(present.Error, msgCheckFields)
		return ErrInvalidInput
	}

	resp, err := f.gw.ResetPassword(ctx, email, otp, newPassword)
	if err != nil {
		if f.connectionFailure(err) {
			return err
		}
		apiErr, ok := gateway.AsAPIError(err)
		if !ok {
			f.pres.ShowMessage(present.Error, msgConnectionError)
			return err
		}
		switch apiErr.Status {
		case http.StatusBadRequest:
			f.pres.ShowMessage(present.Error, msgResetInvalidCode)
			return ErrOTPInvalid
		case http.StatusNotFound:
			f.pres.ShowMessage(present.Error, msgRecoveryEmailNotFound)
			return ErrUserNotFound
		default:
			f.pres.ShowMessage(present.Error, apiErr.Message)
			return err
		}
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = msgResetInvalidCode
		}
		f.pres.ShowMessage(present.Error, msg)
		return ErrOTPInvalid
	}

	f.state.ClearRecovery(ctx)
	f.pres.ShowMessage(present.Success, msgResetSuccess)
	f.nav.Navigate(present.PageLogin, f.cfg.Delays.AfterReset)
	return nil
}
