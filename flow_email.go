package authclient

import (
	"context"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/validate"
)

// SendEmailOTP is the standalone "send me a code" page: it requests a
// fresh email code and hands off to the verification page. The email
// field is pre-filled by [Flow.KnownEmail].
func (f *Flow) SendEmailOTP(ctx context.Context, email string) error {
	if !f.sendGate.enter() {
		return ErrBusy
	}
	defer f.sendGate.leave()

	if err := validate.Email(email); err != nil {
		f.invalidField("email", err)
		f.pres.ShowMessage(present.Error, msgCheckFields)
		return ErrInvalidInput
	}
	f.validField("email")

	if _, err := f.gw.SendEmailOTP(ctx, email); err != nil {
		if f.connectionFailure(err) {
			return err
		}
		if apiErr, ok := gateway.AsAPIError(err); ok {
			f.pres.ShowMessage(present.Error, apiErr.Message)
		} else {
			f.pres.ShowMessage(present.Error, msgConnectionError)
		}
		return err
	}

	f.state.SetPendingVerification(ctx, email)
	f.pres.ShowMessage(present.Success, msgOTPSentEmail)
	f.nav.Navigate(present.PageEmailVerification, f.cfg.Delays.AfterRegister)
	return nil
}

// KnownEmail returns the address a form should pre-fill, if any.
func (f *Flow) KnownEmail(ctx context.Context) (string, bool) {
	return f.state.VerificationEmail(ctx)
}

// ResendEmailOTP re-requests the email code from the verification
// page, resetting the entry boxes and the expiry countdown on success.
func (f *Flow) ResendEmailOTP(ctx context.Context) error {
	if !f.resendGate.enter() {
		return ErrBusy
	}
	defer f.resendGate.leave()

	if !f.emailResend.Allow() {
		f.pres.ShowMessage(present.Warning, msgResendWait)
		return ErrResendCooldown
	}

	email, ok := f.state.VerificationEmail(ctx)
	if !ok {
		return f.bounceNoVerificationEmail()
	}

	if _, err := f.gw.ResendOTP(ctx, email); err != nil {
		if f.connectionFailure(err) {
			return err
		}
		if apiErr, ok := gateway.AsAPIError(err); ok {
			f.pres.ShowMessage(present.Error, apiErr.Message)
		}
		return err
	}

	f.pres.ResetOTPInput()
	f.startExpiryCountdown()
	f.pres.ShowMessage(present.Success, msgOTPSentEmail)
	return nil
}
