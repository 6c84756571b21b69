package authclient

import (
	"context"
	"time"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/validate"
)

// Verification pages. Each Open* resolves the pending address and
// bounces to login when none exists; each Verify* submits the code and
// establishes the session only on the server's explicit confirmation.

// bounceNoVerificationEmail is the fatal path of every verification
// page: nothing to verify, so back to login after the message is shown.
func (f *Flow) bounceNoVerificationEmail() error {
	f.pres.ShowMessage(present.Error, msgNoVerificationEmail)
	f.nav.Navigate(present.PageLogin, f.cfg.Delays.FatalBounce)
	return ErrNoVerificationEmail
}

// OpenEmailVerification prepares the email-code page and arms the
// code-expiry countdown.
func (f *Flow) OpenEmailVerification(ctx context.Context) error {
	if _, ok := f.state.VerificationEmail(ctx); !ok {
		return f.bounceNoVerificationEmail()
	}
	f.startExpiryCountdown()
	return nil
}

// OpenSMSVerification prepares the SMS-code page.
func (f *Flow) OpenSMSVerification(ctx context.Context) error {
	if _, ok := f.state.VerificationEmail(ctx); !ok {
		return f.bounceNoVerificationEmail()
	}
	return nil
}

// OpenTOTPVerification prepares the authenticator-code page. No
// countdown: app codes rotate on their own schedule.
func (f *Flow) OpenTOTPVerification(ctx context.Context) error {
	if _, ok := f.state.VerificationEmail(ctx); !ok {
		return f.bounceNoVerificationEmail()
	}
	return nil
}

// LeaveVerification tears the page down; any running countdown stops
// so its callbacks cannot fire into the next page.
func (f *Flow) LeaveVerification() {
	f.stopExpiryCountdown()
}

// VerifyEmailOTP submits the emailed code.
func (f *Flow) VerifyEmailOTP(ctx context.Context, code string) error {
	if !f.verifyGate.enter() {
		return ErrBusy
	}
	defer f.verifyGate.leave()

	if err := validate.OTPCode(code); err != nil {
		f.invalidField("code", err)
		f.pres.ResetOTPInput()
		return ErrInvalidInput
	}
	email, ok := f.state.VerificationEmail(ctx)
	if !ok {
		return f.bounceNoVerificationEmail()
	}

	resp, err := f.gw.VerifyEmailOTP(ctx, email, code)
	if err != nil {
		return f.verifyFailure(err)
	}
	if !resp.Success {
		return f.codeRejected(resp.Error)
	}

	f.verified(ctx, email, MethodEmail, f.cfg.Delays.AfterEmailVerify)
	return nil
}

// VerifySMSOTP submits the texted code. The phone it was sent to is
// resolved from storage or the profile endpoints.
func (f *Flow) VerifySMSOTP(ctx context.Context, code string) error {
	if !f.verifyGate.enter() {
		return ErrBusy
	}
	defer f.verifyGate.leave()

	if err := validate.OTPCode(code); err != nil {
		f.invalidField("code", err)
		f.pres.ResetOTPInput()
		return ErrInvalidInput
	}
	email, ok := f.state.VerificationEmail(ctx)
	if !ok {
		return f.bounceNoVerificationEmail()
	}
	phone, err := f.resolvePhone(ctx, email)
	if err != nil {
		if f.connectionFailure(err) {
			return err
		}
		f.pres.ShowMessage(present.Error, msgPhoneUnavailable)
		return ErrPhoneUnavailable
	}

	resp, err := f.gw.VerifySMSOTP(ctx, phone, code)
	if err != nil {
		return f.verifyFailure(err)
	}
	if !resp.Success {
		return f.codeRejected(resp.Error)
	}

	f.verified(ctx, email, MethodSMS, f.cfg.Delays.AfterSMSVerify)
	return nil
}

// VerifyTOTP submits an authenticator-app code. The endpoint confirms
// with "valid" instead of "success".
func (f *Flow) VerifyTOTP(ctx context.Context, code string) error {
	if !f.verifyGate.enter() {
		return ErrBusy
	}
	defer f.verifyGate.leave()

	if err := validate.OTPCode(code); err != nil {
		f.invalidField("code", err)
		f.pres.ResetOTPInput()
		return ErrInvalidInput
	}
	email, ok := f.state.VerificationEmail(ctx)
	if !ok {
		return f.bounceNoVerificationEmail()
	}

	resp, err := f.gw.VerifyTOTP(ctx, email, code)
	if err != nil {
		return f.verifyFailure(err)
	}
	if !resp.Valid {
		return f.codeRejected(resp.Error)
	}

	f.verified(ctx, email, MethodTOTP, f.cfg.Delays.AfterSMSVerify)
	return nil
}

// FetchTOTPQR returns the enrollment QR image for the pending account.
func (f *Flow) FetchTOTPQR(ctx context.Context) ([]byte, error) {
	email, ok := f.state.VerificationEmail(ctx)
	if !ok {
		return nil, f.bounceNoVerificationEmail()
	}

	img, err := f.gw.TOTPQR(ctx, email)
	if err != nil {
		if f.connectionFailure(err) {
			return nil, err
		}
		if apiErr, ok := gateway.AsAPIError(err); ok {
			f.pres.ShowMessage(present.Error, apiErr.Message)
		}
		return nil, err
	}
	return img, nil
}

// verified is the shared success tail: session established, pending
// hand-off cleared, countdown gone, on to the landing page.
func (f *Flow) verified(ctx context.Context, email string, method AuthMethod, delay time.Duration) {
	f.stopExpiryCountdown()
	f.state.EstablishSession(ctx, email, string(method), "")
	f.state.ClearPendingVerification(ctx)
	f.pres.ShowMessage(present.Success, msgOTPVerified)
	f.nav.Navigate(present.PageLanding, delay)
}

// codeRejected is the shared rejection tail: no session write, boxes
// cleared for the next attempt.
func (f *Flow) codeRejected(serverMsg string) error {
	msg := serverMsg
	if msg == "" {
		msg = msgOTPInvalid
	}
	f.pres.ShowMessage(present.Error, msg)
	f.pres.ResetOTPInput()
	return ErrOTPInvalid
}

func (f *Flow) verifyFailure(err error) error {
	if f.connectionFailure(err) {
		return err
	}
	if apiErr, ok := gateway.AsAPIError(err); ok {
		f.pres.ShowMessage(present.Error, apiErr.Message)
		f.pres.ResetOTPInput()
		return ErrOTPInvalid
	}
	f.pres.ShowMessage(present.Error, msgConnectionError)
	return err
}
