package authclient

import (
	"context"
	"net/http"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/validate"
)

// SMSLogin starts a login from a phone number alone. The server sends
// the code and answers with the account email, which the verification
// page that follows needs; a success without an email is treated as a
// server fault.
func (f *Flow) SMSLogin(ctx context.Context, rawPhone string) error {
	if !f.smsLoginGate.enter() {
		return ErrBusy
	}
	defer f.smsLoginGate.leave()

	phone, err := validate.NormalizePhone(rawPhone)
	if err != nil {
		f.invalidField("phone", err)
		f.pres.ShowMessage(present.Error, msgCheckFields)
		return ErrInvalidInput
	}
	f.validField("phone")

	resp, err := f.gw.SMSLogin(ctx, phone)
	if err != nil {
		if f.connectionFailure(err) {
			return err
		}
		if apiErr, ok := gateway.AsAPIError(err); ok {
			if apiErr.Status == http.StatusNotFound {
				f.pres.ShowMessage(present.Error, msgPhoneLoginFailed)
				return ErrUserNotFound
			}
			f.pres.ShowMessage(present.Error, apiErr.Message)
		} else {
			f.pres.ShowMessage(present.Error, msgConnectionError)
		}
		return err
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = msgPhoneLoginFailed
		}
		f.pres.ShowMessage(present.Error, msg)
		return ErrInvalidCredentials
	}
	if resp.Email == "" {
		f.pres.ShowMessage(present.Error, msgConnectionError)
		return ErrMissingEmail
	}

	f.state.SetPendingVerification(ctx, resp.Email)
	f.state.SetPhone(ctx, phone)
	f.pres.ShowMessage(present.Success, msgOTPSentSMS)
	f.nav.Navigate(present.PageSMSVerification, f.cfg.Delays.AfterSMSVerify)
	return nil
}

// ResendSMSOTP re-requests the SMS code from the verification page.
// The client-side cooldown keeps the button honest between the server's
// own limits.
func (f *Flow) ResendSMSOTP(ctx context.Context) error {
	if !f.resendGate.enter() {
		return ErrBusy
	}
	defer f.resendGate.leave()

	if !f.smsResend.Allow() {
		f.pres.ShowMessage(present.Warning, msgResendWait)
		return ErrResendCooldown
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

	if _, err := f.gw.SendSMSOTP(ctx, phone); err != nil {
		if f.connectionFailure(err) {
			return err
		}
		if apiErr, ok := gateway.AsAPIError(err); ok {
			f.pres.ShowMessage(present.Error, apiErr.Message)
		}
		return err
	}

	f.pres.ResetOTPInput()
	f.pres.ShowMessage(present.Success, msgOTPSentSMS)
	return nil
}
