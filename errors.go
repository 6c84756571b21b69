package authclient

import "errors"

var (
	// ErrBusy means the same form was submitted again while the first
	// submission is still in flight. The duplicate call performed no
	// network or storage work.
	ErrBusy = errors.New("operation already in flight")
	// ErrInvalidInput means local validation rejected the form; the
	// presenter has already been given per-field detail.
	ErrInvalidInput = errors.New("invalid input")
	// ErrPasswordMismatch means the confirmation field does not match.
	ErrPasswordMismatch = errors.New("passwords do not match")
	// ErrEmailNotRegistered is the classified login rejection for an
	// unknown address.
	ErrEmailNotRegistered = errors.New("email not registered")
	// ErrWrongPassword is the classified login rejection for a bad
	// password.
	ErrWrongPassword = errors.New("wrong password")
	// ErrInvalidCredentials is the unclassified login rejection.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserNotFound mirrors a 404 from login or recovery.
	ErrUserNotFound = errors.New("user not found")
	// ErrOTPInvalid means the server rejected a one-time code.
	ErrOTPInvalid = errors.New("one-time code rejected")
	// ErrNoVerificationEmail means no address could be resolved for a
	// verification page; the flow has already bounced to login.
	ErrNoVerificationEmail = errors.New("no verification email available")
	// ErrPhoneUnavailable means no phone number could be resolved for
	// the SMS verification step.
	ErrPhoneUnavailable = errors.New("no phone number available")
	// ErrMissingEmail means the SMS-login response did not carry the
	// account email the verification page needs.
	ErrMissingEmail = errors.New("server response missing account email")
	// ErrNoRecoverySession means the reset page was opened without a
	// preceding recovery request; the flow has already bounced.
	ErrNoRecoverySession = errors.New("no recovery session")
	// ErrNotAuthenticated means the landing page was opened without a
	// session marker; the flow has already bounced to login.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrResendCooldown means a resend was requested before its
	// cooldown elapsed. No request was made.
	ErrResendCooldown = errors.New("resend cooldown active")
	// ErrRecoveryRateLimited mirrors a 429 from the recovery endpoint.
	ErrRecoveryRateLimited = errors.New("recovery rate limited")
)
