// Package present defines the thin surface the flows drive the user
// interface through: transient messages, per-field validity marks,
// navigation with delays, and countdown timers. Implementations render;
// they never decide. The package ships a console renderer for headless
// use and for the examples.
package present

import "time"

// Kind classifies a user-facing message.
type Kind int

const (
	Info Kind = iota
	Success
	Warning
	Error
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "info"
	}
}

// FieldState marks a single input as valid or invalid with an optional
// inline message.
type FieldState struct {
	Field   string
	Valid   bool
	Message string
}

// Page identifies a navigation target. Values mirror the application's
// page set.
type Page string

const (
	PageLogin             Page = "login"
	PageRegister          Page = "register"
	PageLanding           Page = "landing"
	PageEmailOTP          Page = "email-otp"
	PageEmailVerification Page = "email-verification"
	PageSMSLogin          Page = "sms-login"
	PageSMSVerification   Page = "sms-verification"
	PageTOTPQR            Page = "totp-qr"
	PageTOTPVerification  Page = "totp-verification"
	PageRecoveryRequest   Page = "recovery-request"
	PageRecoveryReset     Page = "recovery-reset"
)

// Presenter renders flow output. Calls may arrive from timer goroutines;
// implementations must be safe for concurrent use.
type Presenter interface {
	// ShowMessage displays a transient message. Non-success messages
	// auto-dismiss after the implementation's dismissal window; success
	// messages persist until replaced.
	ShowMessage(kind Kind, text string)
	// SetFieldState marks an input field valid or invalid.
	SetFieldState(state FieldState)
	// ResetOTPInput clears the code entry boxes and returns focus to
	// the first one.
	ResetOTPInput()
}

// Navigator performs page transitions. A zero delay navigates
// immediately; otherwise the transition fires after the delay elapses.
type Navigator interface {
	Navigate(page Page, delay time.Duration)
}

// NavigatorFunc adapts a function to the Navigator interface.
type NavigatorFunc func(page Page, delay time.Duration)

func (f NavigatorFunc) Navigate(page Page, delay time.Duration) { f(page, delay) }
