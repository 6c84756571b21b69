package authclient

import (
	"context"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
)

// AuthMethod is the second factor an account was registered with.
type AuthMethod string

const (
	MethodEmail AuthMethod = "email"
	MethodSMS   AuthMethod = "sms"
	MethodTOTP  AuthMethod = "totp"
)

func (m AuthMethod) valid() bool {
	switch m {
	case MethodEmail, MethodSMS, MethodTOTP:
		return true
	}
	return false
}

// Page re-exports the navigation target type; the page constants live
// in package present.
type Page = present.Page

// RegisterInput is the registration form.
type RegisterInput struct {
	FirstName       string
	LastName        string
	Email           string
	Password        string
	ConfirmPassword string
	Method          AuthMethod
	// Phone is required when Method is MethodSMS, in any format
	// NormalizePhone accepts.
	Phone string
}

// Gateway is the backend surface the flows call. *gateway.Client
// implements it; tests substitute fakes.
type Gateway interface {
	Register(ctx context.Context, req gateway.RegisterRequest) (*gateway.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*gateway.AuthResponse, error)
	Logout(ctx context.Context) error
	SendEmailOTP(ctx context.Context, email string) (*gateway.VerifyResponse, error)
	VerifyEmailOTP(ctx context.Context, email, code string) (*gateway.VerifyResponse, error)
	SMSLogin(ctx context.Context, phone string) (*gateway.SMSLoginResponse, error)
	SendSMSOTP(ctx context.Context, phone string) (*gateway.VerifyResponse, error)
	VerifySMSOTP(ctx context.Context, phone, code string) (*gateway.VerifyResponse, error)
	ResendOTP(ctx context.Context, email string) (*gateway.VerifyResponse, error)
	VerifyTOTP(ctx context.Context, email, code string) (*gateway.VerifyResponse, error)
	TOTPQR(ctx context.Context, email string) ([]byte, error)
	UserInfo(ctx context.Context, method, email string) (*gateway.UserInfoResponse, error)
	RequestRecovery(ctx context.Context, email string) (*gateway.RecoveryResponse, error)
	ResetPassword(ctx context.Context, email, otp, newPassword string) (*gateway.VerifyResponse, error)
}
