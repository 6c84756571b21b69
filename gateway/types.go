package gateway

// Request and response bodies for the backend's JSON contract. Field
// names are part of the wire format.

// RegisterRequest creates an account with a chosen second factor.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	AuthMethod  string `json:"auth_method"`
	PhoneNumber string `json:"phone_number,omitempty"`
}

// AuthResponse is shared by register and login.
type AuthResponse struct {
	Success     bool   `json:"success"`
	RequiresOTP bool   `json:"requires_otp"`
	AuthMethod  string `json:"auth_method"`
	Error       string `json:"error"`
}

// VerifyResponse is shared by the OTP verification and password-reset
// endpoints. Email and SMS verification answer with "success"; the TOTP
// endpoint answers with "valid".
type VerifyResponse struct {
	Success bool   `json:"success"`
	Valid   bool   `json:"valid"`
	Error   string `json:"error"`
}

// SMSLoginResponse carries the account email resolved from the phone
// number, needed by the verification page that follows.
type SMSLoginResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
	Error   string `json:"error"`
}

// UserInfoResponse is the profile lookup used for greeting names and
// for resolving the phone an SMS code must be checked against.
type UserInfoResponse struct {
	FirstName   string `json:"first_name"`
	PhoneNumber string `json:"phone_number"`
}

// RecoveryResponse answers a password-recovery request. RecoveryToken
// is opaque and may be absent.
type RecoveryResponse struct {
	Success       bool   `json:"success"`
	RecoveryToken string `json:"recovery_token"`
	Error         string `json:"error"`
}
