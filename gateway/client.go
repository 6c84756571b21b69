// Package gateway is the HTTP client for the authentication backend.
// It speaks the backend's JSON contract, carries the session cookie
// across calls, and reduces failures to two shapes: *APIError for an
// HTTP error response and ErrConnection for transport problems.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const defaultTimeout = 10 * time.Second

// Client talks to one backend. The zero value is not usable; construct
// with NewClient. All methods are safe for concurrent use.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient builds a client for baseURL with a cookie jar, so the
// backend's session cookie persists across calls the way a browser
// keeps it.
func NewClient(baseURL string) *Client {
	jar, _ := cookiejar.New(nil)
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: defaultTimeout,
			Jar:     jar,
		},
	}
}

// ResolveBaseURL picks the backend for the environment the front end is
// served from: localhost, 127.0.0.1, or any explicit port means a local
// development backend; everything else is production.
func ResolveBaseURL(hostname, port, devURL, prodURL string) string {
	if hostname == "localhost" || hostname == "127.0.0.1" || port != "" {
		return devURL
	}
	return prodURL
}

func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("gateway: encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("gateway: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	if resp.StatusCode >= 400 {
		return apiErrorFrom(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("gateway: decode response: %w", err)
	}
	return nil
}

func apiErrorFrom(status int, body []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: status, Message: payload.Error}
	}
	return &APIError{Status: status, Message: http.StatusText(status)}
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password. A response with
// RequiresOTP set means a second factor follows.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}
	var out AuthResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout ends the server-side session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/auth/logout", nil, nil)
}

// SendEmailOTP requests a fresh email code for email.
func (c *Client) SendEmailOTP(ctx context.Context, email string) (*VerifyResponse, error) {
	body := map[string]string{"email": email}
	var out VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/email/send-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyEmailOTP checks an email code.
func (c *Client) VerifyEmailOTP(ctx context.Context, email, code string) (*VerifyResponse, error) {
	body := map[string]string{"email": email, "code": code}
	var out VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/email/verify-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SMSLogin starts a phone-number login; the response carries the
// account email the verification step needs.
func (c *Client) SMSLogin(ctx context.Context, phone string) (*SMSLoginResponse, error) {
	body := map[string]string{"phone": phone}
	var out SMSLoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/sms-login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SendSMSOTP requests a fresh SMS code for phone.
func (c *Client) SendSMSOTP(ctx context.Context, phone string) (*VerifyResponse, error) {
	body := map[string]string{"phone": phone}
	var out VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/sms/send-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifySMSOTP checks an SMS code against the phone it was sent to.
func (c *Client) VerifySMSOTP(ctx context.Context, phone, code string) (*VerifyResponse, error) {
	body := map[string]string{"phone": phone, "code": code}
	var out VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/sms/verify-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResendOTP asks the backend to resend whatever code is pending for
// email.
func (c *Client) ResendOTP(ctx context.Context, email string) (*VerifyResponse, error) {
	body := map[string]string{"email": email}
	var out VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/resend-otp", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// VerifyTOTP checks an authenticator-app code. The endpoint answers
// with "valid" rather than "success".
func (c *Client) VerifyTOTP(ctx context.Context, email, code string) (*VerifyResponse, error) {
	body := map[string]string{"email": email, "code": code}
	var out VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/totp/verify", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// TOTPQR fetches the enrollment QR image for email. The bytes are the
// image itself, not JSON.
func (c *Client) TOTPQR(ctx context.Context, email string) ([]byte, error) {
	path := "/api/auth/totp/qr?email=" + url.QueryEscape(email)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("gateway: build request: %w", err)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	if resp.StatusCode >= 400 {
		return nil, apiErrorFrom(resp.StatusCode, raw)
	}
	return raw, nil
}

// UserInfo looks up profile data scoped by authentication method
// ("email", "sms", "totp"). An empty method hits the generic endpoint.
func (c *Client) UserInfo(ctx context.Context, method, email string) (*UserInfoResponse, error) {
	path := "/api/auth/user-info"
	if method != "" {
		path = "/api/auth/" + method + "/user-info"
	}
	path += "?email=" + url.QueryEscape(email)

	var out UserInfoResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestRecovery starts a password recovery for email.
func (c *Client) RequestRecovery(ctx context.Context, email string) (*RecoveryResponse, error) {
	body := map[string]string{"email": email}
	var out RecoveryResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/password-recovery/request", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResetPassword completes a recovery with the emailed code and the new
// password.
func (c *Client) ResetPassword(ctx context.Context, email, otp, newPassword string) (*VerifyResponse, error) {
	body := map[string]string{"email": email, "otp": otp, "new_password": newPassword}
	var out VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/password-recovery/reset", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
