package test

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
)

// fakeBackend is an in-process stand-in for the authentication service,
// implementing just enough of its JSON contract to run the flows end to
// end: accounts, pending OTPs, recovery codes, and a session cookie.
type fakeBackend struct {
	mu       sync.Mutex
	users    map[string]*fakeUser // by email
	recovery map[string]string    // email -> code
	srv      *httptest.Server
}

type fakeUser struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Method     string
	Phone      string
	TOTPSecret string
	PendingOTP string
}

func newFakeBackend() *fakeBackend {
	b := &fakeBackend{
		users:    map[string]*fakeUser{},
		recovery: map[string]string{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/register", b.handleRegister)
	mux.HandleFunc("POST /api/auth/login", b.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", b.handleLogout)
	mux.HandleFunc("POST /api/auth/email/send-otp", b.handleSendOTP)
	mux.HandleFunc("POST /api/auth/email/verify-otp", b.handleVerifyOTP)
	mux.HandleFunc("POST /api/auth/sms-login", b.handleSMSLogin)
	mux.HandleFunc("POST /api/auth/sms/send-otp", b.handleSendSMSOTP)
	mux.HandleFunc("POST /api/auth/sms/verify-otp", b.handleVerifySMSOTP)
	mux.HandleFunc("POST /api/auth/resend-otp", b.handleSendOTP)
	mux.HandleFunc("POST /api/auth/totp/verify", b.handleVerifyTOTP)
	mux.HandleFunc("GET /api/auth/totp/qr", b.handleTOTPQR)
	mux.HandleFunc("GET /api/auth/user-info", b.handleUserInfo(""))
	mux.HandleFunc("GET /api/auth/email/user-info", b.handleUserInfo("email"))
	mux.HandleFunc("GET /api/auth/sms/user-info", b.handleUserInfo("sms"))
	mux.HandleFunc("GET /api/auth/totp/user-info", b.handleUserInfo("totp"))
	mux.HandleFunc("POST /api/auth/password-recovery/request", b.handleRecoveryRequest)
	mux.HandleFunc("POST /api/auth/password-recovery/reset", b.handleRecoveryReset)

	b.srv = httptest.NewServer(mux)
	return b
}

func (b *fakeBackend) Close()      { b.srv.Close() }
func (b *fakeBackend) URL() string { return b.srv.URL }

// pendingOTP exposes the last code "sent" to an address, the way a test
// user would read it from their inbox.
func (b *fakeBackend) pendingOTP(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if u, ok := b.users[email]; ok {
		return u.PendingOTP
	}
	return ""
}

func (b *fakeBackend) recoveryCode(email string) string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.recovery[email]
}

func (b *fakeBackend) seedUser(u *fakeUser) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.users[u.Email] = u
}

func newOTP() string {
	buf := make([]byte, 3)
	rand.Read(buf)
	return fmt.Sprintf("%06d", (int(buf[0])<<16|int(buf[1])<<8|int(buf[2]))%1000000)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decode(r *http.Request) map[string]string {
	var body map[string]string
	json.NewDecoder(r.Body).Decode(&body)
	return body
}

func (b *fakeBackend) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email"`
		Password    string `json:"password"`
		FirstName   string `json:"first_name"`
		LastName    string `json:"last_name"`
		AuthMethod  string `json:"auth_method"`
		PhoneNumber string `json:"phone_number"`
	}
	json.NewDecoder(r.Body).Decode(&req)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.users[req.Email]; exists {
		writeError(w, http.StatusConflict, "El correo ya está registrado")
		return
	}
	u := &fakeUser{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Method:    req.AuthMethod,
		Phone:     req.PhoneNumber,
	}
	requiresOTP := false
	if req.AuthMethod == "email" || req.AuthMethod == "sms" {
		u.PendingOTP = newOTP()
		requiresOTP = true
	}
	b.users[req.Email] = u
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"requires_otp": requiresOTP,
		"auth_method":  req.AuthMethod,
	})
}

func (b *fakeBackend) handleLogin(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[body["email"]]
	if !ok {
		writeError(w, http.StatusUnauthorized, "Usuario no registrado")
		return
	}
	if u.Password != body["password"] {
		writeError(w, http.StatusUnauthorized, "Contraseña incorrecta")
		return
	}

	requiresOTP := u.Method != ""
	if u.Method == "email" || u.Method == "sms" {
		u.PendingOTP = newOTP()
	}
	http.SetCookie(w, &http.Cookie{Name: "session", Value: "s-" + u.Email})
	writeJSON(w, http.StatusOK, map[string]any{
		"success":      true,
		"requires_otp": requiresOTP,
		"auth_method":  u.Method,
	})
}

func (b *fakeBackend) handleLogout(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func (b *fakeBackend) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[body["email"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Correo no encontrado")
		return
	}
	u.PendingOTP = newOTP()
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *fakeBackend) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[body["email"]]
	if !ok || u.PendingOTP == "" || u.PendingOTP != body["code"] {
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Código incorrecto"})
		return
	}
	u.PendingOTP = ""
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (b *fakeBackend) handleSMSLogin(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Phone == body["phone"] {
			u.PendingOTP = newOTP()
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "email": u.Email})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Teléfono no registrado")
}

func (b *fakeBackend) handleSendSMSOTP(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Phone == body["phone"] {
			u.PendingOTP = newOTP()
			writeJSON(w, http.StatusOK, map[string]any{"success": true})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Teléfono no registrado")
}

func (b *fakeBackend) handleVerifySMSOTP(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, u := range b.users {
		if u.Phone == body["phone"] {
			if u.PendingOTP != "" && u.PendingOTP == body["code"] {
				u.PendingOTP = ""
				writeJSON(w, http.StatusOK, map[string]any{"success": true})
				return
			}
			writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": "Código incorrecto"})
			return
		}
	}
	writeError(w, http.StatusNotFound, "Teléfono no registrado")
}

func (b *fakeBackend) handleVerifyTOTP(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	u, ok := b.users[body["email"]]
	b.mu.Unlock()
	if !ok || u.TOTPSecret == "" {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": validTOTP(body["code"], u.TOTPSecret)})
}

func (b *fakeBackend) handleTOTPQR(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	b.mu.Lock()
	_, ok := b.users[email]
	b.mu.Unlock()
	if !ok {
		writeError(w, http.StatusNotFound, "Usuario no encontrado")
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Write([]byte{0x89, 'P', 'N', 'G', 0x0d, 0x0a, 0x1a, 0x0a})
}

func (b *fakeBackend) handleUserInfo(method string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email := r.URL.Query().Get("email")

		b.mu.Lock()
		defer b.mu.Unlock()
		u, ok := b.users[email]
		if !ok || (method != "" && u.Method != method) {
			writeError(w, http.StatusNotFound, "Usuario no encontrado")
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"first_name":   u.FirstName,
			"phone_number": u.Phone,
		})
	}
}

func (b *fakeBackend) handleRecoveryRequest(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.users[body["email"]]; !ok {
		writeError(w, http.StatusNotFound, "Correo no encontrado")
		return
	}
	code := newOTP()
	b.recovery[body["email"]] = code
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"recovery_token": "rt-" + strings.ToLower(body["email"]),
	})
}

func (b *fakeBackend) handleRecoveryReset(w http.ResponseWriter, r *http.Request) {
	body := decode(r)

	b.mu.Lock()
	defer b.mu.Unlock()
	u, ok := b.users[body["email"]]
	if !ok {
		writeError(w, http.StatusNotFound, "Correo no encontrado")
		return
	}
	if b.recovery[body["email"]] != body["otp"] {
		writeError(w, http.StatusBadRequest, "Código inválido o expirado")
		return
	}
	delete(b.recovery, body["email"])
	u.Password = body["new_password"]
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}
