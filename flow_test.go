package authclient

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/storage"
)

// fakeGateway scripts one response per endpoint and counts calls.
type fakeGateway struct {
	mu    sync.Mutex
	calls map[string]int

	registerResp *gateway.AuthResponse
	registerErr  error
	loginResp    *gateway.AuthResponse
	loginErr     error
	logoutErr    error
	sendEmailErr error
	verifyResp   *gateway.VerifyResponse
	verifyErr    error
	smsLoginResp *gateway.SMSLoginResponse
	smsLoginErr  error
	sendSMSErr   error
	resendErr    error
	totpResp     *gateway.VerifyResponse
	totpErr      error
	qrBytes      []byte
	qrErr        error
	userInfoResp *gateway.UserInfoResponse
	userInfoErr  error
	// userInfoScoped overrides the method-scoped lookup when set.
	userInfoScopedErr error
	recoveryResp      *gateway.RecoveryResponse
	recoveryErr       error
	resetResp         *gateway.VerifyResponse
	resetErr          error

	// block, when non-nil, is received from before any response is
	// returned; used to hold a call in flight.
	block chan struct{}
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{calls: map[string]int{}}
}

func (g *fakeGateway) called(name string) {
	g.mu.Lock()
	g.calls[name]++
	g.mu.Unlock()
	if g.block != nil {
		<-g.block
	}
}

func (g *fakeGateway) count(name string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[name]
}

func (g *fakeGateway) total() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		n += c
	}
	return n
}

func (g *fakeGateway) Register(_ context.Context, _ gateway.RegisterRequest) (*gateway.AuthResponse, error) {
	g.called("register")
	return g.registerResp, g.registerErr
}

func (g *fakeGateway) Login(_ context.Context, _, _ string) (*gateway.AuthResponse, error) {
	g.called("login")
	return g.loginResp, g.loginErr
}

func (g *fakeGateway) Logout(_ context.Context) error {
	g.called("logout")
	return g.logoutErr
}

func (g *fakeGateway) SendEmailOTP(_ context.Context, _ string) (*gateway.VerifyResponse, error) {
	g.called("sendEmail")
	return &gateway.VerifyResponse{Success: true}, g.sendEmailErr
}

func (g *fakeGateway) VerifyEmailOTP(_ context.Context, _, _ string) (*gateway.VerifyResponse, error) {
	g.called("verifyEmail")
	return g.verifyResp, g.verifyErr
}

func (g *fakeGateway) SMSLogin(_ context.Context, _ string) (*gateway.SMSLoginResponse, error) {
	g.called("smsLogin")
	return g.smsLoginResp, g.smsLoginErr
}

func (g *fakeGateway) SendSMSOTP(_ context.Context, _ string) (*gateway.VerifyResponse, error) {
	g.called("sendSMS")
	return &gateway.VerifyResponse{Success: true}, g.sendSMSErr
}

func (g *fakeGateway) VerifySMSOTP(_ context.Context, _, _ string) (*gateway.VerifyResponse, error) {
	g.called("verifySMS")
	return g.verifyResp, g.verifyErr
}

func (g *fakeGateway) ResendOTP(_ context.Context, _ string) (*gateway.VerifyResponse, error) {
	g.called("resend")
	return &gateway.VerifyResponse{Success: true}, g.resendErr
}

func (g *fakeGateway) VerifyTOTP(_ context.Context, _, _ string) (*gateway.VerifyResponse, error) {
	g.called("verifyTOTP")
	return g.totpResp, g.totpErr
}

func (g *fakeGateway) TOTPQR(_ context.Context, _ string) ([]byte, error) {
	g.called("totpQR")
	return g.qrBytes, g.qrErr
}

func (g *fakeGateway) UserInfo(_ context.Context, method, _ string) (*gateway.UserInfoResponse, error) {
	if method != "" {
		g.called("userInfoScoped")
		if g.userInfoScopedErr != nil {
			return nil, g.userInfoScopedErr
		}
	} else {
		g.called("userInfo")
	}
	if g.userInfoErr != nil {
		return nil, g.userInfoErr
	}
	if g.userInfoResp != nil {
		return g.userInfoResp, nil
	}
	return &gateway.UserInfoResponse{}, nil
}

func (g *fakeGateway) RequestRecovery(_ context.Context, _ string) (*gateway.RecoveryResponse, error) {
	g.called("requestRecovery")
	return g.recoveryResp, g.recoveryErr
}

func (g *fakeGateway) ResetPassword(_ context.Context, _, _, _ string) (*gateway.VerifyResponse, error) {
	g.called("reset")
	return g.resetResp, g.resetErr
}

// recordPresenter captures everything the flows render.
type recordPresenter struct {
	mu        sync.Mutex
	messages  []recordedMessage
	fields    map[string]present.FieldState
	otpResets int
}

type recordedMessage struct {
	Kind present.Kind
	Text string
}

func newRecordPresenter() *recordPresenter {
	return &recordPresenter{fields: map[string]present.FieldState{}}
}

func (p *recordPresenter) ShowMessage(kind present.Kind, text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, recordedMessage{kind, text})
}

func (p *recordPresenter) SetFieldState(state present.FieldState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fields[state.Field] = state
}

func (p *recordPresenter) ResetOTPInput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.otpResets++
}

func (p *recordPresenter) lastMessage() (recordedMessage, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.messages) == 0 {
		return recordedMessage{}, false
	}
	return p.messages[len(p.messages)-1], true
}

func (p *recordPresenter) field(name string) (present.FieldState, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.fields[name]
	return s, ok
}

// recordNav captures navigation requests without executing them.
type recordNav struct {
	mu    sync.Mutex
	pages []present.Page
	dels  []time.Duration
}

func (n *recordNav) Navigate(page present.Page, delay time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.pages = append(n.pages, page)
	n.dels = append(n.dels, delay)
}

func (n *recordNav) last() (present.Page, time.Duration, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.pages) == 0 {
		return "", 0, false
	}
	return n.pages[len(n.pages)-1], n.dels[len(n.dels)-1], true
}

func (n *recordNav) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.pages)
}

func newTestFlow(t *testing.T, gw Gateway) (*Flow, *recordPresenter, *recordNav, *storage.State) {
	t.Helper()

	pres := newRecordPresenter()
	nav := &recordNav{}
	state := storage.NewState(nil, nil)

	flow, err := New().
		WithGateway(gw).
		WithState(state).
		WithPresenter(pres).
		WithNavigator(nav).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(flow.stopExpiryCountdown)
	return flow, pres, nav, state
}
