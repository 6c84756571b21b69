package authclient

import (
	"errors"

	"golang.org/x/time/rate"

	"github.com/metodos-app/authclient/gateway"
	"github.com/metodos-app/authclient/present"
	"github.com/metodos-app/authclient/storage"
)

// Builder assembles a Flow. Configure during initialization, call Build
// once, then treat the Flow as immutable.
type Builder struct {
	config    Config
	gw        Gateway
	state     *storage.State
	presenter present.Presenter
	navigator present.Navigator

	built bool
}

// New returns a Builder with the default configuration.
func New() *Builder {
	return &Builder{config: defaultConfig()}
}

// WithConfig replaces the whole configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithGateway injects the backend client. When omitted, Build creates a
// *gateway.Client against the config's resolved base URL.
func (b *Builder) WithGateway(gw Gateway) *Builder {
	b.gw = gw
	return b
}

// WithState injects the session store. When omitted, Build uses an
// in-memory store for both scopes (nothing survives the process).
func (b *Builder) WithState(s *storage.State) *Builder {
	b.state = s
	return b
}

// WithPresenter injects the rendering surface. Required.
func (b *Builder) WithPresenter(p present.Presenter) *Builder {
	b.presenter = p
	return b
}

// WithNavigator injects the page-transition surface. Required.
func (b *Builder) WithNavigator(n present.Navigator) *Builder {
	b.navigator = n
	return b
}

// Build validates the configuration and wires the Flow.
func (b *Builder) Build() (*Flow, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if b.presenter == nil {
		return nil, errors.New("presenter required")
	}
	if b.navigator == nil {
		return nil, errors.New("navigator required")
	}

	gw := b.gw
	if gw == nil {
		gw = gateway.NewClient(cfg.Endpoints.BaseURL())
	}
	state := b.state
	if state == nil {
		state = storage.NewState(nil, nil)
	}

	f := &Flow{
		cfg:   cfg,
		gw:    gw,
		state: state,
		pres:  b.presenter,
		nav:   b.navigator,

		emailResend: rate.NewLimiter(rate.Every(cfg.Timers.ResendEmailCooldown), 1),
		smsResend:   rate.NewLimiter(rate.Every(cfg.Timers.ResendSMSCooldown), 1),
	}

	b.built = true
	return f, nil
}
