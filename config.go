package authclient

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config tunes the flows. Instances are configured during
// initialization and treated as immutable afterwards; Build clones the
// config it receives.
type Config struct {
	Endpoints EndpointsConfig
	Timers    TimersConfig
	Delays    DelaysConfig
}

// EndpointsConfig selects the backend. Hostname and Port describe the
// environment the client itself runs in and drive the dev/prod switch;
// leave them empty for production.
type EndpointsConfig struct {
	DevBaseURL  string `mapstructure:"dev_base_url"`
	ProdBaseURL string `mapstructure:"prod_base_url"`
	Hostname    string `mapstructure:"hostname"`
	Port        string `mapstructure:"port"`
}

// TimersConfig holds the countdown and cooldown durations.
type TimersConfig struct {
	// CodeExpiry is the email verification countdown.
	CodeExpiry time.Duration `mapstructure:"code_expiry"`
	// ExpiryWarning is the remaining time at which the countdown warns.
	ExpiryWarning time.Duration `mapstructure:"expiry_warning"`
	// ResendEmailCooldown gates "resend code" on the email page.
	ResendEmailCooldown time.Duration `mapstructure:"resend_email_cooldown"`
	// ResendSMSCooldown gates "resend code" on the SMS page.
	ResendSMSCooldown time.Duration `mapstructure:"resend_sms_cooldown"`
}

// DelaysConfig holds the pause between a flow outcome and its page
// transition, long enough for the outcome message to be read.
type DelaysConfig struct {
	AfterLogin           time.Duration `mapstructure:"after_login"`
	AfterSMSVerify       time.Duration `mapstructure:"after_sms_verify"`
	AfterRegister        time.Duration `mapstructure:"after_register"`
	AfterEmailVerify     time.Duration `mapstructure:"after_email_verify"`
	AfterRecoveryRequest time.Duration `mapstructure:"after_recovery_request"`
	AfterReset           time.Duration `mapstructure:"after_reset"`
	FatalBounce          time.Duration `mapstructure:"fatal_bounce"`
}

func defaultConfig() Config {
	return Config{
		Endpoints: EndpointsConfig{
			DevBaseURL:  "http://localhost:5000",
			ProdBaseURL: "https://auth-backend.onrender.com",
		},
		Timers: TimersConfig{
			CodeExpiry:          120 * time.Second,
			ExpiryWarning:       30 * time.Second,
			ResendEmailCooldown: 120 * time.Second,
			ResendSMSCooldown:   60 * time.Second,
		},
		Delays: DelaysConfig{
			AfterLogin:           time.Second,
			AfterSMSVerify:       1500 * time.Millisecond,
			AfterRegister:        2 * time.Second,
			AfterEmailVerify:     2 * time.Second,
			AfterRecoveryRequest: 2 * time.Second,
			AfterReset:           3 * time.Second,
			FatalBounce:          3 * time.Second,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// No reference types inside; a value copy is a deep copy.
	return cfg
}

// BaseURL resolves the backend for the configured environment:
// localhost, 127.0.0.1, or any explicit port means the dev backend.
func (e EndpointsConfig) BaseURL() string {
	if e.Hostname == "localhost" || e.Hostname == "127.0.0.1" || e.Port != "" {
		return e.DevBaseURL
	}
	return e.ProdBaseURL
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Endpoints.DevBaseURL) == "" {
		return errors.New("Endpoints.DevBaseURL required")
	}
	if strings.TrimSpace(c.Endpoints.ProdBaseURL) == "" {
		return errors.New("Endpoints.ProdBaseURL required")
	}
	if c.Timers.CodeExpiry <= 0 {
		return errors.New("Timers.CodeExpiry must be positive")
	}
	if c.Timers.ExpiryWarning <= 0 || c.Timers.ExpiryWarning >= c.Timers.CodeExpiry {
		return errors.New("Timers.ExpiryWarning must be positive and shorter than CodeExpiry")
	}
	if c.Timers.ResendEmailCooldown <= 0 || c.Timers.ResendSMSCooldown <= 0 {
		return errors.New("resend cooldowns must be positive")
	}
	for _, d := range []time.Duration{
		c.Delays.AfterLogin,
		c.Delays.AfterSMSVerify,
		c.Delays.AfterRegister,
		c.Delays.AfterEmailVerify,
		c.Delays.AfterRecoveryRequest,
		c.Delays.AfterReset,
		c.Delays.FatalBounce,
	} {
		if d < 0 {
			return errors.New("navigation delays must not be negative")
		}
	}
	return nil
}

// LoadConfig builds a Config from defaults, an optional YAML file, and
// AUTHCLIENT_* environment variables (AUTHCLIENT_ENDPOINTS_PROD_BASE_URL
// and so on). path may be empty.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	def := defaultConfig()
	v.SetDefault("endpoints.dev_base_url", def.Endpoints.DevBaseURL)
	v.SetDefault("endpoints.prod_base_url", def.Endpoints.ProdBaseURL)
	v.SetDefault("endpoints.hostname", def.Endpoints.Hostname)
	v.SetDefault("endpoints.port", def.Endpoints.Port)
	v.SetDefault("timers.code_expiry", def.Timers.CodeExpiry)
	v.SetDefault("timers.expiry_warning", def.Timers.ExpiryWarning)
	v.SetDefault("timers.resend_email_cooldown", def.Timers.ResendEmailCooldown)
	v.SetDefault("timers.resend_sms_cooldown", def.Timers.ResendSMSCooldown)
	v.SetDefault("delays.after_login", def.Delays.AfterLogin)
	v.SetDefault("delays.after_sms_verify", def.Delays.AfterSMSVerify)
	v.SetDefault("delays.after_register", def.Delays.AfterRegister)
	v.SetDefault("delays.after_email_verify", def.Delays.AfterEmailVerify)
	v.SetDefault("delays.after_recovery_request", def.Delays.AfterRecoveryRequest)
	v.SetDefault("delays.after_reset", def.Delays.AfterReset)
	v.SetDefault("delays.fatal_bounce", def.Delays.FatalBounce)

	v.SetEnvPrefix("AUTHCLIENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
