package config

import "time"

// AuthConfig groups CAS authentication and session configuration.
type AuthConfig struct {
	// MechanismsFile is the path to the YAML file describing the configured
	// CAS identity providers (the auth-mechanism table).
	MechanismsFile string `env:"AUTH_MECHANISMS_FILE" envDefault:"/etc/portal/mechanisms.yaml"`

	// PrivateKeyFile and PublicKeyFile are the PEM files holding the session
	// keypair. Both are loaded once at startup; a keypair that fails to
	// parse is a fatal configuration error.
	PrivateKeyFile string `env:"AUTH_PRIVATE_KEY_FILE" envDefault:"/etc/portal/keys/private.pem"`
	PublicKeyFile  string `env:"AUTH_PUBLIC_KEY_FILE"  envDefault:"/etc/portal/keys/public.pem"`

	// ValidateTimeout bounds the outbound serviceValidate call so one slow
	// identity provider cannot exhaust request-handling capacity.
	ValidateTimeout time.Duration `env:"AUTH_VALIDATE_TIMEOUT" envDefault:"10s"`

	// DefaultTheme is the UI skin written to the theme cookie when the user
	// record carries no preference.
	DefaultTheme string `env:"AUTH_DEFAULT_THEME" envDefault:"default"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	if a.ValidateTimeout <= 0 {
		a.ValidateTimeout = 10 * time.Second
	}
	if a.DefaultTheme == "" {
		a.DefaultTheme = "default"
	}
}
