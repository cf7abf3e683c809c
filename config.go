package auth

import "os"

// EnvSigningSecret is the environment variable holding the token signing
// secret.
const EnvSigningSecret = "JWT_SECRET"

// fallbackSigningSecret keeps the historical default so existing deployments
// keep working when the environment variable is unset. It is not a safe
// production value; NewEnvConfig warns loudly whenever it is active.
const fallbackSigningSecret = "skillforge_secret_key"

// DefaultTokenExpiration is the fixed session lifetime, in hours. Tokens are
// not extended and not revocable before expiry.
const DefaultTokenExpiration = 1

// DefaultContextKey is where request middleware stores validated claims.
const DefaultContextKey = "user"

// EnvConfig is the process-wide auth configuration, read once at startup.
// The signing secret is immutable after construction and safe for
// unsynchronized concurrent reads.
type EnvConfig struct {
	SigningKey      string
	SigningMethod   string
	ContextKey      string
	TokenExpiration int
	AuthScheme      string
	TokenLookup     string
	Issuer          string
	Audience        []string
}

var _ Config = (*EnvConfig)(nil)

// NewEnvConfig builds the default configuration from the environment.
func NewEnvConfig(logger Logger) *EnvConfig {
	if logger == nil {
		logger = defLogger{}
	}

	secret := os.Getenv(EnvSigningSecret)
	if secret == "" {
		secret = fallbackSigningSecret
		logger.Warn("signing secret fallback in use, set %s for any real deployment", EnvSigningSecret)
	}

	return &EnvConfig{
		SigningKey:      secret,
		SigningMethod:   "HS256",
		ContextKey:      DefaultContextKey,
		TokenExpiration: DefaultTokenExpiration,
		AuthScheme:      "Bearer",
		TokenLookup:     "header:Authorization",
		Issuer:          "skillforge",
	}
}

func (c *EnvConfig) GetSigningKey() string    { return c.SigningKey }
func (c *EnvConfig) GetSigningMethod() string { return c.SigningMethod }
func (c *EnvConfig) GetContextKey() string    { return c.ContextKey }
func (c *EnvConfig) GetAuthScheme() string    { return c.AuthScheme }
func (c *EnvConfig) GetTokenLookup() string   { return c.TokenLookup }
func (c *EnvConfig) GetIssuer() string        { return c.Issuer }
func (c *EnvConfig) GetAudience() []string    { return c.Audience }

func (c *EnvConfig) GetTokenExpiration() int {
	if c.TokenExpiration <= 0 {
		return DefaultTokenExpiration
	}
	return c.TokenExpiration
}
