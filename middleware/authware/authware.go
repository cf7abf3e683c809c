// Package authware provides the request-level authentication filter and the
// route authorization gate for fiber applications.
//
// The filter never aborts the chain: requests without a usable token reach
// the gate as anonymous, and the gate decides whether the route tolerates
// that. Keeping the two concerns apart means public routes cost nothing and
// rejection logic lives in one place.
package authware

import (
	"errors"
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/skillforge/auth"
)

var ErrJWTMissingOrMalformed = errors.New("missing or malformed JWT")

// TokenValidator mirrors the validation slice of auth.TokenService so the
// middleware can be wired to any token source.
type TokenValidator interface {
	Validate(tokenString string) (auth.AuthClaims, error)
}

type Logger interface {
	Error(format string, args ...any)
}

type defLogger struct{}

func (defLogger) Error(format string, args ...any) {
	log.Printf("[ERR] AUTHWARE "+format, args...)
}

type Config struct {
	// TokenValidator is required
	TokenValidator TokenValidator

	// ContextKey is the fiber.Locals key claims are installed under
	ContextKey string

	// AuthScheme is the Authorization header scheme, "Bearer" by default
	AuthScheme string

	// Filter skips the middleware for matching requests
	Filter func(c *fiber.Ctx) bool

	// ErrorHandler renders gate rejections
	ErrorHandler func(c *fiber.Ctx, err error) error

	Logger Logger
}

func configDefault(config ...Config) Config {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.ContextKey == "" {
		cfg.ContextKey = "user"
	}

	if cfg.AuthScheme == "" {
		cfg.AuthScheme = "Bearer"
	}

	if cfg.Logger == nil {
		cfg.Logger = defLogger{}
	}

	if cfg.ErrorHandler == nil {
		cfg.ErrorHandler = defaultErrorHandler
	}

	return cfg
}

// New returns the authentication filter. A missing, malformed, or invalid
// token leaves the request anonymous and passes it through; a valid token
// installs claims in fiber.Locals and the request context. Installation is
// idempotent, earlier claims in the chain win.
func New(config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	if cfg.TokenValidator == nil {
		panic("AUTH: authware configuration: TokenValidator is required.")
	}

	return func(c *fiber.Ctx) error {
		if cfg.Filter != nil && cfg.Filter(c) {
			return c.Next()
		}

		raw, err := TokenFromHeader(c.Get(fiber.HeaderAuthorization), cfg.AuthScheme)
		if err != nil {
			return c.Next()
		}

		claims, err := cfg.TokenValidator.Validate(raw)
		if err != nil {
			cfg.Logger.Error("token rejected: %v", err)
			return c.Next()
		}

		if c.Locals(cfg.ContextKey) == nil {
			c.Locals(cfg.ContextKey, claims)
			c.SetUserContext(auth.WithClaimsContext(c.UserContext(), claims))
		}

		return c.Next()
	}
}

// Gate returns the authorization middleware. It reads whatever claims the
// filter installed, consults the policy, and rejects with 401 or 403.
func Gate(policy *auth.AccessPolicy, config ...Config) fiber.Handler {
	cfg := configDefault(config...)

	return func(c *fiber.Ctx) error {
		claims, _ := c.Locals(cfg.ContextKey).(auth.AuthClaims)

		if err := policy.Authorize(c.Method(), c.Path(), claims); err != nil {
			return cfg.ErrorHandler(c, err)
		}

		return c.Next()
	}
}

func defaultErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusUnauthorized
	message := "Authentication required"

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		message = richErr.Message
		switch richErr.Code {
		case goerrors.CodeForbidden:
			status = fiber.StatusForbidden
		case goerrors.CodeUnauthorized:
			status = fiber.StatusUnauthorized
		}
	}

	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

// TokenFromHeader extracts the raw token from an Authorization header value
func TokenFromHeader(header, authScheme string) (string, error) {
	l := len(authScheme)
	if l == 0 {
		return "", ErrJWTMissingOrMalformed
	}
	if len(header) > l+1 && strings.EqualFold(header[:l], authScheme) && header[l] == ' ' {
		return strings.TrimSpace(header[l+1:]), nil
	}
	return "", ErrJWTMissingOrMalformed
}
