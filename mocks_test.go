package auth_test

import (
	"context"

	"github.com/skillforge/auth"
	"github.com/stretchr/testify/mock"
)

// MockCredentialStore implements auth.CredentialStore
type MockCredentialStore struct {
	mock.Mock
}

func (m *MockCredentialStore) FindByEmail(ctx context.Context, email string) (*auth.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockCredentialStore) Register(ctx context.Context, user *auth.User) (*auth.User, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

// MockIdentity implements auth.Identity
type MockIdentity struct {
	mock.Mock
}

func (m *MockIdentity) ID() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Email() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockIdentity) Role() string {
	args := m.Called()
	return args.String(0)
}

// MockAuthenticator implements auth.Authenticator
type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Register(ctx context.Context, msg auth.RegisterUserMessage) (*auth.User, error) {
	args := m.Called(ctx, msg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.User), args.Error(1)
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (*auth.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.LoginResult), args.Error(1)
}

func (m *MockAuthenticator) TokenService() auth.TokenService {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(auth.TokenService)
}

// testLogger swallows log output so tests stay quiet
type testLogger struct{}

func (testLogger) Debug(format string, args ...any) {}
func (testLogger) Info(format string, args ...any)  {}
func (testLogger) Warn(format string, args ...any)  {}
func (testLogger) Error(format string, args ...any) {}

// recordingLogger captures error lines so tests can assert on them
type recordingLogger struct {
	errors []string
}

func (l *recordingLogger) Debug(format string, args ...any) {}
func (l *recordingLogger) Info(format string, args ...any)  {}
func (l *recordingLogger) Warn(format string, args ...any)  {}

func (l *recordingLogger) Error(format string, args ...any) {
	l.errors = append(l.errors, format)
}

// mockConfig implements auth.Config with test defaults
type mockConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
}

func (c mockConfig) GetSigningKey() string {
	if c.signingKey == "" {
		return "test-signing-key"
	}
	return c.signingKey
}

func (c mockConfig) GetSigningMethod() string { return "HS256" }
func (c mockConfig) GetContextKey() string    { return "user" }
func (c mockConfig) GetAuthScheme() string    { return "Bearer" }
func (c mockConfig) GetTokenLookup() string   { return "header:Authorization" }
func (c mockConfig) GetIssuer() string        { return c.issuer }
func (c mockConfig) GetAudience() []string    { return c.audience }

func (c mockConfig) GetTokenExpiration() int {
	if c.tokenExpiration == 0 {
		return 1
	}
	return c.tokenExpiration
}
