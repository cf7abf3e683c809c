package auth_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/skillforge/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTokenService(t *testing.T) {
	signingKey := []byte("test-signing-key")

	t.Run("creates token service with logger", func(t *testing.T) {
		service := auth.NewTokenService(signingKey, 1, "skillforge", nil, testLogger{})
		assert.NotNil(t, service)
	})

	t.Run("creates token service with nil logger", func(t *testing.T) {
		service := auth.NewTokenService(signingKey, 1, "skillforge", nil, nil)
		assert.NotNil(t, service)
	})
}

func TestTokenService_Generate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	issuer := "skillforge"
	audience := jwt.ClaimStrings{"skillforge-api"}

	service := auth.NewTokenService(signingKey, 1, issuer, audience, testLogger{})

	t.Run("generates valid JWT token", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Name").Return("Ann Admin")
		identity.On("Email").Return("ann@example.com")
		identity.On("Role").Return("ADMIN")

		tokenString, err := service.Generate(identity)
		require.NoError(t, err)
		require.NotEmpty(t, tokenString)

		token, err := jwt.ParseWithClaims(tokenString, &auth.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})
		require.NoError(t, err)
		assert.True(t, token.Valid)

		claims, ok := token.Claims.(*auth.JWTClaims)
		require.True(t, ok)
		assert.Equal(t, "user-123", claims.Subject())
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "Ann Admin", claims.Name())
		assert.Equal(t, "ann@example.com", claims.Email())
		assert.Equal(t, "ADMIN", claims.Role())
		assert.Equal(t, issuer, claims.Issuer)
		assert.Equal(t, audience, claims.Audience)
		assert.NotNil(t, claims.RegisteredClaims.IssuedAt)
		assert.NotNil(t, claims.RegisteredClaims.ExpiresAt)

		identity.AssertExpectations(t)
	})

	t.Run("sets expiry one hour out", func(t *testing.T) {
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Name").Return("Ann Admin")
		identity.On("Email").Return("ann@example.com")
		identity.On("Role").Return("STUDENT")

		beforeGenerate := time.Now()
		tokenString, err := service.Generate(identity)
		afterGenerate := time.Now()
		require.NoError(t, err)

		token, err := jwt.ParseWithClaims(tokenString, &auth.JWTClaims{}, func(token *jwt.Token) (any, error) {
			return signingKey, nil
		})
		require.NoError(t, err)

		claims := token.Claims.(*auth.JWTClaims)
		expiry := claims.Expires()

		assert.True(t, expiry.After(beforeGenerate.Add(time.Hour-time.Second)))
		assert.True(t, expiry.Before(afterGenerate.Add(time.Hour+time.Second)))
	})

	t.Run("normalizes the role claim at issuance", func(t *testing.T) {
		tests := []struct {
			name string
			role string
			want string
		}{
			{"lowercase is canonicalized", "instructor", "INSTRUCTOR"},
			{"empty degrades to student", "", "STUDENT"},
			{"unrecognized degrades to student", "WIZARD", "STUDENT"},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				identity := &MockIdentity{}
				identity.On("ID").Return("user-9")
				identity.On("Name").Return("Sam")
				identity.On("Email").Return("sam@example.com")
				identity.On("Role").Return(tt.role)

				tokenString, err := service.Generate(identity)
				require.NoError(t, err)

				claims, err := service.Validate(tokenString)
				require.NoError(t, err)
				assert.Equal(t, tt.want, claims.Role())
			})
		}
	})
}

func TestTokenService_SignClaims(t *testing.T) {
	service := auth.NewTokenService([]byte("test-signing-key"), 1, "", nil, testLogger{})

	t.Run("rejects nil claims", func(t *testing.T) {
		_, err := service.SignClaims(nil)
		assert.Error(t, err)
	})

	t.Run("signs arbitrary claims", func(t *testing.T) {
		tokenString, err := service.SignClaims(makeClaims())
		require.NoError(t, err)
		assert.NotEmpty(t, tokenString)
	})
}

func TestTokenService_Validate(t *testing.T) {
	signingKey := []byte("test-signing-key")
	service := auth.NewTokenService(signingKey, 1, "skillforge", nil, testLogger{})

	mint := func(t *testing.T) string {
		t.Helper()
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Name").Return("Ann Admin")
		identity.On("Email").Return("ann@example.com")
		identity.On("Role").Return("ADMIN")

		tokenString, err := service.Generate(identity)
		require.NoError(t, err)
		return tokenString
	}

	t.Run("round trips a freshly minted token", func(t *testing.T) {
		claims, err := service.Validate(mint(t))
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
		assert.Equal(t, "ADMIN", claims.Role())
		assert.True(t, claims.HasRole("admin"))
	})

	t.Run("rejects expired token", func(t *testing.T) {
		impl := service.(*auth.TokenServiceImpl)
		expired := makeClaims()
		expired.RegisteredClaims.Issuer = "skillforge"
		expired.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

		tokenString, err := impl.SignClaims(expired)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		require.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("rejects tampered payload", func(t *testing.T) {
		tokenString := mint(t)

		parts := strings.Split(tokenString, ".")
		require.Len(t, parts, 3)
		payload := []byte(parts[1])
		payload[0] ^= 0x01
		tampered := parts[0] + "." + string(payload) + "." + parts[2]

		_, err := service.Validate(tampered)
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})

	t.Run("rejects token signed with a different key", func(t *testing.T) {
		other := auth.NewTokenService([]byte("other-key"), 1, "skillforge", nil, testLogger{})
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Name").Return("Ann Admin")
		identity.On("Email").Return("ann@example.com")
		identity.On("Role").Return("ADMIN")

		tokenString, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})

	t.Run("rejects wrong issuer", func(t *testing.T) {
		other := auth.NewTokenService(signingKey, 1, "someone-else", nil, testLogger{})
		identity := &MockIdentity{}
		identity.On("ID").Return("user-123")
		identity.On("Name").Return("Ann Admin")
		identity.On("Email").Return("ann@example.com")
		identity.On("Role").Return("ADMIN")

		tokenString, err := other.Generate(identity)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := service.Validate("not.a.token")
		require.Error(t, err)
		assert.True(t, auth.IsMalformedError(err))
	})
}
