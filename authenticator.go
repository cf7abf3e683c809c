package auth

import (
	"context"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
)

// Auther validates credentials against the credential store and mints
// tokens for identities it can verify. It holds no per-request state.
type Auther struct {
	store       CredentialStore
	tokens      TokenService
	logger      Logger
	phoneRegion string
}

// NewAuthenticator returns an Auther wired to the given store, with the
// token service derived from cfg.
func NewAuthenticator(store CredentialStore, cfg Config) *Auther {
	logger := defLogger{}
	return &Auther{
		store:       store,
		logger:      logger,
		phoneRegion: "US",
		tokens: NewTokenService(
			[]byte(cfg.GetSigningKey()),
			cfg.GetTokenExpiration(),
			cfg.GetIssuer(),
			jwt.ClaimStrings(cfg.GetAudience()),
			logger,
		),
	}
}

func (s *Auther) WithLogger(logger Logger) *Auther {
	s.logger = logger
	if ts, ok := s.tokens.(*TokenServiceImpl); ok {
		ts.logger = logger
	}
	return s
}

// WithPhoneRegion sets the default region used to parse national-format
// phone numbers during registration.
func (s *Auther) WithPhoneRegion(region string) *Auther {
	s.phoneRegion = region
	return s
}

func (s *Auther) TokenService() TokenService {
	return s.tokens
}

// RegisterUserMessage carries the payload for creating a new account. Role
// is stored verbatim after trimming; normalization happens at token
// issuance, not at rest.
type RegisterUserMessage struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone,omitempty"`
	College   string `json:"college,omitempty"`
	Role      string `json:"role"`
	UseHashid bool   `json:"-"`
}

func (m RegisterUserMessage) Validate() *errors.Error {
	return errors.ValidateWithOzzo(func() error {
		return validation.ValidateStruct(&m,
			validation.Field(&m.Name, validation.Required),
			validation.Field(&m.Email, validation.Required, is.Email),
			validation.Field(&m.Password, validation.Required),
			validation.Field(&m.Role, validation.Required),
		)
	}, "invalid registration payload")
}

// Register creates a new account. Email uniqueness is checked with a read
// probe before the write so duplicates are reported as a conflict instead
// of surfacing as a driver constraint error.
func (s *Auther) Register(ctx context.Context, msg RegisterUserMessage) (*User, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}

	phone, err := s.normalizePhone(msg.Phone)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.FindByEmail(ctx, msg.Email); err == nil {
		return nil, ErrEmailAlreadyRegistered.WithMetadata(map[string]any{
			"email": msg.Email,
		})
	} else if !repository.IsRecordNotFound(err) {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not check email availability")
	}

	hash, err := HashPassword(msg.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not hash password")
	}

	user := &User{
		Name:         strings.TrimSpace(msg.Name),
		Email:        strings.TrimSpace(msg.Email),
		Phone:        phone,
		College:      strings.TrimSpace(msg.College),
		Role:         UserRole(strings.TrimSpace(msg.Role)),
		PasswordHash: hash,
	}

	if msg.UseHashid {
		if id, err := hashid.NewUUID(user.Email); err == nil {
			user.ID = id
		}
	}

	record, err := s.store.Register(ctx, user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not create user")
	}

	return record, nil
}

// LoginResult is the payload returned to a successfully authenticated
// client. Role carries the issuance role, which is what the token claims
// say, not necessarily the stored spelling.
type LoginResult struct {
	ID    uuid.UUID `json:"id"`
	Token string    `json:"token"`
	Role  UserRole  `json:"role"`
	Email string    `json:"email"`
	Name  string    `json:"name"`
}

// Login verifies the credential pair and mints a signed token. Unknown
// email and wrong password both return ErrInvalidCredentials so callers
// cannot distinguish which factor failed.
func (s *Auther) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			s.logger.Warn("login attempt for unknown email: %s", email)
			return nil, ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not look up user")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		s.logger.Warn("login password mismatch for user: %s", user.ID)
		return nil, ErrInvalidCredentials
	}

	identity := &authIdentity{
		id:    user.ID.String(),
		name:  user.DisplayName(),
		email: user.Email,
		role:  string(user.Role),
	}

	token, err := s.tokens.Generate(identity)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryInternal, "could not generate token")
	}

	return &LoginResult{
		ID:    user.ID,
		Token: token,
		Role:  IssuanceRole(string(user.Role)),
		Email: user.Email,
		Name:  user.DisplayName(),
	}, nil
}

func (s *Auther) normalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}

	num, err := phonenumbers.Parse(raw, s.phoneRegion)
	if err != nil || !phonenumbers.IsPossibleNumber(num) {
		return "", errors.New("invalid phone number", errors.CategoryValidation).
			WithTextCode("INVALID_PHONE").
			WithMetadata(map[string]any{"phone": raw})
	}

	return phonenumbers.Format(num, phonenumbers.E164), nil
}

type authIdentity struct {
	id    string
	name  string
	email string
	role  string
}

func (a authIdentity) ID() string    { return a.id }
func (a authIdentity) Name() string  { return a.name }
func (a authIdentity) Email() string { return a.email }
func (a authIdentity) Role() string  { return a.role }
