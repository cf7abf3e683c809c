package auth

import (
	"context"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Users is the full persistence surface for accounts. CredentialStore is
// the narrow slice of it the Auther consumes.
type Users interface {
	repository.Repository[*User]
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	Register(ctx context.Context, user *User) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

type users struct {
	repository.Repository[*User]
	db *bun.DB
}

var _ CredentialStore = (*users)(nil)

// NewUsersRepository creates a new users repo
func NewUsersRepository(db *bun.DB) Users {
	handlers := repository.ModelHandlers[*User]{
		NewRecord: func() *User {
			return &User{}
		},
		GetID: func(record *User) uuid.UUID {
			if record == nil {
				return uuid.Nil
			}
			return record.ID
		},
		SetID: func(record *User, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "email"
		},
	}

	return &users{
		Repository: repository.NewRepository[*User](db, handlers),
		db:         db,
	}
}

func (r *users) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.FindByEmailTx(ctx, r.db, email)
}

func (r *users) FindByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := new(User)
	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", strings.TrimSpace(email)).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{
					"email": email,
				})
		}
		return nil, err
	}
	return record, nil
}

func (r *users) Register(ctx context.Context, user *User) (*User, error) {
	return r.RegisterTx(ctx, r.db, user)
}

func (r *users) RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error) {
	prepareUserDefaults(user)
	return r.Repository.CreateTx(ctx, tx, user)
}

func prepareUserDefaults(user *User) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
}
