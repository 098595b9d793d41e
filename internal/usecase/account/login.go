package account

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/account"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/validators"
)

type Login struct {
	repo   domain.Repository
	tokens *Tokens
	opts   options
}

func NewLogin(repo domain.Repository, tokens *Tokens, opts ...Option) *Login {
	return &Login{repo: repo, tokens: tokens, opts: newOptions(opts)}
}

// Execute checks the password and issues a token. Unknown accounts and
// wrong passwords fail the same way.
func (uc *Login) Execute(ctx context.Context, role domain.Role, email, password string) (*Session, error) {
	if !role.Valid() {
		return nil, httperr.ErrValidation
	}
	email = validators.NormalizeEmail(email)

	var (
		id   uint
		name string
		hash string
	)

	switch role {
	case domain.RoleBarber:
		b, err := uc.repo.FindBarberByEmail(ctx, email)
		if err != nil {
			return nil, credentials(err)
		}
		if !b.Active {
			return nil, httperr.ErrBadCredentials
		}
		id, name, hash = b.ID, b.Name, b.PasswordHash
	default:
		c, err := uc.repo.FindCustomerByEmail(ctx, email)
		if err != nil {
			return nil, credentials(err)
		}
		id, name, hash = c.ID, c.Name, c.PasswordHash
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return nil, httperr.ErrBadCredentials
	}

	token, exp, err := uc.tokens.Issue(id, role)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:        id,
		Role:      role,
		Name:      name,
		Email:     email,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}

func credentials(err error) error {
	if errors.Is(err, httperr.ErrNotFound) {
		return httperr.ErrBadCredentials
	}
	return err
}
