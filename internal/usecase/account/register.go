package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	domain "github.com/BruksfildServices01/barber-queue/internal/domain/account"
	"github.com/BruksfildServices01/barber-queue/internal/httperr"
	"github.com/BruksfildServices01/barber-queue/internal/logger"
	"github.com/BruksfildServices01/barber-queue/internal/models"
	"github.com/BruksfildServices01/barber-queue/internal/validators"
)

const minPasswordLength = 6

// Session is returned by Register and Login.
type Session struct {
	ID        uint        `json:"id"`
	Role      domain.Role `json:"role"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

type Option func(*options)

type options struct {
	log         *logger.Logger
	hashCost    int
	checkDomain func(email string) bool
}

func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithHashCost overrides the bcrypt cost.
func WithHashCost(cost int) Option {
	return func(o *options) { o.hashCost = cost }
}

// WithDomainCheck rejects registrations whose e-mail domain fails check.
func WithDomainCheck(check func(email string) bool) Option {
	return func(o *options) { o.checkDomain = check }
}

func newOptions(opts []Option) options {
	o := options{log: logger.Nop(), hashCost: bcrypt.DefaultCost}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// ======================================================
// REGISTER
// ======================================================

type RegisterInput struct {
	Role     domain.Role
	Name     string
	Email    string
	Phone    string
	Password string
}

type Register struct {
	repo   domain.Repository
	tokens *Tokens
	opts   options
}

func NewRegister(repo domain.Repository, tokens *Tokens, opts ...Option) *Register {
	return &Register{repo: repo, tokens: tokens, opts: newOptions(opts)}
}

func (uc *Register) Execute(ctx context.Context, in RegisterInput) (*Session, error) {
	email := validators.NormalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	if !in.Role.Valid() || name == "" || !validators.IsEmailShaped(email) {
		return nil, httperr.ErrValidation
	}
	if len(in.Password) < minPasswordLength {
		return nil, httperr.ErrValidation
	}
	if uc.opts.checkDomain != nil && !uc.opts.checkDomain(email) {
		return nil, fmt.Errorf("%w: e-mail domain does not accept mail", httperr.ErrValidation)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), uc.opts.hashCost)
	if err != nil {
		return nil, err
	}

	var id uint
	switch in.Role {
	case domain.RoleBarber:
		b := &models.Barber{
			Name:         name,
			Email:        email,
			Phone:        in.Phone,
			PasswordHash: string(hashed),
			Active:       true,
			IsAvailable:  true,
		}
		if err := uc.repo.CreateBarber(ctx, b); err != nil {
			return nil, err
		}
		id = b.ID
	default:
		c := &models.Customer{
			Name:         name,
			Email:        email,
			Phone:        in.Phone,
			PasswordHash: string(hashed),
		}
		if err := uc.repo.CreateCustomer(ctx, c); err != nil {
			return nil, err
		}
		id = c.ID
	}

	token, exp, err := uc.tokens.Issue(id, in.Role)
	if err != nil {
		return nil, err
	}

	uc.opts.log.Info("account registered", "role", in.Role, "id", id)

	return &Session{
		ID:        id,
		Role:      in.Role,
		Name:      name,
		Email:     email,
		Token:     token,
		ExpiresAt: exp,
	}, nil
}
