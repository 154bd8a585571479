package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"booking-flow/internal/models"
	"booking-flow/internal/repository/postgres"
	"booking-flow/internal/validation"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrRateLimited        = errors.New("too many attempts, try again later")
	ErrDuplicateAccount   = errors.New("an account with this email already exists")
	ErrNotFound           = errors.New("account not found")
)

type Accounts interface {
	Create(a models.Account) error
	GetByEmail(email string) (models.Account, error)
}

// Limiter counts failed sign-in attempts per email.
type Limiter interface {
	Hit(key string) int
	Exceeded(key string) bool
	Clear(key string)
}

type Service struct {
	accounts Accounts
	gate     *validation.Gate
	limiter  Limiter
	cost     int
	now      func() time.Time
}

type Option func(*Service)

func WithHashCost(cost int) Option { return func(s *Service) { s.cost = cost } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func NewService(accounts Accounts, gate *validation.Gate, limiter Limiter, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		gate:     gate,
		limiter:  limiter,
		cost:     bcrypt.DefaultCost,
		now:      time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

func (s *Service) SignUp(ctx context.Context, f models.SignUpForm) (models.Account, error) {
	if err := s.gate.Validate(&f).Err(); err != nil {
		return models.Account{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	email := normalizeEmail(f.Email)
	if _, err := s.accounts.GetByEmail(email); err == nil {
		return models.Account{}, ErrDuplicateAccount
	} else if !gorm.IsRecordNotFoundError(err) {
		return models.Account{}, pkgerrors.Wrap(err, "lookup account")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(f.Password), s.cost)
	if err != nil {
		return models.Account{}, pkgerrors.Wrap(err, "hash password")
	}
	acc := models.Account{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(f.Name),
		Email:        email,
		Phone:        strings.TrimSpace(f.Phone),
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.accounts.Create(acc); err != nil {
		if errors.Is(err, postgres.ErrDuplicate) {
			return models.Account{}, ErrDuplicateAccount
		}
		return models.Account{}, pkgerrors.Wrap(err, "create account")
	}
	logrus.WithField("account", acc.ID).Info("account created")
	return acc, nil
}

func (s *Service) SignIn(ctx context.Context, f models.SignInForm) (models.Account, error) {
	if err := s.gate.Validate(&f).Err(); err != nil {
		return models.Account{}, err
	}
	if err := ctx.Err(); err != nil {
		return models.Account{}, err
	}

	email := normalizeEmail(f.Email)
	if s.limiter.Exceeded(email) {
		return models.Account{}, ErrRateLimited
	}

	acc, err := s.accounts.GetByEmail(email)
	switch {
	case gorm.IsRecordNotFoundError(err):
		s.fail(email)
		return models.Account{}, ErrInvalidCredentials
	case err != nil:
		return models.Account{}, pkgerrors.Wrap(err, "lookup account")
	}

	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(f.Password)); err != nil {
		s.fail(email)
		return models.Account{}, ErrInvalidCredentials
	}
	s.limiter.Clear(email)
	return acc, nil
}

// Profile returns the prefill data of an account.
func (s *Service) Profile(email string) (models.Profile, error) {
	acc, err := s.accounts.GetByEmail(normalizeEmail(email))
	if gorm.IsRecordNotFoundError(err) {
		return models.Profile{}, ErrNotFound
	}
	if err != nil {
		return models.Profile{}, pkgerrors.Wrap(err, "lookup profile")
	}
	return acc.Profile(), nil
}

func (s *Service) fail(email string) {
	n := s.limiter.Hit(email)
	logrus.WithFields(logrus.Fields{"email": email, "attempts": n}).Warn("sign-in rejected")
}

func normalizeEmail(e string) string {
	return strings.ToLower(strings.TrimSpace(e))
}
