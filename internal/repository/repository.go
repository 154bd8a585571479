package repository

import (
	"github.com/jinzhu/gorm"

	"booking-flow/internal/flow"
	"booking-flow/internal/models"
	"booking-flow/internal/repository/cache"
	"booking-flow/internal/repository/postgres"
)

type Bookings interface {
	Create(b models.Booking) error
	Get(id string) (models.Booking, error)
	GetByKey(key string) (models.Booking, error)
	GetAll() ([]models.Booking, error)
}

type Accounts interface {
	Create(a models.Account) error
	GetByEmail(email string) (models.Account, error)
}

type ConfirmationCache interface {
	PutConfirmation(conf models.Confirmation)
	GetConfirmation(key string) (models.Confirmation, error)
	GetAllConfirmations() ([]models.Confirmation, error)
}

type SessionCache interface {
	PutSession(id string, s flow.Session)
	GetSession(id string) (flow.Session, error)
	DeleteSession(id string) bool
}

type Repository struct {
	Bookings
	Accounts
	ConfirmationCache
	SessionCache
}

type Option func(*options)

type options struct {
	confirmations cache.KV
	sessions      *cache.ShardedCache
}

func WithConfirmationStore(kv cache.KV) Option { return func(o *options) { o.confirmations = kv } }

func WithSessionStore(c *cache.ShardedCache) Option { return func(o *options) { o.sessions = c } }

func NewRepository(db *gorm.DB, opts ...Option) *Repository {
	o := options{}
	for _, fn := range opts {
		fn(&o)
	}
	if o.confirmations == nil {
		o.confirmations = cache.NewCache()
	}
	if o.sessions == nil {
		o.sessions = cache.NewShardedCache()
	}
	return &Repository{
		Bookings:          postgres.NewBookingPostgres(db),
		Accounts:          postgres.NewAccountPostgres(db),
		ConfirmationCache: cache.NewConfirmationCache(o.confirmations),
		SessionCache:      cache.NewSessionCache(o.sessions),
	}
}
