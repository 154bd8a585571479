package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"booking-flow/internal/draft"
	"booking-flow/internal/flow"
	"booking-flow/internal/models"
	"booking-flow/internal/pricing"
	"booking-flow/internal/repository"
	"booking-flow/internal/validation"
)

// Booking is the surface used by the transports.
type Booking interface {
	flow.Sink

	OpenSession(kind models.Kind, email string, h *models.Handoff) (string, flow.View, error)
	GetSession(id string) (flow.Session, error)
	SubmitSession(ctx context.Context, id string) (models.Confirmation, flow.View, error)
	CloseSession(id string) error

	Quote(kind models.Kind, raw []byte) (pricing.Quote, error)
	Validate(kind models.Kind, raw []byte) (validation.Result, error)

	GetBooking(id string) (models.Booking, error)
	GetAllBookings() ([]models.Booking, error)
	RecentConfirmations() ([]models.Confirmation, error)
	PutBookingsFromDbToCache() error

	HandleMessage(ctx context.Context, payload []byte) error
}

// EventPublisher delivers confirmation events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// ProfileSource resolves the account used to prefill a new draft.
type ProfileSource interface {
	Profile(email string) (models.Profile, error)
}

type Service struct {
	repository.Bookings
	repository.ConfirmationCache
	repository.SessionCache

	gate          *validation.Gate
	rates         pricing.Rates
	rng           draft.Range
	events        EventPublisher
	profiles      ProfileSource
	submitTimeout time.Duration
	warmLimit     int
	now           func() time.Time
	newID         func() string
}

type Option func(*Service)

func WithRates(r pricing.Rates) Option { return func(s *Service) { s.rates = r } }

func WithProgressRange(r draft.Range) Option { return func(s *Service) { s.rng = r } }

func WithEvents(p EventPublisher) Option { return func(s *Service) { s.events = p } }

func WithProfiles(p ProfileSource) Option { return func(s *Service) { s.profiles = p } }

func WithSubmitTimeout(d time.Duration) Option { return func(s *Service) { s.submitTimeout = d } }

// WithWarmLimit caps how many stored bookings are loaded into the
// idempotency cache at startup. Zero loads all.
func WithWarmLimit(n int) Option { return func(s *Service) { s.warmLimit = n } }

func WithClock(now func() time.Time) Option { return func(s *Service) { s.now = now } }

func WithIDFunc(fn func() string) Option { return func(s *Service) { s.newID = fn } }

func NewService(repo *repository.Repository, gate *validation.Gate, opts ...Option) *Service {
	s := &Service{
		Bookings:          repo.Bookings,
		ConfirmationCache: repo.ConfirmationCache,
		SessionCache:      repo.SessionCache,
		gate:              gate,
		rates:             pricing.DefaultRates(),
		rng:               draft.DefaultRange,
		now:               time.Now,
		newID:             uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

var _ Booking = (*Service)(nil)
