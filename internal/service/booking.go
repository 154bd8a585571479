package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jinzhu/gorm"
	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"booking-flow/internal/flow"
	"booking-flow/internal/models"
	"booking-flow/internal/repository/postgres"
)

// persistFailed is the banner shown when a booking could not be stored.
const persistFailed = "We could not record your booking. Please try again."

// Submit records a finished draft at most once per idempotency key.
func (s *Service) Submit(ctx context.Context, sub flow.Submission) (models.Confirmation, error) {
	log := logrus.WithFields(logrus.Fields{"kind": sub.Kind, "key": sub.IdempotencyKey})

	if conf, err := s.GetConfirmation(sub.IdempotencyKey); err == nil {
		log.WithField("confirmation", conf.ID).Info("duplicate submission, returning earlier confirmation")
		submissionsTotal.WithLabelValues(string(sub.Kind), outcomeDuplicate).Inc()
		return conf, nil
	}

	payload, err := json.Marshal(sub.Draft)
	if err != nil {
		submissionsTotal.WithLabelValues(string(sub.Kind), outcomeFailed).Inc()
		return models.Confirmation{}, pkgerrors.Wrap(err, "encode draft")
	}
	if err := ctx.Err(); err != nil {
		submissionsTotal.WithLabelValues(string(sub.Kind), outcomeFailed).Inc()
		return models.Confirmation{}, err
	}

	b := models.Booking{
		ID:             s.newID(),
		Kind:           sub.Kind,
		IdempotencyKey: sub.IdempotencyKey,
		Category:       sub.Category,
		Total:          sub.Quote.Total,
		Payload:        string(payload),
		CreatedAt:      s.now().UTC(),
	}
	if err := s.Bookings.Create(b); err != nil {
		if !errors.Is(err, postgres.ErrDuplicate) {
			submissionsTotal.WithLabelValues(string(sub.Kind), outcomeFailed).Inc()
			return models.Confirmation{}, &flow.SinkError{Message: persistFailed, Err: err}
		}
		// lost a race with another delivery of the same key
		prev, gerr := s.Bookings.GetByKey(sub.IdempotencyKey)
		if gerr != nil {
			submissionsTotal.WithLabelValues(string(sub.Kind), outcomeFailed).Inc()
			return models.Confirmation{}, &flow.SinkError{Message: persistFailed, Err: gerr}
		}
		conf := prev.Confirmation()
		s.PutConfirmation(conf)
		submissionsTotal.WithLabelValues(string(sub.Kind), outcomeDuplicate).Inc()
		return conf, nil
	}

	conf := b.Confirmation()
	s.PutConfirmation(conf)
	submissionsTotal.WithLabelValues(string(sub.Kind), outcomeConfirmed).Inc()
	s.publish(ctx, conf)
	if td, ok := sub.Draft.(models.TextileDraft); ok {
		textileMeters.WithLabelValues(td.Fabric).Add(float64(td.Meters()))
		log = log.WithField("meters", td.Meters())
	}
	log.WithField("confirmation", conf.ID).Info("booking recorded")
	return conf, nil
}

// publish emits the confirmation event. The booking is already stored, so a
// failure here is only logged.
func (s *Service) publish(ctx context.Context, conf models.Confirmation) {
	if s.events == nil {
		return
	}
	body, err := json.Marshal(conf)
	if err == nil {
		err = s.events.Publish(ctx, conf.ID, body)
	}
	if err != nil {
		eventPublishFailures.Inc()
		logrus.WithError(err).WithField("confirmation", conf.ID).Warn("confirmation event not published")
	}
}

func (s *Service) GetBooking(id string) (models.Booking, error) {
	b, err := s.Bookings.Get(id)
	if gorm.IsRecordNotFoundError(err) {
		return models.Booking{}, ErrNotFound
	}
	return b, err
}

func (s *Service) GetAllBookings() ([]models.Booking, error) {
	return s.Bookings.GetAll()
}

// RecentConfirmations lists the confirmations held by the idempotency cache,
// newest first.
func (s *Service) RecentConfirmations() ([]models.Confirmation, error) {
	all, err := s.GetAllConfirmations()
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read confirmation cache")
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return all, nil
}

// PutBookingsFromDbToCache warms the idempotency cache with stored bookings,
// newest first.
func (s *Service) PutBookingsFromDbToCache() error {
	all, err := s.Bookings.GetAll()
	if err != nil {
		return pkgerrors.Wrap(err, "load bookings")
	}
	if s.warmLimit > 0 && len(all) > s.warmLimit {
		all = all[:s.warmLimit]
	}
	for _, b := range all {
		if b.IdempotencyKey == "" {
			logrus.WithField("id", b.ID).Warn("skip booking without idempotency key")
			continue
		}
		s.PutConfirmation(b.Confirmation())
	}
	logrus.WithField("count", len(all)).Info("idempotency cache warmed")
	return nil
}

// requestKeySpace derives keys for requests that arrive without one, so a
// redelivered message maps to the same key.
var requestKeySpace = uuid.MustParse("8f2b7c8e-4f1a-4f55-9a5e-3c1d2b6e7a90")

// HandleMessage takes one booking request off the bus and submits it through
// the same sink as the interactive flows. Decode and validation failures are
// final; anything else may be retried by the caller.
func (s *Service) HandleMessage(ctx context.Context, payload []byte) error {
	var req models.BookingRequest
	if err := json.Unmarshal(payload, &req); err != nil {
		return fmt.Errorf("%w: %v", ErrDecode, err)
	}
	kind, ok := models.ParseKind(string(req.Kind))
	if !ok {
		return fmt.Errorf("%w: kind %q", ErrDecode, req.Kind)
	}
	if req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewSHA1(requestKeySpace, payload).String()
	}

	sub, res, err := s.prepare(kind, req.Draft)
	if err != nil {
		return err
	}
	if verr := res.Err(); verr != nil {
		return fmt.Errorf("%w: %w", ErrValidation, verr)
	}
	sub.IdempotencyKey = req.IdempotencyKey

	conf, err := s.Submit(ctx, sub)
	if err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{"kind": kind, "confirmation": conf.ID}).Info("booking request handled")
	return nil
}
