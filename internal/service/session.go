package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"booking-flow/internal/draft"
	"booking-flow/internal/flow"
	"booking-flow/internal/models"
	"booking-flow/internal/pricing"
	"booking-flow/internal/repository/cache"
	"booking-flow/internal/validation"
)

// OpenSession starts a flow of the given kind. With an email the draft is
// prefilled from that account; the prefilled values stay editable. A handoff
// seeds the checkout cart.
func (s *Service) OpenSession(kind models.Kind, email string, h *models.Handoff) (string, flow.View, error) {
	var prof *models.Profile
	if email != "" && s.profiles != nil {
		p, err := s.profiles.Profile(email)
		if err != nil {
			logrus.WithError(err).WithField("email", email).Warn("prefill skipped")
		} else {
			prof = &p
		}
	}
	if h != nil && kind != models.KindCheckout {
		return "", flow.View{}, ErrHandoffUnsupported
	}

	var sess flow.Session
	switch kind {
	case models.KindPackage:
		sess = openFlow(s, kind, models.PackageDraft{}, prof)
	case models.KindTextile:
		sess = openFlow(s, kind, models.TextileDraft{}, prof)
	case models.KindCheckout:
		var d models.CheckoutDraft
		if h != nil {
			d.AddHandoff(*h)
		}
		sess = openFlow(s, kind, d, prof)
	case models.KindLab:
		sess = openFlow(s, kind, models.LabBookingDraft{}, prof)
	case models.KindConsultation:
		sess = openFlow(s, kind, models.ConsultationDraft{}, prof)
	default:
		return "", flow.View{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}

	id := s.newID()
	s.PutSession(id, sess)
	sessionsOpened.WithLabelValues(string(kind)).Inc()
	return id, sess.View(), nil
}

func openFlow[T any, PT draft.Schema[T]](s *Service, kind models.Kind, initial T, p *models.Profile) flow.Session {
	if p != nil {
		PT(&initial).Prefill(*p)
	}
	deps := flow.Deps{Gate: s.gate, Sink: s, Rates: s.rates}
	return flow.New[T, PT](kind, initial, deps, flow.WithProgressRange(s.rng))
}

func (s *Service) GetSession(id string) (flow.Session, error) {
	sess, err := s.SessionCache.GetSession(id)
	if errors.Is(err, cache.ErrNotFound) {
		return nil, ErrNotFound
	}
	return sess, err
}

// SubmitSession submits the session's draft under the configured timeout and
// returns the view after the attempt. When the deadline passes before the sink
// answers, the attempt keeps running in the session and a repeat submit is
// refused until it lands.
func (s *Service) SubmitSession(ctx context.Context, id string) (models.Confirmation, flow.View, error) {
	sess, err := s.GetSession(id)
	if err != nil {
		return models.Confirmation{}, flow.View{}, err
	}
	if s.submitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.submitTimeout)
		defer cancel()
	}
	select {
	case res := <-sess.SubmitAsync(ctx):
		return res.Confirmation, sess.View(), res.Err
	case <-ctx.Done():
		return models.Confirmation{}, sess.View(), &flow.SinkError{Message: flow.TimeoutMessage, Err: ctx.Err()}
	}
}

// CloseSession drops the session. A submit still in flight completes against
// the sink but no longer updates the session.
func (s *Service) CloseSession(id string) error {
	if !s.DeleteSession(id) {
		return ErrNotFound
	}
	return nil
}

// Quote prices a posted draft without opening a session.
func (s *Service) Quote(kind models.Kind, raw []byte) (pricing.Quote, error) {
	sub, _, err := s.prepare(kind, raw)
	if err != nil {
		return pricing.Quote{}, err
	}
	return sub.Quote, nil
}

// Validate runs the full gate over a posted draft.
func (s *Service) Validate(kind models.Kind, raw []byte) (validation.Result, error) {
	_, res, err := s.prepare(kind, raw)
	return res, err
}

func (s *Service) prepare(kind models.Kind, raw []byte) (flow.Submission, validation.Result, error) {
	switch kind {
	case models.KindPackage:
		return decodeDraft[models.PackageDraft](s, kind, raw)
	case models.KindTextile:
		return decodeDraft[models.TextileDraft](s, kind, raw)
	case models.KindCheckout:
		return decodeDraft[models.CheckoutDraft](s, kind, raw)
	case models.KindLab:
		return decodeDraft[models.LabBookingDraft](s, kind, raw)
	case models.KindConsultation:
		return decodeDraft[models.ConsultationDraft](s, kind, raw)
	}
	return flow.Submission{}, validation.Result{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

// decodeDraft reads a typed draft, normalizes it and runs the full gate.
func decodeDraft[T any, PT draft.Schema[T]](s *Service, kind models.Kind, raw []byte) (flow.Submission, validation.Result, error) {
	var d T
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &d); err != nil {
			return flow.Submission{}, validation.Result{}, fmt.Errorf("%w: %v", ErrDecode, err)
		}
	}
	PT(&d).Normalize()
	sub := flow.Submission{
		Kind:     kind,
		Category: PT(&d).Category(),
		Draft:    d,
		Quote:    PT(&d).Quote(s.rates),
	}
	return sub, s.gate.Validate(PT(&d)), nil
}
