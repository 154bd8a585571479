package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/jinzhu/gorm"
	pkgerrors "github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"

	"booking-flow/internal/flow"
	"booking-flow/internal/models"
	"booking-flow/internal/pricing"
	"booking-flow/internal/repository"
	"booking-flow/internal/repository/cache"
	"booking-flow/internal/repository/postgres"
	svc "booking-flow/internal/service"
	"booking-flow/internal/validation"
)

type bookingsStub struct {
	mu        sync.Mutex
	byID      map[string]models.Booking
	creates   int
	createErr error
	getAllErr error
	hold      chan struct{}
}

func (b *bookingsStub) Create(bk models.Booking) error {
	if b.hold != nil {
		<-b.hold
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.creates++
	if b.createErr != nil {
		return b.createErr
	}
	if b.byID == nil {
		b.byID = map[string]models.Booking{}
	}
	for _, existing := range b.byID {
		if existing.IdempotencyKey == bk.IdempotencyKey {
			return pkgerrors.Wrapf(postgres.ErrDuplicate, "booking %s", bk.IdempotencyKey)
		}
	}
	b.byID[bk.ID] = bk
	return nil
}

func (b *bookingsStub) Get(id string) (models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	bk, ok := b.byID[id]
	if !ok {
		return models.Booking{}, gorm.ErrRecordNotFound
	}
	return bk, nil
}

func (b *bookingsStub) GetByKey(key string) (models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, bk := range b.byID {
		if bk.IdempotencyKey == key {
			return bk, nil
		}
	}
	return models.Booking{}, gorm.ErrRecordNotFound
}

func (b *bookingsStub) GetAll() ([]models.Booking, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.getAllErr != nil {
		return nil, b.getAllErr
	}
	out := make([]models.Booking, 0, len(b.byID))
	for _, bk := range b.byID {
		out = append(out, bk)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type eventsStub struct {
	mu   sync.Mutex
	sent map[string][]byte
	err  error
}

func (e *eventsStub) Publish(_ context.Context, key string, payload []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.err != nil {
		return e.err
	}
	if e.sent == nil {
		e.sent = map[string][]byte{}
	}
	e.sent[key] = payload
	return nil
}

type profilesStub map[string]models.Profile

func (p profilesStub) Profile(email string) (models.Profile, error) {
	prof, ok := p[email]
	if !ok {
		return models.Profile{}, errors.New("account not found")
	}
	return prof, nil
}

var _ repository.Bookings = (*bookingsStub)(nil)

func newRepo(b *bookingsStub) *repository.Repository {
	return &repository.Repository{
		Bookings:          b,
		ConfirmationCache: cache.NewConfirmationCache(cache.NewCache()),
		SessionCache:      cache.NewSessionCache(cache.NewShardedCache()),
	}
}

func ids() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func newService(b *bookingsStub, opts ...svc.Option) *svc.Service {
	opts = append([]svc.Option{svc.WithIDFunc(ids())}, opts...)
	return svc.NewService(newRepo(b), validation.NewGate(), opts...)
}

func validPackage() models.PackageDraft {
	return models.PackageDraft{
		SenderName:      "Ada Obi",
		SenderPhone:     "+234 801 234 5678",
		PickupAddress:   "12 Marina Road",
		DeliveryAddress: "4 Allen Avenue",
		PackageType:     "small",
		Weight:          7,
		PickupDate:      time.Date(2026, 11, 2, 9, 0, 0, 0, time.UTC),
		PaymentMethod:   "card",
	}
}

func submission(key string) flow.Submission {
	d := validPackage()
	return flow.Submission{
		Kind:           models.KindPackage,
		IdempotencyKey: key,
		Category:       d.Category(),
		Draft:          d,
		Quote:          d.Quote(pricing.DefaultRates()),
	}
}

func request(t *testing.T, kind models.Kind, key string, d any) []byte {
	t.Helper()
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	b, err := json.Marshal(models.BookingRequest{Kind: kind, IdempotencyKey: key, Draft: raw})
	require.NoError(t, err)
	return b
}

func TestSubmit_SameKeyRecordedOnce(t *testing.T) {
	b := &bookingsStub{}
	ev := &eventsStub{}
	s := newService(b, svc.WithEvents(ev))

	first, err := s.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)
	second, err := s.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, 1, b.creates)
	require.Equal(t, int64(1400), first.Total)
	require.Equal(t, "small", first.Category)
	require.Contains(t, ev.sent, first.ID)
}

func TestSubmit_DuplicateFromStore_ReturnsStoredConfirmation(t *testing.T) {
	b := &bookingsStub{byID: map[string]models.Booking{
		"earlier": {ID: "earlier", Kind: models.KindPackage, IdempotencyKey: "k1", Total: 1400},
	}}
	s := newService(b)

	conf, err := s.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)
	require.Equal(t, "earlier", conf.ID)

	cached, err := s.GetConfirmation("k1")
	require.NoError(t, err)
	require.Equal(t, "earlier", cached.ID)
}

func TestSubmit_StoreFailure_IsSinkError(t *testing.T) {
	b := &bookingsStub{createErr: fmt.Errorf("connection refused")}
	s := newService(b)

	_, err := s.Submit(context.Background(), submission("k1"))
	var se *flow.SinkError
	require.ErrorAs(t, err, &se)
	require.NotEmpty(t, se.Message)

	_, err = s.GetConfirmation("k1")
	require.Error(t, err, "failed submission must not be cached")
}

func TestSubmit_CanceledContext_NotRecorded(t *testing.T) {
	b := &bookingsStub{}
	s := newService(b)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Submit(ctx, submission("k1"))
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, b.creates)
}

func TestSubmit_PublishFailure_LoggedNotFatal(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	s := newService(&bookingsStub{}, svc.WithEvents(&eventsStub{err: fmt.Errorf("broker down")}))

	conf, err := s.Submit(context.Background(), submission("k1"))
	require.NoError(t, err)
	require.NotEmpty(t, conf.ID)

	found := false
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel && e.Message == "confirmation event not published" {
			found = true
		}
	}
	require.True(t, found, "expected warn log for failed publish")
}

func TestHandleMessage_Errors(t *testing.T) {
	s := newService(&bookingsStub{})

	err := s.HandleMessage(context.Background(), []byte("not json"))
	require.ErrorIs(t, err, svc.ErrDecode)

	err = s.HandleMessage(context.Background(), []byte(`{"kind":"rocket","draft":{}}`))
	require.ErrorIs(t, err, svc.ErrDecode)

	err = s.HandleMessage(context.Background(), []byte(`{"kind":"package","draft":{"weight":"heavy"}}`))
	require.ErrorIs(t, err, svc.ErrDecode)

	invalid := validPackage()
	invalid.DeliveryAddress = invalid.PickupAddress
	invalid.PaymentMethod = "barter"
	err = s.HandleMessage(context.Background(), request(t, models.KindPackage, "k1", invalid))
	require.ErrorIs(t, err, svc.ErrValidation)
	var verr *validation.Errors
	require.ErrorAs(t, err, &verr)
	require.Contains(t, verr.Fields, "delivery_address")
	require.Contains(t, verr.Fields, "payment_method")
}

func TestHandleMessage_RecordsBooking(t *testing.T) {
	b := &bookingsStub{}
	s := newService(b)

	require.NoError(t, s.HandleMessage(context.Background(), request(t, models.KindPackage, "req-1", validPackage())))

	bk, err := b.GetByKey("req-1")
	require.NoError(t, err)
	require.Equal(t, models.KindPackage, bk.Kind)
	require.Equal(t, int64(1400), bk.Total)

	var stored models.PackageDraft
	require.NoError(t, json.Unmarshal([]byte(bk.Payload), &stored))
	require.Equal(t, "Ada Obi", stored.SenderName)
}

func TestHandleMessage_WithoutKey_RedeliveryDeduped(t *testing.T) {
	b := &bookingsStub{}
	s := newService(b)
	msg := request(t, models.KindPackage, "", validPackage())

	require.NoError(t, s.HandleMessage(context.Background(), msg))
	require.NoError(t, s.HandleMessage(context.Background(), msg))
	require.Equal(t, 1, b.creates)
}

func TestHandleMessage_StoreFailure_Retryable(t *testing.T) {
	s := newService(&bookingsStub{createErr: fmt.Errorf("timeout")})

	err := s.HandleMessage(context.Background(), request(t, models.KindPackage, "k", validPackage()))
	require.Error(t, err)
	require.NotErrorIs(t, err, svc.ErrDecode)
	require.NotErrorIs(t, err, svc.ErrValidation)
}

func TestQuote_Textile(t *testing.T) {
	s := newService(&bookingsStub{})
	raw := []byte(`{"fabric":"ankara","selections":[{"color":"red","quantity":2,"length":3},{"color":"blue","quantity":1,"length":5}]}`)

	q, err := s.Quote(models.KindTextile, raw)
	require.NoError(t, err)
	require.Equal(t, int64(27500), q.Total)

	_, err = s.Quote(models.Kind("rocket"), raw)
	require.ErrorIs(t, err, svc.ErrUnknownKind)
}

func TestOpenSession_PrefillFromProfile(t *testing.T) {
	s := newService(&bookingsStub{}, svc.WithProfiles(profilesStub{
		"ada@example.com": {Name: "Ada Obi", Email: "ada@example.com", Phone: "08012345678"},
	}))

	id, view, err := s.OpenSession(models.KindLab, "ada@example.com", nil)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	d, ok := view.Draft.(models.LabBookingDraft)
	require.True(t, ok)
	require.Equal(t, "Ada Obi", d.PatientName)
	require.Equal(t, "ada@example.com", d.Email)

	// unknown account opens an empty draft
	_, view, err = s.OpenSession(models.KindLab, "ghost@example.com", nil)
	require.NoError(t, err)
	require.Empty(t, view.Draft.(models.LabBookingDraft).PatientName)
}

func TestOpenSession_Rejections(t *testing.T) {
	s := newService(&bookingsStub{})

	_, _, err := s.OpenSession(models.Kind("rocket"), "", nil)
	require.ErrorIs(t, err, svc.ErrUnknownKind)

	h := models.NewHandoff(models.KindTextile, "ankara", 27500, time.Time{})
	_, _, err = s.OpenSession(models.KindLab, "", &h)
	require.ErrorIs(t, err, svc.ErrHandoffUnsupported)
}

func TestOpenSession_CheckoutFromHandoff(t *testing.T) {
	s := newService(&bookingsStub{})
	h := models.NewHandoff(models.KindTextile, "ankara", 27500, time.Time{})

	_, view, err := s.OpenSession(models.KindCheckout, "", &h)
	require.NoError(t, err)
	require.Equal(t, int64(31875), view.Quote.Total)
}

func TestSession_EndToEnd(t *testing.T) {
	b := &bookingsStub{}
	s := newService(b, svc.WithSubmitTimeout(time.Second))

	id, _, err := s.OpenSession(models.KindPackage, "", nil)
	require.NoError(t, err)
	sess, err := s.GetSession(id)
	require.NoError(t, err)

	raw, err := json.Marshal(validPackage())
	require.NoError(t, err)
	_, err = sess.Patch(raw)
	require.NoError(t, err)
	for range len(flow.StepsFor(models.KindPackage)) - 1 {
		_, err = sess.Next()
		require.NoError(t, err)
	}

	conf, view, err := s.SubmitSession(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, flow.PhaseConfirmed, view.Phase)
	require.Equal(t, conf.ID, view.Confirmation.ID)
	require.Equal(t, int64(1400), conf.Total)
	require.Equal(t, 1, b.creates)

	require.NoError(t, s.CloseSession(id))
	_, err = s.GetSession(id)
	require.ErrorIs(t, err, svc.ErrNotFound)
	require.ErrorIs(t, s.CloseSession(id), svc.ErrNotFound)
}

func TestGetBooking_NotFound_Maps(t *testing.T) {
	s := newService(&bookingsStub{})

	_, err := s.GetBooking("nope")
	require.ErrorIs(t, err, svc.ErrNotFound)
}

func TestPutBookingsFromDbToCache(t *testing.T) {
	now := time.Now()
	b := &bookingsStub{byID: map[string]models.Booking{
		"a": {ID: "a", IdempotencyKey: "ka", CreatedAt: now.Add(-2 * time.Hour)},
		"b": {ID: "b", IdempotencyKey: "kb", CreatedAt: now.Add(-time.Hour)},
		"c": {ID: "c", IdempotencyKey: "kc", CreatedAt: now},
	}}
	s := newService(b, svc.WithWarmLimit(2))

	require.NoError(t, s.PutBookingsFromDbToCache())

	all, err := s.GetAllConfirmations()
	require.NoError(t, err)
	require.Len(t, all, 2)
	_, err = s.GetConfirmation("ka")
	require.Error(t, err, "oldest booking is beyond the warm limit")
}

func TestPutBookingsFromDbToCache_PropagatesError(t *testing.T) {
	s := newService(&bookingsStub{getAllErr: fmt.Errorf("db fail")})

	err := s.PutBookingsFromDbToCache()
	require.Error(t, err)
	require.Contains(t, err.Error(), "db fail")
}

func TestValidate_ReportsAllFields(t *testing.T) {
	s := newService(&bookingsStub{})

	res, err := s.Validate(models.KindCheckout, []byte(`{"items":[{"sku":"a","name":"Scarf","unit_price":0,"quantity":1}]}`))
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.Contains(t, res.FieldErrors, "full_name")
	require.Contains(t, res.FieldErrors, "payment_method")
	require.Contains(t, res.FieldErrors, "items[0].unit_price")

	_, err = s.Validate(models.KindCheckout, []byte(`[`))
	require.ErrorIs(t, err, svc.ErrDecode)
}

func TestValidate_RejectsOversizedUnitPrice(t *testing.T) {
	s := newService(&bookingsStub{})
	raw := []byte(`{"items":[{"sku":"a","name":"Scarf","unit_price":9223372036854775807,"quantity":2}],` +
		`"full_name":"Ada Obi","email":"ada@example.com","phone":"+2348012345678",` +
		`"address":"12 Marina Road","city":"Lagos","payment_method":"card"}`)

	res, err := s.Validate(models.KindCheckout, raw)
	require.NoError(t, err)
	require.False(t, res.Valid)
	require.Contains(t, res.FieldErrors, "items[0].unit_price")

	q, err := s.Quote(models.KindCheckout, raw)
	require.NoError(t, err)
	require.Positive(t, q.Subtotal)
	require.Positive(t, q.Tax)
	require.GreaterOrEqual(t, q.Total, q.Subtotal)
}

func readyPackageSession(t *testing.T, s *svc.Service) string {
	t.Helper()
	id, _, err := s.OpenSession(models.KindPackage, "", nil)
	require.NoError(t, err)
	sess, err := s.GetSession(id)
	require.NoError(t, err)

	raw, err := json.Marshal(validPackage())
	require.NoError(t, err)
	_, err = sess.Patch(raw)
	require.NoError(t, err)
	for range len(flow.StepsFor(models.KindPackage)) - 1 {
		_, err = sess.Next()
		require.NoError(t, err)
	}
	return id
}

func TestSubmitSession_DeadlineWhileStoreHangs(t *testing.T) {
	b := &bookingsStub{hold: make(chan struct{})}
	s := newService(b, svc.WithSubmitTimeout(30*time.Millisecond))
	id := readyPackageSession(t, s)

	_, view, err := s.SubmitSession(context.Background(), id)
	var se *flow.SinkError
	require.ErrorAs(t, err, &se)
	require.Equal(t, flow.TimeoutMessage, se.Message)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Equal(t, flow.PhaseProcessing, view.Phase)

	_, _, err = s.SubmitSession(context.Background(), id)
	require.ErrorIs(t, err, flow.ErrSubmissionInFlight)

	close(b.hold)
	sess, err := s.GetSession(id)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return sess.View().Phase == flow.PhaseConfirmed
	}, time.Second, 5*time.Millisecond)
	require.Equal(t, 1, b.creates)
}

func TestSubmit_TextileLogsMeters(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	s := newService(&bookingsStub{})
	d := models.TextileDraft{
		Fabric: "lace",
		Selections: models.SelectionSet{
			{Color: "red", Quantity: 2, Length: 3},
			{Color: "blue", Quantity: 1, Length: 5},
		},
	}
	_, err := s.Submit(context.Background(), flow.Submission{
		Kind:           models.KindTextile,
		IdempotencyKey: "kt",
		Category:       d.Fabric,
		Draft:          d,
		Quote:          d.Quote(pricing.DefaultRates()),
	})
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	require.Equal(t, "booking recorded", entry.Message)
	require.Equal(t, 11, entry.Data["meters"])
}

func TestRecentConfirmations_NewestFirst(t *testing.T) {
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)
	b := &bookingsStub{byID: map[string]models.Booking{
		"a": {ID: "a", IdempotencyKey: "ka", CreatedAt: now.Add(-time.Hour)},
		"b": {ID: "b", IdempotencyKey: "kb", CreatedAt: now},
	}}
	s := newService(b)
	require.NoError(t, s.PutBookingsFromDbToCache())

	all, err := s.RecentConfirmations()
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "b", all[0].ID)
	require.Equal(t, "a", all[1].ID)
}
