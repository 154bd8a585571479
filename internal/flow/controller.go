package flow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"booking-flow/internal/draft"
	"booking-flow/internal/models"
	"booking-flow/internal/pricing"
	"booking-flow/internal/validation"
)

type Phase string

const (
	PhaseEditing    Phase = "editing"
	PhaseProcessing Phase = "processing"
	PhaseConfirmed  Phase = "confirmed"
)

type View struct {
	Kind         models.Kind          `json:"kind"`
	Step         string               `json:"step"`
	StepIndex    int                  `json:"step_index"`
	Steps        []string             `json:"steps"`
	Phase        Phase                `json:"phase"`
	Progress     int                  `json:"progress"`
	Quote        pricing.Quote        `json:"quote"`
	Draft        any                  `json:"draft"`
	Banner       string               `json:"banner,omitempty"`
	Confirmation *models.Confirmation `json:"confirmation,omitempty"`
}

// Session is a flow with its draft type erased, as driven by the transports.
type Session interface {
	Kind() models.Kind
	View() View
	Patch(raw []byte) (View, error)
	Next() (View, error)
	Back() (View, error)
	Reset() (View, error)
	DismissError() View
	Submit(ctx context.Context) (models.Confirmation, error)
	SubmitAsync(ctx context.Context) <-chan Result
	Handoff() models.Handoff
	Detach()
}

type Result struct {
	Confirmation models.Confirmation
	Err          error
}

type Deps struct {
	Gate  *validation.Gate
	Sink  Sink
	Rates pricing.Rates
}

// Controller walks a draft through its steps: forward only past a passing
// step, back one step at a time, one-way into Confirmed.
type Controller[T any, PT draft.Schema[T]] struct {
	kind   models.Kind
	store  *draft.Store[T, PT]
	gate   *validation.Gate
	sink   Sink
	steps  []Step
	newKey func() string

	mu        sync.Mutex
	cur       int
	phase     Phase
	key       string
	banner    string
	confirmed *models.Confirmation
	scheduled time.Time
	detached  bool
}

type Option func(*settings)

type settings struct {
	steps  []Step
	newKey func() string
	rng    *draft.Range
}

func WithSteps(steps []Step) Option { return func(s *settings) { s.steps = steps } }

func WithKeyFunc(fn func() string) Option { return func(s *settings) { s.newKey = fn } }

func WithProgressRange(r draft.Range) Option { return func(s *settings) { s.rng = &r } }

func New[T any, PT draft.Schema[T]](kind models.Kind, initial T, deps Deps, opts ...Option) *Controller[T, PT] {
	st := settings{steps: StepsFor(kind), newKey: uuid.NewString}
	for _, o := range opts {
		o(&st)
	}
	if len(st.steps) == 0 {
		st.steps = []Step{{Name: "details"}}
	}
	storeOpts := []draft.Option[T, PT]{
		draft.OnChange[T, PT](func(snap draft.Snapshot[T]) {
			logrus.WithFields(logrus.Fields{
				"kind":     kind,
				"progress": snap.Progress,
				"total":    snap.Quote.Total,
			}).Debug("draft changed")
		}),
	}
	if st.rng != nil {
		storeOpts = append(storeOpts, draft.WithRange[T, PT](*st.rng))
	}
	return &Controller[T, PT]{
		kind:   kind,
		store:  draft.New[T, PT](initial, deps.Rates, storeOpts...),
		gate:   deps.Gate,
		sink:   deps.Sink,
		steps:  st.steps,
		newKey: st.newKey,
		phase:  PhaseEditing,
		key:    st.newKey(),
	}
}

func (c *Controller[T, PT]) Kind() models.Kind { return c.kind }

// Store exposes typed field access for in-process callers.
func (c *Controller[T, PT]) Store() *draft.Store[T, PT] { return c.store }

// IdempotencyKey identifies the current draft revision towards the sink.
func (c *Controller[T, PT]) IdempotencyKey() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.key
}

func (c *Controller[T, PT]) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewLocked()
}

func (c *Controller[T, PT]) viewLocked() View {
	snap := c.store.Snapshot()
	v := View{
		Kind:      c.kind,
		Step:      c.steps[c.cur].Name,
		StepIndex: c.cur,
		Steps:     names(c.steps),
		Phase:     c.phase,
		Progress:  snap.Progress,
		Quote:     snap.Quote,
		Draft:     snap.Draft,
		Banner:    c.banner,
	}
	if c.confirmed != nil {
		conf := *c.confirmed
		v.Confirmation = &conf
	}
	return v
}

// editable reports why the draft cannot be changed right now.
func (c *Controller[T, PT]) editableLocked() error {
	switch {
	case c.detached:
		return ErrDetached
	case c.phase == PhaseConfirmed:
		return ErrConfirmed
	case c.phase == PhaseProcessing:
		return ErrSubmissionInFlight
	}
	return nil
}

// Set applies typed mutations to the draft.
func (c *Controller[T, PT]) Set(muts ...draft.Mutation[T]) (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.viewLocked(), err
	}
	if _, err := c.store.Set(muts...); err != nil {
		return c.viewLocked(), err
	}
	return c.viewLocked(), nil
}

func (c *Controller[T, PT]) Patch(raw []byte) (View, error) {
	return c.Set(draft.FromJSON[T](raw))
}

func (c *Controller[T, PT]) Next() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.viewLocked(), err
	}
	if c.cur == len(c.steps)-1 {
		return c.viewLocked(), ErrNoNextStep
	}
	d := c.store.Get()
	res := c.gate.Validate(PT(&d)).Only(c.steps[c.cur].Fields...)
	if err := res.Err(); err != nil {
		return c.viewLocked(), err
	}
	c.cur++
	return c.viewLocked(), nil
}

// Back never validates and never touches the draft.
func (c *Controller[T, PT]) Back() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.viewLocked(), err
	}
	if c.cur > 0 {
		c.cur--
	}
	return c.viewLocked(), nil
}

// Reset discards the draft and returns to the first step.
func (c *Controller[T, PT]) Reset() (View, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.editableLocked(); err != nil {
		return c.viewLocked(), err
	}
	c.store.Reset()
	c.cur = 0
	c.banner = ""
	c.key = c.newKey()
	return c.viewLocked(), nil
}

func (c *Controller[T, PT]) DismissError() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.banner = ""
	return c.viewLocked()
}

// Submit validates the whole draft and hands it to the sink. While the sink
// call is pending the flow is Processing and further submits are refused
// without reaching the sink.
func (c *Controller[T, PT]) Submit(ctx context.Context) (models.Confirmation, error) {
	c.mu.Lock()
	if err := c.editableLocked(); err != nil {
		c.mu.Unlock()
		return models.Confirmation{}, err
	}
	if c.cur != len(c.steps)-1 {
		c.mu.Unlock()
		return models.Confirmation{}, ErrNotFinalStep
	}
	d := c.store.Get()
	if err := c.gate.Validate(PT(&d)).Err(); err != nil {
		c.mu.Unlock()
		return models.Confirmation{}, err
	}
	sub := Submission{
		Kind:           c.kind,
		IdempotencyKey: c.key,
		Category:       PT(&d).Category(),
		Draft:          d,
		Quote:          PT(&d).Quote(c.store.Rates()),
	}
	c.phase = PhaseProcessing
	c.banner = ""
	c.mu.Unlock()

	conf, err := c.call(ctx, sub)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.detached {
		// the owner is gone; nothing left to update
		return conf, err
	}
	log := logrus.WithFields(logrus.Fields{"kind": c.kind, "key": sub.IdempotencyKey})
	if err != nil {
		c.phase = PhaseEditing
		c.banner = UserMessage(err)
		var ue *UnexpectedError
		if errors.As(err, &ue) {
			log.WithError(err).Error("submission failed unexpectedly")
		} else {
			log.WithError(err).Warn("submission rejected by sink")
		}
		return models.Confirmation{}, err
	}

	if s, ok := any(PT(&d)).(interface{ Schedule() time.Time }); ok {
		c.scheduled = s.Schedule()
	}
	c.store.Reset()
	c.phase = PhaseConfirmed
	c.confirmed = &conf
	c.key = c.newKey()
	log.WithField("confirmation", conf.ID).Info("submission confirmed")
	return conf, nil
}

// SubmitAsync runs Submit in the background and delivers exactly one Result.
func (c *Controller[T, PT]) SubmitAsync(ctx context.Context) <-chan Result {
	out := make(chan Result, 1)
	go func() {
		conf, err := c.Submit(ctx)
		out <- Result{Confirmation: conf, Err: err}
		close(out)
	}()
	return out
}

func (c *Controller[T, PT]) call(ctx context.Context, sub Submission) (conf models.Confirmation, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &UnexpectedError{Err: fmt.Errorf("sink panic: %v", r)}
		}
	}()

	conf, err = c.sink.Submit(ctx, sub)
	if err == nil {
		return conf, nil
	}
	var se *SinkError
	switch {
	case errors.As(err, &se):
		return models.Confirmation{}, err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return models.Confirmation{}, &SinkError{Message: TimeoutMessage, Err: err}
	default:
		return models.Confirmation{}, &UnexpectedError{Err: err}
	}
}

// Handoff snapshots the selected category and price for the next screen.
// After confirmation it describes the confirmed order.
func (c *Controller[T, PT]) Handoff() models.Handoff {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.confirmed != nil {
		h := models.NewHandoff(c.kind, c.confirmed.Category, c.confirmed.Total, c.scheduled)
		h.ConfirmationID = c.confirmed.ID
		return h
	}
	d := c.store.Get()
	var at time.Time
	if s, ok := any(PT(&d)).(interface{ Schedule() time.Time }); ok {
		at = s.Schedule()
	}
	return models.NewHandoff(c.kind, PT(&d).Category(), PT(&d).Quote(c.store.Rates()).Total, at)
}

// Detach marks the owner as gone. Late sink results become no-ops.
func (c *Controller[T, PT]) Detach() {
	c.mu.Lock()
	c.detached = true
	c.mu.Unlock()
}

var _ Session = (*Controller[models.PackageDraft, *models.PackageDraft])(nil)
