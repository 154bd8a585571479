package draft

import (
	"encoding/json"
	stderrors "errors"
	"sync"

	"github.com/pkg/errors"

	"booking-flow/internal/models"
	"booking-flow/internal/pricing"
)

var ErrPatch = stderrors.New("invalid draft patch")

// Schema is the contract of a statically declared draft record.
type Schema[T any] interface {
	*T
	Normalize()
	Completion() (filled, total int)
	Clone() T
	Prefill(p models.Profile)
	Quote(r pricing.Rates) pricing.Quote
	Category() string
}

// Mutation edits one or more fields of a draft.
type Mutation[T any] func(d *T) error

// Range scales completion into a display percentage.
type Range struct {
	Min int
	Max int
}

var DefaultRange = Range{Min: 25, Max: 100}

func (r Range) Scale(filled, total int) int {
	if total <= 0 {
		return r.Max
	}
	if filled > total {
		filled = total
	}
	return r.Min + (r.Max-r.Min)*filled/total
}

// Snapshot is a read-only view of the draft with its derived values.
type Snapshot[T any] struct {
	Draft    T             `json:"draft"`
	Progress int           `json:"progress"`
	Quote    pricing.Quote `json:"quote"`
}

// Store owns one draft. Derived values are computed from the current draft on
// every read, so a stale total is never observable.
type Store[T any, PT Schema[T]] struct {
	mu       sync.Mutex
	initial  T
	draft    T
	rates    pricing.Rates
	progress Range
	watchers []func(Snapshot[T])
}

type Option[T any, PT Schema[T]] func(*Store[T, PT])

func WithRange[T any, PT Schema[T]](r Range) Option[T, PT] {
	return func(s *Store[T, PT]) { s.progress = r }
}

// OnChange registers a callback invoked synchronously after every Set/Reset.
func OnChange[T any, PT Schema[T]](fn func(Snapshot[T])) Option[T, PT] {
	return func(s *Store[T, PT]) { s.watchers = append(s.watchers, fn) }
}

func New[T any, PT Schema[T]](initial T, rates pricing.Rates, opts ...Option[T, PT]) *Store[T, PT] {
	PT(&initial).Normalize()
	s := &Store[T, PT]{
		initial:  PT(&initial).Clone(),
		draft:    PT(&initial).Clone(),
		rates:    rates,
		progress: DefaultRange,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Get returns a deep copy of the draft.
func (s *Store[T, PT]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return PT(&s.draft).Clone()
}

// Set applies mutations to a working copy; the draft is replaced only when
// all of them succeed.
func (s *Store[T, PT]) Set(muts ...Mutation[T]) (Snapshot[T], error) {
	s.mu.Lock()
	work := PT(&s.draft).Clone()
	for _, m := range muts {
		if err := m(&work); err != nil {
			s.mu.Unlock()
			return Snapshot[T]{}, err
		}
	}
	PT(&work).Normalize()
	s.draft = work
	snap := s.snapshotLocked()
	watchers := s.watchers
	s.mu.Unlock()

	notify(watchers, snap)
	return snap, nil
}

// Patch decodes a partial JSON document over the draft. Only present keys
// change; a type mismatch leaves the draft untouched.
func (s *Store[T, PT]) Patch(raw []byte) (Snapshot[T], error) {
	return s.Set(FromJSON[T](raw))
}

// Reset restores the initial (possibly prefilled) draft.
func (s *Store[T, PT]) Reset() Snapshot[T] {
	s.mu.Lock()
	s.draft = PT(&s.initial).Clone()
	snap := s.snapshotLocked()
	watchers := s.watchers
	s.mu.Unlock()

	notify(watchers, snap)
	return snap
}

func (s *Store[T, PT]) Snapshot() Snapshot[T] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store[T, PT]) Rates() pricing.Rates { return s.rates }

func (s *Store[T, PT]) snapshotLocked() Snapshot[T] {
	p := PT(&s.draft)
	filled, total := p.Completion()
	return Snapshot[T]{
		Draft:    p.Clone(),
		Progress: s.progress.Scale(filled, total),
		Quote:    p.Quote(s.rates),
	}
}

func notify[T any](watchers []func(Snapshot[T]), snap Snapshot[T]) {
	for _, w := range watchers {
		w(snap)
	}
}

func FromJSON[T any](raw []byte) Mutation[T] {
	return func(d *T) error {
		if err := json.Unmarshal(raw, d); err != nil {
			return errors.Wrap(ErrPatch, err.Error())
		}
		return nil
	}
}
