// Package optimistic tracks client-side writes that are shown before the
// server has confirmed them.
package optimistic

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var (
	// ErrInFlight is returned by Begin when the entity already has an
	// unsettled write.
	ErrInFlight = errors.New("an update for this item is already in progress")

	// ErrStaleTicket is returned when a ticket has already been settled.
	ErrStaleTicket = errors.New("optimistic ticket already settled")
)

type Phase int

const (
	Confirmed Phase = iota
	Pending
	Reconciling
)

func (p Phase) String() string {
	switch p {
	case Pending:
		return "pending"
	case Reconciling:
		return "reconciling"
	default:
		return "confirmed"
	}
}

// Ticket identifies one optimistic write.
type Ticket[K comparable] struct {
	Key K
	ID  string
}

type entry[V any] struct {
	phase     Phase
	value     V
	confirmed V
	ticket    string
}

// Tracker holds per-entity optimistic state. Writes to the same key are
// serialised: a second Begin fails until the first is confirmed or rolled
// back.
type Tracker[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[V]
	onSettle func(key K, phase Phase)
}

func NewTracker[K comparable, V any]() *Tracker[K, V] {
	return &Tracker[K, V]{entries: make(map[K]*entry[V])}
}

// OnSettle registers fn to run exactly once per ticket, when it is confirmed
// or rolled back. fn runs without the tracker lock held.
func (t *Tracker[K, V]) OnSettle(fn func(key K, phase Phase)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSettle = fn
}

// Begin records that key currently holds confirmed and is being changed to
// optimistic.
func (t *Tracker[K, V]) Begin(key K, confirmed, optimistic V) (Ticket[K], error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok && e.phase != Confirmed {
		return Ticket[K]{}, ErrInFlight
	}
	tk := Ticket[K]{Key: key, ID: uuid.NewString()}
	t.entries[key] = &entry[V]{
		phase:     Pending,
		value:     optimistic,
		confirmed: confirmed,
		ticket:    tk.ID,
	}
	return tk, nil
}

// Reconcile marks that the server accepted the write and the authoritative
// value is being fetched.
func (t *Tracker[K, V]) Reconcile(tk Ticket[K]) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	e, err := t.live(tk)
	if err != nil {
		return err
	}
	e.phase = Reconciling
	return nil
}

// Confirm settles the write with the authoritative value.
func (t *Tracker[K, V]) Confirm(tk Ticket[K], value V) error {
	t.mu.Lock()
	e, err := t.live(tk)
	if err != nil {
		t.mu.Unlock()
		return err
	}
	e.phase = Confirmed
	e.value = value
	e.confirmed = value
	e.ticket = ""
	fn := t.onSettle
	t.mu.Unlock()

	if fn != nil {
		fn(tk.Key, Confirmed)
	}
	return nil
}

// Rollback settles the write by restoring the value held before Begin and
// returns it.
func (t *Tracker[K, V]) Rollback(tk Ticket[K]) (V, error) {
	t.mu.Lock()
	e, err := t.live(tk)
	if err != nil {
		t.mu.Unlock()
		var zero V
		return zero, err
	}
	e.phase = Confirmed
	e.value = e.confirmed
	e.ticket = ""
	prev := e.confirmed
	fn := t.onSettle
	t.mu.Unlock()

	if fn != nil {
		fn(tk.Key, Confirmed)
	}
	return prev, nil
}

// Get returns the value currently shown for key and its phase.
func (t *Tracker[K, V]) Get(key K) (V, Phase, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[key]
	if !ok {
		var zero V
		return zero, Confirmed, false
	}
	return e.value, e.phase, true
}

// Pending reports whether key has an unsettled write.
func (t *Tracker[K, V]) Pending(key K) bool {
	_, phase, _ := t.Get(key)
	return phase != Confirmed
}

// InFlight lists every key with an unsettled write.
func (t *Tracker[K, V]) InFlight() []K {
	t.mu.Lock()
	defer t.mu.Unlock()
	var keys []K
	for k, e := range t.entries {
		if e.phase != Confirmed {
			keys = append(keys, k)
		}
	}
	return keys
}

func (t *Tracker[K, V]) live(tk Ticket[K]) (*entry[V], error) {
	e, ok := t.entries[tk.Key]
	if !ok || e.ticket == "" || e.ticket != tk.ID {
		return nil, ErrStaleTicket
	}
	return e, nil
}
