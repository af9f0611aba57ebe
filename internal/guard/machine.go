package guard

import (
	"sync"

	"github.com/Gourab-ghosh21/digital-spark/internal/session"
)

// Observable is the read side of a Session Store.
type Observable interface {
	State() session.State
	OnChange(fn func(session.State)) (unsubscribe func())
}

type Transition struct {
	From Phase
	To   Phase
}

// Machine tracks the guard phase of one store. It moves only on change
// notifications from that store; there are no timers.
type Machine struct {
	mu          sync.Mutex
	phase       Phase
	transitions []Transition
	onChange    func(Transition)
	unsub       func()
}

// NewMachine starts in the phase of the store's current state and calls
// onTransition (if set) whenever a notification changes the phase.
func NewMachine(store Observable, onTransition func(Transition)) *Machine {
	m := &Machine{onChange: onTransition}

	// Subscribe before reading the state so no change slips in between.
	m.mu.Lock()
	m.unsub = store.OnChange(m.observe)
	m.phase = Evaluate(store.State())
	m.mu.Unlock()
	return m
}

func (m *Machine) observe(st session.State) {
	next := Evaluate(st)

	m.mu.Lock()
	if next == m.phase {
		m.mu.Unlock()
		return
	}
	tr := Transition{From: m.phase, To: next}
	m.phase = next
	m.transitions = append(m.transitions, tr)
	fn := m.onChange
	m.mu.Unlock()

	if fn != nil {
		fn(tr)
	}
}

func (m *Machine) Phase() Phase {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase
}

// Transitions returns the phase changes observed so far, oldest first.
func (m *Machine) Transitions() []Transition {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Transition, len(m.transitions))
	copy(out, m.transitions)
	return out
}

// Close stops observing the store. Safe to call more than once.
func (m *Machine) Close() {
	m.unsub()
}
