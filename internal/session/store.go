package session

import (
	"context"
	"sync"

	"github.com/Gourab-ghosh21/digital-spark/internal/domain"
)

// State is a snapshot of one client's session.
// While Loading is true, Identity is not authoritative.
type State struct {
	Identity *domain.Identity `json:"identity"`
	Loading  bool             `json:"loading"`
}

// Authenticated reports whether the state carries an authoritative identity.
func (s State) Authenticated() bool {
	return !s.Loading && s.Identity != nil
}

type listener struct {
	id int
	fn func(State)
}

type notification struct {
	state State
	fns   []func(State)
}

// Store holds the current identity of one client plus a loading flag.
// Reads are open to anyone; Resolve and Clear are reserved for the auth gateway.
//
// Notifications are delivered in mutation order. A mutation made while another
// goroutine is delivering is queued and delivered by that goroutine, so the
// last state a listener sees is always the store's current state.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []listener
	nextID    int
	settled   chan struct{}

	pending     []notification
	dispatching bool
}

// NewStore returns a store in the loading state with no identity.
func NewStore() *Store {
	return &Store{
		state:   State{Loading: true},
		settled: make(chan struct{}),
	}
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// OnChange registers fn to be called after every mutation, in registration order.
// The returned func removes it and is safe to call more than once.
func (s *Store) OnChange(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l.id == id {
					s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Resolve sets the identity (nil for none) and ends loading.
func (s *Store) Resolve(id *domain.Identity) {
	var cp *domain.Identity
	if id != nil {
		v := *id
		cp = &v
	}
	s.set(State{Identity: cp})
}

// Settle resolves the store only while it is still loading and reports whether it did.
// A sign-in or sign-out that already settled the store wins over a late session fetch.
func (s *Store) Settle(id *domain.Identity) bool {
	var cp *domain.Identity
	if id != nil {
		v := *id
		cp = &v
	}
	return s.setIf(State{Identity: cp}, func(cur State) bool { return cur.Loading })
}

// Clear drops the identity and ends loading.
func (s *Store) Clear() {
	s.set(State{})
}

// Wait blocks until the store has left the loading state or ctx is done.
func (s *Store) Wait(ctx context.Context) (State, error) {
	s.mu.Lock()
	ch := s.settled
	s.mu.Unlock()

	select {
	case <-ch:
		return s.State(), nil
	case <-ctx.Done():
		return s.State(), ctx.Err()
	}
}

func (s *Store) set(next State) {
	s.setIf(next, nil)
}

func (s *Store) setIf(next State, cond func(State) bool) bool {
	s.mu.Lock()
	if cond != nil && !cond(s.state) {
		s.mu.Unlock()
		return false
	}
	s.state = next
	if !next.Loading {
		select {
		case <-s.settled:
		default:
			close(s.settled)
		}
	}
	fns := make([]func(State), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	s.pending = append(s.pending, notification{state: s.snapshot(), fns: fns})
	if s.dispatching {
		s.mu.Unlock()
		return true
	}
	s.dispatching = true
	s.mu.Unlock()

	s.dispatch()
	return true
}

// dispatch drains queued notifications in order. Only one goroutine
// dispatches at a time.
func (s *Store) dispatch() {
	defer func() {
		if r := recover(); r != nil {
			s.mu.Lock()
			s.dispatching = false
			s.mu.Unlock()
			panic(r)
		}
	}()

	for {
		s.mu.Lock()
		if len(s.pending) == 0 {
			s.dispatching = false
			s.mu.Unlock()
			return
		}
		n := s.pending[0]
		s.pending[0] = notification{}
		s.pending = s.pending[1:]
		s.mu.Unlock()

		for _, fn := range n.fns {
			fn(n.state)
		}
	}
}

// snapshot copies the state so callers never share the identity pointer. mu must be held.
func (s *Store) snapshot() State {
	out := State{Loading: s.state.Loading}
	if s.state.Identity != nil {
		v := *s.state.Identity
		out.Identity = &v
	}
	return out
}
