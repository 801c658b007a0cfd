// Package fsm provides the current/next/entry-edge bookkeeping shared by the
// panel's state machines.
package fsm

// Machine holds one closed state enumeration across control cycles. A
// transition requested during a cycle takes effect on Commit, and JustEntered
// reports true for exactly the one cycle after that, starting at the next Tick.
type Machine[S comparable] struct {
	current S
	next    S
	pending bool
	entered bool
}

// New starts the machine in initial. The initial state counts as entered, so
// entry actions run on the first cycle.
func New[S comparable](initial S) *Machine[S] {
	return &Machine[S]{current: initial, next: initial, pending: true}
}

func (m *Machine[S]) Current() S {
	return m.current
}

// Next is the state requested for this cycle, equal to Current when nothing
// has been requested.
func (m *Machine[S]) Next() S {
	return m.next
}

// Request replaces any earlier request made this cycle.
func (m *Machine[S]) Request(s S) {
	m.next = s
}

// Commit applies the pending request. It returns the state left behind and
// whether the current state changed.
func (m *Machine[S]) Commit() (S, bool) {
	prev := m.current
	if m.next == m.current {
		return prev, false
	}
	m.current = m.next
	m.pending = true
	return prev, true
}

// Tick starts a new cycle and moves the entry edge forward.
func (m *Machine[S]) Tick() {
	m.entered = m.pending
	m.pending = false
	m.next = m.current
}

func (m *Machine[S]) JustEntered() bool {
	return m.entered
}
