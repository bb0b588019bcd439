// Package payment models the checkout payment lifecycle as an explicit state
// machine over the processor's payment-intent statuses. The frontend observes
// intent statuses through the processor's client library and reports them
// back; this package decides what each status means for the flow and which
// moves are legal, so retry and idempotency rules live in one place.
package payment

import (
	"errors"
	"fmt"
)

type State string

const (
	StateQuoting    State = "quoting"
	StateDrafting   State = "drafting"
	StateCreating   State = "creating"
	StateConfirming State = "confirming"
	StateProcessing State = "processing"
	StateSucceeded  State = "succeeded"
	StateFailed     State = "failed"
	StateReconciled State = "reconciled"
)

// IntentStatus is a payment-intent status as reported by the processor.
type IntentStatus string

const (
	IntentRequiresPaymentMethod IntentStatus = "requires_payment_method"
	IntentRequiresConfirmation  IntentStatus = "requires_confirmation"
	IntentRequiresAction        IntentStatus = "requires_action"
	IntentProcessing            IntentStatus = "processing"
	IntentSucceeded             IntentStatus = "succeeded"
	IntentCanceled              IntentStatus = "canceled"
)

var ErrInvalidTransition = errors.New("invalid payment state transition")

// transitions lists the legal moves. failed -> confirming is the in-place
// retry; succeeded and processing both end in reconciled because booking
// state is always re-read from the backend afterwards.
var transitions = map[State][]State{
	StateQuoting:    {StateDrafting},
	StateDrafting:   {StateQuoting, StateCreating},
	StateCreating:   {StateConfirming, StateFailed},
	StateConfirming: {StateProcessing, StateSucceeded, StateFailed},
	StateProcessing: {StateSucceeded, StateFailed, StateReconciled},
	StateSucceeded:  {StateReconciled},
	StateFailed:     {StateConfirming},
	StateReconciled: {},
}

// Machine is a single checkout flow's payment lifecycle.
type Machine struct {
	state State
}

// Resume builds a machine in the given state. A fresh flow resumes from
// StateQuoting; re-entering the flow for a booking that was created earlier
// but never paid resumes from wherever its intent status places it.
func Resume(s State) *Machine {
	return &Machine{state: s}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Advance(to State) error {
	if m.state == to {
		// Re-applying the current state is a no-op, never an error. This is
		// what makes confirm idempotent from the UI's perspective.
		return nil
	}
	for _, allowed := range transitions[m.state] {
		if allowed == to {
			m.state = to
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, to)
}

// CanSubmit reports whether confirming the intent (again) is legal. Submission
// is only allowed while the payment UI is up or after a failure; an intent
// that already succeeded must never be re-confirmed.
func (m *Machine) CanSubmit() bool {
	return m.state == StateConfirming || m.state == StateFailed
}

// Terminal reports whether the flow is finished.
func (m *Machine) Terminal() bool {
	return m.state == StateReconciled
}

// FromIntentStatus maps a processor intent status to the flow state it implies.
func FromIntentStatus(s IntentStatus) State {
	switch s {
	case IntentRequiresPaymentMethod, IntentRequiresConfirmation, IntentRequiresAction:
		return StateConfirming
	case IntentProcessing:
		return StateProcessing
	case IntentSucceeded:
		return StateSucceeded
	default:
		return StateFailed
	}
}

// ApplyIntentStatus advances the machine according to an observed intent
// status. Observing "succeeded" on an already-succeeded machine is a no-op;
// observing anything that would regress a succeeded payment is rejected.
func (m *Machine) ApplyIntentStatus(s IntentStatus) (State, error) {
	next := FromIntentStatus(s)
	if err := m.Advance(next); err != nil {
		return m.state, err
	}
	return m.state, nil
}
