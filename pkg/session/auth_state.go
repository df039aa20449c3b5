package session

import (
	"errors"
	"fmt"
)

// AuthState is the authentication state of a Store.
type AuthState string

const (
	StateUnknown       AuthState = "unknown"
	StateAnonymous     AuthState = "anonymous"
	StateAuthenticated AuthState = "authenticated"
)

// AuthEvent drives AuthState transitions.
type AuthEvent string

const (
	EventSessionFound   AuthEvent = "session_found"
	EventSessionMissing AuthEvent = "session_missing"
	EventLogin          AuthEvent = "login"
	EventLogout         AuthEvent = "logout"
	EventUnauthorized   AuthEvent = "unauthorized"
)

// transitions is indexed [from][event] -> to.
var transitions = map[AuthState]map[AuthEvent]AuthState{
	StateUnknown: {
		EventSessionFound:   StateAuthenticated,
		EventSessionMissing: StateAnonymous,
		EventLogin:          StateAuthenticated,
		EventLogout:         StateAnonymous,
	},
	StateAnonymous: {
		EventSessionFound:   StateAuthenticated,
		EventSessionMissing: StateAnonymous,
		EventLogin:          StateAuthenticated,
		EventLogout:         StateAnonymous,
	},
	StateAuthenticated: {
		EventSessionFound:   StateAuthenticated,
		EventSessionMissing: StateAnonymous,
		EventLogin:          StateAuthenticated,
		EventLogout:         StateAnonymous,
		EventUnauthorized:   StateAnonymous,
	},
}

// TransitionError reports an event that has no transition from a state.
type TransitionError struct {
	From  AuthState
	Event AuthEvent
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("no transition available from state '%s' for event '%s'", e.From, e.Event)
}

func NewTransitionError(from AuthState, event AuthEvent) *TransitionError {
	return &TransitionError{From: from, Event: event}
}

func IsTransitionError(err error) bool {
	var e *TransitionError
	return errors.As(err, &e)
}

// Transition returns the state reached from `from` on event. An unknown
// pair leaves the state unchanged and returns ErrInvalidTransition joined
// with a *TransitionError.
func Transition(from AuthState, event AuthEvent) (AuthState, error) {
	if to, ok := transitions[from][event]; ok {
		return to, nil
	}
	return from, errors.Join(ErrInvalidTransition, NewTransitionError(from, event))
}
