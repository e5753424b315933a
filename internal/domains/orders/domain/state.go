package domain

import (
	"errors"
	"strings"
)

// State enumerates order progression.
type State string

const (
	StateCreated    State = "CREATED"
	StateDispatched State = "DISPATCHED"
	StateDelivered  State = "DELIVERED"
)

var ErrInvalidState = errors.New("order state is invalid")

var wireLabels = map[State]string{
	StateCreated:    "CRIADO",
	StateDispatched: "ENVIADO",
	StateDelivered:  "ENTREGUE",
}

// ParseState accepts either the canonical name or the wire label, in any case.
func ParseState(value string) (State, error) {
	value = strings.ToUpper(strings.TrimSpace(value))
	for state, label := range wireLabels {
		if value == string(state) || value == label {
			return state, nil
		}
	}
	return "", ErrInvalidState
}

// Label returns the label used on the wire.
func (s State) Label() string {
	if label, ok := wireLabels[s]; ok {
		return label
	}
	return string(s)
}

// Valid reports whether s is a known state.
func (s State) Valid() bool {
	_, ok := wireLabels[s]
	return ok
}
