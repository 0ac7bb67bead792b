package domain

import "errors"

// ErrUnknownVariable is returned when a name does not appear in the network.
var ErrUnknownVariable = errors.New("unknown variable")

// ErrOutcomeNotInDomain is returned when evidence names an outcome outside the
// variable's declared outcome domain.
var ErrOutcomeNotInDomain = errors.New("outcome not in variable domain")

// ErrSessionNotFound is returned when a session ID cannot be found in a store.
var ErrSessionNotFound = errors.New("session not found")
