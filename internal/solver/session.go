package solver

import (
	"sync"

	"github.com/aretw0/credence/pkg/belief"
)

// Session is the accumulating map of already-resolved variable beliefs within
// one solve call. It is treated as an immutable value: With returns a new
// session, the receiver is never mutated. Memoization works by threading
// sessions through the recursion by return value, so concurrent solves of the
// same snapshot share nothing mutable.
type Session map[string]belief.Belief

// NewSession merges the given layers left to right into a fresh session.
// Later layers override earlier ones (evidence over priors).
func NewSession(layers ...map[string]belief.Belief) Session {
	s := Session{}
	for _, layer := range layers {
		for name, b := range layer {
			s[name] = b
		}
	}
	return s
}

// Get looks up a resolved belief.
func (s Session) Get(name string) (belief.Belief, bool) {
	b, ok := s[name]
	return b, ok
}

// With returns a new session extended with name ↦ b.
func (s Session) With(name string, b belief.Belief) Session {
	next := make(Session, len(s)+1)
	for k, v := range s {
		next[k] = v
	}
	next[name] = b
	return next
}

// Deferred is a lazily-materialized, memoized-once prior table. The producer
// must be side-effect free: calling Get any number of times before a state
// transition yields the same value.
type Deferred struct {
	once sync.Once
	fn   func() map[string]belief.Belief
	val  map[string]belief.Belief
}

// Defer wraps a producer. The producer runs at most once, on first Get.
func Defer(fn func() map[string]belief.Belief) *Deferred {
	return &Deferred{fn: fn}
}

// Materialized wraps an already-computed prior table.
func Materialized(priors map[string]belief.Belief) *Deferred {
	return Defer(func() map[string]belief.Belief { return priors })
}

// Get materializes the table, computing it on the first call only.
func (d *Deferred) Get() map[string]belief.Belief {
	d.once.Do(func() {
		d.val = d.fn()
	})
	return d.val
}
