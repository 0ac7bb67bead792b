package ports

import (
	"context"

	"github.com/aretw0/credence/pkg/domain"
)

// NetworkLoader defines how the engine retrieves network descriptions.
// This allows the storage layer (files, Loam, memory) to be decoupled.
type NetworkLoader interface {
	// Load reads the present-time description and, when the source defines
	// temporal step rules, the next-time-step description (nil otherwise).
	Load(ctx context.Context) (present, future *domain.Description, err error)
}

// Watchable defines an interface for loaders that can notify about backend
// changes, typically for hot-reload in dev mode.
type Watchable interface {
	// Watch returns a channel that is signaled when the underlying source
	// changes. It abstracts away the event details, signaling only that a
	// reload is required.
	Watch(ctx context.Context) (<-chan struct{}, error)
}
