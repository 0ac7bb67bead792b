// Package loam loads network descriptions from a Loam document repository:
// one document per variable, with the variable's definition in frontmatter.
package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/credence/pkg/adapters/file"
	"github.com/aretw0/credence/pkg/domain"
	"github.com/aretw0/loam"
)

// VariableMetadata is the frontmatter of one variable document. The shape is
// shared with the YAML file adapter; Name optionally overrides the filename.
type VariableMetadata struct {
	Name string `json:"name" mapstructure:"name"`

	file.VariableSpec `mapstructure:",squash"`
}

// Loader adapts a Loam repository to the NetworkLoader interface.
type Loader struct {
	Repo *loam.TypedRepository[VariableMetadata]
}

// New wraps an existing typed repository.
func New(repo *loam.TypedRepository[VariableMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only Loam repository rooted at path.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve loam path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("init loam repository: %w", err)
	}
	return New(loam.NewTypedRepository[VariableMetadata](repo)), nil
}

// Load lists every document and assembles the network descriptions. Each
// document defines the variable named by its frontmatter or its filename.
func (l *Loader) Load(ctx context.Context) (*domain.Description, *domain.Description, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loam list failed: %w", err)
	}
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("loam repository holds no variable documents")
	}

	present := domain.NewDescription()
	future := domain.NewDescription()
	hasFuture := false
	seen := map[string]string{}

	for _, doc := range docs {
		name := doc.Data.Name
		if name == "" {
			name = trimExtension(doc.ID)
		}
		if prev, dup := seen[name]; dup {
			return nil, nil, fmt.Errorf("variable %q is defined in both %q and %q", name, prev, doc.ID)
		}
		seen[name] = doc.ID

		rels, err := doc.Data.Relations(name)
		if err != nil {
			return nil, nil, err
		}
		present.Declare(name, rels...)

		if step := doc.Data.Step; step != nil {
			stepRels, err := step.Relations(name)
			if err != nil {
				return nil, nil, fmt.Errorf("variable %q step: %w", name, err)
			}
			future.Declare(name, stepRels...)
			hasFuture = true
		}
	}

	if !hasFuture {
		return present, nil, nil
	}
	return present, future, nil
}

// Watch implements ports.Watchable by collapsing Loam change events into
// reload signals.
func (l *Loader) Watch(ctx context.Context) (<-chan struct{}, error) {
	events, err := l.Repo.Watch(ctx, "**/*.{md,json,yaml,yml}")
	if err != nil {
		return nil, fmt.Errorf("failed to start loam watcher: %w", err)
	}

	ch := make(chan struct{}, 1)
	go func() {
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-events:
				if !ok {
					return
				}
				// Coalesce bursts: one pending signal is enough.
				select {
				case ch <- struct{}{}:
				default:
				}
			}
		}
	}()
	return ch, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
