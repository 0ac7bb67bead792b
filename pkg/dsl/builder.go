package dsl

import "github.com/aretw0/credence/pkg/domain"

// Builder manages the declarative construction of a network.
type Builder struct {
	vars  map[string]*VarBuilder
	steps map[string]*VarBuilder
}

// New creates a new network builder.
func New() *Builder {
	return &Builder{
		vars:  make(map[string]*VarBuilder),
		steps: make(map[string]*VarBuilder),
	}
}

// Var declares (or returns, if already declared) a present-time variable.
func (b *Builder) Var(name string) *VarBuilder {
	return b.fetch(b.vars, name)
}

// Step declares the variable's definition for the next discrete time step.
// Step definitions never carry priors: their belief is computed from the
// present-time posterior during the temporal roll-forward.
func (b *Builder) Step(name string) *VarBuilder {
	return b.fetch(b.steps, name)
}

func (b *Builder) fetch(pool map[string]*VarBuilder, name string) *VarBuilder {
	if vb, ok := pool[name]; ok {
		return vb
	}
	vb := &VarBuilder{name: name, builder: b}
	pool[name] = vb
	return vb
}

// Build freezes the accumulated declarations into immutable descriptions.
// The future description is nil when no Step was declared.
func (b *Builder) Build() (present, future *domain.Description) {
	present = domain.NewDescription()
	for name, vb := range b.vars {
		present.Declare(name, vb.relations...)
	}
	if len(b.steps) == 0 {
		return present, nil
	}
	future = domain.NewDescription()
	for name, vb := range b.steps {
		future.Declare(name, vb.relations...)
	}
	return present, future
}
