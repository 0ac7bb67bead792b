package dsl

import (
	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
)

// VarBuilder provides a fluent API for declaring one variable's relations.
type VarBuilder struct {
	name      string
	builder   *Builder
	relations []domain.Relation
}

// Prior declares an unconditioned belief for the variable.
func (v *VarBuilder) Prior(b belief.Belief) *VarBuilder {
	v.relations = append(v.relations, domain.Prior{Belief: b})
	return v
}

// Bernoulli declares a boolean prior with P(true) = p.
func (v *VarBuilder) Bernoulli(p float64) *VarBuilder {
	return v.Prior(belief.Bernoulli(p))
}

// DependsOn conditions the variable on a single parent through the table.
func (v *VarBuilder) DependsOn(parent string, t belief.Table) *VarBuilder {
	v.relations = append(v.relations, domain.DependsOn{Parent: parent, Table: t})
	return v
}

// DependsOnJoint conditions the variable on two parents through the table.
func (v *VarBuilder) DependsOnJoint(first, second string, t belief.JointTable) *VarBuilder {
	v.relations = append(v.relations, domain.DependsOnJoint{First: first, Second: second, Table: t})
	return v
}

// FeedsInto declares the edge from the parent's side: child is conditioned on
// this variable through the table.
func (v *VarBuilder) FeedsInto(child string, t belief.Table) *VarBuilder {
	v.relations = append(v.relations, domain.FeedsInto{Child: child, Table: t})
	return v
}

// Var returns to the builder to declare another variable, keeping chains
// readable.
func (v *VarBuilder) Var(name string) *VarBuilder {
	return v.builder.Var(name)
}
