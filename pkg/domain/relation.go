package domain

import "github.com/aretw0/credence/pkg/belief"

// Relation is a tagged descriptor attaching one conditional-probability link
// (or an unconditioned prior) to a variable. The graph builder consumes the
// variants via exhaustive case analysis; the set is sealed on purpose.
type Relation interface {
	relation()
}

// Prior declares an unconditioned belief for a variable.
type Prior struct {
	Belief belief.Belief
}

// DependsOn declares that the variable's distribution is conditioned on a
// single parent through the given table.
type DependsOn struct {
	Parent string
	Table  belief.Table
}

// DependsOnJoint declares that the variable's distribution is conditioned on
// two parents through the given joint table.
type DependsOnJoint struct {
	First  string
	Second string
	Table  belief.JointTable
}

// FeedsInto is the inverse view of DependsOn: declared on the parent, it
// states that Child is conditioned on this variable through Table. The graph
// builder normalizes it to a DependsOn on the child.
type FeedsInto struct {
	Child string
	Table belief.Table
}

func (Prior) relation()          {}
func (DependsOn) relation()      {}
func (DependsOnJoint) relation() {}
func (FeedsInto) relation()      {}

// Description is a declarative network: variable name → its relations.
// Descriptions are plain data; they carry no inference behavior until
// compiled into nodes.
type Description struct {
	Variables map[string][]Relation
}

// NewDescription returns an empty description ready for Declare calls.
func NewDescription() *Description {
	return &Description{Variables: map[string][]Relation{}}
}

// Declare appends relations to a variable, creating it if needed.
func (d *Description) Declare(name string, relations ...Relation) *Description {
	d.Variables[name] = append(d.Variables[name], relations...)
	return d
}
