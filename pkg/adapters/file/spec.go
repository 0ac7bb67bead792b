package file

import (
	"fmt"
	"strings"

	"github.com/aretw0/credence/pkg/belief"
	"github.com/aretw0/credence/pkg/domain"
)

// NetworkSpec is the on-disk shape of a whole network document.
// It uses "mapstructure" tags so the same shape decodes from YAML documents
// and from Loam frontmatter.
type NetworkSpec struct {
	Name      string                  `json:"name" mapstructure:"name"`
	Variables map[string]VariableSpec `json:"variables" mapstructure:"variables"`
}

// VariableSpec is the declarative definition of one variable.
//
// Exactly one of Bernoulli, Prior or DependsOn+Table defines the variable.
// Step optionally defines the variable's next-time-step rule.
type VariableSpec struct {
	// Bernoulli is the boolean-prior shorthand: P(true).
	Bernoulli *float64 `json:"bernoulli" mapstructure:"bernoulli"`

	// Prior is the general prior form: outcome weights.
	Prior map[string]float64 `json:"prior" mapstructure:"prior"`

	// DependsOn names one or two parents; Table is the conditional
	// probability table keyed by the parent outcome (two-parent rows join
	// the outcomes with a comma, e.g. "true,false"). A row is either a
	// bare float (the Bernoulli shorthand) or an outcome-weight map.
	DependsOn []string       `json:"depends_on" mapstructure:"depends_on"`
	Table     map[string]any `json:"table" mapstructure:"table"`

	// Step defines the variable for the next discrete time step.
	Step *VariableSpec `json:"step" mapstructure:"step"`
}

// Descriptions converts the document into the engine's declarative form.
// The future description is nil when no variable declares a step rule.
func (ns NetworkSpec) Descriptions() (present, future *domain.Description, err error) {
	present = domain.NewDescription()
	future = domain.NewDescription()
	hasFuture := false

	for name, spec := range ns.Variables {
		rels, err := spec.Relations(name)
		if err != nil {
			return nil, nil, err
		}
		present.Declare(name, rels...)

		if spec.Step == nil {
			continue
		}
		if spec.Step.Step != nil {
			return nil, nil, fmt.Errorf("variable %q: a step rule cannot nest another step", name)
		}
		stepRels, err := spec.Step.Relations(name)
		if err != nil {
			return nil, nil, fmt.Errorf("variable %q step: %w", name, err)
		}
		future.Declare(name, stepRels...)
		hasFuture = true
	}

	if !hasFuture {
		return present, nil, nil
	}
	return present, future, nil
}

// Relations builds the variable's relation list from its spec.
func (s VariableSpec) Relations(name string) ([]domain.Relation, error) {
	var rels []domain.Relation

	if s.Bernoulli != nil && s.Prior != nil {
		return nil, fmt.Errorf("variable %q: bernoulli and prior are mutually exclusive", name)
	}
	if s.Bernoulli != nil {
		rels = append(rels, domain.Prior{Belief: belief.Bernoulli(*s.Bernoulli)})
	}
	if s.Prior != nil {
		b, err := belief.New(s.Prior)
		if err != nil {
			return nil, fmt.Errorf("variable %q prior: %w", name, err)
		}
		rels = append(rels, domain.Prior{Belief: b})
	}

	if len(s.DependsOn) == 0 && len(s.Table) > 0 {
		return nil, fmt.Errorf("variable %q: table requires depends_on", name)
	}

	switch len(s.DependsOn) {
	case 0:
	case 1:
		table, err := parseTable(name, s.Table)
		if err != nil {
			return nil, err
		}
		rels = append(rels, domain.DependsOn{Parent: s.DependsOn[0], Table: table})
	case 2:
		table, err := parseJointTable(name, s.Table)
		if err != nil {
			return nil, err
		}
		rels = append(rels, domain.DependsOnJoint{
			First:  s.DependsOn[0],
			Second: s.DependsOn[1],
			Table:  table,
		})
	default:
		return nil, fmt.Errorf("variable %q: at most two parents are supported, got %d", name, len(s.DependsOn))
	}

	if len(rels) == 0 {
		return nil, fmt.Errorf("variable %q has no definition", name)
	}
	return rels, nil
}

func parseTable(name string, raw map[string]any) (belief.Table, error) {
	if len(raw) == 0 {
		return belief.Table{}, fmt.Errorf("variable %q: depends_on requires a table", name)
	}
	rows := make(map[string]belief.Belief, len(raw))
	for key, val := range raw {
		b, err := parseRow(name, key, val)
		if err != nil {
			return belief.Table{}, err
		}
		rows[key] = b
	}
	return belief.NewTable(rows), nil
}

func parseJointTable(name string, raw map[string]any) (belief.JointTable, error) {
	if len(raw) == 0 {
		return belief.JointTable{}, fmt.Errorf("variable %q: depends_on requires a table", name)
	}
	rows := make(map[belief.Pair]belief.Belief, len(raw))
	for key, val := range raw {
		parts := strings.Split(key, ",")
		if len(parts) != 2 {
			return belief.JointTable{}, fmt.Errorf("variable %q: joint table row %q must join two outcomes with a comma", name, key)
		}
		b, err := parseRow(name, key, val)
		if err != nil {
			return belief.JointTable{}, err
		}
		rows[belief.Pair{strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])}] = b
	}
	return belief.NewJointTable(rows), nil
}

// parseRow accepts the Bernoulli float shorthand or a full outcome-weight
// map. YAML decoders hand numerics over as float64 or int.
func parseRow(name, key string, val any) (belief.Belief, error) {
	switch v := val.(type) {
	case float64:
		return belief.Bernoulli(v), nil
	case int:
		return belief.Bernoulli(float64(v)), nil
	case map[string]any:
		weights := make(map[string]float64, len(v))
		for outcome, w := range v {
			f, ok := toFloat(w)
			if !ok {
				return belief.Belief{}, fmt.Errorf("variable %q table row %q: weight for %q is not a number", name, key, outcome)
			}
			weights[outcome] = f
		}
		b, err := belief.New(weights)
		if err != nil {
			return belief.Belief{}, fmt.Errorf("variable %q table row %q: %w", name, key, err)
		}
		return b, nil
	default:
		return belief.Belief{}, fmt.Errorf("variable %q table row %q: expected number or outcome map, got %T", name, key, val)
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}
