package belief

import "sort"

// Table is a conditional-probability table keyed by a single parent outcome.
// Rows are immutable once the table is built.
type Table struct {
	rows map[string]Belief
}

// NewTable builds a CPT from parent outcome → child distribution rows.
func NewTable(rows map[string]Belief) Table {
	copied := make(map[string]Belief, len(rows))
	for k, v := range rows {
		copied[k] = v
	}
	return Table{rows: copied}
}

// BernoulliTable builds a boolean CPT from parent outcome → P(child=true).
func BernoulliTable(rows map[string]float64) Table {
	out := make(map[string]Belief, len(rows))
	for k, p := range rows {
		out[k] = Bernoulli(p)
	}
	return Table{rows: out}
}

// Keys returns the parent outcomes appearing in the table, sorted.
// The graph builder uses this to seed the parent's outcome domain.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t.rows))
	for k := range t.rows {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Outcomes returns the union of child outcomes across all rows, sorted.
func (t Table) Outcomes() []string {
	seen := map[string]bool{}
	for _, row := range t.rows {
		for _, o := range row.Outcomes() {
			seen[o] = true
		}
	}
	out := make([]string, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// Row returns the child distribution for a parent outcome.
func (t Table) Row(key string) (Belief, bool) {
	b, ok := t.rows[key]
	return b, ok
}

// Mix marginalizes the table over the parent belief:
// P(child=y) = Σ_x P(parent=x)·P(child=y | parent=x).
// It reports false when the parent assigns no mass to any table key.
func (t Table) Mix(parent Belief) (Belief, bool) {
	weights := map[string]float64{}
	for key, row := range t.rows {
		w := parent.Prob(key)
		for o, p := range row.probs {
			weights[o] += w * p
		}
	}
	b, err := New(weights)
	if err != nil {
		return Belief{}, false
	}
	return b, true
}

// Likelihoods folds downstream evidence ratios through the table, producing
// one likelihood weight per parent outcome: L(x) = Σ_y ratio(y)·P(y|x).
func (t Table) Likelihoods(ratio map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(t.rows))
	for key, row := range t.rows {
		var sum float64
		for o, p := range row.probs {
			sum += ratio[o] * p
		}
		out[key] = sum
	}
	return out
}

// Pair indexes a JointTable row: [first parent outcome, second parent outcome].
type Pair [2]string

// JointTable is a conditional-probability table keyed by two parent outcomes.
type JointTable struct {
	rows map[Pair]Belief
}

// NewJointTable builds a two-parent CPT.
func NewJointTable(rows map[Pair]Belief) JointTable {
	copied := make(map[Pair]Belief, len(rows))
	for k, v := range rows {
		copied[k] = v
	}
	return JointTable{rows: copied}
}

// BernoulliJointTable builds a boolean two-parent CPT from P(child=true) rows.
func BernoulliJointTable(rows map[Pair]float64) JointTable {
	out := make(map[Pair]Belief, len(rows))
	for k, p := range rows {
		out[k] = Bernoulli(p)
	}
	return JointTable{rows: out}
}

// FirstKeys returns the sorted outcomes of the first parent.
func (t JointTable) FirstKeys() []string {
	return t.keys(0)
}

// SecondKeys returns the sorted outcomes of the second parent.
func (t JointTable) SecondKeys() []string {
	return t.keys(1)
}

func (t JointTable) keys(i int) []string {
	seen := map[string]bool{}
	for k := range t.rows {
		seen[k[i]] = true
	}
	out := make([]string, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// Outcomes returns the union of child outcomes across all rows, sorted.
func (t JointTable) Outcomes() []string {
	seen := map[string]bool{}
	for _, row := range t.rows {
		for _, o := range row.Outcomes() {
			seen[o] = true
		}
	}
	out := make([]string, 0, len(seen))
	for o := range seen {
		out = append(out, o)
	}
	sort.Strings(out)
	return out
}

// Row returns the child distribution for a pair of parent outcomes.
func (t JointTable) Row(first, second string) (Belief, bool) {
	b, ok := t.rows[Pair{first, second}]
	return b, ok
}

// Mix marginalizes the table over both parent beliefs.
func (t JointTable) Mix(first, second Belief) (Belief, bool) {
	weights := map[string]float64{}
	for key, row := range t.rows {
		w := first.Prob(key[0]) * second.Prob(key[1])
		for o, p := range row.probs {
			weights[o] += w * p
		}
	}
	b, err := New(weights)
	if err != nil {
		return Belief{}, false
	}
	return b, true
}

// LikelihoodsFirst folds downstream evidence ratios through the table for the
// first parent, marginalizing the second parent over its current belief:
// L(x) = Σ_y ratio(y)·Σ_w P(second=w)·P(y | x, w).
func (t JointTable) LikelihoodsFirst(ratio map[string]float64, second Belief) map[string]float64 {
	out := map[string]float64{}
	for key, row := range t.rows {
		w := second.Prob(key[1])
		for o, p := range row.probs {
			out[key[0]] += ratio[o] * w * p
		}
	}
	return out
}

// LikelihoodsSecond mirrors LikelihoodsFirst for the second parent.
func (t JointTable) LikelihoodsSecond(ratio map[string]float64, first Belief) map[string]float64 {
	out := map[string]float64{}
	for key, row := range t.rows {
		w := first.Prob(key[0])
		for o, p := range row.probs {
			out[key[1]] += ratio[o] * w * p
		}
	}
	return out
}
