package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/aretw0/credence/pkg/belief"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour,
// auto-detecting light or dark backgrounds.
func NewRenderer() func(string) (string, error) {
	r, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
	)

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// SolveReport formats one solve result as markdown: the target's posterior
// table, plus the evidence it was conditioned on.
func SolveReport(target string, b belief.Belief, evidence map[string]string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", target)

	if len(evidence) > 0 {
		sb.WriteString("Given:\n\n")
		names := make([]string, 0, len(evidence))
		for name := range evidence {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Fprintf(&sb, "- `%s = %s`\n", name, evidence[name])
		}
		sb.WriteString("\n")
	}

	sb.WriteString("| Outcome | Probability |\n")
	sb.WriteString("|---------|-------------|\n")
	for _, outcome := range b.Outcomes() {
		fmt.Fprintf(&sb, "| %s | %.4f |\n", outcome, b.Prob(outcome))
	}
	return sb.String()
}
