package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/credence"
)

// Overlay contains solve results to visualize on the network diagram.
type Overlay struct {
	// Evidence names variables that were observed.
	Evidence []string
	// Target is the variable that was solved for.
	Target string
}

// GenerateMermaid produces a Mermaid flowchart from the network structure.
// Shape carries semantics:
//   - prior roots: ((circle))
//   - temporal variables: [[subroutine]]
//   - everything else: [rectangle]
//
// Edges run parent to child. Overlay styles mark evidence and the target.
func GenerateMermaid(infos []credence.VariableInfo, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for _, info := range infos {
		safeID := sanitizeMermaidID(info.Name)

		opener, closer := "[", "]"
		switch {
		case info.Temporal:
			opener, closer = "[[", "]]"
		case info.HasPrior:
			opener, closer = "((", "))"
		}

		label := info.Name
		if len(info.Outcomes) > 0 {
			label = fmt.Sprintf("%s <br/> %s", info.Name, strings.Join(info.Outcomes, " | "))
		}
		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, label, closer))

		for _, parent := range info.Parents {
			sb.WriteString(fmt.Sprintf("    %s --> %s\n", sanitizeMermaidID(parent), safeID))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef evidence fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef target fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		seen := make(map[string]bool)
		for _, name := range overlay.Evidence {
			safeID := sanitizeMermaidID(name)
			if !seen[safeID] && safeID != "" {
				seen[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s evidence;\n", safeID))
			}
		}
		if overlay.Target != "" {
			sb.WriteString(fmt.Sprintf("    class %s target;\n", sanitizeMermaidID(overlay.Target)))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
