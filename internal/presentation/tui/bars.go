package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/credence/pkg/belief"
	"github.com/muesli/termenv"
)

const barWidth = 30

// Bars renders a belief as one colored horizontal bar per outcome,
// widest outcome label first padding the rest into alignment.
func Bars(b belief.Belief) string {
	p := termenv.ColorProfile()

	width := 0
	for _, outcome := range b.Outcomes() {
		if len(outcome) > width {
			width = len(outcome)
		}
	}

	var sb strings.Builder
	for _, outcome := range b.Outcomes() {
		prob := b.Prob(outcome)
		filled := int(prob*barWidth + 0.5)
		bar := strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
		colored := termenv.String(bar).Foreground(p.Color(barColor(prob)))
		fmt.Fprintf(&sb, "%-*s %s %.4f\n", width, outcome, colored, prob)
	}
	return sb.String()
}

func barColor(prob float64) string {
	switch {
	case prob >= 0.75:
		return "#f472b6"
	case prob >= 0.5:
		return "#c084fc"
	default:
		return "#818cf8"
	}
}
