package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/credence"
	"github.com/aretw0/credence/internal/presentation/graph"
	"github.com/stretchr/testify/assert"
)

func sampleInfos() []credence.VariableInfo {
	return []credence.VariableInfo{
		{Name: "rain", Outcomes: []string{"false", "true"}, HasPrior: true, Temporal: true},
		{Name: "umbrella", Outcomes: []string{"false", "true"}, Parents: []string{"rain"}},
	}
}

func TestGenerateMermaid_Shapes(t *testing.T) {
	out := graph.GenerateMermaid(sampleInfos(), nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, "rain[[\"rain <br/> false | true\"]]", "temporal variables render as subroutines")
	assert.Contains(t, out, "umbrella[\"umbrella <br/> false | true\"]")
	assert.Contains(t, out, "rain --> umbrella")
}

func TestGenerateMermaid_PriorRoot(t *testing.T) {
	infos := []credence.VariableInfo{
		{Name: "coin", Outcomes: []string{"false", "true"}, HasPrior: true},
	}
	out := graph.GenerateMermaid(infos, nil)
	assert.Contains(t, out, "coin((\"coin <br/> false | true\"))")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(sampleInfos(), &graph.Overlay{
		Evidence: []string{"umbrella", "umbrella"},
		Target:   "rain",
	})

	assert.Contains(t, out, "class umbrella evidence;")
	assert.Contains(t, out, "class rain target;")
	assert.Equal(t, 1, strings.Count(out, "class umbrella evidence;"), "evidence is deduplicated")
}

func TestGenerateMermaid_SanitizesIDs(t *testing.T) {
	infos := []credence.VariableInfo{
		{Name: "sensor-1.temp", Outcomes: []string{"high", "low"}},
	}
	out := graph.GenerateMermaid(infos, nil)
	assert.Contains(t, out, "sensor_1_temp[")
}
