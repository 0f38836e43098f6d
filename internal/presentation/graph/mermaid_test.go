package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/careerbot/internal/presentation/graph"
	"github.com/aretw0/careerbot/pkg/dialog"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(dialog.Transitions(), nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	for _, want := range []string{
		`idle(("idle"))`,
		`ended(("ended"))`,
		`root_delegated[["root.delegated"]]`,
		`root_awaiting_menu_choice[/"root.awaiting_menu_choice"/]`,
		`kpmg_awaiting_question[/"kpmg.awaiting_question"/]`,
		`root_awaiting_menu_choice -- "KPMG" --> root_delegated`,
		`root_delegated -. "begin" .-> kpmg_awaiting_question_type`,
		`ended --> idle`,
	} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "classDef")
	assert.Equal(t, 1, strings.Count(out, `kpmg_awaiting_question[/`), "nodes are declared once")
}

func TestGenerateMermaid_EscapesLabels(t *testing.T) {
	out := graph.GenerateMermaid([]dialog.Transition{
		{From: "a.one", To: "a.two", Label: `say "hi"`},
	}, nil)
	assert.Contains(t, out, `a_one -- "say 'hi'" --> a_two`)
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	state := domain.NewState("c1")
	state.Stack = []domain.Frame{
		{Dialog: domain.DialogRoot, Step: domain.StepDelegated},
		{Dialog: domain.DialogKPMG, Step: domain.StepAwaitingQuestion},
	}

	out := graph.GenerateMermaid(dialog.Transitions(), graph.OverlayFromState(state))
	assert.Contains(t, out, "classDef current")
	assert.Contains(t, out, "class root_delegated suspended;")
	assert.Contains(t, out, "class kpmg_awaiting_question current;")
}

func TestOverlayFromState_Idle(t *testing.T) {
	o := graph.OverlayFromState(domain.NewState("c1"))
	assert.Equal(t, dialog.StepIdle, o.Current)
	assert.Empty(t, o.Suspended)

	out := graph.GenerateMermaid(dialog.Transitions(), o)
	assert.Contains(t, out, "class idle current;")
}

func TestOverlay_IgnoresUnknownSteps(t *testing.T) {
	out := graph.GenerateMermaid(dialog.Transitions(), &graph.Overlay{Current: "legacy.step"})
	assert.NotContains(t, out, "class legacy_step")
}
