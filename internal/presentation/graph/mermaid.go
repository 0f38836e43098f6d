package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/careerbot/pkg/dialog"
	"github.com/aretw0/careerbot/pkg/domain"
)

// Overlay contains conversation state to highlight on the graph.
type Overlay struct {
	// Suspended lists the steps of outer frames waiting on a child.
	Suspended []domain.Step
	// Current is the step of the innermost frame.
	Current domain.Step
}

// OverlayFromState marks the frames of state. An idle conversation
// highlights the idle node.
func OverlayFromState(state *domain.State) *Overlay {
	o := &Overlay{Current: dialog.StepIdle}
	for i, f := range state.Stack {
		if i == len(state.Stack)-1 {
			o.Current = f.Step
			continue
		}
		o.Suspended = append(o.Suspended, f.Step)
	}
	return o
}

// GenerateMermaid produces a Mermaid flowchart of the dialog transitions.
// It applies semantic styling:
// - Idle/Ended: ((Circle))
// - Delegated to a child dialog: [[Subroutine]]
// - Awaiting a reply: [/Parallelogram/]
// Transitions that cross dialogs are dotted.
func GenerateMermaid(transitions []dialog.Transition, overlay *Overlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	seen := make(map[domain.Step]bool)
	declare := func(step domain.Step) {
		if seen[step] {
			return
		}
		seen[step] = true
		opener, closer := "[", "]"
		switch {
		case step == dialog.StepIdle || step == dialog.StepEnded:
			opener, closer = "((", "))"
		case step == domain.StepDelegated:
			opener, closer = "[[", "]]"
		case strings.Contains(string(step), ".awaiting_"):
			opener, closer = "[/", "/]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(step), opener, step, closer)
	}

	for _, t := range transitions {
		declare(t.From)
		declare(t.To)
	}

	for _, t := range transitions {
		jump := dialogOf(t.From) != dialogOf(t.To)
		arrow := "-->"
		if jump {
			arrow = "-.->"
		}
		if t.Label != "" {
			label := strings.ReplaceAll(t.Label, "\"", "'")
			arrow = fmt.Sprintf("-- \"%s\" -->", label)
			if jump {
				arrow = fmt.Sprintf("-. \"%s\" .->", label)
			}
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(t.From), arrow, sanitizeMermaidID(t.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		sb.WriteString("    classDef suspended fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		styled := make(map[string]bool)
		for _, step := range overlay.Suspended {
			id := sanitizeMermaidID(step)
			if !styled[id] && seen[step] {
				styled[id] = true
				fmt.Fprintf(&sb, "    class %s suspended;\n", id)
			}
		}
		if overlay.Current != "" && seen[overlay.Current] {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.Current))
		}
	}

	return sb.String()
}

// dialogOf returns the dialog prefix of a step; pseudo steps belong to none.
func dialogOf(step domain.Step) string {
	if i := strings.IndexByte(string(step), '.'); i >= 0 {
		return string(step)[:i]
	}
	return "root"
}

func sanitizeMermaidID(step domain.Step) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_").Replace(string(step))
}
