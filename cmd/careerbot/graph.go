package main

import (
	"fmt"
	"os"

	"github.com/aretw0/careerbot/internal/presentation/graph"
	"github.com/aretw0/careerbot/pkg/dialog"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the dialog graph visualization",
	Long: `Outputs a Mermaid flowchart (graph TD) of the root and KPMG dialogs. With
--conversation, the suspended frames and the current step of that
conversation are highlighted.`,
	Run: func(cmd *cobra.Command, args []string) {
		var overlay *graph.Overlay
		if id, _ := cmd.Flags().GetString("conversation"); id != "" {
			rt := openRuntime(cmd)
			defer rt.Close()

			state, err := rt.Bot.Inspect(cmd.Context(), id)
			if err != nil {
				fmt.Printf("Error loading conversation '%s': %v\n", id, err)
				os.Exit(1)
			}
			overlay = graph.OverlayFromState(state)
		}

		fmt.Print(graph.GenerateMermaid(dialog.Transitions(), overlay))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("conversation", "c", "", "Highlight where this conversation stands")
}
