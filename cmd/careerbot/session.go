package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/aretw0/careerbot/internal/cli"
	"github.com/spf13/cobra"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage stored conversations",
	Long:  `List, inspect, and remove conversations kept in the configured store.`,
}

// openRuntime builds the bot for commands that only touch the store.
func openRuntime(cmd *cobra.Command) *cli.Runtime {
	cfg, logger, err := setup(cmd, nil, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	rt, err := cli.Build(cmd.Context(), cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
		os.Exit(1)
	}
	return rt
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List stored conversations",
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime(cmd)
		defer rt.Close()

		ids, err := rt.Bot.Conversations(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing conversations: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No stored conversations found.")
			return
		}

		fmt.Println("Conversations:")
		for _, id := range ids {
			fmt.Println("- " + id)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <conversation-id>",
	Short: "Print the stored state of a conversation",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime(cmd)
		defer rt.Close()

		state, err := rt.Bot.Inspect(cmd.Context(), args[0])
		if err != nil {
			fmt.Printf("Error loading conversation '%s': %v\n", args[0], err)
			os.Exit(1)
		}

		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling state: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm [conversation-id]...",
	Short: "Remove one or more conversations",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		rt := openRuntime(cmd)
		defer rt.Close()

		if all, _ := cmd.Flags().GetBool("all"); all {
			ids, err := rt.Bot.Conversations(cmd.Context())
			if err != nil {
				fmt.Printf("Error listing conversations: %v\n", err)
				os.Exit(1)
			}
			args = ids
		}

		hasError := false
		for _, id := range args {
			if err := rt.Bot.Reset(cmd.Context(), id); err != nil {
				fmt.Printf("Error removing '%s': %v\n", id, err)
				hasError = true
			} else {
				fmt.Printf("Removed conversation '%s'\n", id)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored conversation")
}
