package main

import (
	"fmt"
	"os"

	"github.com/aretw0/careerbot/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the configuration and the store connection",
	Long:  `Loads the configuration, builds the bot and pings the conversation store.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logger, err := setup(cmd, nil, os.Stderr)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		rt, err := cli.Build(cmd.Context(), cfg, logger, nil)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		defer rt.Close()
		if err := rt.Ready(cmd.Context()); err != nil {
			fmt.Printf("Store unreachable: %v\n", err)
			os.Exit(1)
		}

		fmt.Printf("classifier: %s (configured: %t)\n", cfg.Classifier.Provider, rt.Bot.ClassifierConfigured())
		fmt.Printf("knowledge:  %s\n", cfg.Knowledge.Provider)
		fmt.Printf("store:      %s (encrypted: %t)\n", cfg.Store.Driver, cfg.Store.EncryptionKey != "")
		fmt.Println("Configuration is valid.")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
