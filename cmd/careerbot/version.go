package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/careerbot"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of careerbot",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "careerbot version %s\n", strings.TrimSpace(careerbot.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
