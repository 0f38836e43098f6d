package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/careerbot/internal/cli"
	"github.com/aretw0/careerbot/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "careerbot",
	Short: "Careers advice chat bot",
	Long: `careerbot answers questions about applying to the big four professional
services firms. Chat with it in the terminal, serve it over HTTP, or expose it
to AI agents as MCP tools.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	addPersistentFlags(rootCmd.PersistentFlags())
}

func addPersistentFlags(flags *pflag.FlagSet) {
	flags.String("config", "", "Config file (default ./careerbot.yaml or ~/.careerbot/careerbot.yaml)")
	flags.String("env-file", "", "Dotenv file to load before reading the environment (default ./.env)")
	flags.String("log-level", "", "Log level: debug, info, warn, error or off")
	flags.String("log-format", "", "Log format: text or json")
	flags.String("store", "", "Conversation store: memory, file, redis or postgres")
	flags.String("classifier", "", "Utterance classifier: none, luis or openai")
	flags.String("knowledge", "", "Knowledge base: none, qna or elastic")
}

// pflagBindings maps persistent flags onto config keys.
var pflagBindings = map[string]string{
	"log-level":  "log.level",
	"log-format": "log.format",
	"store":      "store.driver",
	"classifier": "classifier.provider",
	"knowledge":  "knowledge.provider",
}

// loadConfig resolves file, environment and flags, in increasing precedence.
func loadConfig(cmd *cobra.Command, local map[string]string) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	v := config.New(file)
	if err := bindFlags(cmd, v, pflagBindings); err != nil {
		return nil, err
	}
	if err := bindFlags(cmd, v, local); err != nil {
		return nil, err
	}

	var envFiles []string
	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		envFiles = append(envFiles, envFile)
	}
	return config.Load(v, envFiles...)
}

func bindFlags(cmd *cobra.Command, v *viper.Viper, bindings map[string]string) error {
	for name, key := range bindings {
		f := cmd.Flags().Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", name, err)
		}
	}
	return nil
}

// setup loads the configuration and the logger. Logs go to w.
func setup(cmd *cobra.Command, local map[string]string, w io.Writer) (*config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd, local)
	if err != nil {
		return nil, nil, err
	}
	return cfg, cli.NewLogger(w, cfg.Log), nil
}
