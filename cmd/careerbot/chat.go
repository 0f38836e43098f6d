package main

import (
	"os"

	"github.com/aretw0/careerbot"
	"github.com/aretw0/careerbot/internal/cli"
	"github.com/aretw0/careerbot/internal/presentation/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the bot in the terminal",
	Long: `Starts an interactive conversation on stdin/stdout. Numbered menu options
can be picked by number. Type exit or quit to leave; the conversation is kept
in the configured store and resumed by passing the same --conversation.

With --json, every input line is an utterance (plain text, a JSON string or
{"text": "..."}) and every turn is printed as one JSON array of actions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup(cmd, map[string]string{"locale": "locale"}, os.Stderr)
		if err != nil {
			return err
		}

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		rt, err := cli.Build(sigCtx, cfg, logger, nil)
		if err != nil {
			return err
		}
		defer rt.Close()

		jsonMode, _ := cmd.Flags().GetBool("json")
		opts := cli.ChatOptions{
			JSON:   jsonMode,
			Locale: cfg.Locale,
			In:     os.Stdin,
			Out:    os.Stdout,
		}
		opts.ConversationID, _ = cmd.Flags().GetString("conversation")
		opts.UserID, _ = cmd.Flags().GetString("user-id")
		opts.UserName, _ = cmd.Flags().GetString("user")
		opts.Fresh, _ = cmd.Flags().GetBool("fresh")
		if opts.ConversationID == "" {
			opts.ConversationID = uuid.NewString()
		}

		plain, _ := cmd.Flags().GetBool("plain")
		if !jsonMode && term.IsTerminal(int(os.Stdout.Fd())) {
			tui.PrintBanner(os.Stdout, careerbot.Version)
			if !plain {
				opts.Renderer = tui.NewRenderer(terminalWidth())
			}
		}

		err = cli.RunChat(sigCtx, rt, opts, logger)
		if sig := sigCtx.Signal(); sig != nil {
			logger.Info("chat interrupted", "signal", sig.String(), "conversation_id", opts.ConversationID)
		}
		return err
	},
}

func terminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 || w > tui.DefaultWordWrap {
		return tui.DefaultWordWrap
	}
	return w
}

func init() {
	rootCmd.AddCommand(chatCmd)
	chatCmd.Flags().StringP("conversation", "c", "", "Conversation id to start or resume (default: a new uuid)")
	chatCmd.Flags().String("user", "", "Display name used in the greeting")
	chatCmd.Flags().String("user-id", "cli", "Channel user id")
	chatCmd.Flags().String("locale", "", "BCP 47 locale of the user, e.g. en-GB")
	chatCmd.Flags().Bool("json", false, "Read and write JSON lines instead of text")
	chatCmd.Flags().Bool("fresh", false, "Delete the stored conversation before starting")
	chatCmd.Flags().Bool("plain", false, "Do not render Markdown replies")
}
