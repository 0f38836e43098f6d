package cli

import (
	"io"
	"log/slog"

	"github.com/aretw0/careerbot/internal/config"
	"github.com/aretw0/careerbot/internal/logging"
)

// NewLogger builds the application logger from the log section. Chat and
// stdio MCP sessions pass os.Stderr so records never mix with the conversation.
func NewLogger(w io.Writer, cfg config.LogConfig) *slog.Logger {
	if cfg.Level == "off" {
		return logging.NewNop()
	}
	return logging.NewWithFormat(w, logging.ParseLevel(cfg.Level), cfg.Format)
}
