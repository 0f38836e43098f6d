package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/careerbot/internal/logging"
	"github.com/aretw0/careerbot/internal/presentation/graph"
	"github.com/aretw0/careerbot/pkg/dialog"
	"github.com/aretw0/careerbot/pkg/domain"
	"github.com/aretw0/careerbot/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// GraphURI is the resource holding the Mermaid chart of the dialogs.
const GraphURI = "careerbot://graph"

// Bot is the part of the careers bot exposed as MCP tools.
type Bot interface {
	Turn(ctx context.Context, activity domain.Activity) ([]domain.ActionRequest, error)
	Inspect(ctx context.Context, conversationID string) (*domain.State, error)
	Reset(ctx context.Context, conversationID string) error
}

// SendMessageArgs are the arguments of the send_message tool.
type SendMessageArgs struct {
	ConversationID string `json:"conversation_id,omitempty"`
	Text           string `json:"text"`
	UserName       string `json:"user_name,omitempty"`
	Locale         string `json:"locale,omitempty"`
}

// ConversationArgs identify a conversation.
type ConversationArgs struct {
	ConversationID string `json:"conversation_id"`
}

// TurnResult is the structured output of send_message.
type TurnResult struct {
	ConversationID string                 `json:"conversation_id" jsonschema_description:"Conversation the turn belongs to"`
	Actions        []domain.ActionRequest `json:"actions" jsonschema_description:"Replies of the bot, in order"`
	Text           string                 `json:"text" jsonschema_description:"The replies flattened to plain text"`
	AwaitingReply  bool                   `json:"awaiting_reply" jsonschema_description:"Whether the bot is waiting for an answer"`
}

// Server wraps the bot and exposes it as an MCP server.
type Server struct {
	bot       Bot
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP server instance.
func NewServer(bot Bot, version string, opts ...Option) *Server {
	s := &Server{
		bot:       bot,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("careerbot-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on port until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(fmt.Sprintf("http://localhost:%d", port)))

	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)
	r.Handle("/sse", sseServer.SSEHandler())
	r.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	sendTool := mcp.NewTool("send_message",
		mcp.WithDescription("Send an utterance to the careers advice bot and get its replies. Omit conversation_id to start a new conversation."),
		mcp.WithString("text", mcp.Required(), mcp.Description("What the user says")),
		mcp.WithString("conversation_id", mcp.Description("Conversation to continue")),
		mcp.WithString("user_name", mcp.Description("Display name used in the greeting")),
		mcp.WithString("locale", mcp.Description("BCP 47 locale of the user, e.g. en-GB")),
		mcp.WithOutputSchema[TurnResult](),
	)
	s.mcpServer.AddTool(sendTool, mcp.NewStructuredToolHandler(s.handleSendMessage))

	s.mcpServer.AddTool(mcp.NewTool("inspect_conversation",
		mcp.WithDescription("Read the stored state of a conversation: member record and dialog stack."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to inspect")),
	), s.handleInspect)

	s.mcpServer.AddTool(mcp.NewTool("reset_conversation",
		mcp.WithDescription("Forget a conversation; the next message starts from the greeting."),
		mcp.WithString("conversation_id", mcp.Required(), mcp.Description("Conversation to delete")),
	), s.handleReset)
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args SendMessageArgs) (TurnResult, error) {
	text, err := runner.SanitizeInput(args.Text)
	if err != nil {
		s.logger.Warn("MCP send_message: input rejected", "err", err, "size", len(args.Text))
		return TurnResult{}, fmt.Errorf("input rejected: %w", err)
	}
	if text == "" {
		return TurnResult{}, errors.New("text is required")
	}

	id := args.ConversationID
	if id == "" {
		id = uuid.NewString()
	}
	actions, err := s.bot.Turn(ctx, domain.Activity{
		ConversationID: id,
		UserID:         "mcp",
		UserName:       args.UserName,
		Text:           text,
		Locale:         args.Locale,
	})
	if err != nil {
		s.logger.Error("MCP send_message failed", "conversation_id", id, "err", err)
		return TurnResult{}, fmt.Errorf("turn failed: %w", err)
	}

	return TurnResult{
		ConversationID: id,
		Actions:        actions,
		Text:           Transcript(actions),
		AwaitingReply:  awaitingReply(actions),
	}, nil
}

func (s *Server) handleInspect(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ConversationArgs
	if err := request.BindArguments(&args); err != nil || args.ConversationID == "" {
		return mcp.NewToolResultError("conversation_id is required"), nil
	}
	state, err := s.bot.Inspect(ctx, args.ConversationID)
	if errors.Is(err, domain.ErrSessionNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("conversation %q not found", args.ConversationID)), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("inspect failed: %v", err)), nil
	}
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, err
	}
	return mcp.NewToolResultText(string(raw)), nil
}

func (s *Server) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var args ConversationArgs
	if err := request.BindArguments(&args); err != nil || args.ConversationID == "" {
		return mcp.NewToolResultError("conversation_id is required"), nil
	}
	if err := s.bot.Reset(ctx, args.ConversationID); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("reset failed: %v", err)), nil
	}
	return mcp.NewToolResultText("conversation " + args.ConversationID + " deleted"), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Dialog graph",
		mcp.WithResourceDescription("Mermaid flowchart of the root and KPMG dialogs"),
		mcp.WithMIMEType("text/vnd.mermaid"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/vnd.mermaid",
				Text:     graph.GenerateMermaid(dialog.Transitions(), nil),
			},
		}, nil
	})
}

// Transcript flattens the text and card prompts of a turn for clients that
// only show text.
func Transcript(actions []domain.ActionRequest) string {
	var lines []string
	for _, a := range actions {
		switch a.Type {
		case domain.ActionRenderContent:
			if msg, ok := a.Payload.(string); ok {
				lines = append(lines, msg)
			}
		case domain.ActionRenderCard:
			if card, ok := a.Payload.(domain.Attachment); ok {
				if title := runner.CardTitle(card); title != "" {
					lines = append(lines, title)
				}
				lines = append(lines, "Options: "+strings.Join(card.Choices, ", "))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func awaitingReply(actions []domain.ActionRequest) bool {
	for _, a := range actions {
		if a.Type == domain.ActionRequestInput {
			return true
		}
	}
	return false
}
