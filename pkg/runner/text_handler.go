package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/careerbot/pkg/domain"
)

// TextHandler renders turns as plain text for a terminal. Cards are shown as
// numbered choices and a numeric reply picks the matching option.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer
	// Typing is written for each typing indicator; empty hides them.
	Typing string

	mu      sync.Mutex
	options []string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTypingIndicator sets the text written for typing indicators.
func WithTypingIndicator(s string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Typing = s
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Typing: "...",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honour cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

func (h *TextHandler) Output(ctx context.Context, actions []domain.ActionRequest) (bool, error) {
	needsInput := false
	var options []string
	for _, act := range actions {
		switch act.Type {
		case domain.ActionRenderContent:
			if msg, ok := act.Payload.(string); ok {
				fmt.Fprintln(h.Writer, h.render(msg))
			}

		case domain.ActionRenderCard:
			if card, ok := act.Payload.(domain.Attachment); ok {
				h.writeCard(card)
			}

		case domain.ActionTyping:
			if h.Typing != "" {
				fmt.Fprintln(h.Writer, h.Typing)
			}

		case domain.ActionRequestInput:
			needsInput = true
			if req, ok := act.Payload.(domain.InputRequest); ok && req.Type == domain.InputChoice {
				options = req.Options
			}
		}
	}

	h.mu.Lock()
	h.options = options
	h.mu.Unlock()
	return needsInput, nil
}

func (h *TextHandler) render(msg string) string {
	if h.Renderer != nil {
		if rendered, err := h.Renderer(msg); err == nil {
			return strings.TrimSpace(rendered)
		}
	}
	return strings.TrimSpace(msg)
}

func (h *TextHandler) writeCard(card domain.Attachment) {
	if title := CardTitle(card); title != "" {
		fmt.Fprintln(h.Writer, h.render(title))
	}
	for i, choice := range card.Choices {
		fmt.Fprintf(h.Writer, "  %d. %s\n", i+1, choice)
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, "> ")
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(res.text)
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return h.pick(clean), nil
		}
	}
}

// pick maps "2" to the second option of the pending choice prompt.
func (h *TextHandler) pick(text string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	n, err := strconv.Atoi(text)
	if err != nil || n < 1 || n > len(h.options) {
		return text
	}
	return h.options[n-1]
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "[System] %s\n", msg)
	return err
}

// CardTitle joins the text blocks of an adaptive card.
func CardTitle(card domain.Attachment) string {
	var doc struct {
		Body []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"body"`
	}
	if err := json.Unmarshal(card.Content, &doc); err != nil {
		return ""
	}
	var parts []string
	for _, b := range doc.Body {
		if b.Type == "TextBlock" && b.Text != "" {
			parts = append(parts, b.Text)
		}
	}
	return strings.Join(parts, "\n")
}
