// Package genai wraps the OpenAI chat-completion API for generating the
// assistant's reply text. The model call is the only non-deterministic,
// network-bound step of a turn; everything upstream hands it a fully
// assembled prompt.
package genai

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Vionahk/Truffle-Personal-Intelligence-Assistant/internal/models"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// chatService defines the minimal interface for chat completions, so tests
// can substitute a mock for the real OpenAI client.
type chatService interface {
	New(ctx context.Context, body openai.ChatCompletionNewParams, opts ...option.RequestOption) (*openai.ChatCompletion, error)
}

// ClientInterface is what the turn orchestrator depends on.
type ClientInterface interface {
	GenerateReply(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userText string) (string, error)
}

// Opts holds configuration options for the GenAI client.
type Opts struct {
	APIKey string
	Model  openai.ChatModel
}

// Option defines a configuration option for the GenAI client.
type Option func(*Opts)

// WithAPIKey sets the OpenAI API key.
func WithAPIKey(key string) Option {
	return func(o *Opts) { o.APIKey = key }
}

// WithModel overrides the chat model.
func WithModel(model openai.ChatModel) Option {
	return func(o *Opts) { o.Model = model }
}

// Client wraps the OpenAI chat-completion service.
type Client struct {
	chat  chatService
	model openai.ChatModel
}

// NewClient initializes a GenAI client. The API key falls back to the
// OPENAI_API_KEY environment variable.
func NewClient(opts ...Option) (*Client, error) {
	var cfg Opts
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.APIKey == "" {
		cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key not set")
	}
	if cfg.Model == "" {
		cfg.Model = openai.ChatModelGPT4oMini
	}

	cli := openai.NewClient(option.WithAPIKey(cfg.APIKey))
	slog.Debug("GenAI client created", "model", cfg.Model)
	return &Client{chat: &cli.Chat.Completions, model: cfg.Model}, nil
}

// historyLimit bounds how many prior turns are sent to the model.
const historyLimit = 20

// GenerateReply produces the assistant's reply for one turn. The system
// prompt carries the tone guidance; the history carries conversational
// context in order.
func (c *Client) GenerateReply(ctx context.Context, systemPrompt string, history []models.ConversationTurn, userText string) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(systemPrompt),
	}

	start := 0
	if len(history) > historyLimit {
		start = len(history) - historyLimit
	}
	for _, turn := range history[start:] {
		switch turn.Role {
		case models.RoleUser:
			messages = append(messages, openai.UserMessage(turn.Text))
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Text))
		}
	}
	messages = append(messages, openai.UserMessage(userText))

	resp, err := c.chat.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: messages,
	})
	if err != nil {
		slog.Error("GenAI completion failed", "error", err)
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	reply := resp.Choices[0].Message.Content
	slog.Debug("GenAI reply generated", "history_len", len(history), "reply_len", len(reply))
	return reply, nil
}
