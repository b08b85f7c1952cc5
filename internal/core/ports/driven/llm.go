package driven

import (
	"context"

	"github.com/operand-hq/crewd/internal/core/domain"
)

// LLMService provides language model operations for routing and agent
// execution.
//
// Implementations may include:
//   - Anthropic (Claude, native tool use)
//   - Ollama (local models with tool calling)
type LLMService interface {
	// Generate produces a text completion from a single prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// Chat conducts a plain multi-turn conversation without tools.
	Chat(ctx context.Context, messages []ChatMessage, opts ChatOptions) (string, error)

	// ChatWithTools conducts one model call in a tool-use conversation.
	// Turns carry content blocks so assistant tool requests and tool
	// results round-trip losslessly.
	ChatWithTools(ctx context.Context, system string, turns []Turn, tools []domain.ToolDef, opts ChatOptions) (*ToolChatResponse, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}

// ChatMessage represents a single plain-text message in a conversation.
type ChatMessage struct {
	// Role is one of "system", "user", or "assistant".
	Role string

	// Content is the message text.
	Content string
}

// ChatOptions configures chat behaviour.
type ChatOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	Temperature float64
}

// Content block types carried in tool-use conversations.
const (
	BlockText       = "text"
	BlockToolUse    = "tool_use"
	BlockToolResult = "tool_result"
)

// Stop reasons reported by ChatWithTools.
const (
	StopReasonEndTurn = "end_turn"
	StopReasonToolUse = "tool_use"
	StopReasonMaxTok  = "max_tokens"
)

// ContentBlock is one piece of a tool-use conversation turn.
type ContentBlock struct {
	// Type is one of the Block* constants.
	Type string

	// Text is set for BlockText.
	Text string

	// ToolUseID identifies a tool request and links its result.
	ToolUseID string

	// ToolName is the requested tool, set for BlockToolUse.
	ToolName string

	// ToolInput is the model-provided tool input, set for BlockToolUse.
	ToolInput map[string]any

	// Content is the tool output payload, set for BlockToolResult.
	Content string

	// IsError flags a failed tool dispatch on BlockToolResult.
	IsError bool
}

// Turn is one conversation turn of content blocks.
type Turn struct {
	// Role is "user" or "assistant".
	Role string

	// Blocks is the ordered block list for the turn.
	Blocks []ContentBlock
}

// ToolChatResponse is the model's reply to a ChatWithTools call.
type ToolChatResponse struct {
	// Blocks is the assistant content, possibly mixing text and tool
	// requests.
	Blocks []ContentBlock

	// StopReason is one of the StopReason* constants.
	StopReason string
}

// Text concatenates all text blocks of the response.
func (r *ToolChatResponse) Text() string {
	var out string
	for _, block := range r.Blocks {
		if block.Type == BlockText {
			out += block.Text
		}
	}
	return out
}

// ToolUses returns the tool request blocks of the response, in order.
func (r *ToolChatResponse) ToolUses() []ContentBlock {
	var uses []ContentBlock
	for _, block := range r.Blocks {
		if block.Type == BlockToolUse {
			uses = append(uses, block)
		}
	}
	return uses
}
