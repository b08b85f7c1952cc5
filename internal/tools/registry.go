// Package tools declares the agent tool surface and dispatches calls.
//
// The registry holds built-in tools plus the recursive create_sub_agent
// tool. User-defined HTTP tools are merged in per call rather than
// registered, so one registry safely serves concurrent runs with
// different custom tool sets.
package tools

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/logger"
)

// Handler executes one tool call.
type Handler func(ctx context.Context, input map[string]any) (string, error)

// SubAgentRunner executes a sub-agent task and returns its final text.
// It is injected after construction to break the cycle between the
// registry and the execution loop that both need each other.
type SubAgentRunner func(ctx context.Context, role, task string) (string, error)

// Registry declares tools to the model and dispatches calls by name.
type Registry struct {
	defs     []domain.ToolDef
	handlers map[string]Handler

	httpClient *http.Client
	now        func() time.Time
	webhooks   *rate.Limiter

	subAgent SubAgentRunner
}

// Option configures the registry.
type Option func(*Registry)

// WithHTTPClient sets the client used by network-backed tools.
func WithHTTPClient(client *http.Client) Option {
	return func(r *Registry) {
		if client != nil {
			r.httpClient = client
		}
	}
}

// WithClock sets the time source used by time-aware tools.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// WithWebhookLimit caps custom tool webhook calls per second.
func WithWebhookLimit(perSecond float64, burst int) Option {
	return func(r *Registry) {
		r.webhooks = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// New creates a registry with all built-in tools registered.
func New(opts ...Option) *Registry {
	r := &Registry{
		handlers:   make(map[string]Handler),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
		webhooks:   rate.NewLimiter(rate.Limit(5), 10),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.registerBuiltins()
	r.registerSubAgent()
	return r
}

// Register adds a tool. Registering an existing name replaces its handler.
func (r *Registry) Register(def domain.ToolDef, handler Handler) {
	if _, exists := r.handlers[def.Name]; !exists {
		r.defs = append(r.defs, def)
	}
	r.handlers[def.Name] = handler
}

// SetSubAgentRunner injects the sub-agent executor.
func (r *Registry) SetSubAgentRunner(runner SubAgentRunner) {
	r.subAgent = runner
}

// Declarations returns the tool definitions to expose to the model,
// including the given custom tools.
func (r *Registry) Declarations(custom []domain.CustomTool) []domain.ToolDef {
	defs := make([]domain.ToolDef, 0, len(r.defs)+len(custom))
	defs = append(defs, r.defs...)
	for _, ct := range custom {
		defs = append(defs, customToolDef(ct))
	}
	return defs
}

// Dispatch executes the named tool. Custom tools shadow built-ins of the
// same name. An unknown name returns domain.ErrUnknownTool.
func (r *Registry) Dispatch(
	ctx context.Context, name string, input map[string]any, custom []domain.CustomTool,
) (string, error) {
	logger.Debug("Tool dispatch: %s", name)

	for _, ct := range custom {
		if ct.Name == name {
			return r.dispatchCustom(ctx, ct, input)
		}
	}

	handler, ok := r.handlers[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownTool, name)
	}
	return handler(ctx, input)
}

// stringInput extracts a string field from tool input.
func stringInput(input map[string]any, key string) string {
	s, _ := input[key].(string)
	return s
}

// numberInput extracts a numeric field from tool input. JSON numbers
// decode as float64.
func numberInput(input map[string]any, key string) float64 {
	n, _ := input[key].(float64)
	return n
}
