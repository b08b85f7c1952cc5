package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/operand-hq/crewd/internal/core/domain"
	"github.com/operand-hq/crewd/internal/logger"
)

// customBodyLimit caps how much of a webhook response is fed back to the
// model.
const customBodyLimit = 10000

// customToolDef declares a user-defined tool to the model. All custom
// tools share a single free-form input field.
func customToolDef(ct domain.CustomTool) domain.ToolDef {
	return domain.ToolDef{
		Name:        ct.Name,
		Description: ct.Description,
		InputSchema: objectSchema(map[string]any{
			"input": stringProp("The input to send to the tool"),
		}, "input"),
	}
}

// webhookPayload is the body POSTed to custom tool endpoints.
type webhookPayload struct {
	Input     string `json:"input"`
	Context   string `json:"context"`
	ToolID    string `json:"toolId"`
	ToolName  string `json:"toolName"`
	Timestamp int64  `json:"timestamp"`
}

// dispatchCustom POSTs the tool input to the configured endpoint. Failures
// and non-2xx responses are surfaced as errors so the loop can flag the
// tool result instead of aborting the run.
func (r *Registry) dispatchCustom(
	ctx context.Context, ct domain.CustomTool, input map[string]any,
) (string, error) {
	if err := r.webhooks.Wait(ctx); err != nil {
		return "", fmt.Errorf("custom tool %s: %w", ct.Name, err)
	}

	payload := webhookPayload{
		Input:     stringInput(input, "input"),
		Context:   stringInput(input, "context"),
		ToolID:    ct.ID,
		ToolName:  ct.Name,
		Timestamp: r.now().UnixMilli(),
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("custom tool %s: encode payload: %w", ct.Name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ct.Endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("custom tool %s: %w", ct.Name, err)
	}
	req.Header.Set("Content-Type", "application/json")

	switch ct.AuthType {
	case domain.CustomToolAuthBearer:
		req.Header.Set("Authorization", "Bearer "+ct.AuthValue)
	case domain.CustomToolAuthAPIKey:
		req.Header.Set("X-API-Key", ct.AuthValue)
	}

	logger.Debug("Custom tool %s: POST %s", ct.Name, ct.Endpoint)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("custom tool %s: %w", ct.Name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, customBodyLimit))
	if err != nil {
		return "", fmt.Errorf("custom tool %s: read response: %w", ct.Name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("custom tool %s: endpoint returned HTTP %d: %s",
			ct.Name, resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	// Endpoints are not required to return JSON; a plain text body is
	// passed through as-is.
	var parsed struct {
		Result string `json:"result"`
		Output string `json:"output"`
	}
	if json.Unmarshal(raw, &parsed) == nil {
		if parsed.Result != "" {
			return parsed.Result, nil
		}
		if parsed.Output != "" {
			return parsed.Output, nil
		}
	}
	return string(raw), nil
}
