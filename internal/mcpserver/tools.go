package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"go-chi-calculator/internal/accumulator"
	"go-chi-calculator/internal/session"
)

// Tool names
const (
	ToolPrefix = "calculator."

	ToolPress = ToolPrefix + "press"
	ToolClear = ToolPrefix + "clear"
)

// stateResult is the JSON text returned by every tool.
type stateResult struct {
	SessionID    string `json:"session_id"`
	Display      string `json:"display"`
	RunningTotal string `json:"running_total,omitempty"`
}

func newStateResult(id string, s accumulator.State) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(stateResult{
		SessionID:    id,
		Display:      s.Display,
		RunningTotal: s.RunningTotal(),
	})
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

// PressTool presses a sequence of keypad keys in a session.
type PressTool struct {
	sessions *session.Store
	logger   *zap.Logger
}

func NewPressTool(sessions *session.Store, logger *zap.Logger) *PressTool {
	return &PressTool{sessions: sessions, logger: logger}
}

// GetTool returns the MCP tool definition
func (t *PressTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolPress,
		mcp.WithDescription("Press calculator keys (digits, '.', + - * /, '=', 'C', and the function keys "+
			"'n' negate, '%' percent, 'r' square root, 's' square) in order and return the display. "+
			"Operators apply left to right without precedence."),
		mcp.WithString("keys", mcp.Required(), mcp.Description("Key sequence, e.g. \"2+3*4=\"")),
		mcp.WithString("session_id", mcp.Description("Session to continue; omit to start a new one")),
	)
}

// Handle processes the tool request
func (t *PressTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	keys := mcp.ParseString(req, "keys", "")
	if keys == "" {
		return mcp.NewToolResultError("keys parameter is required"), nil
	}

	intents, err := accumulator.ParseKeys(keys)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(intents) == 0 {
		return mcp.NewToolResultError("keys must contain at least one key"), nil
	}

	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		sess, err := t.sessions.Create()
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("Failed to create session: %v", err)), nil
		}
		id = sess.ID
	}

	state, err := t.sessions.Do(id, func(acc *accumulator.Accumulator) {
		for _, in := range intents {
			acc.Dispatch(in)
		}
	})
	if errors.Is(err, session.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown session %q", id)), nil
	}
	if err != nil {
		return nil, err
	}

	t.logger.Debug("keys pressed",
		zap.String("session_id", id),
		zap.Int("intents", len(intents)),
		zap.String("display", state.Display),
	)

	return newStateResult(id, state)
}

// ClearTool resets a session's calculator.
type ClearTool struct {
	sessions *session.Store
}

func NewClearTool(sessions *session.Store) *ClearTool {
	return &ClearTool{sessions: sessions}
}

// GetTool returns the MCP tool definition
func (t *ClearTool) GetTool() mcp.Tool {
	return mcp.NewTool(ToolClear,
		mcp.WithDescription("Reset a calculator session to 0"),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session to clear")),
	)
}

// Handle processes the tool request
func (t *ClearTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := mcp.ParseString(req, "session_id", "")
	if id == "" {
		return mcp.NewToolResultError("session_id parameter is required"), nil
	}

	state, err := t.sessions.Do(id, func(acc *accumulator.Accumulator) {
		acc.Clear()
	})
	if errors.Is(err, session.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("Unknown session %q", id)), nil
	}
	if err != nil {
		return nil, err
	}

	return newStateResult(id, state)
}
