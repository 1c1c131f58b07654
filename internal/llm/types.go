package llm

import "context"

// Message is one turn in an OpenAI-compatible chat payload.
type Message struct {
	Role       string     `json:"role"` // system, user, assistant, tool
	Content    string     `json:"content"`
	ToolCalls  []ToolCall `json:"tool_calls,omitempty"`
	ToolCallID string     `json:"tool_call_id,omitempty"`
}

// ToolCall is a structured function invocation requested by the model.
type ToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function FunctionCall `json:"function"`
}

type FunctionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"` // raw JSON object, may be malformed
}

// Tool describes a callable function exposed to the model.
type Tool struct {
	Type     string       `json:"type"`
	Function ToolFunction `json:"function"`
}

type ToolFunction struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Parameters  map[string]interface{} `json:"parameters"`
}

// NewTool builds a function tool with a JSON-schema parameter object.
func NewTool(name, description string, parameters map[string]interface{}) Tool {
	return Tool{
		Type: "function",
		Function: ToolFunction{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}

// ToolResponse is what one model turn produced: free text, tool-call
// requests, or both.
type ToolResponse struct {
	Content   string
	ToolCalls []ToolCall
}

// Completer is the text-completion surface orchestrators depend on.
// The model must be treated as slow, occasionally malformed and
// non-deterministic; callers own their fallbacks.
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
	CompleteJSON(ctx context.Context, system, prompt string, out interface{}) error
}

// ToolCaller is the tool-calling surface used by the planning agent.
type ToolCaller interface {
	ChatWithTools(ctx context.Context, messages []Message, tools []Tool) (*ToolResponse, error)
}
