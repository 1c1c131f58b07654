package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"easymode/internal/llm"
)

// MaxLoopIterations is the hard ceiling on model turns in a tool loop. It
// is the safety valve against a model that never stops requesting tools,
// and it is enforced unconditionally: hitting it ends the loop quietly
// with whatever the handlers accumulated.
const MaxLoopIterations = 10

// Handler executes one tool call: it mutates the caller's accumulator and
// returns a textual acknowledgment that is fed back to the model.
type Handler func(args json.RawMessage) (string, error)

// Registry maps tool names to handlers. It is injected into RunLoop so the
// same loop drives any agent.
type Registry map[string]Handler

// RunLoop drives a bounded tool-calling conversation. Each iteration is one
// model call; tool calls are dispatched through the registry and their
// acknowledgments appended to the transcript before the next call. The
// loop ends when the model stops requesting tools or maxIters is reached.
// It returns the final assistant text and the number of tool calls
// executed. Model errors are returned as-is; handler errors are reported
// to the model as acknowledgment text, not surfaced.
func RunLoop(ctx context.Context, tc llm.ToolCaller, messages []llm.Message, tools []llm.Tool, reg Registry, maxIters int) (string, int, error) {
	if maxIters <= 0 || maxIters > MaxLoopIterations {
		maxIters = MaxLoopIterations
	}

	transcript := make([]llm.Message, len(messages))
	copy(transcript, messages)

	finalText := ""
	steps := 0
	for i := 0; i < maxIters; i++ {
		resp, err := tc.ChatWithTools(ctx, transcript, tools)
		if err != nil {
			return "", steps, err
		}
		finalText = resp.Content
		if len(resp.ToolCalls) == 0 {
			return finalText, steps, nil
		}

		transcript = append(transcript, llm.Message{
			Role:      "assistant",
			Content:   resp.Content,
			ToolCalls: resp.ToolCalls,
		})
		for _, call := range resp.ToolCalls {
			ack := dispatch(reg, call)
			steps++
			transcript = append(transcript, llm.Message{
				Role:       "tool",
				ToolCallID: call.ID,
				Content:    ack,
			})
		}
	}

	log.Printf("[Agent] Tool loop hit iteration cap (%d), returning accumulated state", maxIters)
	return finalText, steps, nil
}

func dispatch(reg Registry, call llm.ToolCall) string {
	handler, ok := reg[call.Function.Name]
	if !ok {
		return fmt.Sprintf("unknown tool: %s", call.Function.Name)
	}
	ack, err := handler(json.RawMessage(call.Function.Arguments))
	if err != nil {
		return fmt.Sprintf("tool %s failed: %v", call.Function.Name, err)
	}
	return ack
}
