package plugin

import "context"

// Hook identifies one of the four extension points in the host pipeline.
// The set is closed: dispatch happens through an explicit switch, and names
// outside the set are treated as no-ops by the registry rather than errors,
// so hosts built against a newer hook vocabulary degrade gracefully.
type Hook int

const (
	// HookAgentInit runs when an agent is initialized and may rewrite the
	// agent's configuration record.
	HookAgentInit Hook = iota

	// HookGenerateRequest runs before a generation request is sent and may
	// rewrite the request parameters.
	HookGenerateRequest

	// HookGenerateResponse runs after a generation response is received and
	// may rewrite or annotate the response.
	HookGenerateResponse

	// HookChatMessage runs for each chat message and may rewrite or filter
	// the message.
	HookChatMessage
)

// hookNames maps hooks to their wire names, which also key the per-hook
// chains and appear in logs and spans.
var hookNames = map[Hook]string{
	HookAgentInit:        "agent_init",
	HookGenerateRequest:  "generate_request",
	HookGenerateResponse: "generate_response",
	HookChatMessage:      "chat_message",
}

// Hooks returns all recognized hooks in pipeline order.
func Hooks() []Hook {
	return []Hook{HookAgentInit, HookGenerateRequest, HookGenerateResponse, HookChatMessage}
}

// String returns the hook's wire name.
func (h Hook) String() string {
	if name, ok := hookNames[h]; ok {
		return name
	}
	return "unknown"
}

// ParseHook resolves a wire name to a Hook. The boolean is false for names
// outside the recognized set.
func ParseHook(name string) (Hook, bool) {
	for h, n := range hookNames {
		if n == name {
			return h, true
		}
	}
	return 0, false
}

// Invoke dispatches the callback for the given hook on the plugin.
// Unrecognized hooks return the record unchanged.
func Invoke(ctx context.Context, p Plugin, h Hook, rec Record) (Record, error) {
	switch h {
	case HookAgentInit:
		return p.OnAgentInit(ctx, rec)
	case HookGenerateRequest:
		return p.OnGenerateRequest(ctx, rec)
	case HookGenerateResponse:
		return p.OnGenerateResponse(ctx, rec)
	case HookChatMessage:
		return p.OnChatMessage(ctx, rec)
	default:
		return rec, nil
	}
}
