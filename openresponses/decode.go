package openresponses

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// eventEnvelope is the part of a record every event shares. Decoding
// sequence_number through json.Number keeps large values exact.
type eventEnvelope struct {
	Type           string      `json:"type"`
	SequenceNumber json.Number `json:"sequence_number"`
}

// DecodeEvent parses one raw SSE record into its typed streaming event.
// Records with an unrecognized type decode to *UnknownEvent rather than
// failing, so new server-side event types never break the stream. Only
// malformed JSON or a missing type tag is an error.
func DecodeEvent(raw []byte) (StreamingEvent, error) {
	var env eventEnvelope
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("decode event envelope: %w", err)
	}
	if env.Type == "" {
		return nil, fmt.Errorf("decode event: missing type tag")
	}

	seq, err := env.SequenceNumber.Int64()
	if err != nil && env.SequenceNumber != "" {
		return nil, fmt.Errorf("decode event %q: bad sequence_number %q: %w", env.Type, env.SequenceNumber, err)
	}

	ev := newEventForType(env.Type)
	if ev == nil {
		unknown := &UnknownEvent{
			BaseStreamingEvent: BaseStreamingEvent{Type: env.Type, SequenceNumber: seq},
			Raw:                NewValue(raw),
		}
		return unknown, nil
	}

	if err := json.Unmarshal(raw, ev); err != nil {
		return nil, fmt.Errorf("decode %q event: %w", env.Type, err)
	}
	return ev, nil
}

// newEventForType returns a zero event struct for a known type, or nil
func newEventForType(eventType string) StreamingEvent {
	switch eventType {
	case "response.created", "response.queued", "response.in_progress",
		"response.completed", "response.failed", "response.incomplete",
		"response.cancelled":
		return &ResponseLifecycleEvent{}
	case "error":
		return &ErrorEvent{}
	case "response.output_item.added":
		return &OutputItemAddedEvent{}
	case "response.output_item.done":
		return &OutputItemDoneEvent{}
	case "response.content_part.added":
		return &ContentPartAddedEvent{}
	case "response.content_part.done":
		return &ContentPartDoneEvent{}
	case "response.output_text.delta":
		return &OutputTextDeltaEvent{}
	case "response.output_text.done":
		return &OutputTextDoneEvent{}
	case "response.output_text.annotation.added":
		return &OutputTextAnnotationAddedEvent{}
	case "response.refusal.delta":
		return &RefusalDeltaEvent{}
	case "response.refusal.done":
		return &RefusalDoneEvent{}
	case "response.function_call_arguments.delta":
		return &FunctionCallArgumentsDeltaEvent{}
	case "response.function_call_arguments.done":
		return &FunctionCallArgumentsDoneEvent{}
	case "response.mcp_call_arguments.delta":
		return &MCPCallArgumentsDeltaEvent{}
	case "response.mcp_call_arguments.done":
		return &MCPCallArgumentsDoneEvent{}
	case "response.mcp_approval_request":
		return &MCPApprovalRequestEvent{}
	case "response.code_interpreter_call_code.delta":
		return &CodeInterpreterCodeDeltaEvent{}
	case "response.code_interpreter_call_code.done":
		return &CodeInterpreterCodeDoneEvent{}
	case "response.reasoning_summary_part.added":
		return &ReasoningSummaryPartAddedEvent{}
	case "response.reasoning_summary_part.done":
		return &ReasoningSummaryPartDoneEvent{}
	case "response.reasoning_summary_text.delta":
		return &ReasoningSummaryTextDeltaEvent{}
	case "response.reasoning_summary_text.done":
		return &ReasoningSummaryTextDoneEvent{}
	case "response.image_generation_call.partial_image":
		return &ImageGenerationPartialImageEvent{}
	case "response.mcp_call.in_progress", "response.mcp_call.completed",
		"response.mcp_call.failed",
		"response.mcp_list_tools.in_progress", "response.mcp_list_tools.completed",
		"response.mcp_list_tools.failed",
		"response.web_search_call.in_progress", "response.web_search_call.searching",
		"response.web_search_call.completed",
		"response.file_search_call.in_progress", "response.file_search_call.searching",
		"response.file_search_call.completed",
		"response.code_interpreter_call.in_progress", "response.code_interpreter_call.interpreting",
		"response.code_interpreter_call.completed",
		"response.image_generation_call.in_progress", "response.image_generation_call.generating",
		"response.image_generation_call.completed":
		return &ToolCallStatusEvent{}
	}
	return nil
}
