package openresponses

// StreamChunk represents one raw SSE record read from the transport
type StreamChunk struct {
	Data []byte
	Done bool
}

// StreamingEvent is the base interface for all streaming events
type StreamingEvent interface {
	GetType() string
	GetSequenceNumber() int64
}

// BaseStreamingEvent provides the envelope fields every event carries
type BaseStreamingEvent struct {
	Type           string `json:"type"`
	SequenceNumber int64  `json:"sequence_number"`
}

func (e *BaseStreamingEvent) GetType() string          { return e.Type }
func (e *BaseStreamingEvent) GetSequenceNumber() int64 { return e.SequenceNumber }

// ResponseLifecycleEvent covers the response-level lifecycle transitions:
// response.created, response.queued, response.in_progress, response.completed,
// response.failed, response.incomplete. The Response snapshot is full for
// created/completed and may be partial elsewhere.
type ResponseLifecycleEvent struct {
	BaseStreamingEvent
	Response *Response `json:"response,omitempty"`
}

// Status maps the event type to the response status it announces
func (e *ResponseLifecycleEvent) Status() (ResponseStatusEnum, bool) {
	switch e.Type {
	case "response.created":
		return ResponseStatusInProgress, true
	case "response.queued":
		return ResponseStatusQueued, true
	case "response.in_progress":
		return ResponseStatusInProgress, true
	case "response.completed":
		return ResponseStatusCompleted, true
	case "response.failed":
		return ResponseStatusFailed, true
	case "response.incomplete":
		return ResponseStatusIncomplete, true
	case "response.cancelled":
		return ResponseStatusCancelled, true
	}
	return "", false
}

// ErrorEvent is emitted when the server reports a stream-level error
type ErrorEvent struct {
	BaseStreamingEvent
	Error *Error `json:"error"`
}

// OutputItemAddedEvent introduces a new output item at OutputIndex
type OutputItemAddedEvent struct {
	BaseStreamingEvent
	OutputIndex int   `json:"output_index"`
	Item        *Item `json:"item"`
}

// OutputItemDoneEvent finalizes the output item at OutputIndex. When Item is
// present it is the authoritative final payload.
type OutputItemDoneEvent struct {
	BaseStreamingEvent
	OutputIndex int   `json:"output_index"`
	Item        *Item `json:"item"`
}

// ContentPartAddedEvent introduces a new content part within a message item
type ContentPartAddedEvent struct {
	BaseStreamingEvent
	ItemID       string       `json:"item_id"`
	OutputIndex  int          `json:"output_index"`
	ContentIndex int          `json:"content_index"`
	Part         *ContentItem `json:"part"`
}

// ContentPartDoneEvent finalizes a content part within a message item
type ContentPartDoneEvent struct {
	BaseStreamingEvent
	ItemID       string       `json:"item_id"`
	OutputIndex  int          `json:"output_index"`
	ContentIndex int          `json:"content_index"`
	Part         *ContentItem `json:"part"`
}

// OutputTextDeltaEvent appends a text fragment to a content part
type OutputTextDeltaEvent struct {
	BaseStreamingEvent
	ItemID       string    `json:"item_id"`
	OutputIndex  int       `json:"output_index"`
	ContentIndex int       `json:"content_index"`
	Delta        string    `json:"delta"`
	Logprobs     []LogProb `json:"logprobs,omitempty"`
}

// OutputTextDoneEvent carries the full text of a finished content part
type OutputTextDoneEvent struct {
	BaseStreamingEvent
	ItemID       string    `json:"item_id"`
	OutputIndex  int       `json:"output_index"`
	ContentIndex int       `json:"content_index"`
	Text         string    `json:"text"`
	Logprobs     []LogProb `json:"logprobs,omitempty"`
}

// OutputTextAnnotationAddedEvent attaches an annotation to a content part
type OutputTextAnnotationAddedEvent struct {
	BaseStreamingEvent
	ItemID          string      `json:"item_id"`
	OutputIndex     int         `json:"output_index"`
	ContentIndex    int         `json:"content_index"`
	AnnotationIndex int         `json:"annotation_index"`
	Annotation      *Annotation `json:"annotation"`
}

// RefusalDeltaEvent appends a refusal fragment to a content part
type RefusalDeltaEvent struct {
	BaseStreamingEvent
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Delta        string `json:"delta"`
}

// RefusalDoneEvent carries the full refusal of a finished content part
type RefusalDoneEvent struct {
	BaseStreamingEvent
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	ContentIndex int    `json:"content_index"`
	Refusal      string `json:"refusal"`
}

// FunctionCallArgumentsDeltaEvent appends an arguments fragment to a
// function_call item
type FunctionCallArgumentsDeltaEvent struct {
	BaseStreamingEvent
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	Delta       string `json:"delta"`
}

// FunctionCallArgumentsDoneEvent carries the complete arguments of a
// function_call item. Arguments may arrive as a string or a nested object.
type FunctionCallArgumentsDoneEvent struct {
	BaseStreamingEvent
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	Arguments   Value  `json:"arguments,omitzero"`
}

// MCPCallArgumentsDeltaEvent appends an arguments fragment to an mcp_call item
type MCPCallArgumentsDeltaEvent struct {
	BaseStreamingEvent
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	Delta       string `json:"delta"`
}

// MCPCallArgumentsDoneEvent carries the complete arguments of an mcp_call item
type MCPCallArgumentsDoneEvent struct {
	BaseStreamingEvent
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	Arguments   Value  `json:"arguments,omitzero"`
}

// MCPApprovalRequestEvent announces a pending human-approval gate for an MCP
// tool call. Some servers put the request fields at the top level, others nest
// the full item; both forms are carried.
type MCPApprovalRequestEvent struct {
	BaseStreamingEvent
	OutputIndex int    `json:"output_index"`
	Item        *Item  `json:"item,omitempty"`
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	ServerLabel string `json:"server_label,omitempty"`
	Arguments   Value  `json:"arguments,omitzero"`
}

// ApprovalRequest extracts the approval request from either carried form
func (e *MCPApprovalRequestEvent) ApprovalRequest() (*ApprovalRequest, bool) {
	if e.Item != nil {
		return ApprovalRequestFromItem(e.Item)
	}
	if e.ID == "" {
		return nil, false
	}
	return &ApprovalRequest{
		ID:          e.ID,
		ToolName:    e.Name,
		ServerLabel: e.ServerLabel,
		Arguments:   e.Arguments.ArgumentsString(),
		Status:      ApprovalStatusPending,
	}, true
}

// CodeInterpreterCodeDeltaEvent appends a code fragment to a
// code_interpreter_call item
type CodeInterpreterCodeDeltaEvent struct {
	BaseStreamingEvent
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	Delta       string `json:"delta"`
}

// CodeInterpreterCodeDoneEvent carries the complete code of a
// code_interpreter_call item
type CodeInterpreterCodeDoneEvent struct {
	BaseStreamingEvent
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	Code        string `json:"code"`
}

// ReasoningSummaryPartAddedEvent introduces a reasoning summary part
type ReasoningSummaryPartAddedEvent struct {
	BaseStreamingEvent
	ItemID       string              `json:"item_id"`
	OutputIndex  int                 `json:"output_index"`
	SummaryIndex int                 `json:"summary_index"`
	Part         *SummaryTextContent `json:"part,omitempty"`
}

// ReasoningSummaryPartDoneEvent finalizes a reasoning summary part
type ReasoningSummaryPartDoneEvent struct {
	BaseStreamingEvent
	ItemID       string              `json:"item_id"`
	OutputIndex  int                 `json:"output_index"`
	SummaryIndex int                 `json:"summary_index"`
	Part         *SummaryTextContent `json:"part,omitempty"`
}

// ReasoningSummaryTextDeltaEvent appends a fragment to a reasoning summary part
type ReasoningSummaryTextDeltaEvent struct {
	BaseStreamingEvent
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	SummaryIndex int    `json:"summary_index"`
	Delta        string `json:"delta"`
}

// ReasoningSummaryTextDoneEvent carries the full text of a reasoning summary part
type ReasoningSummaryTextDoneEvent struct {
	BaseStreamingEvent
	ItemID       string `json:"item_id"`
	OutputIndex  int    `json:"output_index"`
	SummaryIndex int    `json:"summary_index"`
	Text         string `json:"text"`
}

// ImageGenerationPartialImageEvent carries an intermediate image rendering
type ImageGenerationPartialImageEvent struct {
	BaseStreamingEvent
	ItemID            string `json:"item_id"`
	OutputIndex       int    `json:"output_index"`
	PartialImageIndex int    `json:"partial_image_index"`
	PartialImageB64   string `json:"partial_image_b64,omitempty"`
}

// ToolCallStatusEvent covers the plain status transitions of tool call items:
// mcp_call, mcp_list_tools, web_search_call, file_search_call,
// code_interpreter_call and image_generation_call in_progress / searching /
// interpreting / generating / completed / failed. The event type string
// selects the transition.
type ToolCallStatusEvent struct {
	BaseStreamingEvent
	ItemID      string `json:"item_id"`
	OutputIndex int    `json:"output_index"`
	Error       *Error `json:"error,omitempty"`
}

// ItemStatus maps the event type suffix to the item status it announces
func (e *ToolCallStatusEvent) ItemStatus() (ItemStatusEnum, bool) {
	switch suffixAfterLastDot(e.Type) {
	case "in_progress":
		return ItemStatusInProgress, true
	case "searching":
		return ItemStatusSearching, true
	case "interpreting":
		return ItemStatusInterpreting, true
	case "generating":
		return ItemStatusGenerating, true
	case "completed":
		return ItemStatusCompleted, true
	case "failed":
		return ItemStatusFailed, true
	}
	return "", false
}

func suffixAfterLastDot(s string) string {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return s[i+1:]
		}
	}
	return s
}

// UnknownEvent preserves an event whose type this client does not recognize.
// Raw keeps the full record so nothing is lost when forwarding.
type UnknownEvent struct {
	BaseStreamingEvent
	Raw Value `json:"-"`
}
