package openresponses

import "time"

// CreateRequest is the request body for creating a response
type CreateRequest struct {
	Model              string              `json:"model"`
	Input              InputParam          `json:"input"`
	PreviousResponseID string              `json:"previous_response_id,omitempty"`
	Include            []IncludeEnum       `json:"include,omitempty"`
	Tools              []Tool              `json:"tools,omitempty"`
	ToolChoice         ToolChoiceParam     `json:"tool_choice,omitempty"`
	Metadata           *MetadataParam      `json:"metadata,omitempty"`
	Text               *TextParam          `json:"text,omitempty"`
	Temperature        *float64            `json:"temperature,omitempty"`
	TopP               *float64            `json:"top_p,omitempty"`
	PresencePenalty    *float64            `json:"presence_penalty,omitempty"`
	FrequencyPenalty   *float64            `json:"frequency_penalty,omitempty"`
	ParallelToolCalls  *bool               `json:"parallel_tool_calls,omitempty"`
	Stream             *bool               `json:"stream,omitempty"`
	StreamOptions      *StreamOptionsParam `json:"stream_options,omitempty"`
	Background         *bool               `json:"background,omitempty"`
	MaxOutputTokens    *int                `json:"max_output_tokens,omitempty"`
	MaxToolCalls       *int                `json:"max_tool_calls,omitempty"`
	Reasoning          *ReasoningParam     `json:"reasoning,omitempty"`
	Truncation         TruncationEnum      `json:"truncation,omitempty"`
	Instructions       string              `json:"instructions,omitempty"`
	Store              *bool               `json:"store,omitempty"`
	ServiceTier        ServiceTierEnum     `json:"service_tier,omitempty"`
	TopLogprobs        *int                `json:"top_logprobs,omitempty"`
}

// InputParam represents the input which can be a string or array of items
type InputParam interface{}

// ItemParam represents an input item
type ItemParam interface{}

// UserMessageItemParam represents a user message item
type UserMessageItemParam struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`    // "message"
	Role    MessageRoleEnum `json:"role"`    // "user"
	Content ContentParam    `json:"content"` // string or []ContentParam
}

// SystemMessageItemParam represents a system message item
type SystemMessageItemParam struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`    // "message"
	Role    MessageRoleEnum `json:"role"`    // "system"
	Content ContentParam    `json:"content"` // string or []ContentParam
}

// ItemReferenceParam represents a reference to an existing item
type ItemReferenceParam struct {
	Type string `json:"type"` // "item_reference"
	ID   string `json:"id"`
}

// Tool represents a tool the model can use
type Tool interface{}

// FunctionTool represents a function tool
type FunctionTool struct {
	Type        string         `json:"type"` // "function"
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
	Strict      *bool          `json:"strict,omitempty"`
}

// MCPTool configures a remote MCP tool server the model may call
type MCPTool struct {
	Type            string   `json:"type"` // "mcp"
	ServerLabel     string   `json:"server_label"`
	ServerURL       string   `json:"server_url,omitempty"`
	AllowedTools    []string `json:"allowed_tools,omitempty"`
	RequireApproval any      `json:"require_approval,omitempty"` // "always" | "never" | object
	Headers         map[string]string `json:"headers,omitempty"`
}

// ComputerTool configures the computer-use tool
type ComputerTool struct {
	Type          string `json:"type"` // "computer_use_preview"
	DisplayWidth  int    `json:"display_width"`
	DisplayHeight int    `json:"display_height"`
	Environment   string `json:"environment"` // "browser" | "mac" | "windows" | "ubuntu"
}

// CodeInterpreterTool configures the sandboxed code interpreter
type CodeInterpreterTool struct {
	Type      string `json:"type"` // "code_interpreter"
	Container any    `json:"container,omitempty"`
}

// WebSearchTool configures web search
type WebSearchTool struct {
	Type string `json:"type"` // "web_search"
}

// ImageGenerationTool configures image generation
type ImageGenerationTool struct {
	Type string `json:"type"` // "image_generation"
}

// ToolChoiceParam controls tool selection
type ToolChoiceParam interface{}

// ToolChoiceValue represents a simple tool choice
type ToolChoiceValue struct {
	Type ToolChoiceValueEnum `json:"type"`
}

// SpecificFunctionParam specifies a particular function to call
type SpecificFunctionParam struct {
	Type string `json:"type"` // "function"
	Name string `json:"name"`
}

// MetadataParam represents metadata key-value pairs
type MetadataParam map[string]string

// TextParam controls text output format
type TextParam struct {
	Format TextFormatParam `json:"format,omitempty"`
}

// TextFormatParam represents text format options
type TextFormatParam interface{}

// TextResponseFormat represents basic text response format
type TextResponseFormat struct {
	Type string `json:"type"` // "text"
}

// JsonSchemaResponseFormatParam represents JSON schema response format
type JsonSchemaResponseFormatParam struct {
	Type        string         `json:"type"` // "json_schema"
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Schema      map[string]any `json:"schema"`
	Strict      *bool          `json:"strict,omitempty"`
}

// StreamOptionsParam controls streaming behavior
type StreamOptionsParam struct {
	IncludeObfuscation *bool `json:"include_obfuscation,omitempty"`
}

// ReasoningParam controls reasoning behavior
type ReasoningParam struct {
	Effort  ReasoningEffortEnum  `json:"effort,omitempty"`
	Summary ReasoningSummaryEnum `json:"summary,omitempty"`
}

// Response represents the API response.
// Fields required by the OpenResponses specification stay present even when
// null, which is why nullable ones are pointers or Value.
type Response struct {
	ID                 string             `json:"id"`
	Object             string             `json:"object"` // "response"
	Status             ResponseStatusEnum `json:"status"`
	CreatedAt          int64              `json:"created_at"`
	CompletedAt        *int64             `json:"completed_at"`
	Model              string             `json:"model"`
	PreviousResponseID *string            `json:"previous_response_id"`
	Instructions       *string            `json:"instructions"`
	Output             []Item             `json:"output"`
	Error              *Error             `json:"error"`
	Tools              []Tool             `json:"tools"`
	ToolChoice         ToolChoiceParam    `json:"tool_choice"`
	Truncation         TruncationEnum     `json:"truncation"`
	ParallelToolCalls  bool               `json:"parallel_tool_calls"`
	Text               *TextParam         `json:"text,omitempty"`
	Temperature        *float64           `json:"temperature"`
	TopP               *float64           `json:"top_p"`
	Reasoning          *ReasoningParam    `json:"reasoning"`
	Usage              *Usage             `json:"usage"`
	MaxOutputTokens    *int               `json:"max_output_tokens"`
	MaxToolCalls       *int               `json:"max_tool_calls"`
	Store              bool               `json:"store"`
	Background         bool               `json:"background"`
	ServiceTier        string             `json:"service_tier,omitempty"`
	Metadata           Value              `json:"metadata,omitzero"` // explicit null is distinct from absent
	IncompleteDetails  *IncompleteDetails `json:"incomplete_details"`
}

// Usage represents token usage statistics
type Usage struct {
	InputTokens         int                  `json:"input_tokens"`
	OutputTokens        int                  `json:"output_tokens"`
	TotalTokens         int                  `json:"total_tokens"`
	InputTokensDetails  *InputTokensDetails  `json:"input_tokens_details"`
	OutputTokensDetails *OutputTokensDetails `json:"output_tokens_details"`
}

// InputTokensDetails breaks down input token usage
type InputTokensDetails struct {
	CachedTokens int `json:"cached_tokens"`
}

// OutputTokensDetails breaks down output token usage
type OutputTokensDetails struct {
	ReasoningTokens int `json:"reasoning_tokens"`
}

// Error represents an error payload carried by a response or lifecycle event
type Error struct {
	Type    string `json:"type,omitempty"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Param   string `json:"param,omitempty"`
}

// IncompleteDetails describes why a response was incomplete
type IncompleteDetails struct {
	Reason string `json:"reason"`
}

// InputItemList is the paginated result of the input_items endpoint
type InputItemList struct {
	Object  string `json:"object"` // "list"
	Data    []Item `json:"data"`
	FirstID string `json:"first_id,omitempty"`
	LastID  string `json:"last_id,omitempty"`
	HasMore bool   `json:"has_more"`
}

// DeleteResult is returned by the delete endpoint
type DeleteResult struct {
	ID      string `json:"id"`
	Object  string `json:"object"` // "response"
	Deleted bool   `json:"deleted"`
}

// NewResponse creates a new in-progress Response shell. The assembler uses it
// when the first lifecycle event carries only an id.
func NewResponse(id string, model string) *Response {
	return &Response{
		ID:                id,
		Object:            "response",
		Status:            ResponseStatusInProgress,
		CreatedAt:         time.Now().Unix(),
		Model:             model,
		Output:            []Item{},
		Tools:             []Tool{},
		ToolChoice:        "auto",
		Truncation:        TruncationAuto,
		ParallelToolCalls: true,
	}
}

// PendingApprovals extracts every mcp_approval_request item from the output
func (r *Response) PendingApprovals() []*ApprovalRequest {
	var reqs []*ApprovalRequest
	for i := range r.Output {
		if req, ok := ApprovalRequestFromItem(&r.Output[i]); ok {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

// FindItemByCallID returns the first output item with the given call_id
func (r *Response) FindItemByCallID(callID string) (*Item, bool) {
	for i := range r.Output {
		if r.Output[i].CallID == callID {
			return &r.Output[i], true
		}
	}
	return nil, false
}

// NewError creates a new Error
func NewError(errorType, code, message, param string) *Error {
	return &Error{
		Type:    errorType,
		Code:    code,
		Message: message,
		Param:   param,
	}
}
