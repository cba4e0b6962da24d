package openresponses

// TruncationEnum controls how the service truncates input when it exceeds context window
type TruncationEnum string

const (
	TruncationAuto     TruncationEnum = "auto"
	TruncationDisabled TruncationEnum = "disabled"
)

// MessageRoleEnum represents the role of a message author
type MessageRoleEnum string

const (
	MessageRoleUser      MessageRoleEnum = "user"
	MessageRoleAssistant MessageRoleEnum = "assistant"
	MessageRoleSystem    MessageRoleEnum = "system"
	MessageRoleDeveloper MessageRoleEnum = "developer"
)

// ResponseStatusEnum represents the status of a response
type ResponseStatusEnum string

const (
	ResponseStatusQueued     ResponseStatusEnum = "queued"
	ResponseStatusInProgress ResponseStatusEnum = "in_progress"
	ResponseStatusCompleted  ResponseStatusEnum = "completed"
	ResponseStatusFailed     ResponseStatusEnum = "failed"
	ResponseStatusIncomplete ResponseStatusEnum = "incomplete"
	ResponseStatusCancelled  ResponseStatusEnum = "cancelled"
)

// Terminal reports whether a response in this status accepts further events
func (s ResponseStatusEnum) Terminal() bool {
	switch s {
	case ResponseStatusCompleted, ResponseStatusFailed, ResponseStatusIncomplete, ResponseStatusCancelled:
		return true
	}
	return false
}

// ItemStatusEnum represents the status of an output item. Tool call kinds add
// their own intermediate states on top of in_progress/completed.
type ItemStatusEnum string

const (
	ItemStatusInProgress   ItemStatusEnum = "in_progress"
	ItemStatusCompleted    ItemStatusEnum = "completed"
	ItemStatusIncomplete   ItemStatusEnum = "incomplete"
	ItemStatusFailed       ItemStatusEnum = "failed"
	ItemStatusSearching    ItemStatusEnum = "searching"
	ItemStatusInterpreting ItemStatusEnum = "interpreting"
	ItemStatusGenerating   ItemStatusEnum = "generating"
)

// ItemTypeEnum identifies the kind of an output item
type ItemTypeEnum string

const (
	ItemTypeMessage             ItemTypeEnum = "message"
	ItemTypeFunctionCall        ItemTypeEnum = "function_call"
	ItemTypeFunctionCallOutput  ItemTypeEnum = "function_call_output"
	ItemTypeMCPCall             ItemTypeEnum = "mcp_call"
	ItemTypeMCPListTools        ItemTypeEnum = "mcp_list_tools"
	ItemTypeMCPApprovalRequest  ItemTypeEnum = "mcp_approval_request"
	ItemTypeMCPApprovalResponse ItemTypeEnum = "mcp_approval_response"
	ItemTypeComputerCall        ItemTypeEnum = "computer_call"
	ItemTypeComputerCallOutput  ItemTypeEnum = "computer_call_output"
	ItemTypeCodeInterpreterCall ItemTypeEnum = "code_interpreter_call"
	ItemTypeWebSearchCall       ItemTypeEnum = "web_search_call"
	ItemTypeFileSearchCall      ItemTypeEnum = "file_search_call"
	ItemTypeImageGenerationCall ItemTypeEnum = "image_generation_call"
	ItemTypeReasoning           ItemTypeEnum = "reasoning"
	ItemTypeItemReference       ItemTypeEnum = "item_reference"
)

// ApprovalStatusEnum represents the local decision state of an MCP approval request
type ApprovalStatusEnum string

const (
	ApprovalStatusPending  ApprovalStatusEnum = "pending"
	ApprovalStatusApproved ApprovalStatusEnum = "approved"
	ApprovalStatusRejected ApprovalStatusEnum = "rejected"
)

// ToolChoiceValueEnum controls which tool the model should use
type ToolChoiceValueEnum string

const (
	ToolChoiceNone     ToolChoiceValueEnum = "none"
	ToolChoiceAuto     ToolChoiceValueEnum = "auto"
	ToolChoiceRequired ToolChoiceValueEnum = "required"
)

// ImageDetailEnum represents the detail level for image input
type ImageDetailEnum string

const (
	ImageDetailLow  ImageDetailEnum = "low"
	ImageDetailHigh ImageDetailEnum = "high"
	ImageDetailAuto ImageDetailEnum = "auto"
)

// ServiceTierEnum represents the service tier for a request
type ServiceTierEnum string

const (
	ServiceTierAuto     ServiceTierEnum = "auto"
	ServiceTierDefault  ServiceTierEnum = "default"
	ServiceTierFlex     ServiceTierEnum = "flex"
	ServiceTierPriority ServiceTierEnum = "priority"
)

// IncludeEnum represents what to include in the response
type IncludeEnum string

const (
	IncludeReasoningEncryptedContent IncludeEnum = "reasoning.encrypted_content"
	IncludeMessageOutputTextLogprobs IncludeEnum = "message.output_text.logprobs"
	IncludeComputerCallOutputImage   IncludeEnum = "computer_call_output.output.image_url"
	IncludeCodeInterpreterOutputs    IncludeEnum = "code_interpreter_call.outputs"
)

// ReasoningEffortEnum represents reasoning effort levels
type ReasoningEffortEnum string

const (
	ReasoningEffortNone   ReasoningEffortEnum = "none"
	ReasoningEffortLow    ReasoningEffortEnum = "low"
	ReasoningEffortMedium ReasoningEffortEnum = "medium"
	ReasoningEffortHigh   ReasoningEffortEnum = "high"
)

// ReasoningSummaryEnum represents reasoning summary modes
type ReasoningSummaryEnum string

const (
	ReasoningSummaryConcise  ReasoningSummaryEnum = "concise"
	ReasoningSummaryDetailed ReasoningSummaryEnum = "detailed"
	ReasoningSummaryAuto     ReasoningSummaryEnum = "auto"
)
