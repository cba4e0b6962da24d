package openresponses

// Item is one discrete unit of model output, addressed by a stable
// output_index within a response. It is a union over item kinds: Type selects
// which fields are meaningful. Partial items arrive on output_item.added and
// are completed either by deltas or by the authoritative item on
// output_item.done.
type Item struct {
	ID     string         `json:"id,omitempty"`
	Type   ItemTypeEnum   `json:"type"`
	Status ItemStatusEnum `json:"status,omitempty"`

	// message
	Role    MessageRoleEnum `json:"role,omitempty"`
	Content []ContentItem   `json:"content,omitempty"`

	// function_call / mcp_call / custom tool kinds. Arguments accumulates
	// from deltas and may arrive as a string or a nested object; Value keeps
	// both forms losslessly.
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments Value  `json:"arguments,omitzero"`

	// mcp_* kinds
	ServerLabel       string       `json:"server_label,omitempty"`
	Tools             []MCPToolDef `json:"tools,omitempty"`
	Output            Value        `json:"output,omitzero"`
	Error             Value        `json:"error,omitzero"`
	ApprovalRequestID string       `json:"approval_request_id,omitempty"`

	// computer_call
	Action              Value         `json:"action,omitzero"`
	PendingSafetyChecks []SafetyCheck `json:"pending_safety_checks,omitempty"`

	// code_interpreter_call. Code accumulates from deltas.
	Code        string                  `json:"code,omitempty"`
	ContainerID string                  `json:"container_id,omitempty"`
	Outputs     []CodeInterpreterOutput `json:"outputs,omitempty"`

	// image_generation_call
	Result Value `json:"result,omitzero"`

	// reasoning
	Summary          []SummaryTextContent   `json:"summary,omitempty"`
	ReasoningContent []ReasoningTextContent `json:"reasoning_content,omitempty"`
	EncryptedContent string                 `json:"encrypted_content,omitempty"`
}

// SafetyCheck is a server-issued warning attached to a computer-use action.
// The client must acknowledge it by ID before the action's output is accepted.
type SafetyCheck struct {
	ID      string `json:"id"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// MCPToolDef describes one tool advertised by an MCP server in an
// mcp_list_tools item
type MCPToolDef struct {
	Name        string `json:"name"`
	Description Value  `json:"description,omitzero"` // may be explicit null
	InputSchema Value  `json:"input_schema,omitzero"`
	Annotations Value  `json:"annotations,omitzero"`
}

// CodeInterpreterOutput is one output produced by a code interpreter call
type CodeInterpreterOutput struct {
	Type string `json:"type"` // "logs" | "image"
	Logs string `json:"logs,omitempty"`
	URL  string `json:"url,omitempty"`
}

// ApprovalRequest is the client-side view of an mcp_approval_request item:
// the model wants to invoke an MCP tool and a human must allow or deny it.
// Status is mutated only by an explicit caller decision.
type ApprovalRequest struct {
	ID          string             `json:"id"`
	ToolName    string             `json:"name"`
	ServerLabel string             `json:"server_label"`
	Arguments   string             `json:"arguments"`
	Status      ApprovalStatusEnum `json:"status"`
	Reason      string             `json:"reason,omitempty"`
}

// ApprovalRequestFromItem extracts an ApprovalRequest from an
// mcp_approval_request item, canonicalizing the arguments to a JSON document
// string. Returns false for any other item kind.
func ApprovalRequestFromItem(item *Item) (*ApprovalRequest, bool) {
	if item == nil || item.Type != ItemTypeMCPApprovalRequest {
		return nil, false
	}
	return &ApprovalRequest{
		ID:          item.ID,
		ToolName:    item.Name,
		ServerLabel: item.ServerLabel,
		Arguments:   item.Arguments.ArgumentsString(),
		Status:      ApprovalStatusPending,
	}, true
}

// OutputText concatenates all output_text content parts of a message item
func (i *Item) OutputText() string {
	if i == nil || i.Type != ItemTypeMessage {
		return ""
	}
	var text string
	for _, c := range i.Content {
		if c.Type == "output_text" {
			text += c.Text
		}
	}
	return text
}
