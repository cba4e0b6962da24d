// Package turns builds the payloads that resume a paused generation turn:
// function outputs, computer-use outputs with safety-check acknowledgment,
// and MCP approval responses. Every builder validates before anything touches
// the network.
package turns

import (
	"encoding/json"
	"fmt"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/openresponses"
)

// FunctionCallOutputParam resumes a turn with the result of a function call.
// Output is always a string on the wire; callers encode errors as strings
// rather than structured payloads.
type FunctionCallOutputParam struct {
	Type   string `json:"type"` // "function_call_output"
	CallID string `json:"call_id"`
	Output string `json:"output"`
}

// NewFunctionCallOutput builds a function output continuation item
func NewFunctionCallOutput(callID, output string) (*FunctionCallOutputParam, error) {
	if callID == "" {
		return nil, responses.NewValidationError("function output requires a call_id")
	}
	return &FunctionCallOutputParam{
		Type:   "function_call_output",
		CallID: callID,
		Output: output,
	}, nil
}

// ComputerScreenshotParam is the output payload of a computer-use action
type ComputerScreenshotParam struct {
	Type     string `json:"type"` // "computer_screenshot"
	ImageURL string `json:"image_url,omitempty"`
	FileID   string `json:"file_id,omitempty"`
}

// ComputerCallOutputParam resumes a turn with the result of a computer-use
// action, acknowledging any safety checks the server attached to it
type ComputerCallOutputParam struct {
	Type                     string                      `json:"type"` // "computer_call_output"
	CallID                   string                      `json:"call_id"`
	Output                   *ComputerScreenshotParam    `json:"output"`
	AcknowledgedSafetyChecks []openresponses.SafetyCheck `json:"acknowledged_safety_checks,omitempty"`
	CurrentURL               string                      `json:"current_url,omitempty"`
}

// ComputerOutputOption configures computer-call output construction
type ComputerOutputOption func(*computerOutputOptions)

type computerOutputOptions struct {
	currentURL           string
	allowUnacknowledged  bool
	acknowledgedCheckIDs []string
}

// WithCurrentURL records the URL the browser showed after the action
func WithCurrentURL(url string) ComputerOutputOption {
	return func(o *computerOutputOptions) {
		o.currentURL = url
	}
}

// WithAcknowledgedChecks marks the given safety check IDs as acknowledged
func WithAcknowledgedChecks(ids ...string) ComputerOutputOption {
	return func(o *computerOutputOptions) {
		o.acknowledgedCheckIDs = append(o.acknowledgedCheckIDs, ids...)
	}
}

// AllowUnacknowledgedSafetyChecks opts in to sending the output even when
// outstanding safety checks were not acknowledged. Without this explicit
// bypass, an unacknowledged check is a validation error.
func AllowUnacknowledgedSafetyChecks() ComputerOutputOption {
	return func(o *computerOutputOptions) {
		o.allowUnacknowledged = true
	}
}

// NewComputerCallOutput builds a computer output continuation from the full
// call item, reading call_id and outstanding safety checks from it. Every
// pending check must be acknowledged unless the caller explicitly opts into
// the unacknowledged bypass.
func NewComputerCallOutput(call *openresponses.Item, output *ComputerScreenshotParam, opts ...ComputerOutputOption) (*ComputerCallOutputParam, error) {
	if call == nil || call.Type != openresponses.ItemTypeComputerCall {
		return nil, responses.NewValidationError("computer output requires a computer_call item")
	}
	if call.CallID == "" {
		return nil, responses.NewValidationError(
			"computer_call item has no call_id; fetch the full response and use NewComputerCallOutputForCallID")
	}

	o := applyComputerOptions(opts)

	acknowledged := make(map[string]bool, len(o.acknowledgedCheckIDs))
	for _, id := range o.acknowledgedCheckIDs {
		acknowledged[id] = true
	}

	var acks []openresponses.SafetyCheck
	for _, check := range call.PendingSafetyChecks {
		if acknowledged[check.ID] {
			acks = append(acks, check)
			continue
		}
		if !o.allowUnacknowledged {
			return nil, responses.NewValidationError(
				fmt.Sprintf("safety check %q (%s) not acknowledged", check.ID, check.Code))
		}
	}

	return newComputerCallOutput(call.CallID, output, acks, o.currentURL)
}

// NewComputerCallOutputForCallID builds a computer output continuation from an
// explicit call_id, for streams whose events omitted the call object. The
// caller supplies whichever safety checks it fetched and acknowledged.
func NewComputerCallOutputForCallID(callID string, output *ComputerScreenshotParam, acknowledged []openresponses.SafetyCheck, opts ...ComputerOutputOption) (*ComputerCallOutputParam, error) {
	if callID == "" {
		return nil, responses.NewValidationError("computer output requires a call_id")
	}
	o := applyComputerOptions(opts)
	return newComputerCallOutput(callID, output, acknowledged, o.currentURL)
}

func newComputerCallOutput(callID string, output *ComputerScreenshotParam, acks []openresponses.SafetyCheck, currentURL string) (*ComputerCallOutputParam, error) {
	if output == nil {
		return nil, responses.NewValidationError("computer output requires a screenshot or status payload")
	}
	if output.Type == "" {
		output.Type = "computer_screenshot"
	}
	return &ComputerCallOutputParam{
		Type:                     "computer_call_output",
		CallID:                   callID,
		Output:                   output,
		AcknowledgedSafetyChecks: acks,
		CurrentURL:               currentURL,
	}, nil
}

func applyComputerOptions(opts []ComputerOutputOption) *computerOutputOptions {
	o := &computerOutputOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// MCPApprovalResponseParam answers a pending MCP approval request
type MCPApprovalResponseParam struct {
	Type              string `json:"type"` // "mcp_approval_response"
	ApprovalRequestID string `json:"approval_request_id"`
	Approve           bool   `json:"approve"`
	Reason            string `json:"-"`
}

// MarshalJSON implements the reason rule: an approval never carries a reason,
// a rejection carries it whenever one was supplied.
func (p MCPApprovalResponseParam) MarshalJSON() ([]byte, error) {
	type wire struct {
		Type              string `json:"type"`
		ApprovalRequestID string `json:"approval_request_id"`
		Approve           bool   `json:"approve"`
		Reason            string `json:"reason,omitempty"`
	}
	w := wire{
		Type:              p.Type,
		ApprovalRequestID: p.ApprovalRequestID,
		Approve:           p.Approve,
	}
	if !p.Approve {
		w.Reason = p.Reason
	}
	return json.Marshal(w)
}

// NewMCPApprovalResponse builds an approval response continuation item
func NewMCPApprovalResponse(approvalRequestID string, approve bool, reason string) (*MCPApprovalResponseParam, error) {
	if approvalRequestID == "" {
		return nil, responses.NewValidationError("approval response requires an approval_request_id")
	}
	return &MCPApprovalResponseParam{
		Type:              "mcp_approval_response",
		ApprovalRequestID: approvalRequestID,
		Approve:           approve,
		Reason:            reason,
	}, nil
}

// ContinuationRequest builds the CreateRequest that resumes the turn the
// given response paused: the continuation items become the input, and the
// model/tooling configuration is carried over so the server can keep going.
func ContinuationRequest(prev *openresponses.Response, items ...openresponses.ItemParam) (*openresponses.CreateRequest, error) {
	if prev == nil || prev.ID == "" {
		return nil, responses.NewValidationError("continuation requires the previous response id")
	}
	if len(items) == 0 {
		return nil, responses.NewValidationError("continuation requires at least one output item")
	}
	input := make([]interface{}, 0, len(items))
	for _, item := range items {
		input = append(input, item)
	}
	return &openresponses.CreateRequest{
		Model:              prev.Model,
		Input:              input,
		PreviousResponseID: prev.ID,
		Tools:              prev.Tools,
		ToolChoice:         prev.ToolChoice,
	}, nil
}
