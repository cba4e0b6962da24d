package turns

import (
	"fmt"
	"sync"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/openresponses"
)

// ApprovalManager tracks the pending/approved/rejected state of MCP approval
// requests. Decisions are recorded locally and independently of transport, so
// a UI can decide while offline and the continuation payload is built later
// from the recorded decision.
type ApprovalManager struct {
	mu       sync.RWMutex
	requests map[string]*openresponses.ApprovalRequest
	order    []string
}

// NewApprovalManager creates an empty approval manager
func NewApprovalManager() *ApprovalManager {
	return &ApprovalManager{
		requests: make(map[string]*openresponses.ApprovalRequest),
	}
}

// Observe records an approval request seen during assembly. Re-observing a
// known ID keeps the existing decision.
func (m *ApprovalManager) Observe(req *openresponses.ApprovalRequest) {
	if req == nil || req.ID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; ok {
		return
	}
	cp := *req
	cp.Status = openresponses.ApprovalStatusPending
	m.requests[req.ID] = &cp
	m.order = append(m.order, req.ID)
}

// ObserveResponse records every approval request item in a response's output
func (m *ApprovalManager) ObserveResponse(resp *openresponses.Response) {
	if resp == nil {
		return
	}
	for _, req := range resp.PendingApprovals() {
		m.Observe(req)
	}
}

// Pending returns the requests still awaiting a decision, in observation order
func (m *ApprovalManager) Pending() []*openresponses.ApprovalRequest {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var pending []*openresponses.ApprovalRequest
	for _, id := range m.order {
		if req := m.requests[id]; req.Status == openresponses.ApprovalStatusPending {
			cp := *req
			pending = append(pending, &cp)
		}
	}
	return pending
}

// Get returns the request with the given ID
func (m *ApprovalManager) Get(id string) (*openresponses.ApprovalRequest, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, false
	}
	cp := *req
	return &cp, true
}

// Approve marks a pending request approved and returns the continuation
// payload to send. Decisions are terminal: deciding twice is an error.
func (m *ApprovalManager) Approve(id string) (*MCPApprovalResponseParam, error) {
	return m.decide(id, openresponses.ApprovalStatusApproved, "")
}

// Reject marks a pending request rejected and returns the continuation
// payload to send, carrying the reason when one is given
func (m *ApprovalManager) Reject(id, reason string) (*MCPApprovalResponseParam, error) {
	return m.decide(id, openresponses.ApprovalStatusRejected, reason)
}

func (m *ApprovalManager) decide(id string, status openresponses.ApprovalStatusEnum, reason string) (*MCPApprovalResponseParam, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[id]
	if !ok {
		return nil, responses.NewValidationError(fmt.Sprintf("unknown approval request %q", id))
	}
	if req.Status != openresponses.ApprovalStatusPending {
		return nil, responses.NewValidationError(
			fmt.Sprintf("approval request %q already %s", id, req.Status))
	}
	req.Status = status
	req.Reason = reason

	return NewMCPApprovalResponse(id, status == openresponses.ApprovalStatusApproved, reason)
}
