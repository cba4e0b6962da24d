package turns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/openresponses"
)

func approvalRequest(id string) *openresponses.ApprovalRequest {
	return &openresponses.ApprovalRequest{
		ID:          id,
		ToolName:    "query_db",
		ServerLabel: "warehouse",
		Arguments:   `{"sql":"select 1"}`,
		Status:      openresponses.ApprovalStatusPending,
	}
}

func TestApprovalManager_ObserveAndPending(t *testing.T) {
	m := NewApprovalManager()
	m.Observe(approvalRequest("apr_1"))
	m.Observe(approvalRequest("apr_2"))
	m.Observe(approvalRequest("apr_1")) // re-observation is a no-op

	pending := m.Pending()
	require.Len(t, pending, 2)
	assert.Equal(t, "apr_1", pending[0].ID)
	assert.Equal(t, "apr_2", pending[1].ID)
}

func TestApprovalManager_ObserveResponse(t *testing.T) {
	resp := openresponses.NewResponse("resp_1", "m")
	resp.Output = append(resp.Output, openresponses.Item{
		ID:          "apr_9",
		Type:        openresponses.ItemTypeMCPApprovalRequest,
		Name:        "send_email",
		ServerLabel: "mail",
	})

	m := NewApprovalManager()
	m.ObserveResponse(resp)

	req, ok := m.Get("apr_9")
	require.True(t, ok)
	assert.Equal(t, "send_email", req.ToolName)
	assert.Equal(t, openresponses.ApprovalStatusPending, req.Status)
}

func TestApprovalManager_Approve(t *testing.T) {
	m := NewApprovalManager()
	m.Observe(approvalRequest("apr_1"))

	param, err := m.Approve("apr_1")
	require.NoError(t, err)
	assert.Equal(t, "apr_1", param.ApprovalRequestID)
	assert.True(t, param.Approve)

	req, _ := m.Get("apr_1")
	assert.Equal(t, openresponses.ApprovalStatusApproved, req.Status)
	assert.Empty(t, m.Pending())
}

func TestApprovalManager_RejectCarriesReason(t *testing.T) {
	m := NewApprovalManager()
	m.Observe(approvalRequest("apr_1"))

	param, err := m.Reject("apr_1", "touches production")
	require.NoError(t, err)
	assert.False(t, param.Approve)
	assert.Equal(t, "touches production", param.Reason)

	req, _ := m.Get("apr_1")
	assert.Equal(t, openresponses.ApprovalStatusRejected, req.Status)
	assert.Equal(t, "touches production", req.Reason)
}

func TestApprovalManager_DecisionsAreTerminal(t *testing.T) {
	m := NewApprovalManager()
	m.Observe(approvalRequest("apr_1"))

	_, err := m.Approve("apr_1")
	require.NoError(t, err)

	_, err = m.Reject("apr_1", "changed my mind")
	require.Error(t, err)
	assert.Equal(t, responses.KindValidation, responses.KindOf(err))

	_, err = m.Approve("apr_1")
	require.Error(t, err)
}

func TestApprovalManager_UnknownID(t *testing.T) {
	m := NewApprovalManager()
	_, err := m.Approve("apr_missing")
	require.Error(t, err)
	assert.Equal(t, responses.KindValidation, responses.KindOf(err))
}

func TestApprovalManager_GetReturnsCopy(t *testing.T) {
	m := NewApprovalManager()
	m.Observe(approvalRequest("apr_1"))

	req, ok := m.Get("apr_1")
	require.True(t, ok)
	req.Status = openresponses.ApprovalStatusApproved

	// Mutating the copy must not decide the tracked request
	stored, _ := m.Get("apr_1")
	assert.Equal(t, openresponses.ApprovalStatusPending, stored.Status)
}
