package openresponses

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEvent_Lifecycle(t *testing.T) {
	tests := []struct {
		eventType  string
		wantStatus ResponseStatusEnum
	}{
		{"response.created", ResponseStatusInProgress},
		{"response.queued", ResponseStatusQueued},
		{"response.in_progress", ResponseStatusInProgress},
		{"response.completed", ResponseStatusCompleted},
		{"response.failed", ResponseStatusFailed},
		{"response.incomplete", ResponseStatusIncomplete},
		{"response.cancelled", ResponseStatusCancelled},
	}

	for _, tt := range tests {
		t.Run(tt.eventType, func(t *testing.T) {
			raw := `{"type":"` + tt.eventType + `","sequence_number":1,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`
			ev, err := DecodeEvent([]byte(raw))
			require.NoError(t, err)

			lifecycle, ok := ev.(*ResponseLifecycleEvent)
			require.True(t, ok)
			assert.Equal(t, tt.eventType, lifecycle.GetType())
			status, ok := lifecycle.Status()
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, status)
			require.NotNil(t, lifecycle.Response)
			assert.Equal(t, "resp_1", lifecycle.Response.ID)
		})
	}
}

func TestDecodeEvent_TypedPayloads(t *testing.T) {
	tests := []struct {
		name  string
		raw   string
		check func(t *testing.T, ev StreamingEvent)
	}{
		{
			name: "output_text.delta",
			raw:  `{"type":"response.output_text.delta","sequence_number":4,"item_id":"msg_1","output_index":0,"content_index":0,"delta":"Hel"}`,
			check: func(t *testing.T, ev StreamingEvent) {
				delta := ev.(*OutputTextDeltaEvent)
				assert.Equal(t, "Hel", delta.Delta)
				assert.Equal(t, "msg_1", delta.ItemID)
				assert.Equal(t, int64(4), delta.GetSequenceNumber())
			},
		},
		{
			name: "output_item.added",
			raw:  `{"type":"response.output_item.added","sequence_number":2,"output_index":1,"item":{"id":"fc_1","type":"function_call","call_id":"call_1","name":"f","arguments":""}}`,
			check: func(t *testing.T, ev StreamingEvent) {
				added := ev.(*OutputItemAddedEvent)
				assert.Equal(t, 1, added.OutputIndex)
				require.NotNil(t, added.Item)
				assert.Equal(t, ItemTypeFunctionCall, added.Item.Type)
				assert.Equal(t, "call_1", added.Item.CallID)
			},
		},
		{
			name: "function_call_arguments.done with string arguments",
			raw:  `{"type":"response.function_call_arguments.done","sequence_number":9,"item_id":"fc_1","output_index":0,"arguments":"{\"a\":1}"}`,
			check: func(t *testing.T, ev StreamingEvent) {
				done := ev.(*FunctionCallArgumentsDoneEvent)
				assert.Equal(t, `{"a":1}`, done.Arguments.ArgumentsString())
			},
		},
		{
			name: "function_call_arguments.done with object arguments",
			raw:  `{"type":"response.function_call_arguments.done","sequence_number":9,"item_id":"fc_1","output_index":0,"arguments":{"a":1}}`,
			check: func(t *testing.T, ev StreamingEvent) {
				done := ev.(*FunctionCallArgumentsDoneEvent)
				assert.Equal(t, `{"a":1}`, done.Arguments.ArgumentsString())
			},
		},
		{
			name: "error",
			raw:  `{"type":"error","sequence_number":3,"error":{"type":"server_error","code":"internal","message":"boom"}}`,
			check: func(t *testing.T, ev StreamingEvent) {
				errEv := ev.(*ErrorEvent)
				require.NotNil(t, errEv.Error)
				assert.Equal(t, "boom", errEv.Error.Message)
			},
		},
		{
			name: "mcp_approval_request top-level form",
			raw:  `{"type":"response.mcp_approval_request","sequence_number":7,"output_index":0,"id":"apr_1","name":"tool","server_label":"srv","arguments":"{}"}`,
			check: func(t *testing.T, ev StreamingEvent) {
				req, ok := ev.(*MCPApprovalRequestEvent).ApprovalRequest()
				require.True(t, ok)
				assert.Equal(t, "apr_1", req.ID)
				assert.Equal(t, "tool", req.ToolName)
			},
		},
		{
			name: "mcp_approval_request nested item form",
			raw:  `{"type":"response.mcp_approval_request","sequence_number":7,"output_index":0,"item":{"id":"apr_2","type":"mcp_approval_request","name":"tool2","server_label":"srv2","arguments":"{\"x\":1}"}}`,
			check: func(t *testing.T, ev StreamingEvent) {
				req, ok := ev.(*MCPApprovalRequestEvent).ApprovalRequest()
				require.True(t, ok)
				assert.Equal(t, "apr_2", req.ID)
				assert.Equal(t, "srv2", req.ServerLabel)
				assert.Equal(t, `{"x":1}`, req.Arguments)
			},
		},
		{
			name: "web_search_call.searching",
			raw:  `{"type":"response.web_search_call.searching","sequence_number":5,"item_id":"ws_1","output_index":0}`,
			check: func(t *testing.T, ev StreamingEvent) {
				status, ok := ev.(*ToolCallStatusEvent).ItemStatus()
				require.True(t, ok)
				assert.Equal(t, ItemStatusSearching, status)
			},
		},
		{
			name: "image_generation_call.partial_image",
			raw:  `{"type":"response.image_generation_call.partial_image","sequence_number":6,"item_id":"ig_1","output_index":0,"partial_image_index":2,"partial_image_b64":"aGk="}`,
			check: func(t *testing.T, ev StreamingEvent) {
				img := ev.(*ImageGenerationPartialImageEvent)
				assert.Equal(t, 2, img.PartialImageIndex)
				assert.Equal(t, "aGk=", img.PartialImageB64)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev, err := DecodeEvent([]byte(tt.raw))
			require.NoError(t, err)
			tt.check(t, ev)
		})
	}
}

func TestDecodeEvent_UnknownTypePreserved(t *testing.T) {
	raw := `{"type":"response.hologram.delta","sequence_number":12,"item_id":"h_1","payload":{"depth":3}}`
	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)

	unknown, ok := ev.(*UnknownEvent)
	require.True(t, ok)
	assert.Equal(t, "response.hologram.delta", unknown.GetType())
	assert.Equal(t, int64(12), unknown.GetSequenceNumber())

	// The full record is preserved for forwarding
	obj, ok := unknown.Raw.AsObject()
	require.True(t, ok)
	assert.Equal(t, "response.hologram.delta", obj["type"])
}

func TestDecodeEvent_Malformed(t *testing.T) {
	_, err := DecodeEvent([]byte(`{not json`))
	require.Error(t, err)

	_, err = DecodeEvent([]byte(`{"sequence_number":1}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing type")

	_, err = DecodeEvent([]byte(`{"type":"response.created","sequence_number":"abc"}`))
	require.Error(t, err)
}

func TestDecodeEvent_LargeSequenceNumber(t *testing.T) {
	raw := `{"type":"response.output_text.delta","sequence_number":9007199254740993,"item_id":"m","output_index":0,"content_index":0,"delta":"x"}`
	ev, err := DecodeEvent([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, int64(9007199254740993), ev.GetSequenceNumber())
}
