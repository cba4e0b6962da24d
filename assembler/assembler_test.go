package assembler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/openresponses"
)

func decode(t *testing.T, frame string) openresponses.StreamingEvent {
	t.Helper()
	ev, err := openresponses.DecodeEvent([]byte(frame))
	require.NoError(t, err)
	return ev
}

func TestAssembler_TextMessage(t *testing.T) {
	frames := []string{
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"gpt-4.1","status":"in_progress","output":[]}}`,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"msg_1","type":"message","role":"assistant","status":"in_progress","content":[]}}`,
		`{"type":"response.content_part.added","sequence_number":2,"item_id":"msg_1","output_index":0,"content_index":0,"part":{"type":"output_text","text":""}}`,
		`{"type":"response.output_text.delta","sequence_number":3,"item_id":"msg_1","output_index":0,"content_index":0,"delta":"Hello"}`,
		`{"type":"response.output_text.delta","sequence_number":4,"item_id":"msg_1","output_index":0,"content_index":0,"delta":", "}`,
		`{"type":"response.output_text.delta","sequence_number":5,"item_id":"msg_1","output_index":0,"content_index":0,"delta":"world!"}`,
		`{"type":"response.output_text.done","sequence_number":6,"item_id":"msg_1","output_index":0,"content_index":0,"text":"Hello, world!"}`,
		`{"type":"response.content_part.done","sequence_number":7,"item_id":"msg_1","output_index":0,"content_index":0,"part":{"type":"output_text","text":"Hello, world!"}}`,
		`{"type":"response.output_item.done","sequence_number":8,"output_index":0,"item":{"id":"msg_1","type":"message","role":"assistant","status":"completed","content":[{"type":"output_text","text":"Hello, world!"}]}}`,
		`{"type":"response.completed","sequence_number":9,"response":{"id":"resp_1","object":"response","model":"gpt-4.1","status":"completed","output":[{"id":"msg_1","type":"message","role":"assistant","status":"completed","content":[{"type":"output_text","text":"Hello, world!"}]}],"usage":{"input_tokens":3,"output_tokens":4,"total_tokens":7}}}`,
	}

	a := New()
	for _, frame := range frames {
		require.NoError(t, a.Apply(decode(t, frame)))
	}

	require.True(t, a.Frozen())
	resp := a.Response()
	require.NotNil(t, resp)
	assert.Equal(t, openresponses.ResponseStatusCompleted, resp.Status)
	require.Len(t, resp.Output, 1)
	assert.Equal(t, "Hello, world!", resp.Output[0].OutputText())
	require.NotNil(t, resp.Usage)
	assert.Equal(t, 7, resp.Usage.TotalTokens)
}

func TestAssembler_DeltaAccumulationMatchesDone(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"msg_1","type":"message","role":"assistant","content":[]}}`)))

	// No content_part.added: a delta for the next index creates the part
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_text.delta","sequence_number":2,"item_id":"msg_1","output_index":0,"content_index":0,"delta":"ab"}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_text.delta","sequence_number":3,"item_id":"msg_1","output_index":0,"content_index":0,"delta":"cd"}`)))

	assert.Equal(t, "abcd", a.Response().Output[0].Content[0].Text)
}

func TestAssembler_FunctionCallArguments(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"fc_1","type":"function_call","call_id":"call_9","name":"get_weather"}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.function_call_arguments.delta","sequence_number":2,"item_id":"fc_1","output_index":0,"delta":"{\"city\":"}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.function_call_arguments.delta","sequence_number":3,"item_id":"fc_1","output_index":0,"delta":"\"Oslo\"}"}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.function_call_arguments.done","sequence_number":4,"item_id":"fc_1","output_index":0,"arguments":"{\"city\":\"Oslo\"}"}`)))

	item := a.Response().Output[0]
	assert.Equal(t, openresponses.ItemTypeFunctionCall, item.Type)
	assert.Equal(t, "call_9", item.CallID)
	assert.Equal(t, `{"city":"Oslo"}`, item.Arguments.ArgumentsString())
}

func TestAssembler_FunctionCallArgumentsObjectForm(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"fc_1","type":"function_call","call_id":"c","name":"f"}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.function_call_arguments.done","sequence_number":2,"item_id":"fc_1","output_index":0,"arguments":{"city":"Oslo"}}`)))

	assert.Equal(t, `{"city":"Oslo"}`, a.Response().Output[0].Arguments.ArgumentsString())
}

func TestAssembler_ArgumentsObjectSeedPreserved(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"fc_1","type":"function_call","call_id":"c","name":"f","arguments":{"city":"Oslo"}}}`)))

	// Object-form arguments carried on the added item survive a later delta
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.function_call_arguments.delta","sequence_number":2,"item_id":"fc_1","output_index":0,"delta":""}`)))

	assert.Equal(t, `{"city":"Oslo"}`, a.Response().Output[0].Arguments.ArgumentsString())
}

func TestAssembler_NonContiguousOutputIndex(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))

	err := a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":2,"item":{"id":"msg_1","type":"message"}}`))
	require.Error(t, err)
	assert.Equal(t, responses.KindOrdering, responses.KindOf(err))
}

func TestAssembler_DeltaBeforeItemAdded(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))

	err := a.Apply(decode(t,
		`{"type":"response.output_text.delta","sequence_number":1,"item_id":"msg_1","output_index":0,"content_index":0,"delta":"x"}`))
	require.Error(t, err)
	assert.Equal(t, responses.KindOrdering, responses.KindOf(err))
}

func TestAssembler_FrozenRejectsFurtherEvents(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.completed","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"completed","output":[]}}`)))
	require.True(t, a.Frozen())

	err := a.Apply(decode(t,
		`{"type":"response.output_text.delta","sequence_number":1,"item_id":"m","output_index":0,"content_index":0,"delta":"late"}`))
	require.Error(t, err)
	assert.Equal(t, responses.KindOrdering, responses.KindOf(err))
}

func TestAssembler_ErrorEventFreezes(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))

	err := a.Apply(decode(t,
		`{"type":"error","sequence_number":1,"error":{"type":"server_error","message":"backend exploded"}}`))
	require.Error(t, err)
	assert.Equal(t, responses.KindServer, responses.KindOf(err))

	assert.True(t, a.Frozen())
	resp := a.Response()
	assert.Equal(t, openresponses.ResponseStatusFailed, resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "backend exploded", resp.Error.Message)
}

func TestAssembler_UnknownEventSkipped(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))

	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.future_thing.delta","sequence_number":1,"payload":{"x":1}}`)))
	assert.False(t, a.Frozen())
}

func TestAssembler_OutOfOrderSequenceContinues(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":5,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))

	// Lower sequence number is logged, not fatal
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":3,"output_index":0,"item":{"id":"msg_1","type":"message","content":[]}}`)))
	require.Len(t, a.Response().Output, 1)
}

func TestAssembler_LifecycleKeepsAccumulatedOutput(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"msg_1","type":"message","content":[]}}`)))

	// An in_progress snapshot with empty output must not wipe local state
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.in_progress","sequence_number":2,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))
	require.Len(t, a.Response().Output, 1)
}

func TestAssembler_ApprovalRequest(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.mcp_approval_request","sequence_number":1,"output_index":0,"id":"apr_1","name":"delete_row","server_label":"db","arguments":"{\"table\":\"users\"}"}`)))

	pending := a.PendingApprovals()
	require.Len(t, pending, 1)
	assert.Equal(t, "apr_1", pending[0].ID)
	assert.Equal(t, "delete_row", pending[0].ToolName)
	assert.Equal(t, "db", pending[0].ServerLabel)
	assert.Equal(t, `{"table":"users"}`, pending[0].Arguments)

	// The same request arriving again through output_item.added does not
	// duplicate
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.mcp_approval_request","sequence_number":2,"output_index":0,"id":"apr_1","name":"delete_row","server_label":"db"}`)))
	assert.Len(t, a.PendingApprovals(), 1)
}

func TestAssembler_ToolCallStatus(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.created","sequence_number":0,"response":{"id":"resp_1","object":"response","model":"m","status":"in_progress","output":[]}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"ws_1","type":"web_search_call"}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.web_search_call.searching","sequence_number":2,"item_id":"ws_1","output_index":0}`)))
	assert.Equal(t, openresponses.ItemStatusSearching, a.Response().Output[0].Status)

	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.web_search_call.completed","sequence_number":3,"item_id":"ws_1","output_index":0}`)))
	assert.Equal(t, openresponses.ItemStatusCompleted, a.Response().Output[0].Status)
}

func TestAssembler_ReasoningSummary(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"rs_1","type":"reasoning","summary":[]}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.reasoning_summary_part.added","sequence_number":2,"item_id":"rs_1","output_index":0,"summary_index":0,"part":{"type":"summary_text","text":""}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.reasoning_summary_text.delta","sequence_number":3,"item_id":"rs_1","output_index":0,"summary_index":0,"delta":"thinking"}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.reasoning_summary_text.done","sequence_number":4,"item_id":"rs_1","output_index":0,"summary_index":0,"text":"thinking hard"}`)))

	item := a.Response().Output[0]
	require.Len(t, item.Summary, 1)
	assert.Equal(t, "thinking hard", item.Summary[0].Text)
}

func TestAssembler_RefusalBecomesRefusalPart(t *testing.T) {
	a := New()
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.output_item.added","sequence_number":1,"output_index":0,"item":{"id":"msg_1","type":"message","content":[]}}`)))
	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.refusal.delta","sequence_number":2,"item_id":"msg_1","output_index":0,"content_index":0,"delta":"I cannot"}`)))

	// A snapshot taken mid-stream already shows the part as a refusal
	assert.Equal(t, "refusal", a.Response().Output[0].Content[0].Type)
	assert.Equal(t, "I cannot", a.Response().Output[0].Content[0].Refusal)

	require.NoError(t, a.Apply(decode(t,
		`{"type":"response.refusal.done","sequence_number":3,"item_id":"msg_1","output_index":0,"content_index":0,"refusal":"I cannot do that"}`)))

	part := a.Response().Output[0].Content[0]
	assert.Equal(t, "refusal", part.Type)
	assert.Equal(t, "I cannot do that", part.Refusal)
}
