// Package conversation drives multi-turn exchanges over the streaming API:
// each turn is streamed, assembled, and inspected for the pauses that need
// client action (function calls, computer-use actions, MCP approvals), and
// each continuation chains to the previous response.
package conversation

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/assembler"
	"github.com/deeplooplabs/responses-go/client"
	"github.com/deeplooplabs/responses-go/openresponses"
	"github.com/deeplooplabs/responses-go/turns"
)

// SnapshotFunc observes the assembled response after every applied event.
// The snapshot is live; callers that keep it must copy it.
type SnapshotFunc func(resp *openresponses.Response, event openresponses.StreamingEvent)

// Conversation is a stateful multi-turn exchange with one model
type Conversation struct {
	client    *client.Client
	logger    zerolog.Logger
	approvals *turns.ApprovalManager

	model        string
	instructions string
	tools        []openresponses.Tool
	onSnapshot   SnapshotFunc

	mu   sync.Mutex
	last *openresponses.Response
}

// Option configures a Conversation
type Option func(*Conversation)

// WithInstructions sets the system instructions sent on the first turn
func WithInstructions(instructions string) Option {
	return func(c *Conversation) {
		c.instructions = instructions
	}
}

// WithTools sets the tools offered to the model
func WithTools(tools ...openresponses.Tool) Option {
	return func(c *Conversation) {
		c.tools = tools
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Conversation) {
		c.logger = logger
	}
}

// WithSnapshots registers a callback invoked after every applied event
func WithSnapshots(fn SnapshotFunc) Option {
	return func(c *Conversation) {
		c.onSnapshot = fn
	}
}

// New creates a conversation bound to a client and model
func New(cl *client.Client, model string, opts ...Option) *Conversation {
	c := &Conversation{
		client:    cl,
		logger:    zerolog.Nop(),
		approvals: turns.NewApprovalManager(),
		model:     model,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Last returns the most recently completed response, or nil before the first
// turn finishes
func (c *Conversation) Last() *openresponses.Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}

// PendingApprovals lists the MCP approval requests still awaiting a decision
func (c *Conversation) PendingApprovals() []*openresponses.ApprovalRequest {
	return c.approvals.Pending()
}

// PendingFunctionCalls lists the function_call items of the last turn that
// have not been answered yet
func (c *Conversation) PendingFunctionCalls() []*openresponses.Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.last == nil {
		return nil
	}
	var calls []*openresponses.Item
	for i := range c.last.Output {
		if c.last.Output[i].Type == openresponses.ItemTypeFunctionCall {
			calls = append(calls, &c.last.Output[i])
		}
	}
	return calls
}

// Send starts a new turn with a user message and runs it to completion
func (c *Conversation) Send(ctx context.Context, text string) (*openresponses.Response, error) {
	req := &openresponses.CreateRequest{
		Model:        c.model,
		Input:        text,
		Instructions: c.instructions,
		Tools:        c.tools,
	}
	c.mu.Lock()
	if c.last != nil {
		req.PreviousResponseID = c.last.ID
		req.Instructions = "" // carried server-side through the chain
	}
	c.mu.Unlock()

	return c.run(ctx, req)
}

// SubmitFunctionOutput resumes the paused turn with a function result
func (c *Conversation) SubmitFunctionOutput(ctx context.Context, callID, output string) (*openresponses.Response, error) {
	item, err := turns.NewFunctionCallOutput(callID, output)
	if err != nil {
		return nil, err
	}
	return c.continueTurn(ctx, item)
}

// SubmitComputerOutput resumes the paused turn with a computer-use result.
// The call item is looked up by call_id on the last response so its pending
// safety checks are validated.
func (c *Conversation) SubmitComputerOutput(ctx context.Context, callID string, output *turns.ComputerScreenshotParam, opts ...turns.ComputerOutputOption) (*openresponses.Response, error) {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()
	if last == nil {
		return nil, responses.NewValidationError("no turn to continue")
	}

	call, ok := last.FindItemByCallID(callID)
	if !ok {
		return nil, responses.NewValidationError("no computer_call with call_id " + callID)
	}
	item, err := turns.NewComputerCallOutput(call, output, opts...)
	if err != nil {
		return nil, err
	}
	return c.continueTurn(ctx, item)
}

// Approve answers a pending MCP approval request positively and resumes the
// turn
func (c *Conversation) Approve(ctx context.Context, approvalRequestID string) (*openresponses.Response, error) {
	param, err := c.approvals.Approve(approvalRequestID)
	if err != nil {
		return nil, err
	}
	return c.continueTurn(ctx, param)
}

// Reject answers a pending MCP approval request negatively, with an optional
// reason, and resumes the turn
func (c *Conversation) Reject(ctx context.Context, approvalRequestID, reason string) (*openresponses.Response, error) {
	param, err := c.approvals.Reject(approvalRequestID, reason)
	if err != nil {
		return nil, err
	}
	return c.continueTurn(ctx, param)
}

func (c *Conversation) continueTurn(ctx context.Context, items ...openresponses.ItemParam) (*openresponses.Response, error) {
	c.mu.Lock()
	last := c.last
	c.mu.Unlock()
	if last == nil {
		return nil, responses.NewValidationError("no turn to continue")
	}

	req, err := turns.ContinuationRequest(last, items...)
	if err != nil {
		return nil, err
	}
	return c.run(ctx, req)
}

// run streams one request to completion and folds it into conversation state.
// On a mid-stream failure the partial response is returned alongside the
// error so the caller can see how far the turn got.
func (c *Conversation) run(ctx context.Context, req *openresponses.CreateRequest) (*openresponses.Response, error) {
	stream, err := c.client.StreamResponse(ctx, req)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	asm := assembler.New(assembler.WithLogger(c.logger))
	for event := range stream.Events {
		if applyErr := asm.Apply(event); applyErr != nil {
			c.logger.Error().Err(applyErr).
				Str("event_type", event.GetType()).
				Msg("stream assembly fault")
			return asm.Response(), applyErr
		}
		if c.onSnapshot != nil {
			c.onSnapshot(asm.Response(), event)
		}
	}

	resp := asm.Response()
	c.mu.Lock()
	if resp != nil {
		c.last = resp
	}
	c.mu.Unlock()
	c.approvals.ObserveResponse(resp)

	if streamErr := <-stream.Errors; streamErr != nil {
		return resp, streamErr
	}
	if resp == nil {
		return nil, responses.NewDecodeError("stream ended without any lifecycle event", nil)
	}
	return resp, nil
}
