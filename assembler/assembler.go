// Package assembler folds an ordered stream of decoded events into a single
// in-progress Response. It is the source of truth for what the response looks
// like at any point mid-stream: a caller may take a consistent snapshot after
// every event.
package assembler

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	responses "github.com/deeplooplabs/responses-go"
	"github.com/deeplooplabs/responses-go/openresponses"
)

// Assembler builds one Response from its event stream. It is driven by a
// single ordered stream, so all mutation is naturally serialized; distinct
// responses get distinct assemblers with no shared state.
type Assembler struct {
	resp    *openresponses.Response
	logger  zerolog.Logger
	lastSeq int64
	frozen  bool
}

// Option configures an Assembler
type Option func(*Assembler)

// WithLogger sets the logger used for recoverable anomalies
func WithLogger(logger zerolog.Logger) Option {
	return func(a *Assembler) {
		a.logger = logger
	}
}

// New creates an assembler for one response stream
func New(opts ...Option) *Assembler {
	a := &Assembler{
		logger:  zerolog.Nop(),
		lastSeq: -1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Response returns the current assembled state. It is nil until the first
// lifecycle event arrives, partial while streaming, and final once frozen.
func (a *Assembler) Response() *openresponses.Response {
	return a.resp
}

// Frozen reports whether a terminal lifecycle event has been observed
func (a *Assembler) Frozen() bool {
	return a.frozen
}

// PendingApprovals lists the mcp_approval_request items observed so far
func (a *Assembler) PendingApprovals() []*openresponses.ApprovalRequest {
	if a.resp == nil {
		return nil
	}
	return a.resp.PendingApprovals()
}

// Apply folds one event into the response.
//
// Recoverable anomalies (unknown event types, out-of-order sequence numbers)
// are logged and skipped so one oddity never sacrifices the rest of a good
// stream. Ordering violations that would corrupt state (a delta addressing a
// slot never introduced, a non-contiguous output_index) return an error; the
// caller decides whether to continue best-effort.
func (a *Assembler) Apply(event openresponses.StreamingEvent) error {
	if a.frozen {
		return responses.NewOrderingError(
			fmt.Sprintf("event %q after terminal status %q", event.GetType(), a.resp.Status))
	}

	if seq := event.GetSequenceNumber(); seq != 0 && seq <= a.lastSeq {
		a.logger.Warn().
			Int64("sequence_number", seq).
			Int64("last_sequence_number", a.lastSeq).
			Str("event_type", event.GetType()).
			Msg("out-of-order sequence number, continuing")
	} else if seq != 0 {
		a.lastSeq = seq
	}

	switch ev := event.(type) {
	case *openresponses.ResponseLifecycleEvent:
		return a.applyLifecycle(ev)
	case *openresponses.ErrorEvent:
		return a.applyError(ev)
	case *openresponses.OutputItemAddedEvent:
		return a.applyItemAdded(ev)
	case *openresponses.OutputItemDoneEvent:
		return a.applyItemDone(ev)
	case *openresponses.ContentPartAddedEvent:
		return a.applyContentPartAdded(ev)
	case *openresponses.ContentPartDoneEvent:
		return a.applyContentPartDone(ev)
	case *openresponses.OutputTextDeltaEvent:
		return a.appendContentText(ev.OutputIndex, ev.ContentIndex, ev.Delta, "")
	case *openresponses.OutputTextDoneEvent:
		return a.finalizeContentText(ev.OutputIndex, ev.ContentIndex, ev.Text, "")
	case *openresponses.RefusalDeltaEvent:
		return a.appendContentText(ev.OutputIndex, ev.ContentIndex, "", ev.Delta)
	case *openresponses.RefusalDoneEvent:
		return a.finalizeContentText(ev.OutputIndex, ev.ContentIndex, "", ev.Refusal)
	case *openresponses.OutputTextAnnotationAddedEvent:
		return a.applyAnnotation(ev)
	case *openresponses.FunctionCallArgumentsDeltaEvent:
		return a.appendArguments(ev.OutputIndex, ev.Delta)
	case *openresponses.FunctionCallArgumentsDoneEvent:
		return a.finalizeArguments(ev.OutputIndex, ev.Arguments)
	case *openresponses.MCPCallArgumentsDeltaEvent:
		return a.appendArguments(ev.OutputIndex, ev.Delta)
	case *openresponses.MCPCallArgumentsDoneEvent:
		return a.finalizeArguments(ev.OutputIndex, ev.Arguments)
	case *openresponses.MCPApprovalRequestEvent:
		return a.applyApprovalRequest(ev)
	case *openresponses.CodeInterpreterCodeDeltaEvent:
		return a.appendCode(ev.OutputIndex, ev.Delta)
	case *openresponses.CodeInterpreterCodeDoneEvent:
		return a.finalizeCode(ev.OutputIndex, ev.Code)
	case *openresponses.ReasoningSummaryPartAddedEvent:
		return a.applySummaryPart(ev.OutputIndex, ev.SummaryIndex, ev.Part, false)
	case *openresponses.ReasoningSummaryPartDoneEvent:
		return a.applySummaryPart(ev.OutputIndex, ev.SummaryIndex, ev.Part, true)
	case *openresponses.ReasoningSummaryTextDeltaEvent:
		return a.appendSummaryText(ev.OutputIndex, ev.SummaryIndex, ev.Delta)
	case *openresponses.ReasoningSummaryTextDoneEvent:
		return a.finalizeSummaryText(ev.OutputIndex, ev.SummaryIndex, ev.Text)
	case *openresponses.ToolCallStatusEvent:
		return a.applyToolStatus(ev)
	case *openresponses.ImageGenerationPartialImageEvent:
		// Intermediate renderings are observational; the final result arrives
		// on output_item.done.
		return nil
	case *openresponses.UnknownEvent:
		a.logger.Debug().
			Str("event_type", ev.Type).
			Msg("skipping unknown event type")
		return nil
	}

	a.logger.Debug().
		Str("event_type", event.GetType()).
		Msg("skipping unhandled event")
	return nil
}

func (a *Assembler) applyLifecycle(ev *openresponses.ResponseLifecycleEvent) error {
	if ev.Response != nil {
		if a.resp == nil {
			a.resp = ev.Response
		} else {
			// Keep the locally accumulated output: lifecycle snapshots other
			// than the terminal one may carry an empty output array.
			status := ev.Response.Status
			if len(ev.Response.Output) > 0 || status.Terminal() {
				a.resp = ev.Response
			} else {
				a.resp.Status = status
			}
			if ev.Response.Usage != nil {
				a.resp.Usage = ev.Response.Usage
			}
			if ev.Response.Error != nil {
				a.resp.Error = ev.Response.Error
			}
			if ev.Response.IncompleteDetails != nil {
				a.resp.IncompleteDetails = ev.Response.IncompleteDetails
			}
		}
	}
	if a.resp == nil {
		a.resp = openresponses.NewResponse("", "")
	}
	if status, ok := ev.Status(); ok {
		a.resp.Status = status
		if status.Terminal() {
			a.frozen = true
		}
	}
	return nil
}

func (a *Assembler) applyError(ev *openresponses.ErrorEvent) error {
	if a.resp == nil {
		a.resp = openresponses.NewResponse("", "")
	}
	a.resp.Status = openresponses.ResponseStatusFailed
	a.resp.Error = ev.Error
	a.frozen = true
	msg := "stream error"
	if ev.Error != nil {
		msg = ev.Error.Message
	}
	return responses.NewServerError(msg, 0)
}

func (a *Assembler) applyItemAdded(ev *openresponses.OutputItemAddedEvent) error {
	if a.resp == nil {
		a.resp = openresponses.NewResponse("", "")
	}
	if ev.OutputIndex != len(a.resp.Output) {
		return responses.NewOrderingError(
			fmt.Sprintf("output_item.added at index %d, expected %d", ev.OutputIndex, len(a.resp.Output)))
	}
	item := openresponses.Item{Status: openresponses.ItemStatusInProgress}
	if ev.Item != nil {
		item = *ev.Item
		if item.Status == "" {
			item.Status = openresponses.ItemStatusInProgress
		}
	}
	a.resp.Output = append(a.resp.Output, item)
	return nil
}

func (a *Assembler) applyItemDone(ev *openresponses.OutputItemDoneEvent) error {
	item, err := a.item(ev.OutputIndex)
	if err != nil {
		return err
	}
	if ev.Item != nil {
		// The done event carries the authoritative final payload.
		*item = *ev.Item
	}
	if item.Status == "" || item.Status == openresponses.ItemStatusInProgress {
		item.Status = openresponses.ItemStatusCompleted
	}
	return nil
}

func (a *Assembler) applyContentPartAdded(ev *openresponses.ContentPartAddedEvent) error {
	item, err := a.item(ev.OutputIndex)
	if err != nil {
		return err
	}
	if ev.ContentIndex != len(item.Content) {
		return responses.NewOrderingError(
			fmt.Sprintf("content_part.added at index %d, expected %d", ev.ContentIndex, len(item.Content)))
	}
	part := openresponses.ContentItem{Type: "output_text"}
	if ev.Part != nil {
		part = *ev.Part
	}
	item.Content = append(item.Content, part)
	return nil
}

func (a *Assembler) applyContentPartDone(ev *openresponses.ContentPartDoneEvent) error {
	part, err := a.contentPart(ev.OutputIndex, ev.ContentIndex)
	if err != nil {
		return err
	}
	if ev.Part != nil {
		*part = *ev.Part
	}
	return nil
}

func (a *Assembler) appendContentText(outputIndex, contentIndex int, textDelta, refusalDelta string) error {
	part, err := a.contentPart(outputIndex, contentIndex)
	if err != nil {
		return err
	}
	part.Text += textDelta
	if refusalDelta != "" {
		part.Refusal += refusalDelta
		part.Type = "refusal"
	}
	return nil
}

func (a *Assembler) finalizeContentText(outputIndex, contentIndex int, text, refusal string) error {
	part, err := a.contentPart(outputIndex, contentIndex)
	if err != nil {
		return err
	}
	if text != "" {
		part.Text = text
	}
	if refusal != "" {
		part.Refusal = refusal
		part.Type = "refusal"
	}
	return nil
}

func (a *Assembler) applyAnnotation(ev *openresponses.OutputTextAnnotationAddedEvent) error {
	part, err := a.contentPart(ev.OutputIndex, ev.ContentIndex)
	if err != nil {
		return err
	}
	if ev.Annotation != nil {
		part.Annotations = append(part.Annotations, *ev.Annotation)
	}
	return nil
}

func (a *Assembler) appendArguments(outputIndex int, delta string) error {
	item, err := a.item(outputIndex)
	if err != nil {
		return err
	}
	acc, ok := item.Arguments.AsString()
	if !ok && item.Arguments.Present() {
		// Arguments carried in object form (e.g. on output_item.added) seed
		// the accumulator instead of being discarded.
		acc = item.Arguments.ArgumentsString()
	}
	item.Arguments = openresponses.StringValue(acc + delta)
	return nil
}

func (a *Assembler) finalizeArguments(outputIndex int, args openresponses.Value) error {
	item, err := a.item(outputIndex)
	if err != nil {
		return err
	}
	if args.Present() {
		item.Arguments = args
	}
	return nil
}

func (a *Assembler) applyApprovalRequest(ev *openresponses.MCPApprovalRequestEvent) error {
	// The approval request also arrives through output_item.added; this event
	// only needs to surface the item when that did not happen.
	req, ok := ev.ApprovalRequest()
	if !ok {
		return nil
	}
	if a.resp == nil {
		a.resp = openresponses.NewResponse("", "")
	}
	for i := range a.resp.Output {
		if a.resp.Output[i].ID == req.ID {
			return nil
		}
	}
	item := openresponses.Item{
		ID:          req.ID,
		Type:        openresponses.ItemTypeMCPApprovalRequest,
		Name:        req.ToolName,
		ServerLabel: req.ServerLabel,
		Arguments:   openresponses.StringValue(req.Arguments),
	}
	if ev.Item != nil {
		item = *ev.Item
	}
	a.resp.Output = append(a.resp.Output, item)
	return nil
}

func (a *Assembler) appendCode(outputIndex int, delta string) error {
	item, err := a.item(outputIndex)
	if err != nil {
		return err
	}
	item.Code += delta
	return nil
}

func (a *Assembler) finalizeCode(outputIndex int, code string) error {
	item, err := a.item(outputIndex)
	if err != nil {
		return err
	}
	if code != "" {
		item.Code = code
	}
	return nil
}

func (a *Assembler) applySummaryPart(outputIndex, summaryIndex int, part *openresponses.SummaryTextContent, done bool) error {
	item, err := a.item(outputIndex)
	if err != nil {
		return err
	}
	if !done {
		if summaryIndex != len(item.Summary) {
			return responses.NewOrderingError(
				fmt.Sprintf("reasoning_summary_part.added at index %d, expected %d", summaryIndex, len(item.Summary)))
		}
		p := openresponses.SummaryTextContent{Type: "summary_text"}
		if part != nil {
			p = *part
		}
		item.Summary = append(item.Summary, p)
		return nil
	}
	if summaryIndex >= len(item.Summary) {
		return responses.NewOrderingError(
			fmt.Sprintf("reasoning_summary_part.done for missing index %d", summaryIndex))
	}
	if part != nil {
		item.Summary[summaryIndex] = *part
	}
	return nil
}

func (a *Assembler) appendSummaryText(outputIndex, summaryIndex int, delta string) error {
	item, err := a.item(outputIndex)
	if err != nil {
		return err
	}
	if summaryIndex >= len(item.Summary) {
		return responses.NewOrderingError(
			fmt.Sprintf("reasoning_summary_text.delta for missing index %d", summaryIndex))
	}
	item.Summary[summaryIndex].Text += delta
	return nil
}

func (a *Assembler) finalizeSummaryText(outputIndex, summaryIndex int, text string) error {
	item, err := a.item(outputIndex)
	if err != nil {
		return err
	}
	if summaryIndex >= len(item.Summary) {
		return responses.NewOrderingError(
			fmt.Sprintf("reasoning_summary_text.done for missing index %d", summaryIndex))
	}
	if text != "" {
		item.Summary[summaryIndex].Text = text
	}
	return nil
}

func (a *Assembler) applyToolStatus(ev *openresponses.ToolCallStatusEvent) error {
	item, err := a.item(ev.OutputIndex)
	if err != nil {
		return err
	}
	if status, ok := ev.ItemStatus(); ok {
		item.Status = status
	}
	if ev.Error != nil {
		if raw, err := json.Marshal(ev.Error); err == nil {
			item.Error = openresponses.NewValue(raw)
		}
	}
	return nil
}

// item locates the output item a delta addresses. A delta for a slot never
// introduced by output_item.added is an ordering fault, never fabricated.
func (a *Assembler) item(outputIndex int) (*openresponses.Item, error) {
	if a.resp == nil || outputIndex < 0 || outputIndex >= len(a.resp.Output) {
		return nil, responses.NewOrderingError(
			fmt.Sprintf("delta for output_index %d before output_item.added", outputIndex))
	}
	return &a.resp.Output[outputIndex], nil
}

func (a *Assembler) contentPart(outputIndex, contentIndex int) (*openresponses.ContentItem, error) {
	item, err := a.item(outputIndex)
	if err != nil {
		return nil, err
	}
	if contentIndex < 0 || contentIndex >= len(item.Content) {
		// Some servers skip content_part.added for single-part messages;
		// a delta for exactly the next index creates the part.
		if contentIndex == len(item.Content) {
			item.Content = append(item.Content, openresponses.ContentItem{Type: "output_text"})
			return &item.Content[contentIndex], nil
		}
		return nil, responses.NewOrderingError(
			fmt.Sprintf("delta for content_index %d before content_part.added", contentIndex))
	}
	return &item.Content[contentIndex], nil
}
