package openresponses

import (
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// Converter bridges assembled Responses and the Chat Completions shapes used
// by downstream consumers built on the go-openai client types
type Converter struct{}

// NewConverter creates a new Converter
func NewConverter() *Converter {
	return &Converter{}
}

// RequestToChatCompletion converts a CreateRequest to a ChatCompletionRequest
func (c *Converter) RequestToChatCompletion(req *CreateRequest) (*openai.ChatCompletionRequest, error) {
	chatReq := &openai.ChatCompletionRequest{
		Model: req.Model,
	}
	if req.Temperature != nil {
		chatReq.Temperature = float32(*req.Temperature)
	}
	if req.TopP != nil {
		chatReq.TopP = float32(*req.TopP)
	}
	if req.MaxOutputTokens != nil {
		chatReq.MaxTokens = *req.MaxOutputTokens
	}
	if req.Stream != nil {
		chatReq.Stream = *req.Stream
	}

	messages, err := c.inputToMessages(req.Input)
	if err != nil {
		return nil, fmt.Errorf("convert input: %w", err)
	}
	if req.Instructions != "" {
		messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: req.Instructions},
		}, messages...)
	}
	chatReq.Messages = messages

	if len(req.Tools) > 0 {
		chatReq.Tools = c.toolsToChatCompletion(req.Tools)
	}

	return chatReq, nil
}

// inputToMessages converts request input to chat messages
func (c *Converter) inputToMessages(input InputParam) ([]openai.ChatCompletionMessage, error) {
	// Plain string input is a single user message
	if str, ok := input.(string); ok {
		return []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: str},
		}, nil
	}

	// Array input: items arrive as []interface{} after a round trip through
	// encoding/json, or as typed item params when built in code
	if items, ok := input.([]interface{}); ok {
		return c.parseInputItems(items)
	}

	return nil, fmt.Errorf("invalid input format")
}

// parseInputItems converts generic input items to chat messages
func (c *Converter) parseInputItems(items []interface{}) ([]openai.ChatCompletionMessage, error) {
	var messages []openai.ChatCompletionMessage
	for _, item := range items {
		itemBytes, err := json.Marshal(item)
		if err != nil {
			continue
		}
		if msg, ok := c.parseItemToMessage(itemBytes); ok {
			messages = append(messages, msg)
		}
	}

	if len(messages) == 0 {
		return nil, fmt.Errorf("no valid messages found in input")
	}
	return messages, nil
}

// parseItemToMessage converts a single input item to a chat message
func (c *Converter) parseItemToMessage(itemBytes []byte) (openai.ChatCompletionMessage, bool) {
	var item struct {
		Type    string          `json:"type"`
		Role    string          `json:"role"`
		CallID  string          `json:"call_id"`
		Output  json.RawMessage `json:"output"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(itemBytes, &item); err != nil {
		return openai.ChatCompletionMessage{}, false
	}

	switch item.Type {
	case "message", "":
		if item.Role == "" {
			return openai.ChatCompletionMessage{}, false
		}
		return openai.ChatCompletionMessage{
			Role:    item.Role,
			Content: c.contentToText(item.Content),
		}, true
	case "function_call_output":
		return openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    c.contentToText(item.Output),
			ToolCallID: item.CallID,
		}, true
	}

	return openai.ChatCompletionMessage{}, false
}

// contentToText flattens string-or-array content to plain text
func (c *Converter) contentToText(content json.RawMessage) string {
	if len(content) == 0 || string(content) == "null" {
		return ""
	}
	var str string
	if err := json.Unmarshal(content, &str); err == nil {
		return str
	}
	var parts []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal(content, &parts); err != nil {
		return ""
	}
	var result string
	for _, p := range parts {
		switch p.Type {
		case "input_text", "output_text", "text":
			result += p.Text
		}
	}
	return result
}

// toolsToChatCompletion converts function tools to the chat completions shape.
// Hosted tool kinds (mcp, computer use, search) have no chat equivalent and
// are skipped.
func (c *Converter) toolsToChatCompletion(tools []Tool) []openai.Tool {
	var out []openai.Tool
	for _, tool := range tools {
		var fn *FunctionTool
		switch tt := tool.(type) {
		case *FunctionTool:
			fn = tt
		case FunctionTool:
			fn = &tt
		}
		if fn != nil {
			out = append(out, openai.Tool{
				Type: openai.ToolTypeFunction,
				Function: &openai.FunctionDefinition{
					Name:        fn.Name,
					Description: fn.Description,
					Parameters:  fn.Parameters,
				},
			})
		}
	}
	return out
}

// ResponseToChatCompletion converts an assembled Response to a
// ChatCompletionResponse. Message items become the choice content; completed
// function_call items become tool calls.
func (c *Converter) ResponseToChatCompletion(resp *Response) *openai.ChatCompletionResponse {
	if resp == nil {
		return nil
	}

	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleAssistant}
	finish := openai.FinishReasonStop

	for i := range resp.Output {
		item := &resp.Output[i]
		switch item.Type {
		case ItemTypeMessage:
			msg.Content += item.OutputText()
		case ItemTypeFunctionCall:
			msg.ToolCalls = append(msg.ToolCalls, openai.ToolCall{
				ID:   item.CallID,
				Type: openai.ToolTypeFunction,
				Function: openai.FunctionCall{
					Name:      item.Name,
					Arguments: item.Arguments.ArgumentsString(),
				},
			})
			finish = openai.FinishReasonToolCalls
		}
	}

	chatResp := &openai.ChatCompletionResponse{
		ID:      resp.ID,
		Object:  "chat.completion",
		Created: resp.CreatedAt,
		Model:   resp.Model,
		Choices: []openai.ChatCompletionChoice{
			{Index: 0, Message: msg, FinishReason: finish},
		},
	}
	if resp.Usage != nil {
		chatResp.Usage = openai.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return chatResp
}

// ChatCompletionToResponse converts a ChatCompletionResponse to a Response
func (c *Converter) ChatCompletionToResponse(chatResp *openai.ChatCompletionResponse, responseID string) *Response {
	resp := NewResponse(responseID, chatResp.Model)
	resp.Status = ResponseStatusCompleted
	resp.CreatedAt = chatResp.Created

	for _, choice := range chatResp.Choices {
		if choice.Message.Content != "" {
			resp.Output = append(resp.Output, Item{
				ID:     fmt.Sprintf("msg_%s_%d", responseID, choice.Index),
				Type:   ItemTypeMessage,
				Status: ItemStatusCompleted,
				Role:   MessageRoleEnum(choice.Message.Role),
				Content: []ContentItem{
					{Type: "output_text", Text: choice.Message.Content},
				},
			})
		}
		for _, call := range choice.Message.ToolCalls {
			resp.Output = append(resp.Output, Item{
				ID:        fmt.Sprintf("fc_%s", call.ID),
				Type:      ItemTypeFunctionCall,
				Status:    ItemStatusCompleted,
				CallID:    call.ID,
				Name:      call.Function.Name,
				Arguments: StringValue(call.Function.Arguments),
			})
		}
	}

	if chatResp.Usage.TotalTokens > 0 {
		resp.Usage = &Usage{
			InputTokens:  chatResp.Usage.PromptTokens,
			OutputTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:  chatResp.Usage.TotalTokens,
		}
	}
	return resp
}
