package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/deeplooplabs/responses-go/cache"
	"github.com/deeplooplabs/responses-go/client"
	"github.com/deeplooplabs/responses-go/conversation"
	"github.com/deeplooplabs/responses-go/openresponses"
)

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Info().Msg("no .env file found, using system environment variables")
	}

	baseURL := os.Getenv("OPENAI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://api.openai.com"
	}
	apiKey := os.Getenv("OPENAI_API_KEY")
	model := os.Getenv("LLM_MODEL")
	if model == "" {
		model = "gpt-4.1"
	}
	logger.Info().Str("base_url", baseURL).Str("model", model).Msg("configuration")

	cfg := client.NewConfig(baseURL).
		WithAPIKey(apiKey).
		WithTimeout(120 * time.Second).
		WithLogger(logger)
	cl := client.New(cfg).WithCache(cache.NewLRUCache(nil))

	ctx := context.Background()

	// Example 1: stream a single response and print deltas as they arrive
	streamOneResponse(ctx, cl, model, logger)

	// Example 2: a multi-turn conversation with a function tool
	runWeatherConversation(ctx, cl, model, logger)
}

func streamOneResponse(ctx context.Context, cl *client.Client, model string, logger zerolog.Logger) {
	stream, err := cl.StreamResponse(ctx, &openresponses.CreateRequest{
		Model: model,
		Input: "Write a haiku about network latency.",
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("stream request failed")
	}
	defer stream.Close()

	for event := range stream.Events {
		if delta, ok := event.(*openresponses.OutputTextDeltaEvent); ok {
			fmt.Print(delta.Delta)
		}
	}
	fmt.Println()
	if err := <-stream.Errors; err != nil {
		logger.Error().Err(err).Msg("stream ended abnormally")
	}
}

func runWeatherConversation(ctx context.Context, cl *client.Client, model string, logger zerolog.Logger) {
	conv := conversation.New(cl, model,
		conversation.WithLogger(logger),
		conversation.WithInstructions("Answer using the get_weather tool when asked about weather."),
		conversation.WithTools(&openresponses.FunctionTool{
			Type:        "function",
			Name:        "get_weather",
			Description: "Look up the current weather for a city",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"city": map[string]any{"type": "string"},
				},
				"required": []string{"city"},
			},
		}),
	)

	resp, err := conv.Send(ctx, "What is the weather in Oslo right now?")
	if err != nil {
		logger.Fatal().Err(err).Msg("turn failed")
	}

	// Answer any function calls the model paused on
	for _, call := range conv.PendingFunctionCalls() {
		logger.Info().
			Str("call_id", call.CallID).
			Str("arguments", call.Arguments.ArgumentsString()).
			Msg("answering function call")

		resp, err = conv.SubmitFunctionOutput(ctx, call.CallID, `{"temperature_c": 4, "condition": "overcast"}`)
		if err != nil {
			logger.Fatal().Err(err).Msg("continuation failed")
		}
	}

	// Decide any MCP approvals the model paused on
	for _, approval := range conv.PendingApprovals() {
		logger.Info().Str("id", approval.ID).Str("tool", approval.ToolName).Msg("approving tool call")
		resp, err = conv.Approve(ctx, approval.ID)
		if err != nil {
			logger.Fatal().Err(err).Msg("approval continuation failed")
		}
	}

	for _, item := range resp.Output {
		if text := item.OutputText(); text != "" {
			fmt.Println(text)
		}
	}
}
