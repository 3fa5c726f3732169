package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	openai "github.com/sashabaranov/go-openai"
)

// chatService wraps the OpenAI-compatible upstream behind the definition and
// chat endpoints. It is nil when no API key is configured, and the handlers
// answer 503 in that case. The key itself is read once from the environment
// and never logged.
type chatService struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// newChatService builds the service from the environment, or returns nil
// when CHAT_API_KEY is unset.
func newChatService() *chatService {
	key := os.Getenv("CHAT_API_KEY")
	if key == "" {
		logWarn("CHAT_API_KEY not set, generation endpoints disabled")
		return nil
	}
	config := openai.DefaultConfig(key)
	if base := os.Getenv("CHAT_API_BASE_URL"); base != "" {
		config.BaseURL = base
		logInfo("Generation upstream set to %s", base)
	}
	return &chatService{
		client:  openai.NewClientWithConfig(config),
		model:   getEnvString("CHAT_MODEL", openai.GPT4oMini),
		timeout: getEnvDuration("CHAT_TIMEOUT", 30*time.Second),
	}
}

// complete sends one system+user exchange and returns the reply text along
// with the upstream token usage.
func (s *chatService) complete(ctx context.Context, system, user string) (string, openai.Usage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: 0.4,
		MaxTokens:   400,
	}
	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", openai.Usage{}, err
	}
	if len(resp.Choices) == 0 {
		return "", openai.Usage{}, errors.New("upstream returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), resp.Usage, nil
}

const defineSystemPrompt = "You are a flashcard assistant. Reply with a single concise definition " +
	"for the given term, at most two sentences, with no preamble."

// defineHandler generates a definition for one term. Upstream failures map
// to 502 with the upstream error in details.
func (app *App) defineHandler(c *gin.Context) {
	if app.Chat == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: ErrorChatUnavailable})
		return
	}

	var req defineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body.", Details: err.Error()})
		return
	}
	term := strings.TrimSpace(req.Term)
	if term == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: ErrorTermRequired})
		return
	}

	definition, _, err := app.Chat.complete(c.Request.Context(), defineSystemPrompt, term)
	if err != nil {
		logWarn("Definition generation failed for %q: %v", truncateForLog(term, 40), err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: ErrorChatFailed, Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, defineResponse{Term: term, Definition: definition})
}

const chatSystemPrompt = "You are a study assistant embedded in a flashcard app. " +
	"Answer the user's question briefly and factually."

// chatHandler forwards a free-form message to the upstream. Callers may
// supply their own system prompt.
func (app *App) chatHandler(c *gin.Context) {
	if app.Chat == nil {
		c.JSON(http.StatusServiceUnavailable, errorResponse{Error: ErrorChatUnavailable})
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: "Invalid request body.", Details: err.Error()})
		return
	}
	message := strings.TrimSpace(req.Message)
	if message == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Error: ErrorMessageRequired})
		return
	}
	system := strings.TrimSpace(req.SystemPrompt)
	if system == "" {
		system = chatSystemPrompt
	}

	reply, usage, err := app.Chat.complete(c.Request.Context(), system, message)
	if err != nil {
		logWarn("Chat generation failed: %v", err)
		c.JSON(http.StatusBadGateway, errorResponse{Error: ErrorChatFailed, Details: err.Error()})
		return
	}
	c.JSON(http.StatusOK, chatResponse{
		Response: reply,
		Usage: chatUsage{
			PromptTokens:     usage.PromptTokens,
			CompletionTokens: usage.CompletionTokens,
			TotalTokens:      usage.TotalTokens,
		},
	})
}
