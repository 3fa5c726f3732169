package main

// contextKey is the type for values stored on a request context.
type contextKey string

// defineRequest is the JSON body accepted by the definition endpoint.
type defineRequest struct {
	Term string `json:"term"`
}

// defineResponse is the JSON reply from the definition endpoint.
type defineResponse struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// chatRequest is the JSON body accepted by the chat endpoint. The system
// prompt is optional and falls back to the built-in study assistant prompt.
type chatRequest struct {
	Message      string `json:"message"`
	SystemPrompt string `json:"systemPrompt,omitempty"`
}

// chatUsage mirrors the upstream token accounting.
type chatUsage struct {
	PromptTokens     int `json:"promptTokens"`
	CompletionTokens int `json:"completionTokens"`
	TotalTokens      int `json:"totalTokens"`
}

// chatResponse is the JSON reply from the chat endpoint.
type chatResponse struct {
	Response string    `json:"response"`
	Usage    chatUsage `json:"usage"`
}

// errorResponse is the JSON error shape shared by the API endpoints. Details
// carries the upstream error text when there is one.
type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
