// Package provider implements clients for the external AI services: an
// embedding provider and two interchangeable text generation providers.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// ErrUnsupportedOperation indicates the provider does not support the
// requested operation.
var ErrUnsupportedOperation = errors.New("operation not supported by provider")

// Message is a single chat message.
type Message struct {
	role    string
	content string
}

// SystemMessage creates a system-role message.
func SystemMessage(content string) Message {
	return Message{role: "system", content: content}
}

// UserMessage creates a user-role message.
func UserMessage(content string) Message {
	return Message{role: "user", content: content}
}

// Role returns the message role.
func (m Message) Role() string { return m.role }

// Content returns the message content.
func (m Message) Content() string { return m.content }

// ChatCompletionRequest is a request for text generation.
type ChatCompletionRequest struct {
	messages    []Message
	maxTokens   int
	temperature float64
}

// NewChatCompletionRequest creates a chat completion request.
func NewChatCompletionRequest(messages []Message) ChatCompletionRequest {
	return ChatCompletionRequest{messages: append([]Message(nil), messages...)}
}

// WithMaxTokens returns a request with the given token limit.
func (r ChatCompletionRequest) WithMaxTokens(n int) ChatCompletionRequest {
	r.maxTokens = n
	return r
}

// WithTemperature returns a request with the given sampling temperature.
func (r ChatCompletionRequest) WithTemperature(t float64) ChatCompletionRequest {
	r.temperature = t
	return r
}

// Messages returns the chat messages (copy).
func (r ChatCompletionRequest) Messages() []Message {
	return append([]Message(nil), r.messages...)
}

// MaxTokens returns the token limit.
func (r ChatCompletionRequest) MaxTokens() int { return r.maxTokens }

// Temperature returns the sampling temperature.
func (r ChatCompletionRequest) Temperature() float64 { return r.temperature }

// Usage holds token accounting for a provider call.
type Usage struct {
	promptTokens     int
	completionTokens int
	totalTokens      int
}

// NewUsage creates a usage record.
func NewUsage(prompt, completion, total int) Usage {
	return Usage{promptTokens: prompt, completionTokens: completion, totalTokens: total}
}

// PromptTokens returns the prompt token count.
func (u Usage) PromptTokens() int { return u.promptTokens }

// CompletionTokens returns the completion token count.
func (u Usage) CompletionTokens() int { return u.completionTokens }

// TotalTokens returns the total token count.
func (u Usage) TotalTokens() int { return u.totalTokens }

// ChatCompletionResponse is the result of a text generation call.
type ChatCompletionResponse struct {
	content      string
	finishReason string
	usage        Usage
}

// NewChatCompletionResponse creates a chat completion response.
func NewChatCompletionResponse(content, finishReason string, usage Usage) ChatCompletionResponse {
	return ChatCompletionResponse{content: content, finishReason: finishReason, usage: usage}
}

// Content returns the generated text.
func (r ChatCompletionResponse) Content() string { return r.content }

// FinishReason returns why generation stopped.
func (r ChatCompletionResponse) FinishReason() string { return r.finishReason }

// Usage returns the token accounting.
func (r ChatCompletionResponse) Usage() Usage { return r.usage }

// TextGenerator produces chat completions.
type TextGenerator interface {
	// Name identifies the provider in logs and errors.
	Name() string

	// ChatCompletion generates a chat completion.
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (ChatCompletionResponse, error)
}

// Embedder computes semantic vectors for texts. Implementations return one
// vector per input text, all with the model's fixed dimensionality.
type Embedder interface {
	// Embed computes embeddings for the given texts in a single call.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// ProviderError describes a failed provider call.
type ProviderError struct {
	operation  string
	statusCode int
	message    string
	cause      error
}

// NewProviderError creates a provider error.
func NewProviderError(operation string, statusCode int, message string, cause error) *ProviderError {
	return &ProviderError{
		operation:  operation,
		statusCode: statusCode,
		message:    message,
		cause:      cause,
	}
}

// Error implements error.
func (e *ProviderError) Error() string {
	if e.statusCode > 0 {
		return fmt.Sprintf("%s failed (status %d): %s", e.operation, e.statusCode, e.message)
	}
	return fmt.Sprintf("%s failed: %s", e.operation, e.message)
}

// Unwrap returns the underlying cause.
func (e *ProviderError) Unwrap() error { return e.cause }

// Operation returns the failed operation name.
func (e *ProviderError) Operation() string { return e.operation }

// StatusCode returns the HTTP status code, or 0 when unknown.
func (e *ProviderError) StatusCode() int { return e.statusCode }

// Message returns the provider's error message.
func (e *ProviderError) Message() string { return e.message }
