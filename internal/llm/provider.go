// Package llm talks to vision-capable chat models. Provider is the single
// abstraction; concrete SDK adapters, retry and event logging are layered as
// decorators.
package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
)

// Provider sends one request to a model and returns its reply.
type Provider interface {
	// Generate sends req and returns the reply. When req.Schema is set the
	// reply Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt.
	System string

	// Messages is the conversation. Analysis calls send a single user
	// message carrying the rendered prompt and the photo.
	Messages []Message

	// Schema, when set, asks for structured JSON output.
	Schema *Schema

	MaxTokens int

	// Temperature in [0, 1]. Zero leaves the provider default.
	Temperature float64
}

// Message is one turn of the conversation.
type Message struct {
	Role    Role
	Content string

	// Images are attached after the text. Only user messages carry images.
	Images []Image
}

// Image is an inline picture, e.g. a photo of a homework page.
type Image struct {
	MediaType string // "image/jpeg", "image/png", ...
	Data      []byte
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// DataURL returns the image as a data: URL.
func (i Image) DataURL() string {
	return "data:" + i.MediaType + ";base64," + i.Base64()
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema is the JSON structure expected from the model.
type Schema struct {
	// Name identifies the schema, kebab-case, e.g. "question-analysis".
	Name string

	Description string

	// Definition is the JSON Schema document.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is validated JSON when the request had a Schema, otherwise the
	// raw text.
	Content json.RawMessage

	Usage Usage

	// Model is the model that actually served the request.
	Model string

	// StopReason is normalized to "end", "max_tokens" or "error".
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
