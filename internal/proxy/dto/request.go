// Package dto provides data transfer objects for the upstream proxy API.
package dto

import (
	"encoding/json"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/xchat/internal/validation"
)

// Defaults applied when the caller omits a field.
const (
	DefaultChatModel       = "grok-4-0709"
	DefaultChatTemperature = 0.7
	DefaultVisionModel     = "grok-2v"
	DefaultVisionDetail    = "high"
	DefaultVisionPrompt    = "Describe the image(s)."
	DefaultImageModel      = "grok-2-image"
	DefaultImageCount      = 1
	DefaultResponseFormat  = "url"
)

// ChatRequest is a chat completion request. Messages are forwarded to the
// upstream API verbatim, so they stay raw JSON here.
type ChatRequest struct {
	Model       string            `json:"model"`
	Messages    []json.RawMessage `json:"messages"`
	Temperature *float64          `json:"temperature"`
	MaxTokens   *int              `json:"max_tokens"`
	Stream      bool              `json:"stream"`
}

// Validate checks if the chat request is valid.
func (r *ChatRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Messages, validation.Required),
	)
}

// ApplyDefaults fills in the fields the caller omitted.
func (r *ChatRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultChatModel
	}
	if r.Temperature == nil {
		temperature := DefaultChatTemperature
		r.Temperature = &temperature
	}
}

// UpstreamBody builds the JSON payload forwarded to the chat completions
// endpoint.
func (r *ChatRequest) UpstreamBody() ([]byte, error) {
	return json.Marshal(struct {
		Model       string            `json:"model"`
		Messages    []json.RawMessage `json:"messages"`
		Temperature *float64          `json:"temperature"`
		MaxTokens   *int              `json:"max_tokens,omitempty"`
		Stream      bool              `json:"stream"`
	}{
		Model:       r.Model,
		Messages:    r.Messages,
		Temperature: r.Temperature,
		MaxTokens:   r.MaxTokens,
		Stream:      r.Stream,
	})
}

// VisionRequest is an image understanding request. Images are data URLs or
// plain URLs.
type VisionRequest struct {
	Images []string `json:"images"`
	Prompt string   `json:"prompt"`
	Model  string   `json:"model"`
	Detail string   `json:"detail"`
}

// Validate checks if the vision request is valid.
func (r *VisionRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Images,
			validation.Required,
			validation.Each(validation.Required, customValidation.NotBlank),
		),
	)
}

// ApplyDefaults fills in the fields the caller omitted.
func (r *VisionRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultVisionModel
	}
	if r.Detail == "" {
		r.Detail = DefaultVisionDetail
	}
	if r.Prompt == "" {
		r.Prompt = DefaultVisionPrompt
	}
}

type visionImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type visionContent struct {
	Type     string          `json:"type"`
	Text     string          `json:"text,omitempty"`
	ImageURL *visionImageURL `json:"image_url,omitempty"`
}

type visionMessage struct {
	Role    string          `json:"role"`
	Content []visionContent `json:"content"`
}

// UpstreamBody reshapes the request into a single multipart chat message
// for the chat completions endpoint: the prompt first, then one image part
// per image. Vision calls never stream.
func (r *VisionRequest) UpstreamBody() ([]byte, error) {
	content := make([]visionContent, 0, len(r.Images)+1)
	content = append(content, visionContent{Type: "text", Text: r.Prompt})
	for _, image := range r.Images {
		content = append(content, visionContent{
			Type:     "image_url",
			ImageURL: &visionImageURL{URL: image, Detail: r.Detail},
		})
	}

	return json.Marshal(struct {
		Model    string          `json:"model"`
		Messages []visionMessage `json:"messages"`
		Stream   bool            `json:"stream"`
	}{
		Model:    r.Model,
		Messages: []visionMessage{{Role: "user", Content: content}},
		Stream:   false,
	})
}

// GenerateRequest is an image generation request.
type GenerateRequest struct {
	Model          string `json:"model"`
	Prompt         string `json:"prompt"`
	N              int    `json:"n"`
	ResponseFormat string `json:"response_format"`
}

// Validate checks if the generate request is valid.
func (r *GenerateRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Prompt, validation.Required, customValidation.NotBlank),
	)
}

// ApplyDefaults fills in the fields the caller omitted.
func (r *GenerateRequest) ApplyDefaults() {
	if r.Model == "" {
		r.Model = DefaultImageModel
	}
	if r.N == 0 {
		r.N = DefaultImageCount
	}
	if r.ResponseFormat == "" {
		r.ResponseFormat = DefaultResponseFormat
	}
}

// UpstreamBody builds the JSON payload forwarded to the image generations
// endpoint.
func (r *GenerateRequest) UpstreamBody() ([]byte, error) {
	return json.Marshal(struct {
		Model          string `json:"model"`
		Prompt         string `json:"prompt"`
		N              int    `json:"n"`
		ResponseFormat string `json:"response_format"`
	}{
		Model:          r.Model,
		Prompt:         r.Prompt,
		N:              r.N,
		ResponseFormat: r.ResponseFormat,
	})
}
