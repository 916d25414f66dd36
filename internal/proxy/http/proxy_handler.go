// Package http provides HTTP handlers that proxy playground requests to
// the upstream xAI API. The caller's credential travels in the
// x-xai-api-key header and is swapped for a bearer token on the upstream
// call, so it never appears in the browser's request to api.x.ai.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/allisson/xchat/internal/config"
	"github.com/allisson/xchat/internal/proxy/dto"
)

const (
	apiKeyHeader = "x-xai-api-key"

	chatCompletionsPath  = "/v1/chat/completions"
	imageGenerationsPath = "/v1/images/generations"
	modelsPath           = "/v1/models"

	missingAPIKeyMessage   = "Missing xAI API key (x-xai-api-key header)."
	invalidChatBodyMessage = "Body must include messages: Array<{ role, content }>."
	invalidImagesMessage   = "Body must include images: string[] of data URLs or URLs."
	missingPromptMessage   = "Missing prompt"
)

// ProxyHandler forwards playground requests to the upstream API.
type ProxyHandler struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewProxyHandler creates a proxy handler from the application config.
// The http client carries no global timeout: streaming responses stay open
// for as long as the upstream produces tokens, and non-streaming calls get
// a per-request deadline instead.
func NewProxyHandler(cfg *config.Config, logger *slog.Logger) *ProxyHandler {
	return &ProxyHandler{
		baseURL:    cfg.UpstreamBaseURL,
		timeout:    cfg.UpstreamTimeout,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// ChatHandler proxies chat completion requests, streaming the response
// through when the caller asked for it.
func (h *ProxyHandler) ChatHandler(c *gin.Context) {
	apiKey := c.GetHeader(apiKeyHeader)
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: missingAPIKeyMessage})
		return
	}

	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: invalidChatBodyMessage})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: invalidChatBodyMessage})
		return
	}
	req.ApplyDefaults()

	payload, err := req.UpstreamBody()
	if err != nil {
		h.logger.Error("failed to encode chat payload", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ProxyError{Error: "failed to encode request"})
		return
	}

	h.forward(c, chatCompletionsPath, apiKey, payload, forwardOptions{
		stream:       req.Stream,
		cacheHeaders: true,
	})
}

// VisionHandler proxies image understanding requests. The images and
// prompt are reshaped into a single chat message and never streamed.
func (h *ProxyHandler) VisionHandler(c *gin.Context) {
	apiKey := c.GetHeader(apiKeyHeader)
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: missingAPIKeyMessage})
		return
	}

	var req dto.VisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: invalidImagesMessage})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: invalidImagesMessage})
		return
	}
	req.ApplyDefaults()

	payload, err := req.UpstreamBody()
	if err != nil {
		h.logger.Error("failed to encode vision payload", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ProxyError{Error: "failed to encode request"})
		return
	}

	h.forward(c, chatCompletionsPath, apiKey, payload, forwardOptions{})
}

// GenerateHandler proxies image generation requests.
func (h *ProxyHandler) GenerateHandler(c *gin.Context) {
	apiKey := c.GetHeader(apiKeyHeader)
	if apiKey == "" {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: missingAPIKeyMessage})
		return
	}

	var req dto.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: missingPromptMessage})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, dto.ProxyError{Error: missingPromptMessage})
		return
	}
	req.ApplyDefaults()

	payload, err := req.UpstreamBody()
	if err != nil {
		h.logger.Error("failed to encode generate payload", "error", err)
		c.JSON(http.StatusInternalServerError, dto.ProxyError{Error: "failed to encode request"})
		return
	}

	h.forward(c, imageGenerationsPath, apiKey, payload, forwardOptions{})
}
