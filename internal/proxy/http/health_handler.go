package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/xchat/internal/proxy/dto"
)

// HealthHandler checks whether the supplied credential works against the
// upstream API by listing models. The endpoint always answers HTTP 200 so
// the UI can render the status without special-casing error codes.
func (h *ProxyHandler) HealthHandler(c *gin.Context) {
	apiKey := c.GetHeader(apiKeyHeader)
	if apiKey == "" {
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  dto.HealthStatusNoKey,
			Message: "No API key provided",
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+modelsPath, nil)
	if err != nil {
		h.logger.Error("failed to create health check request", "error", err)
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  dto.HealthStatusError,
			Message: "Connection failed: " + err.Error(),
		})
		return
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Warn("upstream health check failed", "error", err)
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  dto.HealthStatusError,
			Message: "Connection failed: " + err.Error(),
		})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  dto.HealthStatusInvalid,
			Message: "Invalid API key",
		})
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  dto.HealthStatusError,
			Message: fmt.Sprintf("API error: %d", resp.StatusCode),
		})
	default:
		c.JSON(http.StatusOK, dto.HealthResponse{
			Status:  dto.HealthStatusConnected,
			Message: "Connected to xAI API",
		})
	}
}
