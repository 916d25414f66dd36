package http

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/xchat/internal/proxy/dto"
)

const streamBufferSize = 4096

type forwardOptions struct {
	// stream relays the upstream body chunk by chunk with a flush per
	// chunk instead of buffering the whole response.
	stream bool
	// cacheHeaders adds the no-cache headers that keep proxies from
	// buffering server-sent events.
	cacheHeaders bool
}

// forward posts the payload to the upstream path and relays the response.
// The upstream status and raw body pass through verbatim on failure; on
// success the body is relayed byte for byte.
func (h *ProxyHandler) forward(c *gin.Context, path, apiKey string, payload []byte, opts forwardOptions) {
	ctx := c.Request.Context()
	if !opts.stream {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		h.logger.Error("failed to create upstream request", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ProxyError{Error: "upstream request failed"})
		return
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		h.logger.Error("upstream request failed", "path", path, "error", err)
		c.JSON(http.StatusInternalServerError, dto.ProxyError{Error: "upstream request failed"})
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(resp.Body)
		contentType := resp.Header.Get("Content-Type")
		if contentType == "" {
			contentType = "text/plain"
		}
		c.Data(resp.StatusCode, contentType, raw)
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		if opts.stream {
			contentType = "text/event-stream"
		} else {
			contentType = "application/json"
		}
	}

	c.Header("Content-Type", contentType)
	if opts.cacheHeaders {
		c.Header("Cache-Control", "no-cache, no-transform")
		if strings.Contains(contentType, "text/event-stream") {
			c.Header("Connection", "keep-alive")
		}
	}
	c.Status(http.StatusOK)

	if opts.stream {
		h.relayStream(c, resp.Body)
		return
	}
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		h.logger.Warn("failed to relay upstream response", "path", path, "error", err)
	}
}

// relayStream copies the upstream body to the client with a flush after
// every chunk. A client disconnect cancels the request context, which
// terminates the upstream read.
func (h *ProxyHandler) relayStream(c *gin.Context, upstream io.Reader) {
	buf := make([]byte, streamBufferSize)
	for {
		n, err := upstream.Read(buf)
		if n > 0 {
			if _, werr := c.Writer.Write(buf[:n]); werr != nil {
				return
			}
			c.Writer.Flush()
		}
		if err != nil {
			if err != io.EOF && c.Request.Context().Err() == nil {
				h.logger.Warn("upstream stream ended unexpectedly", "error", err)
			}
			return
		}
	}
}
