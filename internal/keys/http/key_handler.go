// Package http provides HTTP handlers for the credential store API.
package http

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/allisson/xchat/internal/errors"
	"github.com/allisson/xchat/internal/httputil"
	"github.com/allisson/xchat/internal/keys/http/dto"
	keysUseCase "github.com/allisson/xchat/internal/keys/usecase"
	customValidation "github.com/allisson/xchat/internal/validation"
)

// KeyHandler handles HTTP requests for credential storage operations.
type KeyHandler struct {
	apiKeyUseCase keysUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewKeyHandler creates a new key handler with required dependencies.
func NewKeyHandler(apiKeyUseCase keysUseCase.APIKeyUseCase, logger *slog.Logger) *KeyHandler {
	return &KeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// StoreHandler stores a credential for a visitor identifier.
// POST /v1/keys - body {userIdentifier, apiKey}.
func (h *KeyHandler) StoreHandler(c *gin.Context) {
	var req dto.StoreAPIKeyRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	err := h.apiKeyUseCase.Store(c.Request.Context(), req.UserIdentifier, strings.TrimSpace(req.APIKey))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StoreAPIKeyResponse{Success: true})
}

// GetHandler retrieves the decrypted credential for a visitor identifier.
// GET /v1/keys?userIdentifier=... - 404 when no credential is stored.
func (h *KeyHandler) GetHandler(c *gin.Context) {
	userIdentifier := c.Query("userIdentifier")
	if userIdentifier == "" {
		httputil.HandleBadRequestGin(c, apperrors.New("missing userIdentifier parameter"), h.logger)
		return
	}

	apiKey, err := h.apiKeyUseCase.Fetch(c.Request.Context(), userIdentifier)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.GetAPIKeyResponse{APIKey: apiKey})
}

// ExistsHandler reports whether a credential is stored for a visitor
// identifier without decrypting or transferring it.
// HEAD /v1/keys?userIdentifier=... - 204 when stored, 404 otherwise.
func (h *KeyHandler) ExistsHandler(c *gin.Context) {
	userIdentifier := c.Query("userIdentifier")
	if userIdentifier == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	exists, err := h.apiKeyUseCase.Exists(c.Request.Context(), userIdentifier)
	if err != nil {
		h.logger.Error("credential existence check failed", "error", err)
		c.Status(http.StatusServiceUnavailable)
		return
	}

	if !exists {
		c.Status(http.StatusNotFound)
		return
	}

	c.Status(http.StatusNoContent)
}

// DeleteHandler removes the credential for a visitor identifier.
// DELETE /v1/keys?userIdentifier=... - 404 when no credential was stored.
func (h *KeyHandler) DeleteHandler(c *gin.Context) {
	userIdentifier := c.Query("userIdentifier")
	if userIdentifier == "" {
		httputil.HandleBadRequestGin(c, apperrors.New("missing userIdentifier parameter"), h.logger)
		return
	}

	deleted, err := h.apiKeyUseCase.Delete(c.Request.Context(), userIdentifier)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	if !deleted {
		httputil.HandleErrorGin(c, apperrors.ErrNotFound, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.StoreAPIKeyResponse{Success: true})
}
