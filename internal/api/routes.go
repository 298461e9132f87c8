// Package api exposes the orchestration command surface over HTTP and
// guards the WebSocket event stream.
package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/secularbird/assidenter/domain"
	"github.com/secularbird/assidenter/internal/auth"
	"github.com/secularbird/assidenter/internal/models"
	"github.com/secularbird/assidenter/internal/websocket"
	"github.com/secularbird/assidenter/usecase"
)

// Handler binds the registry and boundary collaborators to routes.
type Handler struct {
	registry     *usecase.Registry
	hub          *websocket.Hub
	auth         *auth.Auth
	models       *models.Manager
	clientSecret string
	logger       *zap.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	registry *usecase.Registry,
	hub *websocket.Hub,
	authService *auth.Auth,
	modelManager *models.Manager,
	clientSecret string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		registry:     registry,
		hub:          hub,
		auth:         authService,
		models:       modelManager,
		clientSecret: clientSecret,
		logger:       logger,
	}
}

// InitRoutes registers all routes on the echo instance.
func (h *Handler) InitRoutes(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "ok",
			"service": "assidenter",
		})
	})

	v1 := e.Group("/api/v1")
	v1.POST("/auth", h.authenticate)
	v1.POST("/listening/start", h.startListening)
	v1.POST("/listening/stop", h.stopListening)
	v1.GET("/listening", h.isListening)
	v1.POST("/audio", h.processAudio)
	v1.POST("/messages", h.sendMessage)
	v1.PUT("/services", h.configureServices)
	v1.DELETE("/conversation", h.clearConversation)
	v1.GET("/status", h.serviceStatus)
	v1.GET("/models", h.modelInfo)

	e.GET("/ws", h.eventStream)
}

func (h *Handler) authenticate(c echo.Context) error {
	var req AuthRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	if h.clientSecret != "" && req.Secret != h.clientSecret {
		h.logger.Warn("Client authentication failed")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "authentication_failed",
			Message: "Invalid client secret",
		})
	}

	clientID := req.ClientID
	if clientID == "" {
		clientID = uuid.NewString()
	}

	token, err := h.auth.GenerateClientToken(clientID)
	if err != nil {
		h.logger.Error("Failed to generate client token", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error:   "token_generation_failed",
			Message: "Failed to generate authentication token",
		})
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Token:     token,
		ExpiresAt: time.Now().Add(24 * time.Hour),
		ClientID:  clientID,
	})
}

func (h *Handler) startListening(c echo.Context) error {
	if err := h.registry.StartListening(); err != nil {
		return h.errorJSON(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) stopListening(c echo.Context) error {
	h.registry.StopListening()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) isListening(c echo.Context) error {
	return c.JSON(http.StatusOK, ListeningResponse{Listening: h.registry.IsListening()})
}

func (h *Handler) processAudio(c echo.Context) error {
	var req ProcessAudioRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	result, err := h.registry.ProcessAudio(c.Request().Context(), req.Audio)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) sendMessage(c echo.Context) error {
	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	result, err := h.registry.SendTextMessage(c.Request().Context(), req.Message)
	if err != nil {
		return h.errorJSON(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func (h *Handler) configureServices(c echo.Context) error {
	var req ConfigureServicesRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request format",
		})
	}

	h.registry.ConfigureServices(req.ASRURL, req.LLMURL, req.TTSURL)
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) clearConversation(c echo.Context) error {
	h.registry.ClearConversation()
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) serviceStatus(c echo.Context) error {
	return c.JSON(http.StatusOK, h.registry.Status())
}

func (h *Handler) modelInfo(c echo.Context) error {
	return c.JSON(http.StatusOK, h.models.Info())
}

// eventStream validates the bearer token and hands the connection to
// the hub.
func (h *Handler) eventStream(c echo.Context) error {
	var token string
	authHeader := c.Request().Header.Get("Authorization")
	if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
		token = authHeader[7:]
	}
	if token == "" {
		// Browsers cannot set headers on WebSocket dials.
		token = c.QueryParam("token")
	}

	if token == "" {
		h.logger.Warn("WebSocket connection rejected: missing token")
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "missing_token",
			Message: "JWT token is required",
		})
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		h.logger.Warn("WebSocket connection rejected: invalid token", zap.Error(err))
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "invalid_token",
			Message: "Invalid or expired JWT token",
		})
	}

	return websocket.HandleWebSocket(h.hub, c, claims.ClientID, h.logger)
}

// errorJSON maps the domain error taxonomy onto HTTP statuses.
func (h *Handler) errorJSON(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, domain.ErrState):
		status = http.StatusConflict
		code = "invalid_state"
	case errors.Is(err, domain.ErrDecode):
		status = http.StatusBadRequest
		code = "decode_error"
	case errors.Is(err, domain.ErrTransport):
		status = http.StatusBadGateway
		code = "transport_error"
	case errors.Is(err, domain.ErrService):
		status = http.StatusBadGateway
		code = "service_error"
	}

	h.logger.Error("Command failed", zap.String("code", code), zap.Error(err))
	return c.JSON(status, ErrorResponse{Error: code, Message: err.Error()})
}
