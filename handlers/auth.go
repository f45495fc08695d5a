package handlers

import (
	"context"
	"net/http"

	"github.com/DivyaP1063/shophub/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

type AccountService interface {
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
}

type AuthHandler struct {
	accounts AccountService
	logger   *zap.Logger
}

func NewAuthHandler(accounts AccountService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
		logger:   logger,
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "Register")
	defer span.End()

	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.accounts.Register(ctx, req)
	if err != nil {
		respondError(c, h.logger, "Failed to register user", err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "Login")
	defer span.End()

	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := h.accounts.Login(ctx, req)
	if err != nil {
		respondError(c, h.logger, "Failed to log in", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
