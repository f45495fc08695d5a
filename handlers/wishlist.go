package handlers

import (
	"context"
	"net/http"

	"github.com/DivyaP1063/shophub/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type WishlistService interface {
	Get(ctx context.Context, userID string) (*models.WishlistDetail, error)
	Add(ctx context.Context, userID, productID string) (*models.WishlistDetail, error)
	Remove(ctx context.Context, userID, productID string) error
}

type WishlistHandler struct {
	wishlists WishlistService
	logger    *zap.Logger
}

func NewWishlistHandler(wishlists WishlistService, logger *zap.Logger) *WishlistHandler {
	return &WishlistHandler{
		wishlists: wishlists,
		logger:    logger,
	}
}

func (h *WishlistHandler) GetWishlist(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "GetWishlist")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	wishlist, err := h.wishlists.Get(ctx, user.ID)
	if err != nil {
		respondError(c, h.logger, "Failed to fetch wishlist", err)
		return
	}

	c.JSON(http.StatusOK, wishlist)
}

func (h *WishlistHandler) AddProduct(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "AddWishlistProduct")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.WishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	span.SetAttributes(attribute.String("product.id", req.ProductID))

	wishlist, err := h.wishlists.Add(ctx, user.ID, req.ProductID)
	if err != nil {
		respondError(c, h.logger, "Failed to add product to wishlist", err)
		return
	}

	c.JSON(http.StatusOK, wishlist)
}

func (h *WishlistHandler) RemoveProduct(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "RemoveWishlistProduct")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	productID := c.Param("productId")
	span.SetAttributes(attribute.String("product.id", productID))

	if err := h.wishlists.Remove(ctx, user.ID, productID); err != nil {
		respondError(c, h.logger, "Failed to remove product from wishlist", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product removed from wishlist"})
}
