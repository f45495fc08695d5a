package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/DivyaP1063/shophub/models"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type CatalogService interface {
	List(ctx context.Context, page, limit int) (*models.ProductPage, error)
	Get(ctx context.Context, id string) (*models.ProductDetail, error)
	Create(ctx context.Context, seller *models.User, in models.ProductInput) (*models.Product, error)
	Update(ctx context.Context, seller *models.User, id string, in models.ProductInput) (*models.Product, error)
	Delete(ctx context.Context, seller *models.User, id string) error
}

type ProductHandler struct {
	catalog CatalogService
	logger  *zap.Logger
}

func NewProductHandler(catalog CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: catalog,
		logger:  logger,
	}
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "GetProducts")
	defer span.End()

	// Invalid values fall back to the defaults.
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))

	result, err := h.catalog.List(ctx, page, limit)
	if err != nil {
		respondError(c, h.logger, "Failed to fetch products", err)
		return
	}

	span.SetAttributes(attribute.Int("products.count", len(result.Products)))
	c.JSON(http.StatusOK, result)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "GetProduct")
	defer span.End()

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	product, err := h.catalog.Get(ctx, id)
	if err != nil {
		respondError(c, h.logger, "Failed to fetch product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "CreateProduct")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalog.Create(ctx, user, req)
	if err != nil {
		respondError(c, h.logger, "Failed to create product", err)
		return
	}

	span.SetAttributes(attribute.String("product.id", product.ID))
	c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "UpdateProduct")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.catalog.Update(ctx, user, id, req)
	if err != nil {
		respondError(c, h.logger, "Failed to update product", err)
		return
	}

	c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	ctx, span := otel.Tracer("shophub").Start(c.Request.Context(), "DeleteProduct")
	defer span.End()

	user, ok := currentUser(c)
	if !ok {
		return
	}

	id := c.Param("id")
	span.SetAttributes(attribute.String("product.id", id))

	if err := h.catalog.Delete(ctx, user, id); err != nil {
		respondError(c, h.logger, "Failed to delete product", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}
