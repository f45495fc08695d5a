package handlers

import (
	"errors"
	"net/http"

	"github.com/DivyaP1063/shophub/auth"
	"github.com/DivyaP1063/shophub/cart"
	"github.com/DivyaP1063/shophub/catalog"
	"github.com/DivyaP1063/shophub/middleware"
	"github.com/DivyaP1063/shophub/models"
	"github.com/DivyaP1063/shophub/orders"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// An empty message means the error's own text is shown to the client.
var errorResponses = []struct {
	target  error
	status  int
	message string
}{
	{auth.ErrEmailTaken, http.StatusConflict, "User already exists"},
	{auth.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid credentials"},
	{orders.ErrEmptyCart, http.StatusBadRequest, "Cart is empty"},
	{orders.ErrInsufficientStock, http.StatusBadRequest, ""},
	{orders.ErrInvalidSignature, http.StatusBadRequest, "Invalid signature"},
	{orders.ErrOrderNotFound, http.StatusNotFound, "Order not found"},
	{orders.ErrForbidden, http.StatusForbidden, "Not authorized to update this order"},
	{catalog.ErrProductNotFound, http.StatusNotFound, "Product not found"},
	{catalog.ErrNotOwner, http.StatusForbidden, "Not authorized to modify this product"},
	{catalog.ErrInvalidProduct, http.StatusBadRequest, ""},
	{cart.ErrInsufficientStock, http.StatusBadRequest, "Insufficient stock"},
	{cart.ErrCartNotFound, http.StatusNotFound, "Cart not found"},
	{cart.ErrItemNotFound, http.StatusNotFound, "Item not found in cart"},
	{cart.ErrWishlistNotFound, http.StatusNotFound, "Wishlist not found"},
}

// respondError writes the client-facing response for err. Unrecognised
// errors are logged and answered with a generic 500.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	for _, r := range errorResponses {
		if errors.Is(err, r.target) {
			text := r.message
			if text == "" {
				text = err.Error()
			}
			c.JSON(r.status, gin.H{"error": text})
			return
		}
	}

	ctx := c.Request.Context()
	trace.SpanFromContext(ctx).RecordError(err)
	logger.Error(msg,
		zap.String("trace_id", middleware.GetTraceID(ctx)),
		zap.Error(err),
	)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

func currentUser(c *gin.Context) (*models.User, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "No token, authorization denied"})
	}
	return user, ok
}
