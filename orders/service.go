package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DivyaP1063/shophub/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const PaymentVerifiedMessage = "Payment verified and order updated"

type CartStore interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	Clear(ctx context.Context, userID string) (bool, error)
}

// ProductStore reads and writes live product rows, bypassing any cache.
type ProductStore interface {
	Get(ctx context.Context, id string) (*models.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]models.Product, error)
	SetStock(ctx context.Context, id string, stock int) error
	IDsBySeller(ctx context.Context, sellerID string) ([]string, error)
}

type OrderStore interface {
	Create(ctx context.Context, o *models.Order) error
	Get(ctx context.Context, id string) (*models.Order, error)
	GetByRazorpayOrderID(ctx context.Context, razorpayOrderID string) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListContainingProducts(ctx context.Context, productIDs []string) ([]models.Order, error)
	Update(ctx context.Context, o *models.Order) error
}

type PaymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*models.PaymentIntent, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

type EventPublisher interface {
	Publish(ctx context.Context, event models.OrderEvent) error
}

type ProductDetails interface {
	Details(ctx context.Context, ids []string) (map[string]models.ProductDetail, error)
}

type UserDirectory interface {
	Summaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
}

type CacheInvalidator interface {
	Invalidate(ctx context.Context, ids ...string)
}

type Deps struct {
	Carts    CartStore
	Products ProductStore
	Orders   OrderStore
	Gateway  PaymentGateway
	Events   EventPublisher
	Details  ProductDetails
	Users    UserDirectory
	Cache    CacheInvalidator
}

// Service runs the order lifecycle: cart to pending order, payment
// verification to paid order, and seller status changes.
//
// Stock is checked when the order is created and decremented only once the
// payment is verified. The two steps are separate read-then-write sequences
// with no lock, so concurrent checkouts can oversell and concurrent commits
// on one product can lose updates. Verification is not idempotent.
type Service struct {
	Deps
	currency string
	now      func() time.Time
	logger   *zap.Logger
}

func NewService(deps Deps, currency string, logger *zap.Logger) *Service {
	return &Service{Deps: deps, currency: currency, now: time.Now, logger: logger}
}

// Create turns the buyer's cart into a pending order backed by a gateway
// payment order. The cart and stock are left untouched.
func (s *Service) Create(ctx context.Context, buyer *models.User) (*models.CreatedOrder, error) {
	ctx, span := otel.Tracer("orders").Start(ctx, "orders.Create")
	defer span.End()

	cart, err := s.Carts.GetByUser(ctx, buyer.ID)
	if err != nil && !errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}
	if cart == nil || len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	ids := make([]string, len(cart.Items))
	for i, it := range cart.Items {
		ids[i] = it.ProductID
	}
	products, err := s.Products.GetMany(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load cart products: %w", err)
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	total := decimal.Zero
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok {
			return nil, &InsufficientStockError{ProductID: it.ProductID, Requested: it.Quantity}
		}
		if p.Stock < it.Quantity {
			return nil, &InsufficientStockError{ProductID: p.ID, Title: p.Title, Requested: it.Quantity, Available: p.Stock}
		}
		line := models.OrderItem{ProductID: p.ID, Quantity: it.Quantity, Price: p.Price}
		total = total.Add(line.LineTotal())
		items = append(items, line)
	}

	receipt := fmt.Sprintf("order_rcptid_%d", s.now().UnixMilli())
	intent, err := s.Gateway.CreateOrder(ctx, MinorUnits(total), s.currency, receipt)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	order := &models.Order{
		ID:              uuid.NewString(),
		UserID:          buyer.ID,
		Items:           items,
		TotalAmount:     total,
		Status:          models.OrderStatusPending,
		RazorpayOrderID: intent.ID,
	}
	if err := s.Orders.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.String("razorpay.order_id", intent.ID),
		attribute.Int64("payment.amount", intent.Amount),
	)
	s.logger.Info("Order created",
		zap.String("order_id", order.ID),
		zap.String("user_id", buyer.ID),
		zap.String("razorpay_order_id", intent.ID),
		zap.String("total_amount", total.StringFixed(2)),
	)
	s.publish(ctx, models.EventOrderCreated, order)

	detail, err := s.expandOne(ctx, order)
	if err != nil {
		return nil, err
	}
	return &models.CreatedOrder{
		Order: *detail,
		RazorpayOrder: models.PaymentIntent{
			ID:       intent.ID,
			Amount:   intent.Amount,
			Currency: intent.Currency,
		},
	}, nil
}

// VerifyPayment checks the gateway signature and, when it matches, commits
// stock, marks the order paid and empties the buyer's cart. A failure part
// way through is not rolled back.
func (s *Service) VerifyPayment(ctx context.Context, req models.VerifyPaymentRequest) (*models.VerifiedPayment, error) {
	ctx, span := otel.Tracer("orders").Start(ctx, "orders.VerifyPayment")
	defer span.End()

	span.SetAttributes(attribute.String("razorpay.order_id", req.RazorpayOrderID))

	if !s.Gateway.VerifyPaymentSignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
		return nil, ErrInvalidSignature
	}

	order, err := s.Orders.GetByRazorpayOrderID(ctx, req.RazorpayOrderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	if err := s.commitStock(ctx, order); err != nil {
		span.RecordError(err)
		return nil, err
	}

	order.Status = models.OrderStatusPaid
	order.RazorpayPaymentID = req.RazorpayPaymentID
	if err := s.Orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	if _, err := s.Carts.Clear(ctx, order.UserID); err != nil {
		return nil, fmt.Errorf("failed to clear cart: %w", err)
	}

	s.logger.Info("Payment verified",
		zap.String("order_id", order.ID),
		zap.String("razorpay_payment_id", req.RazorpayPaymentID),
	)
	s.publish(ctx, models.EventOrderPaid, order)

	detail, err := s.expandOne(ctx, order)
	if err != nil {
		return nil, err
	}
	return &models.VerifiedPayment{Message: PaymentVerifiedMessage, Order: *detail}, nil
}

// commitStock decrements each line's product by its quantity without
// re-checking availability. Products deleted since checkout are skipped.
func (s *Service) commitStock(ctx context.Context, order *models.Order) error {
	touched := make([]string, 0, len(order.Items))
	defer func() { s.Cache.Invalidate(ctx, touched...) }()

	for _, it := range order.Items {
		p, err := s.Products.Get(ctx, it.ProductID)
		if err != nil {
			if errors.Is(err, models.ErrNotFound) {
				s.logger.Warn("Skipping stock commit for deleted product",
					zap.String("order_id", order.ID),
					zap.String("product_id", it.ProductID),
				)
				continue
			}
			return fmt.Errorf("failed to load product %s: %w", it.ProductID, err)
		}

		if err := s.Products.SetStock(ctx, p.ID, p.Stock-it.Quantity); err != nil {
			return fmt.Errorf("failed to update stock for %s: %w", p.ID, err)
		}
		touched = append(touched, p.ID)
	}
	return nil
}

// UpdateStatus lets a seller overwrite the status of an order holding at
// least one of their products. Any string is accepted.
func (s *Service) UpdateStatus(ctx context.Context, seller *models.User, orderID string, status models.OrderStatus) (*models.OrderDetail, error) {
	ctx, span := otel.Tracer("orders").Start(ctx, "orders.UpdateStatus")
	defer span.End()

	order, err := s.Orders.Get(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to load order: %w", err)
	}

	owned, err := s.Products.IDsBySeller(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller products: %w", err)
	}
	if !containsAny(order.Items, owned) {
		return nil, ErrForbidden
	}

	order.Status = status
	if err := s.Orders.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}

	s.logger.Info("Order status updated",
		zap.String("order_id", order.ID),
		zap.String("seller_id", seller.ID),
		zap.String("status", string(status)),
	)
	s.publish(ctx, models.EventOrderStatusUpdated, order)

	return s.expandOne(ctx, order)
}

func (s *Service) ListForBuyer(ctx context.Context, buyer *models.User) ([]models.OrderDetail, error) {
	orders, err := s.Orders.ListByUser(ctx, buyer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.expand(ctx, orders)
}

// ListForSeller returns every order that contains at least one of the
// seller's products, newest first.
func (s *Service) ListForSeller(ctx context.Context, seller *models.User) ([]models.OrderDetail, error) {
	owned, err := s.Products.IDsBySeller(ctx, seller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load seller products: %w", err)
	}

	orders, err := s.Orders.ListContainingProducts(ctx, owned)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return s.expand(ctx, orders)
}

func (s *Service) publish(ctx context.Context, eventType string, o *models.Order) {
	event := models.OrderEvent{
		EventID:         uuid.NewString(),
		EventType:       eventType,
		OrderID:         o.ID,
		UserID:          o.UserID,
		Status:          o.Status,
		TotalAmount:     o.TotalAmount,
		RazorpayOrderID: o.RazorpayOrderID,
		OccurredAt:      s.now().UTC(),
	}
	if err := s.Events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish order event",
			zap.String("event_type", eventType),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}
}

// MinorUnits converts an amount to the currency's minor unit (paise).
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Shift(2).Round(0).IntPart()
}

func containsAny(items []models.OrderItem, productIDs []string) bool {
	set := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		set[id] = struct{}{}
	}
	for _, it := range items {
		if _, ok := set[it.ProductID]; ok {
			return true
		}
	}
	return false
}
