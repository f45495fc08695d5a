package cart

import (
	"context"
	"errors"

	"github.com/DivyaP1063/shophub/catalog"
	"github.com/DivyaP1063/shophub/models"

	"go.uber.org/zap"
)

var (
	ErrProductNotFound   = catalog.ErrProductNotFound
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrCartNotFound      = errors.New("cart not found")
	ErrItemNotFound      = errors.New("item not found in cart")
)

// ProductSource resolves product references.
type ProductSource interface {
	Product(ctx context.Context, id string) (*models.Product, error)
	Details(ctx context.Context, ids []string) (map[string]models.ProductDetail, error)
}

type Store interface {
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	Save(ctx context.Context, c *models.Cart) error
	Clear(ctx context.Context, userID string) (bool, error)
}

type Service struct {
	carts    Store
	products ProductSource
	logger   *zap.Logger
}

func NewService(carts Store, products ProductSource, logger *zap.Logger) *Service {
	return &Service{carts: carts, products: products, logger: logger}
}

// Get returns the user's cart, or an empty one if none exists yet.
func (s *Service) Get(ctx context.Context, userID string) (*models.CartDetail, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.CartDetail{Items: []models.CartItemDetail{}}, nil
		}
		return nil, err
	}
	return s.expand(ctx, c)
}

// AddItem adds quantity of productID, creating the cart on first use and
// merging with an existing line for the same product.
func (s *Service) AddItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error) {
	p, err := s.products.Product(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p.Stock < quantity {
		return nil, ErrInsufficientStock
	}

	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		c = &models.Cart{UserID: userID, Items: []models.CartItem{}}
	}

	if i := c.Find(productID); i >= 0 {
		c.Items[i].Quantity += quantity
	} else {
		c.Items = append(c.Items, models.CartItem{ProductID: productID, Quantity: quantity})
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.expand(ctx, c)
}

// SetItem overwrites the quantity of an existing line. A quantity of zero
// or less removes the line.
func (s *Service) SetItem(ctx context.Context, userID, productID string, quantity int) (*models.CartDetail, error) {
	c, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}

	i := c.Find(productID)
	if i < 0 {
		return nil, ErrItemNotFound
	}
	if quantity <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	} else {
		c.Items[i].Quantity = quantity
	}

	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}
	return s.expand(ctx, c)
}

// RemoveItem drops productID from the cart. Removing an absent product is
// not an error.
func (s *Service) RemoveItem(ctx context.Context, userID, productID string) error {
	c, err := s.load(ctx, userID)
	if err != nil {
		return err
	}

	i := c.Find(productID)
	if i < 0 {
		return nil
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return s.carts.Save(ctx, c)
}

func (s *Service) Clear(ctx context.Context, userID string) error {
	_, err := s.carts.Clear(ctx, userID)
	return err
}

func (s *Service) load(ctx context.Context, userID string) (*models.Cart, error) {
	c, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) expand(ctx context.Context, c *models.Cart) (*models.CartDetail, error) {
	ids := make([]string, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}

	details, err := s.products.Details(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := &models.CartDetail{
		ID:        c.ID,
		UserID:    c.UserID,
		Items:     make([]models.CartItemDetail, len(c.Items)),
		UpdatedAt: &c.UpdatedAt,
	}
	for i, it := range c.Items {
		out.Items[i] = models.CartItemDetail{Quantity: it.Quantity}
		if d, ok := details[it.ProductID]; ok {
			out.Items[i].Product = &d
		}
	}
	return out, nil
}
