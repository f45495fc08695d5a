package cart

import (
	"context"
	"errors"

	"github.com/DivyaP1063/shophub/models"

	"go.uber.org/zap"
)

var ErrWishlistNotFound = errors.New("wishlist not found")

type WishlistStore interface {
	GetByUser(ctx context.Context, userID string) (*models.Wishlist, error)
	Save(ctx context.Context, w *models.Wishlist) error
}

type WishlistService struct {
	wishlists WishlistStore
	products  ProductSource
	logger    *zap.Logger
}

func NewWishlistService(wishlists WishlistStore, products ProductSource, logger *zap.Logger) *WishlistService {
	return &WishlistService{wishlists: wishlists, products: products, logger: logger}
}

func (s *WishlistService) Get(ctx context.Context, userID string) (*models.WishlistDetail, error) {
	w, err := s.wishlists.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return &models.WishlistDetail{Products: []models.ProductDetail{}}, nil
		}
		return nil, err
	}
	return s.expand(ctx, w)
}

// Add appends productID unless it is already present.
func (s *WishlistService) Add(ctx context.Context, userID, productID string) (*models.WishlistDetail, error) {
	if _, err := s.products.Product(ctx, productID); err != nil {
		return nil, err
	}

	w, err := s.wishlists.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			return nil, err
		}
		w = &models.Wishlist{UserID: userID, ProductIDs: []string{}}
	}

	if indexOf(w.ProductIDs, productID) < 0 {
		w.ProductIDs = append(w.ProductIDs, productID)
		if err := s.wishlists.Save(ctx, w); err != nil {
			return nil, err
		}
	}
	return s.expand(ctx, w)
}

func (s *WishlistService) Remove(ctx context.Context, userID, productID string) error {
	w, err := s.wishlists.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrWishlistNotFound
		}
		return err
	}

	i := indexOf(w.ProductIDs, productID)
	if i < 0 {
		return nil
	}
	w.ProductIDs = append(w.ProductIDs[:i], w.ProductIDs[i+1:]...)
	return s.wishlists.Save(ctx, w)
}

func (s *WishlistService) expand(ctx context.Context, w *models.Wishlist) (*models.WishlistDetail, error) {
	details, err := s.products.Details(ctx, w.ProductIDs)
	if err != nil {
		return nil, err
	}

	out := &models.WishlistDetail{ID: w.ID, UserID: w.UserID, Products: []models.ProductDetail{}}
	for _, id := range w.ProductIDs {
		if d, ok := details[id]; ok {
			out.Products = append(out.Products, d)
		}
	}
	return out, nil
}

func indexOf(ids []string, id string) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}
