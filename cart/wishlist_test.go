package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/DivyaP1063/shophub/models"

	"go.uber.org/zap"
)

type fakeWishlists map[string]*models.Wishlist

func (f fakeWishlists) GetByUser(_ context.Context, userID string) (*models.Wishlist, error) {
	w, ok := f[userID]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *w
	cp.ProductIDs = append([]string(nil), w.ProductIDs...)
	return &cp, nil
}

func (f fakeWishlists) Save(_ context.Context, w *models.Wishlist) error {
	cp := *w
	cp.ProductIDs = append([]string(nil), w.ProductIDs...)
	f[w.UserID] = &cp
	return nil
}

func TestWishlistService(t *testing.T) {
	products := fakeProducts{
		"dress": {ID: "dress", Title: "Wrap Dress"},
		"shoe":  {ID: "shoe", Title: "Loafer"},
	}
	store := fakeWishlists{}
	svc := NewWishlistService(store, products, zap.NewNop())
	ctx := context.Background()

	w, err := svc.Get(ctx, "buyer")
	if err != nil || len(w.Products) != 0 {
		t.Fatalf("Expected empty wishlist, got %+v, %v", w, err)
	}

	if err := svc.Remove(ctx, "buyer", "dress"); !errors.Is(err, ErrWishlistNotFound) {
		t.Errorf("Expected ErrWishlistNotFound, got %v", err)
	}
	if _, err := svc.Add(ctx, "buyer", "ghost"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	svc.Add(ctx, "buyer", "dress")
	svc.Add(ctx, "buyer", "shoe")
	w, err = svc.Add(ctx, "buyer", "dress")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(w.Products) != 2 || w.Products[0].Title != "Wrap Dress" {
		t.Errorf("Expected no duplicates and insertion order, got %+v", w.Products)
	}

	if err := svc.Remove(ctx, "buyer", "dress"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if ids := store["buyer"].ProductIDs; len(ids) != 1 || ids[0] != "shoe" {
		t.Errorf("Unexpected wishlist after remove: %v", ids)
	}
}
