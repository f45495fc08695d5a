package catalog

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/DivyaP1063/shophub/models"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

type fakeStore struct {
	products map[string]models.Product
	gets     int
}

func (f *fakeStore) List(_ context.Context, limit, offset int) ([]models.Product, int, error) {
	ids := make([]string, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	out := []models.Product{}
	for i := offset; i < len(ids) && i < offset+limit; i++ {
		out = append(out, f.products[ids[i]])
	}
	return out, len(ids), nil
}

func (f *fakeStore) Get(_ context.Context, id string) (*models.Product, error) {
	f.gets++
	p, ok := f.products[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	return &p, nil
}

func (f *fakeStore) GetMany(_ context.Context, ids []string) (map[string]models.Product, error) {
	out := map[string]models.Product{}
	for _, id := range ids {
		if p, ok := f.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeStore) Create(_ context.Context, p *models.Product) error {
	f.products[p.ID] = *p
	return nil
}

func (f *fakeStore) Update(_ context.Context, p *models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return models.ErrNotFound
	}
	f.products[p.ID] = *p
	return nil
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	if _, ok := f.products[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.products, id)
	return nil
}

type fakeUsers map[string]models.UserSummary

func (f fakeUsers) Summaries(_ context.Context, ids []string) (map[string]models.UserSummary, error) {
	out := map[string]models.UserSummary{}
	for _, id := range ids {
		if u, ok := f[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

type memCache struct {
	entries     map[string]models.Product
	invalidated []string
}

func (m *memCache) Get(_ context.Context, id string) (*models.Product, bool) {
	p, ok := m.entries[id]
	return &p, ok
}

func (m *memCache) Set(_ context.Context, p *models.Product) { m.entries[p.ID] = *p }

func (m *memCache) Invalidate(_ context.Context, ids ...string) {
	for _, id := range ids {
		delete(m.entries, id)
	}
	m.invalidated = append(m.invalidated, ids...)
}

var (
	seller = &models.User{ID: "seller-1", Name: "Kabir", Email: "kabir@example.com", Role: models.RoleSeller}
	rival  = &models.User{ID: "seller-2", Role: models.RoleSeller}
)

func setupCatalogTest(t *testing.T) (*Service, *fakeStore, *memCache) {
	store := &fakeStore{products: map[string]models.Product{
		"p1": {ID: "p1", SellerID: seller.ID, Title: "Linen Dress", Price: decimal.NewFromInt(40), Images: []string{"a.jpg"}, Category: models.CategoryDresses, Stock: 3},
	}}
	users := fakeUsers{seller.ID: seller.Summary()}
	cache := &memCache{entries: map[string]models.Product{}}
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	return NewService(store, users, cache, logger), store, cache
}

func validInput() models.ProductInput {
	return models.ProductInput{
		Title:    "Pleated Skirt",
		Price:    decimal.RequireFromString("29.99"),
		Images:   []string{"https://img/skirt.jpg"},
		Category: models.CategorySkirts,
		Sizes:    []models.Size{models.SizeS, models.SizeM},
		Stock:    5,
	}
}

func TestService_Get_ReadsThroughCache(t *testing.T) {
	svc, store, cache := setupCatalogTest(t)

	for i := 0; i < 2; i++ {
		p, err := svc.Get(context.Background(), "p1")
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if p.Seller.Name != "Kabir" {
			t.Errorf("Expected seller expanded, got %+v", p.Seller)
		}
	}

	if store.gets != 1 {
		t.Errorf("Expected 1 store read, got %d", store.gets)
	}
	if _, ok := cache.entries["p1"]; !ok {
		t.Error("Expected product to be cached")
	}

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}
}

func TestService_List_ClampsPaging(t *testing.T) {
	svc, _, _ := setupCatalogTest(t)

	page, err := svc.List(context.Background(), 0, 1000)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if page.Page != 1 || page.Limit != MaxLimit || page.Total != 1 || len(page.Products) != 1 {
		t.Errorf("Unexpected page: %+v", page)
	}
}

func TestService_Create(t *testing.T) {
	svc, store, _ := setupCatalogTest(t)

	p, err := svc.Create(context.Background(), seller, validInput())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if p.SellerID != seller.ID || p.ID == "" {
		t.Errorf("Unexpected product: %+v", p)
	}
	if _, ok := store.products[p.ID]; !ok {
		t.Error("Expected product stored")
	}
}

func TestService_UpdateAndDelete_Ownership(t *testing.T) {
	svc, store, cache := setupCatalogTest(t)
	ctx := context.Background()

	if _, err := svc.Update(ctx, rival, "p1", validInput()); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}
	if err := svc.Delete(ctx, rival, "p1"); !errors.Is(err, ErrNotOwner) {
		t.Errorf("Expected ErrNotOwner, got %v", err)
	}
	if _, err := svc.Update(ctx, seller, "nope", validInput()); !errors.Is(err, ErrProductNotFound) {
		t.Errorf("Expected ErrProductNotFound, got %v", err)
	}

	updated, err := svc.Update(ctx, seller, "p1", validInput())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if updated.Title != "Pleated Skirt" || store.products["p1"].Stock != 5 {
		t.Errorf("Expected update persisted, got %+v", store.products["p1"])
	}

	if err := svc.Delete(ctx, seller, "p1"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if _, ok := store.products["p1"]; ok {
		t.Error("Expected product deleted")
	}
	if len(cache.invalidated) != 2 {
		t.Errorf("Expected 2 invalidations, got %v", cache.invalidated)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*models.ProductInput)
	}{
		{"empty title", func(in *models.ProductInput) { in.Title = "" }},
		{"negative price", func(in *models.ProductInput) { in.Price = decimal.NewFromInt(-1) }},
		{"no images", func(in *models.ProductInput) { in.Images = nil }},
		{"bad category", func(in *models.ProductInput) { in.Category = "Hats" }},
		{"bad size", func(in *models.ProductInput) { in.Sizes = []models.Size{"XXXL"} }},
		{"negative stock", func(in *models.ProductInput) { in.Stock = -2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)
			if err := Validate(in); !errors.Is(err, ErrInvalidProduct) {
				t.Errorf("Expected ErrInvalidProduct, got %v", err)
			}
		})
	}

	if err := Validate(validInput()); err != nil {
		t.Errorf("Expected valid input, got %v", err)
	}

	zero := validInput()
	zero.Price = decimal.Zero
	if err := Validate(zero); err != nil {
		t.Errorf("Expected zero price to be valid, got %v", err)
	}
}

func TestService_Details(t *testing.T) {
	svc, _, _ := setupCatalogTest(t)

	details, err := svc.Details(context.Background(), []string{"p1", "gone"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(details) != 1 || details["p1"].Seller.Email != "kabir@example.com" {
		t.Errorf("Unexpected details: %+v", details)
	}
}
