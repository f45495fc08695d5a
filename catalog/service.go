package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/DivyaP1063/shophub/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNotOwner        = errors.New("not authorized to modify this product")
	ErrInvalidProduct  = errors.New("invalid product")
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

type ProductStore interface {
	List(ctx context.Context, limit, offset int) ([]models.Product, int, error)
	Get(ctx context.Context, id string) (*models.Product, error)
	GetMany(ctx context.Context, ids []string) (map[string]models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Update(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) error
}

type UserDirectory interface {
	Summaries(ctx context.Context, ids []string) (map[string]models.UserSummary, error)
}

type Cache interface {
	Get(ctx context.Context, id string) (*models.Product, bool)
	Set(ctx context.Context, p *models.Product)
	Invalidate(ctx context.Context, ids ...string)
}

type Service struct {
	products ProductStore
	users    UserDirectory
	cache    Cache
	logger   *zap.Logger
}

func NewService(products ProductStore, users UserDirectory, cache Cache, logger *zap.Logger) *Service {
	return &Service{products: products, users: users, cache: cache, logger: logger}
}

func (s *Service) List(ctx context.Context, page, limit int) (*models.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	products, total, err := s.products.List(ctx, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}
	return &models.ProductPage{Products: products, Page: page, Limit: limit, Total: total}, nil
}

// Product returns a single product, reading through the cache.
func (s *Service) Product(ctx context.Context, id string) (*models.Product, error) {
	if p, ok := s.cache.Get(ctx, id); ok {
		return p, nil
	}

	p, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.cache.Set(ctx, p)
	return p, nil
}

// Get returns a product with its seller expanded.
func (s *Service) Get(ctx context.Context, id string) (*models.ProductDetail, error) {
	p, err := s.Product(ctx, id)
	if err != nil {
		return nil, err
	}

	sellers, err := s.users.Summaries(ctx, []string{p.SellerID})
	if err != nil {
		return nil, err
	}
	return &models.ProductDetail{Product: *p, Seller: sellerOf(*p, sellers)}, nil
}

// Details fetches the products among ids that still exist, each with its
// seller expanded. Missing products are absent from the result.
func (s *Service) Details(ctx context.Context, ids []string) (map[string]models.ProductDetail, error) {
	products, err := s.products.GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	sellerIDs := make([]string, 0, len(products))
	for _, p := range products {
		sellerIDs = append(sellerIDs, p.SellerID)
	}
	sellers, err := s.users.Summaries(ctx, sellerIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]models.ProductDetail, len(products))
	for id, p := range products {
		out[id] = models.ProductDetail{Product: p, Seller: sellerOf(p, sellers)}
	}
	return out, nil
}

func sellerOf(p models.Product, sellers map[string]models.UserSummary) models.UserSummary {
	if s, ok := sellers[p.SellerID]; ok {
		return s
	}
	return models.UserSummary{ID: p.SellerID}
}

func (s *Service) Create(ctx context.Context, seller *models.User, in models.ProductInput) (*models.Product, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	p := &models.Product{ID: uuid.NewString(), SellerID: seller.ID}
	apply(p, in)
	if err := s.products.Create(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("Product created", zap.String("product_id", p.ID), zap.String("seller_id", seller.ID))
	return p, nil
}

func (s *Service) Update(ctx context.Context, seller *models.User, id string, in models.ProductInput) (*models.Product, error) {
	if err := Validate(in); err != nil {
		return nil, err
	}

	p, err := s.owned(ctx, seller, id)
	if err != nil {
		return nil, err
	}

	apply(p, in)
	if err := s.products.Update(ctx, p); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("Product updated", zap.String("product_id", id))
	return p, nil
}

func (s *Service) Delete(ctx context.Context, seller *models.User, id string) error {
	if _, err := s.owned(ctx, seller, id); err != nil {
		return err
	}

	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return ErrProductNotFound
		}
		return err
	}

	s.cache.Invalidate(ctx, id)
	s.logger.Info("Product deleted", zap.String("product_id", id))
	return nil
}

// owned loads id from the store, bypassing the cache, and checks that
// seller owns it.
func (s *Service) owned(ctx context.Context, seller *models.User, id string) (*models.Product, error) {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if p.SellerID != seller.ID {
		return nil, ErrNotOwner
	}
	return p, nil
}

func apply(p *models.Product, in models.ProductInput) {
	p.Title = in.Title
	p.Description = in.Description
	p.Price = in.Price
	p.Images = in.Images
	p.Category = in.Category
	p.Sizes = in.Sizes
	if p.Sizes == nil {
		p.Sizes = []models.Size{}
	}
	p.Stock = in.Stock
}

// Validate checks the invariants a stored product must satisfy.
func Validate(in models.ProductInput) error {
	switch {
	case in.Title == "":
		return fmt.Errorf("%w: title is required", ErrInvalidProduct)
	case in.Price.IsNegative():
		return fmt.Errorf("%w: price must not be negative", ErrInvalidProduct)
	case len(in.Images) == 0:
		return fmt.Errorf("%w: at least one image is required", ErrInvalidProduct)
	case !in.Category.Valid():
		return fmt.Errorf("%w: unknown category %q", ErrInvalidProduct, in.Category)
	case in.Stock < 0:
		return fmt.Errorf("%w: stock must not be negative", ErrInvalidProduct)
	}
	for _, size := range in.Sizes {
		if !size.Valid() {
			return fmt.Errorf("%w: unknown size %q", ErrInvalidProduct, size)
		}
	}
	return nil
}
