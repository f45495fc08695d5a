package orders

import (
	"context"
	"fmt"

	"github.com/DivyaP1063/shophub/models"

	"golang.org/x/sync/errgroup"
)

func (s *Service) expandOne(ctx context.Context, o *models.Order) (*models.OrderDetail, error) {
	out, err := s.expand(ctx, []models.Order{*o})
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// expand resolves the buyer and product references of orders. Products and
// buyers are fetched concurrently; references that no longer resolve are
// left nil.
func (s *Service) expand(ctx context.Context, orders []models.Order) ([]models.OrderDetail, error) {
	out := make([]models.OrderDetail, len(orders))
	if len(orders) == 0 {
		return out, nil
	}

	var productIDs, userIDs []string
	for _, o := range orders {
		userIDs = append(userIDs, o.UserID)
		for _, it := range o.Items {
			productIDs = append(productIDs, it.ProductID)
		}
	}

	var (
		products map[string]models.ProductDetail
		users    map[string]models.UserSummary
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.Details.Details(gctx, productIDs)
		if err != nil {
			return fmt.Errorf("failed to expand products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		users, err = s.Users.Summaries(gctx, userIDs)
		if err != nil {
			return fmt.Errorf("failed to expand buyers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, o := range orders {
		d := models.OrderDetail{
			ID:                o.ID,
			Items:             make([]models.OrderItemDetail, len(o.Items)),
			TotalAmount:       o.TotalAmount,
			Status:            o.Status,
			RazorpayOrderID:   o.RazorpayOrderID,
			RazorpayPaymentID: o.RazorpayPaymentID,
			CreatedAt:         o.CreatedAt,
			UpdatedAt:         o.UpdatedAt,
		}
		if u, ok := users[o.UserID]; ok {
			d.User = &u
		}
		for j, it := range o.Items {
			d.Items[j] = models.OrderItemDetail{Quantity: it.Quantity, Price: it.Price}
			if p, ok := products[it.ProductID]; ok {
				d.Items[j].Product = &p
			}
		}
		out[i] = d
	}
	return out, nil
}
