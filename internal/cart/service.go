// Package cart manages a user's cart lines and their live snapshot stream.
package cart

import (
	"context"
	"fmt"

	"github.com/jcmexdev/storefront/internal/core/domain"
	"github.com/jcmexdev/storefront/internal/core/ports"
	"github.com/jcmexdev/storefront/internal/pkg/watch"
	"github.com/jcmexdev/storefront/internal/pricing"
)

type Service struct {
	carts    ports.CartRepository
	products ports.ProductRepository
	ledger   ports.StockLedger
	hub      *watch.Hub[[]domain.CartLine]
}

func NewService(carts ports.CartRepository, products ports.ProductRepository, ledger ports.StockLedger) *Service {
	return &Service{
		carts:    carts,
		products: products,
		ledger:   ledger,
		hub:      watch.NewHub[[]domain.CartLine](),
	}
}

// Add puts one unit of the product in the user's cart, creating the line with
// snapshot values on first add. The increment is bounded by a stock read; the
// authoritative check happens again at checkout.
func (s *Service) Add(ctx context.Context, userID, productID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	p, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.InStock {
		return fmt.Errorf("%w: product %q is not available", domain.ErrValidation, p.Name)
	}

	lines, err := s.carts.List(ctx, userID)
	if err != nil {
		return err
	}
	have := 0
	for _, l := range lines {
		if l.ID == productID {
			have = l.Quantity
		}
	}
	if have+1 > p.Amount {
		return &domain.InsufficientStockError{
			ProductID:   p.ID,
			ProductName: p.Name,
			Available:   p.Amount,
			Requested:   have + 1,
		}
	}

	image := ""
	if len(p.Images) > 0 {
		image = p.Images[0]
	}
	line := domain.CartLine{
		ID:        p.ID, // line id mirrors the product id within a cart
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		ImageURL:  image,
		Quantity:  1,
	}
	if err := s.carts.Add(ctx, userID, line); err != nil {
		return err
	}

	s.publish(ctx, userID)
	return nil
}

// SetQuantity writes an absolute quantity; zero or less removes the line.
// Increases are bounded by a ledger read.
func (s *Service) SetQuantity(ctx context.Context, userID, lineID string, qty int) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}

	if qty > 0 {
		available, err := s.ledger.Available(ctx, lineID)
		if err != nil {
			return err
		}
		if qty > available {
			p, perr := s.products.GetByID(ctx, lineID)
			name := lineID
			if perr == nil {
				name = p.Name
			}
			return &domain.InsufficientStockError{
				ProductID:   lineID,
				ProductName: name,
				Available:   available,
				Requested:   qty,
			}
		}
	}

	if err := s.carts.SetQuantity(ctx, userID, lineID, qty); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

func (s *Service) Remove(ctx context.Context, userID, lineID string) error {
	if userID == "" {
		return domain.ErrNotAuthenticated
	}
	if err := s.carts.Remove(ctx, userID, lineID); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

func (s *Service) Items(ctx context.Context, userID string) ([]domain.CartLine, error) {
	if userID == "" {
		return nil, domain.ErrNotAuthenticated
	}
	return s.carts.List(ctx, userID)
}

// Quote prices the current cart without touching it.
func (s *Service) Quote(ctx context.Context, userID string) (pricing.Quote, error) {
	lines, err := s.Items(ctx, userID)
	if err != nil {
		return pricing.Quote{}, err
	}
	return pricing.Compute(lines), nil
}

// Watch streams cart snapshots until the context ends or the returned func
// is called. The current state is delivered first.
func (s *Service) Watch(ctx context.Context, userID string) (<-chan []domain.CartLine, func(), error) {
	if userID == "" {
		return nil, nil, domain.ErrNotAuthenticated
	}
	ch, cancel := s.hub.Subscribe(ctx, userID)
	s.publish(ctx, userID)
	return ch, cancel, nil
}

// NotifyCleared lets the checkout flow push the emptied snapshot to watchers
// after its transaction commits.
func (s *Service) NotifyCleared(userID string) {
	s.hub.Publish(userID, nil)
}

func (s *Service) publish(ctx context.Context, userID string) {
	lines, err := s.carts.List(ctx, userID)
	if err != nil {
		return
	}
	s.hub.Publish(userID, lines)
}
