package catalog

import (
	"context"
	"fmt"

	"storefront/internal/domain"
)

type productLister interface {
	List(ctx context.Context) ([]domain.Product, error)
}

// Service is the read-only list of purchasable items, loaded once.
type Service struct {
	products []domain.Product
	byID     map[string]int
}

// Load reads the catalog from the product store.
func Load(ctx context.Context, repo productLister) (*Service, error) {
	products, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return New(products), nil
}

func New(products []domain.Product) *Service {
	s := &Service{
		products: make([]domain.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}
	for _, p := range products {
		if _, dup := s.byID[p.ID]; dup {
			continue
		}
		s.byID[p.ID] = len(s.products)
		s.products = append(s.products, p.CartLine())
	}
	return s
}

// List returns a copy of the catalog in display order.
func (s *Service) List() []domain.Product {
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out
}

// Get returns the catalog entry with the given id.
func (s *Service) Get(id string) (domain.Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

func (s *Service) Len() int {
	return len(s.products)
}
