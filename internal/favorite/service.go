package favorite

import (
	"github.com/kritsada65/storefront-backend/internal/product"
)

// Service resolves favorite ids into product records via the catalog.
type Service struct {
	repo     Repository
	products product.ServiceInterface
}

func NewService(repo Repository, products product.ServiceInterface) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) List(userID int) ([]product.Product, error) {
	ids, err := s.repo.List(userID)
	if err != nil {
		return nil, err
	}
	return s.products.ListByIDs(ids)
}

func (s *Service) Add(userID, productID int) ([]product.Product, error) {
	// reject favorites pointing at products that do not exist
	if _, err := s.products.GetByID(productID); err != nil {
		return nil, err
	}

	ids, err := s.repo.Add(userID, productID)
	if err != nil {
		return nil, err
	}
	return s.products.ListByIDs(ids)
}

func (s *Service) Remove(userID, productID int) ([]product.Product, error) {
	ids, err := s.repo.Remove(userID, productID)
	if err != nil {
		return nil, err
	}
	return s.products.ListByIDs(ids)
}
