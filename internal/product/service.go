package product

import (
	"strings"
	"time"

	"github.com/kritsada65/storefront-backend/internal/apperr"
)

const defaultPageSize = 12

// ServiceInterface is what collaborating packages (orders, favorites) depend
// on when they need catalog reads.
type ServiceInterface interface {
	GetByID(id int) (Product, error)
	ListByIDs(ids []int) ([]Product, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(f Filter, page int) (Page, error) {
	if f.PriceMin != nil && f.PriceMax != nil && *f.PriceMin > *f.PriceMax {
		return Page{}, apperr.Validation("price range is inverted", "minPrice", "maxPrice")
	}
	if page < 1 {
		page = 1
	}
	products, total, err := s.repo.List(f, defaultPageSize, (page-1)*defaultPageSize)
	if err != nil {
		return Page{}, err
	}

	pages := (total + defaultPageSize - 1) / defaultPageSize
	if pages == 0 {
		pages = 1
	}
	return Page{Products: products, Page: page, Pages: pages, Total: total}, nil
}

func (s *Service) ListByIDs(ids []int) ([]Product, error) {
	return s.repo.ListByIDs(ids)
}

func (s *Service) TopRated(limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 4
	}
	return s.repo.TopRated(limit)
}

// NewArrivals lists the most recently added products for the storefront
// carousel.
func (s *Service) NewArrivals(limit int) ([]Product, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.repo.Newest(limit)
}

func (s *Service) GetByID(id int) (Product, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.Create(p)
}

func (s *Service) Update(id int, p Product) (Product, error) {
	if err := validateProduct(p); err != nil {
		return Product{}, err
	}
	return s.repo.Update(id, p)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

// SubmitReview appends one review per user and recomputes the product's
// aggregate rating. The repository serializes the read-modify-write.
func (s *Service) SubmitReview(productID int, reviewerID int, reviewerName string, rating int, comment string) (Product, error) {
	if rating < 1 || rating > 5 {
		return Product{}, apperr.Validation("rating must be between 1 and 5", "rating")
	}
	if _, err := s.repo.GetByID(productID); err != nil {
		return Product{}, err
	}

	return s.repo.AddReview(productID, Review{
		UserID:    reviewerID,
		Name:      reviewerName,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: time.Now().UTC(),
	})
}

// validateProduct reports every violated field at once.
func validateProduct(p Product) error {
	fields := make([]string, 0, 3)
	if strings.TrimSpace(p.Name) == "" {
		fields = append(fields, "name")
	}
	if p.Price < 0 {
		fields = append(fields, "price")
	}
	if p.CountInStock < 0 {
		fields = append(fields, "countInStock")
	}
	if len(fields) > 0 {
		return apperr.Validation("invalid product", fields...)
	}
	return nil
}
