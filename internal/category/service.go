package category

import (
	"errors"
	"strings"

	"github.com/kritsada65/storefront-backend/internal/apperr"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]Category, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (Category, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Create(name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, apperr.Validation("category name is required", "name")
	}

	if _, err := s.repo.GetByName(name); err == nil {
		return Category{}, ErrNameExists
	} else if !errors.Is(err, ErrNotFound) {
		return Category{}, err
	}

	return s.repo.Create(Category{Name: name})
}

func (s *Service) Update(id int, name string) (Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Category{}, apperr.Validation("category name is required", "name")
	}

	if existing, err := s.repo.GetByName(name); err == nil && existing.ID != id {
		return Category{}, ErrNameExists
	} else if err != nil && !errors.Is(err, ErrNotFound) {
		return Category{}, err
	}

	return s.repo.Update(id, Category{Name: name})
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}
