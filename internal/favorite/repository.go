package favorite

import (
	"sync"

	"github.com/kritsada65/storefront-backend/internal/apperr"
)

var (
	ErrNotFound        = apperr.NotFound("user not found")
	ErrAlreadyFavorite = apperr.Duplicate("product already in favorites")
	ErrNotFavorite     = apperr.NotFound("product not in favorites")
)

// Repository stores each user's favorite product ids.
type Repository interface {
	List(userID int) ([]int, error)
	Add(userID, productID int) ([]int, error)
	Remove(userID, productID int) ([]int, error)
}

// InMemoryRepository backs tests and local runs without Postgres.
type InMemoryRepository struct {
	mu        sync.RWMutex
	favorites map[int][]int
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{favorites: make(map[int][]int)}
}

func (r *InMemoryRepository) List(userID int) ([]int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]int, len(r.favorites[userID]))
	copy(out, r.favorites[userID])
	return out, nil
}

func (r *InMemoryRepository) Add(userID, productID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, id := range r.favorites[userID] {
		if id == productID {
			return nil, ErrAlreadyFavorite
		}
	}
	r.favorites[userID] = append(r.favorites[userID], productID)

	out := make([]int, len(r.favorites[userID]))
	copy(out, r.favorites[userID])
	return out, nil
}

func (r *InMemoryRepository) Remove(userID, productID int) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current := r.favorites[userID]
	for i, id := range current {
		if id == productID {
			r.favorites[userID] = append(current[:i:i], current[i+1:]...)
			out := make([]int, len(r.favorites[userID]))
			copy(out, r.favorites[userID])
			return out, nil
		}
	}
	return nil, ErrNotFavorite
}
