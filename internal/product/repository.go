package product

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/kritsada65/storefront-backend/internal/apperr"
)

var (
	ErrNotFound        = apperr.NotFound("product not found")
	ErrAlreadyReviewed = apperr.Duplicate("product already reviewed")
)

// Filter narrows a catalog listing. Zero values mean "no constraint": an
// empty keyword matches everything, an empty category set matches every
// category, and nil price bounds leave that side open.
type Filter struct {
	Keyword     string
	CategoryIDs []int
	PriceMin    *float64
	PriceMax    *float64
}

func (f Filter) matches(p Product) bool {
	if f.Keyword != "" && !containsFold(p.Name, f.Keyword) {
		return false
	}
	if len(f.CategoryIDs) > 0 {
		if p.CategoryID == nil {
			return false
		}
		found := false
		for _, id := range f.CategoryIDs {
			if *p.CategoryID == id {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.PriceMin != nil && p.Price < *f.PriceMin {
		return false
	}
	if f.PriceMax != nil && p.Price > *f.PriceMax {
		return false
	}
	return true
}

type Repository interface {
	// List returns one page of the catalog narrowed by the filter, along with
	// the total match count.
	List(f Filter, limit, offset int) ([]Product, int, error)
	ListByIDs(ids []int) ([]Product, error)
	TopRated(limit int) ([]Product, error)
	// Newest returns the most recently added products, newest first.
	Newest(limit int) ([]Product, error)
	GetByID(id int) (Product, error)
	Create(p Product) (Product, error)
	Update(id int, p Product) (Product, error)
	Delete(id int) error
	// AddReview appends a review and recomputes the rating aggregates as one
	// isolated read-modify-write. A second review from the same user fails
	// with ErrAlreadyReviewed and leaves the product unchanged.
	AddReview(productID int, rev Review) (Product, error)
}

// InMemoryRepository backs tests and local runs without Postgres. The mutex
// gives AddReview the same serialization the Postgres row lock provides.
type InMemoryRepository struct {
	mu      sync.RWMutex
	storage []Product
	nextID  int
}

func NewInMemoryRepository(seed []Product) *InMemoryRepository {
	r := &InMemoryRepository{storage: make([]Product, 0, len(seed)), nextID: 1}

	maxID := 0
	for _, p := range seed {
		r.storage = append(r.storage, p)
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	r.nextID = maxID + 1
	return r
}

func (r *InMemoryRepository) List(f Filter, limit, offset int) ([]Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]Product, 0, len(r.storage))
	for _, p := range r.storage {
		if f.matches(p) {
			matched = append(matched, p)
		}
	}

	total := len(matched)
	if offset >= total {
		return []Product{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	out := make([]Product, end-offset)
	copy(out, matched[offset:end])
	return out, total, nil
}

func (r *InMemoryRepository) ListByIDs(ids []int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, 0, len(ids))
	for _, id := range ids {
		for _, p := range r.storage {
			if p.ID == id {
				out = append(out, p)
				break
			}
		}
	}
	return out, nil
}

func (r *InMemoryRepository) TopRated(limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) Newest(limit int) ([]Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Product, len(r.storage))
	copy(out, r.storage)
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (r *InMemoryRepository) GetByID(id int) (Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.storage {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Create(p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if p.ID == 0 {
		p.ID = r.nextID
		r.nextID++
	}
	r.storage = append(r.storage, p)
	return p, nil
}

func (r *InMemoryRepository) Update(id int, p Product) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.storage {
		if r.storage[i].ID == id {
			p.ID = id
			p.Reviews = r.storage[i].Reviews
			p.Rating = r.storage[i].Rating
			p.NumReviews = r.storage[i].NumReviews
			p.UpdatedAt = time.Now().UTC()
			r.storage[i] = p
			return p, nil
		}
	}
	return Product{}, ErrNotFound
}

func (r *InMemoryRepository) Delete(id int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.storage {
		if r.storage[i].ID == id {
			r.storage = append(r.storage[:i], r.storage[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (r *InMemoryRepository) AddReview(productID int, rev Review) (Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.storage {
		if r.storage[i].ID != productID {
			continue
		}
		for _, existing := range r.storage[i].Reviews {
			if existing.UserID == rev.UserID {
				return Product{}, ErrAlreadyReviewed
			}
		}
		r.storage[i].Reviews = append(r.storage[i].Reviews, rev)
		recomputeAggregates(&r.storage[i])
		r.storage[i].UpdatedAt = time.Now().UTC()
		return r.storage[i], nil
	}
	return Product{}, ErrNotFound
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
