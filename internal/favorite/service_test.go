package favorite

import (
	"testing"

	"github.com/kritsada65/storefront-backend/internal/apperr"
	"github.com/kritsada65/storefront-backend/internal/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(seed ...product.Product) *Service {
	catalog := product.NewService(product.NewInMemoryRepository(seed))
	return NewService(NewInMemoryRepository(), catalog)
}

func TestAddResolvesProducts(t *testing.T) {
	svc := newTestService(
		product.Product{ID: 1, Name: "collar"},
		product.Product{ID: 2, Name: "leash"},
	)

	favorites, err := svc.Add(7, 2)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "leash", favorites[0].Name)
}

func TestAddRejectsUnknownProduct(t *testing.T) {
	svc := newTestService()

	_, err := svc.Add(7, 42)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
}

func TestAddRejectsDuplicate(t *testing.T) {
	svc := newTestService(product.Product{ID: 1, Name: "collar"})

	_, err := svc.Add(7, 1)
	require.NoError(t, err)

	_, err = svc.Add(7, 1)
	assert.ErrorIs(t, err, ErrAlreadyFavorite)
}

func TestRemove(t *testing.T) {
	svc := newTestService(
		product.Product{ID: 1, Name: "collar"},
		product.Product{ID: 2, Name: "leash"},
	)

	_, err := svc.Add(7, 1)
	require.NoError(t, err)
	_, err = svc.Add(7, 2)
	require.NoError(t, err)

	favorites, err := svc.Remove(7, 1)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, 2, favorites[0].ID)

	_, err = svc.Remove(7, 1)
	assert.ErrorIs(t, err, ErrNotFavorite)
}

func TestListIsScopedPerUser(t *testing.T) {
	svc := newTestService(product.Product{ID: 1, Name: "collar"})

	_, err := svc.Add(7, 1)
	require.NoError(t, err)

	mine, err := svc.List(7)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	theirs, err := svc.List(8)
	require.NoError(t, err)
	assert.Empty(t, theirs)
}
