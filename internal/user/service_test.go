package user

import (
	"testing"

	"github.com/kritsada65/storefront-backend/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestService(seed ...User) (*Service, *InMemoryRepository) {
	repo := NewInMemoryRepository(seed)
	return NewService(repo), repo
}

func TestRegisterHashesPassword(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Register(User{Email: "Alice@Example.com", Password: "s3cret", Name: "Alice"})
	require.NoError(t, err)

	assert.Equal(t, "alice@example.com", created.Email, "email is normalized to lowercase")

	stored, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("s3cret")))
}

func TestRegisterReportsAllMissingFields(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(User{})
	require.Equal(t, apperr.KindValidation, apperr.KindOf(err))

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.ElementsMatch(t, []string{"email", "password", "name"}, appErr.Fields)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(User{Email: "alice@example.com", Password: "s3cret", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.Register(User{Email: "ALICE@example.com", Password: "other", Name: "Imposter"})
	assert.Equal(t, apperr.KindDuplicate, apperr.KindOf(err))
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Register(User{Email: "alice@example.com", Password: "s3cret", Name: "Alice"})
	require.NoError(t, err)

	u, err := svc.Authenticate("alice@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)

	_, err = svc.Authenticate("alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate("nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrInvalidCredentials,
		"unknown email and bad password must be indistinguishable")
}

func TestUpdateRehashesChangedPassword(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Register(User{Email: "alice@example.com", Password: "s3cret", Name: "Alice"})
	require.NoError(t, err)

	_, err = svc.Update(created.ID, User{Email: created.Email, Name: "Alice", Password: "newpass"})
	require.NoError(t, err)

	stored, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("newpass")))
}

func TestUpdateKeepsPasswordWhenBlank(t *testing.T) {
	svc, repo := newTestService()

	created, err := svc.Register(User{Email: "alice@example.com", Password: "s3cret", Name: "Alice"})
	require.NoError(t, err)
	before, _ := repo.GetByID(created.ID)

	_, err = svc.Update(created.ID, User{Email: created.Email, Name: "Alice B"})
	require.NoError(t, err)

	after, err := repo.GetByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, before.Password, after.Password)
	assert.Equal(t, "Alice B", after.Name)
}
