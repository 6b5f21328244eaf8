package user

import (
	"errors"
	"strings"
	"time"

	"github.com/kritsada65/storefront-backend/internal/apperr"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = apperr.Authorization("invalid email or password")

// ServiceInterface lets collaborating handlers depend on the user service
// without importing the concrete type.
type ServiceInterface interface {
	List() ([]User, error)
	GetByID(id int) (User, error)
	Update(id int, u User) (User, error)
	Delete(id int) error
	Register(u User) (User, error)
	Authenticate(email, password string) (User, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List() ([]User, error) {
	return s.repo.List()
}

func (s *Service) GetByID(id int) (User, error) {
	return s.repo.GetByID(id)
}

func (s *Service) Update(id int, u User) (User, error) {
	if u.Password != "" && !looksLikeBcrypt(u.Password) {
		hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
		if err != nil {
			return User{}, err
		}
		u.Password = string(hashed)
	}
	return s.repo.Update(id, u)
}

func (s *Service) Delete(id int) error {
	return s.repo.Delete(id)
}

func (s *Service) Register(u User) (User, error) {
	u.Email = strings.TrimSpace(strings.ToLower(u.Email))

	fields := make([]string, 0, 3)
	if u.Email == "" {
		fields = append(fields, "email")
	}
	if u.Password == "" {
		fields = append(fields, "password")
	}
	if strings.TrimSpace(u.Name) == "" {
		fields = append(fields, "name")
	}
	if len(fields) > 0 {
		return User{}, apperr.Validation("missing required fields", fields...)
	}

	if _, err := s.repo.GetByEmail(u.Email); err == nil {
		return User{}, ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(u.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}
	u.Password = string(hashed)

	now := time.Now().UTC()
	u.CreatedAt = now
	u.UpdatedAt = now
	return s.repo.Create(u)
}

func (s *Service) Authenticate(email, password string) (User, error) {
	u, err := s.repo.GetByEmail(strings.TrimSpace(strings.ToLower(email)))
	if err != nil {
		return User{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return User{}, ErrInvalidCredentials
	}
	return u, nil
}

func looksLikeBcrypt(value string) bool {
	return len(value) > 4 && value[0:2] == "$2"
}
