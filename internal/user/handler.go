package user

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/kritsada65/storefront-backend/internal/apperr"
)

type Handler struct {
	service   ServiceInterface
	jwtSecret []byte
}

func NewHandler(service ServiceInterface, jwtSecret []byte) *Handler {
	return &Handler{service: service, jwtSecret: jwtSecret}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/users/login", h.login)
	app.Post("/api/v1/users", h.register)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/users/profile", h.getProfile)
	app.Put("/api/v1/users/profile", h.updateProfile)

	// admin user management
	app.Get("/api/v1/users", h.listUsers)
	app.Get("/api/v1/users/:id<[0-9]+>", h.getUser)
	app.Put("/api/v1/users/:id<[0-9]+>", h.updateUser)
	app.Delete("/api/v1/users/:id<[0-9]+>", h.deleteUser)
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *Handler) login(c *fiber.Ctx) error {
	payload := new(credentialsRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	u, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "invalid email or password"})
	}

	signed, err := h.signToken(u)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{"user": sanitize(u), "token": signed})
}

func (h *Handler) register(c *fiber.Ctx) error {
	payload := new(credentialsRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Register(User{
		Email:    payload.Email,
		Password: payload.Password,
		Name:     payload.Name,
	})
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}

	signed, err := h.signToken(created)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": sanitize(created), "token": signed})
}

func (h *Handler) signToken(u User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  u.ID,
		"email":    u.Email,
		"is_admin": u.IsAdmin,
		"exp":      time.Now().Add(72 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.jwtSecret)
}

func (h *Handler) getProfile(c *fiber.Ctx) error {
	ident, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	u, err := h.service.GetByID(ident.UserID)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sanitize(u))
}

type profileUpdateRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

func (h *Handler) updateProfile(c *fiber.Ctx) error {
	ident, err := IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(profileUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	current, err := h.service.GetByID(ident.UserID)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Email != "" {
		current.Email = payload.Email
	}
	if payload.Name != "" {
		current.Name = payload.Name
	}
	current.Password = payload.Password

	updated, err := h.service.Update(ident.UserID, current)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sanitize(updated))
}

func (h *Handler) listUsers(c *fiber.Ctx) error {
	if err := RequireAdmin(c); err != nil {
		return err
	}

	users, err := h.service.List()
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	out := make([]User, 0, len(users))
	for _, u := range users {
		out = append(out, sanitize(u))
	}
	return c.JSON(out)
}

func (h *Handler) getUser(c *fiber.Ctx) error {
	if err := RequireAdmin(c); err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}
	u, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sanitize(u))
}

type adminUserUpdateRequest struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"isAdmin"`
}

func (h *Handler) updateUser(c *fiber.Ctx) error {
	if err := RequireAdmin(c); err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}

	payload := new(adminUserUpdateRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	current, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Email != "" {
		current.Email = payload.Email
	}
	if payload.Name != "" {
		current.Name = payload.Name
	}
	current.IsAdmin = payload.IsAdmin
	current.Password = ""

	updated, err := h.service.Update(id, current)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(sanitize(updated))
}

func (h *Handler) deleteUser(c *fiber.Ctx) error {
	if err := RequireAdmin(c); err != nil {
		return err
	}

	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "invalid user id"})
	}
	if err := h.service.Delete(id); err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "user removed"})
}
