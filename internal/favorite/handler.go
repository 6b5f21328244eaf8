package favorite

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/kritsada65/storefront-backend/internal/apperr"
	"github.com/kritsada65/storefront-backend/internal/user"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Get("/api/v1/favorites", h.listFavorites)
	app.Post("/api/v1/favorites/:productId<[0-9]+>", h.addFavorite)
	app.Delete("/api/v1/favorites/:productId<[0-9]+>", h.removeFavorite)
}

func (h *Handler) listFavorites(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	products, err := h.service.List(ident.UserID)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) addFavorite(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	productID, _ := strconv.Atoi(c.Params("productId"))
	products, err := h.service.Add(ident.UserID, productID)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(products)
}

func (h *Handler) removeFavorite(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	productID, _ := strconv.Atoi(c.Params("productId"))
	products, err := h.service.Remove(ident.UserID, productID)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}
