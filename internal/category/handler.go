package category

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

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/categories", h.listCategories)
	app.Get("/api/v1/categories/:id<[0-9]+>", h.getCategory)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/categories", h.createCategory)
	app.Put("/api/v1/categories/:id<[0-9]+>", h.updateCategory)
	app.Delete("/api/v1/categories/:id<[0-9]+>", h.deleteCategory)
}

func (h *Handler) listCategories(c *fiber.Ctx) error {
	categories, err := h.service.List()
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(categories)
}

func (h *Handler) getCategory(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	cat, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(cat)
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *Handler) createCategory(c *fiber.Ctx) error {
	if err := user.RequireAdmin(c); err != nil {
		return err
	}

	payload := new(categoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(payload.Name)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateCategory(c *fiber.Ctx) error {
	if err := user.RequireAdmin(c); err != nil {
		return err
	}

	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(categoryRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(id, payload.Name)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deleteCategory(c *fiber.Ctx) error {
	if err := user.RequireAdmin(c); err != nil {
		return err
	}

	id, _ := strconv.Atoi(c.Params("id"))
	if err := h.service.Delete(id); err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "category removed"})
}
