package product

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/kritsada65/storefront-backend/internal/apperr"
	"github.com/kritsada65/storefront-backend/internal/user"
)

// Handler also needs the user service to resolve reviewer display names.
type Handler struct {
	service *Service
	users   user.ServiceInterface
}

func NewHandler(s *Service, users user.ServiceInterface) *Handler {
	return &Handler{service: s, users: users}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Get("/api/v1/products", h.listProducts)
	app.Get("/api/v1/products/top", h.topProducts)
	app.Get("/api/v1/products/new", h.newProducts)
	app.Get("/api/v1/products/:id<[0-9]+>", h.getProduct)
}

func (h *Handler) RegisterProtectedRoutes(app *fiber.App) {
	app.Post("/api/v1/products", h.createProduct)
	app.Put("/api/v1/products/:id<[0-9]+>", h.updateProduct)
	app.Delete("/api/v1/products/:id<[0-9]+>", h.deleteProduct)
	app.Post("/api/v1/products/:id<[0-9]+>/reviews", h.createReview)
}

func (h *Handler) listProducts(c *fiber.Ctx) error {
	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}

	filter := Filter{Keyword: c.Query("keyword")}
	for _, raw := range strings.Split(c.Query("category"), ",") {
		if id, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			filter.CategoryIDs = append(filter.CategoryIDs, id)
		}
	}
	if v, err := strconv.ParseFloat(c.Query("minPrice"), 64); err == nil {
		filter.PriceMin = &v
	}
	if v, err := strconv.ParseFloat(c.Query("maxPrice"), 64); err == nil {
		filter.PriceMax = &v
	}

	result, err := h.service.List(filter, page)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(result)
}

func (h *Handler) newProducts(c *fiber.Ctx) error {
	limit := 5
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	products, err := h.service.NewArrivals(limit)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) topProducts(c *fiber.Ctx) error {
	limit := 4
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	products, err := h.service.TopRated(limit)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, _ := strconv.Atoi(c.Params("id"))
	p, err := h.service.GetByID(id)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(p)
}

type productRequest struct {
	Name         string  `json:"name"`
	Brand        string  `json:"brand"`
	CategoryID   *int    `json:"categoryId"`
	Description  string  `json:"description"`
	Image        string  `json:"image"`
	Price        float64 `json:"price"`
	CountInStock int     `json:"countInStock"`
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	if err := user.RequireAdmin(c); err != nil {
		return err
	}

	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Create(Product{
		Name:         payload.Name,
		Brand:        payload.Brand,
		CategoryID:   payload.CategoryID,
		Description:  payload.Description,
		Image:        payload.Image,
		Price:        payload.Price,
		CountInStock: payload.CountInStock,
	})
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	if err := user.RequireAdmin(c); err != nil {
		return err
	}

	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(productRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	updated, err := h.service.Update(id, Product{
		Name:         payload.Name,
		Brand:        payload.Brand,
		CategoryID:   payload.CategoryID,
		Description:  payload.Description,
		Image:        payload.Image,
		Price:        payload.Price,
		CountInStock: payload.CountInStock,
	})
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	if err := user.RequireAdmin(c); err != nil {
		return err
	}

	id, _ := strconv.Atoi(c.Params("id"))
	if err := h.service.Delete(id); err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(fiber.Map{"message": "product removed"})
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}

func (h *Handler) createReview(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(reviewRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	name := "customer"
	if u, err := h.users.GetByID(ident.UserID); err == nil && u.Name != "" {
		name = u.Name
	}

	if _, err := h.service.SubmitReview(id, ident.UserID, name, payload.Rating, payload.Comment); err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "review added"})
}
