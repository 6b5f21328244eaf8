package order

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
	app.Post("/api/v1/orders", h.createOrder)
	app.Get("/api/v1/orders/mine", h.listMyOrders)
	app.Get("/api/v1/orders/summary", h.orderSummary)
	app.Get("/api/v1/orders", h.listAllOrders)
	app.Get("/api/v1/orders/:id<[0-9]+>", h.getOrder)
	app.Put("/api/v1/orders/:id<[0-9]+>/pay", h.payOrder)
	app.Put("/api/v1/orders/:id<[0-9]+>/deliver", h.deliverOrder)
}

type createOrderRequest struct {
	OrderItems      []Item  `json:"orderItems"`
	ShippingAddress Address `json:"shippingAddress"`
	PaymentMethod   string  `json:"paymentMethod"`
	ItemsPrice      float64 `json:"itemsPrice"`
	ShippingPrice   float64 `json:"shippingPrice"`
	TaxPrice        float64 `json:"taxPrice"`
	TotalPrice      float64 `json:"totalPrice"`
}

func (h *Handler) createOrder(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	payload := new(createOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Place(ident.UserID, PlaceInput{
		Items:           payload.OrderItems,
		ShippingAddress: payload.ShippingAddress,
		PaymentMethod:   payload.PaymentMethod,
		ItemsPrice:      payload.ItemsPrice,
		ShippingPrice:   payload.ShippingPrice,
		TaxPrice:        payload.TaxPrice,
		TotalPrice:      payload.TotalPrice,
	})
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listMyOrders(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListForUser(ident.UserID)
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) listAllOrders(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	orders, err := h.service.ListAll(Actor(ident))
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) orderSummary(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	summary, err := h.service.Summary(Actor(ident))
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(summary)
}

func (h *Handler) getOrder(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, _ := strconv.Atoi(c.Params("id"))
	o, err := h.service.Get(id, Actor(ident))
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(o)
}

type payOrderRequest struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

func (h *Handler) payOrder(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, _ := strconv.Atoi(c.Params("id"))
	payload := new(payOrderRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.ID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "payment receipt id is required"})
	}

	updated, err := h.service.CapturePayment(c.Context(), id, Actor(ident), Receipt{
		ID:           payload.ID,
		Status:       payload.Status,
		UpdateTime:   payload.UpdateTime,
		EmailAddress: payload.EmailAddress,
	})
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}

func (h *Handler) deliverOrder(c *fiber.Ctx) error {
	ident, err := user.IdentityFromCtx(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
	}

	id, _ := strconv.Atoi(c.Params("id"))
	updated, err := h.service.MarkDelivered(id, Actor(ident))
	if err != nil {
		return c.Status(apperr.Status(err)).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(updated)
}
