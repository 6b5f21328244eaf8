package cart

import (
	"github.com/gofiber/fiber/v2"
)

// Handler exposes the stateless quote endpoint: the client submits its cart
// and gets the authoritative price breakdown back.
type Handler struct {
	policy Policy
}

func NewHandler(policy Policy) *Handler {
	return &Handler{policy: policy}
}

func (h *Handler) RegisterPublicRoutes(app *fiber.App) {
	app.Post("/api/v1/cart/quote", h.quote)
}

type quoteRequest struct {
	Items []Item `json:"items"`
}

func (h *Handler) quote(c *fiber.Ctx) error {
	payload := new(quoteRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	for _, it := range payload.Items {
		if it.Qty < 1 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item quantity must be at least 1"})
		}
		if it.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "item price must be non-negative"})
		}
	}

	return c.JSON(h.policy.Quote(Cart{Items: payload.Items}))
}
