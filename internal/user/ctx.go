package user

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// Identity is the verified (userID, isAdmin) pair the JWT middleware attaches
// to every authenticated request. Handlers trust it completely.
type Identity struct {
	UserID  int
	IsAdmin bool
}

// IdentityFromCtx extracts the identity from the parsed JWT stored in the
// request locals by the jwtware middleware.
func IdentityFromCtx(c *fiber.Ctx) (Identity, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return Identity{}, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Identity{}, fiber.ErrUnauthorized
	}

	id, err := intClaim(claims, "user_id")
	if err != nil {
		return Identity{}, fiber.ErrUnauthorized
	}

	isAdmin, _ := claims["is_admin"].(bool)
	return Identity{UserID: id, IsAdmin: isAdmin}, nil
}

// RequireAdmin returns a fiber error (rendered by the framework's error
// handler) when the caller is not an authenticated admin.
func RequireAdmin(c *fiber.Ctx) error {
	ident, err := IdentityFromCtx(c)
	if err != nil {
		return fiber.ErrUnauthorized
	}
	if !ident.IsAdmin {
		return fiber.NewError(fiber.StatusForbidden, "admin access required")
	}
	return nil
}

func intClaim(claims jwt.MapClaims, key string) (int, error) {
	switch v := claims[key].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	default:
		return 0, fiber.ErrUnauthorized
	}
}
