package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/golang-jwt/jwt/v5"
)

// RequireAccount validates the Bearer access token and checks that its
// subject matches the :id route parameter, so a token only grants access to
// its own account's preferences.
func RequireAccount(signKey []byte) fiber.Handler {
	return func(c fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing Authorization header",
			})
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid Authorization header format, expected 'Bearer <token>'",
			})
		}

		raw := strings.TrimPrefix(authHeader, "Bearer ")
		tok, err := jwt.ParseWithClaims(raw, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return signKey, nil
		})
		if err != nil || !tok.Valid {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid or expired token",
			})
		}

		claims, ok := tok.Claims.(*jwt.RegisteredClaims)
		if !ok || claims.Subject != c.Params("id") {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "token does not grant access to this account",
			})
		}

		c.Locals("account_id", claims.Subject)
		return c.Next()
	}
}
