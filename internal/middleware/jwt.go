package middleware

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/keraza-portal/keraza-go-api/internal/utils"
)

// Locals keys populated by JWTProtected.
const (
	LocalUserName    = "user_name"
	LocalFullName    = "full_name"
	LocalPermissions = "permissions"
)

// JWTProtected returns a middleware that validates JWT bearer tokens and
// exposes the operator's username and permission grants on the request.
func JWTProtected(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := c.Get("Authorization")
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "authorization header missing")
		}

		const bearer = "Bearer "
		if !strings.HasPrefix(strings.ToLower(authorization), strings.ToLower(bearer)) {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid authorization header")
		}

		tokenString := strings.TrimSpace(authorization[len(bearer):])
		if tokenString == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token")
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			return utils.SendError(c, fiber.StatusUnauthorized, "invalid token claims")
		}

		if username := extractString(claims, "sub"); username != "" {
			c.Locals(LocalUserName, username)
		}
		if fullName := extractString(claims, "name"); fullName != "" {
			c.Locals(LocalFullName, fullName)
		}
		c.Locals(LocalPermissions, extractPermissions(claims))

		return c.Next()
	}
}

func extractString(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

// extractPermissions normalizes the perms claim back into the section to
// actions map regardless of the decoder's intermediate types.
func extractPermissions(claims jwt.MapClaims) map[string][]string {
	perms := make(map[string][]string)

	raw, ok := claims["perms"].(map[string]interface{})
	if !ok {
		return perms
	}

	for section, value := range raw {
		actions, ok := value.([]interface{})
		if !ok {
			continue
		}
		for _, action := range actions {
			if str, ok := action.(string); ok && str != "" {
				perms[section] = append(perms[section], str)
			}
		}
	}
	return perms
}
