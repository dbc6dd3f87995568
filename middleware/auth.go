package middleware

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

func jwtSecret() []byte {
	if s := os.Getenv("JWT_SECRET"); s != "" {
		return []byte(s)
	}
	return []byte("umi-dev-secret")
}

// Claims resolved from a bearer token.
type Claims struct {
	UserID uint
	Email  string
	Role   string
}

func parseBearer(header string) (*Claims, error) {
	if !strings.HasPrefix(header, "Bearer ") {
		return nil, fmt.Errorf("missing bearer token")
	}
	raw := strings.TrimPrefix(header, "Bearer ")

	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return jwtSecret(), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	sub, ok := claims["sub"].(float64)
	if !ok {
		return nil, fmt.Errorf("invalid sub claim")
	}
	email, _ := claims["email"].(string)
	role, _ := claims["role"].(string)

	return &Claims{UserID: uint(sub), Email: email, Role: role}, nil
}

// AuthRequired rejects requests without a valid token and stores the
// caller's identity in request locals.
func AuthRequired(c *fiber.Ctx) error {
	auth := c.Get("Authorization")
	if auth == "" {
		return c.Status(401).JSON(fiber.Map{
			"status":  "error",
			"message": "Authentication required. Please log in.",
		})
	}

	claims, err := parseBearer(auth)
	if err != nil {
		return c.Status(401).JSON(fiber.Map{
			"status":  "error",
			"message": "Invalid or expired token. Please log in again.",
		})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("user_role", claims.Role)
	return c.Next()
}

// OptionalAuth attributes the caller when a valid token is present and
// lets the request through either way. Used by guest checkout.
func OptionalAuth(c *fiber.Ctx) error {
	if auth := c.Get("Authorization"); auth != "" {
		if claims, err := parseBearer(auth); err == nil {
			c.Locals("user_id", claims.UserID)
			c.Locals("user_role", claims.Role)
		}
	}
	return c.Next()
}

func RoleRequired(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, _ := c.Locals("user_role").(string)
		for _, r := range roles {
			if userRole == r {
				return c.Next()
			}
		}
		return c.Status(403).JSON(fiber.Map{
			"status":  "error",
			"message": "You do not have permission to perform this action",
		})
	}
}

// UserID returns the authenticated user's id, or nil for guests.
func UserID(c *fiber.Ctx) *uint {
	if id, ok := c.Locals("user_id").(uint); ok {
		return &id
	}
	return nil
}

// IsAdmin reports whether the request carries the admin role.
func IsAdmin(c *fiber.Ctx) bool {
	role, _ := c.Locals("user_role").(string)
	return role == "admin"
}

// SignToken issues the HS256 token the middleware accepts.
func SignToken(userID uint, email, role string, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":   userID,
		"email": email,
		"role":  role,
		"exp":   time.Now().Add(ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(jwtSecret())
}
