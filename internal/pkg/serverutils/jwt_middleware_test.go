package serverutils

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJwtSecretUsesEnvWhenSet(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	assert.Equal(t, []byte("from-env"), JwtSecret())
}

func TestJwtSecretFallsBackWhenUnset(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	assert.Equal(t, []byte("default_secret"), JwtSecret())
}

func signTestToken(t *testing.T, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"user_id": "2b7c8a60-0000-4000-8000-000000000001",
		"role":    role,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(JwtSecret())
	require.NoError(t, err)
	return token
}

// With JWT_SECRET unset, tokens issued by the auth service sign with the
// fallback key; the middleware must verify them with the same key.
func TestJwtMiddlewareVerifiesFallbackSignedToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		return c.SendString(role)
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+signTestToken(t, "user"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareRejectsMissingToken(t *testing.T) {
	app := fiber.New()
	app.Get("/protected", JwtMiddleware, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/protected", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAdminOnlyBlocksNonAdmins(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	app := fiber.New()
	app.Post("/broadcast", JwtMiddleware, AdminOnly, func(c *fiber.Ctx) error {
		return c.SendString("sent")
	})

	cases := []struct {
		name     string
		role     string
		expected int
	}{
		{"admin allowed", "admin", fiber.StatusOK},
		{"regular user forbidden", "user", fiber.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/broadcast", nil)
			req.Header.Set("Authorization", "Bearer "+signTestToken(t, tc.role))
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, resp.StatusCode)
		})
	}
}
