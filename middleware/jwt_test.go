package middleware_test

import (
	"net/http/httptest"
	"testing"
	"time"

	"futurebound/config"
	"futurebound/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func useConfig(t *testing.T) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = &config.Config{JWTKey: "test-secret", JWTTTL: time.Hour}
	t.Cleanup(func() { config.AppConfig = prev })
}

func whoAmI(c *fiber.Ctx) error {
	id, ok := middleware.UserID(c)
	if !ok {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(fiber.Map{"id": id, "role": c.Locals("role")})
}

func TestJWTMiddleware(t *testing.T) {
	useConfig(t)
	app := fiber.New()
	app.Get("/me", middleware.JWTMiddleware, whoAmI)

	token, err := middleware.GenerateJWT(42, "asha", "USER", "asha@example.com")
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId": 42,
		"exp":    time.Now().Add(-time.Minute).Unix(),
	})
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	otherKey, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"userId": 42}).SignedString([]byte("other"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"valid token", "Bearer " + token, fiber.StatusOK},
		{"missing header", "", fiber.StatusUnauthorized},
		{"no bearer prefix", token, fiber.StatusUnauthorized},
		{"expired", "Bearer " + expiredToken, fiber.StatusUnauthorized},
		{"wrong key", "Bearer " + otherKey, fiber.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/me", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tc.want, resp.StatusCode)
		})
	}
}

func TestOptionalJWT(t *testing.T) {
	useConfig(t)
	app := fiber.New()
	app.Get("/me", middleware.OptionalJWT, whoAmI)

	req := httptest.NewRequest("GET", "/me", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	token, err := middleware.GenerateJWT(7, "ravi", "ADMIN", "ravi@example.com")
	require.NoError(t, err)
	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestPaginationOffset(t *testing.T) {
	p := middleware.Pagination{}
	page, limit, offset := p.Offset(10)
	assert.Equal(t, []int{1, 10, 0}, []int{page, limit, offset})

	p = middleware.Pagination{Page: 3, Limit: 5}
	page, limit, offset = p.Offset(10)
	assert.Equal(t, []int{3, 5, 10}, []int{page, limit, offset})
}
