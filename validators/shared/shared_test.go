package shared_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"futurebound/validators/shared"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Level    string `json:"level" validate:"omitempty,oneof=beginner advanced"`
}

type listQuery struct {
	Page int    `query:"page" validate:"omitempty,min=1"`
	Q    string `query:"q" validate:"omitempty,max=5"`
}

func decode(t *testing.T, body io.Reader) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(body).Decode(&out))
	return out
}

func TestValidate(t *testing.T) {
	assert.Nil(t, shared.Validate(&signup{Email: "a@b.co", Password: "longenough"}))

	errs := shared.Validate(&signup{Email: "nope", Password: "short", Level: "expert"})
	assert.Equal(t, "Invalid email!", errs["email"])
	assert.Equal(t, "Password must be at least 8 characters long!", errs["password"])
	assert.Equal(t, "Level must be one of: beginner, advanced!", errs["level"])

	errs = shared.Validate(&signup{})
	assert.Equal(t, "Email is required!", errs["email"])
}

func TestBody(t *testing.T) {
	app := fiber.New()
	app.Post("/", shared.Body[signup]("validated"), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("validated").(*signup))
	})

	post := func(body string) (int, map[string]interface{}) {
		t.Helper()
		req := httptest.NewRequest("POST", "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		resp, err := app.Test(req)
		require.NoError(t, err)
		return resp.StatusCode, decode(t, resp.Body)
	}

	code, out := post(`{"email":"  a@b.co ","password":"longenough"}`)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "a@b.co", out["email"])

	code, out = post(`{"email":"a@b.co"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, code)
	assert.Equal(t, false, out["status"])
	assert.Contains(t, out["data"], "password")

	code, _ = post(`{not json`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestQuery(t *testing.T) {
	app := fiber.New()
	app.Get("/", shared.Query[listQuery]("q"), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("q").(*listQuery))
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/?page=2&q=go", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?page=-1", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest("GET", "/?q=toolong", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestIDParams(t *testing.T) {
	app := fiber.New()
	app.Get("/e/:enrollment_id/l/:lesson_id", shared.IDParams("enrollment_id", "lesson_id"), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"enrollment": shared.ID(c, "enrollment_id"),
			"lesson":     shared.ID(c, "lesson_id"),
		})
	})

	tests := []struct {
		path string
		want int
	}{
		{"/e/3/l/9", fiber.StatusOK},
		{"/e/0/l/9", fiber.StatusBadRequest},
		{"/e/x/l/9", fiber.StatusBadRequest},
		{"/e/3/l/-1", fiber.StatusBadRequest},
	}
	for _, tc := range tests {
		resp, err := app.Test(httptest.NewRequest("GET", tc.path, nil))
		require.NoError(t, err)
		assert.Equal(t, tc.want, resp.StatusCode, tc.path)
		if tc.want == fiber.StatusOK {
			out := decode(t, resp.Body)
			assert.EqualValues(t, 3, out["enrollment"])
			assert.EqualValues(t, 9, out["lesson"])
		}
	}
}
