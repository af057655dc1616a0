package http

import (
	"encoding/json"
	"errors"
	"fmt"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/internal/application/dto"
	"github.com/jhoicas/kardex-api/internal/domain"
)

func TestWriteError_Mapeo(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		status     int
		code       string
		field      string
		retryAfter string
	}{
		{"validación con campo", domain.NewValidationError("quantity", "debe ser mayor que cero"), 400, "VALIDATION", "quantity", ""},
		{"entrada inválida genérica", fmt.Errorf("x: %w", domain.ErrInvalidInput), 400, "VALIDATION", "", ""},
		{"no encontrado", fmt.Errorf("stock: %w", domain.ErrNotFound), 404, "NOT_FOUND", "", ""},
		{"stock insuficiente", domain.InsufficientStock(1, 2), 409, "INSUFFICIENT_STOCK", "", ""},
		{"conflicto reintentable", fmt.Errorf("%w: 3 intentos", domain.ErrConflict), 409, "CONFLICT", "", "1"},
		{"duplicado", domain.ErrDuplicate, 409, "DUPLICATE", "", ""},
		{"desconocido", errors.New("conexión perdida"), 500, "INTERNAL", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return writeError(c, tc.err) })

			resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/", nil), -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Equal(t, tc.retryAfter, resp.Header.Get("Retry-After"))
			var body dto.ErrorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Equal(t, tc.code, body.Code)
			assert.Equal(t, tc.field, body.Field)
		})
	}
}

func TestRateLimiter_NilDejaPasar(t *testing.T) {
	rl := NewRateLimiter(0, 5, nil)
	assert.Nil(t, rl)

	app := fiber.New()
	app.Get("/", rl.Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	for i := 0; i < 10; i++ {
		resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
	}
}

func TestRateLimiter_PorIPSinUsuario(t *testing.T) {
	app := fiber.New()
	app.Get("/", NewRateLimiter(0.001, 1, nil).Handler(), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })

	resp, err := app.Test(httptest.NewRequest(nethttp.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(nethttp.MethodGet, "/", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusTooManyRequests, resp.StatusCode)
}
