package http_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apphttp "github.com/tu-usuario/categorias-api/internal/interfaces/http"
	pkgjwt "github.com/tu-usuario/categorias-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "categorias-api-test"
	testExpMin    = 60
)

// buildAuthApp construye una aplicación Fiber mínima con el middleware de
// auth y un handler dummy que devuelve el user id extraído.
func buildAuthApp(secret string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(secret),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":      true,
				"user_id": apphttp.GetUserID(c),
			})
		},
	)
	return app
}

func validToken(t *testing.T) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

func doRequest(t *testing.T, app *fiber.App, authHeader string) (*http.Response, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var parsed map[string]any
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &parsed))
	}
	return resp, parsed
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_TokenValidoPasaYCargaUserID(t *testing.T) {
	app := buildAuthApp(testJWTSecret)

	resp, body := doRequest(t, app, validToken(t))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, testUserID, body["user_id"])
}

func TestAuthMiddleware_SinHeaderEs401(t *testing.T) {
	app := buildAuthApp(testJWTSecret)

	resp, body := doRequest(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", body["code"])
}

func TestAuthMiddleware_FormatoInvalidoEs401(t *testing.T) {
	app := buildAuthApp(testJWTSecret)

	resp, body := doRequest(t, app, "Token abc123")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_TokenBasuraEs401(t *testing.T) {
	app := buildAuthApp(testJWTSecret)

	resp, body := doRequest(t, app, "Bearer no-es-un-jwt")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", body["code"])
}

func TestAuthMiddleware_FirmaDeOtroSecretoEs401(t *testing.T) {
	app := buildAuthApp(testJWTSecret)

	tok, err := pkgjwt.Generate("otro-secreto", testUserID, testIssuer, testExpMin)
	require.NoError(t, err)

	resp, _ := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_TokenExpiradoEs401(t *testing.T) {
	app := buildAuthApp(testJWTSecret)

	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, testIssuer, -5)
	require.NoError(t, err)

	resp, _ := doRequest(t, app, "Bearer "+tok)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_SecretoVacioDejaPasar(t *testing.T) {
	// Modo desarrollo: sin secreto configurado no se exige token.
	app := buildAuthApp("")

	resp, body := doRequest(t, app, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", body["user_id"])
}
