package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Panaderia-api/internal/domain"
	"github.com/jhoicas/Panaderia-api/internal/domain/rbac"
	apphttp "github.com/jhoicas/Panaderia-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Panaderia-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret = "test-secret-key-for-unit-tests"
	testUserID    = "00000000-0000-0000-0000-000000000001"
	testIssuer    = "panaderia-test"
	testExpMin    = 60
)

// rolePerms permisos fijos por rol para no depender del almacenamiento.
var rolePerms = map[string]rbac.Set{
	"role-admin": {rbac.SuperAdmin},
	"role-baker": {"production:*", "items:read"},
}

func staticResolver() rbac.Resolver {
	return rbac.ResolverFunc(func(_ context.Context, roleID string) (rbac.Set, error) {
		if roleID == "role-roto" {
			return nil, errors.New("base de datos caída")
		}
		return rolePerms[roleID], nil
	})
}

// buildTestApp construye una aplicación Fiber mínima con:
//   - AuthMiddleware para parsear el JWT y cargar locals
//   - RequirePermission para autorizar el acceso
//   - Un handler dummy que devuelve 200 si pasa los middlewares
func buildTestApp(code string) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, nil),
		apphttp.RequirePermission(staticResolver(), code),
		func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusOK).JSON(fiber.Map{
				"ok":   true,
				"role": apphttp.GetRole(c),
			})
		},
	)
	return app
}

// tokenFor genera un JWT con el rol indicado.
func tokenFor(t *testing.T, roleID, role string) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, roleID, role, testIssuer, testExpMin)
	require.NoError(t, err, "debe generarse un token JWT válido")
	return "Bearer " + tok
}

// doRequest lanza una petición GET /protected y devuelve la respuesta.
func doRequest(t *testing.T, app *fiber.App, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests RequirePermission
// ──────────────────────────────────────────────────────────────────────────────

// Caso 1: el comodín *:* concede cualquier permiso → HTTP 200.
func TestRequirePermission_AdminAccedeConComodin(t *testing.T) {
	app := buildTestApp("orders:send")
	resp := doRequest(t, app, tokenFor(t, "role-admin", "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode, "admin debe poder acceder a cualquier ruta")

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["ok"], "la respuesta debe incluir ok:true")
	assert.Equal(t, "admin", body["role"], "el role debe ser admin")
}

// Caso 1b: comodín por recurso (production:*) → HTTP 200.
func TestRequirePermission_PanaderoRegistraProduccion(t *testing.T) {
	app := buildTestApp("production:create")
	resp := doRequest(t, app, tokenFor(t, "role-baker", "baker"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

// Caso 2: el rol no concede el permiso → HTTP 403 Forbidden.
func TestRequirePermission_PanaderoNoEnviaPedidos(t *testing.T) {
	app := buildTestApp("orders:send")
	resp := doRequest(t, app, tokenFor(t, "role-baker", "baker"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "FORBIDDEN", "la respuesta de error debe incluir el código FORBIDDEN")
	assert.Contains(t, string(body), "orders:send")
}

// Caso 2b: rol inexistente no tiene permisos → HTTP 403.
func TestRequirePermission_RolDesconocido(t *testing.T) {
	app := buildTestApp("items:read")
	resp := doRequest(t, app, tokenFor(t, "role-x", "x"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}

// Caso 3: fallo al resolver permisos → HTTP 503.
func TestRequirePermission_ErrorDelResolver_Retorna503(t *testing.T) {
	app := buildTestApp("items:read")
	resp := doRequest(t, app, tokenFor(t, "role-roto", "roto"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

// Caso 4: token sin rol → HTTP 401 MISSING_ROLE.
func TestAuthMiddleware_TokenSinRol_Retorna401(t *testing.T) {
	app := buildTestApp("items:read")
	tok, err := pkgjwt.Generate(testJWTSecret, testUserID, "", "", testIssuer, testExpMin)
	require.NoError(t, err)

	resp := doRequest(t, app, "Bearer "+tok)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "token sin rol debe retornar 401")

	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_ROLE", "la respuesta debe indicar el código MISSING_ROLE")
}

// Caso 5: sin header Authorization → HTTP 401 MISSING_TOKEN.
func TestAuthMiddleware_SinAuthHeader_Retorna401(t *testing.T) {
	app := buildTestApp("items:read")
	resp := doRequest(t, app, "")
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "MISSING_TOKEN")
}

// Caso 6: token inválido o esquema distinto de Bearer → HTTP 401 INVALID_TOKEN.
func TestAuthMiddleware_TokenInvalido_Retorna401(t *testing.T) {
	app := buildTestApp("items:read")
	for _, header := range []string{"Bearer token.invalido.aqui", "Basic abc"} {
		resp := doRequest(t, app, header)
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		assert.Contains(t, string(body), "INVALID_TOKEN", header)
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: extracción de claims del token
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_ExtraeClaims(t *testing.T) {
	app := fiber.New()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, nil), func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"user_id": apphttp.GetUserID(c),
			"role_id": apphttp.GetRoleID(c),
			"role":    apphttp.GetRole(c),
		})
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", tokenFor(t, "role-baker", "baker"))
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, "role-baker", body["role_id"])
	assert.Equal(t, "baker", body["role"])
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests AuthMiddleware: estado actual del perfil
// ──────────────────────────────────────────────────────────────────────────────

type sessionFunc func(ctx context.Context, userID string) (string, error)

func (f sessionFunc) ActiveRole(ctx context.Context, userID string) (string, error) {
	return f(ctx, userID)
}

func sessionApp(sessions apphttp.SessionChecker) *fiber.App {
	app := fiber.New()
	app.Get("/protected",
		apphttp.AuthMiddleware(testJWTSecret, sessions),
		apphttp.RequirePermission(staticResolver(), "production:create"),
		func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"role_id": apphttp.GetRoleID(c), "role": apphttp.GetRole(c)})
		},
	)
	return app
}

func TestAuthMiddleware_PerfilDesactivado_Retorna403(t *testing.T) {
	app := sessionApp(sessionFunc(func(_ context.Context, _ string) (string, error) {
		return "", domain.ErrForbidden
	}))
	resp := doRequest(t, app, tokenFor(t, "role-admin", "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "el token sigue vigente pero el perfil no")
	body, _ := io.ReadAll(resp.Body)
	assert.Contains(t, string(body), "PROFILE_INACTIVE")
}

func TestAuthMiddleware_PerfilInexistente_Retorna401(t *testing.T) {
	app := sessionApp(sessionFunc(func(_ context.Context, _ string) (string, error) {
		return "", domain.ErrUnauthorized
	}))
	resp := doRequest(t, app, tokenFor(t, "role-admin", "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_ErrorAlValidarSesion_Retorna503(t *testing.T) {
	app := sessionApp(sessionFunc(func(_ context.Context, _ string) (string, error) {
		return "", errors.New("base de datos caída")
	}))
	resp := doRequest(t, app, tokenFor(t, "role-admin", "admin"))
	defer resp.Body.Close()

	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
}

func TestAuthMiddleware_UsaElRolVigenteDelPerfil(t *testing.T) {
	var asked string
	app := sessionApp(sessionFunc(func(_ context.Context, userID string) (string, error) {
		asked = userID
		return "role-baker", nil
	}))
	resp := doRequest(t, app, tokenFor(t, "role-admin", "admin"))
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode, "baker tiene production:*")
	assert.Equal(t, testUserID, asked)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "role-baker", body["role_id"])
	assert.Empty(t, body["role"], "el nombre del token ya no corresponde")

	// Degradado a un rol sin el permiso, el mismo token deja de servir.
	app = sessionApp(sessionFunc(func(_ context.Context, _ string) (string, error) {
		return "role-x", nil
	}))
	resp2 := doRequest(t, app, tokenFor(t, "role-admin", "admin"))
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)
}
