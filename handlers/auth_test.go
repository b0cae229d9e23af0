package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"image/png"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/database"
	"github.com/heydoctor/backend/middleware"
	"github.com/heydoctor/backend/models"
	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MockUsuarios struct {
	mock.Mock
}

func (m *MockUsuarios) BuscarPorEmail(ctx context.Context, email string) (*models.Usuario, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*models.Usuario)
	return u, args.Error(1)
}

func (m *MockUsuarios) BuscarPorID(ctx context.Context, id int) (*models.Usuario, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*models.Usuario)
	return u, args.Error(1)
}

func (m *MockUsuarios) GuardarSecretoMFA(ctx context.Context, id int, secreto string) error {
	return m.Called(ctx, id, secreto).Error(0)
}

func (m *MockUsuarios) ActivarMFA(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func appAuth(usuarios Usuarios) *fiber.App {
	h := NuevoAuthHandler(usuarios, secretoPrueba, logNulo())
	app := fiber.New()
	app.Post("/auth/login", h.Login)
	app.Get("/auth/me", middleware.JWTMiddleware(secretoPrueba), h.Perfil)
	app.Post("/auth/mfa/setup", middleware.JWTMiddleware(secretoPrueba), h.ConfigurarMFA)
	app.Post("/auth/mfa/verify", middleware.JWTMiddleware(secretoPrueba), h.VerificarMFA)
	return app
}

func usuarioConClave(t *testing.T, clave string) *models.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(clave), bcrypt.MinCost)
	require.NoError(t, err)
	return &models.Usuario{ID: 1, Nombre: "Admin", Email: "admin@heydoctor.health", PasswordHash: string(hash), Rol: models.RolAdmin}
}

func TestLogin_Exitoso(t *testing.T) {
	usuarios := new(MockUsuarios)
	usuarios.On("BuscarPorEmail", mock.Anything, "admin@heydoctor.health").Return(usuarioConClave(t, "secreta"), nil)

	resp, datos := peticion(t, appAuth(usuarios), http.MethodPost, "/auth/login",
		`{"email":" admin@heydoctor.health ","password":"secreta"}`, "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, true, datos["ok"])
	usuario := datos["usuario"].(map[string]any)
	assert.Equal(t, "admin", usuario["role"])
	assert.NotContains(t, usuario, "password_hash")

	claims, err := middleware.ValidarJWT(datos["token"].(string), secretoPrueba)
	require.NoError(t, err)
	assert.Equal(t, 1, claims.UserID)
	assert.Equal(t, models.RolAdmin, claims.Rol)
}

func TestLogin_Rechazos(t *testing.T) {
	usuarios := new(MockUsuarios)
	usuarios.On("BuscarPorEmail", mock.Anything, "admin@heydoctor.health").Return(usuarioConClave(t, "secreta"), nil)
	usuarios.On("BuscarPorEmail", mock.Anything, "nadie@heydoctor.health").Return(nil, database.ErrNoEncontrado)
	usuarios.On("BuscarPorEmail", mock.Anything, "roto@heydoctor.health").Return(nil, errors.New("sin conexión"))
	app := appAuth(usuarios)

	casos := []struct {
		nombre string
		cuerpo string
		status int
	}{
		{"clave incorrecta", `{"email":"admin@heydoctor.health","password":"otra"}`, fiber.StatusUnauthorized},
		{"usuario inexistente", `{"email":"nadie@heydoctor.health","password":"x"}`, fiber.StatusUnauthorized},
		{"sin clave", `{"email":"admin@heydoctor.health"}`, fiber.StatusBadRequest},
		{"error de base", `{"email":"roto@heydoctor.health","password":"x"}`, fiber.StatusInternalServerError},
	}
	for _, caso := range casos {
		t.Run(caso.nombre, func(t *testing.T) {
			resp, datos := peticion(t, app, http.MethodPost, "/auth/login", caso.cuerpo, "")
			assert.Equal(t, caso.status, resp.StatusCode)
			assert.Equal(t, false, datos["ok"])
			assert.NotContains(t, datos, "token")
		})
	}
}

func TestLogin_ConMFA(t *testing.T) {
	clave, err := totp.Generate(totp.GenerateOpts{Issuer: emisorMFA, AccountName: "admin@heydoctor.health"})
	require.NoError(t, err)

	usuario := usuarioConClave(t, "secreta")
	usuario.MFAEnabled = true
	usuario.MFASecret = clave.Secret()

	usuarios := new(MockUsuarios)
	usuarios.On("BuscarPorEmail", mock.Anything, "admin@heydoctor.health").Return(usuario, nil)
	app := appAuth(usuarios)

	resp, datos := peticion(t, app, http.MethodPost, "/auth/login", `{"email":"admin@heydoctor.health","password":"secreta"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, true, datos["mfa_required"])

	resp, _ = peticion(t, app, http.MethodPost, "/auth/login", `{"email":"admin@heydoctor.health","password":"secreta","mfa_code":"000000x"}`, "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	codigo, err := totp.GenerateCode(clave.Secret(), time.Now())
	require.NoError(t, err)
	resp, datos = peticion(t, app, http.MethodPost, "/auth/login",
		`{"email":"admin@heydoctor.health","password":"secreta","mfa_code":"`+codigo+`"}`, "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, datos["token"])
}

func TestPerfil(t *testing.T) {
	usuarios := new(MockUsuarios)
	usuarios.On("BuscarPorID", mock.Anything, 1).Return(usuarioConClave(t, "x"), nil)
	usuarios.On("BuscarPorID", mock.Anything, 2).Return(nil, database.ErrNoEncontrado)
	app := appAuth(usuarios)

	resp, datos := peticion(t, app, http.MethodGet, "/auth/me", "", tokenPara(t, 1, models.RolAdmin))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin@heydoctor.health", datos["usuario"].(map[string]any)["email"])

	resp, _ = peticion(t, app, http.MethodGet, "/auth/me", "", tokenPara(t, 2, models.RolAdmin))
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, _ = peticion(t, app, http.MethodGet, "/auth/me", "", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestMFA_ConfigurarYVerificar(t *testing.T) {
	usuario := usuarioConClave(t, "x")
	usuarios := new(MockUsuarios)
	usuarios.On("BuscarPorID", mock.Anything, 1).Return(usuario, nil)
	usuarios.On("GuardarSecretoMFA", mock.Anything, 1, mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) { usuario.MFASecret = args.String(2) }).
		Return(nil)
	usuarios.On("ActivarMFA", mock.Anything, 1).Return(nil)
	app := appAuth(usuarios)
	token := tokenPara(t, 1, models.RolAdmin)

	resp, datos := peticion(t, app, http.MethodPost, "/auth/mfa/setup", "", token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	secreto := datos["secret"].(string)
	assert.Equal(t, usuario.MFASecret, secreto)
	assert.True(t, strings.HasPrefix(datos["otpauth_url"].(string), "otpauth://totp/HeyDoctor"))

	qr, err := base64.StdEncoding.DecodeString(datos["qr_png"].(string))
	require.NoError(t, err)
	_, err = png.Decode(strings.NewReader(string(qr)))
	require.NoError(t, err)

	resp, _ = peticion(t, app, http.MethodPost, "/auth/mfa/verify", `{"code":"123"}`, token)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	usuarios.AssertNotCalled(t, "ActivarMFA", mock.Anything, 1)

	codigo, err := totp.GenerateCode(secreto, time.Now())
	require.NoError(t, err)
	resp, datos = peticion(t, app, http.MethodPost, "/auth/mfa/verify", `{"code":"`+codigo+`"}`, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, map[string]any{"ok": true}, datos)
	usuarios.AssertCalled(t, "ActivarMFA", mock.Anything, 1)
}

func TestMFA_VerificarSinConfigurar(t *testing.T) {
	usuarios := new(MockUsuarios)
	usuarios.On("BuscarPorID", mock.Anything, 1).Return(usuarioConClave(t, "x"), nil)

	resp, datos := peticion(t, appAuth(usuarios), http.MethodPost, "/auth/mfa/verify", `{"code":"123456"}`, tokenPara(t, 1, models.RolAdmin))
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "MFA no configurado", datos["error"])
}

func TestMFA_ReconfigurarExigeCodigoVigente(t *testing.T) {
	key, err := totp.Generate(totp.GenerateOpts{Issuer: emisorMFA, AccountName: "admin@heydoctor.health"})
	require.NoError(t, err)
	usuario := usuarioConClave(t, "x")
	usuario.MFAEnabled = true
	usuario.MFASecret = key.Secret()

	usuarios := new(MockUsuarios)
	usuarios.On("BuscarPorID", mock.Anything, 1).Return(usuario, nil)
	usuarios.On("GuardarSecretoMFA", mock.Anything, 1, mock.AnythingOfType("string")).Return(nil)
	app := appAuth(usuarios)
	token := tokenPara(t, 1, models.RolAdmin)

	resp, datos := peticion(t, app, http.MethodPost, "/auth/mfa/setup", "", token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, true, datos["mfa_required"])

	resp, datos = peticion(t, app, http.MethodPost, "/auth/mfa/setup", `{"code":"000000x"}`, token)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Código MFA inválido", datos["error"])
	usuarios.AssertNotCalled(t, "GuardarSecretoMFA", mock.Anything, mock.Anything, mock.Anything)

	codigo, err := totp.GenerateCode(key.Secret(), time.Now())
	require.NoError(t, err)
	resp, datos = peticion(t, app, http.MethodPost, "/auth/mfa/setup", `{"code":"`+codigo+`"}`, token)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotEqual(t, key.Secret(), datos["secret"])
	usuarios.AssertCalled(t, "GuardarSecretoMFA", mock.Anything, 1, datos["secret"])
}
