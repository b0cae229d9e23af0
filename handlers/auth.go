package handlers

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/database"
	"github.com/heydoctor/backend/documentos"
	"github.com/heydoctor/backend/middleware"
	"github.com/heydoctor/backend/models"
	"github.com/pquerna/otp/totp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const emisorMFA = "HeyDoctor"

// Usuarios es lo que el login necesita de la tabla users
type Usuarios interface {
	BuscarPorEmail(ctx context.Context, email string) (*models.Usuario, error)
	BuscarPorID(ctx context.Context, id int) (*models.Usuario, error)
	GuardarSecretoMFA(ctx context.Context, id int, secreto string) error
	ActivarMFA(ctx context.Context, id int) error
}

// AuthHandler maneja login, perfil y MFA
type AuthHandler struct {
	usuarios Usuarios
	secret   []byte
	log      *zap.Logger
}

func NuevoAuthHandler(usuarios Usuarios, secret []byte, log *zap.Logger) *AuthHandler {
	return &AuthHandler{usuarios: usuarios, secret: secret, log: log}
}

func credencialesInvalidas(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"ok":    false,
		"error": "Credenciales inválidas",
	})
}

// Login autentica un usuario y devuelve un token JWT
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Datos inválidos",
		})
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Email y contraseña son requeridos",
		})
	}

	usuario, err := h.usuarios.BuscarPorEmail(c.UserContext(), req.Email)
	if errors.Is(err, database.ErrNoEncontrado) {
		return credencialesInvalidas(c)
	}
	if err != nil {
		h.log.Error("error buscando usuario", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Error interno del servidor",
		})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		h.log.Warn("contraseña incorrecta", zap.String("email", req.Email))
		return credencialesInvalidas(c)
	}

	if usuario.MFAEnabled {
		if req.MFACode == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":           false,
				"error":        "Código MFA requerido",
				"mfa_required": true,
			})
		}
		if !totp.Validate(req.MFACode, usuario.MFASecret) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "Código MFA inválido",
			})
		}
	}

	token, err := middleware.GenerarJWT(usuario.ID, usuario.Rol, h.secret)
	if err != nil {
		h.log.Error("error generando token", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Error al generar token",
		})
	}

	h.log.Info("login exitoso", zap.Int("user_id", usuario.ID))
	return c.JSON(models.LoginResponse{
		OK:      true,
		Token:   token,
		Usuario: usuario.Respuesta(),
	})
}

// usuarioActual carga el usuario del token; escribe la respuesta de error si falla
func (h *AuthHandler) usuarioActual(c *fiber.Ctx) (*models.Usuario, error) {
	id, ok := middleware.UsuarioActual(c)
	if !ok {
		return nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"ok":    false,
			"error": "Token de autorización requerido",
		})
	}
	usuario, err := h.usuarios.BuscarPorID(c.UserContext(), id)
	if errors.Is(err, database.ErrNoEncontrado) {
		return nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"ok":    false,
			"error": "Usuario no encontrado",
		})
	}
	if err != nil {
		h.log.Error("error obteniendo usuario", zap.Int("user_id", id), zap.Error(err))
		return nil, c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Error interno del servidor",
		})
	}
	return usuario, nil
}

// Perfil devuelve el usuario autenticado
func (h *AuthHandler) Perfil(c *fiber.Ctx) error {
	usuario, err := h.usuarioActual(c)
	if usuario == nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "usuario": usuario.Respuesta()})
}

// ConfigurarMFA crea un secreto TOTP nuevo; queda inactivo hasta verificarlo.
// Si el MFA ya está activo exige un código vigente del secreto actual.
func (h *AuthHandler) ConfigurarMFA(c *fiber.Ctx) error {
	usuario, err := h.usuarioActual(c)
	if usuario == nil {
		return err
	}

	if usuario.MFAEnabled {
		var req models.MFAVerifyRequest
		if len(c.Body()) > 0 {
			_ = c.BodyParser(&req)
		}
		if req.Code == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":           false,
				"error":        "Código MFA requerido",
				"mfa_required": true,
			})
		}
		if !totp.Validate(req.Code, usuario.MFASecret) {
			h.log.Warn("reconfiguración MFA rechazada", zap.Int("user_id", usuario.ID))
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "Código MFA inválido",
			})
		}
	}

	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      emisorMFA,
		AccountName: usuario.Email,
	})
	if err != nil {
		h.log.Error("error generando secreto MFA", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Error al configurar MFA",
		})
	}

	qr, err := documentos.GenerarQR(key.URL())
	if err != nil {
		h.log.Error("error generando QR MFA", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Error al configurar MFA",
		})
	}

	if err := h.usuarios.GuardarSecretoMFA(c.UserContext(), usuario.ID, key.Secret()); err != nil {
		h.log.Error("error guardando secreto MFA", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Error al configurar MFA",
		})
	}

	return c.JSON(models.MFASetupResponse{
		OK:         true,
		Secret:     key.Secret(),
		OtpauthURL: key.URL(),
		QRPNG:      base64.StdEncoding.EncodeToString(qr),
	})
}

// VerificarMFA activa MFA cuando el código coincide con el secreto pendiente
func (h *AuthHandler) VerificarMFA(c *fiber.Ctx) error {
	var req models.MFAVerifyRequest
	if err := c.BodyParser(&req); err != nil || req.Code == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Código requerido",
		})
	}

	usuario, err := h.usuarioActual(c)
	if usuario == nil {
		return err
	}
	if usuario.MFASecret == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "MFA no configurado",
		})
	}
	if !totp.Validate(req.Code, usuario.MFASecret) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":    false,
			"error": "Código MFA inválido",
		})
	}

	if err := h.usuarios.ActivarMFA(c.UserContext(), usuario.ID); err != nil {
		h.log.Error("error activando MFA", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":    false,
			"error": "Error al activar MFA",
		})
	}
	return c.JSON(fiber.Map{"ok": true})
}
