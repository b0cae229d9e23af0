package middleware

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const duracionToken = 24 * time.Hour

// Claims personalizados para el JWT
type Claims struct {
	UserID int    `json:"user_id"`
	Rol    string `json:"rol"`
	jwt.RegisteredClaims
}

// GenerarJWT firma un token HS256 para el usuario
func GenerarJWT(userID int, rol string, secret []byte) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("JWT_SECRET vacío")
	}
	ahora := time.Now()
	claims := Claims{
		UserID: userID,
		Rol:    rol,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(ahora.Add(duracionToken)),
			IssuedAt:  jwt.NewNumericDate(ahora),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// ValidarJWT devuelve los claims de un token firmado con secret
func ValidarJWT(tokenString string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("claims inválidos")
	}
	return claims, nil
}

// JWTMiddleware exige un token Bearer válido y deja user_id y user_role en Locals
func JWTMiddleware(secret []byte) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "Token de autorización requerido",
			})
		}

		// Formato "Bearer <token>"
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "Formato de token inválido",
			})
		}

		claims, err := ValidarJWT(tokenString, secret)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"ok":    false,
				"error": "Token inválido",
			})
		}

		c.Locals("user_id", claims.UserID)
		c.Locals("user_role", claims.Rol)

		return c.Next()
	}
}

// SegunPolitica aplica JWTMiddleware solo cuando la ruta lo requiere
func SegunPolitica(requerida bool, secret []byte) fiber.Handler {
	if requerida {
		return JWTMiddleware(secret)
	}
	return func(c *fiber.Ctx) error {
		return c.Next()
	}
}

// UsuarioActual devuelve el id guardado por JWTMiddleware
func UsuarioActual(c *fiber.Ctx) (int, bool) {
	id, ok := c.Locals("user_id").(int)
	return id, ok
}
