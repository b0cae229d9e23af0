package middleware

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxCuerpoLog = 1000

// Campos que nunca se escriben en los logs
var camposSensibles = []string{"password", "mfa_code", "code", "secret", "token"}

// LoggingMiddleware registra cada petición HTTP con zap
func LoggingMiddleware(log *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()
		if err != nil {
			// Deja que el ErrorHandler fije el status antes de registrar
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		status := c.Response().StatusCode()
		campos := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("ip", ipCliente(c)),
			zap.String("user_agent", c.Get(fiber.HeaderUserAgent)),
		}
		if id, ok := UsuarioActual(c); ok {
			campos = append(campos, zap.Int("user_id", id))
		}
		if metodoConCuerpo(c.Method()) && len(c.Body()) > 0 {
			campos = append(campos, zap.String("body", filterSensitiveData(string(c.Body()))))
		}

		if ce := log.Check(determineLogLevel(status), "petición HTTP"); ce != nil {
			ce.Write(campos...)
		}
		return nil
	}
}

func ipCliente(c *fiber.Ctx) string {
	if realIP := c.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		return strings.TrimSpace(strings.Split(forwarded, ",")[0])
	}
	return c.IP()
}

func metodoConCuerpo(metodo string) bool {
	return metodo == fiber.MethodPost || metodo == fiber.MethodPut || metodo == fiber.MethodPatch
}

// filterSensitiveData oculta campos sensibles y trunca el cuerpo
func filterSensitiveData(body string) string {
	var data map[string]interface{}
	if err := json.Unmarshal([]byte(body), &data); err != nil {
		return truncar(body)
	}

	for _, field := range camposSensibles {
		if _, exists := data[field]; exists {
			data[field] = "[FILTERED]"
		}
	}

	filtrado, _ := json.Marshal(data)
	return truncar(string(filtrado))
}

func truncar(s string) string {
	if len(s) > maxCuerpoLog {
		return s[:maxCuerpoLog] + "...[truncated]"
	}
	return s
}

// determineLogLevel determina el nivel de log según el status code
func determineLogLevel(statusCode int) zapcore.Level {
	switch {
	case statusCode >= 500:
		return zapcore.ErrorLevel
	case statusCode >= 400:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
