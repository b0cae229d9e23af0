package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/heydoctor/backend/handlers"
	"github.com/heydoctor/backend/middleware"
	"go.uber.org/zap"
)

const (
	version          = "1.0.0"
	limiteCuerpoJSON = 1 << 20
)

// Politicas indica qué grupos de rutas exigen token. Agenda, pacientes y perfil
// siempre lo exigen.
type Politicas struct {
	PDFRequiereAuth            bool
	NotificacionesRequiereAuth bool
}

// Dependencias agrupa todo lo que las rutas necesitan
type Dependencias struct {
	Log            *zap.Logger
	JWTSecret      []byte
	OrigenesCORS   string
	Politicas      Politicas
	Auth           *handlers.AuthHandler
	Pacientes      *handlers.PacientesHandler
	Agenda         *handlers.AgendaHandler
	Documentos     *handlers.DocumentosHandler
	Notificaciones *handlers.NotificacionesHandler
}

// SetupRoutes configura todas las rutas de la aplicación
func SetupRoutes(app *fiber.App, d Dependencias) {
	// Middleware global
	app.Use(recover.New())
	app.Use(middleware.LoggingMiddleware(d.Log))
	app.Use(middleware.SecurityHeaders())
	app.Use(cors.New(cors.Config{
		AllowOrigins: d.OrigenesCORS,
		AllowMethods: "GET,POST,PUT,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"message": "HeyDoctor backend corriendo",
			"version": version,
		})
	})

	requiereToken := middleware.JWTMiddleware(d.JWTSecret)
	limiteCuerpo := middleware.BodySizeLimit(limiteCuerpoJSON)

	// === AUTENTICACIÓN ===
	auth := app.Group("/auth")
	auth.Post("/login", middleware.AuthRateLimiter(), limiteCuerpo, d.Auth.Login)
	auth.Get("/me", requiereToken, d.Auth.Perfil)
	auth.Post("/mfa/setup", requiereToken, d.Auth.ConfigurarMFA)
	auth.Post("/mfa/verify", middleware.AuthRateLimiter(), requiereToken, d.Auth.VerificarMFA)

	// === PACIENTES ===
	pacientes := app.Group("/pacientes", requiereToken)
	pacientes.Get("/", d.Pacientes.ListarPacientes)
	pacientes.Get("/:id", d.Pacientes.ObtenerPaciente)

	// === AGENDA ===
	agenda := app.Group("/agenda", requiereToken, limiteCuerpo)
	agenda.Get("/", d.Agenda.ListarCitas)
	agenda.Post("/", d.Agenda.CrearCita)
	agenda.Put("/:id", d.Agenda.ActualizarCita)

	// === DOCUMENTOS PDF ===
	pdf := app.Group("/pdf", middleware.SegunPolitica(d.Politicas.PDFRequiereAuth, d.JWTSecret))
	pdf.Get("/certificates/:id", d.Documentos.Certificado)
	pdf.Get("/interconsult/:id", d.Documentos.Interconsulta)

	// === NOTIFICACIONES ===
	notificaciones := app.Group("/notifications",
		middleware.SegunPolitica(d.Politicas.NotificacionesRequiereAuth, d.JWTSecret),
		middleware.DefaultRateLimiter(),
		limiteCuerpo)
	notificaciones.Post("/send", d.Notificaciones.Enviar)
	notificaciones.Post("/verified", d.Notificaciones.Verificado)
	notificaciones.Post("/interconsulta", d.Notificaciones.Interconsulta)
	notificaciones.Post("/receta", d.Notificaciones.Receta)

	// Ruta no encontrada
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":  "Ruta no encontrada",
			"path":   c.Path(),
			"method": c.Method(),
		})
	})
}
