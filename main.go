package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/agenda"
	"github.com/heydoctor/backend/config"
	"github.com/heydoctor/backend/database"
	"github.com/heydoctor/backend/documentos"
	"github.com/heydoctor/backend/handlers"
	"github.com/heydoctor/backend/logger"
	"github.com/heydoctor/backend/notificaciones"
	"github.com/heydoctor/backend/routes"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	// Cargar variables de entorno
	if err := godotenv.Load(); err != nil {
		log.Println("Advertencia: No se pudo cargar el archivo .env")
	}

	cfg, err := config.Cargar()
	if err != nil {
		log.Fatalf("configuración inválida: %v", err)
	}

	zl, err := logger.Nuevo(cfg.Environment, cfg.LogLevel)
	if err != nil {
		log.Fatalf("no se pudo crear el logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	if err := ejecutar(cfg, zl); err != nil {
		zl.Fatal("el servidor terminó con error", zap.Error(err))
	}
}

func ejecutar(cfg *config.Config, zl *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := database.Conectar(ctx, cfg.DatabaseURL, zl)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := database.CrearEsquema(ctx, pool); err != nil {
		return err
	}

	usuarios := database.NuevoRepositorioUsuarios(pool)
	creado, err := usuarios.AsegurarAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	switch {
	case err != nil:
		// Sin administrador el servidor sigue sirviendo
		zl.Error("no se pudo asegurar el usuario administrador", zap.Error(err))
	case creado:
		zl.Info("usuario administrador creado", zap.String("email", cfg.AdminEmail))
	}

	store, cerrarAgenda, err := abrirAgenda(cfg, zl)
	if err != nil {
		return err
	}
	defer cerrarAgenda()

	clinico := database.NuevoRepositorioClinico(pool)
	generador := documentos.NuevoGenerador(clinico, cfg.VerifyURL, documentos.CargarActivos(cfg.AssetsDir, zl))
	despachador := notificaciones.NuevoOneSignal(notificaciones.Opciones{
		AppID:   cfg.OneSignalAppID,
		RestKey: cfg.OneSignalRestKey,
		APIURL:  cfg.OneSignalAPIURL,
		Timeout: cfg.NotificationTimeout,
	}, zl.Named("onesignal"))

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"ok":    false,
				"error": err.Error(),
			})
		},
		AppName:           "HeyDoctor backend",
		EnablePrintRoutes: cfg.IsDev(),
	})

	secret := []byte(cfg.JWTSecret)
	routes.SetupRoutes(app, routes.Dependencias{
		Log:          zl,
		JWTSecret:    secret,
		OrigenesCORS: cfg.OrigenesCORS(),
		Politicas: routes.Politicas{
			PDFRequiereAuth:            cfg.PDFRequireAuth,
			NotificacionesRequiereAuth: cfg.NotificationsRequireAuth,
		},
		Auth:           handlers.NuevoAuthHandler(usuarios, secret, zl),
		Pacientes:      handlers.NuevoPacientesHandler(clinico, zl),
		Agenda:         handlers.NuevoAgendaHandler(store, zl),
		Documentos:     handlers.NuevoDocumentosHandler(generador, zl),
		Notificaciones: handlers.NuevoNotificacionesHandler(despachador),
	})

	errServidor := make(chan error, 1)
	go func() {
		zl.Info("HeyDoctor backend corriendo",
			zap.String("port", cfg.Port),
			zap.String("agenda", cfg.AgendaBackend),
			zap.Bool("notificaciones", cfg.NotificacionesConfiguradas()))
		errServidor <- app.Listen(":" + cfg.Port)
	}()

	select {
	case err := <-errServidor:
		return err
	case <-ctx.Done():
	}

	zl.Info("apagando servidor")
	return app.ShutdownWithTimeout(10 * time.Second)
}

// abrirAgenda elige el backend de la agenda según la configuración
func abrirAgenda(cfg *config.Config, zl *zap.Logger) (agenda.Store, func(), error) {
	if cfg.AgendaBackend != config.AgendaRedis {
		return agenda.NuevaMemoria(agenda.UUID), func() {}, nil
	}

	opciones, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	client := redis.NewClient(opciones)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, err
	}

	zl.Info("agenda en redis", zap.String("addr", opciones.Addr))
	return agenda.NuevaRedis(client, "heydoctor:agenda", agenda.UUID), func() { _ = client.Close() }, nil
}
