// Package notificaciones envía notificaciones push por OneSignal. Nunca falla
// hacia quien llama: un proveedor caído o sin configurar se informa en el Resultado.
package notificaciones

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	URLSitio = "https://heydoctor.health"
	icono    = "https://heydoctor.health/icon.png"
)

// Mensaje es una notificación para todos los suscriptores
type Mensaje struct {
	Titulo string
	Texto  string
	URL    string
}

// Resultado es lo que se devuelve tal cual al cliente HTTP
type Resultado struct {
	OK   bool `json:"ok"`
	Warn bool `json:"warn,omitempty"`
}

// Despachador envía mensajes push
type Despachador interface {
	Enviar(ctx context.Context, m Mensaje) Resultado
}

// Opciones de conexión con OneSignal
type Opciones struct {
	AppID   string
	RestKey string
	APIURL  string
	Timeout time.Duration
}

type OneSignal struct {
	opciones Opciones
	log      *zap.Logger
}

// NuevoOneSignal crea el despachador; sin credenciales queda deshabilitado
func NuevoOneSignal(opciones Opciones, log *zap.Logger) *OneSignal {
	o := &OneSignal{opciones: opciones, log: log}
	if !o.Configurado() {
		log.Warn("OneSignal no configurado correctamente. Notificaciones deshabilitadas.")
	}
	return o
}

func (o *OneSignal) Configurado() bool {
	return o.opciones.AppID != "" && o.opciones.RestKey != ""
}

type textoLocalizado struct {
	En string `json:"en"`
}

type notificacion struct {
	AppID            string          `json:"app_id"`
	IncludedSegments []string        `json:"included_segments"`
	Headings         textoLocalizado `json:"headings"`
	Contents         textoLocalizado `json:"contents"`
	URL              string          `json:"url,omitempty"`
	ChromeWebIcon    string          `json:"chrome_web_icon"`
}

type respuestaOneSignal struct {
	ID     string          `json:"id"`
	Errors json.RawMessage `json:"errors,omitempty"`
}

func (o *OneSignal) Enviar(ctx context.Context, m Mensaje) Resultado {
	if !o.Configurado() {
		o.log.Warn("notificación no enviada: OneSignal no está configurado", zap.String("titulo", m.Titulo))
		return Resultado{OK: false, Warn: true}
	}
	if err := ctx.Err(); err != nil {
		o.log.Warn("notificación cancelada", zap.Error(err))
		return Resultado{OK: false}
	}

	agent := fiber.Post(o.opciones.APIURL)
	agent.Set(fiber.HeaderAuthorization, "Basic "+o.opciones.RestKey)
	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	agent.JSON(notificacion{
		AppID:            o.opciones.AppID,
		IncludedSegments: []string{"All"},
		Headings:         textoLocalizado{En: m.Titulo},
		Contents:         textoLocalizado{En: m.Texto},
		URL:              m.URL,
		ChromeWebIcon:    icono,
	})
	agent.Timeout(o.timeout(ctx))

	codigo, cuerpo, errs := agent.Bytes()
	if len(errs) > 0 {
		o.log.Error("error enviando notificación", zap.Errors("errors", errs))
		return Resultado{OK: false}
	}

	var respuesta respuestaOneSignal
	_ = json.Unmarshal(cuerpo, &respuesta)
	if codigo >= fiber.StatusMultipleChoices {
		o.log.Error("OneSignal rechazó la notificación",
			zap.Int("status", codigo),
			zap.ByteString("respuesta", cuerpo))
		return Resultado{OK: false}
	}

	o.log.Info("notificación enviada", zap.String("id", respuesta.ID))
	return Resultado{OK: true}
}

// timeout respeta el plazo del contexto si es más corto que el configurado
func (o *OneSignal) timeout(ctx context.Context) time.Duration {
	t := o.opciones.Timeout
	if deadline, ok := ctx.Deadline(); ok {
		if restante := time.Until(deadline); t <= 0 || restante < t {
			t = restante
		}
	}
	return t
}
