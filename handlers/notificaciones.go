package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/notificaciones"
)

// NotificacionesHandler reenvía avisos push al despachador
type NotificacionesHandler struct {
	despachador notificaciones.Despachador
}

func NuevoNotificacionesHandler(d notificaciones.Despachador) *NotificacionesHandler {
	return &NotificacionesHandler{despachador: d}
}

type envioRequest struct {
	Title   string `json:"title"`
	Message string `json:"message"`
	URL     string `json:"url"`
}

type verificadoRequest struct {
	Tipo    string `json:"tipo"`
	Pais    string `json:"pais"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type pacienteRequest struct {
	Paciente string `json:"paciente"`
}

// leerCuerpo decodifica el JSON si lo hay. Un cuerpo vacío deja req en cero;
// uno mal formado se rechaza con 400 y devuelve false.
func leerCuerpo(c *fiber.Ctx, req any) (bool, error) {
	if len(c.Body()) == 0 {
		return true, nil
	}
	if err := c.BodyParser(req); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Cuerpo JSON inválido",
		})
	}
	return true, nil
}

// Enviar manda un aviso libre a todos los suscriptores
func (h *NotificacionesHandler) Enviar(c *fiber.Ctx) error {
	var req envioRequest
	if ok, err := leerCuerpo(c, &req); !ok {
		return err
	}

	if req.Title == "" || req.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "title y message son requeridos",
		})
	}
	if req.URL == "" {
		req.URL = notificaciones.URLSitio
	}

	res := h.despachador.Enviar(c.UserContext(), notificaciones.Mensaje{
		Titulo: req.Title,
		Texto:  req.Message,
		URL:    req.URL,
	})
	return c.JSON(res)
}

// Verificado avisa que un documento fue verificado
func (h *NotificacionesHandler) Verificado(c *fiber.Ctx) error {
	var req verificadoRequest
	if ok, err := leerCuerpo(c, &req); !ok {
		return err
	}

	m := notificaciones.MensajeVerificado(req.Tipo, req.Pais, req.Title, req.Message)
	return c.JSON(h.despachador.Enviar(c.UserContext(), m))
}

func (h *NotificacionesHandler) Interconsulta(c *fiber.Ctx) error {
	var req pacienteRequest
	if ok, err := leerCuerpo(c, &req); !ok {
		return err
	}

	return c.JSON(h.despachador.Enviar(c.UserContext(), notificaciones.MensajeInterconsulta(req.Paciente)))
}

func (h *NotificacionesHandler) Receta(c *fiber.Ctx) error {
	var req pacienteRequest
	if ok, err := leerCuerpo(c, &req); !ok {
		return err
	}

	return c.JSON(h.despachador.Enviar(c.UserContext(), notificaciones.MensajeReceta(req.Paciente)))
}
