package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/heydoctor/backend/agenda"
	"github.com/heydoctor/backend/models"
	"go.uber.org/zap"
)

// AgendaHandler expone las citas de la consulta
type AgendaHandler struct {
	store agenda.Store
	log   *zap.Logger
}

func NuevoAgendaHandler(store agenda.Store, log *zap.Logger) *AgendaHandler {
	return &AgendaHandler{store: store, log: log}
}

// ListarCitas devuelve la agenda completa en orden de creación
func (h *AgendaHandler) ListarCitas(c *fiber.Ctx) error {
	citas, err := h.store.Listar(c.UserContext())
	if err != nil {
		h.log.Error("error listando agenda", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":  false,
			"msg": "Error al obtener la agenda",
		})
	}
	if citas == nil {
		citas = []models.Cita{}
	}
	return c.JSON(fiber.Map{"ok": true, "agenda": citas})
}

// CrearCita agrega una cita al final de la agenda
func (h *AgendaHandler) CrearCita(c *fiber.Ctx) error {
	var req models.NuevaCitaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":  false,
			"msg": "Datos inválidos",
		})
	}

	cita, err := h.store.Crear(c.UserContext(), req)
	if err != nil {
		h.log.Error("error creando cita", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":  false,
			"msg": "Error al crear la cita",
		})
	}

	h.log.Info("cita creada", zap.String("id", cita.ID))
	return c.JSON(fiber.Map{"ok": true, "cita": cita})
}

// ActualizarCita aplica los campos enviados sobre la cita existente
func (h *AgendaHandler) ActualizarCita(c *fiber.Ctx) error {
	var cambios models.CambiosCita
	if err := c.BodyParser(&cambios); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":  false,
			"msg": "Datos inválidos",
		})
	}

	id := utils.CopyString(c.Params("id"))
	cita, err := h.store.Actualizar(c.UserContext(), id, cambios)
	switch {
	case errors.Is(err, agenda.ErrCitaNoEncontrada):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"ok":  false,
			"msg": "Cita no encontrada",
		})
	case errors.Is(err, agenda.ErrCambioIdentificador):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"ok":  false,
			"msg": "No se puede modificar el identificador de la cita",
		})
	case err != nil:
		h.log.Error("error actualizando cita", zap.String("id", id), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":  false,
			"msg": "Error al actualizar la cita",
		})
	}

	return c.JSON(fiber.Map{"ok": true, "cita": cita})
}
