package handlers

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/database"
	"github.com/heydoctor/backend/models"
	"go.uber.org/zap"
)

// Pacientes es la lectura de la tabla patients
type Pacientes interface {
	ListarPacientes(ctx context.Context) ([]models.Paciente, error)
	ObtenerPaciente(ctx context.Context, id string) (*models.Paciente, error)
}

type PacientesHandler struct {
	pacientes Pacientes
	log       *zap.Logger
}

func NuevoPacientesHandler(pacientes Pacientes, log *zap.Logger) *PacientesHandler {
	return &PacientesHandler{pacientes: pacientes, log: log}
}

// ListarPacientes devuelve todos los pacientes con su historia
func (h *PacientesHandler) ListarPacientes(c *fiber.Ctx) error {
	pacientes, err := h.pacientes.ListarPacientes(c.UserContext())
	if err != nil {
		h.log.Error("error listando pacientes", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":  false,
			"msg": "Error al obtener pacientes",
		})
	}
	if pacientes == nil {
		pacientes = []models.Paciente{}
	}
	return c.JSON(fiber.Map{"ok": true, "pacientes": pacientes})
}

// ObtenerPaciente devuelve un paciente por id
func (h *PacientesHandler) ObtenerPaciente(c *fiber.Ctx) error {
	paciente, err := h.pacientes.ObtenerPaciente(c.UserContext(), c.Params("id"))
	if errors.Is(err, database.ErrNoEncontrado) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"ok":  false,
			"msg": "Paciente no encontrado",
		})
	}
	if err != nil {
		h.log.Error("error obteniendo paciente", zap.String("id", c.Params("id")), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"ok":  false,
			"msg": "Error al obtener paciente",
		})
	}
	return c.JSON(fiber.Map{"ok": true, "paciente": paciente})
}
