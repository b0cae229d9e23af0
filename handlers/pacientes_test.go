package handlers

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appPacientes() *fiber.App {
	h := NuevoPacientesHandler(nuevaClinica(), logNulo())
	app := fiber.New()
	app.Get("/pacientes", h.ListarPacientes)
	app.Get("/pacientes/:id", h.ObtenerPaciente)
	return app
}

func TestPacientes_Listar(t *testing.T) {
	resp, datos := peticion(t, appPacientes(), http.MethodGet, "/pacientes", "", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, datos["pacientes"], 2)
}

func TestPacientes_Obtener(t *testing.T) {
	resp, datos := peticion(t, appPacientes(), http.MethodGet, "/pacientes/1", "", "")

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	paciente := datos["paciente"].(map[string]any)
	assert.Equal(t, "Ana", paciente["name"])
	historia := paciente["history"].([]any)
	require.Len(t, historia, 1)
}

func TestPacientes_Inexistente(t *testing.T) {
	resp, datos := peticion(t, appPacientes(), http.MethodGet, "/pacientes/99", "", "")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, map[string]any{"ok": false, "msg": "Paciente no encontrado"}, datos)
}

func TestPacientes_ListaVaciaEsArreglo(t *testing.T) {
	h := NuevoPacientesHandler(&clinicaFija{pacientes: []models.Paciente(nil)}, logNulo())
	app := fiber.New()
	app.Get("/pacientes", h.ListarPacientes)

	_, datos := peticion(t, app, http.MethodGet, "/pacientes", "", "")
	assert.Equal(t, []any{}, datos["pacientes"])
}
