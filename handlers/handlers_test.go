package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/database"
	"github.com/heydoctor/backend/middleware"
	"github.com/heydoctor/backend/models"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var secretoPrueba = []byte("secreto-de-prueba")

// peticion ejecuta una petición contra la app y decodifica el JSON si lo hay
func peticion(t *testing.T, app *fiber.App, metodo, ruta, cuerpo, token string) (*http.Response, map[string]any) {
	t.Helper()

	var body io.Reader
	if cuerpo != "" {
		body = strings.NewReader(cuerpo)
	}
	req := httptest.NewRequest(metodo, ruta, body)
	if cuerpo != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	var datos map[string]any
	if strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&datos))
	}
	return resp, datos
}

func tokenPara(t *testing.T, id int, rol string) string {
	t.Helper()
	token, err := middleware.GenerarJWT(id, rol, secretoPrueba)
	require.NoError(t, err)
	return token
}

// clinicaFija es una tabla de pacientes en memoria con un único médico
type clinicaFija struct {
	medico    *models.Medico
	pacientes []models.Paciente
}

func (f *clinicaFija) ObtenerMedico(context.Context) (*models.Medico, error) {
	if f.medico == nil {
		return nil, database.ErrNoEncontrado
	}
	return f.medico, nil
}

func (f *clinicaFija) ObtenerPaciente(_ context.Context, id string) (*models.Paciente, error) {
	for i := range f.pacientes {
		if f.pacientes[i].ID == id {
			return &f.pacientes[i], nil
		}
	}
	return nil, database.ErrNoEncontrado
}

func (f *clinicaFija) ListarPacientes(context.Context) ([]models.Paciente, error) {
	return f.pacientes, nil
}

func nuevaClinica() *clinicaFija {
	return &clinicaFija{
		medico: &models.Medico{Nombre: "Dra. Rojas", Especialidad: "Medicina General"},
		pacientes: []models.Paciente{
			{
				ID:     "1",
				Nombre: "Ana",
				History: []models.Atencion{{
					Diagnosis: []models.Diagnostico{{Code: "J00", Name: "Common cold"}},
				}},
			},
			{ID: "2", Nombre: "Bruno"},
		},
	}
}

func logNulo() *zap.Logger {
	return zap.NewNop()
}
