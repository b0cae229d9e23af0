package documentos

import (
	"strings"
	"testing"
	"time"

	"github.com/heydoctor/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	emision = time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	medico  = &models.Medico{Nombre: "Dra. Rojas", Especialidad: "Medicina General"}
)

func pacienteConResfrio() *models.Paciente {
	return &models.Paciente{
		ID:     "7",
		Nombre: "Ana",
		History: []models.Atencion{{
			Diagnosis: []models.Diagnostico{{Code: "J00", Name: "Common cold"}},
		}},
	}
}

func TestPreparar_CertificadoIncluyeDiagnostico(t *testing.T) {
	doc, err := Preparar(Certificado, medico, pacienteConResfrio(), emision, "https://heydoctor.health/verify")
	require.NoError(t, err)

	assert.Equal(t, "Certificado Médico", doc.Titulo)
	assert.Equal(t, "CERTIFICADO MÉDICO", doc.Encabezado)
	assert.Equal(t, "certificado_7.pdf", doc.NombreArchivo)
	assert.Equal(t, "https://heydoctor.health/verify?id=7", doc.URLVerificacion)
	assert.Equal(t, []string{
		"Paciente: Ana",
		"RUT / ID: No registrado",
		"Fecha de emisión: 01-05-2024, 10:30:00",
	}, doc.Datos)
	require.Len(t, doc.Cuerpo, 2)
	assert.Contains(t, doc.Cuerpo[0].Texto, "J00 — Common cold")
	assert.Equal(t, Firma{Nombre: "Dra. Rojas", Cargo: "Medicina General"}, doc.Firma)
}

func TestPreparar_CertificadoSinHistoria(t *testing.T) {
	paciente := &models.Paciente{ID: "8", Nombre: "Bruno", RUT: "12.345.678-9"}

	doc, err := Preparar(Certificado, medico, paciente, emision, "https://heydoctor.health/verify")
	require.NoError(t, err)

	assert.Contains(t, doc.Cuerpo[0].Texto, SinDiagnostico)
	assert.Contains(t, doc.Datos, "RUT / ID: 12.345.678-9")
}

func TestPreparar_CertificadoUsaPrimerDiagnosticoDeLaUltimaAtencion(t *testing.T) {
	paciente := &models.Paciente{
		ID: "9",
		History: []models.Atencion{
			{Diagnosis: []models.Diagnostico{{Code: "A09", Name: "Gastroenteritis"}}},
			{Diagnosis: []models.Diagnostico{{Code: "J02", Name: "Faringitis"}, {Code: "R50", Name: "Fiebre"}}},
		},
	}
	assert.Equal(t, "J02 — Faringitis", UltimoDiagnostico(paciente))
}

func TestPreparar_UltimaAtencionSinDiagnostico(t *testing.T) {
	paciente := &models.Paciente{
		History: []models.Atencion{
			{Diagnosis: []models.Diagnostico{{Code: "A09", Name: "Gastroenteritis"}}},
			{Subjective: "control"},
		},
	}
	assert.Equal(t, SinDiagnostico, UltimoDiagnostico(paciente))
	assert.Equal(t, SinDiagnostico, Diagnosticos(paciente))
}

func TestPreparar_Interconsulta(t *testing.T) {
	paciente := &models.Paciente{
		ID:     "10",
		Nombre: "Carla",
		History: []models.Atencion{{
			Diagnosis: []models.Diagnostico{
				{Code: "I10", Name: "Hipertensión esencial"},
				{Code: "E11", Name: "Diabetes tipo 2"},
			},
			Subjective: "Cefalea persistente",
			Plan:       "Evaluación por cardiología",
		}},
	}

	doc, err := Preparar(Interconsulta, medico, paciente, emision, "https://heydoctor.health/verify")
	require.NoError(t, err)

	assert.Equal(t, "interconsulta_10.pdf", doc.NombreArchivo)
	assert.Equal(t, "ORDEN MÉDICA / INTERCONSULTA", doc.Encabezado)
	assert.Equal(t, "Fecha: 01-05-2024, 10:30:00", doc.Datos[2])
	assert.Equal(t, []Seccion{
		{Etiqueta: "MOTIVO DE LA INTERCONSULTA:", Texto: "Cefalea persistente"},
		{Etiqueta: "DIAGNÓSTICO CLÍNICO (CIE10):", Texto: "I10 — Hipertensión esencial\nE11 — Diabetes tipo 2"},
		{Etiqueta: "INDICACIONES / RECOMENDACIONES:", Texto: "Evaluación por cardiología"},
	}, doc.Cuerpo)
}

func TestPreparar_InterconsultaSinHistoria(t *testing.T) {
	doc, err := Preparar(Interconsulta, medico, &models.Paciente{ID: "11"}, emision, "https://heydoctor.health/verify")
	require.NoError(t, err)

	assert.Equal(t, MotivoPorDefecto, doc.Cuerpo[0].Texto)
	assert.Equal(t, SinDiagnostico, doc.Cuerpo[1].Texto)
	assert.Equal(t, SinIndicaciones, doc.Cuerpo[2].Texto)
}

func TestMotivo_TruncaA250Caracteres(t *testing.T) {
	largo := strings.Repeat("ñ", 300)
	paciente := &models.Paciente{History: []models.Atencion{{Subjective: largo}}}

	motivo := Motivo(paciente)
	assert.Equal(t, 250, len([]rune(motivo)))
	assert.Equal(t, strings.Repeat("ñ", 250), motivo)
}

func TestPreparar_TipoDesconocido(t *testing.T) {
	_, err := Preparar(Tipo("receta"), medico, pacienteConResfrio(), emision, "https://heydoctor.health/verify")
	assert.ErrorIs(t, err, ErrTipoDesconocido)
}

func TestPreparar_URLVerificacionEscapaID(t *testing.T) {
	paciente := &models.Paciente{ID: "a b&c"}
	doc, err := Preparar(Certificado, medico, paciente, emision, "https://heydoctor.health/verify")
	require.NoError(t, err)
	assert.Equal(t, "https://heydoctor.health/verify?id=a+b%26c", doc.URLVerificacion)
}
