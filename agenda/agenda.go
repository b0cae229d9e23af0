// Package agenda guarda las citas de la consulta.
package agenda

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/heydoctor/backend/models"
)

var (
	// ErrCitaNoEncontrada se devuelve al actualizar un id inexistente
	ErrCitaNoEncontrada = errors.New("cita no encontrada")
	// ErrCambioIdentificador se devuelve cuando una actualización intenta cambiar el id
	ErrCambioIdentificador = errors.New("no se puede modificar el identificador de la cita")
	// ErrSinIdentificador se devuelve cuando el generador solo produce ids ocupados
	ErrSinIdentificador = errors.New("no se pudo generar un identificador único")
)

// maxReintentos limita los intentos de generar un id libre o de repetir una transacción
const maxReintentos = 5

// Store es el contrato de la agenda. Las implementaciones deben devolver las
// citas en orden de creación y aplicar cada actualización de forma atómica.
type Store interface {
	Listar(ctx context.Context) ([]models.Cita, error)
	Crear(ctx context.Context, nueva models.NuevaCitaRequest) (models.Cita, error)
	Actualizar(ctx context.Context, id string, cambios models.CambiosCita) (models.Cita, error)
}

// GeneradorID produce identificadores únicos para las citas
type GeneradorID func() string

// UUID es el generador por defecto
func UUID() string {
	return uuid.NewString()
}

func nuevaCita(id string, nueva models.NuevaCitaRequest) models.Cita {
	return models.Cita{
		ID:       id,
		Paciente: nueva.Paciente,
		Fecha:    nueva.Fecha,
		Hora:     nueva.Hora,
		Motivo:   nueva.Motivo,
	}
}

// validarCambios rechaza un id distinto al almacenado; el mismo id es un no-op
func validarCambios(id string, cambios models.CambiosCita) error {
	if cambios.ID != nil && *cambios.ID != id {
		return ErrCambioIdentificador
	}
	return nil
}
