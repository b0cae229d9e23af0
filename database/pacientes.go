package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heydoctor/backend/models"
	"github.com/jackc/pgx/v5"
)

// ErrNoEncontrado se devuelve cuando la fila pedida no existe
var ErrNoEncontrado = errors.New("registro no encontrado")

// RepositorioClinico lee pacientes y el médico de la consulta
type RepositorioClinico struct {
	db DBTX
}

func NuevoRepositorioClinico(db DBTX) *RepositorioClinico {
	return &RepositorioClinico{db: db}
}

// ObtenerMedico devuelve el único médico registrado
func (r *RepositorioClinico) ObtenerMedico(ctx context.Context) (*models.Medico, error) {
	var medico models.Medico
	err := r.db.QueryRow(ctx,
		"SELECT name, COALESCE(specialty, '') FROM doctor LIMIT 1").
		Scan(&medico.Nombre, &medico.Especialidad)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("obtener médico: %w", err)
	}
	return &medico, nil
}

// ObtenerPaciente busca un paciente por id, incluida su historia clínica
func (r *RepositorioClinico) ObtenerPaciente(ctx context.Context, id string) (*models.Paciente, error) {
	var (
		paciente models.Paciente
		historia []byte
	)
	err := r.db.QueryRow(ctx,
		`SELECT id::text, name, COALESCE(rut, ''), COALESCE(history, '[]'::jsonb)
		 FROM patients WHERE id::text = $1`, id).
		Scan(&paciente.ID, &paciente.Nombre, &paciente.RUT, &historia)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoEncontrado
	}
	if err != nil {
		return nil, fmt.Errorf("obtener paciente %s: %w", id, err)
	}

	if err := decodificarHistoria(historia, &paciente); err != nil {
		return nil, err
	}
	return &paciente, nil
}

// ListarPacientes devuelve todos los pacientes sin su historia
func (r *RepositorioClinico) ListarPacientes(ctx context.Context) ([]models.Paciente, error) {
	rows, err := r.db.Query(ctx,
		"SELECT id::text, name, COALESCE(rut, '') FROM patients ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listar pacientes: %w", err)
	}
	defer rows.Close()

	pacientes := []models.Paciente{}
	for rows.Next() {
		var p models.Paciente
		if err := rows.Scan(&p.ID, &p.Nombre, &p.RUT); err != nil {
			return nil, fmt.Errorf("leer paciente: %w", err)
		}
		p.History = []models.Atencion{}
		pacientes = append(pacientes, p)
	}
	return pacientes, rows.Err()
}

func decodificarHistoria(datos []byte, paciente *models.Paciente) error {
	paciente.History = []models.Atencion{}
	if len(datos) == 0 || string(datos) == "null" {
		return nil
	}
	if err := json.Unmarshal(datos, &paciente.History); err != nil {
		return fmt.Errorf("historia del paciente %s inválida: %w", paciente.ID, err)
	}
	return nil
}
