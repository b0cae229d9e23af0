package models

// Cita representa una cita de la agenda de la consulta
type Cita struct {
	ID       string `json:"id"`
	Paciente string `json:"paciente"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
	Motivo   string `json:"motivo"`
}

// NuevaCitaRequest es el cuerpo de POST /agenda
type NuevaCitaRequest struct {
	Paciente string `json:"paciente"`
	Fecha    string `json:"fecha"`
	Hora     string `json:"hora"`
	Motivo   string `json:"motivo"`
}

// CambiosCita es una actualización parcial: solo los campos presentes se aplican
type CambiosCita struct {
	ID       *string `json:"id,omitempty"`
	Paciente *string `json:"paciente,omitempty"`
	Fecha    *string `json:"fecha,omitempty"`
	Hora     *string `json:"hora,omitempty"`
	Motivo   *string `json:"motivo,omitempty"`
}

// Aplicar copia sobre la cita los campos presentes en los cambios.
// El identificador no se toca aquí.
func (c CambiosCita) Aplicar(cita Cita) Cita {
	if c.Paciente != nil {
		cita.Paciente = *c.Paciente
	}
	if c.Fecha != nil {
		cita.Fecha = *c.Fecha
	}
	if c.Hora != nil {
		cita.Hora = *c.Hora
	}
	if c.Motivo != nil {
		cita.Motivo = *c.Motivo
	}
	return cita
}
