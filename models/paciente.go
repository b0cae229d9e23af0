package models

// Diagnostico es un código CIE10 con su nombre
type Diagnostico struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Atencion es una entrada de la historia clínica del paciente
type Atencion struct {
	Diagnosis  []Diagnostico `json:"diagnosis,omitempty"`
	Subjective string        `json:"subjective,omitempty"`
	Plan       string        `json:"plan,omitempty"`
}

// Paciente representa la tabla patients en la base de datos
type Paciente struct {
	ID      string     `json:"id" db:"id"`
	Nombre  string     `json:"name" db:"name"`
	RUT     string     `json:"rut,omitempty" db:"rut"`
	History []Atencion `json:"history" db:"history"`
}

// UltimaAtencion devuelve la última entrada de la historia, si existe.
// Las entradas se asumen en orden cronológico de inserción.
func (p *Paciente) UltimaAtencion() (Atencion, bool) {
	if len(p.History) == 0 {
		return Atencion{}, false
	}
	return p.History[len(p.History)-1], true
}

// Medico representa el único registro de la tabla doctor
type Medico struct {
	Nombre       string `json:"name" db:"name"`
	Especialidad string `json:"specialty" db:"specialty"`
}
