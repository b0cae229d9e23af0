package agenda

import (
	"context"
	"sync"

	"github.com/heydoctor/backend/models"
)

// Memoria guarda las citas en el proceso; se pierden al reiniciar
type Memoria struct {
	mu      sync.RWMutex
	orden   []string
	citas   map[string]models.Cita
	nuevoID GeneradorID
}

// NuevaMemoria crea una agenda vacía en memoria
func NuevaMemoria(nuevoID GeneradorID) *Memoria {
	if nuevoID == nil {
		nuevoID = UUID
	}
	return &Memoria{
		citas:   make(map[string]models.Cita),
		nuevoID: nuevoID,
	}
}

func (m *Memoria) Listar(_ context.Context) ([]models.Cita, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	agenda := make([]models.Cita, 0, len(m.orden))
	for _, id := range m.orden {
		agenda = append(agenda, m.citas[id])
	}
	return agenda, nil
}

func (m *Memoria) Crear(_ context.Context, nueva models.NuevaCitaRequest) (models.Cita, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for intento := 0; intento < maxReintentos; intento++ {
		id := m.nuevoID()
		if _, existe := m.citas[id]; existe {
			continue
		}
		cita := nuevaCita(id, nueva)
		m.citas[id] = cita
		m.orden = append(m.orden, id)
		return cita, nil
	}
	return models.Cita{}, ErrSinIdentificador
}

func (m *Memoria) Actualizar(_ context.Context, id string, cambios models.CambiosCita) (models.Cita, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cita, existe := m.citas[id]
	if !existe {
		return models.Cita{}, ErrCitaNoEncontrada
	}
	if err := validarCambios(id, cambios); err != nil {
		return models.Cita{}, err
	}

	// La clave guardada es la original; id puede venir de un buffer prestado
	cita = cambios.Aplicar(cita)
	m.citas[cita.ID] = cita
	return cita, nil
}
