package agenda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/heydoctor/backend/models"
	"github.com/redis/go-redis/v9"
)

// Redis guarda las citas en un hash (id -> JSON) y su orden en una lista.
// Cada cita tiene además una clave de versión que se vigila al actualizarla.
type Redis struct {
	client   *redis.Client
	prefijo  string
	claveOrd string
	claveHas string
	nuevoID  GeneradorID
}

// NuevaRedis crea una agenda respaldada por Redis bajo el prefijo dado
func NuevaRedis(client *redis.Client, prefijo string, nuevoID GeneradorID) *Redis {
	if nuevoID == nil {
		nuevoID = UUID
	}
	if prefijo == "" {
		prefijo = "agenda"
	}
	return &Redis{
		client:   client,
		prefijo:  prefijo,
		claveOrd: prefijo + ":orden",
		claveHas: prefijo + ":citas",
		nuevoID:  nuevoID,
	}
}

func (r *Redis) Listar(ctx context.Context) ([]models.Cita, error) {
	ids, err := r.client.LRange(ctx, r.claveOrd, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("leer orden de la agenda: %w", err)
	}
	agenda := make([]models.Cita, 0, len(ids))
	if len(ids) == 0 {
		return agenda, nil
	}

	valores, err := r.client.HMGet(ctx, r.claveHas, ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("leer citas: %w", err)
	}
	for i, v := range valores {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("cita %s sin datos", ids[i])
		}
		var cita models.Cita
		if err := json.Unmarshal([]byte(s), &cita); err != nil {
			return nil, fmt.Errorf("decodificar cita %s: %w", ids[i], err)
		}
		agenda = append(agenda, cita)
	}
	return agenda, nil
}

func (r *Redis) Crear(ctx context.Context, nueva models.NuevaCitaRequest) (models.Cita, error) {
	for intento := 0; intento < maxReintentos; intento++ {
		cita := nuevaCita(r.nuevoID(), nueva)
		datos, err := json.Marshal(cita)
		if err != nil {
			return models.Cita{}, err
		}

		creada, err := r.client.HSetNX(ctx, r.claveHas, cita.ID, datos).Result()
		if err != nil {
			return models.Cita{}, fmt.Errorf("guardar cita: %w", err)
		}
		if !creada {
			continue
		}
		if err := r.client.RPush(ctx, r.claveOrd, cita.ID).Err(); err != nil {
			return models.Cita{}, fmt.Errorf("registrar orden de la cita: %w", err)
		}
		return cita, nil
	}
	return models.Cita{}, ErrSinIdentificador
}

func (r *Redis) claveVersion(id string) string {
	return r.prefijo + ":cita:" + id
}

// Actualizar usa WATCH/MULTI sobre la versión de la cita: solo dos
// actualizaciones del mismo id compiten entre sí
func (r *Redis) Actualizar(ctx context.Context, id string, cambios models.CambiosCita) (models.Cita, error) {
	var resultado models.Cita
	version := r.claveVersion(id)

	txf := func(tx *redis.Tx) error {
		s, err := tx.HGet(ctx, r.claveHas, id).Result()
		if errors.Is(err, redis.Nil) {
			return ErrCitaNoEncontrada
		}
		if err != nil {
			return err
		}
		if err := validarCambios(id, cambios); err != nil {
			return err
		}

		var cita models.Cita
		if err := json.Unmarshal([]byte(s), &cita); err != nil {
			return fmt.Errorf("decodificar cita %s: %w", id, err)
		}
		cita = cambios.Aplicar(cita)
		datos, err := json.Marshal(cita)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, r.claveHas, id, datos)
			pipe.Incr(ctx, version)
			return nil
		})
		if err == nil {
			resultado = cita
		}
		return err
	}

	for intento := 0; intento < maxReintentos; intento++ {
		err := r.client.Watch(ctx, txf, version)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return models.Cita{}, err
		}
		return resultado, nil
	}
	return models.Cita{}, fmt.Errorf("actualizar cita %s: %w", id, redis.TxFailedErr)
}
