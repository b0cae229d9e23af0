package documentos

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/heydoctor/backend/database"
	"github.com/heydoctor/backend/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var (
	// ErrPacienteNoEncontrado se traduce a 404 antes de escribir bytes
	ErrPacienteNoEncontrado = errors.New("paciente no encontrado")
	// ErrMedicoNoConfigurado indica que la tabla doctor está vacía
	ErrMedicoNoConfigurado = errors.New("no hay médico configurado")
)

// Fuente entrega los datos clínicos que necesita el generador
type Fuente interface {
	ObtenerMedico(ctx context.Context) (*models.Medico, error)
	ObtenerPaciente(ctx context.Context, id string) (*models.Paciente, error)
}

// Activos son las imágenes fijas de firma y timbre; pueden faltar
type Activos struct {
	Firma []byte
	Sello []byte
}

// CargarActivos lee signature.png y seal.png del directorio dado.
// Un archivo ausente solo se registra: el documento sale sin esa imagen.
func CargarActivos(dir string, log *zap.Logger) Activos {
	leer := func(nombre string) []byte {
		datos, err := os.ReadFile(filepath.Join(dir, nombre))
		if err != nil {
			log.Warn("imagen no disponible para los documentos", zap.String("archivo", nombre), zap.Error(err))
			return nil
		}
		return datos
	}
	return Activos{
		Firma: leer("signature.png"),
		Sello: leer("seal.png"),
	}
}

// Generador prepara y dibuja los documentos de ambos tipos
type Generador struct {
	fuente           Fuente
	urlVerificacion  string
	activos          Activos
	nuevoConstructor NuevoConstructor
	codificarQR      CodificadorQR
	ahora            func() time.Time
}

// Opcion modifica un Generador al crearlo
type Opcion func(*Generador)

// ConConstructor reemplaza el constructor de PDF
func ConConstructor(n NuevoConstructor) Opcion {
	return func(g *Generador) { g.nuevoConstructor = n }
}

// ConQR reemplaza el codificador QR
func ConQR(c CodificadorQR) Opcion {
	return func(g *Generador) { g.codificarQR = c }
}

// ConReloj fija la hora de emisión
func ConReloj(ahora func() time.Time) Opcion {
	return func(g *Generador) { g.ahora = ahora }
}

func NuevoGenerador(fuente Fuente, urlVerificacion string, activos Activos, opciones ...Opcion) *Generador {
	g := &Generador{
		fuente:           fuente,
		urlVerificacion:  urlVerificacion,
		activos:          activos,
		nuevoConstructor: NuevoPDF,
		codificarQR:      GenerarQR,
		ahora:            time.Now,
	}
	for _, o := range opciones {
		o(g)
	}
	return g
}

// Preparar busca médico y paciente y resuelve el contenido. No escribe nada,
// así el llamador puede responder 404/500 antes de enviar cabeceras.
func (g *Generador) Preparar(ctx context.Context, tipo Tipo, pacienteID string) (*Documento, error) {
	medico, err := g.fuente.ObtenerMedico(ctx)
	if errors.Is(err, database.ErrNoEncontrado) {
		return nil, ErrMedicoNoConfigurado
	}
	if err != nil {
		return nil, err
	}

	paciente, err := g.fuente.ObtenerPaciente(ctx, pacienteID)
	if errors.Is(err, database.ErrNoEncontrado) {
		return nil, ErrPacienteNoEncontrado
	}
	if err != nil {
		return nil, err
	}

	doc, err := Preparar(tipo, medico, paciente, g.ahora(), g.urlVerificacion)
	if err != nil {
		return nil, err
	}
	doc.Firma.ImagenFirma = g.activos.Firma
	doc.Firma.ImagenSello = g.activos.Sello
	return doc, nil
}

// Escribir dibuja el documento en w. El QR se genera en paralelo al resto del
// dibujo y se espera antes de incrustarlo y cerrar el PDF.
func (g *Generador) Escribir(ctx context.Context, doc *Documento, w io.Writer) error {
	var codigo []byte
	grupo, _ := errgroup.WithContext(ctx)
	grupo.Go(func() error {
		png, err := g.codificarQR(doc.URLVerificacion)
		if err != nil {
			return err
		}
		codigo = png
		return nil
	})

	c := g.nuevoConstructor(doc.Titulo)
	c.AgregarTitulo(doc.Encabezado)
	c.AgregarParrafo(strings.Join(doc.Datos, "\n"))
	for _, s := range doc.Cuerpo {
		if s.Etiqueta == "" {
			c.AgregarParrafo(s.Texto)
			continue
		}
		c.AgregarSeccion(s.Etiqueta, s.Texto)
	}
	c.AgregarBloqueFirma(doc.Firma)

	if err := grupo.Wait(); err != nil {
		return fmt.Errorf("código de verificación: %w", err)
	}
	c.AgregarCodigoVerificacion(doc.URLVerificacion, codigo)

	if err := c.Finalizar(w); err != nil {
		return fmt.Errorf("finalizar %s: %w", doc.NombreArchivo, err)
	}
	return nil
}
