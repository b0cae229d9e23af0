// Package documentos genera los PDF de certificado médico y de orden de
// interconsulta a partir de la ficha del paciente.
package documentos

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/heydoctor/backend/models"
)

// Tipo de documento
type Tipo string

const (
	Certificado   Tipo = "certificado"
	Interconsulta Tipo = "interconsulta"
)

const (
	SinDiagnostico      = "Sin diagnóstico registrado"
	MotivoPorDefecto    = "Interconsulta / Orden médica"
	SinIndicaciones     = "Sin indicaciones registradas."
	RUTNoRegistrado     = "No registrado"
	largoMaximoMotivo   = 250
	formatoFechaEmision = "02-01-2006, 15:04:05"
)

var ErrTipoDesconocido = errors.New("tipo de documento desconocido")

// Seccion es un bloque del cuerpo; sin etiqueta se dibuja como párrafo simple
type Seccion struct {
	Etiqueta string
	Texto    string
}

// Firma es el bloque de firma y timbre del médico
type Firma struct {
	Nombre      string
	Cargo       string
	ImagenFirma []byte
	ImagenSello []byte
}

// Documento es todo lo necesario para dibujar un PDF, ya resuelto
type Documento struct {
	Tipo            Tipo
	Titulo          string
	Encabezado      string
	Datos           []string
	Cuerpo          []Seccion
	Firma           Firma
	URLVerificacion string
	NombreArchivo   string
}

type plantilla struct {
	titulo        string
	encabezado    string
	etiquetaFecha string
	prefijo       string
	cuerpo        func(p *models.Paciente) []Seccion
}

var plantillas = map[Tipo]plantilla{
	Certificado: {
		titulo:        "Certificado Médico",
		encabezado:    "CERTIFICADO MÉDICO",
		etiquetaFecha: "Fecha de emisión",
		prefijo:       "certificado",
		cuerpo:        cuerpoCertificado,
	},
	Interconsulta: {
		titulo:        "Orden Médica / Interconsulta",
		encabezado:    "ORDEN MÉDICA / INTERCONSULTA",
		etiquetaFecha: "Fecha",
		prefijo:       "interconsulta",
		cuerpo:        cuerpoInterconsulta,
	},
}

// Preparar arma el documento del tipo pedido para el paciente y médico dados
func Preparar(tipo Tipo, medico *models.Medico, paciente *models.Paciente, emision time.Time, urlVerificacion string) (*Documento, error) {
	p, ok := plantillas[tipo]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTipoDesconocido, tipo)
	}

	rut := paciente.RUT
	if rut == "" {
		rut = RUTNoRegistrado
	}

	verificacion, err := urlConID(urlVerificacion, paciente.ID)
	if err != nil {
		return nil, err
	}

	return &Documento{
		Tipo:       tipo,
		Titulo:     p.titulo,
		Encabezado: p.encabezado,
		Datos: []string{
			"Paciente: " + paciente.Nombre,
			"RUT / ID: " + rut,
			p.etiquetaFecha + ": " + emision.Format(formatoFechaEmision),
		},
		Cuerpo: p.cuerpo(paciente),
		Firma: Firma{
			Nombre: medico.Nombre,
			Cargo:  medico.Especialidad,
		},
		URLVerificacion: verificacion,
		NombreArchivo:   fmt.Sprintf("%s_%s.pdf", p.prefijo, paciente.ID),
	}, nil
}

func cuerpoCertificado(p *models.Paciente) []Seccion {
	return []Seccion{
		{Texto: "Se certifica que el/la paciente antes mencionado(a) fue evaluado(a) clínicamente, " +
			"presentando la siguiente condición médica diagnosticada: " + UltimoDiagnostico(p) + "."},
		{Texto: "Se recomienda reposo y seguimiento clínico según evolución, además del cumplimiento " +
			"de las indicaciones entregadas durante la consulta."},
	}
}

func cuerpoInterconsulta(p *models.Paciente) []Seccion {
	return []Seccion{
		{Etiqueta: "MOTIVO DE LA INTERCONSULTA:", Texto: Motivo(p)},
		{Etiqueta: "DIAGNÓSTICO CLÍNICO (CIE10):", Texto: Diagnosticos(p)},
		{Etiqueta: "INDICACIONES / RECOMENDACIONES:", Texto: Plan(p)},
	}
}

func formatoDiagnostico(dx models.Diagnostico) string {
	return dx.Code + " — " + dx.Name
}

// UltimoDiagnostico es el primer diagnóstico de la última atención
func UltimoDiagnostico(p *models.Paciente) string {
	ultima, ok := p.UltimaAtencion()
	if !ok || len(ultima.Diagnosis) == 0 {
		return SinDiagnostico
	}
	return formatoDiagnostico(ultima.Diagnosis[0])
}

// Diagnosticos lista todos los diagnósticos de la última atención, uno por línea
func Diagnosticos(p *models.Paciente) string {
	ultima, ok := p.UltimaAtencion()
	if !ok || len(ultima.Diagnosis) == 0 {
		return SinDiagnostico
	}
	lineas := make([]string, 0, len(ultima.Diagnosis))
	for _, dx := range ultima.Diagnosis {
		lineas = append(lineas, formatoDiagnostico(dx))
	}
	return strings.Join(lineas, "\n")
}

// Motivo es el subjetivo de la última atención, truncado a 250 caracteres
func Motivo(p *models.Paciente) string {
	ultima, ok := p.UltimaAtencion()
	if !ok || ultima.Subjective == "" {
		return MotivoPorDefecto
	}
	runas := []rune(ultima.Subjective)
	if len(runas) > largoMaximoMotivo {
		runas = runas[:largoMaximoMotivo]
	}
	return string(runas)
}

// Plan es el plan de la última atención
func Plan(p *models.Paciente) string {
	ultima, ok := p.UltimaAtencion()
	if !ok || ultima.Plan == "" {
		return SinIndicaciones
	}
	return ultima.Plan
}

func urlConID(base, id string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("URL de verificación inválida: %w", err)
	}
	q := u.Query()
	q.Set("id", id)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
