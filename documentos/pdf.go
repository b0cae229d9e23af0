package documentos

import (
	"bytes"
	"io"

	"github.com/go-pdf/fpdf"
)

const (
	fuente       = "Helvetica"
	margen       = 20.0
	ladoQR       = 35.0
	anchoImagen  = 45.0
	altoLinea    = 6.0
	espacioFirma = 70.0
)

var colorMarca = [3]int{13, 148, 136}

// PDF implementa Constructor sobre fpdf (A4, fuentes base, texto en cp1252)
type PDF struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

// NuevoPDF crea un documento A4 con encabezado de marca en cada página
func NuevoPDF(titulo string) Constructor {
	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(titulo, true)
	pdf.SetCreator("HeyDoctor", true)
	pdf.SetMargins(margen, margen, margen)
	pdf.SetAutoPageBreak(true, margen)
	pdf.SetHeaderFunc(func() {
		pdf.SetFont(fuente, "B", 9)
		pdf.SetTextColor(colorMarca[0], colorMarca[1], colorMarca[2])
		pdf.CellFormat(0, 6, tr("HeyDoctor - "+titulo), "B", 1, "R", false, 0, "")
		pdf.Ln(6)
	})
	pdf.AddPage()

	return &PDF{pdf: pdf, tr: tr}
}

func (p *PDF) AgregarTitulo(titulo string) {
	p.pdf.SetFont(fuente, "B", 16)
	p.pdf.SetTextColor(colorMarca[0], colorMarca[1], colorMarca[2])
	p.pdf.CellFormat(0, 10, p.tr(titulo), "", 1, "C", false, 0, "")
	p.pdf.Ln(10)
}

func (p *PDF) AgregarParrafo(texto string) {
	p.pdf.SetFont(fuente, "", 12)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.MultiCell(0, altoLinea, p.tr(texto), "", "L", false)
	p.pdf.Ln(altoLinea)
}

func (p *PDF) AgregarSeccion(etiqueta, texto string) {
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetFont(fuente, "U", 12)
	p.pdf.MultiCell(0, altoLinea, p.tr(etiqueta), "", "L", false)
	p.pdf.Ln(altoLinea / 2)
	p.pdf.SetFont(fuente, "", 12)
	p.pdf.MultiCell(0, altoLinea, p.tr(texto), "", "L", false)
	p.pdf.Ln(altoLinea * 2)
}

func (p *PDF) AgregarBloqueFirma(f Firma) {
	p.asegurarEspacio(espacioFirma)
	ancho, _ := p.pdf.GetPageSize()
	y := p.pdf.GetY() + 5

	if len(f.ImagenFirma) > 0 {
		p.imagen("firma", f.ImagenFirma, margen, y, anchoImagen, 0)
	}
	if len(f.ImagenSello) > 0 {
		p.imagen("sello", f.ImagenSello, ancho-margen-anchoImagen, y, anchoImagen, 0)
	}

	linea := y + 30
	p.pdf.SetDrawColor(0, 0, 0)
	p.pdf.Line(margen, linea, margen+espacioFirma, linea)
	p.pdf.SetXY(margen, linea+2)
	p.pdf.SetTextColor(0, 0, 0)
	p.pdf.SetFont(fuente, "B", 12)
	p.pdf.CellFormat(espacioFirma, altoLinea, p.tr(f.Nombre), "", 1, "C", false, 0, "")
	p.pdf.SetFont(fuente, "", 11)
	p.pdf.CellFormat(espacioFirma, altoLinea, p.tr(f.Cargo), "", 1, "C", false, 0, "")
	p.pdf.Ln(altoLinea)
}

func (p *PDF) AgregarCodigoVerificacion(url string, png []byte) {
	p.asegurarEspacio(ladoQR + 5)
	ancho, _ := p.pdf.GetPageSize()
	y := p.pdf.GetY()

	p.imagen("qr-verificacion", png, ancho-margen-ladoQR, y, ladoQR, ladoQR)

	p.pdf.SetXY(margen, y+8)
	p.pdf.SetFont(fuente, "", 8)
	p.pdf.SetTextColor(90, 90, 90)
	p.pdf.MultiCell(ancho-2*margen-ladoQR-5, 4,
		p.tr("Verifique la autenticidad de este documento escaneando el código QR o ingresando a:\n"+url),
		"", "L", false)
	p.pdf.SetY(y + ladoQR)
}

// Finalizar escribe el PDF completo; cualquier error de dibujo previo aparece aquí
func (p *PDF) Finalizar(w io.Writer) error {
	return p.pdf.Output(w)
}

func (p *PDF) imagen(nombre string, datos []byte, x, y, w, h float64) {
	opciones := fpdf.ImageOptions{ImageType: "PNG"}
	p.pdf.RegisterImageOptionsReader(nombre, opciones, bytes.NewReader(datos))
	p.pdf.ImageOptions(nombre, x, y, w, h, false, opciones, 0, "")
}

func (p *PDF) asegurarEspacio(alto float64) {
	_, altoPagina := p.pdf.GetPageSize()
	if p.pdf.GetY()+alto > altoPagina-margen {
		p.pdf.AddPage()
	}
}
