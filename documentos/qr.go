package documentos

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
)

const ladoQRPixeles = 256

// CodificadorQR convierte un texto en la imagen PNG de su código QR
type CodificadorQR func(contenido string) ([]byte, error)

// GenerarQR codifica el contenido como QR (corrección media) en PNG de 256x256
func GenerarQR(contenido string) ([]byte, error) {
	codigo, err := qr.Encode(contenido, qr.M, qr.Auto)
	if err != nil {
		return nil, fmt.Errorf("codificar QR: %w", err)
	}
	codigo, err = barcode.Scale(codigo, ladoQRPixeles, ladoQRPixeles)
	if err != nil {
		return nil, fmt.Errorf("escalar QR: %w", err)
	}

	// fpdf no acepta PNG de 16 bits, que es lo que produce el codificador
	gris := image.NewGray(codigo.Bounds())
	draw.Draw(gris, gris.Bounds(), codigo, codigo.Bounds().Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, gris); err != nil {
		return nil, fmt.Errorf("codificar PNG: %w", err)
	}
	return buf.Bytes(), nil
}
