package documentos

import "io"

// Constructor dibuja un documento paso a paso. Las llamadas llegan siempre en
// el mismo orden: título, cuerpo, firma, código de verificación, Finalizar.
type Constructor interface {
	AgregarTitulo(titulo string)
	AgregarParrafo(texto string)
	AgregarSeccion(etiqueta, texto string)
	AgregarBloqueFirma(f Firma)
	AgregarCodigoVerificacion(url string, png []byte)
	Finalizar(w io.Writer) error
}

// NuevoConstructor crea un constructor para un documento con el título dado
type NuevoConstructor func(titulo string) Constructor
