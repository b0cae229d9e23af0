package notificaciones

import "fmt"

// MensajeVerificado avisa que un documento fue verificado por un tercero.
// Si vienen título y texto explícitos, se usan tal cual.
func MensajeVerificado(tipo, pais, titulo, texto string) Mensaje {
	if titulo != "" && texto != "" {
		return Mensaje{Titulo: titulo, Texto: texto, URL: URLSitio}
	}
	if tipo == "" {
		tipo = "documento"
	}
	if pais == "" {
		pais = "—"
	}
	return Mensaje{
		Titulo: "Documento HeyDoctor verificado",
		Texto:  fmt.Sprintf("Un %s fue verificado desde %s. Estado: válido ✓", tipo, pais),
		URL:    URLSitio + "/dashboard/auditoria",
	}
}

func MensajeInterconsulta(paciente string) Mensaje {
	return Mensaje{
		Titulo: "Nueva interconsulta registrada",
		Texto:  fmt.Sprintf("Se generó una interconsulta para %s.", paciente),
		URL:    URLSitio + "/dashboard/interconsultas",
	}
}

func MensajeReceta(paciente string) Mensaje {
	return Mensaje{
		Titulo: "Receta digital emitida",
		Texto:  fmt.Sprintf("Una nueva receta para %s está disponible.", paciente),
		URL:    URLSitio + "/dashboard/documentos",
	}
}
