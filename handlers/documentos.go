package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/heydoctor/backend/documentos"
	"go.uber.org/zap"
)

// DocumentosHandler sirve los PDF de certificado e interconsulta
type DocumentosHandler struct {
	generador *documentos.Generador
	log       *zap.Logger
}

func NuevoDocumentosHandler(generador *documentos.Generador, log *zap.Logger) *DocumentosHandler {
	return &DocumentosHandler{generador: generador, log: log}
}

// Certificado genera el certificado médico del paciente
func (h *DocumentosHandler) Certificado(c *fiber.Ctx) error {
	return h.servir(c, documentos.Certificado, "Error interno al generar certificado PDF")
}

// Interconsulta genera la orden de interconsulta del paciente
func (h *DocumentosHandler) Interconsulta(c *fiber.Ctx) error {
	return h.servir(c, documentos.Interconsulta, "Error interno al generar interconsulta PDF")
}

func (h *DocumentosHandler) servir(c *fiber.Ctx, tipo documentos.Tipo, mensajeError string) error {
	id := c.Params("id")
	doc, err := h.generador.Preparar(c.UserContext(), tipo, id)
	switch {
	case errors.Is(err, documentos.ErrPacienteNoEncontrado):
		return c.Status(fiber.StatusNotFound).SendString("Paciente no encontrado")
	case err != nil:
		h.log.Error("error preparando documento",
			zap.String("tipo", string(tipo)),
			zap.String("paciente", id),
			zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).SendString(mensajeError)
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%s", doc.NombreArchivo))

	// El contexto de fiber se recicla al volver del handler: el stream no puede usarlo
	log := h.log.With(zap.String("documento", doc.NombreArchivo))
	c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("pánico generando PDF", zap.Any("panic", r))
			}
			if err := w.Flush(); err != nil {
				log.Warn("cliente desconectado durante el envío del PDF", zap.Error(err))
			}
		}()

		if err := h.generador.Escribir(context.Background(), doc, w); err != nil {
			log.Error("error generando PDF", zap.Error(err))
			return
		}
		log.Info("PDF enviado")
	})
	return nil
}
