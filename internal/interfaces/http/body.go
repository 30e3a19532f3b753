package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/shopspring/decimal"
)

// filesField es el nombre del campo multipart para archivos y, como valor, para las URLs que se conservan.
const filesField = "archivos"

// decodeJSON decodifica el cuerpo rechazando campos desconocidos (p. ej. un rol en el registro).
func decodeJSON(c *fiber.Ctx, out any) error {
	dec := json.NewDecoder(bytes.NewReader(c.Body()))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("contenido extra tras el objeto JSON")
	}
	return nil
}

// parseBody decodifica JSON estricto y responde 400 si falla. Devuelve false si ya respondió.
func parseBody(c *fiber.Ctx, out any) (bool, error) {
	if err := decodeJSON(c, out); err != nil {
		return false, badRequest(c, "INVALID_BODY", "cuerpo inválido: "+err.Error())
	}
	return true, nil
}

// pageFrom lee limit y offset de la query y aplica los límites por defecto.
func pageFrom(c *fiber.Ctx) dto.PageRequest {
	var p dto.PageRequest
	_ = c.QueryParser(&p)
	p.DefaultPage()
	return p
}

func isMultipart(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEMultipartForm)
}

// formValue primer valor de un campo del formulario.
func formValue(form *multipart.Form, key string) string {
	if v := form.Value[key]; len(v) > 0 {
		return strings.TrimSpace(v[0])
	}
	return ""
}

// formOptional devuelve nil si el campo no viene en el formulario.
func formOptional(form *multipart.Form, key string) *string {
	v, ok := form.Value[key]
	if !ok || len(v) == 0 {
		return nil
	}
	s := strings.TrimSpace(v[0])
	return &s
}

func formRating(form *multipart.Form) (*decimal.Decimal, error) {
	raw := formOptional(form, "ranking")
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, fmt.Errorf("ranking no es un número: %q", *raw)
	}
	return &d, nil
}

// formKeepFiles lista de URLs conservadas. nil si el campo no viene; valores vacíos se ignoran,
// así un único "archivos=" vacío significa no conservar ninguno.
func formKeepFiles(form *multipart.Form) *[]string {
	values, ok := form.Value[filesField]
	if !ok {
		return nil
	}
	keep := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			keep = append(keep, v)
		}
	}
	return &keep
}

// formFiles lee en memoria los archivos subidos. El tamaño total lo acota el BodyLimit del servidor.
func formFiles(form *multipart.Form) ([]ports.UploadFile, error) {
	headers := form.File[filesField]
	files := make([]ports.UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("abrir %s: %w", fh.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", fh.Filename, err)
		}
		files = append(files, ports.UploadFile{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Data:        data,
		})
	}
	return files, nil
}
