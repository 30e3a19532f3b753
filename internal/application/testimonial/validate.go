package testimonial

import (
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/pkg/textnorm"
	"github.com/shopspring/decimal"
)

const maxCommentLength = 5000

var allowedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".bmp": true,
	".mp4": true, ".mov": true, ".avi": true, ".webm": true, ".mkv": true,
}

func cleanComment(s string) (string, error) {
	c := textnorm.Clean(s)
	if c == "" {
		return "", domain.Invalid("comentario", "el comentario es obligatorio")
	}
	if len([]rune(c)) > maxCommentLength {
		return "", domain.Invalid("comentario", fmt.Sprintf("el comentario no puede superar %d caracteres", maxCommentLength))
	}
	return c, nil
}

func checkRating(r decimal.Decimal) error {
	if !entity.ValidRating(r) {
		return domain.Invalid("ranking", "el ranking debe estar entre 1 y 5 con a lo sumo un decimal")
	}
	return nil
}

func cleanLink(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	u, err := url.ParseRequestURI(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", domain.Invalid("enlace", "el enlace debe ser una URL http(s)")
	}
	return s, nil
}

func cleanAnonymous(name, email string) (string, string, error) {
	name = textnorm.Clean(name)
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" {
		return "", "", domain.Invalid("usuario_anonimo_username", "el nombre es obligatorio sin sesión iniciada")
	}
	if email == "" {
		return "", "", domain.Invalid("usuario_anonimo_email", "el email es obligatorio sin sesión iniciada")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return "", "", domain.Invalid("usuario_anonimo_email", "email inválido")
	}
	return name, email, nil
}

// checkFiles valida tipo y tamaño. existing es la cantidad de archivos que se conservan.
func checkFiles(files []ports.UploadFile, existing int, maxFileBytes int64) error {
	if maxFileBytes <= 0 || maxFileBytes > entity.MaxFileBytes {
		maxFileBytes = entity.MaxFileBytes
	}
	if existing+len(files) > entity.MaxFiles {
		return domain.Invalid("archivos", fmt.Sprintf("se permiten como máximo %d archivos", entity.MaxFiles))
	}
	var total int64
	for _, f := range files {
		if !allowedExtensions[f.Ext()] {
			return domain.Invalid("archivos", fmt.Sprintf("tipo de archivo no permitido: %s", f.Name))
		}
		ct := strings.ToLower(f.ContentType)
		if ct != "" && ct != "application/octet-stream" &&
			!strings.HasPrefix(ct, "image/") && !strings.HasPrefix(ct, "video/") {
			return domain.Invalid("archivos", fmt.Sprintf("solo se aceptan imágenes o videos: %s", f.Name))
		}
		if f.Size() > maxFileBytes {
			return domain.Invalid("archivos", fmt.Sprintf("%s supera el tamaño máximo por archivo", f.Name))
		}
		total += f.Size()
	}
	if total > entity.MaxTotalFileBytes {
		return domain.Invalid("archivos", "el tamaño total de los archivos supera 20 MB")
	}
	return nil
}
