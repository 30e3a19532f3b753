package ports

import (
	"context"
	"path/filepath"
	"strings"
)

// UploadFile es un archivo recibido en la petición, ya leído en memoria (el total está acotado a 20 MB).
type UploadFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// Size tamaño en bytes.
func (f UploadFile) Size() int64 { return int64(len(f.Data)) }

// Ext devuelve la extensión en minúsculas, con punto.
func (f UploadFile) Ext() string { return strings.ToLower(filepath.Ext(f.Name)) }

// FileStorage define el puerto de salida hacia el almacén de archivos adjuntos.
// Upload es todo o nada: si falla, no deja archivos subidos. Delete es best-effort desde el punto de vista del llamador.
type FileStorage interface {
	Upload(ctx context.Context, files []UploadFile) ([]string, error)
	Delete(ctx context.Context, url string) error
}
