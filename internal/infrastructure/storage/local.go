// Package storage guarda los adjuntos de testimonios en disco. La API los sirve como estáticos bajo BaseURL.
package storage

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/rs/zerolog"
)

var _ ports.FileStorage = (*LocalStorage)(nil)

const subdir = "testimonios"

// LocalStorage implementa ports.FileStorage sobre un directorio local.
type LocalStorage struct {
	dir     string
	baseURL string
	now     func() time.Time
	log     zerolog.Logger
}

// NewLocalStorage crea el directorio raíz si no existe.
func NewLocalStorage(dir, baseURL string, log zerolog.Logger) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de archivos: %w", err)
	}
	return &LocalStorage{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
		log:     log,
	}, nil
}

// Upload escribe todos los archivos o ninguno. Los nombres en disco son UUIDs; solo se conserva la extensión.
func (s *LocalStorage) Upload(ctx context.Context, files []ports.UploadFile) ([]string, error) {
	month := s.now().UTC().Format("2006/01")
	urls := make([]string, 0, len(files))
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			s.rollback(urls)
			return nil, err
		}
		rel := path.Join(subdir, month, uuid.New().String()+f.Ext())
		if err := s.write(rel, f.Data); err != nil {
			s.rollback(urls)
			return nil, fmt.Errorf("guardar %s: %w", f.Name, err)
		}
		urls = append(urls, s.baseURL+"/"+rel)
	}
	return urls, nil
}

// Delete borra el archivo de una URL emitida por Upload. Un archivo ya inexistente no es error.
func (s *LocalStorage) Delete(_ context.Context, url string) error {
	p, err := s.pathOf(url)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("borrar %s: %w", url, err)
	}
	return nil
}

func (s *LocalStorage) write(rel string, data []byte) error {
	full := filepath.Join(s.dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(full), ".upload-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), full)
}

func (s *LocalStorage) rollback(urls []string) {
	for _, u := range urls {
		if err := s.Delete(context.Background(), u); err != nil {
			s.log.Warn().Err(err).Str("url", u).Msg("no se pudo revertir la subida")
		}
	}
}

// pathOf traduce una URL pública a ruta en disco. Rechaza URLs ajenas o que escapen del directorio.
func (s *LocalStorage) pathOf(url string) (string, error) {
	prefix := s.baseURL + "/" + subdir + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("url fuera del almacén: %s", url)
	}
	rel := path.Clean(strings.TrimPrefix(url, s.baseURL+"/"))
	if strings.HasPrefix(rel, "..") || !strings.HasPrefix(rel, subdir+"/") {
		return "", fmt.Errorf("url inválida: %s", url)
	}
	return filepath.Join(s.dir, filepath.FromSlash(rel)), nil
}
