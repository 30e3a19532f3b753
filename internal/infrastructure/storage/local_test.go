package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/internal/application/ports"
)

func newStorage(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalStorage(dir, "/media/", zerolog.Nop())
	require.NoError(t, err)
	s.now = func() time.Time { return time.Date(2024, 3, 9, 10, 0, 0, 0, time.UTC) }
	return s, dir
}

func TestUpload_EscribeYDevuelveURLs(t *testing.T) {
	s, dir := newStorage(t)

	urls, err := s.Upload(context.Background(), []ports.UploadFile{
		{Name: "Foto.PNG", ContentType: "image/png", Data: []byte("png")},
		{Name: "video.mp4", ContentType: "video/mp4", Data: []byte("mp4")},
	})
	require.NoError(t, err)
	require.Len(t, urls, 2)

	assert.True(t, strings.HasPrefix(urls[0], "/media/testimonios/2024/03/"))
	assert.True(t, strings.HasSuffix(urls[0], ".png"))
	assert.True(t, strings.HasSuffix(urls[1], ".mp4"))

	p, err := s.pathOf(urls[0])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, dir))
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	assert.Equal(t, "png", string(data))
}

func TestDelete_BorraYEsIdempotente(t *testing.T) {
	s, _ := newStorage(t)
	ctx := context.Background()

	urls, err := s.Upload(ctx, []ports.UploadFile{{Name: "a.jpg", Data: []byte("x")}})
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, urls[0]))
	p, _ := s.pathOf(urls[0])
	_, err = os.Stat(p)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(ctx, urls[0]))
}

func TestDelete_RechazaURLsAjenas(t *testing.T) {
	s, _ := newStorage(t)
	ctx := context.Background()

	for _, u := range []string{
		"https://otro.com/a.png",
		"/media/otra-carpeta/a.png",
		"/media/testimonios/../../etc/passwd",
	} {
		assert.Error(t, s.Delete(ctx, u), u)
	}
}

func TestUpload_ContextoCanceladoNoDejaArchivos(t *testing.T) {
	s, dir := newStorage(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Upload(ctx, []ports.UploadFile{{Name: "a.jpg", Data: []byte("x")}})
	require.Error(t, err)

	var found []string
	_ = filepath.Walk(dir, func(p string, info os.FileInfo, _ error) error {
		if info != nil && !info.IsDir() {
			found = append(found, p)
		}
		return nil
	})
	assert.Empty(t, found)
}
