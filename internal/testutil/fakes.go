package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/jhoicas/testimonios-api/internal/application/ports"
)

var (
	_ ports.FileStorage          = (*MemoryStorage)(nil)
	_ ports.OrganizationKeyCache = (*MemoryKeyCache)(nil)
)

// MemoryStorage almacén de archivos en memoria con fallos inyectables.
type MemoryStorage struct {
	mu        sync.Mutex
	seq       int
	files     map[string][]byte
	UploadErr error
	DeleteErr error
	Deleted   []string
}

// NewMemoryStorage crea un almacén vacío.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{files: map[string][]byte{}}
}

func (m *MemoryStorage) Upload(_ context.Context, files []ports.UploadFile) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.UploadErr != nil {
		return nil, m.UploadErr
	}
	urls := make([]string, 0, len(files))
	for _, f := range files {
		m.seq++
		u := fmt.Sprintf("mem://%d/%s", m.seq, f.Name)
		m.files[u] = f.Data
		urls = append(urls, u)
	}
	return urls, nil
}

func (m *MemoryStorage) Delete(_ context.Context, url string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deleted = append(m.Deleted, url)
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	delete(m.files, url)
	return nil
}

// Has indica si url sigue almacenada.
func (m *MemoryStorage) Has(url string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[url]
	return ok
}

// Count número de archivos almacenados.
func (m *MemoryStorage) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

// MemoryKeyCache caché de claves en memoria que cuenta aciertos.
type MemoryKeyCache struct {
	mu   sync.Mutex
	m    map[string]string
	Hits int
	Err  error
}

// NewMemoryKeyCache crea una caché vacía.
func NewMemoryKeyCache() *MemoryKeyCache {
	return &MemoryKeyCache{m: map[string]string{}}
}

func (c *MemoryKeyCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return "", false, c.Err
	}
	id, ok := c.m[key]
	if ok {
		c.Hits++
	}
	return id, ok, nil
}

func (c *MemoryKeyCache) Set(_ context.Context, key, orgID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.m[key] = orgID
	return nil
}
