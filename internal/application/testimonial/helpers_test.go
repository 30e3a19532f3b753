package testimonial_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/ports"
	"github.com/jhoicas/testimonios-api/internal/application/testimonial"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/internal/testutil"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type env struct {
	store *testutil.Store
	files *testutil.MemoryStorage
	cache *testutil.MemoryKeyCache
	deps  testimonial.Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := testutil.NewStore()
	files := testutil.NewMemoryStorage()
	cache := testutil.NewMemoryKeyCache()
	return &env{
		store: store,
		files: files,
		cache: cache,
		deps: testimonial.Deps{
			Testimonials:  store.Testimonials(),
			Organizations: store.Organizations(),
			Categories:    store.Categories(),
			Tx:            store,
			Storage:       files,
			KeyCache:      cache,
			Log:           zerolog.Nop(),
		},
	}
}

func strPtr(s string) *string { return &s }

func image(name string) ports.UploadFile {
	return ports.UploadFile{Name: name, ContentType: "image/jpeg", Data: []byte("jpeg-bytes")}
}

func anonymousRequest(org *entity.Organization, name, email string) dto.CreateTestimonialRequest {
	return dto.CreateTestimonialRequest{
		AccessKey:      org.AccessKey,
		Comment:        "Excelente atención",
		Rating:         decimal.RequireFromString("5"),
		AnonymousName:  name,
		AnonymousEmail: email,
	}
}

type testimonialRequest = dto.CreateTestimonialRequest

func anonymousWithKey(key string) dto.CreateTestimonialRequest {
	return dto.CreateTestimonialRequest{
		AccessKey:      key,
		Comment:        "Excelente atención",
		Rating:         decimal.RequireFromString("4"),
		AnonymousName:  "Ana",
		AnonymousEmail: "ana@example.com",
	}
}

func repositoryAll() repository.TestimonialFilter {
	return repository.TestimonialFilter{}
}
