package usecase

import (
	"context"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/pkg/textnorm"
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// CategoryUseCase catálogo de categorías: lectura por HTTP, alta desde la CLI.
type CategoryUseCase struct {
	repo repository.CategoryRepository
}

// NewCategoryUseCase construye el caso de uso con el puerto de persistencia.
func NewCategoryUseCase(repo repository.CategoryRepository) *CategoryUseCase {
	return &CategoryUseCase{repo: repo}
}

// List devuelve todas las categorías.
func (uc *CategoryUseCase) List(ctx context.Context) ([]dto.CategoryResponse, error) {
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CategoryResponse, 0, len(list))
	for _, c := range list {
		out = append(out, dto.CategoryResponse{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color})
	}
	return out, nil
}

// Create da de alta una categoría. El nombre es único.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest) (*dto.CategoryResponse, error) {
	name := textnorm.Clean(in.Name)
	if name == "" {
		return nil, domain.Invalid("nombre_categoria", "el nombre es obligatorio")
	}
	if in.Color != "" && !hexColor.MatchString(in.Color) {
		return nil, domain.Invalid("color", "el color debe ser hexadecimal, p.ej. #1f6feb")
	}
	c := &entity.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Icon:      textnorm.Clean(in.Icon),
		Color:     in.Color,
		CreatedAt: time.Now(),
	}
	if err := uc.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{ID: c.ID, Name: c.Name, Icon: c.Icon, Color: c.Color}, nil
}
