package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/application/usecase"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/testutil"
)

func TestCategoria_CrearYListar(t *testing.T) {
	store := testutil.NewStore()
	uc := usecase.NewCategoryUseCase(store.Categories())
	ctx := context.Background()

	_, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: "Servicio", Color: "#1f6feb"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Atención"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "servicio"})
	assert.ErrorIs(t, err, domain.ErrUniquenessConflict)
	_, err = uc.Create(ctx, dto.CreateCategoryRequest{Name: "Color", Color: "azul"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Atención", list[0].Name)
}
