package repository

import (
	"context"

	"github.com/jhoicas/testimonios-api/internal/domain/entity"
)

// UserRepository define el puerto de persistencia para User (DIP).
// Create y Update persisten también los grupos; el llamador normaliza antes de guardar.
// Update retira al usuario de las organizaciones en las que su nuevo rol ya no le permite figurar.
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByIDs(ctx context.Context, ids []string) ([]*entity.User, error)
	Update(ctx context.Context, user *entity.User) error
}
