package usecase

import (
	"context"
	"time"

	"github.com/jhoicas/testimonios-api/internal/application/auth"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
	"github.com/rs/zerolog"
)

// UserUseCase acciones administrativas sobre usuarios.
type UserUseCase struct {
	repo repository.UserRepository
	log  zerolog.Logger
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository, log zerolog.Logger) *UserUseCase {
	return &UserUseCase{repo: repo, log: log}
}

// GetByID obtiene un usuario. Cada uno puede verse a sí mismo; un admin ve a cualquiera.
func (uc *UserUseCase) GetByID(ctx context.Context, caller visibility.Caller, id string) (*dto.UserResponse, error) {
	if caller.IsAnonymous() {
		return nil, domain.ErrAuthenticationRequired
	}
	if caller.UserID != id && !caller.IsAdmin() {
		return nil, domain.Denied("solo puede consultar su propio usuario")
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	return auth.ToUserResponse(user), nil
}

// Create da de alta un usuario con cualquier rol (solo admin).
func (uc *UserUseCase) Create(ctx context.Context, caller visibility.Caller, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.Denied("solo un admin puede crear usuarios")
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.Invalid("role", "rol desconocido")
	}
	user, err := auth.NewUser(in.Email, in.Username, in.Password, role)
	if err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("email", "el email ya está registrado")
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("role", string(role)).Str("by", caller.UserID).Msg("usuario creado")
	return auth.ToUserResponse(user), nil
}

// SetRole reemplaza el rol de un usuario (solo admin). Los flags staff/superuser cambian en el mismo guardado.
func (uc *UserUseCase) SetRole(ctx context.Context, caller visibility.Caller, id string, in dto.SetRoleRequest) (*dto.UserResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.Denied("solo un admin puede cambiar roles")
	}
	role, ok := entity.ParseRole(in.Role)
	if !ok {
		return nil, domain.Invalid("role", "rol desconocido")
	}
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrNotFound
	}
	prev := user.Role()
	user.AssignRole(role)
	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	uc.log.Info().Str("user_id", user.ID).Str("from", string(prev)).Str("to", string(role)).Str("by", caller.UserID).Msg("rol actualizado")
	return auth.ToUserResponse(user), nil
}
