package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength longitud mínima de contraseña.
const MinPasswordLength = 8

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro de visitantes y login.
type AuthUseCase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// RegisterVisitor crea una cuenta con rol visitante. Editores y admins solo los crea un admin.
func (uc *AuthUseCase) RegisterVisitor(ctx context.Context, in dto.RegisterRequest) (*dto.UserResponse, error) {
	user, err := NewUser(in.Email, in.Username, in.Password, entity.RoleVisitor)
	if err != nil {
		return nil, err
	}
	existing, err := uc.userRepo.GetByEmail(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("email", "el email ya está registrado")
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(ctx, normalizeEmail(in.Email))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, domain.Denied("la cuenta está desactivada")
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, string(user.Role()), uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Token: token,
		User:  *ToUserResponse(user),
	}, nil
}

// NewUser valida los datos y construye un usuario activo con el rol dado y la contraseña hasheada.
func NewUser(email, username, password string, role entity.Role) (*entity.User, error) {
	email = normalizeEmail(email)
	if _, err := mail.ParseAddress(email); err != nil || email == "" {
		return nil, domain.Invalid("email", "email inválido")
	}
	username = strings.TrimSpace(username)
	if username == "" {
		username = strings.SplitN(email, "@", 2)[0]
	}
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Username:     username,
		PasswordHash: hash,
		IsActive:     true,
		DateJoined:   now,
		UpdatedAt:    now,
	}
	user.AssignRole(role)
	return user, nil
}

// HashPassword valida la longitud mínima y devuelve el hash bcrypt.
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", domain.Invalid("password", "la contraseña debe tener al menos 8 caracteres")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ToUserResponse mapea la entidad a la salida pública.
func ToUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		Role:       string(u.Role()),
		IsActive:   u.IsActive,
		DateJoined: u.DateJoined,
	}
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
