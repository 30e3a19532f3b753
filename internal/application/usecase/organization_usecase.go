package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/testimonios-api/internal/application/dto"
	"github.com/jhoicas/testimonios-api/internal/domain"
	"github.com/jhoicas/testimonios-api/internal/domain/entity"
	"github.com/jhoicas/testimonios-api/internal/domain/repository"
	"github.com/jhoicas/testimonios-api/internal/domain/visibility"
	"github.com/jhoicas/testimonios-api/pkg/textnorm"
	"github.com/rs/zerolog"
)

// accessKeyAttempts intentos de generación de clave ante colisión.
const accessKeyAttempts = 5

// OrganizationUseCase aplica reglas de negocio para organizaciones.
type OrganizationUseCase struct {
	repo     repository.OrganizationRepository
	userRepo repository.UserRepository
	newKey   func() (string, error)
	log      zerolog.Logger
}

// NewOrganizationUseCase construye el caso de uso con los puertos de persistencia.
func NewOrganizationUseCase(repo repository.OrganizationRepository, userRepo repository.UserRepository, log zerolog.Logger) *OrganizationUseCase {
	return &OrganizationUseCase{repo: repo, userRepo: userRepo, newKey: randomKey, log: log}
}

// WithKeyGenerator reemplaza el generador de claves de acceso (tests).
func (uc *OrganizationUseCase) WithKeyGenerator(gen func() (string, error)) *OrganizationUseCase {
	uc.newKey = gen
	return uc
}

func randomKey() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// Create crea una organización (solo admin). Genera la clave de acceso y reintenta si colisiona.
func (uc *OrganizationUseCase) Create(ctx context.Context, caller visibility.Caller, in dto.CreateOrganizationRequest) (*dto.OrganizationResponse, error) {
	if !caller.IsAdmin() {
		return nil, domain.Denied("solo un admin puede crear organizaciones")
	}
	name, dom, err := cleanOrganization(in.Name, in.Domain)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	org := &entity.Organization{
		ID:        uuid.New().String(),
		Name:      name,
		Domain:    dom,
		CreatedAt: now,
		UpdatedAt: now,
	}
	for attempt := 1; ; attempt++ {
		key, err := uc.newKey()
		if err != nil {
			return nil, fmt.Errorf("generar api_key: %w", err)
		}
		org.AccessKey = key
		err = uc.repo.Create(ctx, org)
		if err == nil {
			break
		}
		if !isAccessKeyConflict(err) || attempt >= accessKeyAttempts {
			return nil, err
		}
		uc.log.Warn().Int("attempt", attempt).Msg("colisión de api_key, regenerando")
	}
	return toOrganizationResponse(org, visibility.ProjectionFull), nil
}

func isAccessKeyConflict(err error) bool {
	return errors.Is(err, domain.ErrUniquenessConflict) && domain.FieldOf(err) == "api_key"
}

// GetByID obtiene una organización con la proyección que corresponde al llamador.
// Fuera de su alcance es PermissionDenied, no NotFound.
func (uc *OrganizationUseCase) GetByID(ctx context.Context, caller visibility.Caller, id string) (*dto.OrganizationResponse, error) {
	org, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := visibility.CanReadOrganization(caller, org); err != nil {
		return nil, err
	}
	return toOrganizationResponse(org, visibility.OrganizationProjection(caller, org)), nil
}

// List lista las organizaciones visibles para el llamador.
func (uc *OrganizationUseCase) List(ctx context.Context, caller visibility.Caller, page dto.PageRequest) (*dto.OrganizationListResponse, error) {
	page.DefaultPage()
	filter, projection := visibility.OrganizationScope(caller)
	filter.Limit, filter.Offset = page.Limit, page.Offset
	list, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.OrganizationResponse, 0, len(list))
	for _, o := range list {
		items = append(items, *toOrganizationResponse(o, projection))
	}
	return &dto.OrganizationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// Update modifica nombre y/o dominio. La clave de acceso y la fecha de registro son inmutables.
func (uc *OrganizationUseCase) Update(ctx context.Context, caller visibility.Caller, id string, in dto.UpdateOrganizationRequest) (*dto.OrganizationResponse, error) {
	org, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := visibility.CanManageOrganization(caller, org); err != nil {
		return nil, err
	}
	name, dom := org.Name, org.Domain
	if in.Name != nil {
		name = *in.Name
	}
	if in.Domain != nil {
		dom = *in.Domain
	}
	if org.Name, org.Domain, err = cleanOrganization(name, dom); err != nil {
		return nil, err
	}
	org.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, org); err != nil {
		return nil, err
	}
	return toOrganizationResponse(org, visibility.ProjectionFull), nil
}

// AddEditors añade editores a la organización. Cada usuario debe tener hoy el rol editor.
func (uc *OrganizationUseCase) AddEditors(ctx context.Context, caller visibility.Caller, id string, in dto.MembershipRequest) (*dto.OrganizationResponse, error) {
	return uc.addMembers(ctx, caller, id, in.UserIDs, entity.RoleEditor, uc.repo.AddEditors)
}

// AddVisitors añade visitantes a la organización. Cada usuario debe tener hoy el rol visitante.
func (uc *OrganizationUseCase) AddVisitors(ctx context.Context, caller visibility.Caller, id string, in dto.MembershipRequest) (*dto.OrganizationResponse, error) {
	return uc.addMembers(ctx, caller, id, in.UserIDs, entity.RoleVisitor, uc.repo.AddVisitors)
}

func (uc *OrganizationUseCase) addMembers(
	ctx context.Context,
	caller visibility.Caller,
	id string,
	userIDs []string,
	role entity.Role,
	add func(ctx context.Context, orgID string, userIDs []string) error,
) (*dto.OrganizationResponse, error) {
	org, err := uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := visibility.CanManageOrganization(caller, org); err != nil {
		return nil, err
	}
	ids := dedupe(userIDs)
	if len(ids) == 0 {
		return nil, domain.Invalid("user_ids", "debe indicar al menos un usuario")
	}
	users, err := uc.userRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	found := make(map[string]*entity.User, len(users))
	for _, u := range users {
		found[u.ID] = u
	}
	for _, uid := range ids {
		u, ok := found[uid]
		if !ok {
			return nil, domain.Invalid("user_ids", fmt.Sprintf("usuario %s no existe", uid))
		}
		if u.Role() != role {
			return nil, domain.Invalid("user_ids", fmt.Sprintf("el usuario %s no tiene el rol %s", u.Username, role))
		}
	}
	if err := add(ctx, org.ID, ids); err != nil {
		return nil, err
	}
	org, err = uc.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return toOrganizationResponse(org, visibility.ProjectionFull), nil
}

func (uc *OrganizationUseCase) get(ctx context.Context, id string) (*entity.Organization, error) {
	org, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org == nil {
		return nil, domain.ErrNotFound
	}
	return org, nil
}

func cleanOrganization(name, rawDomain string) (string, string, error) {
	name = textnorm.Clean(name)
	if name == "" {
		return "", "", domain.Invalid("organizacion_nombre", "el nombre es obligatorio")
	}
	if len(name) > 200 {
		return "", "", domain.Invalid("organizacion_nombre", "el nombre no puede superar 200 caracteres")
	}
	dom, err := textnorm.Domain(rawDomain)
	if err != nil {
		return "", "", domain.Invalid("dominio", err.Error())
	}
	return name, dom, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func toOrganizationResponse(o *entity.Organization, p visibility.Projection) *dto.OrganizationResponse {
	if o == nil {
		return nil
	}
	resp := &dto.OrganizationResponse{
		ID:     o.ID,
		Name:   o.Name,
		Domain: o.Domain,
	}
	if p == visibility.ProjectionFull {
		created := o.CreatedAt
		resp.AccessKey = o.AccessKey
		resp.EditorIDs = append([]string{}, o.EditorIDs...)
		resp.VisitorIDs = append([]string{}, o.VisitorIDs...)
		resp.CreatedAt = &created
	}
	return resp
}
