package ports

import "context"

// OrganizationKeyCache cachea la resolución clave de acceso → id de organización.
// Las claves son inmutables, así que una entrada nunca queda obsoleta salvo que la organización desaparezca.
// Un miss devuelve ("", false, nil).
type OrganizationKeyCache interface {
	Get(ctx context.Context, accessKey string) (orgID string, ok bool, err error)
	Set(ctx context.Context, accessKey, orgID string) error
}
