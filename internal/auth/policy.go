package auth

import "mangapanel/pkg/models"

// Operation names a guarded (resource, action) pair.
type Operation string

const (
	OpMangaCreate Operation = "manga.create"
	OpMangaRead   Operation = "manga.read"
	OpMangaUpdate Operation = "manga.update"
	OpMangaDelete Operation = "manga.delete"
	OpUserRead    Operation = "user.read"
	OpUserUpdate  Operation = "user.update"
	OpUserDelete  Operation = "user.delete"
)

// policy is the single authorization table. Route middleware and handlers
// both consult it, so the route gate and the in-handler re-check can never
// drift apart.
var policy = map[Operation][]models.Role{
	OpMangaCreate: {models.RoleAdmin, models.RoleEditor, models.RoleKurucu},
	OpMangaRead:   {models.RoleAdmin, models.RoleEditor, models.RoleKurucu},
	OpMangaUpdate: {models.RoleAdmin, models.RoleEditor, models.RoleKurucu},
	OpMangaDelete: {models.RoleAdmin, models.RoleKurucu},
	OpUserRead:    {models.RoleAdmin},
	OpUserUpdate:  {models.RoleAdmin},
	OpUserDelete:  {models.RoleAdmin},
}

// Allowed reports whether role may perform op.
func Allowed(op Operation, role models.Role) bool {
	for _, r := range policy[op] {
		if r == role {
			return true
		}
	}
	return false
}
