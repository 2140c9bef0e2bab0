package domain

type Role string

const (
	RoleCreator Role = "creator"
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleCashier Role = "cashier"
)

func (r Role) Valid() bool {
	switch r {
	case RoleCreator, RoleOwner, RoleManager, RoleCashier:
		return true
	}
	return false
}

// rolePermissions is the static role -> capability table. It is fixed data;
// per-user deviations go through the explicit override list instead.
var rolePermissions = map[Role][]string{
	RoleCreator: {"dashboard_creator", "stores", "all_stats", "create_owner"},
	RoleOwner: {
		"dashboard_owner", "pos", "inventory", "employees", "reports",
		"analytics", "nasiya", "chek", "settings", "finance",
	},
	RoleManager: {
		"dashboard_owner", "pos", "inventory", "nasiya", "reports",
		"chek", "finance",
	},
	RoleCashier: {"pos", "chek"},
}

// RolePermissions returns a copy of the default capability set for a role.
func RolePermissions(r Role) []string {
	defaults := rolePermissions[r]
	out := make([]string, len(defaults))
	copy(out, defaults)
	return out
}

// ResolvePermissions applies the resolution order: a non-empty override
// list is used exactly as given (no merging with role defaults), otherwise
// the role defaults apply.
func ResolvePermissions(r Role, override []string) []string {
	if len(override) > 0 {
		out := make([]string, len(override))
		copy(out, override)
		return out
	}
	return RolePermissions(r)
}

// Principal is an authenticated user with a resolved capability set. It
// lives for the session only and is never persisted.
type Principal struct {
	UserID    string
	Name      string
	Email     string
	Role      Role
	StoreID   string
	StoreName string

	permissions map[string]struct{}
}

func NewPrincipal(userID, name, email string, role Role, storeID, storeName string, override []string) *Principal {
	perms := make(map[string]struct{})
	for _, p := range ResolvePermissions(role, override) {
		perms[p] = struct{}{}
	}
	return &Principal{
		UserID:      userID,
		Name:        name,
		Email:       email,
		Role:        role,
		StoreID:     storeID,
		StoreName:   storeName,
		permissions: perms,
	}
}

// Can reports whether the principal holds the capability. A nil principal
// (unauthenticated) fails every check.
func (p *Principal) Can(capability string) bool {
	if p == nil {
		return false
	}
	_, ok := p.permissions[capability]
	return ok
}

// Permissions returns the resolved capability set, for API responses.
func (p *Principal) Permissions() []string {
	if p == nil {
		return nil
	}
	out := make([]string, 0, len(p.permissions))
	for perm := range p.permissions {
		out = append(out, perm)
	}
	return out
}
