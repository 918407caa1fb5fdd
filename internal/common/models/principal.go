package models

import "sort"

// Grant is the live result of resolving a user's role and effective permission set.
type Grant struct {
	User        User
	Role        Role
	Permissions map[string]struct{}
}

func (g *Grant) Has(permission string) bool {
	_, ok := g.Permissions[permission]
	return ok
}

// PermissionNames returns the effective set in sorted order.
func (g *Grant) PermissionNames() []string {
	names := make([]string, 0, len(g.Permissions))
	for name := range g.Permissions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Principal is attached to the request once a gate allows it.
type Principal struct {
	UserID               string   `json:"userId"`
	Email                string   `json:"email"`
	RoleName             string   `json:"roleName"`
	EffectivePermissions []string `json:"effectivePermissions"`
}

func (g *Grant) Principal() *Principal {
	return &Principal{
		UserID:               g.User.ID.Hex(),
		Email:                g.User.Email,
		RoleName:             g.Role.Name,
		EffectivePermissions: g.PermissionNames(),
	}
}
