package seed

type moduleSeed struct {
	Name        string
	DisplayName string
	Description string
	Icon        string
	Permissions []permissionSeed
}

type permissionSeed struct {
	Name        string
	Description string
}

type roleSeed struct {
	Name        string
	Description string
	// Permissions lists permission names; nil means every seeded permission.
	Permissions []string
}

func crud(module, label string) []permissionSeed {
	return []permissionSeed{
		{module + ".view", "View " + label},
		{module + ".create", "Create " + label},
		{module + ".update", "Update " + label},
		{module + ".delete", "Delete " + label},
	}
}

var modules = []moduleSeed{
	{"users", "Users", "User management module", "mdi-account-multiple", crud("users", "users")},
	{"roles", "Roles", "Role management module", "mdi-security", crud("roles", "roles")},
	{"permissions", "Permissions", "Permission management module", "mdi-lock-multiple", crud("permissions", "permissions")},
	{"modules", "Modules", "Module management module", "mdi-view-module", crud("modules", "modules")},
	{"dashboard", "Dashboard", "Dashboard module", "mdi-home-dashboard", []permissionSeed{
		{"dashboard.view", "View dashboard"},
	}},
	{"profile", "Profile", "User profile module", "mdi-account", []permissionSeed{
		{"profile.view", "View own profile"},
		{"profile.update", "Update own profile"},
		{"profile.updatePassword", "Update own password"},
	}},
	{"audit", "Audit", "Audit trail module", "mdi-history", []permissionSeed{
		{"audit.view", "View audit logs"},
	}},
}

var selfService = []string{"dashboard.view", "profile.view", "profile.update", "profile.updatePassword"}

var roles = []roleSeed{
	{Name: "admin", Description: "Full access"},
	{Name: "moderator", Description: "Manages users", Permissions: append([]string{
		"users.view", "users.update", "roles.view", "permissions.view",
	}, selfService...)},
	{Name: "user", Description: "Standard account", Permissions: append([]string{
		"users.view", "roles.view", "permissions.view",
	}, selfService...)},
	{Name: "guest", Description: "Read-only account", Permissions: []string{"dashboard.view", "profile.view"}},
}
