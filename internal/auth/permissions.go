package auth

import (
	"slices"

	"github.com/habitrack/habit-admin/internal/db/models"
)

// Permission constants define the available permissions in the system.
// Roles are fixed, each role maps to a static permission set.
const (
	// PermDashboardView allows viewing the dashboard statistics.
	PermDashboardView = "dashboard.view"

	// PermUsersView allows listing app users and viewing their activity.
	PermUsersView = "users.view"
	// PermUsersManage allows banning, unbanning and deleting app users.
	PermUsersManage = "users.manage"

	// PermAdminsManage allows promoting and demoting staff.
	PermAdminsManage = "admins.manage"

	// PermChallengesManage allows creating, editing, deleting and generating challenges.
	PermChallengesManage = "challenges.manage"
	// PermAnnouncementsManage allows sending announcements.
	PermAnnouncementsManage = "announcements.manage"
	// PermPlansManage allows editing subscription plans.
	PermPlansManage = "plans.manage"

	// PermSettingsManage allows editing app_config entries.
	PermSettingsManage = "settings.manage"
	// PermMaintenanceManage allows toggling maintenance mode and the auto challenge schedule.
	PermMaintenanceManage = "maintenance.manage"
)

// AllPermissions lists every permission, super admins hold all of them.
var AllPermissions = []string{ //nolint:gochecknoglobals
	PermDashboardView,
	PermUsersView,
	PermUsersManage,
	PermAdminsManage,
	PermChallengesManage,
	PermAnnouncementsManage,
	PermPlansManage,
	PermSettingsManage,
	PermMaintenanceManage,
}

var rolePermissions = map[models.Role][]string{ //nolint:gochecknoglobals
	models.RoleSuperAdmin: AllPermissions,
	models.RoleSupport:    {PermDashboardView, PermUsersView},
}

// RolePermissions returns a copy of the permissions granted to role.
// Unknown roles get none.
func RolePermissions(role models.Role) []string {
	return slices.Clone(rolePermissions[role])
}

// RoleHasPermission reports whether role grants permission.
func RoleHasPermission(role models.Role, permission string) bool {
	return slices.Contains(rolePermissions[role], permission)
}
