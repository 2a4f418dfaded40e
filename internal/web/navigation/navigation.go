// Package navigation builds the admin menu a signed in admin may see.
package navigation

import (
	"slices"

	"github.com/habitrack/habit-admin/internal/auth"
)

// Section is one entry of the admin menu.
type Section struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	API        string `json:"api"`
	Permission string `json:"-"`
}

// Sections lists the menu in display order.
var Sections = []Section{ //nolint:gochecknoglobals
	{ID: "dashboard", Title: "Dashboard", API: "/api/admin/dashboard", Permission: auth.PermDashboardView},
	{ID: "users", Title: "Users", API: "/api/admin/users", Permission: auth.PermUsersView},
	{ID: "admins", Title: "Admins", API: "/api/admin/admins", Permission: auth.PermAdminsManage},
	{ID: "challenges", Title: "Challenges", API: "/api/admin/challenges", Permission: auth.PermChallengesManage},
	{ID: "announcements", Title: "Announcements", API: "/api/admin/announcements", Permission: auth.PermAnnouncementsManage},
	{ID: "plans", Title: "Subscription Plans", API: "/api/admin/plans", Permission: auth.PermPlansManage},
	{ID: "settings", Title: "Settings", API: "/api/admin/settings", Permission: auth.PermSettingsManage},
	{ID: "maintenance", Title: "Maintenance", API: "/api/admin/maintenance", Permission: auth.PermMaintenanceManage},
}

// Menu returns the sections whose permission is in perms.
func Menu(perms []string) []Section {
	out := make([]Section, 0, len(Sections))

	for _, s := range Sections {
		if slices.Contains(perms, s.Permission) {
			out = append(out, s)
		}
	}

	return out
}

// Allowed reports whether id names a section reachable with perms.
func Allowed(perms []string, id string) bool {
	return slices.ContainsFunc(Menu(perms), func(s Section) bool { return s.ID == id })
}
