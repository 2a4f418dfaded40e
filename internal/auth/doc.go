// Package auth provides authentication and authorization for the admin API.
//
// Admins authenticate in one of two ways:
//   - local accounts sign in with username, argon2id password and an
//     optional TOTP passcode, the server keeps a session cookie
//   - BaaS users send their access token as a bearer token, its subject
//     must be linked to an admin record
//
// Authorization is role based with a static mapping: super_admin holds every
// permission, support may view the dashboard and users.
//
// Example usage:
//
//	authService := auth.NewService(db, auth.NewTokenVerifier(secret, "authenticated"), auth.NewLocalProvider(db, "HabitAdmin"))
//
//	app.Get("/api/admin/users",
//	    auth.RequirePermission(authService, auth.PermUsersView),
//	    handler,
//	)
package auth
