package handler

const (
	// RouterRootPath is the root path inside a route group.
	RouterRootPath = "/"

	// APIPath prefixes every JSON route.
	APIPath = "/api"

	// AdminPath prefixes routes that need a signed in admin.
	AdminPath = APIPath + "/admin"

	// ErrNilDepsMsg is used if app or the shared dependencies are missing.
	ErrNilDepsMsg = "app, config, db or auth service is nil"

	// DefaultPageSize for paginated lists.
	DefaultPageSize = 25

	// MaxPageSize caps the pageSize query parameter.
	MaxPageSize = 100
)
