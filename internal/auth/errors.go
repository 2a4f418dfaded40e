package auth

import "errors"

var (
	// ErrInvalidCredentials is returned when username or password do not match.
	// Unknown usernames return it too, so callers can not probe for accounts.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrAdminDisabled is returned when authenticating a deactivated admin.
	ErrAdminDisabled = errors.New("admin account is disabled")

	// ErrTOTPRequired is returned when the admin enrolled two factor login
	// and no passcode was sent.
	ErrTOTPRequired = errors.New("two factor passcode required")

	// ErrInvalidTOTP is returned for a wrong or expired passcode.
	ErrInvalidTOTP = errors.New("invalid two factor passcode")

	// ErrNotLocalAdmin is returned when a BaaS admin tries a local only action.
	ErrNotLocalAdmin = errors.New("action is only available to local admins")

	// ErrUnauthenticated is returned when a request carries neither a valid
	// session nor a valid access token.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrInvalidToken is returned when an access token fails verification.
	ErrInvalidToken = errors.New("invalid access token")

	// ErrTokenAuthDisabled is returned when no token secret is configured.
	ErrTokenAuthDisabled = errors.New("access token authentication is not configured")

	// ErrNotAnAdmin is returned when the token subject has no admin record.
	ErrNotAnAdmin = errors.New("user is not an admin")
)
