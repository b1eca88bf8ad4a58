package auth

import "errors"

// Authentication and authorization errors. Handlers map these to HTTP
// statuses; the service layer never speaks HTTP.
var (
	// ErrTempleRequired is returned when a non-master login or a
	// registration arrives without a temple id.
	ErrTempleRequired = errors.New("temple selection required")
	// ErrTempleNotFound is returned when the referenced temple does not exist.
	ErrTempleNotFound = errors.New("temple not found")
	// ErrTempleInactive is returned when the temple exists but is inactive;
	// inactive temples block login and registration regardless of
	// credential validity.
	ErrTempleInactive = errors.New("temple is inactive")
	// ErrInvalidCredentials is returned for unknown users or wrong passwords.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrPendingApproval is returned when the account exists but has not
	// been approved by a temple admin yet.
	ErrPendingApproval = errors.New("account pending approval")
	// ErrEmailAlreadyExists is returned on a global email uniqueness
	// violation.
	ErrEmailAlreadyExists = errors.New("email already registered")
	// ErrForbidden is returned when the caller's role does not permit the
	// operation.
	ErrForbidden = errors.New("access denied")
	// ErrUserNotFound is returned when the target user does not exist.
	ErrUserNotFound = errors.New("user not found")
)
