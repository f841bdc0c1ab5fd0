package user

import "errors"

// Domain errors.
var (
	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountSuspended   = errors.New("account suspended")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")

	// Admin errors
	ErrInvalidRole      = errors.New("invalid user role")
	ErrInvalidStatus    = errors.New("invalid user status")
	ErrCannotModifySelf = errors.New("admins cannot change their own role or status")
)
