package authcore

import "errors"

var (
	// ErrInvalidCredentials is an exported constant or variable used by the authentication engine.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrLockedOut is an exported constant or variable used by the authentication engine.
	ErrLockedOut = errors.New("too many failed attempts")
	// ErrUserNotFound is an exported constant or variable used by the authentication engine.
	ErrUserNotFound = errors.New("user not found")
	// ErrDuplicateIdentity is an exported constant or variable used by the authentication engine.
	ErrDuplicateIdentity = errors.New("username or email already exists")
	// ErrMFANotEnrolled is an exported constant or variable used by the authentication engine.
	ErrMFANotEnrolled = errors.New("mfa enrollment not started")
	// ErrMFACodeInvalid is an exported constant or variable used by the authentication engine.
	ErrMFACodeInvalid = errors.New("invalid mfa code")
	// ErrTokenInvalid is an exported constant or variable used by the authentication engine.
	ErrTokenInvalid = errors.New("invalid token")
	// ErrStoreUnavailable is an exported constant or variable used by the authentication engine.
	ErrStoreUnavailable = errors.New("store unavailable")
	// ErrEngineNotReady is an exported constant or variable used by the authentication engine.
	ErrEngineNotReady = errors.New("engine not initialized")
)
