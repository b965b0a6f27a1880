package errs

// Code ranges: 10xxx authentication, 20xxx note collaboration.
var (
	ErrTokenInvalid = NewCodeError(10001, "authentication failed")
	ErrTokenExpired = NewCodeError(10002, "token expired")
	ErrUserExists   = NewCodeError(10003, "user already exists")
	ErrBadLogin     = NewCodeError(10004, "invalid credentials")

	ErrRoomNotFound  = NewCodeError(20001, "room not found")
	ErrNotAuthorized = NewCodeError(20002, "not an owner or member of this note")
	ErrPersistence   = NewCodeError(20003, "persistence failure")
	ErrBadPayload    = NewCodeError(20004, "malformed payload")
)
