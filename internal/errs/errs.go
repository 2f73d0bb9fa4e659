package errs

import "errors"

// Domain sentinel errors, mapped to HTTP status codes in handlers.
var (
	ErrRoomNotFound = errors.New("room not found")
	ErrSongNotFound = errors.New("song not found")
	ErrForbidden    = errors.New("caller is not the room owner")

	ErrInvalidStatus = errors.New("invalid song status")

	// Store-level uniqueness violations; the room service retries or resolves these.
	ErrPinInUse           = errors.New("pin already in use by an active room")
	ErrOwnerHasActiveRoom = errors.New("owner already has an active room")
	ErrPinSpaceExhausted  = errors.New("could not allocate a free pin")

	ErrInvalidToken = errors.New("invalid or expired token")

	ErrSearchUnavailable = errors.New("video search unavailable")
	ErrSearchRateLimited = errors.New("video search rate limited")
)
