package domain

// Error is a rejection of a single operation. Every kind carries a stable code
// that callers may surface verbatim.
type Error struct {
	code    string
	message string
}

func (e *Error) Error() string {
	return e.message
}

// Code returns the stable identifier for the error kind.
func (e *Error) Code() string {
	return e.code
}

var (
	// ErrNotFound indicates the requested podcast, aggregate or vote does not exist.
	ErrNotFound = &Error{code: "ERR_NOT_FOUND", message: "not found"}
	// ErrOwnerOnly indicates the caller is not the owner of the target podcast.
	ErrOwnerOnly = &Error{code: "ERR_OWNER_ONLY", message: "only the owner may modify this podcast"}
	// ErrInvalidRating indicates a rating outside [1,5].
	ErrInvalidRating = &Error{code: "ERR_INVALID_RATING", message: "rating must be between 1 and 5"}
	// ErrAlreadyVoted indicates the caller has already rated the target podcast.
	ErrAlreadyVoted = &Error{code: "ERR_ALREADY_VOTED", message: "caller has already rated this podcast"}
)
