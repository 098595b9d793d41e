package httperr

import "errors"

type BusinessError struct {
	Code string
}

func (e BusinessError) Error() string {
	return e.Code
}

func ErrBusiness(code string) error {
	return BusinessError{Code: code}
}

func IsBusiness(err error, code string) bool {
	var be BusinessError
	if errors.As(err, &be) {
		return be.Code == code
	}
	return false
}

// Error kinds. Each is a comparable value so callers can match with
// errors.Is even after fmt.Errorf("...: %w", err) wrapping.
var (
	ErrNotFound          = BusinessError{Code: "not_found"}
	ErrForbidden         = BusinessError{Code: "forbidden"}
	ErrInvalidTransition = BusinessError{Code: "invalid_transition"}
	ErrSlotConflict      = BusinessError{Code: "slot_conflict"}
	ErrConcurrentUpdate  = BusinessError{Code: "concurrent_update"}
	ErrLockTimeout       = BusinessError{Code: "lock_timeout"}
	ErrValidation        = BusinessError{Code: "validation_error"}
	ErrInvalidService    = BusinessError{Code: "invalid_service"}
	ErrAlreadyReviewed   = BusinessError{Code: "already_reviewed"}
	ErrEmptyQueue        = BusinessError{Code: "empty_queue"}
	ErrEmailTaken        = BusinessError{Code: "email_already_exists"}
	ErrBadCredentials    = BusinessError{Code: "invalid_credentials"}
)

// IsRetryable reports whether err is a transient failure the caller may retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConcurrentUpdate) || errors.Is(err, ErrLockTimeout)
}
