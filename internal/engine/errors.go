package engine

import "errors"

var (
	ErrGroupNotFound        = errors.New("invariant group not found")
	ErrAccountNotFound      = errors.New("cloud account not found")
	ErrEvaluationInProgress = errors.New("evaluation already in progress")
	ErrCredentials          = errors.New("resolve credentials")
)

// IsNotFound reports a missing group or account.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrGroupNotFound) || errors.Is(err, ErrAccountNotFound)
}
