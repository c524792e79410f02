package library

import "github.com/netforge-io/netforge/faults"

func validationError(message string, cause error) error {
	return faults.Validation(message, cause)
}

func notFoundError(message string, cause error) error {
	return faults.NotFound(message, cause)
}

func transportError(message string, cause error) error {
	return faults.Transport(message, cause)
}

func internalError(message string, cause error) error {
	return faults.Internal(message, cause)
}
