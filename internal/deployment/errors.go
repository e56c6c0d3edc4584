package deployment

import "errors"

var (
	// ErrConnectivity marks an unreachable endpoint or malformed network data.
	ErrConnectivity = errors.New("chain endpoint unreachable")
	// ErrTemplateNotFound marks a template that is unknown or not compiled.
	ErrTemplateNotFound = errors.New("contract template not found")
	// ErrSubmission marks a creation transaction that was rejected before inclusion,
	// including constructor arguments that do not match the template ABI.
	ErrSubmission = errors.New("contract creation submission failed")
	// ErrConfirmation marks a submitted transaction that was not confirmed. Chain state
	// is indeterminate and must be verified manually.
	ErrConfirmation = errors.New("contract creation not confirmed")
	// ErrHandleNotConfirmed is returned when an address is read from a pending handle.
	ErrHandleNotConfirmed = errors.New("deployment handle is not confirmed")
)
