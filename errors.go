package mrc

import "github.com/AjayThorve/MRC/types"

// Re-export the sentinel errors callers most often need to check with
// errors.Is against a Server's handler responses.
var (
	ErrInvalidConfig         = types.ErrInvalidConfig
	ErrAlreadyStarted        = types.ErrAlreadyStarted
	ErrNotStarted            = types.ErrNotStarted
	ErrListenAddressRequired = types.ErrListenAddressRequired

	ErrInvalidRole      = types.ErrInvalidRole
	ErrEmptyRoleSet     = types.ErrEmptyRoleSet
	ErrServiceMismatch  = types.ErrServiceMismatch
	ErrServiceNotFound  = types.ErrServiceNotFound
	ErrInstanceNotFound = types.ErrInstanceNotFound
	ErrStreamNotFound   = types.ErrStreamNotFound

	ErrDuplicateUCXAddress = types.ErrDuplicateUCXAddress

	ErrSegmentNotFound  = types.ErrSegmentNotFound
	ErrSegmentNotJoined = types.ErrSegmentNotJoined
)
