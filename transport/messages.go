package transport

import "github.com/AjayThorve/MRC/types"

// RegisterWorkersRequest registers one or more UCX worker addresses for
// the calling process, binding them to the originating stream.
type RegisterWorkersRequest struct {
	Addresses []string
}

// RegisterWorkersResponse reports the instance ids allocated for each
// address in the request, in request order, plus the server's
// process-lifetime machine id.
type RegisterWorkersResponse struct {
	InstanceIDs []types.InstanceID
	MachineID   uint64
}

// CreateSubscriptionServiceRequest creates (or validates the equivalence
// of) a named subscription service with a fixed role set.
type CreateSubscriptionServiceRequest struct {
	ServiceName string
	Roles       []string
}

// RegisterSubscriptionServiceRequest registers InstanceID (previously
// allocated by a RegisterWorkers call on this same stream) as a member
// of Role and a subscriber of every role in SubscribeToRoles, within the
// named service.
type RegisterSubscriptionServiceRequest struct {
	ServiceName      string
	InstanceID       types.InstanceID
	Role             string
	SubscribeToRoles []string
}

// RegisterSubscriptionServiceResponse echoes the allocated tag for a
// successful RegisterSubscriptionServiceRequest.
type RegisterSubscriptionServiceResponse struct {
	ServiceName string
	Role        string
	Tag         types.Tag
	InstanceID  types.InstanceID
}

// DropFromSubscriptionServiceRequest removes tag from the named
// service's roles.
type DropFromSubscriptionServiceRequest struct {
	ServiceName string
	Tag         types.Tag
}

// UpdateEntry is one (tag, instance_id) pair within a
// SubscriptionServiceUpdate.
type UpdateEntry struct {
	Tag        types.Tag
	InstanceID types.InstanceID
}

// SubscriptionServiceUpdate is the server-initiated diffusion message
// for one role's membership snapshot.
type SubscriptionServiceUpdate struct {
	ServiceName string
	RoleName    string
	Nonce       uint64
	Entries     []UpdateEntry
}
