// Package subscription provides the tagged, role-based discovery mechanism
// that lets registered worker instances learn about each other's tagged
// endpoints as the fleet mutates.
//
// The package includes:
//
//   - Role: members and subscribers for one named role, diffused by nonce
//   - Service: a fixed set of Roles under a service name
//
// A Service is constructed once with its full role set; registrations
// against unknown roles are rejected rather than growing the set.
package subscription
