package server

import (
	"fmt"

	"github.com/AjayThorve/MRC/internal/clientregistry"
	"github.com/AjayThorve/MRC/subscription"
	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

// handleRegisterWorkers is the RegisterWorkers handler:
// validate UCX addresses are unique across the request and against the
// global set, allocate one instance id per address, bind it to
// streamID, and report the server's machine id.
func (s *Server) handleRegisterWorkers(streamID types.StreamID, req transport.RegisterWorkersRequest) (transport.RegisterWorkersResponse, error) {
	if err := checkUniqueRepeatedField(req.Addresses); err != nil {
		return transport.RegisterWorkersResponse{}, fmt.Errorf("register workers: duplicate address in request: %w", types.ErrDuplicateUCXAddress)
	}

	// Claim every address before registering any instance, so a failure
	// partway through leaves no half-registered instance behind.
	instanceIDs := make([]types.InstanceID, 0, len(req.Addresses))
	claimed := make([]string, 0, len(req.Addresses))

	for _, addr := range req.Addresses {
		instanceID := s.registry.NextInstanceID()
		if err := s.registry.ClaimAddress(s.ctx, addr, instanceID); err != nil {
			for _, done := range claimed {
				s.registry.ReleaseAddress(s.ctx, done)
			}
			return transport.RegisterWorkersResponse{}, fmt.Errorf("register workers: %w", err)
		}
		claimed = append(claimed, addr)
		instanceIDs = append(instanceIDs, instanceID)
	}

	writer, _ := s.registry.StreamWriter(streamID)
	for i, addr := range claimed {
		s.registry.RegisterInstance(&clientregistry.ClientInstance{
			InstanceID: instanceIDs[i],
			StreamID:   streamID,
			Writer:     writer,
			UCXAddress: addr,
		})
	}

	if s.hooks.OnInstanceRegistered != nil {
		go func() {
			if err := s.hooks.OnInstanceRegistered(s.ctx, streamID, instanceIDs); err != nil {
				s.logger.Warn("instance registered hook error", "streamID", streamID, "error", err)
			}
		}()
	}
	s.metrics.RecordInstanceCount(s.registry.InstanceCount())

	return transport.RegisterWorkersResponse{InstanceIDs: instanceIDs, MachineID: s.machineID}, nil
}

// handleCreateSubscriptionService is the CreateSubscriptionService
// handler: create the named service if absent, or accept the request as
// a no-op if an equivalent service (same role set) already exists;
// otherwise ServiceMismatch.
func (s *Server) handleCreateSubscriptionService(req transport.CreateSubscriptionServiceRequest) (transport.Ack, error) {
	if err := checkUniqueRepeatedField(req.Roles); err != nil {
		return transport.Ack{}, fmt.Errorf("create subscription service %q: duplicate role name: %w", req.ServiceName, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.services[req.ServiceName]
	if !ok {
		svc, err := subscription.NewService(req.ServiceName, req.Roles)
		if err != nil {
			return transport.Ack{}, fmt.Errorf("create subscription service %q: %w", req.ServiceName, err)
		}
		s.services[req.ServiceName] = svc
		return transport.Ack{}, nil
	}

	if !existing.CompareRoles(req.Roles) {
		return transport.Ack{}, fmt.Errorf("create subscription service %q: %w", req.ServiceName, types.ErrServiceMismatch)
	}
	return transport.Ack{}, nil
}

// handleRegisterSubscriptionService is the RegisterSubscriptionService
// handler: resolve the previously registered instance, register it as a
// member of Role and a subscriber of every role in SubscribeToRoles,
// and echo the allocated tag.
func (s *Server) handleRegisterSubscriptionService(req transport.RegisterSubscriptionServiceRequest) (transport.RegisterSubscriptionServiceResponse, error) {
	svc, err := s.lookupService(req.ServiceName)
	if err != nil {
		return transport.RegisterSubscriptionServiceResponse{}, err
	}

	instance, ok := s.registry.Instance(req.InstanceID)
	if !ok {
		return transport.RegisterSubscriptionServiceResponse{}, fmt.Errorf("register subscription service %q: instance %d: %w", req.ServiceName, req.InstanceID, types.ErrInstanceNotFound)
	}

	tag, err := svc.RegisterInstance(req.InstanceID, req.Role, req.SubscribeToRoles, clientSubscriber{instance: instance, correlationIDs: &s.nextCorrelationID})
	if err != nil {
		return transport.RegisterSubscriptionServiceResponse{}, fmt.Errorf("register subscription service %q: %w", req.ServiceName, err)
	}
	s.requestWake()

	return transport.RegisterSubscriptionServiceResponse{
		ServiceName: req.ServiceName,
		Role:        req.Role,
		Tag:         tag,
		InstanceID:  req.InstanceID,
	}, nil
}

// handleDropFromSubscriptionService is the DropFromSubscriptionService
// handler: resolve the service, drop tag from every role, and wake the
// scheduler so the removal diffuses.
func (s *Server) handleDropFromSubscriptionService(req transport.DropFromSubscriptionServiceRequest) (transport.Ack, error) {
	svc, err := s.lookupService(req.ServiceName)
	if err != nil {
		return transport.Ack{}, err
	}
	if err := svc.DropTag(req.Tag); err != nil {
		return transport.Ack{}, fmt.Errorf("drop from subscription service %q: %w", req.ServiceName, err)
	}
	s.requestWake()
	return transport.Ack{}, nil
}

// handleStreamDisconnect implements the drop-stream cascade, service-first
// then registry-last: drop every instance bound to streamID from every
// subscription service before removing the instance and its UCX address
// from the registry.
func (s *Server) handleStreamDisconnect(streamID types.StreamID) {
	instanceIDs := s.registry.InstancesForStream(streamID)

	s.mu.Lock()
	for _, instanceID := range instanceIDs {
		for _, svc := range s.services {
			svc.DropInstance(instanceID)
		}
	}
	s.mu.Unlock()

	dropped := s.registry.DropStream(s.ctx, streamID)
	s.metrics.RecordStreamDropped(len(dropped))

	s.streamsMu.Lock()
	if stream, ok := s.streams[streamID]; ok {
		_ = stream.Close()
		delete(s.streams, streamID)
	}
	s.streamsMu.Unlock()

	if len(dropped) > 0 {
		s.requestWake()
	}
	if s.hooks.OnStreamDropped != nil {
		go func() {
			if err := s.hooks.OnStreamDropped(s.ctx, streamID); err != nil {
				s.logger.Warn("stream dropped hook error", "streamID", streamID, "error", err)
			}
		}()
	}
}

func (s *Server) lookupService(name string) (*subscription.Service, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	svc, ok := s.services[name]
	if !ok {
		return nil, fmt.Errorf("subscription service %q: %w", name, types.ErrServiceNotFound)
	}
	return svc, nil
}
