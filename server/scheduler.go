package server

import (
	"time"

	"github.com/AjayThorve/MRC/subscription"
	"github.com/AjayThorve/MRC/transport"
)

// updateLoop is the update scheduler: it wakes on a fixed period or on
// requestWake, and on each wake diffuses every subscription service's
// pending membership changes to their subscribers.
func (s *Server) updateLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.UpdatePeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.issueUpdates()
		case <-s.wakeCh:
			s.issueUpdates()
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) issueUpdates() {
	s.mu.Lock()
	services := make([]*subscription.Service, 0, len(s.services))
	for _, svc := range s.services {
		services = append(services, svc)
	}
	s.mu.Unlock()

	start := time.Now()
	dirtyRoles := 0
	for _, svc := range services {
		dirtyRoles += svc.IssueUpdate(s.onDiffusionFailure)
	}
	s.metrics.RecordUpdateTick(dirtyRoles, time.Since(start).Seconds())
}

// onDiffusionFailure implements the control plane's tolerance for partial
// diffusion failure: the write is logged and the subscriber's stream is
// scheduled for cleanup on the dispatch loop, without aborting the
// diffusion pass in progress.
func (s *Server) onDiffusionFailure(sub subscription.Subscriber, serviceName, roleName string, err error) {
	s.metrics.RecordDiffusionFailure(serviceName, roleName)

	client, ok := sub.(clientSubscriber)
	if !ok {
		s.logger.Warn("diffusion failed for unknown subscriber type", "error", err)
		return
	}
	s.logger.Warn("diffusion write failed, scheduling stream for cleanup",
		"service", serviceName, "role", roleName,
		"instanceID", client.instance.InstanceID, "streamID", client.instance.StreamID, "error", err)

	select {
	case s.eventCh <- inboundEvent{
		streamID: client.instance.StreamID,
		event:    transport.Event{Type: transport.EventClientStreamDisconnect},
	}:
	default:
		// Event queue full: the stream will still be caught on its next
		// failed write or on its own Recv error.
	}
}
