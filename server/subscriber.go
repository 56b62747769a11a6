package server

import (
	"context"
	"sync/atomic"

	"github.com/AjayThorve/MRC/internal/clientregistry"
	"github.com/AjayThorve/MRC/subscription"
	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

// clientSubscriber adapts a registered client instance to
// subscription.Subscriber, translating a diffused Update into a
// SubscriptionServiceUpdate event on the instance's stream.
type clientSubscriber struct {
	instance *clientregistry.ClientInstance

	// correlationIDs is shared with the owning Server so every
	// server-initiated push gets a fresh, non-zero id, per the wire
	// contract documented on transport.Event.
	correlationIDs *atomic.Uint64
}

var _ subscription.Subscriber = clientSubscriber{}

func (s clientSubscriber) InstanceID() types.InstanceID {
	return s.instance.InstanceID
}

func (s clientSubscriber) Deliver(update subscription.Update) error {
	entries := make([]transport.UpdateEntry, 0, len(update.Entries))
	for _, e := range update.Entries {
		entries = append(entries, transport.UpdateEntry{Tag: e.Tag, InstanceID: e.InstanceID})
	}
	return s.instance.Writer.Send(context.Background(), transport.Event{
		CorrelationID: s.correlationIDs.Add(1),
		Type:          transport.EventUpdate,
		Payload: transport.SubscriptionServiceUpdate{
			ServiceName: update.ServiceName,
			RoleName:    update.RoleName,
			Nonce:       update.Nonce,
			Entries:     entries,
		},
	})
}
