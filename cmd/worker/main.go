// Command worker is an example control-plane client: it registers a UCX
// worker address, joins a subscription service, and runs a local
// reconciler that converges a small fixed pipeline (two segments joined
// by one manifold) against the control plane's instance id allocation.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/AjayThorve/MRC/internal/logging"
	"github.com/AjayThorve/MRC/reconciler"
	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

func main() {
	natsURL := flag.String("nats-url", nats.DefaultURL, "NATS server URL")
	connectSubject := flag.String("connect-subject", "mrc.connect", "control plane's connect rendezvous subject")
	ucxAddress := flag.String("ucx-address", fmt.Sprintf("ucx://worker-%s", uuid.NewString()[:8]), "UCX address this worker advertises")
	serviceName := flag.String("service", "pipeline-workers", "subscription service name to join")
	role := flag.String("role", "executor", "role to register under within the service")
	flag.Parse()

	logger := logging.NewSlogDefault()

	nc, err := nats.Connect(*natsURL)
	if err != nil {
		log.Fatalf("connect to NATS: %v", err)
	}
	defer nc.Close()

	stream, err := connect(nc, *connectSubject)
	if err != nil {
		log.Fatalf("connect to control plane: %v", err)
	}
	defer stream.Close()

	client := newRequester(stream)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	regResp, err := client.registerWorkers(ctx, []string{*ucxAddress})
	cancel()
	if err != nil {
		log.Fatalf("register workers: %v", err)
	}
	instanceID := regResp.InstanceIDs[0]
	logger.Info("registered", "instanceID", instanceID, "machineID", regResp.MachineID, "ucxAddress", *ucxAddress)

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	err = client.createSubscriptionService(ctx, *serviceName, []string{*role})
	cancel()
	if err != nil {
		log.Fatalf("create subscription service: %v", err)
	}

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	tagResp, err := client.registerSubscriptionService(ctx, *serviceName, instanceID, *role)
	cancel()
	if err != nil {
		log.Fatalf("join subscription service: %v", err)
	}
	logger.Info("joined subscription service", "service", *serviceName, "role", *role, "tag", tagResp.Tag)

	rec := reconciler.New(uint64(instanceID), logger)
	target := localPipelineTarget()
	if _, err := rec.Update(context.Background(), target); err != nil {
		log.Fatalf("reconcile pipeline: %v", err)
	}
	logger.Info("pipeline segments created", "count", len(target.Segments))

	updateCtx, updateCancel := context.WithCancel(context.Background())
	defer updateCancel()
	go watchUpdates(updateCtx, stream, logger)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutting down")
}

// localPipelineTarget describes a fixed two-segment pipeline: a source
// feeding a sink over one manifold port. A real worker would derive this
// from whatever assigns it partitions; here it is static so the example
// has something concrete to converge.
func localPipelineTarget() reconciler.TargetState {
	const port reconciler.PortName = "source-to-sink"
	return reconciler.TargetState{
		Segments: []reconciler.TargetSegment{
			{
				Address:     reconciler.SegmentAddress{Name: "source", PartitionID: 0},
				PartitionID: 0,
				Ports:       []reconciler.PortName{port},
			},
			{
				Address:     reconciler.SegmentAddress{Name: "sink", PartitionID: 0},
				PartitionID: 0,
				Ports:       []reconciler.PortName{port},
			},
		},
	}
}

// watchUpdates drains server-initiated SubscriptionServiceUpdate pushes
// so the stream's receive buffer never backs up while main is blocked
// waiting on the shutdown signal.
func watchUpdates(ctx context.Context, stream *transport.NATSStream, logger types.Logger) {
	for {
		event, err := stream.Recv(ctx)
		if err != nil {
			return
		}
		if update, ok := event.Payload.(transport.SubscriptionServiceUpdate); ok {
			logger.Info("subscription update", "service", update.ServiceName, "role", update.RoleName, "entries", len(update.Entries))
		}
	}
}

// connectRequest mirrors transport's unexported rendezvous payload; the
// two packages agree on wire shape without sharing a type.
type connectRequest struct {
	ClientSubject string `json:"client_subject"`
	ServerSubject string `json:"server_subject"`
}

func connect(nc *nats.Conn, connectSubject string) (*transport.NATSStream, error) {
	suffix := uuid.NewString()
	clientSubject := "mrc.client." + suffix
	serverSubject := "mrc.server." + suffix

	stream, err := transport.NewNATSStream(nc, clientSubject, serverSubject)
	if err != nil {
		return nil, err
	}

	data, err := json.Marshal(connectRequest{ClientSubject: clientSubject, ServerSubject: serverSubject})
	if err != nil {
		_ = stream.Close()
		return nil, err
	}
	if _, err := nc.Request(connectSubject, data, 5*time.Second); err != nil {
		_ = stream.Close()
		return nil, fmt.Errorf("connect rendezvous: %w", err)
	}
	return stream, nil
}

// requester pairs a stream with a correlation id counter so callers can
// issue request/response round trips without hand-managing ids.
type requester struct {
	stream *transport.NATSStream
	nextID atomic.Uint64
}

func newRequester(stream *transport.NATSStream) *requester {
	return &requester{stream: stream}
}

func (r *requester) registerWorkers(ctx context.Context, addresses []string) (transport.RegisterWorkersResponse, error) {
	resp, err := r.roundTrip(ctx, transport.RegisterWorkersRequest{Addresses: addresses})
	if err != nil {
		return transport.RegisterWorkersResponse{}, err
	}
	out, ok := resp.(transport.RegisterWorkersResponse)
	if !ok {
		return transport.RegisterWorkersResponse{}, fmt.Errorf("unexpected response type %T", resp)
	}
	return out, nil
}

func (r *requester) createSubscriptionService(ctx context.Context, serviceName string, roles []string) error {
	_, err := r.roundTrip(ctx, transport.CreateSubscriptionServiceRequest{ServiceName: serviceName, Roles: roles})
	return err
}

func (r *requester) registerSubscriptionService(ctx context.Context, serviceName string, instanceID types.InstanceID, role string) (transport.RegisterSubscriptionServiceResponse, error) {
	resp, err := r.roundTrip(ctx, transport.RegisterSubscriptionServiceRequest{
		ServiceName: serviceName,
		InstanceID:  instanceID,
		Role:        role,
	})
	if err != nil {
		return transport.RegisterSubscriptionServiceResponse{}, err
	}
	out, ok := resp.(transport.RegisterSubscriptionServiceResponse)
	if !ok {
		return transport.RegisterSubscriptionServiceResponse{}, fmt.Errorf("unexpected response type %T", resp)
	}
	return out, nil
}

func (r *requester) roundTrip(ctx context.Context, payload any) (any, error) {
	id := r.nextID.Add(1)
	if err := r.stream.Send(ctx, transport.Event{CorrelationID: id, Type: transport.EventRequest, Payload: payload}); err != nil {
		return nil, err
	}
	for {
		event, err := r.stream.Recv(ctx)
		if err != nil {
			return nil, err
		}
		if event.CorrelationID != id {
			continue
		}
		if event.Type == transport.EventError {
			if e, ok := event.Payload.(transport.Error); ok {
				return nil, e
			}
			return nil, fmt.Errorf("request failed")
		}
		return event.Payload, nil
	}
}
