package server

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AjayThorve/MRC/internal/clientregistry"
	"github.com/AjayThorve/MRC/subscription"
	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

// inboundEvent pairs an accepted event with the stream id it arrived on.
type inboundEvent struct {
	streamID types.StreamID
	event    transport.Event
}

// Server is the control-plane event dispatcher and update scheduler: it
// accepts client streams, classifies and dispatches their requests under
// a single global mutex, and periodically diffuses subscription-service
// membership updates.
//
// Thread safety: all public methods are safe for concurrent use. All
// state mutation happens on the single dispatch-loop goroutine; mu
// serializes that goroutine against the update-scheduler goroutine, the
// only other writer.
type Server struct {
	cfg      Config
	acceptor Acceptor

	logger  types.Logger
	metrics types.MetricsCollector
	hooks   *types.Hooks

	machineID uint64

	registry *clientregistry.Registry

	// mu guards services: the registry and role/subscriber tables police
	// their own concurrency internally, but the services map itself (adds
	// of brand new service names) and the scheduler's walk over it must
	// not race with a handler inserting a new entry.
	mu       sync.Mutex
	services map[string]*subscription.Service

	eventCh chan inboundEvent
	wakeCh  chan struct{}

	nextStreamID      atomic.Uint64
	nextCorrelationID atomic.Uint64

	streamsMu sync.Mutex
	streams   map[types.StreamID]transport.Stream

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	started atomic.Bool
}

// New constructs a Server. cfg is defaulted and validated; addressStore
// (if supplied via WithAddressStore) backs UCX address persistence.
func New(cfg Config, acceptor Acceptor, opts ...Option) (*Server, error) {
	if acceptor == nil {
		return nil, fmt.Errorf("server: acceptor is required")
	}

	SetDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrInvalidConfig, err)
	}

	options := defaultOptions()
	for _, opt := range opts {
		opt(&options)
	}
	cfg.ValidateWithWarnings(options.logger)

	machineID := options.machineID
	if machineID == 0 {
		machineID = rand.Uint64() //nolint:gosec // not security sensitive, just a process-lifetime echo id
	}

	s := &Server{
		cfg:       cfg,
		acceptor:  acceptor,
		logger:    options.logger,
		metrics:   options.metrics,
		hooks:     options.hooks,
		machineID: machineID,
		registry:  clientregistry.New(options.addressStore),
		services:  make(map[string]*subscription.Service),
		eventCh:   make(chan inboundEvent, cfg.EventQueueSize),
		wakeCh:    make(chan struct{}, 1),
		streams:   make(map[types.StreamID]transport.Stream),
	}
	return s, nil
}

// Start begins accepting streams and dispatching events. It returns once
// the accept loop, dispatch loop and update scheduler are all running.
func (s *Server) Start(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return types.ErrAlreadyStarted
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())
	_ = ctx // startup timeout is the caller's concern; no blocking work to bound here

	s.wg.Add(3)
	go s.acceptLoop()
	go s.dispatchLoop()
	go s.updateLoop()

	s.logger.Info("server started", "listenAddress", s.cfg.ListenAddress, "machineID", s.machineID)
	return nil
}

// Stop cancels the server's context, which ends the accept, read, dispatch
// and update loops, and waits for every goroutine to exit or ctx to expire.
// Events still queued are discarded and no final diffusion pass runs.
func (s *Server) Stop(ctx context.Context) error {
	if !s.started.CompareAndSwap(true, false) {
		return types.ErrNotStarted
	}

	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("server stopped gracefully")
		return nil
	case <-ctx.Done():
		s.logger.Error("shutdown timeout exceeded, some goroutines may still be running")
		return ctx.Err()
	}
}

// MachineID returns the server's process-lifetime machine id.
func (s *Server) MachineID() uint64 { return s.machineID }

func (s *Server) acceptLoop() {
	defer s.wg.Done()
	for {
		stream, err := s.acceptor.Accept(s.ctx)
		if err != nil {
			if s.ctx.Err() != nil {
				return
			}
			s.logger.Warn("accept failed", "error", err)
			continue
		}

		s.streamsMu.Lock()
		if s.cfg.MaxConcurrentStreams > 0 && len(s.streams) >= s.cfg.MaxConcurrentStreams {
			s.streamsMu.Unlock()
			s.logger.Warn("rejecting stream, max concurrent streams reached", "limit", s.cfg.MaxConcurrentStreams)
			_ = stream.Close()
			continue
		}
		streamID := types.StreamID(s.nextStreamID.Add(1))
		s.streams[streamID] = stream
		s.streamsMu.Unlock()
		s.registry.BindStream(streamID, stream)

		s.wg.Add(1)
		go s.readLoop(streamID, stream)
	}
}

func (s *Server) readLoop(streamID types.StreamID, stream transport.Stream) {
	defer s.wg.Done()
	for {
		event, err := stream.Recv(s.ctx)
		if err != nil {
			select {
			case s.eventCh <- inboundEvent{streamID: streamID, event: transport.Event{Type: transport.EventClientStreamDisconnect}}:
			case <-s.ctx.Done():
			}
			return
		}
		select {
		case s.eventCh <- inboundEvent{streamID: streamID, event: event}:
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) dispatchLoop() {
	defer s.wg.Done()
	for {
		select {
		case in := <-s.eventCh:
			s.metrics.RecordQueueDepth(len(s.eventCh))
			s.handle(in)
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Server) handle(in inboundEvent) {
	if in.event.Type == transport.EventClientStreamDisconnect {
		s.handleStreamDisconnect(in.streamID)
		return
	}

	switch payload := in.event.Payload.(type) {
	case transport.RegisterWorkersRequest:
		s.dispatch(in, "RegisterWorkers", func() (any, error) { return s.handleRegisterWorkers(in.streamID, payload) })
	case transport.CreateSubscriptionServiceRequest:
		s.dispatch(in, "CreateSubscriptionService", func() (any, error) { return s.handleCreateSubscriptionService(payload) })
	case transport.RegisterSubscriptionServiceRequest:
		s.dispatch(in, "RegisterSubscriptionService", func() (any, error) { return s.handleRegisterSubscriptionService(payload) })
	case transport.DropFromSubscriptionServiceRequest:
		s.dispatch(in, "DropFromSubscriptionService", func() (any, error) { return s.handleDropFromSubscriptionService(payload) })
	default:
		code, message := classifyError(fmt.Errorf("dispatch: %w", types.ErrUnexpectedMessageType))
		s.replyError(in.streamID, in.event.CorrelationID, code, message)
	}
}

// dispatch runs handler, times it, records metrics, and writes the
// resulting response or error back to the originating stream.
func (s *Server) dispatch(in inboundEvent, eventType string, handler func() (any, error)) {
	start := time.Now()
	response, err := handler()
	success := err == nil
	s.metrics.RecordEventHandled(eventType, time.Since(start).Seconds(), success)

	if err != nil {
		if s.hooks.OnError != nil {
			go func() {
				if hookErr := s.hooks.OnError(s.ctx, err); hookErr != nil {
					s.logger.Warn("error hook error", "error", hookErr)
				}
			}()
		}

		// Tag-space exhaustion inside an already-registered service is an
		// invariant violation, not client misuse: per the hard-failure
		// path it takes the whole server down rather than just failing
		// this one request.
		if errors.Is(err, types.ErrTagExhausted) {
			s.shutdownWithError(err)
			return
		}

		code, message := classifyError(err)
		s.replyError(in.streamID, in.event.CorrelationID, code, message)
		return
	}
	s.replyResponse(in.streamID, in.event.CorrelationID, response)
}

func classifyError(err error) (types.ErrorCode, string) {
	switch {
	case errors.Is(err, types.ErrDuplicateUCXAddress):
		return types.ErrCodeDuplicateUCXAddress, err.Error()
	case errors.Is(err, types.ErrInvalidRole):
		return types.ErrCodeInvalidRole, err.Error()
	case errors.Is(err, types.ErrTagExhausted):
		return types.ErrCodeTagExhausted, err.Error()
	case errors.Is(err, types.ErrServiceMismatch):
		return types.ErrCodeServiceMismatch, err.Error()
	default:
		return types.ErrCodeInstanceError, err.Error()
	}
}

func (s *Server) replyResponse(streamID types.StreamID, correlationID uint64, payload any) {
	writer, ok := s.registry.StreamWriter(streamID)
	if !ok {
		s.logger.Warn("reply response dropped", "streamID", streamID, "error", fmt.Errorf("stream %d: %w", streamID, types.ErrStreamNotFound))
		return
	}
	event := transport.Event{CorrelationID: correlationID, Type: transport.EventResponse, Payload: payload}
	if err := writer.Send(s.ctx, event); err != nil {
		s.logger.Warn("response write failed, dropping stream", "streamID", streamID, "error", err)
		s.handleStreamDisconnect(streamID)
	}
}

func (s *Server) replyError(streamID types.StreamID, correlationID uint64, code types.ErrorCode, message string) {
	writer, ok := s.registry.StreamWriter(streamID)
	if !ok {
		s.logger.Warn("reply error dropped", "streamID", streamID, "error", fmt.Errorf("stream %d: %w", streamID, types.ErrStreamNotFound))
		return
	}
	event := transport.Event{
		CorrelationID: correlationID,
		Type:          transport.EventError,
		Payload:       transport.Error{Code: code, Message: message},
	}
	if err := writer.Send(s.ctx, event); err != nil {
		s.logger.Warn("error write failed, dropping stream", "streamID", streamID, "error", err)
		s.handleStreamDisconnect(streamID)
	}
}

// requestWake asks the update scheduler to run a diffusion pass before
// its next timeout instead of waiting out the full period.
func (s *Server) requestWake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// shutdownWithError performs the hard-failure path: send every open
// stream an InstanceError, then cancel the server's root context.
// Never os.Exit or panic, so the failure stays surfaceable to callers.
func (s *Server) shutdownWithError(cause error) {
	s.logger.Error("fatal error, shutting down", "error", cause)

	s.streamsMu.Lock()
	streamIDs := make([]types.StreamID, 0, len(s.streams))
	for id := range s.streams {
		streamIDs = append(streamIDs, id)
	}
	s.streamsMu.Unlock()

	for _, id := range streamIDs {
		s.replyError(id, 0, types.ErrCodeInstanceError, cause.Error())
	}
	s.cancel()
}
