package server

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayThorve/MRC/transport"
	"github.com/AjayThorve/MRC/types"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	s, err := New(TestConfig(), NewChannelAcceptor(1))
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
	return s
}

// bindTestStream registers a fake server-side stream under streamID so
// handlers that look up a writer or close a stream have something to
// find.
func bindTestStream(s *Server, streamID types.StreamID) (clientSide *transport.FakeStream) {
	clientSide, serverSide := transport.NewFakePair()
	s.registry.BindStream(streamID, serverSide)
	s.streamsMu.Lock()
	s.streams[streamID] = serverSide
	s.streamsMu.Unlock()
	return clientSide
}

func TestHandleRegisterWorkers(t *testing.T) {
	t.Run("allocates one instance per address", func(t *testing.T) {
		s := newTestServer(t)
		bindTestStream(s, 1)

		resp, err := s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{
			Addresses: []string{"ucx://a", "ucx://b"},
		})
		require.NoError(t, err)
		require.Len(t, resp.InstanceIDs, 2)
		assert.NotEqual(t, resp.InstanceIDs[0], resp.InstanceIDs[1])
		assert.Equal(t, s.machineID, resp.MachineID)
		assert.Equal(t, 2, s.registry.InstanceCount())
	})

	t.Run("duplicate address within the same request is rejected and leaves no partial state", func(t *testing.T) {
		s := newTestServer(t)
		bindTestStream(s, 1)

		_, err := s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{
			Addresses: []string{"ucx://a", "ucx://a"},
		})
		require.ErrorIs(t, err, types.ErrDuplicateUCXAddress)
		assert.Equal(t, 0, s.registry.InstanceCount())
		assert.False(t, s.registry.HasAddress("ucx://a"))
	})

	t.Run("address already claimed by a prior request is rejected and rolls back the rest of the batch", func(t *testing.T) {
		s := newTestServer(t)
		bindTestStream(s, 1)

		_, err := s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{Addresses: []string{"ucx://taken"}})
		require.NoError(t, err)

		_, err = s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{
			Addresses: []string{"ucx://fresh", "ucx://taken"},
		})
		require.ErrorIs(t, err, types.ErrDuplicateUCXAddress)
		assert.False(t, s.registry.HasAddress("ucx://fresh"), "fresh address must be released after the batch fails")
		assert.Equal(t, 1, s.registry.InstanceCount())
	})
}

func TestHandleCreateSubscriptionService(t *testing.T) {
	t.Run("creates a new service", func(t *testing.T) {
		s := newTestServer(t)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"worker", "coordinator"},
		})
		require.NoError(t, err)

		svc, err := s.lookupService("svc")
		require.NoError(t, err)
		assert.True(t, svc.HasRole("worker"))
		assert.True(t, svc.HasRole("coordinator"))
	})

	t.Run("repeat request with equivalent role set is a no-op", func(t *testing.T) {
		s := newTestServer(t)
		req := transport.CreateSubscriptionServiceRequest{ServiceName: "svc", Roles: []string{"a", "b"}}
		_, err := s.handleCreateSubscriptionService(req)
		require.NoError(t, err)

		_, err = s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"b", "a"},
		})
		require.NoError(t, err)
	})

	t.Run("repeat request with a different role set fails with ServiceMismatch", func(t *testing.T) {
		s := newTestServer(t)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"a", "b"},
		})
		require.NoError(t, err)

		_, err = s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"a", "c"},
		})
		require.ErrorIs(t, err, types.ErrServiceMismatch)
	})

	t.Run("duplicate role name in the request is rejected", func(t *testing.T) {
		s := newTestServer(t)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"a", "a"},
		})
		require.Error(t, err)
	})
}

func TestHandleRegisterSubscriptionService(t *testing.T) {
	t.Run("registers a member and subscriber, echoing a tag", func(t *testing.T) {
		s := newTestServer(t)
		bindTestStream(s, 1)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"worker", "coordinator"},
		})
		require.NoError(t, err)

		workers, err := s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{Addresses: []string{"ucx://a"}})
		require.NoError(t, err)
		instanceID := workers.InstanceIDs[0]

		resp, err := s.handleRegisterSubscriptionService(transport.RegisterSubscriptionServiceRequest{
			ServiceName:      "svc",
			InstanceID:       instanceID,
			Role:             "worker",
			SubscribeToRoles: []string{"coordinator"},
		})
		require.NoError(t, err)
		assert.Equal(t, "svc", resp.ServiceName)
		assert.Equal(t, "worker", resp.Role)
		assert.Equal(t, instanceID, resp.InstanceID)
		assert.NotZero(t, resp.Tag)
	})

	t.Run("unknown service", func(t *testing.T) {
		s := newTestServer(t)
		_, err := s.handleRegisterSubscriptionService(transport.RegisterSubscriptionServiceRequest{
			ServiceName: "nope", InstanceID: 1, Role: "worker",
		})
		require.ErrorIs(t, err, types.ErrServiceNotFound)
	})

	t.Run("unknown instance id", func(t *testing.T) {
		s := newTestServer(t)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"worker"},
		})
		require.NoError(t, err)

		_, err = s.handleRegisterSubscriptionService(transport.RegisterSubscriptionServiceRequest{
			ServiceName: "svc", InstanceID: 999, Role: "worker",
		})
		require.ErrorIs(t, err, types.ErrInstanceNotFound)
	})

	t.Run("unknown role", func(t *testing.T) {
		s := newTestServer(t)
		bindTestStream(s, 1)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"worker"},
		})
		require.NoError(t, err)
		workers, err := s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{Addresses: []string{"ucx://a"}})
		require.NoError(t, err)

		_, err = s.handleRegisterSubscriptionService(transport.RegisterSubscriptionServiceRequest{
			ServiceName: "svc", InstanceID: workers.InstanceIDs[0], Role: "nonexistent",
		})
		require.ErrorIs(t, err, types.ErrInvalidRole)
	})
}

func TestHandleDropFromSubscriptionService(t *testing.T) {
	t.Run("drops the tag from every role", func(t *testing.T) {
		s := newTestServer(t)
		bindTestStream(s, 1)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"worker"},
		})
		require.NoError(t, err)
		workers, err := s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{Addresses: []string{"ucx://a"}})
		require.NoError(t, err)
		reg, err := s.handleRegisterSubscriptionService(transport.RegisterSubscriptionServiceRequest{
			ServiceName: "svc", InstanceID: workers.InstanceIDs[0], Role: "worker",
		})
		require.NoError(t, err)

		svc, err := s.lookupService("svc")
		require.NoError(t, err)
		require.Equal(t, 1, svc.TagCount())

		_, err = s.handleDropFromSubscriptionService(transport.DropFromSubscriptionServiceRequest{
			ServiceName: "svc", Tag: reg.Tag,
		})
		require.NoError(t, err)
		assert.Equal(t, 0, svc.TagCount())
	})

	t.Run("unknown service", func(t *testing.T) {
		s := newTestServer(t)
		_, err := s.handleDropFromSubscriptionService(transport.DropFromSubscriptionServiceRequest{ServiceName: "nope"})
		require.ErrorIs(t, err, types.ErrServiceNotFound)
	})

	t.Run("unknown tag", func(t *testing.T) {
		s := newTestServer(t)
		_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
			ServiceName: "svc", Roles: []string{"worker"},
		})
		require.NoError(t, err)

		_, err = s.handleDropFromSubscriptionService(transport.DropFromSubscriptionServiceRequest{
			ServiceName: "svc", Tag: types.NewTag(1, 99),
		})
		require.ErrorIs(t, err, types.ErrTagNotFound)
	})
}

func TestHandleStreamDisconnectCascade(t *testing.T) {
	s := newTestServer(t)
	bindTestStream(s, 1)
	_, err := s.handleCreateSubscriptionService(transport.CreateSubscriptionServiceRequest{
		ServiceName: "svc", Roles: []string{"worker"},
	})
	require.NoError(t, err)
	workers, err := s.handleRegisterWorkers(1, transport.RegisterWorkersRequest{Addresses: []string{"ucx://a"}})
	require.NoError(t, err)
	_, err = s.handleRegisterSubscriptionService(transport.RegisterSubscriptionServiceRequest{
		ServiceName: "svc", InstanceID: workers.InstanceIDs[0], Role: "worker",
	})
	require.NoError(t, err)

	svc, err := s.lookupService("svc")
	require.NoError(t, err)
	require.Equal(t, 1, svc.TagCount())

	s.handleStreamDisconnect(1)

	assert.Equal(t, 0, svc.TagCount(), "stream disconnect must drop the instance from subscription services")
	assert.Equal(t, 0, s.registry.InstanceCount(), "stream disconnect must drop the instance from the registry")
	assert.False(t, s.registry.HasAddress("ucx://a"), "stream disconnect must release the instance's UCX address")

	s.streamsMu.Lock()
	_, stillTracked := s.streams[1]
	s.streamsMu.Unlock()
	assert.False(t, stillTracked)
}
