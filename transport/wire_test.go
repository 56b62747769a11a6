package transport

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AjayThorve/MRC/types"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []Event{
		{CorrelationID: 1, Type: EventRequest, Payload: RegisterWorkersRequest{Addresses: []string{"ucx://a"}}},
		{CorrelationID: 1, Type: EventResponse, Payload: RegisterWorkersResponse{InstanceIDs: []types.InstanceID{1, 2}, MachineID: 1}},
		{CorrelationID: 2, Type: EventUpdate, Payload: SubscriptionServiceUpdate{
			ServiceName: "demo", RoleName: "sub", Nonce: 2,
			Entries: []UpdateEntry{{Tag: types.NewTag(1, 1), InstanceID: 2}},
		}},
		{CorrelationID: 3, Type: EventError, Payload: Error{Code: types.ErrCodeDuplicateUCXAddress, Message: "ucx://a"}},
	}

	for _, in := range cases {
		data, err := encodeEvent(in)
		require.NoError(t, err)
		out, err := decodeEvent(data)
		require.NoError(t, err)
		assert.Equal(t, in.CorrelationID, out.CorrelationID)
		assert.Equal(t, in.Type, out.Type)
		assert.Equal(t, in.Payload, out.Payload)
	}
}

func TestEncodeEventRejectsUnknownPayload(t *testing.T) {
	_, err := encodeEvent(Event{Payload: struct{ X int }{1}})
	require.Error(t, err)
}

func TestFakeStreamDeliversInOrder(t *testing.T) {
	client, server := NewFakePair()
	defer client.Close()
	defer server.Close()

	ctx := context.Background()
	require.NoError(t, client.Send(ctx, Event{CorrelationID: 1, Payload: Ack{}}))
	require.NoError(t, client.Send(ctx, Event{CorrelationID: 2, Payload: Ack{}}))

	first, err := server.Recv(ctx)
	require.NoError(t, err)
	second, err := server.Recv(ctx)
	require.NoError(t, err)

	assert.Equal(t, uint64(1), first.CorrelationID)
	assert.Equal(t, uint64(2), second.CorrelationID)
}

func TestFakeStreamCloseUnblocksRecv(t *testing.T) {
	client, server := NewFakePair()
	server.Close()

	_, err := server.Recv(context.Background())
	require.Error(t, err)
	_ = client.Close()
}
