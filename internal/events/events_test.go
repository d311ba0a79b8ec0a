package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishDeliversInOrder(t *testing.T) {
	d := NewDispatcher()
	var got []string
	d.Subscribe(TicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.TicketID)
		return nil
	})
	d.Subscribe(TicketCreated, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.TicketID)
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: TicketCreated, TicketID: "t-1"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:t-1", "second:t-1"}, got)
}

func TestPublishStopsOnHandlerError(t *testing.T) {
	d := NewDispatcher()
	boom := errors.New("boom")
	calls := 0
	d.Subscribe(TicketDeleted, func(context.Context, Event) error {
		calls++
		return boom
	})
	d.Subscribe(TicketDeleted, func(context.Context, Event) error {
		calls++
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: TicketDeleted, TicketID: "t-1"})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestPublishFillsIDAndTimestamp(t *testing.T) {
	d := NewDispatcher()
	var seen Event
	d.Subscribe(TicketAssigned, func(_ context.Context, e Event) error {
		seen = e
		return nil
	})

	require.NoError(t, d.Publish(context.Background(), Event{Type: TicketAssigned, TicketID: "t-1"}))
	assert.NotEmpty(t, seen.ID)
	assert.False(t, seen.Timestamp.IsZero())
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: TicketUnassigned}))
}
