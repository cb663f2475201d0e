package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	var received []Event
	dispatcher.Subscribe(EventTicketCreated, func(_ context.Context, event Event) error {
		received = append(received, event)
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{ID: "e1", Type: EventTicketCreated})
	require.NoError(t, err)
	require.Len(t, received, 1)
	assert.Equal(t, "e1", received[0].ID)
}

func TestDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	called := false
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		called = true
		return nil
	})

	require.NoError(t, dispatcher.Publish(context.Background(), Event{Type: EventTicketAssigned}))
	assert.False(t, called)
}

func TestDispatcherHandlerErrorDoesNotStopOthers(t *testing.T) {
	dispatcher := NewInMemoryDispatcher()

	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		return errors.New("handler failed")
	})
	secondCalled := false
	dispatcher.Subscribe(EventTicketCreated, func(context.Context, Event) error {
		secondCalled = true
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketCreated})
	require.NoError(t, err)
	assert.True(t, secondCalled)
}
