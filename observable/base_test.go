package observable

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turbot/tailpipe-plugin-excel/events"
)

func TestBase_NotifyObservers(t *testing.T) {
	var b Base
	var received []events.Event
	require.NoError(t, b.AddObserver(ObserverFunc(func(_ context.Context, e events.Event) error {
		received = append(received, e)
		return nil
	})))
	failing := errors.New("sink closed")
	require.NoError(t, b.AddObserver(ObserverFunc(func(context.Context, events.Event) error {
		return failing
	})))

	err := b.NotifyObservers(context.Background(), events.NewStartedEvent("exec", 3))

	assert.ErrorIs(t, err, failing)
	require.Len(t, received, 1)
	assert.Equal(t, 3, received[0].(*events.Started).FileCount)
}

func TestBase_AddObserverRejectsNil(t *testing.T) {
	var b Base
	assert.Error(t, b.AddObserver(nil))
}
