package stream

import (
	"testing"
	"time"

	"codeberg.org/weconnect/server/weconnect/materials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveDelta(t *testing.T, ch <-chan Delta) Delta {
	t.Helper()

	select {
	case d := <-ch:
		return d
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for delta")
		return Delta{}
	}
}

func TestHub_SubscribeReceivesOwnDeltasOnly(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	ch, cancel := hub.Subscribe("owner-1")
	defer cancel()

	other, cancelOther := hub.Subscribe("owner-2")
	defer cancelOther()

	rec := &materials.MaterialRecord{ID: "m1", OwnerID: "owner-1", Title: "Notes"}
	hub.PublishInsert(rec)

	delta := receiveDelta(t, ch)
	assert.Equal(t, EventInsert, delta.EventType)
	require.NotNil(t, delta.New)
	assert.Equal(t, "m1", delta.New.ID)

	select {
	case d := <-other:
		t.Fatalf("owner-2 subscriber received foreign delta: %+v", d)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_DeleteDeltaCarriesOldID(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	ch, cancel := hub.Subscribe("owner-1")
	defer cancel()

	hub.PublishDelete("owner-1", "m7")

	delta := receiveDelta(t, ch)
	assert.Equal(t, EventDelete, delta.EventType)
	assert.Nil(t, delta.New)
	require.NotNil(t, delta.Old)
	assert.Equal(t, "m7", delta.Old.ID)
}

func TestHub_CancelStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	ch, cancel := hub.Subscribe("owner-1")
	cancel()

	// double cancel is safe
	cancel()

	hub.PublishUpdate(&materials.MaterialRecord{ID: "m1", OwnerID: "owner-1"})

	// channel was closed by cancel, so a receive yields the zero value
	// immediately rather than the published delta
	d, ok := <-ch
	assert.False(t, ok)
	assert.Empty(t, d.EventType)
}

func TestHub_PublishAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Shutdown()

	// nothing drains the publish buffer anymore; a burst several times
	// its size must still return, dropping the overflow
	done := make(chan struct{})
	go func() {
		defer close(done)

		for i := 0; i < 1000; i++ {
			hub.PublishUpdate(&materials.MaterialRecord{ID: "m1", OwnerID: "owner-1"})
		}
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publisher blocked after hub shutdown")
	}
}

func TestHub_BuffersDeltasForSlowSubscriber(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	ch, cancel := hub.Subscribe("owner-1")
	defer cancel()

	// publish a burst without draining; the subscriber buffer must hold it.
	// this is what lets a dashboard subscribe before its initial fetch and
	// replay everything afterwards.
	for i := 0; i < 10; i++ {
		hub.PublishUpdate(&materials.MaterialRecord{ID: "m1", OwnerID: "owner-1", Views: int64(i)})
	}

	require.Eventually(t, func() bool {
		return len(ch) == 10
	}, time.Second, 10*time.Millisecond)

	for i := 0; i < 10; i++ {
		delta := receiveDelta(t, ch)
		assert.Equal(t, int64(i), delta.New.Views, "deltas replay in publish order")
	}
}
