package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpilot/orderpilot/internal/model"
)

func feedEvent(observedAt time.Time) model.ScreenEvent {
	return model.ScreenEvent{
		Platform:   model.PlatformSwiggy,
		Kind:       model.ScreenEventContentChanged,
		Root:       &model.UINode{},
		ObservedAt: observedAt,
	}
}

func TestScreenFeed_SnapshotEmpty(t *testing.T) {
	feed := newScreenFeed()
	_, ok := feed.snapshot()
	assert.False(t, ok)
}

func TestScreenFeed_AwaitReturnsFreshSnapshot(t *testing.T) {
	feed := newScreenFeed()
	feed.update(feedEvent(time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	ev, _, err := feed.await(ctx, time.Second)
	require.NoError(t, err)
	assert.Equal(t, model.PlatformSwiggy, ev.Platform)
}

func TestScreenFeed_AwaitSkipsStaleSnapshot(t *testing.T) {
	feed := newScreenFeed()
	feed.update(feedEvent(time.Now().Add(-time.Minute)))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, _, err := feed.await(ctx, time.Second)
	assert.Error(t, err)
}

func TestScreenFeed_AwaitWakesOnUpdate(t *testing.T) {
	feed := newScreenFeed()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	go func() {
		time.Sleep(20 * time.Millisecond)
		feed.update(feedEvent(time.Now()))
	}()

	ev, _, err := feed.await(ctx, time.Second)
	require.NoError(t, err)
	assert.NotNil(t, ev.Root)
}

func TestScreenFeed_AwaitNewerHonorsContext(t *testing.T) {
	feed := newScreenFeed()
	feed.update(feedEvent(time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, seen, err := feed.await(ctx, time.Second)
	require.NoError(t, err)

	cancelled, cancel2 := context.WithCancel(context.Background())
	cancel2()
	assert.Error(t, feed.awaitNewer(cancelled, seen))
}

func TestScreenFeed_AwaitNewerSeesUpdateBeforeWait(t *testing.T) {
	feed := newScreenFeed()
	feed.update(feedEvent(time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, seen, err := feed.await(ctx, time.Second)
	require.NoError(t, err)

	// An update that lands between await and awaitNewer must not be
	// missed even though it replaced the notification channel.
	feed.update(feedEvent(time.Now()))

	require.NoError(t, feed.awaitNewer(ctx, seen))
}

func TestScreenFeed_AwaitNewerWakesOnLaterUpdate(t *testing.T) {
	feed := newScreenFeed()
	feed.update(feedEvent(time.Now()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, seen, err := feed.await(ctx, time.Second)
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		feed.update(feedEvent(time.Now()))
	}()

	require.NoError(t, feed.awaitNewer(ctx, seen))
}
