package screen

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpilot/orderpilot/internal/model"
)

func acceptTree(buttonText string) *model.UINode {
	return &model.UINode{
		ClassName: "android.widget.FrameLayout",
		Children: []*model.UINode{
			{
				ClassName: "android.widget.LinearLayout",
				Children: []*model.UINode{
					{Text: "Order #4521", ClassName: "android.widget.TextView"},
					{Text: buttonText, Clickable: true, ClassName: "android.widget.Button"},
				},
			},
		},
	}
}

func screenEvent(platform model.Platform, root *model.UINode, kind model.ScreenEventKind) model.ScreenEvent {
	return model.ScreenEvent{
		Platform:   platform,
		Kind:       kind,
		Root:       root,
		ObservedAt: time.Now(),
	}
}

func TestMatcher_LocateByExactText(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)
	ev := screenEvent(model.PlatformSwiggy, acceptTree("Accept Order"), model.ScreenEventWindowChanged)

	node, found := matcher.LocateAcceptControl(context.Background(), ev)
	require.True(t, found)
	assert.Equal(t, "Accept Order", node.Text)
}

func TestMatcher_LocateBySubstring(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)
	// Not an exact vocabulary entry, so only the substring BFS strategy
	// can find it.
	ev := screenEvent(model.PlatformSwiggy, acceptTree("Tap to Accept now"), model.ScreenEventWindowChanged)

	node, found := matcher.LocateAcceptControl(context.Background(), ev)
	require.True(t, found)
	assert.Equal(t, "Tap to Accept now", node.Text)
}

func TestMatcher_NonClickableTextIgnored(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)
	root := &model.UINode{
		Children: []*model.UINode{
			{Text: "Accept Order", Clickable: false},
		},
	}
	ev := screenEvent(model.PlatformSwiggy, root, model.ScreenEventWindowChanged)

	_, found := matcher.LocateAcceptControl(context.Background(), ev)
	assert.False(t, found)
}

func TestMatcher_LocateByResourceID(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)
	root := &model.UINode{
		Children: []*model.UINode{
			{ResourceID: "in.swiggy.deliveryapp:id/accept_button", Clickable: true},
		},
	}
	ev := screenEvent(model.PlatformSwiggy, root, model.ScreenEventWindowChanged)

	node, found := matcher.LocateAcceptControl(context.Background(), ev)
	require.True(t, found)
	assert.Equal(t, "in.swiggy.deliveryapp:id/accept_button", node.ResourceID)
}

func TestMatcher_NotFoundOnEmptyTree(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)
	ev := screenEvent(model.PlatformSwiggy, nil, model.ScreenEventWindowChanged)

	_, found := matcher.LocateAcceptControl(context.Background(), ev)
	assert.False(t, found)
}

type fakeVisual struct {
	confidence float64
	err        error
	calls      int
}

func (f *fakeVisual) ClassifyAcceptControl(_ context.Context, _ []byte) (float64, error) {
	f.calls++
	return f.confidence, f.err
}

func TestMatcher_VisualFallback(t *testing.T) {
	tests := []struct {
		err        error
		name       string
		confidence float64
		wantFound  bool
	}{
		{name: "confident match accepted", confidence: 0.9, wantFound: true},
		{name: "below threshold rejected", confidence: 0.5, wantFound: false},
		{name: "classifier error degrades to not found", err: errors.New("model unavailable"), wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visual := &fakeVisual{confidence: tt.confidence, err: tt.err}
			matcher := NewMatcher(DefaultConfig(), visual)

			// Tree has a clickable node but no matching text or id, so
			// only the visual strategy can find anything.
			root := &model.UINode{
				Children: []*model.UINode{
					{ClassName: "android.widget.Button", Clickable: true},
				},
			}
			ev := screenEvent(model.PlatformSwiggy, root, model.ScreenEventWindowChanged)
			ev.Screenshot = []byte{0x89, 0x50}

			node, found := matcher.LocateAcceptControl(context.Background(), ev)
			assert.Equal(t, tt.wantFound, found)
			if tt.wantFound {
				assert.NotNil(t, node)
			}
			assert.Equal(t, 1, visual.calls)
		})
	}
}

func TestMatcher_CacheHitWithinWindow(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)
	ev := screenEvent(model.PlatformSwiggy, acceptTree("Accept Order"), model.ScreenEventContentChanged)

	_, found := matcher.LocateAcceptControl(context.Background(), ev)
	require.True(t, found)
	require.Equal(t, int64(1), matcher.traversals.Load())

	// Identical content-changed event inside the window must not
	// traverse again.
	_, found = matcher.LocateAcceptControl(context.Background(), ev)
	require.True(t, found)
	assert.Equal(t, int64(1), matcher.traversals.Load())
}

func TestMatcher_WindowChangeBypassesCache(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)
	content := screenEvent(model.PlatformSwiggy, acceptTree("Accept Order"), model.ScreenEventContentChanged)
	window := screenEvent(model.PlatformSwiggy, acceptTree("Accept Order"), model.ScreenEventWindowChanged)

	matcher.LocateAcceptControl(context.Background(), content)
	matcher.LocateAcceptControl(context.Background(), window)

	assert.Equal(t, int64(2), matcher.traversals.Load())
}

func TestMatcher_CacheExpires(t *testing.T) {
	config := DefaultConfig()
	config.CacheWindow = 10 * time.Millisecond
	matcher := NewMatcher(config, nil)
	ev := screenEvent(model.PlatformSwiggy, acceptTree("Accept Order"), model.ScreenEventContentChanged)

	matcher.LocateAcceptControl(context.Background(), ev)
	time.Sleep(20 * time.Millisecond)
	matcher.LocateAcceptControl(context.Background(), ev)

	assert.Equal(t, int64(2), matcher.traversals.Load())
}

func TestMatcher_DetectConfirmation(t *testing.T) {
	matcher := NewMatcher(DefaultConfig(), nil)

	dialog := &model.UINode{
		Children: []*model.UINode{
			{
				ClassName: "android.app.Dialog",
				Children: []*model.UINode{
					{Text: "Are you sure?"},
					{Text: "Confirm", Clickable: true},
				},
			},
		},
	}
	ev := screenEvent(model.PlatformSwiggy, dialog, model.ScreenEventWindowChanged)

	assert.True(t, matcher.DetectConfirmation(ev))
	confirm := matcher.FindConfirmControl(ev)
	require.NotNil(t, confirm)
	assert.Equal(t, "Confirm", confirm.Text)
}

func TestMatcher_ConfirmationDepthBounded(t *testing.T) {
	config := DefaultConfig()
	config.ConfirmMaxDepth = 2
	matcher := NewMatcher(config, nil)

	// Bury the confirm control below the depth bound.
	deep := &model.UINode{Text: "Confirm", Clickable: true}
	root := deep
	for i := 0; i < 5; i++ {
		root = &model.UINode{Children: []*model.UINode{root}}
	}
	ev := screenEvent(model.PlatformSwiggy, root, model.ScreenEventWindowChanged)

	assert.False(t, matcher.DetectConfirmation(ev))
}

func TestMatcher_TraversalBudget(t *testing.T) {
	config := DefaultConfig()
	config.MaxTraversal = 10
	matcher := NewMatcher(config, nil)

	// Wide flat tree with the accept button past the node budget.
	root := &model.UINode{}
	for i := 0; i < 50; i++ {
		root.Children = append(root.Children, &model.UINode{Text: "filler"})
	}
	root.Children = append(root.Children, &model.UINode{Text: "Accept Order", Clickable: true})

	ev := screenEvent(model.PlatformSwiggy, root, model.ScreenEventWindowChanged)
	_, found := matcher.LocateAcceptControl(context.Background(), ev)
	assert.False(t, found)
}
