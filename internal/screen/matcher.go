// Package screen locates accept controls and confirmation dialogs in
// captured UI trees from third-party apps.
package screen

import (
	"context"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/orderpilot/orderpilot/internal/common"
	"github.com/orderpilot/orderpilot/internal/model"
	"github.com/orderpilot/orderpilot/internal/platform"
)

// Config holds matcher tunables.
type Config struct {
	CacheWindow      time.Duration
	MaxTraversal     int // node budget for the BFS strategy
	ConfirmMaxDepth  int // depth bound for confirmation search
	VisualConfidence float64
}

// DefaultConfig returns the stock matcher configuration.
func DefaultConfig() Config {
	return Config{
		CacheWindow:      500 * time.Millisecond,
		MaxTraversal:     500,
		ConfirmMaxDepth:  6,
		VisualConfidence: 0.75,
	}
}

// Matcher finds accept controls and confirmation dialogs using a layered
// strategy chain: literal text, bounded BFS, resource ids, then optional
// visual classification. First hit wins. Any fault during matching
// degrades to not-found; this component never takes down the event loop.
type Matcher struct {
	visual     VisualClassifier
	cache      *recencyCache
	config     Config
	traversals atomic.Int64
}

// NewMatcher creates a matcher. The visual classifier is optional; when
// present it is guarded by a circuit breaker.
func NewMatcher(config Config, visual VisualClassifier) *Matcher {
	m := &Matcher{
		cache:  newRecencyCache(config.CacheWindow),
		config: config,
	}
	if visual != nil {
		m.visual = newBreakerVisual(visual)
	}
	return m
}

// LocateAcceptControl finds the accept control in a screen snapshot.
// Content-changed events may hit the recency cache; window-state changes
// invalidate it and force a fresh analysis.
func (m *Matcher) LocateAcceptControl(ctx context.Context, ev model.ScreenEvent) (node *model.UINode, found bool) {
	defer func() {
		if r := recover(); r != nil {
			common.LogStageError("screen_matcher", common.ErrControlNotFound,
				common.Fields{"platform": ev.Platform, "panic": r})
			node, found = nil, false
		}
	}()

	if ev.Kind == model.ScreenEventWindowChanged {
		m.cache.invalidate(ev.Platform)
	} else if entry, ok := m.cache.get(ev.Platform); ok {
		return entry.node, entry.found
	}

	node, found = m.locate(ctx, ev)
	m.cache.put(ev.Platform, node, found)

	return node, found
}

// locate runs the strategy chain against a snapshot.
func (m *Matcher) locate(ctx context.Context, ev model.ScreenEvent) (*model.UINode, bool) {
	if ev.Root == nil {
		return nil, false
	}

	m.traversals.Add(1)
	controls := platform.Controls(ev.Platform)

	// Strategy 1: exact button text for the platform.
	if node := m.findByText(ev.Root, controls.AcceptTexts, true); node != nil {
		return node, true
	}

	// Strategy 2: bounded BFS over node text and description.
	if node := m.findByText(ev.Root, controls.AcceptTexts, false); node != nil {
		return node, true
	}

	// Strategy 3: known resource identifiers.
	if node := m.findByResourceID(ev.Root, controls.ResourceIDs); node != nil {
		return node, true
	}

	// Strategy 4: visual classification over the screenshot, when wired.
	if node := m.findVisually(ctx, ev); node != nil {
		return node, true
	}

	return nil, false
}

// DetectConfirmation reports whether a post-accept confirmation dialog is
// present, searching the platform's confirmation vocabulary to a bounded
// depth.
func (m *Matcher) DetectConfirmation(ev model.ScreenEvent) (found bool) {
	defer func() {
		if r := recover(); r != nil {
			common.LogStageError("screen_matcher", common.ErrControlNotFound,
				common.Fields{"platform": ev.Platform, "panic": r})
			found = false
		}
	}()

	return m.FindConfirmControl(ev) != nil
}

// FindConfirmControl returns the clickable confirm control when a
// confirmation dialog is present, or nil.
func (m *Matcher) FindConfirmControl(ev model.ScreenEvent) *model.UINode {
	if ev.Root == nil {
		return nil
	}

	controls := platform.Controls(ev.Platform)
	return m.findByTextBounded(ev.Root, controls.ConfirmTexts, m.config.ConfirmMaxDepth)
}

// findByText runs a breadth-first search for a clickable node whose text
// or description matches one of the candidates. Exact mode requires
// equality on the node text; otherwise a case-insensitive substring
// match on text or description suffices. The search stops after the
// configured node budget.
func (m *Matcher) findByText(root *model.UINode, candidates []string, exact bool) *model.UINode {
	visited := 0
	queue := []*model.UINode{root}

	for len(queue) > 0 && visited < m.config.MaxTraversal {
		node := queue[0]
		queue = queue[1:]
		visited++

		if node == nil {
			continue
		}

		if node.Clickable && matchesAny(node, candidates, exact) {
			return node
		}

		queue = append(queue, node.Children...)
	}

	return nil
}

// findByTextBounded is findByText with a depth bound instead of a node
// budget, used for confirmation dialogs which sit near the tree root.
func (m *Matcher) findByTextBounded(root *model.UINode, candidates []string, maxDepth int) *model.UINode {
	type item struct {
		node  *model.UINode
		depth int
	}
	queue := []item{{node: root}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if current.node == nil || current.depth > maxDepth {
			continue
		}

		if current.node.Clickable && matchesAny(current.node, candidates, false) {
			return current.node
		}

		for _, child := range current.node.Children {
			queue = append(queue, item{node: child, depth: current.depth + 1})
		}
	}

	return nil
}

func (m *Matcher) findByResourceID(root *model.UINode, resourceIDs []string) *model.UINode {
	if len(resourceIDs) == 0 {
		return nil
	}

	visited := 0
	queue := []*model.UINode{root}

	for len(queue) > 0 && visited < m.config.MaxTraversal {
		node := queue[0]
		queue = queue[1:]
		visited++

		if node == nil {
			continue
		}

		for _, id := range resourceIDs {
			if node.ResourceID == id {
				return node
			}
		}

		queue = append(queue, node.Children...)
	}

	return nil
}

// findVisually consults the visual classifier as a last resort. The
// classifier only reports presence confidence; the tree carries no
// matching text at this point, so the first actionable node is the best
// available tap target.
func (m *Matcher) findVisually(ctx context.Context, ev model.ScreenEvent) *model.UINode {
	if m.visual == nil || len(ev.Screenshot) == 0 {
		return nil
	}

	confidence, err := m.visual.ClassifyAcceptControl(ctx, ev.Screenshot)
	if err != nil {
		slog.Debug("Visual classification unavailable",
			"platform", ev.Platform,
			"error", err)
		return nil
	}
	if confidence < m.config.VisualConfidence {
		return nil
	}

	return firstClickable(ev.Root)
}

func firstClickable(root *model.UINode) *model.UINode {
	queue := []*model.UINode{root}
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		if node == nil {
			continue
		}
		if node.Clickable {
			return node
		}
		queue = append(queue, node.Children...)
	}
	return nil
}

func matchesAny(node *model.UINode, candidates []string, exact bool) bool {
	text := strings.ToLower(strings.TrimSpace(node.Text))
	desc := strings.ToLower(strings.TrimSpace(node.Description))

	for _, candidate := range candidates {
		want := strings.ToLower(candidate)
		if exact {
			if text == want {
				return true
			}
			continue
		}
		if strings.Contains(text, want) || strings.Contains(desc, want) {
			return true
		}
	}
	return false
}
