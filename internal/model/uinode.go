package model

import "time"

// UINode is one node of a captured accessibility tree. Trees are transient
// snapshots of a third-party screen and are never persisted.
type UINode struct {
	Text        string
	Description string
	ResourceID  string
	ClassName   string
	Clickable   bool
	Children    []*UINode
}

// ScreenEventKind distinguishes a genuinely new screen from incremental
// content churn on the current one. Window changes bypass the matcher's
// recency cache; content changes may hit it.
type ScreenEventKind string

// Screen event kinds.
const (
	ScreenEventWindowChanged  ScreenEventKind = "WINDOW_STATE_CHANGED"
	ScreenEventContentChanged ScreenEventKind = "CONTENT_CHANGED"
)

// ScreenEvent is one captured UI-tree snapshot with optional screenshot
// bytes for the visual matching strategy.
type ScreenEvent struct {
	ObservedAt time.Time
	Platform   Platform
	Kind       ScreenEventKind
	Root       *UINode
	Screenshot []byte
}
