package main

import (
	"github.com/orderpilot/orderpilot/internal/engine"
	"github.com/orderpilot/orderpilot/internal/model"
)

// eventRecord is one captured host event in the JSONL bridge format
// consumed by the run and replay commands.
type eventRecord struct {
	Type            string      `json:"type"` // "notification" or "screen"
	Package         string      `json:"package"`
	TimestampMillis int64       `json:"timestamp_millis"`
	Title           string      `json:"title,omitempty"`
	Body            string      `json:"body,omitempty"`
	Kind            string      `json:"kind,omitempty"`
	Tree            *nodeRecord `json:"tree,omitempty"`
}

// nodeRecord mirrors model.UINode for JSON decoding.
type nodeRecord struct {
	Text        string        `json:"text,omitempty"`
	Description string        `json:"description,omitempty"`
	ResourceID  string        `json:"resource_id,omitempty"`
	ClassName   string        `json:"class_name,omitempty"`
	Clickable   bool          `json:"clickable,omitempty"`
	Children    []*nodeRecord `json:"children,omitempty"`
}

func (n *nodeRecord) toModel() *model.UINode {
	if n == nil {
		return nil
	}
	node := &model.UINode{
		Text:        n.Text,
		Description: n.Description,
		ResourceID:  n.ResourceID,
		ClassName:   n.ClassName,
		Clickable:   n.Clickable,
	}
	for _, child := range n.Children {
		node.Children = append(node.Children, child.toModel())
	}
	return node
}

// dispatchEvent feeds one record into the coordinator.
func dispatchEvent(coordinator *engine.Coordinator, rec eventRecord) {
	switch rec.Type {
	case "screen":
		kind := model.ScreenEventContentChanged
		if rec.Kind == string(model.ScreenEventWindowChanged) {
			kind = model.ScreenEventWindowChanged
		}
		coordinator.OnScreenEvent(rec.Package, kind, rec.Tree.toModel(), rec.TimestampMillis, nil)
	default:
		coordinator.OnNotificationEvent(rec.Package, rec.Title, rec.Body, rec.TimestampMillis)
	}
}
