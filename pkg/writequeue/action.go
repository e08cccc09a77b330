// Package writequeue propagates local additions and edits toward a remote
// system of record on a best-effort basis.
//
// Delivery is at most once: every action is attempted a single time and
// dropped on failure after a Notification is raised. There is no retry, no
// persistence across restarts and no acknowledgment back to the local item.
package writequeue

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/agentstation/shelf/pkg/catalogs"
)

// Kind is the remote action type.
type Kind string

const (
	// KindAdd submits a locally added item.
	KindAdd Kind = "add"
	// KindEdit submits an edit of an existing item.
	KindEdit Kind = "edit"
)

// Action is one remote write. Fields carries the edited or added values and
// is flattened into the payload next to the action and id keys.
type Action struct {
	ID        string
	Kind      Kind
	ItemID    catalogs.ID
	Fields    map[string]any
	CreatedAt time.Time
}

// NewAction builds an action with a fresh random id.
func NewAction(kind Kind, itemID catalogs.ID, fields map[string]any) Action {
	return Action{
		ID:        uuid.NewString(),
		Kind:      kind,
		ItemID:    itemID,
		Fields:    fields,
		CreatedAt: time.Now().UTC(),
	}
}

// MarshalJSON renders {"action": ..., "id": ..., <fields>..., "action_id": ...}.
// The reserved keys win over a field with the same name.
func (a Action) MarshalJSON() ([]byte, error) {
	payload := make(map[string]any, len(a.Fields)+3)
	for k, v := range a.Fields {
		payload[k] = v
	}
	payload["action"] = a.Kind
	payload["id"] = a.ItemID
	payload["action_id"] = a.ID
	return json.Marshal(payload)
}

// Writer delivers a single action. Implementations report success or
// failure only; response content is never inspected.
type Writer interface {
	Write(ctx context.Context, action Action) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, action Action) error

// Write calls f.
func (f WriterFunc) Write(ctx context.Context, action Action) error {
	return f(ctx, action)
}

// Notification reports a dropped action.
type Notification struct {
	Action Action
	Err    error
	At     time.Time
}

// Notifier receives notifications. It runs on the queue worker and must not block.
type Notifier func(Notification)
