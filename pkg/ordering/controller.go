// Package ordering turns drag gestures over a rendered list into a committed
// manual order. The controller works on abstract slots (an id plus a vertical
// bounding box) reported by whatever renders the list, and never touches the
// overlay itself: the caller commits the released order.
package ordering

import (
	"slices"
	"sort"
	"sync"

	"github.com/agentstation/shelf/pkg/catalogs"
	"github.com/agentstation/shelf/pkg/errors"
)

var (
	// ErrDragActive is returned when a drag starts while another is in progress.
	ErrDragActive = errors.New("drag already active")

	// ErrNotDragging is returned by Move and Release outside a drag session.
	ErrNotDragging = errors.New("no active drag")
)

// State is the controller's drag state.
type State int

const (
	// Idle means no drag session is active.
	Idle State = iota
	// Dragging means an item is being dragged.
	Dragging
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Dragging:
		return "dragging"
	default:
		return "idle"
	}
}

// Box is the vertical extent of a rendered item.
type Box struct {
	Top    float64
	Height float64
}

// Mid returns the vertical midpoint of the box.
func (b Box) Mid() float64 {
	return b.Top + b.Height/2
}

// Slot is the rendered position of one item.
type Slot struct {
	ID  catalogs.ID
	Box Box
}

// UniformLayout lays ids out top to bottom in rows of equal height.
func UniformLayout(ids []catalogs.ID, rowHeight float64) []Slot {
	layout := make([]Slot, len(ids))
	for i, id := range ids {
		layout[i] = Slot{ID: id, Box: Box{Top: float64(i) * rowHeight, Height: rowHeight}}
	}
	return layout
}

// Controller is a single drag session state machine: Idle, Dragging, Idle.
// It is safe for concurrent use, but only one session can be active.
type Controller struct {
	mu       sync.Mutex
	state    State
	dragged  catalogs.ID
	snapshot []catalogs.ID
	order    []catalogs.ID
}

// NewController returns an idle controller.
func NewController() *Controller {
	return &Controller{}
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Dragged returns the id being dragged, or "" when idle.
func (c *Controller) Dragged() catalogs.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dragged
}

// Order returns the current visual order.
func (c *Controller) Order() []catalogs.ID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return slices.Clone(c.order)
}

// Begin starts dragging id. The visual order is snapshotted from layout,
// sorted by the top of each slot.
func (c *Controller) Begin(id catalogs.ID, layout []Slot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == Dragging {
		return ErrDragActive
	}
	order := visualOrder(layout)
	if !slices.Contains(order, id) {
		return errors.NewNotFoundError("slot", string(id))
	}

	c.state = Dragging
	c.dragged = id
	c.snapshot = order
	c.order = slices.Clone(order)
	return nil
}

// Move repositions the dragged item for a pointer at pointerY. The item is
// inserted before the non-dragged slot whose midpoint lies the smallest
// positive distance below the pointer, or at the end when no midpoint is
// below it. Repeating a move with the same inputs yields the same order.
func (c *Controller) Move(pointerY float64, layout []Slot) ([]catalogs.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Dragging {
		return nil, ErrNotDragging
	}

	var (
		target catalogs.ID
		best   float64
		found  bool
	)
	for _, slot := range layout {
		if slot.ID == c.dragged || !slices.Contains(c.order, slot.ID) {
			continue
		}
		distance := slot.Box.Mid() - pointerY
		if distance <= 0 {
			continue
		}
		if !found || distance < best {
			target, best, found = slot.ID, distance, true
		}
	}

	rest := make([]catalogs.ID, 0, len(c.order))
	for _, id := range c.order {
		if id != c.dragged {
			rest = append(rest, id)
		}
	}
	at := len(rest)
	if found {
		at = slices.Index(rest, target)
	}
	c.order = slices.Insert(rest, at, c.dragged)
	return slices.Clone(c.order), nil
}

// Release ends the drag and returns the visual order as it stands now.
func (c *Controller) Release() ([]catalogs.ID, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Dragging {
		return nil, ErrNotDragging
	}
	order := slices.Clone(c.order)
	c.reset(order)
	return order, nil
}

// Cancel ends the drag without committing and reverts the visual order to
// the snapshot taken by Begin. It returns the reverted order.
func (c *Controller) Cancel() []catalogs.ID {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != Dragging {
		return slices.Clone(c.order)
	}
	snapshot := c.snapshot
	c.reset(snapshot)
	return slices.Clone(snapshot)
}

func (c *Controller) reset(order []catalogs.ID) {
	c.state = Idle
	c.dragged = ""
	c.snapshot = nil
	c.order = order
}

// visualOrder returns the ids of layout sorted by their top edge.
func visualOrder(layout []Slot) []catalogs.ID {
	sorted := slices.Clone(layout)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Box.Top < sorted[j].Box.Top
	})
	order := make([]catalogs.ID, 0, len(sorted))
	for _, slot := range sorted {
		if !slices.Contains(order, slot.ID) {
			order = append(order, slot.ID)
		}
	}
	return order
}
