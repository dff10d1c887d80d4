package interact

import (
	"fmt"

	"github.com/PlanLab/plancad/pkg/geom"
)

// State is one of the pointer machine's interaction states.
type State int

const (
	StateIdle State = iota
	StateHover
	StateBoxSelect
	StateLassoSelect
	StateDragHandle
	StateContextMenu
)

var stateNames = map[State]string{
	StateIdle:        "idle",
	StateHover:       "hover",
	StateBoxSelect:   "box-select",
	StateLassoSelect: "lasso-select",
	StateDragHandle:  "drag-handle",
	StateContextMenu: "context-menu",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// EventKind classifies pointer machine inputs.
type EventKind int

const (
	EventPointerDown EventKind = iota
	EventPointerMove
	EventPointerUp
	EventContextMenu
	EventCancel
)

var eventNames = map[EventKind]string{
	EventPointerDown: "pointer-down",
	EventPointerMove: "pointer-move",
	EventPointerUp:   "pointer-up",
	EventContextMenu: "context-menu",
	EventCancel:      "cancel",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// Button identifies which pointer button an event carries.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
)

// Event is one pointer input. The host converts device pixels to world
// millimeters before building events; Screen keeps the raw pixel position
// only for the drag-promotion threshold, which is screen-space by design.
type Event struct {
	Kind   EventKind
	World  geom.Point
	Screen geom.Point
	Button Button
	// Toggle is set while ctrl/cmd is held: selections merge instead of
	// replacing.
	Toggle bool
	// HandleID names the edit handle under the pointer at pointer-down, as
	// hit-tested by the host; empty when none.
	HandleID string
}

// DragPhase marks the lifecycle of a handle-drag session.
type DragPhase int

const (
	DragStart DragPhase = iota
	DragMove
	DragEnd
	DragCancel
)

// Drag reports one step of a handle-drag session.
type Drag struct {
	HandleID string
	Phase    DragPhase
	World    geom.Point
}

// BoxPreview is the live selection box while a box-select is in progress.
type BoxPreview struct {
	Box  geom.BoundingBox
	Mode BoxMode
}

// Effect is what one event did: the resulting state plus whichever outputs
// the transition produced. All fields other than State are optional.
type Effect struct {
	State            State
	SelectionChanged bool
	Hover            Ref
	Drag             *Drag
	// ContextMenuAt requests the host open a context menu at this world
	// position.
	ContextMenuAt *geom.Point
	BoxPreview    *BoxPreview
	LassoPreview  []geom.Point
}

// Config tunes the pointer machine.
type Config struct {
	// DragThresholdPx promotes a pressed pointer to a box/lasso drag once it
	// moves this many screen pixels.
	DragThresholdPx float64
	// HitRadius is the world-space pick radius for click hit-testing.
	HitRadius float64
	// Lasso switches drag selection from box to freeform lasso.
	Lasso bool
	// Rules controls selection propagation after every selection change.
	Rules PropagationRules
}

// DefaultConfig returns the stock interaction settings.
func DefaultConfig() *Config {
	return &Config{
		DragThresholdPx: 4,
		HitRadius:       80,
		Rules:           DefaultPropagationRules(),
	}
}

// Validate normalizes out-of-range settings in place.
func (c *Config) Validate() error {
	if c.DragThresholdPx <= 0 {
		c.DragThresholdPx = 4
	}
	if c.HitRadius <= 0 {
		c.HitRadius = 80
	}
	return nil
}

// Machine is the finite-state pointer controller. It owns the selection and
// consumes events against the scene snapshot the host passes in; it never
// mutates the scene.
type Machine struct {
	cfg   *Config
	state State
	sel   Selection

	pressed    bool
	downWorld  geom.Point
	downScreen geom.Point
	toggle     bool
	handleID   string
	lasso      []geom.Point
	hover      Ref
}

// NewMachine creates a machine in the idle state. A nil config uses the
// defaults.
func NewMachine(cfg *Config) *Machine {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()
	return &Machine{cfg: cfg, sel: NewSelection()}
}

// State reports the current interaction state.
func (m *Machine) State() State {
	return m.state
}

// Selection returns the current selection.
func (m *Machine) Selection() Selection {
	return m.sel
}

// SetSelection replaces the selection, e.g. after an undo restores an older
// one.
func (m *Machine) SetSelection(sel Selection) {
	m.sel = sel.Clone()
}

// Handle feeds one event through the machine and returns what it did.
func (m *Machine) Handle(sc *Scene, ev Event) Effect {
	switch ev.Kind {
	case EventCancel:
		return m.cancel()
	case EventContextMenu:
		m.reset()
		m.state = StateContextMenu
		at := ev.World
		return Effect{State: m.state, ContextMenuAt: &at}
	case EventPointerDown:
		return m.pointerDown(ev)
	case EventPointerMove:
		return m.pointerMove(sc, ev)
	case EventPointerUp:
		return m.pointerUp(sc, ev)
	default:
		panic(fmt.Sprintf("interact: unhandled event kind %d", int(ev.Kind)))
	}
}

func (m *Machine) pointerDown(ev Event) Effect {
	// Any press closes an open context menu; the press then proceeds
	// normally from idle.
	if m.state == StateContextMenu {
		m.state = StateIdle
	}

	if ev.Button == ButtonSecondary {
		m.reset()
		m.state = StateContextMenu
		at := ev.World
		return Effect{State: m.state, ContextMenuAt: &at}
	}

	if ev.HandleID != "" {
		m.reset()
		m.state = StateDragHandle
		m.handleID = ev.HandleID
		return Effect{State: m.state, Drag: &Drag{HandleID: m.handleID, Phase: DragStart, World: ev.World}}
	}

	m.pressed = true
	m.downWorld = ev.World
	m.downScreen = ev.Screen
	m.toggle = ev.Toggle
	return Effect{State: m.state, Hover: m.hover}
}

func (m *Machine) pointerMove(sc *Scene, ev Event) Effect {
	switch m.state {
	case StateDragHandle:
		return Effect{State: m.state, Drag: &Drag{HandleID: m.handleID, Phase: DragMove, World: ev.World}}

	case StateBoxSelect:
		pv := m.boxPreview(ev)
		return Effect{State: m.state, BoxPreview: &pv}

	case StateLassoSelect:
		m.lasso = append(m.lasso, ev.World)
		return Effect{State: m.state, LassoPreview: m.lasso}

	case StateIdle, StateHover:
		if m.pressed && ev.Screen.Distance(m.downScreen) > m.cfg.DragThresholdPx {
			if m.cfg.Lasso {
				m.state = StateLassoSelect
				m.lasso = []geom.Point{m.downWorld, ev.World}
				return Effect{State: m.state, LassoPreview: m.lasso}
			}
			m.state = StateBoxSelect
			pv := m.boxPreview(ev)
			return Effect{State: m.state, BoxPreview: &pv}
		}
		m.hover = sc.HitTest(ev.World, m.cfg.HitRadius)
		if m.hover.IsZero() {
			m.state = StateIdle
		} else {
			m.state = StateHover
		}
		return Effect{State: m.state, Hover: m.hover}

	case StateContextMenu:
		return Effect{State: m.state}

	default:
		panic(fmt.Sprintf("interact: unhandled state %d", int(m.state)))
	}
}

func (m *Machine) pointerUp(sc *Scene, ev Event) Effect {
	switch m.state {
	case StateDragHandle:
		id := m.handleID
		m.reset()
		m.state = StateIdle
		return Effect{State: m.state, Drag: &Drag{HandleID: id, Phase: DragEnd, World: ev.World}}

	case StateBoxSelect:
		pv := m.boxPreview(ev)
		picked := sc.BoxSelect(pv.Box, pv.Mode)
		return m.commitSelection(sc, picked)

	case StateLassoSelect:
		ring := append(m.lasso, ev.World)
		picked := sc.LassoSelect(ring)
		return m.commitSelection(sc, picked)

	case StateIdle, StateHover:
		if !m.pressed {
			return Effect{State: m.state, Hover: m.hover}
		}
		picked := NewSelection()
		if hit := sc.HitTest(m.downWorld, m.cfg.HitRadius); !hit.IsZero() {
			picked.Add(hit)
		}
		return m.commitSelection(sc, picked)

	case StateContextMenu:
		return Effect{State: m.state}

	default:
		panic(fmt.Sprintf("interact: unhandled state %d", int(m.state)))
	}
}

// commitSelection applies toggle or replace semantics, runs propagation to a
// fixed point, and returns to idle.
func (m *Machine) commitSelection(sc *Scene, picked Selection) Effect {
	toggle := m.toggle
	m.reset()
	m.state = StateIdle

	var next Selection
	if toggle {
		next = m.sel.Clone()
		for _, id := range picked.SortedVertices() {
			next.Toggle(Ref{Level: LevelVertex, ID: id})
		}
		for _, id := range picked.SortedWalls() {
			next.Toggle(Ref{Level: LevelWall, ID: id})
		}
		for _, id := range picked.SortedRooms() {
			next.Toggle(Ref{Level: LevelRoom, ID: id})
		}
	} else {
		next = picked
	}

	m.sel = Propagate(next, sc, m.cfg.Rules)
	return Effect{State: m.state, SelectionChanged: true}
}

// boxPreview derives the live selection box: dragging left-to-right selects
// by containment (window), right-to-left by touch (crossing). Direction is
// judged in screen space.
func (m *Machine) boxPreview(ev Event) BoxPreview {
	bb := geom.NewBoundingBox()
	bb.Expand(m.downWorld)
	bb.Expand(ev.World)
	mode := BoxWindow
	if ev.Screen.X < m.downScreen.X {
		mode = BoxCrossing
	}
	return BoxPreview{Box: bb, Mode: mode}
}

// cancel aborts whatever is in flight and returns to idle with previews
// cleared. Selection is left as is.
func (m *Machine) cancel() Effect {
	var drag *Drag
	if m.state == StateDragHandle {
		drag = &Drag{HandleID: m.handleID, Phase: DragCancel}
	}
	m.reset()
	m.state = StateIdle
	return Effect{State: m.state, Drag: drag}
}

func (m *Machine) reset() {
	m.pressed = false
	m.toggle = false
	m.handleID = ""
	m.lasso = nil
	m.hover = Ref{}
	m.state = StateIdle
}
