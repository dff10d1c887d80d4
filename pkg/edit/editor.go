package edit

import (
	"github.com/PlanLab/plancad/pkg/detect"
	"github.com/PlanLab/plancad/pkg/interact"
	"github.com/PlanLab/plancad/pkg/plan"
)

// Config tunes the editor's transaction checks.
type Config struct {
	// Tolerance is the endpoint-merge tolerance used by graph mutations.
	Tolerance float64
	// Detect configures room re-derivation after every mutation.
	Detect *detect.Config
	// MinRoomArea is the advisory minimum room area in mm²; smaller rooms
	// commit with a warning.
	MinRoomArea float64
	// MinRoomDimension is the advisory minimum room bounding dimension in
	// mm.
	MinRoomDimension float64
}

// DefaultConfig returns the stock editing settings. The advisory minimums
// follow the common habitable-room guideline of 2.0 m² and 900 mm.
func DefaultConfig() *Config {
	return &Config{
		Tolerance:        plan.CoarseTolerance,
		Detect:           detect.DefaultConfig(),
		MinRoomArea:      2_000_000,
		MinRoomDimension: 900,
	}
}

// Validate normalizes out-of-range settings in place.
func (c *Config) Validate() error {
	if c.Tolerance <= 0 {
		c.Tolerance = plan.CoarseTolerance
	}
	if c.Detect == nil {
		c.Detect = detect.DefaultConfig()
	}
	if c.MinRoomArea <= 0 {
		c.MinRoomArea = 2_000_000
	}
	if c.MinRoomDimension <= 0 {
		c.MinRoomDimension = 900
	}
	return nil
}

// Result reports what one transaction did.
type Result struct {
	// Applied is false when the command was rejected; the plan and
	// selection are then unchanged.
	Applied bool
	// Violations lists the human-readable reasons a rejected command was
	// rolled back.
	Violations []string
	// Warnings lists advisory findings on a committed edit.
	Warnings []string
}

// snapshot pairs a plan with the selection active when it was current, so
// undo restores both together.
type snapshot struct {
	plan *plan.Plan
	sel  interact.Selection
}

// Editor owns the current plan snapshot, the selection, and the undo/redo
// stacks. All mutation goes through Do.
type Editor struct {
	cfg     *Config
	current snapshot
	undo    []snapshot
	redo    []snapshot
}

// NewEditor wraps a plan. Rooms are re-derived immediately so the editor
// never starts from stale room state. A nil config uses the defaults.
func NewEditor(p *plan.Plan, cfg *Config) *Editor {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	cfg.Validate()
	if p == nil {
		p = &plan.Plan{}
	}
	cur := p.Clone()
	cur.Walls = plan.RebuildWallAdjacency(cur.Walls, cfg.Tolerance)
	cur.Rooms = detect.DetectRooms(cur.Walls, cfg.Detect)
	return &Editor{
		cfg:     cfg,
		current: snapshot{plan: cur, sel: interact.NewSelection()},
	}
}

// Plan returns the current plan snapshot. Callers must treat it as
// read-only; it is the same snapshot concurrent readers may hold.
func (e *Editor) Plan() *plan.Plan {
	return e.current.plan
}

// Selection returns the current selection.
func (e *Editor) Selection() interact.Selection {
	return e.current.sel
}

// SetSelection records a selection change. Selection changes are not
// undoable edits on their own, but undo restores the selection that was
// active with the restored plan.
func (e *Editor) SetSelection(sel interact.Selection) {
	e.current.sel = sel.Clone()
}

// Do runs one command as a transaction: apply to a clone, re-derive rooms,
// validate, and either commit (pushing the previous snapshot onto the undo
// stack) or roll back leaving plan and selection untouched.
func (e *Editor) Do(cmd Command) Result {
	walls, err := cmd.Apply(e.current.plan.Walls, e.cfg.Tolerance)
	if err != nil {
		return Result{Violations: []string{cmd.Name() + ": " + err.Error()}}
	}

	next := &plan.Plan{
		Name:  e.current.plan.Name,
		Walls: walls,
		Rooms: detect.DetectRooms(walls, e.cfg.Detect),
	}

	violations, warnings := Validate(next, e.cfg)
	if len(violations) > 0 {
		return Result{Violations: violations}
	}

	e.undo = append(e.undo, snapshot{plan: e.current.plan, sel: e.current.sel.Clone()})
	e.redo = nil
	e.current.plan = next
	return Result{Applied: true, Warnings: warnings}
}

// CanUndo reports whether an undo step exists.
func (e *Editor) CanUndo() bool { return len(e.undo) > 0 }

// CanRedo reports whether a redo step exists.
func (e *Editor) CanRedo() bool { return len(e.redo) > 0 }

// Undo restores the previous snapshot, selection included.
func (e *Editor) Undo() bool {
	if len(e.undo) == 0 {
		return false
	}
	e.redo = append(e.redo, e.current)
	e.current = e.undo[len(e.undo)-1]
	e.undo = e.undo[:len(e.undo)-1]
	return true
}

// Redo reapplies the most recently undone snapshot.
func (e *Editor) Redo() bool {
	if len(e.redo) == 0 {
		return false
	}
	e.undo = append(e.undo, e.current)
	e.current = e.redo[len(e.redo)-1]
	e.redo = e.redo[:len(e.redo)-1]
	return true
}
