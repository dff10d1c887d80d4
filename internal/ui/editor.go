package ui

import (
	"fmt"
	"image"
	"log"
	"os"
	"strings"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"github.com/oligo/gioview/menu"
	"github.com/oligo/gioview/theme"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"github.com/PlanLab/plancad/pkg/edit"
	"github.com/PlanLab/plancad/pkg/frame"
	"github.com/PlanLab/plancad/pkg/geom"
	"github.com/PlanLab/plancad/pkg/interact"
	"github.com/PlanLab/plancad/pkg/plan"
	"github.com/PlanLab/plancad/pkg/planfile"
	"github.com/PlanLab/plancad/pkg/snap"
)

// Tool is the active editing tool.
type Tool int

const (
	ToolSelect Tool = iota
	ToolWall
	ToolRoom
)

var toolNames = map[Tool]string{
	ToolSelect: "select",
	ToolWall:   "wall",
	ToolRoom:   "room",
}

func (t Tool) String() string {
	if name, ok := toolNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Tool(%d)", int(t))
}

// pointerSample is one coalesced pointer position.
type pointerSample struct {
	World  geom.Point
	Screen geom.Point
}

// App drives the interactive plan editor window.
type App struct {
	window  *app.Window
	ops     op.Ops
	gvTheme *theme.Theme

	filename string
	editor   *edit.Editor
	machine  *interact.Machine
	snapper  *snap.Engine
	scene    *interact.Scene

	// Pointer moves are coalesced to one hit-test/snap resolution per frame.
	moves        *frame.Coalescer[pointerSample]
	pendingFlush func()

	camera    *Camera
	fitOnOpen bool

	tool       Tool
	wallAnchor *geom.Point
	roomPts    []geom.Point
	cursor     geom.Point
	lastSnap   snap.Result

	hover        interact.Ref
	boxPreview   *interact.BoxPreview
	lassoPreview []geom.Point
	dragVertexAt *geom.Point

	panning  bool
	panLastX float64
	panLastY float64

	contextMenu  *menu.DropdownMenu
	contextAt    *geom.Point
	contextShown bool
	lassoOn      bool

	selectBtn widget.Clickable
	wallBtn   widget.Clickable
	roomBtn   widget.Clickable
	undoBtn   widget.Clickable
	redoBtn   widget.Clickable
	saveBtn   widget.Clickable
	fitBtn    widget.Clickable

	selectIcon *widget.Icon
	wallIcon   *widget.Icon
	roomIcon   *widget.Icon
	undoIcon   *widget.Icon
	redoIcon   *widget.Icon
	saveIcon   *widget.Icon
	fitIcon    *widget.Icon

	status string
}

// NewApp builds the editor around a loaded plan. filename is where Save
// writes; empty disables saving.
func NewApp(p *plan.Plan, filename string) *App {
	a := &App{
		gvTheme:   theme.NewTheme("", nil, true),
		filename:  filename,
		editor:    edit.NewEditor(p, nil),
		machine:   interact.NewMachine(nil),
		snapper:   snap.NewEngine(nil),
		camera:    NewCamera(1200, 860),
		fitOnOpen: true,
		status:    "ready",
	}
	a.moves = frame.NewCoalescer(a.applyPointerMove, a.scheduleFlush)
	a.rebuildDerived()

	if icon, err := widget.NewIcon(icons.ActionOpenWith); err == nil {
		a.selectIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ContentCreate); err == nil {
		a.wallIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ImageCropSquare); err == nil {
		a.roomIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ContentUndo); err == nil {
		a.undoIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ContentRedo); err == nil {
		a.redoIcon = icon
	}
	if icon, err := widget.NewIcon(icons.ContentSave); err == nil {
		a.saveIcon = icon
	}
	if icon, err := widget.NewIcon(icons.MapsZoomOutMap); err == nil {
		a.fitIcon = icon
	}
	return a
}

// Run opens the editor window and blocks until it closes. Must be called
// from the process main goroutine.
func Run(p *plan.Plan, filename string) error {
	a := NewApp(p, filename)
	go func() {
		w := new(app.Window)
		title := "PlanCAD"
		if filename != "" {
			title += " - " + filename
		}
		w.Option(app.Title(title), app.Size(unit.Dp(1200), unit.Dp(860)))
		if err := a.loop(w); err != nil {
			log.Fatal(err)
		}
		os.Exit(0)
	}()
	app.Main()
	return nil
}

// rebuildDerived refreshes the hit-test scene and snap engine from the
// editor's current plan. Called after every committed edit and undo/redo.
func (a *App) rebuildDerived() {
	p := a.editor.Plan()
	a.scene = interact.NewScene(p.Walls, p.Rooms, plan.CoarseTolerance)
	a.snapper.SetScene(p.Walls)
	a.machine.SetSelection(a.editor.Selection())
}

func (a *App) loop(w *app.Window) error {
	a.window = w
	for {
		switch e := w.Event().(type) {
		case app.DestroyEvent:
			return e.Err

		case app.FrameEvent:
			a.ops.Reset()
			gtx := layout.Context{
				Ops:         &a.ops,
				Constraints: layout.Exact(e.Size),
				Metric:      e.Metric,
				Now:         e.Now,
				Source:      e.Source,
			}
			a.camera.UpdateScreenSize(e.Size.X, e.Size.Y)
			if a.fitOnOpen {
				a.fitView()
				a.fitOnOpen = false
			}

			if f := a.pendingFlush; f != nil {
				a.pendingFlush = nil
				f()
			}

			a.handleKeys(gtx)
			a.handlePointer(gtx)

			paint.Fill(&a.ops, ColorBackground)
			a.renderCanvas(gtx)
			a.layoutChrome(gtx)

			e.Frame(&a.ops)
		}
	}
}

func (a *App) fitView() {
	bb := a.editor.Plan().BoundingBox()
	if bb.IsEmpty() {
		return
	}
	a.camera.Fit(bb)
}

// scheduleFlush defers a coalescer flush to the next frame.
func (a *App) scheduleFlush(run func()) {
	a.pendingFlush = run
	if a.window != nil {
		a.window.Invalidate()
	}
}

func (a *App) handleKeys(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(key.Filter{})
		if !ok {
			break
		}
		ke, ok := ev.(key.Event)
		if !ok || ke.State != key.Press {
			continue
		}
		shortcut := ke.Modifiers.Contain(key.ModShortcut)
		switch {
		case ke.Name == key.NameEscape:
			a.cancelCurrent()
		case ke.Name == key.NameSpace:
			a.fitView()
		case ke.Name == "Z" && shortcut && ke.Modifiers.Contain(key.ModShift):
			a.redo()
		case ke.Name == "Z" && shortcut:
			a.undo()
		case ke.Name == "Y" && shortcut:
			a.redo()
		case ke.Name == "S" && shortcut:
			a.save()
		case ke.Name == key.NameDeleteForward || ke.Name == key.NameDeleteBackward:
			a.deleteSelection()
		case ke.Name == "V":
			a.setTool(ToolSelect)
		case ke.Name == "W":
			a.setTool(ToolWall)
		case ke.Name == "R":
			a.setTool(ToolRoom)
		case ke.Name == "L":
			// Toggle lasso selection for the select tool.
			a.lassoOn = !a.lassoOn
			cfg := interact.DefaultConfig()
			cfg.Lasso = a.lassoOn
			a.machine = interact.NewMachine(cfg)
			a.machine.SetSelection(a.editor.Selection())
			a.status = "lasso off"
			if a.lassoOn {
				a.status = "lasso on"
			}
		}
		a.window.Invalidate()
	}
}

func (a *App) handlePointer(gtx layout.Context) {
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Kinds: pointer.Press | pointer.Release | pointer.Move | pointer.Drag | pointer.Scroll,
		})
		if !ok {
			break
		}
		pe, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		sx, sy := float64(pe.Position.X), float64(pe.Position.Y)
		world := a.camera.ScreenToWorld(sx, sy)

		switch pe.Kind {
		case pointer.Scroll:
			factor := 1.0 - float64(pe.Scroll.Y)*0.1
			a.camera.ZoomAt(sx, sy, factor)

		case pointer.Press:
			if pe.Buttons == pointer.ButtonTertiary {
				a.panning = true
				a.panLastX, a.panLastY = sx, sy
				break
			}
			a.pointerDown(pe, world, geom.Point{X: sx, Y: sy})

		case pointer.Move, pointer.Drag:
			if a.panning {
				a.camera.Pan(sx-a.panLastX, sy-a.panLastY)
				a.panLastX, a.panLastY = sx, sy
				break
			}
			a.moves.Push(pointerSample{World: world, Screen: geom.Point{X: sx, Y: sy}})

		case pointer.Release:
			if a.panning {
				a.panning = false
				break
			}
			a.pointerUp(pe, world, geom.Point{X: sx, Y: sy})
		}
		a.window.Invalidate()
	}
}

func (a *App) pointerDown(pe pointer.Event, world, screen geom.Point) {
	secondary := pe.Buttons == pointer.ButtonSecondary

	switch a.tool {
	case ToolWall:
		if secondary {
			a.wallAnchor = nil
			a.status = "wall chain ended"
			return
		}
		pt := a.snapPoint(world)
		if a.wallAnchor == nil {
			a.wallAnchor = &pt
			a.status = "wall start set"
			return
		}
		res := a.editor.Do(edit.DrawWall{Start: *a.wallAnchor, End: pt, Template: plan.NewWall(geom.Point{}, geom.Point{}, plan.DefaultWallThickness)})
		a.reportResult(res)
		if res.Applied {
			a.wallAnchor = &pt
		}

	case ToolRoom:
		if secondary {
			a.commitRoomPolygon()
			return
		}
		pt := a.snapPoint(world)
		if len(a.roomPts) >= 3 && pt.Near(a.roomPts[0], plan.CoarseTolerance) {
			a.commitRoomPolygon()
			return
		}
		a.roomPts = append(a.roomPts, pt)
		a.status = fmt.Sprintf("room polygon: %d points", len(a.roomPts))

	default:
		ev := interact.Event{
			Kind:   interact.EventPointerDown,
			World:  world,
			Screen: screen,
			Toggle: pe.Modifiers.Contain(key.ModShortcut),
		}
		if secondary {
			ev.Button = interact.ButtonSecondary
		} else if id, at, ok := a.grabbableVertex(world); ok {
			ev.HandleID = id
			a.dragVertexAt = &at
		}
		a.applyEffect(a.machine.Handle(a.scene, ev))
	}
}

func (a *App) pointerUp(pe pointer.Event, world, screen geom.Point) {
	if a.tool != ToolSelect {
		return
	}
	a.applyEffect(a.machine.Handle(a.scene, interact.Event{
		Kind:   interact.EventPointerUp,
		World:  world,
		Screen: screen,
		Toggle: pe.Modifiers.Contain(key.ModShortcut),
	}))
}

// applyPointerMove is the coalescer flush: at most one hit-test and snap
// resolution per frame regardless of how many moves the platform delivered.
func (a *App) applyPointerMove(s pointerSample) {
	a.cursor = s.World
	switch a.tool {
	case ToolWall:
		a.lastSnap = a.snapper.Resolve(s.World, snap.Request{Anchor: a.wallAnchor})
	case ToolRoom:
		var anchor *geom.Point
		if len(a.roomPts) > 0 {
			anchor = &a.roomPts[len(a.roomPts)-1]
		}
		a.lastSnap = a.snapper.Resolve(s.World, snap.Request{Anchor: anchor})
	default:
		a.lastSnap = snap.Result{}
		a.applyEffect(a.machine.Handle(a.scene, interact.Event{
			Kind:   interact.EventPointerMove,
			World:  s.World,
			Screen: s.Screen,
		}))
	}
	if a.window != nil {
		a.window.Invalidate()
	}
}

// snapPoint resolves one click position through the snap engine.
func (a *App) snapPoint(world geom.Point) geom.Point {
	var anchor *geom.Point
	switch a.tool {
	case ToolWall:
		anchor = a.wallAnchor
	case ToolRoom:
		if len(a.roomPts) > 0 {
			anchor = &a.roomPts[len(a.roomPts)-1]
		}
	}
	res := a.snapper.Resolve(world, snap.Request{Anchor: anchor})
	a.lastSnap = res
	return res.Point
}

// grabbableVertex reports the selected vertex under the pointer, if any.
// Only selected vertices become drag handles so that a plain click still
// selects.
func (a *App) grabbableVertex(world geom.Point) (string, geom.Point, bool) {
	hit := a.scene.HitTest(world, 80)
	if hit.Level != interact.LevelVertex {
		return "", geom.Point{}, false
	}
	if !a.machine.Selection().Has(hit) {
		return "", geom.Point{}, false
	}
	v, ok := a.scene.VertexByID(hit.ID)
	if !ok {
		return "", geom.Point{}, false
	}
	return hit.ID, v.Point, true
}

func (a *App) applyEffect(eff interact.Effect) {
	a.hover = eff.Hover
	a.boxPreview = eff.BoxPreview
	a.lassoPreview = eff.LassoPreview

	if eff.SelectionChanged {
		a.editor.SetSelection(a.machine.Selection())
		a.status = fmt.Sprintf("%d selected", a.machine.Selection().Count())
	}
	if eff.ContextMenuAt != nil {
		a.contextAt = eff.ContextMenuAt
		a.contextMenu = a.buildContextMenu()
		a.contextShown = false
	} else if eff.State != interact.StateContextMenu {
		a.contextAt = nil
		a.contextMenu = nil
	}
	if eff.Drag != nil {
		a.applyDrag(*eff.Drag)
	}
}

func (a *App) applyDrag(d interact.Drag) {
	switch d.Phase {
	case interact.DragMove:
		// Live preview only; the edit commits on release.
		a.cursor = d.World
	case interact.DragEnd:
		if a.dragVertexAt == nil {
			return
		}
		from := *a.dragVertexAt
		a.dragVertexAt = nil
		res := a.editor.Do(edit.MoveVertex{From: from, To: d.World})
		a.reportResult(res)
	case interact.DragCancel:
		a.dragVertexAt = nil
		a.status = "drag cancelled"
	}
}

func (a *App) commitRoomPolygon() {
	pts := a.roomPts
	a.roomPts = nil
	if len(pts) < 3 {
		a.status = "room polygon needs at least 3 points"
		return
	}
	res := a.editor.Do(edit.CommitRoomPolygon{
		Ring:     pts,
		Template: plan.NewWall(geom.Point{}, geom.Point{}, plan.DefaultWallThickness),
	})
	a.reportResult(res)
}

// reportResult refreshes derived state after a committed edit and surfaces
// violations and warnings in the status line.
func (a *App) reportResult(res edit.Result) {
	switch {
	case !res.Applied:
		a.status = "rejected: " + strings.Join(res.Violations, "; ")
	case len(res.Warnings) > 0:
		a.status = "applied with warnings: " + strings.Join(res.Warnings, "; ")
	default:
		a.status = fmt.Sprintf("%d walls, %d rooms", len(a.editor.Plan().Walls), len(a.editor.Plan().Rooms))
	}
	if res.Applied {
		a.rebuildDerived()
	}
}

func (a *App) cancelCurrent() {
	switch {
	case a.wallAnchor != nil:
		a.wallAnchor = nil
		a.status = "wall cancelled"
	case len(a.roomPts) > 0:
		a.roomPts = nil
		a.status = "room polygon cancelled"
	default:
		a.applyEffect(a.machine.Handle(a.scene, interact.Event{Kind: interact.EventCancel}))
		a.status = "cancelled"
	}
}

func (a *App) setTool(t Tool) {
	if a.tool == t {
		return
	}
	a.cancelCurrent()
	a.tool = t
	a.status = t.String() + " tool"
}

func (a *App) undo() {
	if a.editor.Undo() {
		a.rebuildDerived()
		a.status = "undo"
	}
}

func (a *App) redo() {
	if a.editor.Redo() {
		a.rebuildDerived()
		a.status = "redo"
	}
}

func (a *App) save() {
	if a.filename == "" {
		a.status = "no file to save to"
		return
	}
	if err := planfile.Save(a.filename, a.editor.Plan()); err != nil {
		a.status = "save failed: " + err.Error()
		return
	}
	a.status = "saved " + a.filename
}

func (a *App) deleteSelection() {
	ids := a.machine.Selection().SortedWalls()
	if len(ids) == 0 {
		return
	}
	res := a.editor.Do(edit.DeleteWalls{WallIDs: ids})
	a.reportResult(res)
}

func (a *App) buildContextMenu() *menu.DropdownMenu {
	type item struct {
		label  string
		action func()
	}
	items := []item{
		{"Delete selected walls", a.deleteSelection},
		{"Clear selection", func() {
			a.machine.SetSelection(interact.NewSelection())
			a.editor.SetSelection(interact.NewSelection())
			a.status = "selection cleared"
		}},
		{"Fit view", a.fitView},
	}
	opts := make([]menu.MenuOption, 0, len(items))
	for _, it := range items {
		action := it.action
		label := it.label
		opts = append(opts, menu.MenuOption{
			OnClicked: func() error {
				action()
				a.contextAt = nil
				a.contextMenu = nil
				return nil
			},
			Layout: func(gtx menu.C, th *theme.Theme) menu.D {
				return layout.Inset{Left: unit.Dp(4), Right: unit.Dp(4)}.Layout(gtx, material.Body1(th.Theme, label).Layout)
			},
		})
	}
	drop := menu.NewDropdownMenu([][]menu.MenuOption{opts})
	drop.MaxWidth = unit.Dp(220)
	return drop
}

func (a *App) renderCanvas(gtx layout.Context) {
	p := a.editor.Plan()
	RenderPlan(gtx, a.camera, p, a.machine.Selection(), a.hover, a.snapper.Config().GridSpacing, plan.CoarseTolerance)

	switch a.tool {
	case ToolWall:
		RenderSnap(gtx, a.camera, a.lastSnap)
		if a.wallAnchor != nil {
			RenderRubberWall(gtx, a.camera, *a.wallAnchor, a.lastSnap.Point, plan.DefaultWallThickness)
		}
	case ToolRoom:
		RenderSnap(gtx, a.camera, a.lastSnap)
		RenderPolygonPreview(gtx, a.camera, a.roomPts, a.lastSnap.Point)
	default:
		if a.boxPreview != nil {
			RenderBoxPreview(gtx, a.camera, *a.boxPreview)
		}
		if len(a.lassoPreview) > 0 {
			RenderLassoPreview(gtx, a.camera, a.lassoPreview)
		}
		if a.dragVertexAt != nil {
			strokeLine(gtx, a.camera, *a.dragVertexAt, a.cursor, 1, ColorPreview)
			fillCircle(gtx, a.camera, a.cursor, 4, ColorHandle)
		}
	}
}

// layoutChrome draws the toolbar, the status bar and an open context menu
// over the canvas.
func (a *App) layoutChrome(gtx layout.Context) {
	layout.NW.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, a.layoutToolbar)
	})
	layout.SW.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx layout.Context) layout.Dimensions {
			txt := fmt.Sprintf("[%s] (%.0f, %.0f) mm  %s", a.tool, a.cursor.X, a.cursor.Y, a.status)
			lbl := material.Caption(a.gvTheme.Theme, txt)
			lbl.Color = ColorHandle
			return lbl.Layout(gtx)
		})
	})
	if a.contextMenu != nil && a.contextAt != nil {
		x, y := a.camera.WorldToScreen(*a.contextAt)
		offset := op.Offset(image.Pt(int(x), int(y))).Push(gtx.Ops)
		if !a.contextShown {
			a.contextMenu.ToggleVisibility(gtx)
			a.contextShown = true
		}
		a.contextMenu.Layout(gtx, a.gvTheme)
		offset.Pop()
	}
}

func (a *App) layoutToolbar(gtx layout.Context) layout.Dimensions {
	type button struct {
		click  *widget.Clickable
		icon   *widget.Icon
		label  string
		action func()
	}
	buttons := []button{
		{&a.selectBtn, a.selectIcon, "Select (V)", func() { a.setTool(ToolSelect) }},
		{&a.wallBtn, a.wallIcon, "Wall (W)", func() { a.setTool(ToolWall) }},
		{&a.roomBtn, a.roomIcon, "Room (R)", func() { a.setTool(ToolRoom) }},
		{&a.undoBtn, a.undoIcon, "Undo", a.undo},
		{&a.redoBtn, a.redoIcon, "Redo", a.redo},
		{&a.saveBtn, a.saveIcon, "Save", a.save},
		{&a.fitBtn, a.fitIcon, "Fit (Space)", a.fitView},
	}
	children := make([]layout.FlexChild, 0, len(buttons))
	for _, b := range buttons {
		b := b
		if b.click.Clicked(gtx) {
			b.action()
		}
		children = append(children, layout.Rigid(func(gtx layout.Context) layout.Dimensions {
			return layout.Inset{Right: unit.Dp(4)}.Layout(gtx, func(gtx layout.Context) layout.Dimensions {
				btn := material.IconButton(a.gvTheme.Theme, b.click, b.icon, b.label)
				btn.Size = unit.Dp(20)
				btn.Inset = layout.UniformInset(unit.Dp(6))
				return btn.Layout(gtx)
			})
		}))
	}
	return layout.Flex{Axis: layout.Horizontal}.Layout(gtx, children...)
}
