package cmd

import (
	"fmt"

	"github.com/PlanLab/plancad/internal/ui"
	"github.com/PlanLab/plancad/pkg/plan"
	"github.com/PlanLab/plancad/pkg/planfile"
	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view [plan_file]",
	Short: "Open a plan in the interactive editor",
	Long: `Opens a plan file in the interactive Gio-based editor. Without a file
argument the editor starts with an empty plan.

Controls:
  V / W / R         - Select, wall and room tools
  Left Click        - Select, or place wall/room points
  Left Drag         - Box select (L→R window, R→L crossing)
  L                 - Toggle lasso selection
  Right Click       - Context menu; ends a wall chain
  Middle Drag       - Pan
  Scroll Wheel      - Zoom in/out
  Ctrl+Z / Ctrl+Y   - Undo / redo
  Ctrl+S            - Save
  Delete            - Delete selected walls
  Space             - Fit plan to window
  Escape            - Cancel current action`,
	Args: cobra.MaximumNArgs(1),
	RunE: runView,
}

func init() {
	rootCmd.AddCommand(viewCmd)
}

func runView(cmd *cobra.Command, args []string) error {
	p := &plan.Plan{Name: "untitled"}
	filename := ""
	if len(args) == 1 {
		filename = args[0]
		fmt.Printf("Loading plan: %s\n", filename)
		loaded, err := planfile.Load(filename)
		if err != nil {
			return fmt.Errorf("error loading plan: %w", err)
		}
		p = loaded
		fmt.Printf("✓ Loaded plan successfully\n")
		fmt.Printf("  Walls: %d\n", len(p.Walls))
		fmt.Printf("  Rooms: %d\n", len(p.Rooms))
		bbox := p.BoundingBox()
		if !bbox.IsEmpty() {
			fmt.Printf("  Plan size: %.0f x %.0f mm\n", bbox.Width(), bbox.Height())
		}
	}
	return ui.Run(p, filename)
}
