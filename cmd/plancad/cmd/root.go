package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "plancad",
	Short: "PlanCAD - floor-plan editing and inspection tools",
	Long: `PlanCAD works with .plan floor-plan files:
  - Interactive wall/room editing with snapping and room detection
  - Plan inspection (walls, rooms, areas, bounding box)
  - Canonical re-formatting of .plan files

Examples:
  plancad view house.plan        # Open the interactive editor
  plancad info house.plan        # Show plan summary
  plancad rooms house.plan       # Detect and list rooms
  plancad fmt house.plan         # Rewrite the file in canonical form`,
	Version: "0.3.0",
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
