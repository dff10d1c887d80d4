package cmd

import (
	"fmt"

	"github.com/PlanLab/plancad/pkg/detect"
	"github.com/PlanLab/plancad/pkg/planfile"
	"github.com/spf13/cobra"
)

var roomsMinArea float64

var roomsCmd = &cobra.Command{
	Use:   "rooms <plan_file>",
	Short: "Detect and list rooms",
	Long: `Run room detection over the wall graph of a .plan file and print each
detected room's area, perimeter and centroid. Detection ignores any room
records stored in the file and works from the walls alone.`,
	Args: cobra.ExactArgs(1),
	RunE: runRooms,
}

func init() {
	rootCmd.AddCommand(roomsCmd)
	roomsCmd.Flags().Float64Var(&roomsMinArea, "min-area", 0, "discard rooms below this area in mm²")
}

func runRooms(cmd *cobra.Command, args []string) error {
	filename := args[0]
	p, err := planfile.Load(filename)
	if err != nil {
		return fmt.Errorf("error loading plan: %w", err)
	}

	cfg := detect.DefaultConfig()
	if roomsMinArea > 0 {
		cfg.MinArea = roomsMinArea
	}
	rooms := detect.DetectRooms(p.Walls, cfg)

	if len(rooms) == 0 {
		fmt.Println("No closed rooms detected")
		return nil
	}

	fmt.Printf("Detected %d room(s):\n", len(rooms))
	for _, r := range rooms {
		fmt.Printf("  %s\n", r.ID)
		fmt.Printf("    type:      %s\n", r.Type)
		fmt.Printf("    area:      %.2f m²\n", r.Area/1e6)
		fmt.Printf("    perimeter: %.0f mm\n", r.Perimeter)
		fmt.Printf("    centroid:  (%.0f, %.0f) mm\n", r.Centroid.X, r.Centroid.Y)
		fmt.Printf("    walls:     %d\n", len(r.WallIDs))
		if len(r.ChildRoomIDs) > 0 {
			fmt.Printf("    children:  %v\n", r.ChildRoomIDs)
		}
	}
	return nil
}
