package cmd

import (
	"fmt"

	"github.com/PlanLab/plancad/pkg/planfile"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info <plan_file>",
	Short: "Show plan summary",
	Long:  `Display wall and room counts, overall dimensions and layer usage for a .plan file.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(cmd *cobra.Command, args []string) error {
	filename := args[0]
	p, err := planfile.Load(filename)
	if err != nil {
		return fmt.Errorf("error loading plan: %w", err)
	}

	fmt.Printf("Plan: %s\n", filename)
	if p.Name != "" {
		fmt.Printf("Name: %s\n", p.Name)
	}
	fmt.Printf("Walls: %d\n", len(p.Walls))
	fmt.Printf("Rooms: %d\n", len(p.Rooms))

	openings := 0
	layers := make(map[string]int)
	totalLength := 0.0
	for _, w := range p.Walls {
		openings += len(w.Openings)
		layers[w.Layer]++
		totalLength += w.Length()
	}
	fmt.Printf("Openings: %d\n", openings)
	fmt.Printf("Total wall length: %.0f mm\n", totalLength)

	bbox := p.BoundingBox()
	if !bbox.IsEmpty() {
		fmt.Printf("Plan size: %.0f x %.0f mm\n", bbox.Width(), bbox.Height())
		fmt.Printf("Plan center: (%.0f, %.0f) mm\n", bbox.Center().X, bbox.Center().Y)
	}

	if verbose {
		fmt.Println()
		fmt.Println("Layers:")
		for layer, count := range layers {
			fmt.Printf("  %-16s %d walls\n", layer, count)
		}
		fmt.Println()
		fmt.Println("Walls:")
		for _, w := range p.Walls {
			fmt.Printf("  %-12s (%.0f,%.0f) -> (%.0f,%.0f)  len %.0f  thick %.1f  %s\n",
				w.ID, w.Start.X, w.Start.Y, w.End.X, w.End.Y, w.Length(), w.Thickness, w.Type)
		}
	}
	return nil
}
