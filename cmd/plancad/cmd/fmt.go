package cmd

import (
	"fmt"
	"os"

	"github.com/PlanLab/plancad/pkg/planfile"
	"github.com/spf13/cobra"
)

var fmtWrite bool

var fmtCmd = &cobra.Command{
	Use:   "fmt <plan_file>",
	Short: "Rewrite a plan file in canonical form",
	Long: `Parse a .plan file and re-emit it in canonical form: fixed attribute
order, normalized numbers, adjacency recomputed. By default the result is
printed to stdout; with --write the file is replaced in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	rootCmd.AddCommand(fmtCmd)
	fmtCmd.Flags().BoolVarP(&fmtWrite, "write", "w", false, "rewrite the file in place")
}

func runFmt(cmd *cobra.Command, args []string) error {
	filename := args[0]
	p, err := planfile.Load(filename)
	if err != nil {
		return fmt.Errorf("error loading plan: %w", err)
	}

	if fmtWrite {
		if err := planfile.Save(filename, p); err != nil {
			return err
		}
		fmt.Printf("Rewrote %s\n", filename)
		return nil
	}
	return planfile.Encode(os.Stdout, p)
}
