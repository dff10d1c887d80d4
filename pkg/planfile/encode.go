package planfile

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/PlanLab/plancad/pkg/plan"
)

// Encode writes the plan in canonical .plan form: fixed attribute order, one
// wall or room per line group, full float precision. Re-encoding a decoded
// file is stable, which is what `plancad fmt` relies on. The derived
// adjacency cache is deliberately not written.
func Encode(w io.Writer, p *plan.Plan) error {
	var b strings.Builder
	b.WriteString("(plan\n")
	if p.Name != "" {
		fmt.Fprintf(&b, "  (name %s)\n", strconv.Quote(p.Name))
	}
	for _, wall := range p.Walls {
		encodeWall(&b, wall)
	}
	for _, room := range p.Rooms {
		encodeRoom(&b, room)
	}
	b.WriteString(")\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func encodeWall(b *strings.Builder, w plan.Wall) {
	fmt.Fprintf(b, "  (wall (id %s)\n", strconv.Quote(w.ID))
	fmt.Fprintf(b, "    (start %s %s) (end %s %s)\n", num(w.Start.X), num(w.Start.Y), num(w.End.X), num(w.End.Y))
	fmt.Fprintf(b, "    (thickness %s) (height %s) (type %s) (layer %s) (interior-side %s)",
		num(w.Thickness), num(w.Height), string(w.Type), strconv.Quote(w.Layer), w.InteriorSide)
	for _, op := range w.Openings {
		fmt.Fprintf(b, "\n    (opening (id %s) (kind %s) (position %s) (width %s))",
			strconv.Quote(op.ID), string(op.Kind), num(op.Position), num(op.Width))
	}
	b.WriteString(")\n")
}

func encodeRoom(b *strings.Builder, r plan.Room) {
	fmt.Fprintf(b, "  (room (id %s) (type %s)\n", strconv.Quote(r.ID), string(r.Type))
	b.WriteString("    (vertices")
	for _, v := range r.Vertices {
		fmt.Fprintf(b, " %s %s", num(v.X), num(v.Y))
	}
	b.WriteString(")\n")
	if len(r.WallIDs) > 0 {
		b.WriteString("    (walls")
		for _, id := range r.WallIDs {
			b.WriteString(" " + strconv.Quote(id))
		}
		b.WriteString(")")
	}
	if len(r.ChildRoomIDs) > 0 {
		b.WriteString("\n    (children")
		for _, id := range r.ChildRoomIDs {
			b.WriteString(" " + strconv.Quote(id))
		}
		b.WriteString(")")
	}
	b.WriteString(")\n")
}

// num formats a coordinate with the shortest representation that round-trips
// exactly.
func num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Save encodes the plan to a file.
func Save(filename string, p *plan.Plan) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	if err := Encode(f, p); err != nil {
		return fmt.Errorf("failed to write plan: %w", err)
	}
	return nil
}
