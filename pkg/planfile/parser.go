// Package planfile reads and writes the .plan text format: a parenthesized
// floor-plan description holding the wall and room records of a scene.
//
//	(plan
//	  (name "Ground Floor")
//	  (wall (id "w-1") (start 0 0) (end 4000 0) (thickness 150) ...)
//	  (room (id "room-1") (type living) (vertices 0 0 4000 0 ...) ...))
//
// Wall adjacency is never stored; it is recomputed after load rather than
// trusted from storage, as are the derived room measurements.
package planfile

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// planLexer tokenizes the s-expression surface of a .plan file.
var planLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `[\s]+`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "String", Pattern: `"(\\.|[^"\\])*"`},
	{Name: "Number", Pattern: `[-+]?\d+(\.\d+)?([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[a-zA-Z][a-zA-Z0-9_-]*`},
})

// File is the parsed form of one .plan document.
type File struct {
	Entries []*Entry `LParen "plan" @@* RParen`
}

// Entry is one top-level form inside (plan ...).
type Entry struct {
	Name *string   `LParen ( "name" @String`
	Wall *WallNode `      | "wall" @@`
	Room *RoomNode `      | "room" @@ ) RParen`
}

// WallNode is the attribute list of a (wall ...) form.
type WallNode struct {
	Attrs []*WallAttr `@@*`
}

// WallAttr is one (key value...) attribute of a wall.
type WallAttr struct {
	ID           *string      `LParen ( "id" @String`
	Start        *Coord       `      | "start" @@`
	End          *Coord       `      | "end" @@`
	Thickness    *float64     `      | "thickness" @Number`
	Height       *float64     `      | "height" @Number`
	Type         *string      `      | "type" @Ident`
	Layer        *string      `      | "layer" @String`
	InteriorSide *string      `      | "interior-side" @Ident`
	Opening      *OpeningNode `      | "opening" @@ ) RParen`
}

// Coord is an x y pair in millimeters.
type Coord struct {
	X float64 `@Number`
	Y float64 `@Number`
}

// OpeningNode is the attribute list of an (opening ...) form.
type OpeningNode struct {
	Attrs []*OpeningAttr `@@*`
}

// OpeningAttr is one attribute of an opening.
type OpeningAttr struct {
	ID       *string  `LParen ( "id" @String`
	Kind     *string  `      | "kind" @Ident`
	Position *float64 `      | "position" @Number`
	Width    *float64 `      | "width" @Number ) RParen`
}

// RoomNode is the attribute list of a (room ...) form.
type RoomNode struct {
	Attrs []*RoomAttr `@@*`
}

// RoomAttr is one attribute of a room.
type RoomAttr struct {
	ID       *string   `LParen ( "id" @String`
	Type     *string   `      | "type" @Ident`
	Vertices []float64 `      | "vertices" @Number+`
	Walls    []string  `      | "walls" @String+`
	Children []string  `      | "children" @String+ ) RParen`
}

// Parser parses .plan files.
type Parser struct {
	parser *participle.Parser[File]
}

// NewParser builds a .plan parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[File](
		participle.Lexer(planLexer),
		participle.Elide("Comment", "Whitespace"),
		participle.Unquote("String"),
		participle.UseLookahead(2),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}
	return &Parser{parser: parser}, nil
}

// Parse parses a .plan document from a reader.
func (p *Parser) Parse(r io.Reader) (*File, error) {
	f, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseString parses a .plan document from a string.
func (p *Parser) ParseString(input string) (*File, error) {
	f, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return f, nil
}

// ParseFile parses a .plan document from a file path.
func (p *Parser) ParseFile(filename string) (*File, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}
