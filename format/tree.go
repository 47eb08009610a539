package format

import (
	"io"

	"github.com/dhamidi/blueprint/bp/ast"
)

// TreeEncoder writes the indented outline produced by ast.Dump.
type TreeEncoder struct {
	w         io.Writer
	Positions bool
}

func NewTreeEncoder(w io.Writer) *TreeEncoder {
	return &TreeEncoder{w: w}
}

func (e *TreeEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(node ast.Node) ([]byte, error) {
	if e.Positions {
		return []byte(ast.DumpWithPositions(node)), nil
	}
	return []byte(ast.Dump(node)), nil
}
