package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/blueprint/bp/ast"
)

// Encoder writes a rendering of an AST to an underlying writer.
type Encoder interface {
	Encode(node ast.Node) error
}

// TextEncoder is an Encoder that can also produce its output in memory.
type TextEncoder interface {
	Encoder
	MarshalText(node ast.Node) ([]byte, error)
}

// Names of the AST renderings accepted by NewEncoder.
const (
	FormatTree   = "tree"
	FormatJSON   = "json"
	FormatYAML   = "yaml"
	FormatSource = "source"
)

// Formats lists every name NewEncoder accepts.
var Formats = []string{FormatTree, FormatJSON, FormatYAML, FormatSource}

// NewEncoder returns the encoder registered under name. positions controls
// whether span information is included where the format supports it.
func NewEncoder(name string, w io.Writer, positions bool) (Encoder, error) {
	switch name {
	case FormatTree, "":
		enc := NewTreeEncoder(w)
		enc.Positions = positions
		return enc, nil
	case FormatJSON:
		enc := NewASTJSONEncoder(w)
		enc.Positions = positions
		return enc, nil
	case FormatYAML:
		enc := NewASTYAMLEncoder(w)
		enc.Positions = positions
		return enc, nil
	case FormatSource:
		return NewSourcePrinter(w), nil
	}
	return nil, fmt.Errorf("unknown output format %q", name)
}
