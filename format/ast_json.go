package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/blueprint/bp/ast"
)

type ASTJSONEncoder struct {
	w io.Writer
	// Positions includes the span of every node.
	Positions bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

func (e *ASTJSONEncoder) Encode(node ast.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	text = append(text, '\n')
	_, err = e.w.Write(text)
	return err
}

func (e *ASTJSONEncoder) MarshalText(node ast.Node) ([]byte, error) {
	return json.MarshalIndent(toTree(node, e.Positions), "", "  ")
}

// treeNode is the format-neutral shape shared by the JSON and YAML
// encoders.
type treeNode struct {
	Kind      string      `json:"kind" yaml:"kind"`
	Value     string      `json:"value,omitempty" yaml:"value,omitempty"`
	Modifiers []string    `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`
	Bases     []string    `json:"bases,omitempty" yaml:"bases,omitempty,flow"`
	Span      *treeSpan   `json:"span,omitempty" yaml:"span,omitempty"`
	Children  []*treeNode `json:"children,omitempty" yaml:"children,omitempty"`
}

type treeSpan struct {
	Start treePosition `json:"start" yaml:"start"`
	End   treePosition `json:"end" yaml:"end"`
}

type treePosition struct {
	Line   int `json:"line" yaml:"line"`
	Column int `json:"column" yaml:"column"`
}

func toTree(n ast.Node, positions bool) *treeNode {
	tn := &treeNode{
		Kind:  ast.Kind(n),
		Value: ast.Value(n),
	}

	switch n := n.(type) {
	case *ast.Class:
		tn.Bases = n.Bases
	case *ast.MethodImpl:
		for _, m := range n.Modifiers {
			tn.Modifiers = append(tn.Modifiers, m.String())
		}
	}

	if span := n.Span(); positions && (span.Start.Line != 0 || span.End.Line != 0) {
		tn.Span = &treeSpan{
			Start: treePosition{Line: span.Start.Line, Column: span.Start.Column},
			End:   treePosition{Line: span.End.Line, Column: span.End.Column},
		}
	}

	children := ast.Children(n)
	if len(children) > 0 {
		tn.Children = make([]*treeNode, len(children))
		for i, child := range children {
			tn.Children[i] = toTree(child, positions)
		}
	}

	return tn
}
