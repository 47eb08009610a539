package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dhamidi/blueprint/bp/parser"
	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"
)

const sample = `class Foo : Application, Ticker {
    public void bar(i32 n) {
        i32 x = n + 1;
    }
}
`

func TestASTJSONEncoder(t *testing.T) {
	prog, err := parser.Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf bytes.Buffer
	enc := NewASTJSONEncoder(&buf)
	if err := enc.Encode(prog); err != nil {
		t.Fatalf("Encode: %v", err)
	}

	var got treeNode
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("output is not valid JSON: %v\n%s", err, buf.String())
	}
	if got.Kind != "Program" {
		t.Errorf("root kind = %q, want Program", got.Kind)
	}
	class := got.Children[0]
	if class.Kind != "Class" || class.Value != "Foo" {
		t.Errorf("class = %s %s, want Class Foo", class.Kind, class.Value)
	}
	if diff := cmp.Diff([]string{"Application", "Ticker"}, class.Bases); diff != "" {
		t.Errorf("bases mismatch (-want +got):\n%s", diff)
	}
	method := class.Children[0]
	if diff := cmp.Diff([]string{"public"}, method.Modifiers); diff != "" {
		t.Errorf("modifiers mismatch (-want +got):\n%s", diff)
	}
	if class.Span != nil {
		t.Errorf("span present without Positions")
	}
}

func TestASTJSONEncoderPositions(t *testing.T) {
	prog, err := parser.Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	enc := NewASTJSONEncoder(nil)
	enc.Positions = true
	text, err := enc.MarshalText(prog.Classes[0])
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	var got treeNode
	if err := json.Unmarshal(text, &got); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if got.Span == nil {
		t.Fatalf("span missing")
	}
	want := treeSpan{Start: treePosition{Line: 1, Column: 1}, End: treePosition{Line: 5, Column: 2}}
	if diff := cmp.Diff(want, *got.Span); diff != "" {
		t.Errorf("span mismatch (-want +got):\n%s", diff)
	}
}

func TestASTYAMLEncoderMatchesJSON(t *testing.T) {
	prog, err := parser.Parse(strings.NewReader(sample))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	jsonText, err := NewASTJSONEncoder(nil).MarshalText(prog)
	if err != nil {
		t.Fatalf("json: %v", err)
	}
	var fromJSON treeNode
	if err := json.Unmarshal(jsonText, &fromJSON); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}

	var buf bytes.Buffer
	if err := NewASTYAMLEncoder(&buf).Encode(prog); err != nil {
		t.Fatalf("yaml: %v", err)
	}
	var fromYAML treeNode
	if err := yaml.Unmarshal(buf.Bytes(), &fromYAML); err != nil {
		t.Fatalf("yaml.Unmarshal: %v\n%s", err, buf.String())
	}

	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Errorf("YAML and JSON disagree (-json +yaml):\n%s", diff)
	}
	if !strings.HasPrefix(buf.String(), "kind: Program\n") {
		t.Errorf("unexpected YAML start:\n%s", buf.String())
	}
}

func TestTreeEncoder(t *testing.T) {
	expr, err := parser.ParseExpression(strings.NewReader("1 + 2"))
	if err != nil {
		t.Fatalf("ParseExpression: %v", err)
	}
	var buf bytes.Buffer
	if err := NewTreeEncoder(&buf).Encode(expr); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := "Binary +\n  IntegerLiteral 1\n  IntegerLiteral 2\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestNewEncoder(t *testing.T) {
	for _, name := range Formats {
		if _, err := NewEncoder(name, &bytes.Buffer{}, false); err != nil {
			t.Errorf("NewEncoder(%q): %v", name, err)
		}
	}
	if _, err := NewEncoder("xml", &bytes.Buffer{}, false); err == nil {
		t.Errorf("NewEncoder(xml) succeeded, want error")
	}
}
