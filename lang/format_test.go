package lang

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
)

func TestRender(t *testing.T) {
	tests := []struct {
		v    Variant
		want string
	}{
		{Number(3), "3"},
		{Number(-0.5), "-0.5"},
		{Number(math.NaN()), `num("NaN")`},
		{Number(math.Inf(-1)), `num("-Inf")`},
		{String(`a"b`), `"a\"b"`},
		{Bool(false), "false"},
	}

	for _, tt := range tests {
		if got := Render(tt.v); got != tt.want {
			t.Errorf("Render(%v) = %s, want %s", tt.v, got, tt.want)
		}
	}
}

func TestProgramDump(t *testing.T) {
	prog := MustCompile(`!a && max(b, 1) > "x"`)

	var buf bytes.Buffer
	if err := prog.Dump(&buf); err != nil {
		t.Fatal(err)
	}

	want := strings.Join([]string{
		"Binary && @1:4",
		"  Unary ! @1:1",
		"    Ident a @1:2",
		"  Binary > @1:17",
		"    Call max @1:7",
		"      Ident b @1:11",
		"      Number 1",
		`    String "x"`,
		"",
	}, "\n")

	if got := buf.String(); got != want {
		t.Errorf("Dump() =\n%s\nwant\n%s", got, want)
	}
}

func TestProgramToMap(t *testing.T) {
	prog := MustCompile("-x + 2")

	m := prog.ToMap()

	if m["source"] != "-x + 2" {
		t.Errorf("source = %v", m["source"])
	}

	tree, ok := m["tree"].(map[string]any)
	if !ok {
		t.Fatalf("tree = %T", m["tree"])
	}

	if tree["node"] != "binary" || tree["op"] != "+" || tree["pos"] != "1:4" {
		t.Errorf("tree = %v", tree)
	}

	x, ok := tree["x"].(map[string]any)
	if !ok || x["node"] != "unary" || x["op"] != "-" {
		t.Errorf("x = %v", tree["x"])
	}

	y, ok := tree["y"].(map[string]any)
	if !ok || y["node"] != "literal" || y["value"] != 2.0 || y["kind"] != "Number" {
		t.Errorf("y = %v", tree["y"])
	}
}

func TestProgramFormatJSON(t *testing.T) {
	prog := MustCompile(`f == "on"`)

	var buf bytes.Buffer
	if err := prog.FormatJSON(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
	}

	idents, ok := decoded["idents"].([]any)
	if !ok || len(idents) != 1 || idents[0] != "f" {
		t.Errorf("idents = %v", decoded["idents"])
	}

	if !strings.Contains(buf.String(), "\n  ") {
		t.Errorf("indented JSON expected:\n%s", buf.String())
	}
}

func TestProgramFormatYAML(t *testing.T) {
	prog := MustCompile("a || b")

	var buf bytes.Buffer
	if err := prog.FormatYAML(t.Context(), &buf, 2); err != nil {
		t.Fatal(err)
	}

	var decoded map[string]any
	if err := yaml.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid YAML: %v\n%s", err, buf.String())
	}

	if decoded["source"] != "a || b" {
		t.Errorf("source = %v", decoded["source"])
	}

	tree, ok := decoded["tree"].(map[string]any)
	if !ok || tree["op"] != "||" {
		t.Errorf("tree = %v", decoded["tree"])
	}
}

func TestVariantMarshal(t *testing.T) {
	tests := []struct {
		v    Variant
		want string
	}{
		{Number(1.5), "1.5"},
		{String("x"), `"x"`},
		{Bool(true), "true"},
		{Number(math.Inf(1)), `"+Inf"`},
	}

	for _, tt := range tests {
		data, err := json.Marshal(tt.v)
		if err != nil {
			t.Fatalf("Marshal(%v) error: %v", tt.v, err)
		}

		if string(data) != tt.want {
			t.Errorf("Marshal(%v) = %s, want %s", tt.v, data, tt.want)
		}
	}
}

func TestBuilderProgram(t *testing.T) {
	b := NewBuilder()

	prog, err := b.Program(
		b.And(
			b.Lt(b.Ident("player.health"), b.Number(5)),
			b.Not(b.Or(b.Ident("a"), b.Ident("b"))),
		),
	)
	if err != nil {
		t.Fatal(err)
	}

	want := "player.health < 5 && !(a || b)"
	if prog.Source() != want || prog.String() != want {
		t.Errorf("Source() = %q, String() = %q, want %q",
			prog.Source(), prog.String(), want)
	}

	env := NewEnv().BindNumber("player.health", 3).BindBool("a", false).BindBool("b", false)

	ok, err := prog.EvalBool(t.Context(), env)
	if err != nil || !ok {
		t.Errorf("EvalBool = %v, %v", ok, err)
	}

	sub := b.Sub(b.Number(10), b.Sub(b.Number(3), b.Number(2)))

	prog, err = b.Program(sub)
	if err != nil {
		t.Fatal(err)
	}

	if prog.String() != "10 - (3 - 2)" {
		t.Errorf("String() = %q", prog.String())
	}
}

func TestBuilderErrors(t *testing.T) {
	b := NewBuilder()

	for _, root := range []Expr{
		nil,
		b.Call("nope", b.Number(1)),
		b.Call("abs"),
		b.Binary(OpNot, b.Number(1), b.Number(2)),
	} {
		if _, err := b.Program(root); err == nil {
			t.Errorf("Program(%s) succeeded, want error", Format(root))
		}
	}
}
