package lang

import (
	"encoding/json"
	"math"
)

// MarshalJSON implements json.Marshaler for Program.
func (p *Program) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.ToMap())
}

// ToMap converts p to a native Go map structure describing its source, the
// names it references and its expression tree.
func (p *Program) ToMap() map[string]any {
	idents := p.Idents()
	if idents == nil {
		idents = []string{}
	}

	return map[string]any{
		"source": p.source,
		"idents": idents,
		"tree":   ToMap(p.root),
	}
}

// ToMap converts the tree rooted at e to nested maps and slices of native Go
// values.
func ToMap(e Expr) map[string]any {
	m := make(map[string]any)

	switch n := e.(type) {
	case Variant:
		m["node"] = "literal"
		m["kind"] = n.Kind().String()
		m["value"] = nativeValue(n)

	case *Ident:
		m["node"] = "ident"
		m["name"] = n.Name

	case *Unary:
		m["node"] = "unary"
		m["op"] = n.Op.String()
		m["x"] = ToMap(n.X)

	case *Binary:
		m["node"] = "binary"
		m["op"] = n.Op.String()
		m["x"] = ToMap(n.X)
		m["y"] = ToMap(n.Y)

	case *Call:
		args := make([]any, len(n.Args))
		for i, arg := range n.Args {
			args[i] = ToMap(arg)
		}

		m["node"] = "call"
		m["name"] = n.Name
		m["args"] = args
	}

	if pos := PosOf(e); pos.IsValid() {
		m["pos"] = pos.String()
	}

	return m
}

// nativeValue returns v as a Go value that every encoder accepts. Non-finite
// numbers become their string form.
func nativeValue(v Variant) any {
	if v.kind == KindNumber && (math.IsNaN(v.num) || math.IsInf(v.num, 0)) {
		return formatNumber(v.num)
	}

	return v.Native()
}

// MarshalJSON implements json.Marshaler for Variant.
func (v Variant) MarshalJSON() ([]byte, error) {
	return json.Marshal(nativeValue(v))
}

// MarshalYAML implements the go-yaml InterfaceMarshaler for Variant.
func (v Variant) MarshalYAML() (any, error) {
	return nativeValue(v), nil
}
