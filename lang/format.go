package lang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-yaml"
)

// Render returns expression source text that evaluates to v. Non-finite
// numbers, which have no literal form, render as a num() call.
func Render(v Variant) string {
	switch v.kind {
	case KindString:
		return strconv.Quote(v.str)

	case KindBoolean:
		return strconv.FormatBool(v.flag)

	default:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return "num(" + strconv.Quote(formatNumber(v.num)) + ")"
		}

		return formatNumber(v.num)
	}
}

// Format returns canonical source text for the tree rooted at e. Operators
// are separated by single spaces and only the parentheses needed to
// preserve the tree shape are emitted.
func Format(e Expr) string {
	var sb strings.Builder

	formatExpr(&sb, e)

	return sb.String()
}

// String returns the canonical source text of p.
func (p *Program) String() string { return Format(p.root) }

// strength returns the precedence with which e binds as an operand.
func strength(e Expr) int {
	switch n := e.(type) {
	case *Binary:
		return n.Op.precedence()

	case *Unary:
		return precUnary

	case Variant:
		// A negative literal renders with a leading minus.
		if n.kind == KindNumber && n.num < 0 && !math.IsInf(n.num, 0) {
			return precUnary
		}

		return precPrimary

	default:
		return precPrimary
	}
}

func formatExpr(sb *strings.Builder, e Expr) {
	switch n := e.(type) {
	case nil:
		sb.WriteString("<nil>")

	case Variant:
		sb.WriteString(Render(n))

	case *Ident:
		sb.WriteString(n.Name)

	case *Unary:
		sb.WriteString(n.Op.String())
		formatOperand(sb, n.X, strength(n.X) < precUnary)

	case *Binary:
		prec := n.Op.precedence()

		formatOperand(sb, n.X, strength(n.X) < prec)
		sb.WriteString(" ")
		sb.WriteString(n.Op.String())
		sb.WriteString(" ")
		formatOperand(sb, n.Y, strength(n.Y) <= prec)

	case *Call:
		sb.WriteString(n.Name)
		sb.WriteString("(")

		for i, arg := range n.Args {
			if i > 0 {
				sb.WriteString(", ")
			}

			formatExpr(sb, arg)
		}

		sb.WriteString(")")

	default:
		fmt.Fprintf(sb, "<%T>", e)
	}
}

func formatOperand(sb *strings.Builder, e Expr, group bool) {
	if group {
		sb.WriteString("(")
	}

	formatExpr(sb, e)

	if group {
		sb.WriteString(")")
	}
}

// Dump writes an indented outline of the expression tree of p to w, one node
// per line.
func (p *Program) Dump(w io.Writer) error {
	return dumpExpr(w, p.root, 0)
}

func dumpExpr(w io.Writer, e Expr, depth int) error {
	var line string

	switch n := e.(type) {
	case Variant:
		line = n.Kind().String() + " " + Render(n)

	case *Ident:
		line = "Ident " + n.Name

	case *Unary:
		line = "Unary " + n.Op.String()

	case *Binary:
		line = "Binary " + n.Op.String()

	case *Call:
		line = "Call " + n.Name

	default:
		line = fmt.Sprintf("%T", e)
	}

	if pos := PosOf(e); pos.IsValid() {
		line += " @" + pos.String()
	}

	if _, err := fmt.Fprintln(w, strings.Repeat("  ", depth)+line); err != nil {
		return err
	}

	for _, c := range Children(e) {
		if err := dumpExpr(w, c, depth+1); err != nil {
			return err
		}
	}

	return nil
}

// FormatJSON writes the tree description of p as JSON to the writer.
func (p *Program) FormatJSON(_ context.Context, w io.Writer, indent int) error {
	var (
		jsonData []byte
		err      error
	)

	if indent > 0 {
		jsonData, err = json.MarshalIndent(p, "", strings.Repeat(" ", indent))
	} else {
		jsonData, err = json.Marshal(p)
	}

	if err != nil {
		return err
	}

	_, err = fmt.Fprintln(w, string(jsonData))

	return err
}

// FormatYAML writes the tree description of p as YAML to the writer.
func (p *Program) FormatYAML(ctx context.Context, w io.Writer, indent int) error {
	var opts []yaml.EncodeOption
	if indent > 0 {
		opts = append(opts, yaml.Indent(indent))
	} else {
		opts = append(opts, yaml.Flow(true))
	}

	yamlData, err := yaml.MarshalContext(ctx, p.ToMap(), opts...)
	if err != nil {
		return err
	}

	_, err = fmt.Fprint(w, string(yamlData))

	return err
}
