package lang

import (
	"cmp"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Kind identifies which representation a [Variant] holds natively.
type Kind uint8

const (
	// KindNumber is a 64-bit floating point value.
	KindNumber Kind = iota

	// KindString is a UTF-8 string value.
	KindString

	// KindBoolean is a true/false value.
	KindBoolean
)

// String returns a string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "Number"

	case KindString:
		return "String"

	case KindBoolean:
		return "Boolean"

	default:
		return "Unknown"
	}
}

// anonymous is the display name of variants not produced by a binding.
const anonymous = "<anon>"

// Variant is an immutable dynamically typed scalar. It is simultaneously a
// number, a string and a boolean; the kind only decides which of these is
// stored natively and how the others are derived.
//
// The zero Variant is the number 0.
type Variant struct {
	name string
	str  string
	num  float64
	kind Kind
	flag bool
}

// Number returns a numeric Variant.
func Number(f float64) Variant { return Variant{kind: KindNumber, num: f} }

// String returns a string Variant.
func String(s string) Variant { return Variant{kind: KindString, str: s} }

// Bool returns a boolean Variant.
func Bool(b bool) Variant { return Variant{kind: KindBoolean, flag: b} }

// Named returns a copy of v carrying a diagnostic name.
func Named(name string, v Variant) Variant {
	v.name = name

	return v
}

// Kind returns the native kind of v.
func (v Variant) Kind() Kind { return v.kind }

// Name returns the diagnostic name of v, or "<anon>".
func (v Variant) Name() string {
	if v.name == "" {
		return anonymous
	}

	return v.name
}

// AsNumber converts v to a number. Strings are parsed after trimming
// surrounding whitespace; text that is not numeric fails with
// [ErrConversion].
func (v Variant) AsNumber() (float64, error) {
	switch v.kind {
	case KindString:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.str), 64)
		if err != nil {
			return 0, ErrConversion.
				With(
					slog.String("name", v.Name()),
					slog.String("value", v.str),
					slog.String("want", KindNumber.String()),
				)
		}

		return f, nil

	case KindBoolean:
		if v.flag {
			return 1, nil
		}

		return 0, nil

	default:
		return v.num, nil
	}
}

// AsString converts v to its canonical string form.
func (v Variant) AsString() string {
	switch v.kind {
	case KindString:
		return v.str

	case KindBoolean:
		return strconv.FormatBool(v.flag)

	default:
		return formatNumber(v.num)
	}
}

// AsBool converts v to a boolean. Numbers are true when non-zero and not
// NaN, strings when non-empty.
func (v Variant) AsBool() bool {
	switch v.kind {
	case KindString:
		return v.str != ""

	case KindBoolean:
		return v.flag

	default:
		return v.num != 0 && !math.IsNaN(v.num)
	}
}

// Add returns the sum of two numbers, or otherwise the concatenation of both
// string forms as a string Variant.
func (v Variant) Add(other Variant) Variant {
	if v.kind == KindNumber && other.kind == KindNumber {
		return Number(v.num + other.num)
	}

	return String(v.AsString() + other.AsString())
}

// Compare returns -1, 0 or +1 as v is less than, equal to or greater than
// other. Variants of the same kind compare natively (false < true, NaN
// below every other number); variants of different kinds compare their
// string forms.
func (v Variant) Compare(other Variant) int {
	if v.kind != other.kind {
		return strings.Compare(v.AsString(), other.AsString())
	}

	switch v.kind {
	case KindString:
		return strings.Compare(v.str, other.str)

	case KindBoolean:
		switch {
		case v.flag == other.flag:
			return 0
		case v.flag:
			return 1
		default:
			return -1
		}

	default:
		return cmp.Compare(v.num, other.num)
	}
}

// Equal reports whether v and other compare equal. Names are ignored.
func (v Variant) Equal(other Variant) bool { return v.Compare(other) == 0 }

// String implements fmt.Stringer with the canonical string form.
func (v Variant) String() string { return v.AsString() }

// LogValue implements slog.LogValuer.
func (v Variant) LogValue() slog.Value {
	switch v.kind {
	case KindString:
		return slog.StringValue(v.str)

	case KindBoolean:
		return slog.BoolValue(v.flag)

	default:
		return slog.Float64Value(v.num)
	}
}

// Native returns v as a Go float64, string or bool.
func (v Variant) Native() any {
	switch v.kind {
	case KindString:
		return v.str

	case KindBoolean:
		return v.flag

	default:
		return v.num
	}
}

// eval implements [Expr]; a Variant is already resolved.
func (v Variant) eval(*scope) (Variant, error) { return v, nil }

// formatNumber renders f as the shortest decimal that parses back to f,
// without an exponent.
func formatNumber(f float64) string {
	if f == 0 {
		return "0" // also normalizes -0
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}
