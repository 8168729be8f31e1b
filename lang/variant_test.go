package lang

import (
	"errors"
	"math"
	"testing"
)

func TestVariantConversions(t *testing.T) {
	tests := []struct {
		name    string
		v       Variant
		wantNum float64
		wantStr string
		wantOK  bool
	}{
		{name: "integer", v: Number(42), wantNum: 42, wantStr: "42", wantOK: true},
		{name: "fraction", v: Number(1.5), wantNum: 1.5, wantStr: "1.5", wantOK: true},
		{name: "negative", v: Number(-3.25), wantNum: -3.25, wantStr: "-3.25", wantOK: true},
		{name: "zero", v: Number(0), wantNum: 0, wantStr: "0", wantOK: false},
		{name: "negative_zero", v: Number(math.Copysign(0, -1)), wantNum: 0, wantStr: "0", wantOK: false},
		{name: "large", v: Number(1e21), wantNum: 1e21, wantStr: "1000000000000000000000", wantOK: true},
		{name: "small", v: Number(0.0001), wantNum: 0.0001, wantStr: "0.0001", wantOK: true},
		{name: "numeric_string", v: String("12.5"), wantNum: 12.5, wantStr: "12.5", wantOK: true},
		{name: "padded_string", v: String("  7 "), wantNum: 7, wantStr: "  7 ", wantOK: true},
		{name: "exponent_string", v: String("1e3"), wantNum: 1000, wantStr: "1e3", wantOK: true},
		{name: "true", v: Bool(true), wantNum: 1, wantStr: "true", wantOK: true},
		{name: "false", v: Bool(false), wantNum: 0, wantStr: "false", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.v.AsNumber()
			if err != nil {
				t.Fatalf("AsNumber() error: %v", err)
			}

			if got != tt.wantNum {
				t.Errorf("AsNumber() = %v, want %v", got, tt.wantNum)
			}

			if s := tt.v.AsString(); s != tt.wantStr {
				t.Errorf("AsString() = %q, want %q", s, tt.wantStr)
			}

			if b := tt.v.AsBool(); b != tt.wantOK {
				t.Errorf("AsBool() = %v, want %v", b, tt.wantOK)
			}
		})
	}
}

func TestVariantTruthiness(t *testing.T) {
	tests := []struct {
		name string
		v    Variant
		want bool
	}{
		{"nan", Number(math.NaN()), false},
		{"inf", Number(math.Inf(1)), true},
		{"empty_string", String(""), false},
		{"space_string", String(" "), true},
		{"string_false", String("false"), true},
		{"string_zero", String("0"), true},
		{"zero_value", Variant{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.v.AsBool(); got != tt.want {
				t.Errorf("AsBool() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestVariantAsNumberError(t *testing.T) {
	for _, s := range []string{"abc", "", "12abc", "1,5"} {
		_, err := Named("player.name", String(s)).AsNumber()
		if !errors.Is(err, ErrConversion) {
			t.Errorf("AsNumber(%q) error = %v, want ErrConversion", s, err)
		}
	}
}

func TestVariantAdd(t *testing.T) {
	tests := []struct {
		name     string
		a, b     Variant
		wantKind Kind
		wantStr  string
	}{
		{"numbers", Number(2), Number(3), KindNumber, "5"},
		{"fractions", Number(0.5), Number(0.25), KindNumber, "0.75"},
		{"strings", String("foo"), String("bar"), KindString, "foobar"},
		{"number_string", Number(1), String("x"), KindString, "1x"},
		{"string_number", String("x"), Number(1.5), KindString, "x1.5"},
		{"numeric_strings", String("1"), String("2"), KindString, "12"},
		{"bools", Bool(true), Bool(false), KindString, "truefalse"},
		{"number_bool", Number(1), Bool(true), KindString, "1true"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.a.Add(tt.b)

			if got.Kind() != tt.wantKind {
				t.Errorf("kind = %v, want %v", got.Kind(), tt.wantKind)
			}

			if got.AsString() != tt.wantStr {
				t.Errorf("AsString() = %q, want %q", got.AsString(), tt.wantStr)
			}
		})
	}
}

func TestVariantAddProperties(t *testing.T) {
	nums := []float64{0, 1, -1, 0.5, 1e10, -2.75, 3}

	for _, a := range nums {
		for _, b := range nums {
			sum, err := Number(a).Add(Number(b)).AsNumber()
			if err != nil {
				t.Fatalf("AsNumber() error: %v", err)
			}

			if sum != a+b {
				t.Errorf("%v + %v = %v, want %v", a, b, sum, a+b)
			}
		}
	}

	vals := []Variant{Number(4), String("s"), String(""), Bool(true)}

	for _, a := range vals {
		for _, b := range vals {
			if a.Kind() != KindString && b.Kind() != KindString {
				continue
			}

			got := a.Add(b)

			if got.Kind() != KindString {
				t.Errorf("%v + %v kind = %v, want String", a, b, got.Kind())
			}

			if want := a.AsString() + b.AsString(); got.AsString() != want {
				t.Errorf("%v + %v = %q, want %q", a, b, got.AsString(), want)
			}
		}
	}
}

func TestVariantCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Variant
		want int
	}{
		{"numbers_less", Number(1), Number(2), -1},
		{"numbers_equal", Number(2), Number(2), 0},
		{"numbers_greater", Number(10), Number(9), 1},
		{"strings", String("abc"), String("abd"), -1},
		{"strings_equal", String("abc"), String("abc"), 0},
		{"bools", Bool(false), Bool(true), -1},
		{"bools_equal", Bool(true), Bool(true), 0},
		{"nan_equal", Number(math.NaN()), Number(math.NaN()), 0},
		{"nan_least", Number(math.NaN()), Number(math.Inf(-1)), -1},
		{"cross_number_string_equal", Number(1), String("1"), 0},
		{"cross_number_string_lexical", Number(10), String("9"), -1},
		{"cross_number_bool", Number(1), Bool(true), -1},
		{"cross_string_bool", String("true"), Bool(true), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Compare(tt.b); got != tt.want {
				t.Errorf("Compare() = %d, want %d", got, tt.want)
			}

			if got := tt.b.Compare(tt.a); got != -tt.want {
				t.Errorf("reverse Compare() = %d, want %d", got, -tt.want)
			}

			if got := tt.a.Equal(tt.b); got != (tt.want == 0) {
				t.Errorf("Equal() = %v, want %v", got, tt.want == 0)
			}
		})
	}
}

func TestVariantName(t *testing.T) {
	if got := Number(1).Name(); got != "<anon>" {
		t.Errorf("Name() = %q, want <anon>", got)
	}

	v := Named("player.health", Number(20))
	if got := v.Name(); got != "player.health" {
		t.Errorf("Name() = %q, want player.health", got)
	}

	if !v.Equal(Number(20)) {
		t.Error("named variant should equal its unnamed value")
	}
}

func TestVariantNative(t *testing.T) {
	if got := Number(2.5).Native(); got != 2.5 {
		t.Errorf("Native() = %v", got)
	}

	if got := String("x").Native(); got != "x" {
		t.Errorf("Native() = %v", got)
	}

	if got := Bool(true).Native(); got != true {
		t.Errorf("Native() = %v", got)
	}
}
