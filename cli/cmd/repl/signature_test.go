package repl

import (
	"slices"
	"strings"
	"testing"
)

func TestDetectFunctionCall(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		cursor int
		want   functionCall
	}{
		{"empty", "", 0, functionCall{}},
		{"no_call", "a + b", 5, functionCall{}},
		{"first_arg", "clamp(", 6, functionCall{name: "clamp", argIndex: 0, inCall: true}},
		{"second_arg", "clamp(x, ", 9, functionCall{name: "clamp", argIndex: 1, inCall: true}},
		{"third_arg", "clamp(x, 0, 1", 13, functionCall{name: "clamp", argIndex: 2, inCall: true}},
		{"closed", "clamp(x, 0, 1)", 14, functionCall{}},
		{"nested_inner", "max(1, abs(", 11, functionCall{name: "abs", argIndex: 0, inCall: true}},
		{"nested_outer", "max(1, abs(x), ", 15, functionCall{name: "max", argIndex: 2, inCall: true}},
		{"after_operator", "1 + min(a", 9, functionCall{name: "min", argIndex: 0, inCall: true}},
		{"grouping_only", "(a + b", 6, functionCall{}},
		{"paren_in_string", `contains("(", `, 14, functionCall{name: "contains", argIndex: 1, inCall: true}},
		{"comma_in_string", `contains("a,b", s`, 17, functionCall{name: "contains", argIndex: 1, inCall: true}},
		{"cursor_before_call", "x + max(1, 2", 2, functionCall{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := detectFunctionCall(tt.input, tt.cursor); got != tt.want {
				t.Errorf("detectFunctionCall(%q, %d) = %+v, want %+v",
					tt.input, tt.cursor, got, tt.want)
			}
		})
	}
}

func TestGetSignature(t *testing.T) {
	tests := []struct {
		name       string
		wantSig    string
		wantParams []string
	}{
		{"clamp", "clamp(x, lo, hi)", []string{"x", "lo", "hi"}},
		{"max", "max(x, ...)", []string{"x", "..."}},
		{"abs", "abs(x)", []string{"x"}},
		{"player.health", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, params := getSignature(tt.name)
			if sig != tt.wantSig {
				t.Errorf("signature = %q, want %q", sig, tt.wantSig)
			}

			if !slices.Equal(params, tt.wantParams) {
				t.Errorf("params = %q, want %q", params, tt.wantParams)
			}
		})
	}
}

func TestRenderSignatureHint(t *testing.T) {
	if got := renderSignatureHint("", nil, 0); got != "" {
		t.Errorf("empty signature rendered %q", got)
	}

	sig, params := getSignature("clamp")

	for idx := range params {
		got := renderSignatureHint(sig, params, idx)

		for _, want := range append([]string{"clamp"}, params...) {
			if !strings.Contains(got, want) {
				t.Errorf("hint for arg %d missing %q: %q", idx, want, got)
			}
		}
	}

	sig, params = getSignature("min")
	if got := renderSignatureHint(sig, params, 5); !strings.Contains(got, variadicParam) {
		t.Errorf("variadic hint missing %q: %q", variadicParam, got)
	}
}
