package repl

import (
	"strings"
	"unicode/utf8"

	"github.com/ardnew/vex/lang"
)

// variadicParam is the parameter name marking a variadic tail.
const variadicParam = "..."

// functionCall represents a detected function call in the input.
type functionCall struct {
	name     string // function name
	argIndex int    // current argument index (0-based)
	inCall   bool   // true if cursor is inside parameter list
}

// detectFunctionCall analyzes the input to determine if the cursor is inside
// a function call's parameter list. Parentheses inside string literals are
// ignored.
func detectFunctionCall(input string, cursor int) functionCall {
	cursor = min(max(cursor, 0), len(input))

	// Find the innermost unclosed '(' before the cursor.
	var open []int

	for i := 0; i < cursor; i++ {
		switch input[i] {
		case '"':
			i = skipString(input, i, cursor)
		case '(':
			open = append(open, i)
		case ')':
			if len(open) > 0 {
				open = open[:len(open)-1]
			}
		}
	}

	if len(open) == 0 {
		return functionCall{}
	}

	paren := open[len(open)-1]

	// Walk backward over the identifier naming the call.
	start := paren

	for start > 0 {
		r, size := utf8.DecodeLastRuneInString(input[:start])
		if isWordBoundary(r) {
			break
		}

		start -= size
	}

	name := strings.TrimSpace(input[start:paren])
	if name == "" {
		return functionCall{}
	}

	// Count arguments by counting commas at depth 0 in the parameter list.
	argIndex, depth := 0, 0

	for i := paren + 1; i < cursor; i++ {
		switch input[i] {
		case '"':
			i = skipString(input, i, cursor)
		case '(':
			depth++
		case ')':
			depth--
		case ',':
			if depth == 0 {
				argIndex++
			}
		}
	}

	return functionCall{name: name, argIndex: argIndex, inCall: true}
}

// skipString returns the offset of the quote closing the string literal
// opened at input[i], or limit if it is not closed before limit.
func skipString(input string, i, limit int) int {
	for i++; i < limit; i++ {
		switch input[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}

	return limit
}

// getSignature returns the signature of the named builtin and its parameter
// names. It returns "" if name is not a builtin.
func getSignature(name string) (signature string, params []string) {
	signature, ok := lang.Signature(name)
	if !ok {
		return "", nil
	}

	open := strings.IndexByte(signature, '(')
	list := strings.TrimSuffix(signature[open+1:], ")")

	if list == "" {
		return signature, nil
	}

	for p := range strings.SplitSeq(list, ",") {
		params = append(params, strings.TrimSpace(p))
	}

	return signature, params
}

// renderSignatureHint renders the function signature with the current
// parameter highlighted.
func renderSignatureHint(
	signature string,
	params []string,
	currentArgIdx int,
) string {
	if signature == "" {
		return ""
	}

	open := strings.IndexByte(signature, '(')
	if open == -1 {
		return signatureStyle.Render(signature)
	}

	name := signature[:open]

	if len(params) == 0 {
		return signatureNameStyle.Render(name) + signatureStyle.Render("()")
	}

	var b strings.Builder

	b.WriteString(signatureNameStyle.Render(name))
	b.WriteString(signatureStyle.Render("("))

	for i, param := range params {
		if i > 0 {
			b.WriteString(signatureSeparatorStyle.Render(", "))
		}

		// The variadic marker stays highlighted for every trailing argument.
		if currentArgIdx == i || (param == variadicParam && currentArgIdx > i) {
			b.WriteString(currentParamStyle.Render(param))
		} else {
			b.WriteString(signatureStyle.Render(param))
		}
	}

	b.WriteString(signatureStyle.Render(")"))

	return b.String()
}
