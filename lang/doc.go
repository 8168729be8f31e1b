// Package lang implements a small embedded condition language used to drive
// effects from live state. Expression text is compiled once into an immutable
// tree and evaluated repeatedly against an [Env] of lazily resolved names.
//
// # Values
//
// Every value is a [Variant]: a number, a string or a boolean. Each Variant
// converts to all three representations:
//
//	Kind     AsNumber          AsString           AsBool
//	Number   itself            shortest decimal   non-zero and not NaN
//	String   parsed or error   itself             non-empty
//	Boolean  1 or 0            "true" / "false"   itself
//
// Variants of the same kind compare natively. Variants of different kinds
// compare by their string forms, so 1 == "1" but 1 != true.
//
// # Grammar
//
// Informal EBNF, lowest precedence first:
//
//	Expr           → Or
//	Or             → And ( "||" And )*
//	And            → Equality ( "&&" Equality )*
//	Equality       → Relational ( ( "==" | "!=" ) Relational )*
//	Relational     → Additive ( ( "<" | "<=" | ">" | ">=" ) Additive )*
//	Additive       → Multiplicative ( ( "+" | "-" ) Multiplicative )*
//	Multiplicative → Unary ( ( "*" | "/" | "%" ) Unary )*
//	Unary          → ( "!" | "-" ) Unary | Primary
//	Primary        → Number | String | "true" | "false"
//	               | Identifier | Identifier "(" Args? ")" | "(" Expr ")"
//	Args           → Expr ( "," Expr )*
//
// Identifiers start with a letter or underscore and may contain letters,
// digits, '_', '.' and ':' (for example player.health or biome:plains).
// Strings are double-quoted with Go escape sequences.
//
// # Laziness
//
// Names are resolved at evaluation time, never at compile time, so one
// [Program] may be evaluated against many environments. A binding is invoked
// only when its value is consulted and at most once per evaluation; "&&" and
// "||" skip their right operand when the left one decides the result, and
// the builtin if() and oneof() evaluate only the arguments they need.
//
// # Example
//
//	prog, err := lang.Compile(ctx, `player.health < 5 && !player.inWater`)
//	if err != nil {
//		return err
//	}
//
//	env := lang.NewEnv()
//	env.Bind("player.health", func() (lang.Variant, error) {
//		return lang.Number(p.Health()), nil
//	})
//	env.BindBool("player.inWater", p.InWater())
//
//	warn, err := prog.EvalBool(ctx, env)
package lang
