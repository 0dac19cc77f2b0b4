// Package lang implements the jtl template language: a scanner, a
// fault-tolerant parser, the syntax tree with source positions, a
// position/offset model for editor tooling, and a tree-walking renderer.
//
// # Syntax
//
// Source text is literal text with embedded tags. A tag projects a value
// from the host-supplied context, optionally calling it with arguments:
//
//	Hello, {user.name}!
//	{greet | "world"; 3; user.name}
//
// Informal grammar:
//
//	Source     → Statement*
//	Statement  → Text | '{' Expression '}'
//	Expression → Property? Arguments?
//	Property   → Identifier ('.' Identifier)*
//	Arguments  → '|' Argument (';' Argument)*
//	Argument   → String | Integer | Property
//
// Identifiers are made of ASCII letters and underscores. Integers are
// unsigned 32-bit decimal literals. Strings are double-quoted with no escape
// sequences. Tags do not nest.
//
// # Parsing
//
// [Scan] fails only on malformed lexemes. [Parse] never fails: it always
// returns a tree, and reports malformed input as [Diagnostic] values with
// precise spans so an editor can underline them.
//
// # Rendering
//
// A [Runtime] resolves property paths left to right against a root [Object]
// and renders [String] and [Integer] values as text. A [Function] value is
// called with the tag's arguments and its result rendered. Rendering refuses
// to run on a tree with diagnostics.
//
// # Editor support
//
// A [Document] converts between [Position] values and offsets, and [NodeAt]
// finds the syntax element under a cursor.
package lang
