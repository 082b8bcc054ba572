// Package scanner lexes YAML text into a token stream with position marks.
//
// Indentation is tracked with an explicit stack of column widths; increases
// and decreases are surfaced as synthetic Indent/Dedent tokens so the parser
// can treat block structure like bracketed structure. Comments are stripped
// and never tokenized as content. Quoted-scalar escapes and block-scalar
// folding/chomping are decoded at scan time, so scalar tokens always carry
// final text.
package scanner

import (
	"github.com/shapestone/yamlkit/internal/ast"
	"github.com/shapestone/yamlkit/pkg/fault"
)

// Token kind constants.
// Ordering concerns live in the scanner's dispatch, not here.
const (
	// Structural tokens
	TokenColon    = "Colon"    // :
	TokenDash     = "Dash"     // -
	TokenQuestion = "Question" // ? (complex key marker)
	TokenComma    = "Comma"    // , (flow style)
	TokenLBrace   = "LBrace"   // { (flow style)
	TokenRBrace   = "RBrace"   // } (flow style)
	TokenLBracket = "LBracket" // [ (flow style)
	TokenRBracket = "RBracket" // ] (flow style)

	// Indentation tokens (synthesized from the indentation stack)
	TokenIndent = "Indent"
	TokenDedent = "Dedent"

	// Content tokens
	TokenScalar = "Scalar" // decoded scalar text plus style
	TokenAnchor = "Anchor" // &name (Text holds name)
	TokenAlias  = "Alias"  // *name (Text holds name)
	TokenTag    = "Tag"    // !name, !!name, !h!name, !<verbatim> (Text as written)

	// Stream tokens
	TokenNewline   = "Newline"   // \n or \r\n (block context only)
	TokenDocStart  = "DocStart"  // ---
	TokenDocEnd    = "DocEnd"    // ...
	TokenDirective = "Directive" // %YAML or %TAG line (Text as written)
)

// Token is a single lexical unit with its start/end marks. Scalar tokens
// carry decoded text and the style they were written in; anchor, alias,
// tag, and directive tokens carry their text in Text.
type Token struct {
	Kind  string
	Text  string
	Style ast.Style
	Start fault.Mark
	End   fault.Mark
}
