// Package parser implements recursive descent parsing of the token stream
// into a document tree. Block structure arrives pre-digested as
// Indent/Dedent tokens, so each production here works with at most two
// tokens of lookahead and never re-examines source text.
//
// Grammar (simplified):
//
//	Stream    = { Document } ;
//	Document  = { Directive } [ "---" ] [ Node ] [ "..." ] ;
//	Node      = [ Properties ] ( Scalar | Alias | BlockSeq | BlockMap | FlowSeq | FlowMap ) ;
//	BlockMap  = Entry { Entry } ;
//	Entry     = ( Key ":" [ Node ] ) | ( "?" Node [ ":" Node ] ) ;
//	BlockSeq  = "-" [ Node ] { "-" [ Node ] } ;
//	FlowSeq   = "[" [ Node { "," Node } ] "]" ;
//	FlowMap   = "{" [ Member { "," Member } ] "}" ;
package parser

import (
	"github.com/shapestone/yamlkit/internal/ast"
	"github.com/shapestone/yamlkit/internal/scanner"
	"github.com/shapestone/yamlkit/pkg/fault"
)

// Parser consumes a scanned token stream and produces one document tree per
// NextDocument call. It is single-use and not restartable.
type Parser struct {
	tokens []scanner.Token
	pos    int

	src      string
	name     string
	maxDepth int
	depth    int

	yamlVersionSeen bool
	tagHandles      map[string]string
}

// New creates a parser over tokens scanned from src. maxDepth bounds node
// nesting; crossing it fails with a DepthExceeded fault.
func New(tokens []scanner.Token, src, name string, maxDepth int) *Parser {
	p := &Parser{
		tokens:   tokens,
		src:      src,
		name:     name,
		maxDepth: maxDepth,
	}
	p.resetDirectives()
	return p
}

// Parse scans and parses the first document of src.
func Parse(src, name string, maxDepth int) (*ast.Document, error) {
	tokens, err := scanner.Scan(src, name)
	if err != nil {
		return nil, err
	}
	p := New(tokens, src, name, maxDepth)
	doc, ok, err := p.NextDocument()
	if err != nil {
		return nil, err
	}
	if !ok {
		return &ast.Document{}, nil
	}
	return doc, nil
}

// ParseAll scans and parses every document of src, in stream order.
func ParseAll(src, name string, maxDepth int) ([]*ast.Document, error) {
	tokens, err := scanner.Scan(src, name)
	if err != nil {
		return nil, err
	}
	p := New(tokens, src, name, maxDepth)
	var docs []*ast.Document
	for {
		doc, ok, err := p.NextDocument()
		if err != nil {
			return nil, err
		}
		if !ok {
			return docs, nil
		}
		docs = append(docs, doc)
	}
}

// parseNode parses any node, with its optional anchor/tag properties.
// flow selects the flow grammar, where newlines are insignificant and the
// scanner has already suppressed indentation tokens.
func (p *Parser) parseNode(flow bool) (*ast.Node, error) {
	if err := p.enter(); err != nil {
		return nil, err
	}
	defer p.leave()

	anchor, tag, propMark, err := p.parseProperties()
	if err != nil {
		return nil, err
	}
	hasProps := anchor != "" || tag != ""

	var node *ast.Node
	switch p.kind() {
	case scanner.TokenScalar:
		if !flow && p.kindAt(1) == scanner.TokenColon {
			node, err = p.parseBlockMapping(nil)
		} else {
			tok := p.tok()
			p.advance()
			node = ast.NewScalar(tok.Text, tok.Style, tok.Start, tok.End)
		}

	case scanner.TokenAlias:
		if hasProps {
			return nil, fault.New(fault.Parser,
				"an alias node must not have an anchor or tag", propMark)
		}
		tok := p.tok()
		p.advance()
		if !flow && p.kind() == scanner.TokenColon {
			alias := ast.NewAlias(tok.Text, tok.Start, tok.End)
			node, err = p.parseBlockMapping(alias)
		} else {
			node = ast.NewAlias(tok.Text, tok.Start, tok.End)
		}

	case scanner.TokenDash:
		node, err = p.parseBlockSequence()

	case scanner.TokenQuestion:
		node, err = p.parseBlockMapping(nil)

	case scanner.TokenLBrace:
		node, err = p.parseFlowMapping()
		if err == nil && !flow && p.kind() == scanner.TokenColon {
			node, err = p.parseBlockMapping(node)
		}

	case scanner.TokenLBracket:
		node, err = p.parseFlowSequence()
		if err == nil && !flow && p.kind() == scanner.TokenColon {
			node, err = p.parseBlockMapping(node)
		}

	case scanner.TokenNewline:
		// Properties alone on their line: the value is nested on the
		// following lines, or empty. At document root the content may
		// also continue at the same indentation.
		node, err = p.parseNestedOrNull(p.depth == 1 && hasProps)

	case "":
		node = p.nullScalar(p.endMark())

	default:
		return nil, fault.Newf(fault.Parser, p.tokenMark(),
			"unexpected %s while parsing a node", p.kindName())
	}
	if err != nil {
		return nil, err
	}

	if anchor != "" {
		node.Anchor = anchor
	}
	if tag != "" {
		node.Tag = tag
	}
	return node, nil
}

// parseNestedOrNull handles a value placed on the lines after its key or
// properties: an Indent introduces the nested node, a Dash at the same
// indentation introduces a sequence, anything else means an empty scalar.
// sameIndent additionally accepts a mapping at the same indentation, which
// is only valid for a document root whose properties end their line; for a
// mapping value, same-indent keys are siblings of the key, not children.
func (p *Parser) parseNestedOrNull(sameIndent bool) (*ast.Node, error) {
	mark := p.tokenMark()
	p.skipNewlines()
	switch {
	case p.kind() == scanner.TokenIndent:
		p.advance()
		node, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		if p.kind() == scanner.TokenDedent {
			p.advance()
		}
		return node, nil
	case p.kind() == scanner.TokenDash:
		// Sequences may sit at the same indentation as their key.
		return p.parseBlockSequence()
	case sameIndent && p.kind() == scanner.TokenScalar && p.kindAt(1) == scanner.TokenColon:
		return p.parseBlockMapping(nil)
	case sameIndent && p.kind() == scanner.TokenQuestion:
		return p.parseBlockMapping(nil)
	default:
		return p.nullScalar(mark), nil
	}
}

// parseProperties consumes anchor and tag tokens in either order.
func (p *Parser) parseProperties() (anchor, tag string, mark fault.Mark, err error) {
	mark = p.tokenMark()
	for {
		switch p.kind() {
		case scanner.TokenAnchor:
			if anchor != "" {
				return "", "", mark, fault.New(fault.Parser,
					"a node must not have two anchors", p.tokenMark())
			}
			anchor = p.tok().Text
			p.advance()
		case scanner.TokenTag:
			if tag != "" {
				return "", "", mark, fault.New(fault.Parser,
					"a node must not have two tags", p.tokenMark())
			}
			tag, err = p.expandTag(p.tok().Text, p.tokenMark())
			if err != nil {
				return "", "", mark, err
			}
			p.advance()
		default:
			return anchor, tag, mark, nil
		}
	}
}

// parseKeyNode parses an implicit mapping key: a scalar, alias, or flow
// collection, with optional properties. Block collections are only valid
// as keys behind an explicit '?', which the mapping parser handles.
func (p *Parser) parseKeyNode() (*ast.Node, error) {
	anchor, tag, _, err := p.parseProperties()
	if err != nil {
		return nil, err
	}

	var node *ast.Node
	switch p.kind() {
	case scanner.TokenScalar:
		tok := p.tok()
		p.advance()
		node = ast.NewScalar(tok.Text, tok.Style, tok.Start, tok.End)
	case scanner.TokenAlias:
		tok := p.tok()
		p.advance()
		node = ast.NewAlias(tok.Text, tok.Start, tok.End)
	case scanner.TokenLBrace:
		node, err = p.parseFlowMapping()
	case scanner.TokenLBracket:
		node, err = p.parseFlowSequence()
	default:
		return nil, fault.Newf(fault.Parser, p.tokenMark(),
			"unexpected %s while parsing a mapping key", p.kindName())
	}
	if err != nil {
		return nil, err
	}

	if anchor != "" {
		node.Anchor = anchor
	}
	if tag != "" {
		node.Tag = tag
	}
	return node, nil
}

func (p *Parser) nullScalar(mark fault.Mark) *ast.Node {
	return ast.NewScalar("", ast.Plain, mark, mark)
}

// Depth guard

func (p *Parser) enter() error {
	p.depth++
	if p.depth > p.maxDepth {
		return fault.Newf(fault.DepthExceeded, p.tokenMark(),
			"document nesting exceeds the maximum depth of %d", p.maxDepth)
	}
	return nil
}

func (p *Parser) leave() { p.depth-- }

// Token cursor helpers

// tok returns the current token; it must not be called at end of stream.
func (p *Parser) tok() scanner.Token { return p.tokens[p.pos] }

// kind returns the current token kind, or "" at end of stream.
func (p *Parser) kind() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos].Kind
}

// kindAt returns the kind of the token n positions ahead, or "".
func (p *Parser) kindAt(n int) string {
	if p.pos+n >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos+n].Kind
}

func (p *Parser) advance() { p.pos++ }

// skipNewlines consumes any run of Newline tokens.
func (p *Parser) skipNewlines() {
	for p.kind() == scanner.TokenNewline {
		p.advance()
	}
}

// expect consumes a token of the given kind or fails with a parser fault.
func (p *Parser) expect(kind, what string) error {
	if p.kind() != kind {
		return fault.Newf(fault.Parser, p.tokenMark(),
			"expected %s, got %s", what, p.kindName())
	}
	p.advance()
	return nil
}

// tokenMark returns the mark of the current token, or the end-of-input mark.
func (p *Parser) tokenMark() fault.Mark {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos].Start
	}
	return p.endMark()
}

// endMark returns a mark just past the end of the source buffer.
func (p *Parser) endMark() fault.Mark {
	line, col := 1, 1
	if len(p.tokens) > 0 {
		end := p.tokens[len(p.tokens)-1].End
		line, col = end.Line, end.Column
	}
	return fault.Mark{Name: p.name, Line: line, Column: col, Offset: len(p.src), Buffer: p.src}
}

// prevEnd returns the end mark of the last consumed token.
func (p *Parser) prevEnd() fault.Mark {
	if p.pos > 0 {
		return p.tokens[p.pos-1].End
	}
	return p.tokenMark()
}

// kindName renders the current token kind for error messages.
func (p *Parser) kindName() string {
	k := p.kind()
	if k == "" {
		return "end of input"
	}
	return k
}
