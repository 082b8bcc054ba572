package parser

import (
	"github.com/shapestone/yamlkit/internal/ast"
	"github.com/shapestone/yamlkit/internal/scanner"
	"github.com/shapestone/yamlkit/pkg/fault"
)

// NextDocument parses the next document of the stream. ok reports whether a
// document was present; it is false once the stream is exhausted. A fault
// in any document aborts the rest of the stream, but documents already
// returned stand.
//
// Tag handles and the version declaration reset at each document boundary.
func (p *Parser) NextDocument() (doc *ast.Document, ok bool, err error) {
	p.resetDirectives()
	p.skipNewlines()

	sawDirective := false
	for p.kind() == scanner.TokenDirective {
		if err := p.processDirective(p.tok()); err != nil {
			return nil, false, err
		}
		sawDirective = true
		p.advance()
		p.skipNewlines()
	}

	hadStart := false
	if p.kind() == scanner.TokenDocStart {
		p.advance()
		hadStart = true
	} else if sawDirective {
		return nil, false, fault.New(fault.Parser,
			"directives must be followed by a document start marker", p.tokenMark())
	}
	p.skipNewlines()

	switch p.kind() {
	case "":
		if hadStart {
			return &ast.Document{}, true, nil
		}
		return nil, false, nil
	case scanner.TokenDocStart:
		// Another '---' right away: this document is empty. The marker is
		// left for the next call.
		return &ast.Document{}, true, nil
	case scanner.TokenDocEnd:
		p.advance()
		p.skipNewlines()
		if hadStart {
			return &ast.Document{}, true, nil
		}
		return p.NextDocument()
	}

	root, err := p.parseNode(false)
	if err != nil {
		return nil, false, err
	}

trailing:
	for {
		switch p.kind() {
		case scanner.TokenNewline, scanner.TokenDedent, scanner.TokenDocEnd:
			p.advance()
		default:
			break trailing
		}
	}

	switch p.kind() {
	case "", scanner.TokenDocStart, scanner.TokenDirective:
	default:
		return nil, false, fault.Newf(fault.Parser, p.tokenMark(),
			"expected the end of the stream or a document separator, got %s", p.kindName())
	}
	return &ast.Document{Root: root}, true, nil
}
