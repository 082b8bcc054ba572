package parser

import (
	"github.com/shapestone/yamlkit/internal/ast"
	"github.com/shapestone/yamlkit/internal/scanner"
	"github.com/shapestone/yamlkit/pkg/fault"
)

// parseFlowSequence parses '[' entry, ... ']'. The scanner suppresses
// newline and indentation tokens inside flow collections, so entries may
// span source lines freely.
func (p *Parser) parseFlowSequence() (*ast.Node, error) {
	start := p.tokenMark()
	p.advance() // '['

	var items []*ast.Node
	for {
		if p.kind() == scanner.TokenRBracket {
			p.advance()
			break
		}
		if p.kind() == "" {
			return nil, fault.New(fault.Parser,
				"unexpected end of input inside a flow sequence", p.endMark())
		}

		item, err := p.parseFlowItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)

		switch p.kind() {
		case scanner.TokenComma:
			p.advance()
		case scanner.TokenRBracket:
		default:
			return nil, fault.Newf(fault.Parser, p.tokenMark(),
				"expected ',' or ']' in a flow sequence, got %s", p.kindName())
		}
	}

	return ast.NewSequence(items, ast.Flow, start, p.prevEnd()), nil
}

// parseFlowItem parses one flow sequence entry, including the single-pair
// mapping shorthand '[key: value]'.
func (p *Parser) parseFlowItem() (*ast.Node, error) {
	node, err := p.parseNode(true)
	if err != nil {
		return nil, err
	}
	if p.kind() != scanner.TokenColon {
		return node, nil
	}
	p.advance()
	value, err := p.parseFlowValue()
	if err != nil {
		return nil, err
	}
	pairs := []ast.Pair{{Key: node, Value: value}}
	return ast.NewMapping(pairs, ast.Flow, node.Start, p.prevEnd()), nil
}

// parseFlowMapping parses '{' member, ... '}'. Members without a colon get
// an empty value, so '{a, b}' is a mapping of two null-valued keys.
func (p *Parser) parseFlowMapping() (*ast.Node, error) {
	start := p.tokenMark()
	p.advance() // '{'

	var pairs []ast.Pair
	for {
		if p.kind() == scanner.TokenRBrace {
			p.advance()
			break
		}
		if p.kind() == "" {
			return nil, fault.New(fault.Parser,
				"unexpected end of input inside a flow mapping", p.endMark())
		}

		if p.kind() == scanner.TokenQuestion {
			p.advance()
		}
		key, err := p.parseNode(true)
		if err != nil {
			return nil, err
		}

		value := p.nullScalar(p.tokenMark())
		if p.kind() == scanner.TokenColon {
			p.advance()
			value, err = p.parseFlowValue()
			if err != nil {
				return nil, err
			}
		}
		pairs = append(pairs, ast.Pair{Key: key, Value: value})

		switch p.kind() {
		case scanner.TokenComma:
			p.advance()
		case scanner.TokenRBrace:
		default:
			return nil, fault.Newf(fault.Parser, p.tokenMark(),
				"expected ',' or '}' in a flow mapping, got %s", p.kindName())
		}
	}

	return ast.NewMapping(pairs, ast.Flow, start, p.prevEnd()), nil
}

// parseFlowValue parses the value side of a flow mapping member, which may
// be empty before ',' or a closing bracket.
func (p *Parser) parseFlowValue() (*ast.Node, error) {
	switch p.kind() {
	case scanner.TokenComma, scanner.TokenRBrace, scanner.TokenRBracket:
		return p.nullScalar(p.tokenMark()), nil
	default:
		return p.parseNode(true)
	}
}
