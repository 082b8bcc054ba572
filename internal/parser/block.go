package parser

import (
	"github.com/shapestone/yamlkit/internal/ast"
	"github.com/shapestone/yamlkit/internal/scanner"
)

// parseBlockMapping parses a block mapping. firstKey carries a key node the
// caller already consumed (an alias or flow collection followed by ':');
// it is nil for the common case.
//
// Mapping entries that continue on following lines arrive behind Indent
// tokens; the depth of consumed Indents is tracked so the matching Dedents
// can be balanced when the mapping ends.
func (p *Parser) parseBlockMapping(firstKey *ast.Node) (*ast.Node, error) {
	start := p.tokenMark()
	if firstKey != nil {
		start = firstKey.Start
	}

	var pairs []ast.Pair
	indentDepth := 0

loop:
	for {
		switch p.kind() {
		case "", scanner.TokenDedent, scanner.TokenDocStart, scanner.TokenDocEnd, scanner.TokenDirective:
			break loop
		case scanner.TokenNewline:
			p.advance()
			continue
		case scanner.TokenIndent:
			p.advance()
			indentDepth++
			continue
		}

		var key *ast.Node
		var err error
		switch {
		case firstKey != nil:
			key = firstKey
			firstKey = nil
		case p.kind() == scanner.TokenQuestion:
			pair, perr := p.parseExplicitEntry()
			if perr != nil {
				return nil, perr
			}
			pairs = append(pairs, pair)
			continue
		default:
			if !p.canStartKey() {
				break loop
			}
			key, err = p.parseKeyNode()
			if err != nil {
				return nil, err
			}
		}

		if err := p.expect(scanner.TokenColon, "':' after mapping key"); err != nil {
			return nil, err
		}

		value, err := p.parseMappingValue()
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, ast.Pair{Key: key, Value: value})
	}

	for indentDepth > 0 && p.kind() == scanner.TokenDedent {
		p.advance()
		indentDepth--
	}

	return ast.NewMapping(pairs, 0, start, p.prevEnd()), nil
}

// parseMappingValue parses the value side of a mapping entry: inline after
// the colon, nested on the following lines, or empty.
func (p *Parser) parseMappingValue() (*ast.Node, error) {
	switch p.kind() {
	case scanner.TokenNewline:
		return p.parseNestedOrNull(false)
	case "", scanner.TokenDedent, scanner.TokenDocStart, scanner.TokenDocEnd:
		return p.nullScalar(p.tokenMark()), nil
	default:
		value, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		if p.kind() == scanner.TokenNewline {
			p.advance()
		}
		return value, nil
	}
}

// parseExplicitEntry parses one '? key [: value]' entry. The key may be any
// node, including block collections nested on the following lines.
func (p *Parser) parseExplicitEntry() (ast.Pair, error) {
	p.advance() // '?'

	var key *ast.Node
	var err error
	if p.kind() == scanner.TokenNewline {
		key, err = p.parseNestedOrNull(false)
	} else {
		key, err = p.parseNode(false)
	}
	if err != nil {
		return ast.Pair{}, err
	}

	p.skipNewlines()
	value := p.nullScalar(p.tokenMark())
	if p.kind() == scanner.TokenColon {
		p.advance()
		value, err = p.parseMappingValue()
		if err != nil {
			return ast.Pair{}, err
		}
	}
	return ast.Pair{Key: key, Value: value}, nil
}

// canStartKey reports whether the current token can begin an implicit
// mapping key.
func (p *Parser) canStartKey() bool {
	switch p.kind() {
	case scanner.TokenScalar, scanner.TokenAlias, scanner.TokenAnchor, scanner.TokenTag,
		scanner.TokenLBrace, scanner.TokenLBracket:
		return true
	}
	return false
}

// parseBlockSequence parses a '-'-marked block sequence. Like mappings,
// continuation Indents are counted and their Dedents balanced at the end.
func (p *Parser) parseBlockSequence() (*ast.Node, error) {
	start := p.tokenMark()

	var items []*ast.Node
	indentDepth := 0

loop:
	for {
		switch p.kind() {
		case "", scanner.TokenDedent, scanner.TokenDocStart, scanner.TokenDocEnd, scanner.TokenDirective:
			break loop
		case scanner.TokenNewline:
			p.advance()
			continue
		case scanner.TokenIndent:
			p.advance()
			indentDepth++
			continue
		}
		if p.kind() != scanner.TokenDash {
			break loop
		}
		p.advance()

		item, err := p.parseSequenceItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	for indentDepth > 0 && p.kind() == scanner.TokenDedent {
		p.advance()
		indentDepth--
	}

	return ast.NewSequence(items, 0, start, p.prevEnd()), nil
}

// parseSequenceItem parses one sequence entry after its dash. A dash on the
// next line at the same indentation is a sibling entry, not a nested value,
// so unlike mapping values only an Indent introduces nesting here.
func (p *Parser) parseSequenceItem() (*ast.Node, error) {
	switch p.kind() {
	case scanner.TokenNewline:
		mark := p.tokenMark()
		p.skipNewlines()
		if p.kind() != scanner.TokenIndent {
			return p.nullScalar(mark), nil
		}
		p.advance()
		item, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		if p.kind() == scanner.TokenDedent {
			p.advance()
		}
		return item, nil
	case "", scanner.TokenDedent:
		return p.nullScalar(p.tokenMark()), nil
	default:
		item, err := p.parseNode(false)
		if err != nil {
			return nil, err
		}
		if p.kind() == scanner.TokenNewline {
			p.advance()
		}
		return item, nil
	}
}
