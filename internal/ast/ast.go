// Package ast defines the document tree produced by the parser and consumed
// by the constructor. Node kinds are a closed tagged-variant enumeration
// rather than an interface hierarchy, so resolution can dispatch on Kind
// without type assertions.
package ast

import (
	"github.com/shapestone/yamlkit/pkg/fault"
)

// Kind identifies the structural variant of a Node.
type Kind int

const (
	ScalarNode Kind = iota
	SequenceNode
	MappingNode
	// AliasNode carries only an anchor-name reference in Value; it is
	// replaced by the anchored value during construction.
	AliasNode
)

// String returns the kind name used in error messages.
func (k Kind) String() string {
	switch k {
	case ScalarNode:
		return "scalar"
	case SequenceNode:
		return "sequence"
	case MappingNode:
		return "mapping"
	case AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}

// Style records the surface syntax a node was read from, and the syntax the
// dumper should prefer when writing it. The zero value means plain for
// scalars and block for collections.
type Style int

const (
	Plain Style = iota
	SingleQuoted
	DoubleQuoted
	Literal
	Folded
	Flow
)

// Node is one node of the document tree. Exactly one of Value, Items, or
// Pairs is meaningful, selected by Kind:
//
//   - ScalarNode:   Value holds the decoded scalar text
//   - SequenceNode: Items holds the children in document order
//   - MappingNode:  Pairs holds the key/value pairs in document order
//   - AliasNode:    Value holds the referenced anchor name
//
// Tag is the explicit tag as written (empty for implicit typing); Anchor is
// the anchor name (empty for none). Sequence and mapping nodes own their
// children exclusively.
type Node struct {
	Kind   Kind
	Style  Style
	Tag    string
	Anchor string
	Value  string
	Items  []*Node
	Pairs  []Pair

	Start fault.Mark
	End   fault.Mark
}

// Pair is one key/value entry of a mapping node.
type Pair struct {
	Key   *Node
	Value *Node
}

// NewScalar creates a scalar node.
func NewScalar(value string, style Style, start, end fault.Mark) *Node {
	return &Node{Kind: ScalarNode, Style: style, Value: value, Start: start, End: end}
}

// NewSequence creates a sequence node owning items.
func NewSequence(items []*Node, style Style, start, end fault.Mark) *Node {
	return &Node{Kind: SequenceNode, Style: style, Items: items, Start: start, End: end}
}

// NewMapping creates a mapping node owning pairs.
func NewMapping(pairs []Pair, style Style, start, end fault.Mark) *Node {
	return &Node{Kind: MappingNode, Style: style, Pairs: pairs, Start: start, End: end}
}

// NewAlias creates an alias node referencing anchor.
func NewAlias(anchor string, start, end fault.Mark) *Node {
	return &Node{Kind: AliasNode, Value: anchor, Start: start, End: end}
}

// Document is one document of a stream: a root node, which is nil for an
// empty document.
type Document struct {
	Root *Node
}
