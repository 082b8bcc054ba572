package yaml

import (
	"github.com/shapestone/yamlkit/internal/ast"
	"github.com/shapestone/yamlkit/pkg/fault"
	"github.com/shapestone/yamlkit/pkg/orderedmap"
)

// constructor turns a parsed document tree into native values using the
// schema's type descriptors. Anchored collections are registered before
// their children are built, so aliases inside an anchored value resolve to
// the enclosing collection and cyclic documents load into cyclic values.
type constructor struct {
	schema  *Schema
	opts    *Options
	anchors map[string]interface{}
}

func newConstructor(opts *Options) *constructor {
	return &constructor{
		schema:  opts.Schema,
		opts:    opts,
		anchors: make(map[string]interface{}),
	}
}

func (c *constructor) constructDocument(doc *ast.Document) (interface{}, error) {
	if doc.Root == nil {
		return nil, nil
	}
	return c.construct(doc.Root)
}

func (c *constructor) construct(node *ast.Node) (interface{}, error) {
	switch node.Kind {
	case ast.AliasNode:
		value, found := c.anchors[node.Value]
		if !found {
			return nil, fault.Newf(fault.AliasNotFound, node.Start,
				"unidentified alias %q", "*"+node.Value)
		}
		return value, nil

	case ast.ScalarNode:
		value, err := c.constructScalar(node)
		if err != nil {
			return nil, err
		}
		if node.Anchor != "" {
			c.anchors[node.Anchor] = value
		}
		return value, nil

	case ast.SequenceNode:
		return c.constructSequence(node)

	case ast.MappingNode:
		return c.constructMapping(node)
	}
	return nil, fault.Newf(fault.Construct, node.Start,
		"cannot construct a value from a %s node", node.Kind)
}

func (c *constructor) constructScalar(node *ast.Node) (interface{}, error) {
	switch node.Tag {
	case "":
		// Implicit resolution applies to plain scalars only; quoted and
		// block scalars are always strings.
		if node.Style != ast.Plain {
			return node.Value, nil
		}
		t := c.schema.resolveScalar(node.Value)
		if t == nil || t.Construct == nil {
			// A schema without a string descriptor has no fallback type;
			// unmatched plain scalars stay raw text.
			return node.Value, nil
		}
		value, err := t.Construct(node.Value)
		if err != nil {
			return nil, fault.Newf(fault.Construct, node.Start, "%v", err)
		}
		return value, nil

	case "!":
		// The non-specific tag pins the node to its kind default.
		return node.Value, nil
	}

	t, found := c.schema.Lookup(node.Tag)
	if !found {
		return nil, fault.Newf(fault.UnresolvedTag, node.Start,
			"unresolved tag %q", node.Tag)
	}
	if t.Kind != ScalarType {
		return nil, fault.Newf(fault.Construct, node.Start,
			"tag %q cannot apply to a scalar node", node.Tag)
	}
	value, err := t.Construct(node.Value)
	if err != nil {
		return nil, fault.Newf(fault.Construct, node.Start, "%v", err)
	}
	return value, nil
}

func (c *constructor) constructSequence(node *ast.Node) (interface{}, error) {
	if err := c.checkCollectionTag(node, SequenceType); err != nil {
		return nil, err
	}

	// The slice is sized up front and filled in place, so an anchor
	// registered here shares its backing array with every alias taken
	// before the items finish constructing.
	seq := make([]interface{}, len(node.Items))
	if node.Anchor != "" {
		c.anchors[node.Anchor] = seq
	}
	for i, item := range node.Items {
		value, err := c.construct(item)
		if err != nil {
			return nil, err
		}
		seq[i] = value
	}
	return c.finishCollection(node, seq)
}

func (c *constructor) constructMapping(node *ast.Node) (interface{}, error) {
	if err := c.checkCollectionTag(node, MappingType); err != nil {
		return nil, err
	}

	m := orderedmap.NewMap()
	if node.Anchor != "" {
		c.anchors[node.Anchor] = m
	}

	var mergeSources []interface{}
	for _, pair := range node.Pairs {
		if isMergeKey(pair.Key) {
			value, err := c.construct(pair.Value)
			if err != nil {
				return nil, err
			}
			mergeSources = append(mergeSources, value)
			continue
		}

		key, err := c.construct(pair.Key)
		if err != nil {
			return nil, err
		}
		value, err := c.construct(pair.Value)
		if err != nil {
			return nil, err
		}

		if m.Has(key) {
			warning := fault.Newf(fault.DuplicateKey, pair.Key.Start,
				"duplicate mapping key %v overwrites an earlier entry", key)
			if c.opts.OnWarning != nil {
				if herr := c.opts.OnWarning(warning); herr != nil {
					return nil, herr
				}
			}
		}
		m.Set(key, value)
	}

	for _, source := range mergeSources {
		if err := c.merge(m, source, node); err != nil {
			return nil, err
		}
	}
	return c.finishCollection(node, m)
}

// merge folds the entries of source into m without overriding entries
// already present: explicit keys win over merged ones, and earlier merge
// sources win over later ones. A source may be a mapping or a sequence of
// mappings.
func (c *constructor) merge(m *orderedmap.Map, source interface{}, node *ast.Node) error {
	switch src := source.(type) {
	case *orderedmap.Map:
		src.Iterate(func(k, v interface{}) {
			if !m.Has(k) {
				m.Set(k, v)
			}
		})
		return nil
	case []interface{}:
		for _, item := range src {
			if err := c.merge(m, item, node); err != nil {
				return err
			}
		}
		return nil
	}
	return fault.Newf(fault.Construct, node.Start,
		"cannot merge a %T value into a mapping", source)
}

// isMergeKey recognizes the '<<' merge indicator: a plain, untagged scalar.
func isMergeKey(key *ast.Node) bool {
	return key.Kind == ast.ScalarNode && key.Style == ast.Plain &&
		key.Tag == "" && key.Value == "<<"
}

// checkCollectionTag validates an explicit tag on a collection node. The
// standard seq/map tags and the non-specific '!' are the kind defaults;
// anything else must name a registered descriptor of the right kind.
func (c *constructor) checkCollectionTag(node *ast.Node, kind TypeKind) error {
	if node.Tag == "" || node.Tag == "!" || c.isKindDefault(node.Tag, kind) {
		return nil
	}
	t, found := c.schema.Lookup(node.Tag)
	if !found {
		return fault.Newf(fault.UnresolvedTag, node.Start,
			"unresolved tag %q", node.Tag)
	}
	if t.Kind != kind {
		return fault.Newf(fault.Construct, node.Start,
			"tag %q cannot apply to a %s node", node.Tag, node.Kind)
	}
	return nil
}

// finishCollection runs the tagged descriptor's Construct over the built
// collection, when a non-default tag names one.
func (c *constructor) finishCollection(node *ast.Node, built interface{}) (interface{}, error) {
	if node.Tag == "" || node.Tag == "!" {
		return built, nil
	}
	t, found := c.schema.Lookup(node.Tag)
	if !found || t.Construct == nil {
		return built, nil
	}
	value, err := t.Construct(built)
	if err != nil {
		return nil, fault.Newf(fault.Construct, node.Start, "%v", err)
	}
	// Re-register the anchor so aliases after this node see the final
	// value. Aliases taken inside the node keep the raw collection.
	if node.Anchor != "" {
		c.anchors[node.Anchor] = value
	}
	return value, nil
}

func (c *constructor) isKindDefault(tag string, kind TypeKind) bool {
	switch kind {
	case SequenceType:
		return tag == yamlTagPrefix+"seq"
	case MappingType:
		return tag == yamlTagPrefix+"map"
	}
	return false
}
