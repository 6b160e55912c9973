package graph

import "fmt"

// Node types produced by the translator.
const (
	TypeSwitch       = "of_switch"
	TypeFlowTable    = "of_flow_table"
	TypePort         = "of_port"
	TypeEndpoint     = "endpoint"
	TypePhysicalHost = "lm_ph"
	TypePhysicalPort = "lm_pp"
	TypeVirtualPort  = "lm_vp"
	TypeVirtualHost  = "lm_vh"
	TypePatchPanel   = "lm_patchp"
)

// Link types produced by the translator.
const (
	LinkPartOf      = "part_of"
	LinkConnectedTo = "connected_to"
	LinkBoundTo     = "bound_to"
	LinkOFResource  = "of_resource"
)

// ElementKind distinguishes nodes from links.
type ElementKind int

const (
	KindNode ElementKind = iota
	KindLink
)

// String returns "node" or "link".
func (k ElementKind) String() string {
	if k == KindLink {
		return "link"
	}
	return "node"
}

// Field is one extra metadata entry. Value is a string, nil (JSON null), or
// []Field for a nested object.
type Field struct {
	Key   string
	Value any
}

// String returns a Field holding a string value.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Object returns a Field holding a nested object.
func Object(key string, fields ...Field) Field {
	if fields == nil {
		fields = []Field{}
	}
	return Field{Key: key, Value: fields}
}

// Null returns a Field holding JSON null.
func Null(key string) Field {
	return Field{Key: key}
}

// Metadata is the ordered metadata object of an element.
type Metadata struct {
	Type  string
	Extra []Field
}

// Get returns the value of the extra field key.
func (m Metadata) Get(key string) (any, bool) {
	for _, f := range m.Extra {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Element is a node or a link of the output graph.
type Element struct {
	Kind       ElementKind
	Identifier string    // set for nodes
	Link       [2]string // set for links
	Metadata   Metadata
}

// NewNode returns a node element with the given identifier, type, and extra
// metadata fields.
func NewNode(id, typ string, extra ...Field) Element {
	return Element{
		Kind:       KindNode,
		Identifier: id,
		Metadata:   Metadata{Type: typ, Extra: extra},
	}
}

// NewLink returns a link element from a to b with the given relationship type.
func NewLink(a, b, typ string) Element {
	return Element{
		Kind:     KindLink,
		Link:     [2]string{a, b},
		Metadata: Metadata{Type: typ},
	}
}

// IsNode reports whether e is a node.
func (e Element) IsNode() bool { return e.Kind == KindNode }

// IsLink reports whether e is a link.
func (e Element) IsLink() bool { return e.Kind == KindLink }

// String returns a short human-readable form, used in logs and test failures.
func (e Element) String() string {
	if e.IsLink() {
		return fmt.Sprintf("link(%s -> %s, %s)", e.Link[0], e.Link[1], e.Metadata.Type)
	}
	return fmt.Sprintf("node(%s, %s)", e.Identifier, e.Metadata.Type)
}

// Count returns the number of nodes and links in elems.
func Count(elems []Element) (nodes, links int) {
	for _, e := range elems {
		if e.IsLink() {
			links++
		} else {
			nodes++
		}
	}
	return nodes, links
}
