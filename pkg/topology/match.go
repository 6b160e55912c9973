package topology

import (
	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/term"
)

// FromTerm matches t against the nine record shapes.
//
// A record is a tuple whose first element is the tag atom, followed by the
// fields in order. Identifier fields may be strings, atoms, or integers.
// The empty string and the empty list are the same value, so "" is accepted
// for an empty list field and [] for an empty identifier.
// Any other shape is an UNKNOWN_RECORD error whose message is the term.
func FromTerm(t term.Term) (Record, error) {
	tuple, ok := t.(term.Tuple)
	if !ok || len(tuple) == 0 {
		return nil, unknownRecord(t)
	}
	tag, ok := tuple[0].(term.Atom)
	if !ok {
		return nil, unknownRecord(t)
	}
	m := matcher{fields: tuple[1:]}

	var rec Record
	switch string(tag) {
	case TagSwitch:
		if m.arity(3) {
			rec = Switch{ID: m.scalar(0), DatapathID: m.scalar(1), Ports: m.scalars(2)}
		}
	case TagEndpoint:
		if m.arity(4) {
			rec = Endpoint{ID: m.scalar(0), IP: m.scalar(1), Switch: m.scalar(2), Port: m.scalar(3)}
		}
	case TagConnect:
		if m.arity(4) {
			rec = Connect{Switch1: m.scalar(0), Port1: m.scalar(1), Switch2: m.scalar(2), Port2: m.scalar(3)}
		}
	case TagGatewayBridge:
		if m.arity(3) {
			rec = GatewayBridge{ID: m.scalar(0), Switch: m.scalar(1), Port: m.scalar(2)}
		}
	case TagGatewayMask:
		if m.arity(5) {
			rec = GatewayMask{ID: m.scalar(0), IP: m.scalar(1), NetMask: m.scalar(2), Switch: m.scalar(3), Port: m.scalar(4)}
		}
	case TagPhysicalHost:
		if m.arity(3) {
			rec = PhysicalHost{ID: m.scalar(0), Bridges: m.pairs(1), VirtualPorts: m.scalars(2)}
		}
	case TagPatchPanel:
		if m.arity(2) {
			rec = PatchPanel{HostID: m.scalar(0), Ports: m.scalars(1)}
		}
	case TagVirtualHost:
		if m.arity(3) {
			rec = VirtualHost{PhysicalHostID: m.scalar(0), Suffix: m.scalar(1), VirtualPorts: m.scalars(2)}
		}
	case TagBoundTo:
		if m.arity(2) {
			rec = BoundTo{From: m.scalar(0), To: m.scalar(1)}
		}
	}

	if rec == nil || m.failed {
		return nil, unknownRecord(t)
	}
	return rec, nil
}

// matcher extracts typed fields from a tuple body and remembers whether any
// extraction failed, so a record is built in one expression and checked once.
type matcher struct {
	fields []term.Term
	failed bool
}

func (m *matcher) arity(n int) bool {
	return len(m.fields) == n
}

// scalar reads an identifier field. The empty list is the empty string.
func (m *matcher) scalar(i int) string {
	if list, ok := m.fields[i].(term.List); ok && len(list) == 0 {
		return ""
	}
	s, ok := term.Scalar(m.fields[i])
	if !ok {
		m.failed = true
	}
	return s
}

// list reads a list field. The empty string is the empty list.
func (m *matcher) list(i int) (term.List, bool) {
	switch v := m.fields[i].(type) {
	case term.List:
		return v, true
	case term.Text:
		if v == "" {
			return term.List{}, true
		}
	}
	m.failed = true
	return nil, false
}

func (m *matcher) scalars(i int) []string {
	list, ok := m.list(i)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, item := range list {
		s, ok := term.Scalar(item)
		if !ok {
			m.failed = true
			return nil
		}
		out = append(out, s)
	}
	return out
}

func (m *matcher) pairs(i int) []PortBridge {
	list, ok := m.list(i)
	if !ok {
		return nil
	}
	out := make([]PortBridge, 0, len(list))
	for _, item := range list {
		pair, ok := item.(term.Tuple)
		if !ok || len(pair) != 2 {
			m.failed = true
			return nil
		}
		pp, ok1 := term.Scalar(pair[0])
		vp, ok2 := term.Scalar(pair[1])
		if !ok1 || !ok2 {
			m.failed = true
			return nil
		}
		out = append(out, PortBridge{PhysicalPort: pp, VirtualPort: vp})
	}
	return out
}

func unknownRecord(t term.Term) error {
	return errors.New(errors.ErrCodeUnknownRecord, "unknown record: %s", t)
}
