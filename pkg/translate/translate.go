// Package translate maps topology records to graph elements.
//
// Each record kind has one translation function; the output of a record is a
// fixed sequence of nodes and links, and the output of a record list is the
// concatenation of those sequences in input order:
//
//	elems, err := translate.Translate(records)
//
// Translation is pure. The same records always yield the same elements, and
// nothing is deduplicated: two records naming the same identifier produce two
// nodes with that identifier.
package translate

import (
	"fmt"

	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/graph"
	"github.com/matzehuels/topo2graph/pkg/topology"
)

// Identifier pieces and fixed metadata values.
const (
	FlowTableSuffix = "-table-0"
	PatchPanelName  = "PatchP"

	BroadcastIP    = "255.255.255.255"
	WildcardMask   = "0.0.0.0"
	firstTableNo   = "0"
	bridgeRulesOn  = "true"
	bridgeRulesOff = "false"
)

// Options configures a [Translator].
type Options struct {
	// Strict rejects physical hosts whose bridged and unbridged virtual
	// ports share a suffix. By default both nodes are emitted.
	Strict bool
}

// Translator converts records to graph elements.
type Translator struct {
	opts Options
}

// New returns a Translator with the given options.
func New(opts Options) *Translator {
	return &Translator{opts: opts}
}

// Translate converts records with default options.
func Translate(records []topology.Record) ([]graph.Element, error) {
	return New(Options{}).Translate(records)
}

// Translate converts records in order. On error no elements are returned.
func (t *Translator) Translate(records []topology.Record) ([]graph.Element, error) {
	var elems []graph.Element
	for i, rec := range records {
		out, err := t.Record(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		elems = append(elems, out...)
	}
	if elems == nil {
		elems = []graph.Element{}
	}
	return elems, nil
}

// Record converts a single record.
func (t *Translator) Record(rec topology.Record) ([]graph.Element, error) {
	switch r := rec.(type) {
	case topology.Switch:
		return switchElements(r), nil
	case topology.Endpoint:
		return endpointElements(r), nil
	case topology.Connect:
		return connectElements(r), nil
	case topology.GatewayBridge:
		return gatewayBridgeElements(r), nil
	case topology.GatewayMask:
		return gatewayMaskElements(r), nil
	case topology.PhysicalHost:
		if t.opts.Strict {
			if dup := SharedVirtualPorts(r); len(dup) > 0 {
				return nil, errors.New(errors.ErrCodeDuplicateIdentifier,
					"%s %q: virtual port %q is both bridged and unbridged", r.Tag(), r.ID, dup[0])
			}
		}
		return physicalHostElements(r), nil
	case topology.PatchPanel:
		return patchPanelElements(r), nil
	case topology.VirtualHost:
		return virtualHostElements(r), nil
	case topology.BoundTo:
		return boundToElements(r), nil
	}
	return nil, errors.New(errors.ErrCodeUnknownRecord, "unknown record: %#v", rec)
}

func switchElements(r topology.Switch) []graph.Element {
	table := r.ID + FlowTableSuffix
	elems := make([]graph.Element, 0, 3+2*len(r.Ports))
	elems = append(elems,
		graph.NewNode(r.ID, graph.TypeSwitch, graph.String("datapath_id", r.DatapathID)),
		graph.NewNode(table, graph.TypeFlowTable, graph.String("table_no", firstTableNo)),
		graph.NewLink(r.ID, table, graph.LinkOFResource),
	)
	for _, p := range r.Ports {
		port := graph.JoinIdentifier(r.ID, p)
		elems = append(elems,
			graph.NewNode(port, graph.TypePort),
			graph.NewLink(r.ID, port, graph.LinkPartOf),
		)
	}
	return elems
}

func endpointElements(r topology.Endpoint) []graph.Element {
	return []graph.Element{
		graph.NewNode(r.ID, graph.TypeEndpoint, graph.String("ip", r.IP)),
		graph.NewLink(r.ID, graph.JoinIdentifier(r.Switch, r.Port), graph.LinkConnectedTo),
	}
}

func connectElements(r topology.Connect) []graph.Element {
	return []graph.Element{
		graph.NewLink(
			graph.JoinIdentifier(r.Switch1, r.Port1),
			graph.JoinIdentifier(r.Switch2, r.Port2),
			graph.LinkConnectedTo,
		),
	}
}

func gatewayBridgeElements(r topology.GatewayBridge) []graph.Element {
	return gatewayElements(r.ID, BroadcastIP, WildcardMask, bridgeRulesOn, r.Switch, r.Port)
}

func gatewayMaskElements(r topology.GatewayMask) []graph.Element {
	return gatewayElements(r.ID, r.IP, r.NetMask, bridgeRulesOff, r.Switch, r.Port)
}

func gatewayElements(id, ip, mask, bridge, sw, port string) []graph.Element {
	return []graph.Element{
		graph.NewNode(id, graph.TypeEndpoint,
			graph.String("ip", ip),
			graph.String("netmask", mask),
			graph.String("use_bridge_rules", bridge),
		),
		graph.NewLink(id, graph.JoinIdentifier(sw, port), graph.LinkConnectedTo),
	}
}

func physicalHostElements(r topology.PhysicalHost) []graph.Element {
	elems := make([]graph.Element, 0, 1+4*len(r.Bridges)+len(r.VirtualPorts))
	elems = append(elems, graph.NewNode(r.ID, graph.TypePhysicalHost))
	for _, b := range r.Bridges {
		pp := graph.JoinIdentifier(r.ID, b.PhysicalPort)
		vp := graph.JoinIdentifier(r.ID, b.VirtualPort)
		elems = append(elems,
			graph.NewNode(pp, graph.TypePhysicalPort),
			graph.NewLink(pp, r.ID, graph.LinkPartOf),
			graph.NewNode(vp, graph.TypeVirtualPort),
			graph.NewLink(pp, vp, graph.LinkPartOf),
		)
	}
	for _, v := range r.VirtualPorts {
		elems = append(elems, graph.NewNode(graph.JoinIdentifier(r.ID, v), graph.TypeVirtualPort))
	}
	return elems
}

func patchPanelElements(r topology.PatchPanel) []graph.Element {
	panel := graph.JoinIdentifier(r.HostID, PatchPanelName)
	wires := make([]graph.Field, 0, len(r.Ports))
	links := make([]graph.Element, 0, len(r.Ports))
	for _, p := range r.Ports {
		port := graph.JoinIdentifier(r.HostID, p)
		wires = append(wires, graph.Null(port))
		links = append(links, graph.NewLink(panel, port, graph.LinkPartOf))
	}
	return append([]graph.Element{
		graph.NewNode(panel, graph.TypePatchPanel, graph.Object("wires", wires...)),
	}, links...)
}

func virtualHostElements(r topology.VirtualHost) []graph.Element {
	host := graph.JoinIdentifier(r.PhysicalHostID, r.Suffix)
	elems := make([]graph.Element, 0, 1+2*len(r.VirtualPorts))
	elems = append(elems, graph.NewNode(host, graph.TypeVirtualHost))
	for _, v := range r.VirtualPorts {
		vp := graph.JoinIdentifier(host, v)
		elems = append(elems,
			graph.NewNode(vp, graph.TypeVirtualPort),
			graph.NewLink(vp, host, graph.LinkPartOf),
		)
	}
	return elems
}

func boundToElements(r topology.BoundTo) []graph.Element {
	return []graph.Element{graph.NewLink(r.From, r.To, graph.LinkBoundTo)}
}

// SharedVirtualPorts returns the virtual-port suffixes that appear both in
// r's bridge pairs and in its unbridged list, in unbridged-list order. Each
// such suffix makes the translator emit two nodes with the same identifier.
func SharedVirtualPorts(r topology.PhysicalHost) []string {
	bridged := make(map[string]bool, len(r.Bridges))
	for _, b := range r.Bridges {
		bridged[b.VirtualPort] = true
	}
	var shared []string
	for _, v := range r.VirtualPorts {
		if bridged[v] {
			shared = append(shared, v)
		}
	}
	return shared
}
