// Package neo4jsink loads element arrays into Neo4j.
//
// Every node becomes a (:TopologyNode) with an extra label for its type, keyed
// by identifier. Every link becomes a relationship whose type is the link type
// upper-cased (part_of → PART_OF). Writes use MERGE, so loading the same
// output twice leaves the database unchanged apart from the batch property.
package neo4jsink

import (
	"fmt"
	"strings"

	"github.com/matzehuels/topo2graph/pkg/graph"
)

// NodeLabel is carried by every node the sink writes.
const NodeLabel = "TopologyNode"

// Statement is one parameterized Cypher query.
type Statement struct {
	Cypher string
	Params map[string]any
}

// Plan returns the statements that load elems. Nodes are written first,
// grouped by type in order of first appearance, then links grouped the same
// way. batch is stored on every node and relationship.
func Plan(elems []graph.Element, batch string) []Statement {
	var (
		nodeTypes, linkTypes []string
		nodeRows             = map[string][]map[string]any{}
		linkRows             = map[string][]map[string]any{}
	)
	for _, e := range elems {
		typ := e.Metadata.Type
		if e.IsNode() {
			if _, ok := nodeRows[typ]; !ok {
				nodeTypes = append(nodeTypes, typ)
			}
			nodeRows[typ] = append(nodeRows[typ], map[string]any{
				"identifier": e.Identifier,
				"props":      Properties(e.Metadata),
			})
			continue
		}
		if _, ok := linkRows[typ]; !ok {
			linkTypes = append(linkTypes, typ)
		}
		linkRows[typ] = append(linkRows[typ], map[string]any{
			"from": e.Link[0],
			"to":   e.Link[1],
		})
	}

	stmts := make([]Statement, 0, len(nodeTypes)+len(linkTypes))
	for _, typ := range nodeTypes {
		stmts = append(stmts, Statement{
			Cypher: fmt.Sprintf(
				"UNWIND $rows AS row "+
					"MERGE (n:%s {identifier: row.identifier}) "+
					"SET n:%s, n += row.props, n.batch = $batch",
				NodeLabel, quoteName(typ)),
			Params: map[string]any{"rows": nodeRows[typ], "batch": batch},
		})
	}
	for _, typ := range linkTypes {
		stmts = append(stmts, Statement{
			Cypher: fmt.Sprintf(
				"UNWIND $rows AS row "+
					"MERGE (a:%[1]s {identifier: row.from}) "+
					"MERGE (b:%[1]s {identifier: row.to}) "+
					"MERGE (a)-[r:%[2]s]->(b) "+
					"SET r.batch = $batch",
				NodeLabel, RelationshipType(typ)),
			Params: map[string]any{"rows": linkRows[typ], "batch": batch},
		})
	}
	return stmts
}

// Properties flattens node metadata into Neo4j property values. String
// fields are kept as they are, null fields are dropped, and nested objects
// are stored as their compact JSON text since Neo4j properties cannot hold
// maps.
func Properties(m graph.Metadata) map[string]any {
	props := map[string]any{"type": m.Type}
	for _, f := range m.Extra {
		switch v := f.Value.(type) {
		case string:
			props[f.Key] = v
		case []graph.Field:
			if data, err := graph.MarshalObject(v); err == nil {
				props[f.Key] = string(data)
			}
		}
	}
	return props
}

// RelationshipType maps a link type to a Cypher relationship type.
func RelationshipType(linkType string) string {
	return quoteName(strings.ToUpper(linkType))
}

// quoteName backtick-quotes a label or relationship type when it is not a
// plain identifier.
func quoteName(name string) string {
	plain := name != ""
	for i, r := range name {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || i > 0 && r >= '0' && r <= '9') {
			plain = false
			break
		}
	}
	if plain {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}
