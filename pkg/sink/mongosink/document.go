// Package mongosink stores element arrays in a MongoDB collection, one
// document per element.
//
// Documents keep the element's position in its array, so a batch can be read
// back in output order:
//
//	{batch: "…", source: "net.topo", seq: 0, kind: "node",
//	 identifier: "s1", metadata: {type: "of_switch", datapath_id: "…"}}
package mongosink

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/topo2graph/pkg/graph"
)

// Documents converts elems to BSON documents tagged with batch and source.
// Metadata keeps its field order; null fields become BSON null.
func Documents(elems []graph.Element, batch, source string) []any {
	docs := make([]any, 0, len(elems))
	for i, e := range elems {
		doc := bson.D{
			{Key: "batch", Value: batch},
			{Key: "source", Value: source},
			{Key: "seq", Value: i},
			{Key: "kind", Value: e.Kind.String()},
		}
		if e.IsLink() {
			doc = append(doc, bson.E{Key: "link", Value: bson.A{e.Link[0], e.Link[1]}})
		} else {
			doc = append(doc, bson.E{Key: "identifier", Value: e.Identifier})
		}
		doc = append(doc, bson.E{Key: "metadata", Value: metadataDoc(e.Metadata)})
		docs = append(docs, doc)
	}
	return docs
}

// BatchFilter selects every document written with batch.
func BatchFilter(batch string) bson.D {
	return bson.D{{Key: "batch", Value: batch}}
}

func metadataDoc(m graph.Metadata) bson.D {
	d := bson.D{{Key: "type", Value: m.Type}}
	return append(d, fieldsDoc(m.Extra)...)
}

func fieldsDoc(fields []graph.Field) bson.D {
	d := make(bson.D, 0, len(fields))
	for _, f := range fields {
		switch v := f.Value.(type) {
		case []graph.Field:
			d = append(d, bson.E{Key: f.Key, Value: fieldsDoc(v)})
		default:
			d = append(d, bson.E{Key: f.Key, Value: v})
		}
	}
	return d
}
