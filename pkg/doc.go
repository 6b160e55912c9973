// Package pkg holds the topo2graph libraries.
//
// # Overview
//
// topo2graph turns network topology records (OpenFlow switches, endpoints,
// gateways, physical and virtual hosts, patch panels) into a flat graph of
// nodes and links encoded as JSON. The data flow is:
//
//	topology file (term, YAML, or JSON)
//	         ↓
//	    [topology] decode records ([term] parses the brace notation)
//	         ↓
//	    [translate] records → ordered elements
//	         ↓
//	    [graph] JSON array
//	         ↓
//	stdout, files, [render/dot], [sink/neo4jsink], [sink/mongosink], [server]
//
// [pipeline] runs the decode, translate, and encode stages with caching
// ([cache]) and hooks ([observability]) so the CLI and the HTTP server behave
// the same. [errors] carries the error codes both surfaces map to exit
// statuses and HTTP responses. [config] layers the TOML file, .env, and
// environment overrides.
//
// # Quick Start
//
//	records, err := topology.DecodeBytes(data, topology.FormatTerm)
//	if err != nil {
//	    return err
//	}
//	elems, err := translate.Translate(records)
//	if err != nil {
//	    return err
//	}
//	return graph.WriteJSON(elems, os.Stdout)
//
// [term]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/term
// [topology]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/topology
// [translate]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/translate
// [graph]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/graph
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/cache
// [observability]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/errors
// [config]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/config
// [render/dot]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/render/dot
// [sink/neo4jsink]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/sink/neo4jsink
// [sink/mongosink]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/sink/mongosink
// [server]: https://pkg.go.dev/github.com/matzehuels/topo2graph/pkg/server
package pkg
