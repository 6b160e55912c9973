// Package graph defines the elements of a translated topology graph and
// their JSON wire format.
//
// # Elements
//
// A translated topology is a flat, ordered slice of [Element] values. Each
// element is either a node or a link:
//
//	{
//	  "identifier": "s1",
//	  "metadata": {"type": "of_switch", "datapath_id": "00:00:01"}
//	}
//
//	{
//	  "link": ["s1", "s1/1"],
//	  "metadata": {"type": "part_of"}
//	}
//
// Metadata is ordered: "type" always comes first, followed by the extra
// fields in the order they were added. Extra values are strings, JSON null,
// or a nested ordered object (the "wires" map of a patch panel).
//
// # Identifiers
//
// Composite identifiers such as "switch/port" or "host/PatchP" are built with
// [JoinIdentifier]. The package does not enforce uniqueness.
//
// # Serialization
//
// [WriteJSON] writes a pretty-printed array, [MarshalElements] returns the
// same bytes, and [ReadJSON] parses them back, preserving metadata order so a
// decode/encode cycle is byte-identical.
package graph
