// Package topology defines the nine topology record shapes and decodes them
// from input files.
//
// [Record] is a closed sum type: every record is one of [Switch], [Endpoint],
// [Connect], [GatewayBridge], [GatewayMask], [PhysicalHost], [PatchPanel],
// [VirtualHost], or [BoundTo]. Anything else in the input is an
// UNKNOWN_RECORD error that names the offending record.
//
// # Formats
//
// Files in the term notation (see package term) are matched positionally:
//
//	{endpoint, "h1", "10.0.0.1", "s1", "1"}.
//
// Files ending in .yaml, .yml, or .json hold a list of single-key maps whose
// key is the record tag and whose value names the fields:
//
//	- endpoint: {id: h1, ip: 10.0.0.1, switch: s1, port: "1"}
//	- lm_ph:
//	    id: ph1
//	    bridges: [{pp: eth0, vp: vp0}]
//	    virtual_ports: [vp1]
//
// Use [DetectFormat] to pick a format from a file name and [DecodeBytes] to read
// records in a given format.
package topology
