// Package term reads the brace-and-bracket record notation used by topology
// files.
//
// A file is a sequence of terms, each terminated by a period:
//
//	% two switches and a cable
//	{of_switch, "s1", "00:00:01", ["1", "2"]}.
//	{of_switch, "s2", "00:00:02", ["1"]}.
//	{connect, "s1", "2", "s2", "1"}.
//
// Supported terms are atoms (bare lower-case words or single-quoted),
// double-quoted strings with backslash escapes, decimal integers, tuples in
// braces, and lists in brackets. A percent sign starts a comment that runs to
// the end of the line.
//
// The package knows nothing about topology records; it produces generic
// [Term] values that the topology package matches against record shapes.
// Every term prints back in the same notation through its String method,
// which is how unrecognized records are reported.
package term
