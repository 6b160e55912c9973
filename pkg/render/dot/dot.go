package dot

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/topo2graph/pkg/graph"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds the node type and string metadata to node labels.
	// When false, only the identifier is shown.
	Detailed bool
}

// Format names a render output.
type Format string

const (
	FormatDOT Format = "dot"
	FormatSVG Format = "svg"
)

// Formats returns the valid output formats.
func Formats() []string {
	return []string{string(FormatDOT), string(FormatSVG)}
}

type nodeStyle struct {
	shape string
	fill  string
}

var styles = map[string]nodeStyle{
	graph.TypeSwitch:       {"box3d", "lightblue"},
	graph.TypeFlowTable:    {"note", "white"},
	graph.TypePort:         {"circle", "white"},
	graph.TypeEndpoint:     {"box", "palegreen"},
	graph.TypePhysicalHost: {"box3d", "wheat"},
	graph.TypePhysicalPort: {"circle", "wheat"},
	graph.TypeVirtualPort:  {"circle", "lightyellow"},
	graph.TypeVirtualHost:  {"component", "lightyellow"},
	graph.TypePatchPanel:   {"tab", "lightgrey"},
}

var defaultStyle = nodeStyle{"box", "white"}

// ToDOT converts elements to Graphviz DOT source.
func ToDOT(elems []graph.Element, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [style=filled, fontsize=12, fontname=\"Helvetica\"];\n")
	buf.WriteString("  edge [fontsize=9, fontname=\"Helvetica\"];\n")
	buf.WriteString("\n")

	declared := make(map[string]bool)
	for _, e := range elems {
		if !e.IsNode() || declared[e.Identifier] {
			continue
		}
		declared[e.Identifier] = true
		fmt.Fprintf(&buf, "  %q [%s];\n", e.Identifier, strings.Join(nodeAttrs(e, opts.Detailed), ", "))
	}

	implicit := make(map[string]bool)
	for _, e := range elems {
		if !e.IsLink() {
			continue
		}
		for _, end := range e.Link {
			if !declared[end] && !implicit[end] {
				implicit[end] = true
				fmt.Fprintf(&buf, "  %q [shape=box, style=dashed];\n", end)
			}
		}
	}

	buf.WriteString("\n")
	for _, e := range elems {
		if e.IsLink() {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Link[0], e.Link[1], e.Metadata.Type)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(e graph.Element, detailed bool) []string {
	st, ok := styles[e.Metadata.Type]
	if !ok {
		st = defaultStyle
	}
	return []string{
		fmt.Sprintf("label=%q", label(e, detailed)),
		"shape=" + st.shape,
		fmt.Sprintf("fillcolor=%q", st.fill),
	}
}

func label(e graph.Element, detailed bool) string {
	if !detailed {
		return e.Identifier
	}
	lines := []string{e.Identifier, e.Metadata.Type}
	for _, f := range e.Metadata.Extra {
		switch v := f.Value.(type) {
		case string:
			lines = append(lines, f.Key+": "+v)
		case []graph.Field:
			lines = append(lines, fmt.Sprintf("%s: %d", f.Key, len(v)))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

// Render produces the requested format from elements.
func Render(ctx context.Context, elems []graph.Element, format Format, opts Options) ([]byte, error) {
	src := ToDOT(elems, opts)
	switch format {
	case FormatDOT, "":
		return []byte(src), nil
	case FormatSVG:
		return RenderSVG(ctx, src)
	}
	return nil, fmt.Errorf("unsupported render format %q", format)
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element so the drawing scales with its
// container instead of Graphviz's point-based width and height.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
