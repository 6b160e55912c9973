package topology

import (
	"bytes"
	"fmt"
	"maps"
	"path/filepath"
	"reflect"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/matzehuels/topo2graph/pkg/errors"
	"github.com/matzehuels/topo2graph/pkg/term"
)

// Format names an input encoding.
type Format string

// Supported input formats. FormatAuto defers to [DetectFormat].
const (
	FormatAuto Format = "auto"
	FormatTerm Format = "term"
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// Formats lists the accepted values for a format option.
func Formats() []string {
	return []string{string(FormatAuto), string(FormatTerm), string(FormatYAML), string(FormatJSON)}
}

// ParseFormat validates a user-supplied format name. The empty string means
// [FormatAuto].
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return FormatAuto, nil
	}
	if err := errors.ValidateChoice("input format", s, Formats()...); err != nil {
		return "", err
	}
	return Format(strings.ToLower(s)), nil
}

// DetectFormat picks a format from the file extension: .yaml and .yml are
// YAML, .json is JSON, and everything else is the term notation.
func DetectFormat(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".json":
		return FormatJSON
	}
	return FormatTerm
}

// Resolve returns f, or the detected format of path when f is auto.
func (f Format) Resolve(path string) Format {
	if f == "" || f == FormatAuto {
		return DetectFormat(path)
	}
	return f
}

// DecodeBytes decodes all records of data in the given format. FormatAuto is
// treated as the term notation.
func DecodeBytes(data []byte, format Format) ([]Record, error) {
	switch format {
	case FormatYAML, FormatJSON:
		return decodeStructured(data)
	case FormatTerm, FormatAuto, "":
		return decodeTerms(data)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported input format %q", format)
}

func decodeTerms(data []byte) ([]Record, error) {
	entries, err := term.ParseBytes(data)
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(entries))
	for _, e := range entries {
		rec, err := FromTerm(e.Term)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Pos, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

type structuredDecoder func(*yaml.Node) (Record, error)

var structuredDecoders = map[string]structuredDecoder{
	TagSwitch:        decodeAs[Switch],
	TagEndpoint:      decodeAs[Endpoint],
	TagConnect:       decodeAs[Connect],
	TagGatewayBridge: decodeAs[GatewayBridge],
	TagGatewayMask:   decodeAs[GatewayMask],
	TagPhysicalHost:  decodeAs[PhysicalHost],
	TagPatchPanel:    decodeAs[PatchPanel],
	TagVirtualHost:   decodeAs[VirtualHost],
	TagBoundTo:       decodeAs[BoundTo],
}

func decodeAs[T Record](n *yaml.Node) (Record, error) {
	var rec T
	if err := checkFields(n, reflect.TypeOf(rec)); err != nil {
		return nil, err
	}
	if err := n.Decode(&rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// checkFields requires n to be a mapping whose keys are exactly the yaml
// field names of typ, each with a non-null value of the field's shape.
func checkFields(n *yaml.Node, typ reflect.Type) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("%d:%d: expected a mapping of fields", n.Line, n.Column)
	}
	fields := yamlFields(typ)
	seen := make(map[string]bool, len(fields))
	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]
		ft, ok := fields[key.Value]
		if !ok {
			return fmt.Errorf("%d:%d: unknown field %q", key.Line, key.Column, key.Value)
		}
		if seen[key.Value] {
			return fmt.Errorf("%d:%d: duplicate field %q", key.Line, key.Column, key.Value)
		}
		seen[key.Value] = true
		if err := checkValue(value, ft); err != nil {
			return fmt.Errorf("field %q: %w", key.Value, err)
		}
	}
	for _, name := range slices.Sorted(maps.Keys(fields)) {
		if !seen[name] {
			return fmt.Errorf("%d:%d: missing field %q", n.Line, n.Column, name)
		}
	}
	return nil
}

func checkValue(n *yaml.Node, typ reflect.Type) error {
	switch typ.Kind() {
	case reflect.Struct:
		return checkFields(n, typ)
	case reflect.Slice:
		if n.Kind != yaml.SequenceNode {
			return fmt.Errorf("%d:%d: expected a list", n.Line, n.Column)
		}
		for _, item := range n.Content {
			if err := checkValue(item, typ.Elem()); err != nil {
				return err
			}
		}
		return nil
	}
	if n.Kind != yaml.ScalarNode || n.ShortTag() == "!!null" {
		return fmt.Errorf("%d:%d: expected a scalar", n.Line, n.Column)
	}
	return nil
}

// yamlFields maps the yaml names of a struct's fields to their types.
func yamlFields(typ reflect.Type) map[string]reflect.Type {
	fields := make(map[string]reflect.Type, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" || !f.IsExported() {
			continue
		}
		if name == "" {
			name = strings.ToLower(f.Name)
		}
		fields[name] = f.Type
	}
	return fields
}

func decodeStructured(data []byte) ([]Record, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSyntax, err, "parse structured input")
	}
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) == 1 {
		root = root.Content[0]
	}
	if root.Kind != yaml.SequenceNode {
		return nil, errors.New(errors.ErrCodeInvalidSyntax, "%d:%d: expected a list of records", root.Line, root.Column)
	}

	records := make([]Record, 0, len(root.Content))
	for _, item := range root.Content {
		if item.Kind != yaml.MappingNode || len(item.Content) != 2 {
			return nil, errors.New(errors.ErrCodeUnknownRecord, "%d:%d: unknown record: %s", item.Line, item.Column, render(item))
		}
		key, value := item.Content[0], item.Content[1]
		dec, ok := structuredDecoders[key.Value]
		if !ok {
			return nil, errors.New(errors.ErrCodeUnknownRecord, "%d:%d: unknown record: %s", item.Line, item.Column, render(item))
		}
		rec, err := dec(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeUnknownRecord, err, "%d:%d: unknown record: %s", item.Line, item.Column, render(item))
		}
		records = append(records, rec)
	}
	return records, nil
}

// render prints a node in YAML flow style for error messages.
func render(n *yaml.Node) string {
	flow := *n
	flow.Style = yaml.FlowStyle
	out, err := yaml.Marshal(&flow)
	if err != nil {
		return n.Value
	}
	return strings.TrimSpace(string(out))
}
