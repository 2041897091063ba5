// Package load builds Validators from schema documents and decodes input
// documents, in JSON, YAML or TOML.
//
// A schema document maps field names to rules, in validation order:
//
//	email: [required, email]
//	tags:
//	  each: {max_length: 20}
//	address:
//	  $fields:
//	    street: [required]
//
// Rules are a list of bare names and single-entry {name: param} mappings, or
// a mapping of name to param. A mapping holding only the reserved key $fields
// is a sub-schema; each accepts a rule group or a $fields mapping.
package load

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	goform "github.com/reoring/goform"
	"github.com/reoring/goform/internal/ordered"
)

// FieldsKey is the reserved key introducing a sub-schema.
const FieldsKey = "$fields"

// Format is a document encoding.
type Format int

const (
	JSON Format = iota
	YAML
	TOML
)

func (f Format) String() string {
	switch f {
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case TOML:
		return "toml"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ParseFormat maps a name or file extension ("yml", ".json") to a Format.
func ParseFormat(name string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(name, ".")) {
	case "json":
		return JSON, nil
	case "yaml", "yml":
		return YAML, nil
	case "toml":
		return TOML, nil
	}
	return 0, fmt.Errorf("load: unsupported format %q", name)
}

// FormatOf picks the Format from a file name's extension.
func FormatOf(path string) (Format, error) { return ParseFormat(filepath.Ext(path)) }

func decode(data []byte, f Format) (any, error) {
	switch f {
	case JSON:
		return ordered.DecodeJSON(data)
	case YAML:
		return ordered.DecodeYAML(data)
	case TOML:
		return ordered.DecodeTOML(data)
	}
	return nil, fmt.Errorf("load: unsupported format %v", f)
}

// Values decodes an input document into a value map.
func Values(data []byte, f Format) (map[string]any, error) {
	doc, err := decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("load: decode %s values: %w", f, err)
	}
	if doc == nil {
		return map[string]any{}, nil
	}
	m, ok := ordered.Plain(doc).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("load: %s values must be a mapping, got %T", f, doc)
	}
	return m, nil
}

// ValuesFile reads and decodes an input document, picking the format from
// the file extension.
func ValuesFile(path string) (map[string]any, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Values(data, f)
}

// Schema decodes a schema document and builds a Validator from it. settings
// apply to the Validator and to every sub-schema.
func Schema(data []byte, f Format, settings ...goform.Setting) (*goform.Validator, error) {
	doc, err := decode(data, f)
	if err != nil {
		return nil, fmt.Errorf("load: decode %s schema: %w", f, err)
	}
	if doc == nil {
		return goform.New(nil, settings...)
	}
	m, ok := doc.(*ordered.Map)
	if !ok {
		return nil, &goform.ConfigurationError{Msg: fmt.Sprintf("schema document must be a mapping, got %T", doc)}
	}
	b := builder{settings: settings}
	return b.schema(m)
}

// SchemaFile reads a schema document, picking the format from the file
// extension.
func SchemaFile(path string, settings ...goform.Setting) (*goform.Validator, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}
	return Schema(data, f, settings...)
}
