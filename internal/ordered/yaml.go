package ordered

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DecodeYAML decodes the first YAML document in data. Aliases are resolved;
// merge keys are not supported. An empty document decodes to nil.
func DecodeYAML(data []byte) (any, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.Kind == 0 {
		return nil, nil
	}
	return yamlValue(&doc)
}

func yamlValue(n *yaml.Node) (any, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return yamlValue(n.Content[0])
	case yaml.AliasNode:
		return yamlValue(n.Alias)
	case yaml.MappingNode:
		m := NewMap()
		for i := 0; i+1 < len(n.Content); i += 2 {
			kn, vn := n.Content[i], n.Content[i+1]
			if kn.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("ordered: line %d: mapping key must be a scalar", kn.Line)
			}
			if kn.Tag == "!!merge" {
				return nil, fmt.Errorf("ordered: line %d: merge keys are not supported", kn.Line)
			}
			if _, dup := m.Get(kn.Value); dup {
				return nil, &DuplicateKeyError{Key: kn.Value, Line: kn.Line}
			}
			v, err := yamlValue(vn)
			if err != nil {
				return nil, err
			}
			m.Set(kn.Value, v)
		}
		return m, nil
	case yaml.SequenceNode:
		arr := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := yamlValue(c)
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
		return arr, nil
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, fmt.Errorf("ordered: line %d: %w", n.Line, err)
		}
		return fromPlain(v), nil
	}
	return nil, fmt.Errorf("ordered: line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}
