package ordered

import (
	"sort"

	"github.com/BurntSushi/toml"
)

// DecodeTOML decodes a TOML document. Table keys follow the order reported by
// toml.MetaData.Keys; keys it does not report (entries of arrays of tables)
// are appended in sorted order.
func DecodeTOML(data []byte) (any, error) {
	raw := map[string]any{}
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, err
	}
	root := NewMap()
	for _, key := range md.Keys() {
		place(root, raw, key)
	}
	fill(root, raw)
	return root, nil
}

// place creates the entries along key in document order. Only tables are
// descended; a key that crosses an array is left to fill.
func place(root *Map, raw map[string]any, key toml.Key) {
	m, src := root, raw
	for i, seg := range key {
		v, ok := src[seg]
		if !ok {
			return
		}
		sub, isTable := v.(map[string]any)
		if !isTable {
			if i == len(key)-1 {
				if _, seen := m.Get(seg); !seen {
					m.Set(seg, fromPlain(v))
				}
			}
			return
		}
		cur, ok := m.Get(seg)
		next, isMap := cur.(*Map)
		if !ok || !isMap {
			next = NewMap()
			m.Set(seg, next)
		}
		m, src = next, sub
	}
}

func fill(m *Map, raw map[string]any) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := raw[k]
		cur, ok := m.Get(k)
		if !ok {
			m.Set(k, fromPlain(v))
			continue
		}
		if sub, isTable := v.(map[string]any); isTable {
			if cm, isMap := cur.(*Map); isMap {
				fill(cm, sub)
			}
		}
	}
}
