package record

import (
	"encoding/base64"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sgrust01/json-surf/internal/domain"
)

// FromYAML converts a YAML mapping node into a Record, keeping the mapping's
// key order. Scalars are classified by their resolved YAML tag.
func FromYAML(node *yaml.Node) (Record, error) {
	if node == nil {
		return Record{}, fmt.Errorf("%w: empty yaml node", domain.ErrNotFlat)
	}
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return Record{}, fmt.Errorf("%w: expected a yaml mapping", domain.ErrNotFlat)
	}

	var rec Record
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		v, err := yamlValue(node.Content[i+1])
		if err != nil {
			return Record{}, fmt.Errorf("yaml field %q: %w", key, err)
		}
		if !rec.Has(key) {
			rec.Set(key, v)
		}
	}
	return rec, nil
}

func yamlValue(n *yaml.Node) (Value, error) {
	if n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	switch n.Kind {
	case yaml.MappingNode:
		return opaque(KindMap), nil
	case yaml.SequenceNode:
		return opaque(KindSeq), nil
	case yaml.ScalarNode:
	default:
		return opaque(KindOther), nil
	}

	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("decode bool: %w", err)
		}
		return Bool(b), nil
	case "!!int":
		var u uint64
		if err := n.Decode(&u); err == nil {
			return Uint(u), nil
		}
		var i int64
		if err := n.Decode(&i); err != nil {
			return Value{}, fmt.Errorf("decode int: %w", err)
		}
		return Int(i), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("decode float: %w", err)
		}
		return Float(f), nil
	case "!!binary":
		raw, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return Value{}, fmt.Errorf("decode binary: %w", err)
		}
		return Bytes(raw), nil
	default:
		return String(n.Value), nil
	}
}
