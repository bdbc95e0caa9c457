package value

import (
	"gopkg.in/yaml.v3"
)

// ToYAMLNode converts v to a YAML node tree. Member order is kept and
// number literals are emitted unchanged.
func (v Value) ToYAMLNode() *yaml.Node {
	switch v.kind {
	case KindBool:
		s := "false"
		if v.b {
			s = "true"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: s}
	case KindNumber:
		tag := "!!float"
		if v.num.IsInteger() {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v.num)}
	case KindString:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v.str}
	case KindArray:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range v.arr {
			n.Content = append(n.Content, item.ToYAMLNode())
		}
		return n
	case KindObject:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		v.obj.Each(func(name string, item Value) {
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: name},
				item.ToYAMLNode())
		})
		return n
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	}
}

// MarshalYAML makes Value usable with yaml.Marshal
func (v Value) MarshalYAML() (any, error) {
	return v.ToYAMLNode(), nil
}
