package source

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"xcss/css"
)

type document struct {
	Name  string            `yaml:"name"`
	Vars  map[string]string `yaml:"vars"`
	Rules []entry           `yaml:"rules"`
}

type entry struct {
	Import    *string         `yaml:"import"`
	ImportURL *importURLEntry `yaml:"import_url"`
	Charset   *string         `yaml:"charset"`
	Namespace *string         `yaml:"namespace"`
	Rule      *args           `yaml:"rule"`
	Page      *args           `yaml:"page"`
	Media     *mediaEntry     `yaml:"media"`
	Supports  *supportsEntry  `yaml:"supports"`
	Document  *documentEntry  `yaml:"document"`
	Host      *hostEntry      `yaml:"host"`
	Keyframes *keyframesEntry `yaml:"keyframes"`
}

// kinds returns names of all keys present in the entry.
func (e *entry) kinds() []string {
	var names []string
	add := func(present bool, name string) {
		if present {
			names = append(names, name)
		}
	}
	add(e.Import != nil, "import")
	add(e.ImportURL != nil, "import_url")
	add(e.Charset != nil, "charset")
	add(e.Namespace != nil, "namespace")
	add(e.Rule != nil, "rule")
	add(e.Page != nil, "page")
	add(e.Media != nil, "media")
	add(e.Supports != nil, "supports")
	add(e.Document != nil, "document")
	add(e.Host != nil, "host")
	add(e.Keyframes != nil, "keyframes")
	return names
}

type mediaEntry struct {
	Query string  `yaml:"query"`
	Rules []entry `yaml:"rules"`
}

type supportsEntry struct {
	Condition string  `yaml:"condition"`
	Rules     []entry `yaml:"rules"`
}

type documentEntry struct {
	Condition string  `yaml:"condition"`
	Vendor    string  `yaml:"vendor"`
	Rules     []entry `yaml:"rules"`
}

type hostEntry struct {
	Rules []entry `yaml:"rules"`
}

type keyframesEntry struct {
	Name   string `yaml:"name"`
	Vendor string `yaml:"vendor"`
	Frames []args `yaml:"frames"`
}

// importURLEntry is either plain URL or mapping with url and media.
type importURLEntry struct {
	URL   string
	Media string
}

func (u *importURLEntry) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		u.URL = node.Value
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: url or mapping expected", node.Line)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "url":
			u.URL = value.Value
		case "media":
			u.Media = value.Value
		default:
			return fmt.Errorf("line %d: field %s not found in import_url", key.Line, key.Value)
		}
	}
	return nil
}

// args is an argument list for css builders.
type args struct {
	line int
	list []any
}

func (a *args) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode {
		return fmt.Errorf("line %d: argument list expected", node.Line)
	}
	a.line = node.Line
	for _, item := range node.Content {
		switch item.Kind {
		case yaml.ScalarNode:
			a.list = append(a.list, item.Value)
		case yaml.MappingNode:
			for i := 0; i+1 < len(item.Content); i += 2 {
				key, value := item.Content[i], item.Content[i+1]
				if value.Kind != yaml.ScalarNode {
					return fmt.Errorf("line %d: value of %q must be scalar", value.Line, key.Value)
				}
				if key.Value == "extend" {
					a.list = append(a.list, css.ExtendOf(value.Value))
				} else {
					a.list = append(a.list, css.Decl(key.Value, value.Value))
				}
			}
		default:
			return fmt.Errorf("line %d: selector or declarations expected", item.Line)
		}
	}
	return nil
}
