package form

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// Actions is the ordered action block of a descriptor. It serialises as an
// object keyed by action name, preserving declaration order.
type Actions []ActionDescriptor

// Get returns the descriptor for the named action.
func (a Actions) Get(name Action) (ActionDescriptor, bool) {
	for _, action := range a {
		if action.Name == name {
			return action, true
		}
	}
	return ActionDescriptor{}, false
}

// Names lists the actions in order.
func (a Actions) Names() []Action {
	out := make([]Action, len(a))
	for i, action := range a {
		out[i] = action.Name
	}
	return out
}

// MarshalJSON renders {"store": {"label": ..., "path": ...}, ...}.
func (a Actions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, action := range a {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(action.Name))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(action)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the object form back, keeping key order.
func (a *Actions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*a = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("form: actions must be a JSON object")
	}

	out := Actions{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := tok.(string)
		name, err := ParseAction(key)
		if err != nil {
			return err
		}
		var action ActionDescriptor
		if err := dec.Decode(&action); err != nil {
			return fmt.Errorf("form: decode action %q: %w", key, err)
		}
		action.Name = name
		out = append(out, action)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*a = out
	return nil
}

// MarshalYAML renders an ordered mapping node.
func (a Actions) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, action := range a {
		var value yaml.Node
		if err := value.Encode(action); err != nil {
			return nil, err
		}
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: string(action.Name)},
			&value,
		)
	}
	return node, nil
}

// UnmarshalYAML mirrors UnmarshalJSON for mapping nodes.
func (a *Actions) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("form: actions must be a YAML mapping (line %d)", node.Line)
	}
	out := make(Actions, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		name, err := ParseAction(node.Content[i].Value)
		if err != nil {
			return err
		}
		var action ActionDescriptor
		if err := node.Content[i+1].Decode(&action); err != nil {
			return fmt.Errorf("form: decode action %q: %w", name, err)
		}
		action.Name = name
		out = append(out, action)
	}
	*a = out
	return nil
}
