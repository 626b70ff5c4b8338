// Package obsidian reads and writes markdown notes with YAML frontmatter.
package obsidian

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// Note is a markdown document with YAML frontmatter.
type Note struct {
	Frontmatter *Frontmatter
	Body        string
}

// Frontmatter keeps fields with sorted keys so output is deterministic.
type Frontmatter struct {
	fields map[string]any
	keys   []string
}

// NewFrontmatter creates an empty Frontmatter.
func NewFrontmatter() *Frontmatter {
	return &Frontmatter{fields: make(map[string]any)}
}

// ParseNote splits a document into frontmatter and body. A document without
// a complete frontmatter block is all body.
func ParseNote(content []byte) (*Note, error) {
	text := strings.ReplaceAll(string(content), "\r\n", "\n")

	if !strings.HasPrefix(text, delimiter+"\n") {
		return &Note{Frontmatter: NewFrontmatter(), Body: text}, nil
	}

	rest := text[len(delimiter)+1:]
	var header, body string
	switch {
	case strings.HasPrefix(rest, delimiter+"\n"):
		body = rest[len(delimiter)+1:]
	case strings.Contains(rest, "\n"+delimiter+"\n"):
		idx := strings.Index(rest, "\n"+delimiter+"\n")
		header = rest[:idx]
		body = rest[idx+len(delimiter)+2:]
	default:
		return &Note{Frontmatter: NewFrontmatter(), Body: text}, nil
	}

	var data map[string]any
	if err := yaml.Unmarshal([]byte(header), &data); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	fm := NewFrontmatter()
	for key, value := range data {
		fm.Set(key, value)
	}
	return &Note{Frontmatter: fm, Body: strings.TrimPrefix(body, "\n")}, nil
}

// Build serializes the note. Tags are written in flow style.
func (n *Note) Build() ([]byte, error) {
	var buf bytes.Buffer

	if n.Frontmatter != nil && len(n.Frontmatter.keys) > 0 {
		header, err := yaml.Marshal(n.Frontmatter)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal frontmatter: %w", err)
		}
		buf.WriteString(delimiter + "\n")
		buf.Write(header)
		buf.WriteString(delimiter + "\n")
	}

	buf.WriteString(n.Body)
	return buf.Bytes(), nil
}

// Get returns a raw field value.
func (f *Frontmatter) Get(key string) (any, bool) {
	val, ok := f.fields[key]
	return val, ok
}

// Set stores a field, keeping keys sorted.
func (f *Frontmatter) Set(key string, value any) {
	if _, exists := f.fields[key]; !exists {
		f.keys = append(f.keys, key)
		sort.Strings(f.keys)
	}
	f.fields[key] = value
}

// Delete removes a field.
func (f *Frontmatter) Delete(key string) {
	if _, exists := f.fields[key]; !exists {
		return
	}
	delete(f.fields, key)
	for i, k := range f.keys {
		if k == key {
			f.keys = append(f.keys[:i], f.keys[i+1:]...)
			break
		}
	}
}

// GetString returns a string field or "".
func (f *Frontmatter) GetString(key string) string {
	s, _ := f.fields[key].(string)
	return s
}

// GetFloat returns a numeric field as float64, or 0.
func (f *Frontmatter) GetFloat(key string) float64 {
	switch v := f.fields[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

// GetBool returns a bool field or false.
func (f *Frontmatter) GetBool(key string) bool {
	b, _ := f.fields[key].(bool)
	return b
}

// GetStringArray returns a string list field, or an empty slice.
func (f *Frontmatter) GetStringArray(key string) []string {
	return TagsFromAny(f.fields[key])
}

// Keys returns the sorted field names.
func (f *Frontmatter) Keys() []string {
	out := make([]string, len(f.keys))
	copy(out, f.keys)
	return out
}

// MarshalYAML emits fields in key order with tags as a flow sequence.
func (f *Frontmatter) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{
		Kind:    yaml.MappingNode,
		Content: make([]*yaml.Node, 0, len(f.keys)*2),
	}

	for _, key := range f.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}

		valueNode := &yaml.Node{}
		if key == "tags" {
			valueNode.Kind = yaml.SequenceNode
			valueNode.Style = yaml.FlowStyle
			for _, tag := range TagsFromAny(f.fields[key]) {
				valueNode.Content = append(valueNode.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: tag})
			}
		} else if err := valueNode.Encode(f.fields[key]); err != nil {
			return nil, err
		}

		node.Content = append(node.Content, keyNode, valueNode)
	}

	return node, nil
}
