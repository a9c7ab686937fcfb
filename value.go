package schemakit

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	j "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// ValueKind identifies the shape of a raw document value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueBool
	ValueNumber
	ValueString
	ValueArray
	ValueObject
)

func (k ValueKind) String() string {
	switch k {
	case ValueNull:
		return "null"
	case ValueBool:
		return "boolean"
	case ValueNumber:
		return "number"
	case ValueString:
		return "string"
	case ValueArray:
		return "array"
	case ValueObject:
		return "object"
	}
	return "unknown"
}

// Member is one object entry. Objects keep their members in insertion order;
// the order is observable in generated output and must be deterministic.
type Member struct {
	Name  string
	Value *Value
}

// Value is an immutable raw document tree decoded from JSON or YAML. Unlike
// map[string]any it preserves object member order, which both the synthesizer
// (field order in generated types) and the store (declaration order of defs)
// rely on.
type Value struct {
	kind    ValueKind
	str     string
	num     string // canonical numeric text, exact as written
	boolean bool
	items   []*Value
	members []Member
	index   map[string]*Value
}

func (v *Value) Kind() ValueKind { return v.kind }

// Str returns the string payload. Valid only for ValueString.
func (v *Value) Str() string { return v.str }

// Num returns the numeric text exactly as it appeared in the input.
func (v *Value) Num() string { return v.num }

// Bool returns the boolean payload. Valid only for ValueBool.
func (v *Value) Bool() bool { return v.boolean }

// Items returns the elements of an array value.
func (v *Value) Items() []*Value { return v.items }

// Members returns object members in declaration order.
func (v *Value) Members() []Member { return v.members }

// Get looks up an object member by name.
func (v *Value) Get(name string) (*Value, bool) {
	if v.kind != ValueObject {
		return nil, false
	}
	m, ok := v.index[name]
	return m, ok
}

// GetString returns the string payload of the named member, if present and a string.
func (v *Value) GetString(name string) (string, bool) {
	m, ok := v.Get(name)
	if !ok || m.kind != ValueString {
		return "", false
	}
	return m.str, true
}

// IsInteger reports whether a number value has no fractional or exponent part.
func (v *Value) IsInteger() bool {
	if v.kind != ValueNumber {
		return false
	}
	if !strings.ContainsAny(v.num, ".eE") {
		return true
	}
	// 1.0 and 1e3 still denote integral values; fall back to parsing.
	f, err := strconv.ParseFloat(v.num, 64)
	if err != nil {
		return false
	}
	return f == float64(int64(f))
}

// Literal renders a scalar value as its literal text, the form used for enum
// membership comparison and error messages.
func (v *Value) Literal() string {
	switch v.kind {
	case ValueString:
		return v.str
	case ValueNumber:
		return v.num
	case ValueBool:
		return strconv.FormatBool(v.boolean)
	case ValueNull:
		return "null"
	}
	return v.kind.String()
}

func newString(s string) *Value { return &Value{kind: ValueString, str: s} }

func newObject(members []Member) *Value {
	idx := make(map[string]*Value, len(members))
	for _, m := range members {
		idx[m.Name] = m.Value
	}
	return &Value{kind: ValueObject, members: members, index: idx}
}

// DecodeJSON decodes one JSON document into a Value, preserving object member
// order. Numbers keep their source text.
func DecodeJSON(data []byte) (*Value, error) {
	dec := j.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	v, err := readJSONValue(dec)
	if err != nil {
		return nil, err
	}
	if dec.More() {
		return nil, fmt.Errorf("trailing data after top-level value")
	}
	return v, nil
}

func readJSONValue(dec *j.Decoder) (*Value, error) {
	tok, err := dec.Token()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("unexpected end of input")
		}
		return nil, err
	}
	return readJSONFrom(dec, tok)
}

func readJSONFrom(dec *j.Decoder, tok j.Token) (*Value, error) {
	switch t := tok.(type) {
	case j.Delim:
		switch t {
		case '{':
			var members []Member
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is not a string: %v", keyTok)
				}
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				members = append(members, Member{Name: key, Value: val})
			}
			if _, err := dec.Token(); err != nil { // consume '}'
				return nil, err
			}
			return newObject(members), nil
		case '[':
			var items []*Value
			for dec.More() {
				val, err := readJSONValue(dec)
				if err != nil {
					return nil, err
				}
				items = append(items, val)
			}
			if _, err := dec.Token(); err != nil { // consume ']'
				return nil, err
			}
			return &Value{kind: ValueArray, items: items}, nil
		}
		return nil, fmt.Errorf("unexpected delimiter %q", t)
	case string:
		return newString(t), nil
	case bool:
		return &Value{kind: ValueBool, boolean: t}, nil
	case j.Number:
		return &Value{kind: ValueNumber, num: string(t)}, nil
	case float64:
		return &Value{kind: ValueNumber, num: strconv.FormatFloat(t, 'g', -1, 64)}, nil
	case nil:
		return &Value{kind: ValueNull}, nil
	}
	return nil, fmt.Errorf("unexpected token %v", tok)
}

// DecodeYAML decodes one YAML document into a Value. Mapping order is
// preserved; scalars are mapped onto the JSON value kinds.
func DecodeYAML(data []byte) (*Value, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind == 0 || len(root.Content) == 0 {
		return &Value{kind: ValueNull}, nil
	}
	return fromYAMLNode(root.Content[0])
}

func fromYAMLNode(n *yaml.Node) (*Value, error) {
	switch n.Kind {
	case yaml.MappingNode:
		members := make([]Member, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			val, err := fromYAMLNode(n.Content[i+1])
			if err != nil {
				return nil, err
			}
			members = append(members, Member{Name: n.Content[i].Value, Value: val})
		}
		return newObject(members), nil
	case yaml.SequenceNode:
		items := make([]*Value, 0, len(n.Content))
		for _, c := range n.Content {
			val, err := fromYAMLNode(c)
			if err != nil {
				return nil, err
			}
			items = append(items, val)
		}
		return &Value{kind: ValueArray, items: items}, nil
	case yaml.ScalarNode:
		switch n.Tag {
		case "!!null":
			return &Value{kind: ValueNull}, nil
		case "!!bool":
			b, err := strconv.ParseBool(n.Value)
			if err != nil {
				return nil, fmt.Errorf("line %d: bad bool %q", n.Line, n.Value)
			}
			return &Value{kind: ValueBool, boolean: b}, nil
		case "!!int", "!!float":
			return &Value{kind: ValueNumber, num: n.Value}, nil
		default:
			return newString(n.Value), nil
		}
	case yaml.AliasNode:
		return fromYAMLNode(n.Alias)
	}
	return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}
