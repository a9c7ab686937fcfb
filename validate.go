package schemakit

import (
	"strconv"
	"strings"

	"github.com/qubit-energy/schemakit/i18n"
	"github.com/qubit-energy/schemakit/rules"
)

// Verdict is the outcome of validating one data document: Valid, or Invalid
// with exactly one path-qualified issue. Validation is fail-fast; a document
// with several violations reports only the first encountered.
type Verdict struct {
	OK    bool
	Issue *Issue
}

func valid() Verdict { return Verdict{OK: true} }

// Validator checks data documents against the resolved schema graph. It
// shares the resolver (and therefore the memoized reference graph) with the
// synthesizer, so a reference resolved once is structurally identical no
// matter which consumer asked first.
type Validator struct {
	res *Resolver
}

// NewValidator creates a Validator over the given resolver.
func NewValidator(res *Resolver) *Validator {
	return &Validator{res: res}
}

// SchemaFor picks the schema document for a data document named name: exact
// match first, then the singular form (trailing "s" stripped), then the
// plural form (trailing "s" appended). Anything beyond that heuristic is a
// NoMatchingSchemaError rather than a guess.
func (v *Validator) SchemaFor(name string) (*Document, error) {
	if doc, ok := v.res.store.Lookup(name); ok {
		return doc, nil
	}
	if strings.HasSuffix(name, "s") {
		if doc, ok := v.res.store.Lookup(strings.TrimSuffix(name, "s")); ok {
			return doc, nil
		}
	} else if doc, ok := v.res.store.Lookup(name + "s"); ok {
		return doc, nil
	}
	return nil, &NoMatchingSchemaError{Name: name}
}

// Validate walks data and the resolved schema graph in lockstep. The Verdict
// covers structural conformance; a non-nil error reports a failure of the
// schema graph itself (an unresolvable or cyclic reference), which is fatal
// to this document but leaves other documents in a batch untouched.
func (v *Validator) Validate(data *Value, schema *Document) (Verdict, error) {
	issue, err := v.walk(data, schema.Root, schema, "")
	if err != nil {
		return Verdict{}, err
	}
	if issue != nil {
		return Verdict{OK: false, Issue: issue}, nil
	}
	return valid(), nil
}

func (v *Validator) walk(data *Value, node *Node, doc *Document, path string) (*Issue, error) {
	switch node.Kind {
	case NodeAny:
		return nil, nil

	case NodeRef:
		target, targetDoc, err := v.res.ResolveTarget(node.Ref, doc)
		if err != nil {
			return nil, err
		}
		return v.walk(data, target, targetDoc, path)

	case NodePrimitive:
		if !rules.KindCompatible(node.Primitive, data.Kind().String(), data.IsInteger()) {
			return typeMismatch(path, node.Primitive, data), nil
		}
		if node.Format != "" && data.Kind() == ValueString &&
			rules.KnownFormat(node.Format) && !rules.Format(node.Format, data.Str()) {
			return &Issue{
				Path:    path,
				Code:    CodeInvalidFormat,
				Message: i18n.T(CodeInvalidFormat, nil),
				Hint:    "expected " + node.Format,
				Params:  map[string]string{"format": node.Format, "got": data.Str()},
			}, nil
		}
		return nil, nil

	case NodeEnum:
		if data.Kind() != ValueString {
			return typeMismatch(path, PrimString, data), nil
		}
		if !rules.EnumContains(node.Enum, data.Str()) {
			return &Issue{
				Path:    path,
				Code:    CodeInvalidEnum,
				Message: i18n.T(CodeInvalidEnum, nil),
				Hint:    "expected one of: " + strings.Join(node.Enum, ", "),
				Params:  map[string]string{"got": data.Str()},
			}, nil
		}
		return nil, nil

	case NodeArray:
		if data.Kind() != ValueArray {
			return typeMismatch(path, "array", data), nil
		}
		for i, item := range data.Items() {
			issue, err := v.walk(item, node.Elem, doc, path+"/"+strconv.Itoa(i))
			if issue != nil || err != nil {
				return issue, err
			}
		}
		return nil, nil

	case NodeObject:
		if data.Kind() != ValueObject {
			return typeMismatch(path, "object", data), nil
		}
		// Required presence is reported at the parent object, since the
		// missing field has no location of its own.
		for _, name := range node.Required {
			if _, ok := data.Get(name); !ok {
				return &Issue{
					Path:    path,
					Code:    CodeRequired,
					Message: i18n.T(CodeRequired, nil) + ": " + name,
					Params:  map[string]string{"field": name},
				}, nil
			}
		}
		declared := make(map[string]*Node, len(node.Fields))
		for _, f := range node.Fields {
			declared[f.Name] = f.Node
		}
		for _, m := range data.Members() {
			fieldNode, ok := declared[m.Name]
			if !ok {
				if node.Closed {
					return &Issue{
						Path:    path + "/" + escapePointer(m.Name),
						Code:    CodeUnknownKey,
						Message: i18n.T(CodeUnknownKey, nil),
						Params:  map[string]string{"key": m.Name},
					}, nil
				}
				continue // undeclared properties are permitted
			}
			issue, err := v.walk(m.Value, fieldNode, doc, path+"/"+escapePointer(m.Name))
			if issue != nil || err != nil {
				return issue, err
			}
		}
		return nil, nil

	case NodeMap:
		if data.Kind() != ValueObject {
			return typeMismatch(path, "object", data), nil
		}
		// A closed object with no declared properties admits no keys at all.
		if node.Closed && len(data.Members()) > 0 {
			m := data.Members()[0]
			return &Issue{
				Path:    path + "/" + escapePointer(m.Name),
				Code:    CodeUnknownKey,
				Message: i18n.T(CodeUnknownKey, nil),
				Params:  map[string]string{"key": m.Name},
			}, nil
		}
		return nil, nil

	case NodeUnion:
		// First-match semantics: valid if any member accepts the value.
		for _, m := range node.Members {
			issue, err := v.walk(data, m, doc, path)
			if err != nil {
				return nil, err
			}
			if issue == nil {
				return nil, nil
			}
		}
		return &Issue{
			Path:    path,
			Code:    CodeUnionMismatch,
			Message: i18n.T(CodeUnionMismatch, nil),
			Params:  map[string]string{"got": data.Kind().String()},
		}, nil
	}
	return nil, nil
}

func typeMismatch(path, expected string, data *Value) *Issue {
	return &Issue{
		Path:    path,
		Code:    CodeInvalidType,
		Message: i18n.T(CodeInvalidType, nil),
		Hint:    "expected " + expected + ", got " + data.Kind().String(),
		Params:  map[string]string{"expected": expected, "got": data.Kind().String()},
	}
}

func escapePointer(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "~", "~0"), "/", "~1")
}
