package schemakit

import (
	"path"
	"strings"

	"github.com/qubit-energy/schemakit/typetree"
)

// DefinitionsDoc is the designated document holding shared definitions
// consumed via cross-document references.
const DefinitionsDoc = "_definitions"

// Synthesizer walks resolved schema nodes into canonical type trees. It owns
// the memo tables that keep every reference to a definition pointing at one
// named type, emitted exactly once regardless of how many referrers exist.
type Synthesizer struct {
	res    *Resolver
	byNode map[*Node]string  // resolved target -> derived type name
	byName map[string]string // derived type name -> first claiming pointer
	defs   []typetree.Definition
}

// NewSynthesizer creates a Synthesizer over the given resolver.
func NewSynthesizer(res *Resolver) *Synthesizer {
	return &Synthesizer{
		res:    res,
		byNode: make(map[*Node]string),
		byName: make(map[string]string),
	}
}

// Synthesize produces the type tree for a schema node within its document.
// It is a pure function of the resolved graph; named types accumulated along
// the way are available from Definitions.
func (s *Synthesizer) Synthesize(node *Node, doc *Document) (typetree.Type, error) {
	switch node.Kind {
	case NodeRef:
		return s.synthesizeRef(node.Ref, doc)
	case NodeUnion:
		members := make([]typetree.Type, 0, len(node.Members))
		for _, m := range node.Members {
			t, err := s.Synthesize(m, doc)
			if err != nil {
				return nil, err
			}
			members = append(members, t)
		}
		return typetree.Union{Members: members}, nil
	case NodeEnum:
		values := make([]string, len(node.Enum))
		copy(values, node.Enum)
		return typetree.Enum{Values: values}, nil
	case NodePrimitive:
		// A known format is a runtime validation concern, not a distinct
		// static type; string+format degrades to the string primitive.
		return typetree.Primitive{Name: node.Primitive}, nil
	case NodeArray:
		elem, err := s.Synthesize(node.Elem, doc)
		if err != nil {
			return nil, err
		}
		return typetree.Array{Elem: elem}, nil
	case NodeObject:
		fields := make([]typetree.Field, 0, len(node.Fields))
		for _, f := range node.Fields {
			ft, err := s.Synthesize(f.Node, doc)
			if err != nil {
				return nil, err
			}
			fields = append(fields, typetree.Field{
				Name:     f.Name,
				Type:     ft,
				Required: f.Required,
				Doc:      f.Node.Description,
			})
		}
		return typetree.Object{Fields: fields}, nil
	case NodeMap:
		return typetree.Map{Elem: typetree.Any{}}, nil
	}
	return typetree.Any{}, nil
}

// synthesizeRef synthesizes the target of a reference once and returns a
// named-type handle. The memo is keyed by resolved node identity, so two
// spellings of the same pointer share one named type.
func (s *Synthesizer) synthesizeRef(ref string, doc *Document) (typetree.Type, error) {
	target, targetDoc, err := s.res.ResolveTarget(ref, doc)
	if err != nil {
		return nil, err
	}
	if name, ok := s.byNode[target]; ok {
		return typetree.Named{Name: name}, nil
	}
	name := DeriveTypeName(ref)
	if first, taken := s.byName[name]; taken {
		return nil, &NameCollisionError{Name: name, First: first, Second: ref}
	}
	// Reserve the name before descending so self-referential definitions
	// terminate with a handle instead of recursing.
	s.byNode[target] = name
	s.byName[name] = ref
	idx := len(s.defs)
	s.defs = append(s.defs, typetree.Definition{Name: name, Doc: target.Description})

	t, err := s.Synthesize(target, targetDoc)
	if err != nil {
		return nil, err
	}
	s.defs[idx].Type = t
	return typetree.Named{Name: name}, nil
}

// SynthesizeDocument produces the named type for one schema document. The
// document's root is registered in the memo so whole-document references from
// elsewhere project to the same name instead of re-inlining the tree.
func (s *Synthesizer) SynthesizeDocument(doc *Document) (typetree.Definition, error) {
	name := DeriveTypeName(doc.Name)
	if _, ok := s.byNode[doc.Root]; !ok {
		if first, taken := s.byName[name]; taken {
			return typetree.Definition{}, &NameCollisionError{Name: name, First: first, Second: doc.Name}
		}
		s.byNode[doc.Root] = name
		s.byName[name] = doc.Name
	}
	t, err := s.Synthesize(doc.Root, doc)
	if err != nil {
		return typetree.Definition{}, err
	}
	return typetree.Definition{Name: name, Doc: doc.Root.Description, Type: t}, nil
}

// DocumentDefinition pairs a schema document's name with its synthesized
// named type, keeping the file stem available for emission.
type DocumentDefinition struct {
	Document string
	Def      typetree.Definition
}

// SynthesizeCorpus synthesizes every schema document in the store except the
// shared-definitions document, seeding the shared definitions first so they
// are emitted even when nothing references them yet. Documents come back in
// the store's deterministic order.
func (s *Synthesizer) SynthesizeCorpus(store *Store) ([]DocumentDefinition, error) {
	if err := s.claimDocumentNames(store); err != nil {
		return nil, err
	}
	if defs, ok := store.Lookup(DefinitionsDoc); ok {
		if err := s.seedDefinitions(defs); err != nil {
			return nil, err
		}
	}
	var docs []DocumentDefinition
	for _, name := range store.Names() {
		if name == DefinitionsDoc {
			continue
		}
		doc, _ := store.Lookup(name)
		def, err := s.SynthesizeDocument(doc)
		if err != nil {
			return nil, err
		}
		docs = append(docs, DocumentDefinition{Document: name, Def: def})
	}
	return docs, nil
}

// claimDocumentNames reserves every document's type name before any synthesis
// runs. A whole-document reference encountered ahead of its target's turn in
// corpus order then returns a handle to the document's own type instead of
// registering the target as a shared definition, which would emit it twice.
func (s *Synthesizer) claimDocumentNames(store *Store) error {
	for _, name := range store.Names() {
		if name == DefinitionsDoc {
			continue
		}
		doc, _ := store.Lookup(name)
		if _, ok := s.byNode[doc.Root]; ok {
			continue
		}
		typeName := DeriveTypeName(name)
		if first, taken := s.byName[typeName]; taken {
			return &NameCollisionError{Name: typeName, First: first, Second: name}
		}
		s.byNode[doc.Root] = typeName
		s.byName[typeName] = name
	}
	return nil
}

// seedDefinitions walks the $defs of the shared-definitions document in
// declared order and synthesizes each one through the reference path, so the
// emitted set covers the whole document rather than only what happens to be
// referenced. A def whose body is a bare container of schemas (for example a
// group of id patterns) is flattened one level, each child becoming its own
// named type.
func (s *Synthesizer) seedDefinitions(doc *Document) error {
	defs, ok := doc.Raw().Get("$defs")
	if !ok || defs.Kind() != ValueObject {
		return nil
	}
	for _, m := range defs.Members() {
		if isDefinitionGroup(m.Value) {
			for _, child := range m.Value.Members() {
				if _, err := s.synthesizeRef("#/$defs/"+m.Name+"/"+child.Name, doc); err != nil {
					return err
				}
			}
			continue
		}
		if _, err := s.synthesizeRef("#/$defs/"+m.Name, doc); err != nil {
			return err
		}
	}
	return nil
}

// isDefinitionGroup reports whether a raw def value is a container of schemas
// rather than a schema itself: an object with no schema keywords whose
// members are all objects.
func isDefinitionGroup(v *Value) bool {
	if v.Kind() != ValueObject || len(v.Members()) == 0 {
		return false
	}
	for _, kw := range []string{"$ref", "oneOf", "type", "enum", "properties", "items"} {
		if _, ok := v.Get(kw); ok {
			return false
		}
	}
	for _, m := range v.Members() {
		if m.Value.Kind() != ValueObject {
			return false
		}
	}
	return true
}

// Definitions returns the named types synthesized so far, in first-use order.
func (s *Synthesizer) Definitions() []typetree.Definition { return s.defs }

// DeriveTypeName projects a snake_case or kebab-case schema or definition
// name onto a pascal-case type name. For pointers the last fragment segment
// names the type; for whole-document references the file stem does.
func DeriveTypeName(ref string) string {
	name := ref
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		if frag := strings.Trim(ref[i+1:], "/"); frag != "" {
			segs := strings.Split(frag, "/")
			name = segs[len(segs)-1]
		} else {
			name = ref[:i]
		}
	}
	if ext := path.Ext(name); schemaExts[ext] {
		name = strings.TrimSuffix(path.Base(name), ext)
	}
	return pascalCase(name)
}

func pascalCase(name string) string {
	var b strings.Builder
	start := true
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
			if start {
				r -= 'a' - 'A'
			}
			b.WriteRune(r)
			start = false
		case r >= 'A' && r <= 'Z':
			if !start {
				r += 'a' - 'A'
			}
			b.WriteRune(r)
			start = false
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			start = true
		default:
			start = true
		}
	}
	return b.String()
}
