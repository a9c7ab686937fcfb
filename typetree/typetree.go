// Package typetree defines the canonical, language-neutral type tree produced
// by schema synthesis. Emission stages (TypeScript today, other targets
// tomorrow) project this tree into concrete syntax; the tree itself carries
// no target-language assumptions.
package typetree

// Kind identifies a type-tree node.
type Kind int

const (
	KindAny Kind = iota
	KindPrimitive
	KindEnum
	KindArray
	KindObject
	KindMap
	KindUnion
	KindNamed
)

// Type is the root type-tree interface.
type Type interface {
	Kind() Kind
}

// Any is the unconstrained type, the explicit escape hatch for schemas with
// no recognized type keyword.
type Any struct{}

func (Any) Kind() Kind { return KindAny }

// Primitive represents scalar leaves.
type Primitive struct {
	Name string // "string" | "number" | "integer" | "boolean" | "null"
}

func (Primitive) Kind() Kind { return KindPrimitive }

// Enum is a closed union of literal values, in declared order.
type Enum struct {
	Values []string
}

func (Enum) Kind() Kind { return KindEnum }

// Array represents a homogeneous sequence.
type Array struct {
	Elem Type
}

func (Array) Kind() Kind { return KindArray }

// Field is one object property. Order is significant for reproducible output.
type Field struct {
	Name     string
	Type     Type
	Required bool
	Doc      string
}

// Object represents an object with declared fields.
type Object struct {
	Fields []Field
}

func (Object) Kind() Kind { return KindObject }

// Map is an open-ended key/value mapping over a single value type.
type Map struct {
	Elem Type
}

func (Map) Kind() Kind { return KindMap }

// Union represents a oneOf or multi-type alternative, in declared order.
type Union struct {
	Members []Type
}

func (Union) Kind() Kind { return KindUnion }

// Named is a handle to a separately emitted named type. References synthesize
// to handles rather than inlined trees so a shared definition is emitted once
// no matter how many referrers it has.
type Named struct {
	Name string
}

func (Named) Kind() Kind { return KindNamed }

// Definition is one named type ready for emission.
type Definition struct {
	Name string
	Doc  string
	Type Type
}
