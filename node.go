package schemakit

// NodeKind identifies a schema node variant. Raw schema shapes are classified
// into this closed set once at load; every downstream consumer (resolver,
// synthesizer, validator) switches over it instead of re-inspecting raw data.
type NodeKind int

const (
	NodeAny NodeKind = iota
	NodePrimitive
	NodeEnum
	NodeArray
	NodeObject
	NodeMap // object with no declared properties: open key/value mapping
	NodeUnion
	NodeRef
)

// Primitive kinds, as spelled in JSON Schema.
const (
	PrimString  = "string"
	PrimNumber  = "number"
	PrimInteger = "integer"
	PrimBoolean = "boolean"
	PrimNull    = "null"
)

// Field is one declared object property, in declaration order.
type Field struct {
	Name     string
	Node     *Node
	Required bool
}

// Node is a classified schema node. Nodes are immutable after load.
type Node struct {
	Kind        NodeKind
	Description string

	Primitive string // NodePrimitive: one of the Prim* kinds
	Format    string // NodePrimitive(string): declared format, validated at runtime

	Enum []string // NodeEnum: literal values in declared order

	Elem *Node // NodeArray

	Fields   []Field  // NodeObject: declared properties in declaration order
	Required []string // NodeObject: declared required names, as written
	Closed   bool     // NodeObject/NodeMap: additionalProperties == false

	Members []*Node // NodeUnion: branches in declaration order

	Ref string // NodeRef: the pointer expression as written
}

// ClassifyNode converts a raw schema value into its Node variant. The mapping
// is permissive: anything without a recognized keyword is NodeAny, matching
// JSON Schema's open-world semantics. Keyword priority when several apply:
// $ref, then oneOf, then multi-type, then the single declared type.
func ClassifyNode(v *Value) *Node {
	if v == nil || v.Kind() != ValueObject {
		return &Node{Kind: NodeAny}
	}
	desc, _ := v.GetString("description")

	if ref, ok := v.GetString("$ref"); ok {
		return &Node{Kind: NodeRef, Ref: ref, Description: desc}
	}

	if oneOf, ok := v.Get("oneOf"); ok && oneOf.Kind() == ValueArray {
		members := make([]*Node, 0, len(oneOf.Items()))
		for _, branch := range oneOf.Items() {
			members = append(members, ClassifyNode(branch))
		}
		return &Node{Kind: NodeUnion, Members: members, Description: desc}
	}

	typ, ok := v.Get("type")
	if !ok {
		return &Node{Kind: NodeAny, Description: desc}
	}

	// Multi-type shorthand: each entry is a union member, order preserved.
	if typ.Kind() == ValueArray {
		members := make([]*Node, 0, len(typ.Items()))
		for _, t := range typ.Items() {
			if t.Kind() != ValueString {
				members = append(members, &Node{Kind: NodeAny})
				continue
			}
			members = append(members, classifyTyped(t.Str(), v, ""))
		}
		return &Node{Kind: NodeUnion, Members: members, Description: desc}
	}

	if typ.Kind() != ValueString {
		return &Node{Kind: NodeAny, Description: desc}
	}
	return classifyTyped(typ.Str(), v, desc)
}

func classifyTyped(typ string, v *Value, desc string) *Node {
	switch typ {
	case PrimString:
		if enum, ok := v.Get("enum"); ok && enum.Kind() == ValueArray {
			values := make([]string, 0, len(enum.Items()))
			for _, e := range enum.Items() {
				values = append(values, e.Literal())
			}
			return &Node{Kind: NodeEnum, Enum: values, Description: desc}
		}
		format, _ := v.GetString("format")
		return &Node{Kind: NodePrimitive, Primitive: PrimString, Format: format, Description: desc}
	case PrimNumber, PrimInteger, PrimBoolean, PrimNull:
		return &Node{Kind: NodePrimitive, Primitive: typ, Description: desc}
	case "array":
		elem := &Node{Kind: NodeAny}
		if items, ok := v.Get("items"); ok {
			elem = ClassifyNode(items)
		}
		return &Node{Kind: NodeArray, Elem: elem, Description: desc}
	case "object":
		closed := false
		if ap, ok := v.Get("additionalProperties"); ok && ap.Kind() == ValueBool && !ap.Bool() {
			closed = true
		}
		props, ok := v.Get("properties")
		if !ok || props.Kind() != ValueObject {
			return &Node{Kind: NodeMap, Closed: closed, Description: desc}
		}
		var required []string
		if req, ok := v.Get("required"); ok && req.Kind() == ValueArray {
			for _, r := range req.Items() {
				if r.Kind() == ValueString {
					required = append(required, r.Str())
				}
			}
		}
		reqSet := make(map[string]struct{}, len(required))
		for _, name := range required {
			reqSet[name] = struct{}{}
		}
		fields := make([]Field, 0, len(props.Members()))
		for _, m := range props.Members() {
			_, isReq := reqSet[m.Name]
			fields = append(fields, Field{Name: m.Name, Node: ClassifyNode(m.Value), Required: isReq})
		}
		return &Node{Kind: NodeObject, Fields: fields, Required: required, Closed: closed, Description: desc}
	}
	return &Node{Kind: NodeAny, Description: desc}
}
