package schemakit

import (
	"path"
	"strconv"
	"strings"
)

// maxRefDepth bounds chains of $ref pointers (a ref whose target is another
// ref, and so on). Legitimate recursive structures resolve in one step; only
// a chain that never reaches a concrete node hits the bound.
const maxRefDepth = 32

// Resolver resolves $ref pointer expressions against a Store. Resolution is
// memoized by canonical pointer (target document plus fragment), so every
// spelling of a reference to a definition shares one identical node; that
// sharing is what lets the synthesizer emit each named type exactly once.
type Resolver struct {
	store *Store
	memo  map[string]*resolved
}

type resolved struct {
	node *Node
	doc  *Document // document the final target lives in
}

// NewResolver creates a Resolver over the given store.
func NewResolver(store *Store) *Resolver {
	return &Resolver{store: store, memo: make(map[string]*resolved)}
}

// Store returns the schema corpus this resolver reads from.
func (r *Resolver) Store() *Store { return r.store }

// Resolve resolves ref against the store, using ctx as the referring document
// for local fragments. The returned node is stable: resolving the same
// pointer again yields the identical node.
func (r *Resolver) Resolve(ref string, ctx *Document) (*Node, error) {
	node, _, err := r.resolve(ref, ctx, 0)
	return node, err
}

// ResolveTarget is Resolve plus the document the target node belongs to,
// which becomes the context for refs found inside the target.
func (r *Resolver) ResolveTarget(ref string, ctx *Document) (*Node, *Document, error) {
	return r.resolve(ref, ctx, 0)
}

func (r *Resolver) resolve(ref string, ctx *Document, depth int) (*Node, *Document, error) {
	ctxName := ""
	if ctx != nil {
		ctxName = ctx.Name
	}
	if depth > maxRefDepth {
		return nil, nil, &ReferenceCycleError{Ref: ref, Doc: ctxName, Depth: depth}
	}

	doc, frag, err := r.target(ref, ctx)
	if err != nil {
		return nil, nil, err
	}
	key := doc.Name + "#" + frag
	if hit, ok := r.memo[key]; ok {
		return hit.node, hit.doc, nil
	}

	node := doc.Root
	if frag != "" {
		node, err = r.fragment(doc, frag, ref)
		if err != nil {
			return nil, nil, err
		}
	}
	// A target that is itself a reference is followed in the target
	// document's context, with the chain depth bounded.
	if node.Kind == NodeRef {
		node, doc, err = r.resolve(node.Ref, doc, depth+1)
		if err != nil {
			return nil, nil, err
		}
	}
	r.memo[key] = &resolved{node: node, doc: doc}
	return node, doc, nil
}

// target classifies a pointer expression into its target document and
// normalized fragment: a local fragment stays in ctx, a cross-document
// fragment or bare name goes through the store, and a whole-document
// reference comes back with an empty fragment.
func (r *Resolver) target(ref string, ctx *Document) (*Document, string, error) {
	ctxName := ""
	if ctx != nil {
		ctxName = ctx.Name
	}
	if ref == "" {
		return nil, "", &UnresolvedReferenceError{Ref: ref, Doc: ctxName}
	}

	if strings.HasPrefix(ref, "#") {
		if ctx == nil {
			return nil, "", &UnresolvedReferenceError{Ref: ref, Doc: ctxName}
		}
		return ctx, strings.Trim(ref[1:], "/"), nil
	}

	base, frag := ref, ""
	if i := strings.IndexByte(ref, '#'); i >= 0 {
		base, frag = ref[:i], strings.Trim(ref[i+1:], "/")
	}
	doc, ok := r.lookupBase(base, ref)
	if !ok {
		return nil, "", &UnresolvedReferenceError{Ref: ref, Doc: ctxName}
	}
	return doc, frag, nil
}

// lookupBase finds the document a non-local reference points at: by file name
// (site.json), by declared $id, or by bare document name.
func (r *Resolver) lookupBase(base, full string) (*Document, bool) {
	if ext := path.Ext(base); schemaExts[ext] {
		name := strings.TrimSuffix(path.Base(base), ext)
		if doc, ok := r.store.Lookup(name); ok {
			return doc, true
		}
	}
	if doc, ok := r.store.LookupByID(base); ok {
		return doc, true
	}
	if doc, ok := r.store.LookupByID(full); ok {
		return doc, true
	}
	return r.store.Lookup(base)
}

// fragment walks a normalized JSON-pointer fragment against the document's
// raw tree and classifies the target. A missing step fails immediately; a
// pointer never resolves to a placeholder.
func (r *Resolver) fragment(doc *Document, frag, full string) (*Node, error) {
	cur := doc.Raw()
	for _, seg := range strings.Split(frag, "/") {
		seg = strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~")
		switch cur.Kind() {
		case ValueObject:
			next, ok := cur.Get(seg)
			if !ok {
				return nil, &UnresolvedReferenceError{Ref: full, Doc: doc.Name}
			}
			cur = next
		case ValueArray:
			idx, err := strconv.Atoi(seg)
			if err != nil || idx < 0 || idx >= len(cur.Items()) {
				return nil, &UnresolvedReferenceError{Ref: full, Doc: doc.Name}
			}
			cur = cur.Items()[idx]
		default:
			return nil, &UnresolvedReferenceError{Ref: full, Doc: doc.Name}
		}
	}
	return ClassifyNode(cur), nil
}
