package schemakit

// Engine bundles the store and the shared resolver for one invocation. The
// synthesizer and validator constructed from an Engine consume the same
// memoized reference graph, so a pointer resolved for code generation is the
// identical node the validator sees.
type Engine struct {
	store *Store
	res   *Resolver
}

// Open loads the schema corpus at dir and prepares the resolution graph.
func Open(dir string) (*Engine, error) {
	store, err := LoadDir(dir)
	if err != nil {
		return nil, err
	}
	return &Engine{store: store, res: NewResolver(store)}, nil
}

// Store returns the loaded schema corpus.
func (e *Engine) Store() *Store { return e.store }

// Resolver returns the shared reference resolver.
func (e *Engine) Resolver() *Resolver { return e.res }

// Synthesizer returns a fresh type synthesizer over the shared graph.
func (e *Engine) Synthesizer() *Synthesizer { return NewSynthesizer(e.res) }

// Validator returns a validator over the shared graph.
func (e *Engine) Validator() *Validator { return NewValidator(e.res) }
