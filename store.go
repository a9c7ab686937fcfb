package schemakit

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Document is one named, immutable schema tree loaded from a single file.
type Document struct {
	Name string // file stem, the corpus-wide key
	ID   string // declared $id, when present
	Root *Node  // classified root node
	Size int    // raw byte size of the source file

	raw *Value // retained for fragment resolution into $defs and friends
}

// Raw exposes the document's raw value tree. Fragment resolution walks this
// tree; consumers otherwise work with classified nodes.
func (d *Document) Raw() *Value { return d.raw }

// Store owns every schema document for one invocation. It is built once by
// LoadDir and never mutated afterwards, so concurrent readers need no locking.
type Store struct {
	docs  map[string]*Document
	byID  map[string]*Document
	names []string
}

// schemaExts are the file extensions recognized as schema documents.
var schemaExts = map[string]bool{".json": true, ".yaml": true, ".yml": true}

// LoadDir reads every schema document in dir (non-recursively) into a Store.
// A missing directory or an empty corpus is a NotFoundError; a single
// malformed document fails the whole load with a MalformedDocumentError so no
// downstream work runs against a corpus with a known-bad member.
func LoadDir(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: dir}
		}
		return nil, err
	}

	st := &Store{
		docs: make(map[string]*Document),
		byID: make(map[string]*Document),
	}
	for _, e := range entries {
		if e.IsDir() || !schemaExts[filepath.Ext(e.Name())] {
			continue
		}
		doc, err := loadDocument(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		st.docs[doc.Name] = doc
		if doc.ID != "" {
			st.byID[doc.ID] = doc
		}
		st.names = append(st.names, doc.Name)
	}
	if len(st.names) == 0 {
		return nil, &NotFoundError{Path: dir}
	}
	sort.Strings(st.names)
	return st, nil
}

func loadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	raw, err := decodeByExt(path, data)
	if err != nil {
		return nil, &MalformedDocumentError{File: filepath.Base(path), Err: err}
	}
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	id, _ := raw.GetString("$id")
	return &Document{
		Name: name,
		ID:   id,
		Root: ClassifyNode(raw),
		Size: len(data),
		raw:  raw,
	}, nil
}

// DecodeFile reads and decodes a single data document, picking the decoder
// from the file extension. Decode failures come back as
// MalformedDocumentError naming the file.
func DecodeFile(path string) (*Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &NotFoundError{Path: path}
		}
		return nil, err
	}
	v, err := decodeByExt(path, data)
	if err != nil {
		return nil, &MalformedDocumentError{File: filepath.Base(path), Err: err}
	}
	return v, nil
}

func decodeByExt(path string, data []byte) (*Value, error) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return DecodeJSON(data)
	}
}

// Lookup returns the document with the given name.
func (s *Store) Lookup(name string) (*Document, bool) {
	d, ok := s.docs[name]
	return d, ok
}

// LookupByID returns the document whose declared $id matches uri.
func (s *Store) LookupByID(uri string) (*Document, bool) {
	d, ok := s.byID[uri]
	return d, ok
}

// Names lists the loaded document names in sorted order.
func (s *Store) Names() []string { return s.names }

// Len reports the number of loaded documents.
func (s *Store) Len() int { return len(s.names) }
