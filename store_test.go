package schemakit_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	schemakit "github.com/qubit-energy/schemakit"
)

// writeCorpus materializes a schema corpus in a temp directory.
func writeCorpus(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func loadCorpus(t *testing.T, files map[string]string) *schemakit.Store {
	t.Helper()
	store, err := schemakit.LoadDir(writeCorpus(t, files))
	if err != nil {
		t.Fatalf("load corpus: %v", err)
	}
	return store
}

func TestLoadDir_Basic(t *testing.T) {
	store := loadCorpus(t, map[string]string{
		"site.json": `{"$id":"https://schemas.qubit.energy/v0.1/site.json","type":"object","properties":{"id":{"type":"string"}}}`,
		"meter.json": `{"type":"object"}`,
	})

	if store.Len() != 2 {
		t.Fatalf("expected 2 documents, got %d", store.Len())
	}
	doc, ok := store.Lookup("site")
	if !ok {
		t.Fatalf("site not found")
	}
	if doc.Name != "site" || doc.ID != "https://schemas.qubit.energy/v0.1/site.json" {
		t.Fatalf("unexpected document: %+v", doc)
	}
	if doc.Root.Kind != schemakit.NodeObject {
		t.Fatalf("expected object root, got %v", doc.Root.Kind)
	}
	if doc.Size == 0 {
		t.Fatalf("expected non-zero raw size")
	}

	byID, ok := store.LookupByID("https://schemas.qubit.energy/v0.1/site.json")
	if !ok || byID != doc {
		t.Fatalf("LookupByID should return the same document")
	}
}

func TestLoadDir_SortedNames(t *testing.T) {
	store := loadCorpus(t, map[string]string{
		"site.json":         `{"type":"object"}`,
		"_definitions.json": `{"$defs":{}}`,
		"asset.json":        `{"type":"object"}`,
	})
	names := store.Names()
	want := []string{"_definitions", "asset", "site"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestLoadDir_YAMLDocument(t *testing.T) {
	store := loadCorpus(t, map[string]string{
		"sensor.yaml": "type: object\nproperties:\n  id:\n    type: string\n",
	})
	doc, ok := store.Lookup("sensor")
	if !ok {
		t.Fatalf("sensor not found")
	}
	if doc.Root.Kind != schemakit.NodeObject || len(doc.Root.Fields) != 1 {
		t.Fatalf("unexpected root: %+v", doc.Root)
	}
}

func TestLoadDir_MissingDirectory(t *testing.T) {
	_, err := schemakit.LoadDir(filepath.Join(t.TempDir(), "nope"))
	var nf *schemakit.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestLoadDir_EmptyDirectory(t *testing.T) {
	_, err := schemakit.LoadDir(t.TempDir())
	var nf *schemakit.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError for empty corpus, got %v", err)
	}
}

func TestLoadDir_MalformedDocumentFailsWholeLoad(t *testing.T) {
	dir := writeCorpus(t, map[string]string{
		"good.json": `{"type":"object"}`,
		"bad.json":  `{"type":`,
	})
	_, err := schemakit.LoadDir(dir)
	var mal *schemakit.MalformedDocumentError
	if !errors.As(err, &mal) {
		t.Fatalf("expected MalformedDocumentError, got %v", err)
	}
	if mal.File != "bad.json" {
		t.Fatalf("expected offending file bad.json, got %s", mal.File)
	}
}

func TestDecodeFile_Malformed(t *testing.T) {
	dir := writeCorpus(t, map[string]string{"broken.json": `{"x":`})
	_, err := schemakit.DecodeFile(filepath.Join(dir, "broken.json"))
	var mal *schemakit.MalformedDocumentError
	if !errors.As(err, &mal) {
		t.Fatalf("expected MalformedDocumentError, got %v", err)
	}
}
