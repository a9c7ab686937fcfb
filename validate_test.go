package schemakit_test

import (
	"errors"
	"testing"

	schemakit "github.com/qubit-energy/schemakit"
)

const siteSchema = `{
	"type": "object",
	"required": ["id", "name"],
	"properties": {
		"id": {"$ref": "#/$defs/site_id"},
		"name": {"type": "string"},
		"status": {"type": "string", "enum": ["active", "inactive"]}
	},
	"$defs": {
		"site_id": {"type": "string"}
	}
}`

func newValidator(t *testing.T, files map[string]string) *schemakit.Validator {
	t.Helper()
	store := loadCorpus(t, files)
	return schemakit.NewValidator(schemakit.NewResolver(store))
}

func validateJSON(t *testing.T, v *schemakit.Validator, schemaName, data string) schemakit.Verdict {
	t.Helper()
	doc, err := v.SchemaFor(schemaName)
	if err != nil {
		t.Fatalf("schema for %s: %v", schemaName, err)
	}
	value, err := schemakit.DecodeJSON([]byte(data))
	if err != nil {
		t.Fatalf("decode data: %v", err)
	}
	verdict, err := v.Validate(value, doc)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	return verdict
}

func TestValidate_ConformingDocumentIsValid(t *testing.T) {
	v := newValidator(t, map[string]string{"site.json": siteSchema})
	verdict := validateJSON(t, v, "site", `{"id":"site-1","name":"HQ","status":"active"}`)
	if !verdict.OK {
		t.Fatalf("expected valid, got %+v", verdict.Issue)
	}
}

func TestValidate_EnumViolationAtPath(t *testing.T) {
	v := newValidator(t, map[string]string{"site.json": siteSchema})
	verdict := validateJSON(t, v, "site", `{"id":"site-1","name":"HQ","status":"bogus"}`)
	if verdict.OK {
		t.Fatalf("expected invalid")
	}
	if verdict.Issue.Path != "/status" {
		t.Fatalf("expected path /status, got %q", verdict.Issue.Path)
	}
	if verdict.Issue.Code != schemakit.CodeInvalidEnum {
		t.Fatalf("expected invalid_enum, got %s", verdict.Issue.Code)
	}
}

func TestValidate_MissingRequiredReportedAtParent(t *testing.T) {
	v := newValidator(t, map[string]string{"site.json": siteSchema})
	verdict := validateJSON(t, v, "site", `{"id":"site-1"}`)
	if verdict.OK {
		t.Fatalf("expected invalid")
	}
	if verdict.Issue.Code != schemakit.CodeRequired {
		t.Fatalf("expected required, got %s", verdict.Issue.Code)
	}
	// the missing field has no location of its own; the parent object is blamed
	if verdict.Issue.Path != "" {
		t.Fatalf("expected root path, got %q", verdict.Issue.Path)
	}
	if verdict.Issue.Params["field"] != "name" {
		t.Fatalf("expected field name in params, got %v", verdict.Issue.Params)
	}
}

func TestValidate_FailFastSingleIssue(t *testing.T) {
	v := newValidator(t, map[string]string{"site.json": siteSchema})
	// two violations: id has wrong kind and status is out of enum; only the
	// first encountered is reported
	verdict := validateJSON(t, v, "site", `{"id":7,"name":"HQ","status":"bogus"}`)
	if verdict.OK {
		t.Fatalf("expected invalid")
	}
	if verdict.Issue.Path != "/id" || verdict.Issue.Code != schemakit.CodeInvalidType {
		t.Fatalf("expected first violation at /id, got %+v", verdict.Issue)
	}
}

func TestValidate_NestedArrayPath(t *testing.T) {
	v := newValidator(t, map[string]string{
		"timeseries.json": `{"type":"object","properties":{"points":{"type":"array","items":{"type":"object","required":["ts"],"properties":{"ts":{"type":"string"},"value":{"type":"number"}}}}}}`,
	})
	verdict := validateJSON(t, v, "timeseries", `{"points":[{"ts":"t0","value":1},{"ts":"t1","value":"oops"}]}`)
	if verdict.OK {
		t.Fatalf("expected invalid")
	}
	if verdict.Issue.Path != "/points/1/value" {
		t.Fatalf("expected /points/1/value, got %q", verdict.Issue.Path)
	}
}

func TestValidate_IntegerKind(t *testing.T) {
	v := newValidator(t, map[string]string{
		"meter.json": `{"type":"object","properties":{"count":{"type":"integer"}}}`,
	})
	if verdict := validateJSON(t, v, "meter", `{"count":3}`); !verdict.OK {
		t.Fatalf("3 is a valid integer: %+v", verdict.Issue)
	}
	if verdict := validateJSON(t, v, "meter", `{"count":3.5}`); verdict.OK {
		t.Fatalf("3.5 must fail the integer check")
	}
}

func TestValidate_Formats(t *testing.T) {
	v := newValidator(t, map[string]string{
		"sensor.json": `{"type":"object","properties":{"installed_at":{"type":"string","format":"date-time"},"ip":{"type":"string","format":"ipv4"}}}`,
	})
	if verdict := validateJSON(t, v, "sensor", `{"installed_at":"2026-01-02T10:00:00Z","ip":"10.0.0.1"}`); !verdict.OK {
		t.Fatalf("expected valid, got %+v", verdict.Issue)
	}
	verdict := validateJSON(t, v, "sensor", `{"installed_at":"yesterday"}`)
	if verdict.OK || verdict.Issue.Code != schemakit.CodeInvalidFormat {
		t.Fatalf("expected invalid_format, got %+v", verdict.Issue)
	}
	if verdict.Issue.Path != "/installed_at" {
		t.Fatalf("expected /installed_at, got %q", verdict.Issue.Path)
	}
}

func TestValidate_UnionFirstMatch(t *testing.T) {
	v := newValidator(t, map[string]string{
		"reading.json": `{"type":"object","properties":{"value":{"oneOf":[{"type":"number"},{"type":"string"}]}}}`,
	})
	if verdict := validateJSON(t, v, "reading", `{"value":1.5}`); !verdict.OK {
		t.Fatalf("number branch should match: %+v", verdict.Issue)
	}
	if verdict := validateJSON(t, v, "reading", `{"value":"1.5 kWh"}`); !verdict.OK {
		t.Fatalf("string branch should match: %+v", verdict.Issue)
	}
	verdict := validateJSON(t, v, "reading", `{"value":true}`)
	if verdict.OK || verdict.Issue.Code != schemakit.CodeUnionMismatch {
		t.Fatalf("expected union_mismatch, got %+v", verdict.Issue)
	}
}

func TestValidate_UndeclaredPropertiesPermittedUnlessClosed(t *testing.T) {
	v := newValidator(t, map[string]string{
		"open.json":   `{"type":"object","properties":{"id":{"type":"string"}}}`,
		"closed.json": `{"type":"object","properties":{"id":{"type":"string"}},"additionalProperties":false}`,
	})
	if verdict := validateJSON(t, v, "open", `{"id":"x","extra":1}`); !verdict.OK {
		t.Fatalf("open object must permit undeclared properties: %+v", verdict.Issue)
	}
	verdict := validateJSON(t, v, "closed", `{"id":"x","extra":1}`)
	if verdict.OK || verdict.Issue.Code != schemakit.CodeUnknownKey {
		t.Fatalf("expected unknown_key, got %+v", verdict.Issue)
	}
	if verdict.Issue.Path != "/extra" {
		t.Fatalf("expected /extra, got %q", verdict.Issue.Path)
	}
}

func TestValidate_CrossDocumentRef(t *testing.T) {
	v := newValidator(t, map[string]string{
		"_definitions.json": `{"$defs":{"status":{"type":"string","enum":["active","inactive"]}}}`,
		"asset.json":        `{"type":"object","properties":{"status":{"$ref":"_definitions.json#/$defs/status"}}}`,
	})
	if verdict := validateJSON(t, v, "asset", `{"status":"active"}`); !verdict.OK {
		t.Fatalf("expected valid, got %+v", verdict.Issue)
	}
	if verdict := validateJSON(t, v, "asset", `{"status":"broken"}`); verdict.OK {
		t.Fatalf("cross-document enum must still be closed")
	}
}

func TestValidate_UnresolvableRefIsFatalForDocument(t *testing.T) {
	store := loadCorpus(t, map[string]string{
		"asset.json": `{"type":"object","properties":{"status":{"$ref":"missing.json#/$defs/status"}}}`,
	})
	v := schemakit.NewValidator(schemakit.NewResolver(store))
	doc, _ := v.SchemaFor("asset")
	value, _ := schemakit.DecodeJSON([]byte(`{"status":"active"}`))

	_, err := v.Validate(value, doc)
	var unres *schemakit.UnresolvedReferenceError
	if !errors.As(err, &unres) {
		t.Fatalf("expected UnresolvedReferenceError, got %v", err)
	}
}

func TestSchemaFor_PluralHeuristic(t *testing.T) {
	v := newValidator(t, map[string]string{
		"site.json":   `{"type":"object"}`,
		"meters.json": `{"type":"object"}`,
	})
	// exact
	if doc, err := v.SchemaFor("site"); err != nil || doc.Name != "site" {
		t.Fatalf("exact match failed: %v", err)
	}
	// plural data file, singular schema
	if doc, err := v.SchemaFor("sites"); err != nil || doc.Name != "site" {
		t.Fatalf("singular fallback failed: %v", err)
	}
	// singular data file, plural schema
	if doc, err := v.SchemaFor("meter"); err != nil || doc.Name != "meters" {
		t.Fatalf("plural fallback failed: %v", err)
	}
	// no heuristic beyond one trailing s
	_, err := v.SchemaFor("organization")
	var nms *schemakit.NoMatchingSchemaError
	if !errors.As(err, &nms) {
		t.Fatalf("expected NoMatchingSchemaError, got %v", err)
	}
}

func TestValidate_RecursiveSchemaTerminates(t *testing.T) {
	v := newValidator(t, map[string]string{
		"tree.json": `{"$ref":"#/$defs/node","$defs":{"node":{"type":"object","required":["name"],"properties":{"name":{"type":"string"},"children":{"type":"array","items":{"$ref":"#/$defs/node"}}}}}}`,
	})
	ok := `{"name":"root","children":[{"name":"leaf","children":[]}]}`
	if verdict := validateJSON(t, v, "tree", ok); !verdict.OK {
		t.Fatalf("expected valid, got %+v", verdict.Issue)
	}
	bad := `{"name":"root","children":[{"children":[]}]}`
	verdict := validateJSON(t, v, "tree", bad)
	if verdict.OK || verdict.Issue.Path != "/children/0" {
		t.Fatalf("expected required failure at /children/0, got %+v", verdict.Issue)
	}
}

func TestValidate_ClosedObjectWithoutPropertiesRejectsKeys(t *testing.T) {
	v := newValidator(t, map[string]string{
		"empty.json": `{"type":"object","additionalProperties":false}`,
	})
	if verdict := validateJSON(t, v, "empty", `{}`); !verdict.OK {
		t.Fatalf("empty object should pass: %+v", verdict.Issue)
	}
	verdict := validateJSON(t, v, "empty", `{"extra":1}`)
	if verdict.OK || verdict.Issue.Code != schemakit.CodeUnknownKey {
		t.Fatalf("expected unknown_key, got %+v", verdict.Issue)
	}
	if verdict.Issue.Path != "/extra" {
		t.Fatalf("expected /extra, got %q", verdict.Issue.Path)
	}
}
