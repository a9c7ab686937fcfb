package i18n

import "testing"

func TestDefaultTranslatorIsEnglish(t *testing.T) {
	if got := T("invalid_enum", nil); got != "value not in enum" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestSetLanguage(t *testing.T) {
	defer SetLanguage("en")

	SetLanguage("ja")
	if got := T("required", nil); got != "必須プロパティが不足しています" {
		t.Fatalf("unexpected ja message: %q", got)
	}

	SetLanguage("klingon")
	if got := T("required", nil); got != "required property missing" {
		t.Fatalf("unknown language should fall back to en, got %q", got)
	}
}

func TestUnknownCodeFallsBackToCode(t *testing.T) {
	if got := T("mystery_code", nil); got != "mystery_code" {
		t.Fatalf("unexpected fallback: %q", got)
	}
}

type upperTranslator struct{}

func (upperTranslator) Message(code string, _ map[string]string) string { return "<" + code + ">" }

func TestSetTranslator(t *testing.T) {
	defer SetTranslator(nil)

	SetTranslator(upperTranslator{})
	if got := T("invalid_type", nil); got != "<invalid_type>" {
		t.Fatalf("custom translator not used: %q", got)
	}

	SetTranslator(nil)
	if got := T("invalid_type", nil); got != "invalid type" {
		t.Fatalf("nil translator should restore the default: %q", got)
	}
}
