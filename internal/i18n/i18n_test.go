package i18n

import (
	"testing"
	"testing/fstest"
)

func TestDefaultManagerTranslatesWithFallback(t *testing.T) {
	manager, err := NewDefaultManager("ru")
	if err != nil {
		t.Fatalf("NewDefaultManager() unexpected error: %v", err)
	}
	if manager.DefaultLanguage() != LangRU {
		t.Fatalf("expected default language ru, got %q", manager.DefaultLanguage())
	}
	if got := manager.Translate("en", "error.session_not_found"); got != "Session not found" {
		t.Fatalf("unexpected english translation %q", got)
	}
	if got := manager.Translate("de", "error.session_not_found"); got != "Сессия не найдена" {
		t.Fatalf("expected fallback to default language, got %q", got)
	}
	if got := manager.Translate("en", "missing.key"); got != "missing.key" {
		t.Fatalf("expected key echo for missing translation, got %q", got)
	}
}

func TestIssueMessage(t *testing.T) {
	manager, err := NewDefaultManager("en")
	if err != nil {
		t.Fatalf("NewDefaultManager() unexpected error: %v", err)
	}
	if got := manager.IssueMessage("en", "slouching"); got != "Slouching detected" {
		t.Fatalf("unexpected issue message %q", got)
	}
	if got := manager.IssueMessage("en", "twisting"); got != "Posture issue detected" {
		t.Fatalf("expected generic issue message, got %q", got)
	}
}

func TestDetectFromAcceptLanguage(t *testing.T) {
	manager, err := NewDefaultManager("en")
	if err != nil {
		t.Fatalf("NewDefaultManager() unexpected error: %v", err)
	}
	if got := manager.DetectFromAcceptLanguage("fr-FR, ru-RU;q=0.8, en;q=0.5"); got != LangRU {
		t.Fatalf("expected ru from accept-language, got %q", got)
	}
	if got := manager.DetectFromAcceptLanguage(""); got != LangEN {
		t.Fatalf("expected default en, got %q", got)
	}
}

func TestNewManagerRequiresEnglishCatalog(t *testing.T) {
	locales := fstest.MapFS{
		"ru.json": {Data: []byte(`{"a":"b"}`)},
	}
	if _, err := NewManager("ru", locales); err == nil {
		t.Fatal("expected error without en catalog")
	}

	empty := fstest.MapFS{
		"en.json": {Data: []byte(`{}`)},
	}
	if _, err := NewManager("en", empty); err == nil {
		t.Fatal("expected error for empty catalog")
	}
}
