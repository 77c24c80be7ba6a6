package config

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseEmptyContentKeepsDefaults(t *testing.T) {
	cfg, warnings, err := Parse("   \n\t", Default())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestParseRejectsNonObjectContent(t *testing.T) {
	_, _, err := Parse("hotkey = super+d", Default())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "JSONC object") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseValidConfig(t *testing.T) {
	input := `
{
  // override the capture device, keep everything else
  "audio": {"device": "Elgato Wave"},
  "engine": {"model": "small"},
}
`

	cfg, warnings, err := Parse(input, Default())
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Audio.Device != "Elgato Wave" {
		t.Fatalf("unexpected audio.device: %s", cfg.Audio.Device)
	}
	if cfg.Engine.Model != "small" {
		t.Fatalf("unexpected engine.model: %s", cfg.Engine.Model)
	}
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
}

func TestParseUnknownKeyFails(t *testing.T) {
	_, _, err := Parse(`{"foo": {"bar": 1}}`, Default())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "unknown field") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseSyntaxErrorIncludesLineNumber(t *testing.T) {
	_, _, err := Parse("{\n\n  \"audio\": }", Default())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}
