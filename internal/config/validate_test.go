package config

import (
	"strings"
	"testing"
)

func TestValidateDetailed_Valid(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"src/**/*.vue"}
	result := cfg.ValidateDetailed()
	if !result.IsValid() {
		t.Errorf("expected valid config, got errors: %v", result.Errors)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", result.Warnings)
	}
}

func TestValidateDetailed_JobsRange(t *testing.T) {
	for _, jobs := range []int{0, -1, 65} {
		cfg := DefaultConfig()
		cfg.Jobs = jobs
		result := cfg.ValidateDetailed()
		if result.IsValid() {
			t.Errorf("jobs=%d: expected invalid config", jobs)
		}
	}
}

func TestValidateDetailed_LogOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Log.Format = "xml"
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Fatal("expected error for unknown log format")
	}
	if !strings.Contains(result.Errors[0], "log.format") {
		t.Errorf("expected log.format error, got %v", result.Errors)
	}
}

func TestValidateDetailed_InvalidGlob(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"src/[*.vue"}
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Fatal("expected error for invalid glob")
	}
}

func TestValidateDetailed_EmptyPattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Exclude = []string{""}
	result := cfg.ValidateDetailed()
	if result.IsValid() {
		t.Fatal("expected error for empty pattern")
	}
	if !strings.HasPrefix(result.Errors[0], "exclude:") {
		t.Errorf("expected exclude error, got %v", result.Errors)
	}
}

func TestValidateDetailed_WeirdIncludePattern(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Include = []string{"src/components"}
	result := cfg.ValidateDetailed()
	if !result.IsValid() {
		t.Fatalf("expected only warnings, got errors: %v", result.Errors)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected warning for pattern without wildcard")
	}
}
