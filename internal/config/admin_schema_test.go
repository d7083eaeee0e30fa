package config

import (
	"strings"
	"testing"
)

func TestValidateAdminConfigAccepts(t *testing.T) {
	raw := []byte(`{
		"o": {"/sensors/temp": {"r": 1, "st": "mean", "b": 10}},
		"s": {"/out/temp": {"v": 21.5}}
	}`)
	cfg, err := ValidateAdminConfig(raw)
	if err != nil {
		t.Fatalf("expected valid config, got error: %v", err)
	}
	spec, ok := cfg.Observations["/sensors/temp"]
	if !ok || spec.Transform != "mean" || spec.BufferCapacity != 10 {
		t.Fatalf("unexpected observations: %+v", cfg.Observations)
	}
	state, ok := cfg.State["/out/temp"]
	if !ok || string(state.Value) != "21.5" {
		t.Fatalf("unexpected state: %+v", cfg.State)
	}
}

func TestValidateAdminConfigRejectsBadTransform(t *testing.T) {
	raw := []byte(`{"o": {"/a": {"r": 0, "st": "bogus"}}}`)
	if _, err := ValidateAdminConfig(raw); err == nil {
		t.Fatalf("expected validation error for unknown transform")
	}
}

func TestValidateAdminConfigReportsSyntaxErrorOffset(t *testing.T) {
	raw := []byte(`{"o": {"/a": }}`)
	_, err := ValidateAdminConfig(raw)
	if err == nil {
		t.Fatalf("expected error for malformed JSON")
	}
	if !strings.Contains(err.Error(), "byte") {
		t.Fatalf("expected byte offset in error, got %q", err.Error())
	}
}

func TestValidateAdminConfigRejectsMissingRequiredField(t *testing.T) {
	raw := []byte(`{"o": {"/a": {"d": 5}}}`)
	if _, err := ValidateAdminConfig(raw); err == nil {
		t.Fatalf("expected error for missing required 'r' field")
	}
}

func TestValidateAdminConfigRejectsMissingStateValue(t *testing.T) {
	raw := []byte(`{"s": {"/a": {"dt": "numeric"}}}`)
	if _, err := ValidateAdminConfig(raw); err == nil {
		t.Fatalf("expected error for missing required 'v' field")
	}
}
