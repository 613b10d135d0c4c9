package internal

import (
	"strings"
	"testing"
)

func validCosense() CosenseConfig {
	return CosenseConfig{
		Project:    "myproj",
		BaseURL:    "https://scrapbox.io",
		PageLimit:  100,
		SortMethod: "updated",
	}
}

func TestCosenseConfig_Valid(t *testing.T) {
	cfg := validCosense()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config should pass: %v", err)
	}
}

func TestCosenseConfig_ProjectRequired(t *testing.T) {
	cfg := validCosense()
	cfg.Project = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty project should fail")
	}
}

func TestCosenseConfig_BaseURLRequired(t *testing.T) {
	cfg := validCosense()
	cfg.BaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty base URL should fail")
	}
}

func TestCosenseConfig_PageLimitBounds(t *testing.T) {
	cfg := validCosense()
	cfg.PageLimit = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero page limit should fail")
	}

	cfg.PageLimit = 1001
	if err := cfg.Validate(); err == nil {
		t.Fatal("page limit above bound should fail")
	}

	cfg.PageLimit = 1000
	if err := cfg.Validate(); err != nil {
		t.Fatalf("page limit at bound should pass: %v", err)
	}
}

func TestCosenseConfig_SortMethod(t *testing.T) {
	cfg := validCosense()
	cfg.SortMethod = "popularity"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("unknown sort method should fail")
	}
	if !strings.Contains(err.Error(), "invalid sort_method") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_Validate(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Cosense.Project = "myproj"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with a project should pass: %v", err)
	}

	cfg.Cosense.Project = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("missing project should fail")
	}

	cfg = NewDefaultConfig()
	cfg.Cosense.Project = "myproj"
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 9000}
	if got := cfg.Address(); got != ":9000" {
		t.Errorf("address = %q", got)
	}
}
