package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/maribelle/cosgo/internal/pages"
)

// Auth modes for the REST facade.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Cosense  CosenseConfig     `yaml:"cosense"`
	Markdown MarkdownConfig    `yaml:"markdown"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Cosense.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration for the REST facade.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// CosenseConfig holds the upstream project, credential, and listing
// defaults. SID is the opaque connect.sid session cookie; leaving it
// empty restricts access to public content and disables page editing.
type CosenseConfig struct {
	Project       string `yaml:"project"`
	SID           string `yaml:"sid"`
	BaseURL       string `yaml:"base_url"`
	ServiceLabel  string `yaml:"service_label"`
	PageLimit     int    `yaml:"page_limit"`
	SortMethod    string `yaml:"sort_method"`
	ExcludePinned bool   `yaml:"exclude_pinned"`
	ToolSuffix    string `yaml:"tool_suffix"`
}

// Validate validates the Cosense configuration.
func (c *CosenseConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Project, validation.Required),
		validation.Field(&c.BaseURL, validation.Required),
		validation.Field(&c.PageLimit, validation.Required, validation.Min(pages.MinListLimit), validation.Max(pages.MaxListLimit)),
	); err != nil {
		return err
	}
	if !pages.IsValidSortMethod(c.SortMethod) {
		return fmt.Errorf("cosense: invalid sort_method %q", c.SortMethod)
	}
	return nil
}

// MarkdownConfig tunes the markdown-to-Scrapbox conversion of page
// bodies submitted through create_page.
type MarkdownConfig struct {
	ConvertNumberedLists bool `yaml:"convert_numbered_lists"`
}

// AuthConfig holds REST facade authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
// The Cosense project has no default and must be set.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Cosense: CosenseConfig{
			BaseURL:      "https://scrapbox.io",
			ServiceLabel: "cosense (scrapbox)",
			PageLimit:    100,
			SortMethod:   pages.SortUpdated,
		},
		Markdown: MarkdownConfig{
			ConvertNumberedLists: true,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
