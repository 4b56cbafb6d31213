package internal

import (
	"fmt"
	"log/slog"
	"path"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/sitefrag/internal/navigation"
	"github.com/starford/sitefrag/internal/rewrite"
	"github.com/starford/sitefrag/internal/siteservice"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Log formats.
const (
	LogFormatJSON = "json"
	LogFormatText = "text"
)

// Config represents the application configuration.
type Config struct {
	App     ApplicationConfig `yaml:"app"`
	Site    SiteConfig        `yaml:"site"`
	Extract ExtractConfig     `yaml:"extract"`
	Index   IndexConfig       `yaml:"index"`
	Watch   WatchConfig       `yaml:"watch"`
	Auth    AuthConfig        `yaml:"auth"`
	// Navigation replaces the built-in navigation table when set.
	Navigation *navigation.Table `yaml:"navigation"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return fmt.Errorf("app: %w", err)
	}
	if err := c.Site.Validate(); err != nil {
		return fmt.Errorf("site: %w", err)
	}
	if err := c.Extract.Validate(); err != nil {
		return fmt.Errorf("extract: %w", err)
	}
	if err := c.Index.Validate(); err != nil {
		return fmt.Errorf("index: %w", err)
	}
	if err := c.Watch.Validate(); err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	if err := c.Auth.Validate(); err != nil {
		return err
	}
	return c.NavigationTable().Validate()
}

// NavigationTable returns the configured navigation table, or the built-in
// one. Path layout fields left empty are taken from the site section.
func (c *Config) NavigationTable() *navigation.Table {
	if c.Navigation == nil {
		t := navigation.DefaultTable()
		t.PagesDir = c.Site.PagesDir
		t.Logo = c.Site.Logo
		return t
	}
	t := *c.Navigation
	if t.PagesDir == "" {
		t.PagesDir = c.Site.PagesDir
	}
	if t.Logo == "" {
		t.Logo = c.Site.Logo
	}
	if t.MobileClass == "" {
		t.MobileClass = navigation.ClassMobileLink
	}
	return &t
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel  slog.Level `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	HTTP      HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.LogFormat, validation.Required, validation.In(LogFormatJSON, LogFormatText)),
	); err != nil {
		return err
	}
	return c.HTTP.Validate()
}

// HTTPConfig holds preview server configuration.
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

// SiteConfig describes the site tree. Everything except Root is relative to
// Root and slash separated.
type SiteConfig struct {
	Root           string `yaml:"root"`
	HomePage       string `yaml:"home_page"`
	PagesDir       string `yaml:"pages_dir"`
	IncludesDir    string `yaml:"includes_dir"`
	HeaderFragment string `yaml:"header_fragment"`
	FooterFragment string `yaml:"footer_fragment"`
	Logo           string `yaml:"logo"`
	LoaderScript   string `yaml:"loader_script"`
}

// Validate validates the site configuration.
func (c *SiteConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Root, validation.Required),
		validation.Field(&c.HomePage, validation.Required, validation.By(relative)),
		validation.Field(&c.PagesDir, validation.Required, validation.By(relative)),
		validation.Field(&c.IncludesDir, validation.Required, validation.By(relative)),
		validation.Field(&c.HeaderFragment, validation.Required),
		validation.Field(&c.FooterFragment, validation.Required),
		validation.Field(&c.Logo, validation.Required),
		validation.Field(&c.LoaderScript, validation.Required),
	)
}

// Layout returns the site layout used by the passes.
func (c *SiteConfig) Layout() siteservice.Layout {
	return siteservice.Layout{
		HomePage:       c.HomePage,
		PagesDir:       c.PagesDir,
		IncludesDir:    c.IncludesDir,
		HeaderFragment: c.HeaderFragment,
		FooterFragment: c.FooterFragment,
		LoaderScript:   c.LoaderScript,
	}
}

func relative(value any) error {
	s, _ := value.(string)
	if path.IsAbs(s) {
		return fmt.Errorf("must be relative to the site root")
	}
	return nil
}

// ExtractConfig holds the trailer written by the extraction pass.
type ExtractConfig struct {
	Scripts []string  `yaml:"scripts"`
	AOS     AOSConfig `yaml:"aos"`
}

// AOSConfig holds the animate-on-scroll init options.
type AOSConfig struct {
	Duration int  `yaml:"duration"`
	Once     bool `yaml:"once"`
}

// Validate validates the extract configuration.
func (c *ExtractConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Scripts, validation.Required, validation.Each(validation.Required)),
		validation.Field(&c.AOS),
	)
}

// Validate validates the AOS options.
func (c AOSConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Duration, validation.Min(0)),
	)
}

// Options converts the section into extractor options.
func (c *ExtractConfig) Options() rewrite.ExtractOptions {
	return rewrite.ExtractOptions{
		Scripts:     c.Scripts,
		AOSDuration: c.AOS.Duration,
		AOSOnce:     c.AOS.Once,
	}
}

// IndexConfig holds the rewrite journal location.
type IndexConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the index configuration.
func (c *IndexConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// WatchConfig holds fragment watcher settings.
type WatchConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Debounce, validation.Min(time.Duration(0))),
	)
}

// AuthConfig holds API authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication, suitable for a local preview.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
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

// NewDefaultConfig returns a Config matching the shipped site layout.
func NewDefaultConfig() *Config {
	layout := siteservice.DefaultLayout()
	extract := rewrite.DefaultExtractOptions()
	nav := navigation.DefaultTable()
	return &Config{
		App: ApplicationConfig{
			LogLevel:  slog.LevelInfo,
			LogFormat: LogFormatText,
			HTTP: HTTPConfig{
				Port: 8080,
			},
		},
		Site: SiteConfig{
			Root:           ".",
			HomePage:       layout.HomePage,
			PagesDir:       layout.PagesDir,
			IncludesDir:    layout.IncludesDir,
			HeaderFragment: layout.HeaderFragment,
			FooterFragment: layout.FooterFragment,
			Logo:           nav.Logo,
			LoaderScript:   layout.LoaderScript,
		},
		Extract: ExtractConfig{
			Scripts: extract.Scripts,
			AOS: AOSConfig{
				Duration: extract.AOSDuration,
				Once:     extract.AOSOnce,
			},
		},
		Index: IndexConfig{
			Path: "./sitefrag.db",
		},
		Watch: WatchConfig{
			Debounce: 300 * time.Millisecond,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
