// Package config loads data source defaults from a datasource.yaml or
// datasource.toml file.
//
// Apps describe placeholder copy, section metrics and load scheduling once
// and build every data source from the resolved options:
//
//	resolved, err := config.Resolve(".")
//	if err != nil {
//	    return err
//	}
//	feed := datasource.NewBasic[Post](resolved.Options(nil))
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"golang.org/x/mod/modfile"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/datasource/pkg/datasource"
	dserrors "github.com/go-drift/datasource/pkg/errors"
	"github.com/go-drift/datasource/pkg/mainloop"
)

// File names probed by LoadOptional, in order.
var FileNames = []string{"datasource.yaml", "datasource.yml", "datasource.toml"}

// Config represents a datasource.yaml or datasource.toml file.
type Config struct {
	Title       string            `yaml:"title,omitempty" toml:"title"`
	Placeholder PlaceholderConfig `yaml:"placeholder" toml:"placeholder"`
	Metrics     MetricsConfig     `yaml:"metrics" toml:"metrics"`
	Loading     LoadingConfig     `yaml:"loading" toml:"loading"`
}

// PlaceholderConfig holds the copy shown when a load ends empty or failed.
type PlaceholderConfig struct {
	Empty ContentConfig `yaml:"empty" toml:"empty"`
	Error ContentConfig `yaml:"error" toml:"error"`
}

// ContentConfig is one placeholder's copy.
type ContentConfig struct {
	Title   string `yaml:"title,omitempty" toml:"title"`
	Message string `yaml:"message,omitempty" toml:"message"`
	Image   string `yaml:"image,omitempty" toml:"image"`
}

// MetricsConfig holds default section metrics.
type MetricsConfig struct {
	RowHeight          float64 `yaml:"row_height,omitempty" toml:"row_height"`
	EstimatedRowHeight float64 `yaml:"estimated_row_height,omitempty" toml:"estimated_row_height"`
	Columns            int     `yaml:"columns,omitempty" toml:"columns"`
	PlaceholderWidth   float64 `yaml:"placeholder_width,omitempty" toml:"placeholder_width"`
}

// LoadingConfig holds load scheduling settings.
type LoadingConfig struct {
	// Debounce is a Go duration string such as "250ms".
	Debounce             string `yaml:"debounce,omitempty" toml:"debounce"`
	MaxConcurrentFetches int64  `yaml:"max_concurrent_fetches,omitempty" toml:"max_concurrent_fetches"`
}

// Resolved contains validated configuration values.
type Resolved struct {
	// Path is the file the values came from, empty when none was found.
	Path string
	// Root is the directory of the enclosing Go module, if any.
	Root string
	// ModulePath is the module declared by Root's go.mod.
	ModulePath string

	Title                string
	EmptyContent         datasource.PlaceholderContent
	ErrorContent         datasource.PlaceholderContent
	Metrics              datasource.SectionMetrics
	Debounce             time.Duration
	MaxConcurrentFetches int64
}

// Load reads the file at path, choosing the format by extension.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}

	var cfg Config
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q", ext)
	}
	return &cfg, nil
}

// LoadOptional reads the first of FileNames present in dir. It returns an
// empty config and an empty path when there is none.
func LoadOptional(dir string) (*Config, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, "", fmt.Errorf("failed to stat %s: %w", name, err)
		}
		cfg, err := Load(path)
		if err != nil {
			return nil, "", err
		}
		return cfg, path, nil
	}
	return &Config{}, "", nil
}

// Resolve loads the config from dir, falling back to the root of the
// enclosing Go module, and validates it. Errors are *dserrors.Error values of
// kind KindConfig whose Source names the offending file.
func Resolve(dir string) (*Resolved, error) {
	resolved, path, err := resolveDir(dir)
	if err != nil {
		e := &dserrors.Error{Op: "config.Resolve", Kind: dserrors.KindConfig, Err: err}
		if path != "" {
			e.Source = filepath.Base(path)
		}
		return nil, e
	}
	return resolved, nil
}

func resolveDir(dir string) (*Resolved, string, error) {
	cfg, path, err := LoadOptional(dir)
	if err != nil {
		return nil, "", err
	}

	root, modulePath, rootErr := FindProjectRoot(dir)
	if abs, _ := filepath.Abs(dir); path == "" && rootErr == nil && root != abs {
		if cfg, path, err = LoadOptional(root); err != nil {
			return nil, "", err
		}
	}

	resolved, err := cfg.resolve()
	if err != nil {
		return nil, path, err
	}
	resolved.Path = path
	if rootErr == nil {
		resolved.Root = root
		resolved.ModulePath = modulePath
	}
	return resolved, path, nil
}

func (c *Config) resolve() (*Resolved, error) {
	r := &Resolved{
		Title:        strings.TrimSpace(c.Title),
		EmptyContent: c.Placeholder.Empty.content(),
		ErrorContent: c.Placeholder.Error.content(),
		Metrics: datasource.SectionMetrics{
			RowHeight:          c.Metrics.RowHeight,
			EstimatedRowHeight: c.Metrics.EstimatedRowHeight,
			NumberOfColumns:    c.Metrics.Columns,
			PlaceholderWidth:   c.Metrics.PlaceholderWidth,
		},
		MaxConcurrentFetches: c.Loading.MaxConcurrentFetches,
	}

	if r.Metrics.RowHeight < 0 {
		return nil, fmt.Errorf("metrics.row_height must not be negative (got %v)", r.Metrics.RowHeight)
	}
	if r.Metrics.EstimatedRowHeight < 0 {
		return nil, fmt.Errorf("metrics.estimated_row_height must not be negative (got %v)", r.Metrics.EstimatedRowHeight)
	}
	if r.Metrics.NumberOfColumns < 0 {
		return nil, fmt.Errorf("metrics.columns must not be negative (got %d)", r.Metrics.NumberOfColumns)
	}
	if r.Metrics.PlaceholderWidth < 0 {
		return nil, fmt.Errorf("metrics.placeholder_width must not be negative (got %v)", r.Metrics.PlaceholderWidth)
	}
	if r.MaxConcurrentFetches < 0 {
		return nil, fmt.Errorf("loading.max_concurrent_fetches must not be negative (got %d)", r.MaxConcurrentFetches)
	}

	if s := strings.TrimSpace(c.Loading.Debounce); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("loading.debounce: %w", err)
		}
		if d < 0 {
			return nil, fmt.Errorf("loading.debounce must not be negative (got %s)", s)
		}
		r.Debounce = d
	}
	return r, nil
}

func (c ContentConfig) content() datasource.PlaceholderContent {
	return datasource.PlaceholderContent{
		Title:   strings.TrimSpace(c.Title),
		Message: strings.TrimSpace(c.Message),
		Image:   strings.TrimSpace(c.Image),
	}
}

// Options builds data source options from the resolved values. A nil loop
// means mainloop.Main(). Each call creates a new fetch limiter; share one
// Options value between data sources that should share the limit.
func (r *Resolved) Options(loop *mainloop.Loop) datasource.Options {
	return datasource.Options{
		Loop:           loop,
		Limiter:        mainloop.NewLimiter(r.MaxConcurrentFetches),
		LoadDebounce:   r.Debounce,
		Title:          r.Title,
		EmptyContent:   r.EmptyContent,
		ErrorContent:   r.ErrorContent,
		DefaultMetrics: r.Metrics,
	}
}

// FindProjectRoot walks up from dir to the nearest directory whose go.mod
// declares a module, and returns it with the module path.
func FindProjectRoot(dir string) (string, string, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", "", err
	}

	for {
		data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
		if err == nil {
			if path := modfile.ModulePath(data); path != "" {
				return dir, path, nil
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", "", fmt.Errorf("failed to read go.mod: %w", err)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", "", fmt.Errorf("not in a Go module (no go.mod found)")
		}
		dir = parent
	}
}
