package generate

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/pelletier/go-toml/v2"
)

// Format selects how source pages are read
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// DefaultWorkers bounds concurrent page parsing when the config leaves it unset
const DefaultWorkers = 4

// PageConfig lists one page of the site in navigation order
type PageConfig struct {
	Title string `toml:"title"` // Optional; overrides the page's first H1
	File  string `toml:"file"`  // Relative to Source
}

// Config describes a documentation site to index (docindex.toml)
type Config struct {
	SiteName string       `toml:"sitename"`
	Source   string       `toml:"source"`
	Format   Format       `toml:"format"`
	Output   string       `toml:"output"`
	Variable string       `toml:"variable"`
	Key      string       `toml:"key"`
	Workers  int          `toml:"workers"`
	Pages    []PageConfig `toml:"pages"`
}

// LoadConfig reads a TOML config. Relative Source and Output paths are
// resolved against the config file's directory.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()

	base := filepath.Dir(path)
	if !filepath.IsAbs(cfg.Source) {
		cfg.Source = filepath.Join(base, cfg.Source)
	}
	if !filepath.IsAbs(cfg.Output) {
		cfg.Output = filepath.Join(base, cfg.Output)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Source == "" {
		c.Source = "src"
	}
	if c.Format == "" {
		c.Format = FormatMarkdown
	}
	if c.Output == "" {
		c.Output = filepath.Join("build", "search_index.js")
	}
	if c.Variable == "" {
		c.Variable = searchindex.DefaultVariable
	}
	if c.Key == "" {
		c.Key = searchindex.DefaultKey
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
}

// Validate checks the config for unusable values
func (c *Config) Validate() error {
	switch c.Format {
	case FormatMarkdown, FormatHTML:
	default:
		return fmt.Errorf("unknown format %q (want %q or %q)", c.Format, FormatMarkdown, FormatHTML)
	}
	seen := make(map[string]bool)
	for i, p := range c.Pages {
		if strings.TrimSpace(p.File) == "" {
			return fmt.Errorf("page %d: file is required", i)
		}
		if seen[p.File] {
			return fmt.Errorf("page %d: %s listed twice", i, p.File)
		}
		seen[p.File] = true
	}
	return nil
}

// DiscoverPages lists source pages matching the config format, sorted by
// path. It is used when the config does not list pages explicitly.
func DiscoverPages(fsys fs.FS, format Format) ([]PageConfig, error) {
	ext := ".md"
	if format == FormatHTML {
		ext = ".html"
	}

	var pages []PageConfig
	err := fs.WalkDir(fsys, ".", func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(path.Ext(name), ext) {
			pages = append(pages, PageConfig{File: name})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover pages: %w", err)
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].File < pages[j].File })
	return pages, nil
}
