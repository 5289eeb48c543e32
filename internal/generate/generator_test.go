package generate_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/docindex/docindex-mcp/internal/generate"
	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSources() fstest.MapFS {
	return fstest.MapFS{
		"introduction.md": {Data: []byte(introMarkdown)},
		"api.md":          {Data: []byte("# API\n\n## lrvar\n\nEstimates the long run variance.\n")},
		"notes.txt":       {Data: []byte("not a page")},
	}
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("follows configured page order", func(t *testing.T) {
		t.Parallel()

		g := &generate.Generator{
			Config: &generate.Config{
				Pages: []generate.PageConfig{
					{File: "introduction.md"},
					{File: "api.md", Title: "Reference"},
				},
			},
			Sources: testSources(),
		}

		c, err := g.Generate(context.Background())
		require.NoError(t, err)

		assert.Equal(t, searchindex.DefaultKey, c.Name)
		assert.Equal(t, searchindex.DefaultVariable, c.Variable)
		require.Equal(t, 11, c.Len())
		assert.Equal(t, "Introduction", c.Records[0].Page)
		assert.Equal(t, "Reference", c.Records[8].Page)
		assert.Equal(t, "api.html#API-1", c.Records[8].Location)
		assert.NoError(t, searchindex.Validate(c))
	})

	t.Run("discovers pages when none are listed", func(t *testing.T) {
		t.Parallel()

		g := &generate.Generator{Config: &generate.Config{}, Sources: testSources()}

		c, err := g.Generate(context.Background())
		require.NoError(t, err)

		pages := searchindex.Pages(c)
		require.Len(t, pages, 2)
		assert.Equal(t, "API", pages[0].Name)
		assert.Equal(t, "Introduction", pages[1].Name)
	})

	t.Run("output does not depend on worker count", func(t *testing.T) {
		t.Parallel()

		var outputs [][]byte
		for _, workers := range []int{1, 8} {
			g := &generate.Generator{Config: &generate.Config{Workers: workers}, Sources: testSources()}
			c, err := g.Generate(context.Background())
			require.NoError(t, err)

			data, err := searchindex.EncodeBytes(c, searchindex.EncodeOptions{})
			require.NoError(t, err)
			outputs = append(outputs, data)
		}
		assert.True(t, bytes.Equal(outputs[0], outputs[1]), "regenerated artifact differs")
	})

	t.Run("missing page fails", func(t *testing.T) {
		t.Parallel()

		g := &generate.Generator{
			Config:  &generate.Config{Pages: []generate.PageConfig{{File: "missing.md"}}},
			Sources: testSources(),
		}
		_, err := g.Generate(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "missing.md")
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		g := &generate.Generator{Config: &generate.Config{}, Sources: testSources()}
		_, err := g.Generate(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "docindex.toml")
	content := `
sitename = "CovarianceMatrices.jl"
source = "docs/src"
workers = 2

[[pages]]
title = "Introduction"
file = "introduction.md"

[[pages]]
file = "api.md"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := generate.LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "CovarianceMatrices.jl", cfg.SiteName)
	assert.Equal(t, filepath.Join(dir, "docs/src"), cfg.Source)
	assert.Equal(t, filepath.Join(dir, "build", "search_index.js"), cfg.Output)
	assert.Equal(t, generate.FormatMarkdown, cfg.Format)
	assert.Equal(t, searchindex.DefaultKey, cfg.Key)
	assert.Equal(t, 2, cfg.Workers)
	require.Len(t, cfg.Pages, 2)
	assert.Equal(t, "Introduction", cfg.Pages[0].Title)
}

func TestLoadConfig_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
	}{
		{name: "bad toml", content: "sitename = "},
		{name: "unknown format", content: `format = "rst"`},
		{name: "duplicate page", content: "[[pages]]\nfile = \"a.md\"\n[[pages]]\nfile = \"a.md\"\n"},
		{name: "page without file", content: "[[pages]]\ntitle = \"A\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "docindex.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))

			_, err := generate.LoadConfig(path)
			assert.Error(t, err)
		})
	}
}
