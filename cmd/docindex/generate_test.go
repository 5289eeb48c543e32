package main_test

import (
	"os"
	"path/filepath"
	"testing"

	main "github.com/docindex/docindex-mcp/cmd/docindex"
	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const siteConfig = `sitename = "CovarianceMatrices.jl"
source = "src"
output = "build/search_index.js"

[[pages]]
file = "api.md"
title = "Reference"
`

const apiPage = "# API\n\n## lrvar\n\nEstimates the long run variance.\n"

func setupSite(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "src/api.md", apiPage)
	return writeFile(t, dir, "docindex.toml", siteConfig)
}

func TestGenerateCmd_Run(t *testing.T) {
	t.Parallel()

	t.Run("writes artifact", func(t *testing.T) {
		t.Parallel()

		config := setupSite(t)
		deps, stdout, _ := newDeps()

		err := (&main.GenerateCmd{Config: config}).Run(deps)
		require.NoError(t, err)

		output := filepath.Join(filepath.Dir(config), "build", "search_index.js")
		assert.Contains(t, stdout.String(), "Wrote 3 records")

		c, err := searchindex.DecodeFile(output)
		require.NoError(t, err)
		assert.Equal(t, searchindex.DefaultVariable, c.Variable)
		require.Equal(t, 3, c.Len())
		assert.Equal(t, "Reference", c.Records[0].Page)
		assert.Equal(t, "api.html#lrvar-1", c.Records[1].Location)
	})

	t.Run("regeneration is byte identical", func(t *testing.T) {
		t.Parallel()

		config := setupSite(t)
		output := filepath.Join(filepath.Dir(config), "build", "search_index.js")

		deps, _, _ := newDeps()
		require.NoError(t, (&main.GenerateCmd{Config: config}).Run(deps))
		first, err := os.ReadFile(output)
		require.NoError(t, err)

		require.NoError(t, (&main.GenerateCmd{Config: config}).Run(deps))
		second, err := os.ReadFile(output)
		require.NoError(t, err)

		assert.Equal(t, first, second)
	})

	t.Run("check detects stale artifact", func(t *testing.T) {
		t.Parallel()

		config := setupSite(t)
		deps, stdout, stderr := newDeps()
		require.NoError(t, (&main.GenerateCmd{Config: config}).Run(deps))

		require.NoError(t, (&main.GenerateCmd{Config: config, Check: true}).Run(deps))
		assert.Contains(t, stdout.String(), "is up to date")

		writeFile(t, filepath.Dir(config), "src/api.md", apiPage+"\nMore prose.\n")

		err := (&main.GenerateCmd{Config: config, Check: true}).Run(deps)
		require.ErrorIs(t, err, main.ErrStale)
		assert.Contains(t, stderr.String(), "differs from a fresh generation")
	})

	t.Run("output override and bare JSON", func(t *testing.T) {
		t.Parallel()

		config := setupSite(t)
		output := filepath.Join(t.TempDir(), "index.json")
		deps, _, _ := newDeps()

		require.NoError(t, (&main.GenerateCmd{Config: config, Output: output, Bare: true}).Run(deps))

		data, err := os.ReadFile(output)
		require.NoError(t, err)
		assert.Equal(t, byte('{'), data[0])
	})

	t.Run("invalid config", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		config := writeFile(t, dir, "docindex.toml", "format = \"rst\"\n")
		deps, _, _ := newDeps()

		err := (&main.GenerateCmd{Config: config}).Run(deps)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown format")
	})
}
