package main

import (
	"context"
	"io"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Generate    GenerateCmd    `cmd:"" help:"Generate a search index from documentation sources"`
	Validate    ValidateCmd    `cmd:"" help:"Validate a search index artifact"`
	Fingerprint FingerprintCmd `cmd:"" help:"Print the content fingerprint of artifacts"`
	Search      SearchCmd      `cmd:"" help:"Search an artifact the way the browser widget does"`
	Pages       PagesCmd       `cmd:"" help:"List the pages of an artifact"`
	Diff        DiffCmd        `cmd:"" help:"Compare two artifacts record by record"`
}

// GenerateCmd is the "generate" subcommand.
type GenerateCmd struct {
	Config string `short:"c" default:"${config}" help:"Path to docindex.toml"`
	Output string `short:"o" help:"Override the output path from the config"`
	Bare   bool   `help:"Write bare JSON without the JavaScript assignment"`
	Check  bool   `help:"Fail if the output on disk differs from a fresh generation instead of writing it"`
}

// ValidateCmd is the "validate" subcommand.
type ValidateCmd struct {
	Artifact string `arg:"" help:"Path to search_index.js" type:"existingfile"`
}

// FingerprintCmd is the "fingerprint" subcommand.
type FingerprintCmd struct {
	Artifacts []string `arg:"" help:"Paths to search_index.js files" type:"existingfile"`
}

// SearchCmd is the "search" subcommand.
type SearchCmd struct {
	Artifact string `arg:"" help:"Path to search_index.js" type:"existingfile"`
	Query    string `arg:"" help:"Search terms; every term must match"`
	Category string `help:"Only records of this category (page or section)"`
	Page     string `help:"Only records of this page"`
	Limit    int    `short:"n" default:"10" help:"Maximum number of results (0 for all)"`
}

// PagesCmd is the "pages" subcommand.
type PagesCmd struct {
	Artifact string `arg:"" help:"Path to search_index.js" type:"existingfile"`
	Sections bool   `short:"s" help:"Show section titles of each page"`
}

// DiffCmd is the "diff" subcommand.
type DiffCmd struct {
	Old string `arg:"" help:"Original search_index.js" type:"existingfile"`
	New string `arg:"" help:"Updated search_index.js" type:"existingfile"`
}
