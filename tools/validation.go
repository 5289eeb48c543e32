package tools

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/docindex/docindex-mcp/internal/searchindex"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// ValidateSearchIndexInput defines input for validate_search_index tool
type ValidateSearchIndexInput struct {
	Artifact string `json:"artifact,omitempty" jsonschema:"Artifact as a file path or inline content (optional, defaults to the served artifact)"`
}

// ValidateSearchIndexOutput defines output for validate_search_index tool
type ValidateSearchIndexOutput struct {
	Valid       bool                          `json:"valid"`
	Source      string                        `json:"source"` // "file", "inline" or "served"
	Records     int                           `json:"records"`
	Fingerprint string                        `json:"fingerprint,omitempty"`
	Errors      []searchindex.ValidationError `json:"errors"`
	Summary     string                        `json:"summary"`
}

// isInlineArtifact reports whether s holds artifact content rather than a path
func isInlineArtifact(s string) bool {
	trimmed := strings.TrimSpace(s)
	return strings.HasPrefix(trimmed, "{") ||
		strings.HasPrefix(trimmed, "var ") ||
		strings.HasPrefix(trimmed, "let ") ||
		strings.HasPrefix(trimmed, "const ")
}

// validateArtifact runs the JSON Schema shape check and the record checks
// over raw artifact bytes and reports every violation
func validateArtifact(raw []byte) ValidateSearchIndexOutput {
	output := ValidateSearchIndexOutput{Errors: []searchindex.ValidationError{}}

	if err := searchindex.ValidateShape(raw); err != nil {
		var verrs *searchindex.ValidationErrors
		if !errors.As(err, &verrs) {
			output.Errors = append(output.Errors, searchindex.ValidationError{
				Code:    searchindex.CodeSchema,
				Index:   -1,
				Message: err.Error(),
			})
			output.Summary = "Artifact is not valid JSON"
			return output
		}
		output.Errors = append(output.Errors, verrs.Errors...)
	}

	c, err := searchindex.DecodeBytes(raw)
	if err != nil {
		output.Errors = append(output.Errors, searchindex.ValidationError{
			Code:    searchindex.CodeSchema,
			Index:   -1,
			Message: err.Error(),
		})
		output.Summary = fmt.Sprintf("Artifact could not be decoded (%d error(s))", len(output.Errors))
		return output
	}
	output.Records = c.Len()

	if err := searchindex.Validate(c); err != nil {
		var verrs *searchindex.ValidationErrors
		if errors.As(err, &verrs) {
			output.Errors = append(output.Errors, verrs.Errors...)
		}
	}

	if fp, err := searchindex.Fingerprint(c); err == nil {
		output.Fingerprint = fp
	}

	output.Valid = len(output.Errors) == 0
	if output.Valid {
		output.Summary = fmt.Sprintf("Artifact is valid (%d records)", output.Records)
	} else {
		output.Summary = fmt.Sprintf("Artifact has %d error(s) in %d records", len(output.Errors), output.Records)
	}
	return output
}

// ValidateSearchIndex checks an artifact against the record invariants
func ValidateSearchIndex(ctx context.Context, req *mcp.CallToolRequest, input ValidateSearchIndexInput) (*mcp.CallToolResult, ValidateSearchIndexOutput, error) {
	var raw []byte
	var source string

	switch {
	case input.Artifact == "":
		source = "served"
		data, err := os.ReadFile(filepath.Join(dataDir, artifactFile))
		if err != nil {
			return nil, ValidateSearchIndexOutput{}, fmt.Errorf("failed to read served artifact: %w", err)
		}
		raw = data
	case isInlineArtifact(input.Artifact):
		source = "inline"
		raw = []byte(input.Artifact)
	default:
		source = "file"
		data, err := os.ReadFile(input.Artifact)
		if err != nil {
			output := ValidateSearchIndexOutput{
				Source: source,
				Errors: []searchindex.ValidationError{{
					Code:    "FILE_READ_ERROR",
					Index:   -1,
					Message: fmt.Sprintf("Failed to read artifact '%s': %s", input.Artifact, err.Error()),
				}},
				Summary: "Artifact file could not be read",
			}
			return nil, output, nil
		}
		raw = data
	}

	output := validateArtifact(raw)
	output.Source = source
	return nil, output, nil
}

// RegisterValidationTools registers artifact validation tools
func RegisterValidationTools(server *mcp.Server) error {
	mcp.AddTool(server,
		&mcp.Tool{
			Name:        "validate_search_index",
			Description: "Validate a search_index.js artifact (file path, inline content, or the served artifact when omitted). Checks the JSON Schema shape and record invariants: non-empty locations, known categories, unique section anchors. Reports every violation with its record index.",
		},
		ValidateSearchIndex,
	)

	return nil
}
