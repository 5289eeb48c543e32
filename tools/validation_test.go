package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

func errorCodes(errs []searchindex.ValidationError) map[string][]int {
	codes := make(map[string][]int)
	for _, e := range errs {
		codes[e.Code] = append(codes[e.Code], e.Index)
	}
	return codes
}

func TestIsInlineArtifact(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{`{"docs":[]}`, true},
		{"var documenterSearchIndex = {\"docs\":[]}", true},
		{"  \n{}", true},
		{"/tmp/search_index.js", false},
		{"build/search_index.js", false},
	}

	for _, tt := range tests {
		if got := isInlineArtifact(tt.input); got != tt.expected {
			t.Errorf("isInlineArtifact(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestValidateSearchIndex(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		artifact  string
		wantValid bool
		wantCodes []string
		records   int
	}{
		{
			name:      "valid inline",
			artifact:  `var documenterSearchIndex = {"docs":[{"location":"a.html#A-1","page":"A","title":"A","text":"","category":"section"}]}`,
			wantValid: true,
			records:   1,
		},
		{
			name:      "section with empty title",
			artifact:  `{"docs":[{"location":"a.html#-1","page":"A","title":"","text":"","category":"section"}]}`,
			wantValid: true,
			records:   1,
		},
		{
			name: "duplicate section",
			artifact: `{"docs":[
				{"location":"a.html#A-1","page":"A","title":"A","text":"","category":"section"},
				{"location":"a.html#A-1","page":"A","title":"A","text":"","category":"section"}]}`,
			wantCodes: []string{searchindex.CodeDuplicateSection},
			records:   2,
		},
		{
			name:      "unknown category",
			artifact:  `{"docs":[{"location":"a.html#","page":"A","title":"A","text":"x","category":"chapter"}]}`,
			wantCodes: []string{searchindex.CodeSchema, searchindex.CodeUnknownCategory},
			records:   1,
		},
		{
			name:      "two keys",
			artifact:  `{"docs":[],"more":[]}`,
			wantCodes: []string{searchindex.CodeSchema},
		},
		{
			name:      "not json",
			artifact:  `{"docs":[`,
			wantCodes: []string{searchindex.CodeSchema},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, output, err := ValidateSearchIndex(ctx, nil, ValidateSearchIndexInput{Artifact: tt.artifact})
			if err != nil {
				t.Fatalf("ValidateSearchIndex() error = %v", err)
			}
			if output.Source != "inline" {
				t.Errorf("Source = %q, want inline", output.Source)
			}
			if output.Valid != tt.wantValid {
				t.Errorf("Valid = %v, want %v (errors: %+v)", output.Valid, tt.wantValid, output.Errors)
			}
			if output.Records != tt.records {
				t.Errorf("Records = %d, want %d", output.Records, tt.records)
			}

			codes := errorCodes(output.Errors)
			for _, code := range tt.wantCodes {
				if _, ok := codes[code]; !ok {
					t.Errorf("Expected %s in %+v", code, output.Errors)
				}
			}
		})
	}

	t.Run("duplicate reported on second record", func(t *testing.T) {
		artifact := `{"docs":[
			{"location":"a.html#A-1","page":"A","title":"A","text":"","category":"section"},
			{"location":"a.html#","page":"A","title":"A","text":"x","category":"page"},
			{"location":"a.html#A-1","page":"A","title":"A","text":"","category":"section"}]}`
		_, output, _ := ValidateSearchIndex(ctx, nil, ValidateSearchIndexInput{Artifact: artifact})
		if got := errorCodes(output.Errors)[searchindex.CodeDuplicateSection]; len(got) != 1 || got[0] != 2 {
			t.Errorf("Expected DUPLICATE_SECTION at record 2, got %v", got)
		}
	})
}

func TestValidateSearchIndex_File(t *testing.T) {
	ctx := context.Background()

	t.Run("embedded artifact file", func(t *testing.T) {
		data, err := embeddedFS.ReadFile("data/search_index.js")
		if err != nil {
			t.Fatal(err)
		}
		path := filepath.Join(t.TempDir(), "search_index.js")
		os.WriteFile(path, data, 0644)

		_, output, err := ValidateSearchIndex(ctx, nil, ValidateSearchIndexInput{Artifact: path})
		if err != nil {
			t.Fatalf("ValidateSearchIndex() error = %v", err)
		}
		if !output.Valid || output.Source != "file" || output.Records != 17 {
			t.Errorf("Unexpected output %+v", output)
		}
		if output.Fingerprint == "" {
			t.Error("Fingerprint should be set for a decodable artifact")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, output, err := ValidateSearchIndex(ctx, nil, ValidateSearchIndexInput{Artifact: "/nonexistent/search_index.js"})
		if err != nil {
			t.Fatalf("ValidateSearchIndex() error = %v", err)
		}
		if output.Valid || len(output.Errors) != 1 || output.Errors[0].Code != "FILE_READ_ERROR" {
			t.Errorf("Expected FILE_READ_ERROR, got %+v", output)
		}
	})

	t.Run("served artifact", func(t *testing.T) {
		setupDocSearch(t)
		if err := InitializeDocSearch(); err != nil {
			t.Fatalf("InitializeDocSearch() error = %v", err)
		}

		_, output, err := ValidateSearchIndex(ctx, nil, ValidateSearchIndexInput{})
		if err != nil {
			t.Fatalf("ValidateSearchIndex() error = %v", err)
		}
		if !output.Valid || output.Source != "served" {
			t.Errorf("Unexpected output %+v", output)
		}
	})
}
