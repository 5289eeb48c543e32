package searchindex_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/docindex/docindex-mcp/internal/searchindex"
)

const artifactPath = "../../tools/data/search_index.js"

func sampleCollection() *searchindex.Collection {
	c := searchindex.NewCollection()
	c.Append(
		searchindex.Record{
			Location: "introduction.html#Introduction-1",
			Page:     "Introduction",
			Title:    "Introduction",
			Category: searchindex.CategorySection,
		},
		searchindex.Record{
			Location: "introduction.html#",
			Page:     "Introduction",
			Title:    "Introduction",
			Text:     "HAC \nheteroskedasticity <b>&</b> \"quoted\" math sqrtnV^-12 → ∞",
			Category: searchindex.CategoryPage,
		},
	)
	return c
}

func TestDecodeArtifact(t *testing.T) {
	c, err := searchindex.DecodeFile(artifactPath)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}

	if c.Name != "docs" {
		t.Errorf("Name = %q, want %q", c.Name, "docs")
	}
	if c.Variable != searchindex.DefaultVariable {
		t.Errorf("Variable = %q, want %q", c.Variable, searchindex.DefaultVariable)
	}
	if c.Len() != 17 {
		t.Fatalf("Len() = %d, want 17", c.Len())
	}

	first := c.Records[0]
	if first.Location != "introduction.html#Introduction-1" || first.Category != searchindex.CategorySection {
		t.Errorf("first record = %+v", first)
	}

	sections := 0
	for _, rec := range c.Records {
		if rec.Category == searchindex.CategorySection {
			sections++
		}
	}
	if sections != 7 {
		t.Errorf("sections = %d, want 7", sections)
	}
}

func TestArtifactRoundTripIsByteIdentical(t *testing.T) {
	original, err := os.ReadFile(artifactPath)
	if err != nil {
		t.Fatalf("failed to read artifact: %v", err)
	}

	c, err := searchindex.DecodeBytes(original)
	if err != nil {
		t.Fatalf("DecodeBytes() error = %v", err)
	}

	encoded, err := searchindex.EncodeBytes(c, searchindex.EncodeOptions{})
	if err != nil {
		t.Fatalf("EncodeBytes() error = %v", err)
	}

	if !bytes.Equal(original, encoded) {
		t.Errorf("re-encoded artifact differs from original (%d vs %d bytes)", len(encoded), len(original))
	}
}

func TestRoundTripPreservesSpecialCharacters(t *testing.T) {
	for _, bare := range []bool{false, true} {
		c := sampleCollection()

		var buf bytes.Buffer
		if err := searchindex.Encode(&buf, c, searchindex.EncodeOptions{Bare: bare}); err != nil {
			t.Fatalf("Encode(bare=%v) error = %v", bare, err)
		}
		for _, escaped := range []string{`\u003c`, `\u003e`, `\u0026`} {
			if strings.Contains(buf.String(), escaped) {
				t.Errorf("Encode(bare=%v) escaped HTML characters as %s", bare, escaped)
			}
		}
		if !strings.Contains(buf.String(), `<`) || !strings.Contains(buf.String(), `&`) {
			t.Errorf("Encode(bare=%v) lost the literal HTML characters", bare)
		}
		if bare == strings.HasPrefix(buf.String(), "var ") {
			t.Errorf("Encode(bare=%v) wrapper mismatch: %q", bare, buf.String()[:10])
		}

		decoded, err := searchindex.Decode(&buf)
		if err != nil {
			t.Fatalf("Decode(bare=%v) error = %v", bare, err)
		}
		if !searchindex.Equal(c, decoded) {
			t.Errorf("round trip (bare=%v) changed records: %v", bare, searchindex.Diff(c, decoded))
		}
	}
}

func TestDecodeMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "not json", input: "hello"},
		{name: "top level array", input: `[{"location":"a#"}]`},
		{name: "no keys", input: `{}`},
		{name: "two keys", input: `{"docs":[],"more":[]}`},
		{name: "value not array", input: `{"docs":{"location":"a#"}}`},
		{name: "record wrong type", input: `{"docs":[{"location":42}]}`},
		{name: "trailing data", input: `{"docs":[]} {"x":1}`},
		{name: "wrapped but broken", input: `var documenterSearchIndex = {"docs":[`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := searchindex.DecodeBytes([]byte(tt.input))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, searchindex.ErrMalformed) {
				t.Errorf("error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestDecodeVariants(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantVariable string
		wantKey      string
		wantLen      int
	}{
		{
			name:    "bare json",
			input:   `{"docs":[{"location":"a.html#","page":"A","title":"A","text":"x","category":"page"}]}`,
			wantKey: "docs",
			wantLen: 1,
		},
		{
			name:         "const with semicolon",
			input:        "const searchData = {\"entries\":[]};\n",
			wantVariable: "searchData",
			wantKey:      "entries",
			wantLen:      0,
		},
		{
			name:         "unknown fields ignored",
			input:        `var idx = {"docs":[{"location":"a.html#","page":"A","title":"","text":"","category":"page","extra":1}]}`,
			wantVariable: "idx",
			wantKey:      "docs",
			wantLen:      1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := searchindex.DecodeBytes([]byte(tt.input))
			if err != nil {
				t.Fatalf("DecodeBytes() error = %v", err)
			}
			if c.Variable != tt.wantVariable {
				t.Errorf("Variable = %q, want %q", c.Variable, tt.wantVariable)
			}
			if c.Name != tt.wantKey {
				t.Errorf("Name = %q, want %q", c.Name, tt.wantKey)
			}
			if c.Len() != tt.wantLen {
				t.Errorf("Len() = %d, want %d", c.Len(), tt.wantLen)
			}
		})
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "build", "search_index.js")
	c := sampleCollection()

	if err := searchindex.WriteFile(path, c, searchindex.EncodeOptions{}); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	decoded, err := searchindex.DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile() error = %v", err)
	}
	if !searchindex.Equal(c, decoded) {
		t.Error("written file does not decode to the same collection")
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("expected only the artifact in output dir, found %d entries", len(entries))
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	a, err := searchindex.EncodeBytes(sampleCollection(), searchindex.EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := searchindex.EncodeBytes(sampleCollection(), searchindex.EncodeOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a, b) {
		t.Error("encoding the same collection twice produced different bytes")
	}

	fa, _ := searchindex.Fingerprint(sampleCollection())
	fb, _ := searchindex.Fingerprint(sampleCollection())
	if fa != fb || len(fa) != 16 {
		t.Errorf("fingerprints = %q, %q; want equal 16-char hashes", fa, fb)
	}

	changed := sampleCollection()
	changed.Records[1].Text += "!"
	fc, _ := searchindex.Fingerprint(changed)
	if fc == fa {
		t.Error("fingerprint did not change after modifying a record")
	}
}
