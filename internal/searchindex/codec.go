package searchindex

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

var assignmentRegex = regexp.MustCompile(`^\s*(?:var|let|const)\s+([A-Za-z_$][A-Za-z0-9_$]*)\s*=\s*`)

// EncodeOptions controls artifact serialization
type EncodeOptions struct {
	// Bare writes plain JSON without the JavaScript assignment
	Bare bool
}

// Decode reads an artifact, either wrapped in a JavaScript assignment
// ("var documenterSearchIndex = {...}") or as bare JSON
func Decode(r io.Reader) (*Collection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read search index: %w", err)
	}
	return DecodeBytes(data)
}

// DecodeFile reads and decodes the artifact at path
func DecodeFile(path string) (*Collection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read search index: %w", err)
	}
	c, err := DecodeBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// DecodeBytes decodes an in-memory artifact
func DecodeBytes(data []byte) (*Collection, error) {
	variable, body := Unwrap(data)

	key, raw, err := singleKey(body)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: value of %q is not an array", ErrMalformed, key)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	c := &Collection{
		Name:     key,
		Variable: variable,
		Records:  make([]Record, 0, len(items)),
	}
	for i, item := range items {
		var rec Record
		if err := json.Unmarshal(item, &rec); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
		c.Records = append(c.Records, rec)
	}

	return c, nil
}

// Unwrap strips an optional JavaScript assignment around the JSON body.
// It returns the variable name (empty for bare JSON) and the JSON bytes.
func Unwrap(data []byte) (string, []byte) {
	variable := ""
	if m := assignmentRegex.FindSubmatchIndex(data); m != nil {
		variable = string(data[m[2]:m[3]])
		data = data[m[1]:]
	}
	data = bytes.TrimSpace(data)
	data = bytes.TrimSuffix(data, []byte(";"))
	return variable, bytes.TrimSpace(data)
}

// singleKey checks that body is a JSON object with exactly one key
func singleKey(body []byte) (string, json.RawMessage, error) {
	dec := json.NewDecoder(bytes.NewReader(body))

	tok, err := dec.Token()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return "", nil, fmt.Errorf("%w: top level is not a mapping", ErrMalformed)
	}

	var key string
	var value json.RawMessage
	keys := 0
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		name, _ := tok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return "", nil, fmt.Errorf("%w: value of %q: %v", ErrMalformed, name, err)
		}
		keys++
		if keys == 1 {
			key, value = name, raw
		}
	}

	// Closing brace, then nothing else
	if _, err := dec.Token(); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return "", nil, fmt.Errorf("%w: trailing data after mapping", ErrMalformed)
	}

	if keys != 1 {
		return "", nil, fmt.Errorf("%w: expected exactly one key, found %d", ErrMalformed, keys)
	}
	return key, value, nil
}

// Encode writes c in the artifact format. The output depends only on the
// collection contents, so regenerating from unchanged sources is byte-stable.
func Encode(w io.Writer, c *Collection, opts EncodeOptions) error {
	name := c.Name
	if name == "" {
		name = DefaultKey
	}
	key, err := marshalNoEscape(name)
	if err != nil {
		return fmt.Errorf("failed to encode key: %w", err)
	}

	bw := bufio.NewWriter(w)
	wrapped := !opts.Bare && c.Variable != ""
	if wrapped {
		fmt.Fprintf(bw, "var %s = ", c.Variable)
	}
	fmt.Fprintf(bw, "{%s:\n[", key)

	for i, rec := range c.Records {
		if i > 0 {
			bw.WriteByte(',')
		}
		data, err := marshalNoEscape(rec)
		if err != nil {
			return fmt.Errorf("failed to encode record %d: %w", i, err)
		}
		bw.Write(data)
	}

	bw.WriteString("]\n}")
	if !wrapped {
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write search index: %w", err)
	}
	return nil
}

// EncodeBytes returns the encoded artifact
func EncodeBytes(c *Collection, opts EncodeOptions) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, c, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes c to path, replacing any existing file atomically
func WriteFile(path string, c *Collection, opts EncodeOptions) error {
	data, err := EncodeBytes(c, opts)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// marshalNoEscape is json.Marshal without HTML escaping of <, > and &
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
