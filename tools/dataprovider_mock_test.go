package tools

import (
	"io/fs"
	"testing"
	"testing/fstest"
)

// MockDataProvider implements DataProvider over an in-memory filesystem
type MockDataProvider struct {
	files fstest.MapFS
}

// NewMockDataProvider creates an empty mock data provider
func NewMockDataProvider() *MockDataProvider {
	return &MockDataProvider{files: fstest.MapFS{}}
}

// AddFile adds a file to the mock provider
func (m *MockDataProvider) AddFile(name string, content []byte) {
	m.files[name] = &fstest.MapFile{Data: content, Mode: 0644}
}

func (m *MockDataProvider) ReadFile(name string) ([]byte, error) {
	return fs.ReadFile(m.files, name)
}

func (m *MockDataProvider) ReadDir(name string) ([]fs.DirEntry, error) {
	return fs.ReadDir(m.files, name)
}

// useDataProvider swaps the package data provider for the duration of a test
func useDataProvider(t *testing.T, provider DataProvider) {
	t.Helper()
	original := defaultDataProvider
	defaultDataProvider = provider
	t.Cleanup(func() { defaultDataProvider = original })
}
