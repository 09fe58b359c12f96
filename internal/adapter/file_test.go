package adapter

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hostlookup/internal/codec"
	"hostlookup/internal/domain"
)

const inventoryYAML = `groups:
  web:
    description: Web tier
    hosts:
      web01.example.com:
        address: 10.0.0.10
        action_url: https://10.1.0.10
      web02.example.com:
        address: 10.0.0.11
      broken.example.com: {}
  db:
    description: Databases
    hosts:
      db01.example.com:
        address: 10.0.0.20
  misc:
    hosts: {}
`

func newTestFileSource(t *testing.T, content string, opts ...FileOption) *FileSource {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/hostlookup/inventory.yaml", []byte(content), 0o644))
	opts = append([]FileOption{WithFs(fs), WithFileLogger(zaptest.NewLogger(t))}, opts...)
	return NewFileSource("/etc/hostlookup/inventory.yaml", opts...)
}

func TestFileSourceGetList(t *testing.T) {
	src := newTestFileSource(t, inventoryYAML)

	list, err := src.GetList(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []domain.ListEntry{
		{Key: "db", Value: "Databases"},
		{Key: "web", Value: "Web tier"},
		{Key: "misc", Value: "misc"},
	}, list.Entries())
}

func TestFileSourceSearch(t *testing.T) {
	src := newTestFileSource(t, inventoryYAML)

	hosts, err := src.GetSearchResults(context.Background(), domain.SearchInput{SrchParam: "web"})
	require.NoError(t, err)

	assert.Equal(t, domain.HostLookup{
		"web01.example.com": {HostName: "web01.example.com", Address: "10.0.0.10", ActionURL: "https://10.1.0.10"},
		"web02.example.com": {HostName: "web02.example.com", Address: "10.0.0.11"},
	}, hosts)
}

func TestFileSourceUnknownGroup(t *testing.T) {
	src := newTestFileSource(t, inventoryYAML)

	hosts, err := src.GetSearchResults(context.Background(), domain.SearchInput{SrchParam: "nope"})
	require.NoError(t, err)
	assert.Empty(t, hosts)
}

func TestFileSourceEmptyParam(t *testing.T) {
	src := newTestFileSource(t, inventoryYAML)

	_, err := src.GetSearchResults(context.Background(), domain.SearchInput{SrchParam: " "})
	assert.Equal(t, domain.ErrInvalidInput, errors.Cause(err))
}

func TestFileSourceMissingFile(t *testing.T) {
	src := NewFileSource("/missing.yaml", WithFs(afero.NewMemMapFs()))

	_, err := src.GetList(context.Background())
	assert.Error(t, err)

	_, err = src.GetSearchResults(context.Background(), domain.SearchInput{SrchParam: "web"})
	assert.Error(t, err)
}

func TestFileSourceRereadsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	path := "/inv.yaml"
	require.NoError(t, afero.WriteFile(fs, path, []byte("groups:\n  a:\n    hosts: {}\n"), 0o644))
	src := NewFileSource(path, WithFs(fs))

	list, err := src.GetList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, list.Len())

	require.NoError(t, afero.WriteFile(fs, path, []byte(inventoryYAML), 0o644))
	list, err = src.GetList(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, list.Len())
}

func TestFileSourceAnsibleInventory(t *testing.T) {
	content := `all:
  children:
    web:
      hosts:
        web01:
          ansible_host: 10.0.0.10
`
	src := newTestFileSource(t, content, WithImporter(codec.NewAnsibleCodec()), WithFileName("ansible"))
	assert.Equal(t, "ansible", src.Name())
	assert.Equal(t, SourceKindFile, src.Kind())
	assert.Nil(t, src.GetInput())

	hosts, err := src.GetSearchResults(context.Background(), domain.SearchInput{SrchParam: "web"})
	require.NoError(t, err)
	assert.Equal(t, domain.HostRecord{HostName: "web01", Address: "10.0.0.10"}, hosts["web01"])
}
