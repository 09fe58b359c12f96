package app

import (
	"context"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hostlookup/internal/adapter"
	"hostlookup/internal/config"
	"hostlookup/internal/domain"
)

func TestBuildSources(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/inv/hosts.yaml", []byte(`all:
  children:
    web:
      hosts:
        web01:
          ansible_host: 10.0.0.10
`), 0o644))

	cfg, err := config.Parse([]byte(`
cmdb:
  enabled: true
  url: https://cmdb.example.com/api
nmap:
  enabled: true
  name: lab
  targets:
    - target: 192.168.1.0/24
files:
  - name: ansible
    path: /inv/hosts.yaml
    format: ansible-inventory
    watch: true
  - name: static
    path: /inv/static.yaml
`))
	require.NoError(t, err)

	sources, err := BuildSources(cfg, fs, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"ansible", "cmdb", "lab", "static"}, sources.Registry.Names())
	assert.Len(t, sources.Files, 2)
	assert.Equal(t, map[string]string{"/inv/hosts.yaml": "ansible"}, sources.WatchPaths())

	infos := sources.Registry.List()
	assert.Equal(t, adapter.SourceKindFile, infos[0].Kind)
	assert.Equal(t, "Inventory /inv/hosts.yaml", infos[0].Description)
	assert.Equal(t, adapter.SourceKindCMDB, infos[1].Kind)
	assert.Equal(t, adapter.SourceKindNmap, infos[2].Kind)

	src, err := sources.Registry.Get("ansible")
	require.NoError(t, err)
	hosts, err := src.GetSearchResults(context.Background(), domain.SearchInput{SrchParam: "web"})
	require.NoError(t, err)
	assert.Equal(t, "10.0.0.10", hosts["web01"].Address)
}

func TestBuildSourcesDuplicateName(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Files = []config.FileConfig{
		{Name: "inv", Path: "/a.yaml", Format: "yaml"},
		{Name: "inv", Path: "/b.yaml", Format: "yaml"},
	}

	_, err := BuildSources(cfg, afero.NewMemMapFs(), nil)
	assert.Error(t, err)
}

func TestBuildSourcesUnknownFormat(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Files = []config.FileConfig{{Name: "inv", Path: "/a.yaml", Format: "csv"}}

	_, err := BuildSources(cfg, afero.NewMemMapFs(), nil)
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(config.LogConfig{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.NotNil(t, log)

	_, err = NewLogger(config.LogConfig{Level: "loud"})
	assert.Error(t, err)
}
