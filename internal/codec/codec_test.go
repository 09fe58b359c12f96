package codec

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hostlookup/internal/domain"
)

func sampleHosts() domain.HostLookup {
	hosts := domain.NewHostLookup()
	hosts.Add(domain.HostRecord{HostName: "web01.example.com", Address: "10.0.0.10", ActionURL: "https://10.1.0.10"})
	hosts.Add(domain.HostRecord{HostName: "db01.example.com", Address: "10.0.0.20"})
	return hosts
}

func TestJSONExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(sampleHosts(), &buf))

	want := `{
  "db01.example.com": {
    "host_name": "db01.example.com",
    "address": "10.0.0.20"
  },
  "web01.example.com": {
    "host_name": "web01.example.com",
    "address": "10.0.0.10",
    "action_url": "https://10.1.0.10"
  }
}
`
	assert.Equal(t, want, buf.String())
}

func TestJSONExportNil(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewJSONCodec().Export(nil, &buf))
	assert.Equal(t, "{}\n", buf.String())
}

func TestYAMLExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewYAMLCodec().Export(sampleHosts(), &buf))

	want := `db01.example.com:
  host_name: db01.example.com
  address: 10.0.0.20
web01.example.com:
  host_name: web01.example.com
  address: 10.0.0.10
  action_url: https://10.1.0.10
`
	assert.Equal(t, want, buf.String())
}

func TestAnsibleExport(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewAnsibleCodec().Export(sampleHosts(), &buf))

	want := `all:
  hosts:
    db01.example.com:
      ansible_host: 10.0.0.20
    web01.example.com:
      ansible_host: 10.0.0.10
      action_url: https://10.1.0.10
`
	assert.Equal(t, want, buf.String())
}

func TestYAMLParse(t *testing.T) {
	input := `groups:
  web:
    description: Web tier
    hosts:
      web01.example.com:
        address: 10.0.0.10
        action_url: https://10.1.0.10
      web02.example.com:
        address: ""
  db:
    hosts:
      db01.example.com:
        address: 10.0.0.20
`
	inv, err := NewYAMLCodec().Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"db", "web"}, inv.GroupNames())
	assert.Equal(t, "Web tier", inv.Groups["web"].Description)

	want := domain.HostLookup{
		"web01.example.com": {HostName: "web01.example.com", Address: "10.0.0.10", ActionURL: "https://10.1.0.10"},
	}
	if diff := cmp.Diff(want, inv.Groups["web"].Lookup()); diff != "" {
		t.Errorf("web lookup mismatch (-want +got):\n%s", diff)
	}
}

func TestYAMLParseEmpty(t *testing.T) {
	inv, err := NewYAMLCodec().Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, inv.Groups)
}

func TestYAMLParseInvalid(t *testing.T) {
	_, err := NewYAMLCodec().Parse(strings.NewReader("groups: [unterminated"))
	assert.Error(t, err)
}

func TestAnsibleParse(t *testing.T) {
	input := `all:
  hosts:
    bastion:
      ansible_host: 10.0.0.1
  children:
    web:
      vars:
        description: Web tier
      hosts:
        web01:
          ansible_host: 10.0.0.10
          action_url: https://10.1.0.10
        web02: {}
`
	inv, err := NewAnsibleCodec().Parse(strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, []string{"all", "web"}, inv.GroupNames())
	assert.Equal(t, "Web tier", inv.Groups["web"].Description)

	want := map[string]Host{
		"web01": {Address: "10.0.0.10", ActionURL: "https://10.1.0.10"},
		"web02": {Address: "web02"},
	}
	if diff := cmp.Diff(want, inv.Groups["web"].Hosts); diff != "" {
		t.Errorf("web hosts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, "10.0.0.1", inv.Groups["all"].Hosts["bastion"].Address)
}

func TestExporterFor(t *testing.T) {
	for _, format := range ExportFormats() {
		e, err := ExporterFor(format)
		require.NoError(t, err)
		assert.Equal(t, format, e.Format())
	}

	e, err := ExporterFor("")
	require.NoError(t, err)
	assert.Equal(t, "json", e.Format())

	_, err = ExporterFor("toml")
	assert.Equal(t, ErrUnknownFormat, errors.Cause(err))
}

func TestImporterFor(t *testing.T) {
	i, err := ImporterFor("")
	require.NoError(t, err)
	assert.Equal(t, "yaml", i.Format())

	i, err = ImporterFor("ansible-inventory")
	require.NoError(t, err)
	assert.Equal(t, "ansible-inventory", i.Format())

	_, err = ImporterFor("json")
	assert.Equal(t, ErrUnknownFormat, errors.Cause(err))
}
