package codec

import (
	"io"
	"sort"

	"github.com/pkg/errors"

	"hostlookup/internal/domain"
)

// Importer parses an inventory file into groups of hosts
type Importer interface {
	Parse(r io.Reader) (*Inventory, error)
	Format() string
}

// Exporter renders a host lookup in a given format
type Exporter interface {
	Export(hosts domain.HostLookup, w io.Writer) error
	Format() string
}

// ErrUnknownFormat is returned for formats no codec handles
var ErrUnknownFormat = errors.New("unknown format")

// Inventory is a set of named host groups
type Inventory struct {
	Groups map[string]Group `yaml:"groups"`
}

// Group is one named set of hosts
type Group struct {
	Description string          `yaml:"description,omitempty"`
	Hosts       map[string]Host `yaml:"hosts"`
}

// Host is one inventory entry. The map key is the host name.
type Host struct {
	Address   string `yaml:"address"`
	ActionURL string `yaml:"action_url,omitempty"`
}

// Lookup returns the host records of a group. Entries without an address
// are dropped.
func (g Group) Lookup() domain.HostLookup {
	hosts := domain.NewHostLookup()
	for name, h := range g.Hosts {
		hosts.Add(domain.HostRecord{HostName: name, Address: h.Address, ActionURL: h.ActionURL})
	}
	return hosts
}

// GroupNames returns the group names in ascending order
func (inv *Inventory) GroupNames() []string {
	names := make([]string, 0, len(inv.Groups))
	for name := range inv.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var exporters = map[string]Exporter{
	"json":              NewJSONCodec(),
	"yaml":              NewYAMLCodec(),
	"ansible-inventory": NewAnsibleCodec(),
}

var importers = map[string]Importer{
	"yaml":              NewYAMLCodec(),
	"ansible-inventory": NewAnsibleCodec(),
}

// ExporterFor returns the exporter for format. An empty format means json.
func ExporterFor(format string) (Exporter, error) {
	if format == "" {
		format = "json"
	}
	e, ok := exporters[format]
	if !ok {
		return nil, errors.Wrap(ErrUnknownFormat, format)
	}
	return e, nil
}

// ImporterFor returns the importer for format. An empty format means yaml.
func ImporterFor(format string) (Importer, error) {
	if format == "" {
		format = "yaml"
	}
	i, ok := importers[format]
	if !ok {
		return nil, errors.Wrap(ErrUnknownFormat, format)
	}
	return i, nil
}

// ExportFormats lists the export formats
func ExportFormats() []string {
	formats := make([]string, 0, len(exporters))
	for f := range exporters {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}
