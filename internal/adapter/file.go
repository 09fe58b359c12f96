package adapter

import (
	"context"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"hostlookup/internal/codec"
	"hostlookup/internal/domain"
)

// FileSource serves hosts from a YAML inventory file. The file is read on
// every call so edits show up without a restart.
type FileSource struct {
	name     string
	path     string
	fs       afero.Fs
	importer codec.Importer
	log      *zap.Logger
}

// FileOption configures a FileSource
type FileOption func(*FileSource)

// WithFileName overrides the registered source name
func WithFileName(name string) FileOption {
	return func(s *FileSource) {
		if name != "" {
			s.name = name
		}
	}
}

// WithFs sets the filesystem the inventory is read from
func WithFs(fs afero.Fs) FileOption {
	return func(s *FileSource) {
		s.fs = fs
	}
}

// WithImporter sets the inventory format
func WithImporter(imp codec.Importer) FileOption {
	return func(s *FileSource) {
		s.importer = imp
	}
}

// WithFileLogger sets the source logger
func WithFileLogger(log *zap.Logger) FileOption {
	return func(s *FileSource) {
		if log != nil {
			s.log = log
		}
	}
}

// NewFileSource creates a source backed by the inventory at path
func NewFileSource(path string, opts ...FileOption) *FileSource {
	s := &FileSource{
		name:     "file",
		path:     path,
		fs:       afero.NewOsFs(),
		importer: codec.NewYAMLCodec(),
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source identifier
func (s *FileSource) Name() string {
	return s.name
}

// Kind returns SourceKindFile
func (s *FileSource) Kind() SourceKind {
	return SourceKindFile
}

// Path returns the inventory file path
func (s *FileSource) Path() string {
	return s.path
}

// GetList returns group name -> description (the name when no description
// is set), sorted by value
func (s *FileSource) GetList(_ context.Context) (*domain.HostList, error) {
	inv, err := s.load()
	if err != nil {
		return nil, err
	}

	list := domain.NewHostList()
	for _, name := range inv.GroupNames() {
		desc := inv.Groups[name].Description
		if desc == "" {
			desc = name
		}
		list.Set(name, desc)
	}
	list.SortByValue()
	return list, nil
}

// GetInput returns nil: the group name is the only parameter
func (s *FileSource) GetInput() *domain.InputDescriptor {
	return nil
}

// GetSearchResults returns the hosts of the group named by srchparam
func (s *FileSource) GetSearchResults(_ context.Context, input domain.SearchInput) (domain.HostLookup, error) {
	group := input.Param()
	if group == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "srchparam is required")
	}

	inv, err := s.load()
	if err != nil {
		return nil, err
	}

	g, ok := inv.Groups[group]
	if !ok {
		s.log.Debug("unknown group", zap.String("group", group))
		return domain.NewHostLookup(), nil
	}

	hosts := g.Lookup()
	if skipped := len(g.Hosts) - len(hosts); skipped > 0 {
		s.log.Debug("skipped hosts without address", zap.String("group", group), zap.Int("skipped", skipped))
	}
	return hosts, nil
}

func (s *FileSource) load() (*codec.Inventory, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "open inventory %s", s.path)
	}
	defer f.Close()

	inv, err := s.importer.Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "read inventory %s", s.path)
	}
	return inv, nil
}
