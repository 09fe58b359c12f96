// Package app wires configuration into loggers and host sources for the
// hostlookup binaries.
package app

import (
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"hostlookup/internal/adapter"
	"hostlookup/internal/cmdb"
	"hostlookup/internal/codec"
	"hostlookup/internal/config"
)

// NewLogger builds the process logger from the log settings
func NewLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}

	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}

// Sources is the registry built from config plus the file sources that
// may be watched for changes
type Sources struct {
	Registry *adapter.Registry
	Files    []*adapter.FileSource
	Watch    []*adapter.FileSource
}

// BuildSources creates and registers every enabled source
func BuildSources(cfg *config.Config, fs afero.Fs, log *zap.Logger) (*Sources, error) {
	if log == nil {
		log = zap.NewNop()
	}

	out := &Sources{Registry: adapter.NewRegistry(log.Named("registry"))}

	if cfg.CMDB.Enabled {
		client := cmdb.NewClient(cfg.CMDB.URL,
			cmdb.WithTimeout(cfg.CMDB.Timeout.Duration()),
			cmdb.WithRoutes(cfg.CMDB.Routes),
			cmdb.WithLogger(log.Named("cmdb")),
		)
		src := adapter.NewCMDBDeployments(client,
			adapter.WithCMDBName(cfg.CMDB.Name),
			adapter.WithCredentials(cmdb.Credentials{User: cfg.CMDB.User, Password: cfg.CMDB.Password}),
			adapter.WithCloudConsole(cfg.CMDB.ConsoleURL),
			adapter.WithCMDBLogger(log.Named(cfg.CMDB.Name)),
		)
		if err := out.Registry.Register(src, describe(cfg.CMDB.Description, "CMDB deployments")); err != nil {
			return nil, err
		}
	}

	if cfg.Nmap.Enabled {
		targets := make([]adapter.ScanTarget, 0, len(cfg.Nmap.Targets))
		for _, t := range cfg.Nmap.Targets {
			targets = append(targets, adapter.ScanTarget{Target: t.Target, Label: t.Label})
		}
		src := adapter.NewNmapSource(targets,
			adapter.WithNmapName(cfg.Nmap.Name),
			adapter.WithPortRange(cfg.Nmap.Ports),
			adapter.WithTimeout(cfg.Nmap.Timeout.Duration()),
			adapter.WithSkipHostDiscovery(cfg.Nmap.SkipHostDiscovery),
			adapter.WithAnyTarget(cfg.Nmap.AllowAnyTarget),
			adapter.WithNmapLogger(log.Named(cfg.Nmap.Name)),
		)
		if err := out.Registry.Register(src, describe(cfg.Nmap.Description, "Network scan")); err != nil {
			return nil, err
		}
	}

	for _, f := range cfg.Files {
		importer, err := codec.ImporterFor(f.Format)
		if err != nil {
			return nil, errors.Wrapf(err, "file source %s", f.Name)
		}
		src := adapter.NewFileSource(f.Path,
			adapter.WithFileName(f.Name),
			adapter.WithFs(fs),
			adapter.WithImporter(importer),
			adapter.WithFileLogger(log.Named(f.Name)),
		)
		if err := out.Registry.Register(src, describe(f.Description, "Inventory "+f.Path)); err != nil {
			return nil, err
		}
		out.Files = append(out.Files, src)
		if f.Watch {
			out.Watch = append(out.Watch, src)
		}
	}

	return out, nil
}

// WatchPaths maps each watched file path to its source name
func (s *Sources) WatchPaths() map[string]string {
	paths := make(map[string]string, len(s.Watch))
	for _, src := range s.Watch {
		paths[src.Path()] = src.Name()
	}
	return paths
}

func describe(desc, fallback string) string {
	if desc != "" {
		return desc
	}
	return fallback
}
