package adapter

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hostlookup/internal/cmdb"
	"hostlookup/internal/domain"
)

// CMDB operation selectors and targets
const (
	ExecDeploymentList   = "CMDBDeploymentListReturn"
	TargetDeploymentList = "cmdbdeploymentlist"
	ExecDataReturner     = "datareturner"
)

// CMDBDeployments searches CMDB deployments for their hosts
type CMDBDeployments struct {
	name     string
	exec     cmdb.Executor
	creds    cmdb.Credentials
	cloudURL func(selfLink string) string
	log      *zap.Logger
}

// CMDBOption configures a CMDBDeployments source
type CMDBOption func(*CMDBDeployments)

// WithCMDBName overrides the registered source name
func WithCMDBName(name string) CMDBOption {
	return func(s *CMDBDeployments) {
		if name != "" {
			s.name = name
		}
	}
}

// WithCredentials sets the credentials attached to every request
func WithCredentials(creds cmdb.Credentials) CMDBOption {
	return func(s *CMDBDeployments) {
		s.creds = creds
	}
}

// WithCloudConsole sets the console base used to turn cloud self links
// into action URLs
func WithCloudConsole(base string) CMDBOption {
	return func(s *CMDBDeployments) {
		s.cloudURL = func(link string) string {
			return cmdb.BuildCloudHostURL(base, link)
		}
	}
}

// WithCloudURLBuilder replaces the cloud self link transform
func WithCloudURLBuilder(fn func(selfLink string) string) CMDBOption {
	return func(s *CMDBDeployments) {
		if fn != nil {
			s.cloudURL = fn
		}
	}
}

// WithCMDBLogger sets the source logger
func WithCMDBLogger(log *zap.Logger) CMDBOption {
	return func(s *CMDBDeployments) {
		if log != nil {
			s.log = log
		}
	}
}

// NewCMDBDeployments creates a CMDB-backed host source
func NewCMDBDeployments(exec cmdb.Executor, opts ...CMDBOption) *CMDBDeployments {
	s := &CMDBDeployments{
		name: "cmdb",
		exec: exec,
		log:  zap.NewNop(),
	}
	WithCloudConsole("")(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the source identifier
func (s *CMDBDeployments) Name() string {
	return s.name
}

// Kind returns SourceKindCMDB
func (s *CMDBDeployments) Kind() SourceKind {
	return SourceKindCMDB
}

// GetList returns all deployments sorted by name. Executor failures are
// returned unchanged.
func (s *CMDBDeployments) GetList(ctx context.Context) (*domain.HostList, error) {
	req := cmdb.NewRequest(cmdb.Args{cmdb.ArgExec: ExecDeploymentList}, s.creds).
		WithTarget(TargetDeploymentList)

	body, err := s.exec.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	list, err := cmdb.DecodeList(body)
	if err != nil {
		return nil, err
	}
	list.SortByValue()
	return list, nil
}

// GetInput returns nil: a search takes only the deployment name
func (s *CMDBDeployments) GetInput() *domain.InputDescriptor {
	return nil
}

// GetSearchResults returns the hosts of the deployment named by srchparam.
// Executor failures are returned unchanged.
func (s *CMDBDeployments) GetSearchResults(ctx context.Context, input domain.SearchInput) (domain.HostLookup, error) {
	param := input.Param()
	if param == "" {
		return nil, errors.Wrap(domain.ErrInvalidInput, "srchparam is required")
	}

	req := cmdb.NewRequest(cmdb.Args{
		cmdb.ArgExec:         ExecDataReturner,
		cmdb.ArgDeployment:   param,
		cmdb.ArgReturnFields: cmdb.HostReturnFields,
	}, s.creds)

	body, err := s.exec.Execute(ctx, req)
	if err != nil {
		return nil, err
	}

	records, err := cmdb.DecodeRecords(body)
	if err != nil {
		return nil, err
	}
	return s.normalize(records), nil
}

// normalize maps raw records to host records keyed by fqdn. Records without
// fields, fqdn or address are skipped; duplicate fqdns keep the last record.
func (s *CMDBDeployments) normalize(records []cmdb.RawRecord) domain.HostLookup {
	results := domain.NewHostLookup()
	for i, raw := range records {
		fields, ok := raw.Decode()
		if !ok {
			s.log.Debug("skipping record without fields", zap.Int("index", i))
			continue
		}

		rec, ok := s.hostRecord(fields)
		if !ok {
			s.log.Debug("skipping record without identity",
				zap.Int("index", i),
				zap.String("fqdn", cmdb.Value(fields.FQDN)),
			)
			continue
		}
		results.Add(rec)
	}
	return results
}

func (s *CMDBDeployments) hostRecord(f cmdb.HostFields) (domain.HostRecord, bool) {
	fqdn := strings.TrimSpace(cmdb.Value(f.FQDN))
	addr := strings.TrimSpace(cmdb.Value(f.IPAddress))
	if fqdn == "" || addr == "" {
		return domain.HostRecord{}, false
	}

	rec := domain.HostRecord{HostName: fqdn, Address: addr}
	if ilo := strings.TrimSpace(cmdb.Value(f.ILOAddress)); ilo != "" {
		rec.ActionURL = "https://" + ilo
	} else if link := strings.TrimSpace(cmdb.Value(f.CloudSelfLink)); link != "" {
		rec.ActionURL = s.cloudURL(link)
	}
	return rec, true
}
