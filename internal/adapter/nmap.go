package adapter

import (
	"context"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"hostlookup/internal/domain"
)

// ScanTarget is a scan range offered by an NmapSource
type ScanTarget struct {
	Target string `yaml:"target"`
	Label  string `yaml:"label,omitempty"`
}

// scanFunc runs one nmap scan of a target
type scanFunc func(ctx context.Context, target string) (*nmap.Run, error)

// NmapSource discovers hosts by scanning a network range with nmap
type NmapSource struct {
	name              string
	targets           []ScanTarget
	timeout           time.Duration
	portRange         string
	skipHostDiscovery bool
	allowAnyTarget    bool
	scan              scanFunc
	log               *zap.Logger
}

// NewNmapSource creates a new nmap-based host source.
// targets: CIDR ranges or individual hosts offered by GetList
func NewNmapSource(targets []ScanTarget, opts ...NmapOption) *NmapSource {
	s := &NmapSource{
		name:      "nmap",
		targets:   targets,
		timeout:   10 * time.Minute,
		portRange: "22,80,443",
		log:       zap.NewNop(),
	}
	s.scan = s.runScan

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the source identifier
func (s *NmapSource) Name() string {
	return s.name
}

// Kind returns SourceKindNmap
func (s *NmapSource) Kind() SourceKind {
	return SourceKindNmap
}

// GetList returns the configured scan targets keyed by target, sorted by label
func (s *NmapSource) GetList(_ context.Context) (*domain.HostList, error) {
	list := domain.NewHostList()
	for _, t := range s.targets {
		label := t.Label
		if label == "" {
			label = t.Target
		}
		list.Set(t.Target, label)
	}
	list.SortByValue()
	return list, nil
}

// GetInput describes the single scan target parameter
func (s *NmapSource) GetInput() *domain.InputDescriptor {
	return &domain.InputDescriptor{
		Fields: []domain.InputField{{
			Name:        domain.SearchParamField,
			Label:       "Scan target",
			Description: "CIDR range or host to scan",
			Required:    true,
		}},
	}
}

// GetSearchResults scans the target named by srchparam and returns the hosts
// found up
func (s *NmapSource) GetSearchResults(ctx context.Context, input domain.SearchInput) (domain.HostLookup, error) {
	target := input.Param()
	if err := s.checkTarget(target); err != nil {
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	s.log.Info("starting scan", zap.String("target", target), zap.String("ports", s.portRange))
	result, err := s.scan(ctx, target)
	if err != nil {
		return nil, errors.Wrapf(err, "nmap scan %s", target)
	}

	hosts := s.processResults(result)
	s.log.Info("scan complete", zap.String("target", target), zap.Int("hosts", len(hosts)))
	return hosts, nil
}

// targetPattern matches host names and nmap octet ranges such as
// 10.0.1-3.* or 192.168.0.1,5,9. It cannot start with '-', so a target is
// never read as an nmap option.
var targetPattern = regexp.MustCompile(`^[A-Za-z0-9*][A-Za-z0-9.*,_-]*$`)

// validTarget reports whether target is an IP, a CIDR, a host name or an
// octet range
func validTarget(target string) bool {
	if strings.Contains(target, "/") {
		_, _, err := net.ParseCIDR(target)
		return err == nil
	}
	if net.ParseIP(target) != nil {
		return true
	}
	return len(target) <= 253 && targetPattern.MatchString(target)
}

// checkTarget validates srchparam against the configured targets
func (s *NmapSource) checkTarget(target string) error {
	if target == "" {
		return errors.Wrap(domain.ErrInvalidInput, "srchparam is required")
	}
	if !validTarget(target) {
		return errors.Wrapf(domain.ErrInvalidInput, "invalid target %q", target)
	}
	if s.allowAnyTarget {
		return nil
	}
	for _, t := range s.targets {
		if t.Target == target {
			return nil
		}
	}
	return errors.Wrapf(domain.ErrInvalidInput, "target %s is not configured", target)
}

// runScan performs the nmap scan of a single target
func (s *NmapSource) runScan(ctx context.Context, target string) (*nmap.Run, error) {
	opts := []nmap.Option{
		nmap.WithTargets(target),
		nmap.WithPorts(s.portRange),
	}

	// Skip host discovery for networks that drop ICMP
	if s.skipHostDiscovery {
		opts = append(opts, nmap.WithSkipHostDiscovery())
	}

	scanner, err := nmap.NewScanner(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "create scanner")
	}

	result, warnings, err := scanner.Run()
	if err != nil {
		return nil, errors.Wrap(err, "run scan")
	}

	if warnings != nil && len(*warnings) > 0 {
		s.log.Warn("nmap warnings", zap.String("target", target), zap.Strings("warnings", *warnings))
	}

	return result, nil
}

// processResults converts nmap scan results to host records
func (s *NmapSource) processResults(result *nmap.Run) domain.HostLookup {
	hosts := domain.NewHostLookup()
	if result == nil {
		return hosts
	}

	for _, host := range result.Hosts {
		if len(host.Addresses) == 0 || host.Status.State != "up" {
			continue
		}

		ip := primaryAddress(host.Addresses)
		if ip == "" {
			continue
		}

		rec := domain.HostRecord{HostName: ip, Address: ip}
		if len(host.Hostnames) > 0 && host.Hostnames[0].Name != "" {
			rec.HostName = host.Hostnames[0].Name
		}

		open := openPorts(host.Ports)
		switch {
		case open[443]:
			rec.ActionURL = "https://" + hostPort(ip, 443)
		case open[80]:
			rec.ActionURL = "http://" + hostPort(ip, 80)
		}

		hosts.Add(rec)
	}

	return hosts
}

// primaryAddress prefers the IPv4 address and falls back to the first
// non-MAC address
func primaryAddress(addrs []nmap.Address) string {
	for _, addr := range addrs {
		if addr.AddrType == "ipv4" {
			return addr.Addr
		}
	}
	for _, addr := range addrs {
		if addr.AddrType != "mac" {
			return addr.Addr
		}
	}
	return ""
}

func openPorts(ports []nmap.Port) map[uint16]bool {
	open := make(map[uint16]bool)
	for _, p := range ports {
		if p.State.State == "open" {
			open[p.ID] = true
		}
	}
	return open
}

// hostPort omits the port when it is the scheme default
func hostPort(ip string, port int) string {
	host := ip
	if strings.Contains(ip, ":") {
		host = "[" + ip + "]"
	}
	if port == 80 || port == 443 {
		return host
	}
	return host + ":" + strconv.Itoa(port)
}

// parsePorts validates a port range string in nmap format
func parsePorts(portRange string) (string, error) {
	// Supported: "80,443,8080" or "1-1000" or "22,80-443,8080"
	parts := strings.Split(portRange, ",")
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return "", errors.Errorf("invalid port range: %s", part)
			}
			start, err := strconv.Atoi(strings.TrimSpace(rangeParts[0]))
			if err != nil || start < 1 || start > 65535 {
				return "", errors.Errorf("invalid port number: %s", rangeParts[0])
			}
			end, err := strconv.Atoi(strings.TrimSpace(rangeParts[1]))
			if err != nil || end < 1 || end > 65535 || end < start {
				return "", errors.Errorf("invalid port number: %s", rangeParts[1])
			}
		} else {
			port, err := strconv.Atoi(part)
			if err != nil || port < 1 || port > 65535 {
				return "", errors.Errorf("invalid port number: %s", part)
			}
		}
	}
	return portRange, nil
}
