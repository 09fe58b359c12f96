package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	nmap "github.com/Ullaakut/nmap/v3"

	"hostlookup/internal/domain"
)

// TestNmapSource_Options tests option functions
func TestNmapSource_Options(t *testing.T) {
	targets := []ScanTarget{{Target: "192.168.1.0/24"}}

	t.Run("defaults", func(t *testing.T) {
		s := NewNmapSource(targets)
		if s.Name() != "nmap" {
			t.Errorf("expected name 'nmap', got %s", s.Name())
		}
		if s.Kind() != SourceKindNmap {
			t.Errorf("expected kind nmap, got %s", s.Kind())
		}
		if s.portRange != "22,80,443" {
			t.Errorf("expected default port range, got %s", s.portRange)
		}
	})

	t.Run("WithNmapName", func(t *testing.T) {
		s := NewNmapSource(targets, WithNmapName("lab"))
		if s.Name() != "lab" {
			t.Errorf("expected name 'lab', got %s", s.Name())
		}
	})

	t.Run("WithTimeout", func(t *testing.T) {
		s := NewNmapSource(targets, WithTimeout(20*time.Minute))
		if s.timeout != 20*time.Minute {
			t.Errorf("expected timeout 20m, got %v", s.timeout)
		}
	})

	t.Run("WithPortRange", func(t *testing.T) {
		s := NewNmapSource(targets, WithPortRange("1-1000"))
		if s.portRange != "1-1000" {
			t.Errorf("expected port range 1-1000, got %s", s.portRange)
		}
	})

	t.Run("WithPortRange invalid keeps default", func(t *testing.T) {
		s := NewNmapSource(targets, WithPortRange("80-70000"))
		if s.portRange != "22,80,443" {
			t.Errorf("expected default port range, got %s", s.portRange)
		}
	})

	t.Run("WithSkipHostDiscovery", func(t *testing.T) {
		s := NewNmapSource(targets, WithSkipHostDiscovery(true))
		if !s.skipHostDiscovery {
			t.Error("expected skip host discovery enabled")
		}
	})
}

func TestNmapSource_GetList(t *testing.T) {
	s := NewNmapSource([]ScanTarget{
		{Target: "10.0.0.0/24", Label: "office"},
		{Target: "192.168.1.0/24", Label: "lab"},
		{Target: "172.16.0.5"},
	})

	list, err := s.GetList(context.Background())
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}

	want := []domain.ListEntry{
		{Key: "172.16.0.5", Value: "172.16.0.5"},
		{Key: "192.168.1.0/24", Value: "lab"},
		{Key: "10.0.0.0/24", Value: "office"},
	}
	got := list.Entries()
	if len(got) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestNmapSource_GetInput(t *testing.T) {
	in := NewNmapSource(nil).GetInput()
	if in == nil || len(in.Fields) != 1 {
		t.Fatalf("expected one input field, got %+v", in)
	}
	if in.Fields[0].Name != domain.SearchParamField || !in.Fields[0].Required {
		t.Errorf("unexpected field %+v", in.Fields[0])
	}
}

// TestNmapSource_ProcessResults tests conversion of mock nmap results
func TestNmapSource_ProcessResults(t *testing.T) {
	s := NewNmapSource(nil)

	mockResult := &nmap.Run{
		Hosts: []nmap.Host{
			{
				Addresses: []nmap.Address{
					{Addr: "192.168.1.100", AddrType: "ipv4"},
					{Addr: "AA:BB:CC:DD:EE:FF", AddrType: "mac", Vendor: "Test Vendor"},
				},
				Hostnames: []nmap.Hostname{{Name: "testhost.local"}},
				Status:    nmap.Status{State: "up"},
				Ports: []nmap.Port{
					{ID: 22, Protocol: "tcp", State: nmap.State{State: "open"}},
					{ID: 80, Protocol: "tcp", State: nmap.State{State: "open"}},
					{ID: 443, Protocol: "tcp", State: nmap.State{State: "closed"}},
				},
			},
			{
				Addresses: []nmap.Address{{Addr: "192.168.1.101", AddrType: "ipv4"}},
				Status:    nmap.Status{State: "up"},
				Ports: []nmap.Port{
					{ID: 80, Protocol: "tcp", State: nmap.State{State: "open"}},
					{ID: 443, Protocol: "tcp", State: nmap.State{State: "open"}},
				},
			},
			{
				Addresses: []nmap.Address{{Addr: "192.168.1.102", AddrType: "ipv4"}},
				Status:    nmap.Status{State: "up"},
			},
			{
				// Down hosts are ignored
				Addresses: []nmap.Address{{Addr: "192.168.1.103", AddrType: "ipv4"}},
				Status:    nmap.Status{State: "down"},
			},
			{
				// Only a MAC address
				Addresses: []nmap.Address{{Addr: "AA:BB:CC:DD:EE:00", AddrType: "mac"}},
				Status:    nmap.Status{State: "up"},
			},
		},
	}

	hosts := s.processResults(mockResult)

	want := map[string]domain.HostRecord{
		"testhost.local": {HostName: "testhost.local", Address: "192.168.1.100", ActionURL: "http://192.168.1.100"},
		"192.168.1.101":  {HostName: "192.168.1.101", Address: "192.168.1.101", ActionURL: "https://192.168.1.101"},
		"192.168.1.102":  {HostName: "192.168.1.102", Address: "192.168.1.102"},
	}
	if len(hosts) != len(want) {
		t.Fatalf("expected %d hosts, got %d: %v", len(want), len(hosts), hosts.Names())
	}
	for name, rec := range want {
		if hosts[name] != rec {
			t.Errorf("%s: expected %+v, got %+v", name, rec, hosts[name])
		}
	}
}

func TestNmapSource_ProcessResultsNil(t *testing.T) {
	hosts := NewNmapSource(nil).processResults(nil)
	if len(hosts) != 0 {
		t.Errorf("expected no hosts, got %d", len(hosts))
	}
}

func TestNmapSource_GetSearchResults(t *testing.T) {
	targets := []ScanTarget{{Target: "192.168.1.0/24", Label: "lab"}}
	up := &nmap.Run{Hosts: []nmap.Host{{
		Addresses: []nmap.Address{{Addr: "192.168.1.10", AddrType: "ipv4"}},
		Status:    nmap.Status{State: "up"},
	}}}

	tests := []struct {
		name      string
		param     string
		opts      []NmapOption
		scanErr   error
		wantHosts int
		wantErr   bool
		invalid   bool
	}{
		{name: "configured target", param: "192.168.1.0/24", wantHosts: 1},
		{name: "padded target", param: "  192.168.1.0/24 ", wantHosts: 1},
		{name: "empty param", param: "", wantErr: true, invalid: true},
		{name: "unconfigured target", param: "10.0.0.0/8", wantErr: true, invalid: true},
		{name: "unconfigured target allowed", param: "10.0.0.1", opts: []NmapOption{WithAnyTarget(true)}, wantHosts: 1},
		{name: "invalid CIDR", param: "10.0.0.0/99", opts: []NmapOption{WithAnyTarget(true)}, wantErr: true, invalid: true},
		{name: "option as target", param: "-oNpwned.txt", opts: []NmapOption{WithAnyTarget(true)}, wantErr: true, invalid: true},
		{name: "option after space", param: "10.0.0.1 -sV", opts: []NmapOption{WithAnyTarget(true)}, wantErr: true, invalid: true},
		{name: "host name allowed", param: "web01.example.com", opts: []NmapOption{WithAnyTarget(true)}, wantHosts: 1},
		{name: "octet range allowed", param: "10.0.1-3.*", opts: []NmapOption{WithAnyTarget(true)}, wantHosts: 1},
		{name: "ipv6 allowed", param: "fe80::1", opts: []NmapOption{WithAnyTarget(true)}, wantHosts: 1},
		{name: "scan failure", param: "192.168.1.0/24", scanErr: errors.New("nmap not installed"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scanned string
			opts := append([]NmapOption{withScanFunc(func(_ context.Context, target string) (*nmap.Run, error) {
				scanned = target
				if tt.scanErr != nil {
					return nil, tt.scanErr
				}
				return up, nil
			})}, tt.opts...)
			s := NewNmapSource(targets, opts...)

			hosts, err := s.GetSearchResults(context.Background(), domain.SearchInput{SrchParam: tt.param})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if tt.invalid && !errors.Is(err, domain.ErrInvalidInput) {
					t.Errorf("expected ErrInvalidInput, got %v", err)
				}
				if tt.invalid && scanned != "" {
					t.Errorf("scan should not run for invalid input, scanned %s", scanned)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(hosts) != tt.wantHosts {
				t.Errorf("expected %d hosts, got %d", tt.wantHosts, len(hosts))
			}
		})
	}
}

// TestValidTarget tests target syntax checks
func TestValidTarget(t *testing.T) {
	tests := []struct {
		target string
		want   bool
	}{
		{"192.168.1.0/24", true},
		{"10.0.0.1", true},
		{"2001:db8::/32", true},
		{"scanme.example.org", true},
		{"192.168.0.1,5,9", true},
		{"-iL/etc/passwd", false},
		{"--script=vuln", false},
		{"10.0.0.1;reboot", false},
		{"10.0.0.0/99", false},
		{"*", true},
	}

	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			if got := validTarget(tt.target); got != tt.want {
				t.Errorf("validTarget(%q) = %v, want %v", tt.target, got, tt.want)
			}
		})
	}
}

// TestParsePorts tests port range validation
func TestParsePorts(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"80", false},
		{"80,443", false},
		{"1-1000", false},
		{"22,80-443,8080", false},
		{"0", true},
		{"65536", true},
		{"443-80", true},
		{"1-2-3", true},
		{"http", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := parsePorts(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("parsePorts(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
