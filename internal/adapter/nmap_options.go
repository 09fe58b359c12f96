package adapter

import (
	"time"

	"go.uber.org/zap"
)

// NmapOption is a functional option for configuring NmapSource
type NmapOption func(*NmapSource)

// WithNmapName overrides the registered source name
func WithNmapName(name string) NmapOption {
	return func(s *NmapSource) {
		if name != "" {
			s.name = name
		}
	}
}

// WithTimeout sets the timeout for a single scan
func WithTimeout(d time.Duration) NmapOption {
	return func(s *NmapSource) {
		s.timeout = d
	}
}

// WithPortRange sets the ports to scan
// Format: "80,443,8080" or "1-1000" or "22,80-443,8080"
func WithPortRange(ports string) NmapOption {
	return func(s *NmapSource) {
		if validated, err := parsePorts(ports); err == nil {
			s.portRange = validated
		}
	}
}

// WithSkipHostDiscovery sets whether to skip ping and treat all hosts as online (-Pn)
// Useful for networks that block ICMP
func WithSkipHostDiscovery(skip bool) NmapOption {
	return func(s *NmapSource) {
		s.skipHostDiscovery = skip
	}
}

// WithAnyTarget allows scanning targets that are not in the configured list
func WithAnyTarget(allow bool) NmapOption {
	return func(s *NmapSource) {
		s.allowAnyTarget = allow
	}
}

// WithNmapLogger sets the source logger
func WithNmapLogger(log *zap.Logger) NmapOption {
	return func(s *NmapSource) {
		if log != nil {
			s.log = log
		}
	}
}

// withScanFunc replaces the scanner, used by tests
func withScanFunc(fn scanFunc) NmapOption {
	return func(s *NmapSource) {
		s.scan = fn
	}
}
