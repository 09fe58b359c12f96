package codec

import (
	"encoding/json"
	"fmt"
	"io"

	"hostlookup/internal/domain"
)

// JSONCodec handles JSON export
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

// Export writes the lookup as a JSON object keyed by host name
func (c *JSONCodec) Export(hosts domain.HostLookup, w io.Writer) error {
	if hosts == nil {
		hosts = domain.NewHostLookup()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(hosts); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}

	return nil
}
