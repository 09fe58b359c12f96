package codec

import (
	"fmt"
	"io"

	"hostlookup/internal/domain"

	"gopkg.in/yaml.v3"
)

// YAMLCodec handles the plain YAML inventory and YAML export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// Parse reads an inventory of the form
//
//	groups:
//	  web:
//	    description: Web tier
//	    hosts:
//	      web01.example.com:
//	        address: 10.0.0.10
func (c *YAMLCodec) Parse(r io.Reader) (*Inventory, error) {
	var inv Inventory
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&inv); err != nil {
		if err == io.EOF {
			return &Inventory{Groups: map[string]Group{}}, nil
		}
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if inv.Groups == nil {
		inv.Groups = make(map[string]Group)
	}
	return &inv, nil
}

// Export writes the lookup as a YAML mapping keyed by host name
func (c *YAMLCodec) Export(hosts domain.HostLookup, w io.Writer) error {
	if hosts == nil {
		hosts = domain.NewHostLookup()
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(map[string]domain.HostRecord(hosts)); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
