package codec

import (
	"fmt"
	"io"

	"hostlookup/internal/domain"

	"gopkg.in/yaml.v3"
)

// AnsibleCodec handles Ansible inventory import/export
type AnsibleCodec struct{}

// NewAnsibleCodec creates a new Ansible codec
func NewAnsibleCodec() *AnsibleCodec {
	return &AnsibleCodec{}
}

// Format returns the codec format identifier
func (c *AnsibleCodec) Format() string {
	return "ansible-inventory"
}

// ansibleInventory represents the Ansible inventory structure
type ansibleInventory struct {
	All ansibleGroup `yaml:"all"`
}

type ansibleGroup struct {
	Children map[string]ansibleGroupDef `yaml:"children,omitempty"`
	Hosts    map[string]ansibleHost     `yaml:"hosts,omitempty"`
	Vars     map[string]interface{}     `yaml:"vars,omitempty"`
}

type ansibleGroupDef struct {
	Hosts map[string]ansibleHost `yaml:"hosts,omitempty"`
	Vars  map[string]interface{} `yaml:"vars,omitempty"`
}

type ansibleHost struct {
	AnsibleHost string `yaml:"ansible_host,omitempty"`
	ActionURL   string `yaml:"action_url,omitempty"`
}

// Parse reads an Ansible YAML inventory. Each child group becomes a group;
// hosts placed directly under all land in the "all" group. A group var
// named description is used as the group description.
func (c *AnsibleCodec) Parse(r io.Reader) (*Inventory, error) {
	var inv ansibleInventory
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&inv); err != nil {
		if err == io.EOF {
			return &Inventory{Groups: map[string]Group{}}, nil
		}
		return nil, fmt.Errorf("failed to parse Ansible inventory: %w", err)
	}

	out := &Inventory{Groups: make(map[string]Group)}

	for groupName, group := range inv.Children() {
		g := Group{Hosts: make(map[string]Host)}
		if desc, ok := group.Vars["description"].(string); ok {
			g.Description = desc
		}
		for hostName, host := range group.Hosts {
			g.Hosts[hostName] = c.toHost(hostName, host)
		}
		out.Groups[groupName] = g
	}

	return out, nil
}

// Children returns the child groups plus an "all" group for hosts listed
// directly under all
func (inv ansibleInventory) Children() map[string]ansibleGroupDef {
	groups := make(map[string]ansibleGroupDef, len(inv.All.Children)+1)
	for name, g := range inv.All.Children {
		groups[name] = g
	}
	if len(inv.All.Hosts) > 0 {
		groups["all"] = ansibleGroupDef{Hosts: inv.All.Hosts, Vars: inv.All.Vars}
	}
	return groups
}

// toHost falls back to the inventory name when ansible_host is unset
func (c *AnsibleCodec) toHost(name string, host ansibleHost) Host {
	addr := host.AnsibleHost
	if addr == "" {
		addr = name
	}
	return Host{Address: addr, ActionURL: host.ActionURL}
}

// Export writes the lookup as an Ansible inventory with every host under
// all.hosts
func (c *AnsibleCodec) Export(hosts domain.HostLookup, w io.Writer) error {
	inv := ansibleInventory{
		All: ansibleGroup{
			Hosts: make(map[string]ansibleHost, len(hosts)),
		},
	}

	for name, rec := range hosts {
		inv.All.Hosts[name] = ansibleHost{
			AnsibleHost: rec.Address,
			ActionURL:   rec.ActionURL,
		}
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&inv); err != nil {
		return fmt.Errorf("failed to encode Ansible inventory: %w", err)
	}

	return nil
}
