// Package adapter implements the host sources behind hostlookup.
//
// A host source answers three questions: what can be searched (GetList), what
// input a search needs (GetInput) and which hosts match a search
// (GetSearchResults). Every call is synchronous and performs one backend
// operation.
//
// # Sources
//
// CMDBDeployments queries the configuration management database through a
// cmdb.Executor. Listing returns deployment id -> name; a search for a
// deployment returns its hosts with an out-of-band or cloud console link as
// action URL when one is known.
//
// NmapSource scans one of its configured targets with nmap and reports the
// hosts found up.
//
// FileSource serves host groups from a YAML or Ansible inventory file.
//
// # Registry
//
// Registry holds the configured sources by name and can run one search
// across all of them.
package adapter
