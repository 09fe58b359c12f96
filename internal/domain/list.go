package domain

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// ListEntry is one key/value pair of a HostList
type ListEntry struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// HostList is the ordered key/value collection returned by a source listing
// (deployment id -> deployment name for the CMDB). Keys are unique; order is
// insertion order until SortByValue is called.
type HostList struct {
	m *orderedmap.OrderedMap[string, string]
}

// NewHostList creates an empty list
func NewHostList() *HostList {
	return &HostList{m: orderedmap.New[string, string]()}
}

// Set inserts or replaces a value. Replacing keeps the key's position.
func (l *HostList) Set(key, value string) {
	l.m.Set(key, value)
}

// Get returns the value stored under key
func (l *HostList) Get(key string) (string, bool) {
	return l.m.Get(key)
}

// Len returns the number of entries
func (l *HostList) Len() int {
	return l.m.Len()
}

// Entries returns the entries in their current order
func (l *HostList) Entries() []ListEntry {
	out := make([]ListEntry, 0, l.m.Len())
	for pair := l.m.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, ListEntry{Key: pair.Key, Value: pair.Value})
	}
	return out
}

// SortByValue reorders the entries ascending by value. Two numeric values
// compare as numbers ("9" before "10"); anything else compares as strings.
// Entries with equal values keep their relative order and every key stays
// bound to its value.
func (l *HostList) SortByValue() {
	entries := l.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return valueLess(entries[i].Value, entries[j].Value)
	})

	sorted := orderedmap.New[string, string]()
	for _, e := range entries {
		sorted.Set(e.Key, e.Value)
	}
	l.m = sorted
}

// numericValue matches decimal numbers with an optional exponent; hex, inf
// and nan spellings stay strings
var numericValue = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

func parseNumber(v string) (float64, bool) {
	v = strings.TrimSpace(v)
	if !numericValue.MatchString(v) {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	return f, err == nil
}

func valueLess(a, b string) bool {
	x, okA := parseNumber(a)
	y, okB := parseNumber(b)
	if okA && okB {
		return x < y
	}
	return a < b
}

// MarshalJSON renders the list as a JSON object preserving entry order
func (l *HostList) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range l.Entries() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(e.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML renders the list as a YAML mapping preserving entry order
func (l *HostList) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range l.Entries() {
		node.Content = append(node.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key},
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Value},
		)
	}
	return node, nil
}
