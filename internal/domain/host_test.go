package domain

import (
	"encoding/json"
	"testing"
)

func TestHostRecordValid(t *testing.T) {
	tests := []struct {
		name string
		rec  HostRecord
		want bool
	}{
		{"complete", HostRecord{HostName: "h1.example.com", Address: "10.0.0.1"}, true},
		{"missing host name", HostRecord{Address: "10.0.0.1"}, false},
		{"missing address", HostRecord{HostName: "h1.example.com"}, false},
		{"whitespace host name", HostRecord{HostName: "  ", Address: "10.0.0.1"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Valid(); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHostLookupAdd(t *testing.T) {
	t.Run("rejects invalid records", func(t *testing.T) {
		l := NewHostLookup()
		if l.Add(HostRecord{Address: "10.0.0.1"}) {
			t.Error("expected record without host name to be rejected")
		}
		if len(l) != 0 {
			t.Errorf("expected empty lookup, got %d entries", len(l))
		}
	})

	t.Run("last write wins", func(t *testing.T) {
		l := NewHostLookup()
		l.Add(HostRecord{HostName: "h1", Address: "10.0.0.1"})
		l.Add(HostRecord{HostName: "h1", Address: "10.0.0.2"})
		if len(l) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(l))
		}
		if l["h1"].Address != "10.0.0.2" {
			t.Errorf("expected later address to win, got %s", l["h1"].Address)
		}
	})
}

func TestHostLookupSorted(t *testing.T) {
	l := NewHostLookup()
	l.Add(HostRecord{HostName: "c", Address: "3"})
	l.Add(HostRecord{HostName: "a", Address: "1"})
	l.Add(HostRecord{HostName: "b", Address: "2"})

	got := l.Sorted()
	for i, want := range []string{"a", "b", "c"} {
		if got[i].HostName != want {
			t.Errorf("position %d: expected %s, got %s", i, want, got[i].HostName)
		}
	}
}

func TestHostRecordOmitsEmptyActionURL(t *testing.T) {
	data, err := json.Marshal(HostRecord{HostName: "h1", Address: "10.0.0.1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["action_url"]; ok {
		t.Errorf("expected no action_url key, got %s", data)
	}
}
