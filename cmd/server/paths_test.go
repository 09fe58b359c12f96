package main

import (
	"path/filepath"
	"testing"
)

func TestSameFile(t *testing.T) {
	abs, err := filepath.Abs("inventory.yaml")
	if err != nil {
		t.Fatal(err)
	}

	if !sameFile("inventory.yaml", abs) {
		t.Errorf("relative path should match %s", abs)
	}
	if !sameFile("/etc/hostlookup/inv.yaml", "/etc/hostlookup/inv.yaml") {
		t.Error("identical absolute paths should match")
	}
	if sameFile("/etc/hostlookup/a.yaml", "/etc/hostlookup/b.yaml") {
		t.Error("different files should not match")
	}
}
