package main

import "path/filepath"

// sameFile compares a configured path with the absolute path the watcher
// reports
func sameFile(configured, changed string) bool {
	abs, err := filepath.Abs(configured)
	if err != nil {
		return configured == changed
	}
	return abs == changed
}
