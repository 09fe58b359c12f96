// Package service coordinates host sources, saved searches and events.
//
// HostService sits between the HTTP handlers and the adapter registry. It
// resolves a source by name, runs list/input/search calls against it and
// publishes the outcome on the EventBus. Saved searches are validated here
// and persisted through the repository package.
//
// # Event System
//
// Searches, saved-search writes and file reloads publish events on the
// EventBus. The hub package relays them to SSE clients. Slow subscribers
// miss events rather than block a search.
package service
