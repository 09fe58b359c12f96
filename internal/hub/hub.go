// Package hub streams service events to HTTP clients as server-sent events.
package hub

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Message is one event to relay. Type becomes the SSE event name.
type Message struct {
	Type string
	Data interface{}
}

type frame struct {
	kind string
	body []byte
}

type subscriber struct {
	id     string
	types  map[string]bool // empty: every type
	frames chan []byte
}

func (s *subscriber) wants(kind string) bool {
	return len(s.types) == 0 || s.types[kind]
}

// Hub fans messages out to SSE subscribers
type Hub struct {
	mu        sync.RWMutex
	subs      map[string]*subscriber
	queue     chan Message
	seq       uint64
	keepalive time.Duration
	log       *zap.Logger
}

// Option configures a Hub
type Option func(*Hub)

// WithKeepalive sets the comment-line keepalive interval
func WithKeepalive(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.keepalive = d
		}
	}
}

// New creates a Hub
func New(log *zap.Logger, opts ...Option) *Hub {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Hub{
		subs:      make(map[string]*subscriber),
		queue:     make(chan Message, 256),
		keepalive: 30 * time.Second,
		log:       log,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run encodes queued messages and hands them to subscribers until ctx is
// done. All subscriber streams are closed on return.
func (h *Hub) Run(ctx context.Context) {
	defer h.closeAll()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-h.queue:
			f, err := h.encode(msg)
			if err != nil {
				h.log.Error("encode event", zap.String("type", msg.Type), zap.Error(err))
				continue
			}
			h.fanOut(f)
		}
	}
}

// Publish queues a message. It never blocks; a full queue drops the message.
func (h *Hub) Publish(kind string, data interface{}) {
	select {
	case h.queue <- Message{Type: kind, Data: data}:
	default:
		h.log.Warn("event queue full, dropping", zap.String("type", kind))
	}
}

// ClientCount returns the number of connected subscribers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) encode(msg Message) (frame, error) {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return frame{}, err
	}
	h.seq++

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "id: %d\n", h.seq)
	if msg.Type != "" {
		fmt.Fprintf(&buf, "event: %s\n", msg.Type)
	}
	fmt.Fprintf(&buf, "data: %s\n\n", data)
	return frame{kind: msg.Type, body: buf.Bytes()}, nil
}

func (h *Hub) fanOut(f frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, s := range h.subs {
		if !s.wants(f.kind) {
			continue
		}
		select {
		case s.frames <- f.body:
		default:
			h.log.Warn("subscriber lagging, event skipped", zap.String("client", s.id), zap.String("type", f.kind))
		}
	}
}

func (h *Hub) subscribe(types []string) *subscriber {
	s := &subscriber{
		id:     uuid.NewString(),
		types:  lo.Associate(types, func(t string) (string, bool) { return t, true }),
		frames: make(chan []byte, 64),
	}

	h.mu.Lock()
	h.subs[s.id] = s
	total := len(h.subs)
	h.mu.Unlock()

	h.log.Debug("subscriber joined", zap.String("client", s.id), zap.Strings("types", types), zap.Int("total", total))
	return s
}

func (h *Hub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	if _, ok := h.subs[s.id]; ok {
		delete(h.subs, s.id)
		close(s.frames)
	}
	total := len(h.subs)
	h.mu.Unlock()

	h.log.Debug("subscriber left", zap.String("client", s.id), zap.Int("total", total))
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, s := range h.subs {
		delete(h.subs, id)
		close(s.frames)
	}
}

// parseTypes reads the comma-separated ?types= filter
func parseTypes(r *http.Request) []string {
	raw := strings.Split(r.URL.Query().Get("types"), ",")
	types := lo.Map(raw, func(t string, _ int) string { return strings.TrimSpace(t) })
	return lo.Uniq(lo.Filter(types, func(t string, _ int) bool { return t != "" }))
}

// ServeHTTP streams events to one client. The optional types query
// parameter limits the stream to the named event types.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	hdr := w.Header()
	hdr.Set("Content-Type", "text/event-stream")
	hdr.Set("Cache-Control", "no-cache")
	hdr.Set("Connection", "keep-alive")
	hdr.Set("X-Accel-Buffering", "no")

	s := h.subscribe(parseTypes(r))
	defer h.unsubscribe(s)

	if _, err := fmt.Fprint(w, ": connected\n\n"); err != nil {
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(h.keepalive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case body, open := <-s.frames:
			if !open {
				return
			}
			if _, err := w.Write(body); err != nil {
				return
			}
			flusher.Flush()
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
