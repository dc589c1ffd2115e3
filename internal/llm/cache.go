package llm

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"os"
	"sync"

	"profileforge/internal/logging"
)

const defaultFlushEvery = 5

// Cache is a content-addressed store mapping (model identity, request
// payload) digests to previously observed response text. It grows
// monotonically and is shared by every worker in the process.
//
// Put overwrites any existing value for the key. A successful write always
// wins, even when an entry already exists for that exact request; lookups
// happen before calls are made, so in practice a key is only rewritten after
// a cache miss raced with another worker.
type Cache struct {
	mu         sync.Mutex
	entries    map[string]string
	path       string
	flushEvery int
	puts       int
	log        *logging.Logger
}

// NewCache loads the persisted snapshot at path if one exists. A missing,
// empty, or corrupt file leaves the cache empty with a logged warning;
// startup never fails on cache state.
func NewCache(path string, log *logging.Logger) *Cache {
	c := &Cache{
		entries:    make(map[string]string),
		path:       path,
		flushEvery: defaultFlushEvery,
		log:        log,
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnw("could not read response cache, starting empty", "path", path, "error", err)
		}
		return c
	}
	if err := json.Unmarshal(data, &c.entries); err != nil {
		log.Warnw("could not parse response cache, starting empty", "path", path, "error", err)
		c.entries = make(map[string]string)
	}
	return c
}

// Key computes the digest of a model identity plus serialized request payload.
func Key(model ModelConfig, parts []Part) string {
	h := sha256.New()
	h.Write([]byte(model.Name))
	for _, p := range parts {
		if p.Text != "" {
			h.Write([]byte("text:"))
			h.Write([]byte(p.Text))
			continue
		}
		h.Write([]byte("blob:"))
		h.Write([]byte(p.MIMEType))
		h.Write(p.Data)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func (c *Cache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	text, ok := c.entries[key]
	return text, ok
}

// Put stores text under key, overwriting any prior value, and flushes the
// full snapshot to disk on every Nth insertion. Losing the most recent
// unflushed writes in a crash only costs a redundant future call.
func (c *Cache) Put(key, text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = text
	c.puts++
	if c.puts%c.flushEvery == 0 {
		c.flushLocked()
	}
}

// Flush writes the snapshot out unconditionally.
func (c *Cache) Flush() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.flushLocked()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) flushLocked() {
	data, err := json.Marshal(c.entries)
	if err != nil {
		c.log.Warnw("could not serialize response cache", "error", err)
		return
	}
	if err := os.WriteFile(c.path, data, 0o644); err != nil {
		c.log.Warnw("could not persist response cache", "path", c.path, "error", err)
	}
}
