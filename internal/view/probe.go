package view

import (
	"sync"
	"time"

	"github.com/spf13/afero"
)

// Stat is the subset of file metadata the launcher cares about.
type Stat struct {
	IsDir   bool      `json:"isDirectory"`
	Size    int64     `json:"size"`
	ModTime time.Time `json:"mtime"`
}

// Probe answers existence and stat queries. Failures read as "not found".
type Probe interface {
	Exists(path string) bool
	Stat(path string) (Stat, bool)
}

// FSProbe queries an afero filesystem directly.
type FSProbe struct {
	fs afero.Fs
}

func NewFSProbe(fs afero.Fs) *FSProbe {
	return &FSProbe{fs: fs}
}

func (p *FSProbe) Exists(path string) bool {
	_, ok := p.Stat(path)
	return ok
}

func (p *FSProbe) Stat(path string) (Stat, bool) {
	if path == "" {
		return Stat{}, false
	}
	fi, err := p.fs.Stat(path)
	if err != nil {
		return Stat{}, false
	}
	return Stat{IsDir: fi.IsDir(), Size: fi.Size(), ModTime: fi.ModTime()}, true
}

// cachedProbe memoizes a Probe for the lifetime of one projection.
type cachedProbe struct {
	next Probe

	mu    sync.Mutex
	stats map[string]cachedStat
}

type cachedStat struct {
	stat Stat
	ok   bool
}

func newCachedProbe(next Probe) *cachedProbe {
	return &cachedProbe{next: next, stats: make(map[string]cachedStat)}
}

func (c *cachedProbe) Exists(path string) bool {
	_, ok := c.Stat(path)
	return ok
}

func (c *cachedProbe) Stat(path string) (Stat, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if s, ok := c.stats[path]; ok {
		return s.stat, s.ok
	}
	st, ok := c.next.Stat(path)
	c.stats[path] = cachedStat{stat: st, ok: ok}
	return st, ok
}
