package photos

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sync"
	"time"
)

// safeExt matches extensions that can be used verbatim in a storage name.
var safeExt = regexp.MustCompile(`^\.[A-Za-z0-9_-]+$`)

// GenerateStorageName returns the name an upload is stored under: the
// decimal Unix millisecond timestamp of now followed by the original file's
// extension, e.g. "1697040000000.png". Extensions containing anything other
// than letters, digits, '_' or '-' are dropped. A dot-file such as
// ".bashrc" has no extension.
func GenerateStorageName(originalName string, now time.Time) string {
	base := filepath.Base(originalName)
	ext := filepath.Ext(base)
	if ext == base || !safeExt.MatchString(ext) {
		ext = ""
	}
	return fmt.Sprintf("%d%s", now.UnixMilli(), ext)
}

// NameGenerator hands out storage names whose timestamps strictly increase,
// so two uploads within the same millisecond never share a name.
type NameGenerator struct {
	now func() time.Time

	mu   sync.Mutex
	last int64
}

// NewNameGenerator creates a generator reading time from now.
// A nil now uses time.Now.
func NewNameGenerator(now func() time.Time) *NameGenerator {
	if now == nil {
		now = time.Now
	}
	return &NameGenerator{now: now}
}

// Next returns a fresh storage name for originalName.
func (g *NameGenerator) Next(originalName string) string {
	g.mu.Lock()
	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	g.mu.Unlock()

	return GenerateStorageName(originalName, time.UnixMilli(ms))
}
