package photos

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateStorageName(t *testing.T) {
	now := time.UnixMilli(1697040000000)

	tests := []struct {
		name     string
		original string
		want     string
	}{
		{name: "png", original: "cat.png", want: "1697040000000.png"},
		{name: "double extension keeps last", original: "archive.tar.gz", want: "1697040000000.gz"},
		{name: "no extension", original: "README", want: "1697040000000"},
		{name: "empty", original: "", want: "1697040000000"},
		{name: "directory in name", original: "../../etc/passwd.jpg", want: "1697040000000.jpg"},
		{name: "uppercase kept", original: "IMG_0001.JPG", want: "1697040000000.JPG"},
		{name: "unsafe extension dropped", original: "x.p\\ng", want: "1697040000000"},
		{name: "trailing dot", original: "photo.", want: "1697040000000"},
		{name: "dot-file has no extension", original: ".bashrc", want: "1697040000000"},
		{name: "dot-file in directory", original: "home/.profile", want: "1697040000000"},
		{name: "dot-file with extension", original: ".hidden.png", want: "1697040000000.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, GenerateStorageName(tt.original, now))
		})
	}
}

func TestNameGenerator_FrozenClock(t *testing.T) {
	frozen := time.UnixMilli(1697040000000)
	g := NewNameGenerator(func() time.Time { return frozen })

	assert.Equal(t, "1697040000000.png", g.Next("a.png"))
	assert.Equal(t, "1697040000001.png", g.Next("b.png"))
	assert.Equal(t, "1697040000002.jpg", g.Next("c.jpg"))
}

func TestNameGenerator_ClockGoesBackwards(t *testing.T) {
	times := []int64{1000, 900, 1500}
	i := 0
	g := NewNameGenerator(func() time.Time {
		ms := times[i]
		i++
		return time.UnixMilli(ms)
	})

	assert.Equal(t, "1000.png", g.Next("a.png"))
	assert.Equal(t, "1001.png", g.Next("a.png"))
	assert.Equal(t, "1500.png", g.Next("a.png"))
}

func TestNameGenerator_ConcurrentUnique(t *testing.T) {
	g := NewNameGenerator(nil)

	const n = 200
	names := make(chan string, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			names <- g.Next("photo.png")
		}()
	}
	wg.Wait()
	close(names)

	seen := make(map[string]bool, n)
	for name := range names {
		assert.True(t, strings.HasSuffix(name, ".png"), name)
		assert.False(t, seen[name], "duplicate name %s", name)
		seen[name] = true
	}
	assert.Len(t, seen, n)
}
