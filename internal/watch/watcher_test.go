package watch

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/labelschema/internal/loader"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestIsRelevant(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "schema.json")
	other := filepath.Join(filepath.Dir(path), "other.json")

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write", fsnotify.Event{Name: path, Op: fsnotify.Write}, true},
		{"create", fsnotify.Event{Name: path, Op: fsnotify.Create}, true},
		{"rename", fsnotify.Event{Name: path, Op: fsnotify.Rename}, true},
		{"chmod", fsnotify.Event{Name: path, Op: fsnotify.Chmod}, false},
		{"remove", fsnotify.Event{Name: path, Op: fsnotify.Remove}, false},
		{"other file", fsnotify.Event{Name: other, Op: fsnotify.Write}, false},
		{"no op", fsnotify.Event{Name: path}, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, isRelevant(tt.event, path), tt.name)
	}
}

func TestRun_ReloadsOnChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"colour_schemes": [], "groups": []}`), 0o600))

	reloaded := make(chan *loader.Source, 4)
	out := &syncBuffer{}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, Options{Path: path, Debounce: 20 * time.Millisecond, Out: out},
			func(_ context.Context, src *loader.Source) error {
				reloaded <- src
				return nil
			})
	}()

	// give the watcher time to register
	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "watching")
	}, 2*time.Second, 10*time.Millisecond)

	content := `{"colour_schemes": [{"id": 1, "active": true, "name": "natural", "human_name": "Natural"}], "groups": []}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	select {
	case src := <-reloaded:
		require.Len(t, src.State.ColourSchemes, 1)
		assert.Equal(t, "natural", src.State.ColourSchemes[0].Name)
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "reload → OK (1 colour schemes, 0 groups)")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestRun_BadDirectory(t *testing.T) {
	t.Parallel()

	err := Run(context.Background(), Options{Path: filepath.Join(t.TempDir(), "missing", "schema.json")},
		func(context.Context, *loader.Source) error { return nil })
	assert.ErrorContains(t, err, "watching")
}
