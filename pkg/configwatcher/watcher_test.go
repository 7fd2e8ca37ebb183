package configwatcher

import (
	"context"
	"os"
	"path/filepath"
	"snaplearn_backend/internal/config"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, path, model string) {
	t.Helper()
	content := "server:\n  mode: debug\nai:\n  provider: openai\n  model: " + model + "\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWatchConfigReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.yaml")
	writeConfig(t, file, "gpt-4o-mini")

	var latest atomic.Value
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, file, func(cfg *config.Config) { latest.Store(cfg.AI.Model) })
	}()

	// 等待监听建立
	time.Sleep(200 * time.Millisecond)
	writeConfig(t, file, "gpt-4o")

	require.Eventually(t, func() bool {
		v, _ := latest.Load().(string)
		return v == "gpt-4o"
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop after cancel")
	}
}
