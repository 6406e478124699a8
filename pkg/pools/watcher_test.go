package pools

import (
	"os"
	"testing"
	"time"

	"github.com/go-logr/logr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcherReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "pools:\n  - name: old\n    cores: -1\n")
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, manager.Assign(platform, config))

	watcher, err := NewWatcher(path, platform, manager, logr.Discard())
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("pools:\n  - name: new\n    cores: 2\n"), 0644))

	assert.Eventually(t, func() bool {
		pools := manager.Pools(platform)
		return len(pools["new"]) == 4 && len(pools["old"]) == 0
	}, 5*time.Second, 10*time.Millisecond)
}

func TestWatcherKeepsAssignmentOnBadConfig(t *testing.T) {
	path := writeConfig(t, "pools:\n  - name: keep\n    cores: 2\n")
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	config, err := LoadConfig(path)
	require.NoError(t, err)
	require.NoError(t, manager.Assign(platform, config))

	watcher, err := NewWatcher(path, platform, manager, logr.Discard())
	require.NoError(t, err)
	defer watcher.Stop()

	require.NoError(t, os.WriteFile(path, []byte("pools: [\n"), 0644))

	// The broken file must not wipe the existing labels.
	assert.Never(t, func() bool {
		return len(manager.Pools(platform)["keep"]) != 4
	}, 500*time.Millisecond, 10*time.Millisecond)
}

func TestWatcherMissingFile(t *testing.T) {
	platform := testPlatform(t)
	manager := NewManager(logr.Discard())

	_, err := NewWatcher("/nonexistent/pools.yaml", platform, manager, logr.Discard())
	assert.Error(t, err)
}
