package engine_test

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/pswitch/internal/backup"
	"github.com/ruminaider/pswitch/internal/engine"
	"github.com/ruminaider/pswitch/internal/profile"
)

func newEngine(t *testing.T) (*engine.Engine, string) {
	t.Helper()
	root := t.TempDir()
	return engine.New(backup.NewManager(filepath.Join(root, "backups"))), root
}

func TestSwitch(t *testing.T) {
	t.Run("applies items grouped by phase", func(t *testing.T) {
		eng, root := newEngine(t)
		target := filepath.Join(root, "settings.json")
		shell := filepath.Join(root, ".profile")
		probe := filepath.Join(root, "probe")

		// Items deliberately listed command-first: execution must still be
		// file-replace, then env-var, then run-command.
		p := &profile.Profile{ID: "p1", Name: "work", Items: []profile.ConfigItem{
			{ID: "c", Type: profile.ItemRunCommand, Label: "probe", Enabled: true,
				Command: "cat " + target + " > " + probe, WorkingDir: root},
			{ID: "e", Type: profile.ItemEnvVar, Label: "token", Enabled: true,
				Name: "TOKEN", Value: "t1", ShellFile: shell},
			{ID: "f", Type: profile.ItemFileReplace, Label: "settings", Enabled: true,
				TargetPath: target, Content: "fresh"},
		}}

		res, err := eng.Switch(p)
		require.NoError(t, err)
		require.True(t, res.Success)

		require.Len(t, res.Items, 3)
		assert.Equal(t, "f", res.Items[0].ItemID)
		assert.Equal(t, "e", res.Items[1].ItemID)
		assert.Equal(t, "c", res.Items[2].ItemID)

		// The command saw the freshly written file, proving phase order.
		data, err := os.ReadFile(probe)
		require.NoError(t, err)
		assert.Equal(t, "fresh", string(data))
	})

	t.Run("skips disabled items", func(t *testing.T) {
		eng, root := newEngine(t)
		target := filepath.Join(root, "off.txt")

		p := &profile.Profile{ID: "p1", Items: []profile.ConfigItem{
			{ID: "f", Type: profile.ItemFileReplace, Enabled: false, TargetPath: target, Content: "x"},
		}}

		res, err := eng.Switch(p)
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Empty(t, res.Items)
		assert.NoFileExists(t, target)
	})

	t.Run("rolls back file changes when env phase fails", func(t *testing.T) {
		eng, root := newEngine(t)
		target := filepath.Join(root, "settings.json")
		require.NoError(t, os.WriteFile(target, []byte("before"), 0644))

		p := &profile.Profile{ID: "p1", Items: []profile.ConfigItem{
			{ID: "f", Type: profile.ItemFileReplace, Enabled: true, TargetPath: target, Content: "after"},
			{ID: "e", Type: profile.ItemEnvVar, Enabled: true,
				Name: "not a name", Value: "v", ShellFile: filepath.Join(root, ".profile")},
			{ID: "c", Type: profile.ItemRunCommand, Enabled: true, Command: "touch " + filepath.Join(root, "ran")},
		}}

		res, err := eng.Switch(p)
		require.NoError(t, err)
		assert.False(t, res.Success)

		// File restored byte for byte.
		data, _ := os.ReadFile(target)
		assert.Equal(t, "before", string(data))

		// Phase C never started.
		assert.NoFileExists(t, filepath.Join(root, "ran"))
		require.Len(t, res.Items, 2)
		assert.True(t, res.Items[0].Success)
		assert.False(t, res.Items[1].Success)
	})

	t.Run("command failure does not roll back files", func(t *testing.T) {
		eng, root := newEngine(t)
		target := filepath.Join(root, "settings.json")
		require.NoError(t, os.WriteFile(target, []byte("before"), 0644))

		p := &profile.Profile{ID: "p1", Items: []profile.ConfigItem{
			{ID: "f", Type: profile.ItemFileReplace, Enabled: true, TargetPath: target, Content: "after"},
			{ID: "c", Type: profile.ItemRunCommand, Enabled: true, Command: "exit 1"},
		}}

		res, err := eng.Switch(p)
		require.NoError(t, err)
		assert.False(t, res.Success)

		data, _ := os.ReadFile(target)
		assert.Equal(t, "after", string(data))
	})

	t.Run("stops env phase at first failure", func(t *testing.T) {
		eng, root := newEngine(t)
		shell := filepath.Join(root, ".profile")

		p := &profile.Profile{ID: "p1", Items: []profile.ConfigItem{
			{ID: "e1", Type: profile.ItemEnvVar, Enabled: true, Name: "9BAD", Value: "v", ShellFile: shell},
			{ID: "e2", Type: profile.ItemEnvVar, Enabled: true, Name: "GOOD", Value: "v", ShellFile: shell},
		}}

		res, err := eng.Switch(p)
		require.NoError(t, err)
		assert.False(t, res.Success)
		require.Len(t, res.Items, 1)
		assert.Equal(t, "e1", res.Items[0].ItemID)
	})

	t.Run("second concurrent switch is rejected immediately", func(t *testing.T) {
		eng, root := newEngine(t)

		slow := &profile.Profile{ID: "slow", Items: []profile.ConfigItem{
			{ID: "c", Type: profile.ItemRunCommand, Enabled: true, Command: "sleep 1", WorkingDir: root},
		}}

		var wg sync.WaitGroup
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := eng.Switch(slow)
			assert.NoError(t, err)
			assert.True(t, res.Success)
		}()

		// Give the first switch time to take the lock.
		time.Sleep(200 * time.Millisecond)

		_, err := eng.Switch(&profile.Profile{ID: "p2"})
		assert.ErrorIs(t, err, engine.ErrSwitchInProgress)

		wg.Wait()
	})
}
